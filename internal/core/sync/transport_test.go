package sync_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyspace/tallyspace/internal/core/domain"
	"github.com/tallyspace/tallyspace/internal/core/sync"
)

// fakeServer answers the GraphQL endpoint the way the real one does: it
// records the client ID header of every request and stamps it onto the
// events it hands back, exactly as the auth middleware does server-side.
type fakeServer struct {
	clientIDs []string
	events    []domain.SyncEvent
}

func (f *fakeServer) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.clientIDs = append(f.clientIDs, r.Header.Get("X-Client-ID"))

		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		if strings.HasPrefix(strings.TrimSpace(req.Query), "mutation") {
			// Log the mutation's event under the caller's client ID.
			event, err := domain.EncodeEvent(domain.AccountCreated{Account: domain.Account{AccountID: "a1"}})
			assert.NoError(t, err)
			event.EventID = "evt-a1"
			event.ClientID = r.Header.Get("X-Client-ID")
			event.CreatedAt = time.Now().UTC()
			f.events = append(f.events, event)

			assert.NoError(t, json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}}))
			return
		}

		batch := sync.EventBatch{ServerTime: time.Now().UTC(), Events: f.events}
		assert.NoError(t, json.NewEncoder(w).Encode(map[string]any{"data": batch}))
	}
}

func TestClient_SendsClientIDHeader(t *testing.T) {
	server := &fakeServer{}
	ts := httptest.NewServer(server.handler(t))
	defer ts.Close()

	client := sync.NewClient(ts.URL, "token", "client-1")

	_, err := client.Execute(context.Background(), accountMutation("a1"))
	require.NoError(t, err)
	_, err = client.Events(context.Background(), time.Time{}, "ws-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"client-1", "client-1"}, server.clientIDs)
}

func TestClient_OwnEventsAreSkippedOnCatchUp(t *testing.T) {
	server := &fakeServer{}
	ts := httptest.NewServer(server.handler(t))
	defer ts.Close()

	client := sync.NewClient(ts.URL, "token", "client-1")
	store := &recordingStore{}
	engine := newEngine(t, client, store)

	require.NoError(t, engine.Mutate(context.Background(), accountMutation("a1")))
	require.Equal(t, 0, engine.Pending())
	require.Len(t, store.events, 1, "optimistic application")

	// The server hands the event back stamped with this client's ID; replay
	// must not apply it a second time.
	require.NoError(t, engine.FetchMissingEvents(context.Background()))
	assert.Len(t, store.events, 1, "own event must not be re-applied")
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"service unavailable keeps the mutation queued", http.StatusServiceUnavailable, sync.ErrUnavailable},
		{"bad gateway keeps the mutation queued", http.StatusBadGateway, sync.ErrUnavailable},
		{"gateway timeout keeps the mutation queued", http.StatusGatewayTimeout, sync.ErrUnavailable},
		{"internal error rejects so the queue does not wedge", http.StatusInternalServerError, sync.ErrRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", tt.status)
			}))
			defer ts.Close()

			client := sync.NewClient(ts.URL, "token", "client-1")
			_, err := client.Execute(context.Background(), accountMutation("a1"))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
