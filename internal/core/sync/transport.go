package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tallyspace/tallyspace/internal/core/domain"
)

// ErrUnavailable indicates a transport-level failure: the server could not
// be reached at all. The mutation at the head of the queue stays queued and
// is retried on the next drain, unlike a server rejection.
var ErrUnavailable = errors.New("server unavailable")

// ErrRejected indicates the server received the mutation and refused it.
var ErrRejected = errors.New("mutation rejected")

// EventBatch is one catch-up page of the event log. ServerTime is the
// server's clock at the moment it answered; the engine stores it as the next
// watermark so client clock skew cannot skip events.
type EventBatch struct {
	ServerTime time.Time          `json:"serverTime"`
	Events     []domain.SyncEvent `json:"events"`
}

// Transport executes mutations against the server and fetches missed events.
type Transport interface {
	// Execute runs one mutation and returns the raw result data.
	Execute(ctx context.Context, m Mutation) (json.RawMessage, error)

	// Events returns the event envelopes recorded for the workspace strictly
	// after since, oldest first, together with the server-side watermark.
	Events(ctx context.Context, since time.Time, workspaceID string) (EventBatch, error)
}

// graphQLRequest is the standard GraphQL-over-HTTP POST body.
type graphQLRequest struct {
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// eventsQuery is the catch-up replay query. The response shape mirrors
// domain.SyncEvent.
const eventsQuery = `query events($lastSync: DateTime!, $workspace: ID!) {
  serverTime
  events(lastSync: $lastSync, workspace: $workspace) {
    eventID type payload createdAt clientID userID workspaceID
  }
}`

// Client is a GraphQL-over-HTTP Transport. The client ID travels on every
// request so the server can stamp it onto the events this client produces;
// without it the engine cannot recognize its own events during catch-up.
type Client struct {
	endpoint   string
	authToken  string
	clientID   string
	httpClient *http.Client
}

// NewClient creates a transport for the given GraphQL endpoint.
func NewClient(endpoint, authToken, clientID string) *Client {
	return &Client{
		endpoint:   endpoint,
		authToken:  authToken,
		clientID:   clientID,
		httpClient: &http.Client{},
	}
}

var _ Transport = (*Client)(nil)

// Execute posts the mutation document. Connection-level failures map to
// ErrUnavailable; GraphQL errors map to ErrRejected.
func (c *Client) Execute(ctx context.Context, m Mutation) (json.RawMessage, error) {
	resp, err := c.post(ctx, graphQLRequest{
		OperationName: m.Name,
		Query:         m.Document,
		Variables:     m.Variables,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		messages := make([]string, 0, len(resp.Errors))
		for _, gqlErr := range resp.Errors {
			messages = append(messages, gqlErr.Message)
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrRejected, m.Name, strings.Join(messages, "; "))
	}
	return resp.Data, nil
}

// Events fetches the envelopes recorded after since for catch-up replay.
func (c *Client) Events(ctx context.Context, since time.Time, workspaceID string) (EventBatch, error) {
	resp, err := c.post(ctx, graphQLRequest{
		Query: eventsQuery,
		Variables: map[string]any{
			"lastSync":  since.Format(time.RFC3339Nano),
			"workspace": workspaceID,
		},
	})
	if err != nil {
		return EventBatch{}, err
	}
	if len(resp.Errors) > 0 {
		return EventBatch{}, fmt.Errorf("%w: events: %s", ErrRejected, resp.Errors[0].Message)
	}

	var batch EventBatch
	if err := json.Unmarshal(resp.Data, &batch); err != nil {
		return EventBatch{}, fmt.Errorf("failed to decode events response: %w", err)
	}
	return batch, nil
}

func (c *Client) post(ctx context.Context, request graphQLRequest) (*graphQLResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	if c.clientID != "" {
		httpReq.Header.Set("X-Client-ID", c.clientID)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Connection refused, DNS failure, timeout: the intent is still
		// valid, just undelivered.
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer httpResp.Body.Close()

	// Only gateway statuses mean the server could not be reached; a plain
	// 500 is deterministic and retrying it would block the queue head
	// forever, so it falls through to the rejection path below.
	switch httpResp.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return nil, fmt.Errorf("%w: server returned %d", ErrUnavailable, httpResp.StatusCode)
	}

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var resp graphQLResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		if httpResp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: server returned %d", ErrRejected, httpResp.StatusCode)
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK && len(resp.Errors) == 0 {
		return nil, fmt.Errorf("%w: server returned %d", ErrRejected, httpResp.StatusCode)
	}
	return &resp, nil
}
