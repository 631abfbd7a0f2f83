package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tallyspace/tallyspace/internal/core/domain"
	"github.com/tallyspace/tallyspace/internal/middleware"
)

// stampEvent wraps a domain event in its log envelope. The client ID is taken
// from the request context when the caller identified itself with one, so
// clients can recognize and skip their own events during catch-up. The event
// ID lets clients drop envelopes they already applied when a fetch window
// overlaps the previous one.
func stampEvent(ctx context.Context, event domain.Event, workspaceID string, userID string, now time.Time) (domain.SyncEvent, error) {
	envelope, err := domain.EncodeEvent(event)
	if err != nil {
		return domain.SyncEvent{}, err
	}
	envelope.EventID = uuid.NewString()
	envelope.CreatedAt = now
	envelope.WorkspaceID = workspaceID
	envelope.UserID = userID
	if clientID, ok := middleware.GetClientIDFromContext(ctx); ok {
		envelope.ClientID = clientID
	}
	return envelope, nil
}
