package repositories

import (
	"context"
	"time"

	"github.com/tallyspace/tallyspace/internal/core/domain"
)

// EventRepository reads the append-only workspace event log. Appends happen
// inside the entity repositories so an event always commits with the write
// that produced it.
type EventRepository interface {
	// ListEventsSince retrieves events recorded strictly after the given
	// instant, ordered oldest first.
	ListEventsSince(ctx context.Context, workspaceID string, since time.Time) ([]domain.SyncEvent, error)
}
