package services

import (
	"context"
	"time"

	"github.com/tallyspace/tallyspace/internal/dto"
)

// EventSvcFacade exposes the workspace event log for client catch-up.
type EventSvcFacade interface {
	// ListEventsSince returns events recorded strictly after the given
	// instant, oldest first, with the server time as the next watermark.
	ListEventsSince(ctx context.Context, workspaceID string, since time.Time) (*dto.ListEventsResponse, error)
}
