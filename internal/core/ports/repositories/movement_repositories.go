package repositories

import (
	"context"

	"github.com/tallyspace/tallyspace/internal/core/domain"
)

// MovementReader defines read operations for movements and their links.
type MovementReader interface {
	FindMovementByID(ctx context.Context, workspaceID string, movementID string) (*domain.Movement, error)

	// ListMovements retrieves movements for a workspace, most recent date
	// first, optionally filtered to one account (empty accountID means all).
	ListMovements(ctx context.Context, workspaceID string, accountID string, limit int, offset int) ([]domain.Movement, error)

	FindLinkByID(ctx context.Context, linkID string) (*domain.MovementLink, error)

	FindLinksByActivity(ctx context.Context, activityID string) ([]domain.MovementLink, error)

	FindLinksByMovement(ctx context.Context, movementID string) ([]domain.MovementLink, error)
}

// MovementWriter defines write operations for movements and their links.
// Every write appends the given event to the workspace event log in the same
// transaction.
type MovementWriter interface {
	SaveMovement(ctx context.Context, movement domain.Movement, event domain.SyncEvent) error

	UpdateMovement(ctx context.Context, movement domain.Movement, event domain.SyncEvent) error

	// DeleteMovement removes a movement together with its links.
	DeleteMovement(ctx context.Context, workspaceID string, movementID string, event domain.SyncEvent) error

	SaveLink(ctx context.Context, workspaceID string, link domain.MovementLink, event domain.SyncEvent) error

	UpdateLink(ctx context.Context, workspaceID string, link domain.MovementLink, event domain.SyncEvent) error

	DeleteLink(ctx context.Context, workspaceID string, linkID string, event domain.SyncEvent) error
}

// MovementRepositoryFacade combines all movement-related repository interfaces.
type MovementRepositoryFacade interface {
	MovementReader
	MovementWriter
}
