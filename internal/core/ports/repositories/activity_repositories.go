package repositories

import (
	"context"

	"github.com/tallyspace/tallyspace/internal/core/domain"
)

// ActivityReader defines read operations for activity data.
type ActivityReader interface {
	// FindActivityByID retrieves an activity with its transactions and movement links.
	FindActivityByID(ctx context.Context, workspaceID string, activityID string) (*domain.Activity, error)

	// ListActivities retrieves a page of activities for a workspace, most recent
	// date first, each populated with transactions and movement links.
	ListActivities(ctx context.Context, workspaceID string, limit int, offset int) ([]domain.Activity, error)
}

// ActivityWriter defines write operations for activity data. Every write
// appends the given event to the workspace event log in the same transaction.
type ActivityWriter interface {
	// SaveActivity persists a new activity with its initial transactions and
	// returns the workspace-sequential number assigned to it.
	SaveActivity(ctx context.Context, activity domain.Activity, event domain.SyncEvent) (int64, error)

	// UpdateActivity updates the activity header fields only.
	UpdateActivity(ctx context.Context, activity domain.Activity, event domain.SyncEvent) error

	// DeleteActivity removes an activity with its transactions and movement links.
	DeleteActivity(ctx context.Context, workspaceID string, activityID string, event domain.SyncEvent) error

	SaveTransaction(ctx context.Context, workspaceID string, txn domain.Transaction, event domain.SyncEvent) error

	UpdateTransaction(ctx context.Context, workspaceID string, txn domain.Transaction, event domain.SyncEvent) error

	DeleteTransaction(ctx context.Context, workspaceID string, activityID string, transactionID string, event domain.SyncEvent) error
}

// ActivityRepositoryFacade combines all activity-related repository interfaces.
type ActivityRepositoryFacade interface {
	ActivityReader
	ActivityWriter
}
