package repositories

import (
	"context"
	"time"

	"github.com/tallyspace/tallyspace/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account within a workspace.
	FindAccountByID(ctx context.Context, workspaceID string, accountID string) (*domain.Account, error)

	// FindAccountsByWorkspace retrieves all active accounts keyed by ID.
	FindAccountsByWorkspace(ctx context.Context, workspaceID string) (map[string]domain.Account, error)

	// ListAccounts retrieves all active accounts for a workspace ordered by name.
	ListAccounts(ctx context.Context, workspaceID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data. Every write
// appends the given event to the workspace event log in the same transaction.
type AccountWriter interface {
	SaveAccount(ctx context.Context, account domain.Account, event domain.SyncEvent) error

	UpdateAccount(ctx context.Context, account domain.Account, event domain.SyncEvent) error

	// DeactivateAccount marks an account inactive; listings skip it afterwards.
	DeactivateAccount(ctx context.Context, workspaceID string, accountID string, userID string, now time.Time, event domain.SyncEvent) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
