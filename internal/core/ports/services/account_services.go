package services

import (
	"context"

	"github.com/tallyspace/tallyspace/internal/dto"
)

// AccountSvcFacade manages accounts within a workspace.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, workspaceID string, req dto.CreateAccountRequest, userID string) (*dto.AccountResponse, error)

	UpdateAccount(ctx context.Context, workspaceID string, accountID string, req dto.UpdateAccountRequest, userID string) (*dto.AccountResponse, error)

	// DeleteAccount deactivates the account; default accounts cannot be deleted.
	DeleteAccount(ctx context.Context, workspaceID string, accountID string, userID string) error

	GetAccountByID(ctx context.Context, workspaceID string, accountID string) (*dto.AccountResponse, error)

	ListAccounts(ctx context.Context, workspaceID string) ([]dto.AccountResponse, error)
}
