package repositories

import (
	"context"

	"github.com/tallyspace/tallyspace/internal/core/domain"
)

// WorkspaceReader defines read operations for workspaces and memberships.
type WorkspaceReader interface {
	FindWorkspaceByID(ctx context.Context, workspaceID string) (*domain.Workspace, error)

	ListWorkspacesByUser(ctx context.Context, userID string) ([]domain.Workspace, error)

	// FindUserWorkspaceRole returns the membership row, or ErrNotFound when
	// the user does not belong to the workspace.
	FindUserWorkspaceRole(ctx context.Context, userID string, workspaceID string) (*domain.UserWorkspace, error)
}

// WorkspaceWriter defines write operations for workspaces and memberships.
type WorkspaceWriter interface {
	// SaveWorkspace creates the workspace, the creator's admin membership and
	// the workspace's default accounts in one transaction.
	SaveWorkspace(ctx context.Context, workspace domain.Workspace, membership domain.UserWorkspace, defaults []domain.Account) error

	AddUserToWorkspace(ctx context.Context, membership domain.UserWorkspace) error

	UpdateUserWorkspaceRole(ctx context.Context, membership domain.UserWorkspace) error
}

// WorkspaceRepositoryFacade combines all workspace-related repository interfaces.
type WorkspaceRepositoryFacade interface {
	WorkspaceReader
	WorkspaceWriter
}
