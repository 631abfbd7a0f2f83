package services

import (
	"context"

	"github.com/tallyspace/tallyspace/internal/core/domain"
	"github.com/tallyspace/tallyspace/internal/dto"
)

// WorkspaceSvcFacade manages workspaces and memberships.
type WorkspaceSvcFacade interface {
	// CreateWorkspace creates a workspace with its default accounts and makes
	// the creator an admin.
	CreateWorkspace(ctx context.Context, req dto.CreateWorkspaceRequest, userID string) (*dto.WorkspaceResponse, error)

	ListWorkspaces(ctx context.Context, userID string) ([]dto.WorkspaceResponse, error)

	AddUserToWorkspace(ctx context.Context, workspaceID string, req dto.AddUserToWorkspaceRequest, actingUserID string) error

	// AuthorizeMember returns the caller's role, or ErrForbidden when the
	// caller is not an active member of the workspace.
	AuthorizeMember(ctx context.Context, userID string, workspaceID string) (domain.UserWorkspaceRole, error)

	// AuthorizeWriter is AuthorizeMember restricted to roles that may mutate data.
	AuthorizeWriter(ctx context.Context, userID string, workspaceID string) (domain.UserWorkspaceRole, error)
}
