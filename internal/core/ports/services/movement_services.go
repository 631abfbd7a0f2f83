package services

import (
	"context"

	"github.com/tallyspace/tallyspace/internal/dto"
)

// MovementSvcFacade manages movements and movement links. Responses carry the
// derived movement status, computed at read time.
type MovementSvcFacade interface {
	CreateMovement(ctx context.Context, workspaceID string, req dto.CreateMovementRequest, userID string) (*dto.MovementResponse, error)

	UpdateMovement(ctx context.Context, workspaceID string, movementID string, req dto.UpdateMovementRequest, userID string) (*dto.MovementResponse, error)

	DeleteMovement(ctx context.Context, workspaceID string, movementID string, userID string) error

	GetMovementByID(ctx context.Context, workspaceID string, movementID string) (*dto.MovementResponse, error)

	ListMovements(ctx context.Context, workspaceID string, accountID string, limit int, offset int) (*dto.ListMovementsResponse, error)

	CreateLink(ctx context.Context, workspaceID string, req dto.CreateMovementLinkRequest, userID string) (*dto.MovementLinkResponse, error)

	UpdateLink(ctx context.Context, workspaceID string, linkID string, req dto.UpdateMovementLinkRequest, userID string) (*dto.MovementLinkResponse, error)

	DeleteLink(ctx context.Context, workspaceID string, linkID string, userID string) error
}
