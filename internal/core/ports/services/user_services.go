package services

import (
	"context"

	"github.com/tallyspace/tallyspace/internal/dto"
)

// UserSvcFacade exposes user profile operations.
type UserSvcFacade interface {
	GetUserByID(ctx context.Context, userID string) (*dto.UserResponse, error)
}
