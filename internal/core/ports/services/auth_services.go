package services

import (
	"context"

	"github.com/tallyspace/tallyspace/internal/dto"
)

// AuthSvcFacade handles registration, login and token refresh.
type AuthSvcFacade interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)

	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)

	Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.TokenResponse, error)

	Logout(ctx context.Context, userID string) error
}
