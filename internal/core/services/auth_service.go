package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tallyspace/tallyspace/internal/apperrors"
	"github.com/tallyspace/tallyspace/internal/core/domain"
	portsrepo "github.com/tallyspace/tallyspace/internal/core/ports/repositories"
	"github.com/tallyspace/tallyspace/internal/dto"
	"github.com/tallyspace/tallyspace/internal/middleware"
	"github.com/tallyspace/tallyspace/internal/utils"
)

type AuthService struct {
	userRepo      portsrepo.UserRepositoryFacade
	jwtSecret     string
	jwtExpiry     time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(userRepo portsrepo.UserRepositoryFacade, jwtSecret string, jwtExpiry, refreshExpiry time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiry:     jwtExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// Register creates a new user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	userID := uuid.NewString()
	user := domain.User{
		UserID: userID,
		Name:   req.Name,
		Email:  req.Email,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user, hash); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("failed to save user", slog.String("error", err.Error()))
		}
		return nil, err
	}

	logger.Info("user registered", slog.String("userID", user.UserID))
	return &dto.UserResponse{
		UserID:    user.UserID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, passwordHash, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(req.Password, passwordHash) {
		logger.Warn("login failed", slog.String("userID", user.UserID))
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	return s.issueTokens(ctx, user.UserID)
}

// Refresh rotates the refresh token and issues a new token pair.
func (s *AuthService) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.TokenResponse, error) {
	userID, err := utils.ParseAndValidateJWT(req.RefreshToken, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", apperrors.ErrUnauthorized)
	}

	storedHash, err := s.userRepo.FindRefreshTokenHash(ctx, userID)
	if err != nil {
		return nil, err
	}
	if storedHash == "" || storedHash != utils.HashToken(req.RefreshToken) {
		return nil, fmt.Errorf("%w: refresh token revoked", apperrors.ErrUnauthorized)
	}

	return s.issueTokens(ctx, userID)
}

// Logout revokes the user's refresh token.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.userRepo.UpdateRefreshTokenHash(ctx, userID, "", time.Now().UTC())
}

func (s *AuthService) issueTokens(ctx context.Context, userID string) (*dto.TokenResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accessToken, err := utils.GenerateJWT(userID, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		logger.Error("failed to generate access token", slog.String("error", err.Error()))
		return nil, err
	}
	refreshToken, err := utils.GenerateJWT(userID, s.jwtSecret, s.refreshExpiry)
	if err != nil {
		logger.Error("failed to generate refresh token", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.userRepo.UpdateRefreshTokenHash(ctx, userID, utils.HashToken(refreshToken), time.Now().UTC()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtExpiry.Seconds()),
	}, nil
}
