package repositories

import (
	"context"
	"time"

	"github.com/tallyspace/tallyspace/internal/core/domain"
)

// UserReader defines read operations for user data. Credential hashes never
// appear on domain.User; they are returned separately to the auth service.
type UserReader interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user along with their password hash.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, string, error)

	// FindRefreshTokenHash returns the hash of the currently valid refresh
	// token, or empty when none is set.
	FindRefreshTokenHash(ctx context.Context, userID string) (string, error)
}

// UserWriter defines write operations for user data.
type UserWriter interface {
	SaveUser(ctx context.Context, user domain.User, passwordHash string) error

	UpdateUser(ctx context.Context, user domain.User) error

	// UpdateRefreshTokenHash stores the hash of the currently valid refresh
	// token; an empty hash revokes it.
	UpdateRefreshTokenHash(ctx context.Context, userID string, hash string, now time.Time) error
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
