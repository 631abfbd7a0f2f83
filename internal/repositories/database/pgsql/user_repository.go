package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyspace/tallyspace/internal/apperrors"
	"github.com/tallyspace/tallyspace/internal/core/domain"
	portsrepo "github.com/tallyspace/tallyspace/internal/core/ports/repositories"
	"github.com/tallyspace/tallyspace/internal/models"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func toDomainUser(m models.User) domain.User {
	return domain.User{
		UserID: m.UserID,
		Name:   m.Name,
		Email:  m.Email,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// SaveUser inserts a new user with their password hash.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User, passwordHash string) error {
	query := `
		INSERT INTO users (user_id, name, email, password_hash, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		user.UserID,
		user.Name,
		user.Email,
		passwordHash,
		user.CreatedAt,
		user.CreatedBy,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "user", user.Email)
	}
	return nil
}

// UpdateUser updates profile fields.
func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	query := `
		UPDATE users
		SET name = $1, last_updated_at = $2, last_updated_by = $3
		WHERE user_id = $4 AND deleted_at IS NULL;
	`
	tag, err := r.Pool.Exec(ctx, query, user.Name, user.LastUpdatedAt, user.LastUpdatedBy, user.UserID)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, user.UserID)
	}
	return nil
}

// UpdateRefreshTokenHash stores the hash of the current refresh token.
func (r *PgxUserRepository) UpdateRefreshTokenHash(ctx context.Context, userID string, hash string, now time.Time) error {
	query := `
		UPDATE users
		SET refresh_token_hash = $1, last_updated_at = $2, last_updated_by = $3
		WHERE user_id = $4 AND deleted_at IS NULL;
	`
	tag, err := r.Pool.Exec(ctx, query, nullStr(hash), now, userID, userID)
	if err != nil {
		return fmt.Errorf("failed to update refresh token for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
	}
	return nil
}

// FindUserByID retrieves a user by ID.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, name, email, created_at, created_by, last_updated_at, last_updated_by
		FROM users
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	var m models.User
	err := r.Pool.QueryRow(ctx, query, userID).Scan(
		&m.UserID, &m.Name, &m.Email,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to find user %s: %w", userID, err)
	}
	user := toDomainUser(m)
	return &user, nil
}

// FindUserByEmail retrieves a user along with their password hash.
func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	query := `
		SELECT user_id, name, email, password_hash, created_at, created_by, last_updated_at, last_updated_by
		FROM users
		WHERE email = $1 AND deleted_at IS NULL;
	`
	var m models.User
	err := r.Pool.QueryRow(ctx, query, email).Scan(
		&m.UserID, &m.Name, &m.Email, &m.PasswordHash,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", fmt.Errorf("%w: user with email %s", apperrors.ErrNotFound, email)
		}
		return nil, "", fmt.Errorf("failed to find user by email: %w", err)
	}
	user := toDomainUser(m)
	return &user, m.PasswordHash, nil
}

// FindRefreshTokenHash returns the stored refresh token hash, if any.
func (r *PgxUserRepository) FindRefreshTokenHash(ctx context.Context, userID string) (string, error) {
	var hash sql.NullString
	err := r.Pool.QueryRow(ctx,
		`SELECT refresh_token_hash FROM users WHERE user_id = $1 AND deleted_at IS NULL;`,
		userID,
	).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
		}
		return "", fmt.Errorf("failed to find refresh token for user %s: %w", userID, err)
	}
	return strOrEmpty(hash), nil
}
