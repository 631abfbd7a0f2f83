package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyspace/tallyspace/internal/apperrors"
	"github.com/tallyspace/tallyspace/internal/core/domain"
)

// BaseRepository provides common functionality for all repositories.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction.
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Commit commits a transaction.
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls back a transaction. A rollback after commit is not an error.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, sql.ErrTxDone) && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// insertEvent appends one event to the workspace event log. It must run in
// the same transaction as the entity write that produced the event.
func insertEvent(ctx context.Context, tx pgx.Tx, event domain.SyncEvent) error {
	query := `
		INSERT INTO events (event_id, workspace_id, user_id, client_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	eventID := event.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}
	_, err := tx.Exec(ctx, query,
		eventID,
		event.WorkspaceID,
		event.UserID,
		nullStr(event.ClientID),
		event.Type,
		[]byte(event.Payload),
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append event %s: %w", event.Type, err)
	}
	return nil
}

// translateError maps PostgreSQL constraint violations to app errors.
func translateError(err error, entity string, id string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique violation
			return fmt.Errorf("%w: %s %s already exists", apperrors.ErrDuplicate, entity, id)
		case "23503": // foreign key violation
			return fmt.Errorf("%w: %s %s references a missing record", apperrors.ErrValidation, entity, id)
		}
	}
	return fmt.Errorf("failed to save %s %s: %w", entity, id, err)
}

// nullStr maps "" to NULL for optional foreign key columns.
func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// strOrEmpty unwraps a nullable text column.
func strOrEmpty(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
