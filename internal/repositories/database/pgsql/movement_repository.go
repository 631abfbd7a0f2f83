package pgsql

import (
	"context"
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

type PgxMovementRepository struct {
	BaseRepository
}

func newPgxMovementRepository(pool *pgxpool.Pool) portsrepo.MovementRepositoryFacade {
	return &PgxMovementRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.MovementRepositoryFacade = (*PgxMovementRepository)(nil)

const movementColumns = `movement_id, workspace_id, account_id, date, amount, name, created_at, created_by, last_updated_at, last_updated_by`

func scanMovement(row pgx.Row) (models.Movement, error) {
	var m models.Movement
	err := row.Scan(
		&m.MovementID,
		&m.WorkspaceID,
		&m.AccountID,
		&m.Date,
		&m.Amount,
		&m.Name,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func toDomainMovement(m models.Movement) domain.Movement {
	return domain.Movement{
		MovementID:  m.MovementID,
		WorkspaceID: m.WorkspaceID,
		AccountID:   m.AccountID,
		Date:        m.Date,
		Amount:      m.Amount,
		Name:        m.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// SaveMovement inserts a movement and appends its event atomically.
func (r *PgxMovementRepository) SaveMovement(ctx context.Context, movement domain.Movement, event domain.SyncEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, query,
		movement.MovementID,
		movement.WorkspaceID,
		movement.AccountID,
		movement.Date,
		movement.Amount,
		movement.Name,
		movement.CreatedAt,
		movement.CreatedBy,
		movement.LastUpdatedAt,
		movement.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "movement", movement.MovementID)
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateMovement updates movement fields and appends its event atomically.
func (r *PgxMovementRepository) UpdateMovement(ctx context.Context, movement domain.Movement, event domain.SyncEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE movements
		SET date = $1, amount = $2, name = $3, last_updated_at = $4, last_updated_by = $5
		WHERE movement_id = $6 AND workspace_id = $7;
	`
	tag, err := tx.Exec(ctx, query,
		movement.Date,
		movement.Amount,
		movement.Name,
		movement.LastUpdatedAt,
		movement.LastUpdatedBy,
		movement.MovementID,
		movement.WorkspaceID,
	)
	if err != nil {
		return translateError(err, "movement", movement.MovementID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: movement %s", apperrors.ErrNotFound, movement.MovementID)
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteMovement removes a movement with its links and appends its event
// atomically.
func (r *PgxMovementRepository) DeleteMovement(ctx context.Context, workspaceID string, movementID string, event domain.SyncEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM movement_links WHERE movement_id = $1;`, movementID); err != nil {
		return fmt.Errorf("failed to delete links for movement %s: %w", movementID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM movements WHERE movement_id = $1 AND workspace_id = $2;`, movementID, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete movement %s: %w", movementID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: movement %s", apperrors.ErrNotFound, movementID)
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveLink inserts a movement link and appends its event atomically.
func (r *PgxMovementRepository) SaveLink(ctx context.Context, workspaceID string, link domain.MovementLink, event domain.SyncEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO movement_links (link_id, activity_id, movement_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err = tx.Exec(ctx, query, link.LinkID, link.ActivityID, link.MovementID, link.Amount, time.Now().UTC())
	if err != nil {
		return translateError(err, "movement link", link.LinkID)
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateLink changes the linked amount and appends its event atomically.
func (r *PgxMovementRepository) UpdateLink(ctx context.Context, workspaceID string, link domain.MovementLink, event domain.SyncEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx,
		`UPDATE movement_links SET amount = $1 WHERE link_id = $2;`,
		link.Amount, link.LinkID,
	)
	if err != nil {
		return translateError(err, "movement link", link.LinkID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: movement link %s", apperrors.ErrNotFound, link.LinkID)
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteLink removes a movement link and appends its event atomically.
func (r *PgxMovementRepository) DeleteLink(ctx context.Context, workspaceID string, linkID string, event domain.SyncEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM movement_links WHERE link_id = $1;`, linkID)
	if err != nil {
		return fmt.Errorf("failed to delete movement link %s: %w", linkID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: movement link %s", apperrors.ErrNotFound, linkID)
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindMovementByID retrieves a movement within a workspace.
func (r *PgxMovementRepository) FindMovementByID(ctx context.Context, workspaceID string, movementID string) (*domain.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE movement_id = $1 AND workspace_id = $2;
	`
	m, err := scanMovement(r.Pool.QueryRow(ctx, query, movementID, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: movement %s", apperrors.ErrNotFound, movementID)
		}
		return nil, fmt.Errorf("failed to find movement %s: %w", movementID, err)
	}
	mov := toDomainMovement(m)
	return &mov, nil
}

// ListMovements retrieves a page of movements, most recent date first.
func (r *PgxMovementRepository) ListMovements(ctx context.Context, workspaceID string, accountID string, limit int, offset int) ([]domain.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE workspace_id = $1 AND ($2 = '' OR account_id = $2)
		ORDER BY date DESC, movement_id
		LIMIT $3 OFFSET $4;
	`
	rows, err := r.Pool.Query(ctx, query, workspaceID, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	defer rows.Close()

	var movements []domain.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		movements = append(movements, toDomainMovement(m))
	}
	return movements, rows.Err()
}

// FindLinkByID retrieves one movement link.
func (r *PgxMovementRepository) FindLinkByID(ctx context.Context, linkID string) (*domain.MovementLink, error) {
	var link domain.MovementLink
	err := r.Pool.QueryRow(ctx,
		`SELECT link_id, activity_id, movement_id, amount FROM movement_links WHERE link_id = $1;`,
		linkID,
	).Scan(&link.LinkID, &link.ActivityID, &link.MovementID, &link.Amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: movement link %s", apperrors.ErrNotFound, linkID)
		}
		return nil, fmt.Errorf("failed to find movement link %s: %w", linkID, err)
	}
	return &link, nil
}

// FindLinksByActivity retrieves all links attached to an activity.
func (r *PgxMovementRepository) FindLinksByActivity(ctx context.Context, activityID string) ([]domain.MovementLink, error) {
	return r.findLinks(ctx, `activity_id`, activityID)
}

// FindLinksByMovement retrieves all links attached to a movement.
func (r *PgxMovementRepository) FindLinksByMovement(ctx context.Context, movementID string) ([]domain.MovementLink, error) {
	return r.findLinks(ctx, `movement_id`, movementID)
}

func (r *PgxMovementRepository) findLinks(ctx context.Context, column string, id string) ([]domain.MovementLink, error) {
	query := `
		SELECT link_id, activity_id, movement_id, amount
		FROM movement_links
		WHERE ` + column + ` = $1
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list movement links: %w", err)
	}
	defer rows.Close()

	var links []domain.MovementLink
	for rows.Next() {
		var link domain.MovementLink
		if err := rows.Scan(&link.LinkID, &link.ActivityID, &link.MovementID, &link.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan movement link: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}
