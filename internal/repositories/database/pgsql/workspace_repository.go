package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyspace/tallyspace/internal/apperrors"
	"github.com/tallyspace/tallyspace/internal/core/domain"
	portsrepo "github.com/tallyspace/tallyspace/internal/core/ports/repositories"
)

type PgxWorkspaceRepository struct {
	BaseRepository
}

func newPgxWorkspaceRepository(pool *pgxpool.Pool) portsrepo.WorkspaceRepositoryFacade {
	return &PgxWorkspaceRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.WorkspaceRepositoryFacade = (*PgxWorkspaceRepository)(nil)

// SaveWorkspace creates the workspace, the creator's membership and the
// default accounts in one transaction.
func (r *PgxWorkspaceRepository) SaveWorkspace(ctx context.Context, workspace domain.Workspace, membership domain.UserWorkspace, defaults []domain.Account) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO workspaces (workspace_id, name, description, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, query,
		workspace.WorkspaceID,
		workspace.Name,
		workspace.Description,
		workspace.IsActive,
		workspace.CreatedAt,
		workspace.CreatedBy,
		workspace.LastUpdatedAt,
		workspace.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "workspace", workspace.WorkspaceID)
	}

	if err := insertMembershipTx(ctx, tx, membership); err != nil {
		return err
	}

	for _, account := range defaults {
		if err := insertAccountTx(ctx, tx, toModelAccount(account)); err != nil {
			return translateError(err, "account", account.AccountID)
		}
	}

	return r.Commit(ctx, tx)
}

func insertMembershipTx(ctx context.Context, tx pgx.Tx, m domain.UserWorkspace) error {
	query := `
		INSERT INTO user_workspaces (user_id, workspace_id, role, joined_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err := tx.Exec(ctx, query,
		m.UserID,
		m.WorkspaceID,
		string(m.Role),
		m.JoinedAt,
	)
	if err != nil {
		return translateError(err, "membership", m.UserID)
	}
	return nil
}

// AddUserToWorkspace inserts a membership row.
func (r *PgxWorkspaceRepository) AddUserToWorkspace(ctx context.Context, membership domain.UserWorkspace) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertMembershipTx(ctx, tx, membership); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateUserWorkspaceRole changes a member's role.
func (r *PgxWorkspaceRepository) UpdateUserWorkspaceRole(ctx context.Context, membership domain.UserWorkspace) error {
	query := `
		UPDATE user_workspaces
		SET role = $1
		WHERE user_id = $2 AND workspace_id = $3;
	`
	tag, err := r.Pool.Exec(ctx, query,
		string(membership.Role),
		membership.UserID,
		membership.WorkspaceID,
	)
	if err != nil {
		return fmt.Errorf("failed to update role for user %s: %w", membership.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: membership for user %s", apperrors.ErrNotFound, membership.UserID)
	}
	return nil
}

// FindWorkspaceByID retrieves a workspace by ID.
func (r *PgxWorkspaceRepository) FindWorkspaceByID(ctx context.Context, workspaceID string) (*domain.Workspace, error) {
	query := `
		SELECT workspace_id, name, description, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM workspaces
		WHERE workspace_id = $1;
	`
	var w domain.Workspace
	err := r.Pool.QueryRow(ctx, query, workspaceID).Scan(
		&w.WorkspaceID, &w.Name, &w.Description, &w.IsActive,
		&w.CreatedAt, &w.CreatedBy, &w.LastUpdatedAt, &w.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: workspace %s", apperrors.ErrNotFound, workspaceID)
		}
		return nil, fmt.Errorf("failed to find workspace %s: %w", workspaceID, err)
	}
	return &w, nil
}

// ListWorkspacesByUser retrieves workspaces the user is an active member of.
func (r *PgxWorkspaceRepository) ListWorkspacesByUser(ctx context.Context, userID string) ([]domain.Workspace, error) {
	query := `
		SELECT w.workspace_id, w.name, w.description, w.is_active, w.created_at, w.created_by, w.last_updated_at, w.last_updated_by
		FROM workspaces w
		JOIN user_workspaces uw ON uw.workspace_id = w.workspace_id
		WHERE uw.user_id = $1 AND uw.role <> 'REMOVED'
		ORDER BY w.name;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []domain.Workspace
	for rows.Next() {
		var w domain.Workspace
		err := rows.Scan(
			&w.WorkspaceID, &w.Name, &w.Description, &w.IsActive,
			&w.CreatedAt, &w.CreatedBy, &w.LastUpdatedAt, &w.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		workspaces = append(workspaces, w)
	}
	return workspaces, rows.Err()
}

// FindUserWorkspaceRole returns the membership row for a user in a workspace.
func (r *PgxWorkspaceRepository) FindUserWorkspaceRole(ctx context.Context, userID string, workspaceID string) (*domain.UserWorkspace, error) {
	query := `
		SELECT user_id, workspace_id, role, joined_at
		FROM user_workspaces
		WHERE user_id = $1 AND workspace_id = $2;
	`
	var m domain.UserWorkspace
	var role string
	err := r.Pool.QueryRow(ctx, query, userID, workspaceID).Scan(&m.UserID, &m.WorkspaceID, &role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s in workspace %s", apperrors.ErrNotFound, userID, workspaceID)
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	m.Role = domain.UserWorkspaceRole(role)
	return &m, nil
}
