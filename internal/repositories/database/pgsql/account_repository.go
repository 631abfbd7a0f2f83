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

type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:           d.AccountID,
		WorkspaceID:         d.WorkspaceID,
		Name:                d.Name,
		AccountType:         string(d.AccountType),
		StartingBalance:     d.StartingBalance,
		StartingCashBalance: d.StartingCashBalance,
		IsDefault:           d.IsDefault,
		TracksMovements:     d.TracksMovements,
		IsActive:            d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:           m.AccountID,
		WorkspaceID:         m.WorkspaceID,
		Name:                m.Name,
		AccountType:         domain.AccountType(m.AccountType),
		StartingBalance:     m.StartingBalance,
		StartingCashBalance: m.StartingCashBalance,
		IsDefault:           m.IsDefault,
		TracksMovements:     m.TracksMovements,
		IsActive:            m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const accountColumns = `account_id, workspace_id, name, account_type, starting_balance, starting_cash_balance, is_default, tracks_movements, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.WorkspaceID,
		&m.Name,
		&m.AccountType,
		&m.StartingBalance,
		&m.StartingCashBalance,
		&m.IsDefault,
		&m.TracksMovements,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// insertAccountTx is shared with the workspace repository, which creates the
// default accounts while creating the workspace.
func insertAccountTx(ctx context.Context, tx pgx.Tx, m models.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, query,
		m.AccountID,
		m.WorkspaceID,
		m.Name,
		m.AccountType,
		m.StartingBalance,
		m.StartingCashBalance,
		m.IsDefault,
		m.TracksMovements,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return err
}

// SaveAccount inserts a new account and appends its event atomically.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account, event domain.SyncEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertAccountTx(ctx, tx, toModelAccount(account)); err != nil {
		return translateError(err, "account", account.AccountID)
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateAccount updates account details and appends its event atomically.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account, event domain.SyncEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE accounts
		SET name = $1, starting_balance = $2, starting_cash_balance = $3, tracks_movements = $4, last_updated_at = $5, last_updated_by = $6
		WHERE account_id = $7 AND workspace_id = $8;
	`
	tag, err := tx.Exec(ctx, query,
		account.Name,
		account.StartingBalance,
		account.StartingCashBalance,
		account.TracksMovements,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
		account.AccountID,
		account.WorkspaceID,
	)
	if err != nil {
		return translateError(err, "account", account.AccountID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeactivateAccount marks an account inactive and appends its event atomically.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, workspaceID string, accountID string, userID string, now time.Time, event domain.SyncEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $1, last_updated_by = $2
		WHERE account_id = $3 AND workspace_id = $4 AND is_active = TRUE;
	`
	tag, err := tx.Exec(ctx, query, now, userID, accountID, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindAccountByID retrieves an account within a workspace.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, workspaceID string, accountID string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = $1 AND workspace_id = $2;
	`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	acc := toDomainAccount(m)
	return &acc, nil
}

// FindAccountsByWorkspace retrieves all active accounts keyed by ID.
func (r *PgxAccountRepository) FindAccountsByWorkspace(ctx context.Context, workspaceID string) (map[string]domain.Account, error) {
	accounts, err := r.ListAccounts(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		byID[acc.AccountID] = acc
	}
	return byID, nil
}

// ListAccounts retrieves all active accounts for a workspace ordered by name.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, workspaceID string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE workspace_id = $1 AND is_active = TRUE
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, toDomainAccount(m))
	}
	return accounts, rows.Err()
}
