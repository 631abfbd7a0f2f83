package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyspace/tallyspace/internal/apperrors"
	"github.com/tallyspace/tallyspace/internal/core/domain"
	portsrepo "github.com/tallyspace/tallyspace/internal/core/ports/repositories"
	"github.com/tallyspace/tallyspace/internal/models"
)

type PgxActivityRepository struct {
	BaseRepository
}

func newPgxActivityRepository(pool *pgxpool.Pool) portsrepo.ActivityRepositoryFacade {
	return &PgxActivityRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ActivityRepositoryFacade = (*PgxActivityRepository)(nil)

func toModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:      d.TransactionID,
		ActivityID:         d.ActivityID,
		Amount:             d.Amount,
		FromAccountID:      d.FromAccountID,
		ToAccountID:        d.ToAccountID,
		FromCounterpartyID: d.FromCounterpartyID,
		ToCounterpartyID:   d.ToCounterpartyID,
		FromAssetID:        d.FromAssetID,
		ToAssetID:          d.ToAssetID,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

const activityColumns = `activity_id, workspace_id, user_id, number, name, description, date, activity_type, category_id, subcategory_id, project_id, created_at, created_by, last_updated_at, last_updated_by`

func scanActivity(row pgx.Row) (models.Activity, error) {
	var m models.Activity
	var categoryID, subcategoryID, projectID sql.NullString
	err := row.Scan(
		&m.ActivityID,
		&m.WorkspaceID,
		&m.UserID,
		&m.Number,
		&m.Name,
		&m.Description,
		&m.Date,
		&m.ActivityType,
		&categoryID,
		&subcategoryID,
		&projectID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	m.CategoryID = strOrEmpty(categoryID)
	m.SubcategoryID = strOrEmpty(subcategoryID)
	m.ProjectID = strOrEmpty(projectID)
	return m, err
}

func toDomainActivity(m models.Activity) domain.Activity {
	return domain.Activity{
		ActivityID:    m.ActivityID,
		WorkspaceID:   m.WorkspaceID,
		UserID:        m.UserID,
		Number:        m.Number,
		Name:          m.Name,
		Description:   m.Description,
		Date:          m.Date,
		ActivityType:  domain.ActivityType(m.ActivityType),
		CategoryID:    m.CategoryID,
		SubcategoryID: m.SubcategoryID,
		ProjectID:     m.ProjectID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func insertTransactionTx(ctx context.Context, tx pgx.Tx, m models.Transaction) error {
	query := `
		INSERT INTO transactions (transaction_id, activity_id, amount, from_account_id, to_account_id, from_counterparty_id, to_counterparty_id, from_asset_id, to_asset_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.ActivityID,
		m.Amount,
		nullStr(m.FromAccountID),
		nullStr(m.ToAccountID),
		nullStr(m.FromCounterpartyID),
		nullStr(m.ToCounterpartyID),
		nullStr(m.FromAssetID),
		nullStr(m.ToAssetID),
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return err
}

// SaveActivity inserts the activity with its initial transactions, assigns the
// next workspace-sequential number and appends its event, all atomically.
func (r *PgxActivityRepository) SaveActivity(ctx context.Context, activity domain.Activity, event domain.SyncEvent) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	var number int64
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(number), 0) + 1 FROM activities WHERE workspace_id = $1;`,
		activity.WorkspaceID,
	).Scan(&number)
	if err != nil {
		return 0, fmt.Errorf("failed to assign activity number: %w", err)
	}

	query := `
		INSERT INTO activities (` + activityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = tx.Exec(ctx, query,
		activity.ActivityID,
		activity.WorkspaceID,
		activity.UserID,
		number,
		activity.Name,
		activity.Description,
		activity.Date,
		string(activity.ActivityType),
		nullStr(activity.CategoryID),
		nullStr(activity.SubcategoryID),
		nullStr(activity.ProjectID),
		activity.CreatedAt,
		activity.CreatedBy,
		activity.LastUpdatedAt,
		activity.LastUpdatedBy,
	)
	if err != nil {
		return 0, translateError(err, "activity", activity.ActivityID)
	}

	for _, txn := range activity.Transactions {
		if err := insertTransactionTx(ctx, tx, toModelTransaction(txn)); err != nil {
			return 0, translateError(err, "transaction", txn.TransactionID)
		}
	}

	if err := insertEvent(ctx, tx, event); err != nil {
		return 0, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return number, nil
}

// UpdateActivity updates the header fields and appends its event atomically.
func (r *PgxActivityRepository) UpdateActivity(ctx context.Context, activity domain.Activity, event domain.SyncEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE activities
		SET name = $1, description = $2, date = $3, activity_type = $4, category_id = $5, subcategory_id = $6, project_id = $7, last_updated_at = $8, last_updated_by = $9
		WHERE activity_id = $10 AND workspace_id = $11;
	`
	tag, err := tx.Exec(ctx, query,
		activity.Name,
		activity.Description,
		activity.Date,
		string(activity.ActivityType),
		nullStr(activity.CategoryID),
		nullStr(activity.SubcategoryID),
		nullStr(activity.ProjectID),
		activity.LastUpdatedAt,
		activity.LastUpdatedBy,
		activity.ActivityID,
		activity.WorkspaceID,
	)
	if err != nil {
		return translateError(err, "activity", activity.ActivityID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: activity %s", apperrors.ErrNotFound, activity.ActivityID)
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteActivity removes the activity with its transactions and movement
// links and appends its event atomically.
func (r *PgxActivityRepository) DeleteActivity(ctx context.Context, workspaceID string, activityID string, event domain.SyncEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM movement_links WHERE activity_id = $1;`, activityID); err != nil {
		return fmt.Errorf("failed to delete links for activity %s: %w", activityID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE activity_id = $1;`, activityID); err != nil {
		return fmt.Errorf("failed to delete transactions for activity %s: %w", activityID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM activities WHERE activity_id = $1 AND workspace_id = $2;`, activityID, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete activity %s: %w", activityID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: activity %s", apperrors.ErrNotFound, activityID)
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveTransaction adds a transaction to an existing activity.
func (r *PgxActivityRepository) SaveTransaction(ctx context.Context, workspaceID string, txn domain.Transaction, event domain.SyncEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertTransactionTx(ctx, tx, toModelTransaction(txn)); err != nil {
		return translateError(err, "transaction", txn.TransactionID)
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateTransaction updates one transaction and appends its event atomically.
func (r *PgxActivityRepository) UpdateTransaction(ctx context.Context, workspaceID string, txn domain.Transaction, event domain.SyncEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE transactions
		SET amount = $1, from_account_id = $2, to_account_id = $3, from_counterparty_id = $4, to_counterparty_id = $5, from_asset_id = $6, to_asset_id = $7, last_updated_at = $8, last_updated_by = $9
		WHERE transaction_id = $10 AND activity_id = $11;
	`
	tag, err := tx.Exec(ctx, query,
		txn.Amount,
		nullStr(txn.FromAccountID),
		nullStr(txn.ToAccountID),
		nullStr(txn.FromCounterpartyID),
		nullStr(txn.ToCounterpartyID),
		nullStr(txn.FromAssetID),
		nullStr(txn.ToAssetID),
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
		txn.TransactionID,
		txn.ActivityID,
	)
	if err != nil {
		return translateError(err, "transaction", txn.TransactionID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, txn.TransactionID)
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteTransaction removes one transaction and appends its event atomically.
func (r *PgxActivityRepository) DeleteTransaction(ctx context.Context, workspaceID string, activityID string, transactionID string, event domain.SyncEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM transactions WHERE transaction_id = $1 AND activity_id = $2;`,
		transactionID, activityID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindActivityByID retrieves an activity with its transactions and links.
func (r *PgxActivityRepository) FindActivityByID(ctx context.Context, workspaceID string, activityID string) (*domain.Activity, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE activity_id = $1 AND workspace_id = $2;
	`
	m, err := scanActivity(r.Pool.QueryRow(ctx, query, activityID, workspaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: activity %s", apperrors.ErrNotFound, activityID)
		}
		return nil, fmt.Errorf("failed to find activity %s: %w", activityID, err)
	}

	activity := toDomainActivity(m)
	byID := map[string]*domain.Activity{activity.ActivityID: &activity}
	if err := r.loadChildren(ctx, byID); err != nil {
		return nil, err
	}
	return &activity, nil
}

// ListActivities retrieves a page of activities, most recent date first.
func (r *PgxActivityRepository) ListActivities(ctx context.Context, workspaceID string, limit int, offset int) ([]domain.Activity, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE workspace_id = $1
		ORDER BY date DESC, number DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, workspaceID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		m, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, toDomainActivity(m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Activity, len(activities))
	for i := range activities {
		byID[activities[i].ActivityID] = &activities[i]
	}
	if err := r.loadChildren(ctx, byID); err != nil {
		return nil, err
	}
	return activities, nil
}

// loadChildren populates transactions and movement links for the given
// activities in two queries.
func (r *PgxActivityRepository) loadChildren(ctx context.Context, byID map[string]*domain.Activity) error {
	if len(byID) == 0 {
		return nil
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	txnQuery := `
		SELECT transaction_id, activity_id, amount, from_account_id, to_account_id, from_counterparty_id, to_counterparty_id, from_asset_id, to_asset_id, created_at, created_by, last_updated_at, last_updated_by
		FROM transactions
		WHERE activity_id = ANY($1)
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, txnQuery, ids)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m models.Transaction
		var fromAcc, toAcc, fromCp, toCp, fromAsset, toAsset sql.NullString
		err := rows.Scan(
			&m.TransactionID,
			&m.ActivityID,
			&m.Amount,
			&fromAcc,
			&toAcc,
			&fromCp,
			&toCp,
			&fromAsset,
			&toAsset,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to scan transaction: %w", err)
		}
		activity, ok := byID[m.ActivityID]
		if !ok {
			continue
		}
		activity.Transactions = append(activity.Transactions, domain.Transaction{
			TransactionID:      m.TransactionID,
			ActivityID:         m.ActivityID,
			Amount:             m.Amount,
			FromAccountID:      strOrEmpty(fromAcc),
			ToAccountID:        strOrEmpty(toAcc),
			FromCounterpartyID: strOrEmpty(fromCp),
			ToCounterpartyID:   strOrEmpty(toCp),
			FromAssetID:        strOrEmpty(fromAsset),
			ToAssetID:          strOrEmpty(toAsset),
			AuditFields: domain.AuditFields{
				CreatedAt:     m.CreatedAt,
				CreatedBy:     m.CreatedBy,
				LastUpdatedAt: m.LastUpdatedAt,
				LastUpdatedBy: m.LastUpdatedBy,
			},
		})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	linkQuery := `
		SELECT link_id, activity_id, movement_id, amount
		FROM movement_links
		WHERE activity_id = ANY($1)
		ORDER BY created_at;
	`
	linkRows, err := r.Pool.Query(ctx, linkQuery, ids)
	if err != nil {
		return fmt.Errorf("failed to load movement links: %w", err)
	}
	defer linkRows.Close()
	for linkRows.Next() {
		var link domain.MovementLink
		if err := linkRows.Scan(&link.LinkID, &link.ActivityID, &link.MovementID, &link.Amount); err != nil {
			return fmt.Errorf("failed to scan movement link: %w", err)
		}
		if activity, ok := byID[link.ActivityID]; ok {
			activity.MovementLinks = append(activity.MovementLinks, link)
		}
	}
	return linkRows.Err()
}
