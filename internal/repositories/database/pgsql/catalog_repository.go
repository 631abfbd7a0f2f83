package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyspace/tallyspace/internal/apperrors"
	"github.com/tallyspace/tallyspace/internal/core/domain"
	portsrepo "github.com/tallyspace/tallyspace/internal/core/ports/repositories"
)

type PgxCatalogRepository struct {
	BaseRepository
}

func newPgxCatalogRepository(pool *pgxpool.Pool) portsrepo.CatalogRepositoryFacade {
	return &PgxCatalogRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.CatalogRepositoryFacade = (*PgxCatalogRepository)(nil)

// SaveCategory inserts a category with its subcategories and appends its
// event atomically.
func (r *PgxCatalogRepository) SaveCategory(ctx context.Context, category domain.Category, event domain.SyncEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO categories (category_id, workspace_id, name, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = tx.Exec(ctx, query,
		category.CategoryID,
		category.WorkspaceID,
		category.Name,
		category.CreatedAt,
		category.CreatedBy,
		category.LastUpdatedAt,
		category.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "category", category.CategoryID)
	}

	for _, sub := range category.Subcategories {
		_, err = tx.Exec(ctx,
			`INSERT INTO subcategories (subcategory_id, category_id, name) VALUES ($1, $2, $3);`,
			sub.SubcategoryID, category.CategoryID, sub.Name,
		)
		if err != nil {
			return translateError(err, "subcategory", sub.SubcategoryID)
		}
	}

	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteCategory removes the category with its subcategories, blanks category
// references on activities and appends its event, all atomically.
func (r *PgxCatalogRepository) DeleteCategory(ctx context.Context, workspaceID string, categoryID string, event domain.SyncEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	_, err = tx.Exec(ctx,
		`UPDATE activities SET category_id = NULL, subcategory_id = NULL WHERE workspace_id = $1 AND category_id = $2;`,
		workspaceID, categoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear category refs for %s: %w", categoryID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM subcategories WHERE category_id = $1;`, categoryID); err != nil {
		return fmt.Errorf("failed to delete subcategories for %s: %w", categoryID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM categories WHERE category_id = $1 AND workspace_id = $2;`, categoryID, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", categoryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: category %s", apperrors.ErrNotFound, categoryID)
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// ListCategories retrieves all categories with their subcategories.
func (r *PgxCatalogRepository) ListCategories(ctx context.Context, workspaceID string) ([]domain.Category, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT category_id, workspace_id, name
		FROM categories
		WHERE workspace_id = $1
		ORDER BY name;
	`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	byID := map[string]int{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.CategoryID, &c.WorkspaceID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		byID[c.CategoryID] = len(categories)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return categories, nil
	}

	subRows, err := r.Pool.Query(ctx, `
		SELECT s.subcategory_id, s.category_id, s.name
		FROM subcategories s
		JOIN categories c ON c.category_id = s.category_id
		WHERE c.workspace_id = $1
		ORDER BY s.name;
	`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subcategories: %w", err)
	}
	defer subRows.Close()
	for subRows.Next() {
		var s domain.Subcategory
		if err := subRows.Scan(&s.SubcategoryID, &s.CategoryID, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan subcategory: %w", err)
		}
		if i, ok := byID[s.CategoryID]; ok {
			categories[i].Subcategories = append(categories[i].Subcategories, s)
		}
	}
	return categories, subRows.Err()
}

// SaveProject inserts a project and appends its event atomically.
func (r *PgxCatalogRepository) SaveProject(ctx context.Context, project domain.Project, event domain.SyncEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO projects (project_id, workspace_id, name, description, is_archived, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, query,
		project.ProjectID,
		project.WorkspaceID,
		project.Name,
		project.Description,
		project.IsArchived,
		project.CreatedAt,
		project.CreatedBy,
		project.LastUpdatedAt,
		project.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "project", project.ProjectID)
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateProject updates project fields and appends its event atomically.
func (r *PgxCatalogRepository) UpdateProject(ctx context.Context, project domain.Project, event domain.SyncEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE projects
		SET name = $1, description = $2, is_archived = $3, last_updated_at = $4, last_updated_by = $5
		WHERE project_id = $6 AND workspace_id = $7;
	`
	tag, err := tx.Exec(ctx, query,
		project.Name,
		project.Description,
		project.IsArchived,
		project.LastUpdatedAt,
		project.LastUpdatedBy,
		project.ProjectID,
		project.WorkspaceID,
	)
	if err != nil {
		return translateError(err, "project", project.ProjectID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: project %s", apperrors.ErrNotFound, project.ProjectID)
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteProject removes a project, blanks project references on activities
// and appends its event atomically.
func (r *PgxCatalogRepository) DeleteProject(ctx context.Context, workspaceID string, projectID string, event domain.SyncEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	_, err = tx.Exec(ctx,
		`UPDATE activities SET project_id = NULL WHERE workspace_id = $1 AND project_id = $2;`,
		workspaceID, projectID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear project refs for %s: %w", projectID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM projects WHERE project_id = $1 AND workspace_id = $2;`, projectID, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", projectID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: project %s", apperrors.ErrNotFound, projectID)
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// ListProjects retrieves all projects for a workspace ordered by name.
func (r *PgxCatalogRepository) ListProjects(ctx context.Context, workspaceID string) ([]domain.Project, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT project_id, workspace_id, name, description, is_archived
		FROM projects
		WHERE workspace_id = $1
		ORDER BY name;
	`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ProjectID, &p.WorkspaceID, &p.Name, &p.Description, &p.IsArchived); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// SaveCounterparty inserts a counterparty.
func (r *PgxCatalogRepository) SaveCounterparty(ctx context.Context, counterparty domain.Counterparty) error {
	query := `
		INSERT INTO counterparties (counterparty_id, workspace_id, name, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		counterparty.CounterpartyID,
		counterparty.WorkspaceID,
		counterparty.Name,
		counterparty.CreatedAt,
		counterparty.CreatedBy,
		counterparty.LastUpdatedAt,
		counterparty.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "counterparty", counterparty.CounterpartyID)
	}
	return nil
}

// ListCounterparties retrieves all counterparties ordered by name.
func (r *PgxCatalogRepository) ListCounterparties(ctx context.Context, workspaceID string) ([]domain.Counterparty, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT counterparty_id, workspace_id, name
		FROM counterparties
		WHERE workspace_id = $1
		ORDER BY name;
	`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list counterparties: %w", err)
	}
	defer rows.Close()

	var counterparties []domain.Counterparty
	for rows.Next() {
		var c domain.Counterparty
		if err := rows.Scan(&c.CounterpartyID, &c.WorkspaceID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan counterparty: %w", err)
		}
		counterparties = append(counterparties, c)
	}
	return counterparties, rows.Err()
}

// SaveAsset inserts an asset.
func (r *PgxCatalogRepository) SaveAsset(ctx context.Context, asset domain.Asset) error {
	query := `
		INSERT INTO assets (asset_id, workspace_id, name, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		asset.AssetID,
		asset.WorkspaceID,
		asset.Name,
		asset.CreatedAt,
		asset.CreatedBy,
		asset.LastUpdatedAt,
		asset.LastUpdatedBy,
	)
	if err != nil {
		return translateError(err, "asset", asset.AssetID)
	}
	return nil
}

// ListAssets retrieves all assets ordered by name.
func (r *PgxCatalogRepository) ListAssets(ctx context.Context, workspaceID string) ([]domain.Asset, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT asset_id, workspace_id, name
		FROM assets
		WHERE workspace_id = $1
		ORDER BY name;
	`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		var a domain.Asset
		if err := rows.Scan(&a.AssetID, &a.WorkspaceID, &a.Name); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}
