package repositories

import (
	"context"

	"github.com/tallyspace/tallyspace/internal/core/domain"
)

// CatalogReader defines read operations for categories, projects,
// counterparties and assets.
type CatalogReader interface {
	ListCategories(ctx context.Context, workspaceID string) ([]domain.Category, error)

	ListProjects(ctx context.Context, workspaceID string) ([]domain.Project, error)

	ListCounterparties(ctx context.Context, workspaceID string) ([]domain.Counterparty, error)

	ListAssets(ctx context.Context, workspaceID string) ([]domain.Asset, error)
}

// CatalogWriter defines write operations for reference data. Every write
// appends the given event to the workspace event log in the same transaction.
type CatalogWriter interface {
	SaveCategory(ctx context.Context, category domain.Category, event domain.SyncEvent) error

	// DeleteCategory removes a category with its subcategories and blanks the
	// category references on activities in the same transaction.
	DeleteCategory(ctx context.Context, workspaceID string, categoryID string, event domain.SyncEvent) error

	SaveProject(ctx context.Context, project domain.Project, event domain.SyncEvent) error

	UpdateProject(ctx context.Context, project domain.Project, event domain.SyncEvent) error

	DeleteProject(ctx context.Context, workspaceID string, projectID string, event domain.SyncEvent) error

	SaveCounterparty(ctx context.Context, counterparty domain.Counterparty) error

	SaveAsset(ctx context.Context, asset domain.Asset) error
}

// CatalogRepositoryFacade combines all reference-data repository interfaces.
type CatalogRepositoryFacade interface {
	CatalogReader
	CatalogWriter
}
