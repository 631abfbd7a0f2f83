package services

import (
	"context"

	"github.com/tallyspace/tallyspace/internal/dto"
)

// CatalogSvcFacade manages categories, projects, counterparties and assets.
type CatalogSvcFacade interface {
	CreateCategory(ctx context.Context, workspaceID string, req dto.CreateCategoryRequest, userID string) (*dto.CategoryResponse, error)

	// DeleteCategory removes the category and blanks its references on activities.
	DeleteCategory(ctx context.Context, workspaceID string, categoryID string, userID string) error

	ListCategories(ctx context.Context, workspaceID string) ([]dto.CategoryResponse, error)

	CreateProject(ctx context.Context, workspaceID string, req dto.CreateProjectRequest, userID string) (*dto.ProjectResponse, error)

	UpdateProject(ctx context.Context, workspaceID string, projectID string, req dto.UpdateProjectRequest, userID string) (*dto.ProjectResponse, error)

	DeleteProject(ctx context.Context, workspaceID string, projectID string, userID string) error

	ListProjects(ctx context.Context, workspaceID string) ([]dto.ProjectResponse, error)

	CreateCounterparty(ctx context.Context, workspaceID string, req dto.CreateCounterpartyRequest, userID string) (*dto.CounterpartyResponse, error)

	ListCounterparties(ctx context.Context, workspaceID string) ([]dto.CounterpartyResponse, error)

	CreateAsset(ctx context.Context, workspaceID string, req dto.CreateAssetRequest, userID string) (*dto.AssetResponse, error)

	ListAssets(ctx context.Context, workspaceID string) ([]dto.AssetResponse, error)
}
