package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tallyspace/tallyspace/internal/apperrors"
	"github.com/tallyspace/tallyspace/internal/core/domain"
	portsrepo "github.com/tallyspace/tallyspace/internal/core/ports/repositories"
	"github.com/tallyspace/tallyspace/internal/dto"
)

// CatalogService manages categories, projects, counterparties and assets.
type CatalogService struct {
	catalogRepo portsrepo.CatalogRepositoryFacade
}

func NewCatalogService(catalogRepo portsrepo.CatalogRepositoryFacade) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo}
}

func (s *CatalogService) CreateCategory(ctx context.Context, workspaceID string, req dto.CreateCategoryRequest, userID string) (*dto.CategoryResponse, error) {
	now := time.Now().UTC()
	category := domain.Category{
		CategoryID:  req.CategoryID,
		WorkspaceID: workspaceID,
		Name:        req.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	for _, sub := range req.Subcategories {
		category.Subcategories = append(category.Subcategories, domain.Subcategory{
			SubcategoryID: sub.SubcategoryID,
			CategoryID:    category.CategoryID,
			Name:          sub.Name,
		})
	}

	event, err := stampEvent(ctx, domain.CategoryCreated{Category: category}, workspaceID, userID, now)
	if err != nil {
		return nil, err
	}
	if err := s.catalogRepo.SaveCategory(ctx, category, event); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// DeleteCategory removes a category; activities referencing it keep existing
// with their category cleared.
func (s *CatalogService) DeleteCategory(ctx context.Context, workspaceID string, categoryID string, userID string) error {
	now := time.Now().UTC()
	event, err := stampEvent(ctx, domain.CategoryDeleted{CategoryID: categoryID}, workspaceID, userID, now)
	if err != nil {
		return err
	}
	return s.catalogRepo.DeleteCategory(ctx, workspaceID, categoryID, event)
}

func (s *CatalogService) ListCategories(ctx context.Context, workspaceID string) ([]dto.CategoryResponse, error) {
	categories, err := s.catalogRepo.ListCategories(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, *toCategoryResponse(category))
	}
	return responses, nil
}

func (s *CatalogService) CreateProject(ctx context.Context, workspaceID string, req dto.CreateProjectRequest, userID string) (*dto.ProjectResponse, error) {
	now := time.Now().UTC()
	project := domain.Project{
		ProjectID:   req.ProjectID,
		WorkspaceID: workspaceID,
		Name:        req.Name,
		Description: req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	event, err := stampEvent(ctx, domain.ProjectCreated{Project: project}, workspaceID, userID, now)
	if err != nil {
		return nil, err
	}
	if err := s.catalogRepo.SaveProject(ctx, project, event); err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

func (s *CatalogService) UpdateProject(ctx context.Context, workspaceID string, projectID string, req dto.UpdateProjectRequest, userID string) (*dto.ProjectResponse, error) {
	projects, err := s.catalogRepo.ListProjects(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	var project *domain.Project
	for i := range projects {
		if projects[i].ProjectID == projectID {
			project = &projects[i]
			break
		}
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, projectID)
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.IsArchived != nil {
		project.IsArchived = *req.IsArchived
	}
	now := time.Now().UTC()
	project.LastUpdatedAt = now
	project.LastUpdatedBy = userID

	event, err := stampEvent(ctx, domain.ProjectUpdated{Project: *project}, workspaceID, userID, now)
	if err != nil {
		return nil, err
	}
	if err := s.catalogRepo.UpdateProject(ctx, *project, event); err != nil {
		return nil, err
	}
	return toProjectResponse(*project), nil
}

// DeleteProject removes a project; activities referencing it keep existing
// with their project cleared.
func (s *CatalogService) DeleteProject(ctx context.Context, workspaceID string, projectID string, userID string) error {
	now := time.Now().UTC()
	event, err := stampEvent(ctx, domain.ProjectDeleted{ProjectID: projectID}, workspaceID, userID, now)
	if err != nil {
		return err
	}
	return s.catalogRepo.DeleteProject(ctx, workspaceID, projectID, event)
}

func (s *CatalogService) ListProjects(ctx context.Context, workspaceID string) ([]dto.ProjectResponse, error) {
	projects, err := s.catalogRepo.ListProjects(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.ProjectResponse, 0, len(projects))
	for _, project := range projects {
		responses = append(responses, *toProjectResponse(project))
	}
	return responses, nil
}

func (s *CatalogService) CreateCounterparty(ctx context.Context, workspaceID string, req dto.CreateCounterpartyRequest, userID string) (*dto.CounterpartyResponse, error) {
	now := time.Now().UTC()
	counterparty := domain.Counterparty{
		CounterpartyID: req.CounterpartyID,
		WorkspaceID:    workspaceID,
		Name:           req.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.catalogRepo.SaveCounterparty(ctx, counterparty); err != nil {
		return nil, err
	}
	return &dto.CounterpartyResponse{
		CounterpartyID: counterparty.CounterpartyID,
		WorkspaceID:    counterparty.WorkspaceID,
		Name:           counterparty.Name,
	}, nil
}

func (s *CatalogService) ListCounterparties(ctx context.Context, workspaceID string) ([]dto.CounterpartyResponse, error) {
	counterparties, err := s.catalogRepo.ListCounterparties(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.CounterpartyResponse, 0, len(counterparties))
	for _, c := range counterparties {
		responses = append(responses, dto.CounterpartyResponse{
			CounterpartyID: c.CounterpartyID,
			WorkspaceID:    c.WorkspaceID,
			Name:           c.Name,
		})
	}
	return responses, nil
}

func (s *CatalogService) CreateAsset(ctx context.Context, workspaceID string, req dto.CreateAssetRequest, userID string) (*dto.AssetResponse, error) {
	now := time.Now().UTC()
	asset := domain.Asset{
		AssetID:     req.AssetID,
		WorkspaceID: workspaceID,
		Name:        req.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.catalogRepo.SaveAsset(ctx, asset); err != nil {
		return nil, err
	}
	return &dto.AssetResponse{
		AssetID:     asset.AssetID,
		WorkspaceID: asset.WorkspaceID,
		Name:        asset.Name,
	}, nil
}

func (s *CatalogService) ListAssets(ctx context.Context, workspaceID string) ([]dto.AssetResponse, error) {
	assets, err := s.catalogRepo.ListAssets(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.AssetResponse, 0, len(assets))
	for _, asset := range assets {
		responses = append(responses, dto.AssetResponse{
			AssetID:     asset.AssetID,
			WorkspaceID: asset.WorkspaceID,
			Name:        asset.Name,
		})
	}
	return responses, nil
}

func toCategoryResponse(category domain.Category) *dto.CategoryResponse {
	resp := &dto.CategoryResponse{
		CategoryID:    category.CategoryID,
		WorkspaceID:   category.WorkspaceID,
		Name:          category.Name,
		Subcategories: make([]dto.SubcategoryPayload, 0, len(category.Subcategories)),
	}
	for _, sub := range category.Subcategories {
		resp.Subcategories = append(resp.Subcategories, dto.SubcategoryPayload{
			SubcategoryID: sub.SubcategoryID,
			Name:          sub.Name,
		})
	}
	return resp
}

func toProjectResponse(project domain.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ProjectID:   project.ProjectID,
		WorkspaceID: project.WorkspaceID,
		Name:        project.Name,
		Description: project.Description,
		IsArchived:  project.IsArchived,
	}
}
