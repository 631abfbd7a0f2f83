package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallyspace/tallyspace/internal/apperrors"
	"github.com/tallyspace/tallyspace/internal/core/domain"
	portsrepo "github.com/tallyspace/tallyspace/internal/core/ports/repositories"
	"github.com/tallyspace/tallyspace/internal/dto"
	"github.com/tallyspace/tallyspace/internal/middleware"
)

// defaultAccountNames labels the accounts every workspace starts with.
var defaultAccountNames = map[domain.AccountType]string{
	domain.Revenue:     "Revenue",
	domain.Expense:     "Expenses",
	domain.Cash:        "Cash",
	domain.Liabilities: "Liabilities",
}

type WorkspaceService struct {
	workspaceRepo portsrepo.WorkspaceRepositoryFacade
}

func NewWorkspaceService(workspaceRepo portsrepo.WorkspaceRepositoryFacade) *WorkspaceService {
	return &WorkspaceService{workspaceRepo: workspaceRepo}
}

// CreateWorkspace creates a workspace, makes the creator an admin and seeds
// the default accounts, all in one transaction.
func (s *WorkspaceService) CreateWorkspace(ctx context.Context, req dto.CreateWorkspaceRequest, userID string) (*dto.WorkspaceResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	workspace := domain.Workspace{
		WorkspaceID: uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	membership := domain.UserWorkspace{
		UserID:      userID,
		WorkspaceID: workspace.WorkspaceID,
		Role:        domain.RoleAdmin,
		JoinedAt:    now,
	}

	defaults := make([]domain.Account, 0, len(domain.DefaultAccountTypes))
	for _, accountType := range domain.DefaultAccountTypes {
		defaults = append(defaults, domain.Account{
			AccountID:           uuid.NewString(),
			WorkspaceID:         workspace.WorkspaceID,
			Name:                defaultAccountNames[accountType],
			AccountType:         accountType,
			StartingBalance:     decimal.Zero,
			StartingCashBalance: decimal.Zero,
			IsDefault:           true,
			TracksMovements:     false,
			IsActive:            true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		})
	}

	if err := s.workspaceRepo.SaveWorkspace(ctx, workspace, membership, defaults); err != nil {
		logger.Error("failed to create workspace", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("workspace created",
		slog.String("workspaceID", workspace.WorkspaceID),
		slog.Int("defaultAccounts", len(defaults)),
	)
	return toWorkspaceResponse(workspace), nil
}

func (s *WorkspaceService) ListWorkspaces(ctx context.Context, userID string) ([]dto.WorkspaceResponse, error) {
	workspaces, err := s.workspaceRepo.ListWorkspacesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.WorkspaceResponse, 0, len(workspaces))
	for _, w := range workspaces {
		responses = append(responses, *toWorkspaceResponse(w))
	}
	return responses, nil
}

// AddUserToWorkspace adds or re-roles a member. Only admins may manage members.
func (s *WorkspaceService) AddUserToWorkspace(ctx context.Context, workspaceID string, req dto.AddUserToWorkspaceRequest, actingUserID string) error {
	actorRole, err := s.AuthorizeMember(ctx, actingUserID, workspaceID)
	if err != nil {
		return err
	}
	if actorRole != domain.RoleAdmin {
		return fmt.Errorf("%w: only admins can manage members", apperrors.ErrForbidden)
	}

	membership := domain.UserWorkspace{
		UserID:      req.UserID,
		WorkspaceID: workspaceID,
		Role:        domain.UserWorkspaceRole(req.Role),
		JoinedAt:    time.Now().UTC(),
	}

	existing, err := s.workspaceRepo.FindUserWorkspaceRole(ctx, req.UserID, workspaceID)
	switch {
	case err == nil:
		membership.JoinedAt = existing.JoinedAt
		return s.workspaceRepo.UpdateUserWorkspaceRole(ctx, membership)
	case errors.Is(err, apperrors.ErrNotFound):
		return s.workspaceRepo.AddUserToWorkspace(ctx, membership)
	default:
		return err
	}
}

// AuthorizeMember returns the caller's role, mapping non-membership and
// removed members to ErrForbidden.
func (s *WorkspaceService) AuthorizeMember(ctx context.Context, userID string, workspaceID string) (domain.UserWorkspaceRole, error) {
	membership, err := s.workspaceRepo.FindUserWorkspaceRole(ctx, userID, workspaceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("%w: not a member of workspace %s", apperrors.ErrForbidden, workspaceID)
		}
		return "", err
	}
	if membership.Role == domain.RoleRemoved {
		return "", fmt.Errorf("%w: removed from workspace %s", apperrors.ErrForbidden, workspaceID)
	}
	return membership.Role, nil
}

// AuthorizeWriter is AuthorizeMember restricted to roles that may mutate data.
func (s *WorkspaceService) AuthorizeWriter(ctx context.Context, userID string, workspaceID string) (domain.UserWorkspaceRole, error) {
	role, err := s.AuthorizeMember(ctx, userID, workspaceID)
	if err != nil {
		return "", err
	}
	if role == domain.RoleReadOnly {
		return "", fmt.Errorf("%w: read-only members cannot modify workspace %s", apperrors.ErrForbidden, workspaceID)
	}
	return role, nil
}

func toWorkspaceResponse(w domain.Workspace) *dto.WorkspaceResponse {
	return &dto.WorkspaceResponse{
		WorkspaceID: w.WorkspaceID,
		Name:        w.Name,
		Description: w.Description,
		CreatedAt:   w.CreatedAt,
	}
}
