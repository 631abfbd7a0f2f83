package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tallyspace/tallyspace/internal/apperrors"
	"github.com/tallyspace/tallyspace/internal/core/domain"
	portsrepo "github.com/tallyspace/tallyspace/internal/core/ports/repositories"
	"github.com/tallyspace/tallyspace/internal/core/reconcile"
	"github.com/tallyspace/tallyspace/internal/dto"
	"github.com/tallyspace/tallyspace/internal/middleware"
)

const defaultMovementPageSize = 50

// MovementService manages movements and movement links. Movement status is
// recomputed from the persisted links on every read.
type MovementService struct {
	movementRepo portsrepo.MovementRepositoryFacade
	accountRepo  portsrepo.AccountRepositoryFacade
	activityRepo portsrepo.ActivityRepositoryFacade
}

func NewMovementService(movementRepo portsrepo.MovementRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, activityRepo portsrepo.ActivityRepositoryFacade) *MovementService {
	return &MovementService{
		movementRepo: movementRepo,
		accountRepo:  accountRepo,
		activityRepo: activityRepo,
	}
}

// CreateMovement records a movement against a movement-tracking account.
func (s *MovementService) CreateMovement(ctx context.Context, workspaceID string, req dto.CreateMovementRequest, userID string) (*dto.MovementResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, workspaceID, req.AccountID)
	if err != nil {
		return nil, err
	}
	if !account.TracksMovements {
		return nil, fmt.Errorf("%w: account %s does not track movements", apperrors.ErrValidation, account.AccountID)
	}

	now := time.Now().UTC()
	movement := domain.Movement{
		MovementID:  req.MovementID,
		WorkspaceID: workspaceID,
		AccountID:   req.AccountID,
		Date:        req.Date,
		Amount:      req.Amount,
		Name:        req.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	event, err := stampEvent(ctx, domain.MovementCreated{Movement: movement}, workspaceID, userID, now)
	if err != nil {
		return nil, err
	}
	if err := s.movementRepo.SaveMovement(ctx, movement, event); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("failed to save movement", slog.String("error", err.Error()), slog.String("movementID", movement.MovementID))
		}
		return nil, err
	}
	return s.toResponse(ctx, movement)
}

// UpdateMovement applies partial updates to a movement.
func (s *MovementService) UpdateMovement(ctx context.Context, workspaceID string, movementID string, req dto.UpdateMovementRequest, userID string) (*dto.MovementResponse, error) {
	movement, err := s.movementRepo.FindMovementByID(ctx, workspaceID, movementID)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		movement.Date = *req.Date
	}
	if req.Amount != nil {
		movement.Amount = *req.Amount
	}
	if req.Name != nil {
		movement.Name = *req.Name
	}
	now := time.Now().UTC()
	movement.LastUpdatedAt = now
	movement.LastUpdatedBy = userID

	event, err := stampEvent(ctx, domain.MovementUpdated{Movement: *movement}, workspaceID, userID, now)
	if err != nil {
		return nil, err
	}
	if err := s.movementRepo.UpdateMovement(ctx, *movement, event); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, *movement)
}

// DeleteMovement removes a movement together with its links.
func (s *MovementService) DeleteMovement(ctx context.Context, workspaceID string, movementID string, userID string) error {
	now := time.Now().UTC()
	event, err := stampEvent(ctx, domain.MovementDeleted{MovementID: movementID}, workspaceID, userID, now)
	if err != nil {
		return err
	}
	return s.movementRepo.DeleteMovement(ctx, workspaceID, movementID, event)
}

func (s *MovementService) GetMovementByID(ctx context.Context, workspaceID string, movementID string) (*dto.MovementResponse, error) {
	movement, err := s.movementRepo.FindMovementByID(ctx, workspaceID, movementID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, *movement)
}

func (s *MovementService) ListMovements(ctx context.Context, workspaceID string, accountID string, limit int, offset int) (*dto.ListMovementsResponse, error) {
	if limit <= 0 {
		limit = defaultMovementPageSize
	}
	if offset < 0 {
		offset = 0
	}

	movements, err := s.movementRepo.ListMovements(ctx, workspaceID, accountID, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.MovementResponse, 0, len(movements))
	for _, movement := range movements {
		resp, err := s.toResponse(ctx, movement)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return &dto.ListMovementsResponse{
		Movements: responses,
		Limit:     limit,
		Offset:    offset,
	}, nil
}

// CreateLink attaches a movement to an activity for a partial amount.
func (s *MovementService) CreateLink(ctx context.Context, workspaceID string, req dto.CreateMovementLinkRequest, userID string) (*dto.MovementLinkResponse, error) {
	if _, err := s.movementRepo.FindMovementByID(ctx, workspaceID, req.MovementID); err != nil {
		return nil, err
	}
	if _, err := s.activityRepo.FindActivityByID(ctx, workspaceID, req.ActivityID); err != nil {
		return nil, err
	}

	link := domain.MovementLink{
		LinkID:     req.LinkID,
		ActivityID: req.ActivityID,
		MovementID: req.MovementID,
		Amount:     req.Amount,
	}

	now := time.Now().UTC()
	event, err := stampEvent(ctx, domain.MovementLinkCreated{Link: link}, workspaceID, userID, now)
	if err != nil {
		return nil, err
	}
	if err := s.movementRepo.SaveLink(ctx, workspaceID, link, event); err != nil {
		return nil, err
	}
	return toLinkResponse(link), nil
}

// UpdateLink changes the linked amount.
func (s *MovementService) UpdateLink(ctx context.Context, workspaceID string, linkID string, req dto.UpdateMovementLinkRequest, userID string) (*dto.MovementLinkResponse, error) {
	link, err := s.movementRepo.FindLinkByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	link.Amount = req.Amount

	now := time.Now().UTC()
	event, err := stampEvent(ctx, domain.MovementLinkUpdated{Link: *link}, workspaceID, userID, now)
	if err != nil {
		return nil, err
	}
	if err := s.movementRepo.UpdateLink(ctx, workspaceID, *link, event); err != nil {
		return nil, err
	}
	return toLinkResponse(*link), nil
}

// DeleteLink removes a movement link.
func (s *MovementService) DeleteLink(ctx context.Context, workspaceID string, linkID string, userID string) error {
	link, err := s.movementRepo.FindLinkByID(ctx, linkID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	event, err := stampEvent(ctx, domain.MovementLinkDeleted{
		LinkID:     link.LinkID,
		ActivityID: link.ActivityID,
		MovementID: link.MovementID,
	}, workspaceID, userID, now)
	if err != nil {
		return err
	}
	return s.movementRepo.DeleteLink(ctx, workspaceID, linkID, event)
}

func (s *MovementService) toResponse(ctx context.Context, movement domain.Movement) (*dto.MovementResponse, error) {
	links, err := s.movementRepo.FindLinksByMovement(ctx, movement.MovementID)
	if err != nil {
		return nil, err
	}
	return &dto.MovementResponse{
		MovementID:  movement.MovementID,
		WorkspaceID: movement.WorkspaceID,
		AccountID:   movement.AccountID,
		Date:        movement.Date,
		Amount:      movement.Amount,
		Name:        movement.Name,
		Status:      string(reconcile.MovementStatus(movement, links)),
		CreatedAt:   movement.CreatedAt,
	}, nil
}

func toLinkResponse(link domain.MovementLink) *dto.MovementLinkResponse {
	return &dto.MovementLinkResponse{
		LinkID:     link.LinkID,
		ActivityID: link.ActivityID,
		MovementID: link.MovementID,
		Amount:     link.Amount,
	}
}
