package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyspace/tallyspace/internal/apperrors"
	"github.com/tallyspace/tallyspace/internal/core/domain"
	portsrepo "github.com/tallyspace/tallyspace/internal/core/ports/repositories"
	"github.com/tallyspace/tallyspace/internal/core/reconcile"
	"github.com/tallyspace/tallyspace/internal/dto"
	"github.com/tallyspace/tallyspace/internal/middleware"
)

const defaultActivityPageSize = 50

// ActivityService manages activities and their transactions. The amount and
// status fields it returns are never stored; they are recomputed from the
// persisted records on every read.
type ActivityService struct {
	activityRepo portsrepo.ActivityRepositoryFacade
	accountRepo  portsrepo.AccountRepositoryFacade
	movementRepo portsrepo.MovementRepositoryFacade
}

func NewActivityService(activityRepo portsrepo.ActivityRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, movementRepo portsrepo.MovementRepositoryFacade) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
	}
}

// validateTransactionAmount enforces that transaction amounts are magnitudes.
// Direction lives in the from/to endpoints; a negative amount would invert
// the sign the reconciliation table derives.
func validateTransactionAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: transaction amount must not be negative", apperrors.ErrValidation)
	}
	return nil
}

// CreateActivity persists a new activity. The workspace-sequential number is
// assigned server-side and returned in the response.
func (s *ActivityService) CreateActivity(ctx context.Context, workspaceID string, req dto.CreateActivityRequest, userID string) (*dto.ActivityResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
	activity := domain.Activity{
		ActivityID:    req.ActivityID,
		WorkspaceID:   workspaceID,
		UserID:        userID,
		Name:          req.Name,
		Description:   req.Description,
		Date:          req.Date,
		ActivityType:  domain.ActivityType(req.ActivityType),
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		ProjectID:     req.ProjectID,
		AuditFields:   audit,
	}
	for _, t := range req.Transactions {
		if err := validateTransactionAmount(t.Amount); err != nil {
			return nil, err
		}
		activity.Transactions = append(activity.Transactions, domain.Transaction{
			TransactionID:      t.TransactionID,
			ActivityID:         activity.ActivityID,
			Amount:             t.Amount,
			FromAccountID:      t.FromAccountID,
			ToAccountID:        t.ToAccountID,
			FromCounterpartyID: t.FromCounterpartyID,
			ToCounterpartyID:   t.ToCounterpartyID,
			FromAssetID:        t.FromAssetID,
			ToAssetID:          t.ToAssetID,
			AuditFields:        audit,
		})
	}

	event, err := stampEvent(ctx, domain.ActivityCreated{Activity: activity}, workspaceID, userID, now)
	if err != nil {
		return nil, err
	}
	number, err := s.activityRepo.SaveActivity(ctx, activity, event)
	if err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("failed to save activity", slog.String("error", err.Error()), slog.String("activityID", activity.ActivityID))
		}
		return nil, err
	}
	activity.Number = number

	logger.Info("activity created",
		slog.String("activityID", activity.ActivityID),
		slog.Int64("number", number),
	)
	return s.toResponse(ctx, activity)
}

// UpdateActivity applies partial updates to the activity header.
func (s *ActivityService) UpdateActivity(ctx context.Context, workspaceID string, activityID string, req dto.UpdateActivityRequest, userID string) (*dto.ActivityResponse, error) {
	activity, err := s.activityRepo.FindActivityByID(ctx, workspaceID, activityID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		activity.Name = *req.Name
	}
	if req.Description != nil {
		activity.Description = *req.Description
	}
	if req.Date != nil {
		activity.Date = *req.Date
	}
	if req.ActivityType != nil {
		activity.ActivityType = domain.ActivityType(*req.ActivityType)
	}
	if req.CategoryID != nil {
		activity.CategoryID = *req.CategoryID
	}
	if req.SubcategoryID != nil {
		activity.SubcategoryID = *req.SubcategoryID
	}
	if req.ProjectID != nil {
		activity.ProjectID = *req.ProjectID
	}
	now := time.Now().UTC()
	activity.LastUpdatedAt = now
	activity.LastUpdatedBy = userID

	event, err := stampEvent(ctx, domain.ActivityUpdated{Activity: *activity}, workspaceID, userID, now)
	if err != nil {
		return nil, err
	}
	if err := s.activityRepo.UpdateActivity(ctx, *activity, event); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, *activity)
}

// DeleteActivity removes an activity with its transactions and links.
func (s *ActivityService) DeleteActivity(ctx context.Context, workspaceID string, activityID string, userID string) error {
	now := time.Now().UTC()
	event, err := stampEvent(ctx, domain.ActivityDeleted{ActivityID: activityID}, workspaceID, userID, now)
	if err != nil {
		return err
	}
	return s.activityRepo.DeleteActivity(ctx, workspaceID, activityID, event)
}

func (s *ActivityService) GetActivityByID(ctx context.Context, workspaceID string, activityID string) (*dto.ActivityResponse, error) {
	activity, err := s.activityRepo.FindActivityByID(ctx, workspaceID, activityID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, *activity)
}

func (s *ActivityService) ListActivities(ctx context.Context, workspaceID string, limit int, offset int) (*dto.ListActivitiesResponse, error) {
	if limit <= 0 {
		limit = defaultActivityPageSize
	}
	if offset < 0 {
		offset = 0
	}

	activities, err := s.activityRepo.ListActivities(ctx, workspaceID, limit, offset)
	if err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.FindAccountsByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	responses := make([]dto.ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		lookup, err := s.movementLookup(ctx, workspaceID, activity.MovementLinks)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *buildActivityResponse(activity, accounts, lookup, now))
	}
	return &dto.ListActivitiesResponse{
		Activities: responses,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

// GetReconciliation reports per-account reconciliation for one activity.
func (s *ActivityService) GetReconciliation(ctx context.Context, workspaceID string, activityID string) ([]dto.AccountReconciliationResponse, error) {
	activity, err := s.activityRepo.FindActivityByID(ctx, workspaceID, activityID)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.FindAccountsByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	lookup, err := s.movementLookup(ctx, workspaceID, activity.MovementLinks)
	if err != nil {
		return nil, err
	}

	reconciliations := reconcile.ReconciliationByAccount(activity.Transactions, activity.MovementLinks, accounts, lookup)
	responses := make([]dto.AccountReconciliationResponse, 0, len(reconciliations))
	for _, rec := range reconciliations {
		responses = append(responses, dto.AccountReconciliationResponse{
			AccountID:        rec.AccountID,
			Reconciled:       rec.Reconciled,
			TransactionTotal: rec.TransactionTotal,
			MovementTotal:    rec.MovementTotal,
		})
	}
	return responses, nil
}

// AddTransaction adds a money leg to an existing activity.
func (s *ActivityService) AddTransaction(ctx context.Context, workspaceID string, activityID string, req dto.CreateTransactionRequest, userID string) (*dto.ActivityResponse, error) {
	if _, err := s.activityRepo.FindActivityByID(ctx, workspaceID, activityID); err != nil {
		return nil, err
	}
	if err := validateTransactionAmount(req.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:      req.TransactionID,
		ActivityID:         activityID,
		Amount:             req.Amount,
		FromAccountID:      req.FromAccountID,
		ToAccountID:        req.ToAccountID,
		FromCounterpartyID: req.FromCounterpartyID,
		ToCounterpartyID:   req.ToCounterpartyID,
		FromAssetID:        req.FromAssetID,
		ToAssetID:          req.ToAssetID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	event, err := stampEvent(ctx, domain.TransactionAdded{Transaction: txn}, workspaceID, userID, now)
	if err != nil {
		return nil, err
	}
	if err := s.activityRepo.SaveTransaction(ctx, workspaceID, txn, event); err != nil {
		return nil, err
	}
	return s.GetActivityByID(ctx, workspaceID, activityID)
}

// UpdateTransaction applies partial updates to one transaction.
func (s *ActivityService) UpdateTransaction(ctx context.Context, workspaceID string, activityID string, transactionID string, req dto.UpdateTransactionRequest, userID string) (*dto.ActivityResponse, error) {
	activity, err := s.activityRepo.FindActivityByID(ctx, workspaceID, activityID)
	if err != nil {
		return nil, err
	}

	var txn *domain.Transaction
	for i := range activity.Transactions {
		if activity.Transactions[i].TransactionID == transactionID {
			txn = &activity.Transactions[i]
			break
		}
	}
	if txn == nil {
		return nil, apperrors.ErrNotFound
	}

	if req.Amount != nil {
		if err := validateTransactionAmount(*req.Amount); err != nil {
			return nil, err
		}
		txn.Amount = *req.Amount
	}
	if req.FromAccountID != nil {
		txn.FromAccountID = *req.FromAccountID
	}
	if req.ToAccountID != nil {
		txn.ToAccountID = *req.ToAccountID
	}
	if req.FromCounterpartyID != nil {
		txn.FromCounterpartyID = *req.FromCounterpartyID
	}
	if req.ToCounterpartyID != nil {
		txn.ToCounterpartyID = *req.ToCounterpartyID
	}
	if req.FromAssetID != nil {
		txn.FromAssetID = *req.FromAssetID
	}
	if req.ToAssetID != nil {
		txn.ToAssetID = *req.ToAssetID
	}
	now := time.Now().UTC()
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = userID

	event, err := stampEvent(ctx, domain.TransactionUpdated{Transaction: *txn}, workspaceID, userID, now)
	if err != nil {
		return nil, err
	}
	if err := s.activityRepo.UpdateTransaction(ctx, workspaceID, *txn, event); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, *activity)
}

// DeleteTransaction removes one transaction from an activity.
func (s *ActivityService) DeleteTransaction(ctx context.Context, workspaceID string, activityID string, transactionID string, userID string) (*dto.ActivityResponse, error) {
	now := time.Now().UTC()
	event, err := stampEvent(ctx, domain.TransactionDeleted{ActivityID: activityID, TransactionID: transactionID}, workspaceID, userID, now)
	if err != nil {
		return nil, err
	}
	if err := s.activityRepo.DeleteTransaction(ctx, workspaceID, activityID, transactionID, event); err != nil {
		return nil, err
	}
	return s.GetActivityByID(ctx, workspaceID, activityID)
}

// movementLookup prefetches the movements referenced by the given links and
// returns a lookup over them. Dangling links resolve to not-found, which the
// reconciliation functions skip.
func (s *ActivityService) movementLookup(ctx context.Context, workspaceID string, links []domain.MovementLink) (reconcile.MovementLookup, error) {
	movements := make(map[string]domain.Movement, len(links))
	for _, link := range links {
		if _, ok := movements[link.MovementID]; ok {
			continue
		}
		movement, err := s.movementRepo.FindMovementByID(ctx, workspaceID, link.MovementID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		movements[link.MovementID] = *movement
	}
	return func(movementID string) (domain.Movement, bool) {
		movement, ok := movements[movementID]
		return movement, ok
	}, nil
}

func (s *ActivityService) toResponse(ctx context.Context, activity domain.Activity) (*dto.ActivityResponse, error) {
	accounts, err := s.accountRepo.FindAccountsByWorkspace(ctx, activity.WorkspaceID)
	if err != nil {
		return nil, err
	}
	lookup, err := s.movementLookup(ctx, activity.WorkspaceID, activity.MovementLinks)
	if err != nil {
		return nil, err
	}
	return buildActivityResponse(activity, accounts, lookup, time.Now().UTC()), nil
}

func buildActivityResponse(activity domain.Activity, accounts map[string]domain.Account, lookup reconcile.MovementLookup, now time.Time) *dto.ActivityResponse {
	resp := &dto.ActivityResponse{
		ActivityID:    activity.ActivityID,
		WorkspaceID:   activity.WorkspaceID,
		UserID:        activity.UserID,
		Number:        activity.Number,
		Name:          activity.Name,
		Description:   activity.Description,
		Date:          activity.Date,
		ActivityType:  string(activity.ActivityType),
		CategoryID:    activity.CategoryID,
		SubcategoryID: activity.SubcategoryID,
		ProjectID:     activity.ProjectID,
		Amount:        reconcile.ActivityAmount(activity.ActivityType, activity.Transactions, accounts),
		Status:        string(reconcile.ActivityStatus(activity.Date, activity.Transactions, activity.MovementLinks, accounts, lookup, now)),
		Transactions:  make([]dto.TransactionResponse, 0, len(activity.Transactions)),
		MovementLinks: make([]dto.MovementLinkResponse, 0, len(activity.MovementLinks)),
		CreatedAt:     activity.CreatedAt,
	}
	for _, t := range activity.Transactions {
		resp.Transactions = append(resp.Transactions, dto.TransactionResponse{
			TransactionID:      t.TransactionID,
			ActivityID:         t.ActivityID,
			Amount:             t.Amount,
			FromAccountID:      t.FromAccountID,
			ToAccountID:        t.ToAccountID,
			FromCounterpartyID: t.FromCounterpartyID,
			ToCounterpartyID:   t.ToCounterpartyID,
			FromAssetID:        t.FromAssetID,
			ToAssetID:          t.ToAssetID,
		})
	}
	for _, link := range activity.MovementLinks {
		resp.MovementLinks = append(resp.MovementLinks, dto.MovementLinkResponse{
			LinkID:     link.LinkID,
			ActivityID: link.ActivityID,
			MovementID: link.MovementID,
			Amount:     link.Amount,
		})
	}
	return resp
}
