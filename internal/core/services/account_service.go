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
	"github.com/tallyspace/tallyspace/internal/dto"
	"github.com/tallyspace/tallyspace/internal/middleware"
)

type AccountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// CreateAccount creates a user-defined account.
func (s *AccountService) CreateAccount(ctx context.Context, workspaceID string, req dto.CreateAccountRequest, userID string) (*dto.AccountResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:           req.AccountID,
		WorkspaceID:         workspaceID,
		Name:                req.Name,
		AccountType:         domain.AccountType(req.AccountType),
		StartingBalance:     decimal.Zero,
		StartingCashBalance: decimal.Zero,
		IsDefault:           false,
		TracksMovements:     req.TracksMovements,
		IsActive:            true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if req.StartingBalance != nil {
		account.StartingBalance = *req.StartingBalance
	}
	if req.StartingCashBalance != nil {
		account.StartingCashBalance = *req.StartingCashBalance
	}

	event, err := stampEvent(ctx, domain.AccountCreated{Account: account}, workspaceID, userID, now)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.SaveAccount(ctx, account, event); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("failed to save account", slog.String("error", err.Error()), slog.String("accountID", account.AccountID))
		}
		return nil, err
	}

	logger.Info("account created", slog.String("accountID", account.AccountID))
	return toAccountResponse(account), nil
}

// UpdateAccount applies partial updates to an account.
func (s *AccountService) UpdateAccount(ctx context.Context, workspaceID string, accountID string, req dto.UpdateAccountRequest, userID string) (*dto.AccountResponse, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, workspaceID, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.StartingBalance != nil {
		account.StartingBalance = *req.StartingBalance
	}
	if req.StartingCashBalance != nil {
		account.StartingCashBalance = *req.StartingCashBalance
	}
	if req.TracksMovements != nil {
		account.TracksMovements = *req.TracksMovements
	}
	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	event, err := stampEvent(ctx, domain.AccountUpdated{Account: *account}, workspaceID, userID, now)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.UpdateAccount(ctx, *account, event); err != nil {
		return nil, err
	}
	return toAccountResponse(*account), nil
}

// DeleteAccount deactivates an account. Default accounts cannot be deleted.
func (s *AccountService) DeleteAccount(ctx context.Context, workspaceID string, accountID string, userID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, workspaceID, accountID)
	if err != nil {
		return err
	}
	if account.IsDefault {
		return fmt.Errorf("%w: default accounts cannot be deleted", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	event, err := stampEvent(ctx, domain.AccountDeleted{AccountID: accountID}, workspaceID, userID, now)
	if err != nil {
		return err
	}
	return s.accountRepo.DeactivateAccount(ctx, workspaceID, accountID, userID, now, event)
}

func (s *AccountService) GetAccountByID(ctx context.Context, workspaceID string, accountID string) (*dto.AccountResponse, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, workspaceID, accountID)
	if err != nil {
		return nil, err
	}
	return toAccountResponse(*account), nil
}

func (s *AccountService) ListAccounts(ctx context.Context, workspaceID string) ([]dto.AccountResponse, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, *toAccountResponse(account))
	}
	return responses, nil
}

func toAccountResponse(account domain.Account) *dto.AccountResponse {
	return &dto.AccountResponse{
		AccountID:           account.AccountID,
		WorkspaceID:         account.WorkspaceID,
		Name:                account.Name,
		AccountType:         string(account.AccountType),
		StartingBalance:     account.StartingBalance,
		StartingCashBalance: account.StartingCashBalance,
		IsDefault:           account.IsDefault,
		TracksMovements:     account.TracksMovements,
		CreatedAt:           account.CreatedAt,
	}
}
