package services

import (
	"context"

	"github.com/tallyspace/tallyspace/internal/dto"
)

// ActivitySvcFacade manages activities and their transactions. Responses carry
// the derived amount and status, computed at read time.
type ActivitySvcFacade interface {
	CreateActivity(ctx context.Context, workspaceID string, req dto.CreateActivityRequest, userID string) (*dto.ActivityResponse, error)

	UpdateActivity(ctx context.Context, workspaceID string, activityID string, req dto.UpdateActivityRequest, userID string) (*dto.ActivityResponse, error)

	DeleteActivity(ctx context.Context, workspaceID string, activityID string, userID string) error

	GetActivityByID(ctx context.Context, workspaceID string, activityID string) (*dto.ActivityResponse, error)

	ListActivities(ctx context.Context, workspaceID string, limit int, offset int) (*dto.ListActivitiesResponse, error)

	// GetReconciliation reports per-account reconciliation for one activity.
	GetReconciliation(ctx context.Context, workspaceID string, activityID string) ([]dto.AccountReconciliationResponse, error)

	AddTransaction(ctx context.Context, workspaceID string, activityID string, req dto.CreateTransactionRequest, userID string) (*dto.ActivityResponse, error)

	UpdateTransaction(ctx context.Context, workspaceID string, activityID string, transactionID string, req dto.UpdateTransactionRequest, userID string) (*dto.ActivityResponse, error)

	DeleteTransaction(ctx context.Context, workspaceID string, activityID string, transactionID string, userID string) (*dto.ActivityResponse, error)
}
