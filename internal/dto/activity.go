package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTransactionRequest is one money leg of an activity.
type CreateTransactionRequest struct {
	TransactionID      string          `json:"transactionID" binding:"required"`
	Amount             decimal.Decimal `json:"amount" binding:"required"`
	FromAccountID      string          `json:"fromAccountID"`
	ToAccountID        string          `json:"toAccountID"`
	FromCounterpartyID string          `json:"fromCounterpartyID"`
	ToCounterpartyID   string          `json:"toCounterpartyID"`
	FromAssetID        string          `json:"fromAssetID"`
	ToAssetID          string          `json:"toAssetID"`
}

// UpdateTransactionRequest updates a transaction; nil fields stay unchanged.
type UpdateTransactionRequest struct {
	Amount             *decimal.Decimal `json:"amount"`
	FromAccountID      *string          `json:"fromAccountID"`
	ToAccountID        *string          `json:"toAccountID"`
	FromCounterpartyID *string          `json:"fromCounterpartyID"`
	ToCounterpartyID   *string          `json:"toCounterpartyID"`
	FromAssetID        *string          `json:"fromAssetID"`
	ToAssetID          *string          `json:"toAssetID"`
}

// CreateActivityRequest carries the payload for activity creation. The client
// supplies the activity ID so offline-created records keep their identity.
type CreateActivityRequest struct {
	ActivityID    string                     `json:"activityID" binding:"required"`
	Name          string                     `json:"name" binding:"required,max=200"`
	Description   string                     `json:"description" binding:"max=2000"`
	Date          time.Time                  `json:"date" binding:"required"`
	ActivityType  string                     `json:"activityType" binding:"required,activitytype"`
	CategoryID    string                     `json:"categoryID"`
	SubcategoryID string                     `json:"subcategoryID"`
	ProjectID     string                     `json:"projectID"`
	Transactions  []CreateTransactionRequest `json:"transactions" binding:"dive"`
}

// UpdateActivityRequest updates activity header fields; nil fields stay unchanged.
type UpdateActivityRequest struct {
	Name          *string    `json:"name" binding:"omitempty,max=200"`
	Description   *string    `json:"description" binding:"omitempty,max=2000"`
	Date          *time.Time `json:"date"`
	ActivityType  *string    `json:"activityType" binding:"omitempty,activitytype"`
	CategoryID    *string    `json:"categoryID"`
	SubcategoryID *string    `json:"subcategoryID"`
	ProjectID     *string    `json:"projectID"`
}

// TransactionResponse is the public representation of a transaction.
type TransactionResponse struct {
	TransactionID      string          `json:"transactionID"`
	ActivityID         string          `json:"activityID"`
	Amount             decimal.Decimal `json:"amount"`
	FromAccountID      string          `json:"fromAccountID,omitempty"`
	ToAccountID        string          `json:"toAccountID,omitempty"`
	FromCounterpartyID string          `json:"fromCounterpartyID,omitempty"`
	ToCounterpartyID   string          `json:"toCounterpartyID,omitempty"`
	FromAssetID        string          `json:"fromAssetID,omitempty"`
	ToAssetID          string          `json:"toAssetID,omitempty"`
}

// MovementLinkResponse is the public representation of a movement link.
type MovementLinkResponse struct {
	LinkID     string          `json:"linkID"`
	ActivityID string          `json:"activityID"`
	MovementID string          `json:"movementID"`
	Amount     decimal.Decimal `json:"amount"`
}

// AccountReconciliationResponse reports per-account reconciliation state.
type AccountReconciliationResponse struct {
	AccountID        string          `json:"accountID"`
	Reconciled       bool            `json:"reconciled"`
	TransactionTotal decimal.Decimal `json:"transactionTotal"`
	MovementTotal    decimal.Decimal `json:"movementTotal"`
}

// ActivityResponse is the public representation of an activity, including the
// derived amount and status.
type ActivityResponse struct {
	ActivityID    string                 `json:"activityID"`
	WorkspaceID   string                 `json:"workspaceID"`
	UserID        string                 `json:"userID"`
	Number        int64                  `json:"number"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description,omitempty"`
	Date          time.Time              `json:"date"`
	ActivityType  string                 `json:"activityType"`
	CategoryID    string                 `json:"categoryID,omitempty"`
	SubcategoryID string                 `json:"subcategoryID,omitempty"`
	ProjectID     string                 `json:"projectID,omitempty"`
	Amount        decimal.Decimal        `json:"amount"`
	Status        string                 `json:"status"`
	Transactions  []TransactionResponse  `json:"transactions"`
	MovementLinks []MovementLinkResponse `json:"movementLinks"`
	CreatedAt     time.Time              `json:"createdAt"`
}

// ListActivitiesResponse is a page of activities.
type ListActivitiesResponse struct {
	Activities []ActivityResponse `json:"activities"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
}
