package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMovementRequest carries the payload for movement creation.
type CreateMovementRequest struct {
	MovementID string          `json:"movementID" binding:"required"`
	AccountID  string          `json:"accountID" binding:"required"`
	Date       time.Time       `json:"date" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Name       string          `json:"name" binding:"required,max=200"`
}

// UpdateMovementRequest updates a movement; nil fields stay unchanged.
type UpdateMovementRequest struct {
	Date   *time.Time       `json:"date"`
	Amount *decimal.Decimal `json:"amount"`
	Name   *string          `json:"name" binding:"omitempty,max=200"`
}

// MovementResponse is the public representation of a movement, including the
// derived status.
type MovementResponse struct {
	MovementID  string          `json:"movementID"`
	WorkspaceID string          `json:"workspaceID"`
	AccountID   string          `json:"accountID"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Name        string          `json:"name"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ListMovementsResponse is a page of movements.
type ListMovementsResponse struct {
	Movements []MovementResponse `json:"movements"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

// CreateMovementLinkRequest links a movement to an activity.
type CreateMovementLinkRequest struct {
	LinkID     string          `json:"linkID" binding:"required"`
	ActivityID string          `json:"activityID" binding:"required"`
	MovementID string          `json:"movementID" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

// UpdateMovementLinkRequest changes the linked amount.
type UpdateMovementLinkRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}
