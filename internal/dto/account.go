package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAccountRequest carries the payload for account creation. The client
// supplies the ID so records created offline keep their identity.
type CreateAccountRequest struct {
	AccountID           string           `json:"accountID" binding:"required"`
	Name                string           `json:"name" binding:"required,max=100"`
	AccountType         string           `json:"accountType" binding:"required,accounttype"`
	StartingBalance     *decimal.Decimal `json:"startingBalance"`
	StartingCashBalance *decimal.Decimal `json:"startingCashBalance"`
	TracksMovements     bool             `json:"tracksMovements"`
}

// UpdateAccountRequest updates account details; nil fields stay unchanged.
type UpdateAccountRequest struct {
	Name                *string          `json:"name" binding:"omitempty,max=100"`
	StartingBalance     *decimal.Decimal `json:"startingBalance"`
	StartingCashBalance *decimal.Decimal `json:"startingCashBalance"`
	TracksMovements     *bool            `json:"tracksMovements"`
}

// AccountResponse is the public representation of an account.
type AccountResponse struct {
	AccountID           string          `json:"accountID"`
	WorkspaceID         string          `json:"workspaceID"`
	Name                string          `json:"name"`
	AccountType         string          `json:"accountType"`
	StartingBalance     decimal.Decimal `json:"startingBalance"`
	StartingCashBalance decimal.Decimal `json:"startingCashBalance"`
	IsDefault           bool            `json:"isDefault"`
	TracksMovements     bool            `json:"tracksMovements"`
	CreatedAt           time.Time       `json:"createdAt"`
}
