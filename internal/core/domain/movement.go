package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementStatus is derived from the sum of linked allocations, on read.
type MovementStatus string

const (
	MovementIncomplete MovementStatus = "incomplete"
	MovementCompleted  MovementStatus = "completed"
)

// Movement represents one real bank-feed cash-flow line on an account.
type Movement struct {
	MovementID  string          `json:"movementID"`  // Primary Key (UUID)
	WorkspaceID string          `json:"workspaceID"` // FK -> workspaces (Not Null)
	AccountID   string          `json:"accountID"`   // FK -> Account (Not Null)
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"` // Signed cash flow as seen by the bank
	Name        string          `json:"name"`
	AuditFields
}

// MovementLink is a partial or full allocation of one movement's cash to one
// activity. The same link is visible from both sides of the relation.
type MovementLink struct {
	LinkID     string          `json:"linkID"`     // Primary Key (UUID)
	ActivityID string          `json:"activityID"` // FK -> Activity (Not Null)
	MovementID string          `json:"movementID"` // FK -> Movement (Not Null)
	Amount     decimal.Decimal `json:"amount"`     // Allocated portion of the movement
}
