package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActivityType classifies a ledger entry.
type ActivityType string

const (
	ActivityRevenue    ActivityType = "REVENUE"
	ActivityExpense    ActivityType = "EXPENSE"
	ActivityInvestment ActivityType = "INVESTMENT"
	ActivityNeutral    ActivityType = "NEUTRAL"
)

// ActivityStatus is a derived projection, recomputed from current field
// values on every read. It is never stored or externally settable.
type ActivityStatus string

const (
	ActivityScheduled  ActivityStatus = "scheduled"
	ActivityIncomplete ActivityStatus = "incomplete"
	ActivityCompleted  ActivityStatus = "completed"
)

// Transaction represents a directional money transfer between two accounts
// belonging to exactly one Activity. Amount is a non-negative magnitude;
// direction is encoded by from/to.
type Transaction struct {
	TransactionID      string          `json:"transactionID"` // Primary Key (UUID)
	ActivityID         string          `json:"activityID"`    // FK -> Activity.activityID (Not Null)
	Amount             decimal.Decimal `json:"amount"`        // Non-negative magnitude
	FromAccountID      string          `json:"fromAccountID"` // FK -> Account (Not Null)
	ToAccountID        string          `json:"toAccountID"`   // FK -> Account (Not Null)
	FromCounterpartyID string          `json:"fromCounterpartyID,omitempty"`
	ToCounterpartyID   string          `json:"toCounterpartyID,omitempty"`
	FromAssetID        string          `json:"fromAssetID,omitempty"`
	ToAssetID          string          `json:"toAssetID,omitempty"`
	AuditFields
}

// Activity is a ledger entry composed of one or more transactions, reconciled
// against bank-feed movements via MovementLink allocations. Its amount and
// status are derived views over Transactions/MovementLinks, never fields here.
type Activity struct {
	ActivityID    string         `json:"activityID"`  // Primary Key (UUID)
	WorkspaceID   string         `json:"workspaceID"` // FK -> workspaces (Not Null)
	UserID        string         `json:"userID"`      // Owning user
	Number        int64          `json:"number"`      // Workspace-sequential, server-assigned
	Name          string         `json:"name"`
	Description   string         `json:"description"` // Nullable user description
	Date          time.Time      `json:"date"`
	ActivityType  ActivityType   `json:"activityType"`
	CategoryID    string         `json:"categoryID,omitempty"`
	SubcategoryID string         `json:"subcategoryID,omitempty"`
	ProjectID     string         `json:"projectID,omitempty"`
	Transactions  []Transaction  `json:"transactions"`
	MovementLinks []MovementLink `json:"movementLinks"`
	AuditFields
}
