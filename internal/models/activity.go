package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Activity is the database representation of a financial activity.
type Activity struct {
	ActivityID    string    `db:"activity_id"`
	WorkspaceID   string    `db:"workspace_id"`
	UserID        string    `db:"user_id"`
	Number        int64     `db:"number"`
	Name          string    `db:"name"`
	Description   string    `db:"description"`
	Date          time.Time `db:"date"`
	ActivityType  string    `db:"activity_type"`
	CategoryID    string    `db:"category_id"`
	SubcategoryID string    `db:"subcategory_id"`
	ProjectID     string    `db:"project_id"`
	AuditFields
}

// Transaction is a money leg of an activity.
type Transaction struct {
	TransactionID      string          `db:"transaction_id"`
	ActivityID         string          `db:"activity_id"`
	Amount             decimal.Decimal `db:"amount"`
	FromAccountID      string          `db:"from_account_id"`
	ToAccountID        string          `db:"to_account_id"`
	FromCounterpartyID string          `db:"from_counterparty_id"`
	ToCounterpartyID   string          `db:"to_counterparty_id"`
	FromAssetID        string          `db:"from_asset_id"`
	ToAssetID          string          `db:"to_asset_id"`
	AuditFields
}
