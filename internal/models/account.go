package models

import "github.com/shopspring/decimal"

// Account is the database representation of a financial account.
type Account struct {
	AccountID           string          `db:"account_id"`
	WorkspaceID         string          `db:"workspace_id"`
	Name                string          `db:"name"`
	AccountType         string          `db:"account_type"`
	StartingBalance     decimal.Decimal `db:"starting_balance"`
	StartingCashBalance decimal.Decimal `db:"starting_cash_balance"`
	IsDefault           bool            `db:"is_default"`
	TracksMovements     bool            `db:"tracks_movements"`
	IsActive            bool            `db:"is_active"`
	AuditFields
}
