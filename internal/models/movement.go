package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement is the database representation of a bank account movement.
type Movement struct {
	MovementID  string          `db:"movement_id"`
	WorkspaceID string          `db:"workspace_id"`
	AccountID   string          `db:"account_id"`
	Date        time.Time       `db:"date"`
	Amount      decimal.Decimal `db:"amount"`
	Name        string          `db:"name"`
	AuditFields
}

// MovementLink associates a movement with an activity for a partial amount.
type MovementLink struct {
	LinkID     string          `db:"link_id"`
	ActivityID string          `db:"activity_id"`
	MovementID string          `db:"movement_id"`
	Amount     decimal.Decimal `db:"amount"`
	AuditFields
}
