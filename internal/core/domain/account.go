package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType classifies an account for reconciliation and amount derivation.
type AccountType string

const (
	BankAccount       AccountType = "BANK_ACCOUNT"
	InvestmentAccount AccountType = "INVESTMENT_ACCOUNT"
	Cash              AccountType = "CASH"
	Liabilities       AccountType = "LIABILITIES"
	Expense           AccountType = "EXPENSE"
	Revenue           AccountType = "REVENUE"
	Assets            AccountType = "ASSETS"
)

// DefaultAccountTypes lists the account types every workspace must hold
// exactly one default account for. They are created at workspace bootstrap.
var DefaultAccountTypes = []AccountType{Revenue, Expense, Cash, Liabilities}

// Account represents a financial account within a workspace.
type Account struct {
	AccountID           string          `json:"accountID"`   // Primary Key (UUID)
	WorkspaceID         string          `json:"workspaceID"` // FK -> workspaces.workspace_id (NON-NULL)
	Name                string          `json:"name"`
	AccountType         AccountType     `json:"accountType"`
	StartingBalance     decimal.Decimal `json:"startingBalance"`
	StartingCashBalance decimal.Decimal `json:"startingCashBalance"`
	IsDefault           bool            `json:"isDefault"`       // One default per required type per workspace
	TracksMovements     bool            `json:"tracksMovements"` // Participates in bank-feed reconciliation
	IsActive            bool            `json:"isActive"`
	AuditFields
}
