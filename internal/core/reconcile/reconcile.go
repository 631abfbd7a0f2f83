// Package reconcile derives activity amounts and reconciliation status from
// transactions, linked bank-feed movements and the account type table.
//
// All functions are total over well-formed input: unresolved foreign keys
// contribute nothing instead of erroring, since optimistic client state may
// transiently reference accounts or movements that have not arrived yet.
// Monetary comparisons round to two decimal places (minor currency units).
package reconcile

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyspace/tallyspace/internal/core/domain"
)

// centPlaces is the rounding precision applied before any equality check.
const centPlaces = 2

// MovementLookup resolves a movement by ID. Returns false when the movement
// is not (yet) known locally.
type MovementLookup func(movementID string) (domain.Movement, bool)

// AccountTotal is the net transaction flow through one account.
type AccountTotal struct {
	AccountID string
	Total     decimal.Decimal
}

// LinkedMovement is a movement annotated with the link that allocated part of
// its cash to the activity under reconciliation.
type LinkedMovement struct {
	Movement     domain.Movement
	LinkID       string
	AmountLinked decimal.Decimal
}

// AccountMovements is the aggregate of linked movements on one account.
type AccountMovements struct {
	AccountID string
	Total     decimal.Decimal
	Movements []LinkedMovement
}

// AccountReconciliation compares transaction flow against linked movement
// flow for one movements-tracking account.
type AccountReconciliation struct {
	AccountID        string
	Reconciled       bool
	TransactionTotal decimal.Decimal
	MovementTotal    decimal.Decimal
	Movements        []LinkedMovement
}

// ActivityAmount computes the canonical signed amount of an activity in its
// own type's terms.
//
// A NEUTRAL activity is worth the verbatim sum of its transaction amounts.
// For the other types, only legs touching the account type matching the
// activity's own category contribute, so a double-entry transfer between a
// bank account and an expense account always nets to the expense leg's
// magnitude regardless of which side is "from":
//
//	EXPENSE    from/to EXPENSE-typed account            -> -amount / +amount
//	REVENUE    from/to REVENUE-typed account            -> +amount / -amount
//	INVESTMENT from/to INVESTMENT_ACCOUNT-typed account -> -amount / +amount
//
// Transactions whose endpoint accounts cannot be resolved contribute zero.
func ActivityAmount(activityType domain.ActivityType, transactions []domain.Transaction, accounts map[string]domain.Account) decimal.Decimal {
	sum := decimal.Zero

	if activityType == domain.ActivityNeutral {
		for _, txn := range transactions {
			sum = sum.Add(txn.Amount)
		}
		return sum.Round(centPlaces)
	}

	for _, txn := range transactions {
		from, fromOK := accounts[txn.FromAccountID]
		to, toOK := accounts[txn.ToAccountID]
		if !fromOK || !toOK {
			continue
		}
		sum = sum.Add(transactionContribution(activityType, txn.Amount, from.AccountType, to.AccountType))
	}
	return sum.Round(centPlaces)
}

// transactionContribution applies the sign-and-filter table for one leg pair.
func transactionContribution(activityType domain.ActivityType, amount decimal.Decimal, fromType, toType domain.AccountType) decimal.Decimal {
	var matched domain.AccountType
	switch activityType {
	case domain.ActivityExpense:
		matched = domain.Expense
	case domain.ActivityRevenue:
		matched = domain.Revenue
	case domain.ActivityInvestment:
		matched = domain.InvestmentAccount
	default:
		return decimal.Zero
	}

	contribution := decimal.Zero
	if fromType == matched {
		contribution = contribution.Sub(amount)
	}
	if toType == matched {
		contribution = contribution.Add(amount)
	}
	// REVENUE flips the convention: money leaving a revenue account is earned.
	if activityType == domain.ActivityRevenue {
		contribution = contribution.Neg()
	}
	return contribution
}

// TransactionTotalsByAccount accumulates the net flow per account referenced
// by the transactions: -amount where the account is the source, +amount where
// it is the destination. A transaction with an unresolvable endpoint is
// skipped entirely.
func TransactionTotalsByAccount(transactions []domain.Transaction, accounts map[string]domain.Account) []AccountTotal {
	totals := make(map[string]decimal.Decimal)
	var order []string

	accumulate := func(accountID string, delta decimal.Decimal) {
		if _, seen := totals[accountID]; !seen {
			order = append(order, accountID)
		}
		totals[accountID] = totals[accountID].Add(delta)
	}

	for _, txn := range transactions {
		_, fromOK := accounts[txn.FromAccountID]
		_, toOK := accounts[txn.ToAccountID]
		if !fromOK || !toOK {
			continue
		}
		accumulate(txn.FromAccountID, txn.Amount.Neg())
		accumulate(txn.ToAccountID, txn.Amount)
	}

	result := make([]AccountTotal, 0, len(order))
	for _, accountID := range order {
		result = append(result, AccountTotal{AccountID: accountID, Total: totals[accountID]})
	}
	return result
}

// MovementTotalsByAccount resolves each link to its movement, groups by the
// movement's account and accumulates the linked amounts. Links whose movement
// cannot be resolved are skipped.
func MovementTotalsByAccount(links []domain.MovementLink, lookup MovementLookup) []AccountMovements {
	byAccount := make(map[string]*AccountMovements)
	var order []string

	for _, link := range links {
		movement, ok := lookup(link.MovementID)
		if !ok {
			continue
		}
		group, seen := byAccount[movement.AccountID]
		if !seen {
			group = &AccountMovements{AccountID: movement.AccountID, Total: decimal.Zero}
			byAccount[movement.AccountID] = group
			order = append(order, movement.AccountID)
		}
		group.Total = group.Total.Add(link.Amount)
		group.Movements = append(group.Movements, LinkedMovement{
			Movement:     movement,
			LinkID:       link.LinkID,
			AmountLinked: link.Amount,
		})
	}

	result := make([]AccountMovements, 0, len(order))
	for _, accountID := range order {
		result = append(result, *byAccount[accountID])
	}
	return result
}

// ReconciliationByAccount compares, for every movements-tracking account, the
// transaction-derived total against the movement-derived total. Accounts
// touched by neither side are omitted. An account is reconciled when the
// rounded totals match AND at least one movement is linked: matching zero
// totals with no link do not assert reconciliation.
func ReconciliationByAccount(transactions []domain.Transaction, links []domain.MovementLink, accounts map[string]domain.Account, lookup MovementLookup) []AccountReconciliation {
	transactionTotals := make(map[string]decimal.Decimal)
	for _, t := range TransactionTotalsByAccount(transactions, accounts) {
		transactionTotals[t.AccountID] = t.Total
	}
	movementTotals := make(map[string]AccountMovements)
	for _, m := range MovementTotalsByAccount(links, lookup) {
		movementTotals[m.AccountID] = m
	}

	var result []AccountReconciliation
	for _, account := range sortedAccounts(accounts) {
		if !account.TracksMovements {
			continue
		}
		transactionTotal, hasTransactions := transactionTotals[account.AccountID]
		movements, hasMovements := movementTotals[account.AccountID]
		if !hasTransactions && !hasMovements {
			continue
		}

		reconciled := len(movements.Movements) > 0 &&
			transactionTotal.Round(centPlaces).Equal(movements.Total.Round(centPlaces))
		result = append(result, AccountReconciliation{
			AccountID:        account.AccountID,
			Reconciled:       reconciled,
			TransactionTotal: transactionTotal,
			MovementTotal:    movements.Total,
			Movements:        movements.Movements,
		})
	}
	return result
}

// Reconciled reports whether every movements-tracking account the activity
// touches is reconciled. Vacuously true when the activity touches none.
func Reconciled(transactions []domain.Transaction, links []domain.MovementLink, accounts map[string]domain.Account, lookup MovementLookup) bool {
	for _, entry := range ReconciliationByAccount(transactions, links, accounts, lookup) {
		if !entry.Reconciled {
			return false
		}
	}
	return true
}

// ActivityStatus projects the display status of an activity. It is a pure
// function of current field values, re-evaluated on every read:
//
//  1. date strictly in the future -> scheduled
//  2. movements not fully reconciled -> incomplete
//  3. otherwise -> completed
func ActivityStatus(date time.Time, transactions []domain.Transaction, links []domain.MovementLink, accounts map[string]domain.Account, lookup MovementLookup, now time.Time) domain.ActivityStatus {
	if date.After(now) {
		return domain.ActivityScheduled
	}
	if !Reconciled(transactions, links, accounts, lookup) {
		return domain.ActivityIncomplete
	}
	return domain.ActivityCompleted
}

// MovementStatus reports whether a movement's cash is fully allocated:
// completed iff the rounded sum of its link amounts equals the rounded
// movement amount. Links belonging to other movements are ignored.
func MovementStatus(movement domain.Movement, links []domain.MovementLink) domain.MovementStatus {
	allocated := decimal.Zero
	for _, link := range links {
		if link.MovementID != movement.MovementID {
			continue
		}
		allocated = allocated.Add(link.Amount)
	}
	if allocated.Round(centPlaces).Equal(movement.Amount.Round(centPlaces)) {
		return domain.MovementCompleted
	}
	return domain.MovementIncomplete
}

// sortedAccounts returns the accounts in a stable order so that derived
// slices do not depend on map iteration.
func sortedAccounts(accounts map[string]domain.Account) []domain.Account {
	ids := make([]string, 0, len(accounts))
	for id := range accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	result := make([]domain.Account, 0, len(ids))
	for _, id := range ids {
		result = append(result, accounts[id])
	}
	return result
}
