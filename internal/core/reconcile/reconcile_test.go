package reconcile_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyspace/tallyspace/internal/core/domain"
	"github.com/tallyspace/tallyspace/internal/core/reconcile"
)

func testAccounts() map[string]domain.Account {
	return map[string]domain.Account{
		"bank": {AccountID: "bank", AccountType: domain.BankAccount, TracksMovements: true},
		"exp":  {AccountID: "exp", AccountType: domain.Expense},
		"rev":  {AccountID: "rev", AccountType: domain.Revenue},
		"inv":  {AccountID: "inv", AccountType: domain.InvestmentAccount},
		"cash": {AccountID: "cash", AccountType: domain.Cash},
	}
}

func movementsByID(movements ...domain.Movement) reconcile.MovementLookup {
	index := make(map[string]domain.Movement, len(movements))
	for _, m := range movements {
		index[m.MovementID] = m
	}
	return func(id string) (domain.Movement, bool) {
		m, ok := index[id]
		return m, ok
	}
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestActivityAmount(t *testing.T) {
	accounts := testAccounts()

	tests := []struct {
		name         string
		activityType domain.ActivityType
		transactions []domain.Transaction
		want         string
	}{
		{
			name:         "neutral sums amounts verbatim ignoring account types",
			activityType: domain.ActivityNeutral,
			transactions: []domain.Transaction{
				{Amount: amount("10"), FromAccountID: "bank", ToAccountID: "cash"},
				{Amount: amount("2.505"), FromAccountID: "missing", ToAccountID: "also-missing"},
			},
			want: "12.51",
		},
		{
			name:         "expense paid from bank counts the to-expense leg positively",
			activityType: domain.ActivityExpense,
			transactions: []domain.Transaction{
				{Amount: amount("50"), FromAccountID: "bank", ToAccountID: "exp"},
			},
			want: "50",
		},
		{
			name:         "expense refund flips the sign",
			activityType: domain.ActivityExpense,
			transactions: []domain.Transaction{
				{Amount: amount("50"), FromAccountID: "exp", ToAccountID: "bank"},
			},
			want: "-50",
		},
		{
			name:         "revenue earned from a revenue account is positive",
			activityType: domain.ActivityRevenue,
			transactions: []domain.Transaction{
				{Amount: amount("120"), FromAccountID: "rev", ToAccountID: "bank"},
			},
			want: "120",
		},
		{
			name:         "revenue returned to a revenue account is negative",
			activityType: domain.ActivityRevenue,
			transactions: []domain.Transaction{
				{Amount: amount("120"), FromAccountID: "bank", ToAccountID: "rev"},
			},
			want: "-120",
		},
		{
			name:         "investment buy counts the investment leg positively",
			activityType: domain.ActivityInvestment,
			transactions: []domain.Transaction{
				{Amount: amount("300"), FromAccountID: "bank", ToAccountID: "inv"},
			},
			want: "300",
		},
		{
			name:         "investment sell counts negatively",
			activityType: domain.ActivityInvestment,
			transactions: []domain.Transaction{
				{Amount: amount("300"), FromAccountID: "inv", ToAccountID: "bank"},
			},
			want: "-300",
		},
		{
			name:         "legs not touching the matching account type contribute nothing",
			activityType: domain.ActivityExpense,
			transactions: []domain.Transaction{
				{Amount: amount("75"), FromAccountID: "bank", ToAccountID: "cash"},
			},
			want: "0",
		},
		{
			name:         "unresolved endpoint accounts are skipped",
			activityType: domain.ActivityExpense,
			transactions: []domain.Transaction{
				{Amount: amount("50"), FromAccountID: "bank", ToAccountID: "exp"},
				{Amount: amount("999"), FromAccountID: "bank", ToAccountID: "gone"},
			},
			want: "50",
		},
		{
			name:         "result is rounded to cents",
			activityType: domain.ActivityExpense,
			transactions: []domain.Transaction{
				{Amount: amount("10.005"), FromAccountID: "bank", ToAccountID: "exp"},
			},
			want: "10.01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reconcile.ActivityAmount(tt.activityType, tt.transactions, accounts)
			assert.True(t, amount(tt.want).Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestTransactionTotalsByAccount(t *testing.T) {
	accounts := testAccounts()
	transactions := []domain.Transaction{
		{Amount: amount("100"), FromAccountID: "bank", ToAccountID: "exp"},
		{Amount: amount("25"), FromAccountID: "bank", ToAccountID: "exp"},
		{Amount: amount("40"), FromAccountID: "exp", ToAccountID: "bank"},
		{Amount: amount("7"), FromAccountID: "bank", ToAccountID: "nowhere"}, // skipped
	}

	totals := reconcile.TransactionTotalsByAccount(transactions, accounts)
	require.Len(t, totals, 2)

	byID := make(map[string]decimal.Decimal)
	for _, total := range totals {
		byID[total.AccountID] = total.Total
	}
	assert.True(t, amount("-85").Equal(byID["bank"]))
	assert.True(t, amount("85").Equal(byID["exp"]))
}

func TestMovementTotalsByAccount(t *testing.T) {
	lookup := movementsByID(
		domain.Movement{MovementID: "m1", AccountID: "bank", Amount: amount("-100")},
		domain.Movement{MovementID: "m2", AccountID: "bank", Amount: amount("-20")},
	)
	links := []domain.MovementLink{
		{LinkID: "l1", MovementID: "m1", Amount: amount("-100")},
		{LinkID: "l2", MovementID: "m2", Amount: amount("-15")},
		{LinkID: "l3", MovementID: "unknown", Amount: amount("-99")}, // skipped
	}

	groups := reconcile.MovementTotalsByAccount(links, lookup)
	require.Len(t, groups, 1)
	assert.Equal(t, "bank", groups[0].AccountID)
	assert.True(t, amount("-115").Equal(groups[0].Total))
	require.Len(t, groups[0].Movements, 2)
	assert.Equal(t, "l1", groups[0].Movements[0].LinkID)
	assert.True(t, amount("-100").Equal(groups[0].Movements[0].AmountLinked))
}

func TestReconciliationByAccount(t *testing.T) {
	accounts := testAccounts()
	transactions := []domain.Transaction{
		// bank pays 100 to expense: bank net -100
		{Amount: amount("100"), FromAccountID: "exp", ToAccountID: "bank"},
	}

	t.Run("matching totals with a linked movement reconcile", func(t *testing.T) {
		lookup := movementsByID(domain.Movement{MovementID: "m1", AccountID: "bank", Amount: amount("100.00")})
		links := []domain.MovementLink{{LinkID: "l1", MovementID: "m1", Amount: amount("100.00")}}

		entries := reconcile.ReconciliationByAccount(transactions, links, accounts, lookup)
		require.Len(t, entries, 1)
		assert.Equal(t, "bank", entries[0].AccountID)
		assert.True(t, entries[0].Reconciled)
	})

	t.Run("an off-by-a-cent link does not reconcile", func(t *testing.T) {
		lookup := movementsByID(domain.Movement{MovementID: "m1", AccountID: "bank", Amount: amount("100.00")})
		links := []domain.MovementLink{{LinkID: "l1", MovementID: "m1", Amount: amount("99.99")}}

		entries := reconcile.ReconciliationByAccount(transactions, links, accounts, lookup)
		require.Len(t, entries, 1)
		assert.False(t, entries[0].Reconciled)
	})

	t.Run("zero totals without any link are not reconciled", func(t *testing.T) {
		zeroTxns := []domain.Transaction{
			{Amount: amount("30"), FromAccountID: "bank", ToAccountID: "bank"},
		}
		entries := reconcile.ReconciliationByAccount(zeroTxns, nil, accounts, movementsByID())
		require.Len(t, entries, 1)
		assert.True(t, entries[0].TransactionTotal.IsZero())
		assert.False(t, entries[0].Reconciled)
	})

	t.Run("untouched accounts are omitted", func(t *testing.T) {
		entries := reconcile.ReconciliationByAccount(nil, nil, accounts, movementsByID())
		assert.Empty(t, entries)
	})

	t.Run("accounts not tracking movements never appear", func(t *testing.T) {
		cashTxns := []domain.Transaction{
			{Amount: amount("10"), FromAccountID: "cash", ToAccountID: "exp"},
		}
		entries := reconcile.ReconciliationByAccount(cashTxns, nil, accounts, movementsByID())
		assert.Empty(t, entries)
	})
}

func TestReconciled(t *testing.T) {
	accounts := testAccounts()

	t.Run("vacuously true with no movement-tracking touch points", func(t *testing.T) {
		assert.True(t, reconcile.Reconciled(nil, nil, accounts, movementsByID()))
	})

	t.Run("false when any account is unreconciled", func(t *testing.T) {
		transactions := []domain.Transaction{
			{Amount: amount("100"), FromAccountID: "exp", ToAccountID: "bank"},
		}
		assert.False(t, reconcile.Reconciled(transactions, nil, accounts, movementsByID()))
	})
}

func TestActivityStatus(t *testing.T) {
	accounts := testAccounts()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("future-dated activities are scheduled regardless of state", func(t *testing.T) {
		tomorrow := now.Add(24 * time.Hour)
		unreconciled := []domain.Transaction{
			{Amount: amount("100"), FromAccountID: "exp", ToAccountID: "bank"},
		}
		status := reconcile.ActivityStatus(tomorrow, unreconciled, nil, accounts, movementsByID(), now)
		assert.Equal(t, domain.ActivityScheduled, status)
	})

	t.Run("past-dated unreconciled activities are incomplete", func(t *testing.T) {
		yesterday := now.Add(-24 * time.Hour)
		unreconciled := []domain.Transaction{
			{Amount: amount("100"), FromAccountID: "exp", ToAccountID: "bank"},
		}
		status := reconcile.ActivityStatus(yesterday, unreconciled, nil, accounts, movementsByID(), now)
		assert.Equal(t, domain.ActivityIncomplete, status)
	})

	t.Run("past-dated reconciled activities are completed", func(t *testing.T) {
		yesterday := now.Add(-24 * time.Hour)
		transactions := []domain.Transaction{
			{Amount: amount("100"), FromAccountID: "exp", ToAccountID: "bank"},
		}
		lookup := movementsByID(domain.Movement{MovementID: "m1", AccountID: "bank", Amount: amount("100")})
		links := []domain.MovementLink{{LinkID: "l1", MovementID: "m1", Amount: amount("100")}}
		status := reconcile.ActivityStatus(yesterday, transactions, links, accounts, lookup, now)
		assert.Equal(t, domain.ActivityCompleted, status)
	})
}

func TestMovementStatus(t *testing.T) {
	movement := domain.Movement{MovementID: "m1", AccountID: "bank", Amount: amount("250.00")}

	t.Run("fully allocated movements are completed", func(t *testing.T) {
		links := []domain.MovementLink{
			{LinkID: "l1", MovementID: "m1", Amount: amount("200.00")},
			{LinkID: "l2", MovementID: "m1", Amount: amount("50.00")},
			{LinkID: "lx", MovementID: "other", Amount: amount("99")}, // different movement, ignored
		}
		assert.Equal(t, domain.MovementCompleted, reconcile.MovementStatus(movement, links))
	})

	t.Run("partially allocated movements are incomplete", func(t *testing.T) {
		links := []domain.MovementLink{{LinkID: "l1", MovementID: "m1", Amount: amount("200.00")}}
		assert.Equal(t, domain.MovementIncomplete, reconcile.MovementStatus(movement, links))
	})

	t.Run("sub-cent differences round away", func(t *testing.T) {
		links := []domain.MovementLink{{LinkID: "l1", MovementID: "m1", Amount: amount("249.999")}}
		assert.Equal(t, domain.MovementCompleted, reconcile.MovementStatus(movement, links))
	})
}
