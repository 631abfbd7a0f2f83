package stores_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyspace/tallyspace/internal/core/domain"
	"github.com/tallyspace/tallyspace/internal/core/stores"
	"github.com/tallyspace/tallyspace/internal/core/sync"
	"github.com/tallyspace/tallyspace/internal/kv"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// workspaceFixture wires the three interdependent stores over one KV store.
type workspaceFixture struct {
	state      kv.Store
	accounts   *stores.AccountStore
	movements  *stores.MovementStore
	activities *stores.ActivityStore
}

func newFixture(t *testing.T) *workspaceFixture {
	t.Helper()
	return newFixtureOver(t, kv.NewMemory())
}

func newFixtureOver(t *testing.T, state kv.Store) *workspaceFixture {
	t.Helper()
	logger := testLogger()
	accounts, err := stores.NewAccountStore(state, logger)
	require.NoError(t, err)
	movements, err := stores.NewMovementStore(state, logger)
	require.NoError(t, err)
	activities, err := stores.NewActivityStore(state, logger, accounts, movements)
	require.NoError(t, err)
	return &workspaceFixture{state: state, accounts: accounts, movements: movements, activities: activities}
}

func (f *workspaceFixture) apply(events ...domain.Event) {
	for _, event := range events {
		f.accounts.HandleEvent(event)
		f.movements.HandleEvent(event)
		f.activities.HandleEvent(event)
	}
}

func bankAndExpenseAccounts() []domain.Event {
	return []domain.Event{
		domain.AccountCreated{Account: domain.Account{
			AccountID: "bank", Name: "Checking", AccountType: domain.BankAccount, TracksMovements: true,
		}},
		domain.AccountCreated{Account: domain.Account{
			AccountID: "exp", Name: "Groceries", AccountType: domain.Expense,
		}},
	}
}

func TestAccountStore_RollbackRestoresDeletedAccount(t *testing.T) {
	state := kv.NewMemory()
	logger := testLogger()
	store, err := stores.NewAccountStore(state, logger)
	require.NoError(t, err)

	original := domain.Account{
		AccountID:       "a1",
		WorkspaceID:     "ws-1",
		Name:            "Savings",
		AccountType:     domain.BankAccount,
		StartingBalance: amount("1500.25"),
		TracksMovements: true,
		IsActive:        true,
	}
	store.HandleEvent(domain.AccountCreated{Account: original})

	m := sync.DeleteAccount(original)
	store.HandleEvent(m.Events[0])
	_, ok := store.Get("a1")
	require.False(t, ok, "optimistic delete removes the account")

	// Server rejects the delete: the account reappears identical.
	store.HandleMutationError(m)
	restored, ok := store.Get("a1")
	require.True(t, ok)
	assert.Equal(t, original.Name, restored.Name)
	assert.Equal(t, original.AccountType, restored.AccountType)
	assert.True(t, original.StartingBalance.Equal(restored.StartingBalance))
	assert.Equal(t, original.TracksMovements, restored.TracksMovements)
	assert.Equal(t, original.IsActive, restored.IsActive)
}

func TestActivityStore_DerivedAmountAndStatus(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	f.apply(bankAndExpenseAccounts()...)
	f.apply(domain.ActivityCreated{Activity: domain.Activity{
		ActivityID:   "act1",
		Name:         "Weekly shop",
		Date:         now.Add(-48 * time.Hour),
		ActivityType: domain.ActivityExpense,
	}})
	f.apply(domain.TransactionAdded{Transaction: domain.Transaction{
		TransactionID: "t1", ActivityID: "act1",
		Amount: amount("82.40"), FromAccountID: "bank", ToAccountID: "exp",
	}})

	view, ok := f.activities.Get("act1", now)
	require.True(t, ok)
	assert.True(t, amount("82.40").Equal(view.Amount))
	assert.Equal(t, domain.ActivityIncomplete, view.Status, "bank leg has no linked movement yet")

	// Link the matching bank movement: the activity completes.
	f.apply(
		domain.MovementCreated{Movement: domain.Movement{
			MovementID: "m1", AccountID: "bank", Amount: amount("-82.40"), Date: now.Add(-47 * time.Hour),
		}},
		domain.MovementLinkCreated{Link: domain.MovementLink{
			LinkID: "l1", ActivityID: "act1", MovementID: "m1", Amount: amount("-82.40"),
		}},
	)

	view, ok = f.activities.Get("act1", now)
	require.True(t, ok)
	assert.Equal(t, domain.ActivityCompleted, view.Status)

	movement, ok := f.movements.Get("m1")
	require.True(t, ok)
	assert.Equal(t, domain.MovementCompleted, movement.Status)
}

func TestActivityStore_FutureDatedActivitiesAreScheduled(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	f.apply(bankAndExpenseAccounts()...)
	f.apply(domain.ActivityCreated{Activity: domain.Activity{
		ActivityID:   "act1",
		Date:         now.Add(24 * time.Hour),
		ActivityType: domain.ActivityExpense,
	}})
	f.apply(domain.TransactionAdded{Transaction: domain.Transaction{
		TransactionID: "t1", ActivityID: "act1",
		Amount: amount("10"), FromAccountID: "bank", ToAccountID: "exp",
	}})

	view, ok := f.activities.Get("act1", now)
	require.True(t, ok)
	assert.Equal(t, domain.ActivityScheduled, view.Status)
}

func TestActivityStore_TransactionLifecycle(t *testing.T) {
	f := newFixture(t)
	now := time.Now()

	f.apply(bankAndExpenseAccounts()...)
	f.apply(domain.ActivityCreated{Activity: domain.Activity{
		ActivityID: "act1", Date: now.Add(-time.Hour), ActivityType: domain.ActivityExpense,
	}})
	f.apply(domain.TransactionAdded{Transaction: domain.Transaction{
		TransactionID: "t1", ActivityID: "act1",
		Amount: amount("50"), FromAccountID: "bank", ToAccountID: "exp",
	}})

	f.apply(domain.TransactionUpdated{Transaction: domain.Transaction{
		TransactionID: "t1", ActivityID: "act1",
		Amount: amount("75"), FromAccountID: "bank", ToAccountID: "exp",
	}})
	view, _ := f.activities.Get("act1", now)
	assert.True(t, amount("75").Equal(view.Amount))

	f.apply(domain.TransactionDeleted{ActivityID: "act1", TransactionID: "t1"})
	view, _ = f.activities.Get("act1", now)
	assert.True(t, view.Amount.IsZero())
	assert.Empty(t, view.Transactions)
}

func TestActivityStore_CategoryDeletionClearsReferences(t *testing.T) {
	f := newFixture(t)
	now := time.Now()

	f.apply(domain.ActivityCreated{Activity: domain.Activity{
		ActivityID:    "act1",
		Date:          now.Add(-time.Hour),
		ActivityType:  domain.ActivityNeutral,
		CategoryID:    "cat1",
		SubcategoryID: "sub1",
	}})
	f.apply(domain.CategoryDeleted{CategoryID: "cat1"})

	view, ok := f.activities.Get("act1", now)
	require.True(t, ok)
	assert.Empty(t, view.CategoryID)
	assert.Empty(t, view.SubcategoryID)
}

func TestActivityStore_EventsForUnknownActivitiesAreSkipped(t *testing.T) {
	f := newFixture(t)

	// Replay can deliver a transaction before its activity; nothing panics
	// and nothing is recorded.
	f.apply(domain.TransactionAdded{Transaction: domain.Transaction{
		TransactionID: "t1", ActivityID: "ghost", Amount: amount("5"),
	}})
	_, ok := f.activities.Get("ghost", time.Now())
	assert.False(t, ok)
}

func TestActivityStore_ServerAssignedNumberReconciled(t *testing.T) {
	f := newFixture(t)
	now := time.Now()

	activity := domain.Activity{
		ActivityID: "act1", Date: now.Add(-time.Hour), ActivityType: domain.ActivityNeutral,
	}
	m := sync.CreateActivity(activity)
	f.apply(m.Events...)

	result := json.RawMessage(`{"createActivity":{"activityID":"act1","number":42}}`)
	f.activities.HandleMutationSuccess(m, result)

	view, ok := f.activities.Get("act1", now)
	require.True(t, ok)
	assert.Equal(t, int64(42), view.Number)
}

func TestMovementStore_DeletingMovementDropsItsLinks(t *testing.T) {
	f := newFixture(t)

	f.apply(
		domain.MovementCreated{Movement: domain.Movement{MovementID: "m1", AccountID: "bank", Amount: amount("10")}},
		domain.MovementLinkCreated{Link: domain.MovementLink{LinkID: "l1", ActivityID: "act1", MovementID: "m1", Amount: amount("10")}},
	)
	require.Len(t, f.movements.LinksFor("m1"), 1)

	f.apply(domain.MovementDeleted{MovementID: "m1"})
	assert.Empty(t, f.movements.LinksFor("m1"))
}

func TestStores_PersistAcrossRestart(t *testing.T) {
	state := kv.NewMemory()
	f := newFixtureOver(t, state)
	now := time.Now()

	f.apply(bankAndExpenseAccounts()...)
	f.apply(domain.ActivityCreated{Activity: domain.Activity{
		ActivityID: "act1", Date: now.Add(-time.Hour), ActivityType: domain.ActivityExpense,
	}})
	f.apply(domain.TransactionAdded{Transaction: domain.Transaction{
		TransactionID: "t1", ActivityID: "act1",
		Amount: amount("19.99"), FromAccountID: "bank", ToAccountID: "exp",
	}})

	// Fresh stores over the same KV layer see the same state.
	restored := newFixtureOver(t, state)
	assert.Len(t, restored.accounts.List(), 2)
	view, ok := restored.activities.Get("act1", now)
	require.True(t, ok)
	assert.True(t, amount("19.99").Equal(view.Amount))
}
