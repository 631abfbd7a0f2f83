package sync_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tallyspace/tallyspace/internal/core/domain"
	"github.com/tallyspace/tallyspace/internal/core/sync"
	"github.com/tallyspace/tallyspace/internal/kv"
)

// --- Mock Transport ---

type MockTransport struct {
	mock.Mock
}

var _ sync.Transport = (*MockTransport)(nil)

func (m *MockTransport) Execute(ctx context.Context, mu sync.Mutation) (json.RawMessage, error) {
	args := m.Called(ctx, mu)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockTransport) Events(ctx context.Context, since time.Time, workspaceID string) (sync.EventBatch, error) {
	args := m.Called(ctx, since, workspaceID)
	if args.Get(0) == nil {
		return sync.EventBatch{}, args.Error(1)
	}
	return args.Get(0).(sync.EventBatch), args.Error(1)
}

// --- Recording store ---

// recordingStore captures everything the engine dispatches to it.
type recordingStore struct {
	events    []domain.Event
	successes []string
	failures  []string
}

func (s *recordingStore) HandleEvent(event domain.Event) {
	s.events = append(s.events, event)
}

func (s *recordingStore) HandleMutationSuccess(m sync.Mutation, result json.RawMessage) {
	s.successes = append(s.successes, m.Name)
}

func (s *recordingStore) HandleMutationError(m sync.Mutation) {
	s.failures = append(s.failures, m.Name)
	for _, event := range m.Rollback {
		s.HandleEvent(event)
	}
}

var _ sync.Store = (*recordingStore)(nil)

// --- Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSession() sync.Session {
	return sync.Session{ClientID: "client-1", UserID: "user-1", WorkspaceID: "ws-1"}
}

func newEngine(t *testing.T, transport sync.Transport, stores ...sync.Store) *sync.Engine {
	t.Helper()
	engine, err := sync.NewEngine(transport, stores, kv.NewMemory(), testLogger())
	require.NoError(t, err)
	engine.SetSession(testSession())
	return engine
}

func accountMutation(id string) sync.Mutation {
	return sync.CreateAccount(domain.Account{
		AccountID:   id,
		WorkspaceID: "ws-1",
		Name:        "Checking " + id,
		AccountType: domain.BankAccount,
	})
}

// --- Tests ---

func TestMutate_RequiresSession(t *testing.T) {
	transport := new(MockTransport)
	engine, err := sync.NewEngine(transport, nil, kv.NewMemory(), testLogger())
	require.NoError(t, err)

	err = engine.Mutate(context.Background(), accountMutation("a1"))
	assert.ErrorIs(t, err, sync.ErrNoSession)
}

func TestMutate_AppliesOptimisticallyBeforeServerCall(t *testing.T) {
	transport := new(MockTransport)
	store := &recordingStore{}
	engine := newEngine(t, transport, store)

	// Even with the server down, the local effect lands immediately.
	transport.On("Execute", mock.Anything, mock.Anything).Return(nil, sync.ErrUnavailable)

	require.NoError(t, engine.Mutate(context.Background(), accountMutation("a1")))

	require.Len(t, store.events, 1)
	created, ok := store.events[0].(domain.AccountCreated)
	require.True(t, ok)
	assert.Equal(t, "a1", created.Account.AccountID)
	assert.Equal(t, 1, engine.Pending())
}

func TestDrain_CommitsInOrder(t *testing.T) {
	transport := new(MockTransport)
	store := &recordingStore{}
	engine := newEngine(t, transport, store)

	transport.On("Execute", mock.Anything, mock.Anything).Return(json.RawMessage(`{}`), nil)

	require.NoError(t, engine.Mutate(context.Background(), accountMutation("a1")))
	require.NoError(t, engine.Mutate(context.Background(), accountMutation("a2")))

	assert.Equal(t, 0, engine.Pending())
	assert.Equal(t, []string{"createAccount", "createAccount"}, store.successes)
	transport.AssertNumberOfCalls(t, "Execute", 2)
}

func TestDrain_NetworkFailureBlocksQueueAndPreservesState(t *testing.T) {
	transport := new(MockTransport)
	store := &recordingStore{}
	engine := newEngine(t, transport, store)

	m1 := accountMutation("a1")
	m2 := accountMutation("a2")

	// M1 fails at the network layer: it must stay at the head and M2 must
	// never be sent.
	transport.On("Execute", mock.Anything, mock.MatchedBy(func(m sync.Mutation) bool {
		return m.Variables["input"].(map[string]any)["accountID"] == "a1"
	})).Return(nil, sync.ErrUnavailable).Twice()

	require.NoError(t, engine.Mutate(context.Background(), m1))
	require.NoError(t, engine.Mutate(context.Background(), m2))

	assert.Equal(t, 2, engine.Pending())
	assert.Empty(t, store.failures, "network failures must not roll back")
	transport.AssertNumberOfCalls(t, "Execute", 2) // one attempt per Mutate trigger, both for M1

	// Connectivity returns: both drain through in order.
	transport.ExpectedCalls = nil
	transport.On("Execute", mock.Anything, mock.Anything).Return(json.RawMessage(`{}`), nil)
	engine.Drain(context.Background())

	assert.Equal(t, 0, engine.Pending())
	assert.Equal(t, []string{"createAccount", "createAccount"}, store.successes)
}

func TestDrain_RejectionRollsBackAndContinues(t *testing.T) {
	transport := new(MockTransport)
	store := &recordingStore{}
	engine := newEngine(t, transport, store)

	rejected := errors.New("account name already taken")

	transport.On("Execute", mock.Anything, mock.MatchedBy(func(m sync.Mutation) bool {
		return m.Variables["input"].(map[string]any)["accountID"] == "a1"
	})).Return(nil, rejected).Once()
	transport.On("Execute", mock.Anything, mock.Anything).Return(json.RawMessage(`{}`), nil)

	require.NoError(t, engine.Mutate(context.Background(), accountMutation("a1")))
	require.NoError(t, engine.Mutate(context.Background(), accountMutation("a2")))

	assert.Equal(t, 0, engine.Pending())
	assert.Equal(t, []string{"createAccount"}, store.failures)
	assert.Equal(t, []string{"createAccount"}, store.successes)

	// The rollback event (AccountDeleted for a1) was dispatched after the
	// two optimistic creates.
	require.Len(t, store.events, 3)
	deleted, ok := store.events[2].(domain.AccountDeleted)
	require.True(t, ok)
	assert.Equal(t, "a1", deleted.AccountID)
}

func TestFetchMissingEvents_ReplaysAndSkipsOwnClient(t *testing.T) {
	transport := new(MockTransport)
	store := &recordingStore{}
	engine := newEngine(t, transport, store)

	foreign, err := domain.EncodeEvent(domain.MovementCreated{Movement: domain.Movement{
		MovementID: "m1",
		AccountID:  "bank",
		Amount:     decimal.RequireFromString("-42.50"),
	}})
	require.NoError(t, err)
	foreign.ClientID = "client-2"

	own, err := domain.EncodeEvent(domain.MovementDeleted{MovementID: "m0"})
	require.NoError(t, err)
	own.ClientID = "client-1" // same client: already applied optimistically

	transport.On("Events", mock.Anything, mock.Anything, "ws-1").
		Return(sync.EventBatch{Events: []domain.SyncEvent{foreign, own}}, nil).Once()

	require.NoError(t, engine.FetchMissingEvents(context.Background()))

	require.Len(t, store.events, 1)
	created, ok := store.events[0].(domain.MovementCreated)
	require.True(t, ok)
	assert.Equal(t, "m1", created.Movement.MovementID)
	assert.True(t, decimal.RequireFromString("-42.50").Equal(created.Movement.Amount))
}

func TestFetchMissingEvents_WatermarkUsesServerTimeDespiteSkew(t *testing.T) {
	transport := new(MockTransport)
	serverNow := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	state := kv.NewMemory()

	// The local clock runs 45 minutes fast; if the watermark came from it,
	// every event the server records in that window would be skipped.
	engine, err := sync.NewEngine(transport, nil, state, testLogger(),
		sync.WithClock(func() time.Time { return serverNow.Add(45 * time.Minute) }))
	require.NoError(t, err)
	engine.SetSession(testSession())

	transport.On("Events", mock.Anything, time.Time{}, "ws-1").
		Return(sync.EventBatch{ServerTime: serverNow}, nil).Once()
	require.NoError(t, engine.FetchMissingEvents(context.Background()))

	// The next fetch starts from the server's watermark, not the local one.
	transport.On("Events", mock.Anything, serverNow, "ws-1").
		Return(sync.EventBatch{ServerTime: serverNow.Add(time.Minute)}, nil).Once()
	require.NoError(t, engine.FetchMissingEvents(context.Background()))

	transport.AssertExpectations(t)
}

func TestFetchMissingEvents_DropsRedeliveredEnvelope(t *testing.T) {
	transport := new(MockTransport)
	store := &recordingStore{}
	engine := newEngine(t, transport, store)

	serverNow := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	// Committed just after the server captured its watermark: returned by
	// this fetch and again by the next one.
	straggler, err := domain.EncodeEvent(domain.MovementDeleted{MovementID: "m1"})
	require.NoError(t, err)
	straggler.EventID = "evt-1"
	straggler.ClientID = "client-2"
	straggler.CreatedAt = serverNow.Add(time.Second)

	transport.On("Events", mock.Anything, time.Time{}, "ws-1").
		Return(sync.EventBatch{ServerTime: serverNow, Events: []domain.SyncEvent{straggler}}, nil).Once()
	require.NoError(t, engine.FetchMissingEvents(context.Background()))

	transport.On("Events", mock.Anything, serverNow, "ws-1").
		Return(sync.EventBatch{ServerTime: serverNow.Add(time.Minute), Events: []domain.SyncEvent{straggler}}, nil).Once()
	require.NoError(t, engine.FetchMissingEvents(context.Background()))

	require.Len(t, store.events, 1, "redelivered envelope must be applied once")
}

func TestEngine_QueueSurvivesRestart(t *testing.T) {
	transport := new(MockTransport)
	state := kv.NewMemory()

	engine, err := sync.NewEngine(transport, nil, state, testLogger())
	require.NoError(t, err)
	engine.SetSession(testSession())

	transport.On("Execute", mock.Anything, mock.Anything).Return(nil, sync.ErrUnavailable)
	require.NoError(t, engine.Mutate(context.Background(), accountMutation("a1")))
	require.Equal(t, 1, engine.Pending())

	// A new engine over the same KV store restores the undelivered queue.
	restored, err := sync.NewEngine(transport, nil, state, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, restored.Pending())
}
