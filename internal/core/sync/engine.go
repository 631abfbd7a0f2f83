// Package sync implements the offline-first mutation queue: optimistic local
// application, single-flight FIFO draining against the server, rollback on
// rejection and catch-up replay of events missed while offline.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	stdsync "sync"
	"time"

	"github.com/tallyspace/tallyspace/internal/core/domain"
	"github.com/tallyspace/tallyspace/internal/kv"
)

// stateKey is the fixed KV key the engine persists its state under.
const stateKey = "sync"

// defaultTimeout bounds each server round-trip so a hung request cannot
// wedge the drain loop.
const defaultTimeout = 30 * time.Second

// ErrNoSession indicates Mutate was called before a session was attached.
// This is a programming invariant: by the time a mutation is possible the
// client is always authenticated into a workspace.
var ErrNoSession = errors.New("no active session")

// Session identifies the client performing mutations.
type Session struct {
	ClientID    string `json:"clientID"`
	UserID      string `json:"userID"`
	WorkspaceID string `json:"workspaceID"`
}

// Engine owns the per-entity stores and serializes mutation execution
// against the server one at a time.
//
// State machine per mutation: queued -> applied-locally -> in-flight ->
// committed or rolled-back. A mutation that fails with ErrUnavailable stays
// at the head of the queue so later mutations can never be applied to the
// server out of order.
type Engine struct {
	mu          stdsync.Mutex
	processing  bool
	queue       []Mutation
	lastEventAt time.Time
	seenEvents  map[string]struct{}

	session   Session
	transport Transport
	stores    []Store
	state     kv.Store
	timeout   time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout overrides the per-mutation server round-trip timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Engine) { e.timeout = timeout }
}

// WithClock overrides the engine's clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a sync engine over the given transport and stores,
// restoring any persisted queue and event watermark from state.
func NewEngine(transport Transport, stores []Store, state kv.Store, logger *slog.Logger, opts ...Option) (*Engine, error) {
	e := &Engine{
		transport: transport,
		stores:    stores,
		state:     state,
		timeout:   defaultTimeout,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.restore(); err != nil {
		return nil, err
	}
	return e, nil
}

// SetSession attaches the authenticated session. Must be called before the
// first Mutate.
func (e *Engine) SetSession(session Session) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session = session
}

// Pending returns the number of queued mutations, including the one in
// flight.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Mutate appends the mutation to the queue, applies its declared events to
// every store immediately (the optimistic local application) and triggers a
// drain. The UI reflects the change before the network call starts.
func (e *Engine) Mutate(ctx context.Context, m Mutation) error {
	e.mu.Lock()
	if e.session.ClientID == "" || e.session.UserID == "" || e.session.WorkspaceID == "" {
		e.mu.Unlock()
		return ErrNoSession
	}
	e.queue = append(e.queue, m)
	e.persistLocked()
	e.mu.Unlock()

	for _, event := range m.Events {
		e.dispatch(event)
	}

	e.Drain(ctx)
	return nil
}

// Drain processes the queue head-first until it is empty or the server is
// unreachable. Re-entrant calls while a drain is in flight are no-ops, which
// is what keeps mutation execution single-flight.
func (e *Engine) Drain(ctx context.Context) {
	e.mu.Lock()
	if e.processing {
		e.mu.Unlock()
		return
	}
	e.processing = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.processing = false
		e.mu.Unlock()
	}()

	for {
		e.mu.Lock()
		if len(e.queue) == 0 {
			e.mu.Unlock()
			return
		}
		m := e.queue[0]
		e.mu.Unlock()

		execCtx, cancel := context.WithTimeout(ctx, e.timeout)
		result, err := e.transport.Execute(execCtx, m)
		cancel()

		switch {
		case err == nil:
			for _, store := range e.stores {
				store.HandleMutationSuccess(m, result)
			}
			e.pop()

		case errors.Is(err, ErrUnavailable):
			// Offline: the mutation stays at the head and blocks everything
			// behind it. Local optimistic state is preserved.
			e.logger.Warn("server unreachable, mutation stays queued",
				slog.String("mutation", m.Name), slog.String("error", err.Error()))
			return

		default:
			// Server rejection: undo the optimistic effect and abandon the
			// mutation. The user must re-attempt the action.
			e.logger.Warn("mutation rejected, rolling back",
				slog.String("mutation", m.Name), slog.String("error", err.Error()))
			for _, store := range e.stores {
				store.HandleMutationError(m)
			}
			e.pop()
		}
	}
}

// FetchMissingEvents pulls the events recorded since the watermark and
// replays them through every store, converging local state after being
// offline or after another device's writes. Events originated by this
// client are skipped: their optimistic application already happened and the
// entity handlers are not required to be idempotent. The watermark advances
// to the server's clock, not the local one, so skew cannot open a gap.
func (e *Engine) FetchMissingEvents(ctx context.Context) error {
	e.mu.Lock()
	session := e.session
	since := e.lastEventAt
	seen := e.seenEvents
	e.mu.Unlock()

	if session.WorkspaceID == "" {
		return ErrNoSession
	}

	batch, err := e.transport.Events(ctx, since, session.WorkspaceID)
	if err != nil {
		return fmt.Errorf("failed to fetch missed events: %w", err)
	}

	// The server captures ServerTime before querying, so an envelope
	// committed mid-request can be delivered again on the next fetch. The
	// previous batch's IDs are enough to drop those repeats.
	replayed := 0
	nextSeen := make(map[string]struct{}, len(batch.Events))
	for _, envelope := range batch.Events {
		if envelope.EventID != "" {
			nextSeen[envelope.EventID] = struct{}{}
			if _, applied := seen[envelope.EventID]; applied {
				continue
			}
		}
		if envelope.ClientID == session.ClientID {
			continue
		}
		event, err := envelope.DecodeEvent()
		if err != nil {
			e.logger.Error("skipping undecodable event",
				slog.String("type", string(envelope.Type)), slog.String("error", err.Error()))
			continue
		}
		e.dispatch(event)
		replayed++
	}

	e.mu.Lock()
	if batch.ServerTime.IsZero() {
		e.lastEventAt = e.now()
	} else {
		e.lastEventAt = batch.ServerTime
	}
	e.seenEvents = nextSeen
	e.persistLocked()
	e.mu.Unlock()

	e.logger.Info("replayed missed events",
		slog.Int("received", len(batch.Events)), slog.Int("applied", replayed))
	return nil
}

// dispatch applies one event to every store.
func (e *Engine) dispatch(event domain.Event) {
	for _, store := range e.stores {
		store.HandleEvent(event)
	}
}

func (e *Engine) pop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) > 0 {
		e.queue = e.queue[1:]
	}
	e.persistLocked()
}

// persistedMutation is the JSON shape of a queued mutation. Events round-trip
// through envelopes because the Event union is an interface.
type persistedMutation struct {
	Name      string             `json:"name"`
	Document  string             `json:"document"`
	Variables map[string]any     `json:"variables"`
	Events    []domain.SyncEvent `json:"events"`
	Rollback  []domain.SyncEvent `json:"rollback"`
}

// persistedState excludes the transient processing flag.
type persistedState struct {
	Queue        []persistedMutation `json:"queue"`
	LastEventAt  time.Time           `json:"lastEventAt"`
	SeenEventIDs []string            `json:"seenEventIDs,omitempty"`
}

func encodeEvents(events []domain.Event) ([]domain.SyncEvent, error) {
	encoded := make([]domain.SyncEvent, 0, len(events))
	for _, event := range events {
		envelope, err := domain.EncodeEvent(event)
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, envelope)
	}
	return encoded, nil
}

func decodeEvents(envelopes []domain.SyncEvent) ([]domain.Event, error) {
	decoded := make([]domain.Event, 0, len(envelopes))
	for _, envelope := range envelopes {
		event, err := envelope.DecodeEvent()
		if err != nil {
			return nil, err
		}
		decoded = append(decoded, event)
	}
	return decoded, nil
}

// persistLocked snapshots queue and watermark. Callers hold e.mu.
func (e *Engine) persistLocked() {
	state := persistedState{
		Queue:       make([]persistedMutation, 0, len(e.queue)),
		LastEventAt: e.lastEventAt,
	}
	for id := range e.seenEvents {
		state.SeenEventIDs = append(state.SeenEventIDs, id)
	}
	for _, m := range e.queue {
		events, err := encodeEvents(m.Events)
		if err != nil {
			e.logger.Error("failed to encode queued mutation", slog.String("error", err.Error()))
			return
		}
		rollback, err := encodeEvents(m.Rollback)
		if err != nil {
			e.logger.Error("failed to encode queued mutation", slog.String("error", err.Error()))
			return
		}
		state.Queue = append(state.Queue, persistedMutation{
			Name:      m.Name,
			Document:  m.Document,
			Variables: m.Variables,
			Events:    events,
			Rollback:  rollback,
		})
	}

	raw, err := json.Marshal(state)
	if err != nil {
		e.logger.Error("failed to marshal sync state", slog.String("error", err.Error()))
		return
	}
	if err := e.state.Put(stateKey, raw); err != nil {
		e.logger.Error("failed to persist sync state", slog.String("error", err.Error()))
	}
}

func (e *Engine) restore() error {
	raw, err := e.state.Get(stateKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load sync state: %w", err)
	}

	var state persistedState
	if err := json.Unmarshal(raw, &state); err != nil {
		return fmt.Errorf("failed to decode sync state: %w", err)
	}

	e.lastEventAt = state.LastEventAt
	if len(state.SeenEventIDs) > 0 {
		e.seenEvents = make(map[string]struct{}, len(state.SeenEventIDs))
		for _, id := range state.SeenEventIDs {
			e.seenEvents[id] = struct{}{}
		}
	}
	for _, pm := range state.Queue {
		events, err := decodeEvents(pm.Events)
		if err != nil {
			return fmt.Errorf("failed to decode queued mutation %s: %w", pm.Name, err)
		}
		rollback, err := decodeEvents(pm.Rollback)
		if err != nil {
			return fmt.Errorf("failed to decode queued mutation %s: %w", pm.Name, err)
		}
		e.queue = append(e.queue, Mutation{
			Name:      pm.Name,
			Document:  pm.Document,
			Variables: pm.Variables,
			Events:    events,
			Rollback:  rollback,
		})
	}
	return nil
}
