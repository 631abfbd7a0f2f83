// Package stores holds the client's local authoritative state, one store per
// entity kind. Each store applies sync events (optimistic or replayed),
// reconciles after server round-trips and snapshots itself into the KV layer
// under a fixed name. Derived fields (activity amount/status, movement
// status) are computed on read through the reconcile package, never stored.
package stores

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/tallyspace/tallyspace/internal/core/domain"
	"github.com/tallyspace/tallyspace/internal/kv"
)

// AccountSource provides the account table for derived-field computation.
type AccountSource interface {
	Snapshot() map[string]domain.Account
}

// MovementSource resolves movements referenced by activity links.
type MovementSource interface {
	Lookup(movementID string) (domain.Movement, bool)
}

// loadSnapshot restores a store's persisted map, returning an empty map when
// nothing was persisted yet.
func loadSnapshot[T any](state kv.Store, key string) (map[string]T, error) {
	values := make(map[string]T)
	raw, err := state.Get(key)
	if errors.Is(err, kv.ErrNotFound) {
		return values, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// saveSnapshot persists a store's map. Persistence failures are logged, not
// fatal: in-memory state stays authoritative for the session.
func saveSnapshot[T any](state kv.Store, key string, logger *slog.Logger, values map[string]T) {
	raw, err := json.Marshal(values)
	if err != nil {
		logger.Error("failed to marshal store snapshot",
			slog.String("store", key), slog.String("error", err.Error()))
		return
	}
	if err := state.Put(key, raw); err != nil {
		logger.Error("failed to persist store snapshot",
			slog.String("store", key), slog.String("error", err.Error()))
	}
}
