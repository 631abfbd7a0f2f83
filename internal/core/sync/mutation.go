package sync

import (
	"encoding/json"

	"github.com/tallyspace/tallyspace/internal/core/domain"
)

// Mutation pairs a server call with its optimistic local effect and the
// inverse events that undo it. Events are applied to the local stores before
// the call is sent; Rollback is applied only when the server rejects it.
type Mutation struct {
	Name      string
	Document  string
	Variables map[string]any
	Events    []domain.Event
	Rollback  []domain.Event
}

// Store is implemented by every per-entity local store the engine owns.
type Store interface {
	// HandleEvent applies one domain event. It is used for both the
	// optimistic path and server-authoritative replay.
	HandleEvent(event domain.Event)

	// HandleMutationSuccess reconciles server-assigned fields after the
	// mutation committed. Most stores treat this as a no-op hook.
	HandleMutationSuccess(m Mutation, result json.RawMessage)

	// HandleMutationError undoes the optimistic local effect of a rejected
	// mutation, typically by applying its rollback events.
	HandleMutationError(m Mutation)
}
