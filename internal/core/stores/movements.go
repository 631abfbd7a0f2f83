package stores

import (
	"encoding/json"
	"log/slog"
	"sort"
	stdsync "sync"

	"github.com/tallyspace/tallyspace/internal/core/domain"
	"github.com/tallyspace/tallyspace/internal/core/reconcile"
	"github.com/tallyspace/tallyspace/internal/core/sync"
	"github.com/tallyspace/tallyspace/internal/kv"
)

const (
	movementsKey     = "movements"
	movementLinksKey = "movementLinks"
)

// MovementView is a movement with its derived allocation status.
type MovementView struct {
	domain.Movement
	Status domain.MovementStatus `json:"status"`
}

// MovementStore holds the local copy of bank-feed movements and the links
// allocating their cash to activities.
type MovementStore struct {
	mu        stdsync.RWMutex
	movements map[string]domain.Movement
	links     map[string]domain.MovementLink
	state     kv.Store
	logger    *slog.Logger
}

// NewMovementStore restores the persisted movement and link snapshots.
func NewMovementStore(state kv.Store, logger *slog.Logger) (*MovementStore, error) {
	movements, err := loadSnapshot[domain.Movement](state, movementsKey)
	if err != nil {
		return nil, err
	}
	links, err := loadSnapshot[domain.MovementLink](state, movementLinksKey)
	if err != nil {
		return nil, err
	}
	return &MovementStore{movements: movements, links: links, state: state, logger: logger}, nil
}

var _ sync.Store = (*MovementStore)(nil)
var _ MovementSource = (*MovementStore)(nil)

// Lookup resolves a raw movement by ID (reconcile's MovementLookup shape).
func (s *MovementStore) Lookup(movementID string) (domain.Movement, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	movement, ok := s.movements[movementID]
	return movement, ok
}

// Get returns one movement with its derived status.
func (s *MovementStore) Get(movementID string) (MovementView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	movement, ok := s.movements[movementID]
	if !ok {
		return MovementView{}, false
	}
	return s.viewLocked(movement), true
}

// List returns all movements with derived status, newest first.
func (s *MovementStore) List() []MovementView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	views := make([]MovementView, 0, len(s.movements))
	for _, movement := range s.movements {
		views = append(views, s.viewLocked(movement))
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Date.After(views[j].Date) })
	return views
}

// LinksFor returns the links allocating the given movement's cash.
func (s *MovementStore) LinksFor(movementID string) []domain.MovementLink {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.linksForLocked(movementID)
}

func (s *MovementStore) linksForLocked(movementID string) []domain.MovementLink {
	var links []domain.MovementLink
	for _, link := range s.links {
		if link.MovementID == movementID {
			links = append(links, link)
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].LinkID < links[j].LinkID })
	return links
}

func (s *MovementStore) viewLocked(movement domain.Movement) MovementView {
	return MovementView{
		Movement: movement,
		Status:   reconcile.MovementStatus(movement, s.linksForLocked(movement.MovementID)),
	}
}

// HandleEvent applies movement and movement-link events.
func (s *MovementStore) HandleEvent(event domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch e := event.(type) {
	case domain.MovementCreated:
		s.movements[e.Movement.MovementID] = e.Movement
	case domain.MovementUpdated:
		s.movements[e.Movement.MovementID] = e.Movement
	case domain.MovementDeleted:
		delete(s.movements, e.MovementID)
		// Links die with the movement they allocate.
		for id, link := range s.links {
			if link.MovementID == e.MovementID {
				delete(s.links, id)
			}
		}
	case domain.MovementLinkCreated:
		s.links[e.Link.LinkID] = e.Link
	case domain.MovementLinkUpdated:
		s.links[e.Link.LinkID] = e.Link
	case domain.MovementLinkDeleted:
		delete(s.links, e.LinkID)
	default:
		return
	}
	saveSnapshot(s.state, movementsKey, s.logger, s.movements)
	saveSnapshot(s.state, movementLinksKey, s.logger, s.links)
}

// HandleMutationSuccess is a no-op hook for movements.
func (s *MovementStore) HandleMutationSuccess(m sync.Mutation, result json.RawMessage) {}

func (s *MovementStore) HandleMutationError(m sync.Mutation) {
	for _, event := range m.Rollback {
		s.HandleEvent(event)
	}
}
