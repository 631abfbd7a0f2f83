package stores

import (
	"encoding/json"
	"log/slog"
	"sort"
	stdsync "sync"

	"github.com/tallyspace/tallyspace/internal/core/domain"
	"github.com/tallyspace/tallyspace/internal/core/sync"
	"github.com/tallyspace/tallyspace/internal/kv"
)

const categoriesKey = "categories"

// CategoryStore holds the local copy of the workspace's categories.
type CategoryStore struct {
	mu         stdsync.RWMutex
	categories map[string]domain.Category
	state      kv.Store
	logger     *slog.Logger
}

func NewCategoryStore(state kv.Store, logger *slog.Logger) (*CategoryStore, error) {
	categories, err := loadSnapshot[domain.Category](state, categoriesKey)
	if err != nil {
		return nil, err
	}
	return &CategoryStore{categories: categories, state: state, logger: logger}, nil
}

var _ sync.Store = (*CategoryStore)(nil)

func (s *CategoryStore) Get(categoryID string) (domain.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	category, ok := s.categories[categoryID]
	return category, ok
}

func (s *CategoryStore) List() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	categories := make([]domain.Category, 0, len(s.categories))
	for _, category := range s.categories {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories
}

func (s *CategoryStore) HandleEvent(event domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch e := event.(type) {
	case domain.CategoryCreated:
		s.categories[e.Category.CategoryID] = e.Category
	case domain.CategoryUpdated:
		s.categories[e.Category.CategoryID] = e.Category
	case domain.CategoryDeleted:
		delete(s.categories, e.CategoryID)
	default:
		return
	}
	saveSnapshot(s.state, categoriesKey, s.logger, s.categories)
}

func (s *CategoryStore) HandleMutationSuccess(m sync.Mutation, result json.RawMessage) {}

func (s *CategoryStore) HandleMutationError(m sync.Mutation) {
	for _, event := range m.Rollback {
		s.HandleEvent(event)
	}
}
