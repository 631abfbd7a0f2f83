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

const accountsKey = "accounts"

// AccountStore holds the local copy of the workspace's accounts.
type AccountStore struct {
	mu       stdsync.RWMutex
	accounts map[string]domain.Account
	state    kv.Store
	logger   *slog.Logger
}

// NewAccountStore restores the persisted account snapshot.
func NewAccountStore(state kv.Store, logger *slog.Logger) (*AccountStore, error) {
	accounts, err := loadSnapshot[domain.Account](state, accountsKey)
	if err != nil {
		return nil, err
	}
	return &AccountStore{accounts: accounts, state: state, logger: logger}, nil
}

var _ sync.Store = (*AccountStore)(nil)

// Get returns one account by ID.
func (s *AccountStore) Get(accountID string) (domain.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[accountID]
	return account, ok
}

// List returns all accounts sorted by name.
func (s *AccountStore) List() []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := make([]domain.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts
}

// Snapshot returns a copy of the account table keyed by ID, the shape the
// reconcile package consumes.
func (s *AccountStore) Snapshot() map[string]domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make(map[string]domain.Account, len(s.accounts))
	for id, account := range s.accounts {
		snapshot[id] = account
	}
	return snapshot
}

// HandleEvent applies account events; all other kinds are ignored.
func (s *AccountStore) HandleEvent(event domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch e := event.(type) {
	case domain.AccountCreated:
		s.accounts[e.Account.AccountID] = e.Account
	case domain.AccountUpdated:
		s.accounts[e.Account.AccountID] = e.Account
	case domain.AccountDeleted:
		delete(s.accounts, e.AccountID)
	default:
		return
	}
	saveSnapshot(s.state, accountsKey, s.logger, s.accounts)
}

// HandleMutationSuccess is a no-op hook; accounts carry no server-assigned
// fields beyond what the optimistic event already set.
func (s *AccountStore) HandleMutationSuccess(m sync.Mutation, result json.RawMessage) {}

// HandleMutationError undoes the optimistic effect via the mutation's
// rollback events.
func (s *AccountStore) HandleMutationError(m sync.Mutation) {
	for _, event := range m.Rollback {
		s.HandleEvent(event)
	}
}
