package stores

import (
	"encoding/json"
	"log/slog"
	"sort"
	stdsync "sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallyspace/tallyspace/internal/core/domain"
	"github.com/tallyspace/tallyspace/internal/core/reconcile"
	"github.com/tallyspace/tallyspace/internal/core/sync"
	"github.com/tallyspace/tallyspace/internal/kv"
)

const activitiesKey = "activities"

// ActivityView is an activity with its derived amount and status. Both are
// views over the activity's transactions and links, computed at read time.
type ActivityView struct {
	domain.Activity
	Amount decimal.Decimal       `json:"amount"`
	Status domain.ActivityStatus `json:"status"`
}

// ActivityStore holds the local copy of the workspace's activities. Derived
// fields resolve against the account and movement stores.
type ActivityStore struct {
	mu         stdsync.RWMutex
	activities map[string]domain.Activity
	accounts   AccountSource
	movements  MovementSource
	state      kv.Store
	logger     *slog.Logger
}

// NewActivityStore restores the persisted activity snapshot.
func NewActivityStore(state kv.Store, logger *slog.Logger, accounts AccountSource, movements MovementSource) (*ActivityStore, error) {
	activities, err := loadSnapshot[domain.Activity](state, activitiesKey)
	if err != nil {
		return nil, err
	}
	return &ActivityStore{
		activities: activities,
		accounts:   accounts,
		movements:  movements,
		state:      state,
		logger:     logger,
	}, nil
}

var _ sync.Store = (*ActivityStore)(nil)

// Get returns one activity with derived amount and status as of now.
func (s *ActivityStore) Get(activityID string, now time.Time) (ActivityView, bool) {
	s.mu.RLock()
	activity, ok := s.activities[activityID]
	s.mu.RUnlock()
	if !ok {
		return ActivityView{}, false
	}
	return s.view(activity, now), true
}

// List returns all activities with derived fields, newest first.
func (s *ActivityStore) List(now time.Time) []ActivityView {
	s.mu.RLock()
	activities := make([]domain.Activity, 0, len(s.activities))
	for _, activity := range s.activities {
		activities = append(activities, activity)
	}
	s.mu.RUnlock()

	views := make([]ActivityView, 0, len(activities))
	for _, activity := range activities {
		views = append(views, s.view(activity, now))
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].Date.Equal(views[j].Date) {
			return views[i].Number > views[j].Number
		}
		return views[i].Date.After(views[j].Date)
	})
	return views
}

// Reconciliation returns the per-account reconciliation breakdown for one
// activity, the data behind the reconciliation panel.
func (s *ActivityStore) Reconciliation(activityID string) []reconcile.AccountReconciliation {
	s.mu.RLock()
	activity, ok := s.activities[activityID]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	return reconcile.ReconciliationByAccount(
		activity.Transactions, activity.MovementLinks,
		s.accounts.Snapshot(), s.movements.Lookup,
	)
}

func (s *ActivityStore) view(activity domain.Activity, now time.Time) ActivityView {
	accounts := s.accounts.Snapshot()
	return ActivityView{
		Activity: activity,
		Amount:   reconcile.ActivityAmount(activity.ActivityType, activity.Transactions, accounts),
		Status: reconcile.ActivityStatus(
			activity.Date, activity.Transactions, activity.MovementLinks,
			accounts, s.movements.Lookup, now,
		),
	}
}

// HandleEvent applies activity, transaction, movement-link and category
// events. Events referencing activities not known locally are skipped:
// optimistic state may transiently be inconsistent during replay.
func (s *ActivityStore) HandleEvent(event domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch e := event.(type) {
	case domain.ActivityCreated:
		s.activities[e.Activity.ActivityID] = e.Activity

	case domain.ActivityUpdated:
		updated := e.Activity
		if existing, ok := s.activities[updated.ActivityID]; ok {
			// Metadata updates do not carry the relation slices.
			if updated.Transactions == nil {
				updated.Transactions = existing.Transactions
			}
			if updated.MovementLinks == nil {
				updated.MovementLinks = existing.MovementLinks
			}
		}
		s.activities[updated.ActivityID] = updated

	case domain.ActivityDeleted:
		delete(s.activities, e.ActivityID)

	case domain.TransactionAdded:
		activity, ok := s.activities[e.Transaction.ActivityID]
		if !ok {
			return
		}
		activity.Transactions = append(activity.Transactions, e.Transaction)
		s.activities[activity.ActivityID] = activity

	case domain.TransactionUpdated:
		activity, ok := s.activities[e.Transaction.ActivityID]
		if !ok {
			return
		}
		for i, txn := range activity.Transactions {
			if txn.TransactionID == e.Transaction.TransactionID {
				activity.Transactions[i] = e.Transaction
				break
			}
		}
		s.activities[activity.ActivityID] = activity

	case domain.TransactionDeleted:
		activity, ok := s.activities[e.ActivityID]
		if !ok {
			return
		}
		kept := activity.Transactions[:0]
		for _, txn := range activity.Transactions {
			if txn.TransactionID != e.TransactionID {
				kept = append(kept, txn)
			}
		}
		activity.Transactions = kept
		s.activities[activity.ActivityID] = activity

	case domain.MovementLinkCreated:
		activity, ok := s.activities[e.Link.ActivityID]
		if !ok {
			return
		}
		activity.MovementLinks = append(activity.MovementLinks, e.Link)
		s.activities[activity.ActivityID] = activity

	case domain.MovementLinkUpdated:
		activity, ok := s.activities[e.Link.ActivityID]
		if !ok {
			return
		}
		for i, link := range activity.MovementLinks {
			if link.LinkID == e.Link.LinkID {
				activity.MovementLinks[i] = e.Link
				break
			}
		}
		s.activities[activity.ActivityID] = activity

	case domain.MovementLinkDeleted:
		activity, ok := s.activities[e.ActivityID]
		if !ok {
			return
		}
		kept := activity.MovementLinks[:0]
		for _, link := range activity.MovementLinks {
			if link.LinkID != e.LinkID {
				kept = append(kept, link)
			}
		}
		activity.MovementLinks = kept
		s.activities[activity.ActivityID] = activity

	case domain.CategoryDeleted:
		// Deleting a category clears the references on its activities.
		for id, activity := range s.activities {
			if activity.CategoryID == e.CategoryID {
				activity.CategoryID = ""
				activity.SubcategoryID = ""
				s.activities[id] = activity
			}
		}

	default:
		return
	}
	saveSnapshot(s.state, activitiesKey, s.logger, s.activities)
}

// HandleMutationSuccess reconciles server-assigned fields: createActivity
// allocates the workspace-sequential activity number server-side.
func (s *ActivityStore) HandleMutationSuccess(m sync.Mutation, result json.RawMessage) {
	if m.Name != "createActivity" || len(result) == 0 {
		return
	}
	var data struct {
		CreateActivity struct {
			ActivityID string `json:"activityID"`
			Number     int64  `json:"number"`
		} `json:"createActivity"`
	}
	if err := json.Unmarshal(result, &data); err != nil {
		s.logger.Error("failed to decode createActivity result", slog.String("error", err.Error()))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	activity, ok := s.activities[data.CreateActivity.ActivityID]
	if !ok {
		return
	}
	activity.Number = data.CreateActivity.Number
	s.activities[activity.ActivityID] = activity
	saveSnapshot(s.state, activitiesKey, s.logger, s.activities)
}

func (s *ActivityStore) HandleMutationError(m sync.Mutation) {
	for _, event := range m.Rollback {
		s.HandleEvent(event)
	}
}
