package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType tags a domain event on the wire and in the event log.
type EventType string

const (
	EventActivityCreated     EventType = "activity.created"
	EventActivityUpdated     EventType = "activity.updated"
	EventActivityDeleted     EventType = "activity.deleted"
	EventTransactionAdded    EventType = "transaction.added"
	EventTransactionUpdated  EventType = "transaction.updated"
	EventTransactionDeleted  EventType = "transaction.deleted"
	EventAccountCreated      EventType = "account.created"
	EventAccountUpdated      EventType = "account.updated"
	EventAccountDeleted      EventType = "account.deleted"
	EventMovementCreated     EventType = "movement.created"
	EventMovementUpdated     EventType = "movement.updated"
	EventMovementDeleted     EventType = "movement.deleted"
	EventMovementLinkCreated EventType = "movementlink.created"
	EventMovementLinkUpdated EventType = "movementlink.updated"
	EventMovementLinkDeleted EventType = "movementlink.deleted"
	EventCategoryCreated     EventType = "category.created"
	EventCategoryUpdated     EventType = "category.updated"
	EventCategoryDeleted     EventType = "category.deleted"
	EventProjectCreated      EventType = "project.created"
	EventProjectUpdated      EventType = "project.updated"
	EventProjectDeleted      EventType = "project.deleted"
)

// Event is the closed union of domain events. It is used both for optimistic
// local application and for server-authoritative replay; adding a kind means
// adding a struct here and a case to DecodeEvent.
type Event interface {
	EventType() EventType
}

type ActivityCreated struct {
	Activity Activity `json:"activity"`
}

type ActivityUpdated struct {
	Activity Activity `json:"activity"`
}

type ActivityDeleted struct {
	ActivityID string `json:"activityID"`
}

type TransactionAdded struct {
	Transaction Transaction `json:"transaction"`
}

type TransactionUpdated struct {
	Transaction Transaction `json:"transaction"`
}

type TransactionDeleted struct {
	ActivityID    string `json:"activityID"`
	TransactionID string `json:"transactionID"`
}

type AccountCreated struct {
	Account Account `json:"account"`
}

type AccountUpdated struct {
	Account Account `json:"account"`
}

type AccountDeleted struct {
	AccountID string `json:"accountID"`
}

type MovementCreated struct {
	Movement Movement `json:"movement"`
}

type MovementUpdated struct {
	Movement Movement `json:"movement"`
}

type MovementDeleted struct {
	MovementID string `json:"movementID"`
}

type MovementLinkCreated struct {
	Link MovementLink `json:"link"`
}

type MovementLinkUpdated struct {
	Link MovementLink `json:"link"`
}

type MovementLinkDeleted struct {
	LinkID     string `json:"linkID"`
	ActivityID string `json:"activityID"`
	MovementID string `json:"movementID"`
}

type CategoryCreated struct {
	Category Category `json:"category"`
}

type CategoryUpdated struct {
	Category Category `json:"category"`
}

type CategoryDeleted struct {
	CategoryID string `json:"categoryID"`
}

type ProjectCreated struct {
	Project Project `json:"project"`
}

type ProjectUpdated struct {
	Project Project `json:"project"`
}

type ProjectDeleted struct {
	ProjectID string `json:"projectID"`
}

func (ActivityCreated) EventType() EventType     { return EventActivityCreated }
func (ActivityUpdated) EventType() EventType     { return EventActivityUpdated }
func (ActivityDeleted) EventType() EventType     { return EventActivityDeleted }
func (TransactionAdded) EventType() EventType    { return EventTransactionAdded }
func (TransactionUpdated) EventType() EventType  { return EventTransactionUpdated }
func (TransactionDeleted) EventType() EventType  { return EventTransactionDeleted }
func (AccountCreated) EventType() EventType      { return EventAccountCreated }
func (AccountUpdated) EventType() EventType      { return EventAccountUpdated }
func (AccountDeleted) EventType() EventType      { return EventAccountDeleted }
func (MovementCreated) EventType() EventType     { return EventMovementCreated }
func (MovementUpdated) EventType() EventType     { return EventMovementUpdated }
func (MovementDeleted) EventType() EventType     { return EventMovementDeleted }
func (MovementLinkCreated) EventType() EventType { return EventMovementLinkCreated }
func (MovementLinkUpdated) EventType() EventType { return EventMovementLinkUpdated }
func (MovementLinkDeleted) EventType() EventType { return EventMovementLinkDeleted }
func (CategoryCreated) EventType() EventType     { return EventCategoryCreated }
func (CategoryUpdated) EventType() EventType     { return EventCategoryUpdated }
func (CategoryDeleted) EventType() EventType     { return EventCategoryDeleted }
func (ProjectCreated) EventType() EventType      { return EventProjectCreated }
func (ProjectUpdated) EventType() EventType      { return EventProjectUpdated }
func (ProjectDeleted) EventType() EventType      { return EventProjectDeleted }

// SyncEvent is the wire envelope for a domain event, shared by live
// mutation-derived optimistic events and server-replayed missed events.
type SyncEvent struct {
	EventID     string          `json:"eventID,omitempty"`
	Type        EventType       `json:"type"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"createdAt"`
	ClientID    string          `json:"clientID"`
	UserID      string          `json:"userID"`
	WorkspaceID string          `json:"workspaceID"`
}

// EncodeEvent wraps a typed event into an envelope. Envelope metadata
// (CreatedAt, ClientID, UserID, WorkspaceID) is stamped by the caller.
func EncodeEvent(event Event) (SyncEvent, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return SyncEvent{}, fmt.Errorf("failed to encode %s payload: %w", event.EventType(), err)
	}
	return SyncEvent{Type: event.EventType(), Payload: payload}, nil
}

// decodeAs unmarshals a payload into a concrete event value.
func decodeAs[T Event](eventType EventType, payload json.RawMessage) (Event, error) {
	var event T
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", eventType, err)
	}
	return event, nil
}

// DecodeEvent unwraps an envelope back into its typed event. The switch is
// exhaustive over the Event union; an unknown tag is an error, never a panic.
func (e SyncEvent) DecodeEvent() (Event, error) {
	switch e.Type {
	case EventActivityCreated:
		return decodeAs[ActivityCreated](e.Type, e.Payload)
	case EventActivityUpdated:
		return decodeAs[ActivityUpdated](e.Type, e.Payload)
	case EventActivityDeleted:
		return decodeAs[ActivityDeleted](e.Type, e.Payload)
	case EventTransactionAdded:
		return decodeAs[TransactionAdded](e.Type, e.Payload)
	case EventTransactionUpdated:
		return decodeAs[TransactionUpdated](e.Type, e.Payload)
	case EventTransactionDeleted:
		return decodeAs[TransactionDeleted](e.Type, e.Payload)
	case EventAccountCreated:
		return decodeAs[AccountCreated](e.Type, e.Payload)
	case EventAccountUpdated:
		return decodeAs[AccountUpdated](e.Type, e.Payload)
	case EventAccountDeleted:
		return decodeAs[AccountDeleted](e.Type, e.Payload)
	case EventMovementCreated:
		return decodeAs[MovementCreated](e.Type, e.Payload)
	case EventMovementUpdated:
		return decodeAs[MovementUpdated](e.Type, e.Payload)
	case EventMovementDeleted:
		return decodeAs[MovementDeleted](e.Type, e.Payload)
	case EventMovementLinkCreated:
		return decodeAs[MovementLinkCreated](e.Type, e.Payload)
	case EventMovementLinkUpdated:
		return decodeAs[MovementLinkUpdated](e.Type, e.Payload)
	case EventMovementLinkDeleted:
		return decodeAs[MovementLinkDeleted](e.Type, e.Payload)
	case EventCategoryCreated:
		return decodeAs[CategoryCreated](e.Type, e.Payload)
	case EventCategoryUpdated:
		return decodeAs[CategoryUpdated](e.Type, e.Payload)
	case EventCategoryDeleted:
		return decodeAs[CategoryDeleted](e.Type, e.Payload)
	case EventProjectCreated:
		return decodeAs[ProjectCreated](e.Type, e.Payload)
	case EventProjectUpdated:
		return decodeAs[ProjectUpdated](e.Type, e.Payload)
	case EventProjectDeleted:
		return decodeAs[ProjectDeleted](e.Type, e.Payload)
	default:
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}
}
