package models

import (
	"encoding/json"
	"time"
)

// Event is a row in the append-only workspace event log.
type Event struct {
	EventID     string          `db:"event_id"`
	WorkspaceID string          `db:"workspace_id"`
	UserID      string          `db:"user_id"`
	ClientID    string          `db:"client_id"`
	EventType   string          `db:"event_type"`
	Payload     json.RawMessage `db:"payload"`
	CreatedAt   time.Time       `db:"created_at"`
}
