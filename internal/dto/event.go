package dto

import (
	"encoding/json"
	"time"
)

// EventResponse is one entry of the workspace event log.
type EventResponse struct {
	EventID   string          `json:"eventID"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
	ClientID  string          `json:"clientID,omitempty"`
	UserID    string          `json:"userID"`
}

// ListEventsResponse returns events recorded after the requested instant.
// ServerTime is the watermark clients should store for their next fetch.
type ListEventsResponse struct {
	Events     []EventResponse `json:"events"`
	ServerTime time.Time       `json:"serverTime"`
}
