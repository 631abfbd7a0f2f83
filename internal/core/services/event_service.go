package services

import (
	"context"
	"time"

	portsrepo "github.com/tallyspace/tallyspace/internal/core/ports/repositories"
	"github.com/tallyspace/tallyspace/internal/dto"
)

// EventService serves the workspace event log to catching-up clients.
type EventService struct {
	eventRepo portsrepo.EventRepository
}

func NewEventService(eventRepo portsrepo.EventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

// ListEventsSince returns all events recorded after the given instant,
// oldest first. ServerTime is captured before the query so a client that
// stores it as its next watermark can never skip an event committed while
// the request was in flight.
func (s *EventService) ListEventsSince(ctx context.Context, workspaceID string, since time.Time) (*dto.ListEventsResponse, error) {
	serverTime := time.Now().UTC()

	events, err := s.eventRepo.ListEventsSince(ctx, workspaceID, since)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, dto.EventResponse{
			EventID:   event.EventID,
			Type:      string(event.Type),
			Payload:   event.Payload,
			CreatedAt: event.CreatedAt,
			ClientID:  event.ClientID,
			UserID:    event.UserID,
		})
	}

	return &dto.ListEventsResponse{
		Events:     responses,
		ServerTime: serverTime,
	}, nil
}
