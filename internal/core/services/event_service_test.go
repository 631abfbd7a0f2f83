package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyspace/tallyspace/internal/core/domain"
	"github.com/tallyspace/tallyspace/internal/core/services"
)

func TestListEventsSince_ServerTimePredatesQuery(t *testing.T) {
	eventRepo := new(MockEventRepository)
	service := services.NewEventService(eventRepo)

	workspaceID := uuid.NewString()
	since := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	stored := []domain.SyncEvent{
		{
			Type:        domain.EventAccountCreated,
			Payload:     json.RawMessage(`{"account":{"accountID":"a1"}}`),
			CreatedAt:   since.Add(time.Minute),
			ClientID:    "client-1",
			UserID:      "u1",
			WorkspaceID: workspaceID,
		},
		{
			Type:        domain.EventActivityCreated,
			Payload:     json.RawMessage(`{"activity":{"activityID":"act1"}}`),
			CreatedAt:   since.Add(2 * time.Minute),
			UserID:      "u2",
			WorkspaceID: workspaceID,
		},
	}
	eventRepo.On("ListEventsSince", context.Background(), workspaceID, since).Return(stored, nil).Once()

	before := time.Now().UTC()
	resp, err := service.ListEventsSince(context.Background(), workspaceID, since)
	after := time.Now().UTC()

	require.NoError(t, err)
	require.Len(t, resp.Events, 2)
	assert.Equal(t, string(domain.EventAccountCreated), resp.Events[0].Type)
	assert.Equal(t, "client-1", resp.Events[0].ClientID)
	assert.JSONEq(t, `{"activity":{"activityID":"act1"}}`, string(resp.Events[1].Payload))

	// The watermark handed to the client must bracket the request so a
	// follow-up with since=ServerTime can only see duplicates, never gaps.
	assert.False(t, resp.ServerTime.Before(before))
	assert.False(t, resp.ServerTime.After(after))

	eventRepo.AssertExpectations(t)
}

func TestListEventsSince_EmptyLogStillReturnsWatermark(t *testing.T) {
	eventRepo := new(MockEventRepository)
	service := services.NewEventService(eventRepo)

	workspaceID := uuid.NewString()
	eventRepo.On("ListEventsSince", context.Background(), workspaceID, time.Time{}).Return([]domain.SyncEvent{}, nil).Once()

	resp, err := service.ListEventsSince(context.Background(), workspaceID, time.Time{})

	require.NoError(t, err)
	assert.Empty(t, resp.Events)
	assert.False(t, resp.ServerTime.IsZero())
}
