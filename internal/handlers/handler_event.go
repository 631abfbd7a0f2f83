package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/tallyspace/tallyspace/internal/core/ports/services"
	"github.com/tallyspace/tallyspace/internal/middleware"
)

// eventHandler serves the workspace event log for client catch-up.
type eventHandler struct {
	eventService portssvc.EventSvcFacade
}

func newEventHandler(es portssvc.EventSvcFacade) *eventHandler {
	return &eventHandler{eventService: es}
}

func registerEventRoutes(rg *gin.RouterGroup, eventService portssvc.EventSvcFacade) {
	h := newEventHandler(eventService)

	rg.GET("/events", h.listEvents)
}

// listEvents returns events recorded after the RFC 3339 instant in the
// `since` query parameter. Omitting it replays the full workspace log, which
// is how a fresh client bootstraps its local state.
func (h *eventHandler) listEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	since := time.Time{}
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			logger.Warn("Invalid since parameter", slog.String("since", raw))
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "since must be an RFC 3339 timestamp"})
			return
		}
		since = parsed
	}

	events, err := h.eventService.ListEventsSince(c.Request.Context(), c.Param("workspace_id"), since)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list events")
		return
	}

	c.JSON(http.StatusOK, events)
}
