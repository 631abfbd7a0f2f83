package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/tallyspace/tallyspace/internal/core/ports/services"
	"github.com/tallyspace/tallyspace/internal/dto"
	"github.com/tallyspace/tallyspace/internal/middleware"
)

const defaultMovementPageSize = 50

// movementHandler handles HTTP requests for bank-feed movements and their
// links to activity transactions.
type movementHandler struct {
	movementService portssvc.MovementSvcFacade
}

func newMovementHandler(ms portssvc.MovementSvcFacade) *movementHandler {
	return &movementHandler{movementService: ms}
}

func registerMovementRoutes(rg *gin.RouterGroup, movementService portssvc.MovementSvcFacade) {
	h := newMovementHandler(movementService)

	movements := rg.Group("/movements")
	{
		movements.POST("", writerOnly(), h.createMovement)
		movements.GET("", h.listMovements)
		movements.GET("/:movement_id", h.getMovement)
		movements.PUT("/:movement_id", writerOnly(), h.updateMovement)
		movements.DELETE("/:movement_id", writerOnly(), h.deleteMovement)
	}

	links := rg.Group("/movement-links")
	{
		links.POST("", writerOnly(), h.createLink)
		links.PUT("/:link_id", writerOnly(), h.updateLink)
		links.DELETE("/:link_id", writerOnly(), h.deleteLink)
	}
}

func (h *movementHandler) createMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateMovement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	movement, err := h.movementService.CreateMovement(c.Request.Context(), c.Param("workspace_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create movement")
		return
	}

	logger.Info("Movement created", slog.String("movement_id", movement.MovementID))
	c.JSON(http.StatusCreated, movement)
}

func (h *movementHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, offset := paginationParams(c, defaultMovementPageSize)

	movements, err := h.movementService.ListMovements(c.Request.Context(), c.Param("workspace_id"), c.Query("accountID"), limit, offset)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list movements")
		return
	}

	c.JSON(http.StatusOK, movements)
}

func (h *movementHandler) getMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	movement, err := h.movementService.GetMovementByID(c.Request.Context(), c.Param("workspace_id"), c.Param("movement_id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve movement")
		return
	}

	c.JSON(http.StatusOK, movement)
}

func (h *movementHandler) updateMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateMovement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	movement, err := h.movementService.UpdateMovement(c.Request.Context(), c.Param("workspace_id"), c.Param("movement_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update movement")
		return
	}

	c.JSON(http.StatusOK, movement)
}

func (h *movementHandler) deleteMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.movementService.DeleteMovement(c.Request.Context(), c.Param("workspace_id"), c.Param("movement_id"), userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete movement")
		return
	}

	logger.Info("Movement deleted", slog.String("movement_id", c.Param("movement_id")))
	c.Status(http.StatusNoContent)
}

func (h *movementHandler) createLink(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateMovementLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateLink", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	link, err := h.movementService.CreateLink(c.Request.Context(), c.Param("workspace_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create movement link")
		return
	}

	logger.Info("Movement link created", slog.String("link_id", link.LinkID))
	c.JSON(http.StatusCreated, link)
}

func (h *movementHandler) updateLink(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateMovementLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateLink", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	link, err := h.movementService.UpdateLink(c.Request.Context(), c.Param("workspace_id"), c.Param("link_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update movement link")
		return
	}

	c.JSON(http.StatusOK, link)
}

func (h *movementHandler) deleteLink(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.movementService.DeleteLink(c.Request.Context(), c.Param("workspace_id"), c.Param("link_id"), userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete movement link")
		return
	}

	logger.Info("Movement link deleted", slog.String("link_id", c.Param("link_id")))
	c.Status(http.StatusNoContent)
}
