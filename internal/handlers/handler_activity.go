package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/tallyspace/tallyspace/internal/core/ports/services"
	"github.com/tallyspace/tallyspace/internal/dto"
	"github.com/tallyspace/tallyspace/internal/middleware"
)

const defaultActivityPageSize = 50

// activityHandler handles HTTP requests for activities and their transactions.
type activityHandler struct {
	activityService portssvc.ActivitySvcFacade
}

func newActivityHandler(as portssvc.ActivitySvcFacade) *activityHandler {
	return &activityHandler{activityService: as}
}

func registerActivityRoutes(rg *gin.RouterGroup, activityService portssvc.ActivitySvcFacade) {
	h := newActivityHandler(activityService)

	activities := rg.Group("/activities")
	{
		activities.POST("", writerOnly(), h.createActivity)
		activities.GET("", h.listActivities)
		activities.GET("/:activity_id", h.getActivity)
		activities.PUT("/:activity_id", writerOnly(), h.updateActivity)
		activities.DELETE("/:activity_id", writerOnly(), h.deleteActivity)

		activities.GET("/:activity_id/reconciliation", h.getReconciliation)

		activities.POST("/:activity_id/transactions", writerOnly(), h.addTransaction)
		activities.PUT("/:activity_id/transactions/:transaction_id", writerOnly(), h.updateTransaction)
		activities.DELETE("/:activity_id/transactions/:transaction_id", writerOnly(), h.deleteTransaction)
	}
}

func (h *activityHandler) createActivity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateActivity", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	activity, err := h.activityService.CreateActivity(c.Request.Context(), c.Param("workspace_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create activity")
		return
	}

	logger.Info("Activity created",
		slog.String("activity_id", activity.ActivityID),
		slog.Int64("number", activity.Number))
	c.JSON(http.StatusCreated, activity)
}

func (h *activityHandler) listActivities(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, offset := paginationParams(c, defaultActivityPageSize)

	activities, err := h.activityService.ListActivities(c.Request.Context(), c.Param("workspace_id"), limit, offset)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list activities")
		return
	}

	c.JSON(http.StatusOK, activities)
}

func (h *activityHandler) getActivity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	activity, err := h.activityService.GetActivityByID(c.Request.Context(), c.Param("workspace_id"), c.Param("activity_id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve activity")
		return
	}

	c.JSON(http.StatusOK, activity)
}

func (h *activityHandler) updateActivity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateActivity", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	activity, err := h.activityService.UpdateActivity(c.Request.Context(), c.Param("workspace_id"), c.Param("activity_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update activity")
		return
	}

	c.JSON(http.StatusOK, activity)
}

func (h *activityHandler) deleteActivity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.activityService.DeleteActivity(c.Request.Context(), c.Param("workspace_id"), c.Param("activity_id"), userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete activity")
		return
	}

	logger.Info("Activity deleted", slog.String("activity_id", c.Param("activity_id")))
	c.Status(http.StatusNoContent)
}

func (h *activityHandler) getReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.activityService.GetReconciliation(c.Request.Context(), c.Param("workspace_id"), c.Param("activity_id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute reconciliation")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *activityHandler) addTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	activity, err := h.activityService.AddTransaction(c.Request.Context(), c.Param("workspace_id"), c.Param("activity_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to add transaction")
		return
	}

	c.JSON(http.StatusCreated, activity)
}

func (h *activityHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	activity, err := h.activityService.UpdateTransaction(c.Request.Context(), c.Param("workspace_id"), c.Param("activity_id"), c.Param("transaction_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update transaction")
		return
	}

	c.JSON(http.StatusOK, activity)
}

func (h *activityHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	activity, err := h.activityService.DeleteTransaction(c.Request.Context(), c.Param("workspace_id"), c.Param("activity_id"), c.Param("transaction_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to delete transaction")
		return
	}

	c.JSON(http.StatusOK, activity)
}
