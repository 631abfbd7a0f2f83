package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tallyspace/tallyspace/internal/apperrors"
	"github.com/tallyspace/tallyspace/internal/core/domain"
	portssvc "github.com/tallyspace/tallyspace/internal/core/ports/services"
	"github.com/tallyspace/tallyspace/internal/middleware"
)

// ErrorResponse is the generic error body returned by all handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

const workspaceRoleKey = "workspaceRole"

// respondServiceError maps service errors onto HTTP statuses. The fallback
// message is used for unexpected errors so internals never leak to clients.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		logger.Warn("Unauthorized", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
	}
}

// requireUserID pulls the authenticated user ID from the request context,
// aborting with 401 when it is missing.
func requireUserID(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromGin(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}

// workspaceMember verifies the caller is an active member of the workspace in
// the path and stashes their role for writerOnly to inspect.
func workspaceMember(workspaceService portssvc.WorkspaceSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		userID, ok := requireUserID(c, logger)
		if !ok {
			return
		}

		workspaceID := c.Param("workspace_id")
		role, err := workspaceService.AuthorizeMember(c.Request.Context(), userID, workspaceID)
		if err != nil {
			respondServiceError(c, logger, err, "Failed to authorize workspace access")
			c.Abort()
			return
		}

		c.Set(workspaceRoleKey, role)
		c.Next()
	}
}

// writerOnly rejects members whose role does not permit mutations. It must
// run after workspaceMember.
func writerOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(workspaceRoleKey)
		if !ok || role.(domain.UserWorkspaceRole) == domain.RoleReadOnly {
			logger := middleware.GetLoggerFromCtx(c.Request.Context())
			logger.Warn("Write rejected for read-only member")
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
			return
		}
		c.Next()
	}
}

// paginationParams reads limit/offset query parameters with sane bounds.
func paginationParams(c *gin.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 || limit > 500 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
