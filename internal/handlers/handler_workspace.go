package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/tallyspace/tallyspace/internal/core/ports/services"
	"github.com/tallyspace/tallyspace/internal/dto"
	"github.com/tallyspace/tallyspace/internal/middleware"
)

// workspaceHandler handles HTTP requests related to workspaces and memberships.
type workspaceHandler struct {
	workspaceService portssvc.WorkspaceSvcFacade
}

func newWorkspaceHandler(ws portssvc.WorkspaceSvcFacade) *workspaceHandler {
	return &workspaceHandler{workspaceService: ws}
}

// registerWorkspaceRoutes registers workspace management routes and nests all
// workspace-scoped entity routes under /workspaces/:workspace_id, behind the
// membership check.
func registerWorkspaceRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newWorkspaceHandler(services.WorkspaceSvc)

	workspaces := rg.Group("/workspaces")
	{
		workspaces.POST("", h.createWorkspace)
		workspaces.GET("", h.listWorkspaces)
	}

	scoped := rg.Group("/workspaces/:workspace_id", workspaceMember(services.WorkspaceSvc))
	{
		users := scoped.Group("/users")
		{
			users.POST("", writerOnly(), h.addUserToWorkspace)
		}

		registerAccountRoutes(scoped, services.AccountSvc)
		registerActivityRoutes(scoped, services.ActivitySvc)
		registerMovementRoutes(scoped, services.MovementSvc)
		registerCatalogRoutes(scoped, services.CatalogSvc)
		registerEventRoutes(scoped, services.EventSvc)
	}
}

func (h *workspaceHandler) createWorkspace(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateWorkspace", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	workspace, err := h.workspaceService.CreateWorkspace(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create workspace")
		return
	}

	logger.Info("Workspace created", slog.String("workspace_id", workspace.WorkspaceID))
	c.JSON(http.StatusCreated, workspace)
}

func (h *workspaceHandler) listWorkspaces(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	workspaces, err := h.workspaceService.ListWorkspaces(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list workspaces")
		return
	}

	c.JSON(http.StatusOK, workspaces)
}

func (h *workspaceHandler) addUserToWorkspace(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddUserToWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddUserToWorkspace", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	workspaceID := c.Param("workspace_id")
	if err := h.workspaceService.AddUserToWorkspace(c.Request.Context(), workspaceID, req, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to add user to workspace")
		return
	}

	logger.Info("User added to workspace",
		slog.String("workspace_id", workspaceID),
		slog.String("target_user_id", req.UserID),
		slog.String("role", req.Role))
	c.Status(http.StatusNoContent)
}
