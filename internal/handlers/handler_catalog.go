package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/tallyspace/tallyspace/internal/core/ports/services"
	"github.com/tallyspace/tallyspace/internal/dto"
	"github.com/tallyspace/tallyspace/internal/middleware"
)

// catalogHandler handles HTTP requests for categories, projects,
// counterparties and assets.
type catalogHandler struct {
	catalogService portssvc.CatalogSvcFacade
}

func newCatalogHandler(cs portssvc.CatalogSvcFacade) *catalogHandler {
	return &catalogHandler{catalogService: cs}
}

func registerCatalogRoutes(rg *gin.RouterGroup, catalogService portssvc.CatalogSvcFacade) {
	h := newCatalogHandler(catalogService)

	categories := rg.Group("/categories")
	{
		categories.POST("", writerOnly(), h.createCategory)
		categories.GET("", h.listCategories)
		categories.DELETE("/:category_id", writerOnly(), h.deleteCategory)
	}

	projects := rg.Group("/projects")
	{
		projects.POST("", writerOnly(), h.createProject)
		projects.GET("", h.listProjects)
		projects.PUT("/:project_id", writerOnly(), h.updateProject)
		projects.DELETE("/:project_id", writerOnly(), h.deleteProject)
	}

	counterparties := rg.Group("/counterparties")
	{
		counterparties.POST("", writerOnly(), h.createCounterparty)
		counterparties.GET("", h.listCounterparties)
	}

	assets := rg.Group("/assets")
	{
		assets.POST("", writerOnly(), h.createAsset)
		assets.GET("", h.listAssets)
	}
}

func (h *catalogHandler) createCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCategory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), c.Param("workspace_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create category")
		return
	}

	logger.Info("Category created", slog.String("category_id", category.CategoryID))
	c.JSON(http.StatusCreated, category)
}

func (h *catalogHandler) listCategories(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	categories, err := h.catalogService.ListCategories(c.Request.Context(), c.Param("workspace_id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list categories")
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *catalogHandler) deleteCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCategory(c.Request.Context(), c.Param("workspace_id"), c.Param("category_id"), userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete category")
		return
	}

	logger.Info("Category deleted", slog.String("category_id", c.Param("category_id")))
	c.Status(http.StatusNoContent)
}

func (h *catalogHandler) createProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateProject", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	project, err := h.catalogService.CreateProject(c.Request.Context(), c.Param("workspace_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create project")
		return
	}

	logger.Info("Project created", slog.String("project_id", project.ProjectID))
	c.JSON(http.StatusCreated, project)
}

func (h *catalogHandler) listProjects(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	projects, err := h.catalogService.ListProjects(c.Request.Context(), c.Param("workspace_id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list projects")
		return
	}

	c.JSON(http.StatusOK, projects)
}

func (h *catalogHandler) updateProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateProject", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	project, err := h.catalogService.UpdateProject(c.Request.Context(), c.Param("workspace_id"), c.Param("project_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update project")
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *catalogHandler) deleteProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProject(c.Request.Context(), c.Param("workspace_id"), c.Param("project_id"), userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete project")
		return
	}

	logger.Info("Project deleted", slog.String("project_id", c.Param("project_id")))
	c.Status(http.StatusNoContent)
}

func (h *catalogHandler) createCounterparty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCounterpartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCounterparty", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	counterparty, err := h.catalogService.CreateCounterparty(c.Request.Context(), c.Param("workspace_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create counterparty")
		return
	}

	c.JSON(http.StatusCreated, counterparty)
}

func (h *catalogHandler) listCounterparties(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	counterparties, err := h.catalogService.ListCounterparties(c.Request.Context(), c.Param("workspace_id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list counterparties")
		return
	}

	c.JSON(http.StatusOK, counterparties)
}

func (h *catalogHandler) createAsset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAsset", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	asset, err := h.catalogService.CreateAsset(c.Request.Context(), c.Param("workspace_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create asset")
		return
	}

	c.JSON(http.StatusCreated, asset)
}

func (h *catalogHandler) listAssets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	assets, err := h.catalogService.ListAssets(c.Request.Context(), c.Param("workspace_id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list assets")
		return
	}

	c.JSON(http.StatusOK, assets)
}
