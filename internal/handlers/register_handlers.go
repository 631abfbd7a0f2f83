package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/tallyspace/tallyspace/internal/core/ports/services"
	"github.com/tallyspace/tallyspace/internal/middleware"
	"github.com/tallyspace/tallyspace/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	registerAuthRoutes(r, cfg, services.AuthSvc)

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the authenticated /api/v1 group and delegates
// to the entity route registrations.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerLogoutRoute(v1, services.AuthSvc)
	registerUserRoutes(v1, services.UserSvc)
	registerWorkspaceRoutes(v1, services)
}
