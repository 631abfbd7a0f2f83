package services

import (
	portsrepo "github.com/tallyspace/tallyspace/internal/core/ports/repositories"
	portssvc "github.com/tallyspace/tallyspace/internal/core/ports/services"
	"github.com/tallyspace/tallyspace/internal/platform/config"
)

// NewServiceContainer wires every service against the repository provider.
func NewServiceContainer(repos portsrepo.RepositoryProvider, cfg *config.Config) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		AuthSvc:      NewAuthService(repos.UserRepo, cfg.JWTSecret, cfg.JWTExpiry, cfg.RefreshExpiry),
		UserSvc:      NewUserService(repos.UserRepo),
		WorkspaceSvc: NewWorkspaceService(repos.WorkspaceRepo),
		AccountSvc:   NewAccountService(repos.AccountRepo),
		ActivitySvc:  NewActivityService(repos.ActivityRepo, repos.AccountRepo, repos.MovementRepo),
		MovementSvc:  NewMovementService(repos.MovementRepo, repos.AccountRepo, repos.ActivityRepo),
		CatalogSvc:   NewCatalogService(repos.CatalogRepo),
		EventSvc:     NewEventService(repos.EventRepo),
	}
}
