package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo   AccountRepositoryFacade
	ActivityRepo  ActivityRepositoryFacade
	MovementRepo  MovementRepositoryFacade
	CatalogRepo   CatalogRepositoryFacade
	EventRepo     EventRepository
	UserRepo      UserRepositoryFacade
	WorkspaceRepo WorkspaceRepositoryFacade
}
