package services

// ServiceContainer holds all service facades needed by the HTTP handlers.
type ServiceContainer struct {
	AuthSvc      AuthSvcFacade
	UserSvc      UserSvcFacade
	WorkspaceSvc WorkspaceSvcFacade
	AccountSvc   AccountSvcFacade
	ActivitySvc  ActivitySvcFacade
	MovementSvc  MovementSvcFacade
	CatalogSvc   CatalogSvcFacade
	EventSvc     EventSvcFacade
}
