package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/tallyspace/tallyspace/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   newPgxAccountRepository(dbPool),
		ActivityRepo:  newPgxActivityRepository(dbPool),
		MovementRepo:  newPgxMovementRepository(dbPool),
		CatalogRepo:   newPgxCatalogRepository(dbPool),
		EventRepo:     newPgxEventRepository(dbPool),
		UserRepo:      newPgxUserRepository(dbPool),
		WorkspaceRepo: newPgxWorkspaceRepository(dbPool),
	}
}
