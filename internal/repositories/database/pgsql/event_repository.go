package pgsql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyspace/tallyspace/internal/core/domain"
	portsrepo "github.com/tallyspace/tallyspace/internal/core/ports/repositories"
)

type PgxEventRepository struct {
	BaseRepository
}

func newPgxEventRepository(pool *pgxpool.Pool) portsrepo.EventRepository {
	return &PgxEventRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.EventRepository = (*PgxEventRepository)(nil)

// ListEventsSince retrieves events recorded strictly after the given instant,
// oldest first.
func (r *PgxEventRepository) ListEventsSince(ctx context.Context, workspaceID string, since time.Time) ([]domain.SyncEvent, error) {
	query := `
		SELECT event_id, event_type, payload, created_at, client_id, user_id, workspace_id
		FROM events
		WHERE workspace_id = $1 AND created_at > $2
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, workspaceID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []domain.SyncEvent
	for rows.Next() {
		var event domain.SyncEvent
		var clientID sql.NullString
		var payload []byte
		if err := rows.Scan(&event.EventID, &event.Type, &payload, &event.CreatedAt, &clientID, &event.UserID, &event.WorkspaceID); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		event.Payload = payload
		event.ClientID = strOrEmpty(clientID)
		events = append(events, event)
	}
	return events, rows.Err()
}
