package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cadencehq/cadence/internal/calendar/domain"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS event_snapshots (
	owner      TEXT NOT NULL,
	id         UUID NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	start_time TIMESTAMPTZ NOT NULL,
	end_time   TIMESTAMPTZ NOT NULL,
	all_day    BOOLEAN NOT NULL DEFAULT FALSE,
	color      TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'confirmed',
	PRIMARY KEY (owner, id)
);
CREATE INDEX IF NOT EXISTS idx_event_snapshots_range
	ON event_snapshots (owner, start_time, end_time);
`

// PostgresEventRepository implements EventRepository using PostgreSQL.
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

var _ EventRepository = (*PostgresEventRepository)(nil)

// NewPostgresEventRepository creates a Postgres snapshot repository.
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

// Migrate creates the snapshot table if it does not exist.
func (r *PostgresEventRepository) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, postgresSchema)
	return err
}

// SaveSnapshot replaces the owner's cached snapshot in one transaction.
func (r *PostgresEventRepository) SaveSnapshot(ctx context.Context, owner string, events []domain.Event) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM event_snapshots WHERE owner = $1`, owner); err != nil {
		return err
	}

	for _, event := range events {
		_, err := tx.Exec(ctx, `
			INSERT INTO event_snapshots (owner, id, title, start_time, end_time, all_day, color, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			owner,
			event.ID,
			event.Title,
			event.Start.UTC(),
			event.End.UTC(),
			event.AllDay,
			event.Color,
			string(event.Status),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// FindByRange returns the owner's cached events overlapping [start, end).
func (r *PostgresEventRepository) FindByRange(ctx context.Context, owner string, start, end time.Time) ([]domain.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, start_time, end_time, all_day, color, status
		FROM event_snapshots
		WHERE owner = $1 AND start_time < $2 AND end_time > $3
		ORDER BY start_time`,
		owner, end.UTC(), start.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var (
			id           uuid.UUID
			title, color string
			status       string
			startTime    time.Time
			endTime      time.Time
			allDay       bool
		)
		if err := rows.Scan(&id, &title, &startTime, &endTime, &allDay, &color, &status); err != nil {
			return nil, err
		}
		events = append(events, domain.Event{
			ID:     id,
			Title:  title,
			Start:  startTime,
			End:    endTime,
			AllDay: allDay,
			Color:  color,
			Status: domain.EventStatus(status),
		})
	}
	return events, rows.Err()
}

// DeleteBefore drops cached events that ended before the cutoff.
func (r *PostgresEventRepository) DeleteBefore(ctx context.Context, owner string, cutoff time.Time) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM event_snapshots WHERE owner = $1 AND end_time <= $2`,
		owner, cutoff.UTC())
	return err
}
