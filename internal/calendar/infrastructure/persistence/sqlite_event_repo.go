package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/cadencehq/cadence/internal/calendar/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS event_snapshots (
	owner      TEXT NOT NULL,
	id         TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	start_time TEXT NOT NULL,
	end_time   TEXT NOT NULL,
	all_day    INTEGER NOT NULL DEFAULT 0,
	color      TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'confirmed',
	PRIMARY KEY (owner, id)
);
CREATE INDEX IF NOT EXISTS idx_event_snapshots_range
	ON event_snapshots (owner, start_time, end_time);
`

// OpenSQLite opens (and migrates) a SQLite snapshot database at the given
// path. Pragmas follow the usual WAL setup; connections are capped at one
// because SQLite has a single writer.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?"
	} else {
		dsn += "&"
	}
	dsn += "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate SQLite database: %w", err)
	}

	return db, nil
}

// SQLiteEventRepository implements EventRepository using SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

var _ EventRepository = (*SQLiteEventRepository)(nil)

// NewSQLiteEventRepository creates a SQLite snapshot repository.
func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

// SaveSnapshot replaces the owner's cached snapshot in one transaction.
func (r *SQLiteEventRepository) SaveSnapshot(ctx context.Context, owner string, events []domain.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_snapshots WHERE owner = ?`, owner); err != nil {
		return err
	}

	for _, event := range events {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO event_snapshots (owner, id, title, start_time, end_time, all_day, color, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			owner,
			event.ID.String(),
			event.Title,
			event.Start.UTC().Format(time.RFC3339),
			event.End.UTC().Format(time.RFC3339),
			boolToInt64(event.AllDay),
			event.Color,
			string(event.Status),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindByRange returns the owner's cached events overlapping [start, end).
func (r *SQLiteEventRepository) FindByRange(ctx context.Context, owner string, start, end time.Time) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, start_time, end_time, all_day, color, status
		FROM event_snapshots
		WHERE owner = ? AND start_time < ? AND end_time > ?
		ORDER BY start_time`,
		owner,
		end.UTC().Format(time.RFC3339),
		start.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var (
			id, title, startStr, endStr, color, status string
			allDay                                     int64
		)
		if err := rows.Scan(&id, &title, &startStr, &endStr, &allDay, &color, &status); err != nil {
			return nil, err
		}
		event, err := scanEvent(id, title, startStr, endStr, allDay != 0, color, status)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// DeleteBefore drops cached events that ended before the cutoff.
func (r *SQLiteEventRepository) DeleteBefore(ctx context.Context, owner string, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM event_snapshots WHERE owner = ? AND end_time <= ?`,
		owner, cutoff.UTC().Format(time.RFC3339))
	return err
}

func scanEvent(id, title, startStr, endStr string, allDay bool, color, status string) (domain.Event, error) {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("corrupt snapshot row %s: %w", id, err)
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return domain.Event{}, fmt.Errorf("corrupt snapshot row %s: %w", id, err)
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return domain.Event{}, fmt.Errorf("corrupt snapshot row %s: %w", id, err)
	}

	return domain.Event{
		ID:     eventID,
		Title:  title,
		Start:  start,
		End:    end,
		AllDay: allDay,
		Color:  color,
		Status: domain.EventStatus(status),
	}, nil
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
