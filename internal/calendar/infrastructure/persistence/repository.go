// Package persistence caches calendar event snapshots locally so repeated
// analyses do not refetch the upstream calendar. It stores engine inputs,
// never engine results.
package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/cadencehq/cadence/internal/calendar/domain"
)

// EventRepository stores per-owner event snapshots.
type EventRepository interface {
	// SaveSnapshot replaces the owner's cached snapshot.
	SaveSnapshot(ctx context.Context, owner string, events []domain.Event) error
	// FindByRange returns the owner's cached events overlapping [start, end),
	// ordered by start time.
	FindByRange(ctx context.Context, owner string, start, end time.Time) ([]domain.Event, error)
	// DeleteBefore drops cached events that ended before the cutoff.
	DeleteBefore(ctx context.Context, owner string, cutoff time.Time) error
}

// Driver represents a database backend type.
type Driver string

const (
	// DriverPostgres represents PostgreSQL.
	DriverPostgres Driver = "postgres"
	// DriverSQLite represents SQLite.
	DriverSQLite Driver = "sqlite"
)

// String returns the string representation of the driver.
func (d Driver) String() string {
	return string(d)
}

// DetectDriver parses a connection string and returns the driver type.
// Returns DriverSQLite for empty URLs to enable zero-config local mode.
func DetectDriver(url string) Driver {
	if url == "" {
		return DriverSQLite
	}

	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return DriverPostgres
	}

	if strings.HasPrefix(url, "sqlite://") ||
		strings.HasPrefix(url, "file:") ||
		strings.HasSuffix(url, ".db") ||
		strings.HasSuffix(url, ".sqlite") ||
		strings.HasSuffix(url, ".sqlite3") {
		return DriverSQLite
	}

	return DriverPostgres
}
