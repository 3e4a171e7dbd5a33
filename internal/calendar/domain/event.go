package domain

import (
	"sort"
	"time"

	sharedDomain "github.com/cadencehq/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

// EventStatus mirrors the status reported by the external event store.
type EventStatus string

const (
	EventStatusConfirmed EventStatus = "confirmed"
	EventStatusTentative EventStatus = "tentative"
	EventStatusCancelled EventStatus = "cancelled"
)

// Event is a read-only snapshot of a calendar event. Events are owned by an
// external store; the engine never mutates or persists them.
type Event struct {
	ID     uuid.UUID
	Title  string
	Start  time.Time
	End    time.Time
	AllDay bool
	Color  string
	Status EventStatus
}

// Range returns the event's time interval.
func (e Event) Range() sharedDomain.TimeRange {
	return sharedDomain.TimeRange{Start: e.Start, End: e.End}
}

// Duration returns the event length.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Validate checks the event's interval. A malformed interval is a ParseError
// naming the offending record so the caller can decide skip-vs-abort.
func (e Event) Validate() error {
	if !e.End.After(e.Start) {
		return sharedDomain.NewParseError(e.ID.String(), "event end must be after start")
	}
	return nil
}

// ValidateSnapshot checks every event in a snapshot, returning the first
// malformed record.
func ValidateSnapshot(events []Event) error {
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// EventsOnDay returns the events whose start falls on the given calendar day,
// sorted ascending by start time. The input slice is left untouched.
func EventsOnDay(events []Event, date time.Time) []Event {
	var dayEvents []Event
	for _, e := range events {
		if sharedDomain.SameDay(e.Start, date) {
			dayEvents = append(dayEvents, e)
		}
	}
	sort.Slice(dayEvents, func(i, j int) bool {
		return dayEvents[i].Start.Before(dayEvents[j].Start)
	})
	return dayEvents
}
