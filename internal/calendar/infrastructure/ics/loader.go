// Package ics loads calendar event snapshots from iCalendar data.
package ics

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/cadencehq/cadence/internal/calendar/domain"
	sharedDomain "github.com/cadencehq/cadence/internal/shared/domain"
)

// Loader parses .ics data into validated event snapshots.
type Loader struct {
	strict bool
	logger *slog.Logger
}

// NewLoader creates a loader. By default malformed events are logged and
// skipped; use WithStrict to abort instead.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// WithStrict makes the loader return the first ParseError instead of
// skipping the offending event.
func (l *Loader) WithStrict(strict bool) *Loader {
	l.strict = strict
	return l
}

// Load decodes every VEVENT in the stream into an event snapshot.
func (l *Loader) Load(r io.Reader) ([]domain.Event, error) {
	decoder := ical.NewDecoder(r)

	var events []domain.Event
	for {
		cal, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode ics: %w", err)
		}

		for _, icalEvent := range cal.Events() {
			event, err := EventFromICal(&icalEvent)
			if err != nil {
				if l.strict {
					return nil, err
				}
				l.logger.Warn("skipping malformed ics event", "error", err)
				continue
			}
			events = append(events, event)
		}
	}

	return events, nil
}

// LoadFile reads and decodes an .ics file.
func (l *Loader) LoadFile(path string) ([]domain.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ics file: %w", err)
	}
	defer f.Close()

	return l.Load(f)
}

// EventFromICal converts a VEVENT into an event snapshot. Missing or
// malformed intervals surface as a ParseError naming the record's UID.
func EventFromICal(icalEvent *ical.Event) (domain.Event, error) {
	uid := ""
	if prop := icalEvent.Props.Get(ical.PropUID); prop != nil {
		uid = prop.Value
	}

	start, err := icalEvent.DateTimeStart(time.UTC)
	if err != nil {
		return domain.Event{}, sharedDomain.NewParseError(uid, "missing or malformed DTSTART")
	}
	end, err := icalEvent.DateTimeEnd(time.UTC)
	if err != nil {
		return domain.Event{}, sharedDomain.NewParseError(uid, "missing or malformed DTEND")
	}

	event := domain.Event{
		ID:     eventID(uid),
		Start:  start,
		End:    end,
		AllDay: isAllDay(icalEvent),
		Status: domain.EventStatusConfirmed,
	}

	if prop := icalEvent.Props.Get(ical.PropSummary); prop != nil {
		event.Title = prop.Value
	}
	if prop := icalEvent.Props.Get(ical.PropColor); prop != nil {
		event.Color = prop.Value
	}
	if prop := icalEvent.Props.Get(ical.PropStatus); prop != nil {
		switch strings.ToUpper(prop.Value) {
		case "TENTATIVE":
			event.Status = domain.EventStatusTentative
		case "CANCELLED":
			event.Status = domain.EventStatusCancelled
		}
	}

	if err := event.Validate(); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

// eventID maps an iCalendar UID onto a stable uuid. Non-uuid UIDs hash
// deterministically so repeated loads agree on identity.
func eventID(uid string) uuid.UUID {
	if uid == "" {
		return uuid.New()
	}
	if id, err := uuid.Parse(uid); err == nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(uid))
}

func isAllDay(icalEvent *ical.Event) bool {
	prop := icalEvent.Props.Get(ical.PropDateTimeStart)
	return prop != nil && prop.ValueType() == ical.ValueDate
}
