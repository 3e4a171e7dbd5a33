// Package caldav fetches read-only event snapshots from a CalDAV server
// (Apple Calendar, Fastmail, Nextcloud, etc.).
package caldav

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2"

	"github.com/cadencehq/cadence/internal/calendar/domain"
	"github.com/cadencehq/cadence/internal/calendar/infrastructure/ics"
)

// Common CalDAV server URLs
const (
	AppleCalDAVURL    = "https://caldav.icloud.com"
	FastmailCalDAVURL = "https://caldav.fastmail.com"
)

const requestTimeout = 30 * time.Second

// Source reads events from one CalDAV calendar. Fetches run through a
// circuit breaker so a flapping server fails fast instead of hanging every
// analysis.
type Source struct {
	endpoint     string
	username     string
	password     string
	token        string
	calendarPath string
	logger       *slog.Logger
	breaker      *gobreaker.CircuitBreaker[[]domain.Event]
}

// NewSource creates a CalDAV event source using basic auth. Use an
// app-specific password for Apple.
func NewSource(endpoint, username, password string, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:     "caldav",
		Interval: time.Minute,
		Timeout:  requestTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("caldav circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	}

	return &Source{
		endpoint: endpoint,
		username: username,
		password: password,
		logger:   logger,
		breaker:  gobreaker.NewCircuitBreaker[[]domain.Event](settings),
	}
}

// WithToken switches the source to bearer-token authentication.
func (s *Source) WithToken(token string) *Source {
	s.token = token
	return s
}

// WithCalendarPath pins the source to a specific calendar path instead of
// the principal's first calendar.
func (s *Source) WithCalendarPath(path string) *Source {
	s.calendarPath = path
	return s
}

// Events returns the events overlapping [start, end), validated and ready
// for the engines.
func (s *Source) Events(ctx context.Context, start, end time.Time) ([]domain.Event, error) {
	return s.breaker.Execute(func() ([]domain.Event, error) {
		return s.fetch(ctx, start, end)
	})
}

func (s *Source) fetch(ctx context.Context, start, end time.Time) ([]domain.Event, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	calPath, err := s.findCalendarPath(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to find calendar: %w", err)
	}

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:  "VCALENDAR",
			Props: []string{"VERSION"},
			Comps: []caldav.CalendarCompRequest{
				{
					Name:  "VEVENT",
					Props: []string{"SUMMARY", "DTSTART", "DTEND", "UID", "STATUS", "COLOR"},
				},
			},
		},
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{
				{
					Name:  "VEVENT",
					Start: start,
					End:   end,
				},
			},
		},
	}

	objects, err := client.QueryCalendar(ctx, calPath, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar: %w", err)
	}

	return eventsFromObjects(objects, s.logger), nil
}

func eventsFromObjects(objects []caldav.CalendarObject, logger *slog.Logger) []domain.Event {
	events := make([]domain.Event, 0, len(objects))
	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}
		for _, child := range obj.Data.Children {
			if child.Name != ical.CompEvent {
				continue
			}
			event, err := ics.EventFromICal(&ical.Event{Component: child})
			if err != nil {
				logger.Warn("skipping malformed caldav event", "path", obj.Path, "error", err)
				continue
			}
			events = append(events, event)
		}
	}
	return events
}

func (s *Source) client(ctx context.Context) (*caldav.Client, error) {
	var httpClient webdav.HTTPClient
	if s.token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: s.token}))
	} else {
		httpClient = webdav.HTTPClientWithBasicAuth(
			&http.Client{Timeout: requestTimeout}, s.username, s.password)
	}

	client, err := caldav.NewClient(httpClient, s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}
	return client, nil
}

func (s *Source) findCalendarPath(ctx context.Context, client *caldav.Client) (string, error) {
	if s.calendarPath != "" {
		return s.calendarPath, nil
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal: %w", err)
	}

	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}
	if len(cals) == 0 {
		return "", fmt.Errorf("no calendars found")
	}

	// Use first calendar as default
	return cals[0].Path, nil
}
