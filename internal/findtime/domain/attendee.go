package domain

import (
	"fmt"
	"time"

	calendarDomain "github.com/cadencehq/cadence/internal/calendar/domain"
	sharedDomain "github.com/cadencehq/cadence/internal/shared/domain"
)

// Window is a wall-clock availability window within one day, in HH:mm.
type Window struct {
	Start string
	End   string
}

// DefaultWindow is assumed for weekdays without explicit working hours.
var DefaultWindow = Window{Start: "09:00", End: "17:00"}

// Contains checks whether a slot falls entirely inside the window on the
// slot's own day. Malformed windows contain nothing.
func (w Window) Contains(slot sharedDomain.TimeRange) bool {
	startHour, startMin, err := parseClock(w.Start)
	if err != nil {
		return false
	}
	endHour, endMin, err := parseClock(w.End)
	if err != nil {
		return false
	}

	windowStart := sharedDomain.DayAt(slot.Start, startHour, startMin)
	windowEnd := sharedDomain.DayAt(slot.Start, endHour, endMin)

	return !slot.Start.Before(windowStart) && !slot.End.After(windowEnd)
}

func parseClock(value string) (hour, minute int, err error) {
	if _, err := fmt.Sscanf(value, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("invalid clock time %q: %w", value, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid clock time %q", value)
	}
	return hour, minute, nil
}

// WorkingHours maps a weekday to its availability windows.
type WorkingHours map[time.Weekday][]Window

// WindowsFor returns the windows for a weekday, falling back to the default
// 09:00-17:00 window when none are configured.
func (wh WorkingHours) WindowsFor(day time.Weekday) []Window {
	if windows, ok := wh[day]; ok && len(windows) > 0 {
		return windows
	}
	return []Window{DefaultWindow}
}

// Attendee is one participant in a meeting search, carrying their own event
// snapshot and working-hour configuration.
type Attendee struct {
	ID           string
	Events       []calendarDomain.Event
	WorkingHours WorkingHours
}

// HasConflict reports whether the slot collides with the attendee's events or
// falls outside their working hours.
func (a Attendee) HasConflict(slot sharedDomain.TimeRange) bool {
	for _, event := range a.Events {
		if slot.Overlaps(event.Range()) {
			return true
		}
	}

	for _, window := range a.WorkingHours.WindowsFor(slot.Start.Weekday()) {
		if window.Contains(slot) {
			return false
		}
	}
	return true
}
