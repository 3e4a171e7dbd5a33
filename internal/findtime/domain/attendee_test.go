package domain_test

import (
	"testing"
	"time"

	calendarDomain "github.com/cadencehq/cadence/internal/calendar/domain"
	"github.com/cadencehq/cadence/internal/findtime/domain"
	sharedDomain "github.com/cadencehq/cadence/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// Monday.
var testDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func slot(startHour, startMin, durMinutes int) sharedDomain.TimeRange {
	start := testDay.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute)
	return sharedDomain.TimeRange{Start: start, End: start.Add(time.Duration(durMinutes) * time.Minute)}
}

func TestWindow_Contains(t *testing.T) {
	window := domain.Window{Start: "09:00", End: "17:00"}

	assert.True(t, window.Contains(slot(9, 0, 60)))
	assert.True(t, window.Contains(slot(16, 0, 60)), "slot ending exactly at window end fits")
	assert.False(t, window.Contains(slot(16, 30, 60)), "slot spilling past window end does not")
	assert.False(t, window.Contains(slot(8, 30, 30)))
}

func TestWindow_Contains_Malformed(t *testing.T) {
	window := domain.Window{Start: "nine", End: "17:00"}
	assert.False(t, window.Contains(slot(10, 0, 30)))
}

func TestWorkingHours_WindowsFor_Default(t *testing.T) {
	var wh domain.WorkingHours

	windows := wh.WindowsFor(time.Monday)
	assert.Equal(t, []domain.Window{domain.DefaultWindow}, windows)

	wh = domain.WorkingHours{time.Monday: {{Start: "07:00", End: "12:00"}}}
	assert.Equal(t, "07:00", wh.WindowsFor(time.Monday)[0].Start)
	assert.Equal(t, []domain.Window{domain.DefaultWindow}, wh.WindowsFor(time.Tuesday))
}

func TestAttendee_HasConflict(t *testing.T) {
	busy := calendarDomain.Event{
		ID:    uuid.New(),
		Title: "Busy",
		Start: testDay.Add(10 * time.Hour),
		End:   testDay.Add(11 * time.Hour),
	}
	attendee := domain.Attendee{ID: "ana", Events: []calendarDomain.Event{busy}}

	assert.True(t, attendee.HasConflict(slot(10, 30, 30)), "overlaps busy event")
	assert.False(t, attendee.HasConflict(slot(11, 0, 30)), "adjacent slot is fine")
	assert.True(t, attendee.HasConflict(slot(8, 0, 30)), "outside default working hours")
	assert.True(t, attendee.HasConflict(slot(16, 45, 30)), "spills past default working hours")
}

func TestAttendee_HasConflict_CustomHours(t *testing.T) {
	attendee := domain.Attendee{
		ID: "ben",
		WorkingHours: domain.WorkingHours{
			time.Monday: {{Start: "06:00", End: "10:00"}, {Start: "14:00", End: "18:00"}},
		},
	}

	assert.False(t, attendee.HasConflict(slot(7, 0, 60)))
	assert.False(t, attendee.HasConflict(slot(15, 0, 60)))
	assert.True(t, attendee.HasConflict(slot(11, 0, 60)), "between windows")
}

func TestBestOf(t *testing.T) {
	slots := []domain.TimeSlot{
		{Start: testDay.Add(9 * time.Hour), Available: true, Score: 0.7},
		{Start: testDay.Add(10 * time.Hour), Available: false, Score: 0.9},
		{Start: testDay.Add(11 * time.Hour), Available: true, Score: 0.9},
		{Start: testDay.Add(12 * time.Hour), Available: true, Score: 0.8},
		{Start: testDay.Add(13 * time.Hour), Available: true, Score: 0.6},
	}

	best := domain.BestOf(slots, 3)

	assert.Len(t, best, 3)
	assert.Equal(t, 0.9, best[0].Score)
	assert.Equal(t, 0.8, best[1].Score)
	assert.Equal(t, 0.7, best[2].Score)
	for _, s := range best {
		assert.True(t, s.Available, "unavailable slots never make best slots")
	}
}
