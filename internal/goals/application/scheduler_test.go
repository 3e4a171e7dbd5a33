package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calendarDomain "github.com/cadencehq/cadence/internal/calendar/domain"
	"github.com/cadencehq/cadence/internal/goals/domain"
)

// A Monday, anchoring the two-week horizon.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func weeklyGoal(t *testing.T, target int, policy domain.SchedulingPolicy) *domain.Goal {
	t.Helper()
	goal, err := domain.NewGoal("practice guitar", domain.FrequencyWeekly, target, 30, policy)
	require.NoError(t, err)
	return goal
}

func blockingEvent(start time.Time, minutes int) calendarDomain.Event {
	return calendarDomain.Event{
		ID:     uuid.New(),
		Title:  "busy",
		Start:  start,
		End:    start.Add(time.Duration(minutes) * time.Minute),
		Status: calendarDomain.EventStatusConfirmed,
	}
}

// narrowPolicy yields exactly two candidate slots per preferred day,
// 09:00 and 09:30.
func narrowPolicy() domain.SchedulingPolicy {
	return domain.SchedulingPolicy{
		PreferredDays:      []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		PreferredStartHour: 9,
		PreferredEndHour:   10,
		AllowMornings:      true,
		AllowEvenings:      true,
	}
}

func TestScheduler_FirstSlotsWhenSupplyIsTight(t *testing.T) {
	scheduler := NewScheduler()
	goal := weeklyGoal(t, 3, narrowPolicy())

	// Twelve candidate slots minus three blocked 09:00 starts leaves nine;
	// a weekly target of 3 over two weeks needs six sessions, so the
	// distribution interval collapses to 1 and the first six slots win.
	events := []calendarDomain.Event{
		blockingEvent(monday.AddDate(0, 0, 2).Add(9*time.Hour), 15),
		blockingEvent(monday.AddDate(0, 0, 4).Add(9*time.Hour), 15),
		blockingEvent(monday.AddDate(0, 0, 7).Add(9*time.Hour), 15),
	}

	slots, err := scheduler.FindAvailableSlots(context.Background(), goal, events, monday, DefaultHorizonDays)
	require.NoError(t, err)
	require.Len(t, slots, 9)

	result, err := scheduler.ScheduleSessions(context.Background(), goal, events, monday, DefaultHorizonDays)
	require.NoError(t, err)

	require.Equal(t, 6, result.ScheduledCount)
	for i, session := range result.Sessions {
		assert.Equal(t, slots[i], session.ScheduledFor)
		assert.Equal(t, goal.ID(), session.GoalID)
		assert.Equal(t, 30, session.DurationMinutes)
		assert.Equal(t, domain.SessionScheduled, session.Status)
	}
}

func TestScheduler_SpreadsSessionsAcrossSlots(t *testing.T) {
	scheduler := NewScheduler()
	goal := weeklyGoal(t, 3, narrowPolicy())

	// Twelve open slots for six sessions gives an interval of two: every
	// preferred day gets its 09:00 slot and the 09:30 slots stay free.
	result, err := scheduler.ScheduleSessions(context.Background(), goal, nil, monday, DefaultHorizonDays)
	require.NoError(t, err)

	require.Equal(t, 6, result.ScheduledCount)
	for _, session := range result.Sessions {
		assert.Equal(t, 9, session.ScheduledFor.Hour())
		assert.Equal(t, 0, session.ScheduledFor.Minute())
	}
}

func TestScheduler_SessionsNeededPerFrequency(t *testing.T) {
	scheduler := NewScheduler()
	policy := narrowPolicy()
	policy.PreferredDays = nil
	policy.AllowWeekends = true

	tests := []struct {
		name      string
		frequency domain.Frequency
		target    int
		want      int
	}{
		{"daily target is taken as-is", domain.FrequencyDaily, 5, 5},
		{"weekly target doubles for the two-week horizon", domain.FrequencyWeekly, 4, 8},
		{"monthly target halves rounding up", domain.FrequencyMonthly, 5, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal, err := domain.NewGoal("stretch", tt.frequency, tt.target, 30, policy)
			require.NoError(t, err)

			result, err := scheduler.ScheduleSessions(context.Background(), goal, nil, monday, DefaultHorizonDays)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.ScheduledCount)
		})
	}
}

func TestFindAvailableSlots_PolicyGates(t *testing.T) {
	scheduler := NewScheduler()

	t.Run("weekends excluded by default", func(t *testing.T) {
		policy := narrowPolicy()
		policy.PreferredDays = nil

		goal := weeklyGoal(t, 1, policy)
		slots, err := scheduler.FindAvailableSlots(context.Background(), goal, nil, monday, 7)
		require.NoError(t, err)

		require.Len(t, slots, 10) // five weekdays, two slots each
		for _, slot := range slots {
			assert.NotEqual(t, time.Saturday, slot.Weekday())
			assert.NotEqual(t, time.Sunday, slot.Weekday())
		}
	})

	t.Run("weekends allowed", func(t *testing.T) {
		policy := narrowPolicy()
		policy.PreferredDays = nil
		policy.AllowWeekends = true

		goal := weeklyGoal(t, 1, policy)
		slots, err := scheduler.FindAvailableSlots(context.Background(), goal, nil, monday, 7)
		require.NoError(t, err)
		assert.Len(t, slots, 14)
	})

	t.Run("morning and evening cutoffs", func(t *testing.T) {
		policy := domain.SchedulingPolicy{
			PreferredDays:      []time.Weekday{time.Monday},
			PreferredStartHour: 8,
			PreferredEndHour:   20,
			AllowMornings:      false,
			AllowEvenings:      false,
		}

		goal := weeklyGoal(t, 1, policy)
		slots, err := scheduler.FindAvailableSlots(context.Background(), goal, nil, monday, 1)
		require.NoError(t, err)

		require.NotEmpty(t, slots)
		assert.Equal(t, monday.Add(9*time.Hour), slots[0])
		assert.Equal(t, monday.Add(17*time.Hour+30*time.Minute), slots[len(slots)-1])
	})
}

func TestFindAvailableSlots_BufferPadding(t *testing.T) {
	scheduler := NewScheduler()

	policy := narrowPolicy()
	policy.BufferMinutes = 15

	goal := weeklyGoal(t, 1, policy)

	// The 09:30 slot's padded interval [09:15, 10:15) grazes the 10:00
	// meeting; the 09:00 slot's [08:45, 09:45) clears it.
	events := []calendarDomain.Event{blockingEvent(monday.Add(10*time.Hour), 60)}

	slots, err := scheduler.FindAvailableSlots(context.Background(), goal, events, monday, 1)
	require.NoError(t, err)

	require.Len(t, slots, 1)
	assert.Equal(t, monday.Add(9*time.Hour), slots[0])
}

func TestScheduler_CancelledContext(t *testing.T) {
	scheduler := NewScheduler()
	goal := weeklyGoal(t, 1, narrowPolicy())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	slots, err := scheduler.FindAvailableSlots(ctx, goal, nil, monday, DefaultHorizonDays)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, slots)
}

func TestGoalProgress_ProRatedTarget(t *testing.T) {
	scheduler := NewScheduler()
	goal := weeklyGoal(t, 4, narrowPolicy())

	completedOn := func(day time.Time) domain.GoalSession {
		return domain.GoalSession{
			GoalID:          goal.ID(),
			ScheduledFor:    day,
			DurationMinutes: 30,
			Status:          domain.SessionCompleted,
		}
	}

	// Wednesday midnight: two of seven days elapsed, expecting 4 * 2/7.
	now := monday.AddDate(0, 0, 2)

	sessions := []domain.GoalSession{
		completedOn(monday.Add(9 * time.Hour)),
		{GoalID: goal.ID(), ScheduledFor: monday.Add(10 * time.Hour), Status: domain.SessionSkipped},
		completedOn(monday.AddDate(0, 0, -3)), // previous period, ignored
	}

	progress := scheduler.GoalProgress(goal, sessions, now)

	assert.Equal(t, monday, progress.PeriodStart)
	assert.Equal(t, monday.AddDate(0, 0, 7), progress.PeriodEnd)
	assert.Equal(t, 1, progress.CompletedInPeriod)
	assert.InDelta(t, 4.0*2.0/7.0, progress.ExpectedProgress, 0.0001)
	assert.False(t, progress.OnTrack)

	sessions = append(sessions, completedOn(monday.AddDate(0, 0, 1).Add(9*time.Hour)))
	progress = scheduler.GoalProgress(goal, sessions, now)
	assert.Equal(t, 2, progress.CompletedInPeriod)
	assert.True(t, progress.OnTrack)
}
