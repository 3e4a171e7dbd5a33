package application

import (
	"context"
	"slices"
	"time"

	calendarDomain "github.com/cadencehq/cadence/internal/calendar/domain"
	"github.com/cadencehq/cadence/internal/goals/domain"
	sharedDomain "github.com/cadencehq/cadence/internal/shared/domain"
)

const (
	// DefaultHorizonDays is the scheduling lookahead. The weekly and monthly
	// session multipliers are derived from this two-week window and would
	// need re-deriving if it changes.
	DefaultHorizonDays = 14

	slotStepMinutes = 30

	morningCutoffHour = 9
	eveningCutoffHour = 18
)

// ScheduleResult reports the sessions one scheduling run produced. Creating
// real calendar events for them is the caller's job.
type ScheduleResult struct {
	Sessions       []domain.GoalSession
	ScheduledCount int
}

// Progress describes how a goal is tracking within its current period.
type Progress struct {
	PeriodStart       time.Time
	PeriodEnd         time.Time
	CompletedInPeriod int
	ExpectedProgress  float64
	OnTrack           bool
}

// Scheduler places goal sessions into free calendar time, spreading them
// evenly across the horizon.
type Scheduler struct{}

// NewScheduler creates a goal session scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// FindAvailableSlots walks the horizon day by day and returns every slot
// start that satisfies the goal's scheduling policy, in chronological order.
// A slot is rejected when its buffer-padded interval overlaps any existing
// event.
func (s *Scheduler) FindAvailableSlots(
	ctx context.Context,
	goal *domain.Goal,
	events []calendarDomain.Event,
	from time.Time,
	horizonDays int,
) ([]time.Time, error) {
	if err := calendarDomain.ValidateSnapshot(events); err != nil {
		return nil, err
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	policy := goal.Policy()
	duration := time.Duration(goal.DurationMinutes()) * time.Minute
	buffer := time.Duration(policy.BufferMinutes) * time.Minute

	var slots []time.Time

	for day := 0; day < horizonDays; day++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		date := sharedDomain.DayStart(from).AddDate(0, 0, day)
		weekday := date.Weekday()

		if !policy.AllowWeekends && (weekday == time.Saturday || weekday == time.Sunday) {
			continue
		}
		if len(policy.PreferredDays) > 0 && !slices.Contains(policy.PreferredDays, weekday) {
			continue
		}

		windowEnd := sharedDomain.DayAt(date, policy.PreferredEndHour, 0)
		for start := sharedDomain.DayAt(date, policy.PreferredStartHour, 0); !start.Add(duration).After(windowEnd); start = start.Add(slotStepMinutes * time.Minute) {
			if start.Hour() < morningCutoffHour && !policy.AllowMornings {
				continue
			}
			if start.Hour() >= eveningCutoffHour && !policy.AllowEvenings {
				continue
			}
			if paddedOverlap(start, duration, buffer, events) {
				continue
			}
			slots = append(slots, start)
		}
	}

	return slots, nil
}

// ScheduleSessions distributes the goal's sessions evenly over the available
// slots. Weekly targets are doubled to fill the two-week horizon; monthly
// targets are halved, rounding up.
func (s *Scheduler) ScheduleSessions(
	ctx context.Context,
	goal *domain.Goal,
	events []calendarDomain.Event,
	from time.Time,
	horizonDays int,
) (ScheduleResult, error) {
	slots, err := s.FindAvailableSlots(ctx, goal, events, from, horizonDays)
	if err != nil {
		return ScheduleResult{}, err
	}

	needed := sessionsNeeded(goal.Frequency(), goal.TargetCount())
	if needed == 0 || len(slots) == 0 {
		return ScheduleResult{}, nil
	}

	interval := len(slots) / needed
	if interval < 1 {
		interval = 1
	}

	result := ScheduleResult{}
	for i := 0; i < len(slots) && len(result.Sessions) < needed; i += interval {
		result.Sessions = append(result.Sessions, domain.GoalSession{
			GoalID:          goal.ID(),
			ScheduledFor:    slots[i],
			DurationMinutes: goal.DurationMinutes(),
			Status:          domain.SessionScheduled,
		})
	}
	result.ScheduledCount = len(result.Sessions)

	return result, nil
}

// GoalProgress reports completion within the goal's current period. Expected
// progress is the target pro-rated by how much of the period has elapsed.
func (s *Scheduler) GoalProgress(goal *domain.Goal, sessions []domain.GoalSession, now time.Time) Progress {
	start, end := goal.Frequency().PeriodBounds(now)

	completed := 0
	for _, session := range sessions {
		if session.Status != domain.SessionCompleted {
			continue
		}
		if session.ScheduledFor.Before(start) || !session.ScheduledFor.Before(end) {
			continue
		}
		completed++
	}

	elapsed := now.Sub(start).Hours()
	total := end.Sub(start).Hours()
	expected := 0.0
	if total > 0 {
		expected = elapsed / total * float64(goal.TargetCount())
	}

	return Progress{
		PeriodStart:       start,
		PeriodEnd:         end,
		CompletedInPeriod: completed,
		ExpectedProgress:  expected,
		OnTrack:           float64(completed) >= expected,
	}
}

func sessionsNeeded(frequency domain.Frequency, target int) int {
	switch frequency {
	case domain.FrequencyWeekly:
		return target * 2
	case domain.FrequencyMonthly:
		return (target + 1) / 2
	default:
		return target
	}
}

func paddedOverlap(start time.Time, duration, buffer time.Duration, events []calendarDomain.Event) bool {
	padded := sharedDomain.TimeRange{
		Start: start.Add(-buffer),
		End:   start.Add(duration + buffer),
	}
	for _, event := range events {
		if padded.Overlaps(event.Range()) {
			return true
		}
	}
	return false
}
