package domain

import (
	"errors"
	"strings"
	"time"

	sharedDomain "github.com/cadencehq/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrGoalEmptyName       = errors.New("goal name cannot be empty")
	ErrGoalInvalidFreq     = errors.New("invalid goal frequency")
	ErrGoalInvalidTarget   = errors.New("target count must be positive")
	ErrGoalInvalidDuration = errors.New("session duration must be positive")
)

// Frequency represents how often a goal's sessions should recur.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// IsValid checks if the frequency is valid.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

// PeriodBounds returns the [start, end) of the period containing now. Weekly
// periods start on Monday; monthly periods on the first of the month.
func (f Frequency) PeriodBounds(now time.Time) (time.Time, time.Time) {
	day := sharedDomain.DayStart(now)
	switch f {
	case FrequencyWeekly:
		offset := (int(day.Weekday()) + 6) % 7 // days since Monday
		start := day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7)
	case FrequencyMonthly:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return start, start.AddDate(0, 1, 0)
	default:
		return day, day.AddDate(0, 0, 1)
	}
}

// SchedulingPolicy bounds where a goal's sessions may land on the calendar.
// The morning and evening flags gate slots before 09:00 and at or after
// 18:00 respectively.
type SchedulingPolicy struct {
	PreferredDays      []time.Weekday
	PreferredStartHour int
	PreferredEndHour   int
	AllowWeekends      bool
	AllowMornings      bool
	AllowEvenings      bool
	BufferMinutes      int
}

// DefaultSchedulingPolicy allows any weekday between 08:00 and 20:00 with a
// 15 minute buffer around sessions.
func DefaultSchedulingPolicy() SchedulingPolicy {
	return SchedulingPolicy{
		PreferredDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		PreferredStartHour: 8,
		PreferredEndHour:   20,
		AllowWeekends:      false,
		AllowMornings:      true,
		AllowEvenings:      true,
		BufferMinutes:      15,
	}
}

// Goal is a recurring commitment the user wants calendar time for. Streak
// and completion counters are the only mutable state.
type Goal struct {
	sharedDomain.BaseEntity
	name            string
	frequency       Frequency
	targetCount     int
	durationMinutes int
	policy          SchedulingPolicy
	currentStreak   int
	longestStreak   int
	totalCompleted  int
	lastCompletedAt *time.Time
}

// NewGoal creates a goal.
func NewGoal(name string, frequency Frequency, targetCount, durationMinutes int, policy SchedulingPolicy) (*Goal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrGoalEmptyName
	}
	if !frequency.IsValid() {
		return nil, ErrGoalInvalidFreq
	}
	if targetCount <= 0 {
		return nil, ErrGoalInvalidTarget
	}
	if durationMinutes <= 0 {
		return nil, ErrGoalInvalidDuration
	}

	return &Goal{
		BaseEntity:      sharedDomain.NewBaseEntity(),
		name:            name,
		frequency:       frequency,
		targetCount:     targetCount,
		durationMinutes: durationMinutes,
		policy:          policy,
	}, nil
}

// RehydrateGoal recreates a goal from persisted state.
func RehydrateGoal(
	id uuid.UUID,
	name string,
	frequency Frequency,
	targetCount int,
	durationMinutes int,
	policy SchedulingPolicy,
	currentStreak int,
	longestStreak int,
	totalCompleted int,
	lastCompletedAt *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) *Goal {
	return &Goal{
		BaseEntity:      sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		name:            name,
		frequency:       frequency,
		targetCount:     targetCount,
		durationMinutes: durationMinutes,
		policy:          policy,
		currentStreak:   currentStreak,
		longestStreak:   longestStreak,
		totalCompleted:  totalCompleted,
		lastCompletedAt: lastCompletedAt,
	}
}

// Getters
func (g *Goal) Name() string             { return g.name }
func (g *Goal) Frequency() Frequency     { return g.frequency }
func (g *Goal) TargetCount() int         { return g.targetCount }
func (g *Goal) DurationMinutes() int     { return g.durationMinutes }
func (g *Goal) Policy() SchedulingPolicy { return g.policy }
func (g *Goal) CurrentStreak() int       { return g.currentStreak }
func (g *Goal) LongestStreak() int       { return g.longestStreak }
func (g *Goal) TotalCompleted() int      { return g.totalCompleted }

// LastCompletedAt returns when the goal was last completed, or nil.
func (g *Goal) LastCompletedAt() *time.Time { return g.lastCompletedAt }

// CompleteSession records a finished session at the given instant. The
// current streak grows by exactly one and the longest streak tracks it.
func (g *Goal) CompleteSession(completedAt time.Time) {
	g.currentStreak++
	if g.currentStreak > g.longestStreak {
		g.longestStreak = g.currentStreak
	}
	g.totalCompleted++
	at := completedAt
	g.lastCompletedAt = &at
	g.Touch()
}

// SkipSession records a missed session. A plain skip resets the current
// streak; a skip with reschedule leaves it untouched.
func (g *Goal) SkipSession(reschedule bool) {
	if !reschedule {
		g.currentStreak = 0
	}
	g.Touch()
}

// SessionStatus is the lifecycle state of a scheduled goal session.
type SessionStatus string

const (
	SessionScheduled   SessionStatus = "scheduled"
	SessionCompleted   SessionStatus = "completed"
	SessionSkipped     SessionStatus = "skipped"
	SessionRescheduled SessionStatus = "rescheduled"
)

// GoalSession is one scheduled occurrence of a goal. Persisting it as a real
// calendar event is the caller's responsibility.
type GoalSession struct {
	GoalID          uuid.UUID
	ScheduledFor    time.Time
	DurationMinutes int
	Status          SessionStatus
}
