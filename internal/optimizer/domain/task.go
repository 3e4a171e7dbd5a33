package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	sharedDomain "github.com/cadencehq/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

// Priority represents task urgency level.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

var ErrInvalidPriority = errors.New("invalid priority value")

var priorityNames = map[Priority]string{
	PriorityLow:    "low",
	PriorityMedium: "medium",
	PriorityHigh:   "high",
}

var priorityValues = map[string]Priority{
	"low":    PriorityLow,
	"medium": PriorityMedium,
	"high":   PriorityHigh,
}

// ParsePriority creates a Priority from a string.
func ParsePriority(s string) (Priority, error) {
	p, ok := priorityValues[strings.ToLower(s)]
	if !ok {
		return PriorityLow, ErrInvalidPriority
	}
	return p, nil
}

// String returns the string representation of the priority.
func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "unknown"
}

// Weight returns a numeric weight for sorting (higher = more important).
func (p Priority) Weight() int {
	return int(p)
}

// TaskType classifies what kind of calendar time a task needs.
type TaskType string

const (
	TaskTypeMeeting TaskType = "meeting"
	TaskTypeFocus   TaskType = "focus"
	TaskTypeBreak   TaskType = "break"
	TaskTypeRoutine TaskType = "routine"
)

var ErrInvalidTaskType = errors.New("invalid task type")

// ParseTaskType creates a TaskType from a string.
func ParseTaskType(s string) (TaskType, error) {
	switch TaskType(strings.ToLower(s)) {
	case TaskTypeMeeting:
		return TaskTypeMeeting, nil
	case TaskTypeFocus:
		return TaskTypeFocus, nil
	case TaskTypeBreak:
		return TaskTypeBreak, nil
	case TaskTypeRoutine:
		return TaskTypeRoutine, nil
	default:
		return "", ErrInvalidTaskType
	}
}

// InvalidTaskError reports a task that cannot enter scheduling.
type InvalidTaskError struct {
	TaskID string
	Reason string
}

func (e *InvalidTaskError) Error() string {
	return fmt.Sprintf("invalid task %s: %s", e.TaskID, e.Reason)
}

// Task is a unit of work awaiting a calendar slot.
type Task struct {
	ID                 uuid.UUID
	Title              string
	DurationMinutes    int
	Priority           Priority
	Type               TaskType
	Deadline           *time.Time
	PreferredTimeOfDay sharedDomain.TimeOfDay
}

// Validate rejects tasks that cannot be placed on a calendar.
func (t Task) Validate() error {
	if t.DurationMinutes <= 0 {
		return &InvalidTaskError{TaskID: t.ID.String(), Reason: "duration must be positive"}
	}
	return nil
}

// Preferences tune how the optimizer scores candidate placements. The
// meeting-related knobs are advisory scoring inputs, not hard constraints.
type Preferences struct {
	WorkdayStartHour       int
	WorkdayEndHour         int
	FocusHours             []int
	AvoidMeetingHours      []int
	MinBreakMinutes        int
	MaxConsecutiveMeetings int
	PreferMorningMeetings  bool
}

// DefaultPreferences returns a standard 8-18 workday with morning focus
// hours and lunch protected from meetings.
func DefaultPreferences() Preferences {
	return Preferences{
		WorkdayStartHour:       8,
		WorkdayEndHour:         18,
		FocusHours:             []int{9, 10, 11},
		AvoidMeetingHours:      []int{12, 13},
		MinBreakMinutes:        15,
		MaxConsecutiveMeetings: 3,
		PreferMorningMeetings:  true,
	}
}

// Slot is a concrete placement candidate for a task.
type Slot struct {
	Start time.Time
	End   time.Time
	Score int
}

// ScheduleSuggestion pairs a task with its chosen slot, the reasoning behind
// the choice, and up to three runner-up placements.
type ScheduleSuggestion struct {
	Task         Task
	Slot         Slot
	Reasoning    []string
	Alternatives []Slot
}

// UnscheduledTask reports a task the search could not place.
type UnscheduledTask struct {
	Task   Task
	Reason string
}

// Summary aggregates one optimization run.
type Summary struct {
	TasksScheduled     int
	TasksUnscheduled   int
	AverageScore       float64
	FocusTimeProtected bool
}

// OptimizeResult is the full outcome of one optimization run.
type OptimizeResult struct {
	Suggestions []ScheduleSuggestion
	Unscheduled []UnscheduledTask
	Summary     Summary
}

// MoveRecommendation suggests relocating an existing event to a better slot.
type MoveRecommendation struct {
	EventID        uuid.UUID
	Title          string
	CurrentStart   time.Time
	SuggestedStart time.Time
	SuggestedEnd   time.Time
	Score          int
}

// RebalanceResult lists recommended moves and their mean candidate score.
type RebalanceResult struct {
	Recommendations []MoveRecommendation
	AverageScore    float64
}
