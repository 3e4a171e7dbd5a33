package application

import (
	"fmt"
	"time"

	calendarDomain "github.com/cadencehq/cadence/internal/calendar/domain"
	"github.com/cadencehq/cadence/internal/conflicts/domain"
	sharedDomain "github.com/cadencehq/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

// DetectorConfig holds conflict detection tuning.
type DetectorConfig struct {
	// BufferMinutes is the minimum breathing room expected between events.
	BufferMinutes int
}

// DefaultDetectorConfig returns a 15 minute buffer.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{BufferMinutes: 15}
}

// Detector finds overlap and tight-schedule conflicts between events.
type Detector struct {
	config DetectorConfig
}

// NewDetector creates a detector with the given configuration.
func NewDetector(config DetectorConfig) *Detector {
	return &Detector{config: config}
}

// Detect inspects one event against every other event on the same calendar
// day. Touching boundaries count as overlap; gaps below the buffer raise a
// warning instead.
func (d *Detector) Detect(event calendarDomain.Event, allEvents []calendarDomain.Event) (domain.Analysis, error) {
	if err := event.Validate(); err != nil {
		return domain.Analysis{}, err
	}

	buffer := time.Duration(d.config.BufferMinutes) * time.Minute
	eventRange := event.Range()

	var conflicts []domain.Conflict
	for _, other := range allEvents {
		if other.ID == event.ID || !sharedDomain.SameDay(other.Start, event.Start) {
			continue
		}
		if err := other.Validate(); err != nil {
			return domain.Analysis{}, err
		}

		otherRange := other.Range()
		if eventRange.Touches(otherRange) {
			conflicts = append(conflicts, domain.Conflict{
				Type:       domain.ConflictTypeOverlap,
				Severity:   domain.SeverityCritical,
				OtherID:    other.ID,
				OtherTitle: other.Title,
				Suggestions: []string{
					fmt.Sprintf("move start to %s, after %q ends", other.End.Format("15:04"), other.Title),
					fmt.Sprintf("shorten to end by %s", other.Start.Format("15:04")),
					"defer to the next free slot",
				},
			})
			continue
		}

		if gap := eventRange.Gap(otherRange); gap < buffer {
			gapMinutes := int(gap.Minutes())
			conflicts = append(conflicts, domain.Conflict{
				Type:       domain.ConflictTypeTightSchedule,
				Severity:   domain.SeverityWarning,
				OtherID:    other.ID,
				OtherTitle: other.Title,
				GapMinutes: gapMinutes,
				Suggestions: []string{
					fmt.Sprintf("only %d minutes around %q, consider adding buffer", gapMinutes, other.Title),
				},
			})
		}
	}

	return domain.NewAnalysis(event.ID, conflicts), nil
}

// DetectAll analyzes every event whose day falls in the inclusive date range,
// returning a map keyed by event ID. Conflict-free events are omitted.
func (d *Detector) DetectAll(events []calendarDomain.Event, rangeStart, rangeEnd time.Time) (map[uuid.UUID]domain.Analysis, error) {
	firstDay := sharedDomain.DayStart(rangeStart)
	lastDay := sharedDomain.DayStart(rangeEnd)

	results := make(map[uuid.UUID]domain.Analysis)
	for _, event := range events {
		day := sharedDomain.DayStart(event.Start)
		if day.Before(firstDay) || day.After(lastDay) {
			continue
		}

		analysis, err := d.Detect(event, events)
		if err != nil {
			return nil, err
		}
		if analysis.HasConflicts {
			results[event.ID] = analysis
		}
	}
	return results, nil
}

// Alternative slot search bounds: a 30 minute grid over the 08:00-18:00
// workday.
const (
	alternativeGridStartHour = 8
	alternativeGridEndHour   = 18
	alternativeGridStep      = 30 * time.Minute
)

// FindAlternativeSlots brute-forces candidate start times for the event on
// its own day, first-fit in chronological order, skipping any slot whose span
// would overlap another event.
func (d *Detector) FindAlternativeSlots(event calendarDomain.Event, allEvents []calendarDomain.Event, maxSuggestions int) ([]time.Time, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if maxSuggestions <= 0 {
		maxSuggestions = 5
	}

	duration := event.Duration()
	gridStart := sharedDomain.DayAt(event.Start, alternativeGridStartHour, 0)
	gridEnd := sharedDomain.DayAt(event.Start, alternativeGridEndHour, 0)

	var slots []time.Time
	for start := gridStart; !start.Add(duration).After(gridEnd); start = start.Add(alternativeGridStep) {
		candidate := sharedDomain.TimeRange{Start: start, End: start.Add(duration)}

		blocked := false
		for _, other := range allEvents {
			if other.ID == event.ID {
				continue
			}
			if candidate.Overlaps(other.Range()) {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}

		slots = append(slots, start)
		if len(slots) == maxSuggestions {
			break
		}
	}
	return slots, nil
}

// DailyScore averages the per-event conflict scores for one day. A day with
// no events is perfectly healthy.
func (d *Detector) DailyScore(events []calendarDomain.Event, date time.Time) (float64, error) {
	var total float64
	count := 0
	for _, event := range events {
		if !sharedDomain.SameDay(event.Start, date) {
			continue
		}
		analysis, err := d.Detect(event, events)
		if err != nil {
			return 0, err
		}
		total += analysis.Score
		count++
	}

	if count == 0 {
		return 100, nil
	}
	return total / float64(count), nil
}
