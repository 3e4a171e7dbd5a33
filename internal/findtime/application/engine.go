package application

import (
	"context"
	"time"

	calendarDomain "github.com/cadencehq/cadence/internal/calendar/domain"
	"github.com/cadencehq/cadence/internal/findtime/domain"
	sharedDomain "github.com/cadencehq/cadence/internal/shared/domain"
)

// Options controls a meeting time search.
type Options struct {
	DurationMinutes     int
	StartDate           time.Time
	EndDate             time.Time
	StartHour           int
	EndHour             int
	SlotIntervalMinutes int
	ExcludeWeekends     bool
	RequiredAttendees   []string
	PreferredTimeOfDay  sharedDomain.TimeOfDay // only morning/afternoon carry a bonus
}

// DefaultOptions returns the standard 9-17 search at 30 minute intervals,
// weekends excluded.
func DefaultOptions(durationMinutes int, startDate, endDate time.Time) Options {
	return Options{
		DurationMinutes:     durationMinutes,
		StartDate:           startDate,
		EndDate:             endDate,
		StartHour:           9,
		EndHour:             17,
		SlotIntervalMinutes: 30,
		ExcludeWeekends:     true,
	}
}

func (o Options) normalized() Options {
	if o.StartHour == 0 && o.EndHour == 0 {
		o.StartHour, o.EndHour = 9, 17
	}
	if o.SlotIntervalMinutes <= 0 {
		o.SlotIntervalMinutes = 30
	}
	return o
}

// Engine intersects multiple attendees' availability to find meeting times.
type Engine struct{}

// NewEngine creates a find-time engine.
func NewEngine() *Engine {
	return &Engine{}
}

const bestSlotsPerDay = 3

// FindAvailableTimes generates candidate slots for every day in the range and
// checks each against every attendee. Slots failing a required attendee are
// discarded outright; other conflicts only lower the score. The context is
// checked between day iterations; a cancelled search returns no result.
func (e *Engine) FindAvailableTimes(ctx context.Context, attendees []domain.Attendee, opts Options) ([]domain.DayAvailability, error) {
	if len(attendees) == 0 {
		return []domain.DayAvailability{}, nil
	}

	for _, attendee := range attendees {
		if err := calendarDomain.ValidateSnapshot(attendee.Events); err != nil {
			return nil, err
		}
	}

	opts = opts.normalized()
	required := make(map[string]bool, len(opts.RequiredAttendees))
	for _, id := range opts.RequiredAttendees {
		required[id] = true
	}

	duration := time.Duration(opts.DurationMinutes) * time.Minute
	interval := time.Duration(opts.SlotIntervalMinutes) * time.Minute

	var results []domain.DayAvailability
	firstDay := sharedDomain.DayStart(opts.StartDate)
	lastDay := sharedDomain.DayStart(opts.EndDate)

	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if opts.ExcludeWeekends && isWeekend(day) {
			continue
		}

		dayResult := domain.DayAvailability{Date: day}
		dayEnd := sharedDomain.DayAt(day, opts.EndHour, 0)

		for start := sharedDomain.DayAt(day, opts.StartHour, 0); !start.Add(duration).After(dayEnd); start = start.Add(interval) {
			slotRange := sharedDomain.TimeRange{Start: start, End: start.Add(duration)}

			var conflicts []string
			requiredBlocked := false
			for _, attendee := range attendees {
				if attendee.HasConflict(slotRange) {
					conflicts = append(conflicts, attendee.ID)
					if required[attendee.ID] {
						requiredBlocked = true
					}
				}
			}
			if requiredBlocked {
				continue
			}

			dayResult.Slots = append(dayResult.Slots, domain.TimeSlot{
				Start:     slotRange.Start,
				End:       slotRange.End,
				Available: len(conflicts) == 0,
				Conflicts: conflicts,
				Score:     scoreSlot(slotRange.Start, len(conflicts), len(attendees), opts.PreferredTimeOfDay),
			})
		}

		dayResult.BestSlots = domain.BestOf(dayResult.Slots, bestSlotsPerDay)
		results = append(results, dayResult)
	}

	return results, nil
}

// SuggestNextAvailable scans forward up to two weeks and returns the first
// day's top slot, or nil when nothing fits.
func (e *Engine) SuggestNextAvailable(ctx context.Context, attendees []domain.Attendee, durationMinutes int, from time.Time) (*domain.TimeSlot, error) {
	const horizonDays = 14

	for offset := 0; offset < horizonDays; offset++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		day := sharedDomain.DayStart(from).AddDate(0, 0, offset)
		opts := DefaultOptions(durationMinutes, day, day)

		results, err := e.FindAvailableTimes(ctx, attendees, opts)
		if err != nil {
			return nil, err
		}
		for _, dayResult := range results {
			if len(dayResult.BestSlots) > 0 {
				best := dayResult.BestSlots[0]
				return &best, nil
			}
		}
	}

	return nil, nil
}

// scoreSlot rates a candidate slot: full marks minus a conflict ratio
// penalty, with small bonuses for preferred windows and round start times
// and a penalty for slots outside core hours.
func scoreSlot(start time.Time, conflictCount, totalAttendees int, preferred sharedDomain.TimeOfDay) float64 {
	score := 1.0
	score -= 0.5 * float64(conflictCount) / float64(totalAttendees)

	hour := start.Hour()
	switch preferred {
	case sharedDomain.TimeOfDayMorning:
		if hour >= 9 && hour < 12 {
			score += 0.1
		}
	case sharedDomain.TimeOfDayAfternoon:
		if hour >= 13 && hour < 17 {
			score += 0.1
		}
	}

	if start.Minute() == 0 {
		score += 0.05
	}
	if hour < 9 || hour >= 17 {
		score -= 0.2
	}

	return sharedDomain.Clamp(score, 0, 1)
}

func isWeekend(day time.Time) bool {
	return day.Weekday() == time.Saturday || day.Weekday() == time.Sunday
}
