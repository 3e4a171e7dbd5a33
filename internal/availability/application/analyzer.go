package application

import (
	"time"

	"github.com/cadencehq/cadence/internal/availability/domain"
	calendarDomain "github.com/cadencehq/cadence/internal/calendar/domain"
	sharedDomain "github.com/cadencehq/cadence/internal/shared/domain"
)

// AnalyzerConfig bounds the workday window and the minimum block size worth
// reporting.
type AnalyzerConfig struct {
	WorkdayStartHour int
	WorkdayEndHour   int
	MinBlockMinutes  int
}

// DefaultAnalyzerConfig returns the standard 8-18 workday with a 15 minute
// minimum block.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		WorkdayStartHour: 8,
		WorkdayEndHour:   18,
		MinBlockMinutes:  15,
	}
}

// Analyzer locates and classifies the free blocks of a single day.
type Analyzer struct {
	config AnalyzerConfig
}

// NewAnalyzer creates an analyzer with the given configuration.
func NewAnalyzer(config AnalyzerConfig) *Analyzer {
	return &Analyzer{config: config}
}

// Analyze walks the day's busy intervals and returns the classified free
// blocks between them. Only events whose start falls on the given date are
// considered; overlapping busy periods are merged by the cursor walk, so
// overlapping input never produces negative-duration blocks.
func (a *Analyzer) Analyze(date time.Time, events []calendarDomain.Event) (domain.Analysis, error) {
	dayEvents := calendarDomain.EventsOnDay(events, date)
	if err := calendarDomain.ValidateSnapshot(dayEvents); err != nil {
		return domain.Analysis{}, err
	}

	workStart := sharedDomain.DayAt(date, a.config.WorkdayStartHour, 0)
	workEnd := sharedDomain.DayAt(date, a.config.WorkdayEndHour, 0)
	minBlock := time.Duration(a.config.MinBlockMinutes) * time.Minute

	analysis := domain.Analysis{Date: sharedDomain.DayStart(date)}

	cursor := workStart
	for _, event := range dayEvents {
		// Events past the workday window never shape a gap.
		if !event.Start.Before(workEnd) {
			continue
		}
		if cursor.Before(event.Start) {
			if block, ok := emitBlock(cursor, event.Start, minBlock); ok {
				analysis.FreeBlocks = append(analysis.FreeBlocks, block)
			}
		}
		if event.End.After(cursor) {
			cursor = event.End
		}
	}

	if cursor.Before(workEnd) {
		if block, ok := emitBlock(cursor, workEnd, minBlock); ok {
			analysis.FreeBlocks = append(analysis.FreeBlocks, block)
		}
	}

	for _, b := range analysis.FreeBlocks {
		analysis.TotalFreeMinutes += b.DurationMinutes
	}

	return analysis, nil
}

func emitBlock(start, end time.Time, minBlock time.Duration) (domain.TimeBlock, bool) {
	if end.Sub(start) < minBlock {
		return domain.TimeBlock{}, false
	}
	block, err := domain.NewTimeBlock(start, end)
	if err != nil {
		return domain.TimeBlock{}, false
	}
	return block, true
}
