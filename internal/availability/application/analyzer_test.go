package application

import (
	"testing"
	"time"

	"github.com/cadencehq/cadence/internal/availability/domain"
	calendarDomain "github.com/cadencehq/cadence/internal/calendar/domain"
	sharedDomain "github.com/cadencehq/cadence/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func event(startHour, startMin, endHour, endMin int) calendarDomain.Event {
	return calendarDomain.Event{
		ID:    uuid.New(),
		Title: "busy",
		Start: testDay.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute),
		End:   testDay.Add(time.Duration(endHour)*time.Hour + time.Duration(endMin)*time.Minute),
	}
}

func TestAnalyzer_TwoMeetings(t *testing.T) {
	analyzer := NewAnalyzer(DefaultAnalyzerConfig())

	events := []calendarDomain.Event{
		event(9, 0, 10, 0),
		event(14, 0, 15, 0),
	}

	analysis, err := analyzer.Analyze(testDay, events)
	require.NoError(t, err)
	require.Len(t, analysis.FreeBlocks, 3)

	first := analysis.FreeBlocks[0]
	assert.Equal(t, testDay.Add(8*time.Hour), first.Start)
	assert.Equal(t, 60, first.DurationMinutes)
	assert.Equal(t, sharedDomain.TimeOfDayMorning, first.TimeOfDay)

	// 10:00-14:00 buckets by its start time, so it counts as morning and
	// ranks high at 240 minutes.
	second := analysis.FreeBlocks[1]
	assert.Equal(t, testDay.Add(10*time.Hour), second.Start)
	assert.Equal(t, 240, second.DurationMinutes)
	assert.Equal(t, sharedDomain.TimeOfDayMorning, second.TimeOfDay)
	assert.Equal(t, domain.CategoryLong, second.Category)
	assert.Equal(t, domain.QualityHigh, second.Quality)

	third := analysis.FreeBlocks[2]
	assert.Equal(t, testDay.Add(15*time.Hour), third.Start)
	assert.Equal(t, 180, third.DurationMinutes)
	assert.Equal(t, sharedDomain.TimeOfDayAfternoon, third.TimeOfDay)

	assert.Equal(t, 60+240+180, analysis.TotalFreeMinutes)
}

func TestAnalyzer_EmptyDay(t *testing.T) {
	analyzer := NewAnalyzer(DefaultAnalyzerConfig())

	analysis, err := analyzer.Analyze(testDay, nil)
	require.NoError(t, err)
	require.Len(t, analysis.FreeBlocks, 1)
	assert.Equal(t, 600, analysis.FreeBlocks[0].DurationMinutes)
	assert.Equal(t, 600, analysis.TotalFreeMinutes)
}

func TestAnalyzer_WorkdayShorterThanMinBlock(t *testing.T) {
	analyzer := NewAnalyzer(AnalyzerConfig{
		WorkdayStartHour: 9,
		WorkdayEndHour:   9,
		MinBlockMinutes:  15,
	})

	analysis, err := analyzer.Analyze(testDay, nil)
	require.NoError(t, err)
	assert.Empty(t, analysis.FreeBlocks)
}

func TestAnalyzer_OverlappingEventsMerge(t *testing.T) {
	analyzer := NewAnalyzer(DefaultAnalyzerConfig())

	events := []calendarDomain.Event{
		event(9, 0, 11, 0),
		event(10, 0, 12, 0), // overlaps the first; cursor must not go backwards
		event(10, 30, 11, 30),
	}

	analysis, err := analyzer.Analyze(testDay, events)
	require.NoError(t, err)
	require.Len(t, analysis.FreeBlocks, 2)
	assert.Equal(t, testDay.Add(8*time.Hour), analysis.FreeBlocks[0].Start)
	assert.Equal(t, testDay.Add(9*time.Hour), analysis.FreeBlocks[0].End)
	assert.Equal(t, testDay.Add(12*time.Hour), analysis.FreeBlocks[1].Start)
	assert.Equal(t, testDay.Add(18*time.Hour), analysis.FreeBlocks[1].End)
}

func TestAnalyzer_MinBlockFiltersScraps(t *testing.T) {
	analyzer := NewAnalyzer(DefaultAnalyzerConfig())

	events := []calendarDomain.Event{
		event(8, 0, 9, 50),
		event(10, 0, 18, 0), // leaves a 10 minute scrap before it
	}

	analysis, err := analyzer.Analyze(testDay, events)
	require.NoError(t, err)
	assert.Empty(t, analysis.FreeBlocks)
}

func TestAnalyzer_EventsOutsideWorkdayIgnored(t *testing.T) {
	analyzer := NewAnalyzer(DefaultAnalyzerConfig())

	events := []calendarDomain.Event{
		event(5, 0, 7, 0),   // before the workday
		event(20, 0, 21, 0), // after the workday
	}

	analysis, err := analyzer.Analyze(testDay, events)
	require.NoError(t, err)
	require.Len(t, analysis.FreeBlocks, 1)
	assert.Equal(t, testDay.Add(8*time.Hour), analysis.FreeBlocks[0].Start)
	assert.Equal(t, testDay.Add(18*time.Hour), analysis.FreeBlocks[0].End)
}

func TestAnalyzer_OtherDaysFiltered(t *testing.T) {
	analyzer := NewAnalyzer(DefaultAnalyzerConfig())

	tomorrow := calendarDomain.Event{
		ID:    uuid.New(),
		Start: testDay.Add(24*time.Hour + 9*time.Hour),
		End:   testDay.Add(24*time.Hour + 17*time.Hour),
	}

	analysis, err := analyzer.Analyze(testDay, []calendarDomain.Event{tomorrow})
	require.NoError(t, err)
	require.Len(t, analysis.FreeBlocks, 1)
	assert.Equal(t, 600, analysis.TotalFreeMinutes)
}

func TestAnalyzer_MalformedEvent(t *testing.T) {
	analyzer := NewAnalyzer(DefaultAnalyzerConfig())

	bad := calendarDomain.Event{
		ID:    uuid.New(),
		Start: testDay.Add(10 * time.Hour),
		End:   testDay.Add(9 * time.Hour),
	}

	_, err := analyzer.Analyze(testDay, []calendarDomain.Event{bad})
	require.Error(t, err)

	var parseErr *sharedDomain.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestAnalyzer_BlocksAreOrderedAndDisjoint(t *testing.T) {
	analyzer := NewAnalyzer(DefaultAnalyzerConfig())

	events := []calendarDomain.Event{
		event(11, 0, 11, 30),
		event(9, 15, 9, 45),
		event(15, 0, 16, 0),
	}

	analysis, err := analyzer.Analyze(testDay, events)
	require.NoError(t, err)
	require.NotEmpty(t, analysis.FreeBlocks)

	for i, b := range analysis.FreeBlocks {
		assert.Equal(t, b.DurationMinutes, int(b.End.Sub(b.Start).Minutes()))
		assert.GreaterOrEqual(t, b.DurationMinutes, 15)
		if i > 0 {
			assert.False(t, b.Start.Before(analysis.FreeBlocks[i-1].End), "blocks must not overlap")
		}
	}
}
