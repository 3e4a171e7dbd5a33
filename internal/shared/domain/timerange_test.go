package domain_test

import (
	"testing"
	"time"

	"github.com/cadencehq/cadence/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeRange(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tr, err := domain.NewTimeRange(start, start.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, tr.Duration())
	assert.Equal(t, 60, tr.Minutes())
}

func TestNewTimeRange_Invalid(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	_, err := domain.NewTimeRange(start, start)
	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)

	_, err = domain.NewTimeRange(start, start.Add(-time.Minute))
	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
}

func TestTimeRange_Overlaps(t *testing.T) {
	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	tr := domain.TimeRange{Start: base, End: base.Add(time.Hour)}

	tests := []struct {
		name     string
		other    domain.TimeRange
		overlaps bool
		touches  bool
	}{
		{
			name:     "overlapping start",
			other:    domain.TimeRange{Start: base.Add(-30 * time.Minute), End: base.Add(30 * time.Minute)},
			overlaps: true,
			touches:  true,
		},
		{
			name:     "contained within",
			other:    domain.TimeRange{Start: base.Add(15 * time.Minute), End: base.Add(45 * time.Minute)},
			overlaps: true,
			touches:  true,
		},
		{
			name:     "adjacent after",
			other:    domain.TimeRange{Start: base.Add(time.Hour), End: base.Add(2 * time.Hour)},
			overlaps: false,
			touches:  true,
		},
		{
			name:     "adjacent before",
			other:    domain.TimeRange{Start: base.Add(-time.Hour), End: base},
			overlaps: false,
			touches:  true,
		},
		{
			name:     "disjoint",
			other:    domain.TimeRange{Start: base.Add(2 * time.Hour), End: base.Add(3 * time.Hour)},
			overlaps: false,
			touches:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, tr.Overlaps(tt.other))
			assert.Equal(t, tt.touches, tr.Touches(tt.other))
		})
	}
}

func TestTimeRange_Gap(t *testing.T) {
	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	tr := domain.TimeRange{Start: base, End: base.Add(time.Hour)}

	after := domain.TimeRange{Start: base.Add(90 * time.Minute), End: base.Add(2 * time.Hour)}
	assert.Equal(t, 30*time.Minute, tr.Gap(after))
	assert.Equal(t, 30*time.Minute, after.Gap(tr))

	overlapping := domain.TimeRange{Start: base.Add(30 * time.Minute), End: base.Add(90 * time.Minute)}
	assert.Equal(t, time.Duration(0), tr.Gap(overlapping))

	adjacent := domain.TimeRange{Start: base.Add(time.Hour), End: base.Add(2 * time.Hour)}
	assert.Equal(t, time.Duration(0), tr.Gap(adjacent))
}

func TestTimeRange_Contains(t *testing.T) {
	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	tr := domain.TimeRange{Start: base, End: base.Add(time.Hour)}

	assert.True(t, tr.Contains(base))
	assert.True(t, tr.Contains(base.Add(59*time.Minute)))
	assert.False(t, tr.Contains(base.Add(time.Hour))) // end exclusive
	assert.False(t, tr.Contains(base.Add(-time.Second)))
}

func TestTimeOfDayAt(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		hour int
		want domain.TimeOfDay
	}{
		{5, domain.TimeOfDayNight},
		{6, domain.TimeOfDayMorning},
		{11, domain.TimeOfDayMorning},
		{12, domain.TimeOfDayAfternoon},
		{16, domain.TimeOfDayAfternoon},
		{17, domain.TimeOfDayEvening},
		{20, domain.TimeOfDayEvening},
		{21, domain.TimeOfDayNight},
		{0, domain.TimeOfDayNight},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.TimeOfDayAt(day.Add(time.Duration(tt.hour)*time.Hour)), "hour %d", tt.hour)
	}
}

func TestDayHelpers(t *testing.T) {
	instant := time.Date(2025, 3, 10, 14, 42, 13, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), domain.DayStart(instant))
	assert.Equal(t, time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC), domain.DayAt(instant, 9, 30))
	assert.True(t, domain.SameDay(instant, domain.DayStart(instant)))
	assert.False(t, domain.SameDay(instant, instant.Add(24*time.Hour)))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, domain.Clamp(-0.5, 0, 1))
	assert.Equal(t, 1.0, domain.Clamp(1.5, 0, 1))
	assert.Equal(t, 0.5, domain.Clamp(0.5, 0, 1))
}
