package domain_test

import (
	"testing"
	"time"

	"github.com/cadencehq/cadence/internal/availability/domain"
	sharedDomain "github.com/cadencehq/cadence/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestNewTimeBlock_Classification(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		category domain.BlockCategory
		quality  domain.BlockQuality
		bucket   sharedDomain.TimeOfDay
	}{
		{
			name:     "long morning block is high quality",
			start:    at(9, 0),
			end:      at(12, 0),
			category: domain.CategoryLong,
			quality:  domain.QualityHigh,
			bucket:   sharedDomain.TimeOfDayMorning,
		},
		{
			name:     "long afternoon block is high quality",
			start:    at(13, 0),
			end:      at(16, 0),
			category: domain.CategoryLong,
			quality:  domain.QualityHigh,
			bucket:   sharedDomain.TimeOfDayAfternoon,
		},
		{
			name:     "long evening block is only medium",
			start:    at(17, 0),
			end:      at(20, 0),
			category: domain.CategoryLong,
			quality:  domain.QualityMedium,
			bucket:   sharedDomain.TimeOfDayEvening,
		},
		{
			name:     "hour in the morning is medium",
			start:    at(10, 0),
			end:      at(11, 0),
			category: domain.CategoryMedium,
			quality:  domain.QualityMedium,
			bucket:   sharedDomain.TimeOfDayMorning,
		},
		{
			name:     "short scrap is low quality",
			start:    at(10, 0),
			end:      at(10, 20),
			category: domain.CategoryShort,
			quality:  domain.QualityLow,
			bucket:   sharedDomain.TimeOfDayMorning,
		},
		{
			name:     "night block is low quality",
			start:    at(22, 0),
			end:      at(23, 30),
			category: domain.CategoryMedium,
			quality:  domain.QualityLow,
			bucket:   sharedDomain.TimeOfDayNight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, err := domain.NewTimeBlock(tt.start, tt.end)
			require.NoError(t, err)

			assert.Equal(t, tt.category, block.Category)
			assert.Equal(t, tt.quality, block.Quality)
			assert.Equal(t, tt.bucket, block.TimeOfDay)
			assert.Equal(t, int(tt.end.Sub(tt.start).Minutes()), block.DurationMinutes)
		})
	}
}

func TestNewTimeBlock_InvalidRange(t *testing.T) {
	_, err := domain.NewTimeBlock(at(10, 0), at(9, 0))
	assert.ErrorIs(t, err, sharedDomain.ErrInvalidTimeRange)
}

func mustBlock(t *testing.T, start, end time.Time) domain.TimeBlock {
	t.Helper()
	block, err := domain.NewTimeBlock(start, end)
	require.NoError(t, err)
	return block
}

func TestAnalysis_Views(t *testing.T) {
	deepMorning := mustBlock(t, at(8, 0), at(11, 0))   // 180m high
	midAfternoon := mustBlock(t, at(14, 0), at(15, 40)) // 100m medium
	meeting := mustBlock(t, at(12, 0), at(12, 45))      // 45m medium
	scrap := mustBlock(t, at(16, 0), at(16, 20))        // 20m short/low

	analysis := domain.Analysis{
		Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		FreeBlocks: []domain.TimeBlock{meeting, deepMorning, scrap, midAfternoon},
	}

	recommended := analysis.Recommended()
	require.Len(t, recommended, 2)
	assert.Equal(t, deepMorning, recommended[0], "longest block first")
	assert.Equal(t, midAfternoon, recommended[1])

	breaks := analysis.ShortBreaks()
	require.Len(t, breaks, 1)
	assert.Equal(t, scrap, breaks[0])

	meetings := analysis.MeetingSlots()
	require.Len(t, meetings, 1)
	assert.Equal(t, meeting, meetings[0])

	deep := analysis.DeepWorkSlots()
	require.Len(t, deep, 1)
	assert.Equal(t, deepMorning, deep[0])
}
