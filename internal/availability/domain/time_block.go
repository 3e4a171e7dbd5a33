package domain

import (
	"time"

	sharedDomain "github.com/cadencehq/cadence/internal/shared/domain"
)

// BlockCategory is a coarse size class for a free block.
type BlockCategory string

const (
	CategoryShort  BlockCategory = "short"  // < 30m
	CategoryMedium BlockCategory = "medium" // 30m - 120m
	CategoryLong   BlockCategory = "long"   // >= 120m
)

// BlockQuality ranks a free block's suitability for focused work.
type BlockQuality string

const (
	QualityHigh   BlockQuality = "high"
	QualityMedium BlockQuality = "medium"
	QualityLow    BlockQuality = "low"
)

// TimeBlock is a contiguous free span of a day. Its classification fields are
// pure functions of the interval and are derived at construction, never set
// by hand.
type TimeBlock struct {
	Start           time.Time
	End             time.Time
	DurationMinutes int
	TimeOfDay       sharedDomain.TimeOfDay
	Category        BlockCategory
	Quality         BlockQuality
}

// NewTimeBlock creates a classified free block.
func NewTimeBlock(start, end time.Time) (TimeBlock, error) {
	tr, err := sharedDomain.NewTimeRange(start, end)
	if err != nil {
		return TimeBlock{}, err
	}

	minutes := tr.Minutes()
	timeOfDay := sharedDomain.TimeOfDayAt(start)

	return TimeBlock{
		Start:           start,
		End:             end,
		DurationMinutes: minutes,
		TimeOfDay:       timeOfDay,
		Category:        categoryFor(minutes),
		Quality:         qualityFor(minutes, timeOfDay),
	}, nil
}

// Range returns the block's time interval.
func (b TimeBlock) Range() sharedDomain.TimeRange {
	return sharedDomain.TimeRange{Start: b.Start, End: b.End}
}

func categoryFor(minutes int) BlockCategory {
	switch {
	case minutes < 30:
		return CategoryShort
	case minutes < 120:
		return CategoryMedium
	default:
		return CategoryLong
	}
}

// qualityFor ranks a block by how well it supports deep work: long daytime
// blocks rank high, scraps and night hours rank low.
func qualityFor(minutes int, timeOfDay sharedDomain.TimeOfDay) BlockQuality {
	daytime := timeOfDay == sharedDomain.TimeOfDayMorning || timeOfDay == sharedDomain.TimeOfDayAfternoon

	switch {
	case minutes >= 120 && daytime:
		return QualityHigh
	case minutes < 30 || timeOfDay == sharedDomain.TimeOfDayNight:
		return QualityLow
	default:
		return QualityMedium
	}
}
