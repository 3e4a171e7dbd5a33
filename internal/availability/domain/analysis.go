package domain

import (
	"sort"
	"time"
)

// Analysis holds one day's free-time breakdown. The view methods are filters
// and sorts over FreeBlocks, computed on demand rather than stored.
type Analysis struct {
	Date             time.Time
	TotalFreeMinutes int
	FreeBlocks       []TimeBlock
}

// Recommended returns the blocks best suited for focused scheduling: high
// quality, or medium quality with at least 90 minutes, longest first.
func (a Analysis) Recommended() []TimeBlock {
	var blocks []TimeBlock
	for _, b := range a.FreeBlocks {
		if b.Quality == QualityHigh || (b.Quality == QualityMedium && b.DurationMinutes >= 90) {
			blocks = append(blocks, b)
		}
	}
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].DurationMinutes > blocks[j].DurationMinutes
	})
	return blocks
}

// ShortBreaks returns blocks too small for real work but fine for a breather.
func (a Analysis) ShortBreaks() []TimeBlock {
	var blocks []TimeBlock
	for _, b := range a.FreeBlocks {
		if b.Category == CategoryShort {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// MeetingSlots returns blocks sized for a typical meeting (30-60 minutes).
func (a Analysis) MeetingSlots() []TimeBlock {
	var blocks []TimeBlock
	for _, b := range a.FreeBlocks {
		if b.DurationMinutes >= 30 && b.DurationMinutes <= 60 {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// DeepWorkSlots returns blocks long enough for uninterrupted deep work.
func (a Analysis) DeepWorkSlots() []TimeBlock {
	var blocks []TimeBlock
	for _, b := range a.FreeBlocks {
		if b.DurationMinutes >= 120 {
			blocks = append(blocks, b)
		}
	}
	return blocks
}
