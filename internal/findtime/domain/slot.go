package domain

import (
	"sort"
	"time"
)

// TimeSlot is one candidate meeting slot with its availability verdict.
type TimeSlot struct {
	Start     time.Time
	End       time.Time
	Available bool
	Conflicts []string // attendee IDs that cannot make it
	Score     float64  // 0..1
}

// DayAvailability is the search result for a single calendar day.
type DayAvailability struct {
	Date      time.Time
	Slots     []TimeSlot
	BestSlots []TimeSlot
}

// BestOf picks the top available slots by score, preserving chronological
// order between equal scores.
func BestOf(slots []TimeSlot, limit int) []TimeSlot {
	var available []TimeSlot
	for _, s := range slots {
		if s.Available {
			available = append(available, s)
		}
	}

	sort.SliceStable(available, func(i, j int) bool {
		return available[i].Score > available[j].Score
	})

	if len(available) > limit {
		available = available[:limit]
	}
	return available
}
