package domain

import (
	"errors"
	"time"
)

var ErrInvalidTimeRange = errors.New("end time must be after start time")

// TimeRange represents a half-open time interval [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange creates a validated time range.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if !end.After(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// Duration returns the length of the range.
func (t TimeRange) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// Minutes returns the length of the range in whole minutes.
func (t TimeRange) Minutes() int {
	return int(t.Duration().Minutes())
}

// Overlaps checks if two ranges overlap. Half-open semantics: ranges that
// merely share a boundary do not overlap.
func (t TimeRange) Overlaps(other TimeRange) bool {
	return t.Start.Before(other.End) && other.Start.Before(t.End)
}

// Touches checks overlap with inclusive boundaries, so ranges that share a
// start or end instant count as touching.
func (t TimeRange) Touches(other TimeRange) bool {
	return !t.Start.After(other.End) && !other.Start.After(t.End)
}

// Gap returns the distance between two disjoint ranges, or 0 when they
// overlap or are adjacent.
func (t TimeRange) Gap(other TimeRange) time.Duration {
	if t.Overlaps(other) {
		return 0
	}
	if !other.End.After(t.Start) {
		return t.Start.Sub(other.End)
	}
	return other.Start.Sub(t.End)
}

// Contains checks if an instant falls within the range.
func (t TimeRange) Contains(instant time.Time) bool {
	return !instant.Before(t.Start) && instant.Before(t.End)
}

// TimeOfDay is a coarse bucket derived from an instant's hour.
type TimeOfDay string

const (
	TimeOfDayMorning   TimeOfDay = "morning"   // 6-12
	TimeOfDayAfternoon TimeOfDay = "afternoon" // 12-17
	TimeOfDayEvening   TimeOfDay = "evening"   // 17-21
	TimeOfDayNight     TimeOfDay = "night"
)

// TimeOfDayAt buckets an instant by its hour.
func TimeOfDayAt(instant time.Time) TimeOfDay {
	hour := instant.Hour()
	switch {
	case hour >= 6 && hour < 12:
		return TimeOfDayMorning
	case hour >= 12 && hour < 17:
		return TimeOfDayAfternoon
	case hour >= 17 && hour < 21:
		return TimeOfDayEvening
	default:
		return TimeOfDayNight
	}
}

// SameDay checks if two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DayStart returns midnight of the instant's calendar day.
func DayStart(instant time.Time) time.Time {
	return time.Date(instant.Year(), instant.Month(), instant.Day(), 0, 0, 0, 0, instant.Location())
}

// DayAt returns the given wall-clock time on the instant's calendar day.
func DayAt(instant time.Time, hour, minute int) time.Time {
	return time.Date(instant.Year(), instant.Month(), instant.Day(), hour, minute, 0, 0, instant.Location())
}

// Clamp restricts a value to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
