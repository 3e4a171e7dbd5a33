package domain

import (
	"github.com/google/uuid"
)

// ConflictType classifies what went wrong between two events.
type ConflictType string

const (
	// ConflictTypeOverlap indicates two events occupy the same time.
	ConflictTypeOverlap ConflictType = "overlap"
	// ConflictTypeTightSchedule indicates the gap between two events is
	// smaller than the configured buffer.
	ConflictTypeTightSchedule ConflictType = "tight-schedule"
)

// Severity ranks how urgently a conflict needs attention.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// Conflict describes a single clash between the inspected event and another
// event on the same calendar day.
type Conflict struct {
	Type        ConflictType
	Severity    Severity
	OtherID     uuid.UUID
	OtherTitle  string
	GapMinutes  int // populated for tight-schedule conflicts
	Suggestions []string
}

// Analysis is the conflict report for one event, with a 0-100 health score.
type Analysis struct {
	EventID      uuid.UUID
	HasConflicts bool
	Conflicts    []Conflict
	Score        float64
}

// Score penalties per conflict severity.
const (
	criticalPenalty = 40
	warningPenalty  = 15
)

// NewAnalysis builds an analysis from detected conflicts, deriving the score
// from critical/warning counts and clamping it at zero.
func NewAnalysis(eventID uuid.UUID, conflicts []Conflict) Analysis {
	critical, warning := 0, 0
	for _, c := range conflicts {
		switch c.Severity {
		case SeverityCritical:
			critical++
		case SeverityWarning:
			warning++
		}
	}

	score := float64(100 - criticalPenalty*critical - warningPenalty*warning)
	if score < 0 {
		score = 0
	}

	return Analysis{
		EventID:      eventID,
		HasConflicts: len(conflicts) > 0,
		Conflicts:    conflicts,
		Score:        score,
	}
}
