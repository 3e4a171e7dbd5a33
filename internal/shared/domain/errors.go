package domain

import "fmt"

// ParseError reports a malformed record in an input snapshot. The engine
// fails fast on bad intervals; the caller decides whether to skip the record
// or abort the whole snapshot.
type ParseError struct {
	RecordID string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed record %s: %s", e.RecordID, e.Reason)
}

// NewParseError creates a ParseError for the given record.
func NewParseError(recordID, reason string) *ParseError {
	return &ParseError{RecordID: recordID, Reason: reason}
}
