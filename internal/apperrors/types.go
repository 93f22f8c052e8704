package apperrors

import (
	"fmt"
	"strings"
)

// AggregationError reports a row whose numeric field could not be parsed while
// rolling up lots. No aggregate is written when it is returned.
type AggregationError struct {
	RowID    string
	Position int
	Field    string
	Value    string
	Err      error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("row %s (position %d): %s %q: %v", e.RowID, e.Position, e.Field, e.Value, e.Err)
}

// Unwrap exposes ErrUnparsableNumber so callers can use errors.Is.
func (e *AggregationError) Unwrap() []error {
	return []error{ErrUnparsableNumber, e.Err}
}

// SequenceError reports a structural problem in the row sequence, such as a
// blank separator that has no lot above it.
type SequenceError struct {
	RowID    string
	Position int
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("row %s (position %d): %v", e.RowID, e.Position, ErrOrphanSeparator)
}

func (e *SequenceError) Unwrap() error {
	return ErrOrphanSeparator
}

// ConfigurationError reports a grid column declared with a validation kind
// that does not exist.
type ConfigurationError struct {
	Column string
	Kind   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("column %q: unknown validation kind %q", e.Column, e.Kind)
}

// CSVStructureError lists the expected headers missing from an imported file.
type CSVStructureError struct {
	Missing []string
}

func (e *CSVStructureError) Error() string {
	return fmt.Sprintf("%v: missing %s", ErrInvalidCSVHeaders, strings.Join(e.Missing, ", "))
}

func (e *CSVStructureError) Unwrap() error {
	return ErrInvalidCSVHeaders
}
