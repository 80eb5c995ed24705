package ingest

import (
	"fmt"
	"strings"
)

// SchemaError means the file cannot be mapped onto the expected columns:
// either required columns are missing from the header, or a shipment code
// appears more than once.
type SchemaError struct {
	Missing   []string
	Duplicate string
	Row       int
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing required columns: %s (expected: %s)",
			strings.Join(e.Missing, ", "), strings.Join(requiredColumns, ", "))
	}
	return fmt.Sprintf("duplicate shipment_code %q at row %d", e.Duplicate, e.Row)
}

// TypeError means a coordinate cell holds something that is not a number.
type TypeError struct {
	Row    int
	Column string
	Value  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("row %d: column %s: %q is not numeric", e.Row, e.Column, e.Value)
}

// RangeError means a coordinate parsed fine but lies outside the valid
// latitude/longitude bounds.
type RangeError struct {
	Row    int
	Column string
	Value  float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("row %d: column %s: %v is out of range", e.Row, e.Column, e.Value)
}
