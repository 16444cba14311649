package services

import "fmt"

// MalformedInputError reports a CSV whose header is unreadable or lacks a
// required column. Nothing is loaded.
type MalformedInputError struct {
	Column string
	Err    error
}

func (e *MalformedInputError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("malformed input: missing required column %q", e.Column)
	}
	if e.Err != nil {
		return fmt.Sprintf("malformed input: %v", e.Err)
	}
	return "malformed input"
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// EmptyInputError reports an input with no usable rows.
type EmptyInputError struct {
	Stage string
}

func (e *EmptyInputError) Error() string {
	if e.Stage == "" {
		return "empty input: no data rows"
	}
	return fmt.Sprintf("empty input: no rows left after %s", e.Stage)
}

// DegenerateRangeError reports that adaptive binning cannot build increasing
// edges because every price is the same.
type DegenerateRangeError struct {
	Price float64
}

func (e *DegenerateRangeError) Error() string {
	return fmt.Sprintf("degenerate price range: every property costs %.2f", e.Price)
}
