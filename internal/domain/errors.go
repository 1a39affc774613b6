package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyResult marks a filter or aggregation that matched nothing. It is a
// warning: callers log it and continue with an empty or sparse chart.
var ErrEmptyResult = errors.New("no matching records")

// ParseError reports a malformed cell or row in the source table. Line and
// Column are 1-based; Column is 0 when the whole row is at fault.
type ParseError struct {
	Line   int
	Column int
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Column > 0:
		return fmt.Sprintf("parse %s: line %d column %d: %q: %v", e.Field, e.Line, e.Column, e.Value, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("parse %s: line %d: %v", e.Field, e.Line, e.Err)
	default:
		return fmt.Sprintf("parse %s: %v", e.Field, e.Err)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Dimension names one of the three selectable catalogs.
type Dimension string

const (
	DimensionCommodity Dimension = "commodity"
	DimensionDate      Dimension = "date"
	DimensionLocation  Dimension = "location"
)

// SelectionError reports operator input that does not resolve against a
// catalog.
type SelectionError struct {
	Dimension Dimension
	Input     string
	Reason    string
	Err       error
}

func (e *SelectionError) Error() string {
	msg := fmt.Sprintf("invalid %s selection %q: %s", e.Dimension, e.Input, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SelectionError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsSelectionError reports whether err is or wraps a *SelectionError.
func IsSelectionError(err error) bool {
	var se *SelectionError
	return errors.As(err, &se)
}
