package dataset

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrEmptyJoin     = errors.New("no overlapping dates between series")
	ErrMissingColumn = errors.New("required column missing")
	ErrEmptySeries   = errors.New("series contains no rows")
)

// ParseError describes a malformed row or value in a raw price table.
type ParseError struct {
	Line    int    // 1-based line number, 0 when not row-specific
	Column  string // column name, empty when not column-specific
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("parse error at line %d, column %q: %s", e.Line, e.Column, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Message)
	default:
		return fmt.Sprintf("parse error: %s", e.Message)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a ParseError for a specific row and column.
func NewParseError(line int, column, message string, err error) *ParseError {
	return &ParseError{Line: line, Column: column, Message: message, Err: err}
}
