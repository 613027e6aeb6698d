package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRow is returned when a row's field count differs from the header.
	ErrMalformedRow = errors.New("malformed row")

	// ErrDuplicateColumn is returned when a header names the same column twice.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrUnknownColumn is returned when an operation names a column the table does not have.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrNoSelection is returned by edit and delete when no row is selected.
	ErrNoSelection = errors.New("no row selected")

	// ErrEmptyQuery is returned by search when the query text is empty.
	ErrEmptyQuery = errors.New("search text is empty")

	// ErrIncompleteFilter is returned by filter when the column or the value is missing.
	ErrIncompleteFilter = errors.New("filter needs a column and a value")

	// ErrColumnsChanged is returned by reload when the file's header differs
	// from the column set the table was opened with.
	ErrColumnsChanged = errors.New("columns changed on disk")

	// ErrNoEditInProgress is returned when confirming an edit session that was never started.
	ErrNoEditInProgress = errors.New("no edit in progress")
)

// IsWarning reports whether err is a user-input problem that aborts the
// operation without touching the store.
func IsWarning(err error) bool {
	return errors.Is(err, ErrNoSelection) ||
		errors.Is(err, ErrEmptyQuery) ||
		errors.Is(err, ErrIncompleteFilter) ||
		errors.Is(err, ErrUnknownColumn) ||
		errors.Is(err, ErrNoEditInProgress)
}

// RowShapeError reports a record whose field count does not match the column set.
type RowShapeError struct {
	Line int // 1-based line in the file; 0 when the row did not come from a file
	Want int
	Got  int
}

func (e *RowShapeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: expected %d fields, got %d", e.Line, e.Want, e.Got)
	}
	return fmt.Sprintf("expected %d fields, got %d", e.Want, e.Got)
}

func (e *RowShapeError) Unwrap() error { return ErrMalformedRow }

// ColumnError attaches the offending column name to a column error.
type ColumnError struct {
	Column string
	Err    error
}

func (e *ColumnError) Error() string { return fmt.Sprintf("%v: %q", e.Err, e.Column) }

func (e *ColumnError) Unwrap() error { return e.Err }
