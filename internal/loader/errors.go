package loader

import "fmt"

// ColumnError reports a required column missing from a source header.
type ColumnError struct {
	Source string
	Column string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s: missing required column %q", e.Source, e.Column)
}

// CellError reports a value that could not be parsed. Row is 1-based and
// counts the header, so it matches the line a spreadsheet shows.
type CellError struct {
	Source string
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("%s: row %d, column %q: invalid value %q: %v", e.Source, e.Row, e.Column, e.Value, e.Err)
}

func (e *CellError) Unwrap() error { return e.Err }
