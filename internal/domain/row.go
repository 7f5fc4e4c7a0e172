package domain

import "strings"

// RawRow is one data line of the input table, keyed by header name.
// Cells are raw strings; all typed extraction goes through package normalize.
// A RawRow is never modified after construction.
type RawRow struct {
	cells map[string]string
}

// NewRawRow pairs header names with cell values.
// Missing trailing cells read as "", surplus cells are ignored, and when a
// header name repeats the first column wins.
func NewRawRow(headers, values []string) RawRow {
	cells := make(map[string]string, len(headers))
	for i, h := range headers {
		if _, dup := cells[h]; dup {
			continue
		}
		if i < len(values) {
			cells[h] = values[i]
		} else {
			cells[h] = ""
		}
	}
	return RawRow{cells: cells}
}

// Get returns the raw cell for column and whether the column exists.
func (r RawRow) Get(column string) (string, bool) {
	v, ok := r.cells[column]
	return v, ok
}

// Value returns the trimmed cell for column, or "" when column is empty or absent.
func (r RawRow) Value(column string) string {
	if column == "" {
		return ""
	}
	return strings.TrimSpace(r.cells[column])
}

// Len returns the number of distinct columns in the row.
func (r RawRow) Len() int {
	return len(r.cells)
}

// Blank reports whether every cell in the row is empty after trimming.
func (r RawRow) Blank() bool {
	for _, v := range r.cells {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
