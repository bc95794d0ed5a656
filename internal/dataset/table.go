// Package dataset loads delimited survey exports into a simple rectangular
// table and normalizes cell values before extraction sees them.
package dataset

import (
	"strings"
)

// Table is one survey export: ordered rows keyed by header columns.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int // UPPER(column) -> position
}

// NewTable builds a table and its column index. Rows shorter than the header
// are tolerated; missing cells read as absent.
func NewTable(columns []string, rows [][]string) *Table {
	t := &Table{
		Columns: columns,
		Rows:    rows,
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		t.index[strings.ToUpper(strings.TrimSpace(col))] = i
	}
	return t
}

// Value returns the normalized cell at (row, column). The bool is false when
// the column does not exist or the cell normalizes to absent.
func (t *Table) Value(row int, column string) (string, bool) {
	if row < 0 || row >= len(t.Rows) {
		return "", false
	}
	pos, ok := t.index[strings.ToUpper(strings.TrimSpace(column))]
	if !ok {
		return "", false
	}
	cells := t.Rows[row]
	if pos >= len(cells) {
		return "", false
	}
	return Normalize(cells[pos])
}

// Column returns all normalized values of one column; absent cells yield
// ("", false) entries in place.
func (t *Table) Column(column string) []string {
	out := make([]string, 0, len(t.Rows))
	for i := range t.Rows {
		v, ok := t.Value(i, column)
		if !ok {
			v = ""
		}
		out = append(out, v)
	}
	return out
}

// HasColumn reports whether the header contains the column, matched
// case-insensitively.
func (t *Table) HasColumn(column string) bool {
	_, ok := t.index[strings.ToUpper(strings.TrimSpace(column))]
	return ok
}

// Normalize applies the null-safe coercion rule: trim, then treat "",
// "nan", "none" and "null" (any case) as absent.
func Normalize(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", false
	}
	switch strings.ToLower(v) {
	case "nan", "none", "null":
		return "", false
	}
	return v, true
}
