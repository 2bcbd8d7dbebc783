package domain

import (
	"fmt"
	"sort"
)

// Table is a named, column-ordered grid of string cells. Tables placed in a
// ReportSet are treated as immutable; every operation returns a new Table.
type Table struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// NewTable creates an empty table with the given name and columns
func NewTable(name string, columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Name: name, Columns: cols, Rows: [][]string{}}
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a column or -1
func (t *Table) ColumnIndex(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Value returns the cell at row i for the named column
func (t *Table) Value(i int, column string) (string, bool) {
	idx := t.ColumnIndex(column)
	if idx < 0 || i < 0 || i >= len(t.Rows) {
		return "", false
	}
	return t.Rows[i][idx], true
}

// Append adds a row; the row must have one cell per column
func (t *Table) Append(row []string) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("table %s: row has %d cells, expected %d", t.Name, len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Select returns a new table holding only the given columns, in that order,
// with the same rows in the same order.
func (t *Table) Select(name string, columns []string) (*Table, error) {
	idx := make([]int, len(columns))
	for i, c := range columns {
		idx[i] = t.ColumnIndex(c)
		if idx[i] < 0 {
			return nil, fmt.Errorf("table %s: unknown column %q", t.Name, c)
		}
	}

	out := NewTable(name, columns)
	out.Rows = make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		projected := make([]string, len(idx))
		for i, j := range idx {
			projected[i] = row[j]
		}
		out.Rows[r] = projected
	}
	return out, nil
}

// Renamed returns a shallow copy of the table carrying a different name
func (t *Table) Renamed(name string) *Table {
	return &Table{Name: name, Columns: t.Columns, Rows: t.Rows}
}

// SortedBy returns a new table whose rows are stably ordered by less.
// The receiver is left untouched.
func (t *Table) SortedBy(less func(a, b []string) bool) *Table {
	rows := make([][]string, len(t.Rows))
	copy(rows, t.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		return less(rows[i], rows[j])
	})
	return &Table{Name: t.Name, Columns: t.Columns, Rows: rows}
}
