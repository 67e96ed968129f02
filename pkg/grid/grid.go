// Package grid implements the selection and navigation engine behind the
// interactive results grid: an immutable rectangle of string cells, a
// selection rectangle defined by an anchor and a focus, keyboard and pointer
// operations that move them, and tab-separated serialization of the
// selection for the clipboard.
//
// The package is UI-framework agnostic. A display surface owns one Engine
// per displayed grid (see Session) and forwards pointer and key events to it.
package grid

import (
	"errors"
	"fmt"
)

// ErrRaggedRow is returned by New when a row does not have exactly one cell
// per column.
var ErrRaggedRow = errors.New("row length does not match column count")

// Grid is a rectangular table of string cells. Column labels are ordered and
// need not be unique. A Grid is treated as immutable once handed to an Engine.
type Grid struct {
	Columns []string
	Rows    [][]string
}

// New builds a Grid and verifies that every row has one cell per column.
func New(columns []string, rows [][]string) (Grid, error) {
	for i, row := range rows {
		if len(row) != len(columns) {
			return Grid{}, fmt.Errorf("row %d has %d cells, want %d: %w", i, len(row), len(columns), ErrRaggedRow)
		}
	}
	return Grid{Columns: columns, Rows: rows}, nil
}

// MustNew is like New but panics on a ragged row. Intended for tests and
// literals.
func MustNew(columns []string, rows [][]string) Grid {
	g, err := New(columns, rows)
	if err != nil {
		panic(err)
	}
	return g
}

// RowCount returns the number of rows.
func (g Grid) RowCount() int { return len(g.Rows) }

// ColumnCount returns the number of columns.
func (g Grid) ColumnCount() int { return len(g.Columns) }

// Empty reports whether the grid has no cells.
func (g Grid) Empty() bool { return g.RowCount() == 0 || g.ColumnCount() == 0 }

// Valid reports whether c addresses a cell of g.
func (g Grid) Valid(c Coord) bool {
	return c.Row >= 0 && c.Row < g.RowCount() && c.Col >= 0 && c.Col < g.ColumnCount()
}

// Cell returns the value at c, or "" when c is outside the grid.
func (g Grid) Cell(c Coord) string {
	if !g.Valid(c) {
		return ""
	}
	return g.Rows[c.Row][c.Col]
}

// Last returns the bottom-right coordinate. ok is false for an empty grid.
func (g Grid) Last() (Coord, bool) {
	if g.Empty() {
		return Coord{}, false
	}
	return Coord{Row: g.RowCount() - 1, Col: g.ColumnCount() - 1}, true
}
