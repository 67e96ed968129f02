package grid

import "strings"

// Engine owns the selection state for one displayed Grid. It is not safe for
// concurrent use; every method is expected to run on the UI event loop.
//
// Coordinates passed in must be valid for the current grid. The engine does
// not re-check them; Load resets the selection so no stale coordinate
// survives a grid swap.
type Engine struct {
	grid     Grid
	anchor   Coord
	focus    Coord
	selected bool
	dragging bool
}

// NewEngine returns an engine for g with an empty selection.
func NewEngine(g Grid) *Engine {
	return &Engine{grid: g}
}

// Load replaces the grid and discards the selection and drag state.
func (e *Engine) Load(g Grid) {
	*e = Engine{grid: g}
}

// Grid returns the grid currently displayed.
func (e *Engine) Grid() Grid { return e.grid }

// Selection returns the current range. ok is false when nothing is selected.
func (e *Engine) Selection() (r Range, ok bool) {
	if !e.selected {
		return Range{}, false
	}
	return Range{Anchor: e.anchor, Focus: e.focus}, true
}

// HasSelection reports whether an anchor and focus are set.
func (e *Engine) HasSelection() bool { return e.selected }

// Cursor returns the focus coordinate. ok is false when nothing is selected.
func (e *Engine) Cursor() (c Coord, ok bool) {
	return e.focus, e.selected
}

// Dragging reports whether a pointer drag is in progress.
func (e *Engine) Dragging() bool { return e.dragging }

// BeginSelection handles a pointer-down on c. With extend set and an existing
// anchor the anchor is kept and only the focus moves; otherwise a fresh
// single-cell selection starts at c. Either way a drag begins.
func (e *Engine) BeginSelection(c Coord, extend bool) {
	if extend && e.selected {
		e.focus = c
	} else {
		e.set(c, c)
	}
	e.dragging = true
}

// ExtendSelectionTo handles the pointer entering c during a drag.
func (e *Engine) ExtendSelectionTo(c Coord) {
	if !e.dragging {
		return
	}
	e.focus = c
}

// EndSelection handles a pointer-up anywhere in the document.
func (e *Engine) EndSelection() {
	e.dragging = false
}

// SelectColumn selects every row of column col. No-op when the grid has no
// rows.
func (e *Engine) SelectColumn(col int) {
	if e.grid.RowCount() == 0 {
		return
	}
	e.set(Coord{Row: 0, Col: col}, Coord{Row: e.grid.RowCount() - 1, Col: col})
}

// SelectAll selects the whole grid. No-op on an empty grid.
func (e *Engine) SelectAll() {
	last, ok := e.grid.Last()
	if !ok {
		return
	}
	e.set(Coord{}, last)
}

// Clear drops the selection. The grid is kept.
func (e *Engine) Clear() {
	e.anchor, e.focus = Coord{}, Coord{}
	e.selected = false
	e.dragging = false
}

// MoveCursor moves the focus one step in d, clamped to the grid. With extend
// set the anchor stays put and the rectangle grows or shrinks; otherwise the
// selection collapses onto the new cell. Nothing happens when there is no
// focus yet or the focus already sits on the boundary in that direction.
func (e *Engine) MoveCursor(d Direction, extend bool) {
	if !e.selected || e.grid.Empty() {
		return
	}
	next := d.step(e.focus, e.grid.RowCount(), e.grid.ColumnCount())
	if next == e.focus {
		return
	}
	if extend {
		e.focus = next
		return
	}
	e.set(next, next)
}

// IsSelected reports whether c is inside the selection rectangle.
func (e *Engine) IsSelected(c Coord) bool {
	if !e.selected {
		return false
	}
	return Range{Anchor: e.anchor, Focus: e.focus}.Contains(c)
}

// IsCursor reports whether c is the focus.
func (e *Engine) IsCursor(c Coord) bool {
	return e.selected && c == e.focus
}

// SelectedCells returns the number of cells in the selection, 0 when empty.
func (e *Engine) SelectedCells() int {
	r, ok := e.Selection()
	if !ok {
		return 0
	}
	return r.Cells()
}

// CopySelectionAsText serializes the selection as tab-separated values, one
// line per row. It returns "" when nothing is selected.
func (e *Engine) CopySelectionAsText() string {
	r, ok := e.Selection()
	if !ok {
		return ""
	}
	return RangeText(e.grid, r)
}

func (e *Engine) set(anchor, focus Coord) {
	e.anchor = anchor
	e.focus = focus
	e.selected = true
}

// RangeText renders the cells of r as tab-separated values, rows separated by
// "\n", top to bottom and left to right. Cells outside g render as "".
func RangeText(g Grid, r Range) string {
	rowMin, rowMax, colMin, colMax := r.Bounds()
	var b strings.Builder
	for row := rowMin; row <= rowMax; row++ {
		if row > rowMin {
			b.WriteByte('\n')
		}
		for col := colMin; col <= colMax; col++ {
			if col > colMin {
				b.WriteByte('\t')
			}
			b.WriteString(g.Cell(Coord{Row: row, Col: col}))
		}
	}
	return b.String()
}
