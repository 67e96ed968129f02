package ui

import (
	"strconv"
	"strings"

	"github.com/oakwood-commons/cellgrid/internal/formatter"
	"github.com/oakwood-commons/cellgrid/pkg/grid"
)

const (
	// cellPadding is the blank cell on each side of a column's text.
	cellPadding = 1
	// columnSeparator follows every rendered column.
	columnSeparator = "│"
	// maxCellWidth caps a column's text width before the window does.
	maxCellWidth = 40
	// headerRuleLines is the column header row plus the rule below it.
	headerRuleLines = 2
)

// hitKind classifies what a screen position lands on.
type hitKind int

const (
	hitNone hitKind = iota
	hitHeader
	hitCell
)

type hit struct {
	kind  hitKind
	coord grid.Coord
}

// gridLayout is the column geometry of the loaded grid. It is rebuilt when a
// grid loads or the window resizes; the vertical geometry is derived from the
// model on demand.
type gridLayout struct {
	widths []int
	hints  []formatter.ColumnHint
	gutter int
}

// applyLayout recomputes column widths for the current grid and window.
func (m *Model) applyLayout() {
	g := m.grid()
	m.layout = gridLayout{}
	if g.ColumnCount() == 0 {
		return
	}

	limit := maxCellWidth
	if m.WinWidth > 0 {
		limit = min(limit, max(m.WinWidth-m.gutterWidth(g)-2*cellPadding-1, 3))
	}
	hints := formatter.InferHints(g)
	for i := range hints {
		hints[i].MaxWidth = limit
	}
	texts := make([][]string, len(g.Rows))
	for r, row := range g.Rows {
		texts[r] = make([]string, len(row))
		for c, v := range row {
			texts[r][c] = formatter.DisplayText(v)
		}
	}
	m.layout = gridLayout{
		widths: formatter.ColumnWidths(g.Columns, texts, 0, hints),
		hints:  hints,
		gutter: m.gutterWidth(g),
	}
	m.clampOffsets()
}

// gutterWidth is the row-number column plus its separator.
func (m *Model) gutterWidth(g grid.Grid) int {
	if !m.RowNumbers {
		return 0
	}
	return len(strconv.Itoa(max(g.RowCount(), 1))) + 1
}

// topLines is the number of screen rows above the column header.
func (m *Model) topLines() int {
	n := 1
	if m.showQueryBar() {
		n++
	}
	return n
}

// bottomLines is the status line plus the footer.
func (m *Model) bottomLines() int {
	if m.HideFooter {
		return 1
	}
	return 1 + strings.Count(m.footerView(), "\n") + 1
}

// headerY is the screen row of the column header.
func (m *Model) headerY() int { return m.topLines() }

// bodyY is the screen row of the first visible data row.
func (m *Model) bodyY() int { return m.topLines() + headerRuleLines }

// bodyHeight is the number of data rows that fit on screen.
func (m *Model) bodyHeight() int {
	h := m.WinHeight
	if h <= 0 {
		h = 24
	}
	return max(h-m.topLines()-headerRuleLines-m.bottomLines(), 1)
}

// columnSpan is the screen width of column c including padding and separator.
func (m *Model) columnSpan(c int) int {
	return m.layout.widths[c] + 2*cellPadding + 1
}

// visibleColumns returns the columns from ColOffset that fit the window.
// At least one column is returned when the grid has any.
func (m *Model) visibleColumns() []int {
	n := len(m.layout.widths)
	if n == 0 {
		return nil
	}
	avail := m.WinWidth - m.layout.gutter
	if m.WinWidth <= 0 {
		avail = 1 << 30
	}
	var cols []int
	used := 0
	for c := m.ColOffset; c < n; c++ {
		span := m.columnSpan(c)
		if len(cols) > 0 && used+span > avail {
			break
		}
		cols = append(cols, c)
		used += span
	}
	return cols
}

// columnAt maps a screen x to a visible column, or -1.
func (m *Model) columnAt(x int) int {
	x -= m.layout.gutter
	if x < 0 {
		return -1
	}
	for _, c := range m.visibleColumns() {
		span := m.columnSpan(c)
		if x < span {
			return c
		}
		x -= span
	}
	return -1
}

// hitTest maps a screen position to the column header, a data cell, or
// nothing.
func (m *Model) hitTest(x, y int) hit {
	g := m.grid()
	if g.ColumnCount() == 0 {
		return hit{}
	}
	col := m.columnAt(x)
	if col < 0 {
		return hit{}
	}
	if y == m.headerY() {
		return hit{kind: hitHeader, coord: grid.Coord{Col: col}}
	}
	top := m.bodyY()
	if y < top || y >= top+m.bodyHeight() {
		return hit{}
	}
	row := m.RowOffset + (y - top)
	if row >= g.RowCount() {
		return hit{}
	}
	return hit{kind: hitCell, coord: grid.Coord{Row: row, Col: col}}
}

// dragTarget maps a pointer position during a drag to the nearest cell.
// Leaving the body vertically scrolls one row in that direction.
func (m *Model) dragTarget(x, y int) (grid.Coord, bool) {
	g := m.grid()
	if g.Empty() {
		return grid.Coord{}, false
	}
	cols := m.visibleColumns()
	col := m.columnAt(x)
	if col < 0 {
		if x < m.layout.gutter {
			col = cols[0]
		} else {
			col = cols[len(cols)-1]
		}
	}

	top := m.bodyY()
	height := m.bodyHeight()
	var row int
	switch {
	case y < top:
		m.RowOffset = max(m.RowOffset-1, 0)
		row = m.RowOffset
	case y >= top+height:
		m.RowOffset = min(m.RowOffset+1, max(g.RowCount()-height, 0))
		row = min(m.RowOffset+height-1, g.RowCount()-1)
	default:
		row = min(m.RowOffset+(y-top), g.RowCount()-1)
	}
	return grid.Coord{Row: row, Col: col}, true
}

// ensureVisible scrolls so that c is on screen.
func (m *Model) ensureVisible(c grid.Coord) {
	height := m.bodyHeight()
	if c.Row < m.RowOffset {
		m.RowOffset = c.Row
	} else if c.Row >= m.RowOffset+height {
		m.RowOffset = c.Row - height + 1
	}
	if c.Col < m.ColOffset {
		m.ColOffset = c.Col
		return
	}
	for m.ColOffset < c.Col {
		cols := m.visibleColumns()
		if len(cols) == 0 || cols[len(cols)-1] >= c.Col {
			break
		}
		m.ColOffset++
	}
}

// scrollRows moves the viewport without touching the selection.
func (m *Model) scrollRows(delta int) {
	m.RowOffset += delta
	m.clampOffsets()
}

func (m *Model) clampOffsets() {
	g := m.grid()
	m.RowOffset = min(m.RowOffset, max(g.RowCount()-m.bodyHeight(), 0))
	m.RowOffset = max(m.RowOffset, 0)
	m.ColOffset = min(m.ColOffset, max(g.ColumnCount()-1, 0))
	m.ColOffset = max(m.ColOffset, 0)
}
