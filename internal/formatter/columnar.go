package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/oakwood-commons/cellgrid/pkg/cellkind"
	"github.com/oakwood-commons/cellgrid/pkg/grid"
)

// ColumnHint provides display hints for one column of the table.
type ColumnHint struct {
	// MaxWidth caps the column width (in cells). 0 = no cap.
	MaxWidth int

	// Priority controls column importance when shrinking.
	// Higher values resist shrinking; lower values shrink first.
	Priority int

	// Align controls text alignment: "right" or "left" (default).
	Align string
}

// TableOptions configures RenderTable.
type TableOptions struct {
	// NoColor disables color output
	NoColor bool

	// TotalWidth is the total available width. If 0, uses terminal width.
	TotalWidth int

	// RowNumbers adds a leading "#" column counting from 1.
	RowNumbers bool

	// Hints holds per-column hints by column index. Missing entries use
	// InferHints.
	Hints []ColumnHint
}

const (
	sepWidth    = 2
	minColWidth = 3
	maxColWidth = 40
)

// InferHints right-aligns columns whose non-NULL cells are all numbers.
func InferHints(g grid.Grid) []ColumnHint {
	hints := make([]ColumnHint, g.ColumnCount())
	for c := range hints {
		numeric, seen := true, false
		for _, row := range g.Rows {
			v := row[c]
			if v == "" || v == "NULL" {
				continue
			}
			seen = true
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				numeric = false
				break
			}
		}
		if numeric && seen {
			hints[c].Align = "right"
		}
	}
	return hints
}

// RenderTable renders g as an aligned table with a header row and a rule
// under it. Link cells are underlined and image cells show their label.
func RenderTable(g grid.Grid, opts TableOptions) string {
	if g.ColumnCount() == 0 {
		return ""
	}
	hints := opts.Hints
	if len(hints) != g.ColumnCount() {
		hints = InferHints(g)
	}

	totalWidth := opts.TotalWidth
	if totalWidth <= 0 {
		totalWidth = getTerminalWidth()
	}

	rowNumWidth := 0
	if opts.RowNumbers {
		rowNumWidth = len(strconv.Itoa(g.RowCount())) + 1
	}

	texts := make([][]string, g.RowCount())
	for r, row := range g.Rows {
		texts[r] = make([]string, len(row))
		for c, v := range row {
			texts[r][c] = DisplayText(v)
		}
	}

	availableWidth := totalWidth
	if opts.RowNumbers {
		availableWidth -= rowNumWidth + sepWidth
	}
	widths := ColumnWidths(g.Columns, texts, availableWidth, hints)

	var b strings.Builder
	b.WriteString(renderHeader(g.Columns, widths, rowNumWidth, opts.NoColor) + "\n")

	ruleWidth := 0
	if opts.RowNumbers {
		ruleWidth = rowNumWidth + sepWidth
	}
	for i, w := range widths {
		ruleWidth += w
		if i < len(widths)-1 {
			ruleWidth += sepWidth
		}
	}
	rule := strings.Repeat("─", ruleWidth)
	if !opts.NoColor {
		rule = separatorStyle.Render(rule)
	}
	b.WriteString(rule + "\n")

	for r, row := range g.Rows {
		b.WriteString(renderDataRow(r, row, texts[r], widths, rowNumWidth, opts.NoColor, hints) + "\n")
	}
	return b.String()
}

// ColumnWidths sizes each column to its widest header or cell, capped by
// hints, then shrinks to fit availableWidth including separators. Columns
// never drop below three cells.
func ColumnWidths(columns []string, rows [][]string, availableWidth int, hints []ColumnHint) []int {
	numCols := len(columns)
	if numCols == 0 {
		return nil
	}

	widths := make([]int, numCols)
	for i, col := range columns {
		widths[i] = max(Width(col), minColWidth)
	}
	for _, row := range rows {
		for i, val := range row {
			if i < numCols {
				widths[i] = max(widths[i], Width(val))
			}
		}
	}
	for i := range widths {
		if i < len(hints) && hints[i].MaxWidth > 0 && widths[i] > hints[i].MaxWidth {
			widths[i] = max(hints[i].MaxWidth, minColWidth)
		}
	}

	usableWidth := availableWidth - (numCols-1)*sepWidth
	if usableWidth <= 0 || sum(widths) <= usableWidth {
		return widths
	}

	if hasPriorities(hints) {
		return shrinkByPriority(widths, usableWidth, hints)
	}

	for i := range widths {
		widths[i] = min(widths[i], maxColWidth)
	}
	if total := sum(widths); total > usableWidth {
		for i := range widths {
			widths[i] = max(widths[i]*usableWidth/total, minColWidth)
		}
		for sum(widths) > usableWidth {
			widest := 0
			for i := 1; i < numCols; i++ {
				if widths[i] > widths[widest] {
					widest = i
				}
			}
			if widths[widest] <= minColWidth {
				break
			}
			widths[widest]--
		}
	}
	return widths
}

func sum(ws []int) int {
	total := 0
	for _, w := range ws {
		total += w
	}
	return total
}

func hasPriorities(hints []ColumnHint) bool {
	for _, h := range hints {
		if h.Priority != 0 {
			return true
		}
	}
	return false
}

// shrinkByPriority reduces column widths to fit within usableWidth by shrinking
// lowest-priority columns first.
func shrinkByPriority(widths []int, usableWidth int, hints []ColumnHint) []int {
	excess := sum(widths) - usableWidth
	if excess <= 0 {
		return widths
	}

	order := make([]int, len(widths))
	for i := range order {
		order[i] = i
	}
	priority := func(i int) int {
		if i < len(hints) {
			return hints[i].Priority
		}
		return 0
	}
	sort.SliceStable(order, func(a, b int) bool {
		return priority(order[a]) < priority(order[b])
	})

	for _, idx := range order {
		if excess <= 0 {
			break
		}
		shrink := min(widths[idx]-minColWidth, excess)
		if shrink <= 0 {
			continue
		}
		widths[idx] -= shrink
		excess -= shrink
	}
	return widths
}

func renderHeader(columns []string, widths []int, rowNumWidth int, noColor bool) string {
	sep := strings.Repeat(" ", sepWidth)
	parts := make([]string, 0, len(columns)+1)

	if rowNumWidth > 0 {
		header := PadRight("#", rowNumWidth)
		if !noColor {
			header = headerStyle.Render(header)
		}
		parts = append(parts, header)
	}
	for i, col := range columns {
		header := PadRight(DisplayText(col), widths[i])
		if !noColor {
			header = headerStyle.Render(header)
		}
		parts = append(parts, header)
	}
	return strings.Join(parts, sep)
}

func renderDataRow(rowIndex int, values, texts []string, widths []int, rowNumWidth int, noColor bool, hints []ColumnHint) string {
	sep := strings.Repeat(" ", sepWidth)
	parts := make([]string, 0, len(values)+1)

	if rowNumWidth > 0 {
		num := PadRight(fmt.Sprintf("%d", rowIndex+1), rowNumWidth)
		if !noColor {
			num = rowNumberStyle.Render(num)
		}
		parts = append(parts, num)
	}

	for i, text := range texts {
		if i >= len(widths) {
			break
		}
		w := widths[i]
		var cell string
		if i < len(hints) && hints[i].Align == "right" {
			cell = PadLeft(text, w)
		} else {
			cell = PadRight(text, w)
		}
		if !noColor {
			switch cellkind.Classify(values[i]) {
			case cellkind.Link:
				cell = linkStyle.Styled(cell)
			case cellkind.Image:
				cell = imageStyle.Render(cell)
			default:
				cell = valueStyle.Render(cell)
			}
		}
		parts = append(parts, cell)
	}
	return strings.Join(parts, sep)
}
