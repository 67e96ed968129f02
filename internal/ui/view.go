package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/oakwood-commons/cellgrid/internal/config"
	"github.com/oakwood-commons/cellgrid/internal/formatter"
	"github.com/oakwood-commons/cellgrid/pkg/cellkind"
	"github.com/oakwood-commons/cellgrid/pkg/grid"
)

// View renders the frame. Zone markers are resolved here so the footer
// toolbar stays clickable.
func (m *Model) View() tea.View {
	content := m.render()
	if m.zone != nil {
		content = m.zone.Scan(content)
	}
	v := tea.NewView(content)
	v.AltScreen = true
	if m.Mouse {
		v.MouseMode = tea.MouseModeAllMotion
	}
	return v
}

// render builds the frame text without mutating the model.
func (m *Model) render() string {
	if m.Quitting {
		return ""
	}
	lines := make([]string, 0, m.WinHeight)
	lines = append(lines, m.titleLine())
	if m.showQueryBar() {
		lines = append(lines, m.queryLine())
	}
	lines = append(lines, m.gridLines()...)
	lines = append(lines, m.statusLine())
	if !m.HideFooter {
		lines = append(lines, m.footerView())
	}

	out := strings.Join(lines, "\n")
	if m.WinWidth <= 0 {
		return out
	}
	split := strings.Split(out, "\n")
	for i, l := range split {
		split[i] = ansi.Truncate(l, m.WinWidth, "")
	}
	return strings.Join(split, "\n")
}

func (m *Model) titleLine() string {
	left := m.styles.title.Render(config.AppName)
	if m.Title != "" {
		left += " · " + m.Title
	}
	right := m.statsText()
	if right == "" || m.WinWidth <= 0 {
		return strings.TrimSpace(left + "  " + right)
	}
	gap := m.WinWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// statsText summarizes the loaded result.
func (m *Model) statsText() string {
	if !m.Loaded {
		return ""
	}
	parts := []string{plural(m.Info.RowCount, "row")}
	if m.Info.HasStats {
		parts = append(parts, fmt.Sprintf("%d ms", m.Info.ElapsedMs), humanBytes(m.Info.BytesProcessed)+" processed")
	}
	return strings.Join(parts, " · ")
}

func (m *Model) queryLine() string {
	if m.InputFocused {
		return m.QueryInput.View()
	}
	if m.LastQuery != "" {
		return m.styles.input.Render("› " + m.LastQuery)
	}
	hint := "query: " + m.Keys.Query.Help().Key
	return m.styles.gutter.Render("› press " + hint)
}

// gridLines renders the column header, the rule and the visible body rows,
// padded to the body height.
func (m *Model) gridLines() []string {
	height := m.bodyHeight()
	g := m.grid()
	if !m.Loaded || g.ColumnCount() == 0 {
		lines := []string{"", ""}
		msg := "no results"
		if m.Running {
			msg = "loading…"
		}
		lines = append(lines, m.styles.gutter.Render(msg))
		for len(lines) < height+headerRuleLines {
			lines = append(lines, "")
		}
		return lines
	}

	cols := m.visibleColumns()
	lines := make([]string, 0, height+headerRuleLines)
	lines = append(lines, m.headerRow(cols), m.ruleRow(cols))
	end := min(m.RowOffset+height, g.RowCount())
	for r := m.RowOffset; r < end; r++ {
		lines = append(lines, m.dataRow(r, cols))
	}
	if g.RowCount() == 0 {
		lines = append(lines, m.styles.gutter.Render("(no rows)"))
	}
	for len(lines) < height+headerRuleLines {
		lines = append(lines, "")
	}
	return lines
}

func (m *Model) headerRow(cols []int) string {
	g := m.grid()
	var b strings.Builder
	if m.layout.gutter > 0 {
		b.WriteString(m.styles.header.Render(formatter.PadLeft("#", m.layout.gutter-1) + " "))
	}
	pad := strings.Repeat(" ", cellPadding)
	for _, c := range cols {
		w := m.layout.widths[c]
		b.WriteString(m.styles.header.Render(pad + formatter.PadRight(g.Columns[c], w) + pad))
		b.WriteString(m.styles.separator.Render(columnSeparator))
	}
	return b.String()
}

func (m *Model) ruleRow(cols []int) string {
	w := m.layout.gutter
	for _, c := range cols {
		w += m.columnSpan(c)
	}
	return m.styles.separator.Render(strings.Repeat("─", w))
}

func (m *Model) dataRow(row int, cols []int) string {
	var b strings.Builder
	if m.layout.gutter > 0 {
		b.WriteString(m.styles.gutter.Render(formatter.PadLeft(strconv.Itoa(row+1), m.layout.gutter-1) + " "))
	}
	for _, c := range cols {
		b.WriteString(m.renderCell(grid.Coord{Row: row, Col: c}))
		b.WriteString(m.styles.separator.Render(columnSeparator))
	}
	return b.String()
}

// renderCell draws one cell at its column width. Cursor and selection
// highlight the whole cell; otherwise links and images get their own color.
func (m *Model) renderCell(c grid.Coord) string {
	e := m.Engine()
	g := e.Grid()
	v := g.Cell(c)
	w := m.layout.widths[c.Col]
	text := formatter.Truncate(formatter.DisplayText(v), w)
	fill := strings.Repeat(" ", max(w-formatter.Width(text), 0))
	pad := strings.Repeat(" ", cellPadding)
	right := c.Col < len(m.layout.hints) && m.layout.hints[c.Col].Align == "right"

	switch {
	case e.IsCursor(c):
		return m.styles.cursor.Render(pad + align(text, fill, right) + pad)
	case e.IsSelected(c):
		return m.styles.selected.Render(pad + align(text, fill, right) + pad)
	}

	var styled string
	switch cellkind.Classify(v) {
	case cellkind.Link:
		styled = m.styles.link.Styled(text)
	case cellkind.Image:
		styled = m.styles.image.Render(text)
	default:
		styled = m.styles.cell.Render(text)
	}
	return pad + align(styled, fill, right) + pad
}

func align(text, fill string, right bool) string {
	if right {
		return fill + text
	}
	return text + fill
}

func (m *Model) statusLine() string {
	switch {
	case m.Running:
		return m.Spinner.View() + " " + m.styles.status.Render("running "+m.runLabel())
	case m.Flash != "":
		return m.flashStyle().Render(m.Flash)
	case m.ErrMsg != "":
		return m.styles.errorMsg.Render(m.ErrMsg)
	case m.Tooltip != "":
		return m.styles.image.Render("▣ " + m.Tooltip)
	}
	return m.styles.status.Render(m.selectionSummary())
}

func (m *Model) runLabel() string {
	if m.LastQuery != "" {
		return m.LastQuery
	}
	return m.Title
}

func (m *Model) flashStyle() lipgloss.Style {
	switch m.FlashType {
	case StatusError:
		return m.styles.errorMsg
	case StatusSuccess:
		return m.styles.success
	default:
		return m.styles.status
	}
}

// selectionSummary describes the selection, or the grid size when nothing is
// selected.
func (m *Model) selectionSummary() string {
	e := m.Engine()
	if e == nil || !m.Loaded {
		return "no results"
	}
	g := e.Grid()
	r, ok := e.Selection()
	if !ok {
		return fmt.Sprintf("%s × %s", plural(g.RowCount(), "row"), plural(g.ColumnCount(), "column"))
	}
	if r.Cells() == 1 {
		return fmt.Sprintf("R%dC%d · %s", r.Focus.Row+1, r.Focus.Col+1, g.Columns[r.Focus.Col])
	}
	return fmt.Sprintf("%d×%d selected (%s)", r.Rows(), r.Cols(), cellCount(r.Cells()))
}

// footerView renders the toolbar and the key help.
func (m *Model) footerView() string {
	actions := m.toolbarActions()
	buttons := make([]string, 0, len(actions))
	for _, a := range actions {
		label := m.styles.footerKey.Render("[" + a.label + "]")
		if m.zone != nil {
			label = m.zone.Mark(toolbarZoneID(a.id), label)
		}
		buttons = append(buttons, label)
	}
	bar := strings.Join(buttons, " ")
	helpView := m.Help.View(m.Keys)
	if m.Help.ShowAll {
		return bar + "\n" + helpView
	}
	return bar + "  " + helpView
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
