package formatter

import (
	"image/color"
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/cellgrid/pkg/grid"
)

func TestRenderTable(t *testing.T) {
	t.Run("basic render", func(t *testing.T) {
		g := grid.MustNew([]string{"name", "age"}, [][]string{{"Alice", "30"}, {"Bob", "5"}})

		result := RenderTable(g, TableOptions{NoColor: true, TotalWidth: 80, RowNumbers: true})

		lines := strings.Split(strings.TrimRight(result, "\n"), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "#   name   age", lines[0])
		assert.Equal(t, strings.Repeat("─", 14), lines[1])
		assert.Equal(t, "1   Alice   30", lines[2])
		assert.Equal(t, "2   Bob      5", lines[3])
	})

	t.Run("no row numbers", func(t *testing.T) {
		g := grid.MustNew([]string{"name"}, [][]string{{"Alice"}})
		result := RenderTable(g, TableOptions{NoColor: true, TotalWidth: 80})
		assert.NotContains(t, result, "#")
		assert.Contains(t, result, "Alice")
	})

	t.Run("image label and escaped newline", func(t *testing.T) {
		g := grid.MustNew([]string{"pic", "note"}, [][]string{{"https://x.io/a/cat.gif?s=1", "a\nb"}})
		result := RenderTable(g, TableOptions{NoColor: true, TotalWidth: 80})
		assert.Contains(t, result, "▣ cat.gif")
		assert.Contains(t, result, `a\nb`)
	})

	t.Run("shrinks to width", func(t *testing.T) {
		long := strings.Repeat("x", 60)
		g := grid.MustNew([]string{"a", "b"}, [][]string{{long, long}})
		result := RenderTable(g, TableOptions{NoColor: true, TotalWidth: 30})
		for _, line := range strings.Split(strings.TrimRight(result, "\n"), "\n") {
			assert.LessOrEqual(t, Width(line), 30, line)
		}
		assert.Contains(t, result, "…")
	})

	t.Run("colored output keeps text", func(t *testing.T) {
		g := grid.MustNew([]string{"site"}, [][]string{{"https://example.com/page"}})
		result := RenderTable(g, TableOptions{TotalWidth: 80})
		assert.Contains(t, ansi.Strip(result), "https://example.com/page")
		assert.Contains(t, result, "https://example.com/page")
		assert.Contains(t, result, "\x1b[")
	})

	t.Run("link cell is one styled span", func(t *testing.T) {
		g := grid.MustNew([]string{"site"}, [][]string{{"https://example.com/page"}})
		lines := strings.Split(strings.TrimRight(RenderTable(g, TableOptions{TotalWidth: 80}), "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, 1, strings.Count(lines[2], ansi.ResetStyle))
	})

	t.Run("no columns", func(t *testing.T) {
		assert.Equal(t, "", RenderTable(grid.Grid{}, TableOptions{TotalWidth: 80}))
	})
}

func TestInferHints(t *testing.T) {
	g := grid.MustNew(
		[]string{"n", "s", "mixed", "nulls"},
		[][]string{{"1.5", "a", "1", "NULL"}, {"-2", "b", "x", ""}},
	)
	hints := InferHints(g)
	require.Len(t, hints, 4)
	assert.Equal(t, "right", hints[0].Align)
	assert.Equal(t, "", hints[1].Align)
	assert.Equal(t, "", hints[2].Align)
	assert.Equal(t, "", hints[3].Align)
}

func TestColumnWidths(t *testing.T) {
	t.Run("natural widths fit", func(t *testing.T) {
		w := ColumnWidths([]string{"id", "name"}, [][]string{{"1", "Alexander"}}, 80, nil)
		assert.Equal(t, []int{3, 9}, w)
	})

	t.Run("max width hint", func(t *testing.T) {
		w := ColumnWidths([]string{"id", "name"}, [][]string{{"1", "Alexander"}}, 80, []ColumnHint{{}, {MaxWidth: 5}})
		assert.Equal(t, []int{3, 5}, w)
	})

	t.Run("priority shrinking keeps important column", func(t *testing.T) {
		cols := []string{"keep", "drop"}
		rows := [][]string{{strings.Repeat("k", 20), strings.Repeat("d", 20)}}
		w := ColumnWidths(cols, rows, 32, []ColumnHint{{Priority: 10}, {Priority: 1}})
		assert.Equal(t, []int{20, 10}, w)
	})

	t.Run("proportional shrinking respects minimum", func(t *testing.T) {
		cols := []string{"a", "b", "c"}
		rows := [][]string{{strings.Repeat("x", 50), "y", strings.Repeat("z", 50)}}
		w := ColumnWidths(cols, rows, 20, nil)
		for _, v := range w {
			assert.GreaterOrEqual(t, v, 3)
		}
		assert.LessOrEqual(t, w[0]+w[1]+w[2], 16)
	})
}

func TestLinkStyle(t *testing.T) {
	tests := []struct {
		name string
		fg   color.Color
		want string
	}{
		{name: "indexed color", fg: lipgloss.Color("39"), want: "\x1b[4;38;5;39mhttps://a.io\x1b[m"},
		{name: "terminal default", fg: nil, want: "\x1b[4mhttps://a.io\x1b[m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LinkStyle(tt.fg).Styled("https://a.io"))
		})
	}
}
