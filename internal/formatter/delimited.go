package formatter

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/oakwood-commons/cellgrid/pkg/grid"
)

// RenderCSV writes the header and rows as RFC 4180 CSV.
func RenderCSV(g grid.Grid) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(g.Columns); err != nil {
		return "", err
	}
	if err := w.WriteAll(g.Rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderTSV writes the header and rows the way a copied selection is
// serialized: cells joined by tabs, rows by newlines, values verbatim.
func RenderTSV(g grid.Grid) string {
	if g.ColumnCount() == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.Join(g.Columns, "\t"))
	b.WriteString("\n")
	if r, ok := g.Last(); ok {
		b.WriteString(grid.RangeText(g, grid.Range{Focus: r}))
		b.WriteString("\n")
	}
	return b.String()
}
