package formatter

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/oakwood-commons/cellgrid/pkg/cellkind"
	"github.com/oakwood-commons/cellgrid/pkg/grid"
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", "&lt;",
	">", "&gt;",
	"\r\n", "<br>",
	"\n", "<br>",
	"\r", "<br>",
)

// markdownCell renders one value for a pipe table. Links become link
// syntax and images become inline images titled with their URL.
func markdownCell(v string) string {
	switch cellkind.Classify(v) {
	case cellkind.Image:
		alt := strings.TrimPrefix(cellkind.Label(v, cellkind.Image), "▣ ")
		return fmt.Sprintf("![%s](%s %q)", markdownEscaper.Replace(alt), v, v)
	case cellkind.Link:
		return fmt.Sprintf("[%s](%s)", markdownEscaper.Replace(v), v)
	default:
		return markdownEscaper.Replace(v)
	}
}

// RenderMarkdown writes g as a GitHub-flavoured pipe table.
func RenderMarkdown(g grid.Grid) string {
	if g.ColumnCount() == 0 {
		return ""
	}
	var b strings.Builder
	cells := make([]string, g.ColumnCount())
	for i, c := range g.Columns {
		cells[i] = markdownEscaper.Replace(c)
	}
	b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	for i := range cells {
		cells[i] = "---"
	}
	b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	for _, row := range g.Rows {
		for i, v := range row {
			cells[i] = markdownCell(v)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}

// RenderHTML converts the Markdown table to an HTML fragment. Links open in
// a new browser tab.
func RenderHTML(g grid.Grid) string {
	md := RenderMarkdown(g)
	if md == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return string(markdown.Render(doc, renderer))
}
