// Package formatter renders a grid for non-interactive output: an aligned
// terminal table, CSV, TSV, JSON, YAML, Markdown or HTML.
package formatter

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/oakwood-commons/cellgrid/pkg/cellkind"
	"github.com/oakwood-commons/cellgrid/pkg/grid"
)

// Format names an output encoding.
type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatTSV      Format = "tsv"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists every supported output format.
var Formats = []Format{FormatTable, FormatCSV, FormatTSV, FormatJSON, FormatYAML, FormatMarkdown, FormatHTML}

// ParseFormat accepts a format name, case-insensitively. "md" and "yml" are
// aliases.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatTable:
		return FormatTable, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	case FormatCSV, FormatTSV, FormatJSON, FormatYAML, FormatMarkdown, FormatHTML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid output format %q (expected table, csv, tsv, json, yaml, markdown or html)", s)
	}
}

// Options configures Render.
type Options struct {
	Format Format
	Table  TableOptions
}

// Render encodes g in the requested format.
func Render(g grid.Grid, opts Options) (string, error) {
	switch opts.Format {
	case "", FormatTable:
		return RenderTable(g, opts.Table), nil
	case FormatCSV:
		return RenderCSV(g)
	case FormatTSV:
		return RenderTSV(g), nil
	case FormatJSON:
		return RenderJSON(g)
	case FormatYAML:
		return RenderYAML(g)
	case FormatMarkdown:
		return RenderMarkdown(g), nil
	case FormatHTML:
		return RenderHTML(g), nil
	default:
		return "", fmt.Errorf("invalid output format %q", opts.Format)
	}
}

var (
	defaultHeaderFG  = lipgloss.Color("12")
	defaultHeaderBG  = lipgloss.Color("236")
	defaultRowNumber = lipgloss.Color("14")
	defaultValue     = lipgloss.Color("248")
	defaultSeparator = lipgloss.Color("240")
	defaultLink      = lipgloss.Color("39")
	defaultImage     = lipgloss.Color("177")

	headerStyle    lipgloss.Style
	rowNumberStyle lipgloss.Style
	valueStyle     lipgloss.Style
	separatorStyle lipgloss.Style
	linkStyle      ansi.Style
	imageStyle     lipgloss.Style
)

// TableColors controls the rendered colors for the formatter table.
// Nil fields fall back to the defaults (ANSI 256 codes).
type TableColors struct {
	HeaderFG       color.Color
	HeaderBG       color.Color
	RowNumberColor color.Color
	ValueColor     color.Color
	SeparatorColor color.Color
	LinkColor      color.Color
	ImageColor     color.Color
}

func applyTableTheme(tc TableColors) {
	pick := func(c, fallback color.Color) color.Color {
		if c == nil {
			return fallback
		}
		return c
	}
	headerStyle = lipgloss.NewStyle().Bold(true).
		Foreground(pick(tc.HeaderFG, defaultHeaderFG)).
		Background(pick(tc.HeaderBG, defaultHeaderBG))
	rowNumberStyle = lipgloss.NewStyle().Foreground(pick(tc.RowNumberColor, defaultRowNumber))
	valueStyle = lipgloss.NewStyle().Foreground(pick(tc.ValueColor, defaultValue))
	separatorStyle = lipgloss.NewStyle().Foreground(pick(tc.SeparatorColor, defaultSeparator))
	linkStyle = LinkStyle(pick(tc.LinkColor, defaultLink))
	imageStyle = lipgloss.NewStyle().Foreground(pick(tc.ImageColor, defaultImage))
}

// LinkStyle underlines text in fg as a single SGR span, so a URL stays one
// contiguous run of text in the output. A nil fg keeps the terminal default.
func LinkStyle(fg color.Color) ansi.Style {
	s := ansi.Style{}.Underline(true)
	if fg != nil {
		s = s.ForegroundColor(fg)
	}
	return s
}

// SetTableTheme overrides the global table styles. Callers can pass zero-valued
// fields to fall back to formatter defaults.
func SetTableTheme(tc TableColors) {
	applyTableTheme(tc)
}

//nolint:gochecknoinits // initialize default table theme for package consumers
func init() {
	applyTableTheme(TableColors{})
}

// DisplayText prepares a cell value for a single terminal line: link and image
// cells use their short label, CRLF/CR/LF become a literal "\n" and tabs a
// literal "\t".
func DisplayText(s string) string {
	s = cellkind.Label(s, cellkind.Classify(s))
	if !strings.ContainsAny(s, "\r\n\t") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\n", `\n`)
	return strings.ReplaceAll(s, "\t", `\t`)
}

// Width returns the display width of plain (unstyled) text.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate cuts plain text to width cells, ending in an ellipsis when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return runewidth.Truncate(s, width, "…")
}

// PadRight truncates or pads plain text to exactly width cells.
func PadRight(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), width)
}

// PadLeft is PadRight with the text aligned right.
func PadLeft(s string, width int) string {
	return runewidth.FillLeft(Truncate(s, width), width)
}

// getTerminalWidth returns the terminal width, or a default if detection fails
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 120
	}
	return width
}
