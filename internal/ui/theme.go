package ui

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/oakwood-commons/cellgrid/internal/config"
	"github.com/oakwood-commons/cellgrid/internal/formatter"
)

// Theme holds the resolved colors of the grid surface.
type Theme struct {
	HeaderFG      color.Color
	HeaderBG      color.Color
	CellFG        color.Color
	LinkFG        color.Color
	ImageFG       color.Color
	CursorFG      color.Color
	CursorBG      color.Color
	SelectedFG    color.Color
	SelectedBG    color.Color
	Separator     color.Color
	InputFG       color.Color
	InputBG       color.Color
	Status        color.Color
	StatusError   color.Color
	StatusSuccess color.Color
	FooterFG      color.Color
	FooterBG      color.Color
}

// fallbackTheme is used for any color a ThemeConfig leaves empty.
func fallbackTheme() Theme {
	return Theme{
		HeaderFG:      lipgloss.Color("81"),
		HeaderBG:      lipgloss.Color("236"),
		CellFG:        lipgloss.Color("246"),
		LinkFG:        lipgloss.Color("39"),
		ImageFG:       lipgloss.Color("177"),
		CursorFG:      lipgloss.Color("231"),
		CursorBG:      lipgloss.Color("31"),
		SelectedFG:    lipgloss.Color("250"),
		SelectedBG:    lipgloss.Color("24"),
		Separator:     lipgloss.Color("238"),
		InputFG:       lipgloss.Color("246"),
		InputBG:       lipgloss.Color("236"),
		Status:        lipgloss.Color("81"),
		StatusError:   lipgloss.Color("203"),
		StatusSuccess: lipgloss.Color("114"),
		FooterFG:      lipgloss.Color("244"),
		FooterBG:      lipgloss.Color("236"),
	}
}

// ThemeFromConfig builds a Theme from a ThemeConfig, falling back to defaults when fields are empty.
func ThemeFromConfig(cfg config.ThemeConfig) Theme {
	th := fallbackTheme()
	set := func(val config.ColorValue, dst *color.Color) {
		if val != "" {
			*dst = lipgloss.Color(string(val))
		}
	}
	set(cfg.HeaderFG, &th.HeaderFG)
	set(cfg.HeaderBG, &th.HeaderBG)
	set(cfg.CellFG, &th.CellFG)
	set(cfg.LinkFG, &th.LinkFG)
	set(cfg.ImageFG, &th.ImageFG)
	set(cfg.CursorFG, &th.CursorFG)
	set(cfg.CursorBG, &th.CursorBG)
	set(cfg.SelectedFG, &th.SelectedFG)
	set(cfg.SelectedBG, &th.SelectedBG)
	set(cfg.Separator, &th.Separator)
	set(cfg.InputFG, &th.InputFG)
	set(cfg.InputBG, &th.InputBG)
	set(cfg.Status, &th.Status)
	set(cfg.StatusError, &th.StatusError)
	set(cfg.StatusSuccess, &th.StatusSuccess)
	set(cfg.FooterFG, &th.FooterFG)
	set(cfg.FooterBG, &th.FooterBG)
	return th
}

// ThemeByName resolves a named theme from the merged configuration.
func ThemeByName(cfg config.Config, name string) (Theme, error) {
	tc, ok := cfg.Themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q", name)
	}
	return ThemeFromConfig(tc), nil
}

// TableColors maps the theme onto the non-interactive table renderer so
// printed output matches the TUI.
func (t Theme) TableColors() formatter.TableColors {
	return formatter.TableColors{
		HeaderFG:       t.HeaderFG,
		HeaderBG:       t.HeaderBG,
		RowNumberColor: t.Separator,
		ValueColor:     t.CellFG,
		SeparatorColor: t.Separator,
		LinkColor:      t.LinkFG,
		ImageColor:     t.ImageFG,
	}
}

// styles are the lipgloss styles derived from a Theme.
type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	cell      lipgloss.Style
	link      ansi.Style
	image     lipgloss.Style
	cursor    lipgloss.Style
	selected  lipgloss.Style
	separator lipgloss.Style
	gutter    lipgloss.Style
	input     lipgloss.Style
	status    lipgloss.Style
	errorMsg  lipgloss.Style
	success   lipgloss.Style
	footer    lipgloss.Style
	footerKey lipgloss.Style
}

func newStyles(t Theme, noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{
			title:     plain.Bold(true),
			header:    plain.Bold(true),
			cell:      plain,
			link:      formatter.LinkStyle(nil),
			image:     plain,
			cursor:    plain.Reverse(true).Bold(true),
			selected:  plain.Reverse(true),
			separator: plain,
			gutter:    plain,
			input:     plain,
			status:    plain,
			errorMsg:  plain.Bold(true),
			success:   plain,
			footer:    plain,
			footerKey: plain.Bold(true),
		}
	}
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(t.HeaderFG),
		header:    lipgloss.NewStyle().Bold(true).Foreground(t.HeaderFG).Background(t.HeaderBG),
		cell:      lipgloss.NewStyle().Foreground(t.CellFG),
		link:      formatter.LinkStyle(t.LinkFG),
		image:     lipgloss.NewStyle().Foreground(t.ImageFG),
		cursor:    lipgloss.NewStyle().Bold(true).Foreground(t.CursorFG).Background(t.CursorBG),
		selected:  lipgloss.NewStyle().Foreground(t.SelectedFG).Background(t.SelectedBG),
		separator: lipgloss.NewStyle().Foreground(t.Separator),
		gutter:    lipgloss.NewStyle().Foreground(t.Separator),
		input:     lipgloss.NewStyle().Foreground(t.InputFG).Background(t.InputBG),
		status:    lipgloss.NewStyle().Foreground(t.Status),
		errorMsg:  lipgloss.NewStyle().Bold(true).Foreground(t.StatusError),
		success:   lipgloss.NewStyle().Foreground(t.StatusSuccess),
		footer:    lipgloss.NewStyle().Foreground(t.FooterFG).Background(t.FooterBG),
		footerKey: lipgloss.NewStyle().Bold(true).Foreground(t.HeaderFG).Background(t.FooterBG),
	}
}
