package tui

import (
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/cellgrid/internal/config"
	"github.com/oakwood-commons/cellgrid/internal/ui"
	"github.com/oakwood-commons/cellgrid/pkg/source"
)

// Config holds host-provided settings for running the grid viewer.
type Config struct {
	Title      string
	Width      int
	Height     int
	NoColor    bool
	HideFooter bool // Hide the footer bar (for non-interactive display)
	Mouse      bool
	RowNumbers bool
	KeyMode    string // Keybinding mode: "vim" (default), "emacs", or "function"
	ThemeName  string // Named theme from Settings.Themes (dark, light, mono)
	Theme      *ui.Theme
	StartKeys  []string

	// Settings supplies the theme table that ThemeName resolves against.
	// DefaultConfig seeds it from the embedded defaults.
	Settings config.Config

	Load         ui.LoadFunc
	Executor     source.QueryExecutor
	Previewer    source.PreviewProvider
	ProjectID    string
	InitialQuery string
	// WatchPath reloads via Load when the file changes.
	WatchPath string
	Logger    logr.Logger
}

// DefaultConfig returns a baseline config with the same defaults as the CLI.
func DefaultConfig() Config {
	settings, err := config.Default()
	if err != nil {
		return Config{Mouse: true, KeyMode: string(ui.DefaultKeyMode), Logger: logr.Discard()}
	}
	return FromSettings(settings)
}

// FromSettings maps a loaded configuration file onto a Config.
func FromSettings(settings config.Config) Config {
	return Config{
		Mouse:     settings.MouseEnabled(),
		KeyMode:   settings.Keymap,
		ThemeName: settings.Theme,
		Settings:  settings,
		Logger:    logr.Discard(),
	}
}

// ResolveTheme returns Theme when set, else the theme named by ThemeName.
// An unknown or empty name falls back to "dark" so the viewer can always
// start.
func (c Config) ResolveTheme() ui.Theme {
	if c.Theme != nil {
		return *c.Theme
	}
	if c.ThemeName != "" {
		if th, err := ui.ThemeByName(c.Settings, c.ThemeName); err == nil {
			return th
		}
	}
	if th, err := ui.ThemeByName(c.Settings, "dark"); err == nil {
		return th
	}
	return ui.ThemeFromConfig(config.ThemeConfig{})
}

func (c Config) keyMode() ui.KeyMode {
	if ui.IsValidKeyMode(c.KeyMode) {
		return ui.KeyMode(c.KeyMode)
	}
	return ui.DefaultKeyMode
}

func (c Config) options(result *source.Result) ui.Options {
	theme := c.ResolveTheme()
	return ui.Options{
		Title:        c.Title,
		Result:       result,
		Load:         c.Load,
		Executor:     c.Executor,
		Previewer:    c.Previewer,
		ProjectID:    c.ProjectID,
		InitialQuery: c.InitialQuery,
		KeyMode:      c.keyMode(),
		Theme:        &theme,
		NoColor:      c.NoColor,
		Mouse:        c.Mouse,
		RowNumbers:   c.RowNumbers,
		HideFooter:   c.HideFooter,
		Width:        c.Width,
		Height:       c.Height,
		Logger:       c.Logger,
	}
}
