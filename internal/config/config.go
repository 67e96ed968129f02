// Package config loads the cellgrid configuration file: an embedded default
// document with the user's YAML merged over it field by field.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppName names the configuration directory under $XDG_CONFIG_HOME.
const AppName = "cellgrid"

//go:embed default_config.yaml
var defaultConfigYAML []byte

// Keymap names.
const (
	KeymapVim      = "vim"
	KeymapEmacs    = "emacs"
	KeymapFunction = "function"
)

// Config is the decoded configuration file.
type Config struct {
	Theme        string                 `yaml:"theme,omitempty" json:"theme,omitempty"`
	Keymap       string                 `yaml:"keymap,omitempty" json:"keymap,omitempty"`
	Mouse        *bool                  `yaml:"mouse,omitempty" json:"mouse,omitempty"`
	PreviewLimit *int                   `yaml:"preview_limit,omitempty" json:"preview_limit,omitempty"`
	Output       string                 `yaml:"output,omitempty" json:"output,omitempty"`
	Catalog      CatalogConfig          `yaml:"catalog,omitempty" json:"catalog,omitempty"`
	LogFile      string                 `yaml:"log_file,omitempty" json:"log_file,omitempty"`
	Themes       map[string]ThemeConfig `yaml:"themes,omitempty" json:"themes,omitempty"`
}

// CatalogConfig locates the table catalog.
type CatalogConfig struct {
	Root    string `yaml:"root,omitempty" json:"root,omitempty"`
	Project string `yaml:"project,omitempty" json:"project,omitempty"`
}

// ThemeConfig is a YAML-friendly theme (colors accept ints or strings).
type ThemeConfig struct {
	HeaderFG      ColorValue `yaml:"header_fg,omitempty" json:"header_fg,omitempty"`
	HeaderBG      ColorValue `yaml:"header_bg,omitempty" json:"header_bg,omitempty"`
	CellFG        ColorValue `yaml:"cell_fg,omitempty" json:"cell_fg,omitempty"`
	LinkFG        ColorValue `yaml:"link_fg,omitempty" json:"link_fg,omitempty"`
	ImageFG       ColorValue `yaml:"image_fg,omitempty" json:"image_fg,omitempty"`
	CursorFG      ColorValue `yaml:"cursor_fg,omitempty" json:"cursor_fg,omitempty"`
	CursorBG      ColorValue `yaml:"cursor_bg,omitempty" json:"cursor_bg,omitempty"`
	SelectedFG    ColorValue `yaml:"selected_fg,omitempty" json:"selected_fg,omitempty"`
	SelectedBG    ColorValue `yaml:"selected_bg,omitempty" json:"selected_bg,omitempty"`
	Separator     ColorValue `yaml:"separator,omitempty" json:"separator,omitempty"`
	InputFG       ColorValue `yaml:"input_fg,omitempty" json:"input_fg,omitempty"`
	InputBG       ColorValue `yaml:"input_bg,omitempty" json:"input_bg,omitempty"`
	Status        ColorValue `yaml:"status,omitempty" json:"status,omitempty"`
	StatusError   ColorValue `yaml:"status_error,omitempty" json:"status_error,omitempty"`
	StatusSuccess ColorValue `yaml:"status_success,omitempty" json:"status_success,omitempty"`
	FooterFG      ColorValue `yaml:"footer_fg,omitempty" json:"footer_fg,omitempty"`
	FooterBG      ColorValue `yaml:"footer_bg,omitempty" json:"footer_bg,omitempty"`
}

// ColorValue stores a color token (number or name) and marshals numerics as YAML ints.
type ColorValue string

func (c ColorValue) MarshalYAML() (interface{}, error) {
	if c == "" {
		return "", nil
	}
	s := string(c)
	if _, err := strconv.Atoi(s); err == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: s}, nil
	}
	return s, nil
}

func (c *ColorValue) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		*c = ""
		return nil
	}
	*c = ColorValue(value.Value)
	return nil
}

// Default returns the embedded default configuration.
func Default() (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfigYAML, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode default config: %w", err)
	}
	return cfg, nil
}

// DefaultYAML returns a copy of the embedded default config document.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultConfigYAML...)
}

// ResolvePath picks the config file: explicit when given, else
// $XDG_CONFIG_HOME/cellgrid/config.yaml or ~/.config/cellgrid/config.yaml when
// that file exists. It returns "" when there is none.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	candidate := ""
	if xdg != "" {
		candidate = filepath.Join(xdg, AppName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", AppName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// Load returns the defaults merged with the file at path. An empty path
// yields the defaults.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	var user Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&user); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	cfg = Merge(cfg, user)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Merge lays over's set fields on top of base. Themes merge per color; a
// theme only over defines starts from base's "dark" theme.
func Merge(base, over Config) Config {
	out := base
	if over.Theme != "" {
		out.Theme = over.Theme
	}
	if over.Keymap != "" {
		out.Keymap = over.Keymap
	}
	if over.Mouse != nil {
		out.Mouse = over.Mouse
	}
	if over.PreviewLimit != nil {
		out.PreviewLimit = over.PreviewLimit
	}
	if over.Output != "" {
		out.Output = over.Output
	}
	if over.Catalog.Root != "" {
		out.Catalog.Root = over.Catalog.Root
	}
	if over.Catalog.Project != "" {
		out.Catalog.Project = over.Catalog.Project
	}
	if over.LogFile != "" {
		out.LogFile = over.LogFile
	}
	if len(over.Themes) > 0 {
		themes := make(map[string]ThemeConfig, len(base.Themes)+len(over.Themes))
		for name, th := range base.Themes {
			themes[name] = th
		}
		for name, th := range over.Themes {
			start, ok := themes[name]
			if !ok {
				start = base.Themes["dark"]
			}
			themes[name] = MergeTheme(start, th)
		}
		out.Themes = themes
	}
	return out
}

// MergeTheme overlays the non-empty colors of over onto base.
func MergeTheme(base, over ThemeConfig) ThemeConfig {
	pick := func(b, o ColorValue) ColorValue {
		if o != "" {
			return o
		}
		return b
	}
	return ThemeConfig{
		HeaderFG:      pick(base.HeaderFG, over.HeaderFG),
		HeaderBG:      pick(base.HeaderBG, over.HeaderBG),
		CellFG:        pick(base.CellFG, over.CellFG),
		LinkFG:        pick(base.LinkFG, over.LinkFG),
		ImageFG:       pick(base.ImageFG, over.ImageFG),
		CursorFG:      pick(base.CursorFG, over.CursorFG),
		CursorBG:      pick(base.CursorBG, over.CursorBG),
		SelectedFG:    pick(base.SelectedFG, over.SelectedFG),
		SelectedBG:    pick(base.SelectedBG, over.SelectedBG),
		Separator:     pick(base.Separator, over.Separator),
		InputFG:       pick(base.InputFG, over.InputFG),
		InputBG:       pick(base.InputBG, over.InputBG),
		Status:        pick(base.Status, over.Status),
		StatusError:   pick(base.StatusError, over.StatusError),
		StatusSuccess: pick(base.StatusSuccess, over.StatusSuccess),
		FooterFG:      pick(base.FooterFG, over.FooterFG),
		FooterBG:      pick(base.FooterBG, over.FooterBG),
	}
}

// Validate checks names and ranges.
func (c Config) Validate() error {
	switch c.Keymap {
	case "", KeymapVim, KeymapEmacs, KeymapFunction:
	default:
		return fmt.Errorf("invalid keymap %q (expected vim, emacs or function)", c.Keymap)
	}
	if c.Theme != "" {
		if _, ok := c.Themes[c.Theme]; !ok {
			return fmt.Errorf("unknown theme %q (available: %s)", c.Theme, strings.Join(c.ThemeNames(), ", "))
		}
	}
	if c.PreviewLimit != nil && *c.PreviewLimit <= 0 {
		return fmt.Errorf("preview_limit must be positive, got %d", *c.PreviewLimit)
	}
	return nil
}

// ThemeNames returns the configured theme names, sorted.
func (c Config) ThemeNames() []string {
	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MouseEnabled reports whether pointer input is on (default true).
func (c Config) MouseEnabled() bool {
	return c.Mouse == nil || *c.Mouse
}

// PreviewRows returns the preview row cap (default 5).
func (c Config) PreviewRows() int {
	if c.PreviewLimit == nil || *c.PreviewLimit <= 0 {
		return 5
	}
	return *c.PreviewLimit
}

// ToYAML renders the config as a YAML document.
func (c Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// ToJSON renders the config as indented JSON.
func (c Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
