package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// SnapshotConfig configures a one-frame render.
type SnapshotConfig struct {
	Options
	StartKeys []string
}

// RenderSnapshot renders a single frame after applying StartKeys. Width and
// height default to 80x24. With NoColor the frame is plain text.
func RenderSnapshot(cfg SnapshotConfig) string {
	opts := cfg.Options
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.Height <= 0 {
		opts.Height = 24
	}
	// Loads and queries run through commands, which a snapshot never
	// executes; the caller supplies the result up front.
	opts.Load = nil
	opts.InitialQuery = ""

	m := NewModel(opts)
	defer m.Close()
	ApplyStartupKeys(m, cfg.StartKeys)

	out := m.render()
	if opts.NoColor {
		out = ansi.Strip(out)
	}
	return padSnapshotHeight(out, opts.Height)
}

// padSnapshotHeight trims trailing spaces and pads or cuts the frame to
// height lines.
func padSnapshotHeight(s string, height int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n") + "\n"
}
