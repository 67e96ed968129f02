package tui

import (
	"context"
	"io"
	"os"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/cellgrid/internal/ui"
	"github.com/oakwood-commons/cellgrid/pkg/source"
)

// defaultFallbackTermWidth is used when terminal size cannot be detected.
const defaultFallbackTermWidth = 120

// DetectTerminalSize returns the best-effort terminal width and height by probing
// stdout, stderr, and stdin, then falling back to the COLUMNS environment variable.
// If detection fails completely, returns (120, 24).
func DetectTerminalSize() (width int, height int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := term.GetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 0
		}
	}
	return defaultFallbackTermWidth, 24
}

// Run starts the interactive grid viewer and blocks until the user quits.
// result may be nil when cfg.Load or cfg.InitialQuery produces the grid.
// Width/height of 0 will auto-detect the terminal size.
func Run(ctx context.Context, result *source.Result, cfg Config, opts ...tea.ProgramOption) error {
	return ui.Run(ctx, ui.RunConfig{
		Options:   cfg.options(result),
		StartKeys: cfg.StartKeys,
		WatchPath: cfg.WatchPath,
	}, opts...)
}

// RenderSnapshot renders a single frame of the viewer for result after
// applying cfg.StartKeys, without starting a program.
func RenderSnapshot(result *source.Result, cfg Config) string {
	return ui.RenderSnapshot(ui.SnapshotConfig{
		Options:   cfg.options(result),
		StartKeys: cfg.StartKeys,
	})
}

// WithIO returns tea.ProgramOptions to set custom input/output.
func WithIO(in io.Reader, out io.Writer) []tea.ProgramOption {
	opts := []tea.ProgramOption{}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return opts
}
