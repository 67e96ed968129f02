package ui

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/cellgrid/internal/watch"
)

// RunConfig configures an interactive session.
type RunConfig struct {
	Options
	// StartKeys are applied before the program starts.
	StartKeys []string
	// WatchPath reloads the grid whenever the file changes. Requires Load.
	WatchPath string
}

// Run starts the Bubble Tea program and blocks until the user quits.
// Width/height of 0 will auto-detect the terminal size.
// Extra ProgramOptions (e.g., custom IO) can be provided to mirror tea.NewProgram.
func Run(ctx context.Context, cfg RunConfig, opts ...tea.ProgramOption) error {
	if cfg.Width > 0 || cfg.Height > 0 {
		runW, runH := cfg.Width, cfg.Height
		if runW <= 0 || runH <= 0 {
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				if runW <= 0 {
					runW = w
				}
				if runH <= 0 {
					runH = h
				}
			}
		}
		if runW <= 0 {
			runW = 80
		}
		if runH <= 0 {
			runH = 24
		}
		cfg.Width, cfg.Height = runW, runH
		opts = append(opts, tea.WithWindowSize(runW, runH))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewModel(cfg.Options)
	m.SetContext(ctx)
	m.EnableZones()
	defer m.Close()
	ApplyStartupKeys(m, cfg.StartKeys)

	prog := tea.NewProgram(m, append(opts, tea.WithContext(ctx))...)

	if cfg.WatchPath != "" && cfg.Load != nil {
		fw, err := watch.NewFileWatcher(func(string) { prog.Send(ReloadMsg{}) })
		if err != nil {
			return fmt.Errorf("watch %s: %w", cfg.WatchPath, err)
		}
		defer fw.Close()
		fw.OnError(func(err error) {
			m.Log.Error(err, "file watcher")
		})
		if err := fw.Watch(cfg.WatchPath); err != nil {
			return fmt.Errorf("watch %s: %w", cfg.WatchPath, err)
		}
		go func() { _ = fw.Run(ctx) }()
	}

	_, err := prog.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
