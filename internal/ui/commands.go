package ui

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/cellgrid/pkg/source"
)

// flashDuration is how long a transient status message stays up.
const flashDuration = 2500 * time.Millisecond

// previewPrefix in the query bar routes the rest of the line to the preview
// provider instead of the query executor.
const previewPrefix = "preview "

// LoadFunc produces the grid shown at startup and on reload.
type LoadFunc func(ctx context.Context) (*source.Result, error)

// queryResultMsg carries a finished query or preview back to the update loop.
type queryResultMsg struct {
	seq    int
	label  string
	result *source.Result
	err    error
}

// clipboardResultMsg reports the outcome of a copy.
type clipboardResultMsg struct {
	cells int
	text  string
	err   error
}

// openURLResultMsg reports the outcome of a browser launch.
type openURLResultMsg struct {
	url string
	err error
}

// ReloadMsg asks the model to reload its grid from the LoadFunc. The file
// watcher sends it from outside the update loop.
type ReloadMsg struct{}

// flashTimeoutMsg clears the flash it was scheduled for.
type flashTimeoutMsg struct{ id int }

// runQueryCmd executes text off the update loop. Text prefixed with
// "preview " goes to the preview provider.
func (m *Model) runQueryCmd(ctx context.Context, seq int, text string) tea.Cmd {
	exec := m.Executor
	preview := m.Previewer
	project := m.ProjectID
	return func() tea.Msg {
		if id, ok := strings.CutPrefix(text, previewPrefix); ok && preview != nil {
			id = strings.TrimSpace(id)
			res, err := preview.Preview(ctx, id)
			return queryResultMsg{seq: seq, label: id, result: res, err: err}
		}
		res, err := exec.Execute(ctx, text, project)
		return queryResultMsg{seq: seq, label: text, result: res, err: err}
	}
}

// loadCmd runs the model's LoadFunc off the update loop.
func (m *Model) loadCmd(ctx context.Context, seq int, label string) tea.Cmd {
	load := m.Load
	return func() tea.Msg {
		res, err := load(ctx)
		return queryResultMsg{seq: seq, label: label, result: res, err: err}
	}
}

func copyCmd(text string, cells int) tea.Cmd {
	return func() tea.Msg {
		return clipboardResultMsg{cells: cells, text: text, err: CopyToClipboard(text)}
	}
}

func openURLCmd(url string) tea.Cmd {
	return func() tea.Msg {
		return openURLResultMsg{url: url, err: OpenURL(url)}
	}
}

func flashTimeoutCmd(id int) tea.Cmd {
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashTimeoutMsg{id: id}
	})
}
