package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	zone "github.com/lrstanley/bubblezone"

	"github.com/oakwood-commons/cellgrid/pkg/cellkind"
	"github.com/oakwood-commons/cellgrid/pkg/grid"
	"github.com/oakwood-commons/cellgrid/pkg/source"
)

// Status types for the status line.
const (
	StatusError   = "error"
	StatusSuccess = "success"
)

// Options configures a Model.
type Options struct {
	// Title names what the grid shows (file, table id or query).
	Title string
	// Result is shown immediately when set.
	Result *source.Result
	// Load produces the grid at startup when Result is nil, and on reload.
	Load LoadFunc
	// Executor runs queries typed into the query bar. Nil hides the bar.
	Executor source.QueryExecutor
	// Previewer serves "preview <table-id>" typed into the query bar.
	Previewer source.PreviewProvider
	ProjectID string
	// InitialQuery runs at startup.
	InitialQuery string
	KeyMode      KeyMode
	Theme        *Theme
	NoColor      bool
	Mouse        bool
	RowNumbers   bool
	HideFooter   bool
	Width        int
	Height       int
	Logger       logr.Logger
}

// resultInfo is the metadata of the loaded result shown in the title bar.
type resultInfo struct {
	RowCount       int
	ElapsedMs      int64
	BytesProcessed int64
	HasStats       bool
}

// Model is the Bubble Tea model of the result grid. The selection engine
// is only touched from Update, so it needs no locking.
type Model struct {
	Hub     *grid.PointerHub
	Session *grid.Session

	Title     string
	Info      resultInfo
	Load      LoadFunc
	Executor  source.QueryExecutor
	Previewer source.PreviewProvider
	ProjectID string

	QueryInput   textinput.Model
	InputFocused bool
	LastQuery    string
	Running      bool
	Spinner      spinner.Model
	Help         help.Model
	Keys         KeyMap
	KeyMode      KeyMode

	Theme      Theme
	NoColor    bool
	Mouse      bool
	RowNumbers bool
	HideFooter bool

	WinWidth  int
	WinHeight int
	RowOffset int
	ColOffset int

	ErrMsg     string
	StatusType string // "error", "success", or ""
	Flash      string
	FlashType  string
	Tooltip    string
	Loaded     bool
	Quitting   bool

	Log logr.Logger

	layout  gridLayout
	styles  styles
	zone    *zone.Manager
	baseCtx context.Context
	cancel  context.CancelFunc
	seq     int
	flashID int
	initCmd tea.Cmd
}

// NewModel builds a model and opens its grid session on a fresh pointer hub.
func NewModel(opts Options) *Model {
	theme := fallbackTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	mode := opts.KeyMode
	if !IsValidKeyMode(string(mode)) {
		mode = DefaultKeyMode
	}

	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "table(\"dataset.table\").filter(r, r.total > 10)"
	ti.CharLimit = 2000

	s := spinner.New()
	s.Spinner = spinner.Dot

	hub := grid.NewPointerHub()
	m := &Model{
		Hub:        hub,
		Session:    grid.NewSession(hub, grid.Grid{}),
		Title:      opts.Title,
		Load:       opts.Load,
		Executor:   opts.Executor,
		Previewer:  opts.Previewer,
		ProjectID:  opts.ProjectID,
		QueryInput: ti,
		Spinner:    s,
		Help:       help.New(),
		Keys:       KeyMapFor(mode),
		KeyMode:    mode,
		Theme:      theme,
		NoColor:    opts.NoColor,
		Mouse:      opts.Mouse,
		RowNumbers: opts.RowNumbers,
		HideFooter: opts.HideFooter,
		WinWidth:   opts.Width,
		WinHeight:  opts.Height,
		Log:        opts.Logger,
		baseCtx:    context.Background(),
	}
	if m.Log.GetSink() == nil {
		m.Log = logr.Discard()
	}
	m.styles = newStyles(m.Theme, m.NoColor)

	if opts.Result != nil {
		if err := m.setResult(opts.Title, opts.Result); err != nil {
			m.setError(err)
		}
	}
	switch {
	case strings.TrimSpace(opts.InitialQuery) != "":
		m.QueryInput.SetValue(opts.InitialQuery)
		m.initCmd = m.submitQuery(opts.InitialQuery)
	case opts.Result == nil && m.Load != nil:
		m.initCmd = m.startRun(m.Title, m.loadCmd)
	}
	m.applyLayout()
	return m
}

// EnableZones turns on click zones for the footer toolbar. Only interactive
// programs need them.
func (m *Model) EnableZones() {
	if m.zone == nil {
		m.zone = zone.New()
	}
}

// SetContext sets the parent context of queries and loads.
func (m *Model) SetContext(ctx context.Context) {
	if ctx != nil {
		m.baseCtx = ctx
	}
}

// Engine returns the selection engine of the displayed grid, nil once the
// model has shut down.
func (m *Model) Engine() *grid.Engine {
	return m.Session.Engine()
}

func (m *Model) grid() grid.Grid {
	if e := m.Engine(); e != nil {
		return e.Grid()
	}
	return grid.Grid{}
}

// Close ends the grid view: in-flight work is cancelled and the pointer
// subscription released.
func (m *Model) Close() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.Session.Close()
	if m.zone != nil {
		m.zone.Close()
		m.zone = nil
	}
}

// Init starts the initial load or query, if any.
func (m *Model) Init() tea.Cmd {
	cmd := m.initCmd
	m.initCmd = nil
	return cmd
}

// Update dispatches one message. Input handling runs synchronously; I/O runs
// in commands that report back with a message.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.WinWidth == msg.Width && m.WinHeight == msg.Height {
			return m, nil
		}
		m.WinWidth = msg.Width
		m.WinHeight = msg.Height
		m.QueryInput.SetWidth(max(msg.Width-4, 10))
		m.applyLayout()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.MouseClickMsg:
		return m, m.handleMouseClick(msg.Mouse())

	case tea.MouseMotionMsg:
		m.handleMouseMotion(msg.Mouse())
		return m, nil

	case tea.MouseReleaseMsg:
		m.Hub.Release()
		return m, nil

	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelUp:
			m.scrollRows(-3)
		case tea.MouseWheelDown:
			m.scrollRows(3)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.Running {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case queryResultMsg:
		m.handleResult(msg)
		return m, nil

	case clipboardResultMsg:
		return m, m.handleClipboardResult(msg)

	case openURLResultMsg:
		if msg.err != nil {
			m.Log.V(1).Info("open url failed", "url", msg.url, "error", msg.err.Error())
			return m, m.setFlash("⚠ Could not open link: "+msg.err.Error(), StatusError)
		}
		m.Log.V(1).Info("opened url", "url", msg.url)
		return m, nil

	case ReloadMsg:
		if m.Load == nil {
			return m, nil
		}
		m.Log.V(1).Info("reloading", "title", m.Title)
		return m, m.startRun(m.Title, m.loadCmd)

	case flashTimeoutMsg:
		if msg.id == m.flashID {
			m.Flash = ""
			m.FlashType = ""
		}
		return m, nil
	}

	if m.InputFocused {
		var cmd tea.Cmd
		m.QueryInput, cmd = m.QueryInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.InputFocused {
		return m, m.handleQueryKey(msg)
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, m.quit()
	case key.Matches(msg, m.Keys.Up):
		m.move(grid.Up, false)
	case key.Matches(msg, m.Keys.Down):
		m.move(grid.Down, false)
	case key.Matches(msg, m.Keys.Left):
		m.move(grid.Left, false)
	case key.Matches(msg, m.Keys.Right):
		m.move(grid.Right, false)
	case key.Matches(msg, m.Keys.Tab):
		m.move(grid.Tab, false)
	case key.Matches(msg, m.Keys.ExtendUp):
		m.move(grid.Up, true)
	case key.Matches(msg, m.Keys.ExtendDown):
		m.move(grid.Down, true)
	case key.Matches(msg, m.Keys.ExtendLeft):
		m.move(grid.Left, true)
	case key.Matches(msg, m.Keys.ExtendRight):
		m.move(grid.Right, true)
	case key.Matches(msg, m.Keys.SelectAll):
		m.selectAll()
	case key.Matches(msg, m.Keys.Copy):
		return m, m.copySelection()
	case key.Matches(msg, m.Keys.Clear):
		m.clearSelection()
	case key.Matches(msg, m.Keys.Query):
		return m, m.focusQuery()
	case key.Matches(msg, m.Keys.Reload):
		if m.Load != nil && !m.Running {
			return m, m.startRun(m.Title, m.loadCmd)
		}
	case key.Matches(msg, m.Keys.Help):
		m.Help.ShowAll = !m.Help.ShowAll
		m.clampOffsets()
	}
	return m, nil
}

func (m *Model) handleQueryKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.blurQuery()
		return nil
	case "enter":
		text := strings.TrimSpace(m.QueryInput.Value())
		m.blurQuery()
		if text == "" {
			return nil
		}
		return m.submitQuery(text)
	case "ctrl+c":
		return m.quit()
	}
	var cmd tea.Cmd
	m.QueryInput, cmd = m.QueryInput.Update(msg)
	return cmd
}

func (m *Model) focusQuery() tea.Cmd {
	if !m.showQueryBar() {
		return nil
	}
	m.InputFocused = true
	return m.QueryInput.Focus()
}

func (m *Model) blurQuery() {
	m.InputFocused = false
	m.QueryInput.Blur()
}

// showQueryBar reports whether the model can run queries.
func (m *Model) showQueryBar() bool {
	return m.Executor != nil || m.Previewer != nil
}

// submitQuery starts a query or preview for text.
func (m *Model) submitQuery(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	m.LastQuery = text
	_, isPreview := strings.CutPrefix(text, previewPrefix)
	if (isPreview && m.Previewer == nil) || (!isPreview && m.Executor == nil) {
		m.setError(errors.New("no query executor configured"))
		return nil
	}
	m.Log.V(1).Info("query started", "query", text)
	return m.startRun(text, func(ctx context.Context, seq int, _ string) tea.Cmd {
		return m.runQueryCmd(ctx, seq, text)
	})
}

// startRun cancels any in-flight run and starts a new one. Results of older
// runs are dropped when they arrive.
func (m *Model) startRun(label string, build func(ctx context.Context, seq int, label string) tea.Cmd) tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(m.baseCtx)
	m.cancel = cancel
	m.seq++
	m.Running = true
	return tea.Batch(build(ctx, m.seq, label), m.Spinner.Tick)
}

func (m *Model) handleResult(msg queryResultMsg) {
	if msg.seq != m.seq {
		return
	}
	m.Running = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if msg.err != nil {
		m.Log.V(1).Info("query failed", "label", msg.label, "error", msg.err.Error())
		m.setError(msg.err)
		return
	}
	if err := m.setResult(msg.label, msg.result); err != nil {
		m.setError(err)
		return
	}
	m.Log.V(1).Info("query finished",
		"label", msg.label,
		"rows", msg.result.RowCount,
		"elapsed_ms", msg.result.ElapsedMs,
		"bytes", msg.result.BytesProcessed)
}

// setResult loads res into the session, which resets the selection. On
// error the current grid stays.
func (m *Model) setResult(label string, res *source.Result) error {
	if res == nil {
		return errors.New("no result")
	}
	g, err := res.Grid()
	if err != nil {
		return fmt.Errorf("invalid result: %w", err)
	}
	m.Session.Replace(g)
	if label != "" {
		m.Title = label
	}
	m.Info = resultInfo{
		RowCount:       res.RowCount,
		ElapsedMs:      res.ElapsedMs,
		BytesProcessed: res.BytesProcessed,
		HasStats:       res.HasStats,
	}
	m.Loaded = true
	m.RowOffset, m.ColOffset = 0, 0
	m.Tooltip = ""
	m.clearError()
	m.applyLayout()
	m.Log.V(1).Info("grid loaded", "rows", g.RowCount(), "cols", g.ColumnCount())
	return nil
}

func (m *Model) setError(err error) {
	m.Running = false
	m.ErrMsg = err.Error()
	m.StatusType = StatusError
}

func (m *Model) clearError() {
	m.ErrMsg = ""
	m.StatusType = ""
}

// setFlash shows a transient status message.
func (m *Model) setFlash(text, typ string) tea.Cmd {
	m.flashID++
	m.Flash = text
	m.FlashType = typ
	return flashTimeoutCmd(m.flashID)
}

// move steps the cursor. It does nothing until a click, header click or
// select-all has placed one.
func (m *Model) move(d grid.Direction, extend bool) {
	e := m.Engine()
	if e == nil || !e.HasSelection() {
		return
	}
	e.MoveCursor(d, extend)
	if c, ok := e.Cursor(); ok {
		m.ensureVisible(c)
		m.Tooltip = tooltipFor(e.Grid().Cell(c))
	}
}

func (m *Model) selectAll() {
	if e := m.Engine(); e != nil {
		e.SelectAll()
	}
}

func (m *Model) selectColumn(col int) {
	if e := m.Engine(); e != nil {
		e.SelectColumn(col)
	}
}

func (m *Model) clearSelection() {
	if e := m.Engine(); e != nil {
		e.Clear()
	}
	m.Tooltip = ""
	m.Flash = ""
	m.clearError()
}

// copySelection writes the selection to the clipboard as TSV.
func (m *Model) copySelection() tea.Cmd {
	e := m.Engine()
	if e == nil || !e.HasSelection() {
		return m.setFlash("Nothing selected", "")
	}
	text := e.CopySelectionAsText()
	cells := e.SelectedCells()
	m.Log.V(1).Info("copy", "cells", cells, "bytes", len(text))
	return copyCmd(text, cells)
}

func (m *Model) handleClipboardResult(msg clipboardResultMsg) tea.Cmd {
	switch {
	case errors.Is(msg.err, ErrNoClipboard):
		return tea.Batch(tea.SetClipboard(msg.text), m.setFlash("✓ Copied "+cellCount(msg.cells), StatusSuccess))
	case msg.err != nil:
		m.Log.V(1).Info("copy failed", "error", msg.err.Error())
		return m.setFlash("⚠ Copy failed: "+msg.err.Error(), StatusError)
	default:
		return m.setFlash("✓ Copied "+cellCount(msg.cells), StatusSuccess)
	}
}

func (m *Model) quit() tea.Cmd {
	m.Quitting = true
	m.Close()
	return tea.Quit
}

func cellCount(n int) string {
	if n == 1 {
		return "1 cell"
	}
	return fmt.Sprintf("%d cells", n)
}

// tooltipFor returns the status-line tooltip of an image cell.
func tooltipFor(v string) string {
	if cellkind.Classify(v) == cellkind.Image {
		return v
	}
	return ""
}
