package ui

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/cellgrid/pkg/grid"
	"github.com/oakwood-commons/cellgrid/pkg/source"
)

// Screen geometry of newTestModel: title on row 0, column header on row 1,
// rule on row 2, data from row 3. Column 0 spans x 0-7, column 1 x 8-31 and
// column 2 x 32-41.
const (
	headerRow = 1
	firstRow  = 3
	col0X     = 2
	col1X     = 10
	col2X     = 34
)

func testResult() *source.Result {
	return &source.Result{
		Columns: []string{"name", "site", "logo"},
		Rows: [][]string{
			{"alice", "https://example.com/a", "https://example.com/a.png"},
			{"bob", "NULL", "plain"},
			{"carol", "x", "y"},
		},
		RowCount: 3,
	}
}

func newTestModel(t *testing.T, opts Options) *Model {
	t.Helper()
	if opts.Result == nil {
		opts.Result = testResult()
	}
	if opts.Width == 0 {
		opts.Width = 80
	}
	if opts.Height == 0 {
		opts.Height = 20
	}
	opts.NoColor = true
	m := NewModel(opts)
	t.Cleanup(m.Close)
	return m
}

func click(m *Model, x, y int) tea.Cmd {
	_, cmd := m.Update(tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft})
	return cmd
}

func shiftClick(m *Model, x, y int) {
	m.Update(tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft, Mod: tea.ModShift})
}

func drag(m *Model, x, y int) {
	m.Update(tea.MouseMotionMsg{X: x, Y: y, Button: tea.MouseLeft})
}

func release(m *Model, x, y int) {
	m.Update(tea.MouseReleaseMsg{X: x, Y: y, Button: tea.MouseLeft})
}

func press(m *Model, msgs ...tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func keyText(s string) tea.KeyPressMsg {
	r := []rune(s)
	return tea.KeyPressMsg{Code: r[0], Text: s}
}

func selection(t *testing.T, m *Model) grid.Range {
	t.Helper()
	r, ok := m.Engine().Selection()
	require.True(t, ok, "expected a selection")
	return r
}

func TestNewModelLoadsResult(t *testing.T) {
	m := newTestModel(t, Options{Title: "shop.orders"})
	assert.True(t, m.Loaded)
	assert.Equal(t, 3, m.grid().RowCount())
	assert.False(t, m.Engine().HasSelection())
	assert.Equal(t, []int{5, 21, 7}, m.layout.widths)
	assert.Equal(t, 1, m.Hub.Len())
}

func TestClickSelectsCell(t *testing.T) {
	m := newTestModel(t, Options{})
	click(m, col0X, firstRow+1)

	r := selection(t, m)
	assert.Equal(t, grid.Coord{Row: 1, Col: 0}, r.Anchor)
	assert.Equal(t, grid.Coord{Row: 1, Col: 0}, r.Focus)
	assert.True(t, m.Engine().Dragging())
}

func TestDragSelectsRectangle(t *testing.T) {
	m := newTestModel(t, Options{})
	click(m, col0X, firstRow)
	drag(m, col1X, firstRow+2)
	release(m, col1X, firstRow+2)

	r := selection(t, m)
	assert.Equal(t, grid.Coord{Row: 0, Col: 0}, r.Anchor)
	assert.Equal(t, grid.Coord{Row: 2, Col: 1}, r.Focus)
	assert.False(t, m.Engine().Dragging())
	assert.Equal(t, "alice\thttps://example.com/a\nbob\tNULL\ncarol\tx", m.Engine().CopySelectionAsText())
}

func TestReleaseOutsideGridEndsDrag(t *testing.T) {
	m := newTestModel(t, Options{})
	click(m, col0X, firstRow)
	release(m, 79, 19)
	assert.False(t, m.Engine().Dragging())

	drag(m, col1X, firstRow+2)
	r := selection(t, m)
	assert.Equal(t, 1, r.Cells(), "motion after release must not extend")
}

func TestShiftClickExtendsFromAnchor(t *testing.T) {
	m := newTestModel(t, Options{})
	click(m, col0X, firstRow)
	release(m, col0X, firstRow)
	shiftClick(m, col1X, firstRow+1)

	r := selection(t, m)
	assert.Equal(t, grid.Coord{Row: 0, Col: 0}, r.Anchor)
	assert.Equal(t, grid.Coord{Row: 1, Col: 1}, r.Focus)
}

func TestHeaderClickSelectsColumn(t *testing.T) {
	m := newTestModel(t, Options{})
	click(m, col0X, headerRow)

	r := selection(t, m)
	assert.Equal(t, grid.Coord{Row: 0, Col: 0}, r.Anchor)
	assert.Equal(t, grid.Coord{Row: 2, Col: 0}, r.Focus)
}

func TestHeaderClickOnEmptyGrid(t *testing.T) {
	m := newTestModel(t, Options{Result: &source.Result{Columns: []string{"a", "b"}, Rows: [][]string{}}})
	click(m, col0X, headerRow)
	assert.False(t, m.Engine().HasSelection())
}

func TestLinkClickOpensBrowserWithoutSelecting(t *testing.T) {
	var opened string
	restore := SetPlatformActions(nil, func(url string) error {
		opened = url
		return nil
	})
	defer restore()

	m := newTestModel(t, Options{})
	click(m, col0X, firstRow+2)
	release(m, col0X, firstRow+2)
	before := selection(t, m)

	cmd := click(m, col1X, firstRow)
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, openURLResultMsg{url: "https://example.com/a"}, msg)
	assert.Equal(t, "https://example.com/a", opened)

	assert.Equal(t, before, selection(t, m))
	assert.False(t, m.Engine().Dragging())
}

func TestImageClickShowsTooltipWithoutSelecting(t *testing.T) {
	m := newTestModel(t, Options{})
	cmd := click(m, col2X, firstRow)
	assert.Nil(t, cmd)
	assert.False(t, m.Engine().HasSelection())
	assert.Equal(t, "https://example.com/a.png", m.Tooltip)
	assert.Contains(t, m.render(), "▣ https://example.com/a.png")
}

func TestOpenURLFailureFlashes(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Update(openURLResultMsg{url: "https://example.com", err: errors.New("xdg-open not found")})
	assert.Equal(t, "⚠ Could not open link: xdg-open not found", m.Flash)
	assert.Equal(t, StatusError, m.FlashType)
	assert.Empty(t, m.ErrMsg)
}

func TestKeyboardNavigation(t *testing.T) {
	m := newTestModel(t, Options{KeyMode: KeyModeVim})

	press(m, tea.KeyPressMsg{Code: tea.KeyDown}, keyText("l"))
	assert.False(t, m.Engine().HasSelection(), "keys do nothing before a cell is selected")

	click(m, col0X, firstRow)
	release(m, col0X, firstRow)
	press(m, keyText("l"), tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, grid.Coord{Row: 1, Col: 1}, selection(t, m).Focus)

	press(m, tea.KeyPressMsg{Code: tea.KeyRight, Mod: tea.ModShift}, tea.KeyPressMsg{Code: tea.KeyDown, Mod: tea.ModShift})
	r := selection(t, m)
	assert.Equal(t, grid.Coord{Row: 1, Col: 1}, r.Anchor)
	assert.Equal(t, grid.Coord{Row: 2, Col: 2}, r.Focus)

	press(m, keyText("K"))
	assert.Equal(t, grid.Coord{Row: 1, Col: 2}, selection(t, m).Focus)
	assert.Equal(t, 2, selection(t, m).Cells())
}

func TestTabClampsAtLastColumn(t *testing.T) {
	m := newTestModel(t, Options{})
	click(m, col0X, firstRow)
	release(m, col0X, firstRow)
	for range 5 {
		press(m, tea.KeyPressMsg{Code: tea.KeyTab})
	}
	r := selection(t, m)
	assert.Equal(t, grid.Coord{Row: 0, Col: 2}, r.Focus)
	assert.Equal(t, 1, r.Cells())
}

func TestSelectAllAndClear(t *testing.T) {
	m := newTestModel(t, Options{})
	press(m, tea.KeyPressMsg{Code: 'a', Mod: tea.ModCtrl})
	assert.Equal(t, 9, m.Engine().SelectedCells())
	assert.Contains(t, m.render(), "3×3 selected (9 cells)")

	press(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.False(t, m.Engine().HasSelection())
}

func TestCopySelection(t *testing.T) {
	var copied string
	restore := SetPlatformActions(func(text string) error {
		copied = text
		return nil
	}, nil)
	defer restore()

	m := newTestModel(t, Options{})
	click(m, col0X, firstRow+1)
	drag(m, col1X, firstRow+2)
	release(m, col1X, firstRow+2)

	cmd := press(m, keyText("y"))
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, "bob\tNULL\ncarol\tx", copied)

	m.Update(msg)
	assert.Equal(t, "✓ Copied 4 cells", m.Flash)
	assert.Equal(t, StatusSuccess, m.FlashType)
}

func TestCopyFailureIsTransient(t *testing.T) {
	restore := SetPlatformActions(func(string) error { return errors.New("boom") }, nil)
	defer restore()

	m := newTestModel(t, Options{})
	click(m, col0X, firstRow)
	msg := press(m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})()
	m.Update(msg)

	assert.Equal(t, "⚠ Copy failed: boom", m.Flash)
	assert.Empty(t, m.ErrMsg)
	assert.Empty(t, m.StatusType)
	assert.True(t, m.Engine().HasSelection())

	m.Update(flashTimeoutMsg{id: m.flashID})
	assert.Empty(t, m.Flash)
}

func TestCopyWithoutClipboardFallsBackToOSC52(t *testing.T) {
	restore := SetPlatformActions(func(string) error { return ErrNoClipboard }, nil)
	defer restore()

	m := newTestModel(t, Options{})
	click(m, col0X, firstRow)
	msg := press(m, keyText("y"))()
	_, cmd := m.Update(msg)
	assert.NotNil(t, cmd)
	assert.Equal(t, "✓ Copied 1 cell", m.Flash)
}

func TestCopyWithNothingSelected(t *testing.T) {
	m := newTestModel(t, Options{})
	press(m, keyText("y"))
	assert.Equal(t, "Nothing selected", m.Flash)
}

type fakeExecutor struct {
	result *source.Result
	err    error
	query  string
}

func (f *fakeExecutor) Execute(_ context.Context, query, _ string) (*source.Result, error) {
	f.query = query
	return f.result, f.err
}

type fakePreviewer struct {
	id string
}

func (f *fakePreviewer) Preview(_ context.Context, id string) (*source.Result, error) {
	f.id = id
	return &source.Result{Columns: []string{"id"}, Rows: [][]string{{"1"}}, RowCount: 1}, nil
}

func TestQueryReplacesGridAndResetsSelection(t *testing.T) {
	exec := &fakeExecutor{result: &source.Result{
		Columns:        []string{"total"},
		Rows:           [][]string{{"10"}, {"20"}},
		RowCount:       2,
		ElapsedMs:      12,
		BytesProcessed: 2048,
		HasStats:       true,
	}}
	m := newTestModel(t, Options{Executor: exec})
	m.Engine().SelectAll()

	cmd := m.submitQuery(`table("shop.orders")`)
	require.NotNil(t, cmd)
	assert.True(t, m.Running)

	res, err := exec.Execute(context.Background(), `table("shop.orders")`, "")
	m.Update(queryResultMsg{seq: m.seq, label: `table("shop.orders")`, result: res, err: err})

	assert.False(t, m.Running)
	assert.Equal(t, []string{"total"}, m.grid().Columns)
	assert.False(t, m.Engine().HasSelection())
	assert.Equal(t, "2 rows · 12 ms · 2.0 KiB processed", m.statsText())
}

func TestQueryFailureKeepsPriorGrid(t *testing.T) {
	m := newTestModel(t, Options{Executor: &fakeExecutor{}})
	m.submitQuery("bad(")
	m.Update(queryResultMsg{seq: m.seq, err: errors.New("query failed: compilation error: syntax")})

	assert.Equal(t, "query failed: compilation error: syntax", m.ErrMsg)
	assert.Equal(t, StatusError, m.StatusType)
	assert.Equal(t, 3, m.grid().RowCount())
	assert.Contains(t, m.render(), "alice")
}

func TestQueryFailureWithoutGrid(t *testing.T) {
	m := NewModel(Options{Executor: &fakeExecutor{}, NoColor: true, Width: 80, Height: 12})
	defer m.Close()
	m.submitQuery("bad(")
	m.Update(queryResultMsg{seq: m.seq, err: errors.New("table not found")})

	out := m.render()
	assert.Contains(t, out, "no results")
	assert.Contains(t, out, "table not found")
}

func TestStaleQueryResultIgnored(t *testing.T) {
	m := newTestModel(t, Options{Executor: &fakeExecutor{}})
	m.submitQuery("first")
	stale := m.seq
	m.submitQuery("second")
	m.Update(queryResultMsg{seq: stale, result: &source.Result{Columns: []string{"x"}, Rows: [][]string{}}})

	assert.True(t, m.Running)
	assert.Equal(t, []string{"name", "site", "logo"}, m.grid().Columns)
}

func TestQueryBarRoutesPreview(t *testing.T) {
	prev := &fakePreviewer{}
	m := newTestModel(t, Options{Executor: &fakeExecutor{}, Previewer: prev})

	press(m, keyText(":"))
	require.True(t, m.InputFocused)
	m.QueryInput.SetValue("preview shop.orders")
	cmd := press(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, m.InputFocused)
	assert.Equal(t, "preview shop.orders", m.LastQuery)

	msg := m.runQueryCmd(context.Background(), m.seq, "preview shop.orders")()
	assert.Equal(t, "shop.orders", prev.id)
	m.Update(msg)
	assert.Equal(t, "shop.orders", m.Title)
	assert.Equal(t, 1, m.grid().RowCount())
}

func TestQueryWithoutExecutor(t *testing.T) {
	m := newTestModel(t, Options{})
	assert.Nil(t, m.submitQuery("1 + 1"))
	assert.Equal(t, "no query executor configured", m.ErrMsg)
}

func TestReloadUsesLoadFunc(t *testing.T) {
	calls := 0
	load := func(context.Context) (*source.Result, error) {
		calls++
		return &source.Result{Columns: []string{"v"}, Rows: [][]string{{"new"}}, RowCount: 1}, nil
	}
	m := newTestModel(t, Options{Load: load})
	m.Engine().SelectAll()

	_, cmd := m.Update(ReloadMsg{})
	require.NotNil(t, cmd)
	msg := m.loadCmd(context.Background(), m.seq, m.Title)()
	m.Update(msg)

	assert.Equal(t, 1, calls)
	assert.Equal(t, "new", m.grid().Cell(grid.Coord{}))
	assert.False(t, m.Engine().HasSelection())
}

func TestQuitClosesSession(t *testing.T) {
	m := newTestModel(t, Options{})
	require.Equal(t, 1, m.Hub.Len())

	cmd := press(m, keyText("q"))
	require.NotNil(t, cmd)
	assert.True(t, m.Quitting)
	assert.Nil(t, m.Engine())
	assert.Equal(t, 0, m.Hub.Len())

	// Pointer events after shutdown are harmless.
	click(m, col0X, firstRow)
	release(m, col0X, firstRow)
}

func TestScrollKeepsCursorVisible(t *testing.T) {
	rows := make([][]string, 50)
	for i := range rows {
		rows[i] = []string{"r"}
	}
	m := newTestModel(t, Options{Result: &source.Result{Columns: []string{"c"}, Rows: rows, RowCount: 50}, Height: 10})
	height := m.bodyHeight()

	click(m, col0X, firstRow)
	release(m, col0X, firstRow)
	for range height + 2 {
		press(m, tea.KeyPressMsg{Code: tea.KeyDown})
	}
	c, _ := m.Engine().Cursor()
	assert.Equal(t, height+2, c.Row)
	assert.Equal(t, c.Row-height+1, m.RowOffset)

	m.Update(tea.MouseWheelMsg{Button: tea.MouseWheelUp})
	assert.Equal(t, c.Row-height-2, m.RowOffset)
}

func TestHitTest(t *testing.T) {
	m := newTestModel(t, Options{})
	tests := []struct {
		name string
		x, y int
		want hit
	}{
		{"title", col0X, 0, hit{}},
		{"header col 1", col1X, headerRow, hit{kind: hitHeader, coord: grid.Coord{Col: 1}}},
		{"rule", col0X, 2, hit{}},
		{"first cell", 0, firstRow, hit{kind: hitCell, coord: grid.Coord{Row: 0, Col: 0}}},
		{"separator belongs to left column", 7, firstRow, hit{kind: hitCell, coord: grid.Coord{Row: 0, Col: 0}}},
		{"last column", 41, firstRow + 2, hit{kind: hitCell, coord: grid.Coord{Row: 2, Col: 2}}},
		{"right of grid", 60, firstRow, hit{}},
		{"below last row", col0X, firstRow + 3, hit{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.hitTest(tt.x, tt.y))
		})
	}
}

func TestKeyMapModes(t *testing.T) {
	vim := KeyMapFor(KeyModeVim)
	assert.Contains(t, vim.Down.Keys(), "j")
	assert.Contains(t, vim.ExtendLeft.Keys(), "H")

	emacs := KeyMapFor(KeyModeEmacs)
	assert.Contains(t, emacs.Down.Keys(), "ctrl+n")
	assert.NotContains(t, emacs.Down.Keys(), "j")

	fn := KeyMapFor(KeyModeFunction)
	assert.Equal(t, []string{"down"}, fn.Down.Keys())
	assert.Equal(t, []string{"f10"}, fn.Quit.Keys())

	assert.True(t, IsValidKeyMode("emacs"))
	assert.False(t, IsValidKeyMode("nano"))
}
