package tui

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/cellgrid/internal/ui"
	"github.com/oakwood-commons/cellgrid/pkg/source"
)

func TestMain(m *testing.M) {
	restore := StubPlatformActions()
	code := m.Run()
	restore()
	os.Exit(code)
}

func sampleResult() *source.Result {
	return &source.Result{
		Columns:  []string{"id", "name"},
		Rows:     [][]string{{"1", "ada"}, {"2", "grace"}},
		RowCount: 2,
	}
}

func TestRenderSnapshot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Title = "people"
	cfg.NoColor = true
	cfg.Width = 40
	cfg.Height = 10

	out := RenderSnapshot(sampleResult(), cfg)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 10)
	assert.True(t, strings.HasPrefix(lines[0], "cellgrid · people"))
	assert.Equal(t, " id  │ name  │", lines[1])
	assert.Equal(t, "   1 │ ada   │", lines[3])
	assert.Contains(t, out, "2 rows × 2 columns")
}

func TestRenderSnapshotStartKeys(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NoColor = true
	cfg.Width = 40
	cfg.Height = 10
	cfg.StartKeys = []string{"<C-a>"}

	out := RenderSnapshot(sampleResult(), cfg)
	assert.Contains(t, out, "2×2 selected (4 cells)")
}

func TestRenderSnapshotHideFooter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NoColor = true
	cfg.HideFooter = true
	cfg.Width = 40
	cfg.Height = 8

	out := RenderSnapshot(sampleResult(), cfg)
	assert.NotContains(t, out, "[copy]")
}

func TestPlatformWrappers(t *testing.T) {
	assert.NoError(t, CopyToClipboard("x"))
	assert.NoError(t, OpenURL("https://example.com"))

	boom := errors.New("boom")
	restore := ui.SetPlatformActions(nil, func(string) error { return boom })
	defer restore()
	assert.ErrorIs(t, OpenURL("https://example.com"), boom)
}

func TestWithIO(t *testing.T) {
	assert.Empty(t, WithIO(nil, nil))
	assert.Len(t, WithIO(strings.NewReader(""), &bytes.Buffer{}), 2)
	assert.Len(t, WithIO(nil, &bytes.Buffer{}), 1)
}

func TestDetectTerminalSizeFallback(t *testing.T) {
	t.Setenv("COLUMNS", "")
	w, h := DetectTerminalSize()
	assert.Positive(t, w)
	assert.GreaterOrEqual(t, h, 0)
}
