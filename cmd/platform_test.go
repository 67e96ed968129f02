package cmd

import (
	"os"
	"testing"

	"github.com/oakwood-commons/cellgrid/internal/ui"
)

// TestMain swaps the clipboard and browser actions for no-ops, so a viewer
// started by a command under test never touches the desktop.
func TestMain(m *testing.M) {
	restore := ui.StubPlatformActions()
	code := m.Run()
	restore()
	os.Exit(code)
}
