package tui

import "github.com/oakwood-commons/cellgrid/internal/ui"

// CopyToClipboard copies text to the system clipboard (pbcopy on macOS,
// xclip/xsel/wl-copy on Linux, clip on Windows). It returns
// ui.ErrNoClipboard when no clipboard utility is available.
func CopyToClipboard(text string) error {
	return ui.CopyToClipboard(text)
}

// OpenURL opens url in the default system browser.
func OpenURL(url string) error {
	return ui.OpenURL(url)
}

// StubPlatformActions replaces clipboard and browser actions with no-ops
// and returns a function restoring them. Hosts use it in tests.
func StubPlatformActions() (restore func()) {
	return ui.StubPlatformActions()
}
