package ui

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/atotto/clipboard"
)

// ErrNoClipboard reports that no system clipboard utility is available. The
// model falls back to an OSC 52 sequence when it sees it.
var ErrNoClipboard = errors.New("no system clipboard available")

// copyToClipboardFn and openURLFn are the active implementations for clipboard
// and browser operations. Tests replace them with no-ops via
// StubPlatformActions() to prevent side effects.
var (
	copyToClipboardFn = copyToClipboardImpl
	openURLFn         = openURLImpl
)

// CopyToClipboard copies text to the system clipboard.
func CopyToClipboard(text string) error { return copyToClipboardFn(text) }

// OpenURL opens a URL in the default browser.
func OpenURL(url string) error { return openURLFn(url) }

// StubPlatformActions replaces clipboard and browser functions with no-ops
// and returns a restore function. Use in tests to prevent side effects.
func StubPlatformActions() (restore func()) {
	return SetPlatformActions(
		func(string) error { return nil },
		func(string) error { return nil },
	)
}

// SetPlatformActions installs custom clipboard and browser functions and
// returns a restore function. A nil argument keeps the current function.
func SetPlatformActions(copyFn, openFn func(string) error) (restore func()) {
	origCopy := copyToClipboardFn
	origOpen := openURLFn
	if copyFn != nil {
		copyToClipboardFn = copyFn
	}
	if openFn != nil {
		openURLFn = openFn
	}
	return func() {
		copyToClipboardFn = origCopy
		openURLFn = origOpen
	}
}

// copyToClipboardImpl writes through pbcopy on macOS first, then the
// atotto/clipboard backends (xclip, xsel, wl-copy, clip.exe).
func copyToClipboardImpl(text string) error {
	if runtime.GOOS == "darwin" {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		cmd := exec.CommandContext(ctx, "pbcopy")
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err == nil {
			return nil
		}
	}
	if clipboard.Unsupported {
		return ErrNoClipboard
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}

// openURLImpl is the real browser-open implementation.
// Uses a detached context since the child process outlives the caller.
func openURLImpl(url string) error {
	ctx := context.Background()

	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "linux", "freebsd", "openbsd":
		if _, err := exec.LookPath("xdg-open"); err != nil {
			return fmt.Errorf("xdg-open not found (install xdg-utils)")
		}
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
