package ui

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMain keeps link clicks and copies in model tests away from the real
// browser and clipboard.
func TestMain(m *testing.M) {
	restore := StubPlatformActions()
	code := m.Run()
	restore()
	os.Exit(code)
}

func TestSetPlatformActionsRestores(t *testing.T) {
	boom := errors.New("boom")
	restore := SetPlatformActions(func(string) error { return boom }, nil)
	assert.ErrorIs(t, CopyToClipboard("x"), boom)
	assert.NoError(t, OpenURL("https://example.com"))

	restore()
	assert.NoError(t, CopyToClipboard("x"))
}
