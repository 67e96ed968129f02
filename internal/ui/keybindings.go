package ui

import (
	"charm.land/bubbles/v2/key"
)

// KeyMode represents the keybinding mode for the UI.
type KeyMode string

const (
	// KeyModeVim adds h/j/k/l movement, H/J/K/L extension and single-key
	// commands.
	KeyModeVim KeyMode = "vim"
	// KeyModeEmacs uses ctrl-chords for movement and commands.
	KeyModeEmacs KeyMode = "emacs"
	// KeyModeFunction disables single-key shortcuts, uses function keys only.
	KeyModeFunction KeyMode = "function"
)

// DefaultKeyMode is the default keybinding mode.
const DefaultKeyMode = KeyModeVim

// ValidKeyModes lists all valid key modes for validation.
var ValidKeyModes = []KeyMode{KeyModeVim, KeyModeEmacs, KeyModeFunction}

// IsValidKeyMode checks if a key mode string is valid.
func IsValidKeyMode(mode string) bool {
	for _, m := range ValidKeyModes {
		if string(m) == mode {
			return true
		}
	}
	return false
}

// KeyMap holds the grid bindings for one KeyMode. It implements help.KeyMap.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Tab         key.Binding
	ExtendUp    key.Binding
	ExtendDown  key.Binding
	ExtendLeft  key.Binding
	ExtendRight key.Binding
	SelectAll   key.Binding
	Copy        key.Binding
	Clear       key.Binding
	Query       key.Binding
	Reload      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// KeyMapFor returns the bindings for mode. Unknown modes get the vim map.
// Arrow keys, shift+arrows, tab and esc work in every mode.
func KeyMapFor(mode KeyMode) KeyMap {
	km := KeyMap{
		Up:          key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:        key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Left:        key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right:       key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Tab:         key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next column")),
		ExtendUp:    key.NewBinding(key.WithKeys("shift+up"), key.WithHelp("⇧↑", "extend up")),
		ExtendDown:  key.NewBinding(key.WithKeys("shift+down"), key.WithHelp("⇧↓", "extend down")),
		ExtendLeft:  key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("⇧←", "extend left")),
		ExtendRight: key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("⇧→", "extend right")),
		SelectAll:   key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "select all")),
		Copy:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "copy")),
		Clear:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Query:       key.NewBinding(key.WithKeys("f6"), key.WithHelp("f6", "query")),
		Reload:      key.NewBinding(key.WithKeys("f5"), key.WithHelp("f5", "reload")),
		Help:        key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Quit:        key.NewBinding(key.WithKeys("f10"), key.WithHelp("f10", "quit")),
	}

	switch mode {
	case KeyModeFunction:
		return km
	case KeyModeEmacs:
		addKeys(&km.Up, "ctrl+p")
		addKeys(&km.Down, "ctrl+n")
		addKeys(&km.Left, "ctrl+b")
		addKeys(&km.Right, "ctrl+f")
		addKeys(&km.Copy, "alt+w")
		addKeys(&km.Clear, "ctrl+g")
		addKeys(&km.Query, "alt+x")
		addKeys(&km.Quit, "ctrl+x")
		km.Copy.SetHelp("alt+w", "copy")
		km.Query.SetHelp("alt+x", "query")
		km.Quit.SetHelp("ctrl+x", "quit")
		return km
	default:
		addKeys(&km.Up, "k")
		addKeys(&km.Down, "j")
		addKeys(&km.Left, "h")
		addKeys(&km.Right, "l")
		addKeys(&km.ExtendUp, "K")
		addKeys(&km.ExtendDown, "J")
		addKeys(&km.ExtendLeft, "H")
		addKeys(&km.ExtendRight, "L")
		addKeys(&km.Copy, "y")
		addKeys(&km.Query, ":")
		addKeys(&km.Reload, "r")
		addKeys(&km.Help, "?")
		addKeys(&km.Quit, "q")
		km.Up.SetHelp("↑/k", "up")
		km.Down.SetHelp("↓/j", "down")
		km.Left.SetHelp("←/h", "left")
		km.Right.SetHelp("→/l", "right")
		km.Copy.SetHelp("y", "copy")
		km.Query.SetHelp(":", "query")
		km.Help.SetHelp("?", "help")
		km.Quit.SetHelp("q", "quit")
		return km
	}
}

func addKeys(b *key.Binding, keys ...string) {
	b.SetKeys(append(b.Keys(), keys...)...)
}

// ShortHelp is the one-line footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Copy, k.SelectAll, k.Query, k.Help, k.Quit}
}

// FullHelp is the expanded footer shown after the help key.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Tab},
		{k.ExtendUp, k.ExtendDown, k.ExtendLeft, k.ExtendRight},
		{k.SelectAll, k.Copy, k.Clear},
		{k.Query, k.Reload, k.Help, k.Quit},
	}
}
