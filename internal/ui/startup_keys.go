package ui

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
)

// ApplyStartupKeys simulates startup input (Vim-like tokens and literal
// text) and mutates the model in place. Commands returned by Update are not
// run, so clipboard, browser and query side effects do not happen.
//
// Besides key tokens such as "<Down>", "<S-Right>" or "<C-a>", pointer
// tokens address screen cells: "<Click:x,y>", "<S-Click:x,y>",
// "<Drag:x,y>" and "<Release>".
func ApplyStartupKeys(m *Model, keys []string) {
	if len(keys) == 0 || m == nil {
		return
	}
	for _, raw := range keys {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		// Leading backslash forces literal text (e.g., "\\<f12>").
		if strings.HasPrefix(token, `\`) {
			sendLiteral(m, strings.TrimPrefix(token, `\`))
			continue
		}
		for _, segment := range parseTokenSegments(token) {
			if !segment.isVimKey {
				sendLiteral(m, segment.text)
				continue
			}
			if msgs, ok := msgsFromToken(segment.text); ok {
				for _, msg := range msgs {
					m.Update(msg)
				}
			}
		}
	}
}

func sendLiteral(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

// tokenSegment represents a parsed segment of a token (either a vim-style key or literal text)
type tokenSegment struct {
	text     string
	isVimKey bool
}

// parseTokenSegments splits a token into segments of vim-style keys and literal text.
// Example: "<Down>yq" -> [segment{text: "<Down>", isVimKey: true}, segment{text: "yq", isVimKey: false}]
func parseTokenSegments(token string) []tokenSegment {
	var segments []tokenSegment
	remaining := token

	for len(remaining) > 0 {
		startIdx := strings.Index(remaining, "<")
		if startIdx == -1 {
			segments = append(segments, tokenSegment{text: remaining})
			break
		}
		if startIdx > 0 {
			segments = append(segments, tokenSegment{text: remaining[:startIdx]})
		}
		endIdx := strings.Index(remaining[startIdx:], ">")
		if endIdx == -1 {
			segments = append(segments, tokenSegment{text: remaining[startIdx:]})
			break
		}
		segments = append(segments, tokenSegment{text: remaining[startIdx : startIdx+endIdx+1], isVimKey: true})
		remaining = remaining[startIdx+endIdx+1:]
	}

	return segments
}

var namedKeys = map[string]rune{
	"esc":       tea.KeyEscape,
	"escape":    tea.KeyEscape,
	"c-[":       tea.KeyEscape,
	"cr":        tea.KeyEnter,
	"enter":     tea.KeyEnter,
	"return":    tea.KeyEnter,
	"tab":       tea.KeyTab,
	"bs":        tea.KeyBackspace,
	"backspace": tea.KeyBackspace,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"home":      tea.KeyHome,
	"end":       tea.KeyEnd,
	"pgup":      tea.KeyPgUp,
	"pgdown":    tea.KeyPgDown,
	"f1":        tea.KeyF1,
	"f2":        tea.KeyF2,
	"f3":        tea.KeyF3,
	"f4":        tea.KeyF4,
	"f5":        tea.KeyF5,
	"f6":        tea.KeyF6,
	"f7":        tea.KeyF7,
	"f8":        tea.KeyF8,
	"f9":        tea.KeyF9,
	"f10":       tea.KeyF10,
	"f11":       tea.KeyF11,
	"f12":       tea.KeyF12,
}

// msgsFromToken parses a <...> token into the messages it stands for.
// Examples: "<Esc>", "<CR>", "<S-Down>", "<C-a>", "<A-w>", "<F6>",
// "<Click:4,3>".
func msgsFromToken(token string) ([]tea.Msg, bool) {
	if !strings.HasPrefix(token, "<") || !strings.HasSuffix(token, ">") {
		return nil, false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">")
	lower := strings.ToLower(inner)

	if msg, ok := pointerMsg(lower); ok {
		return []tea.Msg{msg}, true
	}
	if lower == "space" {
		return []tea.Msg{tea.KeyPressMsg{Code: ' ', Text: " "}}, true
	}

	var mod tea.KeyMod
	for {
		switch {
		case strings.HasPrefix(lower, "s-"):
			mod |= tea.ModShift
		case strings.HasPrefix(lower, "c-") && lower != "c-[":
			mod |= tea.ModCtrl
		case strings.HasPrefix(lower, "a-"), strings.HasPrefix(lower, "m-"):
			mod |= tea.ModAlt
		default:
			if code, ok := namedKeys[lower]; ok {
				return []tea.Msg{tea.KeyPressMsg{Code: code, Mod: mod}}, true
			}
			r := []rune(lower)
			if len(r) == 1 && mod != 0 {
				return []tea.Msg{tea.KeyPressMsg{Code: r[0], Mod: mod}}, true
			}
			return nil, false
		}
		lower = lower[2:]
	}
}

// pointerMsg parses click, drag and release tokens (already lower-cased and
// without brackets).
func pointerMsg(tok string) (tea.Msg, bool) {
	if tok == "release" {
		return tea.MouseReleaseMsg{Button: tea.MouseLeft}, true
	}
	name, coords, ok := strings.Cut(tok, ":")
	if !ok {
		return nil, false
	}
	xs, ys, ok := strings.Cut(coords, ",")
	if !ok {
		return nil, false
	}
	x, errX := strconv.Atoi(strings.TrimSpace(xs))
	y, errY := strconv.Atoi(strings.TrimSpace(ys))
	if errX != nil || errY != nil {
		return nil, false
	}
	switch name {
	case "click":
		return tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft}, true
	case "s-click":
		return tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft, Mod: tea.ModShift}, true
	case "drag":
		return tea.MouseMotionMsg{X: x, Y: y, Button: tea.MouseLeft}, true
	}
	return nil, false
}
