package ui

import (
	tea "charm.land/bubbletea/v2"
	zone "github.com/lrstanley/bubblezone"

	"github.com/oakwood-commons/cellgrid/pkg/cellkind"
)

// handleMouseClick routes a pointer-down. Link and image cells consume the
// click; everything else reaches the selection engine.
func (m *Model) handleMouseClick(ev tea.Mouse) tea.Cmd {
	if ev.Button != tea.MouseLeft {
		return nil
	}
	if action, ok := m.toolbarAt(ev.X, ev.Y); ok {
		return m.runToolbarAction(action)
	}
	if m.InputFocused {
		m.blurQuery()
	}
	e := m.Engine()
	if e == nil {
		return nil
	}

	h := m.hitTest(ev.X, ev.Y)
	switch h.kind {
	case hitHeader:
		e.SelectColumn(h.coord.Col)
		return nil
	case hitCell:
		v := e.Grid().Cell(h.coord)
		if kind := cellkind.Classify(v); kind.IsActivatable() {
			if kind == cellkind.Image {
				m.Tooltip = v
				return nil
			}
			m.Log.V(1).Info("open url", "url", v)
			return openURLCmd(v)
		}
		e.BeginSelection(h.coord, ev.Mod&tea.ModShift != 0)
		m.Tooltip = ""
		return nil
	}
	return nil
}

// handleMouseMotion extends a drag, or updates the image tooltip when the
// pointer hovers without a drag.
func (m *Model) handleMouseMotion(ev tea.Mouse) {
	e := m.Engine()
	if e == nil {
		return
	}
	if e.Dragging() {
		if c, ok := m.dragTarget(ev.X, ev.Y); ok {
			e.ExtendSelectionTo(c)
		}
		return
	}
	h := m.hitTest(ev.X, ev.Y)
	if h.kind != hitCell {
		return
	}
	m.Tooltip = tooltipFor(e.Grid().Cell(h.coord))
}

// Toolbar actions in the footer.
const (
	toolbarCopy  = "copy"
	toolbarAll   = "all"
	toolbarQuery = "query"
)

type toolbarAction struct {
	id    string
	label string
}

func (m *Model) toolbarActions() []toolbarAction {
	actions := []toolbarAction{
		{id: toolbarCopy, label: "copy"},
		{id: toolbarAll, label: "select all"},
	}
	if m.showQueryBar() {
		actions = append(actions, toolbarAction{id: toolbarQuery, label: "query"})
	}
	return actions
}

func toolbarZoneID(id string) string {
	return "grid-toolbar-" + id
}

func (m *Model) toolbarAt(x, y int) (string, bool) {
	if m.zone == nil || m.HideFooter {
		return "", false
	}
	for _, a := range m.toolbarActions() {
		if inZone(m.zone.Get(toolbarZoneID(a.id)), x, y) {
			return a.id, true
		}
	}
	return "", false
}

func (m *Model) runToolbarAction(id string) tea.Cmd {
	switch id {
	case toolbarCopy:
		return m.copySelection()
	case toolbarAll:
		m.selectAll()
	case toolbarQuery:
		return m.focusQuery()
	}
	return nil
}

func inZone(z *zone.ZoneInfo, x, y int) bool {
	if z == nil || z.IsZero() {
		return false
	}
	return x >= z.StartX && x <= z.EndX && y >= z.StartY && y <= z.EndY
}
