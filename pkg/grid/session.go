package grid

// Session is a display surface's hold on one Engine for the lifetime of a
// grid view. Opening a session subscribes the engine's EndSelection to the
// document-wide pointer hub; closing it removes the subscription and drops
// the engine.
type Session struct {
	engine      *Engine
	unsubscribe func()
}

// NewSession starts a view of g. hub may be nil when the surface has no
// document-level pointer events (for example a snapshot render).
func NewSession(hub *PointerHub, g Grid) *Session {
	e := NewEngine(g)
	s := &Session{engine: e, unsubscribe: func() {}}
	if hub != nil {
		s.unsubscribe = hub.Subscribe(e.EndSelection)
	}
	return s
}

// Engine returns the session's engine, or nil once the session is closed.
func (s *Session) Engine() *Engine {
	if s == nil {
		return nil
	}
	return s.engine
}

// Replace swaps in a new grid and resets the selection.
func (s *Session) Replace(g Grid) {
	if s == nil || s.engine == nil {
		return
	}
	s.engine.Load(g)
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	return s == nil || s.engine == nil
}

// Close releases the pointer subscription and discards the selection state.
func (s *Session) Close() {
	if s == nil || s.engine == nil {
		return
	}
	s.unsubscribe()
	s.engine = nil
}
