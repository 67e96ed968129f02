package grid

// PointerHub fans a document-wide pointer-up out to every live subscriber.
// The display surface calls Release for every pointer-up it sees, wherever
// it lands, so a drag that leaves the grid still ends.
//
// Like Engine, a PointerHub belongs to the UI event loop and is not safe for
// concurrent use.
type PointerHub struct {
	next int
	subs []pointerSub
}

type pointerSub struct {
	id int
	fn func()
}

// NewPointerHub returns an empty hub.
func NewPointerHub() *PointerHub {
	return &PointerHub{}
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (h *PointerHub) Subscribe(fn func()) (unsubscribe func()) {
	h.next++
	id := h.next
	h.subs = append(h.subs, pointerSub{id: id, fn: fn})
	return func() {
		for i, s := range h.subs {
			if s.id == id {
				h.subs = append(h.subs[:i], h.subs[i+1:]...)
				return
			}
		}
	}
}

// Release notifies subscribers of a pointer-up, in subscription order.
func (h *PointerHub) Release() {
	subs := make([]pointerSub, len(h.subs))
	copy(subs, h.subs)
	for _, s := range subs {
		s.fn()
	}
}

// Len returns the number of live subscriptions.
func (h *PointerHub) Len() int { return len(h.subs) }
