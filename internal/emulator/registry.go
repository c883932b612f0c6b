package emulator

import (
	"github.com/kobzarvs/qemacs/internal/buffer"
	"github.com/kobzarvs/qemacs/internal/killring"
	"github.com/kobzarvs/qemacs/internal/logger"
)

type (
	ViewID     string
	DocumentID string
)

// Handle addresses a dispatcher in a Registry. A handle goes stale once its
// dispatcher is removed, even if the slot is reused.
type Handle struct {
	index uint32
	gen   uint32
}

type slot struct {
	gen  uint32
	live bool
	view ViewID
	doc  DocumentID
	d    *Dispatcher
}

// Registry owns one dispatcher per host view and the kill ring they share.
// It is not safe for concurrent use; hosts drive it from their event loop.
type Registry struct {
	kills  *killring.Ring
	opts   Options
	slots  []slot
	free   []uint32
	byView map[ViewID]Handle
}

func NewRegistry(kills *killring.Ring, opts Options) *Registry {
	if kills == nil {
		kills = killring.New(killring.DefaultCapacity)
	}
	return &Registry{
		kills:  kills,
		opts:   opts,
		byView: make(map[ViewID]Handle),
	}
}

func (r *Registry) KillRing() *killring.Ring { return r.kills }

// Len returns the number of live dispatchers.
func (r *Registry) Len() int { return len(r.byView) }

// GetOrCreate returns the dispatcher of view, creating it on first use. A
// view that now shows another document gets a fresh dispatcher.
func (r *Registry) GetOrCreate(view ViewID, doc DocumentID, ed buffer.Editor) Handle {
	if h, ok := r.byView[view]; ok {
		s := &r.slots[h.index]
		if s.doc == doc {
			return h
		}
		r.Remove(h)
	}
	d := New(ed, r.kills, r.opts)
	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		r.slots = append(r.slots, slot{})
		idx = uint32(len(r.slots) - 1)
	}
	s := &r.slots[idx]
	s.gen++
	s.live = true
	s.view = view
	s.doc = doc
	s.d = d
	h := Handle{index: idx, gen: s.gen}
	r.byView[view] = h
	logger.Debug("emulator created", "view", view, "doc", doc)
	return h
}

// Get resolves h. Stale handles report false.
func (r *Registry) Get(h Handle) (*Dispatcher, bool) {
	if int(h.index) >= len(r.slots) {
		return nil, false
	}
	s := &r.slots[h.index]
	if !s.live || s.gen != h.gen {
		return nil, false
	}
	return s.d, true
}

// Lookup returns the handle bound to view.
func (r *Registry) Lookup(view ViewID) (Handle, bool) {
	h, ok := r.byView[view]
	return h, ok
}

// Remove disposes the dispatcher behind h. Removing twice is a no-op.
func (r *Registry) Remove(h Handle) bool {
	d, ok := r.Get(h)
	if !ok {
		return false
	}
	s := &r.slots[h.index]
	d.Dispose()
	delete(r.byView, s.view)
	s.live = false
	s.d = nil
	r.free = append(r.free, h.index)
	logger.Debug("emulator disposed", "view", s.view, "doc", s.doc)
	return true
}

// CloseView disposes the dispatcher of view, if any.
func (r *Registry) CloseView(view ViewID) bool {
	h, ok := r.byView[view]
	if !ok {
		return false
	}
	return r.Remove(h)
}

// Sweep disposes every dispatcher whose document is no longer open and
// returns how many were removed.
func (r *Registry) Sweep(open []DocumentID) int {
	keep := make(map[DocumentID]struct{}, len(open))
	for _, doc := range open {
		keep[doc] = struct{}{}
	}
	var stale []Handle
	for _, h := range r.byView {
		if _, ok := keep[r.slots[h.index].doc]; !ok {
			stale = append(stale, h)
		}
	}
	for _, h := range stale {
		r.Remove(h)
	}
	return len(stale)
}

// Dispatch routes ev to the dispatcher of view, creating it when needed.
func (r *Registry) Dispatch(view ViewID, doc DocumentID, ed buffer.Editor, ev Event) Result {
	h := r.GetOrCreate(view, doc, ed)
	d, _ := r.Get(h)
	return d.Handle(ev)
}
