// Package killring implements the Emacs kill ring: a fixed-capacity history
// of killed and copied text with a rotating yank pointer.
package killring

import "strings"

// DefaultCapacity matches Emacs' kill-ring-max.
const DefaultCapacity = 60

// Span is one kill-ring entry. Rectangular spans keep one line of text per
// rectangle row, joined with "\n".
type Span struct {
	Text string
	Rect bool
}

// Lines splits the span into rectangle rows.
func (s Span) Lines() []string {
	return strings.Split(s.Text, "\n")
}

// RectSpan builds a rectangular span from its rows.
func RectSpan(rows []string) Span {
	return Span{Text: strings.Join(rows, "\n"), Rect: true}
}

// Ring is a circular buffer of spans. The zero value is not usable; call New.
type Ring struct {
	entries []Span // oldest first
	max     int
	pos     int // rotation index into entries
}

// New creates a ring holding at most capacity entries.
func New(capacity int) *Ring {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Ring{
		entries: make([]Span, 0, capacity),
		max:     capacity,
	}
}

func (r *Ring) Len() int { return len(r.entries) }

func (r *Ring) Cap() int { return r.max }

func (r *Ring) Empty() bool { return len(r.entries) == 0 }

// Push inserts span as the newest entry, evicting the oldest on overflow,
// and points the rotation index at it.
func (r *Ring) Push(span Span) {
	if len(r.entries) == r.max {
		copy(r.entries, r.entries[1:])
		r.entries = r.entries[:len(r.entries)-1]
	}
	r.entries = append(r.entries, span)
	r.pos = len(r.entries) - 1
}

// Append merges span into the newest entry. When atFront is set the new text
// goes before the existing text, which keeps backward kills in reading order.
// An empty ring, or a span whose shape differs from the newest entry, is pushed instead.
func (r *Ring) Append(span Span, atFront bool) {
	if len(r.entries) == 0 {
		r.Push(span)
		return
	}
	newest := &r.entries[len(r.entries)-1]
	if newest.Rect || span.Rect {
		r.Push(span)
		return
	}
	if atFront {
		newest.Text = span.Text + newest.Text
	} else {
		newest.Text += span.Text
	}
	r.pos = len(r.entries) - 1
}

// Current returns the entry at the rotation index.
func (r *Ring) Current() (Span, bool) {
	if len(r.entries) == 0 {
		return Span{}, false
	}
	return r.entries[r.pos], true
}

// CurrentText is Current without the shape flag; an empty ring yields "".
func (r *Ring) CurrentText() string {
	span, _ := r.Current()
	return span.Text
}

// Newest returns the most recently pushed entry regardless of rotation.
func (r *Ring) Newest() (Span, bool) {
	if len(r.entries) == 0 {
		return Span{}, false
	}
	return r.entries[len(r.entries)-1], true
}

// Rotate moves the rotation index by step (negative is towards older
// entries) and returns the newly addressed entry. Rotation wraps in both directions.
func (r *Ring) Rotate(step int) Span {
	n := len(r.entries)
	if n == 0 {
		return Span{}
	}
	r.pos = ((r.pos+step)%n + n) % n
	return r.entries[r.pos]
}

// ReplaceNewest overwrites the newest entry in place.
func (r *Ring) ReplaceNewest(span Span) bool {
	if len(r.entries) == 0 {
		return false
	}
	r.entries[len(r.entries)-1] = span
	return true
}

// Entries returns a copy of the ring, oldest first.
func (r *Ring) Entries() []Span {
	out := make([]Span, len(r.entries))
	copy(out, r.entries)
	return out
}
