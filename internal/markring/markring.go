// Package markring keeps the per-buffer mark history and the mark/rectangle flags.
package markring

import (
	"errors"

	"github.com/kobzarvs/qemacs/internal/buffer"
)

// ErrNoMark is reported when an operation needs a mark and none is set.
var ErrNoMark = errors.New("No mark set")

// DefaultDepth bounds the stack like Emacs' mark-ring-max.
const DefaultDepth = 16

// Ring is a stack of mark positions. The top of the stack is the current mark.
type Ring struct {
	marks    []buffer.Position
	maxDepth int
	active   bool
	rect     bool
}

func New(maxDepth int) *Ring {
	if maxDepth < 1 {
		maxDepth = DefaultDepth
	}
	return &Ring{maxDepth: maxDepth}
}

// SetMark pushes pos and activates the mark. The oldest entry is dropped once
// the stack reaches its depth limit.
func (r *Ring) SetMark(pos buffer.Position) {
	r.Push(pos)
	r.active = true
}

// Push records pos without activating the mark, like Emacs' push-mark.
func (r *Ring) Push(pos buffer.Position) {
	if len(r.marks) == r.maxDepth {
		r.marks = append(r.marks[:0], r.marks[1:]...)
	}
	r.marks = append(r.marks, pos)
}

// PopMark removes and returns the top entry.
func (r *Ring) PopMark() (buffer.Position, bool) {
	if len(r.marks) == 0 {
		r.active = false
		r.rect = false
		return buffer.Position{}, false
	}
	top := r.marks[len(r.marks)-1]
	r.marks = r.marks[:len(r.marks)-1]
	if len(r.marks) == 0 {
		r.active = false
		r.rect = false
	}
	return top, true
}

// ExchangePointAndMark swaps point with the top of the stack. Depth is unchanged.
func (r *Ring) ExchangePointAndMark(point buffer.Position) (newPoint, newMark buffer.Position, err error) {
	if !r.active || len(r.marks) == 0 {
		return point, point, ErrNoMark
	}
	top := len(r.marks) - 1
	newPoint = r.marks[top]
	r.marks[top] = point
	return newPoint, point, nil
}

// Top returns the current mark without popping it.
func (r *Ring) Top() (buffer.Position, bool) {
	if len(r.marks) == 0 {
		return buffer.Position{}, false
	}
	return r.marks[len(r.marks)-1], true
}

// Activate re-enables the mark on the existing top entry.
func (r *Ring) Activate() error {
	if len(r.marks) == 0 {
		return ErrNoMark
	}
	r.active = true
	return nil
}

// Deactivate clears the active and rectangle flags but keeps the history.
func (r *Ring) Deactivate() {
	r.active = false
	r.rect = false
}

func (r *Ring) EnterRectangleMode() error {
	if !r.active {
		return ErrNoMark
	}
	r.rect = true
	return nil
}

func (r *Ring) ExitRectangleMode() {
	r.rect = false
}

func (r *Ring) Active() bool { return r.active }

func (r *Ring) RectangleMode() bool { return r.rect }

func (r *Ring) Depth() int { return len(r.marks) }

// Clear drops every mark.
func (r *Ring) Clear() {
	r.marks = nil
	r.active = false
	r.rect = false
}

// State is a copy of the ring used to roll back a failed command.
type State struct {
	marks  []buffer.Position
	active bool
	rect   bool
}

func (r *Ring) Snapshot() State {
	return State{marks: append([]buffer.Position(nil), r.marks...), active: r.active, rect: r.rect}
}

func (r *Ring) Restore(s State) {
	r.marks = append(r.marks[:0], s.marks...)
	r.active = s.active
	r.rect = s.rect
}
