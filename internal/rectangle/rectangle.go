// Package rectangle implements column-bounded, multi-line text operations.
// Columns count runes; every line of a rectangle is edited independently so
// lines never merge.
package rectangle

import (
	"errors"
	"strings"

	"github.com/kobzarvs/qemacs/internal/buffer"
	"github.com/kobzarvs/qemacs/internal/killring"
)

var (
	ErrNotARectangleEntry = errors.New("No rectangle to yank")
	ErrEmptyKillRing      = errors.New("Kill ring is empty")
)

// Rect is the bounding box of two positions. EndCol is exclusive.
type Rect struct {
	StartLine int
	EndLine   int
	StartCol  int
	EndCol    int
}

// Bounds returns the rectangle spanned by point and mark.
func Bounds(a, b buffer.Position) Rect {
	r := Rect{StartLine: a.Line, EndLine: b.Line, StartCol: a.Col, EndCol: b.Col}
	if r.StartLine > r.EndLine {
		r.StartLine, r.EndLine = r.EndLine, r.StartLine
	}
	if r.StartCol > r.EndCol {
		r.StartCol, r.EndCol = r.EndCol, r.StartCol
	}
	return r
}

func (r Rect) Width() int { return r.EndCol - r.StartCol }

func (r Rect) Height() int { return r.EndLine - r.StartLine + 1 }

// Empty reports a zero-width rectangle.
func (r Rect) Empty() bool { return r.Width() == 0 }

func (r Rect) TopLeft() buffer.Position {
	return buffer.Position{Line: r.StartLine, Col: r.StartCol}
}

// Extract returns one row per spanned line. Rows of lines that end inside the
// rectangle are padded with spaces so every row is exactly Width runes.
func Extract(t buffer.Text, r Rect) []string {
	rows := make([]string, 0, r.Height())
	for l := r.StartLine; l <= r.EndLine; l++ {
		line := []rune(t.LineText(l))
		if len(line) <= r.StartCol {
			rows = append(rows, spaces(r.Width()))
			continue
		}
		end := min(r.EndCol, len(line))
		rows = append(rows, string(line[r.StartCol:end])+spaces(r.EndCol-end))
	}
	return rows
}

// Copy pushes the rectangle onto ring without touching the buffer.
func Copy(t buffer.Text, ring *killring.Ring, r Rect) bool {
	if r.Empty() {
		return false
	}
	ring.Push(killring.RectSpan(Extract(t, r)))
	return true
}

// Kill removes the rectangle and pushes it onto ring.
func Kill(ed buffer.Editor, ring *killring.Ring, r Rect) error {
	if r.Empty() {
		return nil
	}
	rows := Extract(ed, r)
	if err := Delete(ed, r); err != nil {
		return err
	}
	ring.Push(killring.RectSpan(rows))
	return nil
}

// Delete removes the rectangle's columns from every spanned line.
func Delete(ed buffer.Editor, r Rect) error {
	if r.Empty() {
		return nil
	}
	for l := r.StartLine; l <= r.EndLine; l++ {
		n := buffer.LineLen(ed, l)
		if n <= r.StartCol {
			continue
		}
		span := buffer.Range{
			Start: buffer.Position{Line: l, Col: r.StartCol},
			End:   buffer.Position{Line: l, Col: min(r.EndCol, n)},
		}
		if err := ed.DeleteRange(span); err != nil {
			return err
		}
	}
	ed.SetCursor(r.TopLeft())
	return nil
}

// Yank inserts the current kill-ring entry as a rectangle whose top-left
// corner is at. Lines are appended at the end of the buffer when needed and
// short lines are padded so columns stay aligned. It returns the position
// after the last inserted row.
func Yank(ed buffer.Editor, ring *killring.Ring, at buffer.Position) (buffer.Position, error) {
	span, ok := ring.Current()
	if !ok {
		return at, ErrEmptyKillRing
	}
	if !span.Rect {
		return at, ErrNotARectangleEntry
	}
	return insertRows(ed, span.Lines(), at)
}

func insertRows(ed buffer.Editor, rows []string, at buffer.Position) (buffer.Position, error) {
	end := at
	for i, row := range rows {
		l := at.Line + i
		if l >= ed.LineCount() {
			if err := ed.InsertText(buffer.EndOfBuffer(ed), "\n"); err != nil {
				return end, err
			}
		}
		if err := padTo(ed, l, at.Col); err != nil {
			return end, err
		}
		pos := buffer.Position{Line: l, Col: at.Col}
		if err := ed.InsertText(pos, row); err != nil {
			return end, err
		}
		end = buffer.Position{Line: l, Col: at.Col + len([]rune(row))}
	}
	ed.SetCursor(end)
	return end, nil
}

// Open inserts blank space of the rectangle's width at its left edge,
// shifting existing text right.
func Open(ed buffer.Editor, r Rect) error {
	if r.Empty() {
		return nil
	}
	blank := spaces(r.Width())
	for l := r.StartLine; l <= r.EndLine; l++ {
		if buffer.LineLen(ed, l) < r.StartCol {
			continue
		}
		if err := ed.InsertText(buffer.Position{Line: l, Col: r.StartCol}, blank); err != nil {
			return err
		}
	}
	ed.SetCursor(r.TopLeft())
	return nil
}

// Clear blanks the rectangle in place. Lines ending inside the rectangle are
// cut at its left edge unless fill is set, in which case they are padded to
// its full width.
func Clear(ed buffer.Editor, r Rect, fill bool) error {
	if r.Empty() {
		return nil
	}
	for l := r.StartLine; l <= r.EndLine; l++ {
		n := buffer.LineLen(ed, l)
		if n <= r.StartCol {
			if fill {
				if err := padTo(ed, l, r.EndCol); err != nil {
					return err
				}
			}
			continue
		}
		end := min(r.EndCol, n)
		start := buffer.Position{Line: l, Col: r.StartCol}
		if err := ed.DeleteRange(buffer.Range{Start: start, End: buffer.Position{Line: l, Col: end}}); err != nil {
			return err
		}
		if end < n || fill {
			if err := ed.InsertText(start, spaces(r.Width())); err != nil {
				return err
			}
		}
	}
	ed.SetCursor(r.TopLeft())
	return nil
}

// String replaces the rectangle on every spanned line with text. A zero-width
// rectangle turns this into a column insertion.
func String(ed buffer.Editor, r Rect, text string) error {
	var end buffer.Position
	for l := r.StartLine; l <= r.EndLine; l++ {
		if err := padTo(ed, l, r.StartCol); err != nil {
			return err
		}
		n := buffer.LineLen(ed, l)
		start := buffer.Position{Line: l, Col: r.StartCol}
		if stop := min(r.EndCol, n); stop > r.StartCol {
			if err := ed.DeleteRange(buffer.Range{Start: start, End: buffer.Position{Line: l, Col: stop}}); err != nil {
				return err
			}
		}
		if err := ed.InsertText(start, text); err != nil {
			return err
		}
		end = buffer.Position{Line: l, Col: r.StartCol + len([]rune(text))}
	}
	ed.SetCursor(end)
	return nil
}

// ReplaceKillRingToRectangle turns the newest linear entry into a rectangle,
// one row per line of text.
func ReplaceKillRingToRectangle(ring *killring.Ring) error {
	span, ok := ring.Newest()
	if !ok {
		return ErrEmptyKillRing
	}
	if span.Rect {
		return nil
	}
	ring.ReplaceNewest(killring.RectSpan(strings.Split(span.Text, "\n")))
	return nil
}

func padTo(ed buffer.Editor, line, col int) error {
	n := buffer.LineLen(ed, line)
	if n >= col {
		return nil
	}
	return ed.InsertText(buffer.Position{Line: line, Col: n}, spaces(col-n))
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
