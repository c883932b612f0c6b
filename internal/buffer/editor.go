package buffer

// Text is the read-only view of a buffer used by search and rectangle extraction.
type Text interface {
	LineText(line int) string
	LineCount() int
}

// Editor is the host surface the emulator drives. Every mutation is applied
// atomically and reports an error instead of clamping silently.
type Editor interface {
	Text
	Cursor() Position
	SetCursor(pos Position)
	Selection() Selection
	SetSelection(sel Selection)
	InsertText(pos Position, text string) error
	DeleteRange(r Range) error
}

// RevealAt says where RevealLine should place a line inside the viewport.
type RevealAt int

const (
	RevealCenter RevealAt = iota
	RevealTop
	RevealBottom
)

// Viewport is implemented by hosts that can scroll.
type Viewport interface {
	VisibleRange() (first, last int)
	RevealLine(line int, at RevealAt)
}

// LanguageSource is implemented by hosts that know the language of the document.
type LanguageSource interface {
	LanguageID() string
}

// TextRange returns the text covered by r, lines joined with "\n".
func TextRange(t Text, r Range) string {
	r = NewRange(r.Start, r.End)
	if r.Start.Line == r.End.Line {
		line := []rune(t.LineText(r.Start.Line))
		return string(line[clampCol(r.Start.Col, len(line)):clampCol(r.End.Col, len(line))])
	}
	var out []rune
	first := []rune(t.LineText(r.Start.Line))
	out = append(out, first[clampCol(r.Start.Col, len(first)):]...)
	for l := r.Start.Line + 1; l < r.End.Line; l++ {
		out = append(out, '\n')
		out = append(out, []rune(t.LineText(l))...)
	}
	last := []rune(t.LineText(r.End.Line))
	out = append(out, '\n')
	out = append(out, last[:clampCol(r.End.Col, len(last))]...)
	return string(out)
}

// LineLen returns the rune length of a line.
func LineLen(t Text, line int) int {
	return len([]rune(t.LineText(line)))
}

// EndOfBuffer returns the position after the last rune.
func EndOfBuffer(t Text) Position {
	last := t.LineCount() - 1
	if last < 0 {
		return Position{}
	}
	return Position{Line: last, Col: LineLen(t, last)}
}

// Clamp moves pos inside the buffer.
func Clamp(t Text, pos Position) Position {
	if pos.Line < 0 {
		return Position{}
	}
	if pos.Line >= t.LineCount() {
		return EndOfBuffer(t)
	}
	pos.Col = clampCol(pos.Col, LineLen(t, pos.Line))
	return pos
}

// Offset converts pos into a rune offset from the start of the buffer,
// counting one rune per line break.
func Offset(t Text, pos Position) int {
	pos = Clamp(t, pos)
	off := 0
	for l := 0; l < pos.Line; l++ {
		off += LineLen(t, l) + 1
	}
	return off + pos.Col
}

// PositionAt is the inverse of Offset.
func PositionAt(t Text, off int) Position {
	if off <= 0 {
		return Position{}
	}
	n := t.LineCount()
	for l := 0; l < n; l++ {
		ll := LineLen(t, l)
		if off <= ll {
			return Position{Line: l, Col: off}
		}
		off -= ll + 1
	}
	return EndOfBuffer(t)
}

func clampCol(col, n int) int {
	if col < 0 {
		return 0
	}
	if col > n {
		return n
	}
	return col
}
