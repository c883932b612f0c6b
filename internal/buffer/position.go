package buffer

import "fmt"

// Position is a zero-based line/column address. Columns count runes.
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Before reports whether p sorts strictly before o.
func (p Position) Before(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Col < o.Col
}

// Range is a half-open span of text. Start is always <= End once normalized.
type Range struct {
	Start Position
	End   Position
}

// NewRange builds a normalized range from two positions in any order.
func NewRange(a, b Position) Range {
	if b.Before(a) {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}

func (r Range) Empty() bool {
	return r.Start == r.End
}

// Selection mirrors a host selection: Anchor stays put while Active follows the cursor.
type Selection struct {
	Anchor Position
	Active Position
}

// Collapsed returns an empty selection at pos.
func Collapsed(pos Position) Selection {
	return Selection{Anchor: pos, Active: pos}
}

func (s Selection) Empty() bool {
	return s.Anchor == s.Active
}

func (s Selection) Range() Range {
	return NewRange(s.Anchor, s.Active)
}
