package structural

import (
	"strings"
	"unicode/utf8"

	"github.com/kobzarvs/qemacs/internal/buffer"
)

// source is a buffer flattened to one string with byte offsets per line.
type source struct {
	text       string
	lineStarts []int
}

func newSource(t buffer.Text) source {
	var b strings.Builder
	starts := make([]int, t.LineCount())
	for l := 0; l < t.LineCount(); l++ {
		if l > 0 {
			b.WriteByte('\n')
		}
		starts[l] = b.Len()
		b.WriteString(t.LineText(l))
	}
	return source{text: b.String(), lineStarts: starts}
}

func (s source) lineEnd(line int) int {
	if line+1 < len(s.lineStarts) {
		return s.lineStarts[line+1] - 1
	}
	return len(s.text)
}

// offset converts a rune position into a byte offset.
func (s source) offset(pos buffer.Position) int {
	if len(s.lineStarts) == 0 || pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(s.lineStarts) {
		return len(s.text)
	}
	off := s.lineStarts[pos.Line]
	end := s.lineEnd(pos.Line)
	for i := 0; i < pos.Col && off < end; i++ {
		_, size := utf8.DecodeRuneInString(s.text[off:])
		off += size
	}
	return off
}

// position converts a byte offset back into a rune position.
func (s source) position(off int) buffer.Position {
	if off <= 0 || len(s.lineStarts) == 0 {
		return buffer.Position{}
	}
	off = min(off, len(s.text))
	line := len(s.lineStarts) - 1
	for line > 0 && s.lineStarts[line] > off {
		line--
	}
	start := s.lineStarts[line]
	return buffer.Position{Line: line, Col: utf8.RuneCountInString(s.text[start:off])}
}
