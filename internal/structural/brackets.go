package structural

import "unicode"

// brackets is the fallback for languages without a grammar. It works on
// runes and skips over quoted strings.
type brackets struct {
	src []rune
}

func isOpen(r rune) bool  { return r == '(' || r == '[' || r == '{' }
func isClose(r rune) bool { return r == ')' || r == ']' || r == '}' }
func isQuote(r rune) bool { return r == '"' || r == '\'' || r == '`' }

func isAtom(r rune) bool {
	return !unicode.IsSpace(r) && !isOpen(r) && !isClose(r) && !isQuote(r)
}

func (b brackets) skipSpace(off int) int {
	for off < len(b.src) && unicode.IsSpace(b.src[off]) {
		off++
	}
	return off
}

func (b brackets) skipSpaceBack(off int) int {
	for off > 0 && unicode.IsSpace(b.src[off-1]) {
		off--
	}
	return off
}

func (b brackets) forward(off int) (int, bool) {
	off = b.skipSpace(off)
	if off >= len(b.src) {
		return off, false
	}
	switch ch := b.src[off]; {
	case isOpen(ch):
		return b.matchForward(off)
	case isClose(ch):
		return off, false
	case isQuote(ch):
		return b.quoteForward(off)
	}
	for off < len(b.src) && isAtom(b.src[off]) {
		off++
	}
	return off, true
}

func (b brackets) backward(off int) (int, bool) {
	off = b.skipSpaceBack(off)
	if off == 0 {
		return off, false
	}
	switch ch := b.src[off-1]; {
	case isClose(ch):
		return b.matchBackward(off)
	case isOpen(ch):
		return off, false
	case isQuote(ch):
		return b.quoteBackward(off)
	}
	for off > 0 && isAtom(b.src[off-1]) {
		off--
	}
	return off, true
}

// matchForward returns the offset after the bracket matching the opener at off.
func (b brackets) matchForward(off int) (int, bool) {
	depth := 0
	for i := off; i < len(b.src); i++ {
		ch := b.src[i]
		switch {
		case isQuote(ch):
			end, ok := b.quoteForward(i)
			if !ok {
				return off, false
			}
			i = end - 1
		case isOpen(ch):
			depth++
		case isClose(ch):
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return off, false
}

// matchBackward returns the offset of the opener matching the closer before off.
func (b brackets) matchBackward(off int) (int, bool) {
	depth := 0
	for i := off - 1; i >= 0; i-- {
		ch := b.src[i]
		switch {
		case isQuote(ch):
			start, ok := b.quoteBackward(i + 1)
			if !ok {
				return off, false
			}
			i = start
		case isClose(ch):
			depth++
		case isOpen(ch):
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return off, false
}

func (b brackets) quoteForward(off int) (int, bool) {
	q := b.src[off]
	for i := off + 1; i < len(b.src); i++ {
		if b.src[i] == '\\' {
			i++
			continue
		}
		if b.src[i] == q {
			return i + 1, true
		}
	}
	return off, false
}

// quoteBackward finds the opening quote of the string ending just before off.
func (b brackets) quoteBackward(off int) (int, bool) {
	q := b.src[off-1]
	for i := off - 2; i >= 0; i-- {
		if b.src[i] == q && (i == 0 || b.src[i-1] != '\\') {
			return i, true
		}
	}
	return off, false
}

// down returns the offset just inside the next opener, failing at the end
// of the enclosing list.
func (b brackets) down(off int) (int, bool) {
	for i := off; i < len(b.src); i++ {
		ch := b.src[i]
		switch {
		case isQuote(ch):
			end, ok := b.quoteForward(i)
			if !ok {
				return off, false
			}
			i = end - 1
		case isOpen(ch):
			return i + 1, true
		case isClose(ch):
			return off, false
		}
	}
	return off, false
}

// up returns the offset of the opener enclosing off.
func (b brackets) up(off int) (int, bool) {
	depth := 0
	for i := off - 1; i >= 0; i-- {
		switch ch := b.src[i]; {
		case isClose(ch):
			depth++
		case isOpen(ch):
			if depth == 0 {
				return i, true
			}
			depth--
		}
	}
	return off, false
}
