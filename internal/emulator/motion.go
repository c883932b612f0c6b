package emulator

import (
	"strings"
	"unicode"

	"github.com/kobzarvs/qemacs/internal/buffer"
)

// runeAt returns the rune after pos; line ends read as '\n'.
func runeAt(t buffer.Text, pos buffer.Position) (rune, bool) {
	line := []rune(t.LineText(pos.Line))
	if pos.Col < len(line) {
		return line[pos.Col], true
	}
	if pos.Line < t.LineCount()-1 {
		return '\n', true
	}
	return 0, false
}

// runeBefore returns the rune before pos.
func runeBefore(t buffer.Text, pos buffer.Position) (rune, bool) {
	if pos.Col > 0 {
		line := []rune(t.LineText(pos.Line))
		if pos.Col <= len(line) {
			return line[pos.Col-1], true
		}
	}
	if pos.Col == 0 && pos.Line > 0 {
		return '\n', true
	}
	return 0, false
}

func forwardChar(t buffer.Text, pos buffer.Position) buffer.Position {
	if pos.Col < buffer.LineLen(t, pos.Line) {
		pos.Col++
		return pos
	}
	if pos.Line < t.LineCount()-1 {
		return buffer.Position{Line: pos.Line + 1}
	}
	return pos
}

func backwardChar(t buffer.Text, pos buffer.Position) buffer.Position {
	if pos.Col > 0 {
		pos.Col--
		return pos
	}
	if pos.Line > 0 {
		return buffer.Position{Line: pos.Line - 1, Col: buffer.LineLen(t, pos.Line-1)}
	}
	return pos
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// forwardWord moves past the next word, skipping separators first.
func forwardWord(t buffer.Text, pos buffer.Position) buffer.Position {
	for {
		r, ok := runeAt(t, pos)
		if !ok || isWordRune(r) {
			break
		}
		pos = forwardChar(t, pos)
	}
	for {
		r, ok := runeAt(t, pos)
		if !ok || !isWordRune(r) {
			break
		}
		pos = forwardChar(t, pos)
	}
	return pos
}

func backwardWord(t buffer.Text, pos buffer.Position) buffer.Position {
	for {
		r, ok := runeBefore(t, pos)
		if !ok || isWordRune(r) {
			break
		}
		pos = backwardChar(t, pos)
	}
	for {
		r, ok := runeBefore(t, pos)
		if !ok || !isWordRune(r) {
			break
		}
		pos = backwardChar(t, pos)
	}
	return pos
}

func indentation(t buffer.Text, line int) int {
	for i, r := range []rune(t.LineText(line)) {
		if r != ' ' && r != '\t' {
			return i
		}
	}
	return buffer.LineLen(t, line)
}

func blankLine(t buffer.Text, line int) bool {
	return strings.TrimSpace(t.LineText(line)) == ""
}

// forwardParagraph moves to the next blank line after some text.
func forwardParagraph(t buffer.Text, pos buffer.Position) buffer.Position {
	l := pos.Line
	last := t.LineCount() - 1
	for l < last && blankLine(t, l) {
		l++
	}
	for l < last && !blankLine(t, l) {
		l++
	}
	if l == last && !blankLine(t, l) {
		return buffer.EndOfBuffer(t)
	}
	return buffer.Position{Line: l}
}

func backwardParagraph(t buffer.Text, pos buffer.Position) buffer.Position {
	l := pos.Line
	if pos.Col == 0 && l > 0 {
		l--
	}
	for l > 0 && blankLine(t, l) {
		l--
	}
	for l > 0 && !blankLine(t, l) {
		l--
	}
	return buffer.Position{Line: l}
}

// lineAt clamps line into the buffer and places the column as close to goal as it fits.
func lineAt(t buffer.Text, line, goal int) buffer.Position {
	if line < 0 {
		line = 0
	}
	if last := t.LineCount() - 1; line > last {
		line = last
	}
	return buffer.Position{Line: line, Col: min(goal, buffer.LineLen(t, line))}
}

// repeatMotion applies step |n| times, using back when n is negative.
func repeatMotion(t buffer.Text, pos buffer.Position, n int, step, back func(buffer.Text, buffer.Position) buffer.Position) buffer.Position {
	if n < 0 {
		step, n = back, -n
	}
	for i := 0; i < n; i++ {
		next := step(t, pos)
		if next == pos {
			break
		}
		pos = next
	}
	return pos
}
