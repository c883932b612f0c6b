package buffer

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrOutOfRange is returned when an edit addresses text outside the buffer.
var ErrOutOfRange = errors.New("buffer: position out of range")

// Memory is an in-memory Editor backed by a slice of rune lines.
type Memory struct {
	lines    [][]rune
	sel      Selection
	path     string
	language string
	dirty    bool

	// Viewport state, driven by the host renderer.
	scroll     int
	viewHeight int
}

// NewMemory creates a buffer holding text.
func NewMemory(text string) *Memory {
	return &Memory{lines: splitLines(text), viewHeight: 20}
}

// OpenFile loads path into a new buffer. A missing file yields an empty buffer bound to path.
func OpenFile(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	m := NewMemory(string(data))
	m.path = path
	return m, nil
}

// Save writes the buffer to its path.
func (m *Memory) Save() error {
	if m.path == "" {
		return errors.New("buffer: no file name")
	}
	if err := os.WriteFile(m.path, []byte(m.Content()), 0o644); err != nil {
		return err
	}
	m.dirty = false
	return nil
}

func (m *Memory) Path() string { return m.path }

// SetPath rebinds the buffer to a file; the next Save writes there.
func (m *Memory) SetPath(path string) { m.path = path }

func (m *Memory) Dirty() bool { return m.dirty }

func (m *Memory) LanguageID() string { return m.language }

func (m *Memory) SetLanguage(lang string) { m.language = lang }

func (m *Memory) LineCount() int {
	return len(m.lines)
}

func (m *Memory) LineText(line int) string {
	if line < 0 || line >= len(m.lines) {
		return ""
	}
	return string(m.lines[line])
}

func (m *Memory) Content() string {
	parts := make([]string, len(m.lines))
	for i, l := range m.lines {
		parts[i] = string(l)
	}
	return strings.Join(parts, "\n")
}

func (m *Memory) Cursor() Position {
	return m.sel.Active
}

func (m *Memory) SetCursor(pos Position) {
	m.sel = Collapsed(Clamp(m, pos))
}

func (m *Memory) Selection() Selection {
	return m.sel
}

func (m *Memory) SetSelection(sel Selection) {
	m.sel = Selection{Anchor: Clamp(m, sel.Anchor), Active: Clamp(m, sel.Active)}
}

func (m *Memory) valid(pos Position) bool {
	return pos.Line >= 0 && pos.Line < len(m.lines) && pos.Col >= 0 && pos.Col <= len(m.lines[pos.Line])
}

// InsertText inserts text at pos and leaves the cursor after it.
func (m *Memory) InsertText(pos Position, text string) error {
	if !m.valid(pos) {
		return fmt.Errorf("insert at %s: %w", pos, ErrOutOfRange)
	}
	if text == "" {
		return nil
	}
	parts := splitLines(text)
	line := m.lines[pos.Line]
	if len(parts) == 1 {
		newLine := make([]rune, 0, len(line)+len(parts[0]))
		newLine = append(newLine, line[:pos.Col]...)
		newLine = append(newLine, parts[0]...)
		newLine = append(newLine, line[pos.Col:]...)
		m.lines[pos.Line] = newLine
		m.afterEdit(Position{Line: pos.Line, Col: pos.Col + len(parts[0])})
		return nil
	}

	firstLine := make([]rune, 0, pos.Col+len(parts[0]))
	firstLine = append(firstLine, line[:pos.Col]...)
	firstLine = append(firstLine, parts[0]...)

	suffix := line[pos.Col:]
	last := parts[len(parts)-1]
	lastLine := make([]rune, 0, len(last)+len(suffix))
	lastLine = append(lastLine, last...)
	lastLine = append(lastLine, suffix...)

	newLines := make([][]rune, 0, len(m.lines)+len(parts)-1)
	newLines = append(newLines, m.lines[:pos.Line]...)
	newLines = append(newLines, firstLine)
	newLines = append(newLines, parts[1:len(parts)-1]...)
	newLines = append(newLines, lastLine)
	newLines = append(newLines, m.lines[pos.Line+1:]...)
	m.lines = newLines
	m.afterEdit(Position{Line: pos.Line + len(parts) - 1, Col: len(last)})
	return nil
}

// DeleteRange removes the text in r and leaves the cursor at its start.
func (m *Memory) DeleteRange(r Range) error {
	r = NewRange(r.Start, r.End)
	if !m.valid(r.Start) || !m.valid(r.End) {
		return fmt.Errorf("delete %s-%s: %w", r.Start, r.End, ErrOutOfRange)
	}
	if r.Empty() {
		return nil
	}
	first := m.lines[r.Start.Line]
	last := m.lines[r.End.Line]
	merged := make([]rune, 0, r.Start.Col+len(last)-r.End.Col)
	merged = append(merged, first[:r.Start.Col]...)
	merged = append(merged, last[r.End.Col:]...)

	newLines := make([][]rune, 0, len(m.lines)-(r.End.Line-r.Start.Line))
	newLines = append(newLines, m.lines[:r.Start.Line]...)
	newLines = append(newLines, merged)
	newLines = append(newLines, m.lines[r.End.Line+1:]...)
	m.lines = newLines
	m.afterEdit(r.Start)
	return nil
}

func (m *Memory) afterEdit(cursor Position) {
	m.dirty = true
	m.sel = Collapsed(cursor)
}

// VisibleRange returns the first and last line shown by the host.
func (m *Memory) VisibleRange() (int, int) {
	last := m.scroll + m.viewHeight - 1
	if last >= len(m.lines) {
		last = len(m.lines) - 1
	}
	return m.scroll, last
}

func (m *Memory) RevealLine(line int, at RevealAt) {
	switch at {
	case RevealTop:
		m.scroll = line
	case RevealBottom:
		m.scroll = line - m.viewHeight + 1
	default:
		m.scroll = line - m.viewHeight/2
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// SetViewHeight is called by the renderer whenever the screen size changes.
func (m *Memory) SetViewHeight(h int) {
	if h < 1 {
		h = 1
	}
	m.viewHeight = h
}

func (m *Memory) Scroll() int {
	return m.scroll
}

// EnsureCursorVisible scrolls just enough to keep the cursor on screen.
func (m *Memory) EnsureCursorVisible() {
	row := m.sel.Active.Line
	if row < m.scroll {
		m.scroll = row
	}
	if row >= m.scroll+m.viewHeight {
		m.scroll = row - m.viewHeight + 1
	}
}

func splitLines(text string) [][]rune {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	lines := make([][]rune, len(parts))
	for i, p := range parts {
		lines[i] = []rune(p)
	}
	return lines
}
