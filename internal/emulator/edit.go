package emulator

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kobzarvs/qemacs/internal/buffer"
	"github.com/kobzarvs/qemacs/internal/killring"
)

// endAfter returns where text ends when inserted at start.
func endAfter(start buffer.Position, text string) buffer.Position {
	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		return buffer.Position{Line: start.Line, Col: start.Col + utf8.RuneCountInString(text)}
	}
	last := lines[len(lines)-1]
	return buffer.Position{Line: start.Line + len(lines) - 1, Col: utf8.RuneCountInString(last)}
}

// insert places text at point and leaves point after it.
func (d *Dispatcher) insert(text string) error {
	start := d.ed.Cursor()
	if err := d.ed.InsertText(start, text); err != nil {
		return err
	}
	d.ed.SetCursor(endAfter(start, text))
	d.marks.Deactivate()
	return nil
}

// activeRegion returns the host selection while the mark is active.
func (d *Dispatcher) activeRegion() (buffer.Range, bool) {
	sel := d.ed.Selection()
	if !d.marks.Active() || sel.Empty() {
		return buffer.Range{}, false
	}
	return sel.Range(), true
}

// region is the text between point and the mark.
func (d *Dispatcher) region() (buffer.Range, error) {
	if sel := d.ed.Selection(); !sel.Empty() {
		return sel.Range(), nil
	}
	top, ok := d.marks.Top()
	if !ok {
		return buffer.Range{}, ErrNoActiveMark
	}
	return buffer.NewRange(top, d.ed.Cursor()), nil
}

func (d *Dispatcher) deleteRange(r buffer.Range) error {
	if r.Empty() {
		return nil
	}
	if err := d.ed.DeleteRange(r); err != nil {
		return err
	}
	d.ed.SetCursor(r.Start)
	d.marks.Deactivate()
	return nil
}

func deleteBackwardChar(d *Dispatcher, c call) (string, error) {
	if r, ok := d.activeRegion(); ok {
		return "", d.deleteRange(r)
	}
	p := d.ed.Cursor()
	start := repeatMotion(d.ed, p, c.n, backwardChar, forwardChar)
	return "", d.deleteRange(buffer.NewRange(start, p))
}

func deleteForwardChar(d *Dispatcher, c call) (string, error) {
	if r, ok := d.activeRegion(); ok {
		return "", d.deleteRange(r)
	}
	p := d.ed.Cursor()
	end := repeatMotion(d.ed, p, c.n, forwardChar, backwardChar)
	return "", d.deleteRange(buffer.NewRange(p, end))
}

// maxInsert bounds the bytes a repeated insertion may produce.
const maxInsert = 1 << 20

func (d *Dispatcher) insertRepeated(text string, n int) error {
	if n <= 0 || text == "" {
		return nil
	}
	if n > maxInsert/len(text) {
		return ErrInvalidRepeatArgument
	}
	return d.insert(strings.Repeat(text, n))
}

func newLine(d *Dispatcher, c call) (string, error) {
	return "", d.insertRepeated("\n", c.n)
}

func typeChar(d *Dispatcher, c call) (string, error) {
	if len(c.args) == 0 {
		return "", ErrInvalidRepeatArgument
	}
	return "", d.insertRepeated(c.args[0], c.n)
}

// Kill directions.
const (
	killBackward  = -1
	killRegionDir = 0
	killForward   = 1
)

// kill deletes r and saves its text. A kill in the same direction right
// after another kill, with point where that kill left it, grows the newest
// entry instead of pushing a new one.
func (d *Dispatcher) kill(r buffer.Range, dir int) error {
	r = buffer.NewRange(r.Start, r.End)
	if r.Empty() {
		return nil
	}
	before := d.ed.Cursor()
	text := buffer.TextRange(d.ed, r)
	if err := d.ed.DeleteRange(r); err != nil {
		return err
	}
	span := killring.Span{Text: text}
	if dir != killRegionDir && d.prev.kill && d.prev.killDir == dir && d.prev.point == before {
		d.kills.Append(span, dir == killBackward)
	} else {
		d.kills.Push(span)
	}
	d.ed.SetCursor(r.Start)
	d.marks.Deactivate()
	d.this.kill = true
	d.this.killDir = dir
	d.this.point = d.ed.Cursor()
	d.exportKill()
	return nil
}

// killLine kills to the end of the line, or the line break itself when only
// blanks remain. With an argument n it kills n whole lines forward, or back
// to the start of the line for n <= 0.
func killLine(d *Dispatcher, c call) (string, error) {
	p := d.ed.Cursor()
	if !c.present {
		rest := []rune(d.ed.LineText(p.Line))
		end := buffer.Position{Line: p.Line, Col: len(rest)}
		if p.Col < len(rest) && strings.TrimSpace(string(rest[p.Col:])) != "" {
			return "", d.kill(buffer.Range{Start: p, End: end}, killForward)
		}
		if p.Line < d.ed.LineCount()-1 {
			end = buffer.Position{Line: p.Line + 1}
		}
		return "", d.kill(buffer.Range{Start: p, End: end}, killForward)
	}
	if c.n > 0 {
		end := buffer.EndOfBuffer(d.ed)
		if p.Line+c.n < d.ed.LineCount() {
			end = buffer.Position{Line: p.Line + c.n}
		}
		return "", d.kill(buffer.Range{Start: p, End: end}, killForward)
	}
	start := buffer.Position{Line: max(p.Line+c.n, 0)}
	return "", d.kill(buffer.Range{Start: start, End: p}, killBackward)
}

func killWholeLine(d *Dispatcher, c call) (string, error) {
	p := d.ed.Cursor()
	count := d.ed.LineCount()
	if c.n == 0 {
		return "", d.kill(buffer.Range{
			Start: buffer.Position{Line: p.Line},
			End:   buffer.Position{Line: p.Line, Col: buffer.LineLen(d.ed, p.Line)},
		}, killForward)
	}
	first, last := p.Line, p.Line+c.n-1
	if c.n < 0 {
		first, last = max(p.Line+c.n+1, 0), p.Line
	}
	last = min(last, count-1)
	start := buffer.Position{Line: first}
	var end buffer.Position
	if last+1 < count {
		end = buffer.Position{Line: last + 1}
	} else {
		end = buffer.EndOfBuffer(d.ed)
		if first > 0 {
			start = buffer.Position{Line: first - 1, Col: buffer.LineLen(d.ed, first-1)}
		}
	}
	return "", d.kill(buffer.Range{Start: start, End: end}, killForward)
}

func killWord(d *Dispatcher, c call) (string, error) {
	p := d.ed.Cursor()
	if c.n < 0 {
		start := repeatMotion(d.ed, p, -c.n, backwardWord, forwardWord)
		return "", d.kill(buffer.Range{Start: start, End: p}, killBackward)
	}
	end := repeatMotion(d.ed, p, c.n, forwardWord, backwardWord)
	return "", d.kill(buffer.Range{Start: p, End: end}, killForward)
}

func backwardKillWord(d *Dispatcher, c call) (string, error) {
	c.n = -c.n
	return killWord(d, c)
}

func killRegion(d *Dispatcher, c call) (string, error) {
	r, err := d.region()
	if err != nil {
		return "", err
	}
	return "", d.kill(r, killRegionDir)
}

func copyRegion(d *Dispatcher, c call) (string, error) {
	r, err := d.region()
	if err != nil {
		return "", err
	}
	if !r.Empty() {
		d.kills.Push(killring.Span{Text: buffer.TextRange(d.ed, r)})
		d.exportKill()
	}
	d.marks.Deactivate()
	d.ed.SetCursor(d.ed.Cursor())
	return "", nil
}

// yank inserts the current kill. A numeric argument n picks the entry n-1
// steps older; a bare C-u leaves point before the text.
func yank(d *Dispatcher, c call) (string, error) {
	d.importClipboard()
	if d.kills.Empty() {
		return "", ErrEmptyKillRing
	}
	if c.present && !c.univ && c.n != 1 {
		d.kills.Rotate(-(c.n - 1))
	}
	span, _ := d.kills.Current()
	start := d.ed.Cursor()
	if err := d.ed.InsertText(start, span.Text); err != nil {
		return "", err
	}
	end := endAfter(start, span.Text)
	d.marks.Deactivate()
	if c.univ {
		d.marks.Push(end)
		d.ed.SetCursor(start)
	} else {
		d.marks.Push(start)
		d.ed.SetCursor(end)
	}
	d.this.yank = true
	d.this.yanked = buffer.Range{Start: start, End: end}
	return "", nil
}

// yankPop replaces the text of the previous yank with an older kill.
func yankPop(d *Dispatcher, c call) (string, error) {
	if !d.prev.yank {
		return "", ErrNoPreviousYank
	}
	if d.kills.Empty() {
		return "", ErrEmptyKillRing
	}
	span := d.kills.Rotate(-c.n)
	r := d.prev.yanked
	if err := d.ed.DeleteRange(r); err != nil {
		return "", err
	}
	if err := d.ed.InsertText(r.Start, span.Text); err != nil {
		return "", err
	}
	end := endAfter(r.Start, span.Text)
	d.ed.SetCursor(end)
	d.this.yank = true
	d.this.yanked = buffer.Range{Start: r.Start, End: end}
	return "", nil
}

// deleteBlankLines collapses a run of blank lines around point to one,
// deletes a lone blank line, or on a text line deletes the blank lines that
// follow it.
func deleteBlankLines(d *Dispatcher, c call) (string, error) {
	line := d.ed.Cursor().Line
	count := d.ed.LineCount()
	if !blankLine(d.ed, line) {
		last := line
		for last+1 < count && blankLine(d.ed, last+1) {
			last++
		}
		if last == line {
			return "", nil
		}
		r := buffer.Range{
			Start: buffer.Position{Line: line, Col: buffer.LineLen(d.ed, line)},
			End:   buffer.Position{Line: last, Col: buffer.LineLen(d.ed, last)},
		}
		cur := d.ed.Cursor()
		if err := d.deleteRange(r); err != nil {
			return "", err
		}
		d.ed.SetCursor(cur)
		return "", nil
	}
	first, last := line, line
	for first > 0 && blankLine(d.ed, first-1) {
		first--
	}
	for last+1 < count && blankLine(d.ed, last+1) {
		last++
	}
	var r buffer.Range
	switch {
	case first < last:
		r = buffer.Range{
			Start: buffer.Position{Line: first},
			End:   buffer.Position{Line: last, Col: buffer.LineLen(d.ed, last)},
		}
		if err := d.deleteRange(r); err != nil {
			return "", err
		}
		return "", nil
	case last+1 < count:
		r = buffer.Range{Start: buffer.Position{Line: first}, End: buffer.Position{Line: first + 1}}
	case first > 0:
		r = buffer.Range{
			Start: buffer.Position{Line: first - 1, Col: buffer.LineLen(d.ed, first-1)},
			End:   buffer.Position{Line: first, Col: buffer.LineLen(d.ed, first)},
		}
	default:
		r = buffer.Range{End: buffer.Position{Col: buffer.LineLen(d.ed, 0)}}
	}
	return "", d.deleteRange(r)
}

var (
	upcase    = cases.Upper(language.Und).String
	downcase  = cases.Lower(language.Und).String
	titlecase = cases.Title(language.Und).String
)

// transform rewrites the active region, or n words from point, with caser.
func transform(caser func(string) string) commandFunc {
	return func(d *Dispatcher, c call) (string, error) {
		p := d.ed.Cursor()
		r, region := d.activeRegion()
		if !region {
			end := repeatMotion(d.ed, p, c.n, forwardWord, backwardWord)
			r = buffer.NewRange(p, end)
		}
		if r.Empty() {
			return "", nil
		}
		text := buffer.TextRange(d.ed, r)
		out := caser(text)
		end := endAfter(r.Start, out)
		if out != text {
			if err := d.ed.DeleteRange(r); err != nil {
				return "", err
			}
			if err := d.ed.InsertText(r.Start, out); err != nil {
				return "", err
			}
		}
		d.marks.Deactivate()
		switch {
		case region:
			d.ed.SetCursor(end)
		case c.n < 0:
			d.ed.SetCursor(p)
		default:
			d.ed.SetCursor(end)
		}
		return "", nil
	}
}
