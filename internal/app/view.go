package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/qemacs/internal/buffer"
	"github.com/kobzarvs/qemacs/internal/config"
	"github.com/kobzarvs/qemacs/internal/emulator"
	"github.com/kobzarvs/qemacs/internal/rectangle"
)

type styles struct {
	main      tcell.Style
	status    tcell.Style
	mini      tcell.Style
	selection tcell.Style
	match     tcell.Style
	err       tcell.Style
}

func newStyles(t config.Theme) styles {
	pair := func(fg, bg string) tcell.Style {
		return tcell.StyleDefault.Foreground(tcell.GetColor(fg)).Background(tcell.GetColor(bg))
	}
	return styles{
		main:      pair(t.Foreground, t.Background),
		status:    pair(t.StatuslineForeground, t.StatuslineBackground),
		mini:      pair(t.MinibufferForeground, t.MinibufferBackground),
		selection: pair(t.SelectionForeground, t.SelectionBackground),
		match:     pair(t.SearchMatchForeground, t.SearchMatchBackground),
		err:       pair(t.ErrorForeground, t.MinibufferBackground),
	}
}

// highlight decides the style of one buffer cell.
type highlight func(pos buffer.Position) (tcell.Style, bool)

func (a *App) highlighter(d *emulator.Dispatcher) highlight {
	sel := a.doc.buf.Selection()
	if d == nil || sel.Empty() {
		return func(buffer.Position) (tcell.Style, bool) { return tcell.Style{}, false }
	}
	switch d.Mode() {
	case emulator.ModeSearching:
		r := sel.Range()
		return func(p buffer.Position) (tcell.Style, bool) {
			return a.styles.match, inRange(r, p)
		}
	case emulator.ModeRectangleMark:
		rect := rectangle.Bounds(sel.Anchor, sel.Active)
		return func(p buffer.Position) (tcell.Style, bool) {
			in := p.Line >= rect.StartLine && p.Line <= rect.EndLine &&
				p.Col >= rect.StartCol && p.Col < rect.EndCol
			return a.styles.selection, in
		}
	}
	r := sel.Range()
	return func(p buffer.Position) (tcell.Style, bool) {
		return a.styles.selection, inRange(r, p)
	}
}

func inRange(r buffer.Range, p buffer.Position) bool {
	return !p.Before(r.Start) && p.Before(r.End)
}

// displayCol is the screen column of col in line.
func displayCol(line []rune, col, tabWidth int) int {
	tabWidth = max(tabWidth, 1)
	col = min(max(col, 0), len(line))
	x := 0
	for _, r := range line[:col] {
		x += cellWidth(r, x, tabWidth)
	}
	return x
}

func cellWidth(r rune, x, tabWidth int) int {
	if r == '\t' {
		return tabWidth - x%tabWidth
	}
	return max(runewidth.RuneWidth(r), 1)
}

func (a *App) render() {
	s := a.screen
	w, h := s.Size()
	if w <= 0 || h <= 0 || a.doc == nil {
		return
	}
	viewHeight := max(h-2, 1)
	buf := a.doc.buf
	buf.SetViewHeight(viewHeight)
	buf.EnsureCursorVisible()

	s.SetStyle(a.styles.main)
	s.Clear()

	d := a.dispatcher()
	hl := a.highlighter(d)
	top := buf.Scroll()
	tab := a.cfg.Editor.TabWidth
	for y := 0; y < viewHeight && top+y < buf.LineCount(); y++ {
		a.drawLine(y, w, top+y, tab, hl)
	}
	if h >= 2 {
		a.drawStatus(d, w, h-2)
	}
	echoX := a.drawEcho(d, w, h-1)

	if a.mini.active {
		s.ShowCursor(min(echoX, w-1), h-1)
	} else {
		cur := buf.Cursor()
		cy := cur.Line - top
		cx := displayCol([]rune(buf.LineText(cur.Line)), cur.Col, tab)
		if cy < 0 || cy >= viewHeight {
			s.HideCursor()
		} else {
			s.ShowCursor(min(cx, w-1), cy)
		}
	}
	s.Show()
}

func (a *App) drawLine(y, w, line, tab int, hl highlight) {
	x := 0
	for col, r := range []rune(a.doc.buf.LineText(line)) {
		if x >= w {
			return
		}
		style := a.styles.main
		if st, ok := hl(buffer.Position{Line: line, Col: col}); ok {
			style = st
		}
		n := cellWidth(r, x, tab)
		if r == '\t' {
			for i := 0; i < n && x+i < w; i++ {
				a.screen.SetContent(x+i, y, ' ', nil, style)
			}
		} else {
			a.screen.SetContent(x, y, r, nil, style)
		}
		x += n
	}
}

func (a *App) drawStatus(d *emulator.Dispatcher, w, y int) {
	buf := a.doc.buf
	dirty := "-"
	if buf.Dirty() {
		dirty = "*"
	}
	mode := "normal"
	if d != nil {
		mode = d.Mode().String()
		if d.Marks().Active() && d.Mode() == emulator.ModeNormal {
			mode = "mark"
		}
	}
	left := fmt.Sprintf(" %s%s  %s  (%s)", dirty, dirty, a.doc.name, mode)
	if lang := buf.LanguageID(); lang != "" {
		left += "  " + lang
	}
	if a.doc.vc != "" {
		left += "  " + a.doc.vc
	}
	cur := buf.Cursor()
	right := fmt.Sprintf("L%d C%d ", cur.Line+1, cur.Col)
	if d != nil {
		if n, ok := d.PendingArgument(); ok {
			right = fmt.Sprintf("C-u %d  %s", n, right)
		}
	}
	line := composeStatusLine(left, right, w)
	x := 0
	for _, r := range line {
		if x >= w {
			break
		}
		a.screen.SetContent(x, y, r, nil, a.styles.status)
		x += max(runewidth.RuneWidth(r), 1)
	}
	for ; x < w; x++ {
		a.screen.SetContent(x, y, ' ', nil, a.styles.status)
	}
}

// drawEcho fills the echo area and returns the column after its text.
func (a *App) drawEcho(d *emulator.Dispatcher, w, y int) int {
	style := a.styles.mini
	var text string
	switch {
	case a.mini.active:
		text = a.mini.prompt + string(a.mini.input)
	case d != nil && d.Mode() == emulator.ModeSearching:
		text, _ = d.SearchPrompt()
	default:
		text = a.message
		if a.msgErr {
			style = a.styles.err
		}
	}
	x := 0
	for _, r := range text {
		if x >= w {
			break
		}
		a.screen.SetContent(x, y, r, nil, style)
		x += max(runewidth.RuneWidth(r), 1)
	}
	end := x
	for ; x < w; x++ {
		a.screen.SetContent(x, y, ' ', nil, a.styles.mini)
	}
	return end
}

// composeStatusLine pads left and right to width, truncating left first.
func composeStatusLine(left, right string, width int) string {
	if width <= 0 {
		return ""
	}
	lw, rw := runewidth.StringWidth(left), runewidth.StringWidth(right)
	if lw+rw > width {
		if rw >= width {
			return runewidth.Truncate(right, width, "")
		}
		left = runewidth.Truncate(left, width-rw, "")
		lw = runewidth.StringWidth(left)
	}
	return left + runewidth.FillRight("", width-lw-rw) + right
}
