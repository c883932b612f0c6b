package emulator

import (
	"fmt"

	"github.com/kobzarvs/qemacs/internal/buffer"
	"github.com/kobzarvs/qemacs/internal/rectangle"
)

// setMarkCommand sets the mark at point; with any prefix argument it jumps
// to the mark and pops it instead.
func setMarkCommand(d *Dispatcher, c call) (string, error) {
	if c.present {
		return popMark(d, c)
	}
	p := d.ed.Cursor()
	d.marks.SetMark(p)
	d.ed.SetSelection(buffer.Collapsed(p))
	return "Mark set", nil
}

func popMark(d *Dispatcher, c call) (string, error) {
	pos, ok := d.marks.PopMark()
	if !ok {
		return "", ErrNoActiveMark
	}
	d.marks.Deactivate()
	d.ed.SetCursor(pos)
	return "", nil
}

func exchangePointAndMark(d *Dispatcher, c call) (string, error) {
	if err := d.marks.Activate(); err != nil {
		return "", err
	}
	point, mark, err := d.marks.ExchangePointAndMark(d.ed.Cursor())
	if err != nil {
		return "", err
	}
	d.ed.SetSelection(buffer.Selection{Anchor: mark, Active: point})
	return "", nil
}

// rectangleMarkMode toggles rectangle selection, setting the mark at point
// when none is active.
func rectangleMarkMode(d *Dispatcher, c call) (string, error) {
	if d.marks.RectangleMode() {
		d.marks.Deactivate()
		d.ed.SetCursor(d.ed.Cursor())
		return "", nil
	}
	if !d.marks.Active() {
		p := d.ed.Cursor()
		d.marks.SetMark(p)
		d.ed.SetSelection(buffer.Collapsed(p))
	}
	if err := d.marks.EnterRectangleMode(); err != nil {
		return "", err
	}
	return "Mark set (rectangle mode)", nil
}

func startRectCommand(d *Dispatcher, c call) (string, error) {
	d.rectCall = c
	d.mode = ModeRectPrefix
	return "C-x r-", nil
}

// handleRectPrefix resolves the key typed after C-x r.
func (d *Dispatcher) handleRectPrefix(ev Event) Result {
	d.mode = ModeNormal
	if ev.Kind != EventChar {
		return d.handleNormal(ev)
	}
	id, ok := rectKeys[ev.Text]
	if !ok {
		d.prev = lastCommand{name: "start_rect_command"}
		return Result{Message: fmt.Sprintf("C-x r %s is undefined", ev.Text), Err: ErrUnknownCommand}
	}
	c := d.rectCall
	c.name = id
	return d.exec(c, commands[id])
}

// rect returns the rectangle between point and the mark.
func (d *Dispatcher) rect() (rectangle.Rect, error) {
	top, ok := d.marks.Top()
	if !ok {
		return rectangle.Rect{}, ErrNoActiveMark
	}
	return rectangle.Bounds(top, d.ed.Cursor()), nil
}

func (d *Dispatcher) rectDone() {
	d.marks.Deactivate()
	d.ed.SetCursor(d.ed.Cursor())
}

func killRectangle(d *Dispatcher, c call) (string, error) {
	r, err := d.rect()
	if err != nil {
		return "", err
	}
	if err := rectangle.Kill(d.ed, d.kills, r); err != nil {
		return "", err
	}
	d.rectDone()
	d.exportKill()
	return "", nil
}

func copyRectangle(d *Dispatcher, c call) (string, error) {
	r, err := d.rect()
	if err != nil {
		return "", err
	}
	copied := rectangle.Copy(d.ed, d.kills, r)
	d.rectDone()
	if copied {
		d.exportKill()
	}
	return "", nil
}

func deleteRectangle(d *Dispatcher, c call) (string, error) {
	r, err := d.rect()
	if err != nil {
		return "", err
	}
	if err := rectangle.Delete(d.ed, r); err != nil {
		return "", err
	}
	d.rectDone()
	return "", nil
}

func yankRectangle(d *Dispatcher, c call) (string, error) {
	if _, err := rectangle.Yank(d.ed, d.kills, d.ed.Cursor()); err != nil {
		return "", err
	}
	d.rectDone()
	return "", nil
}

func openRectangle(d *Dispatcher, c call) (string, error) {
	r, err := d.rect()
	if err != nil {
		return "", err
	}
	if err := rectangle.Open(d.ed, r); err != nil {
		return "", err
	}
	d.rectDone()
	return "", nil
}

// clearRectangle blanks the rectangle; a prefix argument also pads short lines.
func clearRectangle(d *Dispatcher, c call) (string, error) {
	r, err := d.rect()
	if err != nil {
		return "", err
	}
	if err := rectangle.Clear(d.ed, r, c.present); err != nil {
		return "", err
	}
	d.rectDone()
	return "", nil
}

func stringRectangle(d *Dispatcher, c call) (string, error) {
	r, err := d.rect()
	if err != nil {
		return "", err
	}
	apply := func(text string) error {
		if err := rectangle.String(d.ed, r, text); err != nil {
			return err
		}
		d.rectDone()
		return nil
	}
	if len(c.args) > 0 {
		return "", apply(c.args[0])
	}
	d.prompt("String rectangle: ", "", apply)
	return "", nil
}

func replaceKillRingToRectangle(d *Dispatcher, c call) (string, error) {
	return "", rectangle.ReplaceKillRingToRectangle(d.kills)
}
