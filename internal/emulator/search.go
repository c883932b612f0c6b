package emulator

import (
	"github.com/kobzarvs/qemacs/internal/buffer"
	"github.com/kobzarvs/qemacs/internal/isearch"
)

// handleSearch routes input while an incremental search owns the keyboard.
func (d *Dispatcher) handleSearch(ev Event) Result {
	switch ev.Kind {
	case EventChar:
		d.search.AddText(ev.Text)
		d.showMatch()
		return Result{Message: d.search.Prompt()}
	case EventCommand:
		switch ev.Command {
		case "isearch_forward", "isearch_backward", "isearch_exit", "isearch_abort":
			return d.run(ev)
		case "delete_backward_char":
			d.search.Backspace()
			d.showMatch()
			return Result{Message: d.search.Prompt()}
		}
	}
	// Anything else ends the search and is then handled normally.
	d.exitSearch()
	return d.handleNormal(ev)
}

func (d *Dispatcher) startSearch(dir isearch.Direction) {
	d.search.Start(d.ed, d.ed.Selection(), dir)
	d.mode = ModeSearching
}

// showMatch selects the current match so the host highlights it.
func (d *Dispatcher) showMatch() {
	start, end, ok := d.search.Match()
	if !ok {
		return
	}
	s := buffer.PositionAt(d.ed, start)
	e := buffer.PositionAt(d.ed, end)
	if d.search.Direction() == isearch.Backward {
		d.ed.SetSelection(buffer.Selection{Anchor: e, Active: s})
		return
	}
	d.ed.SetSelection(buffer.Selection{Anchor: s, Active: e})
}

// exitSearch commits the match and saves the starting point on the mark ring.
func (d *Dispatcher) exitSearch() string {
	origin := d.search.Origin()
	off, moved := d.search.Exit()
	d.mode = ModeNormal
	if !moved {
		d.ed.SetSelection(origin)
		return ""
	}
	d.ed.SetCursor(buffer.PositionAt(d.ed, off))
	if d.ed.Cursor() == origin.Active {
		return ""
	}
	d.marks.Push(origin.Active)
	return "Mark saved where search started"
}

func isearchForward(d *Dispatcher, c call) (string, error) {
	return d.isearch(isearch.Forward)
}

func isearchBackward(d *Dispatcher, c call) (string, error) {
	return d.isearch(isearch.Backward)
}

func (d *Dispatcher) isearch(dir isearch.Direction) (string, error) {
	if d.mode != ModeSearching {
		d.marks.Deactivate()
		d.startSearch(dir)
		return d.search.Prompt(), nil
	}
	d.search.Repeat(dir)
	d.showMatch()
	return d.search.Prompt(), nil
}

func isearchExit(d *Dispatcher, c call) (string, error) {
	if d.mode != ModeSearching {
		return "", ErrNoActiveSearch
	}
	return d.exitSearch(), nil
}

func isearchAbort(d *Dispatcher, c call) (string, error) {
	if d.mode != ModeSearching {
		return "", ErrNoActiveSearch
	}
	d.ed.SetSelection(d.search.Abort())
	d.mode = ModeNormal
	return "Quit", nil
}
