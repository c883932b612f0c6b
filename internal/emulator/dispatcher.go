// Package emulator turns host input into Emacs command semantics.
//
// A Dispatcher owns the per-view state (prefix argument, mark ring,
// incremental search) and drives a buffer.Editor. Dispatchers of every view
// share one kill ring through the Registry.
package emulator

import (
	"fmt"

	"github.com/kobzarvs/qemacs/internal/buffer"
	"github.com/kobzarvs/qemacs/internal/isearch"
	"github.com/kobzarvs/qemacs/internal/killring"
	"github.com/kobzarvs/qemacs/internal/logger"
	"github.com/kobzarvs/qemacs/internal/markring"
	"github.com/kobzarvs/qemacs/internal/prefixarg"
)

// Mode is the input state of a dispatcher.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearching
	ModeRectPrefix
	ModePrompt
	ModeRectangleMark
)

func (m Mode) String() string {
	switch m {
	case ModeSearching:
		return "isearch"
	case ModeRectPrefix:
		return "C-x r"
	case ModePrompt:
		return "prompt"
	case ModeRectangleMark:
		return "rectangle"
	}
	return "normal"
}

// Options configure a dispatcher. The zero value is usable.
type Options struct {
	// InterceptTyping routes typed characters through the dispatcher so a
	// prefix argument repeats them.
	InterceptTyping bool
	Multiplier      int
	PageLines       int
	MarkRingDepth   int
	Clipboard       Clipboard
	Structure       Structure
}

func DefaultOptions() Options {
	return Options{
		InterceptTyping: true,
		Multiplier:      prefixarg.DefaultMultiplier,
		PageLines:       20,
		MarkRingDepth:   markring.DefaultDepth,
	}
}

// lastCommand remembers what the previous command did, for kill appending,
// yank-pop, goal columns and the recenter cycle.
type lastCommand struct {
	name    string
	kill    bool
	killDir int
	point   buffer.Position
	yank    bool
	yanked  buffer.Range
}

// call is a resolved command invocation.
type call struct {
	name    string
	n       int
	present bool
	univ    bool
	args    []string
	then    string
}

type Dispatcher struct {
	ed     buffer.Editor
	kills  *killring.Ring
	marks  *markring.Ring
	arg    *prefixarg.Accumulator
	search *isearch.Controller
	opts   Options

	mode     Mode
	pending  *Continuation
	queue    []Event
	tokens   uint64
	rectCall call

	prev     lastCommand
	this     lastCommand
	goalCol  int
	recenter int
	disposed bool
}

// New creates a dispatcher for ed sharing kills.
func New(ed buffer.Editor, kills *killring.Ring, opts Options) *Dispatcher {
	if opts.PageLines < 1 {
		opts.PageLines = DefaultOptions().PageLines
	}
	return &Dispatcher{
		ed:     ed,
		kills:  kills,
		marks:  markring.New(opts.MarkRingDepth),
		arg:    prefixarg.New(opts.Multiplier),
		search: isearch.New(),
		opts:   opts,
	}
}

func (d *Dispatcher) Editor() buffer.Editor { return d.ed }

func (d *Dispatcher) Marks() *markring.Ring { return d.marks }

func (d *Dispatcher) KillRing() *killring.Ring { return d.kills }

// Mode reports the current input state.
func (d *Dispatcher) Mode() Mode {
	if d.mode == ModeNormal && d.marks.RectangleMode() {
		return ModeRectangleMark
	}
	return d.mode
}

// PendingArgument returns the prefix argument being typed, if any.
func (d *Dispatcher) PendingArgument() (int, bool) { return d.arg.Peek() }

// SearchPrompt returns the isearch prompt while a search is active.
func (d *Dispatcher) SearchPrompt() (string, bool) {
	if !d.search.Active() {
		return "", false
	}
	return d.search.Prompt(), true
}

// Handle processes one event.
func (d *Dispatcher) Handle(ev Event) Result {
	if d.disposed {
		return Result{}
	}
	if ev.Kind == EventCancel || (ev.Kind == EventCommand && ev.Command == "cancel") {
		return d.cancel()
	}
	switch d.mode {
	case ModePrompt:
		d.queue = append(d.queue, ev)
		return Result{}
	case ModeSearching:
		return d.handleSearch(ev)
	case ModeRectPrefix:
		return d.handleRectPrefix(ev)
	}
	return d.handleNormal(ev)
}

func (d *Dispatcher) handleNormal(ev Event) Result {
	switch ev.Kind {
	case EventDigit:
		d.arg.SupplyDigit(ev.Digit, false)
		return d.argumentEcho()
	case EventNegative:
		d.arg.SupplyDigit(0, true)
		return d.argumentEcho()
	case EventBareRepeat:
		d.arg.SupplyBareRepeat()
		return d.argumentEcho()
	case EventChar:
		return d.typed(ev.Text)
	case EventCommand:
		return d.run(ev)
	}
	return Result{}
}

func (d *Dispatcher) argumentEcho() Result {
	v, _ := d.arg.Peek()
	if d.arg.UniversalOnly() {
		return Result{Message: fmt.Sprintf("C-u %d-", v)}
	}
	return Result{Message: fmt.Sprintf("C-u %d", v)}
}

// typed offers a typed character to the dispatcher.
func (d *Dispatcher) typed(text string) Result {
	if !d.opts.InterceptTyping {
		d.afterInsert()
		return Result{Passthrough: true}
	}
	if d.arg.Active() {
		if len(text) == 1 && text[0] >= '0' && text[0] <= '9' {
			d.arg.SupplyDigit(int(text[0]-'0'), false)
			return d.argumentEcho()
		}
		if text == "-" && d.arg.UniversalOnly() {
			d.arg.SupplyDigit(0, true)
			return d.argumentEcho()
		}
		n, _ := d.arg.Consume()
		return d.exec(call{name: "type_char", n: n, present: true, args: []string{text}}, commands["type_char"])
	}
	d.afterInsert()
	return Result{Passthrough: true}
}

// afterInsert mirrors what a host self-insert does to emulator state.
func (d *Dispatcher) afterInsert() {
	d.marks.Deactivate()
	d.prev = lastCommand{name: "self_insert"}
}

func (d *Dispatcher) run(ev Event) Result {
	id := ev.Command
	if d.marks.RectangleMode() {
		if alt, ok := rectangleTable[id]; ok {
			id = alt
		}
	}
	fn, ok := commands[id]
	if !ok {
		d.arg.Reset()
		return Result{Message: fmt.Sprintf("%s: %v", id, ErrUnknownCommand), Err: ErrUnknownCommand}
	}
	if _, accum := argumentCommands[id]; accum {
		return d.exec(call{name: id, args: ev.Args}, fn)
	}
	univ := d.arg.UniversalOnly()
	argState := d.arg.Snapshot()
	n, present := d.arg.Consume()
	c := call{name: id, n: n, present: present, univ: univ, args: ev.Args, then: ev.Then}
	res := d.exec(c, fn)
	if res.Err != nil && !IsUserError(res.Err) {
		d.arg.Restore(argState)
	}
	return res
}

// exec runs fn and converts its outcome into a Result. A host failure rolls
// the mark state back and is wrapped with the command id.
func (d *Dispatcher) exec(c call, fn commandFunc) Result {
	markState := d.marks.Snapshot()
	d.this = lastCommand{name: c.name}
	logger.Debug("command", "name", c.name, "arg", c.n, "present", c.present)

	msg, err := fn(d, c)
	if err != nil {
		d.prev = lastCommand{name: c.name}
		if IsUserError(err) {
			return Result{Message: err.Error(), Err: err}
		}
		d.marks.Restore(markState)
		wrapped := fmt.Errorf("%s: %w", c.name, err)
		logger.Error("command failed", "name", c.name, "err", err)
		return Result{Message: wrapped.Error(), Err: wrapped}
	}
	d.prev = d.this
	res := Result{Message: msg}
	if d.pending != nil && d.mode == ModePrompt {
		res.Prompt = d.pending
	}
	if c.then != "" && c.name == "isearch_exit" {
		res.FollowUp = c.then
	}
	if d.mode == ModeSearching {
		res.Message = d.search.Prompt()
	}
	return res
}

// cancel returns the dispatcher to an idle state.
func (d *Dispatcher) cancel() Result {
	aborted := d.search.Active()
	if aborted {
		d.ed.SetSelection(d.search.Abort())
	}
	d.arg.Reset()
	d.marks.Deactivate()
	d.pending = nil
	d.queue = nil
	d.mode = ModeNormal
	d.prev = lastCommand{name: "cancel"}
	if sel := d.ed.Selection(); !aborted && !sel.Empty() {
		d.ed.SetCursor(sel.Active)
	}
	return Result{Message: "Quit"}
}

// Dispose releases the dispatcher. An active search is aborted so the
// original selection comes back. Calling Dispose twice is harmless.
func (d *Dispatcher) Dispose() {
	if d.disposed {
		return
	}
	if d.search.Active() {
		d.ed.SetSelection(d.search.Abort())
	}
	d.marks.Clear()
	d.arg.Reset()
	d.pending = nil
	d.queue = nil
	d.mode = ModeNormal
	d.disposed = true
}

func (d *Dispatcher) Disposed() bool { return d.disposed }

// prompt parks the dispatcher until Resume is called with the user's input.
func (d *Dispatcher) prompt(text, initial string, resume func(string) error) {
	d.tokens++
	d.pending = &Continuation{
		Prompt:  text,
		Initial: initial,
		token:   d.tokens,
		resume:  resume,
		command: d.this.name,
	}
	d.mode = ModePrompt
}

// Resume delivers minibuffer input for cont. ok is false when the user
// cancelled the prompt. Resuming a continuation that is no longer pending
// does nothing. Events queued while the prompt was open are replayed.
func (d *Dispatcher) Resume(cont *Continuation, input string, ok bool) Result {
	if cont == nil || d.pending == nil || cont.token != d.pending.token {
		return Result{}
	}
	d.pending = nil
	d.mode = ModeNormal
	if !ok {
		d.queue = nil
		return Result{Message: "Quit"}
	}

	markState := d.marks.Snapshot()
	d.this = lastCommand{name: cont.command}
	var res Result
	if err := cont.resume(input); err != nil {
		if IsUserError(err) {
			res = Result{Message: err.Error(), Err: err}
		} else {
			d.marks.Restore(markState)
			wrapped := fmt.Errorf("%s: %w", cont.command, err)
			logger.Error("command failed", "name", cont.command, "err", err)
			res = Result{Message: wrapped.Error(), Err: wrapped}
		}
	}
	d.prev = d.this
	return d.drain(res)
}

func (d *Dispatcher) drain(res Result) Result {
	queued := d.queue
	d.queue = nil
	for _, ev := range queued {
		if d.mode == ModePrompt {
			d.queue = append(d.queue, ev)
			continue
		}
		r := d.Handle(ev)
		if r.Passthrough {
			if err := d.ed.InsertText(d.ed.Cursor(), ev.Text); err != nil {
				logger.Error("replay insert failed", "err", err)
			}
		}
		if r.Message != "" {
			res.Message = r.Message
		}
		if res.Err == nil {
			res.Err = r.Err
		}
		if r.FollowUp != "" {
			res.FollowUp = r.FollowUp
		}
	}
	if d.mode == ModePrompt {
		res.Prompt = d.pending
	}
	return res
}
