package emulator

import (
	"sort"
	"strconv"
	"strings"

	"github.com/kobzarvs/qemacs/internal/buffer"
)

type commandFunc func(d *Dispatcher, c call) (string, error)

// commands maps command ids to their implementation. It is filled in init
// because execute_commands dispatches back through the table.
var commands map[string]commandFunc

// rectangleTable redirects region commands while rectangle mark mode is on.
var rectangleTable = map[string]string{
	"kill_region":          "kill_rectangle",
	"copy_region":          "copy_rectangle_as_kill",
	"delete_backward_char": "delete_rectangle",
	"delete_forward_char":  "delete_rectangle",
}

// rectKeys are the characters accepted after C-x r.
var rectKeys = map[string]string{
	"k": "kill_rectangle",
	"c": "clear_rectangle",
	"d": "delete_rectangle",
	"y": "yank_rectangle",
	"o": "open_rectangle",
	"t": "string_rectangle",
	"w": "copy_rectangle_as_kill",
}

// argumentCommands build a prefix argument instead of consuming it.
var argumentCommands = map[string]struct{}{
	"universal_argument":       {},
	"universal_argument_digit": {},
}

func init() {
	commands = map[string]commandFunc{
		// movement
		"forward_char":           motion(forwardChar, backwardChar),
		"backward_char":          motion(backwardChar, forwardChar),
		"forward_word":           motion(forwardWord, backwardWord),
		"backward_word":          motion(backwardWord, forwardWord),
		"forward_paragraph":      motion(forwardParagraph, backwardParagraph),
		"backward_paragraph":     motion(backwardParagraph, forwardParagraph),
		"next_line":              nextLine,
		"previous_line":          previousLine,
		"move_beginning_of_line": moveBeginningOfLine,
		"move_end_of_line":       moveEndOfLine,
		"back_to_indentation":    backToIndentation,
		"beginning_of_buffer":    beginningOfBuffer,
		"end_of_buffer":          endOfBuffer,
		"scroll_up_command":      scrollUp,
		"scroll_down_command":    scrollDown,
		"goto_line":              gotoLine,
		"recenter_top_bottom":    recenterTopBottom,

		// editing
		"delete_backward_char":   deleteBackwardChar,
		"delete_forward_char":    deleteForwardChar,
		"new_line":               newLine,
		"type_char":              typeChar,
		"kill_line":              killLine,
		"kill_whole_line":        killWholeLine,
		"kill_word":              killWord,
		"backward_kill_word":     backwardKillWord,
		"kill_region":            killRegion,
		"copy_region":            copyRegion,
		"yank":                   yank,
		"yank_pop":               yankPop,
		"delete_blank_lines":     deleteBlankLines,
		"transform_to_uppercase": transform(upcase),
		"transform_to_lowercase": transform(downcase),
		"transform_to_titlecase": transform(titlecase),

		// mark
		"set_mark_command":        setMarkCommand,
		"pop_mark":                popMark,
		"exchange_point_and_mark": exchangePointAndMark,
		"rectangle_mark_mode":     rectangleMarkMode,

		// rectangles
		"start_rect_command":             startRectCommand,
		"kill_rectangle":                 killRectangle,
		"copy_rectangle_as_kill":         copyRectangle,
		"delete_rectangle":               deleteRectangle,
		"yank_rectangle":                 yankRectangle,
		"open_rectangle":                 openRectangle,
		"clear_rectangle":                clearRectangle,
		"string_rectangle":               stringRectangle,
		"replace_kill_ring_to_rectangle": replaceKillRingToRectangle,

		// isearch
		"isearch_forward":  isearchForward,
		"isearch_backward": isearchBackward,
		"isearch_exit":     isearchExit,
		"isearch_abort":    isearchAbort,

		// structure
		"forward_sexp":      sexpMotion(Structure.ForwardSexp, Structure.BackwardSexp),
		"backward_sexp":     sexpMotion(Structure.BackwardSexp, Structure.ForwardSexp),
		"forward_down_sexp": sexpMotion(Structure.ForwardDownSexp, Structure.BackwardUpSexp),
		"backward_up_sexp":  sexpMotion(Structure.BackwardUpSexp, Structure.ForwardDownSexp),
		"kill_sexp":         killSexp,

		// prefix argument and scripting
		"universal_argument":       universalArgument,
		"universal_argument_digit": universalArgumentDigit,
		"execute_commands":         executeCommands,
	}
}

// Commands lists every command id the dispatcher understands.
func Commands() []string {
	ids := make([]string, 0, len(commands)+1)
	for id := range commands {
		ids = append(ids, id)
	}
	ids = append(ids, "cancel")
	sort.Strings(ids)
	return ids
}

// goTo moves point, extending the selection from the mark while it is active.
func (d *Dispatcher) goTo(pos buffer.Position) {
	if top, ok := d.marks.Top(); ok && d.marks.Active() {
		d.ed.SetSelection(buffer.Selection{Anchor: top, Active: pos})
		return
	}
	d.ed.SetCursor(pos)
}

func motion(step, back func(buffer.Text, buffer.Position) buffer.Position) commandFunc {
	return func(d *Dispatcher, c call) (string, error) {
		d.goTo(repeatMotion(d.ed, d.ed.Cursor(), c.n, step, back))
		return "", nil
	}
}

func (d *Dispatcher) verticalMove(delta int) {
	p := d.ed.Cursor()
	if d.prev.name != "next_line" && d.prev.name != "previous_line" {
		d.goalCol = p.Col
	}
	d.goTo(lineAt(d.ed, p.Line+delta, d.goalCol))
}

func nextLine(d *Dispatcher, c call) (string, error) {
	d.verticalMove(c.n)
	return "", nil
}

func previousLine(d *Dispatcher, c call) (string, error) {
	d.verticalMove(-c.n)
	return "", nil
}

func moveBeginningOfLine(d *Dispatcher, c call) (string, error) {
	p := lineAt(d.ed, d.ed.Cursor().Line+c.n-1, 0)
	d.goTo(p)
	return "", nil
}

func moveEndOfLine(d *Dispatcher, c call) (string, error) {
	p := lineAt(d.ed, d.ed.Cursor().Line+c.n-1, 0)
	p.Col = buffer.LineLen(d.ed, p.Line)
	d.goTo(p)
	return "", nil
}

func backToIndentation(d *Dispatcher, c call) (string, error) {
	line := d.ed.Cursor().Line
	d.goTo(buffer.Position{Line: line, Col: indentation(d.ed, line)})
	return "", nil
}

// pushMark saves point before a long jump unless a region is being extended.
func (d *Dispatcher) pushMark() string {
	if d.marks.Active() {
		return ""
	}
	d.marks.Push(d.ed.Cursor())
	return "Mark set"
}

func beginningOfBuffer(d *Dispatcher, c call) (string, error) {
	msg := d.pushMark()
	target := buffer.Position{}
	if c.present && !c.univ && c.n > 0 {
		target = lineAt(d.ed, d.ed.LineCount()*min(c.n, 10)/10, 0)
	}
	d.goTo(target)
	return msg, nil
}

func endOfBuffer(d *Dispatcher, c call) (string, error) {
	msg := d.pushMark()
	target := buffer.EndOfBuffer(d.ed)
	if c.present && !c.univ && c.n > 0 {
		target = lineAt(d.ed, d.ed.LineCount()*(10-min(c.n, 10))/10, 0)
	}
	d.goTo(target)
	return msg, nil
}

// pageLines is one screen minus two lines of context.
func (d *Dispatcher) pageLines() int {
	if vp, ok := d.ed.(buffer.Viewport); ok {
		first, last := vp.VisibleRange()
		if h := last - first + 1; h > 2 {
			return h - 2
		}
	}
	return d.opts.PageLines
}

func (d *Dispatcher) scroll(lines int, at buffer.RevealAt) {
	p := d.ed.Cursor()
	target := lineAt(d.ed, p.Line+lines, p.Col)
	d.goTo(target)
	if vp, ok := d.ed.(buffer.Viewport); ok {
		vp.RevealLine(target.Line, at)
	}
}

func scrollUp(d *Dispatcher, c call) (string, error) {
	lines := d.pageLines()
	if c.present && !c.univ {
		lines = c.n
	}
	d.scroll(lines, buffer.RevealTop)
	return "", nil
}

func scrollDown(d *Dispatcher, c call) (string, error) {
	lines := d.pageLines()
	if c.present && !c.univ {
		lines = c.n
	}
	d.scroll(-lines, buffer.RevealBottom)
	return "", nil
}

func gotoLine(d *Dispatcher, c call) (string, error) {
	if c.present && !c.univ {
		d.gotoLine(c.n)
		return "", nil
	}
	if len(c.args) > 0 {
		return "", d.gotoLineText(c.args[0])
	}
	d.prompt("Goto line: ", "", d.gotoLineText)
	return "", nil
}

func (d *Dispatcher) gotoLineText(input string) error {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return ErrInvalidRepeatArgument
	}
	d.gotoLine(n)
	return nil
}

// gotoLine moves to the start of the 1-based line n.
func (d *Dispatcher) gotoLine(n int) {
	d.pushMark()
	target := lineAt(d.ed, n-1, 0)
	d.goTo(target)
	if vp, ok := d.ed.(buffer.Viewport); ok {
		vp.RevealLine(target.Line, buffer.RevealCenter)
	}
}

var recenterCycle = []buffer.RevealAt{buffer.RevealCenter, buffer.RevealTop, buffer.RevealBottom}

func recenterTopBottom(d *Dispatcher, c call) (string, error) {
	vp, ok := d.ed.(buffer.Viewport)
	if !ok {
		return "", nil
	}
	line := d.ed.Cursor().Line
	if c.present && !c.univ {
		if c.n >= 0 {
			vp.RevealLine(max(line-c.n, 0), buffer.RevealTop)
		} else {
			vp.RevealLine(line-c.n-1, buffer.RevealBottom)
		}
		return "", nil
	}
	if d.prev.name == "recenter_top_bottom" {
		d.recenter = (d.recenter + 1) % len(recenterCycle)
	} else {
		d.recenter = 0
	}
	vp.RevealLine(line, recenterCycle[d.recenter])
	return "", nil
}

func universalArgument(d *Dispatcher, c call) (string, error) {
	d.arg.SupplyBareRepeat()
	return d.argumentEcho().Message, nil
}

func universalArgumentDigit(d *Dispatcher, c call) (string, error) {
	if len(c.args) == 0 {
		return "", ErrInvalidRepeatArgument
	}
	switch a := c.args[0]; {
	case a == "-":
		d.arg.SupplyDigit(0, true)
	case len(a) == 1 && a[0] >= '0' && a[0] <= '9':
		d.arg.SupplyDigit(int(a[0]-'0'), false)
	default:
		return "", ErrInvalidRepeatArgument
	}
	return d.argumentEcho().Message, nil
}

// executeCommands runs each id in args as if invoked in turn, stopping at
// the first failure.
func executeCommands(d *Dispatcher, c call) (string, error) {
	var msg string
	for _, id := range c.args {
		res := d.Handle(Command(id))
		if res.Err != nil {
			return "", res.Err
		}
		if res.Message != "" {
			msg = res.Message
		}
	}
	return msg, nil
}
