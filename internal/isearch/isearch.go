// Package isearch implements incremental search over a buffer snapshot.
//
// The controller never edits text. It tracks the query, the current match
// and a history of states so that deleting a character returns to exactly
// the state before it was typed.
package isearch

import (
	"unicode"

	"github.com/kobzarvs/qemacs/internal/buffer"
)

type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

type state struct {
	query   []rune
	dir     Direction
	start   int
	end     int
	found   bool
	failed  bool
	wrapped bool
}

// Controller runs one search session at a time.
type Controller struct {
	active    bool
	origin    buffer.Selection
	content   []rune
	folded    []rune
	cur       state
	history   []state
	lastQuery []rune
}

func New() *Controller {
	return &Controller{}
}

// Start begins a session. origin is restored on Abort.
func (c *Controller) Start(t buffer.Text, origin buffer.Selection, dir Direction) {
	all := buffer.Range{End: buffer.EndOfBuffer(t)}
	c.content = []rune(buffer.TextRange(t, all))
	c.folded = make([]rune, len(c.content))
	for i, r := range c.content {
		c.folded[i] = unicode.ToLower(r)
	}
	off := buffer.Offset(t, origin.Active)
	c.active = true
	c.origin = origin
	c.history = c.history[:0]
	c.cur = state{dir: dir, start: off, end: off}
}

func (c *Controller) Active() bool { return c.active }

func (c *Controller) Direction() Direction { return c.cur.dir }

func (c *Controller) Query() string { return string(c.cur.query) }

func (c *Controller) Failed() bool { return c.cur.failed }

func (c *Controller) Origin() buffer.Selection { return c.origin }

// Match returns the current match as rune offsets into the searched text.
func (c *Controller) Match() (start, end int, ok bool) {
	return c.cur.start, c.cur.end, c.cur.found
}

// Prompt renders the minibuffer line for the session.
func (c *Controller) Prompt() string {
	p := "I-search: "
	if c.cur.dir == Backward {
		p = "I-search backward: "
	}
	if c.cur.wrapped {
		p = "Wrapped " + p
	}
	if c.cur.failed {
		p = "Failing " + p
	}
	return p + string(c.cur.query)
}

// AddChar extends the query and searches again from the current match,
// wrapping around the text when nothing lies ahead in the search direction.
func (c *Controller) AddChar(r rune) {
	if !c.active {
		return
	}
	c.push()
	c.cur.query = append(append([]rune(nil), c.cur.query...), r)
	from := c.cur.start
	if c.cur.dir == Backward && !c.cur.found {
		from = c.cur.end - len(c.cur.query)
	}
	c.find(from)
}

// AddText appends each rune of s as if typed.
func (c *Controller) AddText(s string) {
	for _, r := range s {
		c.AddChar(r)
	}
}

// Backspace returns to the state before the last AddChar or Repeat.
func (c *Controller) Backspace() {
	if !c.active || len(c.history) == 0 {
		return
	}
	c.cur = c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]
}

// Repeat searches for the next match in dir. An empty query reuses the
// previous session's query. Repeating after a failure wraps around.
func (c *Controller) Repeat(dir Direction) {
	if !c.active {
		return
	}
	c.push()
	turned := dir != c.cur.dir
	c.cur.dir = dir
	if len(c.cur.query) == 0 {
		if len(c.lastQuery) == 0 {
			return
		}
		c.cur.query = append([]rune(nil), c.lastQuery...)
		from := c.cur.start
		if dir == Backward {
			from = c.cur.end - len(c.cur.query)
		}
		c.find(from)
		return
	}
	if turned && c.cur.found {
		return
	}
	if c.cur.failed {
		c.search(c.wrapFrom(), true)
		return
	}
	from := c.cur.end
	if dir == Backward {
		from = c.cur.start - 1
	}
	c.search(from, false)
}

// Exit ends the session and reports where point should go: the match end
// for forward searches, the match start for backward ones. moved is false
// when nothing was found.
func (c *Controller) Exit() (point int, moved bool) {
	if !c.active {
		return 0, false
	}
	c.active = false
	if len(c.cur.query) > 0 {
		c.lastQuery = append([]rune(nil), c.cur.query...)
	}
	if !c.cur.found {
		return 0, false
	}
	if c.cur.dir == Backward {
		return c.cur.start, true
	}
	return c.cur.end, true
}

// Abort ends the session and returns the selection to restore.
func (c *Controller) Abort() buffer.Selection {
	c.active = false
	c.history = c.history[:0]
	return c.origin
}

func (c *Controller) push() {
	saved := c.cur
	saved.query = append([]rune(nil), c.cur.query...)
	c.history = append(c.history, saved)
}

// find searches from from and, failing that, once more from the far end
// of the text.
func (c *Controller) find(from int) {
	c.search(from, false)
	if c.cur.failed {
		c.search(c.wrapFrom(), true)
	}
}

func (c *Controller) wrapFrom() int {
	if c.cur.dir == Backward {
		return len(c.content)
	}
	return 0
}

// search looks for the query starting at from. Forward searches find the
// first match at or after from, backward ones the last match starting at or
// before it.
func (c *Controller) search(from int, wrapping bool) {
	hay := c.content
	needle := c.cur.query
	if !hasUpper(needle) {
		hay = c.folded
	}
	var idx int
	if c.cur.dir == Forward {
		idx = indexFrom(hay, needle, from)
	} else {
		idx = lastIndexFrom(hay, needle, from)
	}
	if idx < 0 {
		c.cur.failed = true
		return
	}
	c.cur.start = idx
	c.cur.end = idx + len(needle)
	c.cur.found = true
	c.cur.failed = false
	if wrapping {
		c.cur.wrapped = true
	}
}

func hasUpper(q []rune) bool {
	for _, r := range q {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func indexFrom(hay, needle []rune, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i+len(needle) <= len(hay); i++ {
		if matchAt(hay, needle, i) {
			return i
		}
	}
	return -1
}

func lastIndexFrom(hay, needle []rune, from int) int {
	if from > len(hay)-len(needle) {
		from = len(hay) - len(needle)
	}
	for i := from; i >= 0; i-- {
		if matchAt(hay, needle, i) {
			return i
		}
	}
	return -1
}

func matchAt(hay, needle []rune, i int) bool {
	for j, r := range needle {
		if hay[i+j] != r {
			return false
		}
	}
	return true
}
