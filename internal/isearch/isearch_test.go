package isearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobzarvs/qemacs/internal/buffer"
)

func start(text string, cursor buffer.Position, dir Direction) (*Controller, *buffer.Memory) {
	m := buffer.NewMemory(text)
	m.SetCursor(cursor)
	c := New()
	c.Start(m, m.Selection(), dir)
	return c, m
}

func TestForwardFindsFirstMatchAfterPoint(t *testing.T) {
	c, _ := start("foo bar foo", buffer.Position{Col: 1}, Forward)
	c.AddText("foo")
	s, e, ok := c.Match()
	require.True(t, ok)
	assert.Equal(t, 8, s)
	assert.Equal(t, 11, e)
	assert.False(t, c.Failed())
}

func TestBackspaceRestoresPreviousState(t *testing.T) {
	c, _ := start("xa ab abc", buffer.Position{}, Forward)
	c.AddChar('a')
	s1, e1, _ := c.Match()
	c.AddChar('b')
	c.AddChar('c')
	s, _, _ := c.Match()
	assert.Equal(t, 6, s)

	c.Backspace()
	c.Backspace()
	assert.Equal(t, "a", c.Query())
	s, e, ok := c.Match()
	assert.True(t, ok)
	assert.Equal(t, s1, s)
	assert.Equal(t, e1, e)
}

func TestBackspaceUndoesRepeat(t *testing.T) {
	c, _ := start("ab ab ab", buffer.Position{}, Forward)
	c.AddText("ab")
	c.Repeat(Forward)
	s, _, _ := c.Match()
	assert.Equal(t, 3, s)
	c.Backspace()
	s, _, _ = c.Match()
	assert.Equal(t, 0, s)
	assert.Equal(t, "ab", c.Query())
}

func TestFailureThenWrap(t *testing.T) {
	c, _ := start("ab x ab", buffer.Position{Col: 1}, Forward)
	c.AddText("ab")
	s, _, _ := c.Match()
	assert.Equal(t, 5, s)

	c.Repeat(Forward)
	assert.True(t, c.Failed())
	assert.Contains(t, c.Prompt(), "Failing")
	s, _, _ = c.Match()
	assert.Equal(t, 5, s, "failed search keeps the last match")

	c.Repeat(Forward)
	assert.False(t, c.Failed())
	s, _, _ = c.Match()
	assert.Equal(t, 0, s)
	assert.Equal(t, "Wrapped I-search: ab", c.Prompt())
}

func TestAddCharWrapsForward(t *testing.T) {
	c, _ := start("bar foo", buffer.Position{Col: 4}, Forward)
	c.AddChar('b')
	s, e, ok := c.Match()
	require.True(t, ok)
	assert.Equal(t, 0, s)
	assert.Equal(t, 1, e)
	assert.False(t, c.Failed())
	assert.Equal(t, "Wrapped I-search: b", c.Prompt())

	c.Backspace()
	assert.Equal(t, "I-search: ", c.Prompt())
}

func TestAddCharWrapsBackward(t *testing.T) {
	c, _ := start("foo bar", buffer.Position{Col: 1}, Backward)
	c.AddChar('b')
	s, _, ok := c.Match()
	require.True(t, ok)
	assert.Equal(t, 4, s)
	assert.False(t, c.Failed())
	assert.Equal(t, "Wrapped I-search backward: b", c.Prompt())
}

func TestAddCharFailsWhenAbsentEverywhere(t *testing.T) {
	c, _ := start("bar foo", buffer.Position{Col: 4}, Forward)
	c.AddChar('z')
	_, _, ok := c.Match()
	assert.False(t, ok)
	assert.True(t, c.Failed())
	assert.Equal(t, "Failing I-search: z", c.Prompt())
}

func TestBackwardSearch(t *testing.T) {
	c, _ := start("one two one two", buffer.Position{Col: 15}, Backward)
	c.AddText("one")
	s, _, _ := c.Match()
	assert.Equal(t, 8, s)
	c.Repeat(Backward)
	s, _, _ = c.Match()
	assert.Equal(t, 0, s)

	point, moved := c.Exit()
	assert.True(t, moved)
	assert.Equal(t, 0, point)
}

func TestSmartCase(t *testing.T) {
	c, _ := start("Foo foo", buffer.Position{}, Forward)
	c.AddText("foo")
	s, _, _ := c.Match()
	assert.Equal(t, 0, s, "lowercase query ignores case")

	c, _ = start("foo Foo", buffer.Position{}, Forward)
	c.AddText("Foo")
	s, _, _ = c.Match()
	assert.Equal(t, 4, s, "uppercase in the query makes it case sensitive")
}

func TestSearchAcrossLines(t *testing.T) {
	c, m := start("alpha\nbeta", buffer.Position{}, Forward)
	c.AddText("a\nb")
	_, e, ok := c.Match()
	require.True(t, ok)
	assert.Equal(t, buffer.Position{Line: 1, Col: 1}, buffer.PositionAt(m, e))
}

func TestAbortReturnsOrigin(t *testing.T) {
	m := buffer.NewMemory("hello world")
	sel := buffer.Selection{Anchor: buffer.Position{Col: 1}, Active: buffer.Position{Col: 3}}
	m.SetSelection(sel)
	c := New()
	c.Start(m, m.Selection(), Forward)
	c.AddText("wor")
	assert.Equal(t, sel, c.Abort())
	assert.False(t, c.Active())
}

func TestEmptyRepeatReusesLastQuery(t *testing.T) {
	c, m := start("ab ab", buffer.Position{}, Forward)
	c.AddText("ab")
	_, moved := c.Exit()
	assert.True(t, moved)

	c.Start(m, buffer.Collapsed(buffer.Position{Col: 2}), Forward)
	c.Repeat(Forward)
	assert.Equal(t, "ab", c.Query())
	s, _, ok := c.Match()
	assert.True(t, ok)
	assert.Equal(t, 3, s)
}

func TestExitWithoutMatchDoesNotMove(t *testing.T) {
	c, _ := start("abc", buffer.Position{}, Forward)
	c.AddChar('z')
	_, moved := c.Exit()
	assert.False(t, moved)
	assert.False(t, c.Active())
}
