package structural

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobzarvs/qemacs/internal/buffer"
)

const goSource = "package main\n\nfunc f() {\n\tg(a, b)\n}\n"

func pos(line, col int) buffer.Position { return buffer.Position{Line: line, Col: col} }

func TestGoSexpMotion(t *testing.T) {
	n := New()
	defer n.Close()
	m := buffer.NewMemory(goSource)
	require.True(t, n.Supports("go"))

	tests := []struct {
		name string
		step func(buffer.Text, string, buffer.Position) (buffer.Position, bool)
		from buffer.Position
		want buffer.Position
	}{
		{"forward over clause", n.ForwardSexp, pos(0, 0), pos(0, 12)},
		{"forward over argument", n.ForwardSexp, pos(3, 3), pos(3, 4)},
		{"forward skips separator", n.ForwardSexp, pos(3, 4), pos(3, 7)},
		{"backward to argument start", n.BackwardSexp, pos(3, 7), pos(3, 6)},
		{"up to open paren", n.BackwardUpSexp, pos(3, 4), pos(3, 2)},
		{"down into call", n.ForwardDownSexp, pos(3, 1), pos(3, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.step(m, "go", tt.from)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGoReparsesAfterEdit(t *testing.T) {
	n := New()
	defer n.Close()
	m := buffer.NewMemory(goSource)

	got, ok := n.ForwardSexp(m, "go", pos(3, 3))
	require.True(t, ok)
	assert.Equal(t, pos(3, 4), got)

	require.NoError(t, m.InsertText(pos(3, 3), "xx"))
	got, ok = n.ForwardSexp(m, "go", pos(3, 3))
	require.True(t, ok)
	assert.Equal(t, pos(3, 6), got)
}

func TestBracketFallback(t *testing.T) {
	n := New()
	m := buffer.NewMemory("(a (b c) d)")
	assert.False(t, n.Supports("lisp"))

	tests := []struct {
		name string
		step func(buffer.Text, string, buffer.Position) (buffer.Position, bool)
		from int
		want int
	}{
		{"forward whole list", n.ForwardSexp, 0, 11},
		{"forward atom", n.ForwardSexp, 1, 2},
		{"forward nested list", n.ForwardSexp, 2, 8},
		{"backward nested list", n.BackwardSexp, 8, 3},
		{"backward atom", n.BackwardSexp, 10, 9},
		{"down", n.ForwardDownSexp, 0, 1},
		{"down skips atoms", n.ForwardDownSexp, 2, 4},
		{"up", n.BackwardUpSexp, 5, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.step(m, "lisp", pos(0, tt.from))
			require.True(t, ok)
			assert.Equal(t, pos(0, tt.want), got)
		})
	}
}

func TestBracketFallbackFailures(t *testing.T) {
	n := New()
	m := buffer.NewMemory("(a (b c) d)")

	_, ok := n.ForwardSexp(m, "", pos(0, 10))
	assert.False(t, ok, "closer ends the list")
	_, ok = n.BackwardSexp(m, "", pos(0, 1))
	assert.False(t, ok)
	_, ok = n.BackwardUpSexp(m, "", pos(0, 0))
	assert.False(t, ok)
	got, ok := n.ForwardDownSexp(m, "", pos(0, 9))
	assert.False(t, ok)
	assert.Equal(t, pos(0, 9), got)
}

func TestBracketFallbackSkipsStrings(t *testing.T) {
	n := New()
	m := buffer.NewMemory(`(f "a)b" c)`)

	got, ok := n.ForwardSexp(m, "", pos(0, 0))
	require.True(t, ok)
	assert.Equal(t, pos(0, 11), got)

	got, ok = n.BackwardSexp(m, "", pos(0, 11))
	require.True(t, ok)
	assert.Equal(t, pos(0, 0), got)

	got, ok = n.ForwardSexp(m, "", pos(0, 2))
	require.True(t, ok)
	assert.Equal(t, pos(0, 8), got, "a string is one expression")
}

func TestBracketFallbackAcrossLines(t *testing.T) {
	n := New()
	m := buffer.NewMemory("(a\n (b))")

	got, ok := n.ForwardSexp(m, "", pos(0, 0))
	require.True(t, ok)
	assert.Equal(t, pos(1, 5), got)

	got, ok = n.BackwardUpSexp(m, "", pos(1, 3))
	require.True(t, ok)
	assert.Equal(t, pos(1, 1), got)
}

func TestSourceOffsets(t *testing.T) {
	src := newSource(buffer.NewMemory("héllo\nwörld"))
	off := src.offset(pos(1, 2))
	assert.Equal(t, len("héllo\nw")+len("ö"), off)
	assert.Equal(t, pos(1, 2), src.position(off))
	assert.Equal(t, pos(0, 5), src.position(len("héllo")))
}
