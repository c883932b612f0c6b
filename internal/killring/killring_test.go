package killring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(spans []Span) []string {
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = s.Text
	}
	return out
}

func TestCapacityTwoScenario(t *testing.T) {
	r := New(2)
	r.Push(Span{Text: "foo"})
	r.Push(Span{Text: "bar"})
	r.Push(Span{Text: "baz"})

	assert.Equal(t, []string{"bar", "baz"}, texts(r.Entries()))
	assert.Equal(t, "baz", r.CurrentText())
	assert.Equal(t, "bar", r.Rotate(-1).Text)
	assert.Equal(t, "baz", r.Rotate(-1).Text)
}

func TestPushEvictsOldestOnly(t *testing.T) {
	r := New(3)
	for i := 0; i < 10; i++ {
		r.Push(Span{Text: fmt.Sprint(i)})
		require.LessOrEqual(t, r.Len(), 3)
	}
	assert.Equal(t, []string{"7", "8", "9"}, texts(r.Entries()))
}

func TestRotationVisitsEveryEntryInOrder(t *testing.T) {
	r := New(5)
	for _, s := range []string{"a", "b", "c", "d"} {
		r.Push(Span{Text: s})
	}
	var got []string
	for i := 0; i < 5; i++ {
		got = append(got, r.Rotate(-1).Text)
	}
	assert.Equal(t, []string{"c", "b", "a", "d", "c"}, got)
	assert.Equal(t, "a", r.Rotate(2).Text)
}

func TestPushResetsRotation(t *testing.T) {
	r := New(4)
	r.Push(Span{Text: "a"})
	r.Push(Span{Text: "b"})
	r.Rotate(-1)
	require.Equal(t, "a", r.CurrentText())
	r.Push(Span{Text: "c"})
	assert.Equal(t, "c", r.CurrentText())
}

func TestAppend(t *testing.T) {
	r := New(4)
	r.Append(Span{Text: "world"}, false)
	require.Equal(t, 1, r.Len())
	r.Append(Span{Text: "!"}, false)
	r.Append(Span{Text: "hello "}, true)
	assert.Equal(t, "hello world!", r.CurrentText())
	assert.Equal(t, 1, r.Len())

	r.Push(RectSpan([]string{"ab", "cd"}))
	r.Append(Span{Text: "x"}, false)
	assert.Equal(t, 3, r.Len(), "linear text never merges into a rectangle")
}

func TestEmptyRing(t *testing.T) {
	r := New(2)
	assert.Equal(t, "", r.CurrentText())
	assert.Equal(t, Span{}, r.Rotate(1))
	_, ok := r.Current()
	assert.False(t, ok)
	assert.False(t, r.ReplaceNewest(Span{Text: "x"}))
}

func TestRectSpanLines(t *testing.T) {
	s := RectSpan([]string{"ab", "", "cd"})
	assert.True(t, s.Rect)
	assert.Equal(t, []string{"ab", "", "cd"}, s.Lines())
}
