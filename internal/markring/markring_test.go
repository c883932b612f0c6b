package markring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobzarvs/qemacs/internal/buffer"
)

func pos(line, col int) buffer.Position {
	return buffer.Position{Line: line, Col: col}
}

func TestSetThenPopRestoresPosition(t *testing.T) {
	r := New(0)
	r.SetMark(pos(3, 7))
	require.True(t, r.Active())

	got, ok := r.PopMark()
	require.True(t, ok)
	assert.Equal(t, pos(3, 7), got)
	assert.False(t, r.Active())
}

func TestPopEmptyIsNoOp(t *testing.T) {
	r := New(0)
	_, ok := r.PopMark()
	assert.False(t, ok)
	assert.Equal(t, 0, r.Depth())
}

func TestHistoryIsKept(t *testing.T) {
	r := New(0)
	r.SetMark(pos(0, 1))
	r.SetMark(pos(0, 2))
	r.SetMark(pos(0, 3))
	assert.Equal(t, 3, r.Depth())

	got, _ := r.PopMark()
	assert.Equal(t, pos(0, 3), got)
	got, _ = r.PopMark()
	assert.Equal(t, pos(0, 2), got)
	assert.True(t, r.Active(), "mark stays active while entries remain")
}

func TestDepthLimitDropsOldest(t *testing.T) {
	r := New(2)
	r.SetMark(pos(0, 1))
	r.SetMark(pos(0, 2))
	r.SetMark(pos(0, 3))
	assert.Equal(t, 2, r.Depth())
	r.PopMark()
	got, _ := r.PopMark()
	assert.Equal(t, pos(0, 2), got)
}

func TestExchangePointAndMark(t *testing.T) {
	r := New(0)
	_, _, err := r.ExchangePointAndMark(pos(1, 1))
	assert.ErrorIs(t, err, ErrNoMark)

	r.SetMark(pos(0, 0))
	r.SetMark(pos(2, 4))
	point, mark, err := r.ExchangePointAndMark(pos(5, 5))
	require.NoError(t, err)
	assert.Equal(t, pos(2, 4), point)
	assert.Equal(t, pos(5, 5), mark)
	assert.Equal(t, 2, r.Depth())
	top, _ := r.Top()
	assert.Equal(t, pos(5, 5), top)
}

func TestRectangleModeNeedsMark(t *testing.T) {
	r := New(0)
	assert.ErrorIs(t, r.EnterRectangleMode(), ErrNoMark)
	assert.False(t, r.RectangleMode())

	r.SetMark(pos(0, 0))
	require.NoError(t, r.EnterRectangleMode())
	assert.True(t, r.RectangleMode())
	r.Deactivate()
	assert.False(t, r.RectangleMode())
	assert.Equal(t, 1, r.Depth())
}

func TestPushKeepsMarkInactive(t *testing.T) {
	r := New(0)
	r.Push(pos(1, 1))
	assert.False(t, r.Active())
	top, ok := r.Top()
	require.True(t, ok)
	assert.Equal(t, pos(1, 1), top)
}

func TestSnapshotRestore(t *testing.T) {
	r := New(0)
	r.SetMark(pos(0, 1))
	s := r.Snapshot()
	r.SetMark(pos(0, 2))
	r.Deactivate()

	r.Restore(s)
	assert.Equal(t, 1, r.Depth())
	assert.True(t, r.Active())
	top, _ := r.Top()
	assert.Equal(t, pos(0, 1), top)
}
