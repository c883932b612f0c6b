package prefixarg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsumeAbsentDefaultsToOne(t *testing.T) {
	a := New(0)
	v, ok := a.Consume()
	assert.Equal(t, 1, v)
	assert.False(t, ok)
}

func TestDigitsAccumulateDecimally(t *testing.T) {
	cases := []struct {
		name   string
		digits []int
		want   int
	}{
		{"single", []int{7}, 7},
		{"two", []int{2, 1}, 21},
		{"leading zero", []int{0, 5}, 5},
		{"three", []int{1, 0, 3}, 103},
		{"explicit zero", []int{0}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := New(0)
			for _, d := range tc.digits {
				a.SupplyDigit(d, false)
			}
			v, ok := a.Consume()
			assert.True(t, ok)
			assert.Equal(t, tc.want, v)
			assert.False(t, a.Active())
		})
	}
}

func TestBareRepeatMultiplies(t *testing.T) {
	a := New(0)
	a.SupplyBareRepeat()
	v, _ := a.Peek()
	assert.Equal(t, 4, v)
	assert.True(t, a.UniversalOnly())
	a.SupplyBareRepeat()
	a.SupplyBareRepeat()
	v, ok := a.Consume()
	assert.True(t, ok)
	assert.Equal(t, 64, v)
}

func TestDigitsAfterBareRepeatReplaceMultiplier(t *testing.T) {
	a := New(0)
	a.SupplyBareRepeat()
	a.SupplyDigit(1, false)
	a.SupplyDigit(2, false)
	v, _ := a.Consume()
	assert.Equal(t, 12, v)
}

func TestSignHandling(t *testing.T) {
	a := New(0)
	a.SupplyDigit(0, true)
	v, ok := a.Peek()
	assert.True(t, ok)
	assert.Equal(t, -1, v)

	a.SupplyDigit(3, false)
	a.SupplyDigit(2, false)
	v, _ = a.Peek()
	assert.Equal(t, -32, v)

	// a sign after digits flips the accumulated value in place
	a.SupplyDigit(0, true)
	v, _ = a.Consume()
	assert.Equal(t, 32, v)

	a.SupplyBareRepeat()
	a.SupplyDigit(0, true)
	v, _ = a.Consume()
	assert.Equal(t, -1, v)
}

func TestOverflowIsCapped(t *testing.T) {
	a := New(0)
	for i := 0; i < 30; i++ {
		a.SupplyDigit(9, false)
	}
	v, _ := a.Consume()
	assert.Equal(t, math.MaxInt32, v)
}

func TestSnapshotRestore(t *testing.T) {
	a := New(0)
	a.SupplyDigit(4, false)
	s := a.Snapshot()
	a.Consume()
	a.Restore(s)
	v, ok := a.Peek()
	assert.True(t, ok)
	assert.Equal(t, 4, v)
}

func TestCustomMultiplier(t *testing.T) {
	a := New(3)
	a.SupplyBareRepeat()
	a.SupplyBareRepeat()
	v, _ := a.Consume()
	assert.Equal(t, 9, v)
}
