// Package prefixarg accumulates Emacs prefix arguments (C-u, M-digits, M--).
package prefixarg

import "math"

// DefaultMultiplier is what a bare C-u stands for.
const DefaultMultiplier = 4

// maxValue caps accumulation instead of overflowing.
const maxValue = math.MaxInt32

// Accumulator holds at most one pending prefix argument.
type Accumulator struct {
	value         int
	present       bool
	negative      bool
	digits        bool
	universalOnly bool
	multiplier    int
}

func New(multiplier int) *Accumulator {
	if multiplier < 2 {
		multiplier = DefaultMultiplier
	}
	return &Accumulator{multiplier: multiplier}
}

// SupplyDigit starts or extends accumulation. With negative set, d is ignored
// and the sign is toggled instead.
func (a *Accumulator) SupplyDigit(d int, negative bool) {
	if negative {
		if a.digits {
			a.value = -a.value
			return
		}
		if !a.present || a.universalOnly {
			a.value = 0
			a.universalOnly = false
		}
		a.present = true
		a.negative = !a.negative
		return
	}
	if d < 0 || d > 9 {
		return
	}
	if !a.present || a.universalOnly {
		a.value = 0
		a.universalOnly = false
	}
	a.present = true
	if !a.digits {
		a.digits = true
		a.value = d
		if a.negative {
			a.value = -d
			a.negative = false
		}
		return
	}
	sign := 1
	mag := a.value
	if mag < 0 {
		sign, mag = -1, -mag
	}
	if mag > (maxValue-d)/10 {
		mag = maxValue
	} else {
		mag = mag*10 + d
	}
	a.value = sign * mag
}

// SupplyBareRepeat handles C-u without digits: 4, then 16, 64 ...
// Any other pending state is discarded first.
func (a *Accumulator) SupplyBareRepeat() {
	if a.present && a.universalOnly {
		if a.value <= maxValue/a.multiplier {
			a.value *= a.multiplier
		}
		return
	}
	a.Reset()
	a.present = true
	a.universalOnly = true
	a.value = a.multiplier
}

// Consume returns the pending value and resets. An absent argument yields 1,
// a bare sign yields -1.
func (a *Accumulator) Consume() (value int, wasPresent bool) {
	value, wasPresent = a.Peek()
	if !wasPresent {
		value = 1
	}
	a.Reset()
	return value, wasPresent
}

// Peek reads the pending value without consuming it.
func (a *Accumulator) Peek() (int, bool) {
	if !a.present {
		return 0, false
	}
	if !a.digits && !a.universalOnly {
		if a.negative {
			return -1, true
		}
		return 1, true
	}
	return a.value, true
}

// Active reports whether an argument is being accumulated.
func (a *Accumulator) Active() bool { return a.present }

// UniversalOnly reports a bare C-u (possibly repeated) with no digits.
func (a *Accumulator) UniversalOnly() bool { return a.present && a.universalOnly }

// Reset discards any pending argument.
func (a *Accumulator) Reset() {
	a.value = 0
	a.present = false
	a.negative = false
	a.digits = false
	a.universalOnly = false
}

// State is a copy of the accumulator used for rollback.
type State struct {
	value         int
	present       bool
	negative      bool
	digits        bool
	universalOnly bool
}

func (a *Accumulator) Snapshot() State {
	return State{a.value, a.present, a.negative, a.digits, a.universalOnly}
}

func (a *Accumulator) Restore(s State) {
	a.value, a.present, a.negative, a.digits, a.universalOnly = s.value, s.present, s.negative, s.digits, s.universalOnly
}
