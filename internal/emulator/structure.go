package emulator

import "github.com/kobzarvs/qemacs/internal/buffer"

// Structure answers balanced-expression queries for sexp commands. lang is
// the host language id and may be empty.
type Structure interface {
	ForwardSexp(t buffer.Text, lang string, pos buffer.Position) (buffer.Position, bool)
	BackwardSexp(t buffer.Text, lang string, pos buffer.Position) (buffer.Position, bool)
	ForwardDownSexp(t buffer.Text, lang string, pos buffer.Position) (buffer.Position, bool)
	BackwardUpSexp(t buffer.Text, lang string, pos buffer.Position) (buffer.Position, bool)
}

type sexpStep func(s Structure, t buffer.Text, lang string, pos buffer.Position) (buffer.Position, bool)

func (d *Dispatcher) language() string {
	if src, ok := d.ed.(buffer.LanguageSource); ok {
		return src.LanguageID()
	}
	return ""
}

// walk applies step n times (back for negative n) and fails when the first
// step finds nothing.
func (d *Dispatcher) walk(n int, step, back sexpStep) (buffer.Position, error) {
	p := d.ed.Cursor()
	if d.opts.Structure == nil {
		return p, ErrNoStructure
	}
	if n < 0 {
		step, n = back, -n
	}
	lang := d.language()
	for i := 0; i < n; i++ {
		next, ok := step(d.opts.Structure, d.ed, lang, p)
		if !ok {
			if i == 0 {
				return p, ErrNoStructure
			}
			break
		}
		p = next
	}
	return p, nil
}

func sexpMotion(step, back sexpStep) commandFunc {
	return func(d *Dispatcher, c call) (string, error) {
		p, err := d.walk(c.n, step, back)
		if err != nil {
			return "", err
		}
		d.goTo(p)
		return "", nil
	}
}

func killSexp(d *Dispatcher, c call) (string, error) {
	p := d.ed.Cursor()
	end, err := d.walk(c.n, Structure.ForwardSexp, Structure.BackwardSexp)
	if err != nil {
		return "", err
	}
	dir := killForward
	if c.n < 0 {
		dir = killBackward
	}
	return "", d.kill(buffer.NewRange(p, end), dir)
}
