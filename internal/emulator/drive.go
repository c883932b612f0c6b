package emulator

import (
	"context"
	"errors"
)

// Minibuffer reads one line of input from the user.
type Minibuffer interface {
	Prompt(ctx context.Context, text string) (string, error)
}

// ErrPromptCancelled is what a Minibuffer returns when the user quits.
var ErrPromptCancelled = errors.New("prompt cancelled")

// Drive answers every continuation in res through mb, blocking until the
// dispatcher no longer needs input. A minibuffer error cancels the prompt.
func Drive(ctx context.Context, d *Dispatcher, res Result, mb Minibuffer) Result {
	for res.Prompt != nil {
		cont := res.Prompt
		input, err := mb.Prompt(ctx, cont.Prompt)
		if err != nil {
			res = d.Resume(cont, "", false)
			if !errors.Is(err, ErrPromptCancelled) {
				res.Err = err
			}
			return res
		}
		res = d.Resume(cont, input, true)
	}
	return res
}
