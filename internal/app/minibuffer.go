package app

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qemacs/internal/emulator"
)

// minibuffer reads one line in the echo area. It runs its own event loop
// on the app's screen until the user submits or quits.
type minibuffer struct {
	app    *App
	prompt string
	input  []rune
	active bool
}

func (m *minibuffer) Prompt(ctx context.Context, text string) (string, error) {
	m.prompt, m.input, m.active = text, nil, true
	defer func() { m.active = false }()
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		m.app.render()
		switch ev := m.app.screen.PollEvent().(type) {
		case nil:
			return "", emulator.ErrPromptCancelled
		case *tcell.EventResize:
			m.app.screen.Sync()
		case *tcell.EventKey:
			if input, done, err := m.key(ev); done {
				return input, err
			}
		}
	}
}

func (m *minibuffer) key(ev *tcell.EventKey) (string, bool, error) {
	switch keyString(ev) {
	case "enter":
		return string(m.input), true, nil
	case "ctrl+g", "esc":
		return "", true, emulator.ErrPromptCancelled
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
		return "", false, nil
	case "ctrl+u":
		m.input = nil
		return "", false, nil
	}
	if r, ok := plainRune(ev); ok {
		m.input = append(m.input, r)
	}
	return "", false, nil
}

// ask runs a prompt outside of any emulator command.
func (m *minibuffer) ask(text string) (string, bool) {
	input, err := m.Prompt(context.Background(), text)
	return input, err == nil
}

// plainRune returns the typed rune of an unmodified key.
func plainRune(ev *tcell.EventKey) (rune, bool) {
	if ev.Key() != tcell.KeyRune || ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) != 0 {
		return 0, false
	}
	return ev.Rune(), true
}
