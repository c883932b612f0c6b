package app

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/kobzarvs/qemacs/internal/config"
)

func TestKeyString(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want string
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), "a"},
		{"upper rune keeps case", tcell.NewEventKey(tcell.KeyRune, 'A', tcell.ModShift), "A"},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), "space"},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'f', tcell.ModAlt), "alt+f"},
		{"alt symbol", tcell.NewEventKey(tcell.KeyRune, '<', tcell.ModAlt), "alt+<"},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlF, 0, tcell.ModNone), "ctrl+f"},
		{"ctrl alt letter", tcell.NewEventKey(tcell.KeyCtrlK, 0, tcell.ModCtrl|tcell.ModAlt), "ctrl+alt+k"},
		{"ctrl space", tcell.NewEventKey(tcell.KeyCtrlSpace, 0, tcell.ModCtrl), "ctrl+space"},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), "backspace"},
		{"alt backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModAlt), "alt+backspace"},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "enter"},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), "tab"},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), "shift+tab"},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "esc"},
		{"page down", tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone), "pgdn"},
		{"delete", tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone), "del"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keyString(tt.ev))
		})
	}
}

func TestBinderSequences(t *testing.T) {
	b := newBinder(config.Keymap{
		"ctrl+f":        "forward_char",
		"ctrl+x r":      "start_rect_command",
		"ctrl+x ctrl+s": "save",
		"alt+f":         "forward_word",
		"ctrl+alt+f":    "forward_sexp",
	})

	seq, cmd, res := b.feed("ctrl+f")
	assert.Equal(t, keyBound, res)
	assert.Equal(t, "forward_char", cmd)
	assert.Equal(t, "ctrl+f", seq)

	_, _, res = b.feed("ctrl+x")
	assert.Equal(t, keyPrefix, res)
	assert.Equal(t, "ctrl+x", b.pendingKeys())
	seq, cmd, res = b.feed("r")
	assert.Equal(t, keyBound, res)
	assert.Equal(t, "start_rect_command", cmd)
	assert.Equal(t, "ctrl+x r", seq)
	assert.Empty(t, b.pendingKeys())

	b.feed("ctrl+x")
	seq, _, res = b.feed("z")
	assert.Equal(t, keyUnbound, res)
	assert.Equal(t, "ctrl+x z", seq)
	assert.Empty(t, b.pendingKeys(), "an unbound sequence clears the prefix")

	b.feed("ctrl+x")
	b.reset()
	_, cmd, _ = b.feed("ctrl+f")
	assert.Equal(t, "forward_char", cmd)
}

func TestBinderEscapeIsMetaPrefix(t *testing.T) {
	b := newBinder(config.Keymap{"alt+f": "forward_word", "ctrl+alt+f": "forward_sexp"})

	_, _, res := b.feed("esc")
	assert.Equal(t, keyPrefix, res)
	_, cmd, res := b.feed("f")
	assert.Equal(t, keyBound, res)
	assert.Equal(t, "forward_word", cmd)

	b.feed("esc")
	_, cmd, _ = b.feed("ctrl+f")
	assert.Equal(t, "forward_sexp", cmd)

	_, _, res = b.feed("x")
	assert.Equal(t, keyUnbound, res)
}
