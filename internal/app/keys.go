package app

import (
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qemacs/internal/config"
)

// keyString names a key the way the keymap spells it, modifiers first in
// ctrl, alt, shift order: "ctrl+x", "alt+f", "ctrl+alt+k", "shift+tab".
func keyString(ev *tcell.EventKey) string {
	mods := ev.Modifiers()
	ctrl := mods&tcell.ModCtrl != 0
	shift := mods&tcell.ModShift != 0
	alt := mods&(tcell.ModAlt|tcell.ModMeta) != 0

	var name string
	switch k := ev.Key(); {
	case k == tcell.KeyRune:
		r := ev.Rune()
		shift = false
		switch {
		case r == ' ':
			name = "space"
		case ctrl:
			name = string(unicode.ToLower(r))
		default:
			name = string(r)
		}
	// Named keys come before the ctrl range: KeyBackspace is KeyCtrlH,
	// KeyTab is KeyCtrlI and KeyEnter is KeyCtrlM.
	case k == tcell.KeyBackspace || k == tcell.KeyBackspace2:
		name = "backspace"
	case k == tcell.KeyTab:
		name = "tab"
	case k == tcell.KeyBacktab:
		name, shift = "tab", true
	case k == tcell.KeyEnter:
		name = "enter"
	case k == tcell.KeyEscape:
		name = "esc"
	case k == tcell.KeyCtrlSpace:
		name, ctrl = "space", true
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		name, ctrl = string(rune('a'+int(k-tcell.KeyCtrlA))), true
	default:
		name = namedKey(k)
	}
	if name == "" {
		return ""
	}

	var b strings.Builder
	if ctrl {
		b.WriteString("ctrl+")
	}
	if alt {
		b.WriteString("alt+")
	}
	if shift {
		b.WriteString("shift+")
	}
	b.WriteString(name)
	return b.String()
}

func namedKey(k tcell.Key) string {
	switch k {
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyPgUp:
		return "pgup"
	case tcell.KeyPgDn:
		return "pgdn"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyDelete:
		return "del"
	case tcell.KeyInsert:
		return "ins"
	}
	return ""
}

type lookup int

const (
	keyUnbound lookup = iota
	keyPrefix
	keyBound
)

// binder resolves multi-key sequences against the keymap. A lone esc acts
// as a meta prefix for the next key.
type binder struct {
	keys     config.Keymap
	prefixes map[string]bool
	pending  []string
}

func newBinder(km config.Keymap) *binder {
	b := &binder{keys: km, prefixes: make(map[string]bool)}
	for seq := range km {
		parts := strings.Fields(seq)
		for i := 1; i < len(parts); i++ {
			b.prefixes[strings.Join(parts[:i], " ")] = true
		}
	}
	return b
}

// feed adds one key and returns the sequence typed so far with its binding.
func (b *binder) feed(key string) (string, string, lookup) {
	if len(b.pending) == 1 && b.pending[0] == "esc" {
		b.pending = nil
		key = withAlt(key)
	}
	seq := strings.Join(append(b.pending, key), " ")
	if cmd, ok := b.keys[seq]; ok {
		b.pending = nil
		return seq, cmd, keyBound
	}
	if b.prefixes[seq] {
		b.pending = append(b.pending, key)
		return seq, "", keyPrefix
	}
	if key == "esc" && len(b.pending) == 0 {
		b.pending = []string{key}
		return seq, "", keyPrefix
	}
	b.pending = nil
	return seq, "", keyUnbound
}

func withAlt(key string) string {
	if strings.Contains(key, "alt+") {
		return key
	}
	if rest, ok := strings.CutPrefix(key, "ctrl+"); ok {
		return "ctrl+alt+" + rest
	}
	return "alt+" + key
}

func (b *binder) reset() { b.pending = nil }

func (b *binder) pendingKeys() string { return strings.Join(b.pending, " ") }
