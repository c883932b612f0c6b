package emulator

import (
	"github.com/atotto/clipboard"

	"github.com/kobzarvs/qemacs/internal/killring"
	"github.com/kobzarvs/qemacs/internal/logger"
)

// Clipboard is the system clipboard as seen by the kill ring.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// SystemClipboard talks to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) ReadAll() (string, error) { return clipboard.ReadAll() }

func (SystemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// SystemClipboardAvailable reports whether a clipboard utility was found.
func SystemClipboardAvailable() bool { return !clipboard.Unsupported }

// exportKill copies the newest kill to the clipboard.
func (d *Dispatcher) exportKill() {
	if d.opts.Clipboard == nil {
		return
	}
	span, ok := d.kills.Newest()
	if !ok {
		return
	}
	if err := d.opts.Clipboard.WriteAll(span.Text); err != nil {
		logger.Warn("clipboard write failed", "err", err)
	}
}

// importClipboard pushes external clipboard text that the ring has not seen.
func (d *Dispatcher) importClipboard() {
	if d.opts.Clipboard == nil {
		return
	}
	text, err := d.opts.Clipboard.ReadAll()
	if err != nil {
		logger.Warn("clipboard read failed", "err", err)
		return
	}
	if text == "" {
		return
	}
	if newest, ok := d.kills.Newest(); ok && newest.Text == text {
		return
	}
	d.kills.Push(killring.Span{Text: text})
}
