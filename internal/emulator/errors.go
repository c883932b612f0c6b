package emulator

import (
	"errors"

	"github.com/kobzarvs/qemacs/internal/markring"
	"github.com/kobzarvs/qemacs/internal/rectangle"
)

// User-facing errors. Their text is shown as the result message; none of
// them leaves the buffer modified.
var (
	ErrNoActiveMark          = markring.ErrNoMark
	ErrEmptyKillRing         = rectangle.ErrEmptyKillRing
	ErrNotARectangleEntry    = rectangle.ErrNotARectangleEntry
	ErrNoActiveSearch        = errors.New("No incremental search in progress")
	ErrInvalidRepeatArgument = errors.New("Invalid argument")
	ErrUnknownCommand        = errors.New("Unknown command")
	ErrNoPreviousYank        = errors.New("Previous command was not a yank")
	ErrNoStructure           = errors.New("No enclosing expression")
)

var userErrors = []error{
	ErrNoActiveMark,
	ErrEmptyKillRing,
	ErrNotARectangleEntry,
	ErrNoActiveSearch,
	ErrInvalidRepeatArgument,
	ErrUnknownCommand,
	ErrNoPreviousYank,
	ErrNoStructure,
}

// IsUserError reports whether err is a user mistake rather than a host failure.
func IsUserError(err error) bool {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
