package emulator

import "fmt"

type EventKind int

const (
	EventChar EventKind = iota
	EventCommand
	EventDigit
	EventNegative
	EventBareRepeat
	EventCancel
)

func (k EventKind) String() string {
	switch k {
	case EventChar:
		return "char"
	case EventCommand:
		return "command"
	case EventDigit:
		return "digit"
	case EventNegative:
		return "negative"
	case EventBareRepeat:
		return "bare-repeat"
	case EventCancel:
		return "cancel"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is one unit of host input.
type Event struct {
	Kind    EventKind
	Text    string   // typed text for EventChar
	Command string   // command id for EventCommand
	Args    []string // optional command arguments
	Then    string   // command to run after isearch_exit
	Digit   int
}

func Char(text string) Event {
	return Event{Kind: EventChar, Text: text}
}

func Command(id string, args ...string) Event {
	return Event{Kind: EventCommand, Command: id, Args: args}
}

// CommandThen builds a command event that asks the host to run then afterwards.
func CommandThen(id, then string) Event {
	return Event{Kind: EventCommand, Command: id, Then: then}
}

func Digit(d int) Event {
	return Event{Kind: EventDigit, Digit: d}
}

func NegativeSign() Event {
	return Event{Kind: EventNegative}
}

func BareRepeat() Event {
	return Event{Kind: EventBareRepeat}
}

func Cancel() Event {
	return Event{Kind: EventCancel}
}

// Result reports what a handled event did.
type Result struct {
	// Message is shown in the echo area.
	Message string
	// Err is set when the command did nothing. User mistakes carry one of
	// the package sentinels; host failures are wrapped with the command id.
	Err error
	// Passthrough asks the host to insert a typed character itself.
	Passthrough bool
	// FollowUp is a command id the host should invoke next.
	FollowUp string
	// Prompt is set when the dispatcher needs minibuffer input. Resume it
	// with Dispatcher.Resume.
	Prompt *Continuation
}

// Continuation is a pending minibuffer request.
type Continuation struct {
	Prompt  string
	Initial string
	token   uint64
	resume  func(input string) error
	command string
}
