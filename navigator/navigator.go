// Package navigator is the pager state machine. It has no I/O: Step takes a
// state and a command and returns the next state.
package navigator

// Command is one navigation request, usually decoded from a key press.
type Command int

const (
	Noop Command = iota
	NextMessage
	PrevMessage
	FirstMessage
	LastMessage
	LineDown
	LineUp
	Delete
	Quit
	// Other is any key without a binding. It only matters while a delete is armed.
	Other
)

var commandNames = map[Command]string{
	Noop:         "noop",
	NextMessage:  "next-message",
	PrevMessage:  "prev-message",
	FirstMessage: "first-message",
	LastMessage:  "last-message",
	LineDown:     "line-down",
	LineUp:       "line-up",
	Delete:       "delete",
	Quit:         "quit",
	Other:        "other",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// Effect is a side effect requested by a transition.
type Effect int

const (
	EffectNone Effect = iota
	// EffectDelete is a confirmed delete of the current message.
	EffectDelete
)

// Bounds describes the store being paged.
type Bounds interface {
	Len() int
	LineCount(i int) int
}

// State is the pager position. Message is in [0, Len()) and Line is in
// [0, LineCount(Message)-1], or 0 for a message without lines.
type State struct {
	Message int
	Line    int
	// Armed is set after the first delete key press.
	Armed bool
	// Done is set by Quit; no further command changes the state.
	Done bool
}

// Step applies cmd to s. The state machine is only defined for a non-empty
// store; with b.Len() == 0 the state is returned unchanged.
func Step(s State, cmd Command, b Bounds) (State, Effect) {
	total := b.Len()
	if s.Done || total == 0 {
		return s, EffectNone
	}

	if s.Armed {
		switch cmd {
		case Delete:
			s.Armed = false
			return s, EffectDelete
		case Quit:
			s.Armed = false
			s.Done = true
			return s, EffectNone
		case Noop:
			return s, EffectNone
		default:
			s.Armed = false
			return s, EffectNone
		}
	}

	last := total - 1
	switch cmd {
	case NextMessage:
		s.Message = min(s.Message+1, last)
		s.Line = 0
	case PrevMessage:
		s.Message = max(s.Message-1, 0)
		s.Line = 0
	case FirstMessage:
		s.Message = 0
		s.Line = 0
	case LastMessage:
		s.Message = last
		s.Line = 0
	case LineDown:
		s.Line = max(min(s.Line+1, b.LineCount(s.Message)-1), 0)
	case LineUp:
		s.Line = max(s.Line-1, 0)
	case Delete:
		s.Armed = true
	case Quit:
		s.Done = true
	}

	return s, EffectNone
}
