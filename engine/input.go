package engine

import "sync"

// Input is a viewer command.
type Input int

const (
	None Input = iota
	// Next and Prev step one slide, or one playable outside slideshows.
	Next
	Prev
	// BigNext and BigPrev step three slide sets.
	BigNext
	BigPrev
	// Skip and Back leave the current item.
	Skip
	Back
	Pause
	// Stop ends the show.
	Stop
)

var inputNames = map[Input]string{
	None:    "none",
	Next:    "next",
	Prev:    "prev",
	BigNext: "big-next",
	BigPrev: "big-prev",
	Skip:    "skip",
	Back:    "back",
	Pause:   "pause",
	Stop:    "stop",
}

func (i Input) String() string {
	return inputNames[i]
}

// ParseInput reads an input name as printed by String.
func ParseInput(s string) (Input, bool) {
	for in, name := range inputNames {
		if name == s && in != None {
			return in, true
		}
	}
	return None, false
}

// Slot holds the one pending viewer command. A newer command replaces an
// unconsumed one, except that a step never downgrades a pending skip or
// back in the same direction.
type Slot struct {
	mu      sync.Mutex
	pending Input
}

// Send stores in as the pending command.
func (s *Slot) Send(in Input) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.pending == Stop:
	case s.pending == Skip && (in == Next || in == BigNext):
	case s.pending == Back && (in == Prev || in == BigPrev):
	default:
		s.pending = in
	}
}

// Take consumes the pending command.
func (s *Slot) Take() Input {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := s.pending
	s.pending = None
	return in
}

// Peek returns the pending command without consuming it.
func (s *Slot) Peek() Input {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}
