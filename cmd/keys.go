package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/preshow-cli/preshow/engine"
	"github.com/preshow-cli/preshow/log"
	"golang.org/x/term"
)

const keyHelp = "keys: space pause, n/→ next, p/← prev, N/↑ +3, P/↓ -3, s skip, b back, q stop"

// keyInput maps a key press, as read from a raw terminal, to a viewer
// command.
func keyInput(b []byte) engine.Input {
	if len(b) == 3 && b[0] == 0x1b && b[1] == '[' {
		switch b[2] {
		case 'C':
			return engine.Next
		case 'D':
			return engine.Prev
		case 'A':
			return engine.BigNext
		case 'B':
			return engine.BigPrev
		}
		return engine.None
	}
	if len(b) != 1 {
		return engine.None
	}

	switch b[0] {
	case ' ':
		return engine.Pause
	case 'n':
		return engine.Next
	case 'p':
		return engine.Prev
	case 'N':
		return engine.BigNext
	case 'P':
		return engine.BigPrev
	case 's':
		return engine.Skip
	case 'b':
		return engine.Back
	case 'q', 0x03, 0x1b:
		return engine.Stop
	}
	return engine.None
}

// readKeys feeds key presses on stdin to slot until stdin closes. The
// returned function puts the terminal back; it is a no-op when stdin is not
// a terminal.
func readKeys(slot *engine.Slot) (restore func()) {
	fd := int(os.Stdin.Fd())
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return func() {}
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		log.Warnf("raw terminal: %s", err)
		return func() {}
	}

	go func() {
		buf := make([]byte, 8)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if in := keyInput(buf[:n]); in != engine.None {
				log.Debugf("key %q: %s", buf[:n], in)
				slot.Send(in)
			}
		}
	}()

	return func() {
		_ = term.Restore(fd, state)
	}
}
