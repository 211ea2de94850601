package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/preshow-cli/preshow/log"
)

const eventBuffer = 32

// observed are the properties mpv reports changes of, by observer ID.
var observed = map[int64]string{
	1: "pause",
	2: "path",
}

// eventListener turns the messages mpv broadcasts on a dedicated connection
// into playback events. Property observers belong to the connection that
// registered them, so they are registered on that same connection.
type eventListener struct {
	socketPath string
	conn       net.Conn
	events     chan Event

	mu     sync.Mutex
	path   string
	loaded bool
	done   chan struct{}
}

func newEventListener(socketPath string) *eventListener {
	return &eventListener{
		socketPath: socketPath,
		events:     make(chan Event, eventBuffer),
		done:       make(chan struct{}),
	}
}

func (el *eventListener) start() error {
	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}
	el.conn = conn

	for id, name := range observed {
		payload, _ := json.Marshal(ipcCommand{Command: []any{"observe_property", id, name}, RequestID: -id})
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	go el.readLoop()
	log.Debugf("mpv event listener started on %s", el.socketPath)
	return nil
}

func (el *eventListener) stop() {
	if el.conn != nil {
		el.conn.Close()
	}
	<-el.done
}

func (el *eventListener) readLoop() {
	defer close(el.done)
	defer close(el.events)

	scanner := bufio.NewScanner(el.conn)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}
		if ev, ok := el.translate(msg); ok {
			el.emit(ev)
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Warnf("mpv event listener: %s", err)
	}
}

func (el *eventListener) emit(ev Event) {
	select {
	case el.events <- ev:
	default:
		log.Warnf("mpv event dropped: %s %s", ev.Kind, ev.Path)
	}
}

// translate maps an mpv message to an event.
func (el *eventListener) translate(msg ipcMessage) (Event, bool) {
	el.mu.Lock()
	defer el.mu.Unlock()

	switch msg.Event {
	case "property-change":
		switch msg.Name {
		case "path":
			el.path, _ = msg.Data.(string)
		case "pause":
			paused, ok := msg.Data.(bool)
			if !ok || !el.loaded {
				return Event{}, false
			}
			if paused {
				return Event{Kind: Paused, Path: el.path}, true
			}
			return Event{Kind: Resumed, Path: el.path}, true
		}
	case "file-loaded":
		el.loaded = true
		return Event{Kind: Started, Path: el.path}, true
	case "end-file":
		el.loaded = false
		ev := Event{Path: el.path}
		switch msg.Reason {
		case "eof":
			ev.Kind = Ended
		case "error":
			ev.Kind = Failed
			ev.Err = &DeviceError{Op: "play", Path: el.path, Err: errors.New(msg.FileError)}
		case "redirect":
			return Event{}, false
		default:
			ev.Kind = Stopped
		}
		return ev, true
	case "shutdown":
		if el.loaded {
			el.loaded = false
			return Event{Kind: Stopped, Path: el.path}, true
		}
	}
	return Event{}, false
}
