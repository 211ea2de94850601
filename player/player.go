// Package player drives the media devices a show plays on. The main
// implementation controls mpv through its JSON-IPC interface.
package player

import (
	"context"
	"fmt"
)

// Media is one entry handed to a device.
type Media struct {
	Path      string
	Title     string
	UserAgent string
}

// EventKind tags a playback event.
type EventKind int

const (
	Started EventKind = iota
	Ended
	Stopped
	Failed
	Paused
	Resumed
)

var eventNames = [...]string{
	Started: "started",
	Ended:   "ended",
	Stopped: "stopped",
	Failed:  "failed",
	Paused:  "paused",
	Resumed: "resumed",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return fmt.Sprintf("event(%d)", int(k))
	}
	return eventNames[k]
}

// Event is a playback state change reported by a device.
type Event struct {
	Kind EventKind
	// Path is the media the event is about, when known.
	Path string
	// Err is set on Failed.
	Err error
}

// Device is a player the show commands.
type Device interface {
	// Play replaces what is playing with items, played back to back.
	Play(ctx context.Context, items ...Media) error
	Stop() error
	SetPause(paused bool) error
	// Volume is the current level, 0 to 100.
	Volume() (int, error)
	SetVolume(level int) error
	// Playing reports whether media is loaded, paused or not.
	Playing() bool
	// Chapter is the current chapter index and the chapter count of the
	// media, -1 and 0 when it has none.
	Chapter() (current, count int, err error)
	// Events delivers state changes until the device is closed.
	Events() <-chan Event
	Close() error
}

// DeviceError is a failure to start or control playback.
type DeviceError struct {
	Op   string
	Path string
	Err  error
}

func (e *DeviceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("player %s: %s", e.Op, e.Err)
	}
	return fmt.Sprintf("player %s %s: %s", e.Op, e.Path, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}
