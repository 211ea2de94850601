package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/preshow-cli/preshow/player"
)

// fakeDevice plays instantly. By default every media starts and ends; a
// path can be scripted to "fail", "hang" until stopped, or "abort" as if
// the viewer closed the player. Scripts are consumed one per play.
type fakeDevice struct {
	mu       sync.Mutex
	events   chan player.Event
	scripts  map[string][]string
	played   []string
	volume   int
	volumes  []int
	paused   bool
	playing  string
	stops    int
	chapter  int
	chapters int
}

func newFakeDevice(volume int) *fakeDevice {
	return &fakeDevice{
		events:  make(chan player.Event, 64),
		scripts: make(map[string][]string),
		volume:  volume,
	}
}

func (d *fakeDevice) script(path string, behaviors ...string) *fakeDevice {
	d.scripts[path] = append(d.scripts[path], behaviors...)
	return d
}

func (d *fakeDevice) Play(_ context.Context, items ...player.Media) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	path := items[0].Path
	for _, m := range items {
		d.played = append(d.played, m.Path)
	}

	behavior := "end"
	if s := d.scripts[path]; len(s) > 0 {
		behavior, d.scripts[path] = s[0], s[1:]
	}

	switch behavior {
	case "fail":
		d.events <- player.Event{Kind: player.Failed, Path: path, Err: errors.New("unplayable")}
	case "hang":
		d.playing = path
		d.events <- player.Event{Kind: player.Started, Path: path}
	case "abort":
		d.events <- player.Event{Kind: player.Started, Path: path}
		d.events <- player.Event{Kind: player.Stopped, Path: path}
	default:
		d.events <- player.Event{Kind: player.Started, Path: path}
		d.events <- player.Event{Kind: player.Ended, Path: path}
	}
	return nil
}

func (d *fakeDevice) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stops++
	if d.playing != "" {
		d.events <- player.Event{Kind: player.Stopped, Path: d.playing}
		d.playing = ""
	}
	return nil
}

func (d *fakeDevice) SetPause(paused bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if paused == d.paused {
		return nil
	}
	d.paused = paused
	if paused {
		d.events <- player.Event{Kind: player.Paused}
	} else {
		d.events <- player.Event{Kind: player.Resumed}
	}
	return nil
}

func (d *fakeDevice) Volume() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.volume, nil
}

func (d *fakeDevice) SetVolume(level int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.volume = level
	d.volumes = append(d.volumes, level)
	return nil
}

func (d *fakeDevice) Playing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.playing != ""
}

func (d *fakeDevice) Chapter() (int, int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.chapter, d.chapters, nil
}

func (d *fakeDevice) Events() <-chan player.Event {
	return d.events
}

func (d *fakeDevice) Close() error {
	return nil
}

func (d *fakeDevice) Played() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.played...)
}

func (d *fakeDevice) Level() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.volume
}

func (d *fakeDevice) Levels() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]int(nil), d.volumes...)
}

type fakeScreen struct {
	mu      sync.Mutex
	shown   []string
	notices []string
	fades   []time.Duration
	cleared int
}

func (s *fakeScreen) ShowImage(_ context.Context, path, _ string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if path == "broken" {
		return errors.New("cannot decode")
	}
	s.shown = append(s.shown, path)
	return nil
}

func (s *fakeScreen) FadeOut(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fades = append(s.fades, d)
}

func (s *fakeScreen) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared++
}

func (s *fakeScreen) Status(string, string) {}

func (s *fakeScreen) Notice(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, msg)
}

// counter is an action that counts its runs and calls then.
type counter struct {
	mu   sync.Mutex
	n    int
	then func()
}

func (c *counter) Run(context.Context) error {
	c.mu.Lock()
	c.n++
	then := c.then
	c.mu.Unlock()

	if then != nil {
		then()
	}
	return nil
}

func (c *counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
