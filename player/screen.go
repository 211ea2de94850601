package player

import (
	"context"
	"fmt"
	"time"

	"github.com/preshow-cli/preshow/log"
)

// Screen shows stills and status text in the window of an mpv device.
type Screen struct {
	device *MPV
}

// NewScreen draws on device, usually the one playing the videos.
func NewScreen(device *MPV) *Screen {
	return &Screen{device: device}
}

func (s *Screen) ShowImage(ctx context.Context, path, transition string, fade time.Duration) error {
	if transition != "" && transition != "none" {
		log.Debugf("screen: %s transition of %s shown as a cut", transition, fade)
	}
	return s.device.Play(ctx, Media{Path: path})
}

// FadeOut is a cut: mpv has no crossfade between files.
func (s *Screen) FadeOut(time.Duration) {}

func (s *Screen) Clear() {
	if err := s.device.Stop(); err != nil {
		log.Debugf("screen clear: %s", err)
	}
}

// Status shows what plays and what comes next in the window title.
func (s *Screen) Status(current, next string) {
	if !s.device.running() {
		return
	}

	title := current
	if next != "" {
		title = fmt.Sprintf("%s | next: %s", current, next)
	}
	if _, err := s.device.sendCommand("set_property", "title", title); err != nil {
		log.Debugf("screen status: %s", err)
	}
}

// Notice flashes msg on the on-screen display.
func (s *Screen) Notice(msg string) {
	if !s.device.running() {
		return
	}
	if _, err := s.device.sendCommand("show-text", msg, 1500); err != nil {
		log.Debugf("screen notice: %s", err)
	}
}
