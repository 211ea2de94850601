package engine

import (
	"context"
	"sync"
	"time"

	"github.com/preshow-cli/preshow/log"
	"github.com/preshow-cli/preshow/player"
	"github.com/samber/mo"
)

// VolumeControl changes the volume of a device and puts the original level
// back once. At most one fade runs at a time.
type VolumeControl struct {
	dev  player.Device
	tick time.Duration
	now  func() time.Time
	// paused holds fades while it reports true.
	paused func() bool

	mu        sync.Mutex
	saved     mo.Option[int]
	restoring bool
	fade      *fade
}

type fade struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewVolumeControl controls dev, ramping fades in steps of tick.
func NewVolumeControl(dev player.Device, tick time.Duration) *VolumeControl {
	return &VolumeControl{
		dev:    dev,
		tick:   tick,
		now:    time.Now,
		paused: func() bool { return false },
	}
}

// Current is the device level, 0 when it cannot be read.
func (v *VolumeControl) Current() int {
	level, err := v.dev.Volume()
	if err != nil {
		log.Debugf("read volume: %s", err)
		return 0
	}
	return level
}

// Store remembers the current level unless one is already stored.
func (v *VolumeControl) Store() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.store()
}

func (v *VolumeControl) store() {
	if v.saved.IsPresent() {
		return
	}
	v.saved = mo.Some(v.Current())
}

// Restore cancels any fade and sets the stored level back, after delay.
// It does nothing when nothing is stored or a restore is under way.
func (v *VolumeControl) Restore(delay time.Duration) {
	v.StopFade()

	v.mu.Lock()
	if v.restoring || v.saved.IsAbsent() {
		v.mu.Unlock()
		return
	}
	v.restoring = true
	saved := v.saved.MustGet()
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		v.restoring = false
		v.saved = mo.None[int]()
		v.mu.Unlock()
	}()

	if delay > 0 {
		time.Sleep(delay)
	}
	log.Debugf("restoring volume to %d", saved)
	if err := v.dev.SetVolume(saved); err != nil {
		log.Warnf("restore volume: %s", err)
	}
}

// Set changes the level to level, or to level percent of the stored level
// when relative, ramping over d.
func (v *VolumeControl) Set(level int, d time.Duration, relative bool) {
	v.mu.Lock()
	v.store()
	target := level
	if relative {
		target = v.saved.MustGet() * level / 100
	}
	v.mu.Unlock()

	log.Debugf("setting volume to %d over %s", target, d)
	if d <= 0 {
		v.StopFade()
		if err := v.dev.SetVolume(target); err != nil {
			log.Warnf("set volume: %s", err)
		}
		return
	}
	v.startFade(v.Current(), target, d)
}

// Fading reports whether a fade is running.
func (v *VolumeControl) Fading() bool {
	v.mu.Lock()
	f := v.fade
	v.mu.Unlock()

	if f == nil {
		return false
	}
	select {
	case <-f.done:
		return false
	default:
		return true
	}
}

// WaitFade blocks until the running fade is done.
func (v *VolumeControl) WaitFade() {
	v.mu.Lock()
	f := v.fade
	v.mu.Unlock()

	if f != nil {
		<-f.done
	}
}

// StopFade cancels the running fade and waits for it.
func (v *VolumeControl) StopFade() {
	v.mu.Lock()
	f := v.fade
	v.fade = nil
	v.mu.Unlock()

	if f != nil {
		f.cancel()
		<-f.done
	}
}

func (v *VolumeControl) startFade(from, to int, d time.Duration) {
	v.StopFade()

	ctx, cancel := context.WithCancel(context.Background())
	f := &fade{cancel: cancel, done: make(chan struct{})}

	v.mu.Lock()
	v.fade = f
	v.mu.Unlock()

	go func() {
		defer close(f.done)
		v.ramp(ctx, from, to, d)
	}()
}

// ramp moves the level linearly from from to to over d of unpaused time.
func (v *VolumeControl) ramp(ctx context.Context, from, to int, d time.Duration) {
	ticker := time.NewTicker(v.tick)
	defer ticker.Stop()

	var elapsed time.Duration
	last := v.now()
	level := from
	for elapsed < d {
		select {
		case <-ctx.Done():
			log.Debugf("fade ended early at %d", level)
			return
		case <-ticker.C:
		}

		now := v.now()
		if !v.paused() {
			elapsed += now.Sub(last)
		}
		last = now

		progress := min(float64(elapsed)/float64(d), 1)
		level = from + int(progress*float64(to-from))
		if err := v.dev.SetVolume(level); err != nil {
			log.Debugf("fade: %s", err)
			return
		}
	}
	log.Debugf("fade done at %d", level)
}
