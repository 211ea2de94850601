// Package engine plays a compiled show on the media devices, reacting to
// viewer commands and firing the event actions.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/preshow-cli/preshow/action"
	"github.com/preshow-cli/preshow/compiler"
	"github.com/preshow-cli/preshow/log"
	"github.com/preshow-cli/preshow/playable"
	"github.com/preshow-cli/preshow/player"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

var (
	// ErrAborted ends a show before its last playable.
	ErrAborted = errors.New("show aborted")
	// ErrAlreadyRunning is returned by Run while the engine plays.
	ErrAlreadyRunning = errors.New("show already running")
)

// musicRestoreDelay lets the music device go quiet before its volume is
// put back.
const musicRestoreDelay = 500 * time.Millisecond

// Presenter shows stills and status over the show.
type Presenter interface {
	ShowImage(ctx context.Context, path, transition string, fade time.Duration) error
	FadeOut(d time.Duration)
	Clear()
	// Status tells what plays now and what comes next.
	Status(current, next string)
	// Notice flashes a short message.
	Notice(msg string)
}

type outcome int

const (
	played outcome = iota
	skipped
	wentBack
	failed
)

// Engine walks the timeline of a processor.
type Engine struct {
	Processor *compiler.Processor
	Video     player.Device
	// Music plays the songs under image queues; nil plays them silent.
	Music   player.Device
	Screen  Presenter
	Actions EventActions
	Input   *Slot
	// ID names the run in the logs. Run picks a fresh one when empty.
	ID string

	// Tick is the input poll and fade step.
	Tick         time.Duration
	ChapterPoll  time.Duration
	MaxFailures  int
	PreDelay     time.Duration
	StartTimeout time.Duration
	Now          func() time.Time

	running   atomic.Bool
	paused    atomic.Bool
	inFeature bool
	failures  int
	log       *logrus.Entry

	volume      *VolumeControl
	musicVolume *VolumeControl
	chapters    *chapterTracker
}

// New returns an engine playing p on video, music and screen.
func New(p *compiler.Processor, video, music player.Device, screen Presenter) *Engine {
	return &Engine{
		Processor:    p,
		Video:        video,
		Music:        music,
		Screen:       screen,
		Input:        &Slot{},
		Tick:         100 * time.Millisecond,
		ChapterPoll:  ChapterPoll,
		MaxFailures:  5,
		StartTimeout: 30 * time.Second,
		Now:          time.Now,
	}
}

// Running reports whether Run is in progress.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Run plays the show to its end. It returns an error wrapping ErrAborted
// when the viewer stops it, the player is closed, ctx is done or playback
// fails MaxFailures times in a row.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer e.running.Store(false)

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.log = log.WithRun(e.ID)
	e.failures = 0
	e.paused.Store(false)

	e.volume = NewVolumeControl(e.Video, e.Tick)
	e.volume.Store()
	if e.Music != nil {
		e.musicVolume = NewVolumeControl(e.Music, e.Tick)
		e.musicVolume.paused = e.paused.Load
	}
	e.chapters = newChapterTracker(
		e.Video,
		e.ChapterPoll,
		e.fireOn("last chapter", e.Actions.LastChapter),
		e.fireOn("middle chapter", e.Actions.MiddleChapter),
	)
	defer e.teardown()

	e.log.Infof("show starting with %d playables", len(e.Processor.Timeline()))
	e.fire(ctx, "preshow beginning", e.Actions.Beginning)

	err := e.loop(ctx)
	if errors.Is(err, ErrAborted) {
		e.log.Warnf("%s", err)
		e.fire(context.WithoutCancel(ctx), "abort", e.Actions.Abort)
		return err
	}
	if err != nil {
		return err
	}

	e.log.Info("show finished")
	return nil
}

func (e *Engine) teardown() {
	e.chapters.Stop()
	if e.musicVolume != nil {
		e.musicVolume.StopFade()
		if err := e.Music.Stop(); err != nil {
			e.log.Debugf("stop music: %s", err)
		}
		e.musicVolume.Restore(0)
	}
	e.Screen.Clear()
	e.volume.Restore(0)
}

func (e *Engine) loop(ctx context.Context) error {
	back := false
	for {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %s", ErrAborted, context.Cause(ctx))
		}
		if e.Input.Peek() == Stop {
			return fmt.Errorf("%w by the viewer", ErrAborted)
		}

		var pl playable.Playable
		if back {
			pl = e.Processor.Prev()
		} else {
			pl = e.Processor.Next()
		}
		back = false
		if pl == nil {
			return nil
		}

		e.log.Debugf("playing %s", pl.Type())
		e.status(pl)

		var err error
		switch p := pl.(type) {
		case *playable.Image:
			back, err = e.showImage(ctx, p)
		case *playable.ImageQueue:
			back, err = e.showQueue(ctx, p)
		case *playable.Feature:
			back, err = e.playFeature(ctx, p)
		case *playable.Video:
			back, err = e.playVideo(ctx, p, false)
		case *playable.VideoQueue:
			back, err = e.playVideoQueue(ctx, p)
		case *playable.Action:
			e.fire(ctx, "item", p)
		case *playable.Goto:
			if !e.jump(p) {
				return nil
			}
		default:
			e.log.Warnf("cannot play %s", pl.Type())
		}
		if err != nil {
			return err
		}
	}
}

// jump applies a loop command and reports whether the show goes on.
func (e *Engine) jump(g *playable.Goto) bool {
	offset := g.Run(e.Now())
	if offset == 0 {
		e.log.Debugf("loop at %d done", g.From())
		return true
	}

	e.log.Infof("loop at %d jumps %d items", g.From(), offset)
	if !e.Processor.SeekToFirstPlayableAtOffset(offset) {
		e.log.Infof("loop target past the last item")
		return false
	}
	return true
}

func (e *Engine) status(pl playable.Playable) {
	next := ""
	if up, ok := e.Processor.UpNext().Get(); ok {
		next = up.Module()
	}
	e.Screen.Status(pl.Module(), next)
}

func (e *Engine) fire(ctx context.Context, event string, r playable.Runner) {
	if r == nil {
		return
	}

	e.log.Infof("%s action", event)
	if err := r.Run(ctx); err != nil {
		var scriptErr *action.ScriptError
		if errors.As(err, &scriptErr) {
			e.log.Warnf("%s action: %s", event, scriptErr)
			return
		}
		e.log.Errorf("%s action: %s", event, err)
	}
}

func (e *Engine) fireOn(event string, r playable.Runner) func(context.Context) {
	if r == nil {
		return nil
	}
	return func(ctx context.Context) {
		e.fire(ctx, event, r)
	}
}

// withFeature lets a script see the feature it runs before.
func withFeature(r playable.Runner, f *playable.Feature) playable.Runner {
	if s, ok := r.(*action.Script); ok {
		return s.WithFeature(f)
	}
	return r
}

// failed counts a playback failure and aborts after too many in a row.
func (e *Engine) failed(path string, err error) error {
	e.failures++
	e.log.Warnf("%s failed (%d in a row): %v", path, e.failures, err)
	if e.MaxFailures > 0 && e.failures >= e.MaxFailures {
		return fmt.Errorf("%w: %d playback failures in a row", ErrAborted, e.failures)
	}
	return nil
}

func (e *Engine) onPause(ctx context.Context) {
	if e.paused.Swap(true) {
		return
	}
	e.log.Info("paused")
	e.chapters.Stop()
	e.fire(ctx, "pause", e.Actions.Pause)
}

func (e *Engine) onResume(ctx context.Context) {
	if !e.paused.Swap(false) {
		return
	}
	e.log.Info("resumed")

	if e.Actions.ResumeLast {
		if last := e.Processor.LastAction(); last != nil {
			e.fire(ctx, "resume", last)
		}
	} else {
		e.fire(ctx, "resume", e.Actions.Resume)
	}

	if e.inFeature {
		e.chapters.Start(ctx)
	}
}

// togglePause pauses or resumes while stills show. The music follows.
func (e *Engine) togglePause(ctx context.Context) {
	pause := !e.paused.Load()
	if e.Music != nil {
		if err := e.Music.SetPause(pause); err != nil {
			e.log.Debugf("pause music: %s", err)
		}
	}

	if pause {
		e.Screen.Notice("Paused")
		e.onPause(ctx)
	} else {
		e.Screen.Notice("Resumed")
		e.onResume(ctx)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %s", ErrAborted, context.Cause(ctx))
	case <-t.C:
		return nil
	}
}

// hold keeps the current still for d and returns the viewer command that cut
// it short, None when d ran out. Paused time does not count towards d and
// is returned.
func (e *Engine) hold(ctx context.Context, d time.Duration) (Input, time.Duration, error) {
	ticker := time.NewTicker(e.Tick)
	defer ticker.Stop()

	var elapsed, pausedFor time.Duration
	last := e.Now()
	for elapsed < d {
		select {
		case <-ctx.Done():
			return None, pausedFor, fmt.Errorf("%w: %s", ErrAborted, context.Cause(ctx))
		case <-ticker.C:
		}

		now := e.Now()
		if e.paused.Load() {
			pausedFor += now.Sub(last)
		} else {
			elapsed += now.Sub(last)
		}
		last = now

		switch in := e.Input.Take(); in {
		case None:
		case Stop:
			return in, pausedFor, fmt.Errorf("%w by the viewer", ErrAborted)
		case Pause:
			e.togglePause(ctx)
		default:
			return in, pausedFor, nil
		}
	}
	return None, pausedFor, nil
}

func backwards(in Input) bool {
	return in == Prev || in == BigPrev || in == Back
}

func (e *Engine) showImage(ctx context.Context, img *playable.Image) (bool, error) {
	if err := e.Screen.ShowImage(ctx, img.Path, "", img.Fade); err != nil {
		return false, e.failed(img.Path, err)
	}
	e.failures = 0

	fade := min(img.Fade, img.Duration)
	in, _, err := e.hold(ctx, img.Duration-fade)
	if err != nil {
		return false, err
	}
	if in == None && fade > 0 {
		e.Screen.FadeOut(fade)
		if in, _, err = e.hold(ctx, fade); err != nil {
			return false, err
		}
	}
	return backwards(in), nil
}

// showQueue runs a slideshow: the viewer steps through slides and slide
// sets, the queue ends once its time is up and the running set is over.
func (e *Engine) showQueue(ctx context.Context, q *playable.ImageQueue) (back bool, err error) {
	q.SetClock(e.Now)
	q.Reset()
	img := q.Next(time.Time{}, 1, false)
	if img == nil {
		e.log.Debugf("empty image queue")
		return false, nil
	}

	start := e.Now()
	music := e.startMusic(ctx, q)
	var musicEnd time.Time
	if music && q.MaxDuration > 0 {
		musicEnd = start.Add(q.MaxDuration + q.MusicFadeOut)
	}
	defer func() {
		if music {
			e.stopMusic(ctx, q, back)
		}
	}()

	for img != nil {
		if err := e.Screen.ShowImage(ctx, img.Path, q.Transition, q.TransitionDuration); err != nil {
			if err := e.failed(img.Path, err); err != nil {
				return false, err
			}
			img = q.Next(start, 1, false)
			continue
		}
		e.failures = 0

		in, pausedFor, err := e.hold(ctx, img.Duration)
		start = start.Add(pausedFor)
		if !musicEnd.IsZero() {
			musicEnd = musicEnd.Add(pausedFor)
		}
		if err != nil {
			return false, err
		}

		switch in {
		case Next:
			if n := q.Next(start, 1, true); n != nil {
				img = n
			}
		case Prev:
			if p := q.Prev(1); p != nil {
				img = p
			}
		case BigNext:
			e.Screen.Notice("+3")
			if n := q.Next(start, 3, true); n != nil {
				img = n
			}
		case BigPrev:
			e.Screen.Notice("-3")
			if p := q.Prev(3); p != nil {
				img = p
			}
		case Back:
			return true, nil
		case Skip:
			return false, nil
		default:
			q.Mark(img)
			img = q.Next(start, 1, false)
		}

		if music && !musicEnd.IsZero() && !e.Now().Before(musicEnd) {
			e.stopMusic(ctx, q, false)
			music = false
		}
	}

	e.Screen.FadeOut(q.TransitionDuration)
	return false, nil
}

func (e *Engine) startMusic(ctx context.Context, q *playable.ImageQueue) bool {
	if e.Music == nil || len(q.Music) == 0 {
		return false
	}

	e.musicVolume.Store()
	e.musicVolume.Set(1, 0, false)

	media := lo.Map(q.Music, func(s *playable.Song, _ int) player.Media {
		return player.Media{Path: s.Path}
	})
	if err := e.Music.Play(ctx, media...); err != nil {
		e.log.Warnf("music: %s", err)
		e.musicVolume.Restore(0)
		return false
	}

	e.log.Debugf("music: %d songs", len(media))
	e.musicVolume.Set(q.MusicVolume, q.MusicFadeIn, true)
	return true
}

// stopMusic fades the music out, unless the viewer went back, and puts the
// volume back.
func (e *Engine) stopMusic(ctx context.Context, q *playable.ImageQueue, back bool) {
	if !back && ctx.Err() == nil && q.MusicFadeOut > 0 {
		e.musicVolume.Set(1, q.MusicFadeOut, false)
		e.musicVolume.WaitFade()
	}
	e.musicVolume.StopFade()

	if err := e.Music.Stop(); err != nil {
		e.log.Debugf("stop music: %s", err)
	}
	e.musicVolume.Restore(musicRestoreDelay)
}

func (e *Engine) playFeature(ctx context.Context, f *playable.Feature) (bool, error) {
	e.fire(ctx, "before feature", withFeature(e.Actions.BeforeFeature, f))

	e.inFeature = true
	defer func() {
		e.inFeature = false
		e.chapters.Stop()
	}()

	back, err := e.playVideo(ctx, &f.Video, true)
	if err != nil || back {
		return back, err
	}

	if e.Processor.NextFeature().IsAbsent() {
		e.fire(ctx, "after feature", withFeature(e.Actions.AfterFeature, f))
	}
	return false, nil
}

func (e *Engine) playVideoQueue(ctx context.Context, q *playable.VideoQueue) (bool, error) {
	for i := 0; i < len(q.Videos); {
		back, err := e.playVideo(ctx, q.Videos[i], false)
		if err != nil {
			return false, err
		}
		if back {
			if i == 0 {
				return true, nil
			}
			i--
			continue
		}
		q.Mark(q.Videos[i])
		i++
	}
	return false, nil
}

func (e *Engine) playVideo(ctx context.Context, v *playable.Video, feature bool) (bool, error) {
	if v.Volume > 0 && v.Volume != 100 {
		e.volume.Set(v.Volume, 0, true)
		defer e.volume.Restore(0)
	}

	if e.PreDelay > 0 {
		if err := sleep(ctx, e.PreDelay); err != nil {
			return false, err
		}
	}

	res, err := e.play(ctx, v, feature)
	if errors.Is(err, ErrAborted) {
		return false, err
	}
	if res == failed {
		return false, e.failed(v.Path, err)
	}

	e.failures = 0
	return res == wentBack, nil
}

func drain(events <-chan player.Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// play runs v until it ends, fails, or the viewer leaves it. A stop coming
// from the player rather than the engine aborts the show.
func (e *Engine) play(ctx context.Context, v *playable.Video, feature bool) (outcome, error) {
	drain(e.Video.Events())

	media := player.Media{Path: v.Path, Title: v.Title, UserAgent: v.UserAgent}
	if err := e.Video.Play(ctx, media); err != nil {
		return failed, err
	}
	events := e.Video.Events()

	var startBy <-chan time.Time
	if e.StartTimeout > 0 {
		t := time.NewTimer(e.StartTimeout)
		defer t.Stop()
		startBy = t.C
	}

	ticker := time.NewTicker(e.Tick)
	defer ticker.Stop()

	started, stopping := false, false
	result := skipped
	leave := func(r outcome) (outcome, bool) {
		result, stopping = r, true
		if err := e.Video.Stop(); err != nil {
			e.log.Debugf("stop: %s", err)
		}
		return r, !started
	}

	for {
		select {
		case <-ctx.Done():
			_ = e.Video.Stop()
			return failed, fmt.Errorf("%w: %s", ErrAborted, context.Cause(ctx))

		case <-startBy:
			if !started {
				_ = e.Video.Stop()
				return failed, &player.DeviceError{Op: "play", Path: v.Path, Err: errors.New("playback did not start")}
			}

		case ev, ok := <-events:
			if !ok {
				return failed, fmt.Errorf("%w: player closed", ErrAborted)
			}

			switch ev.Kind {
			case player.Started:
				started = true
				e.log.Debugf("started %s", ev.Path)
				if feature {
					e.chapters.Reset()
					e.chapters.Start(ctx)
				}
			case player.Ended:
				if started {
					return played, nil
				}
			case player.Failed:
				return failed, ev.Err
			case player.Stopped:
				switch {
				case !started:
					// the media replaced by this one
				case stopping:
					return result, nil
				default:
					return failed, fmt.Errorf("%w: stopped from the player", ErrAborted)
				}
			case player.Paused:
				if started {
					e.onPause(ctx)
				}
			case player.Resumed:
				if started {
					e.onResume(ctx)
				}
			}

		case <-ticker.C:
			var r outcome
			switch in := e.Input.Take(); in {
			case None:
				continue
			case Stop:
				_ = e.Video.Stop()
				return failed, fmt.Errorf("%w by the viewer", ErrAborted)
			case Pause:
				if err := e.Video.SetPause(!e.paused.Load()); err != nil {
					e.log.Debugf("pause: %s", err)
				}
				continue
			default:
				if backwards(in) {
					r = wentBack
				} else {
					r = skipped
				}
			}
			if r, done := leave(r); done {
				return r, nil
			}
		}
	}
}
