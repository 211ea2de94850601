package engine

import (
	"context"
	"sync"
	"time"

	"github.com/preshow-cli/preshow/log"
	"github.com/preshow-cli/preshow/player"
)

// ChapterPoll is how often the chapter of a feature is read.
const ChapterPoll = 5 * time.Second

// chapterTracker watches the chapter of the playing feature and calls
// onLast and onMiddle once each per feature.
type chapterTracker struct {
	dev      player.Device
	poll     time.Duration
	onLast   func(ctx context.Context)
	onMiddle func(ctx context.Context)

	mu          sync.Mutex
	cancel      context.CancelFunc
	done        chan struct{}
	firedLast   bool
	firedMiddle bool
}

func newChapterTracker(dev player.Device, poll time.Duration, onLast, onMiddle func(ctx context.Context)) *chapterTracker {
	return &chapterTracker{dev: dev, poll: poll, onLast: onLast, onMiddle: onMiddle}
}

func (t *chapterTracker) enabled() bool {
	return t.onLast != nil || t.onMiddle != nil
}

// Reset arms both chapter actions for a new feature.
func (t *chapterTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.firedLast, t.firedMiddle = false, false
}

// Start polls until Stop or ctx is done. A running poller is kept.
func (t *chapterTracker) Start(ctx context.Context) {
	if !t.enabled() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel, t.done = cancel, done

	go func() {
		defer close(done)
		ticker := time.NewTicker(t.poll)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.check(ctx)
			}
		}
	}()
}

// Stop ends the poller and waits for it.
func (t *chapterTracker) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (t *chapterTracker) check(ctx context.Context) {
	current, count, err := t.dev.Chapter()
	if err != nil {
		log.Debugf("chapter: %s", err)
		return
	}
	if count <= 1 || current < 0 {
		return
	}

	t.mu.Lock()
	fireLast := t.onLast != nil && !t.firedLast && current == count-1
	fireMiddle := t.onMiddle != nil && !t.firedMiddle && current == count/2
	if fireLast {
		t.firedLast = true
	}
	if fireMiddle {
		t.firedMiddle = true
	}
	t.mu.Unlock()

	if fireMiddle {
		log.Infof("middle chapter %d of %d reached", current+1, count)
		t.onMiddle(ctx)
	}
	if fireLast {
		log.Infof("last chapter %d reached", count)
		t.onLast(ctx)
	}
}
