// Package handler expands sequence items into playables, one handler per
// item kind, selecting content from the catalog.
package handler

import (
	"context"
	"errors"
	"time"

	"github.com/preshow-cli/preshow/action"
	"github.com/preshow-cli/preshow/catalog"
	"github.com/preshow-cli/preshow/key"
	"github.com/preshow-cli/preshow/log"
	"github.com/preshow-cli/preshow/playable"
	"github.com/preshow-cli/preshow/sequence"
	"github.com/preshow-cli/preshow/trailer"
	"github.com/spf13/cast"
)

// Context is what handlers consult while a sequence compiles.
type Context struct {
	Ctx      context.Context
	Defaults sequence.Defaults
	Catalog  catalog.Reader
	Queue    *FeatureQueue
	// Trailers resolves content trailers. Without it only trailers whose
	// stored URL is playable as is are shown.
	Trailers *trailer.Resolver
	// Runner builds the runner of an action script; nil runs Lua scripts.
	Runner func(path string) playable.Runner
	Now    func() time.Time
	// ReadOnly leaves the catalog untouched, for previews of a show.
	ReadOnly bool

	shown map[string]struct{}
}

func (c *Context) ctx() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

func (c *Context) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// markShown remembers a trailer picked without recording it in the catalog,
// so later items of the same compile do not pick it as unwatched again.
func (c *Context) markShown(wid string) {
	if c.shown == nil {
		c.shown = make(map[string]struct{})
	}
	c.shown[wid] = struct{}{}
}

func (c *Context) shownTrailer(wid string) bool {
	_, ok := c.shown[wid]
	return ok
}

func (c *Context) ratingSystem() string {
	if c.Defaults != nil {
		if s := cast.ToString(c.Defaults.Get(key.RatingSystemDefault)); s != "" {
			return s
		}
	}
	return "MPAA"
}

func (c *Context) runner(path string) playable.Runner {
	if c.Runner != nil {
		return c.Runner(path)
	}
	return action.New(path)
}

// FeatureQueue holds the features of a run in play order.
type FeatureQueue struct {
	features []*playable.Feature
	next     int
}

// NewFeatureQueue queues features.
func NewFeatureQueue(features ...*playable.Feature) *FeatureQueue {
	return &FeatureQueue{features: features}
}

// Pop dequeues the next feature, nil when none is left.
func (q *FeatureQueue) Pop() *playable.Feature {
	if q.Empty() {
		return nil
	}
	f := q.features[q.next]
	q.next++
	return f
}

// Peek is the next feature without dequeuing it.
func (q *FeatureQueue) Peek() *playable.Feature {
	if q.Empty() {
		return nil
	}
	return q.features[q.next]
}

// Empty reports whether every feature was dequeued.
func (q *FeatureQueue) Empty() bool {
	return q == nil || q.next >= len(q.features)
}

// All lists every feature of the run, dequeued or not.
func (q *FeatureQueue) All() []*playable.Feature {
	if q == nil {
		return nil
	}
	return q.features
}

// Handle expands an item. Lookup failures are logged and leave the item
// without playables; commands are left to the compiler.
func Handle(c *Context, it *sequence.Item) []playable.Playable {
	var (
		out []playable.Playable
		err error
	)

	switch it.Kind {
	case sequence.Feature:
		out, err = features(c, it)
	case sequence.Trivia:
		out, err = trivia(c, it)
	case sequence.Slideshow:
		out, err = slideshow(c, it)
	case sequence.Trailer:
		out, err = trailers(c, it)
	case sequence.Video:
		out, err = videoBumpers(c, it)
	case sequence.AudioFormat:
		out, err = audioFormatBumper(c, it)
	case sequence.Action:
		out = actions(c, it)
	case sequence.Command:
		return nil
	}

	if err != nil {
		var lookup *catalog.LookupError
		if errors.As(err, &lookup) {
			log.Warnf("%s: catalog lookup failed, NOT SHOWING: %s", it.Display(), err)
		} else {
			log.Errorf("%s: NOT SHOWING: %s", it.Display(), err)
		}
		return nil
	}
	if len(out) == 0 {
		log.Debugf("%s: nothing to show", it.Display())
	}
	return out
}

func actions(c *Context, it *sequence.Item) []playable.Playable {
	s := it.Action(c.Defaults)
	if s.File == "" {
		log.Debugf("%s: no action file, NOT SHOWING", it.Display())
		return nil
	}
	return []playable.Playable{playable.NewAction(s.File, c.runner(s.File))}
}
