package handler

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/preshow-cli/preshow/catalog"
	"github.com/preshow-cli/preshow/filesystem"
	"github.com/preshow-cli/preshow/log"
	"github.com/preshow-cli/preshow/playable"
	"github.com/preshow-cli/preshow/sequence"
	"github.com/preshow-cli/preshow/util"
	"github.com/samber/lo"
)

// Trivia not shown within StaleAfter comes before recently shown trivia.
const StaleAfter = 30 * 24 * time.Hour

// recentBatch is the size of the shuffled batches recently shown trivia is
// replayed in, oldest batch first.
const recentBatch = 4

// triviaSource feeds a trivia queue from the catalog. It is consulted at
// compile time to fill the queue and again during playback when the
// queue runs dry.
type triviaSource struct {
	ctx      context.Context
	reader   catalog.Reader
	settings sequence.TriviaSettings
	now      func() time.Time
	pending  []catalog.Trivia
}

func newTriviaSource(c *Context, s sequence.TriviaSettings) (*triviaSource, error) {
	src := &triviaSource{ctx: c.ctx(), reader: c.Catalog, settings: s, now: c.now}

	var dir string
	if s.Select == "Directory" {
		dir = s.Dir
	}

	cutoff := c.now().Add(-StaleAfter)
	stale, err := c.Catalog.Trivia(src.ctx, catalog.TriviaQuery{Dir: dir, AccessedBefore: cutoff, Order: catalog.OrderRandom})
	if err != nil {
		return nil, err
	}
	recent, err := c.Catalog.Trivia(src.ctx, catalog.TriviaQuery{Dir: dir, AccessedSince: cutoff, Order: catalog.OrderAccessed})
	if err != nil {
		return nil, err
	}

	src.pending = stale
	for _, batch := range lo.Chunk(recent, recentBatch) {
		rand.Shuffle(len(batch), func(i, j int) { batch[i], batch[j] = batch[j], batch[i] })
		src.pending = append(src.pending, batch...)
	}
	return src, nil
}

// slides builds the slide set of t: question, clues, answer. A set of a
// single slide shows for the single slide duration, whichever part it is.
func (s *triviaSource) slides(t catalog.Trivia) []*playable.Image {
	fade := s.settings.TransitionDuration

	var images []*playable.Image
	add := func(path string, d time.Duration) {
		if path != "" {
			images = append(images, &playable.Image{Path: path, Duration: d, SetID: t.TID, Fade: fade})
		}
	}

	add(t.Question, s.settings.Question)
	for _, clue := range t.Clues {
		add(clue, s.settings.Clue)
	}
	add(t.Answer, s.settings.Answer)

	if len(images) == 1 {
		images[0].Duration = s.settings.Single
	}
	for i, img := range images {
		img.SetNumber = len(images) - 1 - i
	}
	return images
}

func (s *triviaSource) Next(q *playable.ImageQueue) []*playable.Image {
	for len(s.pending) > 0 {
		t := s.pending[0]
		s.pending = s.pending[1:]

		if t.Type == catalog.TriviaVideo {
			continue
		}
		images := s.slides(t)
		if len(images) == 0 || q.Contains(images...) {
			continue
		}
		return images
	}
	return nil
}

func (s *triviaSource) Mark(img *playable.Image) {
	if err := s.reader.MarkAccessed(s.ctx, img.SetID, s.now()); err != nil {
		log.Warnf("mark trivia %s: %s", img.SetID, err)
	}
}

// slideSource cycles through the slideshow slides.
type slideSource struct {
	slides   []catalog.Slide
	next     int
	duration time.Duration
	fade     time.Duration
}

func (s *slideSource) Next(q *playable.ImageQueue) []*playable.Image {
	if len(s.slides) == 0 {
		return nil
	}
	if q != nil && q.MaxDuration <= 0 && s.next >= len(s.slides) {
		return nil
	}

	slide := s.slides[s.next%len(s.slides)]
	s.next++
	return []*playable.Image{{Path: slide.Path, Duration: s.duration, SetID: slide.TID, Fade: s.fade}}
}

func (*slideSource) Mark(*playable.Image) {}

// fill pulls sets until the queue reaches its maximum duration. Sets are
// never split, so the last one may run over. A set that adds no time ends
// the fill.
func fill(q *playable.ImageQueue, source playable.QueueSource) {
	for q.MaxDuration <= 0 || q.Duration < q.MaxDuration {
		images := source.Next(q)
		if len(images) == 0 {
			return
		}
		q.Add(images...)
		if lo.SumBy(images, func(img *playable.Image) time.Duration { return img.Duration }) <= 0 {
			return
		}
	}
}

func trivia(c *Context, it *sequence.Item) ([]playable.Playable, error) {
	s := it.Trivia(c.Defaults)
	if s.Duration <= 0 {
		return nil, nil
	}

	source, err := newTriviaSource(c, s)
	if err != nil {
		return nil, err
	}

	q := playable.NewImageQueue(source, s.Duration)
	q.Transition = s.Transition
	q.TransitionDuration = s.TransitionDuration
	fill(q, source)
	if q.Size() == 0 {
		return nil, nil
	}

	if err := attachMusic(c, q, s.Music); err != nil {
		return nil, err
	}
	return []playable.Playable{q}, nil
}

func slideshow(c *Context, it *sequence.Item) ([]playable.Playable, error) {
	s := it.Slideshow(c.Defaults)

	query := catalog.SlideQuery{Order: catalog.OrderPath}
	if s.Order == "Random" {
		query.Order = catalog.OrderRandom
	}
	if s.Select == "Directory" {
		query.Dir = s.Dir
	}

	slides, err := c.Catalog.Slides(c.ctx(), query)
	if err != nil {
		return nil, err
	}
	slides = lo.Reject(slides, func(sl catalog.Slide, _ int) bool { return sl.Video })
	if len(slides) == 0 {
		return nil, nil
	}

	source := &slideSource{slides: slides, duration: s.Slide, fade: s.TransitionDuration}
	q := playable.NewImageQueue(source, s.Duration)
	q.Transition = s.Transition
	q.TransitionDuration = s.TransitionDuration
	fill(q, source)

	if err := attachMusic(c, q, s.Music); err != nil {
		return nil, err
	}
	return []playable.Playable{q}, nil
}

// attachMusic sets the playlist of q, repeated until it covers the queue.
// Songs of unknown length are not repeated; the player loops them.
func attachMusic(c *Context, q *playable.ImageQueue, m sequence.Music) error {
	q.MusicVolume = m.Volume
	q.MusicFadeIn = m.FadeIn
	q.MusicFadeOut = m.FadeOut

	var songs []*playable.Song
	switch m.Mode {
	case "content":
		found, err := c.Catalog.Songs(c.ctx())
		if err != nil {
			return err
		}
		songs = lo.Map(found, func(s catalog.Song, _ int) *playable.Song {
			return &playable.Song{Path: s.Path, Duration: s.Duration}
		})
	case "dir":
		files, err := filesystem.Files(m.Dir, util.MusicExtensions...)
		if err != nil {
			log.Warnf("music directory %s: %s", m.Dir, err)
			return nil
		}
		songs = lo.Map(lo.Shuffle(files), func(path string, _ int) *playable.Song {
			return &playable.Song{Path: path}
		})
	case "file":
		if m.File != "" {
			songs = []*playable.Song{{Path: m.File}}
		}
	default:
		return nil
	}

	total := lo.SumBy(songs, func(s *playable.Song) time.Duration { return s.Duration })
	playlist := songs
	if total > 0 {
		for covered := total; covered < q.Duration; covered += total {
			playlist = append(playlist, songs...)
		}
	}
	q.Music = playlist
	return nil
}
