package catalog

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Memory is a catalog held in memory, for tests and dry runs.
type Memory struct {
	mu       sync.Mutex
	nextID   int64
	songs    []Song
	trivia   []Trivia
	slides   []Slide
	bumpers  []Bumper
	trailers []Trailer
}

// NewMemory returns an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

func shuffled[T any](items []T) []T {
	out := append([]T(nil), items...)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func (m *Memory) Songs(context.Context) ([]Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return shuffled(m.songs), nil
}

func (m *Memory) Trivia(_ context.Context, q TriviaQuery) ([]Trivia, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := lo.Filter(m.trivia, func(t Trivia, _ int) bool {
		if q.Dir != "" && !strings.Contains(t.Answer, q.Dir) {
			return false
		}
		if !q.AccessedBefore.IsZero() && !t.Accessed.Before(q.AccessedBefore) {
			return false
		}
		if !q.AccessedSince.IsZero() && t.Accessed.Before(q.AccessedSince) {
			return false
		}
		return true
	})
	out = lo.Map(out, func(t Trivia, _ int) Trivia {
		t.Clues = append([]string(nil), t.Clues...)
		return t
	})

	switch q.Order {
	case OrderAccessed:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Accessed.Before(out[j].Accessed) })
	case OrderPath:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Answer < out[j].Answer })
	default:
		out = shuffled(out)
	}
	return out, nil
}

func (m *Memory) MarkAccessed(_ context.Context, tid string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.trivia {
		if m.trivia[i].TID == tid {
			m.trivia[i].Accessed = at
			return nil
		}
	}
	return lookupErr("mark accessed", fmt.Errorf("trivia %q: %w", tid, ErrNotFound))
}

func (m *Memory) Slides(_ context.Context, q SlideQuery) ([]Slide, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := lo.Filter(m.slides, func(s Slide, _ int) bool {
		return q.Dir == "" || strings.Contains(s.Path, q.Dir)
	})
	if q.Order == OrderRandom {
		return shuffled(out), nil
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (m *Memory) Bumpers(_ context.Context, q BumperQuery) ([]Bumper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	match := func(want, have string) bool {
		return want == "" || strings.EqualFold(want, have)
	}
	out := lo.Filter(m.bumpers, func(b Bumper, _ int) bool {
		if image, ok := q.Image.Get(); ok && b.Image != image {
			return false
		}
		return match(string(q.Kind), string(b.Kind)) &&
			match(q.Category, b.Category) &&
			match(q.Name, b.Name) &&
			match(q.Style, b.Style)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (m *Memory) RatingStyles(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	styles := lo.Uniq(lo.FilterMap(m.bumpers, func(b Bumper, _ int) (string, bool) {
		return b.Style, b.Kind == BumperRating && b.Style != ""
	}))
	sort.Strings(styles)
	return styles, nil
}

func (m *Memory) Trailers(_ context.Context, q TrailerQuery) ([]Trailer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := lo.Filter(m.trailers, func(t Trailer, _ int) bool {
		return t.Source == q.Source && !t.Broken && t.Watched == q.Watched
	})
	if q.Order == OrderNewest {
		sort.SliceStable(out, func(i, j int) bool {
			if !out[i].Release.Equal(out[j].Release) {
				return out[i].Release.After(out[j].Release)
			}
			return out[i].Date.Before(out[j].Date)
		})
		return out, nil
	}
	return shuffled(out), nil
}

func (m *Memory) UpdateTrailer(_ context.Context, t Trailer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.trailers {
		if m.trailers[i].WID == t.WID {
			m.trailers[i].URL = t.URL
			m.trailers[i].Watched = t.Watched
			m.trailers[i].Date = t.Date
			m.trailers[i].Broken = t.Broken
			return nil
		}
	}
	return lookupErr("update trailer", fmt.Errorf("trailer %q: %w", t.WID, ErrNotFound))
}

func (m *Memory) PutSong(_ context.Context, s Song) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if lo.ContainsBy(m.songs, func(known Song) bool { return known.Path == s.Path }) {
		return nil
	}
	s.ID = m.id()
	m.songs = append(m.songs, s)
	return nil
}

func (m *Memory) PutTrivia(_ context.Context, t Trivia) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if lo.ContainsBy(m.trivia, func(known Trivia) bool { return known.Answer == t.Answer || known.TID == t.TID }) {
		return nil
	}
	t.ID = m.id()
	m.trivia = append(m.trivia, t)
	return nil
}

func (m *Memory) PutSlide(_ context.Context, s Slide) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if lo.ContainsBy(m.slides, func(known Slide) bool { return known.Path == s.Path || known.TID == s.TID }) {
		return nil
	}
	s.ID = m.id()
	m.slides = append(m.slides, s)
	return nil
}

func (m *Memory) PutBumper(_ context.Context, b Bumper) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if lo.ContainsBy(m.bumpers, func(known Bumper) bool { return known.Path == b.Path }) {
		return nil
	}
	b.ID = m.id()
	m.bumpers = append(m.bumpers, b)
	return nil
}

func (m *Memory) PutTrailer(_ context.Context, t Trailer) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.trailers {
		if m.trailers[i].WID == t.WID {
			m.trailers[i].Verified = true
			m.trailers[i].Watched = m.trailers[i].Watched || t.Watched
			return false, nil
		}
	}
	t.ID = m.id()
	t.Verified = true
	t.Broken = false
	m.trailers = append(m.trailers, t)
	return true, nil
}

func (m *Memory) UnverifyTrailers(_ context.Context, source string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.trailers {
		if m.trailers[i].Source == source {
			m.trailers[i].Verified = false
		}
	}
	return nil
}

func (m *Memory) RemoveTrailers(_ context.Context, source string, unverified bool, releasedBefore time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	before := len(m.trailers)
	m.trailers = lo.Reject(m.trailers, func(t Trailer, _ int) bool {
		if t.Source != source {
			return false
		}
		return (unverified && !t.Verified) || (!releasedBefore.IsZero() && t.Release.Before(releasedBefore))
	})
	return before - len(m.trailers), nil
}

func (m *Memory) Prune(_ context.Context, keep func(path string) bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	count := func(n int) { removed += n }

	n := len(m.songs)
	m.songs = lo.Filter(m.songs, func(s Song, _ int) bool { return keep(s.Path) })
	count(n - len(m.songs))

	n = len(m.trivia)
	m.trivia = lo.Filter(m.trivia, func(t Trivia, _ int) bool { return keep(t.Answer) })
	count(n - len(m.trivia))

	n = len(m.slides)
	m.slides = lo.Filter(m.slides, func(s Slide, _ int) bool { return keep(s.Path) })
	count(n - len(m.slides))

	n = len(m.bumpers)
	m.bumpers = lo.Filter(m.bumpers, func(b Bumper, _ int) bool { return keep(b.Path) })
	count(n - len(m.bumpers))

	return removed, nil
}

func (m *Memory) Close() error {
	return nil
}
