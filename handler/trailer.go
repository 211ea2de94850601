package handler

import (
	"errors"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/preshow-cli/preshow/catalog"
	"github.com/preshow-cli/preshow/filesystem"
	"github.com/preshow-cli/preshow/log"
	"github.com/preshow-cli/preshow/playable"
	"github.com/preshow-cli/preshow/rating"
	"github.com/preshow-cli/preshow/sequence"
	"github.com/preshow-cli/preshow/util"
	"github.com/samber/lo"
)

// TrailerFailThreshold is how many trailers of one source may fail to
// resolve before the source is given up for this item.
const TrailerFailThreshold = 10

// trailerPoolSlack is how many extra candidates are drawn beyond the count
// so that a few broken trailers do not leave the item short.
const trailerPoolSlack = 5

func trailers(c *Context, it *sequence.Item) ([]playable.Playable, error) {
	s := it.Trailer(c.Defaults)
	if s.Count <= 0 {
		return nil, nil
	}

	var videos []*playable.Video
	switch s.Source {
	case "file":
		if s.File != "" {
			videos = []*playable.Video{playable.NewVideo(s.File)}
		}
	case "dir":
		files, err := filesystem.Files(s.Dir, util.VideoExtensions...)
		if err != nil {
			log.Warnf("trailer directory %s: %s", s.Dir, err)
			return nil, nil
		}
		videos = lo.Map(lo.Samples(files, s.Count), func(path string, _ int) *playable.Video {
			return playable.NewVideo(path)
		})
	default:
		var err error
		if videos, err = contentTrailers(c, s); err != nil {
			return nil, err
		}
	}

	out := make([]playable.Playable, 0, len(videos))
	for _, v := range videos {
		v.Volume = s.Volume
		out = append(out, v)
	}
	return out, nil
}

func contentTrailers(c *Context, s sequence.TrailerSettings) ([]*playable.Video, error) {
	sources := s.Scrapers
	if c.Trailers != nil && c.Trailers.Registry != nil {
		sources = c.Trailers.Registry.Known(sources)
	}
	if len(sources) == 0 {
		sources = []string{"content"}
	}

	keep := trailerFilter(c, s)

	var videos []*playable.Video
	for _, p := range trailerPasses(sources, s.PreferUnwatched) {
		if len(videos) >= s.Count {
			break
		}

		found, err := drawTrailers(c, p, s.Count-len(videos), keep)
		if err != nil {
			return nil, err
		}
		videos = append(videos, found...)
	}
	return videos, nil
}

// trailerPass draws from either the unwatched or the watched trailers of a
// source, never both.
type trailerPass struct {
	source  string
	watched bool
}

// trailerPasses orders the passes over sources. With preferUnwatched every
// source is searched for unwatched trailers before any watched one is
// considered; otherwise each source is exhausted in turn, unwatched first.
func trailerPasses(sources []string, preferUnwatched bool) []trailerPass {
	passes := make([]trailerPass, 0, 2*len(sources))
	if preferUnwatched {
		for _, watched := range []bool{false, true} {
			for _, source := range sources {
				passes = append(passes, trailerPass{source: source, watched: watched})
			}
		}
		return passes
	}

	for _, source := range sources {
		passes = append(passes,
			trailerPass{source: source},
			trailerPass{source: source, watched: true},
		)
	}
	return passes
}

// drawTrailers resolves up to count trailers of one pass. Candidates are
// tried in shuffled pools of count plus some slack, pool after pool, until
// count is reached or TrailerFailThreshold resolves fail in a row.
func drawTrailers(c *Context, p trailerPass, count int, keep func(catalog.Trailer) bool) ([]*playable.Video, error) {
	candidates, err := c.Catalog.Trailers(c.ctx(), catalog.TrailerQuery{Source: p.source, Watched: p.watched, Order: catalog.OrderRandom})
	if err != nil {
		return nil, err
	}
	candidates = lo.Filter(candidates, func(t catalog.Trailer, _ int) bool {
		return keep(t) && (p.watched || !c.shownTrailer(t.WID))
	})

	var (
		videos   []*playable.Video
		failures int
	)
	for _, pool := range lo.Chunk(candidates, count+trailerPoolSlack) {
		rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

		for _, t := range pool {
			v, ok := updateTrailer(c, t)
			if !ok {
				failures++
				if failures >= TrailerFailThreshold {
					log.Warnf("trailer source %s: %d failures in a row, giving up", p.source, failures)
					return videos, nil
				}
				continue
			}

			failures = 0
			videos = append(videos, v)
			if len(videos) >= count {
				return videos, nil
			}
		}
	}
	return videos, nil
}

// updateTrailer resolves t and records the outcome: watched on success,
// broken on failure. A read-only context only remembers what it picked.
func updateTrailer(c *Context, t catalog.Trailer) (*playable.Video, bool) {
	url := t.URL
	var err error
	if c.Trailers != nil {
		url, err = c.Trailers.URL(c.ctx(), t)
	}
	if url == "" && err == nil {
		err = errNoURL
	}

	if err != nil {
		log.Warnf("trailer %s: %s", t.Title, err)
		t.Broken = true
	} else {
		t.URL = url
		t.Watched = true
		t.Date = c.now()
	}

	if c.ReadOnly {
		if err == nil {
			c.markShown(t.WID)
		}
	} else if uerr := c.Catalog.UpdateTrailer(c.ctx(), t); uerr != nil {
		log.Warnf("update trailer %s: %s", t.Title, uerr)
	}
	if err != nil {
		return nil, false
	}

	v := playable.NewVideo(url)
	v.Title = t.Title
	v.Thumb = t.Thumb
	v.UserAgent = t.UserAgent
	v.SetID = t.WID
	return v, true
}

// trailerFilter applies the rating limit and the genre limit of s against
// the features of the run.
func trailerFilter(c *Context, s sequence.TrailerSettings) func(catalog.Trailer) bool {
	system := c.ratingSystem()
	feats := c.Queue.All()

	ratingOK := func(catalog.Trailer) bool { return true }
	switch s.RatingLimit {
	case "max":
		if limit, ok := rating.Parse(s.RatingMax, system); ok {
			ratingOK = func(t catalog.Trailer) bool {
				r, known := rating.Parse(t.Rating, system)
				return known && !r.Exceeds(limit)
			}
		}
	case "match":
		low, high, ok := ratingBounds(feats)
		if ok {
			ratingOK = func(t catalog.Trailer) bool {
				r, known := rating.Parse(t.Rating, system)
				return known && strings.EqualFold(r.System, low.System) &&
					r.Value >= low.Value && r.Value <= high.Value
			}
		}
	}

	genreOK := func(catalog.Trailer) bool { return true }
	if s.LimitGenre {
		genres := make(map[string]struct{})
		for _, f := range feats {
			for _, g := range f.Genres {
				genres[strings.ToLower(g)] = struct{}{}
			}
		}
		if len(genres) > 0 {
			genreOK = func(t catalog.Trailer) bool {
				return lo.SomeBy(t.Genres, func(g string) bool {
					_, ok := genres[strings.ToLower(g)]
					return ok
				})
			}
		}
	}

	return func(t catalog.Trailer) bool {
		return ratingOK(t) && genreOK(t)
	}
}

// ratingBounds is the lowest and highest known rating of the features.
func ratingBounds(feats []*playable.Feature) (low, high rating.Rating, ok bool) {
	low.Value, high.Value = math.MaxInt, math.MinInt
	for _, f := range feats {
		if !f.Rating.Known() || f.Rating.Value == rating.NotRated {
			continue
		}
		if f.Rating.Value < low.Value {
			low = f.Rating
		}
		if f.Rating.Value > high.Value {
			high = f.Rating
		}
		ok = true
	}
	return low, high, ok
}

var errNoURL = errors.New("no playable url")
