package handler

import (
	"time"

	"github.com/preshow-cli/preshow/catalog"
	"github.com/preshow-cli/preshow/log"
	"github.com/preshow-cli/preshow/playable"
	"github.com/preshow-cli/preshow/sequence"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// RatingImageDuration is how long a still rating bumper stays on screen.
const RatingImageDuration = 10 * time.Second

// Rating bumper modes.
const (
	RatingBumperNone  = "none"
	RatingBumperVideo = "video"
	RatingBumperImage = "image"
)

func features(c *Context, it *sequence.Item) ([]playable.Playable, error) {
	s := it.Feature(c.Defaults)

	var out []playable.Playable
	for range max(s.Count, 1) {
		f := c.Queue.Pop()
		if f == nil {
			log.Debugf("%s: feature queue empty", it.Display())
			break
		}

		bumper, err := ratingBumper(c, s, f)
		if err != nil {
			return nil, err
		}
		if bumper != nil {
			out = append(out, bumper)
		}

		f.Volume = s.Volume
		out = append(out, f)
	}
	return out, nil
}

// ratingBumper picks the bumper announcing the rating of f: a video with a
// still as fallback, or a still only.
func ratingBumper(c *Context, s sequence.FeatureSettings, f *playable.Feature) (playable.Playable, error) {
	if s.RatingBumper == RatingBumperNone || s.RatingBumper == "" || f.Rating.IsZero() {
		return nil, nil
	}

	query := catalog.BumperQuery{
		Kind:     catalog.BumperRating,
		Category: f.Rating.System,
		Name:     f.Rating.Name,
	}
	if s.RatingStyleSelection == "style" {
		query.Style = s.RatingStyle
	}

	find := func(image bool) ([]catalog.Bumper, error) {
		query.Image = mo.Some(image)
		return c.Catalog.Bumpers(c.ctx(), query)
	}

	var (
		found []catalog.Bumper
		err   error
	)
	if s.RatingBumper == RatingBumperVideo {
		if found, err = find(false); err != nil {
			return nil, err
		}
	}
	if len(found) == 0 {
		if found, err = find(true); err != nil {
			return nil, err
		}
	}
	if len(found) == 0 {
		log.Debugf("no rating bumper for %s", f.Rating)
		return nil, nil
	}

	b := lo.Sample(found)
	if b.Image {
		img := playable.NewImage(b.Path, RatingImageDuration)
		img.SetID = b.Name
		return img, nil
	}

	v := playable.NewVideo(b.Path)
	v.Title = f.Rating.String()
	v.Volume = s.Volume
	return v, nil
}
