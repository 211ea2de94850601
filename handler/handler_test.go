package handler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/preshow-cli/preshow/catalog"
	"github.com/preshow-cli/preshow/key"
	"github.com/preshow-cli/preshow/playable"
	"github.com/preshow-cli/preshow/rating"
	"github.com/preshow-cli/preshow/sequence"
	. "github.com/smartystreets/goconvey/convey"
)

var now = time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

func newContext(cat catalog.Reader, feats ...*playable.Feature) *Context {
	return &Context{
		Catalog: cat,
		Queue:   NewFeatureQueue(feats...),
		Now:     func() time.Time { return now },
	}
}

func feature(title, r string, genres ...string) *playable.Feature {
	f := playable.NewFeature("/movies/" + title + ".mkv")
	f.Title = title
	f.Rating, _ = rating.Parse(r, "MPAA")
	f.Genres = genres
	return f
}

func TestFeatures(t *testing.T) {
	Convey("Feature items", t, func() {
		ctx := context.Background()
		cat := catalog.NewMemory()
		So(cat.PutBumper(ctx, catalog.Bumper{Kind: catalog.BumperRating, Category: "MPAA", Style: "Classic", Name: "PG-13", Path: "/r/PG-13.mp4"}), ShouldBeNil)
		So(cat.PutBumper(ctx, catalog.Bumper{Kind: catalog.BumperRating, Category: "MPAA", Style: "Classic", Name: "R", Path: "/r/R.png", Image: true}), ShouldBeNil)

		c := newContext(cat, feature("One", "PG-13"), feature("Two", "R"), feature("Three", "G"))
		it := sequence.NewItem(sequence.Feature).MustSet("count", 2).MustSet("ratingBumper", "video")

		out := Handle(c, it)

		Convey("Pops count features, each after its rating bumper", func() {
			So(out, ShouldHaveLength, 4)
			So(out[0].(*playable.Video).Path, ShouldEqual, "/r/PG-13.mp4")
			So(out[1].(*playable.Feature).Title, ShouldEqual, "One")
			So(out[3].(*playable.Feature).Title, ShouldEqual, "Two")
			So(c.Queue.Peek().Title, ShouldEqual, "Three")
		})

		Convey("Falls back to a still shown for a fixed time", func() {
			img, ok := out[2].(*playable.Image)
			So(ok, ShouldBeTrue)
			So(img.Duration, ShouldEqual, RatingImageDuration)
		})

		Convey("Shows no bumper when none matches", func() {
			c := newContext(cat, feature("Three", "G"))
			out := Handle(c, sequence.NewItem(sequence.Feature).MustSet("ratingBumper", "video"))
			So(out, ShouldHaveLength, 1)
			So(out[0].(*playable.Feature).Title, ShouldEqual, "Three")
		})
	})
}

func TestTrivia(t *testing.T) {
	Convey("Trivia items", t, func() {
		ctx := context.Background()
		cat := catalog.NewMemory()
		for i := range 6 {
			So(cat.PutTrivia(ctx, catalog.Trivia{
				TID:      fmt.Sprintf("t%d", i),
				Type:     catalog.TriviaQA,
				Question: fmt.Sprintf("/trivia/set%d_q.jpg", i),
				Clues:    []string{fmt.Sprintf("/trivia/set%d_c1.jpg", i)},
				Answer:   fmt.Sprintf("/trivia/set%d_a.jpg", i),
			}), ShouldBeNil)
		}
		So(cat.PutTrivia(ctx, catalog.Trivia{TID: "fact", Type: catalog.TriviaFact, Answer: "/trivia/other/fact.jpg"}), ShouldBeNil)

		c := newContext(cat)
		it := sequence.NewItem(sequence.Trivia).
			MustSet("duration", 1).
			MustSet("qDuration", 10).
			MustSet("cDuration", 5).
			MustSet("aDuration", 10).
			MustSet("sDuration", 20)

		Convey("Fills whole sets up to the duration", func() {
			out := Handle(c, it)
			So(out, ShouldHaveLength, 1)

			q := out[0].(*playable.ImageQueue)
			So(q.Duration, ShouldBeGreaterThanOrEqualTo, time.Minute)
			So(q.Images[len(q.Images)-1].SetNumber, ShouldEqual, 0)
			So(q.Duration-time.Minute, ShouldBeLessThan, 25*time.Second)
		})

		Convey("Counts set numbers down to the answer", func() {
			q := Handle(c, it)[0].(*playable.ImageQueue)
			first := q.Images[0]
			if first.SetID == "fact" {
				So(first.SetNumber, ShouldEqual, 0)
				So(first.Duration, ShouldEqual, 20*time.Second)
				first = q.Images[1]
			}
			So(first.SetNumber, ShouldEqual, 2)
		})

		Convey("Filters by directory", func() {
			it.MustSet("triviaSelect", "Directory").MustSet("triviaDir", "other")
			q := Handle(c, it)[0].(*playable.ImageQueue)
			So(q.Images, ShouldHaveLength, 1)
			So(q.Images[0].SetID, ShouldEqual, "fact")
		})

		Convey("Shows any single slide set for the single duration", func() {
			cat := catalog.NewMemory()
			So(cat.PutTrivia(ctx, catalog.Trivia{TID: "lone", Type: catalog.TriviaQA, Question: "/trivia/lone/q.jpg"}), ShouldBeNil)
			q := Handle(newContext(cat), it)[0].(*playable.ImageQueue)
			So(q.Images, ShouldHaveLength, 1)
			So(q.Images[0].Duration, ShouldEqual, 20*time.Second)
			So(q.Images[0].SetNumber, ShouldEqual, 0)
		})

		Convey("Puts recently shown trivia last", func() {
			So(cat.MarkAccessed(ctx, "fact", now.Add(-time.Hour)), ShouldBeNil)
			it.MustSet("duration", 10)
			q := Handle(c, it)[0].(*playable.ImageQueue)
			So(q.Images[len(q.Images)-1].SetID, ShouldEqual, "fact")
		})

		Convey("Marks a set shown when its answer is", func() {
			q := Handle(c, it)[0].(*playable.ImageQueue)
			var answer *playable.Image
			for _, img := range q.Images {
				if img.SetNumber == 0 {
					answer = img
					break
				}
			}
			q.Mark(answer)

			recent, err := cat.Trivia(ctx, catalog.TriviaQuery{AccessedSince: now.Add(-time.Minute)})
			So(err, ShouldBeNil)
			So(recent, ShouldHaveLength, 1)
			So(recent[0].TID, ShouldEqual, answer.SetID)
		})
	})
}

func TestSlideshow(t *testing.T) {
	Convey("Slideshow items", t, func() {
		ctx := context.Background()
		cat := catalog.NewMemory()
		for _, p := range []string{"/s/b.jpg", "/s/a.jpg", "/s/c.mp4"} {
			So(cat.PutSlide(ctx, catalog.Slide{TID: p, Path: p, Video: p == "/s/c.mp4"}), ShouldBeNil)
		}

		it := sequence.NewItem(sequence.Slideshow).
			MustSet("slideshowduration", "1 minute").
			MustSet("slideDuration", "10 seconds")

		Convey("Cycles the stills in path order", func() {
			q := Handle(newContext(cat), it)[0].(*playable.ImageQueue)
			So(q.Images, ShouldHaveLength, 6)
			So(q.Images[0].Path, ShouldEqual, "/s/a.jpg")
			So(q.Images[1].Path, ShouldEqual, "/s/b.jpg")
			So(q.Images[2].Path, ShouldEqual, "/s/a.jpg")
		})

		Convey("Falls back to the default durations when a setting is zero", func() {
			doc, err := sequence.Load([]byte(`{"items": [{"type": "slideshow", "settings": {
				"slideDuration": "0 seconds", "slideshowduration": "0 minutes"
			}}]}`), "zero.pseq")
			So(err, ShouldBeNil)

			done := make(chan []playable.Playable, 1)
			go func() { done <- Handle(newContext(cat), doc.Items[0]) }()

			select {
			case out := <-done:
				q := out[0].(*playable.ImageQueue)
				So(q.Images[0].Duration, ShouldEqual, 8*time.Second)
				So(q.Duration, ShouldBeGreaterThanOrEqualTo, 5*time.Minute)
				So(q.Duration, ShouldBeLessThan, 5*time.Minute+8*time.Second)
			case <-time.After(3 * time.Second):
				So("slideshow compile did not finish", ShouldBeEmpty)
			}
		})

		Convey("Stops filling on a set without time or a cycle without limit", func() {
			slides := []catalog.Slide{{TID: "a", Path: "/s/a.jpg"}, {TID: "b", Path: "/s/b.jpg"}}

			source := &slideSource{slides: slides}
			q := playable.NewImageQueue(source, time.Minute)
			fill(q, source)
			So(q.Images, ShouldHaveLength, 1)

			source = &slideSource{slides: slides, duration: time.Second}
			q = playable.NewImageQueue(source, 0)
			fill(q, source)
			So(q.Images, ShouldHaveLength, 2)
		})

		Convey("Plays content music looped over the show", func() {
			So(cat.PutSong(ctx, catalog.Song{Path: "/m/one.mp3", Duration: 25 * time.Second}), ShouldBeNil)
			it.MustSet("music", "content")

			q := Handle(newContext(cat), it)[0].(*playable.ImageQueue)
			So(q.Music, ShouldHaveLength, 3)
			So(q.Music[2].Path, ShouldEqual, "/m/one.mp3")
		})
	})
}

func TestTrailers(t *testing.T) {
	Convey("Trailer items", t, func() {
		ctx := context.Background()
		cat := catalog.NewMemory()
		put := func(wid, r string, genres ...string) {
			_, err := cat.PutTrailer(ctx, catalog.Trailer{
				WID: wid, Source: "content", Title: wid, Rating: r, Genres: genres, URL: "/t/" + wid + ".mp4",
			})
			So(err, ShouldBeNil)
		}
		put("kids", "G", "Animation")
		put("teen", "PG-13", "Action")
		put("adult", "R", "Horror")
		put("unrated", "", "Action")

		it := sequence.NewItem(sequence.Trailer).MustSet("source", "content").MustSet("count", 5)

		Convey("Caps trailers at a maximum rating", func() {
			it.MustSet("ratingLimit", "max").MustSet("ratingMax", "PG-13")
			out := Handle(newContext(cat), it)
			titles := make([]string, 0, len(out))
			for _, p := range out {
				titles = append(titles, p.(*playable.Video).Title)
			}
			So(titles, ShouldHaveLength, 2)
			So(titles, ShouldContain, "kids")
			So(titles, ShouldContain, "teen")
		})

		Convey("Matches the ratings of the features", func() {
			it.MustSet("ratingLimit", "match")
			out := Handle(newContext(cat, feature("A", "PG-13"), feature("B", "R")), it)
			So(out, ShouldHaveLength, 2)
		})

		Convey("Limits to the genres of the features", func() {
			it.MustSet("limitGenre", true)
			out := Handle(newContext(cat, feature("A", "PG", "Action")), it)
			So(out, ShouldHaveLength, 2)
		})

		Convey("Leaves the catalog alone in a read-only compile", func() {
			it.MustSet("count", 2)
			c := newContext(cat)
			c.ReadOnly = true
			So(Handle(c, it), ShouldHaveLength, 2)

			watched, err := cat.Trailers(ctx, catalog.TrailerQuery{Source: "content", Watched: true})
			So(err, ShouldBeNil)
			So(watched, ShouldBeEmpty)

			Convey("Without picking the same trailer twice", func() {
				out := Handle(c, it)
				So(out, ShouldHaveLength, 2)
				second := Handle(c, it)
				So(second, ShouldBeEmpty)
			})
		})

		Convey("Marks shown trailers watched", func() {
			it.MustSet("count", 1)
			out := Handle(newContext(cat), it)
			So(out, ShouldHaveLength, 1)

			watched, err := cat.Trailers(ctx, catalog.TrailerQuery{Source: "content", Watched: true})
			So(err, ShouldBeNil)
			So(watched, ShouldHaveLength, 1)
			So(watched[0].Date, ShouldEqual, now)
		})
	})
}

func TestBumpers(t *testing.T) {
	Convey("Video bumpers", t, func() {
		ctx := context.Background()
		cat := catalog.NewMemory()
		for i := range 3 {
			So(cat.PutBumper(ctx, catalog.Bumper{
				Kind: catalog.BumperVideo, Category: "countdown",
				Name: fmt.Sprintf("cd%d", i), Path: fmt.Sprintf("/v/cd%d.mp4", i),
			}), ShouldBeNil)
		}

		Convey("Samples count bumpers of the type", func() {
			it := sequence.NewItem(sequence.Video).MustSet("vtype", "countdown").MustSet("count", 2)
			So(Handle(newContext(cat), it), ShouldHaveLength, 2)
		})

		Convey("Plays the chosen bumper", func() {
			it := sequence.NewItem(sequence.Video).MustSet("vtype", "countdown").
				MustSet("random", false).MustSet("source", "cd1")
			out := Handle(newContext(cat), it)
			So(out, ShouldHaveLength, 1)
			So(out[0].(*playable.Video).Path, ShouldEqual, "/v/cd1.mp4")
		})

		Convey("Falls back to a stock clip", func() {
			it := sequence.NewItem(sequence.Video).MustSet("vtype", "intermission")
			out := Handle(newContext(cat), it)
			So(out, ShouldHaveLength, 1)
			So(out[0].(*playable.Video).Path, ShouldEqual, FallbackVideo("intermission"))
		})
	})

	Convey("Audio format bumpers", t, func() {
		ctx := context.Background()
		cat := catalog.NewMemory()
		So(cat.PutBumper(ctx, catalog.Bumper{Kind: catalog.BumperAudioFormat, Category: "Dolby Atmos", Name: "atmos", Path: "/af/atmos.mp4"}), ShouldBeNil)

		f := feature("Loud", "PG")
		f.Path = "/movies/Loud.2019.TrueHD.Atmos.mkv"
		f.AudioFormat = "Dolby TrueHD"

		Convey("Detects the format from the file name", func() {
			it := sequence.NewItem(sequence.AudioFormat).MustSet("method", "af.detect")
			out := Handle(newContext(cat, f), it)
			So(out, ShouldHaveLength, 1)
			So(out[0].(*playable.Video).Path, ShouldEqual, "/af/atmos.mp4")
		})

		Convey("Uses the fallback method", func() {
			it := sequence.NewItem(sequence.AudioFormat).
				MustSet("method", "af.format").MustSet("format", "DTS").
				MustSet("fallback", "af.file").MustSet("file", "/af/mine.mp4")
			out := Handle(newContext(cat, f), it)
			So(out[0].(*playable.Video).Path, ShouldEqual, "/af/mine.mp4")
		})

		Convey("Ends with a stock clip", func() {
			it := sequence.NewItem(sequence.AudioFormat).MustSet("method", "af.format").MustSet("format", "THX")
			out := Handle(newContext(cat, f), it)
			So(out[0].(*playable.Video).Path, ShouldEqual, FallbackAudio("THX"))
		})
	})
}

func TestTrailerSelection(t *testing.T) {
	Convey("Trailer selection", t, func() {
		ctx := context.Background()
		cat := catalog.NewMemory()
		put := func(wid, url string, watched bool) {
			_, err := cat.PutTrailer(ctx, catalog.Trailer{WID: wid, Source: "content", Title: wid, URL: url, Watched: watched})
			So(err, ShouldBeNil)
		}

		it := sequence.NewItem(sequence.Trailer).MustSet("source", "content").MustSet("count", 1)

		Convey("Picks an unwatched trailer before any watched one", func() {
			put("fresh", "/t/fresh.mp4", false)
			for i := range 10 {
				put(fmt.Sprintf("seen%d", i), fmt.Sprintf("/t/seen%d.mp4", i), true)
			}

			for range 20 {
				c := newContext(cat)
				c.Defaults = sequence.Values{key.TrailerPreferUnwatched: true}
				c.ReadOnly = true
				out := Handle(c, it)
				So(out, ShouldHaveLength, 1)
				So(out[0].(*playable.Video).Title, ShouldEqual, "fresh")
			}
		})

		Convey("Falls back to watched trailers", func() {
			put("seen", "/t/seen.mp4", true)
			c := newContext(cat)
			c.Defaults = sequence.Values{key.TrailerPreferUnwatched: true}
			out := Handle(c, it)
			So(out, ShouldHaveLength, 1)
			So(out[0].(*playable.Video).Title, ShouldEqual, "seen")
		})

		Convey("Keeps drawing past broken trailers", func() {
			for i := range 9 {
				put(fmt.Sprintf("broken%d", i), "", false)
			}
			put("good", "/t/good.mp4", false)

			out := Handle(newContext(cat), it)
			So(out, ShouldHaveLength, 1)
			So(out[0].(*playable.Video).Title, ShouldEqual, "good")
		})

		Convey("Gives up after ten failures in a row", func() {
			for i := range TrailerFailThreshold + 5 {
				put(fmt.Sprintf("broken%d", i), "", false)
			}

			found, err := drawTrailers(newContext(cat), trailerPass{source: "content"}, 1, func(catalog.Trailer) bool { return true })
			So(err, ShouldBeNil)
			So(found, ShouldBeEmpty)

			untried, err := cat.Trailers(ctx, catalog.TrailerQuery{Source: "content"})
			So(err, ShouldBeNil)
			So(untried, ShouldHaveLength, 5)
		})

		Convey("Orders passes unwatched first", func() {
			So(trailerPasses([]string{"a", "b"}, true), ShouldResemble, []trailerPass{
				{source: "a"}, {source: "b"}, {source: "a", watched: true}, {source: "b", watched: true},
			})
			So(trailerPasses([]string{"a", "b"}, false), ShouldResemble, []trailerPass{
				{source: "a"}, {source: "a", watched: true}, {source: "b"}, {source: "b", watched: true},
			})
		})
	})
}
