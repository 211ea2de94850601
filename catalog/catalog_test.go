package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/preshow-cli/preshow/filesystem"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

// behavesLikeCatalog runs the same expectations against every implementation.
func behavesLikeCatalog(c Catalog) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

	Convey("Trivia filters by directory and access time", func() {
		So(c.PutTrivia(ctx, Trivia{TID: "pack:a:jpg", Name: "a:jpg", Type: TriviaFact, Answer: "/c/Trivia/pack/a.jpg"}), ShouldBeNil)
		So(c.PutTrivia(ctx, Trivia{
			TID: "other:b:jpg", Name: "b:jpg", Type: TriviaQA,
			Question: "/c/Trivia/other/b_q.jpg", Clues: []string{"/c/Trivia/other/b_c1.jpg"},
			Answer: "/c/Trivia/other/b_a.jpg",
		}), ShouldBeNil)
		So(c.PutTrivia(ctx, Trivia{TID: "pack:a:jpg", Answer: "/c/Trivia/pack/a.jpg"}), ShouldBeNil)

		all, err := c.Trivia(ctx, TriviaQuery{Order: OrderPath})
		So(err, ShouldBeNil)
		So(len(all), ShouldEqual, 2)
		So(all[0].Clues, ShouldResemble, []string{"/c/Trivia/other/b_c1.jpg"})

		inPack, _ := c.Trivia(ctx, TriviaQuery{Dir: "pack/"})
		So(len(inPack), ShouldEqual, 1)
		So(inPack[0].TID, ShouldEqual, "pack:a:jpg")

		So(c.MarkAccessed(ctx, "pack:a:jpg", now), ShouldBeNil)
		stale, _ := c.Trivia(ctx, TriviaQuery{AccessedBefore: now.AddDate(0, 0, -30)})
		So(len(stale), ShouldEqual, 1)
		So(stale[0].TID, ShouldEqual, "other:b:jpg")

		recent, _ := c.Trivia(ctx, TriviaQuery{AccessedSince: now.AddDate(0, 0, -30), Order: OrderAccessed})
		So(len(recent), ShouldEqual, 1)
		So(recent[0].Accessed.Unix(), ShouldEqual, now.Unix())

		err = c.MarkAccessed(ctx, "nope", now)
		So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		var lookup *LookupError
		So(errors.As(err, &lookup), ShouldBeTrue)
	})

	Convey("Bumpers filter by kind, category, rating and image", func() {
		for _, b := range []Bumper{
			{Kind: BumperRating, Category: "MPAA", Style: "Classic", Name: "PG-13", Path: "/c/r/pg13.mp4"},
			{Kind: BumperRating, Category: "MPAA", Style: "Classic", Name: "PG-13", Path: "/c/r/pg13.png", Image: true},
			{Kind: BumperRating, Category: "MPAA", Style: "Neon", Name: "R", Path: "/c/r/neon/r.mp4"},
			{Kind: BumperVideo, Category: "preshow", Name: "intro", Path: "/c/v/intro.mp4"},
		} {
			So(c.PutBumper(ctx, b), ShouldBeNil)
		}

		videos, _ := c.Bumpers(ctx, BumperQuery{Kind: BumperRating, Category: "mpaa", Name: "pg-13", Image: mo.Some(false)})
		So(len(videos), ShouldEqual, 1)
		So(videos[0].Path, ShouldEqual, "/c/r/pg13.mp4")

		both, _ := c.Bumpers(ctx, BumperQuery{Kind: BumperRating, Name: "PG-13"})
		So(len(both), ShouldEqual, 2)

		styles, _ := c.RatingStyles(ctx)
		So(styles, ShouldResemble, []string{"Classic", "Neon"})
	})

	Convey("Trailers are verified, updated and removed per source", func() {
		created, err := c.PutTrailer(ctx, Trailer{WID: "content:1", Source: "content", Title: "One", Release: now})
		So(err, ShouldBeNil)
		So(created, ShouldBeTrue)
		_, _ = c.PutTrailer(ctx, Trailer{WID: "content:2", Source: "content", Title: "Two", Release: now.AddDate(-1, 0, 0)})

		So(c.UnverifyTrailers(ctx, "content"), ShouldBeNil)
		created, _ = c.PutTrailer(ctx, Trailer{WID: "content:1", Source: "content", Title: "One", Watched: true})
		So(created, ShouldBeFalse)

		unwatched, _ := c.Trailers(ctx, TrailerQuery{Source: "content"})
		So(len(unwatched), ShouldEqual, 1)
		So(unwatched[0].WID, ShouldEqual, "content:2")

		removed, err := c.RemoveTrailers(ctx, "content", true, time.Time{})
		So(err, ShouldBeNil)
		So(removed, ShouldEqual, 1)

		watched, _ := c.Trailers(ctx, TrailerQuery{Source: "content", Watched: true})
		So(len(watched), ShouldEqual, 1)

		t := watched[0]
		t.Broken = true
		So(c.UpdateTrailer(ctx, t), ShouldBeNil)
		watched, _ = c.Trailers(ctx, TrailerQuery{Source: "content", Watched: true})
		So(watched, ShouldBeEmpty)
	})

	Convey("Prune drops rejected paths", func() {
		_ = c.PutSong(ctx, Song{Name: "keep", Path: "/c/Music/keep.mp3"})
		_ = c.PutSong(ctx, Song{Name: "gone", Path: "/old/gone.mp3"})
		_ = c.PutSlide(ctx, Slide{TID: ":s", Name: "s", Path: "/old/s.jpg"})

		n, err := c.Prune(ctx, func(path string) bool { return filepath.Dir(path) == "/c/Music" })
		So(err, ShouldBeNil)
		So(n, ShouldEqual, 2)

		songs, _ := c.Songs(ctx)
		So(len(songs), ShouldEqual, 1)
		So(songs[0].Name, ShouldEqual, "keep")
	})
}

func TestMemory(t *testing.T) {
	Convey("Given an in-memory catalog", t, func() {
		behavesLikeCatalog(NewMemory())
	})
}

func TestStore(t *testing.T) {
	Convey("Given a SQLite catalog", t, func() {
		store, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
		So(err, ShouldBeNil)
		Reset(func() { _ = store.Close() })

		behavesLikeCatalog(store)
	})

	Convey("Reopening a database keeps its content", t, func() {
		path := filepath.Join(t.TempDir(), "catalog.db")
		store, err := Open(path)
		So(err, ShouldBeNil)
		So(store.PutSong(context.Background(), Song{Name: "a", Path: "/a.mp3", Duration: 3 * time.Minute}), ShouldBeNil)
		So(store.Close(), ShouldBeNil)

		store, err = Open(path)
		So(err, ShouldBeNil)
		defer store.Close()
		songs, _ := store.Songs(context.Background())
		So(len(songs), ShouldEqual, 1)
		So(songs[0].Duration, ShouldEqual, 3*time.Minute)
	})
}
