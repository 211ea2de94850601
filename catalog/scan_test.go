package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/preshow-cli/preshow/filesystem"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func touch(paths ...string) {
	for _, p := range paths {
		_ = filesystem.API().MkdirAll(filepath.Dir(p), 0o755)
		_ = filesystem.API().WriteFile(p, []byte("x"), 0o644)
	}
}

func TestWalk(t *testing.T) {
	Convey("Walk", t, func() {
		root := "/walk"
		touch(root+"/b.jpg", root+"/a/c.jpg", root+"/a.jpg", root+"/_Exclude/x.jpg", root+"/.hidden/y.jpg")

		var names []string
		var dirs [][]string
		for e, err := range Walk(root) {
			So(err, ShouldBeNil)
			names = append(names, e.Name)
			dirs = append(dirs, e.Dirs)
		}
		So(names, ShouldResemble, []string{"a.jpg", "b.jpg", "c.jpg"})
		So(dirs[2], ShouldResemble, []string{"a"})

		Convey("Stops when the consumer does", func() {
			count := 0
			for range Walk(root) {
				count++
				break
			}
			So(count, ShouldEqual, 1)
		})
	})
}

func TestScanner(t *testing.T) {
	Convey("Given a content folder", t, func() {
		root := "/content"
		So(EnsureTree(root), ShouldBeNil)
		touch(
			root+"/Music/Jazz/so what.mp3",
			root+"/Trivia/Movies/alien_q.jpg",
			root+"/Trivia/Movies/alien_c1.jpg",
			root+"/Trivia/Movies/alien_c2.jpg",
			root+"/Trivia/Movies/alien_a.jpg",
			root+"/Trivia/Movies/fact.png",
			root+"/Trivia/Movies/notes.txt",
			root+"/Trivia/Clips/quiz.mp4",
			root+"/Slideshow/Posters/one.jpg",
			root+"/Video Bumpers/PreShow/welcome.mp4",
			root+"/Audio Format Bumpers/Dolby Atmos/atmos.mkv",
			root+"/Ratings Bumpers/MPAA/PG-13.mp4",
			root+"/Ratings Bumpers/MPAA/Neon/R.png",
		)

		mem := NewMemory()
		s := &Scanner{
			Root:   root,
			Writer: mem,
			Probe:  func(string) (time.Duration, error) { return time.Minute, nil },
		}
		report, err := s.Scan(context.Background())
		So(err, ShouldBeNil)
		So(report.Songs, ShouldEqual, 1)
		So(report.Trivia, ShouldEqual, 3)
		So(report.Slides, ShouldEqual, 1)
		So(report.Bumpers, ShouldEqual, 4)

		ctx := context.Background()

		Convey("Songs are named after their folders", func() {
			songs, _ := mem.Songs(ctx)
			So(songs[0].Name, ShouldEqual, "Jazz:so what")
			So(songs[0].Duration, ShouldEqual, time.Minute)
		})

		Convey("Trivia slides are grouped by name", func() {
			trivia, _ := mem.Trivia(ctx, TriviaQuery{Dir: "Movies", Order: OrderPath})
			So(len(trivia), ShouldEqual, 2)

			qa := trivia[0]
			So(qa.TID, ShouldEqual, "Movies:alien:jpg")
			So(qa.Type, ShouldEqual, TriviaQA)
			So(qa.Question, ShouldEqual, root+"/Trivia/Movies/alien_q.jpg")
			So(qa.Clues, ShouldResemble, []string{root + "/Trivia/Movies/alien_c1.jpg", root + "/Trivia/Movies/alien_c2.jpg"})

			So(trivia[1].Type, ShouldEqual, TriviaFact)
			So(trivia[1].TID, ShouldEqual, "Movies:fact:png")

			videos, _ := mem.Trivia(ctx, TriviaQuery{Dir: "Clips"})
			So(videos[0].Type, ShouldEqual, TriviaVideo)
		})

		Convey("Bumpers carry their category", func() {
			preshow, _ := mem.Bumpers(ctx, BumperQuery{Kind: BumperVideo, Category: "preshow"})
			So(len(preshow), ShouldEqual, 1)

			ratings, _ := mem.Bumpers(ctx, BumperQuery{Kind: BumperRating, Category: "MPAA", Image: mo.Some(true)})
			So(len(ratings), ShouldEqual, 1)
			So(ratings[0].Style, ShouldEqual, "Neon")
			So(ratings[0].Name, ShouldEqual, "R")

			classic, _ := mem.Bumpers(ctx, BumperQuery{Kind: BumperRating, Name: "PG-13"})
			So(classic[0].Style, ShouldEqual, DefaultRatingStyle)
		})

		Convey("Rescanning prunes what left the folder", func() {
			So(filesystem.API().Remove(root+"/Slideshow/Posters/one.jpg"), ShouldBeNil)
			report, err := s.Scan(ctx)
			So(err, ShouldBeNil)
			So(report.Pruned, ShouldEqual, 1)
			So(report.Slides, ShouldEqual, 0)
		})
	})
}
