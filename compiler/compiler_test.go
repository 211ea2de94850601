package compiler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/preshow-cli/preshow/catalog"
	"github.com/preshow-cli/preshow/handler"
	"github.com/preshow-cli/preshow/playable"
	"github.com/preshow-cli/preshow/sequence"
	. "github.com/smartystreets/goconvey/convey"
)

// oneVideo expands every item into a single video named after its kind and
// counts the expansions.
func oneVideo(calls map[sequence.Kind]int) HandleFunc {
	return func(_ *handler.Context, it *sequence.Item) []playable.Playable {
		calls[it.Kind]++
		return []playable.Playable{playable.NewVideo(fmt.Sprintf("/%s/%d.mp4", it.Kind, calls[it.Kind]))}
	}
}

func loop(command string, arg int, condition string) *sequence.Item {
	return sequence.NewItem(sequence.Command).
		MustSet("command", command).
		MustSet("arg", arg).
		MustSet("condition", condition)
}

func compiled(items []*sequence.Item, queue *handler.FeatureQueue, calls map[sequence.Kind]int) *Processor {
	p := New(items, &handler.Context{Queue: queue})
	p.SetHandler(oneVideo(calls))
	p.Compile()
	return p
}

func TestCompile(t *testing.T) {
	Convey("Compile", t, func() {
		calls := make(map[sequence.Kind]int)

		Convey("Stamps playables with their item index in order", func() {
			disabled := sequence.NewItem(sequence.Trivia)
			disabled.Enabled = false
			items := []*sequence.Item{
				sequence.NewItem(sequence.Video),
				disabled,
				sequence.NewItem(sequence.Trailer),
				sequence.NewItem(sequence.Video),
			}

			p := compiled(items, nil, calls)
			timeline := p.Timeline()
			So(timeline, ShouldHaveLength, 3)
			So(calls[sequence.Trivia], ShouldEqual, 0)

			from := froms(timeline)
			So(from, ShouldResemble, []int{0, 2, 3})
			So(p.End(), ShouldEqual, 3)
		})

		Convey("Recompiles the items a counted loop goes back over", func() {
			items := []*sequence.Item{
				sequence.NewItem(sequence.Video),
				sequence.NewItem(sequence.Trailer),
				loop("back", 2, sequence.ConditionNbLoops).MustSet("nbLoops", 3),
				sequence.NewItem(sequence.Feature),
			}

			p := compiled(items, nil, calls)
			So(calls[sequence.Trailer], ShouldEqual, 3)
			So(calls[sequence.Feature], ShouldEqual, 1)
			So(p.Timeline(), ShouldHaveLength, 7)
		})

		Convey("Bounds a loop without an end", func() {
			items := []*sequence.Item{
				sequence.NewItem(sequence.Video),
				loop("back", 1, sequence.ConditionNone),
			}

			p := compiled(items, nil, calls)
			So(calls[sequence.Video], ShouldBeLessThanOrEqualTo, len(items)*VisitsPerItem)
			So(p.End(), ShouldEqual, len(p.Timeline()))
		})

		Convey("Settles queue conditions against the feature queue", func() {
			items := []*sequence.Item{
				loop("skip", 2, sequence.ConditionQueueEmpty),
				sequence.NewItem(sequence.Video),
				sequence.NewItem(sequence.Trailer),
			}

			compiled(items, handler.NewFeatureQueue(playable.NewFeature("/f.mkv")), calls)
			So(calls[sequence.Video], ShouldEqual, 1)

			calls = make(map[sequence.Kind]int)
			compiled(items, nil, calls)
			So(calls[sequence.Video], ShouldEqual, 0)
			So(calls[sequence.Trailer], ShouldEqual, 1)
		})

		Convey("Leaves clock loops to playback", func() {
			items := []*sequence.Item{
				sequence.NewItem(sequence.Video),
				loop("back", 1, sequence.ConditionDuration).MustSet("duration", 10),
			}

			p := compiled(items, nil, calls)
			timeline := p.Timeline()
			So(timeline, ShouldHaveLength, 2)

			g, ok := timeline[1].(*playable.Goto)
			So(ok, ShouldBeTrue)
			So(g.From(), ShouldEqual, 1)
			So(g.Duration, ShouldEqual, 10*time.Minute)
		})
	})
}

func froms(timeline []playable.Playable) []int {
	from := make([]int, len(timeline))
	for i, pl := range timeline {
		from[i] = pl.From()
	}
	return from
}

func TestCursor(t *testing.T) {
	Convey("Cursor", t, func() {
		calls := make(map[sequence.Kind]int)
		items := []*sequence.Item{
			sequence.NewItem(sequence.Video),
			sequence.NewItem(sequence.Action).MustSet("file", "/a.lua"),
			sequence.NewItem(sequence.Trailer),
			sequence.NewItem(sequence.Feature),
		}

		p := New(items, &handler.Context{})
		p.SetHandler(func(c *handler.Context, it *sequence.Item) []playable.Playable {
			switch it.Kind {
			case sequence.Action:
				return []playable.Playable{playable.NewAction("/a.lua", nil)}
			case sequence.Feature:
				return []playable.Playable{playable.NewFeature("/f.mkv")}
			}
			return oneVideo(calls)(c, it)
		})
		p.Compile()

		Convey("Walks forward to the sentinel", func() {
			So(p.Pos(), ShouldEqual, -1)
			So(p.Next().Type(), ShouldEqual, playable.TypeVideo)
			So(p.Next().Type(), ShouldEqual, playable.TypeAction)
			So(p.LastAction().Path, ShouldEqual, "/a.lua")
			So(p.Next().Type(), ShouldEqual, playable.TypeVideo)
			So(p.Next().Type(), ShouldEqual, playable.TypeFeature)
			So(p.Next(), ShouldBeNil)
			So(p.AtEnd(), ShouldBeTrue)
			So(p.Next(), ShouldBeNil)
			So(p.Pos(), ShouldEqual, p.End())
		})

		Convey("Steps back over actions", func() {
			p.Next()
			p.Next()
			p.Next()
			So(p.Prev().Type(), ShouldEqual, playable.TypeVideo)
			So(p.Pos(), ShouldEqual, 0)
			So(p.Prev().Type(), ShouldEqual, playable.TypeVideo)
			So(p.Pos(), ShouldEqual, 0)
		})

		Convey("Looks ahead", func() {
			p.Next()
			up, ok := p.UpNext().Get()
			So(ok, ShouldBeTrue)
			So(up.(*playable.Video).Path, ShouldEqual, "/trailer/1.mp4")

			f, ok := p.NextFeature().Get()
			So(ok, ShouldBeTrue)
			So(f.Path, ShouldEqual, "/f.mkv")
		})

		Convey("Seeks by item offset", func() {
			p.Next()
			p.Next()
			p.Next()
			So(p.SeekToFirstPlayableAtOffset(-2), ShouldBeTrue)
			So(p.Pos(), ShouldEqual, -1)
			So(p.Next().From(), ShouldEqual, 0)

			So(p.SeekToFirstPlayableAtOffset(3), ShouldBeTrue)
			So(p.Next().Type(), ShouldEqual, playable.TypeFeature)

			So(p.SeekToFirstPlayableAtOffset(1), ShouldBeFalse)
		})
	})
}

func TestShow(t *testing.T) {
	Convey("A bumper and a feature", t, func() {
		cat := catalog.NewMemory()
		So(cat.PutBumper(context.Background(), catalog.Bumper{
			Kind: catalog.BumperVideo, Category: "preshow", Name: "intro", Path: "/v/preshow/intro.mp4",
		}), ShouldBeNil)

		feature := playable.NewFeature("/movies/Heat.mkv")
		feature.Title = "Heat"

		items := []*sequence.Item{
			sequence.NewItem(sequence.Video).MustSet("vtype", "preshow"),
			sequence.NewItem(sequence.Feature),
		}
		p := New(items, &handler.Context{Catalog: cat, Queue: handler.NewFeatureQueue(feature)})
		p.Compile()

		So(p.Timeline(), ShouldHaveLength, 2)
		So(p.Next().(*playable.Video).Path, ShouldEqual, "/v/preshow/intro.mp4")
		So(p.Next().(*playable.Feature).Title, ShouldEqual, "Heat")
		So(p.Next(), ShouldBeNil)
	})

	Convey("A trivia capped at its duration", t, func() {
		ctx := context.Background()
		cat := catalog.NewMemory()
		for i := range 3 {
			So(cat.PutTrivia(ctx, catalog.Trivia{
				TID:      fmt.Sprintf("t%d", i),
				Type:     catalog.TriviaQA,
				Question: fmt.Sprintf("/trivia/%d_q.jpg", i),
				Answer:   fmt.Sprintf("/trivia/%d_a.jpg", i),
			}), ShouldBeNil)
		}

		items := []*sequence.Item{
			sequence.NewItem(sequence.Trivia).
				MustSet("duration", 1).
				MustSet("qDuration", 20).
				MustSet("aDuration", 20),
		}
		p := New(items, &handler.Context{Catalog: cat})
		p.Compile()

		q := p.Next().(*playable.ImageQueue)
		So(q.Duration, ShouldBeGreaterThanOrEqualTo, time.Minute)
		So(q.Duration, ShouldBeLessThanOrEqualTo, time.Minute+40*time.Second)
	})
}
