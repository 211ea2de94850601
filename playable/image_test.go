package playable

import (
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type setSource struct {
	sets   [][]*Image
	marked []string
}

func newSetSource(n, size int) *setSource {
	s := &setSource{}
	for i := 0; i < n; i++ {
		var set []*Image
		for j := size - 1; j >= 0; j-- {
			set = append(set, &Image{
				Path:      fmt.Sprintf("set%d/slide%d.jpg", i, size-1-j),
				Duration:  5 * time.Second,
				SetNumber: j,
				SetID:     fmt.Sprint(i),
			})
		}
		s.sets = append(s.sets, set)
	}
	return s
}

func (s *setSource) Next(q *ImageQueue) []*Image {
	for _, set := range s.sets {
		if !q.Contains(set...) {
			return set
		}
	}
	return nil
}

func (s *setSource) Mark(img *Image) {
	s.marked = append(s.marked, img.SetID)
}

func TestImageQueue(t *testing.T) {
	Convey("Given a queue over three sets of three slides", t, func() {
		src := newSetSource(3, 3)
		q := NewImageQueue(src, time.Minute)
		now := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
		q.SetClock(func() time.Time { return now })

		Convey("It fetches lazily", func() {
			So(q.Size(), ShouldEqual, 0)
			So(q.Next(time.Time{}, 1, false).Path, ShouldEqual, "set0/slide0.jpg")
			So(q.Size(), ShouldEqual, 3)
			So(q.Duration, ShouldEqual, 15*time.Second)
		})

		Convey("Next then Prev returns to the same slide", func() {
			q.Next(time.Time{}, 1, false)
			q.Next(time.Time{}, 1, false)
			third := q.Next(time.Time{}, 1, false)
			So(third.SetNumber, ShouldEqual, 0)

			So(q.Next(time.Time{}, 1, false).Path, ShouldEqual, "set1/slide0.jpg")
			So(q.Prev(1), ShouldEqual, third)
			So(q.Next(time.Time{}, 1, false).Path, ShouldEqual, "set1/slide0.jpg")
		})

		Convey("Prev never moves before the first slide", func() {
			So(q.Prev(1), ShouldBeNil)
			q.Next(time.Time{}, 1, false)
			So(q.OnFirst(), ShouldBeTrue)
			So(q.Prev(1), ShouldBeNil)
		})

		Convey("A big skip jumps by sets", func() {
			q.Next(time.Time{}, 1, false)
			img := q.Next(time.Time{}, 2, false)
			So(img.Path, ShouldEqual, "set2/slide0.jpg")
			So(q.Size(), ShouldEqual, 9)

			Convey("And a big back returns by sets", func() {
				So(q.Prev(2).Path, ShouldEqual, "set0/slide0.jpg")
			})
		})

		Convey("It ends when the source is exhausted", func() {
			for i := 0; i < 9; i++ {
				So(q.Next(time.Time{}, 1, false), ShouldNotBeNil)
			}
			So(q.Next(time.Time{}, 1, false), ShouldBeNil)
			So(q.OnLast(), ShouldBeTrue)
		})

		Convey("Overtime finishes the set in progress", func() {
			start := now.Add(-2 * time.Minute)
			q.Next(time.Time{}, 1, false)

			So(q.Next(start, 1, false).SetNumber, ShouldEqual, 1)
			So(q.Next(start, 1, false).SetNumber, ShouldEqual, 0)
			So(q.Next(start, 1, false), ShouldBeNil)
			So(q.Size(), ShouldEqual, 3)
		})

		Convey("Mark only reports the end of a set", func() {
			first := q.Next(time.Time{}, 1, false)
			q.Mark(first)
			So(src.marked, ShouldBeEmpty)

			q.Next(time.Time{}, 1, false)
			q.Mark(q.Next(time.Time{}, 1, false))
			So(src.marked, ShouldResemble, []string{"0"})
		})

		Convey("Reset rewinds the cursor", func() {
			q.Next(time.Time{}, 1, false)
			q.Reset()
			So(q.Current(), ShouldBeNil)
			So(q.Next(time.Time{}, 1, false).Path, ShouldEqual, "set0/slide0.jpg")
		})
	})
}
