package playable

import (
	"testing"
	"time"

	"github.com/preshow-cli/preshow/sequence"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGoto(t *testing.T) {
	at := func(day, hour, minute int) time.Time {
		return time.Date(2024, 5, day, hour, minute, 0, 0, time.UTC)
	}

	Convey("Goto", t, func() {
		Convey("With a duration", func() {
			g := NewGoto(sequence.CommandSettings{
				Command:   "back",
				Arg:       2,
				Condition: sequence.ConditionDuration,
				Duration:  10 * time.Minute,
			})

			So(g.Armed(), ShouldBeFalse)
			So(g.Run(at(1, 20, 0)), ShouldEqual, -2)
			So(g.Armed(), ShouldBeTrue)
			So(g.Until, ShouldEqual, at(1, 20, 10))
			So(g.Run(at(1, 20, 5)), ShouldEqual, -2)

			Convey("It disarms once the duration has passed", func() {
				So(g.Run(at(1, 20, 10)), ShouldEqual, 0)
				So(g.Armed(), ShouldBeFalse)

				Convey("And rearms on the next evaluation", func() {
					So(g.Run(at(1, 21, 0)), ShouldEqual, -2)
					So(g.Until, ShouldEqual, at(1, 21, 10))
				})
			})
		})

		Convey("With a time of day already past", func() {
			g := NewGoto(sequence.CommandSettings{
				Command:   "skip",
				Arg:       1,
				Condition: sequence.ConditionTimeOfDay,
				TimeOfDay: "2:30 PM",
			})

			So(g.Run(at(1, 15, 0)), ShouldEqual, 1)
			So(g.Until, ShouldEqual, at(2, 14, 30))
			So(g.Run(at(2, 14, 29)), ShouldEqual, 1)
			So(g.Run(at(2, 14, 30)), ShouldEqual, 0)
		})

		Convey("NextTimeOfDay", func() {
			So(NextTimeOfDay(at(1, 9, 0), "14:30"), ShouldEqual, at(1, 14, 30))
			So(NextTimeOfDay(at(1, 9, 0), "bogus"), ShouldEqual, at(1, 9, 0))
		})
	})
}
