package rating

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Parse", t, func() {
		Convey("Accepts a colon separated system", func() {
			r, ok := Parse("MPAA:PG-13", "BBFC")
			So(ok, ShouldBeTrue)
			So(r, ShouldResemble, Rating{System: "MPAA", Name: "PG-13", Value: 13})
		})

		Convey("Accepts a dot separated system", func() {
			r, ok := Parse("bbfc.12a", "MPAA")
			So(ok, ShouldBeTrue)
			So(r.String(), ShouldEqual, "BBFC:12A")
		})

		Convey("Falls back to the default system", func() {
			r, ok := Parse("Rated R", "MPAA")
			So(ok, ShouldBeTrue)
			So(r.Value, ShouldEqual, 17)
		})

		Convey("Marks unknown ratings as not rated", func() {
			r, ok := Parse("MPAA:XYZ", "MPAA")
			So(ok, ShouldBeFalse)
			So(r.Value, ShouldEqual, NotRated)
			So(r.Known(), ShouldBeFalse)
		})

		Convey("Empty input yields the zero rating", func() {
			r, ok := Parse("  ", "MPAA")
			So(ok, ShouldBeFalse)
			So(r.IsZero(), ShouldBeTrue)
		})
	})
}

func TestExceeds(t *testing.T) {
	Convey("Exceeds", t, func() {
		limit := MustParse("MPAA:PG-13")
		So(MustParse("MPAA:R").Exceeds(limit), ShouldBeTrue)
		So(MustParse("MPAA:PG").Exceeds(limit), ShouldBeFalse)
		So(MustParse("FSK:18").Exceeds(limit), ShouldBeFalse)
	})
}

func TestSystems(t *testing.T) {
	Convey("Every system lists ascending ratings", t, func() {
		for _, name := range Systems() {
			rs := Ratings(name)
			So(rs, ShouldNotBeEmpty)
			for i := 1; i < len(rs); i++ {
				So(rs[i].Value, ShouldBeGreaterThanOrEqualTo, rs[i-1].Value)
			}
		}
	})
}
