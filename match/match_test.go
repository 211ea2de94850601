package match

import (
	"testing"
	"time"

	"github.com/preshow-cli/preshow/playable"
	"github.com/preshow-cli/preshow/rating"
	"github.com/preshow-cli/preshow/sequence"
	. "github.com/smartystreets/goconvey/convey"
)

func doc(name string, a sequence.Attributes) *sequence.Document {
	d := sequence.New(name)
	d.Attributes = a
	return d
}

func alien() *playable.Feature {
	f := playable.NewFeature("/movies/alien.mkv")
	f.Title = "Alien"
	f.Rating = rating.MustParse("MPAA:R")
	f.Year = 1979
	f.Genres = []string{"Horror", "Science Fiction", "Thriller"}
	f.Studios = []string{"Brandywine Studios"}
	f.Directors = []string{"Ridley Scott"}
	f.Cast = []string{"Sigourney Weaver"}
	f.VideoAspect = "1.85"
	return f
}

func TestScore(t *testing.T) {
	m := &Matcher{Now: func() time.Time { return time.Date(2024, 10, 31, 21, 15, 0, 0, time.UTC) }}
	f := alien()

	Convey("Score", t, func() {
		Convey("Unset conditions are neutral", func() {
			for _, attr := range Priority {
				So(m.Score(doc("any", sequence.Attributes{}), attr, f), ShouldEqual, Unconstrained)
			}
		})

		Convey("Studios match without their suffix", func() {
			So(m.Score(doc("s", sequence.Attributes{Studios: []string{"brandywine"}}), Studio, f), ShouldEqual, 5)
			So(m.Score(doc("s", sequence.Attributes{Studios: []string{"Pixar"}}), Studio, f), ShouldEqual, Mismatch)
		})

		Convey("Titles match by substring", func() {
			So(m.Score(doc("t", sequence.Attributes{FeatureTitle: []string{"ali"}}), FeatureTitle, f), ShouldEqual, 5)
		})

		Convey("Lists compare case-insensitively", func() {
			So(m.Score(doc("d", sequence.Attributes{Directors: []string{"ridley scott"}}), Director, f), ShouldEqual, 5)
			So(m.Score(doc("a", sequence.Attributes{Actors: []string{"Tom Skerritt"}}), Actor, f), ShouldEqual, Mismatch)
			So(m.Score(doc("v", sequence.Attributes{VideoAspect: []string{"1.85"}}), VideoAspect, f), ShouldEqual, 5)
		})

		Convey("Years", func() {
			So(m.Score(doc("y", sequence.Attributes{Year: [][]int{{1979}}}), Year, f), ShouldEqual, 5)
			So(m.Score(doc("y", sequence.Attributes{Year: [][]int{{1970, 1980}}}), Year, f), ShouldEqual, 5)
			So(m.Score(doc("y", sequence.Attributes{Year: [][]int{{1970, 0}}}), Year, f), ShouldEqual, 5)
			So(m.Score(doc("y", sequence.Attributes{Year: [][]int{{1980, 0}}}), Year, f), ShouldEqual, Mismatch)
		})

		Convey("Ratings", func() {
			So(m.Score(doc("r", sequence.Attributes{Ratings: [][]string{{"MPAA:R"}}}), Ratings, f), ShouldEqual, 5)
			So(m.Score(doc("r", sequence.Attributes{Ratings: [][]string{{"MPAA:PG-13", ""}}}), Ratings, f), ShouldEqual, 5)
			So(m.Score(doc("r", sequence.Attributes{Ratings: [][]string{{"", "MPAA:PG-13"}}}), Ratings, f), ShouldEqual, Mismatch)
			So(m.Score(doc("r", sequence.Attributes{Ratings: [][]string{{"BBFC:15"}}}), Ratings, f), ShouldEqual, Mismatch)
		})

		Convey("Genres accumulate with decreasing weight", func() {
			So(m.Score(doc("g", sequence.Attributes{Genres: []string{"horror"}}), Genre, f), ShouldEqual, 5)
			So(m.Score(doc("g", sequence.Attributes{Genres: []string{"horror", "thriller"}}), Genre, f), ShouldEqual, 8)
			So(m.Score(doc("g", sequence.Attributes{Genres: []string{"horror", "thriller", "science fiction"}}), Genre, f), ShouldEqual, 9)
			So(m.Score(doc("g", sequence.Attributes{Genres: []string{"comedy"}}), Genre, f), ShouldEqual, Mismatch)
		})

		Convey("Dates and times use the clock", func() {
			So(m.Score(doc("d", sequence.Attributes{Dates: [][][]int{{{10, 31}}}}), Dates, f), ShouldEqual, 5)
			So(m.Score(doc("d", sequence.Attributes{Dates: [][][]int{{{12, 1}, {12, 31}}}}), Dates, f), ShouldEqual, Mismatch)
			So(m.Score(doc("d", sequence.Attributes{Dates: [][][]int{{{10, 1}, {1, 5}}}}), Dates, f), ShouldEqual, 5)
			So(m.Score(doc("t", sequence.Attributes{Times: [][][]int{{{21}}}}), Times, f), ShouldEqual, 5)
			So(m.Score(doc("t", sequence.Attributes{Times: [][][]int{{{20, 0}, {2, 0}}}}), Times, f), ShouldEqual, 5)
			So(m.Score(doc("t", sequence.Attributes{Times: [][][]int{{{9, 0}, {17, 0}}}}), Times, f), ShouldEqual, Mismatch)
		})
	})
}

func TestSelect(t *testing.T) {
	m := New()
	f := alien()

	Convey("Select", t, func() {
		Convey("A satisfied studio condition beats an unconstrained document", func() {
			plain := doc("plain", sequence.Attributes{})
			studio := doc("studio", sequence.Attributes{Studios: []string{"Brandywine"}})

			c, ok := m.Select([]*sequence.Document{plain, studio}, f).Get()
			So(ok, ShouldBeTrue)
			So(c.Document, ShouldEqual, studio)
			So(c.Score, ShouldEqual, 5)
		})

		Convey("Any failed condition eliminates a document", func() {
			wrong := doc("wrong", sequence.Attributes{Studios: []string{"Brandywine"}, Genres: []string{"Comedy"}})
			plain := doc("plain", sequence.Attributes{})

			c, _ := m.Select([]*sequence.Document{wrong, plain}, f).Get()
			So(c.Document, ShouldEqual, plain)
		})

		Convey("Ties go to the first document", func() {
			first := doc("first", sequence.Attributes{Genres: []string{"Horror"}})
			second := doc("second", sequence.Attributes{Directors: []string{"Ridley Scott"}})

			c, _ := m.Select([]*sequence.Document{first, second}, f).Get()
			So(c.Document, ShouldEqual, first)

			c, _ = m.Select([]*sequence.Document{second, first}, f).Get()
			So(c.Document, ShouldEqual, second)
		})

		Convey("Inactive documents are ignored", func() {
			studio := doc("studio", sequence.Attributes{Studios: []string{"Brandywine"}})
			studio.Active = false
			def := doc("default", sequence.Attributes{})

			So(m.Select([]*sequence.Document{studio}, f).IsAbsent(), ShouldBeTrue)
			So(m.SelectOrDefault([]*sequence.Document{studio}, f, def), ShouldEqual, def)
		})
	})
}
