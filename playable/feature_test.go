package playable

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSnapAspect(t *testing.T) {
	Convey("SnapAspect", t, func() {
		for raw, want := range map[string]string{
			"2.39": "2.4",
			"1.77": "1.78",
			"185":  "1.85",
			"1.33": "1.33",
		} {
			got, ok := SnapAspect(raw)
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, want)
		}

		_, ok := SnapAspect("wide")
		So(ok, ShouldBeFalse)
	})
}

func TestPickAudioStream(t *testing.T) {
	Convey("PickAudioStream", t, func() {
		Convey("Prefers the richest known codec", func() {
			s, ok := PickAudioStream([]AudioStream{
				{Codec: "aac", Channels: 8},
				{Codec: "ac3", Channels: 6},
				{Codec: "truehd", Channels: 8},
			})
			So(ok, ShouldBeTrue)
			So(s.Codec, ShouldEqual, "truehd")
		})

		Convey("Falls back to the most channels", func() {
			s, _ := PickAudioStream([]AudioStream{{Codec: "aac", Channels: 2}, {Codec: "opus", Channels: 6}})
			So(s.Codec, ShouldEqual, "opus")
		})

		Convey("Reports empty input", func() {
			_, ok := PickAudioStream(nil)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestFeatureFromJSON(t *testing.T) {
	Convey("FeatureFromJSON", t, func() {
		data := []byte(`{
			"file": "/movies/Alien (1979).mkv",
			"label": "Alien",
			"mpaa": "Rated R",
			"movieid": 42,
			"type": "movie",
			"genre": ["Horror", "Science Fiction"],
			"studio": ["20th Century Fox"],
			"director": ["Ridley Scott"],
			"cast": [{"name": "Sigourney Weaver"}],
			"runtime": 7020,
			"year": 1979,
			"streamdetails": {
				"audio": [{"codec": "aac", "channels": 2}, {"codec": "dca", "channels": 6}],
				"video": [{"aspect": 1.85}]
			}
		}`)

		f, err := FeatureFromJSON(data, "MPAA")
		So(err, ShouldBeNil)
		So(f.Title, ShouldEqual, "Alien")
		So(f.Rating.String(), ShouldEqual, "MPAA:R")
		So(f.ID, ShouldEqual, 42)
		So(f.Cast, ShouldResemble, []string{"Sigourney Weaver"})
		So(f.Runtime, ShouldEqual, 7020*time.Second)
		So(f.RuntimeDisplay(), ShouldEqual, "1:57")
		So(f.AudioFormat, ShouldEqual, "DTS")
		So(f.Channels, ShouldEqual, 6)
		So(f.VideoAspect, ShouldEqual, "1.85")
		So(f.Volume, ShouldEqual, 100)

		Convey("A record needs a file", func() {
			_, err := FeatureFromJSON([]byte(`{"title": "x"}`), "MPAA")
			So(err, ShouldNotBeNil)
		})
	})
}
