package sequence

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/preshow-cli/preshow/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func sampleDocument() *Document {
	doc := New("Weekend")
	doc.Attributes.Studios = []string{"Pixar"}
	doc.Attributes.Year = [][]int{{1990, 0}}
	doc.Attributes.Ratings = [][]string{{"MPAA:G", "MPAA:PG-13"}}

	doc.Items = []*Item{
		NewItem(Video).MustSet("vtype", "preshow").MustSet("random", false).MustSet("count", 2),
		NewItem(Trivia).MustSet("duration", 10).MustSet("music", "dir").MustSet("musicDir", "/music"),
		NewItem(Trailer).MustSet("count", 3).MustSet("limitGenre", false).MustSet("scrapers", "content,tmdb"),
		NewItem(Command).MustSet("command", "back").MustSet("arg", 2).MustSet("condition", ConditionNbLoops),
		NewItem(AudioFormat).MustSet("method", "af.format").MustSet("format", "Dolby Atmos"),
		NewItem(Action).MustSet("file", "/scripts/lights.lua"),
		NewItem(Feature).MustSet("count", 1).MustSet("ratingBumper", "image"),
	}
	doc.Items[1].Name = "Quiz"
	doc.Items[5].Enabled = false
	doc.SetVisibleInDialog(false)
	return doc
}

func TestRoundTrip(t *testing.T) {
	Convey("Given a document with every kind of item", t, func() {
		doc := sampleDocument()

		Convey("Serializing and loading reproduces the items", func() {
			data, err := doc.Serialize()
			So(err, ShouldBeNil)

			loaded, err := Load(data, "weekend.pseq")
			So(err, ShouldBeNil)
			So(loaded.Name, ShouldEqual, "Weekend")
			So(loaded.Active, ShouldBeTrue)
			So(loaded.VisibleInDialog(), ShouldBeFalse)
			So(loaded.Items, ShouldHaveLength, len(doc.Items))

			for i, it := range doc.Items {
				got := loaded.Items[i]
				So(got.Kind, ShouldEqual, it.Kind)
				So(got.Enabled, ShouldEqual, it.Enabled)
				So(got.Name, ShouldEqual, it.Name)
				So(got.Settings(), ShouldResemble, it.Settings())
			}
			So(loaded.Attributes, ShouldResemble, doc.Attributes)
		})

		Convey("The file carries the version and type tags", func() {
			data, err := doc.Serialize()
			So(err, ShouldBeNil)

			var raw map[string]any
			So(json.Unmarshal(data, &raw), ShouldBeNil)
			So(raw["version"], ShouldEqual, float64(SaveVersion))
			first := raw["items"].([]any)[0].(map[string]any)
			So(first["type"], ShouldEqual, "video")
		})

		Convey("Save writes a file LoadFile can read back", func() {
			So(doc.Save("/sequences/weekend.pseq"), ShouldBeNil)
			loaded, err := LoadFile("/sequences/weekend.pseq")
			So(err, ShouldBeNil)
			So(loaded.PathName, ShouldEqual, "weekend.pseq")
			So(loaded.Path(), ShouldEqual, "/sequences/weekend.pseq")
			So(loaded.Items, ShouldHaveLength, 7)
		})
	})
}

func TestLoadErrors(t *testing.T) {
	Convey("Load", t, func() {
		Convey("Rejects an empty payload", func() {
			_, err := Load([]byte("  \n"), "empty.pseq")
			So(errors.Is(err, ErrEmptySequenceFile), ShouldBeTrue)

			var docErr *DocumentError
			So(errors.As(err, &docErr), ShouldBeTrue)
			So(docErr.Path, ShouldEqual, "empty.pseq")
		})

		Convey("Rejects broken JSON", func() {
			_, err := Load([]byte(`{"items": [`), "broken.pseq")
			So(errors.Is(err, ErrBadSequenceFile), ShouldBeTrue)
		})

		Convey("Rejects unknown item types", func() {
			_, err := Load([]byte(`{"items": [{"type": "popcorn", "settings": {}}]}`), "x")
			So(errors.Is(err, ErrBadSequenceFile), ShouldBeTrue)
		})

		Convey("Suggests the closest item type", func() {
			_, err := Load([]byte(`{"items": [{"type": "trailr", "settings": {}}]}`), "x")
			So(err.Error(), ShouldContainSubstring, `did you mean "trailer"`)
			So(ClosestTag("Trivai"), ShouldEqual, "trivia")
		})

		Convey("Rejects settings of the wrong type", func() {
			_, err := Load([]byte(`{"items": [{"type": "trivia", "settings": {"duration": "long"}}]}`), "x")
			So(errors.Is(err, ErrBadSequenceFile), ShouldBeTrue)
		})

		Convey("Rejects garbage that is neither JSON nor XML", func() {
			_, err := Load([]byte("popcorn"), "x")
			So(errors.Is(err, ErrBadSequenceFile), ShouldBeTrue)
		})

		Convey("Falls back to the file name and defaults", func() {
			doc, err := Load([]byte(`{"items": [{"type": "feature", "settings": {"count": 2, "bogus": 1}}]}`), "plain.pseq")
			So(err, ShouldBeNil)
			So(doc.Name, ShouldEqual, "plain.pseq")
			So(doc.Active, ShouldBeFalse)
			So(doc.VisibleInDialog(), ShouldBeTrue)
			So(doc.Items[0].Enabled, ShouldBeTrue)
			So(doc.Items[0].Settings(), ShouldResemble, map[string]any{"count": 2})
		})
	})
}

func TestLegacyXML(t *testing.T) {
	Convey("Given a legacy XML sequence", t, func() {
		data := []byte(`<sequence>
  <item type="video" enabled="True" name="Intro">
    <vtype>theater.intro</vtype>
    <random>False</random>
    <count>2</count>
  </item>
  <item type="trivia" enabled="False">
    <duration>15</duration>
    <music>None</music>
  </item>
</sequence>`)

		doc, err := Load(data, "old.seq")
		So(err, ShouldBeNil)
		So(doc.Items, ShouldHaveLength, 2)

		Convey("Attributes and settings are decoded", func() {
			v := doc.Items[0]
			So(v.Kind, ShouldEqual, Video)
			So(v.Enabled, ShouldBeTrue)
			So(v.Name, ShouldEqual, "Intro")
			So(v.Settings(), ShouldResemble, map[string]any{"vtype": "theater.intro", "random": false, "count": 2})
		})

		Convey("None values stay unset", func() {
			tr := doc.Items[1]
			So(tr.Enabled, ShouldBeFalse)
			So(tr.IsSet("music"), ShouldBeFalse)
			So(tr.Get("duration"), ShouldEqual, 15)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Validate", t, func() {
		Convey("Warns when no feature is present", func() {
			doc := New("x")
			doc.Items = []*Item{NewItem(Trivia)}
			So(doc.Validate(), ShouldContain, "sequence has no feature item")
		})

		Convey("Flags values outside their domain", func() {
			doc := New("x")
			doc.Items = []*Item{NewItem(Feature).MustSet("count", 50)}
			issues := doc.Validate()
			So(issues, ShouldHaveLength, 1)
			So(issues[0], ShouldContainSubstring, "count=50")
		})

		Convey("A complete document is clean", func() {
			So(sampleDocument().Validate(), ShouldBeEmpty)
		})
	})
}

func TestSchema(t *testing.T) {
	Convey("The schema describes items and attributes", t, func() {
		data, err := Schema()
		So(err, ShouldBeNil)
		So(string(data), ShouldContainSubstring, "audioformat")
		So(string(data), ShouldContainSubstring, "featuretitle")
	})
}

func TestAttributesDescribe(t *testing.T) {
	Convey("Describe renders ranges", t, func() {
		a := Attributes{
			Year:    [][]int{{1990, 0}, {2001}},
			Ratings: [][]string{{"", "MPAA:PG"}},
			Dates:   [][][]int{{{12, 1}, {12, 31}}},
			Times:   [][][]int{{{18, 0}, {23, 30}}},
		}
		So(a.Describe(), ShouldResemble, []string{
			"year = 1990 - Now, 2001",
			"ratings = Any - MPAA:PG",
			"dates = Dec 1 - Dec 31",
			"times = 18:00 - 23:30",
		})
	})
}
