package cache

import (
	"testing"
	"time"

	"github.com/preshow-cli/preshow/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestCache(t *testing.T) {
	Convey("Given a cache", t, func() {
		c := New("/cache/urls", time.Hour)
		key := Key("content:1", "1080p")

		Convey("A written value reads back", func() {
			So(c.Write(key, map[string]string{"url": "https://example.com/a.mp4"}), ShouldBeNil)

			var got map[string]string
			So(c.Read(key, &got), ShouldBeTrue)
			So(got["url"], ShouldEqual, "https://example.com/a.mp4")
		})

		Convey("A missing key misses", func() {
			var got string
			So(c.Read(Key("nope"), &got), ShouldBeFalse)
		})

		Convey("Expired entries miss and are collected", func() {
			expired := New("/cache/expired", -time.Second)
			So(expired.Write(key, "x"), ShouldBeNil)

			var got string
			So(expired.Read(key, &got), ShouldBeFalse)
			So(expired.CollectGarbage(), ShouldEqual, 1)
		})

		Convey("Keys ignore case and spaces", func() {
			So(Key("The Matrix", "x"), ShouldEqual, Key("thematrix", "X"))
			So(Key("a", "b"), ShouldNotEqual, Key("ab"))
		})
	})
}
