package version

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		Convey("Orders by major, minor then patch", func() {
			cmp, err := Compare("1.2.3", "1.10.0")
			So(err, ShouldBeNil)
			So(cmp, ShouldEqual, -1)

			cmp, err = Compare("v2.0.0", "1.99.99")
			So(err, ShouldBeNil)
			So(cmp, ShouldEqual, 1)

			cmp, err = Compare("0.1.0", "v0.1.0")
			So(err, ShouldBeNil)
			So(cmp, ShouldEqual, 0)
		})

		Convey("Treats a missing patch as zero", func() {
			cmp, err := Compare("1.2", "1.2.0")
			So(err, ShouldBeNil)
			So(cmp, ShouldEqual, 0)
		})

		Convey("Puts pre-releases before the release", func() {
			cmp, err := Compare("1.0.0-rc1", "1.0.0")
			So(err, ShouldBeNil)
			So(cmp, ShouldEqual, -1)

			cmp, err = Compare("1.0.0-rc2", "1.0.0-rc1")
			So(err, ShouldBeNil)
			So(cmp, ShouldEqual, 1)
		})

		Convey("Rejects a malformed version", func() {
			_, err := Compare("latest", "0.1.0")
			So(err, ShouldNotBeNil)

			_, err = Compare("0.1.0", "1.x.0")
			So(err, ShouldNotBeNil)
		})
	})
}
