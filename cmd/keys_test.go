package cmd

import (
	"testing"

	"github.com/preshow-cli/preshow/engine"
	. "github.com/smartystreets/goconvey/convey"
)

func TestKeyInput(t *testing.T) {
	Convey("keyInput", t, func() {
		Convey("Maps letters", func() {
			So(keyInput([]byte(" ")), ShouldEqual, engine.Pause)
			So(keyInput([]byte("n")), ShouldEqual, engine.Next)
			So(keyInput([]byte("P")), ShouldEqual, engine.BigPrev)
			So(keyInput([]byte("b")), ShouldEqual, engine.Back)
		})

		Convey("Maps arrows", func() {
			So(keyInput([]byte("\x1b[C")), ShouldEqual, engine.Next)
			So(keyInput([]byte("\x1b[A")), ShouldEqual, engine.BigNext)
			So(keyInput([]byte("\x1b[B")), ShouldEqual, engine.BigPrev)
		})

		Convey("Stops on q, escape and ctrl-c", func() {
			So(keyInput([]byte("q")), ShouldEqual, engine.Stop)
			So(keyInput([]byte{0x1b}), ShouldEqual, engine.Stop)
			So(keyInput([]byte{0x03}), ShouldEqual, engine.Stop)
		})

		Convey("Ignores other keys", func() {
			So(keyInput([]byte("x")), ShouldEqual, engine.None)
			So(keyInput([]byte("\x1b[H")), ShouldEqual, engine.None)
			So(keyInput([]byte("nn")), ShouldEqual, engine.None)
		})
	})
}
