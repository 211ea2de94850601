package player

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMPV(t *testing.T) {
	Convey("MPV", t, func() {
		Convey("Starts idle with a window for videos and stills", func() {
			args := Options{Fullscreen: true}.args("/tmp/x.sock")
			So(args, ShouldContain, "--input-ipc-server=/tmp/x.sock")
			So(args, ShouldContain, "--idle=yes")
			So(args, ShouldContain, "--image-display-duration=inf")
			So(args, ShouldContain, "--fullscreen")
		})

		Convey("Starts windowless for music", func() {
			args := Options{AudioOnly: true, Fullscreen: true}.args("/tmp/x.sock")
			So(args, ShouldContain, "--video=no")
			So(args, ShouldNotContain, "--fullscreen")
		})

		Convey("Reports a missing binary as a device error", func() {
			m := NewMPV(Options{Binary: "/nonexistent/mpv"})
			err := m.Play(context.Background(), Media{Path: "/movies/a.mkv"})

			var derr *DeviceError
			So(errors.As(err, &derr), ShouldBeTrue)
			So(derr.Op, ShouldEqual, "start")
			So(m.Playing(), ShouldBeFalse)
		})

		Convey("Does nothing before it runs", func() {
			m := NewMPV(Options{})
			So(m.Stop(), ShouldBeNil)
			So(m.SetPause(true), ShouldBeNil)
			So(m.Events(), ShouldBeNil)
			So(m.Close(), ShouldBeNil)

			v, err := m.Volume()
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 100)
		})
	})
}

func TestSanitize(t *testing.T) {
	Convey("Media targets", t, func() {
		for _, bad := range []string{"", "--script=x.lua", "file:///etc/passwd", "a\nb"} {
			_, err := sanitizeMediaTarget(bad)
			So(err, ShouldNotBeNil)
		}

		target, err := sanitizeMediaTarget(" https://www.youtube.com/watch?v=Duoy0gd-PAU ")
		So(err, ShouldBeNil)
		So(target, ShouldEqual, "https://www.youtube.com/watch?v=Duoy0gd-PAU")

		target, err = sanitizeMediaTarget("/content/Trailers/../Trailers/a.mp4")
		So(err, ShouldBeNil)
		So(target, ShouldEqual, "/content/Trailers/a.mp4")

		So(sanitizeTitle(" Heat\n(1995)\t"), ShouldEqual, "Heat (1995)")
	})
}

func TestEvents(t *testing.T) {
	Convey("mpv messages", t, func() {
		el := newEventListener("/tmp/x.sock")

		_, ok := el.translate(ipcMessage{Event: "property-change", Name: "pause", Data: true})
		So(ok, ShouldBeFalse)

		el.translate(ipcMessage{Event: "property-change", Name: "path", Data: "/movies/a.mkv"})
		ev, ok := el.translate(ipcMessage{Event: "file-loaded"})
		So(ok, ShouldBeTrue)
		So(ev.Kind, ShouldEqual, Started)
		So(ev.Path, ShouldEqual, "/movies/a.mkv")

		ev, _ = el.translate(ipcMessage{Event: "property-change", Name: "pause", Data: true})
		So(ev.Kind, ShouldEqual, Paused)
		ev, _ = el.translate(ipcMessage{Event: "property-change", Name: "pause", Data: false})
		So(ev.Kind, ShouldEqual, Resumed)

		ev, _ = el.translate(ipcMessage{Event: "end-file", Reason: "eof"})
		So(ev.Kind, ShouldEqual, Ended)

		el.translate(ipcMessage{Event: "file-loaded"})
		ev, _ = el.translate(ipcMessage{Event: "end-file", Reason: "error", FileError: "loading failed"})
		So(ev.Kind, ShouldEqual, Failed)
		So(ev.Err.Error(), ShouldContainSubstring, "loading failed")

		ev, _ = el.translate(ipcMessage{Event: "end-file", Reason: "stop"})
		So(ev.Kind, ShouldEqual, Stopped)
		So(ev.Kind.String(), ShouldEqual, "stopped")
	})
}
