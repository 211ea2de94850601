package engine

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestVolumeControl(t *testing.T) {
	Convey("VolumeControl", t, func() {
		dev := newFakeDevice(80)
		v := NewVolumeControl(dev, time.Millisecond)

		Convey("Sets a level relative to the stored one", func() {
			v.Set(50, 0, true)
			So(dev.Level(), ShouldEqual, 40)

			v.Set(25, 0, true)
			So(dev.Level(), ShouldEqual, 20)
		})

		Convey("Stores only the first level", func() {
			v.Store()
			So(dev.SetVolume(30), ShouldBeNil)
			v.Store()

			v.Restore(0)
			So(dev.Level(), ShouldEqual, 80)
		})

		Convey("Restores once", func() {
			v.Set(10, 0, false)
			v.Restore(0)
			So(dev.Level(), ShouldEqual, 80)

			So(dev.SetVolume(55), ShouldBeNil)
			v.Restore(0)
			So(dev.Level(), ShouldEqual, 55)
		})

		Convey("Fades to the target", func() {
			v.Set(20, 10*time.Millisecond, false)
			So(v.Fading(), ShouldBeTrue)

			v.WaitFade()
			So(v.Fading(), ShouldBeFalse)
			So(dev.Level(), ShouldEqual, 20)

			levels := dev.Levels()
			So(len(levels), ShouldBeGreaterThan, 1)
			So(levels[0], ShouldBeBetweenOrEqual, 20, 80)
		})

		Convey("Holds a fade while paused", func() {
			v.paused = func() bool { return true }
			v.Set(0, 5*time.Millisecond, false)

			time.Sleep(20 * time.Millisecond)
			So(v.Fading(), ShouldBeTrue)
			So(dev.Level(), ShouldEqual, 80)

			v.StopFade()
			So(v.Fading(), ShouldBeFalse)
		})

		Convey("Cancels a running fade for a new level", func() {
			v.Set(0, time.Hour, false)
			v.Set(60, 0, false)

			So(v.Fading(), ShouldBeFalse)
			So(dev.Level(), ShouldEqual, 60)
		})

		Convey("Cancels the fade on restore", func() {
			v.Set(0, time.Hour, false)
			v.Restore(0)

			So(v.Fading(), ShouldBeFalse)
			So(dev.Level(), ShouldEqual, 80)
		})
	})
}
