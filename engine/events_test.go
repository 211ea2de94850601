package engine

import (
	"testing"

	"github.com/preshow-cli/preshow/action"
	"github.com/preshow-cli/preshow/key"
	"github.com/preshow-cli/preshow/playable"
	"github.com/preshow-cli/preshow/sequence"
	. "github.com/smartystreets/goconvey/convey"
)

func script(path string) playable.Runner {
	return action.New(path)
}

func TestLoadEventActions(t *testing.T) {
	Convey("LoadEventActions", t, func() {
		Convey("Builds the switched on actions with a file", func() {
			actions := LoadEventActions(sequence.Values{
				key.ActionOnPause:           true,
				key.ActionOnPauseFile:       "/lights/dim.lua",
				key.ActionOnAbort:           true,
				key.ActionBeforeFeature:     false,
				key.ActionBeforeFeatureFile: "/lights/off.lua",
				key.ActionOnResume:          ResumeLastAction,
			}, script)

			So(actions.Pause.(*action.Script).Path, ShouldEqual, "/lights/dim.lua")
			So(actions.Abort, ShouldBeNil)
			So(actions.BeforeFeature, ShouldBeNil)
			So(actions.ResumeLast, ShouldBeTrue)
			So(actions.Resume, ShouldBeNil)
		})

		Convey("Reads the resume file in file mode", func() {
			actions := LoadEventActions(sequence.Values{
				key.ActionOnResume:     ResumeFile,
				key.ActionOnResumeFile: "/lights/up.lua",
			}, script)

			So(actions.ResumeLast, ShouldBeFalse)
			So(actions.Resume.(*action.Script).Path, ShouldEqual, "/lights/up.lua")
		})
	})
}
