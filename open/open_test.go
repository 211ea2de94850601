package open

import (
	"runtime"
	"testing"

	"github.com/preshow-cli/preshow/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("Given a sequence file", t, func() {
		path := "/tmp/default.pseq"

		Convey("An editor gets the path as its argument", func() {
			cmd, ok := commandWith(path, "vi")
			if runtime.GOOS != constant.Linux && runtime.GOOS != constant.Darwin {
				SkipSo(ok, ShouldBeTrue)
				return
			}

			So(ok, ShouldBeTrue)
			So(cmd.Args, ShouldResemble, []string{"vi", path})
		})

		Convey("The default handler is used on linux", func() {
			if runtime.GOOS != constant.Linux {
				SkipSo(nil, ShouldBeNil)
				return
			}

			cmd, ok := command(path)
			So(ok, ShouldBeTrue)
			So(cmd.Args, ShouldResemble, []string{"xdg-open", path})
		})
	})
}
