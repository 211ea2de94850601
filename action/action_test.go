package action

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hypebeast/go-osc/osc"
	"github.com/preshow-cli/preshow/filesystem"
	"github.com/preshow-cli/preshow/playable"
	"github.com/preshow-cli/preshow/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

type recorder struct {
	hosts    []string
	ports    []int
	messages []*osc.Message
}

func (r *recorder) Send(host string, port int, msg *osc.Message) error {
	r.hosts = append(r.hosts, host)
	r.ports = append(r.ports, port)
	r.messages = append(r.messages, msg)
	return nil
}

func script(name, body string) *Script {
	path := "/scripts/actions/" + name + ".lua"
	_ = filesystem.API().MkdirAll("/scripts/actions", 0o755)
	_ = filesystem.API().WriteFile(path, []byte(body), 0o644)
	return New(path)
}

func TestScript(t *testing.T) {
	Convey("Given action scripts", t, func() {
		ctx := context.Background()

		Convey("osc.send delivers typed arguments", func() {
			rec := &recorder{}
			s := script("lights", `
local osc = require("osc")
osc.send("10.0.0.5", 53000, "/cue/12/go", 1, 0.5, "dim", true)
`)
			s.Sender = rec

			So(s.Run(ctx), ShouldBeNil)
			So(rec.hosts, ShouldResemble, []string{"10.0.0.5"})
			So(rec.ports, ShouldResemble, []int{53000})
			So(rec.messages[0].Address, ShouldEqual, "/cue/12/go")
			So(rec.messages[0].Arguments, ShouldResemble, []any{int32(1), float32(0.5), "dim", true})
		})

		Convey("The feature is visible to the script", func() {
			rec := &recorder{}
			s := script("feature", `
local preshow = require("preshow")
require("osc").send("localhost", 9000, "/title", preshow.feature.title, preshow.feature.rating, preshow.feature.genres[1])
`)
			s.Sender = rec

			f := playable.NewFeature("/movies/alien.mkv")
			f.Title = "Alien"
			f.Rating = rating.MustParse("MPAA:R")
			f.Genres = []string{"Horror"}

			So(s.WithFeature(f).Run(ctx), ShouldBeNil)
			So(rec.messages[0].Arguments, ShouldResemble, []any{"Alien", "MPAA:R", "Horror"})
			So(s.Feature, ShouldBeNil)
		})

		Convey("Lua errors become script errors", func() {
			err := script("broken", `error("projector offline")`).Run(ctx)
			var serr *ScriptError
			So(errors.As(err, &serr), ShouldBeTrue)
			So(serr.Path, ShouldEqual, "/scripts/actions/broken.lua")
		})

		Convey("A missing file is a script error", func() {
			err := New("/scripts/actions/none.lua").Run(ctx)
			var serr *ScriptError
			So(errors.As(err, &serr), ShouldBeTrue)
		})

		Convey("Sleeping scripts stop with the context", func() {
			s := script("slow", `require("preshow").sleep(30)`)
			ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
			defer cancel()

			start := time.Now()
			So(s.Run(ctx), ShouldNotBeNil)
			So(time.Since(start), ShouldBeLessThan, 5*time.Second)
		})

		Convey("Scripts run as action playables", func() {
			a := playable.NewAction("/scripts/actions/noop.lua", script("noop", `local x = 1`))
			So(a.Run(ctx), ShouldBeNil)
		})
	})
}
