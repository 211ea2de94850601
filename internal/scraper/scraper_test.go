package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/preshow-cli/preshow/filesystem"
	. "github.com/smartystreets/goconvey/convey"
	lua "github.com/yuin/gopher-lua"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPreCompileAndLoad(t *testing.T) {
	Convey("Given a script", t, func() {
		path := "/scripts/answer.lua"
		So(filesystem.API().WriteFile(path, []byte(`answer = 40 + 2`), 0o644), ShouldBeNil)
		Reset(func() { Forget(path) })

		L := NewState(context.Background(), "answer")
		defer L.Close()

		So(PreCompileAndLoad(L, path), ShouldBeNil)
		So(L.GetGlobal("answer"), ShouldEqual, lua.LNumber(42))

		Convey("The compiled script is reused", func() {
			first, err := Compile(path)
			So(err, ShouldBeNil)
			second, _ := Compile(path)
			So(second, ShouldPointTo, first)
		})

		Convey("The preshow module is available", func() {
			So(L.DoString(`local p = require("preshow"); p.log("hello"); loaded = true`), ShouldBeNil)
			So(L.GetGlobal("loaded"), ShouldEqual, lua.LTrue)
		})

		Convey("Syntax errors are reported", func() {
			bad := "/scripts/bad.lua"
			So(filesystem.API().WriteFile(bad, []byte(`function (`), 0o644), ShouldBeNil)
			So(PreCompileAndLoad(L, bad), ShouldNotBeNil)
		})
	})
}

func TestInstall(t *testing.T) {
	Convey("Given a script server", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`-- remote`))
		}))
		defer server.Close()

		path := "/scripts/remote.lua"

		changed, err := Install(context.Background(), server.Client(), server.URL, path)
		So(err, ShouldBeNil)
		So(changed, ShouldBeTrue)

		Convey("Installing the same content changes nothing", func() {
			changed, err := Install(context.Background(), server.Client(), server.URL, path)
			So(err, ShouldBeNil)
			So(changed, ShouldBeFalse)
		})
	})
}
