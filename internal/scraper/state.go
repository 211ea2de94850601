package scraper

import (
	"context"
	"time"

	libs "github.com/metafates/mangal-lua-libs"
	"github.com/preshow-cli/preshow/log"
	lua "github.com/yuin/gopher-lua"
)

// ModuleName is the name scripts require to reach the show.
const ModuleName = "preshow"

// Module adds functions to a Lua module table.
type Module func(L *lua.LState, mod *lua.LTable)

// NewState returns a Lua state with the bundled Lua libraries, the http_tls
// module and a "preshow" module holding log and sleep plus whatever extra
// adds. The state is bound to ctx.
func NewState(ctx context.Context, name string, extra ...Module) *lua.LState {
	L := lua.NewState()
	L.SetContext(ctx)
	libs.Preload(L)
	registerTLSClient(L)

	L.PreloadModule(ModuleName, func(L *lua.LState) int {
		mod := L.NewTable()
		L.SetField(mod, "log", L.NewFunction(func(L *lua.LState) int {
			log.Infof("[%s] %s", name, L.CheckString(1))
			return 0
		}))
		L.SetField(mod, "sleep", L.NewFunction(func(L *lua.LState) int {
			d := time.Duration(float64(L.CheckNumber(1)) * float64(time.Second))
			select {
			case <-time.After(d):
			case <-L.Context().Done():
				L.RaiseError("interrupted")
			}
			return 0
		}))
		for _, m := range extra {
			m(L, mod)
		}
		L.Push(mod)
		return 1
	})

	return L
}
