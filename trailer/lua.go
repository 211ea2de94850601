package trailer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/preshow-cli/preshow/catalog"
	"github.com/preshow-cli/preshow/constant"
	"github.com/preshow-cli/preshow/filesystem"
	"github.com/preshow-cli/preshow/internal/scraper"
	"github.com/preshow-cli/preshow/util"
	"github.com/samber/lo"
	lua "github.com/yuin/gopher-lua"
)

// LuaSource is a provider implemented by a Lua script defining
// FetchTrailers(recent) and ResolveURL(id, quality, url).
type LuaSource struct {
	name  string
	path  string
	mu    sync.Mutex
	state *lua.LState
}

// LoadLuaSource runs the script at path and checks it defines both entry
// points.
func LoadLuaSource(ctx context.Context, path string) (*LuaSource, error) {
	name := strings.ToLower(util.FileStem(path))
	state := scraper.NewState(ctx, name)

	if err := scraper.PreCompileAndLoad(state, path); err != nil {
		state.Close()
		return nil, providerErr(name, "load", err)
	}

	for _, fn := range []string{constant.FetchTrailersFn, constant.ResolveURLFn} {
		if state.GetGlobal(fn).Type() != lua.LTFunction {
			state.Close()
			return nil, providerErr(name, "load", fmt.Errorf("function %s is required but not defined", fn))
		}
	}

	return &LuaSource{name: name, path: path, state: state}, nil
}

// LoadLuaSources loads every script in dir. Broken scripts are returned as
// errors next to the sources that loaded.
func LoadLuaSources(ctx context.Context, dir string) ([]*LuaSource, []error) {
	files, err := filesystem.Files(dir, constant.LuaExtension)
	if err != nil {
		return nil, nil
	}

	var (
		sources []*LuaSource
		errs    []error
	)
	for _, f := range files {
		s, err := LoadLuaSource(ctx, f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sources = append(sources, s)
	}
	return sources, errs
}

func (s *LuaSource) Name() string { return s.name }

// Close releases the Lua state.
func (s *LuaSource) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Close()
}

func (s *LuaSource) call(ctx context.Context, fn string, ret lua.LValueType, args ...lua.LValue) (lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.SetContext(ctx)
	err := s.state.CallByParam(lua.P{
		Fn:      s.state.GetGlobal(fn),
		NRet:    1,
		Protect: true,
	}, args...)
	if err != nil {
		return nil, err
	}

	value := s.state.Get(-1)
	s.state.Pop(1)
	if value.Type() != ret {
		return nil, fmt.Errorf("%s returned %s, expected %s", fn, value.Type(), ret)
	}
	return value, nil
}

func getString(table *lua.LTable, key string) string {
	if v := table.RawGetString(key); v.Type() == lua.LTString || v.Type() == lua.LTNumber {
		return v.String()
	}
	return ""
}

// getStringList reads either a comma separated string or an array.
func getStringList(table *lua.LTable, key string) []string {
	switch v := table.RawGetString(key).(type) {
	case lua.LString:
		return lo.Compact(lo.Map(strings.Split(string(v), ","), func(s string, _ int) string {
			return strings.TrimSpace(s)
		}))
	case *lua.LTable:
		var list []string
		v.ForEach(func(_, item lua.LValue) {
			if item.Type() == lua.LTString {
				list = append(list, item.String())
			}
		})
		return list
	default:
		return nil
	}
}

func (s *LuaSource) trailerFromTable(table *lua.LTable) (catalog.Trailer, error) {
	id := getString(table, "id")
	title := getString(table, "title")
	if id == "" || title == "" {
		return catalog.Trailer{}, fmt.Errorf("trailer must have id and title")
	}

	t := catalog.Trailer{
		WID:       s.name + ":" + id,
		Source:    s.name,
		Title:     title,
		Rating:    getString(table, "rating"),
		Genres:    getStringList(table, "genres"),
		URL:       getString(table, "url"),
		UserAgent: getString(table, "user_agent"),
		Thumb:     getString(table, "thumb"),
	}
	if release := getString(table, "release"); release != "" {
		if d, err := time.Parse(time.DateOnly, release); err == nil {
			t.Release = d
		}
	}
	return t, nil
}

// Fetch calls FetchTrailers. Entries without an id or title are skipped;
// the call fails only when every entry is broken.
func (s *LuaSource) Fetch(ctx context.Context, recent bool) ([]catalog.Trailer, error) {
	value, err := s.call(ctx, constant.FetchTrailersFn, lua.LTTable, lua.LBool(recent))
	if err != nil {
		return nil, providerErr(s.name, "fetch", err)
	}

	var (
		trailers []catalog.Trailer
		errs     []error
	)
	value.(*lua.LTable).ForEach(func(_, v lua.LValue) {
		table, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		t, err := s.trailerFromTable(table)
		if err != nil {
			errs = append(errs, err)
			return
		}
		trailers = append(trailers, t)
	})

	if len(trailers) == 0 && len(errs) > 0 {
		return nil, providerErr(s.name, "fetch", errs[0])
	}
	return trailers, nil
}

// Resolve calls ResolveURL with the provider specific ID of t.
func (s *LuaSource) Resolve(ctx context.Context, t catalog.Trailer, quality string) (string, error) {
	id := strings.TrimPrefix(t.WID, s.name+":")
	value, err := s.call(ctx, constant.ResolveURLFn, lua.LTString, lua.LString(id), lua.LString(quality), lua.LString(t.URL))
	if err != nil {
		return "", providerErr(s.name, "resolve", err)
	}
	if value.String() == "" {
		return "", providerErr(s.name, "resolve", fmt.Errorf("no url for %s", t.WID))
	}
	return value.String(), nil
}
