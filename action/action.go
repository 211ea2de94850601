// Package action runs the Lua scripts fired by action items and by show
// events: house lights, projector masking, cues sent to lighting desks.
package action

import (
	"context"
	"fmt"

	"github.com/preshow-cli/preshow/internal/scraper"
	"github.com/preshow-cli/preshow/log"
	"github.com/preshow-cli/preshow/playable"
	"github.com/preshow-cli/preshow/util"
	lua "github.com/yuin/gopher-lua"
)

// ScriptError is a failure of an action script. The show goes on after it.
type ScriptError struct {
	Path string
	Err  error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("action %s: %s", e.Path, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// Script is an action script on disk.
type Script struct {
	Path string
	// Feature is exposed to the script as preshow.feature when set.
	Feature *playable.Feature
	// Sender delivers osc.send messages; nil means UDP.
	Sender Sender
}

// New returns the script at path.
func New(path string) *Script {
	return &Script{Path: path}
}

// WithFeature returns a copy of s seeing f.
func (s *Script) WithFeature(f *playable.Feature) *Script {
	c := *s
	c.Feature = f
	return &c
}

// Run executes the script top to bottom in a fresh Lua state. It returns
// once the script ends or ctx is done.
func (s *Script) Run(ctx context.Context) error {
	if s.Path == "" {
		return &ScriptError{Path: s.Path, Err: fmt.Errorf("no script")}
	}

	name := util.FileStem(s.Path)
	L := scraper.NewState(ctx, name, s.featureModule)
	defer L.Close()

	sender := s.Sender
	if sender == nil {
		sender = udpSender{}
	}
	L.PreloadModule("osc", oscLoader(sender))

	log.Infof("running action %s", s.Path)
	if err := scraper.PreCompileAndLoad(L, s.Path); err != nil {
		return &ScriptError{Path: s.Path, Err: err}
	}
	return nil
}

func (s *Script) featureModule(L *lua.LState, mod *lua.LTable) {
	if s.Feature == nil {
		return
	}

	f := s.Feature
	t := L.NewTable()
	L.SetField(t, "title", lua.LString(f.Title))
	L.SetField(t, "path", lua.LString(f.Path))
	L.SetField(t, "rating", lua.LString(f.Rating.String()))
	L.SetField(t, "year", lua.LNumber(f.Year))
	L.SetField(t, "audio_format", lua.LString(f.AudioFormat))
	L.SetField(t, "aspect", lua.LString(f.VideoAspect))
	L.SetField(t, "runtime", lua.LNumber(f.Runtime.Seconds()))

	genres := L.NewTable()
	for _, g := range f.Genres {
		genres.Append(lua.LString(g))
	}
	L.SetField(t, "genres", genres)
	L.SetField(mod, "feature", t)
}

var _ playable.Runner = (*Script)(nil)
