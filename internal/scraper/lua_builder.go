// Package scraper runs the Lua scripts of the show: action scripts and
// trailer provider scripts share one bytecode cache and one set of modules.
package scraper

import (
	"bytes"
	"sync"

	"github.com/preshow-cli/preshow/filesystem"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

var bytecodeCache sync.Map

// Compile parses the script at path once and returns its prototype.
func Compile(path string) (*lua.FunctionProto, error) {
	if cached, ok := bytecodeCache.Load(path); ok {
		return cached.(*lua.FunctionProto), nil
	}

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, err
	}

	chunk, err := parse.Parse(bytes.NewReader(data), path)
	if err != nil {
		return nil, err
	}

	proto, err := lua.Compile(chunk, path)
	if err != nil {
		return nil, err
	}

	bytecodeCache.Store(path, proto)
	return proto, nil
}

// Forget drops the cached prototype of path, e.g. after the file changed.
func Forget(path string) {
	bytecodeCache.Delete(path)
}

// PreCompileAndLoad runs the script at path inside L.
func PreCompileAndLoad(L *lua.LState, path string) error {
	proto, err := Compile(path)
	if err != nil {
		return err
	}

	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}
