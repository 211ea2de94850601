package catalog

import (
	"iter"
	"path/filepath"
	"sort"
	"strings"

	"github.com/preshow-cli/preshow/filesystem"
)

// Entry is a file met by Walk.
type Entry struct {
	Path string
	Name string
	// Dirs are the folders between the walk root and the file.
	Dirs []string
}

// Prefix joins Dirs with colons, the way catalog names are prefixed.
func (e Entry) Prefix() string {
	return strings.Join(e.Dirs, ":")
}

func excluded(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_Exclude")
}

// Walk lazily yields the files under root, the files of a folder in name
// order before those of its subfolders. Hidden and "_Exclude" folders are
// skipped. A folder that cannot be read is reported once and skipped. Every
// range over the sequence walks the tree again.
func Walk(root string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		walkDir(root, nil, yield)
	}
}

func walkDir(dir string, dirs []string, yield func(Entry, error) bool) bool {
	infos, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return yield(Entry{Path: dir, Dirs: dirs}, err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

	var subdirs []string
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() {
			if !excluded(name) {
				subdirs = append(subdirs, name)
			}
			continue
		}
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !yield(Entry{Path: filepath.Join(dir, name), Name: name, Dirs: dirs}, nil) {
			return false
		}
	}

	for _, name := range subdirs {
		sub := append(append([]string(nil), dirs...), name)
		if !walkDir(filepath.Join(dir, name), sub, yield) {
			return false
		}
	}
	return true
}
