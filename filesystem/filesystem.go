// Package filesystem wraps every file operation of the show behind afero so
// tests can swap in an in-memory backend.
package filesystem

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active backend.
func API() afero.Afero {
	return backend
}

// SetOsFs switches to the operating system filesystem.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to a volatile in-memory filesystem.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// Files lists the regular files directly inside dir whose extension is one of
// exts (case-insensitive, with the leading dot). An empty exts matches every
// file. The result is sorted by name.
func Files(dir string, exts ...string) ([]string, error) {
	infos, err := API().ReadDir(dir)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		allowed[strings.ToLower(e)] = struct{}{}
	}

	var files []string
	for _, info := range infos {
		if info.IsDir() || strings.HasPrefix(info.Name(), ".") {
			continue
		}
		if len(allowed) > 0 {
			if _, ok := allowed[strings.ToLower(filepath.Ext(info.Name()))]; !ok {
				continue
			}
		}
		files = append(files, filepath.Join(dir, info.Name()))
	}

	sort.Strings(files)
	return files, nil
}
