// Package where resolves the directories and files the show reads and writes.
package where

import (
	"os"
	"path/filepath"

	"github.com/preshow-cli/preshow/constant"
	"github.com/preshow-cli/preshow/filesystem"
	"github.com/preshow-cli/preshow/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvConfigPath overrides the configuration directory.
const EnvConfigPath = "PRESHOW_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config is the configuration directory: $PRESHOW_CONFIG_PATH when set,
// otherwise the user config dir of the platform.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Preshow))
}

// Cache is the persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Preshow))
}

// Logs is where daily log files go.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Sequences holds the sequence documents.
func Sequences() string {
	return ensureDir(filepath.Join(Config(), "sequences"))
}

// Scripts holds Lua action scripts and trailer source scripts.
func Scripts() string {
	return ensureDir(filepath.Join(Config(), "scripts"))
}

// ActionScripts holds the Lua action scripts.
func ActionScripts() string {
	return ensureDir(filepath.Join(Scripts(), "actions"))
}

// TrailerScripts holds the Lua trailer provider scripts.
func TrailerScripts() string {
	return ensureDir(filepath.Join(Scripts(), "trailers"))
}

// Content is the root of the content folder. The content.path setting wins
// over the default location inside the config directory.
func Content() string {
	if p := viper.GetString(key.ContentPath); p != "" {
		return p
	}
	return ensureDir(filepath.Join(Config(), "content"))
}

// Database is the catalog database file.
func Database() string {
	if p := viper.GetString(key.CatalogDatabase); p != "" {
		return p
	}
	return filepath.Join(Cache(), "catalog.db")
}

// Due is the gache file tracking when trailer sources were last refreshed.
func Due() string {
	return filepath.Join(Cache(), "due.json")
}

// History is the gache file listing the shows played.
func History() string {
	return filepath.Join(Cache(), "history.json")
}

// Lock guards against two shows playing at once.
func Lock() string {
	return filepath.Join(Temp(), constant.Preshow+".lock")
}

// URLCache holds resolved trailer URLs.
func URLCache() string {
	return ensureDir(filepath.Join(Cache(), "urls"))
}

// Temp is a scratch directory for transient files.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Preshow))
}
