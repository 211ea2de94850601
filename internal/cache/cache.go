// Package cache stores JSON values on disk for a limited time.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/preshow-cli/preshow/filesystem"
)

// TTL is how long entries of the default cache live.
const TTL = 7 * 24 * time.Hour

// Cache is a directory of JSON files expiring after a lifetime.
type Cache struct {
	dir string
	ttl time.Duration
}

// New returns a cache rooted at dir.
func New(dir string, ttl time.Duration) *Cache {
	return &Cache{dir: dir, ttl: ttl}
}

// Key hashes parts into a file name. Spaces and case are ignored.
func Key(parts ...string) string {
	sanitized := strings.ToLower(strings.ReplaceAll(strings.Join(parts, "\x00"), " ", ""))
	hash := sha256.Sum256([]byte(sanitized))
	return hex.EncodeToString(hash[:])
}

// Read decodes the entry under key into target. It reports false when the
// entry is missing, expired or unreadable.
func (c *Cache) Read(key string, target any) bool {
	path := filepath.Join(c.dir, key)

	info, err := filesystem.API().Stat(path)
	if err != nil || time.Since(info.ModTime()) > c.ttl {
		return false
	}

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, target) == nil
}

// Write stores value under key, replacing the previous entry atomically.
func (c *Cache) Write(key string, value any) error {
	if err := filesystem.API().MkdirAll(c.dir, os.ModePerm); err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	path := filepath.Join(c.dir, key)
	tmp := path + ".tmp"
	if err := filesystem.API().WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return filesystem.API().Rename(tmp, path)
}

// Delete drops the entry under key.
func (c *Cache) Delete(key string) error {
	err := filesystem.API().Remove(filepath.Join(c.dir, key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// CollectGarbage removes expired entries and returns how many went.
func (c *Cache) CollectGarbage() int {
	infos, err := filesystem.API().ReadDir(c.dir)
	if err != nil {
		return 0
	}

	removed := 0
	for _, info := range infos {
		if info.IsDir() || time.Since(info.ModTime()) <= c.ttl {
			continue
		}
		if filesystem.API().Remove(filepath.Join(c.dir, info.Name())) == nil {
			removed++
		}
	}
	return removed
}
