package trailer

import (
	"strings"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/preshow-cli/preshow/filesystem"
)

// Refresh windows of a provider: a full listing weekly, the latest
// additions daily.
const (
	AllInterval    = 7 * 24 * time.Hour
	RecentInterval = 24 * time.Hour
)

// Due records when a provider was last refreshed.
type Due struct {
	All    time.Time `json:"all"`
	Recent time.Time `json:"recent"`
}

// DueStore persists the refresh times of every provider.
type DueStore struct {
	mu    sync.Mutex
	cache *gache.Cache[map[string]Due]
	now   func() time.Time
}

// NewDueStore keeps its record in the file at path.
func NewDueStore(path string) *DueStore {
	return &DueStore{
		cache: gache.New[map[string]Due](&gache.Options{
			Path:       path,
			FileSystem: &filesystem.GacheFs{},
		}),
		now: time.Now,
	}
}

func (s *DueStore) load() (map[string]Due, error) {
	saved, expired, err := s.cache.Get()
	if err != nil {
		return nil, err
	}
	if expired || saved == nil {
		return make(map[string]Due), nil
	}
	return saved, nil
}

// IsDue tells which refresh source needs: all is true when a full listing
// is due, recent when only the latest additions are.
func (s *DueStore) IsDue(source string) (all, recent bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.load()
	if err != nil {
		return false, false, err
	}

	d := saved[strings.ToLower(source)]
	now := s.now()
	all = now.Sub(d.All) >= AllInterval
	recent = all || now.Sub(d.Recent) >= RecentInterval
	return all, recent, nil
}

// MarkUpdated records a refresh of source. A full refresh counts as a
// recent one too.
func (s *DueStore) MarkUpdated(source string, all bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.load()
	if err != nil {
		return err
	}

	name := strings.ToLower(source)
	d := saved[name]
	now := s.now()
	d.Recent = now
	if all {
		d.All = now
	}
	saved[name] = d
	return s.cache.Set(saved)
}

// Reset forgets source so its next refresh is a full one.
func (s *DueStore) Reset(source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.load()
	if err != nil {
		return err
	}
	delete(saved, strings.ToLower(source))
	return s.cache.Set(saved)
}
