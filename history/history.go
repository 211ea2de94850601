// Package history keeps a record of the shows that were played.
package history

import (
	"sort"
	"time"

	"github.com/metafates/gache"
	"github.com/preshow-cli/preshow/filesystem"
	"github.com/preshow-cli/preshow/where"
)

// Keep is how many runs are remembered.
const Keep = 100

// Outcome is how a show ended.
type Outcome string

const (
	Finished Outcome = "finished"
	Aborted  Outcome = "aborted"
	Failed   Outcome = "failed"
)

// Run is one played show.
type Run struct {
	ID       string    `json:"id"`
	Sequence string    `json:"sequence"`
	Features []string  `json:"features"`
	Started  time.Time `json:"started"`
	Ended    time.Time `json:"ended"`
	Outcome  Outcome   `json:"outcome"`
	Error    string    `json:"error,omitempty"`
}

// Duration is how long the show ran.
func (r *Run) Duration() time.Duration {
	if r.Ended.Before(r.Started) {
		return 0
	}
	return r.Ended.Sub(r.Started)
}

var cacher = gache.New[map[string]*Run](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every remembered run keyed by run ID.
func Get() (map[string]*Run, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Run), nil
	}
	return cached, nil
}

// List returns the remembered runs, latest first.
func List() ([]*Run, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	runs := make([]*Run, 0, len(saved))
	for _, r := range saved {
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Started.After(runs[j].Started)
	})
	return runs, nil
}

// Save records run, replacing an earlier record with the same ID and
// forgetting the oldest runs beyond Keep.
func Save(run *Run) error {
	saved, err := Get()
	if err != nil {
		return err
	}
	saved[run.ID] = run

	if len(saved) > Keep {
		runs := make([]*Run, 0, len(saved))
		for _, r := range saved {
			runs = append(runs, r)
		}
		sort.Slice(runs, func(i, j int) bool {
			return runs[i].Started.After(runs[j].Started)
		})
		for _, r := range runs[Keep:] {
			delete(saved, r.ID)
		}
	}

	return cacher.Set(saved)
}

// Remove forgets the run with the given ID.
func Remove(id string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, id)
	return cacher.Set(saved)
}
