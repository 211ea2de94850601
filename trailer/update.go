package trailer

import (
	"context"
	"errors"
	"time"

	"github.com/preshow-cli/preshow/catalog"
	"github.com/preshow-cli/preshow/log"
)

// Report sums up the refresh of one provider.
type Report struct {
	Source  string
	Full    bool
	Skipped bool
	Added   int
	Seen    int
	Removed int
	Err     error
}

// Updater refreshes the trailer records of due providers.
type Updater struct {
	Registry *Registry
	Due      *DueStore
	Writer   catalog.Writer
	// Force refreshes every provider in full regardless of due times.
	Force bool
	// Progress is told about every new trailer.
	Progress func(source, title string)
}

// Update refreshes the named providers, or every registered one when names
// is empty. A failing provider is reported and leaves the others alone.
func (u *Updater) Update(ctx context.Context, names ...string) []Report {
	if len(names) == 0 {
		names = u.Registry.Names()
	}

	var reports []Report
	for _, name := range names {
		if ctx.Err() != nil {
			break
		}

		r := u.updateOne(ctx, name)
		if r.Err != nil {
			log.Errorf("%s", r.Err)
		}
		reports = append(reports, r)
	}
	return reports
}

func (u *Updater) updateOne(ctx context.Context, name string) Report {
	r := Report{Source: name}

	source, ok := u.Registry.Get(name)
	if !ok {
		r.Err = &ProviderError{Source: name, Op: "update", Err: errors.New("unknown trailer source")}
		return r
	}
	r.Source = source.Name()

	all, recent := true, true
	if !u.Force && u.Due != nil {
		var err error
		if all, recent, err = u.Due.IsDue(source.Name()); err != nil {
			log.Warnf("read due times of %s: %s", source.Name(), err)
			all, recent = true, true
		}
	}
	if !recent {
		r.Skipped = true
		return r
	}
	r.Full = all

	trailers, err := source.Fetch(ctx, !all)
	if err != nil {
		r.Err = err
		return r
	}

	if all {
		if err := u.Writer.UnverifyTrailers(ctx, source.Name()); err != nil {
			r.Err = err
			return r
		}
	}

	for _, t := range trailers {
		t.Source = source.Name()
		created, err := u.Writer.PutTrailer(ctx, t)
		if err != nil {
			r.Err = err
			return r
		}
		if created {
			r.Added++
			if u.Progress != nil {
				u.Progress(source.Name(), t.Title)
			}
		} else {
			r.Seen++
		}
	}

	if all {
		if r.Removed, err = u.Writer.RemoveTrailers(ctx, source.Name(), true, time.Time{}); err != nil {
			r.Err = err
			return r
		}
	}

	if u.Due != nil {
		if err := u.Due.MarkUpdated(source.Name(), all); err != nil {
			log.Warnf("save due times of %s: %s", source.Name(), err)
		}
	}

	log.Infof("trailers of %s: %d new, %d known, %d removed", source.Name(), r.Added, r.Seen, r.Removed)
	return r
}
