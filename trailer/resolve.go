package trailer

import (
	"context"
	"fmt"

	"github.com/preshow-cli/preshow/catalog"
	"github.com/preshow-cli/preshow/internal/cache"
	"github.com/preshow-cli/preshow/log"
)

// Resolver turns trailers into playable URLs, remembering remote
// resolutions for the lifetime of its cache.
type Resolver struct {
	Registry *Registry
	// Cache may be nil.
	Cache   *cache.Cache
	Quality string
}

// URL resolves t through the provider that listed it.
func (r *Resolver) URL(ctx context.Context, t catalog.Trailer) (string, error) {
	source, ok := r.Registry.Get(t.Source)
	if !ok {
		return "", &ProviderError{Source: t.Source, Op: "resolve", Err: fmt.Errorf("unknown trailer source")}
	}

	cacheable := r.Cache != nil && source.Name() != ContentName
	key := cache.Key(t.WID, r.Quality)
	if cacheable {
		var url string
		if r.Cache.Read(key, &url) && url != "" {
			return url, nil
		}
	}

	url, err := source.Resolve(ctx, t, r.Quality)
	if err != nil {
		return "", err
	}

	if cacheable {
		if err := r.Cache.Write(key, url); err != nil {
			log.Warnf("cache trailer url %s: %s", t.WID, err)
		}
	}
	return url, nil
}
