// Package trailer fetches trailer listings from providers, keeps the catalog
// in step with them and turns stored trailers into playable URLs.
package trailer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/preshow-cli/preshow/catalog"
)

// Source is a trailer provider.
type Source interface {
	// Name identifies the provider in settings and in trailer records.
	Name() string
	// Fetch lists the trailers the provider offers. With recent only the
	// latest additions are needed.
	Fetch(ctx context.Context, recent bool) ([]catalog.Trailer, error)
	// Resolve turns a stored trailer into a URL the player can open.
	Resolve(ctx context.Context, t catalog.Trailer, quality string) (string, error)
}

// ProviderError is a failure of one provider. Other providers are not
// affected by it.
type ProviderError struct {
	Source string
	Op     string
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("trailer source %s: %s: %s", e.Source, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func providerErr(source, op string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Source: source, Op: op, Err: err}
}

// Registry holds the configured providers by name.
type Registry struct {
	sources map[string]Source
}

// NewRegistry registers sources. A later source replaces an earlier one of
// the same name.
func NewRegistry(sources ...Source) *Registry {
	r := &Registry{sources: make(map[string]Source)}
	for _, s := range sources {
		r.Add(s)
	}
	return r
}

// Add registers s.
func (r *Registry) Add(s Source) {
	r.sources[strings.ToLower(s.Name())] = s
}

// Get finds a provider, ignoring case.
func (r *Registry) Get(name string) (Source, bool) {
	s, ok := r.sources[strings.ToLower(name)]
	return s, ok
}

// Names lists the registered providers in name order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for _, s := range r.sources {
		names = append(names, s.Name())
	}
	sort.Strings(names)
	return names
}

// Known keeps the names that denote registered providers, in order.
func (r *Registry) Known(names []string) []string {
	var known []string
	for _, n := range names {
		if s, ok := r.Get(n); ok {
			known = append(known, s.Name())
		}
	}
	return known
}
