package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/preshow-cli/preshow/catalog"
	"github.com/preshow-cli/preshow/config"
	"github.com/preshow-cli/preshow/constant"
	"github.com/preshow-cli/preshow/filesystem"
	"github.com/preshow-cli/preshow/handler"
	"github.com/preshow-cli/preshow/internal/cache"
	"github.com/preshow-cli/preshow/key"
	"github.com/preshow-cli/preshow/log"
	"github.com/preshow-cli/preshow/match"
	"github.com/preshow-cli/preshow/playable"
	"github.com/preshow-cli/preshow/sequence"
	"github.com/preshow-cli/preshow/trailer"
	"github.com/preshow-cli/preshow/util"
	"github.com/preshow-cli/preshow/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// URLCacheTTL is how long resolved trailer URLs stay valid.
const URLCacheTTL = 6 * time.Hour

var errNoSequences = errors.New("no sequences found in " + where.Sequences())

func openCatalog() (*catalog.Store, error) {
	return catalog.Open(where.Database())
}

// loadSequences reads every sequence file. Unreadable files are logged and
// skipped.
func loadSequences() ([]*sequence.Document, error) {
	files, err := filesystem.Files(where.Sequences(), constant.SequenceExtension, ".xml")
	if err != nil {
		return nil, err
	}

	docs := make([]*sequence.Document, 0, len(files))
	for _, f := range files {
		doc, err := sequence.LoadFile(f)
		if err != nil {
			log.Warnf("%s", err)
			continue
		}
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return nil, errNoSequences
	}
	return docs, nil
}

// findSequence resolves name to the closest sequence name.
func findSequence(docs []*sequence.Document, name string) mo.Option[*sequence.Document] {
	for _, d := range docs {
		if strings.EqualFold(d.Name, name) {
			return mo.Some(d)
		}
	}

	names := lo.Map(docs, func(d *sequence.Document, _ int) string { return d.Name })
	ranks := fuzzy.RankFindNormalizedFold(name, names)
	if len(ranks) == 0 {
		return mo.None[*sequence.Document]()
	}

	sort.Sort(ranks)
	return mo.Some(docs[ranks[0].OriginalIndex])
}

// chooseSequence picks the sequence for the first feature: the named one,
// else the best match, else the one named "default".
func chooseSequence(docs []*sequence.Document, name string, features []*playable.Feature) (*sequence.Document, error) {
	if name != "" {
		doc, ok := findSequence(docs, name).Get()
		if !ok {
			return nil, fmt.Errorf("no sequence like %q", name)
		}
		return doc, nil
	}

	def, _ := lo.Find(docs, func(d *sequence.Document) bool {
		return strings.EqualFold(d.Name, "default")
	})

	var first *playable.Feature
	if len(features) > 0 {
		first = features[0]
	} else {
		first = playable.NewFeature("")
	}

	doc := match.New().SelectOrDefault(docs, first, def)
	if doc == nil {
		return nil, errors.New("no sequence matches the feature and none is named default")
	}
	return doc, nil
}

// loadFeatures reads features from JSON feature files or takes media files
// as they are.
func loadFeatures(paths []string) ([]*playable.Feature, error) {
	system := viper.GetString(key.RatingSystemDefault)

	features := make([]*playable.Feature, 0, len(paths))
	for _, p := range paths {
		if strings.EqualFold(filepath.Ext(p), ".json") {
			data, err := filesystem.API().ReadFile(p)
			if err != nil {
				return nil, err
			}

			f, err := playable.FeatureFromJSON(data, system)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p, err)
			}
			features = append(features, f)
			continue
		}

		f := playable.NewFeature(p)
		f.Title = util.FileStem(p)
		features = append(features, f)
	}
	return features, nil
}

// trailerRegistry registers the content folder and every trailer script.
func trailerRegistry(ctx context.Context) *trailer.Registry {
	registry := trailer.NewRegistry(trailer.NewContentSource(where.Content()))

	sources, errs := trailer.LoadLuaSources(ctx, where.TrailerScripts())
	for _, err := range errs {
		log.Warnf("%s", err)
	}
	for _, s := range sources {
		registry.Add(s)
	}
	return registry
}

// newContext wires the catalog, trailer sources and features a compile
// needs. A preview compile leaves the catalog as it found it.
func newContext(ctx context.Context, store catalog.Reader, features []*playable.Feature, preview bool) *handler.Context {
	return &handler.Context{
		ReadOnly: preview,
		Ctx:      ctx,
		Defaults: config.Defaults(),
		Catalog:  store,
		Queue:    handler.NewFeatureQueue(features...),
		Trailers: &trailer.Resolver{
			Registry: trailerRegistry(ctx),
			Cache:    cache.New(where.URLCache(), URLCacheTTL),
			Quality:  viper.GetString(key.TrailerQuality),
		},
	}
}

func renderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(lo.Map(headers, func(h string, _ int) any { return h }))
	for _, row := range rows {
		tw.AppendRow(lo.Map(row, func(c string, _ int) any { return c }))
	}

	if width, _, err := util.TerminalSize(); err == nil && width > 0 {
		tw.SetAllowedRowLength(width)
	}
	return tw.Render()
}
