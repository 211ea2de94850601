// Package match picks the sequence whose conditions fit a feature best.
package match

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/preshow-cli/preshow/log"
	"github.com/preshow-cli/preshow/playable"
	"github.com/preshow-cli/preshow/rating"
	"github.com/preshow-cli/preshow/sequence"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Attr is a condition a document may put on a feature.
type Attr string

const (
	FeatureTitle Attr = "featuretitle"
	Ratings      Attr = "ratings"
	VideoAspect  Attr = "videoaspect"
	Tags         Attr = "tags"
	Year         Attr = "year"
	Studio       Attr = "studio"
	Director     Attr = "director"
	Actor        Attr = "actor"
	Genre        Attr = "genre"
	Dates        Attr = "dates"
	Times        Attr = "times"
)

// Priority is the order conditions are evaluated in.
var Priority = []Attr{
	FeatureTitle, Ratings, VideoAspect, Tags, Year,
	Studio, Director, Actor, Genre, Dates, Times,
}

const (
	// Unconstrained is the score of a condition the document does not set.
	Unconstrained = 0
	// Mismatch is the score of a condition the feature fails.
	Mismatch = -1
	hit      = 5
)

var studioSuffix = regexp.MustCompile(`\s?studios?(\s?)`)

// Matcher scores documents against features. Date and time conditions are
// evaluated at the time returned by Now.
type Matcher struct {
	Now func() time.Time
}

// New returns a matcher on the wall clock.
func New() *Matcher {
	return &Matcher{Now: time.Now}
}

// Candidate is a document with its accumulated score.
type Candidate struct {
	Document *sequence.Document
	Score    int
}

// Score evaluates one condition of doc against f: Unconstrained when doc
// does not set it, Mismatch when f fails it, a positive weight otherwise.
func (m *Matcher) Score(doc *sequence.Document, attr Attr, f *playable.Feature) int {
	a := doc.Attributes

	switch attr {
	case Studio:
		return scoreList(a.Studios, f.Studios, func(s string) []string {
			return []string{s, studioSuffix.ReplaceAllString(s, "$1")}
		})
	case FeatureTitle:
		titles := lowered(a.FeatureTitle)
		if len(titles) == 0 {
			return Unconstrained
		}
		title := strings.ToLower(f.Title)
		for _, t := range titles {
			if strings.Contains(title, t) {
				return hit
			}
		}
		return Mismatch
	case Director:
		return scoreList(a.Directors, f.Directors, nil)
	case Actor:
		return scoreList(a.Actors, f.Cast, nil)
	case Tags:
		return scoreList(a.Tags, f.Tags, nil)
	case VideoAspect:
		return scoreList(a.VideoAspect, []string{f.VideoAspect}, nil)
	case Year:
		return scoreYear(a.Year, f.Year)
	case Ratings:
		return scoreRatings(a.Ratings, f.Rating)
	case Dates:
		return scoreDates(a.Dates, m.now())
	case Times:
		return scoreTimes(a.Times, m.now())
	case Genre:
		return scoreGenres(a.Genres, f.Genres)
	default:
		return Unconstrained
	}
}

func (m *Matcher) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

// Select evaluates the active documents condition by condition in Priority
// order. A document failing any condition is out; the survivor with the
// highest total wins and ties go to the earlier document.
func (m *Matcher) Select(docs []*sequence.Document, f *playable.Feature) mo.Option[Candidate] {
	candidates := lo.FilterMap(docs, func(d *sequence.Document, _ int) (*Candidate, bool) {
		return &Candidate{Document: d}, d.Active
	})

	for _, attr := range Priority {
		candidates = lo.Filter(candidates, func(c *Candidate, _ int) bool {
			s := m.Score(c.Document, attr, f)
			if s < 0 {
				log.Debugf("sequence %q fails %s", c.Document.Name, attr)
				return false
			}
			c.Score += s
			return true
		})

		if len(candidates) == 0 {
			return mo.None[Candidate]()
		}
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Score > best.Score {
			best = c
		}
	}

	log.Debugf("matches: %s, choice: %s", strings.Join(lo.Map(candidates, func(c *Candidate, _ int) string {
		return fmt.Sprintf("%s(%d)", c.Document.Name, c.Score)
	}), ", "), best.Document.Name)
	return mo.Some(*best)
}

// SelectOrDefault is Select falling back to def when no document fits.
func (m *Matcher) SelectOrDefault(docs []*sequence.Document, f *playable.Feature, def *sequence.Document) *sequence.Document {
	if c, ok := m.Select(docs, f).Get(); ok {
		return c.Document
	}
	return def
}

func lowered(values []string) []string {
	return lo.FilterMap(values, func(s string, _ int) (string, bool) {
		return strings.ToLower(s), s != ""
	})
}

// scoreList matches when any of have, or any variant of it, is wanted.
func scoreList(want, have []string, variants func(string) []string) int {
	wanted := lowered(want)
	if len(wanted) == 0 {
		return Unconstrained
	}

	for _, h := range have {
		h = strings.ToLower(h)
		forms := []string{h}
		if variants != nil {
			forms = variants(h)
		}
		for _, form := range forms {
			if lo.Contains(wanted, form) {
				return hit
			}
		}
	}
	return Mismatch
}

// scoreGenres rewards each matching genre, 5 for the first and 2 less for
// each further match but never less than 1.
func scoreGenres(want, have []string) int {
	wanted := lowered(want)
	if len(wanted) == 0 {
		return Unconstrained
	}

	score, weight := 0, hit
	for _, g := range have {
		if !lo.Contains(wanted, strings.ToLower(g)) {
			continue
		}
		score += weight
		weight = max(weight-2, 1)
	}

	if score == 0 {
		return Mismatch
	}
	return score
}

func scoreYear(years [][]int, year int) int {
	if len(years) == 0 {
		return Unconstrained
	}

	for _, y := range years {
		switch {
		case len(y) > 1 && y[1] == 0:
			if y[0] <= year {
				return hit
			}
		case len(y) > 1:
			if y[0] <= year && year <= y[1] {
				return hit
			}
		case len(y) == 1:
			if y[0] == year {
				return hit
			}
		}
	}
	return Mismatch
}

func scoreRatings(ranges [][]string, r rating.Rating) int {
	if len(ranges) == 0 {
		return Unconstrained
	}
	if r.IsZero() {
		return Mismatch
	}

	bound := func(s string) (rating.Rating, bool) {
		b, ok := rating.Parse(s, r.System)
		return b, ok && strings.EqualFold(b.System, r.System)
	}

	for _, rg := range ranges {
		switch {
		case len(rg) > 1:
			low, hasLo := bound(rg[0])
			high, hasHi := bound(rg[1])
			if (rg[0] != "" && !hasLo) || (rg[1] != "" && !hasHi) || (!hasLo && !hasHi) {
				continue
			}
			if (!hasLo || low.Value <= r.Value) && (!hasHi || r.Value <= high.Value) {
				return hit
			}
		case len(rg) == 1:
			if b, ok := bound(rg[0]); ok && strings.EqualFold(b.Name, r.Name) {
				return hit
			}
		}
	}
	return Mismatch
}

// within reports whether v lies in [from, to], wrapping past the end of the
// period when from is after to.
func within(v, from, to int) bool {
	if from <= to {
		return from <= v && v <= to
	}
	return v >= from || v <= to
}

func scoreDates(dates [][][]int, now time.Time) int {
	if len(dates) == 0 {
		return Unconstrained
	}

	today := int(now.Month())*100 + now.Day()
	day := func(md []int) (int, bool) {
		if len(md) < 2 {
			return 0, false
		}
		return md[0]*100 + md[1], true
	}

	for _, d := range dates {
		switch {
		case len(d) > 1:
			from, ok1 := day(d[0])
			to, ok2 := day(d[1])
			if ok1 && ok2 && within(today, from, to) {
				return hit
			}
		case len(d) == 1:
			if on, ok := day(d[0]); ok && on == today {
				return hit
			}
		}
	}
	return Mismatch
}

func scoreTimes(times [][][]int, now time.Time) int {
	if len(times) == 0 {
		return Unconstrained
	}

	minute := func(hm []int) (int, bool) {
		switch len(hm) {
		case 0:
			return 0, false
		case 1:
			return hm[0] * 60, true
		default:
			return hm[0]*60 + hm[1], true
		}
	}
	current := now.Hour()*60 + now.Minute()

	for _, t := range times {
		switch {
		case len(t) > 1:
			from, ok1 := minute(t[0])
			to, ok2 := minute(t[1])
			if ok1 && ok2 && within(current, from, to) {
				return hit
			}
		case len(t) == 1:
			if len(t[0]) > 0 && t[0][0] == now.Hour() {
				return hit
			}
		}
	}
	return Mismatch
}
