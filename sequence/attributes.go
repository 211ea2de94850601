package sequence

import (
	"fmt"
	"strings"
	"time"
)

// Attributes are the match conditions of a document. Every list holds
// alternatives: the condition holds when any entry matches.
type Attributes struct {
	Genres       []string `json:"genres,omitempty"`
	Directors    []string `json:"directors,omitempty"`
	Studios      []string `json:"studios,omitempty"`
	Actors       []string `json:"actors,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	VideoAspect  []string `json:"videoaspect,omitempty"`
	FeatureTitle []string `json:"featuretitle,omitempty"`

	// Year entries are [year] or [from, to]; a zero "to" is open ended.
	Year [][]int `json:"year,omitempty"`
	// Ratings entries are [rating] or [from, to]; an empty bound is open.
	Ratings [][]string `json:"ratings,omitempty" jsonschema:"example=MPAA:PG-13"`
	// Dates entries are [[month, day]] or [[month, day], [month, day]].
	Dates [][][]int `json:"dates,omitempty"`
	// Times entries are [[hour]] or [[hour, minute], [hour, minute]].
	Times [][][]int `json:"times,omitempty"`
}

// IsZero reports whether no condition is set.
func (a Attributes) IsZero() bool {
	return len(a.Genres)+len(a.Directors)+len(a.Studios)+len(a.Actors)+
		len(a.Tags)+len(a.VideoAspect)+len(a.FeatureTitle)+len(a.Year)+
		len(a.Ratings)+len(a.Dates)+len(a.Times) == 0
}

func (a *Attributes) normalize() {
	clean := func(s []string) []string {
		if len(s) == 0 {
			return nil
		}
		return s
	}
	a.Genres = clean(a.Genres)
	a.Directors = clean(a.Directors)
	a.Studios = clean(a.Studios)
	a.Actors = clean(a.Actors)
	a.Tags = clean(a.Tags)
	a.VideoAspect = clean(a.VideoAspect)
	a.FeatureTitle = clean(a.FeatureTitle)
	if len(a.Year) == 0 {
		a.Year = nil
	}
	if len(a.Ratings) == 0 {
		a.Ratings = nil
	}
	if len(a.Dates) == 0 {
		a.Dates = nil
	}
	if len(a.Times) == 0 {
		a.Times = nil
	}
}

// Describe renders the conditions one per line, e.g. "year = 1990 - Now".
func (a Attributes) Describe() []string {
	var lines []string
	add := func(name string, values []string) {
		if len(values) > 0 {
			lines = append(lines, fmt.Sprintf("%s = %s", name, strings.Join(values, ", ")))
		}
	}

	add("genres", a.Genres)
	add("directors", a.Directors)
	add("studios", a.Studios)
	add("actors", a.Actors)
	add("tags", a.Tags)
	add("videoaspect", a.VideoAspect)
	add("featuretitle", a.FeatureTitle)

	var years []string
	for _, y := range a.Year {
		switch {
		case len(y) > 1 && y[1] == 0:
			years = append(years, fmt.Sprintf("%d - Now", y[0]))
		case len(y) > 1:
			years = append(years, fmt.Sprintf("%d - %d", y[0], y[1]))
		case len(y) == 1:
			years = append(years, fmt.Sprint(y[0]))
		}
	}
	add("year", years)

	var ratings []string
	for _, r := range a.Ratings {
		bound := func(s string) string {
			if s == "" {
				return "Any"
			}
			return s
		}
		switch {
		case len(r) > 1:
			ratings = append(ratings, fmt.Sprintf("%s - %s", bound(r[0]), bound(r[1])))
		case len(r) == 1:
			ratings = append(ratings, r[0])
		}
	}
	add("ratings", ratings)

	var dates []string
	for _, d := range a.Dates {
		day := func(md []int) string {
			if len(md) < 2 || md[0] < 1 || md[0] > 12 {
				return "?"
			}
			return fmt.Sprintf("%s %d", time.Month(md[0]).String()[:3], md[1])
		}
		switch {
		case len(d) > 1:
			dates = append(dates, day(d[0])+" - "+day(d[1]))
		case len(d) == 1:
			dates = append(dates, day(d[0]))
		}
	}
	add("dates", dates)

	var times []string
	for _, t := range a.Times {
		clock := func(hm []int) string {
			switch len(hm) {
			case 0:
				return "?"
			case 1:
				return fmt.Sprintf("%02d", hm[0])
			default:
				return fmt.Sprintf("%02d:%02d", hm[0], hm[1])
			}
		}
		switch {
		case len(t) > 1:
			times = append(times, clock(t[0])+" - "+clock(t[1]))
		case len(t) == 1:
			times = append(times, clock(t[0]))
		}
	}
	add("times", times)

	return lines
}
