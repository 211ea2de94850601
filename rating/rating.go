// Package rating knows the content rating systems a feature or trailer may
// carry and orders the ratings of each system by age.
package rating

import (
	"fmt"
	"strings"
)

// NotRated is the value of ratings that are unknown or absent.
const NotRated = 1000

// Rating is one classification of a system, e.g. MPAA PG-13.
type Rating struct {
	System string
	Name   string
	Value  int
}

// String formats the rating as "SYSTEM:NAME".
func (r Rating) String() string {
	if r.System == "" {
		return r.Name
	}
	return r.System + ":" + r.Name
}

// IsZero reports whether r holds no rating.
func (r Rating) IsZero() bool {
	return r.Name == ""
}

// Known reports whether r names a classification of a registered system.
func (r Rating) Known() bool {
	_, ok := lookup(r.System, r.Name)
	return ok
}

// Exceeds reports whether r is rated above limit. Ratings of different
// systems never compare.
func (r Rating) Exceeds(limit Rating) bool {
	if !strings.EqualFold(r.System, limit.System) {
		return false
	}
	return r.Value > limit.Value
}

type system struct {
	name    string
	ratings []Rating
}

func newSystem(name string, pairs ...any) system {
	s := system{name: name}
	for i := 0; i+1 < len(pairs); i += 2 {
		s.ratings = append(s.ratings, Rating{
			System: name,
			Name:   pairs[i].(string),
			Value:  pairs[i+1].(int),
		})
	}
	return s
}

var systems = []system{
	newSystem("MPAA", "G", 0, "PG", 10, "PG-13", 13, "R", 17, "NC-17", 18, "NR", NotRated),
	newSystem("BBFC", "U", 0, "PG", 8, "12A", 12, "12", 12, "15", 15, "18", 18, "R18", 19, "NR", NotRated),
	newSystem("FSK", "0", 0, "6", 6, "12", 12, "16", 16, "18", 18, "NR", NotRated),
	newSystem("DEJUS", "L", 0, "10", 10, "12", 12, "14", 14, "16", 16, "18", 18, "NR", NotRated),
}

// Systems lists the names of the registered rating systems.
func Systems() []string {
	names := make([]string, len(systems))
	for i, s := range systems {
		names[i] = s.name
	}
	return names
}

// Ratings lists the classifications of a system in ascending order.
func Ratings(systemName string) []Rating {
	for _, s := range systems {
		if strings.EqualFold(s.name, systemName) {
			return append([]Rating(nil), s.ratings...)
		}
	}
	return nil
}

func lookup(systemName, name string) (Rating, bool) {
	for _, r := range Ratings(systemName) {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return Rating{}, false
}

// Parse reads "MPAA:PG-13", "MPAA.PG-13", "Rated PG-13" or a bare "PG-13".
// A missing system prefix means defaultSystem. The second result is false
// when the rating is not a known classification; the returned rating then
// carries NotRated as its value.
func Parse(s, defaultSystem string) (Rating, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Rating{}, false
	}

	if rest, ok := cutPrefixFold(s, "rated "); ok {
		s = strings.TrimSpace(rest)
	}

	sys, name := defaultSystem, s
	if i := strings.IndexAny(s, ":."); i > 0 {
		if prefix := s[:i]; isSystem(prefix) {
			sys, name = prefix, s[i+1:]
		}
	}

	if r, ok := lookup(sys, name); ok {
		return r, true
	}

	return Rating{System: strings.ToUpper(sys), Name: name, Value: NotRated}, false
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Rating {
	r, ok := Parse(s, "")
	if !ok {
		panic(fmt.Sprintf("rating: unknown rating %q", s))
	}
	return r
}

func isSystem(name string) bool {
	for _, s := range systems {
		if strings.EqualFold(s.name, name) {
			return true
		}
	}
	return false
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
