// Package sequence models sequence documents: ordered, typed items with
// per-item settings plus the conditions used to pick a sequence for a feature.
package sequence

import (
	"fmt"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
)

// Kind is the type of an item.
type Kind int

const (
	Feature Kind = iota
	Trivia
	Slideshow
	Trailer
	Video
	AudioFormat
	Action
	Command
)

var kindTags = [...]string{
	Feature:     "feature",
	Trivia:      "trivia",
	Slideshow:   "slideshow",
	Trailer:     "trailer",
	Video:       "video",
	AudioFormat: "audioformat",
	Action:      "action",
	Command:     "command",
}

var kindNames = [...]string{
	Feature:     "Feature",
	Trivia:      "Trivia Slides",
	Slideshow:   "Slideshow",
	Trailer:     "Trailers",
	Video:       "Video",
	AudioFormat: "Audio Format Bumper",
	Action:      "Actions",
	Command:     "Loop",
}

// Kinds lists every item kind in declaration order.
func Kinds() []Kind {
	return []Kind{Feature, Trivia, Slideshow, Trailer, Video, AudioFormat, Action, Command}
}

// String returns the type tag used in sequence files, e.g. "audioformat".
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindTags) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindTags[k]
}

// DisplayName is the human name of the kind.
func (k Kind) DisplayName() string {
	if k < 0 || int(k) >= len(kindNames) {
		return k.String()
	}
	return kindNames[k]
}

// ParseKind maps a type tag to its Kind.
func ParseKind(tag string) (Kind, bool) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for k, t := range kindTags {
		if t == tag {
			return Kind(k), true
		}
	}
	return 0, false
}

// Tags lists the type tags of every kind.
func Tags() []string {
	return append([]string(nil), kindTags[:]...)
}

// ClosestTag is the type tag nearest to tag by edit distance.
func ClosestTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	return lo.MinBy(Tags(), func(a, b string) bool {
		return levenshtein.Distance(tag, a) < levenshtein.Distance(tag, b)
	})
}
