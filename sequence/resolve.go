package sequence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/preshow-cli/preshow/key"
	"github.com/samber/lo"
	"github.com/spf13/cast"
)

// FeatureSettings are the live settings of a feature item.
type FeatureSettings struct {
	Count                int
	RatingBumper         string
	RatingStyleSelection string
	RatingStyle          string
	Volume               int
}

// Feature resolves a feature item.
func (it *Item) Feature(d Defaults) FeatureSettings {
	return FeatureSettings{
		Count:                it.liveInt("count", d),
		RatingBumper:         it.liveString("ratingBumper", d),
		RatingStyleSelection: it.liveString("ratingStyleSelection", d),
		RatingStyle:          it.liveString("ratingStyle", d),
		Volume:               volume(it.liveInt("volume", d)),
	}
}

// Music describes the music played under an image queue.
type Music struct {
	Mode    string
	Dir     string
	File    string
	Volume  int
	FadeIn  time.Duration
	FadeOut time.Duration
}

// TriviaSettings are the live settings of a trivia item.
type TriviaSettings struct {
	Select             string
	Dir                string
	Duration           time.Duration
	Question           time.Duration
	Clue               time.Duration
	Answer             time.Duration
	Single             time.Duration
	Transition         string
	TransitionDuration time.Duration
	Music              Music
}

// Trivia resolves a trivia item.
func (it *Item) Trivia(d Defaults) TriviaSettings {
	return TriviaSettings{
		Select:             it.liveString("triviaSelect", d),
		Dir:                it.liveString("triviaDir", d),
		Duration:           time.Duration(it.liveInt("duration", d)) * time.Minute,
		Question:           time.Duration(it.liveInt("qDuration", d)) * time.Second,
		Clue:               time.Duration(it.liveInt("cDuration", d)) * time.Second,
		Answer:             time.Duration(it.liveInt("aDuration", d)) * time.Second,
		Single:             time.Duration(it.liveInt("sDuration", d)) * time.Second,
		Transition:         it.liveString("transition", d),
		TransitionDuration: time.Duration(it.liveInt("transitionDuration", d)) * time.Millisecond,
		Music:              it.music(d, key.TriviaMusicVolume, key.TriviaMusicFadeIn, key.TriviaMusicFadeOut),
	}
}

// SlideshowSettings are the live settings of a slideshow item.
type SlideshowSettings struct {
	Order              string
	Select             string
	Dir                string
	Duration           time.Duration
	Slide              time.Duration
	Transition         string
	TransitionDuration time.Duration
	Music              Music
}

// Slideshow resolves a slideshow item.
func (it *Item) Slideshow(d Defaults) SlideshowSettings {
	total, err := ParseSpokenDuration(it.liveString("slideshowduration", d))
	if err != nil || total <= 0 {
		total = 5 * time.Minute
	}
	slide, err := ParseSpokenDuration(it.liveString("slideDuration", d))
	if err != nil || slide <= 0 {
		slide = 8 * time.Second
	}

	return SlideshowSettings{
		Order:              it.liveString("slideshoworder", d),
		Select:             it.liveString("slideshowSelect", d),
		Dir:                it.liveString("slideshowDir", d),
		Duration:           total,
		Slide:              slide,
		Transition:         it.liveString("transition", d),
		TransitionDuration: time.Duration(it.liveInt("transitionDuration", d)) * time.Millisecond,
		Music:              it.music(d, key.SlideshowMusicVolume, key.SlideshowMusicFadeIn, key.SlideshowMusicFadeOut),
	}
}

func (it *Item) music(d Defaults, volumeKey, fadeInKey, fadeOutKey string) Music {
	m := Music{
		Mode:    it.liveString("music", d),
		Dir:     it.liveString("musicDir", d),
		File:    it.liveString("musicFile", d),
		Volume:  75,
		FadeIn:  3 * time.Second,
		FadeOut: 3 * time.Second,
	}

	if d == nil {
		return m
	}
	if v, err := cast.ToIntE(d.Get(volumeKey)); err == nil && v > 0 {
		m.Volume = v
	}
	if v, err := cast.ToFloat64E(d.Get(fadeInKey)); err == nil && v >= 0 && d.Get(fadeInKey) != nil {
		m.FadeIn = time.Duration(v * float64(time.Second))
	}
	if v, err := cast.ToFloat64E(d.Get(fadeOutKey)); err == nil && v >= 0 && d.Get(fadeOutKey) != nil {
		m.FadeOut = time.Duration(v * float64(time.Second))
	}
	return m
}

// TrailerSettings are the live settings of a trailer item.
type TrailerSettings struct {
	Source          string
	Scrapers        []string
	File            string
	Dir             string
	Count           int
	RatingLimit     string
	RatingMax       string
	LimitGenre      bool
	Volume          int
	Quality         string
	PreferUnwatched bool
}

// Trailer resolves a trailer item.
func (it *Item) Trailer(d Defaults) TrailerSettings {
	s := TrailerSettings{
		Source:      it.liveString("source", d),
		Scrapers:    SplitList(it.liveString("scrapers", d)),
		File:        it.liveString("file", d),
		Dir:         it.liveString("dir", d),
		Count:       it.liveInt("count", d),
		RatingLimit: it.liveString("ratingLimit", d),
		RatingMax:   it.liveString("ratingMax", d),
		LimitGenre:  it.liveBool("limitGenre", d),
		Volume:      volume(it.liveInt("volume", d)),
		Quality:     "1080p",
	}

	if d != nil {
		if q := cast.ToString(d.Get(key.TrailerQuality)); q != "" {
			s.Quality = q
		}
		s.PreferUnwatched = cast.ToBool(d.Get(key.TrailerPreferUnwatched))
	}
	return s
}

// SplitList splits a comma separated setting into trimmed, lower-cased,
// unique names.
func SplitList(s string) []string {
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.ToLower(strings.TrimSpace(p))
	})
	return lo.Uniq(lo.Compact(parts))
}

// VideoSettings are the live settings of a video bumper item.
type VideoSettings struct {
	Type   string
	Random bool
	Source string
	Dir    string
	Count  int
	File   string
	Volume int
}

// Video resolves a video bumper item.
func (it *Item) Video(d Defaults) VideoSettings {
	return VideoSettings{
		Type:   it.rawString("vtype"),
		Random: it.liveBool("random", d),
		Source: it.liveString("source", d),
		Dir:    it.liveString("dir", d),
		Count:  max(it.liveInt("count", d), 1),
		File:   it.liveString("file", d),
		Volume: volume(it.liveInt("volume", d)),
	}
}

// AudioFormatSettings are the live settings of an audio format bumper item.
type AudioFormatSettings struct {
	Method   string
	Fallback string
	File     string
	Format   string
	Volume   int
}

// AudioFormat resolves an audio format bumper item.
func (it *Item) AudioFormat(d Defaults) AudioFormatSettings {
	return AudioFormatSettings{
		Method:   it.liveString("method", d),
		Fallback: it.liveString("fallback", d),
		File:     it.liveString("file", d),
		Format:   it.liveString("format", d),
		Volume:   volume(it.liveInt("volume", d)),
	}
}

// ActionSettings are the live settings of an action item.
type ActionSettings struct {
	File string
	Eval string
}

// Action resolves an action item.
func (it *Item) Action(d Defaults) ActionSettings {
	return ActionSettings{
		File: it.liveString("file", d),
		Eval: it.liveString("eval", d),
	}
}

// CommandSettings are the settings of a loop command.
type CommandSettings struct {
	Command   string
	Arg       int
	Condition string
	NbLoops   int
	Duration  time.Duration
	TimeOfDay string
}

// Command resolves a loop command. Commands never consult global defaults.
func (it *Item) Command() CommandSettings {
	return CommandSettings{
		Command:   it.rawString("command"),
		Arg:       it.liveInt("arg", nil),
		Condition: it.rawString("condition"),
		NbLoops:   it.liveInt("nbLoops", nil),
		Duration:  time.Duration(it.liveInt("duration", nil)) * time.Minute,
		TimeOfDay: it.rawString("timeOfDay"),
	}
}

// Offset is the signed item offset of the command: negative for back.
func (c CommandSettings) Offset() int {
	switch c.Command {
	case "back":
		return -c.Arg
	case "skip":
		return c.Arg
	default:
		return 0
	}
}

func volume(v int) int {
	if v <= 0 {
		return 100
	}
	return v
}

// ParseSpokenDuration reads "8 seconds", "5 minutes", "1 hour" or "2 hours".
func ParseSpokenDuration(s string) (time.Duration, error) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 1 {
		fields = []string{"1", fields[0]}
	}
	if len(fields) != 2 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	var unit time.Duration
	switch strings.TrimSuffix(fields[1], "s") {
	case "second":
		unit = time.Second
	case "minute":
		unit = time.Minute
	case "hour":
		unit = time.Hour
	default:
		return 0, fmt.Errorf("invalid duration unit in %q", s)
	}

	return time.Duration(n) * unit, nil
}

// ParseTimeOfDay reads "2:30 PM" into hour and minute on a 24h clock.
// "14:30" is accepted as well.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" || s == "NONE" {
		return 0, 0, fmt.Errorf("no time of day")
	}

	for _, layout := range []string{"3:04 PM", "15:04"} {
		if t, perr := time.Parse(layout, s); perr == nil {
			return t.Hour(), t.Minute(), nil
		}
	}
	return 0, 0, fmt.Errorf("invalid time of day %q", s)
}
