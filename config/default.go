package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/preshow-cli/preshow/color"
	"github.com/preshow-cli/preshow/constant"
	"github.com/preshow-cli/preshow/key"
	"github.com/preshow-cli/preshow/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Preshow + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case float64:
		return "float"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	item := func(kind, attr string, v any, desc string) {
		register(key.Item(kind, attr), v, desc)
	}

	register(key.ContentPath, "", "Root of the content folder.\nEmpty means a \"content\" directory inside the config directory")
	register(key.CatalogDatabase, "", "Path of the catalog database.\nEmpty means catalog.db inside the cache directory")
	register(key.RatingSystemDefault, "MPAA", "Rating system assumed for ratings without a system prefix")

	item("feature", "count", 1, "Features played by a feature item")
	item("feature", "ratingBumper", "video", "Rating bumper before a feature.\nAvailable options are: none, video, image")
	item("feature", "ratingStyleSelection", "random", "How the rating bumper style is chosen.\nAvailable options are: random, style")
	item("feature", "ratingStyle", "Classic", "Rating bumper style used when the selection is \"style\"")
	item("feature", "volume", 100, "Feature volume in percent")

	item("trivia", "triviaSelect", "Default", "Trivia source.\nAvailable options are: Default, Directory")
	item("trivia", "triviaDir", "", "Trivia directory used when the source is \"Directory\"")
	item("trivia", "duration", 20, "Length of the trivia block in minutes")
	item("trivia", "qDuration", 8, "Seconds a question slide stays on screen")
	item("trivia", "cDuration", 6, "Seconds a clue slide stays on screen")
	item("trivia", "aDuration", 6, "Seconds an answer slide stays on screen")
	item("trivia", "sDuration", 10, "Seconds a single fact slide stays on screen")
	item("trivia", "transition", "fade", "Slide transition.\nAvailable options are: none, fade, slideL, slideR, slideU, slideD")
	item("trivia", "transitionDuration", 400, "Transition length in milliseconds")
	item("trivia", "music", "content", "Music under the slides.\nAvailable options are: off, content, dir, file")
	item("trivia", "musicDir", "", "Music directory used when music is \"dir\"")
	item("trivia", "musicFile", "", "Music file used when music is \"file\"")
	register(key.TriviaMusicVolume, 75, "Music volume under trivia slides in percent")
	register(key.TriviaMusicFadeIn, 3.0, "Music fade in for trivia in seconds")
	register(key.TriviaMusicFadeOut, 3.0, "Music fade out for trivia in seconds")

	item("slideshow", "slideshoworder", "Alphabetical", "Slide order.\nAvailable options are: Alphabetical, Random")
	item("slideshow", "slideshowSelect", "Default", "Slideshow source.\nAvailable options are: Default, Directory")
	item("slideshow", "slideshowDir", "", "Slideshow directory used when the source is \"Directory\"")
	item("slideshow", "slideshowduration", "5 minutes", "Length of the slideshow block")
	item("slideshow", "slideDuration", "8 seconds", "Time each slide stays on screen")
	item("slideshow", "transition", "fade", "Slide transition.\nAvailable options are: none, fade, slideL, slideR, slideU, slideD")
	item("slideshow", "transitionDuration", 400, "Transition length in milliseconds")
	item("slideshow", "music", "content", "Music under the slides.\nAvailable options are: off, content, dir, file")
	item("slideshow", "musicDir", "", "Music directory used when music is \"dir\"")
	item("slideshow", "musicFile", "", "Music file used when music is \"file\"")
	register(key.SlideshowMusicVolume, 75, "Music volume under the slideshow in percent")
	register(key.SlideshowMusicFadeIn, 3.0, "Music fade in for the slideshow in seconds")
	register(key.SlideshowMusicFadeOut, 3.0, "Music fade out for the slideshow in seconds")

	item("trailer", "source", "content", "Trailer source.\nAvailable options are: content, dir, file")
	item("trailer", "scrapers", "content", "Comma separated trailer sources tried in turn")
	item("trailer", "file", "", "Trailer file used when the source is \"file\"")
	item("trailer", "dir", "", "Trailer directory used when the source is \"dir\"")
	item("trailer", "count", 2, "Trailers played by a trailer item")
	item("trailer", "ratingLimit", "match", "Trailer rating limit.\nAvailable options are: none, max, match")
	item("trailer", "limitGenre", true, "Only play trailers sharing a genre with the feature")
	item("trailer", "volume", 100, "Trailer volume in percent")
	register(key.TrailerRatingMax, "MPAA.PG-13", "Highest rating played when the rating limit is \"max\"")
	register(key.TrailerPreferUnwatched, true, "Play unwatched trailers before watched ones")
	register(key.TrailerQuality, "1080p", "Preferred trailer quality.\nAvailable options are: 480p, 720p, 1080p")

	item("video", "count", 1, "Videos played by a video bumper item")
	item("video", "volume", 100, "Video bumper volume in percent")

	item("audioformat", "method", "af.detect", "How the audio format bumper is chosen.\nAvailable options are: af.detect, af.format, af.file")
	item("audioformat", "fallback", "af.format", "Fallback when detection fails.\nAvailable options are: af.format, af.file")
	item("audioformat", "file", "", "Audio format bumper file")
	item("audioformat", "format", "Other", "Audio format used by af.format")
	item("audioformat", "volume", 100, "Audio format bumper volume in percent")

	register(key.ActionOnPause, false, "Run an action when the show is paused")
	register(key.ActionOnPauseFile, "", "Action script run on pause")
	register(key.ActionOnResume, 0, "Action run on resume.\n0 none, 1 the last action run, 2 the file below")
	register(key.ActionOnResumeFile, "", "Action script run on resume")
	register(key.ActionOnAbort, false, "Run an action when the show is aborted")
	register(key.ActionOnAbortFile, "", "Action script run on abort")
	register(key.ActionBeforeFeature, false, "Run an action right before each feature")
	register(key.ActionBeforeFeatureFile, "", "Action script run before each feature")
	register(key.ActionPreshowBeginning, false, "Run an action when the show begins")
	register(key.ActionPreshowBeginningFile, "", "Action script run when the show begins")
	register(key.ActionLastChapter, false, "Run an action when a feature reaches its last chapter")
	register(key.ActionLastChapterFile, "", "Action script run on the last chapter")
	register(key.ActionMiddleChapter, false, "Run an action when a feature reaches its middle chapter")
	register(key.ActionMiddleChapterFile, "", "Action script run on the middle chapter")
	register(key.ActionAfterFeature, false, "Run an action after the last feature")
	register(key.ActionAfterFeatureFile, "", "Action script run after the last feature")

	register(key.PlayerPath, "mpv", "mpv binary used for playback")
	register(key.PlayerPreDelay, 0, "Milliseconds to wait before each video starts")
	register(key.PlayerMaxFailures, 5, "Consecutive playback failures before the show is aborted")
	register(key.PlayerFullscreen, true, "Play fullscreen")

	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Check for a newer release after showing the version")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
