package sequence

import "fmt"

// LimitKind describes the legal domain of a setting.
type LimitKind int

const (
	// LimitRange is an integer range with a step.
	LimitRange LimitKind = iota
	// LimitChoice is one of an enumerated list. An empty choice means "use default".
	LimitChoice
	LimitFile
	// LimitFileDefault is a file path that may be left empty.
	LimitFileDefault
	LimitDir
	// LimitDBChoice is chosen from values found in the catalog.
	LimitDBChoice
	LimitBool
	// LimitBoolDefault is a tri-state bool: unset falls back to the global default.
	LimitBoolDefault
	// LimitMultiSelect is a comma separated list of names.
	LimitMultiSelect
	// LimitAction marks an attribute that triggers an action in an editor.
	LimitAction
)

// ValueType is the Go type a setting value is coerced to.
type ValueType int

const (
	String ValueType = iota
	Int
	Bool
)

// Limit is the domain of an element.
type Limit struct {
	Kind           LimitKind
	Min, Max, Step int
	Choices        []string
}

// Allows reports whether v lies inside the domain. Unset values always do.
func (l Limit) Allows(v any) bool {
	switch l.Kind {
	case LimitRange:
		n, ok := v.(int)
		if !ok {
			return false
		}
		return n >= l.Min && n <= l.Max
	case LimitChoice:
		s, ok := v.(string)
		if !ok {
			return false
		}
		for _, c := range l.Choices {
			if c == s {
				return true
			}
		}
		return false
	default:
		return true
	}
}

func (l Limit) String() string {
	switch l.Kind {
	case LimitRange:
		return fmt.Sprintf("%d..%d step %d", l.Min, l.Max, l.Step)
	case LimitChoice:
		return fmt.Sprint(l.Choices)
	case LimitFile, LimitFileDefault:
		return "file"
	case LimitDir:
		return "directory"
	case LimitDBChoice:
		return "catalog choice"
	case LimitBool, LimitBoolDefault:
		return "yes/no"
	case LimitMultiSelect:
		return "list"
	case LimitAction:
		return "action"
	default:
		return ""
	}
}

// Element is the static description of one setting of a kind.
type Element struct {
	Attr    string
	Label   string
	Type    ValueType
	Limit   Limit
	Default any
}

func rangeOf(lo, hi, step int) Limit {
	return Limit{Kind: LimitRange, Min: lo, Max: hi, Step: step}
}

func choice(choices ...string) Limit {
	return Limit{Kind: LimitChoice, Choices: choices}
}

func limit(k LimitKind) Limit {
	return Limit{Kind: k}
}

var transitions = choice("", "none", "fade", "slideL", "slideR", "slideU", "slideD")

var musicModes = choice("", "off", "content", "dir", "file")

// VideoTypes are the bumper categories of video items plus the dir and file modes.
var VideoTypes = []string{
	"preshow", "sponsors", "commercials", "countdown", "courtesy",
	"feature.intro", "feature.outro", "intermission", "short.film",
	"theater.intro", "theater.outro", "trailers.intro", "trailers.outro",
	"trivia.intro", "trivia.outro", "dir", "file",
}

// AudioFormats are the formats an audio format bumper may announce.
var AudioFormats = []string{
	"Auro-3D", "Dolby Digital", "Dolby Digital Plus", "Dolby TrueHD",
	"Dolby Atmos", "DTS", "DTS-HD Master Audio", "DTS-X", "Datasat", "THX", "Other",
}

// Conditions that end a loop command.
const (
	ConditionTimeOfDay  = "feature.timeofday"
	ConditionDuration   = "feature.duration"
	ConditionNbLoops    = "feature.nbloops"
	ConditionQueueFull  = "feature.queue=full"
	ConditionQueueEmpty = "feature.queue=empty"
	ConditionNone       = "none"
)

func timesOfDay() []string {
	tod := []string{"None"}
	for _, p := range []string{"AM", "PM"} {
		for _, h := range []string{"12", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"} {
			for _, m := range []string{"00", "15", "30", "45"} {
				tod = append(tod, h+":"+m+" "+p)
			}
		}
	}
	return tod
}

var elements = map[Kind][]Element{
	Feature: {
		{Attr: "count", Label: "Count", Type: Int, Limit: rangeOf(0, 10, 1), Default: 0},
		{Attr: "ratingBumper", Label: "Rating bumper", Limit: choice("", "none", "video", "image")},
		{Attr: "ratingStyleSelection", Label: "Rating style selection", Limit: choice("", "random", "style")},
		{Attr: "ratingStyle", Label: "Rating style", Limit: limit(LimitDBChoice)},
		{Attr: "volume", Label: "Volume (% of current)", Type: Int, Limit: rangeOf(0, 100, 5), Default: 0},
	},
	Trivia: {
		{Attr: "triviaSelect", Label: "Select Trivia", Limit: choice("Default", "Directory")},
		{Attr: "triviaDir", Label: "Directory (in Trivia folder)", Limit: limit(LimitDir), Default: ""},
		{Attr: "duration", Label: "Duration (minutes)", Type: Int, Limit: rangeOf(0, 60, 1), Default: 0},
		{Attr: "qDuration", Label: "Question Duration (seconds)", Type: Int, Limit: rangeOf(0, 60, 1), Default: 0},
		{Attr: "cDuration", Label: "Clue Duration (seconds)", Type: Int, Limit: rangeOf(0, 60, 1), Default: 0},
		{Attr: "aDuration", Label: "Answer Duration (seconds)", Type: Int, Limit: rangeOf(0, 60, 1), Default: 0},
		{Attr: "sDuration", Label: "Single Duration (seconds)", Type: Int, Limit: rangeOf(0, 60, 1), Default: 0},
		{Attr: "transition", Label: "Transition", Limit: transitions},
		{Attr: "transitionDuration", Label: "Transition: Duration (milliseconds)", Type: Int, Limit: rangeOf(0, 2000, 100), Default: 0},
		{Attr: "music", Label: "Music", Limit: musicModes},
		{Attr: "musicDir", Label: "Music: Path", Limit: limit(LimitDir)},
		{Attr: "musicFile", Label: "Music: File", Limit: limit(LimitFileDefault)},
	},
	Slideshow: {
		{Attr: "slideshoworder", Label: "Slideshow Order", Limit: choice("Alphabetical", "Random")},
		{Attr: "slideshowSelect", Label: "Select Slideshow Directory", Limit: choice("Default", "Directory")},
		{Attr: "slideshowDir", Label: "Directory (in Slideshow folder)", Limit: limit(LimitDir), Default: ""},
		{Attr: "slideshowduration", Label: "Max Slideshow Duration", Limit: choice(
			"1 minute", "2 minutes", "3 minutes", "4 minutes", "5 minutes", "10 minutes",
			"15 minutes", "30 minutes", "1 hour", "2 hours", "3 hours", "4 hours",
		), Default: "5 minutes"},
		{Attr: "slideDuration", Label: "Slide Duration", Limit: choice(
			"5 seconds", "6 seconds", "7 seconds", "8 seconds", "9 seconds", "10 seconds",
			"15 seconds", "30 seconds", "1 minute", "2 minutes", "5 minutes", "10 minutes",
			"15 minutes", "30 minutes", "1 hour", "2 hours", "3 hours", "4 hours",
		), Default: "8 seconds"},
		{Attr: "transition", Label: "Transition", Limit: transitions},
		{Attr: "transitionDuration", Label: "Transition: Duration (milliseconds)", Type: Int, Limit: rangeOf(0, 2000, 100), Default: 0},
		{Attr: "music", Label: "Music", Limit: musicModes},
		{Attr: "musicDir", Label: "Music: Path", Limit: limit(LimitDir)},
		{Attr: "musicFile", Label: "Music: File", Limit: limit(LimitFileDefault)},
	},
	Trailer: {
		{Attr: "source", Label: "Source", Limit: choice("", "content", "dir", "file")},
		{Attr: "scrapers", Label: "Scrapers filter", Limit: limit(LimitMultiSelect)},
		{Attr: "file", Label: "File", Limit: limit(LimitFileDefault), Default: ""},
		{Attr: "dir", Label: "Path", Limit: limit(LimitDir), Default: ""},
		{Attr: "count", Label: "Count", Type: Int, Limit: rangeOf(0, 10, 1), Default: 0},
		{Attr: "ratingLimit", Label: "Rating Limit", Limit: choice("", "none", "max", "match")},
		{Attr: "ratingMax", Label: "Max", Limit: limit(LimitDBChoice)},
		{Attr: "limitGenre", Label: "Match feature genres", Type: Bool, Limit: limit(LimitBoolDefault)},
		{Attr: "volume", Label: "Volume (% of current)", Type: Int, Limit: rangeOf(0, 100, 5), Default: 0},
	},
	Video: {
		{Attr: "vtype", Label: "Type", Limit: choice(VideoTypes...)},
		{Attr: "random", Label: "Random", Type: Bool, Limit: limit(LimitBool), Default: true},
		{Attr: "source", Label: "Source", Limit: limit(LimitDBChoice)},
		{Attr: "dir", Label: "Directory", Limit: limit(LimitDir)},
		{Attr: "count", Label: "Count", Type: Int, Limit: rangeOf(1, 10, 1), Default: 1},
		{Attr: "file", Label: "File", Limit: limit(LimitFileDefault)},
		{Attr: "volume", Label: "Volume (% of current)", Type: Int, Limit: rangeOf(0, 100, 5), Default: 0},
	},
	AudioFormat: {
		{Attr: "method", Label: "Method", Limit: choice("", "af.detect", "af.format", "af.file")},
		{Attr: "fallback", Label: "Fallback", Limit: choice("", "af.format", "af.file")},
		{Attr: "file", Label: "File", Limit: limit(LimitFileDefault), Default: ""},
		{Attr: "format", Label: "Format", Limit: choice(append([]string{""}, AudioFormats...)...)},
		{Attr: "volume", Label: "Volume (% of current)", Type: Int, Limit: rangeOf(0, 100, 5), Default: 0},
	},
	Action: {
		{Attr: "file", Label: "Action File Path", Limit: limit(LimitFileDefault), Default: ""},
		{Attr: "eval", Label: "Test", Limit: limit(LimitAction), Default: ""},
	},
	Command: {
		{Attr: "command", Label: "Direction", Limit: choice("back", "skip")},
		{Attr: "arg", Label: "Number of modules", Type: Int, Limit: rangeOf(1, 99, 1), Default: 2},
		{Attr: "condition", Label: "Condition", Limit: choice(
			ConditionTimeOfDay, ConditionDuration, ConditionNbLoops,
			ConditionQueueFull, ConditionQueueEmpty, ConditionNone,
		)},
		{Attr: "nbLoops", Label: "Number of loops", Type: Int, Limit: rangeOf(0, 20, 1), Default: 2},
		{Attr: "duration", Label: "Duration (in minutes)", Type: Int, Limit: rangeOf(0, 1440, 1), Default: 5},
		{Attr: "timeOfDay", Label: "Time of day", Limit: choice(timesOfDay()...)},
	},
}

// Elements returns the element table of a kind.
func (k Kind) Elements() []Element {
	return elements[k]
}

// Element looks up one element of a kind.
func (k Kind) Element(attr string) (Element, bool) {
	for _, e := range elements[k] {
		if e.Attr == attr {
			return e, true
		}
	}
	return Element{}, false
}

var displayValues = map[string]string{
	"preshow":             "PreShow",
	"sponsors":            "Sponsors",
	"commercials":         "Commercials",
	"countdown":           "Countdown",
	"courtesy":            "Courtesy",
	"feature.intro":       "Feature Intro",
	"feature.outro":       "Feature Outro",
	"intermission":        "Intermission",
	"short.film":          "Short Film",
	"theater.intro":       "Theater Intro",
	"theater.outro":       "Theater Outro",
	"trailers.intro":      "Trailers Intro",
	"trailers.outro":      "Trailers Outro",
	"trivia.intro":        "Trivia Intro",
	"trivia.outro":        "Trivia Outro",
	"back":                "Back",
	"skip":                "Skip",
	ConditionQueueFull:    "Feature queue is full",
	ConditionQueueEmpty:   "Feature queue is empty",
	ConditionNbLoops:      "Number of loops",
	ConditionDuration:     "Duration",
	ConditionTimeOfDay:    "Time of day",
	"dir":                 "Directory",
	"file":                "Single File",
	"content":             "Content",
	"af.detect":           "Auto-detect from source",
	"af.format":           "Choose format",
	"af.file":             "Choose file",
	"off":                 "None",
	"none":                "None",
	"fade":                "Fade",
	"max":                 "Max",
	"match":               "Match feature",
	"slideL":              "Slide Left",
	"slideR":              "Slide Right",
	"slideU":              "Slide Up",
	"slideD":              "Slide Down",
	"video":               "Video",
	"image":               "Image",
	"random":              "Random",
	"style":               "Style",
	"DTS-X":               "DTS:X",
}

// DisplayValue renders a setting value for people.
func DisplayValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "Default"
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	case int:
		if x == 0 {
			return "Default"
		}
		return fmt.Sprint(x)
	case string:
		if x == "" {
			return "Default"
		}
		if d, ok := displayValues[x]; ok {
			return d
		}
		return x
	default:
		return fmt.Sprint(v)
	}
}
