// Package key defines the canonical set of configuration identifiers.
package key

// Item builds the global fallback key of an item setting, e.g. "trivia.qDuration".
func Item(kind, attr string) string {
	return kind + "." + attr
}

// Content library location and catalog.
const (
	ContentPath     = "content.path"
	CatalogDatabase = "catalog.database"
)

// Rating handling.
const (
	RatingSystemDefault = "rating.system.default"
)

// Trailer selection outside of the per-item settings.
const (
	TrailerPreferUnwatched = "trailer.preferUnwatched"
	TrailerQuality         = "trailer.quality"
	TrailerRatingMax       = "trailer.ratingMax"
)

// Image queue music mixing.
const (
	TriviaMusicVolume     = "trivia.musicVolume"
	TriviaMusicFadeIn     = "trivia.musicFadeIn"
	TriviaMusicFadeOut    = "trivia.musicFadeOut"
	SlideshowMusicVolume  = "slideshow.musicVolume"
	SlideshowMusicFadeIn  = "slideshow.musicFadeIn"
	SlideshowMusicFadeOut = "slideshow.musicFadeOut"
)

// Event actions fired by the playback engine.
const (
	ActionOnPause              = "action.onPause"
	ActionOnPauseFile          = "action.onPauseFile"
	ActionOnResume             = "action.onResume"
	ActionOnResumeFile         = "action.onResumeFile"
	ActionOnAbort              = "action.onAbort"
	ActionOnAbortFile          = "action.onAbortFile"
	ActionBeforeFeature        = "action.beforeFeature"
	ActionBeforeFeatureFile    = "action.beforeFeatureFile"
	ActionPreshowBeginning     = "action.preshowBeginning"
	ActionPreshowBeginningFile = "action.preshowBeginningFile"
	ActionLastChapter          = "action.lastChapter"
	ActionLastChapterFile      = "action.lastChapterFile"
	ActionMiddleChapter        = "action.middleChapter"
	ActionMiddleChapterFile    = "action.middleChapterFile"
	ActionAfterFeature         = "action.afterFeature"
	ActionAfterFeatureFile     = "action.afterFeatureFile"
)

// Media player.
const (
	PlayerPath        = "player.path"
	PlayerPreDelay    = "player.preDelay"
	PlayerMaxFailures = "player.maxFailures"
	PlayerFullscreen  = "player.fullscreen"
)

// Logging.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.versionCheck"
	IconsVariant    = "icons.variant"
)
