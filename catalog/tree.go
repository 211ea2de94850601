package catalog

import (
	"os"
	"path/filepath"

	"github.com/preshow-cli/preshow/filesystem"
)

// Folders of the content tree.
const (
	FolderAudioFormatBumpers = "Audio Format Bumpers"
	FolderMusic              = "Music"
	FolderActions            = "Actions"
	FolderSequences          = "Sequences"
	FolderRatingsBumpers     = "Ratings Bumpers"
	FolderTrailers           = "Trailers"
	FolderTrivia             = "Trivia"
	FolderSlideshow          = "Slideshow"
	FolderVideoBumpers       = "Video Bumpers"
)

// DefaultRatingStyle is the style of rating bumpers stored directly in
// their system folder.
const DefaultRatingStyle = "Classic"

// VideoBumperFolders maps the folders under "Video Bumpers" to bumper types.
var VideoBumperFolders = map[string]string{
	"PreShow":        "preshow",
	"Sponsors":       "sponsors",
	"Commercials":    "commercials",
	"Countdown":      "countdown",
	"Courtesy":       "courtesy",
	"Feature Intro":  "feature.intro",
	"Feature Outro":  "feature.outro",
	"Intermission":   "intermission",
	"Short Film":     "short.film",
	"Theater Intro":  "theater.intro",
	"Theater Outro":  "theater.outro",
	"Trailers Intro": "trailers.intro",
	"Trailers Outro": "trailers.outro",
	"Trivia Intro":   "trivia.intro",
	"Trivia Outro":   "trivia.outro",
}

var audioFormatFolders = []string{
	"Auro-3D", "Dolby Atmos", "Dolby Digital", "Dolby Digital Plus", "Dolby TrueHD",
	"DTS", "DTS-HD Master Audio", "DTS-X", "Datasat", "Other", "THX",
}

var ratingSystemFolders = []string{"MPAA", "BBFC", "DEJUS", "FSK"}

// EnsureTree creates the folders of the content tree under root.
func EnsureTree(root string) error {
	dirs := []string{FolderMusic, FolderActions, FolderSequences, FolderTrailers, FolderTrivia, FolderSlideshow}
	for _, f := range audioFormatFolders {
		dirs = append(dirs, filepath.Join(FolderAudioFormatBumpers, f))
	}
	for _, s := range ratingSystemFolders {
		dirs = append(dirs, filepath.Join(FolderRatingsBumpers, s))
	}
	for f := range VideoBumperFolders {
		dirs = append(dirs, filepath.Join(FolderVideoBumpers, f))
	}

	for _, d := range dirs {
		if err := filesystem.API().MkdirAll(filepath.Join(root, d), os.ModePerm); err != nil {
			return err
		}
	}
	return nil
}
