package handler

import (
	"path/filepath"
	"strings"

	"github.com/preshow-cli/preshow/catalog"
	"github.com/preshow-cli/preshow/filesystem"
	"github.com/preshow-cli/preshow/log"
	"github.com/preshow-cli/preshow/playable"
	"github.com/preshow-cli/preshow/sequence"
	"github.com/preshow-cli/preshow/util"
	"github.com/samber/lo"
)

const youtubeWatch = "https://www.youtube.com/watch?v="

var fallbackVideos = map[string]string{
	"preshow":        "Duoy0gd-PAU",
	"sponsors":       "9bVilFsFlRk",
	"commercials":    "Q70dMEHV-Vo",
	"countdown":      "5ivgwp8AYac",
	"courtesy":       "dwEIxiMfQJY",
	"feature.intro":  "q__lEWLxSm8",
	"feature.outro":  "Kpm8FmBWSw0",
	"intermission":   "-EmyFEamvN8",
	"short.film":     "-EmyFEamvN8",
	"theater.intro":  "AA6u3aO1oDM",
	"theater.outro":  "KTYDIiUffZw",
	"trailers.intro": "oFoY0m1T_nk",
	"trailers.outro": "c6ys96aZ0sQ",
	"trivia.intro":   "VmIyAIo4k-0",
	"trivia.outro":   "5BesAADNV6M",
}

var fallbackAudio = map[string]string{
	"Auro-3D":             "4uUy-rhIrw4",
	"Datasat":             "O6Jiv_U5rPU",
	"Dolby Atmos":         "pd_6WN9GVtQ",
	"Dolby Digital":       "zwul5nW9xHU",
	"Dolby Digital Plus":  "zwul5nW9xHU",
	"Dolby TrueHD":        "77fAMqoYPPM",
	"DTS":                 "slDSieDA7EE",
	"DTS-HD Master Audio": "nU_lXddJPvE",
	"DTS-X":               "qEbRNeOcf9c",
	"THX":                 "_s-6pSdoctI",
}

// FallbackVideo is the stock clip shown for a video bumper type with no
// local content, empty when there is none.
func FallbackVideo(vtype string) string {
	if id, ok := fallbackVideos[vtype]; ok {
		return youtubeWatch + id
	}
	return ""
}

// FallbackAudio is the stock clip announcing an audio format, empty when
// there is none.
func FallbackAudio(format string) string {
	if id, ok := fallbackAudio[format]; ok {
		return youtubeWatch + id
	}
	return ""
}

// bumperPlayable plays a catalog bumper, stills for RatingImageDuration.
func bumperPlayable(b catalog.Bumper, volume int) playable.Playable {
	if b.Image || util.HasExtension(b.Path, util.ImageExtensions) {
		return playable.NewImage(b.Path, RatingImageDuration)
	}
	v := playable.NewVideo(b.Path)
	v.Title = b.Name
	v.Volume = volume
	return v
}

func videoBumpers(c *Context, it *sequence.Item) ([]playable.Playable, error) {
	s := it.Video(c.Defaults)

	var paths []string
	switch s.Type {
	case "":
		return nil, nil
	case "file":
		if s.File != "" {
			paths = []string{s.File}
		}
	case "dir":
		files, err := filesystem.Files(s.Dir, append(util.VideoExtensions, util.ImageExtensions...)...)
		if err != nil {
			log.Warnf("%s: %s", it.Display(), err)
		}
		if s.Random {
			files = lo.Samples(files, s.Count)
		} else if len(files) > s.Count {
			files = files[:s.Count]
		}
		paths = files
	default:
		bumpers, err := c.Catalog.Bumpers(c.ctx(), catalog.BumperQuery{Kind: catalog.BumperVideo, Category: s.Type})
		if err != nil {
			return nil, err
		}

		if s.Random || s.Source == "" {
			bumpers = lo.Samples(bumpers, s.Count)
		} else {
			bumpers = lo.Filter(bumpers, func(b catalog.Bumper, _ int) bool {
				return b.Name == s.Source || b.Path == s.Source
			})
			if len(bumpers) == 0 && filepath.IsAbs(s.Source) {
				paths = []string{s.Source}
			}
		}

		out := lo.Map(bumpers, func(b catalog.Bumper, _ int) playable.Playable {
			return bumperPlayable(b, s.Volume)
		})
		if len(out) > 0 {
			return out, nil
		}
	}

	if len(paths) == 0 {
		link := FallbackVideo(s.Type)
		if link == "" {
			return nil, nil
		}
		log.Infof("%s: no local bumper, using %s", it.Display(), link)
		paths = []string{link}
	}

	return lo.Map(paths, func(path string, _ int) playable.Playable {
		return bumperPlayable(catalog.Bumper{Path: path, Name: filepath.Base(path)}, s.Volume)
	}), nil
}

// detectAudioFormat reads the format from the feature file name, then from
// its stream info.
func detectAudioFormat(f *playable.Feature) string {
	name := strings.ToLower(filepath.Base(f.Path))
	switch {
	case strings.Contains(name, "atmos"):
		return "Dolby Atmos"
	case strings.Contains(name, "dtsx"), strings.Contains(name, "dts-x"):
		return "DTS-X"
	case strings.Contains(name, "auro3d"), strings.Contains(name, "auro-3d"):
		return "Auro-3D"
	}
	return f.AudioFormat
}

func audioFormatBumper(c *Context, it *sequence.Item) ([]playable.Playable, error) {
	s := it.AudioFormat(c.Defaults)

	play := func(path string) []playable.Playable {
		v := playable.NewVideo(path)
		v.Volume = s.Volume
		return []playable.Playable{v}
	}

	byFormat := func(format string) ([]playable.Playable, error) {
		if format == "" {
			return nil, nil
		}
		bumpers, err := c.Catalog.Bumpers(c.ctx(), catalog.BumperQuery{Kind: catalog.BumperAudioFormat, Category: format})
		if err != nil || len(bumpers) == 0 {
			return nil, err
		}
		return play(lo.Sample(bumpers).Path), nil
	}

	try := func(method string) ([]playable.Playable, error) {
		switch method {
		case "af.detect":
			f := c.Queue.Peek()
			if f == nil {
				return nil, nil
			}
			return byFormat(detectAudioFormat(f))
		case "af.format":
			return byFormat(s.Format)
		case "af.file":
			if s.File == "" {
				return nil, nil
			}
			return play(s.File), nil
		}
		return nil, nil
	}

	out, err := try(s.Method)
	if err != nil || len(out) > 0 {
		return out, err
	}
	if s.Fallback != "" && s.Fallback != s.Method {
		if out, err = try(s.Fallback); err != nil || len(out) > 0 {
			return out, err
		}
	}

	format := s.Format
	if s.Method == "af.detect" {
		if f := c.Queue.Peek(); f != nil {
			format = detectAudioFormat(f)
		}
	}
	if link := FallbackAudio(format); link != "" {
		log.Infof("%s: no local bumper for %q, using %s", it.Display(), format, link)
		return play(link), nil
	}
	return nil, nil
}
