package playable

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/preshow-cli/preshow/rating"
	"github.com/spf13/cast"
)

// Feature is the main attraction. It plays like a video and carries the
// metadata sequences are matched against.
type Feature struct {
	Video

	ID          int
	DBType      string
	Rating      rating.Rating
	Year        int
	Genres      []string
	Tags        []string
	Studios     []string
	Directors   []string
	Cast        []string
	VideoAspect string
	AudioFormat string
	Codec       string
	Channels    int
	Runtime     time.Duration
}

// NewFeature returns a feature at full volume.
func NewFeature(path string) *Feature {
	return &Feature{Video: Video{Path: path, Volume: 100}}
}

func (*Feature) Type() Type { return TypeFeature }

func (f *Feature) String() string {
	return fmt.Sprintf("%s: %s [%s]", TypeFeature, f.Title, f.Path)
}

// RuntimeDisplay formats the runtime as "1:45" or "0:50".
func (f *Feature) RuntimeDisplay() string {
	if f.Runtime <= 0 {
		return ""
	}
	minutes := int(f.Runtime.Round(time.Minute) / time.Minute)
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

// audioFormats maps stream codecs to the audio format bumper they announce.
var audioFormats = map[string]string{
	"dts":       "DTS",
	"dca":       "DTS",
	"dtsma":     "DTS-HD Master Audio",
	"dtshd_ma":  "DTS-HD Master Audio",
	"dtshd_hra": "DTS-HD Master Audio",
	"dtshr":     "DTS-HD Master Audio",
	"ac3":       "Dolby Digital",
	"eac3":      "Dolby Digital Plus",
	"a_truehd":  "Dolby TrueHD",
	"truehd":    "Dolby TrueHD",
}

// AudioFormatOf maps a codec to its audio format, "" when unknown.
func AudioFormatOf(codec string) string {
	return audioFormats[strings.ToLower(codec)]
}

// AudioStream is one audio stream of a media file.
type AudioStream struct {
	Codec    string `json:"codec"`
	Channels int    `json:"channels"`
}

// PickAudioStream chooses the stream announcing the feature: the one with
// most channels whose codec has an audio format, else the richest stream.
func PickAudioStream(streams []AudioStream) (AudioStream, bool) {
	if len(streams) == 0 {
		return AudioStream{}, false
	}

	sorted := append([]AudioStream(nil), streams...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Channels > sorted[j].Channels
	})

	for _, s := range sorted {
		if AudioFormatOf(s.Codec) != "" {
			return s, true
		}
	}
	return sorted[0], true
}

var aspectRatios = []float64{1.33, 1.78, 1.85, 2.0, 2.2, 2.35, 2.4}

// SnapAspect rounds a video aspect ratio to the nearest common one and
// formats it, e.g. "2.39" becomes "2.4" and "178" becomes "1.78".
func SnapAspect(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return "", false
	}
	if !strings.Contains(raw, ".") {
		v /= 100
	}

	closest := aspectRatios[0]
	for _, ar := range aspectRatios[1:] {
		if math.Abs(ar-v) < math.Abs(closest-v) {
			closest = ar
		}
	}

	s := fmt.Sprintf("%.2f", closest)
	if s == "2.40" {
		s = "2.4"
	}
	return s, true
}

type featureRecord struct {
	File          string         `json:"file"`
	Title         string         `json:"title"`
	Label         string         `json:"label"`
	MPAA          string         `json:"mpaa"`
	MovieID       any            `json:"movieid"`
	EpisodeID     any            `json:"episodeid"`
	ID            any            `json:"id"`
	Type          string         `json:"type"`
	Genre         []string       `json:"genre"`
	Tag           []string       `json:"tag"`
	Studio        []string       `json:"studio"`
	Director      []string       `json:"director"`
	Cast          []castRecord   `json:"cast"`
	Thumbnail     string         `json:"thumbnail"`
	Runtime       int            `json:"runtime"`
	Year          int            `json:"year"`
	VideoAspect   any            `json:"videoaspect"`
	StreamDetails *streamDetails `json:"streamdetails"`
}

type castRecord struct {
	Name string `json:"name"`
}

type streamDetails struct {
	Audio []AudioStream `json:"audio"`
	Video []struct {
		Aspect float64 `json:"aspect"`
	} `json:"video"`
}

// FeatureFromJSON reads a media library record: file, title or label, mpaa,
// movieid/episodeid/id, type, genre, tag, studio, director, cast, thumbnail,
// runtime in seconds, year and streamdetails.
func FeatureFromJSON(data []byte, defaultSystem string) (*Feature, error) {
	var r featureRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode feature: %w", err)
	}
	if r.File == "" {
		return nil, fmt.Errorf("decode feature: missing file")
	}

	f := NewFeature(r.File)
	f.Title = r.Title
	if f.Title == "" {
		f.Title = r.Label
	}
	if rt, ok := rating.Parse(r.MPAA, defaultSystem); ok {
		f.Rating = rt
	}
	for _, id := range []any{r.MovieID, r.EpisodeID, r.ID} {
		if id != nil {
			f.ID = cast.ToInt(id)
			break
		}
	}
	f.DBType = r.Type
	f.Genres = r.Genre
	f.Tags = r.Tag
	f.Studios = r.Studio
	f.Directors = r.Director
	for _, c := range r.Cast {
		f.Cast = append(f.Cast, c.Name)
	}
	f.Thumb = r.Thumbnail
	f.Runtime = time.Duration(r.Runtime) * time.Second
	f.Duration = f.Runtime
	f.Year = r.Year

	if r.VideoAspect != nil {
		f.VideoAspect, _ = SnapAspect(cast.ToString(r.VideoAspect))
	}

	if r.StreamDetails != nil {
		if s, ok := PickAudioStream(r.StreamDetails.Audio); ok {
			f.Codec = s.Codec
			f.Channels = s.Channels
			f.AudioFormat = AudioFormatOf(s.Codec)
		}
		if f.VideoAspect == "" && len(r.StreamDetails.Video) > 0 {
			f.VideoAspect, _ = SnapAspect(strconv.FormatFloat(r.StreamDetails.Video[0].Aspect, 'f', 2, 64))
		}
	}

	return f, nil
}
