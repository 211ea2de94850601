package playable

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/preshow-cli/preshow/rating"
)

type header struct {
	Type   Type   `json:"type"`
	From   int    `json:"from"`
	Module string `json:"module,omitempty"`
}

func headerOf(p Playable) header {
	return header{Type: p.Type(), From: p.From(), Module: p.Module()}
}

func (h header) apply(p Playable) Playable {
	p.SetFrom(h.From)
	p.SetModule(h.Module)
	return p
}

func ms(d time.Duration) int64 { return d.Milliseconds() }

func fromMs(n int64) time.Duration { return time.Duration(n) * time.Millisecond }

type imageJSON struct {
	header
	Path      string `json:"path"`
	Duration  int64  `json:"duration_ms"`
	SetNumber int    `json:"set_number,omitempty"`
	SetID     string `json:"set_id,omitempty"`
	Fade      int64  `json:"fade_ms,omitempty"`
}

type songJSON struct {
	header
	Path     string `json:"path"`
	Duration int64  `json:"duration_ms"`
}

type imageQueueJSON struct {
	header
	Images             []imageJSON `json:"images"`
	Duration           int64       `json:"duration_ms"`
	MaxDuration        int64       `json:"max_duration_ms"`
	Transition         string      `json:"transition,omitempty"`
	TransitionDuration int64       `json:"transition_ms"`
	Music              []songJSON  `json:"music,omitempty"`
	MusicVolume        int         `json:"music_volume"`
	MusicFadeIn        int64       `json:"music_fade_in_ms"`
	MusicFadeOut       int64       `json:"music_fade_out_ms"`
}

type videoJSON struct {
	header
	Path      string `json:"path"`
	UserAgent string `json:"user_agent,omitempty"`
	Duration  int64  `json:"duration_ms,omitempty"`
	SetID     string `json:"set_id,omitempty"`
	Title     string `json:"title,omitempty"`
	Thumb     string `json:"thumb,omitempty"`
	Volume    int    `json:"volume"`
}

type videoQueueJSON struct {
	header
	Videos   []videoJSON `json:"videos"`
	Duration int64       `json:"duration_ms"`
}

type featureJSON struct {
	videoJSON
	ID          int      `json:"id,omitempty"`
	DBType      string   `json:"db_type,omitempty"`
	Rating      string   `json:"rating,omitempty"`
	Year        int      `json:"year,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Studios     []string `json:"studios,omitempty"`
	Directors   []string `json:"directors,omitempty"`
	Cast        []string `json:"cast,omitempty"`
	VideoAspect string   `json:"video_aspect,omitempty"`
	AudioFormat string   `json:"audio_format,omitempty"`
	Codec       string   `json:"codec,omitempty"`
	Channels    int      `json:"channels,omitempty"`
	Runtime     int64    `json:"runtime_ms,omitempty"`
}

type actionJSON struct {
	header
	Path string `json:"path"`
}

type gotoJSON struct {
	header
	Command   string     `json:"command"`
	Arg       int        `json:"arg"`
	Condition string     `json:"condition"`
	Duration  int64      `json:"duration_ms,omitempty"`
	TimeOfDay string     `json:"time_of_day,omitempty"`
	Started   *time.Time `json:"started,omitempty"`
	Until     *time.Time `json:"until,omitempty"`
}

func encodeImage(i *Image) imageJSON {
	return imageJSON{
		header: headerOf(i), Path: i.Path, Duration: ms(i.Duration),
		SetNumber: i.SetNumber, SetID: i.SetID, Fade: ms(i.Fade),
	}
}

func encodeVideo(v *Video, h header) videoJSON {
	return videoJSON{
		header: h, Path: v.Path, UserAgent: v.UserAgent, Duration: ms(v.Duration),
		SetID: v.SetID, Title: v.Title, Thumb: v.Thumb, Volume: v.Volume,
	}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Value returns the tagged JSON representation of p.
func Value(p Playable) (any, error) {
	switch v := p.(type) {
	case *Image:
		return encodeImage(v), nil
	case *Song:
		return songJSON{header: headerOf(v), Path: v.Path, Duration: ms(v.Duration)}, nil
	case *ImageQueue:
		out := imageQueueJSON{
			header: headerOf(v), Duration: ms(v.Duration), MaxDuration: ms(v.MaxDuration),
			Transition: v.Transition, TransitionDuration: ms(v.TransitionDuration),
			MusicVolume: v.MusicVolume, MusicFadeIn: ms(v.MusicFadeIn), MusicFadeOut: ms(v.MusicFadeOut),
		}
		for _, img := range v.Images {
			out.Images = append(out.Images, encodeImage(img))
		}
		for _, s := range v.Music {
			out.Music = append(out.Music, songJSON{header: headerOf(s), Path: s.Path, Duration: ms(s.Duration)})
		}
		return out, nil
	case *Video:
		return encodeVideo(v, headerOf(v)), nil
	case *VideoQueue:
		out := videoQueueJSON{header: headerOf(v), Duration: ms(v.Duration)}
		for _, video := range v.Videos {
			out.Videos = append(out.Videos, encodeVideo(video, headerOf(video)))
		}
		return out, nil
	case *Feature:
		return featureJSON{
			videoJSON: encodeVideo(&v.Video, headerOf(v)),
			ID:        v.ID, DBType: v.DBType, Rating: ratingString(v.Rating), Year: v.Year,
			Genres: v.Genres, Tags: v.Tags, Studios: v.Studios, Directors: v.Directors, Cast: v.Cast,
			VideoAspect: v.VideoAspect, AudioFormat: v.AudioFormat, Codec: v.Codec,
			Channels: v.Channels, Runtime: ms(v.Runtime),
		}, nil
	case *Action:
		return actionJSON{header: headerOf(v), Path: v.Path}, nil
	case *Goto:
		return gotoJSON{
			header: headerOf(v), Command: v.Command, Arg: v.Arg, Condition: v.Condition,
			Duration: ms(v.Duration), TimeOfDay: v.TimeOfDay,
			Started: optionalTime(v.Started), Until: optionalTime(v.Until),
		}, nil
	default:
		return nil, fmt.Errorf("encode playable: unsupported type %T", p)
	}
}

func ratingString(r rating.Rating) string {
	if r.IsZero() {
		return ""
	}
	return r.String()
}

// Encode marshals p to JSON tagged with its type.
func Encode(p Playable) ([]byte, error) {
	v, err := Value(p)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// Decode unmarshals a playable produced by Encode. Decoded actions carry no
// runner and image queues no source.
func Decode(data []byte) (Playable, error) {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("decode playable: %w", err)
	}

	switch h.Type {
	case TypeImage:
		var v imageJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		return h.apply(decodeImage(v)), nil
	case TypeSong:
		var v songJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode song: %w", err)
		}
		return h.apply(&Song{Path: v.Path, Duration: fromMs(v.Duration)}), nil
	case TypeImageQueue:
		var v imageQueueJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode image queue: %w", err)
		}
		q := NewImageQueue(nil, fromMs(v.MaxDuration))
		for _, img := range v.Images {
			q.Images = append(q.Images, decodeImage(img))
		}
		q.Duration = fromMs(v.Duration)
		q.Transition = v.Transition
		q.TransitionDuration = fromMs(v.TransitionDuration)
		for _, s := range v.Music {
			song := &Song{Path: s.Path, Duration: fromMs(s.Duration)}
			s.header.apply(song)
			q.Music = append(q.Music, song)
		}
		q.MusicVolume = v.MusicVolume
		q.MusicFadeIn = fromMs(v.MusicFadeIn)
		q.MusicFadeOut = fromMs(v.MusicFadeOut)
		return h.apply(q), nil
	case TypeVideo:
		var v videoJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode video: %w", err)
		}
		video := decodeVideo(v)
		return h.apply(&video), nil
	case TypeVideoQueue:
		var v videoQueueJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode video queue: %w", err)
		}
		q := NewVideoQueue(nil)
		for _, vj := range v.Videos {
			video := decodeVideo(vj)
			vj.header.apply(&video)
			q.Videos = append(q.Videos, &video)
		}
		q.Duration = fromMs(v.Duration)
		return h.apply(q), nil
	case TypeFeature:
		var v featureJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode feature: %w", err)
		}
		f := &Feature{
			Video: decodeVideo(v.videoJSON),
			ID:    v.ID, DBType: v.DBType, Year: v.Year,
			Genres: v.Genres, Tags: v.Tags, Studios: v.Studios, Directors: v.Directors, Cast: v.Cast,
			VideoAspect: v.VideoAspect, AudioFormat: v.AudioFormat, Codec: v.Codec,
			Channels: v.Channels, Runtime: fromMs(v.Runtime),
		}
		if v.Rating != "" {
			f.Rating, _ = rating.Parse(v.Rating, "")
		}
		return h.apply(f), nil
	case TypeAction:
		var v actionJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode action: %w", err)
		}
		return h.apply(NewAction(v.Path, nil)), nil
	case TypeGoto:
		var v gotoJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode goto: %w", err)
		}
		g := &Goto{
			Command: v.Command, Arg: v.Arg, Condition: v.Condition,
			Duration: fromMs(v.Duration), TimeOfDay: v.TimeOfDay,
		}
		if v.Started != nil {
			g.Started = *v.Started
		}
		if v.Until != nil {
			g.Until = *v.Until
		}
		return h.apply(g), nil
	default:
		return nil, fmt.Errorf("decode playable: unknown type %q", h.Type)
	}
}

func decodeImage(v imageJSON) *Image {
	img := &Image{
		Path: v.Path, Duration: fromMs(v.Duration),
		SetNumber: v.SetNumber, SetID: v.SetID, Fade: fromMs(v.Fade),
	}
	v.header.apply(img)
	return img
}

func decodeVideo(v videoJSON) Video {
	return Video{
		Path: v.Path, UserAgent: v.UserAgent, Duration: fromMs(v.Duration),
		SetID: v.SetID, Title: v.Title, Thumb: v.Thumb, Volume: v.Volume,
	}
}
