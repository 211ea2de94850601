package playable

import (
	"fmt"
	"time"
)

// Video is a single video file or stream.
type Video struct {
	origin

	Path      string
	UserAgent string
	Duration  time.Duration
	SetID     string
	Title     string
	Thumb     string
	// Volume is a percentage of the volume in effect before the show.
	Volume int
}

// NewVideo returns a video at full volume.
func NewVideo(path string) *Video {
	return &Video{Path: path, Volume: 100}
}

func (*Video) Type() Type { return TypeVideo }

func (v *Video) String() string {
	return fmt.Sprintf("%s: %s", TypeVideo, v.Path)
}

// Song is a music track under an image queue.
type Song struct {
	origin

	Path     string
	Duration time.Duration
}

func (*Song) Type() Type { return TypeSong }

// VideoMarker records that a video of a queue has been shown.
type VideoMarker interface {
	MarkVideo(v *Video)
}

// VideoQueue is a group of videos played back to back.
type VideoQueue struct {
	origin

	Videos   []*Video
	Duration time.Duration

	marker VideoMarker
}

// NewVideoQueue returns an empty queue reporting shown videos to marker.
func NewVideoQueue(marker VideoMarker) *VideoQueue {
	return &VideoQueue{marker: marker}
}

func (*VideoQueue) Type() Type { return TypeVideoQueue }

// Append adds v and accrues its duration.
func (q *VideoQueue) Append(v *Video) {
	q.Videos = append(q.Videos, v)
	q.Duration += v.Duration
}

// Contains reports whether a video with the same path is queued.
func (q *VideoQueue) Contains(v *Video) bool {
	for _, queued := range q.Videos {
		if queued.Path == v.Path {
			return true
		}
	}
	return false
}

// Mark reports v as shown.
func (q *VideoQueue) Mark(v *Video) {
	if q.marker != nil {
		q.marker.MarkVideo(v)
	}
}

func (q *VideoQueue) String() string {
	return fmt.Sprintf("%s: %d videos, %s", TypeVideoQueue, len(q.Videos), q.Duration)
}
