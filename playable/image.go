package playable

import (
	"fmt"
	"time"
)

// Image is a still shown for a duration.
type Image struct {
	origin

	Path     string
	Duration time.Duration
	// SetNumber counts down to zero along a slide set: the last slide of a
	// set has SetNumber 0.
	SetNumber int
	// SetID identifies the catalog entry the slide belongs to.
	SetID string
	// Fade is how long before the end the image starts fading out.
	Fade time.Duration
}

// NewImage returns an image shown for d.
func NewImage(path string, d time.Duration) *Image {
	return &Image{Path: path, Duration: d}
}

func (*Image) Type() Type { return TypeImage }

func (i *Image) String() string {
	return fmt.Sprintf("%s: %s (%s)", TypeImage, i.Path, i.Duration)
}

// QueueSource feeds an image queue with more slide sets while it plays and
// records the sets that were shown.
type QueueSource interface {
	// Next returns a slide set not yet in q, or nil when exhausted.
	Next(q *ImageQueue) []*Image
	// Mark records that the set ending with img was shown.
	Mark(img *Image)
}

// ImageQueue is a slideshow of slide sets with optional music.
type ImageQueue struct {
	origin

	Images []*Image
	// Duration is the accrued duration of Images.
	Duration time.Duration
	// MaxDuration bounds the display time; zero means unbounded.
	MaxDuration time.Duration
	// Pos is the cursor inside Images, -1 before the first slide.
	Pos int

	Transition         string
	TransitionDuration time.Duration

	Music        []*Song
	MusicVolume  int
	MusicFadeIn  time.Duration
	MusicFadeOut time.Duration

	source QueueSource
	now    func() time.Time
}

// NewImageQueue returns an empty queue pulling more sets from source.
func NewImageQueue(source QueueSource, max time.Duration) *ImageQueue {
	return &ImageQueue{
		MaxDuration:        max,
		Pos:                -1,
		TransitionDuration: 500 * time.Millisecond,
		MusicVolume:        85,
		MusicFadeIn:        3 * time.Second,
		MusicFadeOut:       3 * time.Second,
		source:             source,
		now:                time.Now,
	}
}

func (*ImageQueue) Type() Type { return TypeImageQueue }

func (q *ImageQueue) String() string {
	return fmt.Sprintf("%s: %d images, %s", TypeImageQueue, len(q.Images), q.Duration)
}

// SetClock replaces the wall clock used to detect overtime.
func (q *ImageQueue) SetClock(now func() time.Time) {
	q.now = now
}

// Add appends a slide set and accrues its duration.
func (q *ImageQueue) Add(images ...*Image) {
	for _, img := range images {
		q.Duration += img.Duration
	}
	q.Images = append(q.Images, images...)
}

// Contains reports whether any of images is already queued, by path.
func (q *ImageQueue) Contains(images ...*Image) bool {
	paths := make(map[string]struct{}, len(q.Images))
	for _, img := range q.Images {
		paths[img.Path] = struct{}{}
	}
	for _, img := range images {
		if _, ok := paths[img.Path]; ok {
			return true
		}
	}
	return false
}

// Size is the number of fetched images.
func (q *ImageQueue) Size() int {
	return len(q.Images)
}

// Reset moves the cursor before the first slide.
func (q *ImageQueue) Reset() {
	q.Pos = -1
}

// Current is the image under the cursor, nil outside the queue.
func (q *ImageQueue) Current() *Image {
	if q.Pos < 0 || q.Pos >= len(q.Images) {
		return nil
	}
	return q.Images[q.Pos]
}

// OnFirst reports whether the cursor is on the first slide.
func (q *ImageQueue) OnFirst() bool {
	return q.Pos == 0
}

// OnLast reports whether the cursor is on the last fetched slide.
func (q *ImageQueue) OnLast() bool {
	return q.Pos == len(q.Images)-1
}

func (q *ImageQueue) overtime(start time.Time) bool {
	if start.IsZero() || q.MaxDuration <= 0 {
		return false
	}
	return q.now().Sub(start) >= q.MaxDuration
}

// Next advances the cursor and returns the new current image, or nil when
// the queue is done. start is when the queue began displaying; once
// MaxDuration has passed since then the queue only finishes the set in
// progress. A count above one skips whole sets. Past the fetched buffer more
// sets are pulled from the source unless overtime, or always with extend.
func (q *ImageQueue) Next(start time.Time, count int, extend bool) *Image {
	overtime := q.overtime(start)
	cur := q.Current()
	if overtime && (cur == nil || cur.SetNumber == 0) {
		return nil
	}

	if count > 1 {
		if cur != nil {
			q.Pos += cur.SetNumber
		}

		for c := 0; c < count-1; c++ {
			for {
				if q.Pos >= len(q.Images)-1 {
					if q.fetch() == nil {
						break
					}
				} else {
					q.Pos++
				}

				if q.Current().SetNumber == 0 {
					break
				}
			}
		}
	}

	if q.Pos >= len(q.Images)-1 {
		if extend || !overtime {
			return q.fetch()
		}
		return nil
	}

	q.Pos++
	return q.Current()
}

func (q *ImageQueue) fetch() *Image {
	if q.source == nil {
		return nil
	}

	images := q.source.Next(q)
	if len(images) == 0 {
		return nil
	}

	q.Add(images...)
	q.Pos++
	return q.Current()
}

// Prev moves the cursor back and returns the new current image, or nil at
// the start. A count above one moves back by whole sets. Prev never fetches.
func (q *ImageQueue) Prev(count int) *Image {
	if q.Pos < 1 {
		return nil
	}

	if count > 1 {
		for c := 0; c < count+1; c++ {
			for q.Pos > -1 {
				q.Pos--
				if q.Pos < 0 || q.Images[q.Pos].SetNumber == 0 {
					break
				}
			}
		}
		q.Pos++
		return q.Current()
	}

	q.Pos--
	return q.Current()
}

// Mark reports img as shown when it ends its set.
func (q *ImageQueue) Mark(img *Image) {
	if img == nil || img.SetNumber != 0 || q.source == nil {
		return
	}
	q.source.Mark(img)
}
