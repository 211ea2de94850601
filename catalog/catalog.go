// Package catalog stores the scanned content of the show: music, trivia and
// slideshow slides, bumpers and trailer records.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/mo"
)

// ErrNotFound is returned when a lookup by key matches nothing.
var ErrNotFound = errors.New("not found")

// LookupError wraps a failed catalog query.
type LookupError struct {
	Op  string
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func lookupErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &LookupError{Op: op, Err: err}
}

// Order sorts query results.
type Order int

const (
	OrderRandom Order = iota
	// OrderAccessed puts the least recently shown first.
	OrderAccessed
	// OrderPath sorts alphabetically by path.
	OrderPath
	// OrderNewest puts the latest release first.
	OrderNewest
)

// Song is a music track.
type Song struct {
	ID       int64
	Name     string
	Path     string
	Duration time.Duration
}

// TriviaType tells how the slides of a trivia are shown.
type TriviaType string

const (
	// TriviaQA is a question, optional clues and an answer.
	TriviaQA TriviaType = "QA"
	// TriviaFact is a single still.
	TriviaFact TriviaType = "fact"
	TriviaVideo TriviaType = "video"
)

// Trivia is one slide set. Answer is always set and identifies the set on
// disk; TID identifies it in the catalog.
type Trivia struct {
	ID       int64
	TID      string
	Name     string
	Type     TriviaType
	Rating   string
	Question string
	// Clues are in display order.
	Clues    []string
	Answer   string
	Duration time.Duration
	Accessed time.Time
}

// Slide is a slideshow image or video.
type Slide struct {
	ID       int64
	TID      string
	Name     string
	Path     string
	Video    bool
	Duration time.Duration
}

// BumperKind separates the three bumper folders.
type BumperKind string

const (
	BumperVideo       BumperKind = "video"
	BumperAudioFormat BumperKind = "audioformat"
	BumperRating      BumperKind = "rating"
)

// Bumper is a short clip or still. Category is the video bumper type
// ("preshow"), the audio format ("Dolby Atmos") or the rating system
// ("MPAA"). Rating bumpers are named after their rating and carry a style.
type Bumper struct {
	ID       int64
	Kind     BumperKind
	Category string
	Style    string
	Name     string
	Path     string
	Image    bool
}

// Trailer is a trailer record of a source. WID is unique across sources.
type Trailer struct {
	ID        int64
	WID       string
	Source    string
	Title     string
	Rating    string
	Genres    []string
	URL       string
	UserAgent string
	Thumb     string
	Release   time.Time
	// Date is when the trailer was last played.
	Date     time.Time
	Watched  bool
	Broken   bool
	Verified bool
}

// TriviaQuery selects trivia. Zero times do not filter.
type TriviaQuery struct {
	// Dir keeps trivia whose answer path contains it.
	Dir            string
	AccessedBefore time.Time
	AccessedSince  time.Time
	Order          Order
}

// SlideQuery selects slideshow slides.
type SlideQuery struct {
	Dir   string
	Order Order
}

// BumperQuery selects bumpers. Empty strings do not filter.
type BumperQuery struct {
	Kind     BumperKind
	Category string
	Name     string
	Style    string
	Image    mo.Option[bool]
}

// TrailerQuery selects the unbroken trailers of a source.
type TrailerQuery struct {
	Source  string
	Watched bool
	Order   Order
}

// Reader is what the handlers consult while compiling a show.
type Reader interface {
	Songs(ctx context.Context) ([]Song, error)
	Trivia(ctx context.Context, q TriviaQuery) ([]Trivia, error)
	Slides(ctx context.Context, q SlideQuery) ([]Slide, error)
	Bumpers(ctx context.Context, q BumperQuery) ([]Bumper, error)
	// RatingStyles lists the styles of the rating bumpers.
	RatingStyles(ctx context.Context) ([]string, error)
	Trailers(ctx context.Context, q TrailerQuery) ([]Trailer, error)

	// MarkAccessed records that the trivia tid was shown at at.
	MarkAccessed(ctx context.Context, tid string, at time.Time) error
	// UpdateTrailer saves the url, watched, date and broken state of t.
	UpdateTrailer(ctx context.Context, t Trailer) error
}

// Writer is what the scanner and the trailer updater fill the catalog with.
type Writer interface {
	// PutSong adds a song unless its path is known.
	PutSong(ctx context.Context, s Song) error
	// PutTrivia adds a trivia unless its answer path is known.
	PutTrivia(ctx context.Context, t Trivia) error
	PutSlide(ctx context.Context, s Slide) error
	PutBumper(ctx context.Context, b Bumper) error
	// PutTrailer adds t, or marks the known record with the same WID as
	// verified and watched if either says so. It reports whether t was new.
	PutTrailer(ctx context.Context, t Trailer) (bool, error)
	// UnverifyTrailers clears the verified flag of every trailer of source.
	UnverifyTrailers(ctx context.Context, source string) error
	// RemoveTrailers deletes the trailers of source that are unverified when
	// unverified is set, or released before the given time when it is not
	// zero.
	RemoveTrailers(ctx context.Context, source string, unverified bool, releasedBefore time.Time) (int, error)
	// Prune deletes content whose path keep rejects.
	Prune(ctx context.Context, keep func(path string) bool) (int, error)
}

// Catalog is a readable and writable content store.
type Catalog interface {
	Reader
	Writer
	Close() error
}
