package catalog

import (
	"context"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/preshow-cli/preshow/filesystem"
	"github.com/preshow-cli/preshow/log"
	"github.com/preshow-cli/preshow/util"
)

// Prober measures the duration of a media file.
type Prober func(path string) (time.Duration, error)

// Report counts what a scan found.
type Report struct {
	Songs   int
	Trivia  int
	Slides  int
	Bumpers int
	Pruned  int
	// Errors are the folders and files that could not be read.
	Errors []error
}

// Scanner fills a catalog from a content folder.
type Scanner struct {
	Root   string
	Writer Writer
	// Probe measures songs and videos. Without it durations stay zero.
	Probe Prober
	// Progress is told about every file added.
	Progress func(section, name string)
}

func (s *Scanner) progress(section, name string) {
	log.Debugf("loading %s: [ %s ]", section, name)
	if s.Progress != nil {
		s.Progress(section, name)
	}
}

func (s *Scanner) duration(path string) time.Duration {
	if s.Probe == nil {
		return 0
	}
	d, err := s.Probe(path)
	if err != nil {
		log.Warnf("probe %s: %s", path, err)
		return 0
	}
	return d
}

// Scan removes content that left the folder and adds what is new.
func (s *Scanner) Scan(ctx context.Context) (Report, error) {
	var r Report

	root := filepath.Clean(s.Root)
	pruned, err := s.Writer.Prune(ctx, func(path string) bool {
		if !strings.HasPrefix(path, root) {
			return false
		}
		exists, err := filesystem.API().Exists(path)
		return err == nil && exists
	})
	if err != nil {
		return r, fmt.Errorf("prune catalog: %w", err)
	}
	r.Pruned = pruned

	steps := []func(context.Context, *Report) error{
		s.scanMusic,
		s.scanTrivia,
		s.scanSlideshow,
		s.scanVideoBumpers,
		s.scanAudioFormatBumpers,
		s.scanRatingsBumpers,
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return r, err
		}
		if err := step(ctx, &r); err != nil {
			return r, err
		}
	}
	return r, nil
}

func (s *Scanner) scanMusic(ctx context.Context, r *Report) error {
	for e, err := range Walk(filepath.Join(s.Root, FolderMusic)) {
		if err != nil {
			r.Errors = append(r.Errors, err)
			continue
		}
		if !util.HasExtension(e.Name, util.MusicExtensions) {
			continue
		}

		name := prefixed(e.Prefix(), util.FileStem(e.Name))
		if err := s.Writer.PutSong(ctx, Song{Name: name, Path: e.Path, Duration: s.duration(e.Path)}); err != nil {
			return err
		}
		s.progress("song", name)
		r.Songs++
	}
	return nil
}

func prefixed(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + ":" + name
}

// triviaPatterns recognizes the slides of a question.
type triviaPatterns struct {
	rating   string
	question *regexp.Regexp
	clue     *regexp.Regexp
	answer   *regexp.Regexp
}

var defaultTriviaPatterns = triviaPatterns{
	question: regexp.MustCompile(`(?i)_q\.(?:jpg|jpeg|tif|tiff|png|gif|bmp)`),
	clue:     regexp.MustCompile(`(?i)_c(\d)?\.(?:jpg|jpeg|tif|tiff|png|gif|bmp)`),
	answer:   regexp.MustCompile(`(?i)_a\.(?:jpg|jpeg|tif|tiff|png|gif|bmp)`),
}

type slidesFile struct {
	Slide struct {
		Rating   string `xml:"rating,attr"`
		Question struct {
			Format string `xml:"format,attr"`
		} `xml:"question"`
		Clue struct {
			Format string `xml:"format,attr"`
		} `xml:"clue"`
		Answer struct {
			Format string `xml:"format,attr"`
		} `xml:"answer"`
	} `xml:"slide"`
}

// readSlidesXML reads the patterns a trivia pack declares in slides.xml.
func readSlidesXML(dir string) (triviaPatterns, bool) {
	data, err := filesystem.API().ReadFile(filepath.Join(dir, "slides.xml"))
	if err != nil {
		return triviaPatterns{}, false
	}

	var f slidesFile
	if err := xml.Unmarshal(data, &f); err != nil {
		log.Warnf("bad slides.xml in %s: %s", dir, err)
		return triviaPatterns{}, false
	}

	compile := func(expr string, fallback *regexp.Regexp) *regexp.Regexp {
		expr = strings.ReplaceAll(expr, "N/A", "")
		if expr == "" {
			return nil
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			log.Warnf("bad pattern %q in %s: %s", expr, dir, err)
			return fallback
		}
		return re
	}

	return triviaPatterns{
		rating:   f.Slide.Rating,
		question: compile(f.Slide.Question.Format, defaultTriviaPatterns.question),
		clue:     compile(f.Slide.Clue.Format, defaultTriviaPatterns.clue),
		answer:   compile(f.Slide.Answer.Format, defaultTriviaPatterns.answer),
	}, true
}

type triviaGroup struct {
	question string
	clues    map[int]string
	answer   string
}

func (s *Scanner) scanTrivia(ctx context.Context, r *Report) error {
	base := filepath.Join(s.Root, FolderTrivia)

	var (
		dir      string
		prefix   string
		patterns triviaPatterns
		groups   map[string]*triviaGroup
		order    []string
	)

	flush := func() error {
		for _, name := range order {
			g := groups[name]
			if g.answer == "" {
				continue
			}

			t := Trivia{
				TID:      prefix + ":" + name,
				Name:     name,
				Type:     TriviaFact,
				Rating:   patterns.rating,
				Question: g.question,
				Answer:   g.answer,
			}
			if g.question != "" {
				t.Type = TriviaQA
			}
			keys := make([]int, 0, len(g.clues))
			for k := range g.clues {
				keys = append(keys, k)
			}
			sort.Ints(keys)
			for _, k := range keys {
				t.Clues = append(t.Clues, g.clues[k])
			}

			if err := s.Writer.PutTrivia(ctx, t); err != nil {
				return err
			}
			s.progress("trivia", t.TID)
			r.Trivia++
		}
		return nil
	}

	for e, err := range Walk(base) {
		if err != nil {
			r.Errors = append(r.Errors, err)
			continue
		}

		if d := filepath.Dir(e.Path); d != dir {
			if err := flush(); err != nil {
				return err
			}
			dir, prefix = d, e.Prefix()
			groups, order = make(map[string]*triviaGroup), nil
			var ok bool
			if patterns, ok = readSlidesXML(dir); !ok {
				patterns = defaultTriviaPatterns
			}
		}

		if util.HasExtension(e.Name, util.VideoExtensions) {
			t := Trivia{
				TID:      prefix + ":" + util.FileStem(e.Name),
				Name:     util.FileStem(e.Name),
				Type:     TriviaVideo,
				Answer:   e.Path,
				Duration: s.duration(e.Path),
			}
			if err := s.Writer.PutTrivia(ctx, t); err != nil {
				return err
			}
			s.progress("trivia video", t.TID)
			r.Trivia++
			continue
		}
		if !util.HasExtension(e.Name, util.ImageExtensions) {
			continue
		}

		ext := strings.TrimPrefix(filepath.Ext(e.Name), ".")
		name, slot, clue := classifySlide(e.Name, patterns)
		name += ":" + ext

		g, ok := groups[name]
		if !ok {
			g = &triviaGroup{clues: make(map[int]string)}
			groups[name] = g
			order = append(order, name)
		}
		switch slot {
		case 'q':
			g.question = e.Path
		case 'c':
			g.clues[clue] = e.Path
		default:
			g.answer = e.Path
		}
	}

	return flush()
}

// classifySlide tells whether file is a question, a clue or an answer and
// returns the name of the trivia it belongs to. Unmatched images are
// single-slide trivia.
func classifySlide(file string, p triviaPatterns) (name string, slot byte, clue int) {
	split := func(re *regexp.Regexp) (string, []string, bool) {
		if re == nil {
			return "", nil, false
		}
		loc := re.FindStringSubmatchIndex(file)
		if loc == nil {
			return "", nil, false
		}
		return file[:loc[0]], re.FindStringSubmatch(file), true
	}

	if n, _, ok := split(p.question); ok {
		return n, 'q', 0
	}
	if n, _, ok := split(p.answer); ok {
		return n, 'a', 0
	}
	if n, groups, ok := split(p.clue); ok {
		if len(groups) > 1 && groups[1] != "" {
			clue, _ = strconv.Atoi(groups[1])
		}
		return n, 'c', clue
	}
	return util.FileStem(file), 'a', 0
}

func (s *Scanner) scanSlideshow(ctx context.Context, r *Report) error {
	for e, err := range Walk(filepath.Join(s.Root, FolderSlideshow)) {
		if err != nil {
			r.Errors = append(r.Errors, err)
			continue
		}

		slide := Slide{Name: util.FileStem(e.Name), Path: e.Path}
		slide.TID = e.Prefix() + ":" + slide.Name
		switch {
		case util.HasExtension(e.Name, util.ImageExtensions):
		case util.HasExtension(e.Name, util.VideoExtensions):
			slide.Video = true
			slide.Duration = s.duration(e.Path)
		default:
			continue
		}

		if err := s.Writer.PutSlide(ctx, slide); err != nil {
			return err
		}
		s.progress("slide", slide.TID)
		r.Slides++
	}
	return nil
}

func bumperFile(name string) (image, ok bool) {
	switch {
	case util.HasExtension(name, util.VideoExtensions):
		return false, true
	case util.HasExtension(name, util.ImageExtensions):
		return true, true
	default:
		return false, false
	}
}

func (s *Scanner) putBumper(ctx context.Context, r *Report, b Bumper) error {
	if err := s.Writer.PutBumper(ctx, b); err != nil {
		return err
	}
	s.progress(string(b.Kind)+" bumper", b.Category+" - "+b.Name)
	r.Bumpers++
	return nil
}

func (s *Scanner) scanVideoBumpers(ctx context.Context, r *Report) error {
	for e, err := range Walk(filepath.Join(s.Root, FolderVideoBumpers)) {
		if err != nil {
			r.Errors = append(r.Errors, err)
			continue
		}
		image, ok := bumperFile(e.Name)
		if !ok || len(e.Dirs) == 0 {
			continue
		}

		folder := e.Dirs[0]
		category, known := VideoBumperFolders[folder]
		if !known {
			category = strings.TrimSuffix(folder, " Bumpers")
		}
		err := s.putBumper(ctx, r, Bumper{
			Kind:     BumperVideo,
			Category: category,
			Name:     prefixed(strings.Join(e.Dirs[1:], ":"), util.FileStem(e.Name)),
			Path:     e.Path,
			Image:    image,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Scanner) scanAudioFormatBumpers(ctx context.Context, r *Report) error {
	for e, err := range Walk(filepath.Join(s.Root, FolderAudioFormatBumpers)) {
		if err != nil {
			r.Errors = append(r.Errors, err)
			continue
		}
		image, ok := bumperFile(e.Name)
		if !ok || len(e.Dirs) == 0 {
			continue
		}

		err := s.putBumper(ctx, r, Bumper{
			Kind:     BumperAudioFormat,
			Category: strings.TrimSuffix(e.Dirs[0], " Bumpers"),
			Name:     prefixed(strings.Join(e.Dirs[1:], ":"), util.FileStem(e.Name)),
			Path:     e.Path,
			Image:    image,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// scanRatingsBumpers reads "<system>/<file>" and "<system>/<style>/<file>";
// a bumper is named after the rating it announces.
func (s *Scanner) scanRatingsBumpers(ctx context.Context, r *Report) error {
	for e, err := range Walk(filepath.Join(s.Root, FolderRatingsBumpers)) {
		if err != nil {
			r.Errors = append(r.Errors, err)
			continue
		}
		image, ok := bumperFile(e.Name)
		if !ok || len(e.Dirs) == 0 {
			continue
		}

		style := DefaultRatingStyle
		if len(e.Dirs) > 1 {
			style = e.Dirs[1]
		}
		err := s.putBumper(ctx, r, Bumper{
			Kind:     BumperRating,
			Category: e.Dirs[0],
			Style:    style,
			Name:     util.FileStem(e.Name),
			Path:     e.Path,
			Image:    image,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
