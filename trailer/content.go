package trailer

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/preshow-cli/preshow/catalog"
	"github.com/preshow-cli/preshow/filesystem"
	"github.com/preshow-cli/preshow/log"
	"github.com/preshow-cli/preshow/util"
)

// ContentName is the name of the content folder provider.
const ContentName = "content"

// ContentSource offers the trailer files of the content folder. A trailer
// may come with a Kodi style .nfo file of the same name carrying its title,
// rating, genres and premiere date.
type ContentSource struct {
	Root string
}

// NewContentSource returns the provider reading root/Trailers.
func NewContentSource(contentRoot string) *ContentSource {
	return &ContentSource{Root: filepath.Join(contentRoot, catalog.FolderTrailers)}
}

func (*ContentSource) Name() string { return ContentName }

type movieNFO struct {
	XMLName   xml.Name `xml:"movie"`
	Title     string   `xml:"title"`
	MPAA      string   `xml:"mpaa"`
	Genres    []string `xml:"genre"`
	Premiered string   `xml:"premiered"`
	Year      int      `xml:"year"`
	Thumb     string   `xml:"thumb"`
}

func readNFO(path string) (movieNFO, bool) {
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return movieNFO{}, false
	}

	var nfo movieNFO
	if err := xml.Unmarshal(data, &nfo); err != nil {
		log.Warnf("bad nfo %s: %s", path, err)
		return movieNFO{}, false
	}
	return nfo, true
}

// contentID derives a stable record ID from the file path.
func contentID(path string) string {
	return ContentName + ":" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(filepath.ToSlash(path))).String()
}

// Fetch lists every trailer file. recent is ignored: the folder is cheap to
// read in full.
func (c *ContentSource) Fetch(ctx context.Context, _ bool) ([]catalog.Trailer, error) {
	var trailers []catalog.Trailer
	for e, err := range catalog.Walk(c.Root) {
		if err != nil {
			return trailers, providerErr(ContentName, "list", err)
		}
		if err := ctx.Err(); err != nil {
			return trailers, err
		}
		if !util.HasExtension(e.Name, util.VideoExtensions) {
			continue
		}

		t := catalog.Trailer{
			WID:    contentID(e.Path),
			Source: ContentName,
			Title:  util.FileStem(e.Name),
			URL:    e.Path,
		}
		if info, err := filesystem.API().Stat(e.Path); err == nil {
			t.Release = info.ModTime()
		}

		if nfo, ok := readNFO(strings.TrimSuffix(e.Path, filepath.Ext(e.Path)) + ".nfo"); ok {
			if nfo.Title != "" {
				t.Title = nfo.Title
			}
			t.Rating = nfo.MPAA
			t.Genres = nfo.Genres
			t.Thumb = nfo.Thumb
			if d, err := time.Parse(time.DateOnly, nfo.Premiered); err == nil {
				t.Release = d
			} else if nfo.Year > 0 {
				t.Release = time.Date(nfo.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
			}
		}

		trailers = append(trailers, t)
	}
	return trailers, nil
}

// ErrMissing is returned when a trailer file no longer exists.
var ErrMissing = errors.New("trailer file missing")

// Resolve returns the file path while the file exists.
func (c *ContentSource) Resolve(_ context.Context, t catalog.Trailer, _ string) (string, error) {
	exists, err := filesystem.API().Exists(t.URL)
	if err != nil {
		return "", providerErr(ContentName, "resolve", err)
	}
	if !exists {
		return "", providerErr(ContentName, "resolve", fmt.Errorf("%s: %w", t.URL, ErrMissing))
	}
	return t.URL, nil
}
