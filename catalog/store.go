package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/preshow-cli/preshow/filesystem"
	_ "modernc.org/sqlite"
)

// Store is the catalog backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the catalog database at path.
func Open(path string) (*Store, error) {
	if err := filesystem.API().MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure database dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Path is the database file.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func orderClause(o Order, pathColumn string) string {
	switch o {
	case OrderAccessed:
		return " ORDER BY accessed"
	case OrderPath:
		return " ORDER BY " + pathColumn
	case OrderNewest:
		return " ORDER BY release DESC, date"
	default:
		return " ORDER BY RANDOM()"
	}
}

const triviaColumns = "id, tid, name, type, rating, question_path, clue_paths, answer_path, duration_ms, accessed"

func scanTrivia(scanner interface{ Scan(dest ...any) error }) (Trivia, error) {
	var (
		t        Trivia
		typ      string
		rating   sql.NullString
		question sql.NullString
		clues    sql.NullString
		duration int64
		accessed int64
	)
	if err := scanner.Scan(&t.ID, &t.TID, &t.Name, &typ, &rating, &question, &clues, &t.Answer, &duration, &accessed); err != nil {
		return Trivia{}, err
	}

	t.Type = TriviaType(typ)
	t.Rating = rating.String
	t.Question = question.String
	if clues.Valid && clues.String != "" {
		if err := json.Unmarshal([]byte(clues.String), &t.Clues); err != nil {
			return Trivia{}, fmt.Errorf("decode clue paths of %s: %w", t.TID, err)
		}
	}
	t.Duration = time.Duration(duration) * time.Millisecond
	t.Accessed = fromUnix(accessed)
	return t, nil
}

// Trivia lists trivia matching q.
func (s *Store) Trivia(ctx context.Context, q TriviaQuery) ([]Trivia, error) {
	query := "SELECT " + triviaColumns + " FROM trivia WHERE 1=1"
	var args []any
	if q.Dir != "" {
		query += " AND instr(answer_path, ?) > 0"
		args = append(args, q.Dir)
	}
	if !q.AccessedBefore.IsZero() {
		query += " AND accessed < ?"
		args = append(args, q.AccessedBefore.Unix())
	}
	if !q.AccessedSince.IsZero() {
		query += " AND accessed >= ?"
		args = append(args, q.AccessedSince.Unix())
	}
	query += orderClause(q.Order, "answer_path")

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, lookupErr("trivia", err)
	}
	defer rows.Close()

	var out []Trivia
	for rows.Next() {
		t, err := scanTrivia(rows)
		if err != nil {
			return nil, lookupErr("trivia", err)
		}
		out = append(out, t)
	}
	return out, lookupErr("trivia", rows.Err())
}

// MarkAccessed records when the trivia tid was last shown.
func (s *Store) MarkAccessed(ctx context.Context, tid string, at time.Time) error {
	res, err := s.exec(ctx, "UPDATE trivia SET accessed = ? WHERE tid = ?", at.Unix(), tid)
	if err != nil {
		return lookupErr("mark accessed", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return lookupErr("mark accessed", fmt.Errorf("trivia %q: %w", tid, ErrNotFound))
	}
	return nil
}

// PutTrivia adds t unless its answer path is known.
func (s *Store) PutTrivia(ctx context.Context, t Trivia) error {
	var clues any
	if len(t.Clues) > 0 {
		data, err := json.Marshal(t.Clues)
		if err != nil {
			return fmt.Errorf("encode clue paths: %w", err)
		}
		clues = string(data)
	}

	_, err := s.exec(ctx,
		`INSERT INTO trivia (tid, name, type, rating, question_path, clue_paths, answer_path, duration_ms, accessed)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT DO NOTHING`,
		t.TID, t.Name, string(t.Type), nullableString(t.Rating), nullableString(t.Question),
		clues, t.Answer, t.Duration.Milliseconds(), toUnix(t.Accessed),
	)
	if err != nil {
		return fmt.Errorf("insert trivia %s: %w", t.TID, err)
	}
	return nil
}

// Songs lists every song.
func (s *Store) Songs(ctx context.Context) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, path, duration_ms FROM songs ORDER BY RANDOM()")
	if err != nil {
		return nil, lookupErr("songs", err)
	}
	defer rows.Close()

	var out []Song
	for rows.Next() {
		var (
			song     Song
			duration int64
		)
		if err := rows.Scan(&song.ID, &song.Name, &song.Path, &duration); err != nil {
			return nil, lookupErr("songs", err)
		}
		song.Duration = time.Duration(duration) * time.Millisecond
		out = append(out, song)
	}
	return out, lookupErr("songs", rows.Err())
}

// PutSong adds a song unless its path is known.
func (s *Store) PutSong(ctx context.Context, song Song) error {
	_, err := s.exec(ctx,
		"INSERT INTO songs (name, path, duration_ms) VALUES (?, ?, ?) ON CONFLICT(path) DO NOTHING",
		song.Name, song.Path, song.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert song %s: %w", song.Path, err)
	}
	return nil
}

// Slides lists slideshow slides matching q.
func (s *Store) Slides(ctx context.Context, q SlideQuery) ([]Slide, error) {
	query := "SELECT id, tid, name, path, is_video, duration_ms FROM slides"
	var args []any
	if q.Dir != "" {
		query += " WHERE instr(path, ?) > 0"
		args = append(args, q.Dir)
	}
	if q.Order == OrderRandom {
		query += orderClause(OrderRandom, "")
	} else {
		query += orderClause(OrderPath, "path")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, lookupErr("slides", err)
	}
	defer rows.Close()

	var out []Slide
	for rows.Next() {
		var (
			slide    Slide
			video    int
			duration int64
		)
		if err := rows.Scan(&slide.ID, &slide.TID, &slide.Name, &slide.Path, &video, &duration); err != nil {
			return nil, lookupErr("slides", err)
		}
		slide.Video = video != 0
		slide.Duration = time.Duration(duration) * time.Millisecond
		out = append(out, slide)
	}
	return out, lookupErr("slides", rows.Err())
}

// PutSlide adds a slide unless its path is known.
func (s *Store) PutSlide(ctx context.Context, slide Slide) error {
	_, err := s.exec(ctx,
		"INSERT INTO slides (tid, name, path, is_video, duration_ms) VALUES (?, ?, ?, ?, ?) ON CONFLICT DO NOTHING",
		slide.TID, slide.Name, slide.Path, boolToInt(slide.Video), slide.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert slide %s: %w", slide.Path, err)
	}
	return nil
}

// Bumpers lists bumpers matching q.
func (s *Store) Bumpers(ctx context.Context, q BumperQuery) ([]Bumper, error) {
	query := "SELECT id, kind, category, style, name, path, is_image FROM bumpers WHERE 1=1"
	var args []any
	add := func(column, value string) {
		if value != "" {
			query += " AND " + column + " = ? COLLATE NOCASE"
			args = append(args, value)
		}
	}
	add("kind", string(q.Kind))
	add("category", q.Category)
	add("name", q.Name)
	add("style", q.Style)
	if image, ok := q.Image.Get(); ok {
		query += " AND is_image = ?"
		args = append(args, boolToInt(image))
	}
	query += " ORDER BY path"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, lookupErr("bumpers", err)
	}
	defer rows.Close()

	var out []Bumper
	for rows.Next() {
		var (
			b     Bumper
			kind  string
			style sql.NullString
			image int
		)
		if err := rows.Scan(&b.ID, &kind, &b.Category, &style, &b.Name, &b.Path, &image); err != nil {
			return nil, lookupErr("bumpers", err)
		}
		b.Kind = BumperKind(kind)
		b.Style = style.String
		b.Image = image != 0
		out = append(out, b)
	}
	return out, lookupErr("bumpers", rows.Err())
}

// RatingStyles lists the styles of the rating bumpers.
func (s *Store) RatingStyles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT style FROM bumpers WHERE kind = ? AND style IS NOT NULL ORDER BY style",
		string(BumperRating),
	)
	if err != nil {
		return nil, lookupErr("rating styles", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var style string
		if err := rows.Scan(&style); err != nil {
			return nil, lookupErr("rating styles", err)
		}
		out = append(out, style)
	}
	return out, lookupErr("rating styles", rows.Err())
}

// PutBumper adds a bumper unless its path is known.
func (s *Store) PutBumper(ctx context.Context, b Bumper) error {
	_, err := s.exec(ctx,
		"INSERT INTO bumpers (kind, category, style, name, path, is_image) VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT(path) DO NOTHING",
		string(b.Kind), b.Category, nullableString(b.Style), b.Name, b.Path, boolToInt(b.Image),
	)
	if err != nil {
		return fmt.Errorf("insert bumper %s: %w", b.Path, err)
	}
	return nil
}

const trailerColumns = "id, wid, source, title, rating, genres, url, user_agent, thumb, release, date, watched, broken, verified"

func scanTrailer(scanner interface{ Scan(dest ...any) error }) (Trailer, error) {
	var (
		t                         Trailer
		rating, genres, url       sql.NullString
		userAgent, thumb          sql.NullString
		release, date             int64
		watched, broken, verified int
	)
	if err := scanner.Scan(&t.ID, &t.WID, &t.Source, &t.Title, &rating, &genres, &url, &userAgent, &thumb,
		&release, &date, &watched, &broken, &verified); err != nil {
		return Trailer{}, err
	}

	t.Rating = rating.String
	if genres.String != "" {
		t.Genres = strings.Split(genres.String, ",")
	}
	t.URL = url.String
	t.UserAgent = userAgent.String
	t.Thumb = thumb.String
	t.Release = fromUnix(release)
	t.Date = fromUnix(date)
	t.Watched = watched != 0
	t.Broken = broken != 0
	t.Verified = verified != 0
	return t, nil
}

// Trailers lists the unbroken trailers of a source.
func (s *Store) Trailers(ctx context.Context, q TrailerQuery) ([]Trailer, error) {
	query := "SELECT " + trailerColumns + " FROM trailers WHERE source = ? AND broken = 0 AND watched = ?"
	if q.Order == OrderNewest {
		query += orderClause(OrderNewest, "")
	} else {
		query += orderClause(OrderRandom, "")
	}

	rows, err := s.db.QueryContext(ctx, query, q.Source, boolToInt(q.Watched))
	if err != nil {
		return nil, lookupErr("trailers", err)
	}
	defer rows.Close()

	var out []Trailer
	for rows.Next() {
		t, err := scanTrailer(rows)
		if err != nil {
			return nil, lookupErr("trailers", err)
		}
		out = append(out, t)
	}
	return out, lookupErr("trailers", rows.Err())
}

// UpdateTrailer saves the playback state of t.
func (s *Store) UpdateTrailer(ctx context.Context, t Trailer) error {
	res, err := s.exec(ctx,
		"UPDATE trailers SET url = ?, watched = ?, date = ?, broken = ? WHERE wid = ?",
		nullableString(t.URL), boolToInt(t.Watched), toUnix(t.Date), boolToInt(t.Broken), t.WID,
	)
	if err != nil {
		return lookupErr("update trailer", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return lookupErr("update trailer", fmt.Errorf("trailer %q: %w", t.WID, ErrNotFound))
	}
	return nil
}

// PutTrailer adds t or verifies the known record with its WID.
func (s *Store) PutTrailer(ctx context.Context, t Trailer) (bool, error) {
	res, err := s.exec(ctx,
		"UPDATE trailers SET verified = 1, watched = MAX(watched, ?) WHERE wid = ?",
		boolToInt(t.Watched), t.WID,
	)
	if err != nil {
		return false, fmt.Errorf("verify trailer %s: %w", t.WID, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}

	_, err = s.exec(ctx,
		`INSERT INTO trailers (wid, source, title, rating, genres, url, user_agent, thumb, release, date, watched, broken, verified)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 1)`,
		t.WID, t.Source, t.Title, nullableString(t.Rating), nullableString(strings.Join(t.Genres, ",")),
		nullableString(t.URL), nullableString(t.UserAgent), nullableString(t.Thumb),
		toUnix(t.Release), toUnix(t.Date), boolToInt(t.Watched),
	)
	if err != nil {
		return false, fmt.Errorf("insert trailer %s: %w", t.WID, err)
	}
	return true, nil
}

// UnverifyTrailers clears the verified flag of every trailer of source.
func (s *Store) UnverifyTrailers(ctx context.Context, source string) error {
	if _, err := s.exec(ctx, "UPDATE trailers SET verified = 0 WHERE source = ?", source); err != nil {
		return fmt.Errorf("unverify %s trailers: %w", source, err)
	}
	return nil
}

// RemoveTrailers deletes stale trailers of source.
func (s *Store) RemoveTrailers(ctx context.Context, source string, unverified bool, releasedBefore time.Time) (int, error) {
	removed := 0
	if unverified {
		res, err := s.exec(ctx, "DELETE FROM trailers WHERE source = ? AND verified = 0", source)
		if err != nil {
			return removed, fmt.Errorf("remove unverified %s trailers: %w", source, err)
		}
		n, _ := res.RowsAffected()
		removed += int(n)
	}
	if !releasedBefore.IsZero() {
		res, err := s.exec(ctx, "DELETE FROM trailers WHERE source = ? AND release < ?", source, releasedBefore.Unix())
		if err != nil {
			return removed, fmt.Errorf("remove old %s trailers: %w", source, err)
		}
		n, _ := res.RowsAffected()
		removed += int(n)
	}
	return removed, nil
}

// Prune deletes songs, trivia, slides and bumpers whose path keep rejects.
func (s *Store) Prune(ctx context.Context, keep func(path string) bool) (int, error) {
	tables := []struct{ table, column string }{
		{"songs", "path"},
		{"trivia", "answer_path"},
		{"slides", "path"},
		{"bumpers", "path"},
	}

	removed := 0
	for _, t := range tables {
		rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT id, %s FROM %s", t.column, t.table))
		if err != nil {
			return removed, fmt.Errorf("list %s: %w", t.table, err)
		}

		var stale []int64
		for rows.Next() {
			var (
				id   int64
				path string
			)
			if err := rows.Scan(&id, &path); err != nil {
				rows.Close()
				return removed, fmt.Errorf("scan %s: %w", t.table, err)
			}
			if !keep(path) {
				stale = append(stale, id)
			}
		}
		rows.Close()

		for _, id := range stale {
			if _, err := s.exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.table), id); err != nil {
				return removed, fmt.Errorf("delete from %s: %w", t.table, err)
			}
			removed++
		}
	}
	return removed, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func fromUnix(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(v, 0)
}
