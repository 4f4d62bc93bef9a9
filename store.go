package quill

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/oyalcin/quill/content"
)

// Store wraps a SQLite database holding the rendered post index. The
// markdown files stay the source of truth; this table is rebuilt by
// sync and exists so request handling never touches the filesystem.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the
// data directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write, busy_timeout so writers wait
	// instead of failing with SQLITE_BUSY, synchronous=NORMAL is safe
	// under WAL and avoids an fsync per transaction.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    publish_date TEXT NOT NULL,
    updated_date TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    series_name TEXT NOT NULL DEFAULT '',
    series_index INTEGER NOT NULL DEFAULT 0,
    cover_src TEXT NOT NULL DEFAULT '',
    cover_alt TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL,
    html TEXT NOT NULL,
    toc TEXT NOT NULL DEFAULT '[]',
    checksum TEXT NOT NULL DEFAULT '',
    draft INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_posts_series ON posts(series_name, series_index);

CREATE TABLE IF NOT EXISTS images (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

const postColumns = `slug, title, description, publish_date, updated_date, tags, category,
	series_name, series_index, cover_src, cover_alt, body, html, toc, checksum, draft`

// ListPosts returns posts ordered by publish date descending. Drafts
// are excluded unless includeDrafts is set. A non-empty tag filters to
// posts carrying that tag.
func (s *Store) ListPosts(tag string, includeDrafts bool) ([]Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`
	var args []any
	var conds []string
	if !includeDrafts {
		conds = append(conds, `draft = 0`)
	}
	if tag != "" {
		conds = append(conds, `instr(lower(tags), ',' || ? || ',') > 0`)
		args = append(args, strings.ToLower(strings.TrimSpace(tag)))
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY publish_date DESC, slug ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// ListAllPosts returns every post, drafts included (for admin).
func (s *Store) ListAllPosts() ([]Post, error) {
	return s.ListPosts("", true)
}

// ListTags returns a sorted, deduplicated slice of display tags across
// the visible posts. Series tags never appear here.
func (s *Store) ListTags(includeDrafts bool) ([]string, error) {
	query := `SELECT tags FROM posts`
	if !includeDrafts {
		query += ` WHERE draft = 0`
	}
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range splitTags(tags) {
			set[strings.ToLower(t)] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result := make([]string, 0, len(set))
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

// ListSeries returns the posts of a named series in index order.
func (s *Store) ListSeries(name string, includeDrafts bool) ([]Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE series_name = ?`
	if !includeDrafts {
		query += ` AND draft = 0`
	}
	query += ` ORDER BY series_index ASC, publish_date ASC`
	rows, err := s.db.Query(query, strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// GetPost returns a single post by slug. With includeDrafts false a
// draft behaves as if it does not exist.
func (s *Store) GetPost(slug string, includeDrafts bool) (Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE slug = ?`
	if !includeDrafts {
		query += ` AND draft = 0`
	}
	row := s.db.QueryRow(query, slug)
	return scanPost(row)
}

// GetPostAny returns a post by slug regardless of draft status (admin).
func (s *Store) GetPostAny(slug string) (Post, error) {
	return s.GetPost(slug, true)
}

// Checksums maps every indexed slug to its source checksum, for sync to
// detect unchanged and orphaned documents.
func (s *Store) Checksums() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT slug, checksum FROM posts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var slug, sum string
		if err := rows.Scan(&slug, &sum); err != nil {
			return nil, err
		}
		out[slug] = sum
	}
	return out, rows.Err()
}

// SavePost upserts a post. Tags are normalized to lowercase and stored
// comma-delimited with sentinel commas for the instr() tag filter.
func (s *Store) SavePost(p Post, checksum string) error {
	normalized := make([]string, len(p.Tags))
	for i, t := range p.Tags {
		normalized[i] = strings.ToLower(strings.TrimSpace(t))
	}
	tagString := "," + strings.Join(normalized, ",") + ","

	tocJSON, err := json.Marshal(p.TOC)
	if err != nil {
		return fmt.Errorf("encode toc for %s: %w", p.Slug, err)
	}

	var seriesName string
	var seriesIndex int
	if p.Series != nil {
		seriesName = p.Series.Name
		seriesIndex = p.Series.Index
	}
	var coverSrc, coverAlt string
	if p.Cover != nil {
		coverSrc, coverAlt = p.Cover.Src, p.Cover.Alt
	}
	updated := ""
	if !p.UpdatedDate.IsZero() {
		updated = p.UpdatedDate.UTC().Format(time.RFC3339)
	}
	draft := 0
	if p.Draft {
		draft = 1
	}

	_, err = s.db.Exec(`INSERT OR REPLACE INTO posts
		(slug, title, description, publish_date, updated_date, tags, category,
		 series_name, series_index, cover_src, cover_alt, body, html, toc, checksum, draft)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Title, p.Description, p.PublishDate.UTC().Format(time.RFC3339), updated,
		tagString, p.Category, seriesName, seriesIndex, coverSrc, coverAlt,
		p.Body, p.HTML, string(tocJSON), checksum, draft)
	return err
}

// DeletePost removes a post by slug.
func (s *Store) DeletePost(slug string) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE slug = ?`, slug)
	return err
}

// SaveImage records metadata for an uploaded image.
func (s *Store) SaveImage(img Image) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO images
		(filename, original_name, width, height, size, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt)
	return err
}

// ListImages returns uploaded images, newest first.
func (s *Store) ListImages() ([]Image, error) {
	rows, err := s.db.Query(`SELECT filename, original_name, width, height, size, uploaded_at
		FROM images ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteImage removes image metadata by filename.
func (s *Store) DeleteImage(filename string) error {
	_, err := s.db.Exec(`DELETE FROM images WHERE filename = ?`, filename)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (Post, error) {
	var p Post
	var publishDate, updatedDate, tags, seriesName, coverSrc, coverAlt, tocJSON string
	var seriesIndex, draft int
	err := row.Scan(&p.Slug, &p.Title, &p.Description, &publishDate, &updatedDate,
		&tags, &p.Category, &seriesName, &seriesIndex, &coverSrc, &coverAlt,
		&p.Body, &p.HTML, &tocJSON, new(string), &draft)
	if err != nil {
		return Post{}, err
	}

	if p.PublishDate, err = time.Parse(time.RFC3339, publishDate); err != nil {
		return Post{}, fmt.Errorf("bad publish_date for %s: %w", p.Slug, err)
	}
	if updatedDate != "" {
		if p.UpdatedDate, err = time.Parse(time.RFC3339, updatedDate); err != nil {
			return Post{}, fmt.Errorf("bad updated_date for %s: %w", p.Slug, err)
		}
	}
	p.Tags = splitTags(tags)
	if seriesName != "" {
		p.Series = &content.SeriesRef{Name: seriesName, Index: seriesIndex}
	}
	if coverSrc != "" {
		p.Cover = &content.CoverImage{Src: coverSrc, Alt: coverAlt}
	}
	if err := json.Unmarshal([]byte(tocJSON), &p.TOC); err != nil {
		return Post{}, fmt.Errorf("bad toc for %s: %w", p.Slug, err)
	}
	p.Draft = draft == 1
	p.Link = "/blog/" + p.Slug
	return p, nil
}

func scanPosts(rows *sql.Rows) ([]Post, error) {
	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// splitTags turns a sentinel-comma tag string (",go,web,") into a slice.
func splitTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
