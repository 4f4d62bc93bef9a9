package stats

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const dayFormat = "2006-01-02"

// Store keeps view counters in their own SQLite database, separate from
// the post index so stats churn never contends with page rendering.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the stats database at path.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open stats db: %w", err)
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("ensure stats schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS page_views (
    slug TEXT NOT NULL,
    day TEXT NOT NULL,
    hits INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (slug, day)
);

CREATE TABLE IF NOT EXISTS daily_visitors (
    slug TEXT NOT NULL,
    day TEXT NOT NULL,
    visitor TEXT NOT NULL,
    PRIMARY KEY (slug, day, visitor)
);

CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`)
	return err
}

// Record counts one view of slug by the reader behind ip/userAgent.
// Repeat views by the same visitor on the same day are ignored.
func (s *Store) Record(slug, ip, userAgent string) error {
	day := time.Now().UTC().Format(dayFormat)
	visitor := visitorHash(ip, userAgent, day)

	res, err := s.db.Exec(`INSERT OR IGNORE INTO daily_visitors (slug, day, visitor) VALUES (?, ?, ?)`,
		slug, day, visitor)
	if err != nil {
		return fmt.Errorf("record visitor: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Already counted today.
		return nil
	}

	_, err = s.db.Exec(`INSERT INTO page_views (slug, day, hits) VALUES (?, ?, 1)
		ON CONFLICT(slug, day) DO UPDATE SET hits = hits + 1`, slug, day)
	if err != nil {
		return fmt.Errorf("record view: %w", err)
	}
	return nil
}

// Totals returns the all-time view count per slug.
func (s *Store) Totals() (map[string]int64, error) {
	rows, err := s.db.Query(`SELECT slug, SUM(hits) FROM page_views GROUP BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := map[string]int64{}
	for rows.Next() {
		var slug string
		var hits int64
		if err := rows.Scan(&slug, &hits); err != nil {
			return nil, err
		}
		totals[slug] = hits
	}
	return totals, rows.Err()
}

// Cleanup deletes counters and visitor rows older than retentionDays.
func (s *Store) Cleanup(retentionDays int) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Format(dayFormat)
	if _, err := s.db.Exec(`DELETE FROM page_views WHERE day < ?`, cutoff); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM daily_visitors WHERE day < ?`, cutoff)
	return err
}

// StartCleanupScheduler runs Cleanup every interval until the returned
// stop function is called.
func (s *Store) StartCleanupScheduler(retentionDays int, interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				_ = s.Cleanup(retentionDays)
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()
	return func() { close(done) }
}

// GetSetting reads a settings value, returning "" when absent.
func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetSetting stores a settings value.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}
