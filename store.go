package sitepress

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// BuildStore keeps a history of build reports in a SQLite database inside
// the cache directory. The history is advisory; losing it costs nothing.
type BuildStore struct {
	db *sql.DB
}

// BuildRecord is one persisted build summary.
type BuildRecord struct {
	ID             int64
	Started        time.Time
	Mode           string
	Duration       time.Duration
	Projects       int
	Pages          int
	Generated      int
	Fresh          int
	Fallbacks      int
	DeliveryMisses int
}

// NewBuildStore opens (or creates) the history database at path, ensures
// the directory exists, and runs schema setup.
func NewBuildStore(path string) (*BuildStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL so the dev server can read history while a build writes it;
	// busy_timeout makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	s := &BuildStore{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *BuildStore) Close() error {
	return s.db.Close()
}

func (s *BuildStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS builds (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    started TEXT NOT NULL,
    mode TEXT NOT NULL,
    duration_ms INTEGER NOT NULL,
    projects INTEGER NOT NULL,
    pages INTEGER NOT NULL,
    generated INTEGER NOT NULL,
    fresh INTEGER NOT NULL,
    fallbacks INTEGER NOT NULL,
    delivery_misses INTEGER NOT NULL
);
`)
	return err
}

// Record persists one build report.
func (s *BuildStore) Record(r *BuildReport) error {
	_, err := s.db.Exec(
		`INSERT INTO builds (started, mode, duration_ms, projects, pages, generated, fresh, fallbacks, delivery_misses)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Started.UTC().Format(time.RFC3339),
		modeName(r.Mode),
		r.Duration.Milliseconds(),
		r.Projects,
		r.PagesWritten,
		r.Images.Generated,
		r.Images.Fresh,
		len(r.Images.Failures),
		r.Images.DeliveryMisses,
	)
	if err != nil {
		return fmt.Errorf("record build: %w", err)
	}
	return nil
}

// Recent returns up to n of the latest build records, newest first.
func (s *BuildStore) Recent(n int) ([]BuildRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, started, mode, duration_ms, projects, pages, generated, fresh, fallbacks, delivery_misses
		 FROM builds ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []BuildRecord
	for rows.Next() {
		var rec BuildRecord
		var started string
		var durMS int64
		if err := rows.Scan(&rec.ID, &started, &rec.Mode, &durMS, &rec.Projects, &rec.Pages,
			&rec.Generated, &rec.Fresh, &rec.Fallbacks, &rec.DeliveryMisses); err != nil {
			return nil, err
		}
		rec.Started, _ = time.Parse(time.RFC3339, started)
		rec.Duration = time.Duration(durMS) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}
