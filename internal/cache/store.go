package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ashutoshmjain/avim/internal/clip"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS transcriptions (
		key TEXT PRIMARY KEY,
		audioPath TEXT NOT NULL,
		clips TEXT NOT NULL,
		createdAt REAL NOT NULL
	);
`

// Store provides access to the transcription cache database.
type Store struct {
	db *sql.DB
}

// DefaultDBPath returns the cache database path under dir, or under the
// platform cache directory when dir is empty.
func DefaultDBPath(dir string) string {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		dir = filepath.Join(base, "avim")
	}
	return filepath.Join(dir, "cache.sqlite")
}

// Open opens (creating if needed) the cache database with WAL.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the cached clips for the audio file at path. A missing entry is
// reported as ok=false with no error.
func (s *Store) Load(path string) ([]clip.Clip, bool, error) {
	canonical, err := CanonicalPath(path)
	if err != nil {
		return nil, false, err
	}
	entry, err := s.Entry(Key(canonical))
	if err != nil || entry == nil {
		return nil, false, err
	}
	return entry.Clips, true, nil
}

// Save writes clips as the cache entry for the audio file at path, replacing
// any previous entry.
func (s *Store) Save(path string, clips []clip.Clip) error {
	canonical, err := CanonicalPath(path)
	if err != nil {
		return err
	}
	data, err := json.Marshal(clips)
	if err != nil {
		return fmt.Errorf("marshal clips: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO transcriptions (key, audioPath, clips, createdAt)
		VALUES (?, ?, ?, ?)
	`, Key(canonical), canonical, string(data), unixFromTime(time.Now()))
	if err != nil {
		return fmt.Errorf("insert transcription: %w", err)
	}
	return nil
}

// Entry returns the entry for key, or nil if there is none.
func (s *Store) Entry(key string) (*Entry, error) {
	row := s.db.QueryRow(`
		SELECT key, audioPath, clips, createdAt
		FROM transcriptions
		WHERE key = ?
	`, key)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// Entries returns every cached entry, newest first.
func (s *Store) Entries() ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT key, audioPath, clips, createdAt
		FROM transcriptions
		ORDER BY createdAt DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query transcriptions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var e Entry
	var data string
	var createdAt float64
	if err := row.Scan(&e.Key, &e.AudioPath, &data, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan transcription: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &e.Clips); err != nil {
		return nil, fmt.Errorf("decode cached clips: %w", err)
	}
	e.CreatedAt = timeFromUnix(createdAt)
	return &e, nil
}

func unixFromTime(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
