// Package sqlite stores key-value pairs in a local sqlite database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/semver"
	_ "modernc.org/sqlite"

	"github.com/mpapenbr/trackroll/log"
	"github.com/mpapenbr/trackroll/pkg/storage"
)

const versionKey = "__written_by"

var _ storage.Store = (*Store)(nil)

type (
	Option func(*Store)
	Store  struct {
		db         *sql.DB
		appVersion string
		l          *log.Logger
	}
)

// WithAppVersion records the version of the application writing the file.
// Opening a file written by a newer version logs a warning.
func WithAppVersion(v string) Option {
	return func(s *Store) {
		s.appVersion = v
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.l = l
	}
}

// DefaultPath returns the database location inside the user config directory.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}
	return filepath.Join(configDir, "trackroll", "prefs.db")
}

func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	s := &Store{l: log.Default().Named("storage.sqlite")}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps writes serialized
	db.SetMaxOpenConns(1)
	s.db = db
	if err := s.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	s.l.Debug("store opened", log.String("path", path))
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	if s.appVersion == "" {
		return nil
	}
	s.checkVersion(ctx)
	return s.Set(ctx, versionKey, s.appVersion)
}

func (s *Store) checkVersion(ctx context.Context) {
	stored, err := s.Get(ctx, versionKey)
	if err != nil {
		return
	}
	if newer(stored, s.appVersion) {
		s.l.Warn("preferences were written by a newer version",
			log.String("stored", stored),
			log.String("running", s.appVersion))
	}
}

// newer reports whether a is a newer semantic version than b.
// Invalid versions are never newer.
func newer(a, b string) bool {
	norm := func(v string) string {
		if !strings.HasPrefix(v, "v") {
			return "v" + v
		}
		return v
	}
	a, b = norm(a), norm(b)
	if !semver.IsValid(a) || !semver.IsValid(b) {
		return false
	}
	return semver.Compare(a, b) > 0
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).
		Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
