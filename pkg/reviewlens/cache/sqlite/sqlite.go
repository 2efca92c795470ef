// Package sqlite is a cache.Store backed by a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/reviewlens/pkg/reviewlens/cache"
)

// Store implements cache.Store.
type Store struct {
	db *sql.DB
}

var _ cache.Store = (*Store)(nil)

// Open opens (or creates) a cache database with WAL mode enabled.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS cache_entries (
	key TEXT PRIMARY KEY,
	payload BLOB NOT NULL,
	created_at INTEGER NOT NULL
);`)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get implements cache.Store.
func (s *Store) Get(ctx context.Context, key string) (cache.Entry, bool, error) {
	var payload []byte
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, created_at FROM cache_entries WHERE key = ?`, key,
	).Scan(&payload, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return cache.Entry{}, false, nil
	}
	if err != nil {
		return cache.Entry{}, false, err
	}
	return cache.Entry{Key: key, Payload: payload, CreatedAt: time.Unix(0, created).UTC()}, true, nil
}

// Put implements cache.Store. An existing entry is replaced.
func (s *Store) Put(ctx context.Context, e cache.Entry) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO cache_entries(key, payload, created_at) VALUES(?, ?, ?)
ON CONFLICT(key) DO UPDATE SET payload=excluded.payload, created_at=excluded.created_at;`,
		e.Key, e.Payload, e.CreatedAt.UnixNano())
	return err
}

// Delete implements cache.Store.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key)
	return err
}

// Purge removes entries created before cutoff and reports how many went.
func (s *Store) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE created_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
