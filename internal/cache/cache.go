// Package cache persists the latest successful JSON payload per dashboard
// section in a local SQLite database, so the client can render last-known
// data when the backend is unreachable. A bounded history is kept per
// section to feed the parquet export.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	section    TEXT PRIMARY KEY,
	fetched_at INTEGER NOT NULL,
	payload    BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS snapshot_history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	section    TEXT NOT NULL,
	fetched_at INTEGER NOT NULL,
	payload    BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_section_time
	ON snapshot_history (section, fetched_at);
`

// Snapshot is one cached section payload.
type Snapshot struct {
	Section   string
	FetchedAt time.Time
	Payload   []byte
}

// Store is the SQLite-backed snapshot cache.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put records payload as the latest snapshot for section and appends it to
// the section's history.
func (s *Store) Put(ctx context.Context, section string, payload []byte) error {
	now := time.Now().UnixMilli()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (section, fetched_at, payload) VALUES (?, ?, ?)
		 ON CONFLICT(section) DO UPDATE SET fetched_at = excluded.fetched_at, payload = excluded.payload`,
		section, now, payload); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot_history (section, fetched_at, payload) VALUES (?, ?, ?)`,
		section, now, payload); err != nil {
		return err
	}
	return tx.Commit()
}

// Latest returns the most recent snapshot for section, or nil when no
// snapshot exists.
func (s *Store) Latest(ctx context.Context, section string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT fetched_at, payload FROM snapshots WHERE section = ?`, section)

	var fetchedAt int64
	var payload []byte
	if err := row.Scan(&fetchedAt, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &Snapshot{Section: section, FetchedAt: time.UnixMilli(fetchedAt), Payload: payload}, nil
}

// History returns the section's snapshots taken at or after since, oldest
// first.
func (s *Store) History(ctx context.Context, section string, since time.Time) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fetched_at, payload FROM snapshot_history
		 WHERE section = ? AND fetched_at >= ? ORDER BY fetched_at`,
		section, since.UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var fetchedAt int64
		var payload []byte
		if err := rows.Scan(&fetchedAt, &payload); err != nil {
			return nil, err
		}
		snaps = append(snaps, Snapshot{Section: section, FetchedAt: time.UnixMilli(fetchedAt), Payload: payload})
	}
	return snaps, rows.Err()
}

// Prune drops history entries older than before. The latest snapshot per
// section is never pruned.
func (s *Store) Prune(ctx context.Context, before time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM snapshot_history WHERE fetched_at < ?`, before.UnixMilli())
	return err
}
