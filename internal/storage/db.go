package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"millex/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS snapshots (
  sourceId TEXT PRIMARY KEY,
  path TEXT NOT NULL,
  hash TEXT NOT NULL,
  fetchedAt TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// UpsertSnapshot records where the payload for a source currently lives.
// Last writer wins; concurrent refreshes of the same source are harmless.
func (d *DB) UpsertSnapshot(snap internal.Snapshot) error {
	_, err := d.conn.Exec(`
INSERT INTO snapshots (sourceId, path, hash, fetchedAt)
VALUES (?, ?, ?, ?)
ON CONFLICT(sourceId) DO UPDATE SET
  path=excluded.path,
  hash=excluded.hash,
  fetchedAt=excluded.fetchedAt
`, snap.SourceID, snap.Path, snap.Hash, snap.FetchedAt.UTC().Format(time.RFC3339))
	return err
}

func (d *DB) GetSnapshot(sourceID string) (*internal.Snapshot, error) {
	var snap internal.Snapshot
	var fetchedAt string
	err := d.conn.QueryRow(`
SELECT sourceId, path, hash, fetchedAt FROM snapshots WHERE sourceId = ?
`, sourceID).Scan(&snap.SourceID, &snap.Path, &snap.Hash, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	snap.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (d *DB) ListSnapshots() ([]internal.Snapshot, error) {
	rows, err := d.conn.Query(`SELECT sourceId, path, hash, fetchedAt FROM snapshots ORDER BY sourceId`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Snapshot
	for rows.Next() {
		var snap internal.Snapshot
		var fetchedAt string
		if err := rows.Scan(&snap.SourceID, &snap.Path, &snap.Hash, &fetchedAt); err != nil {
			return nil, err
		}
		if snap.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt); err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
