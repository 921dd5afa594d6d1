// Package persist writes store snapshots to SQLite. Each logical store is
// one row, rewritten wholesale on every flush; there are no incremental
// updates and no migrations beyond table creation.
package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNoSnapshot is returned when a store has never been persisted.
var ErrNoSnapshot = errors.New("no snapshot stored")

// DB wraps the snapshot database.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the snapshot database at path.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS snapshots (
		store TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		saved_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}

// SaveSnapshot replaces the stored payload for a store.
func (d *DB) SaveSnapshot(ctx context.Context, store string, payload []byte) error {
	const query = `INSERT INTO snapshots (store, payload, saved_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(store) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`
	if _, err := d.db.ExecContext(ctx, query, store, string(payload)); err != nil {
		return fmt.Errorf("save snapshot %q: %w", store, err)
	}
	return nil
}

// LoadSnapshot returns the stored payload for a store.
func (d *DB) LoadSnapshot(ctx context.Context, store string) ([]byte, error) {
	const query = `SELECT payload FROM snapshots WHERE store = ?`
	var payload string
	err := d.db.QueryRowContext(ctx, query, store).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", store, err)
	}
	return []byte(payload), nil
}

// Stores lists the store names that have a snapshot.
func (d *DB) Stores(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT store FROM snapshots ORDER BY store`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
