package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS local_storage (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

var _ Repo = (*SQLiteRepo)(nil)

// SQLiteRepo keeps local storage in a single SQLite file.
type SQLiteRepo struct {
	db      *sql.DB
	nowTime func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteRepo, error) {
	if path == "" {
		return nil, fmt.Errorf("[OpenSQLite] database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("[OpenSQLite] create folder: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("[OpenSQLite] open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, stmt := range []string{"PRAGMA busy_timeout=5000", "PRAGMA journal_mode=WAL", createTableSQL} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("[OpenSQLite] %q: %w", stmt, err)
		}
	}
	return &SQLiteRepo{db: db, nowTime: time.Now}, nil
}

func (r *SQLiteRepo) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM local_storage WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("[SQLiteRepo Get] %s: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepo) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, r.nowTime().UnixMilli())
	if err != nil {
		return fmt.Errorf("[SQLiteRepo Set] %s: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepo) Remove(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("[SQLiteRepo Remove] begin: %w", err)
	}
	for _, key := range keys {
		if _, err := tx.Exec(`DELETE FROM local_storage WHERE key = ?`, key); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("[SQLiteRepo Remove] %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("[SQLiteRepo Remove] commit: %w", err)
	}
	return nil
}

func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}
