package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Register driver
)

// DB wraps the sql.DB connection.
type DB struct {
	*sql.DB
}

// Init opens the database and runs migrations.
func Init(path string) (*DB, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	// Enable WAL mode for better concurrency and set busy timeout
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=30000;"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	d := &DB{db}
	// Enforce single connection to avoid SQLITE_BUSY errors during concurrent writes
	db.SetMaxOpenConns(1)

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return d, nil
}

// PruneCache removes cache entries older than the specified duration.
func (d *DB) PruneCache(olderThan time.Duration) error {
	// Format time compatible with SQLite DEFAULT CURRENT_TIMESTAMP (YYYY-MM-DD HH:MM:SS)
	deadline := time.Now().Add(-olderThan).UTC().Format("2006-01-02 15:04:05")
	_, err := d.Exec("DELETE FROM cache WHERE created_at < ?", deadline)
	return err
}

func (d *DB) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS persistent_state (
			key TEXT PRIMARY KEY,
			value TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS cache (
			key TEXT PRIMARY KEY,
			value BLOB,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
	}

	for _, q := range queries {
		if _, err := d.Exec(q); err != nil {
			return fmt.Errorf("exec error: %w query: %s", err, q)
		}
	}

	return nil
}
