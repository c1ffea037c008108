package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteBucket stores serialized collections in a single key-value table.
type SQLiteBucket struct {
	db *sql.DB
}

// NewSQLiteBucket opens (or creates) the database file and initializes the
// schema.
func NewSQLiteBucket(dataSourceName string) (*SQLiteBucket, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	// WAL keeps readers unblocked during the ledger's background writes.
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	s := &SQLiteBucket{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("could not initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteBucket) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS buckets (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Read returns the serialized collection stored under key.
func (s *SQLiteBucket) Read(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM buckets WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read bucket %s: %w", key, err)
	}
	return []byte(value), nil
}

// Write upserts the serialized collection stored under key.
func (s *SQLiteBucket) Write(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO buckets (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(value),
	)
	if err != nil {
		return fmt.Errorf("failed to write bucket %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteBucket) Close() error {
	return s.db.Close()
}
