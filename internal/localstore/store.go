// Package localstore provides the on-device durable key-value storage used
// for the demo-mode flag, the settings cache, the demo child list, and the
// auth token cache. Keys are store-specific and never shared across stores.
package localstore

import (
	"context"
	"database/sql"
	"fmt"

	"brightsteps/internal/database"
)

// Store is a durable key-value store backed by SQLite
type Store struct {
	db *database.DB
}

// Open creates (or reuses) the key-value database at the given path
func Open(path string) (*Store, error) {
	db, err := database.Initialize(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	return NewStore(db)
}

// NewStore wraps an existing database connection, creating the kv table if
// it doesn't exist
func NewStore(db *database.DB) (*Store, error) {
	query := `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}
	return &Store{db: db}, nil
}

// Get retrieves a value by key. The second return is false when the key is
// absent.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	query := "SELECT value FROM kv WHERE key = ?"
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return value, true, nil
}

// Set updates or inserts a value
func (s *Store) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Remove deletes a key. Removing an absent key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	query := "DELETE FROM kv WHERE key = ?"
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
