// Package store persists items, tags, and batch records in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when an item does not exist or belongs to a
// different owner. Callers cannot tell the two cases apart.
var ErrNotFound = errors.New("item not found")

type Store struct {
	db   *sql.DB
	path string
}

// openDB opens a SQLite database at the given path.
func openDB(dbPath string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; one pooled connection avoids
	// SQLITE_BUSY under the concurrent batch workers.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return sqlDB, nil
}

// Open opens or creates the SQLite database at dbPath and makes sure the
// schema exists.
func Open(dbPath string) (*Store, error) {
	sqlDB, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	s := &Store{db: sqlDB, path: dbPath}
	if err := s.ensureSchemaExists(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// ensureSchemaExists checks for the items table and initializes the schema
// when it is missing.
func (s *Store) ensureSchemaExists() error {
	var tableName string
	err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='items'").Scan(&tableName)

	if errors.Is(err, sql.ErrNoRows) {
		return s.InitSchema()
	}
	if err != nil {
		return fmt.Errorf("failed to check schema: %w", err)
	}

	return nil
}

// InitSchema initializes the database schema.
func (s *Store) InitSchema() error {
	_, err := s.db.Exec(schema)
	return err
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return s.db.Close()
}
