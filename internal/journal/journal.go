// Package journal records gesture mouse sessions and the actions dispatched
// in them to a SQLite database.
package journal

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested session does not exist.
var ErrNotFound = errors.New("not found")

// Journal represents a SQLite database connection for the action journal.
type Journal struct {
	db   *sql.DB
	path string
}

// Open opens or creates the journal at dbPath.
// It enables foreign keys and runs migrations.
func Open(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	j := &Journal{
		db:   db,
		path: dbPath,
	}

	if err := j.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// DB returns the underlying database connection.
func (j *Journal) DB() *sql.DB {
	return j.db
}

// Path returns the database path.
func (j *Journal) Path() string {
	return j.path
}
