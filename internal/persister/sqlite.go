package persister

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema
const currentSchemaVersion = 1

// SQLite persists all cassettes as rows in a single SQLite database.
// Uses WAL mode for concurrent read access.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite creates or opens a cassette database at the given path.
// Applies required pragmas and the schema automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1) // Single writer to avoid SQLITE_BUSY errors
	db.SetMaxIdleConns(1) // Keep one connection ready

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using SQLite methods when available.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// Read returns the stored content for name. ok is false when no row
// exists or the stored content is empty.
func (s *SQLite) Read(name string) ([]byte, bool, error) {
	var content []byte
	err := s.db.QueryRow(`SELECT content FROM cassettes WHERE name = ?`, name).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cassette row: %w", err)
	}
	if len(content) == 0 {
		return nil, false, nil
	}
	return content, true, nil
}

// Write upserts the content for name and stamps updated_at.
// The upsert is a single statement, so a failed write never leaves a
// partially replaced row.
func (s *SQLite) Write(name string, content []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO cassettes (name, content, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			content = excluded.content,
			updated_at = excluded.updated_at
	`, name, content, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to write cassette row: %w", err)
	}
	return nil
}

// Stat returns the updated_at time for name. ok is false when no row
// exists.
func (s *SQLite) Stat(name string) (time.Time, bool, error) {
	var updatedAt int64
	err := s.db.QueryRow(`SELECT updated_at FROM cassettes WHERE name = ?`, name).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to stat cassette row: %w", err)
	}
	return time.Unix(updatedAt, 0), true, nil
}

// List returns the sorted names of all stored cassettes.
func (s *SQLite) List() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM cassettes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cassettes: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan cassette name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list cassettes: %w", err)
	}
	return names, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates the cassettes table if needed and stamps the
// schema version. Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}
