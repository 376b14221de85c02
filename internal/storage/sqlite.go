package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	_ "modernc.org/sqlite"

	"github.com/bethropolis/tidetext/internal/logger"
)

// SQLiteScheme is the path prefix routed to the SQLite document store.
const SQLiteScheme = "db:"

const documentsSchema = `
CREATE TABLE IF NOT EXISTS documents (
    name       TEXT PRIMARY KEY,
    content    TEXT NOT NULL,
    updated_at INTEGER NOT NULL  -- UnixNano
);
`

// SQLiteStorage keeps named documents in a SQLite database.
type SQLiteStorage struct {
	db *sql.DB
}

// OpenSQLiteStorage opens (creating if needed) the database at dbPath.
func OpenSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	dsn := dbPath +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(documentsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.DebugTagf("storage", "SQLiteStorage: opened %s", dbPath)
	return &SQLiteStorage{db: db}, nil
}

// Load returns the content stored under name.
func (s *SQLiteStorage) Load(name string) (string, error) {
	var content string
	err := s.db.QueryRow("SELECT content FROM documents WHERE name = ?", name).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", loadError(name, ErrNotFound)
	}
	if err != nil {
		return "", loadError(name, err)
	}
	if !utf8.ValidString(content) {
		return "", loadError(name, errInvalidUTF8)
	}
	return content, nil
}

// Save upserts content under name.
func (s *SQLiteStorage) Save(name, content string) error {
	if name == "" {
		return saveError(name, errors.New("document name is empty"))
	}
	_, err := s.db.Exec(`
		INSERT INTO documents (name, content, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		name, content, time.Now().UnixNano())
	if err != nil {
		return saveError(name, err)
	}
	logger.DebugTagf("storage", "SQLiteStorage: saved %q (%d bytes)", name, len(content))
	return nil
}

// Names lists stored document names in order.
func (s *SQLiteStorage) Names() ([]string, error) {
	rows, err := s.db.Query("SELECT name FROM documents ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
