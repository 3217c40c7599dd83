// Package storage persists saved commands, query history, and the response
// cache in a local SQLite database.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Command is a saved shell command with a category.
type Command struct {
	ID          int64
	Command     string
	Category    string
	Description string
	CreatedAt   time.Time
}

// HistoryEntry records one AI query and its response.
type HistoryEntry struct {
	ID        int64
	Query     string
	Response  string
	Provider  string
	CreatedAt time.Time
}

// CacheEntry is one cached AI response.
type CacheEntry struct {
	ID        int64
	QueryHash string
	QueryText string
	Response  string
	Provider  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and initializes the
// schema. The parent directory is created if missing.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL keeps readers from blocking the occasional write
	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configuring database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS commands (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			command TEXT NOT NULL,
			category TEXT NOT NULL,
			description TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			response TEXT,
			provider TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS cache (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query_hash TEXT UNIQUE NOT NULL,
			query_text TEXT NOT NULL,
			response TEXT NOT NULL,
			provider TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			expires_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_commands_category ON commands(category)`,
		`CREATE INDEX IF NOT EXISTS idx_history_created ON history(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_cache_hash ON cache(query_hash)`,
		`CREATE INDEX IF NOT EXISTS idx_cache_expires ON cache(expires_at)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("initializing schema: %w", err)
		}
	}
	return nil
}

// --- Command operations ---

// SaveCommand stores a command and returns its ID.
func (s *Store) SaveCommand(command, category, description string) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO commands (command, category, description) VALUES (?, ?, ?)",
		command, category, description)
	if err != nil {
		return 0, fmt.Errorf("saving command: %w", err)
	}
	return res.LastInsertId()
}

// Commands returns saved commands, optionally filtered by category.
func (s *Store) Commands(category string) ([]Command, error) {
	var rows *sql.Rows
	var err error
	if category != "" {
		rows, err = s.db.Query(
			"SELECT id, command, category, description, created_at FROM commands WHERE category = ? ORDER BY created_at DESC",
			category)
	} else {
		rows, err = s.db.Query(
			"SELECT id, command, category, description, created_at FROM commands ORDER BY created_at DESC")
	}
	if err != nil {
		return nil, fmt.Errorf("querying commands: %w", err)
	}
	defer rows.Close()
	return scanCommands(rows)
}

// SearchCommands returns commands matching the keyword in the command text,
// category, or description.
func (s *Store) SearchCommands(keyword string) ([]Command, error) {
	like := "%" + keyword + "%"
	rows, err := s.db.Query(
		`SELECT id, command, category, description, created_at FROM commands
		 WHERE command LIKE ? OR category LIKE ? OR description LIKE ?
		 ORDER BY created_at DESC`,
		like, like, like)
	if err != nil {
		return nil, fmt.Errorf("searching commands: %w", err)
	}
	defer rows.Close()
	return scanCommands(rows)
}

// DeleteCommand removes a command by ID, reporting whether it existed.
func (s *Store) DeleteCommand(id int64) (bool, error) {
	res, err := s.db.Exec("DELETE FROM commands WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting command: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Categories returns the distinct categories in use.
func (s *Store) Categories() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT category FROM commands ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCommands(rows *sql.Rows) ([]Command, error) {
	var out []Command
	for rows.Next() {
		var c Command
		var desc sql.NullString
		if err := rows.Scan(&c.ID, &c.Command, &c.Category, &desc, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Description = desc.String
		out = append(out, c)
	}
	return out, rows.Err()
}

// --- History operations ---

// SaveHistory records a query/response pair.
func (s *Store) SaveHistory(query, response, provider string) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO history (query, response, provider) VALUES (?, ?, ?)",
		query, response, provider)
	if err != nil {
		return 0, fmt.Errorf("saving history: %w", err)
	}
	return res.LastInsertId()
}

// History returns the most recent entries, newest first.
func (s *Store) History(limit int) ([]HistoryEntry, error) {
	rows, err := s.db.Query(
		"SELECT id, query, response, provider, created_at FROM history ORDER BY created_at DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var h HistoryEntry
		var response, provider sql.NullString
		if err := rows.Scan(&h.ID, &h.Query, &response, &provider, &h.CreatedAt); err != nil {
			return nil, err
		}
		h.Response = response.String
		h.Provider = provider.String
		out = append(out, h)
	}
	return out, rows.Err()
}

// --- Cache operations ---

// GetCache returns the cache entry for a query hash, or nil if absent or
// expired. Expiry is checked here rather than in SQL so clock comparisons
// stay in one place.
func (s *Store) GetCache(queryHash string) (*CacheEntry, error) {
	row := s.db.QueryRow(
		"SELECT id, query_hash, query_text, response, provider, created_at, expires_at FROM cache WHERE query_hash = ?",
		queryHash)

	var e CacheEntry
	var provider sql.NullString
	if err := row.Scan(&e.ID, &e.QueryHash, &e.QueryText, &e.Response, &provider, &e.CreatedAt, &e.ExpiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying cache: %w", err)
	}
	e.Provider = provider.String

	if !e.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	return &e, nil
}

// SaveCache stores or replaces a cache entry.
func (s *Store) SaveCache(queryHash, queryText, response, provider string, expiresAt time.Time) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO cache (query_hash, query_text, response, provider, expires_at)
		 VALUES (?, ?, ?, ?, ?)`,
		queryHash, queryText, response, provider, expiresAt)
	if err != nil {
		return fmt.Errorf("saving cache: %w", err)
	}
	return nil
}

// CleanupExpiredCache removes expired entries, returning how many were
// deleted.
func (s *Store) CleanupExpiredCache() (int64, error) {
	res, err := s.db.Exec("DELETE FROM cache WHERE expires_at <= ?", time.Now())
	if err != nil {
		return 0, fmt.Errorf("cleaning cache: %w", err)
	}
	return res.RowsAffected()
}

// CacheCount returns the total number of cache entries.
func (s *Store) CacheCount() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM cache").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cache: %w", err)
	}
	return n, nil
}
