package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure directories exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			unit TEXT NOT NULL,
			mode TEXT NOT NULL,
			status TEXT,
			created_at INTEGER,
			updated_at INTEGER,
			correct INTEGER DEFAULT 0,
			total INTEGER DEFAULT 0,
			metadata TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			word TEXT NOT NULL,
			expected TEXT,
			answer TEXT,
			correct INTEGER,
			created_at INTEGER,
			FOREIGN KEY(session_id) REFERENCES sessions(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_session ON attempts(session_id);`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Session Implementation

func (s *SQLiteStore) CreateSession(session *Session) error {
	metaJSON, err := json.Marshal(session.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = session.CreatedAt
	}

	query := `INSERT INTO sessions (id, unit, mode, status, created_at, updated_at, correct, total, metadata) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.Exec(query, session.ID, session.Unit, session.Mode, session.Status,
		session.CreatedAt.UnixMilli(), session.UpdatedAt.UnixMilli(), session.Correct, session.Total, string(metaJSON))
	return err
}

const sessionColumns = `id, unit, mode, status, created_at, updated_at, correct, total, metadata`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var session Session
	var created, updated int64
	var metaJSON sql.NullString
	if err := row.Scan(&session.ID, &session.Unit, &session.Mode, &session.Status,
		&created, &updated, &session.Correct, &session.Total, &metaJSON); err != nil {
		return nil, err
	}
	session.CreatedAt = time.UnixMilli(created)
	session.UpdatedAt = time.UnixMilli(updated)
	if metaJSON.Valid && metaJSON.String != "" {
		if err := json.Unmarshal([]byte(metaJSON.String), &session.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	return &session, nil
}

func (s *SQLiteStore) GetSession(id string) (*Session, error) {
	row := s.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session not found: %s", id)
		}
		return nil, err
	}
	return session, nil
}

func (s *SQLiteStore) UpdateSession(session *Session) error {
	metaJSON, err := json.Marshal(session.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	session.UpdatedAt = time.Now()

	query := `UPDATE sessions SET updated_at = ?, status = ?, correct = ?, total = ?, metadata = ? WHERE id = ?`
	res, err := s.db.Exec(query, session.UpdatedAt.UnixMilli(), session.Status, session.Correct, session.Total, string(metaJSON), session.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("session not found: %s", session.ID)
	}
	return nil
}

// ListSessions returns the most recent sessions first, limited to unit when it
// is not empty. A non-positive limit returns all.
func (s *SQLiteStore) ListSessions(unit string, limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT ` + sessionColumns + ` FROM sessions`
	var args []any
	if unit != "" {
		query += ` WHERE unit = ?`
		args = append(args, unit)
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// Attempt Implementation

func (s *SQLiteStore) RecordAttempt(attempt *Attempt) error {
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}
	query := `INSERT INTO attempts (session_id, word, expected, answer, correct, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := s.db.Exec(query, attempt.SessionID, attempt.Word, attempt.Expected, attempt.Answer, attempt.Correct, attempt.CreatedAt.UnixMilli())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	attempt.ID = id
	return nil
}

func (s *SQLiteStore) ListAttempts(sessionID string) ([]*Attempt, error) {
	query := `SELECT id, session_id, word, expected, answer, correct, created_at FROM attempts WHERE session_id = ? ORDER BY id`
	rows, err := s.db.Query(query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []*Attempt
	for rows.Next() {
		var a Attempt
		var created int64
		if err := rows.Scan(&a.ID, &a.SessionID, &a.Word, &a.Expected, &a.Answer, &a.Correct, &created); err != nil {
			return nil, err
		}
		a.CreatedAt = time.UnixMilli(created)
		attempts = append(attempts, &a)
	}
	return attempts, rows.Err()
}
