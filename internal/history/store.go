// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists chat sessions and their analyses in SQLite so
// a follow-up question can see what the conversation already covered.
// The store is constructor-injected and owns its database handle; there
// is no process-wide session map.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/beanslover03/healthcare-chatbot-sub000/pkg/types"
)

const dbFile = "healthbot.db"

const defaultMaxMessages = 20

// Store manages the session history SQLite database.
type Store struct {
	db          *sql.DB
	maxMessages int
}

// Message is one chat turn in a session.
type Message struct {
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionSummary describes one stored session.
type SessionSummary struct {
	ID        string    `json:"id"`
	Messages  int       `json:"messages"`
	Analyses  int       `json:"analyses"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStore opens or creates the history database at
// cfg.DataDir/healthbot.db and bootstraps the schema.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxMessages := cfg.MaxMessages
	if maxMessages <= 0 {
		maxMessages = defaultMaxMessages
	}

	s := &Store{db: db, maxMessages: maxMessages}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id),
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id)`,
		`CREATE TABLE IF NOT EXISTS analyses (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id),
			query TEXT NOT NULL,
			confidence TEXT NOT NULL,
			result TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_session ON analyses(session_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ensureSession inserts the session row if it does not exist yet.
func (s *Store) ensureSession(ctx context.Context, tx *sql.Tx, sessionID string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO sessions (id, created_at) VALUES (?, ?)`,
		sessionID, time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// AppendMessage records one chat turn, creating the session on first use.
func (s *Store) AppendMessage(ctx context.Context, sessionID, role, content string) error {
	if sessionID == "" {
		return fmt.Errorf("session id is empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.ensureSession(ctx, tx, sessionID); err != nil {
		return fmt.Errorf("ensuring session: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		sessionID, role, content, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	return tx.Commit()
}

// RecentMessages returns the most recent turns of a session in
// chronological order, bounded by the configured maximum.
func (s *Store) RecentMessages(ctx context.Context, sessionID string) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, role, content, created_at
		 FROM messages WHERE session_id = ?
		 ORDER BY rowid DESC LIMIT ?`,
		sessionID, s.maxMessages,
	)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		var created string
		if err := rows.Scan(&m.SessionID, &m.Role, &m.Content, &created); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}

	// Rows come back newest-first; flip to chronological.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// SaveAnalysis stores a completed analysis under a session, creating the
// session on first use. The full result is kept as JSON so it can be
// re-rendered later without re-querying the upstreams.
func (s *Store) SaveAnalysis(ctx context.Context, sessionID string, result *types.AnalysisResult) error {
	if sessionID == "" {
		return fmt.Errorf("session id is empty")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling analysis: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.ensureSession(ctx, tx, sessionID); err != nil {
		return fmt.Errorf("ensuring session: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO analyses (session_id, query, confidence, result, created_at) VALUES (?, ?, ?, ?, ?)`,
		sessionID, result.Query, string(result.Confidence), string(payload),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting analysis: %w", err)
	}
	return tx.Commit()
}

// Analyses returns a session's stored analyses, oldest first.
func (s *Store) Analyses(ctx context.Context, sessionID string) ([]types.AnalysisResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT result FROM analyses WHERE session_id = ? ORDER BY rowid`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	var results []types.AnalysisResult
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning analysis: %w", err)
		}
		var r types.AnalysisResult
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("parsing stored analysis: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating analyses: %w", err)
	}
	return results, nil
}

// Sessions lists all stored sessions, newest first.
func (s *Store) Sessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.created_at,
			(SELECT count(*) FROM messages m WHERE m.session_id = s.id),
			(SELECT count(*) FROM analyses a WHERE a.session_id = s.id)
		 FROM sessions s ORDER BY s.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionSummary
	for rows.Next() {
		var ss SessionSummary
		var created string
		if err := rows.Scan(&ss.ID, &created, &ss.Messages, &ss.Analyses); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		ss.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		sessions = append(sessions, ss)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

// DeleteSession removes a session and everything stored under it.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM messages WHERE session_id = ?`,
		`DELETE FROM analyses WHERE session_id = ?`,
		`DELETE FROM sessions WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, sessionID); err != nil {
			return fmt.Errorf("deleting session data: %w", err)
		}
	}
	return tx.Commit()
}
