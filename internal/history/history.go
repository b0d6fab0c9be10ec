// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history caches conversation transcripts locally so the client
// can show recent conversations without a round trip and survive restarts.
//
// The cache is a local SQLite database under ~/.flames/. It mirrors what
// the backend knows; the backend remains the source of truth and the
// cache is rebuilt from it whenever they disagree.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/flamesai/flames-tui/internal/model"
)

// ErrNotFound indicates the conversation is not in the cache.
var ErrNotFound = errors.New("conversation not found")

// Schema creates the history tables.
const Schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id              TEXT PRIMARY KEY,
	conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
	seq             INTEGER NOT NULL,
	role            TEXT NOT NULL,
	content         TEXT NOT NULL,
	created_at      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation
	ON messages(conversation_id, seq);
`

// =============================================================================
// STORE
// =============================================================================

// Store is the local conversation cache.
type Store struct {
	db    *sql.DB
	limit int
}

// DefaultPath returns the default database location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".flames", "history.db"), nil
}

// Open opens (or creates) the history database at path. limit caps how many
// conversations are kept; 0 disables trimming.
func Open(path string, limit int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, limit: limit}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// =============================================================================
// WRITES
// =============================================================================

// SaveConversation replaces the cached transcript for a conversation.
func (s *Store) SaveConversation(conversationID, title string, transcript []model.Message) error {
	if conversationID == "" {
		return errors.New("conversation id is empty")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UnixNano()
	_, err = tx.Exec(`
		INSERT INTO conversations (id, title, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, updated_at = excluded.updated_at
	`, conversationID, title, now)
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM messages WHERE conversation_id = ?", conversationID); err != nil {
		return err
	}

	for i, msg := range transcript {
		_, err := tx.Exec(`
			INSERT INTO messages (id, conversation_id, seq, role, content, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, msg.ID, conversationID, i, string(msg.Role), msg.Content, msg.Timestamp.Unix())
		if err != nil {
			return err
		}
	}

	if err := s.trim(tx); err != nil {
		return err
	}

	return tx.Commit()
}

// trim drops the oldest conversations past the configured limit.
func (s *Store) trim(tx *sql.Tx) error {
	if s.limit <= 0 {
		return nil
	}
	_, err := tx.Exec(`
		DELETE FROM conversations WHERE id IN (
			SELECT id FROM conversations
			ORDER BY updated_at DESC
			LIMIT -1 OFFSET ?
		)
	`, s.limit)
	return err
}

// DeleteConversation removes one conversation from the cache.
func (s *Store) DeleteConversation(conversationID string) error {
	_, err := s.db.Exec("DELETE FROM conversations WHERE id = ?", conversationID)
	return err
}

// Clear removes all cached conversations.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM conversations")
	return err
}

// =============================================================================
// READS
// =============================================================================

// List returns cached conversation summaries, most recent first.
func (s *Store) List() ([]model.ConversationSummary, error) {
	rows, err := s.db.Query("SELECT id, title FROM conversations ORDER BY updated_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ConversationSummary
	for rows.Next() {
		var summary model.ConversationSummary
		if err := rows.Scan(&summary.ID, &summary.Title); err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

// Load returns the cached transcript for a conversation.
func (s *Store) Load(conversationID string) ([]model.Message, error) {
	var exists int
	err := s.db.QueryRow("SELECT COUNT(1) FROM conversations WHERE id = ?", conversationID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, conversationID)
	}

	rows, err := s.db.Query(`
		SELECT id, role, content, created_at FROM messages
		WHERE conversation_id = ?
		ORDER BY seq
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		var msg model.Message
		var role string
		var created int64
		if err := rows.Scan(&msg.ID, &role, &msg.Content, &created); err != nil {
			return nil, err
		}
		msg.Role = model.Role(role)
		msg.Timestamp = time.Unix(created, 0)
		out = append(out, msg)
	}
	return out, rows.Err()
}

// Count returns the number of cached conversations.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(1) FROM conversations").Scan(&n)
	return n, err
}
