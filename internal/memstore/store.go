// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package memstore persists per-user memory entries in SQLite and serves
// similarity lookups over them. The store is append-only: entries are never
// updated or deleted, and insertion order is the canonical history order.
package memstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/research-assistant/pkg/types"
)

const defaultRelevantLimit = 3

// Inferencer post-processes inference-eligible content before it is stored,
// typically summarizing it into a compact fact. A nil Inferencer stores all
// content verbatim.
type Inferencer interface {
	Infer(ctx context.Context, content string) (string, error)
}

// Store manages the memory SQLite database.
type Store struct {
	db         *sql.DB
	inferencer Inferencer
	limit      int
}

// NewStore opens or creates the memory database at cfg.Path and creates the
// schema if it does not exist. inferencer may be nil.
func NewStore(cfg types.MemoryConfig, inferencer Inferencer) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("memory store path not configured")
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating memory directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening memory database: %w", err)
	}

	limit := cfg.RelevantLimit
	if limit <= 0 {
		limit = defaultRelevantLimit
	}

	s := &Store{db: db, inferencer: inferencer, limit: limit}
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
		`CREATE TABLE IF NOT EXISTS memories (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			content TEXT NOT NULL,
			infer INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_memories_user_id ON memories(user_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table. Entries are append-only, so only the insert
	// trigger is needed to keep the index in sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='memories_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE memories_fts USING fts5(content, content=memories, content_rowid=rowid)`,
			`CREATE TRIGGER memories_ai AFTER INSERT ON memories BEGIN
				INSERT INTO memories_fts(rowid, content) VALUES (new.rowid, new.content);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Add appends one memory entry for userID. With infer true and a configured
// inferencer, the stored content is the inference output; inference failure
// degrades to storing the content verbatim. With infer false the content is
// always stored as-is so the literal text is retrievable later.
func (s *Store) Add(ctx context.Context, content, userID string, infer bool) error {
	if userID == "" {
		return fmt.Errorf("user ID required for memory write")
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("empty memory content")
	}

	stored := content
	if infer && s.inferencer != nil {
		if inferred, err := s.inferencer.Infer(ctx, content); err == nil && strings.TrimSpace(inferred) != "" {
			stored = strings.TrimSpace(inferred)
		}
	}

	inferFlag := 0
	if infer {
		inferFlag = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memories (user_id, content, infer, created_at) VALUES (?, ?, ?, ?)`,
		userID, stored, inferFlag, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting memory: %w", err)
	}
	return nil
}

// Search returns up to limit entries relevant to query for userID, best
// match first. A query that matches nothing yields an empty result, not an
// error.
func (s *Store) Search(ctx context.Context, query, userID string, limit int) (types.MemorySearchResult, error) {
	if limit <= 0 {
		limit = s.limit
	}

	match := ftsQuery(query)
	if match == "" {
		return types.MemorySearchResult{Entries: []types.MemoryEntry{}}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT m.rowid, m.user_id, m.content, m.infer, m.created_at
		 FROM memories_fts
		 JOIN memories m ON m.rowid = memories_fts.rowid
		 WHERE memories_fts MATCH ? AND m.user_id = ?
		 ORDER BY memories_fts.rank
		 LIMIT ?`,
		match, userID, limit,
	)
	if err != nil {
		return types.MemorySearchResult{}, fmt.Errorf("searching memories: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetAll returns every entry for userID, most recent first.
func (s *Store) GetAll(ctx context.Context, userID string) (types.MemorySearchResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rowid, user_id, content, infer, created_at
		 FROM memories WHERE user_id = ? ORDER BY rowid DESC`,
		userID,
	)
	if err != nil {
		return types.MemorySearchResult{}, fmt.Errorf("listing memories: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) (types.MemorySearchResult, error) {
	entries := []types.MemoryEntry{}
	for rows.Next() {
		var (
			entry     types.MemoryEntry
			inferFlag int
			createdAt string
		)
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Content, &inferFlag, &createdAt); err != nil {
			return types.MemorySearchResult{}, fmt.Errorf("scanning memory row: %w", err)
		}
		entry.Infer = inferFlag != 0
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			entry.CreatedAt = t
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return types.MemorySearchResult{}, fmt.Errorf("reading memory rows: %w", err)
	}
	return types.MemorySearchResult{Entries: entries}, nil
}

// ftsQuery converts free text into an FTS5 MATCH expression: each token is
// quoted and the tokens are OR-joined, so any overlap with stored content
// matches and punctuation in the query cannot break MATCH syntax.
func ftsQuery(query string) string {
	var tokens []string
	for _, field := range strings.Fields(query) {
		token := strings.ReplaceAll(field, `"`, "")
		if token == "" {
			continue
		}
		tokens = append(tokens, `"`+token+`"`)
	}
	return strings.Join(tokens, " OR ")
}
