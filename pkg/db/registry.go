package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

var ErrNoDocument = errors.New("document not found for session")

const schema = `
	CREATE TABLE IF NOT EXISTS documents (
		id          TEXT PRIMARY KEY,
		session_id  TEXT NOT NULL,
		source      TEXT NOT NULL,
		query_count INTEGER NOT NULL,
		loaded_at   INTEGER NOT NULL,
		body        BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS documents_session ON documents (session_id, loaded_at);
`

// DocumentRecord is one document loaded by a session. Body is only filled
// by Get.
type DocumentRecord struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"sessionId"`
	Source     string    `json:"source"`
	QueryCount int       `json:"queryCount"`
	LoadedAt   time.Time `json:"loadedAt"`
	Body       []byte    `json:"-"`
}

// DocumentRegistry keeps the documents each session has loaded in an
// in-memory sqlite database. Nothing outlives the process.
type DocumentRegistry struct {
	sql *sql.DB
	now func() time.Time
}

// OpenRegistry opens a fresh in-memory database.
func OpenRegistry(ctx context.Context) (*DocumentRegistry, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open registry: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	return NewRegistry(ctx, db)
}

func NewRegistry(ctx context.Context, db *sql.DB) (*DocumentRegistry, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create registry schema: %w", err)
	}
	return &DocumentRegistry{sql: db, now: time.Now}, nil
}

func (r *DocumentRegistry) Close() error {
	return r.sql.Close()
}

// Put records a document and returns its id.
func (r *DocumentRegistry) Put(ctx context.Context, sessionID, source string, queryCount int, body []byte) (string, error) {
	id := uuid.NewString()

	_, err := r.sql.ExecContext(ctx,
		`INSERT INTO documents (id, session_id, source, query_count, loaded_at, body) VALUES (?, ?, ?, ?, ?, ?)`,
		id, sessionID, source, queryCount, r.now().UnixNano(), body,
	)
	if err != nil {
		return "", fmt.Errorf("failed to store document: %w", err)
	}
	return id, nil
}

// Get returns one document of a session, body included. A document of
// another session is reported as missing.
func (r *DocumentRegistry) Get(ctx context.Context, sessionID, id string) (*DocumentRecord, error) {
	row := r.sql.QueryRowContext(ctx, `
		SELECT id, session_id, source, query_count, loaded_at, body
		FROM documents
		WHERE session_id = ? AND id = ?`, sessionID, id)

	var (
		rec      DocumentRecord
		loadedAt int64
	)
	err := row.Scan(&rec.ID, &rec.SessionID, &rec.Source, &rec.QueryCount, &loadedAt, &rec.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	rec.LoadedAt = time.Unix(0, loadedAt)
	return &rec, nil
}

// Touch moves a reopened document to the top of the history.
func (r *DocumentRegistry) Touch(ctx context.Context, sessionID, id string) error {
	res, err := r.sql.ExecContext(ctx,
		`UPDATE documents SET loaded_at = ? WHERE session_id = ? AND id = ?`,
		r.now().UnixNano(), sessionID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to touch document: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNoDocument
	}
	return nil
}

// History lists a session's documents, newest first, without bodies.
func (r *DocumentRegistry) History(ctx context.Context, sessionID string) ([]DocumentRecord, error) {
	rows, err := r.sql.QueryContext(ctx, `
		SELECT id, session_id, source, query_count, loaded_at
		FROM documents
		WHERE session_id = ?
		ORDER BY loaded_at DESC, rowid DESC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	history := make([]DocumentRecord, 0, 8)
	for rows.Next() {
		var (
			rec      DocumentRecord
			loadedAt int64
		)
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Source, &rec.QueryCount, &loadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		rec.LoadedAt = time.Unix(0, loadedAt)
		history = append(history, rec)
	}
	return history, rows.Err()
}

// Forget drops every document of a session.
func (r *DocumentRegistry) Forget(ctx context.Context, sessionID string) error {
	if _, err := r.sql.ExecContext(ctx, `DELETE FROM documents WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to forget session: %w", err)
	}
	return nil
}
