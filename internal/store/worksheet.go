package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a worksheet ID does not exist.
var ErrNotFound = errors.New("worksheet not found")

// WorksheetRecord is a persisted worksheet document. The document itself
// is stored as opaque JSON; this layer does not interpret it.
type WorksheetRecord struct {
	ID        string
	UserID    string
	Prompt    string
	Document  []byte
	CreatedAt time.Time
}

// WorksheetRepo persists generated worksheet documents.
type WorksheetRepo struct {
	db *sql.DB
}

// Save stores a new worksheet document and returns its generated ID.
func (r *WorksheetRepo) Save(ctx context.Context, userID, prompt string, document []byte) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO worksheets (id, user_id, prompt, document, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, userID, prompt, string(document), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("save worksheet: %w", err)
	}
	return id, nil
}

// Get returns the worksheet with the given ID.
func (r *WorksheetRepo) Get(ctx context.Context, id string) (*WorksheetRecord, error) {
	var rec WorksheetRecord
	var doc string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, prompt, document, created_at
		FROM worksheets WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.UserID, &rec.Prompt, &doc, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get worksheet: %w", err)
	}
	rec.Document = []byte(doc)
	return &rec, nil
}

// ListByUser returns the user's worksheets, newest first.
func (r *WorksheetRepo) ListByUser(ctx context.Context, userID string, limit int) ([]WorksheetRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, prompt, document, created_at
		FROM worksheets WHERE user_id = ?
		ORDER BY created_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list worksheets: %w", err)
	}
	defer rows.Close()

	var out []WorksheetRecord
	for rows.Next() {
		var rec WorksheetRecord
		var doc string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Prompt, &doc, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan worksheet: %w", err)
		}
		rec.Document = []byte(doc)
		out = append(out, rec)
	}
	return out, rows.Err()
}
