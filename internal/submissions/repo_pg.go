package submissions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"brainplan/internal/brainstorm"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `
SELECT id, session_id, idea, context, focus, mode, status, attachment_count,
       backend_url, error_kind, error_message, result, created_at, completed_at
FROM submissions`

// Create inserts a record.
func (r *PGRepo) Create(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO submissions (
	id, session_id, idea, context, focus, mode, status, attachment_count,
	backend_url, error_kind, error_message, result, created_at, completed_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	resultPayload, err := marshalResult(rec.Result)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		rec.ID,
		rec.SessionID,
		rec.Idea,
		rec.Context,
		rec.Focus,
		rec.Mode,
		rec.Status,
		rec.AttachmentCount,
		rec.BackendURL,
		rec.ErrorKind,
		rec.ErrorMessage,
		resultPayload,
		rec.CreatedAt,
		rec.CompletedAt,
	)
	return err
}

// GetByID returns a record by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Record, error) {
	row := r.DB.QueryRowContext(ctx, selectColumns+`
WHERE id = $1
LIMIT 1`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

// ListBySession returns a session's records newest-first.
func (r *PGRepo) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]Record, error) {
	limit, offset = clampPage(limit, offset)
	rows, err := r.DB.QueryContext(ctx, selectColumns+`
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`, sessionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var backendURL sql.NullString
	var errorKind sql.NullString
	var errorMessage sql.NullString
	var result sql.NullString
	err := row.Scan(
		&rec.ID,
		&rec.SessionID,
		&rec.Idea,
		&rec.Context,
		&rec.Focus,
		&rec.Mode,
		&rec.Status,
		&rec.AttachmentCount,
		&backendURL,
		&errorKind,
		&errorMessage,
		&result,
		&rec.CreatedAt,
		&rec.CompletedAt,
	)
	if err != nil {
		return Record{}, err
	}
	if backendURL.Valid {
		rec.BackendURL = backendURL.String
	}
	if errorKind.Valid {
		rec.ErrorKind = errorKind.String
	}
	if errorMessage.Valid {
		rec.ErrorMessage = &errorMessage.String
	}
	if result.Valid && result.String != "" {
		var doc brainstorm.ResultDocument
		if err := json.Unmarshal([]byte(result.String), &doc); err == nil {
			rec.Result = &doc
		}
	}
	return rec, nil
}

func marshalResult(doc *brainstorm.ResultDocument) (any, error) {
	if doc == nil {
		return nil, nil
	}
	return json.Marshal(doc)
}

var _ Repo = (*PGRepo)(nil)
