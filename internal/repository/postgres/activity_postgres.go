package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"lisadocs/internal/model"
	"lisadocs/internal/repository"
)

// ActivityPostgres is the PostgreSQL implementation of
// repository.ActivityRepository.
type ActivityPostgres struct {
	db *sql.DB
}

// NewActivityPostgres creates a new ActivityPostgres repository.
func NewActivityPostgres(db *sql.DB) *ActivityPostgres {
	return &ActivityPostgres{db: db}
}

var _ repository.ActivityRepository = (*ActivityPostgres)(nil)

// Append inserts an activity record.
func (r *ActivityPostgres) Append(ctx context.Context, a *model.Activity) error {
	details, err := json.Marshal(a.Details)
	if err != nil {
		return fmt.Errorf("encode details: %w", err)
	}
	const q = `
		INSERT INTO document_activities (id, document_id, user_id, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6)
	`
	_, err = r.db.ExecContext(ctx, q, a.ID, a.DocumentID, a.UserID, a.Action, details, a.CreatedAt)
	return err
}

// ListByDocument returns a page of activity records for a document, newest first.
func (r *ActivityPostgres) ListByDocument(ctx context.Context, documentID string, pq repository.PageQuery) (*repository.PageResult[model.Activity], error) {
	const qCount = `SELECT COUNT(*) FROM document_activities WHERE document_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, documentID).Scan(&total); err != nil {
		return nil, err
	}

	const q = `
		SELECT id, document_id, user_id, action, details, created_at
		FROM document_activities
		WHERE document_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, q, documentID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Activity, 0)
	for rows.Next() {
		var a model.Activity
		var details []byte
		if err := rows.Scan(&a.ID, &a.DocumentID, &a.UserID, &a.Action, &details, &a.CreatedAt); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &a.Details); err != nil {
				return nil, fmt.Errorf("decode details: %w", err)
			}
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Activity]{Items: items, Total: total}, nil
}
