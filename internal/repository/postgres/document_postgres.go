package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"lisadocs/internal/model"
	"lisadocs/internal/repository"
	"lisadocs/internal/visibility"
)

// DocumentPostgres is the PostgreSQL implementation of
// repository.DocumentRepository. Parameterized queries only, no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, title, description, workspace, status, facets, created_by,
	file_name, file_size, mime_type, file_hash, storage_key,
	created_at, updated_at, stored_at, archived_at`

func scanDocument(row interface{ Scan(...any) error }) (*model.Document, error) {
	var d model.Document
	var facets []byte
	if err := row.Scan(
		&d.ID, &d.Title, &d.Description, &d.Workspace, &d.Status, &facets, &d.CreatedBy,
		&d.FileName, &d.FileSize, &d.MimeType, &d.FileHash, &d.StorageKey,
		&d.CreatedAt, &d.UpdatedAt, &d.StoredAt, &d.ArchivedAt,
	); err != nil {
		return nil, err
	}
	if len(facets) > 0 {
		if err := json.Unmarshal(facets, &d.Facets); err != nil {
			return nil, fmt.Errorf("decode facets: %w", err)
		}
	}
	return &d, nil
}

func marshalFacets(facets map[string]string) ([]byte, error) {
	if facets == nil {
		facets = map[string]string{}
	}
	return json.Marshal(facets)
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	facets, err := marshalFacets(doc.Facets)
	if err != nil {
		return nil, err
	}
	q := `
		INSERT INTO documents (id, title, description, workspace, status, facets, created_by,
			file_name, file_size, mime_type, file_hash, storage_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID, doc.Title, doc.Description, doc.Workspace, doc.Status, facets, doc.CreatedBy,
		doc.FileName, doc.FileSize, doc.MimeType, doc.FileHash, doc.StorageKey,
		doc.CreatedAt, doc.UpdatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// UpdateMetadata persists the mutable metadata fields.
func (r *DocumentPostgres) UpdateMetadata(ctx context.Context, doc *model.Document) (*model.Document, error) {
	facets, err := marshalFacets(doc.Facets)
	if err != nil {
		return nil, err
	}
	q := `
		UPDATE documents
		SET title = $2, description = $3, facets = $4::jsonb, updated_at = $5
		WHERE id = $1
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q, doc.ID, doc.Title, doc.Description, facets, doc.UpdatedAt)
	return scanDocument(row)
}

// TransitionStatus applies a status transition with a conditional write so a
// concurrent transition on the same row is reported, not silently overwritten.
func (r *DocumentPostgres) TransitionStatus(ctx context.Context, doc *model.Document, expected model.Status) error {
	const q = `
		UPDATE documents
		SET status = $2, stored_at = $3, archived_at = $4, updated_at = $5
		WHERE id = $1 AND status = $6
	`
	res, err := r.db.ExecContext(ctx, q, doc.ID, doc.Status, doc.StoredAt, doc.ArchivedAt, doc.UpdatedAt, expected)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrConflict
	}
	return nil
}

// Query returns a page of documents matching the predicate, newest first.
func (r *DocumentPostgres) Query(ctx context.Context, pred visibility.Node, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	args := make([]any, 0, 8)
	where, err := compilePredicate(pred, &args)
	if err != nil {
		return nil, err
	}

	var total int
	qCount := `SELECT COUNT(*) FROM documents WHERE ` + where
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	listArgs := append(args, pq.Limit, pq.Offset)
	qList := fmt.Sprintf(`
		SELECT %s FROM documents
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, documentColumns, where, len(args)+1, len(args)+2)

	rows, err := r.db.QueryContext(ctx, qList, listArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

// Delete removes a document by ID. Missing rows are not an error.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// CountByWorkspace returns document counts grouped by workspace.
func (r *DocumentPostgres) CountByWorkspace(ctx context.Context) (map[model.Workspace]int, error) {
	const q = `SELECT workspace, COUNT(*) FROM documents GROUP BY workspace`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.Workspace]int)
	for rows.Next() {
		var ws model.Workspace
		var n int
		if err := rows.Scan(&ws, &n); err != nil {
			return nil, err
		}
		out[ws] = n
	}
	return out, rows.Err()
}

// CountByStatus returns document counts grouped by status.
func (r *DocumentPostgres) CountByStatus(ctx context.Context) (map[model.Status]int, error) {
	const q = `SELECT status, COUNT(*) FROM documents GROUP BY status`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.Status]int)
	for rows.Next() {
		var s model.Status
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		out[s] = n
	}
	return out, rows.Err()
}
