package repository

import (
	"context"

	"lisadocs/internal/model"
	"lisadocs/internal/visibility"
)

// DocumentRepository defines data access for document metadata rows using SQL
// queries only. Authorization and lifecycle rules live above this layer.
type DocumentRepository interface {
	// Create inserts a new document row and returns the stored record.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// UpdateMetadata persists title, description and facets.
	UpdateMetadata(ctx context.Context, doc *model.Document) (*model.Document, error)

	// TransitionStatus writes status and lifecycle timestamps from doc with a
	// conditional WHERE status = expected, so a concurrent transition on the
	// same row surfaces as ErrConflict instead of a lost update.
	TransitionStatus(ctx context.Context, doc *model.Document, expected model.Status) error

	// Query returns a page of documents matching the predicate tree, plus the
	// total match count. A nil predicate matches all rows.
	Query(ctx context.Context, pred visibility.Node, pq PageQuery) (*PageResult[model.Document], error)

	// Delete removes a document row. Missing rows are not an error.
	Delete(ctx context.Context, id string) error

	// CountByWorkspace and CountByStatus feed the dashboard rollups.
	CountByWorkspace(ctx context.Context) (map[model.Workspace]int, error)
	CountByStatus(ctx context.Context) (map[model.Status]int, error)
}
