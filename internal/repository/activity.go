package repository

import (
	"context"

	"lisadocs/internal/model"
)

// ActivityRepository appends and reads document activity records. Append
// failures are handled by the activity recorder's supervisor, never by
// request handlers.
type ActivityRepository interface {
	Append(ctx context.Context, a *model.Activity) error
	ListByDocument(ctx context.Context, documentID string, pq PageQuery) (*PageResult[model.Activity], error)
}
