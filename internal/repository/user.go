package repository

import (
	"context"

	"lisadocs/internal/model"
)

// UserRepository defines data access for user accounts. It also serves as the
// access resolver's user lookup (authz.UserFinder).
type UserRepository interface {
	// Create inserts a new user row and returns the stored record.
	Create(ctx context.Context, user *model.User) (*model.User, error)

	// FindByID returns a user by ID, or (nil, nil) when no row exists.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail returns a user by email, or (nil, nil) when no row exists.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// List returns a page of users ordered by creation time.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.User], error)

	// Deactivate marks a user inactive. Missing rows are not an error.
	Deactivate(ctx context.Context, id string) error

	// CountByRole feeds the dashboard rollups.
	CountByRole(ctx context.Context) (map[model.Role]int, error)
}
