package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lisadocs/internal/authz"
	"lisadocs/internal/model"
	"lisadocs/internal/repository"
)

// CreateUserInput carries a new account's fields.
type CreateUserInput struct {
	Email     string
	FullName  string
	Role      model.Role
	Workspace model.Workspace
}

// UserService defines the user administration use cases.
type UserService interface {
	// Create registers a user after the assignment-time role/workspace check.
	Create(ctx context.Context, p model.Principal, in CreateUserInput) (*model.User, error)

	// List returns a page of users.
	List(ctx context.Context, p model.Principal, limit, offset int) (*repository.PageResult[model.User], error)

	// Deactivate marks an account inactive.
	Deactivate(ctx context.Context, p model.Principal, id string) error
}

type userService struct {
	users repository.UserRepository
}

// NewUserService constructs a UserService.
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Create(ctx context.Context, p model.Principal, in CreateUserInput) (*model.User, error) {
	if !authz.Derive(p.Role).Users.Create {
		return nil, denied("role cannot create users")
	}
	if in.Email == "" || in.FullName == "" {
		return nil, fmt.Errorf("%w: email and full name are required", ErrValidation)
	}
	if res := authz.ValidateRoleWorkspaceCombination(in.Role, in.Workspace); !res.Valid {
		return nil, fmt.Errorf("%w: %s", ErrValidation, res.Reason)
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	now := time.Now().UTC()
	return s.users.Create(ctx, &model.User{
		ID:        uuid.NewString(),
		Email:     in.Email,
		FullName:  in.FullName,
		Role:      in.Role,
		Workspace: in.Workspace,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *userService) List(ctx context.Context, p model.Principal, limit, offset int) (*repository.PageResult[model.User], error) {
	if !authz.Derive(p.Role).Users.Read {
		return nil, denied("role cannot list users")
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
}

func (s *userService) Deactivate(ctx context.Context, p model.Principal, id string) error {
	if !authz.Derive(p.Role).Users.Delete {
		return denied("role cannot deactivate users")
	}
	if id == "" {
		return ErrIDRequired
	}
	if id == p.ID {
		return fmt.Errorf("%w: cannot deactivate own account", ErrValidation)
	}

	existing, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrUserNotFound
	}
	return s.users.Deactivate(ctx, id)
}
