package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lisadocs/internal/model"
	"lisadocs/internal/repository"
)

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Append(ctx context.Context, a *model.Activity) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockActivityRepository) ListByDocument(ctx context.Context, documentID string, pq repository.PageQuery) (*repository.PageResult[model.Activity], error) {
	args := m.Called(ctx, documentID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Activity]), args.Error(1)
}
