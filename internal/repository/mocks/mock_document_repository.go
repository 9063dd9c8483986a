package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lisadocs/internal/model"
	"lisadocs/internal/repository"
	"lisadocs/internal/visibility"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) UpdateMetadata(ctx context.Context, doc *model.Document) (*model.Document, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) TransitionStatus(ctx context.Context, doc *model.Document, expected model.Status) error {
	args := m.Called(ctx, doc, expected)
	return args.Error(0)
}

func (m *MockDocumentRepository) Query(ctx context.Context, pred visibility.Node, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	args := m.Called(ctx, pred, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Document]), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) CountByWorkspace(ctx context.Context) (map[model.Workspace]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.Workspace]int), args.Error(1)
}

func (m *MockDocumentRepository) CountByStatus(ctx context.Context) (map[model.Status]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.Status]int), args.Error(1)
}
