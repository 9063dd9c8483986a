package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lisadocs/internal/model"
	"lisadocs/internal/repository"
	"lisadocs/internal/service"
	"lisadocs/internal/visibility"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, p model.Principal, in service.UploadInput) (*model.Document, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, p model.Principal, id string) (*model.Document, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, p model.Principal, f visibility.Filter, limit, offset int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, p, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Download(ctx context.Context, p model.Principal, id string) (string, error) {
	args := m.Called(ctx, p, id)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) UpdateMetadata(ctx context.Context, p model.Principal, id string, patch service.MetadataPatch) (*model.Document, error) {
	args := m.Called(ctx, p, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) ChangeStatus(ctx context.Context, p model.Principal, id string, next model.Status, reason string) (*model.Document, error) {
	args := m.Called(ctx, p, id, next, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) BulkArchive(ctx context.Context, p model.Principal, ids []string) (*service.BulkArchiveResult, error) {
	args := m.Called(ctx, p, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BulkArchiveResult), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, p model.Principal, id string) error {
	args := m.Called(ctx, p, id)
	return args.Error(0)
}

func (m *MockDocumentService) ListActivity(ctx context.Context, p model.Principal, documentID string, limit, offset int) (*repository.PageResult[model.Activity], error) {
	args := m.Called(ctx, p, documentID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Activity]), args.Error(1)
}
