package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lisadocs/internal/model"
	"lisadocs/internal/service"
)

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Dashboard(ctx context.Context, p model.Principal) (*service.DashboardStats, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DashboardStats), args.Error(1)
}
