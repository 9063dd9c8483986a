package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"lisadocs/internal/authz"
	"lisadocs/internal/model"
	repoMocks "lisadocs/internal/repository/mocks"
)

func TestStatsService_Dashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates the three counts", func(t *testing.T) {
		docs := new(repoMocks.MockDocumentRepository)
		users := new(repoMocks.MockUserRepository)
		docs.On("CountByWorkspace", ctx).Return(map[model.Workspace]int{
			model.WorkspaceCAM:         3,
			model.WorkspacePresidencia: 1,
		}, nil)
		docs.On("CountByStatus", ctx).Return(map[model.Status]int{
			model.StatusDraft:  1,
			model.StatusStored: 3,
		}, nil)
		users.On("CountByRole", ctx).Return(map[model.Role]int{
			model.RoleAdministrador: 1,
			model.RoleCFMember:      5,
		}, nil)
		svc := NewStatsService(docs, users, authz.NewResolver(nil))

		stats, err := svc.Dashboard(ctx, adminP)

		assert.NoError(t, err)
		assert.Equal(t, 3, stats.DocumentsByWorkspace[model.WorkspaceCAM])
		assert.Equal(t, 3, stats.DocumentsByStatus[model.StatusStored])
		assert.Equal(t, 5, stats.UsersByRole[model.RoleCFMember])
	})

	t.Run("role without the stats grant denied", func(t *testing.T) {
		svc := NewStatsService(new(repoMocks.MockDocumentRepository), new(repoMocks.MockUserRepository), authz.NewResolver(nil))
		_, err := svc.Dashboard(ctx, cfP)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("any failing count fails the rollup", func(t *testing.T) {
		docs := new(repoMocks.MockDocumentRepository)
		users := new(repoMocks.MockUserRepository)
		docs.On("CountByWorkspace", ctx).Return(nil, errors.New("db down"))
		docs.On("CountByStatus", ctx).Return(map[model.Status]int{}, nil)
		users.On("CountByRole", ctx).Return(map[model.Role]int{}, nil)
		svc := NewStatsService(docs, users, authz.NewResolver(nil))

		_, err := svc.Dashboard(ctx, adminP)
		assert.ErrorContains(t, err, "db down")
	})
}
