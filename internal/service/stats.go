package service

import (
	"context"
	"sync"

	"lisadocs/internal/authz"
	"lisadocs/internal/model"
	"lisadocs/internal/repository"
)

// DashboardStats is the administrative dashboard rollup.
type DashboardStats struct {
	DocumentsByWorkspace map[model.Workspace]int `json:"documents_by_workspace"`
	DocumentsByStatus    map[model.Status]int    `json:"documents_by_status"`
	UsersByRole          map[model.Role]int      `json:"users_by_role"`
}

// StatsService serves dashboard aggregations.
type StatsService interface {
	Dashboard(ctx context.Context, p model.Principal) (*DashboardStats, error)
}

type statsService struct {
	docs     repository.DocumentRepository
	users    repository.UserRepository
	resolver *authz.Resolver
}

// NewStatsService constructs a StatsService.
func NewStatsService(docs repository.DocumentRepository, users repository.UserRepository, resolver *authz.Resolver) StatsService {
	return &statsService{docs: docs, users: users, resolver: resolver}
}

// Dashboard fans out the three independent read-only counts concurrently;
// they share no mutable state.
func (s *statsService) Dashboard(ctx context.Context, p model.Principal) (*DashboardStats, error) {
	access := s.resolver.Resolve(p, p.Workspace)
	if !hasToken(access.Permissions, authz.PermViewStats) {
		return nil, denied("role cannot view dashboard statistics")
	}

	var (
		wg      sync.WaitGroup
		stats   DashboardStats
		errByWS error
		errBySt error
		errByRl error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		stats.DocumentsByWorkspace, errByWS = s.docs.CountByWorkspace(ctx)
	}()
	go func() {
		defer wg.Done()
		stats.DocumentsByStatus, errBySt = s.docs.CountByStatus(ctx)
	}()
	go func() {
		defer wg.Done()
		stats.UsersByRole, errByRl = s.users.CountByRole(ctx)
	}()
	wg.Wait()

	for _, err := range []error{errByWS, errBySt, errByRl} {
		if err != nil {
			return nil, err
		}
	}
	return &stats, nil
}
