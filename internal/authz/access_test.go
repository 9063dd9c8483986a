package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"lisadocs/internal/model"
)

// stubUserFinder serves users from a map; nil means not found.
type stubUserFinder struct {
	users map[string]*model.User
	err   error
}

func (s *stubUserFinder) FindByID(_ context.Context, id string) (*model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.users[id], nil
}

func newTestResolver(users ...*model.User) *Resolver {
	m := make(map[string]*model.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return NewResolver(&stubUserFinder{users: m})
}

func TestCheckWorkspaceAccess(t *testing.T) {
	ctx := context.Background()

	admin := &model.User{ID: "admin", Role: model.RoleAdministrador, Workspace: model.WorkspacePresidencia}
	pres := &model.User{ID: "pres", Role: model.RolePresidente, Workspace: model.WorkspacePresidencia}
	secCAM := &model.User{ID: "sec-cam", Role: model.RoleSecretarioCAM, Workspace: model.WorkspaceCAM}
	intend := &model.User{ID: "int", Role: model.RoleIntendente, Workspace: model.WorkspaceIntendencia}
	cf := &model.User{ID: "cf", Role: model.RoleCFMember, Workspace: model.WorkspaceComisionesCF}

	r := newTestResolver(admin, pres, secCAM, intend, cf)

	tests := []struct {
		name       string
		userID     string
		workspace  model.Workspace
		wantAccess bool
		wantPerms  []string
		wantReason string
	}{
		{
			name:       "unknown user is denied",
			userID:     "ghost",
			workspace:  model.WorkspaceCAM,
			wantAccess: false,
			wantReason: ReasonUserNotFound,
		},
		{
			name:       "administrador has full access anywhere",
			userID:     "admin",
			workspace:  model.WorkspaceAMPP,
			wantAccess: true,
			wantPerms:  []string{PermRead, PermWrite, PermDelete, PermManageUsers, PermViewStats, PermArchive, PermAudit},
		},
		{
			name:       "presidente has full access without delete",
			userID:     "pres",
			workspace:  model.WorkspaceIntendencia,
			wantAccess: true,
			wantPerms:  []string{PermRead, PermWrite, PermViewStats, PermArchive, PermAudit},
		},
		{
			name:       "secretario own workspace gets capability tokens",
			userID:     "sec-cam",
			workspace:  model.WorkspaceCAM,
			wantAccess: true,
			wantPerms:  []string{PermRead, PermCreate, PermUpdate, PermArchive, PermDownload},
		},
		{
			name:       "secretario other workspace is read-only",
			userID:     "sec-cam",
			workspace:  model.WorkspaceAMPP,
			wantAccess: true,
			wantPerms:  []string{PermRead},
		},
		{
			name:       "intendente other workspace is read-only",
			userID:     "int",
			workspace:  model.WorkspacePresidencia,
			wantAccess: true,
			wantPerms:  []string{PermRead},
		},
		{
			name:       "cf_member own workspace allowed",
			userID:     "cf",
			workspace:  model.WorkspaceComisionesCF,
			wantAccess: true,
		},
		{
			name:       "cf_member other workspace denied",
			userID:     "cf",
			workspace:  model.WorkspaceCAM,
			wantAccess: false,
			wantReason: ReasonCFMemberRestrict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.CheckWorkspaceAccess(ctx, tt.userID, tt.workspace)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantAccess, got.HasAccess)
			if tt.wantPerms != nil {
				assert.Equal(t, tt.wantPerms, got.Permissions)
			}
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, got.Reason)
			}
		})
	}
}

func TestCheckWorkspaceAccess_LookupError(t *testing.T) {
	r := NewResolver(&stubUserFinder{err: errors.New("db down")})
	_, err := r.CheckWorkspaceAccess(context.Background(), "any", model.WorkspaceCAM)
	assert.Error(t, err)
}

func TestResolve_UnknownRoleDeniedInOwnWorkspace(t *testing.T) {
	r := newTestResolver()

	// An unrecognized role must not reach the own-workspace rule: access is
	// denied even for the principal's assigned workspace.
	got := r.Resolve(model.Principal{ID: "x", Role: "mystery", Workspace: model.WorkspaceCAM}, model.WorkspaceCAM)

	assert.False(t, got.HasAccess)
	assert.Empty(t, got.Permissions)
	assert.Equal(t, ReasonInsufficientPerms, got.Reason)
}

func TestAccessibleWorkspaces(t *testing.T) {
	r := newTestResolver()

	t.Run("administrador sees all five", func(t *testing.T) {
		got := r.AccessibleWorkspaces(model.Principal{ID: "a", Role: model.RoleAdministrador, Workspace: model.WorkspacePresidencia})
		assert.Equal(t, model.AllWorkspaces, got)
	})

	t.Run("secretario sees all five read-or-better", func(t *testing.T) {
		got := r.AccessibleWorkspaces(model.Principal{ID: "s", Role: model.RoleSecretarioCF, Workspace: model.WorkspaceComisionesCF})
		assert.Len(t, got, 5)
	})

	t.Run("cf_member sees only comisiones_cf", func(t *testing.T) {
		got := r.AccessibleWorkspaces(model.Principal{ID: "c", Role: model.RoleCFMember, Workspace: model.WorkspaceComisionesCF})
		assert.Equal(t, []model.Workspace{model.WorkspaceComisionesCF}, got)
	})

	t.Run("unknown role sees nothing", func(t *testing.T) {
		got := r.AccessibleWorkspaces(model.Principal{ID: "x", Role: "mystery", Workspace: model.WorkspaceCAM})
		assert.Empty(t, got)
	})
}

func TestValidateRoleWorkspaceCombination(t *testing.T) {
	tests := []struct {
		role      model.Role
		workspace model.Workspace
		valid     bool
	}{
		{model.RoleAdministrador, model.WorkspaceCAM, true},
		{model.RoleAdministrador, model.WorkspaceComisionesCF, true},
		{model.RolePresidente, model.WorkspacePresidencia, true},
		{model.RolePresidente, model.WorkspaceCAM, false},
		{model.RoleVicepresidente, model.WorkspacePresidencia, true},
		{model.RoleSecretarioCAM, model.WorkspaceCAM, true},
		{model.RoleSecretarioAMPP, model.WorkspaceCAM, false},
		{model.RoleSecretarioCF, model.WorkspaceComisionesCF, true},
		{model.RoleIntendente, model.WorkspaceIntendencia, true},
		{model.RoleIntendente, model.WorkspaceAMPP, false},
		{model.RoleCFMember, model.WorkspaceComisionesCF, true},
		{model.RoleCFMember, model.WorkspacePresidencia, false},
		{"unknown", model.WorkspaceCAM, false},
		{model.RoleSecretarioCAM, "nowhere", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.workspace), func(t *testing.T) {
			got := ValidateRoleWorkspaceCombination(tt.role, tt.workspace)
			assert.Equal(t, tt.valid, got.Valid)
			if !tt.valid {
				assert.NotEmpty(t, got.Reason)
			}
		})
	}
}
