package authz

import (
	"context"
	"fmt"

	"lisadocs/internal/model"
)

// Denial reasons surfaced in WorkspaceAccess.Reason.
const (
	ReasonUserNotFound      = "User not found"
	ReasonCFMemberRestrict  = "CF members can only access comisiones_cf workspace"
	ReasonInsufficientPerms = "Insufficient permissions for this workspace"
)

// WorkspaceAccess is the result of resolving whether a principal may act in a
// workspace, and with which permission tokens.
type WorkspaceAccess struct {
	HasAccess   bool     `json:"has_access"`
	Permissions []string `json:"permissions"`
	Reason      string   `json:"reason,omitempty"`
}

// UserFinder looks up the principal's own role/workspace assignment. The
// resolver is otherwise side-effect free.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// Resolver decides workspace access from (role, workspace, assignment).
// Stateless; safe for concurrent use.
type Resolver struct {
	users UserFinder
}

// NewResolver constructs a Resolver backed by the given user lookup.
func NewResolver(users UserFinder) *Resolver {
	return &Resolver{users: users}
}

// CheckWorkspaceAccess resolves access for userID against ws. Rules are
// evaluated in priority order, first match wins:
//
//  1. unknown user: denied
//  2. administrador: full access everywhere
//  3. presidente/vicepresidente: full access minus delete/manage_users
//  4. unrecognized role: denied
//  5. own workspace: tokens projected from the capability table
//  6. secretaries, other workspace: read-only
//  7. intendente, other workspace: read-only
//  8. cf_member: comisiones_cf only
//  9. everything else: denied
func (r *Resolver) CheckWorkspaceAccess(ctx context.Context, userID string, ws model.Workspace) (WorkspaceAccess, error) {
	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		return WorkspaceAccess{}, fmt.Errorf("resolve user: %w", err)
	}
	if user == nil {
		return WorkspaceAccess{Permissions: []string{}, Reason: ReasonUserNotFound}, nil
	}
	return r.Resolve(user.Principal(), ws), nil
}

// Resolve applies the access rules for an already-loaded principal.
func (r *Resolver) Resolve(p model.Principal, ws model.Workspace) WorkspaceAccess {
	switch {
	case p.Role == model.RoleAdministrador:
		return WorkspaceAccess{
			HasAccess:   true,
			Permissions: []string{PermRead, PermWrite, PermDelete, PermManageUsers, PermViewStats, PermArchive, PermAudit},
		}
	case p.Role.IsExecutive():
		return WorkspaceAccess{
			HasAccess:   true,
			Permissions: []string{PermRead, PermWrite, PermViewStats, PermArchive, PermAudit},
		}
	case !p.Role.Valid():
		// Unknown roles fail closed before the own-workspace rule, matching
		// the capability table's default.
		return WorkspaceAccess{Permissions: []string{}, Reason: ReasonInsufficientPerms}
	case p.Workspace == ws:
		return WorkspaceAccess{HasAccess: true, Permissions: Derive(p.Role).Tokens()}
	case p.Role.IsSecretary():
		// Secretaries can see across workspaces but not act.
		return WorkspaceAccess{HasAccess: true, Permissions: []string{PermRead}}
	case p.Role == model.RoleIntendente:
		return WorkspaceAccess{HasAccess: true, Permissions: []string{PermRead}}
	case p.Role == model.RoleCFMember:
		return WorkspaceAccess{Permissions: []string{}, Reason: ReasonCFMemberRestrict}
	default:
		return WorkspaceAccess{Permissions: []string{}, Reason: ReasonInsufficientPerms}
	}
}

// AccessibleWorkspaces returns the workspaces p may access, walking the
// closed five-element enumeration. Intentionally uncached.
func (r *Resolver) AccessibleWorkspaces(p model.Principal) []model.Workspace {
	out := make([]model.Workspace, 0, len(model.AllWorkspaces))
	for _, ws := range model.AllWorkspaces {
		if r.Resolve(p, ws).HasAccess {
			out = append(out, ws)
		}
	}
	return out
}

// canonicalWorkspace pins each non-admin role to its assignment workspace.
var canonicalWorkspace = map[model.Role]model.Workspace{
	model.RolePresidente:     model.WorkspacePresidencia,
	model.RoleVicepresidente: model.WorkspacePresidencia,
	model.RoleSecretarioCAM:  model.WorkspaceCAM,
	model.RoleSecretarioAMPP: model.WorkspaceAMPP,
	model.RoleSecretarioCF:   model.WorkspaceComisionesCF,
	model.RoleCFMember:       model.WorkspaceComisionesCF,
	model.RoleIntendente:     model.WorkspaceIntendencia,
}

// CombinationResult is the outcome of the assignment-time role/workspace check.
type CombinationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// ValidateRoleWorkspaceCombination is the static consistency check applied at
// user-creation time. It is distinct from access-time resolution: a
// secretario_cam may read other workspaces at request time, but may only be
// assigned to cam.
func ValidateRoleWorkspaceCombination(role model.Role, ws model.Workspace) CombinationResult {
	if !role.Valid() {
		return CombinationResult{Reason: fmt.Sprintf("unknown role %q", role)}
	}
	if !ws.Valid() {
		return CombinationResult{Reason: fmt.Sprintf("unknown workspace %q", ws)}
	}
	if role == model.RoleAdministrador {
		return CombinationResult{Valid: true}
	}
	want := canonicalWorkspace[role]
	if ws != want {
		return CombinationResult{
			Reason: fmt.Sprintf("role %s must be assigned to workspace %s, got %s", role, want, ws),
		}
	}
	return CombinationResult{Valid: true}
}
