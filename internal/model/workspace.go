package model

// Workspace identifies one of the five organizational areas documents belong to.
type Workspace string

const (
	WorkspaceCAM          Workspace = "cam"
	WorkspaceAMPP         Workspace = "ampp"
	WorkspacePresidencia  Workspace = "presidencia"
	WorkspaceIntendencia  Workspace = "intendencia"
	WorkspaceComisionesCF Workspace = "comisiones_cf"
)

// AllWorkspaces is the closed workspace enumeration. Order is stable and used
// when resolving a user's accessible-workspace set.
var AllWorkspaces = []Workspace{
	WorkspaceCAM,
	WorkspaceAMPP,
	WorkspacePresidencia,
	WorkspaceIntendencia,
	WorkspaceComisionesCF,
}

// Valid reports whether w is one of the known workspaces.
func (w Workspace) Valid() bool {
	switch w {
	case WorkspaceCAM, WorkspaceAMPP, WorkspacePresidencia, WorkspaceIntendencia, WorkspaceComisionesCF:
		return true
	default:
		return false
	}
}

// Role is the closed role enumeration. Every authorization decision in the
// system derives from (role, workspace, ownership).
type Role string

const (
	RoleAdministrador  Role = "administrador"
	RolePresidente     Role = "presidente"
	RoleVicepresidente Role = "vicepresidente"
	RoleSecretarioCAM  Role = "secretario_cam"
	RoleSecretarioAMPP Role = "secretario_ampp"
	RoleSecretarioCF   Role = "secretario_cf"
	RoleIntendente     Role = "intendente"
	RoleCFMember       Role = "cf_member"
)

// Valid reports whether r is one of the eight known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdministrador, RolePresidente, RoleVicepresidente,
		RoleSecretarioCAM, RoleSecretarioAMPP, RoleSecretarioCF,
		RoleIntendente, RoleCFMember:
		return true
	default:
		return false
	}
}

// IsSecretary reports whether r is one of the three workspace secretaries.
func (r Role) IsSecretary() bool {
	return r == RoleSecretarioCAM || r == RoleSecretarioAMPP || r == RoleSecretarioCF
}

// IsExecutive reports whether r is presidente or vicepresidente.
func (r Role) IsExecutive() bool {
	return r == RolePresidente || r == RoleVicepresidente
}

// Principal is the authenticated actor for a request: produced by the auth
// middleware, threaded explicitly into every core call. The core never
// authenticates, only authorizes.
type Principal struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Workspace Workspace `json:"workspace"`
}
