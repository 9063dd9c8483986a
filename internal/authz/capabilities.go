package authz

import "lisadocs/internal/model"

// DocumentCapabilities gates document operations.
type DocumentCapabilities struct {
	Create   bool `json:"create"`
	Read     bool `json:"read"`
	Update   bool `json:"update"`
	Delete   bool `json:"delete"`
	Archive  bool `json:"archive"`
	Download bool `json:"download"`
}

// UserCapabilities gates user administration operations.
type UserCapabilities struct {
	Create bool `json:"create"`
	Read   bool `json:"read"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}

// AdminCapabilities gates system administration surfaces.
type AdminCapabilities struct {
	ManageUsers    bool `json:"manage_users"`
	ViewAuditLogs  bool `json:"view_audit_logs"`
	SystemSettings bool `json:"system_settings"`
}

// WorkspaceCapabilities gates cross-workspace visibility and management.
type WorkspaceCapabilities struct {
	ViewAll            bool `json:"view_all"`
	ManageAll          bool `json:"manage_all"`
	ViewOwnWorkspace   bool `json:"view_own_workspace"`
	ManageOwnWorkspace bool `json:"manage_own_workspace"`
}

// Capabilities is the full capability record for a role. It is derived, never
// persisted, and recomputed on every authorization check.
type Capabilities struct {
	Documents  DocumentCapabilities  `json:"documents"`
	Users      UserCapabilities      `json:"users"`
	Admin      AdminCapabilities     `json:"admin"`
	Workspaces WorkspaceCapabilities `json:"workspaces"`
}

// Derive maps a role to its capability record. Pure, total and deterministic:
// unknown roles get the zero (all-false) record, so the system fails closed.
// This table is the single source of truth; every other authorization
// decision reduces to a lookup here plus ownership/workspace-match checks.
func Derive(role model.Role) Capabilities {
	switch role {
	case model.RoleAdministrador:
		return Capabilities{
			Documents:  DocumentCapabilities{Create: true, Read: true, Update: true, Delete: true, Archive: true, Download: true},
			Users:      UserCapabilities{Create: true, Read: true, Update: true, Delete: true},
			Admin:      AdminCapabilities{ManageUsers: true, ViewAuditLogs: true, SystemSettings: true},
			Workspaces: WorkspaceCapabilities{ViewAll: true, ManageAll: true, ViewOwnWorkspace: true, ManageOwnWorkspace: true},
		}
	case model.RolePresidente, model.RoleVicepresidente:
		return Capabilities{
			Documents:  DocumentCapabilities{Create: true, Read: true, Update: true, Archive: true, Download: true},
			Users:      UserCapabilities{Read: true},
			Admin:      AdminCapabilities{ViewAuditLogs: true},
			Workspaces: WorkspaceCapabilities{ViewAll: true, ViewOwnWorkspace: true, ManageOwnWorkspace: true},
		}
	case model.RoleSecretarioCAM, model.RoleSecretarioAMPP, model.RoleSecretarioCF:
		return Capabilities{
			Documents:  DocumentCapabilities{Create: true, Read: true, Update: true, Archive: true, Download: true},
			Workspaces: WorkspaceCapabilities{ViewOwnWorkspace: true, ManageOwnWorkspace: true},
		}
	case model.RoleIntendente:
		return Capabilities{
			Documents:  DocumentCapabilities{Create: true, Read: true, Update: true, Download: true},
			Workspaces: WorkspaceCapabilities{ViewOwnWorkspace: true, ManageOwnWorkspace: true},
		}
	case model.RoleCFMember:
		return Capabilities{
			Documents:  DocumentCapabilities{Create: true, Read: true, Download: true},
			Workspaces: WorkspaceCapabilities{ViewOwnWorkspace: true},
		}
	default:
		return Capabilities{}
	}
}

// Permission tokens carried by WorkspaceAccess results.
const (
	PermRead           = "read"
	PermWrite          = "write"
	PermCreate         = "create"
	PermUpdate         = "update"
	PermDelete         = "delete"
	PermArchive        = "archive"
	PermDownload       = "download"
	PermViewUsers      = "view_users"
	PermCreateUsers    = "create_users"
	PermUpdateUsers    = "update_users"
	PermAudit          = "audit"
	PermManageUsers    = "manage_users"
	PermViewStats      = "view_stats"
	PermSystemSettings = "system_settings"
)

// Tokens projects a capability record onto permission token strings: a token
// is present iff the corresponding capability is true.
func (c Capabilities) Tokens() []string {
	tokens := make([]string, 0, 12)
	if c.Documents.Read {
		tokens = append(tokens, PermRead)
	}
	if c.Documents.Create {
		tokens = append(tokens, PermCreate)
	}
	if c.Documents.Update {
		tokens = append(tokens, PermUpdate)
	}
	if c.Documents.Delete {
		tokens = append(tokens, PermDelete)
	}
	if c.Documents.Archive {
		tokens = append(tokens, PermArchive)
	}
	if c.Documents.Download {
		tokens = append(tokens, PermDownload)
	}
	if c.Users.Read {
		tokens = append(tokens, PermViewUsers)
	}
	if c.Users.Create {
		tokens = append(tokens, PermCreateUsers)
	}
	if c.Users.Update {
		tokens = append(tokens, PermUpdateUsers)
	}
	if c.Admin.ViewAuditLogs {
		tokens = append(tokens, PermAudit)
	}
	if c.Admin.ManageUsers {
		tokens = append(tokens, PermManageUsers)
	}
	if c.Admin.SystemSettings {
		tokens = append(tokens, PermSystemSettings)
	}
	return tokens
}
