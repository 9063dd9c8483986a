package model

import "time"

// User is a registered account. Role and Workspace together form the
// principal used for authorization; the combination is validated at
// creation time (each non-admin role is pinned to one canonical workspace).
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	Workspace Workspace `json:"workspace"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Principal projects the user onto the authorization principal.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Role: u.Role, Workspace: u.Workspace}
}
