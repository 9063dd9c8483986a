// Package lifecycle owns the document status state machine: which transitions
// exist, who may perform them, and the timestamp side effects of applying one.
package lifecycle

import (
	"time"

	"lisadocs/internal/authz"
	"lisadocs/internal/model"
)

// ReasonStatusDenied is surfaced when no permission rule allows a transition.
const ReasonStatusDenied = "Insufficient permissions to change document status"

// Policy controls the front-door canonical transition table. The permission
// gate is the authoritative transition policy for the engine; the canonical
// table is a stricter check applied only at the API boundary. Existing
// deployments carry archived documents that creators/admins restore, so the
// restore edge is policy-switchable rather than hardcoded either way.
type Policy struct {
	// AllowArchivedRestore adds archived -> stored to the canonical table.
	AllowArchivedRestore bool
}

// Decision is the outcome of a permission-gate evaluation.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Engine evaluates transition permissions and applies transition side effects.
// Stateless; safe for concurrent use.
type Engine struct {
	resolver *authz.Resolver
	policy   Policy
}

// NewEngine constructs an Engine with the given access resolver and policy.
func NewEngine(resolver *authz.Resolver, policy Policy) *Engine {
	return &Engine{resolver: resolver, policy: policy}
}

// canonical is the strict transition table used at the API boundary.
var canonical = map[model.Status][]model.Status{
	model.StatusDraft:    {model.StatusStored},
	model.StatusStored:   {model.StatusArchived},
	model.StatusArchived: {},
}

// CanonicalAllowed reports whether current -> next appears in the canonical
// table, honoring the archived-restore policy flag.
func (e *Engine) CanonicalAllowed(current, next model.Status) bool {
	if e.policy.AllowArchivedRestore && current == model.StatusArchived && next == model.StatusStored {
		return true
	}
	for _, s := range canonical[current] {
		if s == next {
			return true
		}
	}
	return false
}

// creatorAllowed is the broader transition set granted to a document's
// creator: promote, demote back to draft, archive from anywhere, and restore
// an archived document.
func creatorAllowed(current, next model.Status) bool {
	switch {
	case current == model.StatusDraft && next == model.StatusStored:
		return true
	case current == model.StatusStored && next == model.StatusDraft:
		return true
	case next == model.StatusArchived:
		return true
	case current == model.StatusArchived && next == model.StatusStored:
		return true
	default:
		return false
	}
}

// CanChangeStatus is the permission gate, evaluated before any transition
// table. Rules in priority order: administrador always; creator for the
// creator-allowed set; then workspace access is required, with executives
// allowed anywhere, secretaries/intendente/cf_member only in their own
// (or mandated) workspace.
func (e *Engine) CanChangeStatus(p model.Principal, doc *model.Document, next model.Status) Decision {
	if p.Role == model.RoleAdministrador {
		return Decision{Allowed: true}
	}
	if doc.CreatedBy == p.ID {
		if creatorAllowed(doc.Status, next) {
			return Decision{Allowed: true}
		}
		return Decision{Reason: ReasonStatusDenied}
	}

	access := e.resolver.Resolve(p, doc.Workspace)
	if !access.HasAccess {
		reason := access.Reason
		if reason == "" {
			reason = ReasonStatusDenied
		}
		return Decision{Reason: reason}
	}

	switch {
	case p.Role.IsExecutive():
		return Decision{Allowed: true}
	case p.Role.IsSecretary():
		if p.Workspace == doc.Workspace {
			return Decision{Allowed: true}
		}
	case p.Role == model.RoleIntendente:
		if doc.Workspace == model.WorkspaceIntendencia {
			return Decision{Allowed: true}
		}
	case p.Role == model.RoleCFMember:
		if doc.Workspace == model.WorkspaceComisionesCF {
			return Decision{Allowed: true}
		}
	}
	return Decision{Reason: ReasonStatusDenied}
}

// ApplyTransition mutates doc in place for a permitted transition: status,
// UpdatedAt, and the stored/archived timestamps. Entering draft clears both
// timestamps.
func (e *Engine) ApplyTransition(doc *model.Document, next model.Status, now time.Time) {
	doc.Status = next
	doc.UpdatedAt = now
	switch next {
	case model.StatusStored:
		t := now
		doc.StoredAt = &t
	case model.StatusArchived:
		t := now
		doc.ArchivedAt = &t
	case model.StatusDraft:
		doc.StoredAt = nil
		doc.ArchivedAt = nil
	}
}

// CanDelete gates the (non-state-machine) delete operation: administrador
// always; the creator while the document is a draft; secretaries within
// their workspace and executives anywhere, both only before archival.
func (e *Engine) CanDelete(p model.Principal, doc *model.Document) Decision {
	switch {
	case p.Role == model.RoleAdministrador:
		return Decision{Allowed: true}
	case doc.CreatedBy == p.ID && doc.Status == model.StatusDraft:
		return Decision{Allowed: true}
	case p.Role.IsSecretary() && p.Workspace == doc.Workspace && doc.Status != model.StatusArchived:
		return Decision{Allowed: true}
	case p.Role.IsExecutive() && doc.Status != model.StatusArchived:
		return Decision{Allowed: true}
	default:
		return Decision{Reason: "Insufficient permissions to delete this document"}
	}
}
