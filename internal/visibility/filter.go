package visibility

import (
	"sort"

	"lisadocs/internal/authz"
	"lisadocs/internal/model"
)

// Filter carries the caller-supplied listing filters. All of them are AND-ed
// on top of the visibility predicate, never merged into it.
type Filter struct {
	Workspace *model.Workspace
	Status    *model.Status
	Search    string
	Facets    map[string]string
}

// Builder composes per-user accessible-workspace sets into safe predicates.
type Builder struct {
	resolver *authz.Resolver
}

// NewBuilder constructs a Builder on top of the access resolver.
func NewBuilder(resolver *authz.Resolver) *Builder {
	return &Builder{resolver: resolver}
}

// ListPredicate returns the broad-policy predicate: administrators are
// unrestricted; everyone else sees their own documents plus documents in
// their accessible workspaces. When an explicit workspace filter names a
// workspace the requester cannot access, the result narrows to the
// requester's own documents in that workspace instead of denying the request.
func (b *Builder) ListPredicate(p model.Principal, f Filter) Node {
	var vis Node
	if p.Role != model.RoleAdministrador {
		vis = Or{
			Eq("created_by", p.ID),
			In("workspace", toAny(b.resolver.AccessibleWorkspaces(p))),
		}
		if f.Workspace != nil && !b.resolver.Resolve(p, *f.Workspace).HasAccess {
			vis = Eq("created_by", p.ID)
		}
	}
	return b.combine(vis, f)
}

// StrictPredicate returns the stricter visibility policy used by every
// listing surface reachable by non-privileged roles: administrators and
// executives are unrestricted; everyone else sees their own documents in any
// status plus stored documents in their accessible workspaces. Drafts are
// creator-only.
func (b *Builder) StrictPredicate(p model.Principal, f Filter) Node {
	var vis Node
	if p.Role != model.RoleAdministrador && !p.Role.IsExecutive() {
		vis = Or{
			Eq("created_by", p.ID),
			And{
				In("workspace", toAny(b.resolver.AccessibleWorkspaces(p))),
				Eq("status", model.StatusStored),
			},
		}
		if f.Workspace != nil && !b.resolver.Resolve(p, *f.Workspace).HasAccess {
			vis = Eq("created_by", p.ID)
		}
	}
	return b.combine(vis, f)
}

// combine layers the caller's filters on top of the visibility clause. The
// visibility OR and the search OR stay separate conjuncts; flattening them
// into one OR would leak cross-user visibility.
func (b *Builder) combine(vis Node, f Filter) Node {
	pred := And{}
	if vis != nil {
		pred = append(pred, vis)
	}
	if f.Workspace != nil {
		pred = append(pred, Eq("workspace", *f.Workspace))
	}
	if f.Status != nil {
		pred = append(pred, Eq("status", *f.Status))
	}
	if f.Search != "" {
		pred = append(pred, Or{
			Search("title", f.Search),
			Search("description", f.Search),
		})
	}
	for _, k := range sortedKeys(f.Facets) {
		pred = append(pred, FacetIs(k, f.Facets[k]))
	}
	return pred
}

// sortedKeys keeps facet conditions in a stable order so compiled queries are
// deterministic.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toAny(ws []model.Workspace) []any {
	out := make([]any, len(ws))
	for i, w := range ws {
		out[i] = w
	}
	return out
}
