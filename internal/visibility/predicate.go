// Package visibility builds the query predicates that restrict document
// listings to what the requesting principal may see. Predicates are abstract
// conjunction/disjunction trees; the persistence layer compiles them to SQL.
package visibility

// Op is a comparison operator on a document field.
type Op string

const (
	OpEq       Op = "eq"
	OpIn       Op = "in"
	OpILike    Op = "ilike"    // case-insensitive substring match
	OpContains Op = "contains" // JSONB key/value containment
)

// Node is a predicate tree node: a Cond leaf, or an And/Or branch.
type Node interface {
	isNode()
}

// Cond is a single field comparison.
type Cond struct {
	Field string
	Op    Op
	Value any
}

// And is satisfied when every child is satisfied. An empty And matches all rows.
type And []Node

// Or is satisfied when any child is satisfied.
type Or []Node

func (Cond) isNode() {}
func (And) isNode()  {}
func (Or) isNode()   {}

// Eq builds an equality condition.
func Eq(field string, v any) Cond { return Cond{Field: field, Op: OpEq, Value: v} }

// In builds a membership condition over a value list.
func In(field string, vs []any) Cond { return Cond{Field: field, Op: OpIn, Value: vs} }

// Search builds a case-insensitive substring condition.
func Search(field, term string) Cond { return Cond{Field: field, Op: OpILike, Value: term} }

// FacetIs builds a JSONB containment condition on the facets column.
func FacetIs(key, value string) Cond {
	return Cond{Field: "facets", Op: OpContains, Value: map[string]string{key: value}}
}
