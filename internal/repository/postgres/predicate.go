package postgres

import (
	"encoding/json"
	"fmt"
	"strings"

	"lisadocs/internal/visibility"
)

// columns whitelists the predicate fields that may appear in WHERE clauses.
var columns = map[string]string{
	"created_by":  "created_by",
	"workspace":   "workspace",
	"status":      "status",
	"title":       "title",
	"description": "description",
	"facets":      "facets",
}

// compilePredicate turns a visibility predicate tree into a parameterized SQL
// condition, appending values to args. A nil node compiles to TRUE.
func compilePredicate(n visibility.Node, args *[]any) (string, error) {
	switch node := n.(type) {
	case nil:
		return "TRUE", nil
	case visibility.Cond:
		return compileCond(node, args)
	case visibility.And:
		if len(node) == 0 {
			return "TRUE", nil
		}
		return compileBranch([]visibility.Node(node), " AND ", args)
	case visibility.Or:
		if len(node) == 0 {
			return "FALSE", nil
		}
		return compileBranch([]visibility.Node(node), " OR ", args)
	default:
		return "", fmt.Errorf("unsupported predicate node %T", n)
	}
}

func compileBranch(children []visibility.Node, sep string, args *[]any) (string, error) {
	parts := make([]string, 0, len(children))
	for _, c := range children {
		s, err := compilePredicate(c, args)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

func compileCond(c visibility.Cond, args *[]any) (string, error) {
	col, ok := columns[c.Field]
	if !ok {
		return "", fmt.Errorf("unknown predicate field %q", c.Field)
	}

	switch c.Op {
	case visibility.OpEq:
		*args = append(*args, c.Value)
		return fmt.Sprintf("%s = $%d", col, len(*args)), nil

	case visibility.OpIn:
		vals, ok := c.Value.([]any)
		if !ok {
			return "", fmt.Errorf("IN condition on %q requires a value list", c.Field)
		}
		if len(vals) == 0 {
			return "FALSE", nil
		}
		placeholders := make([]string, len(vals))
		for i, v := range vals {
			*args = append(*args, v)
			placeholders[i] = fmt.Sprintf("$%d", len(*args))
		}
		return fmt.Sprintf("%s IN (%s)", col, strings.Join(placeholders, ", ")), nil

	case visibility.OpILike:
		*args = append(*args, fmt.Sprintf("%%%v%%", c.Value))
		return fmt.Sprintf("%s ILIKE $%d", col, len(*args)), nil

	case visibility.OpContains:
		b, err := json.Marshal(c.Value)
		if err != nil {
			return "", fmt.Errorf("marshal containment value: %w", err)
		}
		*args = append(*args, string(b))
		return fmt.Sprintf("%s @> $%d::jsonb", col, len(*args)), nil

	default:
		return "", fmt.Errorf("unsupported predicate op %q", c.Op)
	}
}
