// Package facet replaces free-form document tags with a typed key/value
// model validated against a per-workspace schema.
package facet

import (
	"fmt"
	"sort"

	"lisadocs/internal/model"
)

// Key names a facet dimension (e.g. "categoria").
type Key string

// Value is one admissible value for a facet key.
type Value string

// KeySpec describes a facet key: its admissible values, or any value when
// AllowAny is set.
type KeySpec struct {
	AllowAny bool
	Values   []Value
}

// Schema maps each workspace to its allowed facet keys.
type Schema map[model.Workspace]map[Key]KeySpec

// DefaultSchema is the facet vocabulary used by the five workspaces.
func DefaultSchema() Schema {
	categoria := func(vs ...Value) KeySpec { return KeySpec{Values: vs} }
	anio := KeySpec{AllowAny: true}

	return Schema{
		model.WorkspaceCAM: {
			"categoria": categoria("acta", "acuerdo", "convocatoria"),
			"anio":      anio,
		},
		model.WorkspaceAMPP: {
			"categoria": categoria("acta", "resolucion", "informe"),
			"anio":      anio,
		},
		model.WorkspacePresidencia: {
			"categoria": categoria("decreto", "comunicado", "directiva"),
			"anio":      anio,
		},
		model.WorkspaceIntendencia: {
			"categoria": categoria("resolucion", "presupuesto", "informe"),
			"anio":      anio,
		},
		model.WorkspaceComisionesCF: {
			"categoria": categoria("dictamen", "acta", "propuesta"),
			"comision":  {AllowAny: true},
			"anio":      anio,
		},
	}
}

// Validate checks facets against the workspace's key specs. Unknown keys and
// out-of-vocabulary values are rejected.
func (s Schema) Validate(ws model.Workspace, facets map[string]string) error {
	if len(facets) == 0 {
		return nil
	}
	specs, ok := s[ws]
	if !ok {
		return fmt.Errorf("workspace %s has no facet schema", ws)
	}
	for _, k := range sortedKeys(facets) {
		spec, ok := specs[Key(k)]
		if !ok {
			return fmt.Errorf("facet key %q is not allowed in workspace %s", k, ws)
		}
		if spec.AllowAny {
			continue
		}
		v := Value(facets[k])
		if !containsValue(spec.Values, v) {
			return fmt.Errorf("facet %s=%q is not in the %s vocabulary", k, v, ws)
		}
	}
	return nil
}

func containsValue(vs []Value, v Value) bool {
	for _, x := range vs {
		if x == v {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
