package planning

import (
	"github.com/ontoplan/ontoplan/pkg/ontology"
	"github.com/ontoplan/ontoplan/pkg/semantic"
)

// Oracle payloads are plain maps rather than the domain structs so prompts
// see a stable JSON shape regardless of how the structs evolve.

// ToolsToDict converts tool metadata into planner-facing dicts.
func ToolsToDict(tools []*semantic.ToolInfo) []map[string]any {
	out := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		params := make([]map[string]any, 0, len(t.InputSchema))
		for _, p := range t.InputSchema {
			param := map[string]any{
				"name": p.Name,
				"type": p.Type,
			}
			if p.Default != nil {
				param["default"] = p.Default
			}
			params = append(params, param)
		}
		d := map[string]any{
			"name":         t.Name,
			"description":  t.Description,
			"input_schema": params,
			"output_type":  t.OutputType,
		}
		if t.AssociatedEntity != "" {
			d["associated_entity"] = t.AssociatedEntity
		}
		if t.AssociatedRelation != nil {
			d["associated_relation"] = t.AssociatedRelation.String()
		}
		out = append(out, d)
	}
	return out
}

// EntitiesToDict converts entity schemas into planner-facing dicts,
// preserving the given order.
func EntitiesToDict(entities []*ontology.EntitySchema) []map[string]any {
	out := make([]map[string]any, 0, len(entities))
	for _, e := range entities {
		rels := make(map[string]any, len(e.Relationships))
		for _, name := range e.RelationshipNames {
			spec := e.Relationships[name]
			rels[name] = map[string]any{
				"target":      spec.Target,
				"description": spec.Description,
			}
		}
		out = append(out, map[string]any{
			"name":          e.Name,
			"description":   e.Description,
			"synonyms":      append([]string(nil), e.Synonyms...),
			"relationships": rels,
		})
	}
	return out
}

// RelationsToDict converts relation schemas into planner-facing dicts.
func RelationsToDict(relations []*ontology.RelationSchema) []map[string]any {
	out := make([]map[string]any, 0, len(relations))
	for _, r := range relations {
		out = append(out, map[string]any{
			"name":        r.Name,
			"from_entity": r.FromEntity,
			"to_entity":   r.ToEntity,
			"description": r.Description,
		})
	}
	return out
}

// NormalizeTypeSchema returns a copy of the schema with every "format" key
// whose value is exactly "date-time" removed, so a planner never emits
// ISO8601 timestamps for fields that are plain strings at the wire level.
// Every other schema keyword is left untouched. The input is never
// modified; type schemas are shared read-only across concurrent queries.
func NormalizeTypeSchema(schema map[string]any) map[string]any {
	if schema == nil {
		return nil
	}
	out, _ := normalizeSchemaValue(schema).(map[string]any)
	return out
}

func normalizeSchemaValue(v any) any {
	switch node := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(node))
		for key, val := range node {
			if key == "format" {
				if f, ok := val.(string); ok && f == "date-time" {
					continue
				}
			}
			out[key] = normalizeSchemaValue(val)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, item := range node {
			out[i] = normalizeSchemaValue(item)
		}
		return out
	default:
		return v
	}
}
