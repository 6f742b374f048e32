package model

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// TypeSchemas reflects a JSON schema for every domain record type, keyed by
// entity name. Schemas are fully inlined so each one is self-contained when
// serialized into an oracle prompt.
func TypeSchemas() (map[string]map[string]any, error) {
	out := make(map[string]map[string]any, len(Entities()))
	for _, e := range Entities() {
		schema, err := reflectSchema(e.Value)
		if err != nil {
			return nil, fmt.Errorf("schema for %s: %w", e.Name, err)
		}
		out[e.Name] = schema
	}
	return out, nil
}

// TypeSchema reflects the schema of a single value.
func TypeSchema(v any) (map[string]any, error) {
	return reflectSchema(v)
}

func reflectSchema(v any) (map[string]any, error) {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}
	schema := reflector.Reflect(v)

	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	delete(m, "$schema")
	delete(m, "$id")
	return m, nil
}
