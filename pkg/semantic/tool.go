// Package semantic composes the ontology store with a declarative tool
// catalog. The resulting Layer is the single lookup surface every pipeline
// stage works against: entity and relation schemas on one side, the tools
// that can retrieve them on the other.
package semantic

import (
	"fmt"

	"github.com/ontoplan/ontoplan/pkg/ontology"
)

// Param is one declared tool parameter.
type Param struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default any    `json:"default,omitempty"`
}

// ToolInfo is the declarative metadata for one callable retrieval
// operation. A tool is associated with exactly one entity or one relation;
// when both fields are set (the entity restating the relation source) the
// relation association wins.
type ToolInfo struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	InputSchema []Param `json:"input_schema"`
	OutputType  string  `json:"output_type"`

	AssociatedEntity   string                `json:"associated_entity,omitempty"`
	AssociatedRelation *ontology.RelationKey `json:"associated_relation,omitempty"`
}

// Kind reports the association kind, "relation" or "entity".
func (t *ToolInfo) Kind() string {
	if t.AssociatedRelation != nil {
		return "relation"
	}
	return "entity"
}

// InvalidToolSpecError reports a tool declaration that cannot be registered.
type InvalidToolSpecError struct {
	Tool   string
	Reason string
}

func (e *InvalidToolSpecError) Error() string {
	return fmt.Sprintf("invalid tool spec %q: %s", e.Tool, e.Reason)
}

// UnknownAssociationError reports a tool whose declared relation is not part
// of the ontology's relation index.
type UnknownAssociationError struct {
	Tool     string
	Relation ontology.RelationKey
}

func (e *UnknownAssociationError) Error() string {
	return fmt.Sprintf("tool %q is associated with unknown relation %s", e.Tool, e.Relation)
}

// validateSpec applies the registration-time consistency checks.
func validateSpec(t *ToolInfo) error {
	if t.AssociatedEntity == "" && t.AssociatedRelation == nil {
		return &InvalidToolSpecError{Tool: t.Name, Reason: "must declare an entity or relation association"}
	}
	if t.AssociatedEntity != "" && t.AssociatedRelation != nil && t.AssociatedEntity != t.AssociatedRelation.From {
		return &InvalidToolSpecError{
			Tool:   t.Name,
			Reason: fmt.Sprintf("entity %q does not match relation source %q", t.AssociatedEntity, t.AssociatedRelation.From),
		}
	}
	return nil
}
