package semantic

import (
	"fmt"

	"github.com/ontoplan/ontoplan/pkg/ontology"
	"github.com/ontoplan/ontoplan/pkg/registry"
)

// ToolRegistry collects tool declarations before the layer is built.
// Registration order is preserved; it determines candidate ordering
// everywhere downstream.
type ToolRegistry struct {
	base *registry.BaseRegistry[*ToolInfo]
}

func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{base: registry.NewBaseRegistry[*ToolInfo]()}
}

// Register validates and records one tool declaration. Tools without a name
// get a generated identifier derived from the registration position.
func (r *ToolRegistry) Register(tool *ToolInfo) error {
	if tool == nil {
		return fmt.Errorf("tool cannot be nil")
	}
	if err := validateSpec(tool); err != nil {
		return err
	}
	if tool.Name == "" {
		tool.Name = fmt.Sprintf("tool_%d", r.base.Count()+1)
	}
	return r.base.Register(tool.Name, tool)
}

// RegisterAll registers a declaration table, stopping at the first error.
func (r *ToolRegistry) RegisterAll(tools []*ToolInfo) error {
	for _, tool := range tools {
		if err := r.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

// Tools returns declarations in registration order.
func (r *ToolRegistry) Tools() []*ToolInfo {
	return r.base.List()
}

// Layer is the read-only composite of ontology store and tool catalog. The
// embedded store promotes all schema lookups (Entity, Relation,
// RelationsFrom, ...) onto the layer.
type Layer struct {
	*ontology.Store

	tools     map[string]*ToolInfo
	toolOrder []string

	toolsByRelation map[ontology.RelationKey][]*ToolInfo
	toolsByEntity   map[string][]*ToolInfo
}

// Build links the tool catalog against the ontology, partitioning tools into
// the two derived indices in a single pass. A tool declaring a relation that
// is absent from the relation index fails the build with
// UnknownAssociationError.
func Build(store *ontology.Store, reg *ToolRegistry) (*Layer, error) {
	if store == nil {
		return nil, fmt.Errorf("ontology store is required")
	}
	if reg == nil {
		reg = NewToolRegistry()
	}

	layer := &Layer{
		Store:           store,
		tools:           make(map[string]*ToolInfo),
		toolsByRelation: make(map[ontology.RelationKey][]*ToolInfo),
		toolsByEntity:   make(map[string][]*ToolInfo),
	}

	for _, tool := range reg.Tools() {
		if tool.AssociatedRelation != nil {
			key := *tool.AssociatedRelation
			if _, ok := store.Relation(key); !ok {
				return nil, &UnknownAssociationError{Tool: tool.Name, Relation: key}
			}
			layer.toolsByRelation[key] = append(layer.toolsByRelation[key], tool)
		} else {
			layer.toolsByEntity[tool.AssociatedEntity] = append(layer.toolsByEntity[tool.AssociatedEntity], tool)
		}
		layer.tools[tool.Name] = tool
		layer.toolOrder = append(layer.toolOrder, tool.Name)
	}

	return layer, nil
}

// Tool looks up a tool by name.
func (l *Layer) Tool(name string) (*ToolInfo, bool) {
	t, ok := l.tools[name]
	return t, ok
}

// Tools lists all tools in registration order.
func (l *Layer) Tools() []*ToolInfo {
	out := make([]*ToolInfo, 0, len(l.toolOrder))
	for _, name := range l.toolOrder {
		out = append(out, l.tools[name])
	}
	return out
}

// ToolsForEntity returns the entity-associated tools for an entity name. The
// result is empty, never an error, when nothing matches.
func (l *Layer) ToolsForEntity(entity string) []*ToolInfo {
	return l.toolsByEntity[entity]
}

// ToolsForRelation returns the relation-associated tools for a relation key.
func (l *Layer) ToolsForRelation(key ontology.RelationKey) []*ToolInfo {
	return l.toolsByRelation[key]
}

// SelectTools maps expanded entities and active relations to the candidate
// tool list for planning: entity tools first (in entity input order), then
// relation tools (in relation input order), deduplicated by tool name
// keeping the first occurrence. Entity-associated tools therefore win over
// relation-associated tools sharing a name; the planner presents candidates
// in this order, so the ordering is part of the contract.
func (l *Layer) SelectTools(expandedEntities []string, activeRelations []ontology.RelationKey) []*ToolInfo {
	var candidates []*ToolInfo
	for _, entity := range expandedEntities {
		candidates = append(candidates, l.ToolsForEntity(entity)...)
	}
	for _, rel := range activeRelations {
		candidates = append(candidates, l.ToolsForRelation(rel)...)
	}

	seen := make(map[string]bool, len(candidates))
	unique := make([]*ToolInfo, 0, len(candidates))
	for _, tool := range candidates {
		if seen[tool.Name] {
			continue
		}
		seen[tool.Name] = true
		unique = append(unique, tool)
	}
	return unique
}
