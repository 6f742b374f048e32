// Package ontology defines the entity/relation catalog the planning
// pipeline is grounded on, and loads it from YAML sources.
//
// The store is built once at startup and is read-only afterwards, so it can
// be shared by any number of concurrent query pipelines without locking.
package ontology

import (
	"fmt"
	"strings"
)

// RelationKey identifies a directed relation as the (from, name, to) triple.
// Direction matters: (A, r, B) and (B, r, A) are distinct keys.
type RelationKey struct {
	From string
	Name string
	To   string
}

// String renders the key in the wire form used at the relevance oracle
// boundary: "{from}.{name}->{to}".
func (k RelationKey) String() string {
	return k.From + "." + k.Name + "->" + k.To
}

// ParseRelationKey parses the "{from}.{name}->{to}" wire form. The split is
// on the first "." and then on the first "->", so entity and relation names
// must not contain either separator (the loader enforces this).
func ParseRelationKey(s string) (RelationKey, error) {
	from, rest, ok := strings.Cut(s, ".")
	if !ok || from == "" {
		return RelationKey{}, fmt.Errorf("invalid relation key %q: missing '.' separator", s)
	}
	name, to, ok := strings.Cut(rest, "->")
	if !ok || name == "" || to == "" {
		return RelationKey{}, fmt.Errorf("invalid relation key %q: missing '->' separator", s)
	}
	return RelationKey{From: from, Name: name, To: to}, nil
}

// RelationshipSpec describes one outgoing relationship declared on an entity.
type RelationshipSpec struct {
	Target      string `json:"target" yaml:"target"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// EntitySchema is one named entity type in the ontology.
type EntitySchema struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Synonyms    []string `json:"synonyms,omitempty"`
	Attributes  []string `json:"attributes,omitempty"`

	// Relationships maps relation name to its spec. RelationshipNames keeps
	// the declaration order, which drives relation iteration determinism.
	Relationships     map[string]RelationshipSpec `json:"relationships,omitempty"`
	RelationshipNames []string                    `json:"-"`
}

// RelationSchema is the materialized form of one relationship declaration.
type RelationSchema struct {
	Name        string `json:"name"`
	FromEntity  string `json:"from_entity"`
	ToEntity    string `json:"to_entity"`
	Description string `json:"description,omitempty"`
}

// Key returns the relation's composite key.
func (r *RelationSchema) Key() RelationKey {
	return RelationKey{From: r.FromEntity, Name: r.Name, To: r.ToEntity}
}

// Store holds the loaded ontology. Entity and relation iteration follow
// source declaration order.
type Store struct {
	entities    map[string]*EntitySchema
	entityOrder []string

	relations     map[RelationKey]*RelationSchema
	relationOrder []RelationKey
}

// Entity returns the schema for an exact (case-sensitive) entity name.
func (s *Store) Entity(name string) (*EntitySchema, bool) {
	e, ok := s.entities[name]
	return e, ok
}

// HasEntity reports whether the entity name is defined.
func (s *Store) HasEntity(name string) bool {
	_, ok := s.entities[name]
	return ok
}

// FindEntityByLabel matches a surface label against entity names and
// synonyms, case-insensitively. The first match in declaration order wins.
func (s *Store) FindEntityByLabel(label string) (*EntitySchema, bool) {
	lower := strings.ToLower(label)
	for _, name := range s.entityOrder {
		ent := s.entities[name]
		if strings.ToLower(ent.Name) == lower {
			return ent, true
		}
		for _, syn := range ent.Synonyms {
			if strings.ToLower(syn) == lower {
				return ent, true
			}
		}
	}
	return nil, false
}

// Relation looks up a relation by its composite key.
func (s *Store) Relation(key RelationKey) (*RelationSchema, bool) {
	r, ok := s.relations[key]
	return r, ok
}

// RelationsFrom lists relations whose source is the given entity, in
// declaration order.
func (s *Store) RelationsFrom(entity string) []*RelationSchema {
	var out []*RelationSchema
	for _, key := range s.relationOrder {
		if key.From == entity {
			out = append(out, s.relations[key])
		}
	}
	return out
}

// RelationsTo lists relations whose target is the given entity, in
// declaration order. This is a scan over the relation index; no reverse
// table is kept.
func (s *Store) RelationsTo(entity string) []*RelationSchema {
	var out []*RelationSchema
	for _, key := range s.relationOrder {
		if key.To == entity {
			out = append(out, s.relations[key])
		}
	}
	return out
}

// Relations returns outgoing then incoming relations for an entity. A
// self-relation appears twice; callers that need set semantics must
// deduplicate themselves.
func (s *Store) Relations(entity string) []*RelationSchema {
	return append(s.RelationsFrom(entity), s.RelationsTo(entity)...)
}

// Entities lists all entity schemas in declaration order.
func (s *Store) Entities() []*EntitySchema {
	out := make([]*EntitySchema, 0, len(s.entityOrder))
	for _, name := range s.entityOrder {
		out = append(out, s.entities[name])
	}
	return out
}

// EntityNames lists entity names in declaration order.
func (s *Store) EntityNames() []string {
	names := make([]string, len(s.entityOrder))
	copy(names, s.entityOrder)
	return names
}

// RelationCount returns the number of materialized relations.
func (s *Store) RelationCount() int {
	return len(s.relations)
}
