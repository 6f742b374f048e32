package ontology

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads an ontology from a YAML file or a directory of YAML fragments.
//
// A single file may wrap the definition in a top-level "ontology" key, carry
// a root-level "entities" mapping, or describe one entity per document. A
// directory is read as sorted *.yaml / *.yml fragments, each contributing a
// disjoint set of entity names; a name collision across fragments is a load
// error, never a silent overwrite. Both layouts produce the same in-memory
// store for the same ontology.
//
// Declaration order is preserved: entity iteration follows source order and
// relations are materialized per entity in relationship declaration order.
func Load(path string) (*Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Source: path, Reason: "cannot read ontology source", Err: err}
	}

	var defs []entityDef
	if info.IsDir() {
		defs, err = loadDir(path)
	} else {
		defs, err = loadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, loadErrorf(path, "ontology definition must include 'entities'")
	}

	return buildStore(path, defs)
}

// entityDef is one parsed entity declaration, prior to cross-entity
// validation.
type entityDef struct {
	source string
	name   string
	cfg    entityConfig
}

type entityConfig struct {
	Name          string    `yaml:"name"`
	Description   string    `yaml:"description"`
	Synonyms      []string  `yaml:"synonyms"`
	Attributes    []string  `yaml:"attributes"`
	Relationships yaml.Node `yaml:"relationships"`
}

func loadDir(dir string) ([]entityDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{Source: dir, Reason: "cannot read ontology directory", Err: err}
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, loadErrorf(dir, "ontology directory contains no YAML files")
	}

	seen := make(map[string]string) // entity name -> defining file
	var defs []entityDef
	for _, file := range files {
		fragment, err := loadFile(file)
		if err != nil {
			return nil, err
		}
		for _, def := range fragment {
			if prev, dup := seen[def.name]; dup {
				return nil, loadErrorf(file, "duplicate entity %q (already defined in %s)", def.name, prev)
			}
			seen[def.name] = file
			defs = append(defs, def)
		}
	}
	return defs, nil
}

func loadFile(path string) ([]entityDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Reason: "cannot read ontology file", Err: err}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &LoadError{Source: path, Reason: "invalid YAML", Err: err}
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, loadErrorf(path, "ontology file is empty")
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, loadErrorf(path, "ontology document must be a mapping")
	}

	// Unwrap an optional top-level "ontology" key.
	if node := mappingValue(doc, "ontology"); node != nil {
		doc = node
		if doc.Kind != yaml.MappingNode {
			return nil, loadErrorf(path, "'ontology' section must be a mapping")
		}
	}

	if node := mappingValue(doc, "entities"); node != nil {
		if node.Kind != yaml.MappingNode {
			return nil, loadErrorf(path, "'entities' section must be a mapping")
		}
		return decodeEntityMap(path, node)
	}

	// Single-entity document with an explicit "name" key.
	if mappingValue(doc, "name") != nil {
		var cfg entityConfig
		if err := doc.Decode(&cfg); err != nil {
			return nil, &LoadError{Source: path, Reason: "invalid entity document", Err: err}
		}
		if cfg.Name == "" {
			return nil, loadErrorf(path, "entity definition must include a non-empty name")
		}
		return []entityDef{{source: path, name: cfg.Name, cfg: cfg}}, nil
	}

	// Single-entity document keyed by its name: {EntityName: {...}}.
	if len(doc.Content) == 2 && doc.Content[1].Kind == yaml.MappingNode {
		return decodeEntityMap(path, doc)
	}

	return nil, loadErrorf(path, "unable to extract entity definition: provide an 'entities' mapping or a single entity document")
}

func decodeEntityMap(source string, node *yaml.Node) ([]entityDef, error) {
	var defs []entityDef
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		name := keyNode.Value
		if name == "" {
			return nil, loadErrorf(source, "entity definition must include a non-empty name")
		}
		var cfg entityConfig
		if valNode.Kind != 0 && valNode.Tag != "!!null" {
			if valNode.Kind != yaml.MappingNode {
				return nil, loadErrorf(source, "entity %q definition must be a mapping", name)
			}
			if err := valNode.Decode(&cfg); err != nil {
				return nil, &LoadError{Source: source, Reason: fmt.Sprintf("invalid definition for entity %q", name), Err: err}
			}
		}
		defs = append(defs, entityDef{source: source, name: name, cfg: cfg})
	}
	return defs, nil
}

// mappingValue returns the value node for a key of a mapping node, or nil.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func buildStore(source string, defs []entityDef) (*Store, error) {
	schemas := make([]*EntitySchema, 0, len(defs))
	for _, def := range defs {
		ent := &EntitySchema{
			Name:          def.name,
			Description:   def.cfg.Description,
			Synonyms:      def.cfg.Synonyms,
			Attributes:    def.cfg.Attributes,
			Relationships: make(map[string]RelationshipSpec),
		}

		rels := def.cfg.Relationships
		if rels.Kind != 0 && rels.Tag != "!!null" {
			if rels.Kind != yaml.MappingNode {
				return nil, loadErrorf(def.source, "relationships of entity %q must be a mapping", def.name)
			}
			for i := 0; i+1 < len(rels.Content); i += 2 {
				relName := rels.Content[i].Value
				spec, err := decodeRelationship(def.source, def.name, relName, rels.Content[i+1])
				if err != nil {
					return nil, err
				}
				ent.Relationships[relName] = spec
				ent.RelationshipNames = append(ent.RelationshipNames, relName)
			}
		}
		schemas = append(schemas, ent)
	}

	store, err := NewStore(schemas)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Source == "" {
			loadErr.Source = source
		}
		return nil, err
	}
	return store, nil
}

func decodeRelationship(source, entity, relName string, node *yaml.Node) (RelationshipSpec, error) {
	var spec RelationshipSpec
	switch node.Kind {
	case yaml.ScalarNode:
		spec.Target = node.Value
	case yaml.MappingNode:
		if err := node.Decode(&spec); err != nil {
			return spec, &LoadError{Source: source, Reason: fmt.Sprintf("invalid relationship %q under entity %q", relName, entity), Err: err}
		}
	default:
		return spec, loadErrorf(source, "relationship %q under entity %q must be a target name or a mapping", relName, entity)
	}
	if spec.Target == "" {
		return spec, loadErrorf(source, "relationship %q under entity %q is missing a target", relName, entity)
	}
	return spec, nil
}

// validateName rejects names that would collide with the relation wire-key
// separators "." and "->".
func validateName(source, kind, name string) error {
	if name == "" {
		return loadErrorf(source, "%s name cannot be empty", kind)
	}
	if strings.Contains(name, ".") || strings.Contains(name, "->") {
		return loadErrorf(source, "%s name %q must not contain '.' or '->'", kind, name)
	}
	return nil
}
