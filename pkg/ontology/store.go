package ontology

// NewStore builds a store from already-parsed entity schemas, applying the
// same validation as the YAML loader: unique entity names, separator-free
// names, and no dangling relationship targets. It exists so tests and
// embedders can fabricate ontologies without a YAML source.
//
// Relationship declaration order is taken from RelationshipNames; entries in
// Relationships missing from that list are appended in map order last, which
// is only acceptable for single-relationship entities.
func NewStore(entities []*EntitySchema) (*Store, error) {
	store := &Store{
		entities:  make(map[string]*EntitySchema),
		relations: make(map[RelationKey]*RelationSchema),
	}

	for _, ent := range entities {
		if err := validateName("", "entity", ent.Name); err != nil {
			return nil, err
		}
		if _, dup := store.entities[ent.Name]; dup {
			return nil, loadErrorf("", "duplicate entity %q", ent.Name)
		}
		if ent.Relationships == nil {
			ent.Relationships = make(map[string]RelationshipSpec)
		}
		if len(ent.RelationshipNames) != len(ent.Relationships) {
			for name := range ent.Relationships {
				if !contains(ent.RelationshipNames, name) {
					ent.RelationshipNames = append(ent.RelationshipNames, name)
				}
			}
		}
		store.entities[ent.Name] = ent
		store.entityOrder = append(store.entityOrder, ent.Name)
	}

	for _, name := range store.entityOrder {
		ent := store.entities[name]
		for _, relName := range ent.RelationshipNames {
			if err := validateName("", "relation", relName); err != nil {
				return nil, err
			}
			spec := ent.Relationships[relName]
			if spec.Target == "" {
				return nil, loadErrorf("", "relationship %q of entity %q is missing a target", relName, name)
			}
			if !store.HasEntity(spec.Target) {
				return nil, loadErrorf("", "relationship %q of entity %q targets unknown entity %q", relName, name, spec.Target)
			}
			rel := &RelationSchema{
				Name:        relName,
				FromEntity:  name,
				ToEntity:    spec.Target,
				Description: spec.Description,
			}
			key := rel.Key()
			if _, exists := store.relations[key]; !exists {
				store.relations[key] = rel
				store.relationOrder = append(store.relationOrder, key)
			}
		}
	}

	return store, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
