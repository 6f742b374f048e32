// Package grounding turns extracted query entities into a connected,
// relevant subgraph of the ontology. It is the middle of the pipeline:
// relation discovery and graph expansion are deterministic; between them
// sits the batched relevance oracle boundary.
package grounding

import (
	"github.com/ontoplan/ontoplan/pkg/ontology"
	"github.com/ontoplan/ontoplan/pkg/semantic"
)

// ExtractedEntity is one entity mention produced by query understanding:
// an ontology type name plus the surface text it was extracted from.
type ExtractedEntity struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// Candidate is one relation up for relevance judgment.
type Candidate struct {
	Key         ontology.RelationKey
	Description string
}

// DiscoverRelations enumerates the unique relations touching the seed
// entity types. Seeds without a type are skipped. Output order is
// first-seen order across the seed sequence, which downstream batching
// depends on; a relation key never appears twice.
func DiscoverRelations(layer *semantic.Layer, seeds []ExtractedEntity) []Candidate {
	seen := make(map[ontology.RelationKey]bool)
	var candidates []Candidate

	for _, seed := range seeds {
		if seed.Type == "" {
			continue
		}
		for _, rel := range layer.Relations(seed.Type) {
			key := rel.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			candidates = append(candidates, Candidate{Key: key, Description: rel.Description})
		}
	}
	return candidates
}
