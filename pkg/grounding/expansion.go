package grounding

import (
	"sort"

	"github.com/ontoplan/ontoplan/pkg/ontology"
)

// Expand computes the deterministic fixed-point closure of the seed entity
// types along relations judged relevant.
//
// Active relations are the relevance map's keys whose verdict, lower-cased,
// equals "yes", in map insertion order. Expansion is bidirectional: once one
// endpoint of an active relation is in the set, the other endpoint is pulled
// in too. The scan repeats until a full pass adds nothing.
//
// The expanded entity list is sorted lexicographically so planner input is
// reproducible; active relations keep their encounter order. The result
// always contains the seed types (monotonicity), and feeding the expansion
// back in as seeds grows nothing further (idempotence).
func Expand(seeds []ExtractedEntity, relevance *RelevanceMap) (expanded []string, active []ontology.RelationKey) {
	entityTypes := make(map[string]bool)
	for _, seed := range seeds {
		if seed.Type != "" {
			entityTypes[seed.Type] = true
		}
	}

	if relevance != nil {
		for _, key := range relevance.Keys() {
			verdict, _ := relevance.Verdict(key)
			if IsRelevant(verdict) {
				active = append(active, key)
			}
		}
	}

	for changed := true; changed; {
		changed = false
		for _, rel := range active {
			if entityTypes[rel.From] && !entityTypes[rel.To] {
				entityTypes[rel.To] = true
				changed = true
			}
			if entityTypes[rel.To] && !entityTypes[rel.From] {
				entityTypes[rel.From] = true
				changed = true
			}
		}
	}

	expanded = make([]string, 0, len(entityTypes))
	for name := range entityTypes {
		expanded = append(expanded, name)
	}
	sort.Strings(expanded)
	return expanded, active
}
