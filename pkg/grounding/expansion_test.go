package grounding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ontoplan/ontoplan/pkg/ontology"
)

func relevanceOf(pairs ...any) *RelevanceMap {
	m := NewRelevanceMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i].(ontology.RelationKey), pairs[i+1].(string))
	}
	return m
}

func TestExpand_TwoHopChain(t *testing.T) {
	hasFacility := ontology.RelationKey{From: "City", Name: "has_facility", To: "Facility"}
	hostsEvent := ontology.RelationKey{From: "Facility", Name: "hosts_event", To: "ContainerEvent"}

	expanded, active := Expand(
		[]ExtractedEntity{{Type: "City"}},
		relevanceOf(hasFacility, "yes", hostsEvent, "yes"),
	)

	assert.Equal(t, []string{"City", "ContainerEvent", "Facility"}, expanded)
	assert.Equal(t, []ontology.RelationKey{hasFacility, hostsEvent}, active)
}

func TestExpand_Bidirectional(t *testing.T) {
	// The seed is the *target* of the relevant relation; expansion must pull
	// in the source.
	hasEvent := ontology.RelationKey{From: "Container", Name: "has_event", To: "ContainerEvent"}

	expanded, _ := Expand(
		[]ExtractedEntity{{Type: "ContainerEvent"}},
		relevanceOf(hasEvent, "yes"),
	)
	assert.Equal(t, []string{"Container", "ContainerEvent"}, expanded)
}

func TestExpand_IgnoresIrrelevant(t *testing.T) {
	hasFacility := ontology.RelationKey{From: "City", Name: "has_facility", To: "Facility"}
	hasContainer := ontology.RelationKey{From: "Shipment", Name: "has_container", To: "Container"}

	expanded, active := Expand(
		[]ExtractedEntity{{Type: "City"}},
		relevanceOf(hasFacility, "yes", hasContainer, "no"),
	)

	assert.Equal(t, []string{"City", "Facility"}, expanded)
	assert.Equal(t, []ontology.RelationKey{hasFacility}, active)
}

func TestExpand_VerdictCaseInsensitive(t *testing.T) {
	hasFacility := ontology.RelationKey{From: "City", Name: "has_facility", To: "Facility"}

	expanded, _ := Expand(
		[]ExtractedEntity{{Type: "City"}},
		relevanceOf(hasFacility, "Yes"),
	)
	assert.Contains(t, expanded, "Facility")

	expanded, _ = Expand(
		[]ExtractedEntity{{Type: "City"}},
		relevanceOf(hasFacility, "YES"),
	)
	assert.Contains(t, expanded, "Facility")
}

func TestExpand_Monotone(t *testing.T) {
	hasFacility := ontology.RelationKey{From: "City", Name: "has_facility", To: "Facility"}

	seeds := []ExtractedEntity{{Type: "City"}, {Type: "Shipment"}}
	expanded, _ := Expand(seeds, relevanceOf(hasFacility, "yes"))

	for _, seed := range seeds {
		assert.Contains(t, expanded, seed.Type)
	}
}

func TestExpand_Idempotent(t *testing.T) {
	hasFacility := ontology.RelationKey{From: "City", Name: "has_facility", To: "Facility"}
	hostsEvent := ontology.RelationKey{From: "Facility", Name: "hosts_event", To: "ContainerEvent"}
	relevance := relevanceOf(hasFacility, "yes", hostsEvent, "yes")

	first, _ := Expand([]ExtractedEntity{{Type: "City"}}, relevance)

	// Feed the expansion back in as seeds: nothing further may grow.
	reseeded := make([]ExtractedEntity, 0, len(first))
	for _, name := range first {
		reseeded = append(reseeded, ExtractedEntity{Type: name})
	}
	second, _ := Expand(reseeded, relevance)

	require.Equal(t, first, second)
}

func TestExpand_MultiPassClosure(t *testing.T) {
	// The chain is ordered so that a single scan cannot finish: the last
	// relation becomes traversable only after the first has fired.
	hostsEvent := ontology.RelationKey{From: "Facility", Name: "hosts_event", To: "ContainerEvent"}
	hasFacility := ontology.RelationKey{From: "City", Name: "has_facility", To: "Facility"}

	expanded, _ := Expand(
		[]ExtractedEntity{{Type: "City"}},
		relevanceOf(hostsEvent, "yes", hasFacility, "yes"),
	)
	assert.Equal(t, []string{"City", "ContainerEvent", "Facility"}, expanded)
}

func TestExpand_NilRelevance(t *testing.T) {
	expanded, active := Expand([]ExtractedEntity{{Type: "City"}}, nil)
	assert.Equal(t, []string{"City"}, expanded)
	assert.Empty(t, active)
}
