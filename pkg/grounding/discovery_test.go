package grounding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ontoplan/ontoplan/pkg/ontology"
	"github.com/ontoplan/ontoplan/pkg/semantic"
)

func testLayer(t *testing.T) *semantic.Layer {
	t.Helper()
	store, err := ontology.NewStore([]*ontology.EntitySchema{
		{
			Name: "City",
			Relationships: map[string]ontology.RelationshipSpec{
				"has_facility": {Target: "Facility", Description: "facilities in the city"},
			},
			RelationshipNames: []string{"has_facility"},
		},
		{
			Name: "Facility",
			Relationships: map[string]ontology.RelationshipSpec{
				"hosts_event": {Target: "ContainerEvent", Description: "events at the facility"},
			},
			RelationshipNames: []string{"hosts_event"},
		},
		{
			Name: "Container",
			Relationships: map[string]ontology.RelationshipSpec{
				"has_event":  {Target: "ContainerEvent"},
				"belongs_to": {Target: "Shipment"},
			},
			RelationshipNames: []string{"has_event", "belongs_to"},
		},
		{
			Name: "Shipment",
			Relationships: map[string]ontology.RelationshipSpec{
				"has_container": {Target: "Container"},
			},
			RelationshipNames: []string{"has_container"},
		},
		{Name: "ContainerEvent"},
	})
	require.NoError(t, err)

	layer, err := semantic.Build(store, semantic.NewToolRegistry())
	require.NoError(t, err)
	return layer
}

func keysOf(candidates []Candidate) []ontology.RelationKey {
	keys := make([]ontology.RelationKey, 0, len(candidates))
	for _, c := range candidates {
		keys = append(keys, c.Key)
	}
	return keys
}

func TestDiscoverRelations_FirstSeenOrder(t *testing.T) {
	layer := testLayer(t)

	seeds := []ExtractedEntity{
		{Type: "City", Value: "Sydney"},
		{Type: "Facility", Value: "Sydney terminal"},
	}

	got := keysOf(DiscoverRelations(layer, seeds))
	want := []ontology.RelationKey{
		// City touches has_facility (outgoing only).
		{From: "City", Name: "has_facility", To: "Facility"},
		// Facility: outgoing hosts_event; incoming has_facility is already seen.
		{From: "Facility", Name: "hosts_event", To: "ContainerEvent"},
	}
	require.Equal(t, want, got)
}

func TestDiscoverRelations_IncludesIncoming(t *testing.T) {
	layer := testLayer(t)

	got := keysOf(DiscoverRelations(layer, []ExtractedEntity{{Type: "ContainerEvent"}}))
	want := []ontology.RelationKey{
		{From: "Facility", Name: "hosts_event", To: "ContainerEvent"},
		{From: "Container", Name: "has_event", To: "ContainerEvent"},
	}
	require.Equal(t, want, got)
}

func TestDiscoverRelations_NoDuplicateKeys(t *testing.T) {
	layer := testLayer(t)

	seeds := []ExtractedEntity{
		{Type: "Container"},
		{Type: "Shipment"},
		{Type: "Container"},
	}
	candidates := DiscoverRelations(layer, seeds)

	seen := make(map[ontology.RelationKey]bool)
	for _, c := range candidates {
		if seen[c.Key] {
			t.Fatalf("relation %s appears twice", c.Key)
		}
		seen[c.Key] = true
	}
}

func TestDiscoverRelations_SkipsUntypedSeeds(t *testing.T) {
	layer := testLayer(t)

	candidates := DiscoverRelations(layer, []ExtractedEntity{
		{Value: "something untyped"},
		{Type: "City"},
	})
	require.Len(t, candidates, 1)
}

func TestDiscoverRelations_Deterministic(t *testing.T) {
	layer := testLayer(t)
	seeds := []ExtractedEntity{{Type: "City"}, {Type: "Container"}}

	first := keysOf(DiscoverRelations(layer, seeds))
	for i := 0; i < 20; i++ {
		require.Equal(t, first, keysOf(DiscoverRelations(layer, seeds)))
	}
}
