package grounding

import (
	"context"
	"log/slog"

	"github.com/ontoplan/ontoplan/pkg/ontology"
	"github.com/ontoplan/ontoplan/pkg/semantic"
)

// Result carries every artifact of the grounding stage.
type Result struct {
	Candidates       []Candidate
	Relevance        *RelevanceMap
	ExpandedEntities []string
	ActiveRelations  []ontology.RelationKey
}

// Grounder composes relation discovery, relevance classification, and graph
// expansion into the semantic grounding stage.
type Grounder struct {
	layer      *semantic.Layer
	classifier *Classifier
	logger     *slog.Logger
}

func NewGrounder(layer *semantic.Layer, classifier *Classifier, logger *slog.Logger) *Grounder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Grounder{layer: layer, classifier: classifier, logger: logger}
}

// Ground runs the stage for one query. No extracted entities means an empty
// result, not an error.
func (g *Grounder) Ground(ctx context.Context, query, intent string, entities []ExtractedEntity) (*Result, error) {
	if len(entities) == 0 {
		return &Result{Relevance: NewRelevanceMap()}, nil
	}

	candidates := DiscoverRelations(g.layer, entities)
	g.logger.Debug("discovered candidate relations", "count", len(candidates))

	relevance, err := g.classifier.Classify(ctx, query, intent, candidates)
	if err != nil {
		return nil, err
	}

	expanded, activeRelations := Expand(entities, relevance)
	g.logger.Debug("expanded entity graph",
		"entities", len(expanded), "active_relations", len(activeRelations))

	return &Result{
		Candidates:       candidates,
		Relevance:        relevance,
		ExpandedEntities: expanded,
		ActiveRelations:  activeRelations,
	}, nil
}
