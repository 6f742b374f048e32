package planning

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ontoplan/ontoplan/pkg/grounding"
	"github.com/ontoplan/ontoplan/pkg/ontology"
	"github.com/ontoplan/ontoplan/pkg/semantic"
)

// PlanRequest carries everything the synthesis oracle needs to produce a
// plan: the query, its grounding artifacts, and the schemas the plan must
// type-check against. Oracle implementations convert the typed fields to
// wire dicts themselves.
type PlanRequest struct {
	Query    string
	Intent   string
	Entities []grounding.ExtractedEntity

	Tools         []*semantic.ToolInfo
	EntitySchemas []*ontology.EntitySchema
	Relations     []*ontology.RelationSchema

	// TypeSchemas maps entity name to its normalized JSON type schema.
	TypeSchemas map[string]map[string]any
}

// PlanOracle produces an execution plan for a grounded query. The
// synthesizer owns validation; the oracle only proposes.
type PlanOracle interface {
	GeneratePlan(ctx context.Context, req *PlanRequest) (Plan, error)
}

// Synthesizer drives one oracle round and gates the result through the
// plan contract before handing it on.
type Synthesizer struct {
	oracle PlanOracle
	logger *slog.Logger
}

// NewSynthesizer builds a synthesizer. A nil logger falls back to the
// process default.
func NewSynthesizer(oracle PlanOracle, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{oracle: oracle, logger: logger}
}

// Synthesize asks the oracle for a plan and validates it against the
// request's candidate tool set. A contract violation surfaces as
// *MalformedPlanError; the invalid plan is not returned.
func (s *Synthesizer) Synthesize(ctx context.Context, req *PlanRequest) (Plan, error) {
	if len(req.Tools) == 0 {
		return nil, fmt.Errorf("no candidate tools for query %q", req.Query)
	}

	plan, err := s.oracle.GeneratePlan(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("plan generation: %w", err)
	}

	names := make([]string, 0, len(req.Tools))
	for _, t := range req.Tools {
		names = append(names, t.Name)
	}
	if err := Validate(plan, names); err != nil {
		s.logger.Warn("rejected plan", "query", req.Query, "error", err)
		return nil, err
	}

	s.logger.Debug("synthesized plan", "query", req.Query, "steps", len(plan))
	return plan, nil
}
