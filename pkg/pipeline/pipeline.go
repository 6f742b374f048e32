// Package pipeline composes query understanding, semantic grounding, and
// planning into the full natural-language-to-code flow. Each oracle-backed
// stage is injected behind an interface, so the pipeline itself is
// deterministic and testable with fakes.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ontoplan/ontoplan/pkg/grounding"
	"github.com/ontoplan/ontoplan/pkg/ontology"
	"github.com/ontoplan/ontoplan/pkg/planning"
	"github.com/ontoplan/ontoplan/pkg/semantic"
)

// ExtractionOracle is the query-understanding boundary: it maps a query to
// typed entity mentions and a short intent label. entityDescriptions
// entries are "Name: description" lines for every ontology entity.
type ExtractionOracle interface {
	Extract(ctx context.Context, query string, entityDescriptions []string) ([]grounding.ExtractedEntity, string, error)
}

// Result carries every artifact the pipeline produced for one query,
// including the intermediate ones. Callers that only want the code can
// ignore the rest; the server returns the whole thing so clients can see
// how the answer was grounded.
type Result struct {
	Query    string                      `json:"query"`
	Intent   string                      `json:"intent"`
	Entities []grounding.ExtractedEntity `json:"entities"`

	Candidates       []grounding.Candidate   `json:"-"`
	Relevance        *grounding.RelevanceMap `json:"-"`
	ExpandedEntities []string                `json:"expanded_entities,omitempty"`
	ActiveRelations  []ontology.RelationKey  `json:"active_relations,omitempty"`

	CandidateTools []string      `json:"candidate_tools,omitempty"`
	Plan           planning.Plan `json:"plan,omitempty"`
	Code           string        `json:"code,omitempty"`
}

// Pipeline wires the three stages over one semantic layer.
type Pipeline struct {
	layer       *semantic.Layer
	extraction  ExtractionOracle
	grounder    *grounding.Grounder
	synthesizer *planning.Synthesizer
	generator   *planning.CodeGenerator

	typeSchemas map[string]map[string]any
	metrics     *Metrics
	logger      *slog.Logger
}

// Option configures optional pipeline collaborators.
type Option func(*Pipeline)

// WithTypeSchemas supplies JSON type schemas keyed by entity name. They are
// normalized once here and held read-only for the pipeline's lifetime, so
// concurrent queries can share them; per query they are filtered to the
// expanded entity set before reaching the planning oracles.
func WithTypeSchemas(schemas map[string]map[string]any) Option {
	normalized := make(map[string]map[string]any, len(schemas))
	for name, schema := range schemas {
		normalized[name] = planning.NormalizeTypeSchema(schema)
	}
	return func(p *Pipeline) { p.typeSchemas = normalized }
}

// WithMetrics attaches stage metrics.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithLogger overrides the process default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

func New(layer *semantic.Layer, extraction ExtractionOracle, grounder *grounding.Grounder, synthesizer *planning.Synthesizer, generator *planning.CodeGenerator, opts ...Option) *Pipeline {
	p := &Pipeline{
		layer:       layer,
		extraction:  extraction,
		grounder:    grounder,
		synthesizer: synthesizer,
		generator:   generator,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the full flow for one query. Stages short-circuit instead of
// erroring when a query legitimately grounds to nothing: no extracted
// entities or no expanded entities yields a partial Result without a plan.
func (p *Pipeline) Run(ctx context.Context, query string) (*Result, error) {
	result := &Result{Query: query}
	started := time.Now()
	failedStage := ""
	defer func() {
		p.metrics.observeQuery(time.Since(started), failedStage)
	}()

	entities, intent, err := p.runExtraction(ctx, query, result)
	if err != nil {
		failedStage = stageExtraction
		return nil, err
	}
	if len(entities) == 0 {
		p.logger.Info("no ontology entities in query", "query", query)
		return result, nil
	}

	ground, err := p.runGrounding(ctx, query, intent, entities, result)
	if err != nil {
		failedStage = stageGrounding
		return nil, err
	}
	if len(result.ExpandedEntities) == 0 {
		p.logger.Info("query grounds to no known entities", "query", query)
		return result, nil
	}

	plan, tools, err := p.runPlanning(ctx, query, intent, entities, ground, result)
	if err != nil {
		failedStage = stagePlanning
		return nil, err
	}

	if err := p.runCodeGen(ctx, plan, tools, result); err != nil {
		failedStage = stageCodeGen
		return nil, err
	}

	p.metrics.observePlanSize(len(plan))
	return result, nil
}

func (p *Pipeline) runExtraction(ctx context.Context, query string, result *Result) ([]grounding.ExtractedEntity, string, error) {
	defer p.metrics.timeStage(stageExtraction)()

	entities, intent, err := p.extraction.Extract(ctx, query, p.entityDescriptions())
	if err != nil {
		return nil, "", fmt.Errorf("query understanding: %w", err)
	}
	result.Entities = entities
	result.Intent = intent
	p.logger.Debug("extracted entities", "count", len(entities), "intent", intent)
	return entities, intent, nil
}

func (p *Pipeline) runGrounding(ctx context.Context, query, intent string, entities []grounding.ExtractedEntity, result *Result) (*grounding.Result, error) {
	defer p.metrics.timeStage(stageGrounding)()

	ground, err := p.grounder.Ground(ctx, query, intent, entities)
	if err != nil {
		return nil, fmt.Errorf("semantic grounding: %w", err)
	}

	// Extraction may surface entity types the ontology does not define;
	// planning only ever sees known entities.
	expanded := make([]string, 0, len(ground.ExpandedEntities))
	for _, name := range ground.ExpandedEntities {
		if p.layer.HasEntity(name) {
			expanded = append(expanded, name)
		} else {
			p.logger.Warn("dropping unknown expanded entity", "entity", name)
		}
	}

	result.Candidates = ground.Candidates
	result.Relevance = ground.Relevance
	result.ExpandedEntities = expanded
	result.ActiveRelations = ground.ActiveRelations
	return ground, nil
}

func (p *Pipeline) runPlanning(ctx context.Context, query, intent string, entities []grounding.ExtractedEntity, ground *grounding.Result, result *Result) (planning.Plan, []*semantic.ToolInfo, error) {
	defer p.metrics.timeStage(stagePlanning)()

	tools := p.layer.SelectTools(result.ExpandedEntities, ground.ActiveRelations)
	for _, tool := range tools {
		result.CandidateTools = append(result.CandidateTools, tool.Name)
	}

	req := &planning.PlanRequest{
		Query:         query,
		Intent:        intent,
		Entities:      entities,
		Tools:         tools,
		EntitySchemas: p.entitySchemas(result.ExpandedEntities),
		Relations:     p.relationSchemas(ground.ActiveRelations),
		TypeSchemas:   p.planningTypeSchemas(result.ExpandedEntities),
	}

	plan, err := p.synthesizer.Synthesize(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	result.Plan = plan
	p.logger.Debug("validated plan", "steps", len(plan))
	return plan, tools, nil
}

func (p *Pipeline) runCodeGen(ctx context.Context, plan planning.Plan, tools []*semantic.ToolInfo, result *Result) error {
	defer p.metrics.timeStage(stageCodeGen)()

	byName := make(map[string]*semantic.ToolInfo, len(tools))
	for _, tool := range tools {
		byName[tool.Name] = tool
	}

	code, err := p.generator.Generate(ctx, &planning.CodeGenRequest{
		Plan:        plan,
		Tools:       byName,
		TypeSchemas: p.planningTypeSchemas(result.ExpandedEntities),
	})
	if err != nil {
		return err
	}
	result.Code = code
	return nil
}

func (p *Pipeline) entityDescriptions() []string {
	entities := p.layer.Entities()
	lines := make([]string, 0, len(entities))
	for _, ent := range entities {
		lines = append(lines, ent.Name+": "+ent.Description)
	}
	return lines
}

func (p *Pipeline) entitySchemas(names []string) []*ontology.EntitySchema {
	schemas := make([]*ontology.EntitySchema, 0, len(names))
	for _, name := range names {
		if ent, ok := p.layer.Entity(name); ok {
			schemas = append(schemas, ent)
		}
	}
	return schemas
}

func (p *Pipeline) relationSchemas(keys []ontology.RelationKey) []*ontology.RelationSchema {
	schemas := make([]*ontology.RelationSchema, 0, len(keys))
	for _, key := range keys {
		if rel, ok := p.layer.Relation(key); ok {
			schemas = append(schemas, rel)
		}
	}
	return schemas
}

func (p *Pipeline) planningTypeSchemas(names []string) map[string]map[string]any {
	if len(p.typeSchemas) == 0 {
		return nil
	}
	out := make(map[string]map[string]any, len(names))
	for _, name := range names {
		if schema, ok := p.typeSchemas[name]; ok {
			out[name] = schema
		}
	}
	return out
}
