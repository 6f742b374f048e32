package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ontoplan/ontoplan/pkg/catalog"
	"github.com/ontoplan/ontoplan/pkg/grounding"
	"github.com/ontoplan/ontoplan/pkg/model"
	"github.com/ontoplan/ontoplan/pkg/ontology"
	"github.com/ontoplan/ontoplan/pkg/planning"
	"github.com/ontoplan/ontoplan/pkg/semantic"
)

type fakeExtraction struct {
	entities []grounding.ExtractedEntity
	intent   string
	err      error

	mu              sync.Mutex
	gotQuery        string
	gotDescriptions []string
}

func (f *fakeExtraction) Extract(_ context.Context, query string, descriptions []string) ([]grounding.ExtractedEntity, string, error) {
	f.mu.Lock()
	f.gotQuery = query
	f.gotDescriptions = descriptions
	f.mu.Unlock()
	return f.entities, f.intent, f.err
}

// fakeRelevance marks the listed relations "yes" and everything else "no".
type fakeRelevance struct {
	relevant map[string]bool
	err      error
}

func (f *fakeRelevance) Classify(_ context.Context, _, _ string, batch []grounding.Candidate) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]string, len(batch))
	for _, cand := range batch {
		key := cand.Key.String()
		if f.relevant[key] {
			out[key] = "yes"
		} else {
			out[key] = "no"
		}
	}
	return out, nil
}

type fakePlanner struct {
	plan planning.Plan
	err  error

	mu     sync.Mutex
	gotReq *planning.PlanRequest
}

func (f *fakePlanner) GeneratePlan(_ context.Context, req *planning.PlanRequest) (planning.Plan, error) {
	f.mu.Lock()
	f.gotReq = req
	f.mu.Unlock()
	return f.plan, f.err
}

type fakeCodeGen struct {
	reply string
	err   error

	mu     sync.Mutex
	gotReq *planning.CodeGenRequest
}

func (f *fakeCodeGen) GenerateCode(_ context.Context, req *planning.CodeGenRequest) (string, error) {
	f.mu.Lock()
	f.gotReq = req
	f.mu.Unlock()
	return f.reply, f.err
}

func testLayer(t *testing.T) *semantic.Layer {
	t.Helper()
	store, err := ontology.Load("../ontology/testdata/ontology.yaml")
	require.NoError(t, err)
	reg := semantic.NewToolRegistry()
	require.NoError(t, catalog.Register(reg))
	layer, err := semantic.Build(store, reg)
	require.NoError(t, err)
	return layer
}

func gatedOutPlan() planning.Plan {
	return planning.Plan{
		{ID: 1, Tool: "get_terminals_by_city", Inputs: map[string]any{"city": "Sydney"}, Output: "terminals"},
		{ID: 2, Tool: "get_events_by_facility", Inputs: map[string]any{
			"facility_id": "terminals[*].facility_id",
			"event_type":  "gate_out",
			"start_date":  "2025-07-20",
			"end_date":    "2025-07-20",
		}, Output: "events"},
	}
}

const generatedCode = "```go\nfunc run() any {\n\treturn nil\n}\n```"

func sydneyPipeline(t *testing.T, opts ...Option) (*Pipeline, *fakeExtraction, *fakePlanner, *fakeCodeGen) {
	t.Helper()
	layer := testLayer(t)

	extraction := &fakeExtraction{
		entities: []grounding.ExtractedEntity{
			{Type: "City", Value: "Sydney"},
			{Type: "ContainerEvent", Value: "gated out"},
		},
		intent: "count container events",
	}
	relevance := &fakeRelevance{relevant: map[string]bool{
		"City.has_facility->Facility":          true,
		"Facility.hosts_event->ContainerEvent": true,
	}}
	planner := &fakePlanner{plan: gatedOutPlan()}
	codegen := &fakeCodeGen{reply: generatedCode}

	schemas, err := model.TypeSchemas()
	require.NoError(t, err)
	opts = append([]Option{WithTypeSchemas(schemas)}, opts...)

	p := New(layer,
		extraction,
		grounding.NewGrounder(layer, grounding.NewClassifier(relevance), nil),
		planning.NewSynthesizer(planner, nil),
		planning.NewCodeGenerator(codegen, nil),
		opts...)
	return p, extraction, planner, codegen
}

func TestRunFullFlow(t *testing.T) {
	p, extraction, planner, codegen := sydneyPipeline(t)

	query := "How many containers were gated out of Sydney terminal on 20 July 2025?"
	result, err := p.Run(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, query, extraction.gotQuery)
	assert.NotEmpty(t, extraction.gotDescriptions)

	assert.Equal(t, "count container events", result.Intent)
	assert.Contains(t, result.ExpandedEntities, "City")
	assert.Contains(t, result.ExpandedEntities, "Facility")
	assert.Contains(t, result.ExpandedEntities, "ContainerEvent")
	assert.Contains(t, result.CandidateTools, "get_terminals_by_city")
	assert.Contains(t, result.CandidateTools, "get_events_by_facility")

	require.Len(t, result.Plan, 2)
	assert.Contains(t, result.Code, "func run()")

	// The planner request is scoped to the expanded subgraph.
	require.NotNil(t, planner.gotReq)
	assert.Len(t, planner.gotReq.EntitySchemas, len(result.ExpandedEntities))
	assert.Len(t, planner.gotReq.Relations, len(result.ActiveRelations))
	for name := range planner.gotReq.TypeSchemas {
		assert.Contains(t, result.ExpandedEntities, name)
	}

	require.NotNil(t, codegen.gotReq)
	assert.Contains(t, codegen.gotReq.Tools, "get_terminals_by_city")
}

// Type schemas are shared read-only across queries; parallel runs over an
// entity with a date-time field must not race on them (run with -race).
func TestRunConcurrentQueriesShareTypeSchemas(t *testing.T) {
	p, _, planner, _ := sydneyPipeline(t)

	const queries = 8
	var wg sync.WaitGroup
	errs := make([]error, queries)
	for i := 0; i < queries; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = p.Run(context.Background(), "containers gated out of Sydney on 20 July 2025")
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	require.NotNil(t, planner.gotReq)
	eventSchema := planner.gotReq.TypeSchemas["ContainerEvent"]
	require.NotNil(t, eventSchema)
	eventTime := eventSchema["properties"].(map[string]any)["event_time"].(map[string]any)
	_, hasFormat := eventTime["format"]
	assert.False(t, hasFormat, "date-time format should be stripped from planner schemas")
}

// The schema map handed to WithTypeSchemas belongs to the caller; running
// queries must leave it untouched.
func TestRunDoesNotMutateCallerSchemas(t *testing.T) {
	schemas, err := model.TypeSchemas()
	require.NoError(t, err)

	p, _, _, _ := sydneyPipeline(t, WithTypeSchemas(schemas))
	_, err = p.Run(context.Background(), "containers gated out of Sydney on 20 July 2025")
	require.NoError(t, err)

	eventTime := schemas["ContainerEvent"]["properties"].(map[string]any)["event_time"].(map[string]any)
	assert.Equal(t, "date-time", eventTime["format"])
}

func TestRunNoEntitiesShortCircuits(t *testing.T) {
	p, extraction, planner, _ := sydneyPipeline(t)
	extraction.entities = nil

	result, err := p.Run(context.Background(), "what is the weather like")
	require.NoError(t, err)
	assert.Empty(t, result.Plan)
	assert.Empty(t, result.Code)
	assert.Nil(t, planner.gotReq)
}

func TestRunDropsUnknownEntities(t *testing.T) {
	p, extraction, _, _ := sydneyPipeline(t)
	extraction.entities = append(extraction.entities, grounding.ExtractedEntity{Type: "Weather", Value: "sunny"})

	result, err := p.Run(context.Background(), "containers gated out of Sydney on a sunny day")
	require.NoError(t, err)
	assert.NotContains(t, result.ExpandedEntities, "Weather")
}

func TestRunExtractionError(t *testing.T) {
	p, extraction, _, _ := sydneyPipeline(t)
	extraction.err = errors.New("provider unavailable")

	_, err := p.Run(context.Background(), "any query")
	require.Error(t, err)
	assert.ErrorContains(t, err, "query understanding")
}

func TestRunRejectsInvalidPlan(t *testing.T) {
	p, _, planner, _ := sydneyPipeline(t)
	planner.plan = planning.Plan{
		{ID: 1, Tool: "no_such_tool", Inputs: map[string]any{}, Output: "out"},
	}

	_, err := p.Run(context.Background(), "containers gated out of Sydney")
	var malformed *planning.MalformedPlanError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 1, malformed.StepID)
}

func TestRunRejectsBadGeneratedCode(t *testing.T) {
	p, _, _, codegen := sydneyPipeline(t)
	codegen.reply = "```go\nfunc run( {\n```"

	_, err := p.Run(context.Background(), "containers gated out of Sydney")
	var syntaxErr *planning.CodeGenSyntaxError
	require.ErrorAs(t, err, &syntaxErr)
}

func TestMetricsObserved(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	p, _, _, _ := sydneyPipeline(t, WithMetrics(metrics))

	_, err := p.Run(context.Background(), "containers gated out of Sydney")
	require.NoError(t, err)

	assert.Equal(t, 1, testutil.CollectAndCount(metrics.queries))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.queries.WithLabelValues("ok")))
}
