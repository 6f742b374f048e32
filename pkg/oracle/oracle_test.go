package oracle

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ontoplan/ontoplan/pkg/grounding"
	"github.com/ontoplan/ontoplan/pkg/llms"
	"github.com/ontoplan/ontoplan/pkg/ontology"
	"github.com/ontoplan/ontoplan/pkg/planning"
	"github.com/ontoplan/ontoplan/pkg/semantic"
)

// fakeProvider records the request and replies with a canned string.
type fakeProvider struct {
	reply string
	err   error
	got   *llms.Request
}

func (f *fakeProvider) Generate(_ context.Context, req *llms.Request) (*llms.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &llms.Response{Text: f.reply, TotalTokens: 10}, nil
}

func (f *fakeProvider) ModelName() string { return "fake-model" }

func userPrompt(t *testing.T, req *llms.Request) string {
	t.Helper()
	require.NotNil(t, req)
	require.Len(t, req.Messages, 2)
	return req.Messages[1].Content
}

func TestExtractionParsesReply(t *testing.T) {
	provider := &fakeProvider{reply: "```json\n" +
		`{"entities": [{"type": "City", "value": "Sydney"}, {"type": "ContainerEvent", "value": "gated out"}], "intent": "count gate-out events"}` +
		"\n```"}
	o := NewExtraction(provider)

	entities, intent, err := o.Extract(context.Background(), "How many containers were gated out of Sydney terminal?", []string{
		"City: A port city.",
		"ContainerEvent: A container movement event.",
	})
	require.NoError(t, err)
	assert.Equal(t, "count gate-out events", intent)
	require.Len(t, entities, 2)
	assert.Equal(t, grounding.ExtractedEntity{Type: "City", Value: "Sydney"}, entities[0])

	prompt := userPrompt(t, provider.got)
	assert.Contains(t, prompt, "City: A port city.")
	assert.Contains(t, prompt, "Query: How many containers")
	assert.True(t, provider.got.ForceJSON)
}

func TestExtractionMalformedReply(t *testing.T) {
	o := NewExtraction(&fakeProvider{reply: "I cannot answer that."})

	_, _, err := o.Extract(context.Background(), "q", nil)
	var mre *MalformedReplyError
	require.ErrorAs(t, err, &mre)
	assert.Equal(t, "I cannot answer that.", mre.Raw)
}

func TestExtractionTransportError(t *testing.T) {
	o := NewExtraction(&fakeProvider{err: assert.AnError})

	_, _, err := o.Extract(context.Background(), "q", nil)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.NotEmpty(t, te.RequestID)
}

func TestRelevanceClassify(t *testing.T) {
	provider := &fakeProvider{reply: `{"City.has_facility->Facility": "yes", "Container.belongs_to->Shipment": "no"}`}
	o := NewRelevance(provider)

	batch := []grounding.Candidate{
		{Key: ontology.RelationKey{From: "City", Name: "has_facility", To: "Facility"}, Description: "terminals in the city"},
		{Key: ontology.RelationKey{From: "Container", Name: "belongs_to", To: "Shipment"}},
	}
	verdicts, err := o.Classify(context.Background(), "gated out of Sydney", "count events", batch)
	require.NoError(t, err)
	assert.Equal(t, "yes", verdicts["City.has_facility->Facility"])
	assert.Equal(t, "no", verdicts["Container.belongs_to->Shipment"])

	prompt := userPrompt(t, provider.got)
	assert.Contains(t, prompt, "City.has_facility->Facility: terminals in the city")
	assert.Contains(t, prompt, "Intent: count events")
}

func TestPlannerGeneratePlan(t *testing.T) {
	provider := &fakeProvider{reply: "```json\n" +
		`[{"id": 1, "tool": "get_terminals_by_city", "inputs": {"city_name": "Sydney"}, "output": "terminals"}]` +
		"\n```"}
	o := NewPlanner(provider)

	req := &planning.PlanRequest{
		Query:  "terminals in Sydney",
		Intent: "list terminals",
		Tools: []*semantic.ToolInfo{
			{
				Name:        "get_terminals_by_city",
				InputSchema: []semantic.Param{{Name: "city_name", Type: "string"}},
				OutputType:  "[]model.Facility",
				AssociatedRelation: &ontology.RelationKey{
					From: "City", Name: "has_facility", To: "Facility",
				},
			},
		},
	}
	plan, err := o.GeneratePlan(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "get_terminals_by_city", plan[0].Tool)
	assert.Equal(t, "terminals", plan[0].Output)

	prompt := userPrompt(t, provider.got)
	assert.Contains(t, prompt, `"get_terminals_by_city"`)
	assert.Contains(t, prompt, "Candidate tools")
}

func TestPlannerMalformedReply(t *testing.T) {
	o := NewPlanner(&fakeProvider{reply: "no plan today"})

	_, err := o.GeneratePlan(context.Background(), &planning.PlanRequest{Query: "q"})
	var mre *MalformedReplyError
	require.ErrorAs(t, err, &mre)
}

func TestCodeGenPromptAndPassthrough(t *testing.T) {
	provider := &fakeProvider{reply: "func run() any {\n\treturn nil\n}"}
	o := NewCodeGen(provider)

	req := &planning.CodeGenRequest{
		Plan: planning.Plan{
			{ID: 1, Tool: "get_terminals_by_city", Inputs: map[string]any{"city_name": "Sydney"}, Output: "terminals"},
		},
		Tools: map[string]*semantic.ToolInfo{
			"get_terminals_by_city": {
				Name:        "get_terminals_by_city",
				InputSchema: []semantic.Param{{Name: "city_name", Type: "string"}},
				OutputType:  "[]model.Facility",
			},
		},
	}
	code, err := o.GenerateCode(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, "func run()"))

	prompt := userPrompt(t, provider.got)
	assert.Contains(t, prompt, `"tool":"get_terminals_by_city"`)
	assert.Contains(t, prompt, `"output_type":"[]model.Facility"`)
}
