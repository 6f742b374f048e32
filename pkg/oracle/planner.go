package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ontoplan/ontoplan/pkg/llms"
	"github.com/ontoplan/ontoplan/pkg/planning"
)

const plannerSystemPrompt = `You produce execution plans for logistics queries over a tool catalog.

A plan is an ordered list of tool-call steps. Rules:
- Use ONLY tools from the candidate list, with their exact parameter names.
- Step ids are sequential integers starting at 1.
- Each step binds its result to a unique output variable (a bare identifier).
- Step inputs are either literals taken from the query (inserted exactly as
  written), the output variable of an EARLIER step, or a field path into an
  earlier output such as terminals[*].facility_id. Use [*] to address every
  element of a list-valued output.
- Never reference an output before the step that produces it.

Respond with ONLY a JSON array of steps:
[{"id": 1, "tool": "<name>", "inputs": {"<param>": "<value>"}, "output": "<var>"}]`

// Planner synthesizes execution plans. It implements planning.PlanOracle.
type Planner struct {
	client
}

func NewPlanner(provider llms.Provider, opts ...Option) *Planner {
	return &Planner{client: newClient(provider, opts...)}
}

// GeneratePlan runs one synthesis round. The reply is parsed but not
// validated; the synthesizer owns the plan contract.
func (o *Planner) GeneratePlan(ctx context.Context, req *planning.PlanRequest) (planning.Plan, error) {
	user, err := renderPlanRequest(req)
	if err != nil {
		return nil, fmt.Errorf("render plan request: %w", err)
	}

	reply, requestID, err := o.complete(ctx, plannerSystemPrompt, user, false)
	if err != nil {
		return nil, err
	}

	payload := ExtractJSONArray(reply)
	if payload == "" {
		return nil, &MalformedReplyError{RequestID: requestID, Raw: reply, Err: fmt.Errorf("no JSON array in reply")}
	}

	plan, err := planning.ParsePlan([]byte(payload))
	if err != nil {
		return nil, &MalformedReplyError{RequestID: requestID, Raw: reply, Err: err}
	}
	return plan, nil
}

func renderPlanRequest(req *planning.PlanRequest) (string, error) {
	var user strings.Builder
	fmt.Fprintf(&user, "Query: %s\nIntent: %s\n", req.Query, req.Intent)

	if len(req.Entities) > 0 {
		user.WriteString("Extracted entities:\n")
		for _, ent := range req.Entities {
			fmt.Fprintf(&user, "- %s: %q\n", ent.Type, ent.Value)
		}
	}

	sections := []struct {
		title   string
		payload any
	}{
		{"Candidate tools", planning.ToolsToDict(req.Tools)},
		{"Entity schemas", planning.EntitiesToDict(req.EntitySchemas)},
		{"Active relations", planning.RelationsToDict(req.Relations)},
		{"Type schemas", req.TypeSchemas},
	}
	for _, s := range sections {
		data, err := json.Marshal(s.payload)
		if err != nil {
			return "", fmt.Errorf("marshal %s: %w", strings.ToLower(s.title), err)
		}
		fmt.Fprintf(&user, "\n%s:\n%s\n", s.title, data)
	}

	return user.String(), nil
}
