// Package planning defines the typed execution-plan contract, validates
// plans returned by the synthesis oracle, and drives code generation from a
// validated plan.
package planning

import (
	"encoding/json"
	"fmt"
)

// PlanStep is one tool invocation in an ordered execution plan. Steps are
// processed in ascending ID order; every input may reference only outputs of
// strictly earlier steps, so a plan is a DAG already topologically sorted by
// construction.
type PlanStep struct {
	ID     int            `json:"id"`
	Tool   string         `json:"tool"`
	Inputs map[string]any `json:"inputs"`
	Output string         `json:"output"`
}

// Plan is the ordered step list produced atomically by plan synthesis for
// one query. It is immutable once validated.
type Plan []PlanStep

// ParsePlan decodes the JSON wire form: an array of
// {id, tool, inputs, output} objects.
func ParsePlan(data []byte) (Plan, error) {
	var plan Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("plan is not a valid step array: %w", err)
	}
	return plan, nil
}

// Outputs returns the output variable bound by each step, in step order.
func (p Plan) Outputs() []string {
	out := make([]string, 0, len(p))
	for _, step := range p {
		out = append(out, step.Output)
	}
	return out
}

// MalformedPlanError reports the first invariant a synthesized plan
// violates. Plans are rejected whole; they are never repaired.
type MalformedPlanError struct {
	StepID    int
	Invariant string
	Detail    string
}

func (e *MalformedPlanError) Error() string {
	if e.StepID > 0 {
		return fmt.Sprintf("malformed plan: step %d violates %s: %s", e.StepID, e.Invariant, e.Detail)
	}
	return fmt.Sprintf("malformed plan: %s: %s", e.Invariant, e.Detail)
}

// Invariant names used by the validator. Callers can switch on these to
// distinguish failures without string matching on details.
const (
	InvariantSequentialIDs   = "sequential step ids"
	InvariantKnownTool       = "tool in candidate set"
	InvariantResolvableInput = "inputs reference earlier outputs"
	InvariantUniqueOutput    = "unique output variable"
)
