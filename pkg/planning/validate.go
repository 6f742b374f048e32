package planning

import (
	"fmt"
	"sort"
)

// Validate checks a plan against its structural contract: step ids are the
// gapless sequence 1..N, every tool names a member of the candidate set,
// output variables are unique, and every string input that references a
// prior output resolves to a strictly earlier step.
//
// String inputs are classified in three ways. A value that parses as a
// field path with suffix segments (container.events[0].timestamp) must have
// its head variable produced by an earlier step. A bare identifier that
// matches any step's output variable is a reference and must point strictly
// backwards, so forward and self references fail rather than silently
// degrading to literals. Anything else is an opaque literal.
func Validate(plan Plan, candidateTools []string) error {
	if len(plan) == 0 {
		return &MalformedPlanError{
			Invariant: InvariantSequentialIDs,
			Detail:    "plan has no steps",
		}
	}

	known := make(map[string]bool, len(candidateTools))
	for _, name := range candidateTools {
		known[name] = true
	}

	// Output variable -> index of the step that produces it, collected up
	// front so forward references are detectable. Only identifier-shaped
	// outputs are referenceable.
	produced := make(map[string]int, len(plan))
	for i, step := range plan {
		if _, dup := produced[step.Output]; !dup && isIdentifier(step.Output) {
			produced[step.Output] = i
		}
	}

	seen := make(map[string]bool, len(plan))
	for i, step := range plan {
		if step.ID != i+1 {
			return &MalformedPlanError{
				StepID:    step.ID,
				Invariant: InvariantSequentialIDs,
				Detail:    fmt.Sprintf("step at position %d has id %d, want %d", i, step.ID, i+1),
			}
		}
		if !known[step.Tool] {
			return &MalformedPlanError{
				StepID:    step.ID,
				Invariant: InvariantKnownTool,
				Detail:    fmt.Sprintf("tool %q is not in the candidate set", step.Tool),
			}
		}
		if seen[step.Output] {
			return &MalformedPlanError{
				StepID:    step.ID,
				Invariant: InvariantUniqueOutput,
				Detail:    fmt.Sprintf("output variable %q is already produced by an earlier step", step.Output),
			}
		}
		seen[step.Output] = true

		// Sorted so the reported parameter is stable when several inputs
		// are invalid.
		params := make([]string, 0, len(step.Inputs))
		for param := range step.Inputs {
			params = append(params, param)
		}
		sort.Strings(params)
		for _, param := range params {
			s, ok := step.Inputs[param].(string)
			if !ok {
				continue
			}
			if err := checkReference(s, i, produced, step.ID, param); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkReference validates one string input of the step at index pos.
func checkReference(s string, pos int, produced map[string]int, stepID int, param string) error {
	path, err := ParseFieldPath(s)
	if err != nil {
		// Not path-shaped at all: a literal such as "2024-01-01".
		return nil
	}

	at, isOutput := produced[path.Var]
	if len(path.Segments) == 0 && !isOutput {
		// Bare identifier matching no output is a plain literal.
		return nil
	}
	if !isOutput || at >= pos {
		return &MalformedPlanError{
			StepID:    stepID,
			Invariant: InvariantResolvableInput,
			Detail:    fmt.Sprintf("input %q references %q before it is produced", param, path.Var),
		}
	}
	return nil
}
