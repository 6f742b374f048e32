package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ontoplan/ontoplan/pkg/llms"
	"github.com/ontoplan/ontoplan/pkg/planning"
)

const codegenSystemPrompt = `You convert an execution plan into Go code.

STRICT OUTPUT RULES:
1. Output ONLY Go code. No comments, no markdown, no explanation.
2. Generate exactly one function:
       func run() any {
           ...
       }
3. Render every step in plan order, assigning each result to the step's
   exact output variable name.
4. Respect tool signatures exactly as provided. Never invent tools,
   arguments, or parameter names.
5. Expand any [*] field path with an explicit for loop:
       var events []any
       for _, item := range terminals {
           events = append(events, getEventsByFacility(item.FacilityID, ...)...)
       }
   Bind the collected result to the step's output variable.
6. Insert literals exactly as provided (e.g. "2025-07-20").
7. The final statement of run() returns the last step's output variable.
8. Call tools as plain functions named after the tool in camelCase
   (get_terminals_by_city becomes getTerminalsByCity).`

// CodeGen turns validated plans into Go script bodies. It implements
// planning.CodeGenOracle.
type CodeGen struct {
	client
}

func NewCodeGen(provider llms.Provider, opts ...Option) *CodeGen {
	return &CodeGen{client: newClient(provider, opts...)}
}

// GenerateCode runs one generation round. Fence stripping and the syntax
// gate live with the caller.
func (o *CodeGen) GenerateCode(ctx context.Context, req *planning.CodeGenRequest) (string, error) {
	var user strings.Builder

	planJSON, err := json.Marshal(req.Plan)
	if err != nil {
		return "", fmt.Errorf("marshal plan: %w", err)
	}
	fmt.Fprintf(&user, "Plan:\n%s\n", planJSON)

	tools := make([]map[string]any, 0, len(req.Tools))
	for _, name := range sortedToolNames(req.Tools) {
		tools = append(tools, map[string]any{
			"name":         name,
			"input_schema": req.Tools[name].InputSchema,
			"output_type":  req.Tools[name].OutputType,
		})
	}
	toolsJSON, err := json.Marshal(tools)
	if err != nil {
		return "", fmt.Errorf("marshal tools: %w", err)
	}
	fmt.Fprintf(&user, "\nTools:\n%s\n", toolsJSON)

	if len(req.TypeSchemas) > 0 {
		schemasJSON, err := json.Marshal(req.TypeSchemas)
		if err != nil {
			return "", fmt.Errorf("marshal type schemas: %w", err)
		}
		fmt.Fprintf(&user, "\nType schemas:\n%s\n", schemasJSON)
	}

	reply, _, err := o.complete(ctx, codegenSystemPrompt, user.String(), false)
	if err != nil {
		return "", err
	}
	return reply, nil
}
