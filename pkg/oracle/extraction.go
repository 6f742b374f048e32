package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ontoplan/ontoplan/pkg/grounding"
	"github.com/ontoplan/ontoplan/pkg/llms"
)

const extractionSystemPrompt = `You extract ontology entities from logistics queries.

You are given the available entity types with their descriptions. Identify
every entity type explicitly mentioned in the query and the surface text
that mentions it, plus a short high-level intent label (under 5 words).

Respond with a single JSON object:
{"entities": [{"type": "<EntityType>", "value": "<surface mention>"}], "intent": "<label>"}

Only use entity types from the provided list. Do not invent types.`

// extractionReply is the oracle's wire shape.
type extractionReply struct {
	Entities []grounding.ExtractedEntity `json:"entities"`
	Intent   string                      `json:"intent"`
}

// Extraction maps a natural language query to ontology entity mentions and
// a high-level intent.
type Extraction struct {
	client
}

func NewExtraction(provider llms.Provider, opts ...Option) *Extraction {
	return &Extraction{client: newClient(provider, opts...)}
}

// Extract runs the query-understanding round. entityDescriptions entries
// are "Name: description" lines for every ontology entity.
func (o *Extraction) Extract(ctx context.Context, query string, entityDescriptions []string) ([]grounding.ExtractedEntity, string, error) {
	var user strings.Builder
	user.WriteString("Entity types:\n")
	for _, line := range entityDescriptions {
		user.WriteString("- ")
		user.WriteString(line)
		user.WriteString("\n")
	}
	user.WriteString("\nQuery: ")
	user.WriteString(query)

	reply, requestID, err := o.complete(ctx, extractionSystemPrompt, user.String(), true)
	if err != nil {
		return nil, "", err
	}

	payload := ExtractJSON(reply)
	if payload == "" {
		return nil, "", &MalformedReplyError{RequestID: requestID, Raw: reply, Err: fmt.Errorf("no JSON object in reply")}
	}

	var result extractionReply
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, "", &MalformedReplyError{RequestID: requestID, Raw: reply, Err: err}
	}
	return result.Entities, result.Intent, nil
}
