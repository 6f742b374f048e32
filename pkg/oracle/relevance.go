package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ontoplan/ontoplan/pkg/grounding"
	"github.com/ontoplan/ontoplan/pkg/llms"
)

const relevanceSystemPrompt = `You judge whether ontology relations are relevant to answering a query.

For each relation decide: would traversing this relation help retrieve the
data the query asks for? Judge each relation independently.

Respond with a single JSON object mapping every relation key to "yes" or
"no", using the exact keys as given:
{"City.has_facility->Facility": "yes", "Container.belongs_to->Shipment": "no"}

Include every listed relation exactly once.`

// Relevance is the binary relation classifier behind graph expansion. It
// implements grounding.RelevanceOracle.
type Relevance struct {
	client
}

func NewRelevance(provider llms.Provider, opts ...Option) *Relevance {
	return &Relevance{client: newClient(provider, opts...)}
}

// Classify labels one batch of candidate relations.
func (o *Relevance) Classify(ctx context.Context, query, intent string, batch []grounding.Candidate) (map[string]string, error) {
	var user strings.Builder
	fmt.Fprintf(&user, "Query: %s\nIntent: %s\n\nRelations:\n", query, intent)
	for _, cand := range batch {
		fmt.Fprintf(&user, "- %s", cand.Key)
		if cand.Description != "" {
			fmt.Fprintf(&user, ": %s", cand.Description)
		}
		user.WriteString("\n")
	}

	reply, requestID, err := o.complete(ctx, relevanceSystemPrompt, user.String(), true)
	if err != nil {
		return nil, err
	}

	payload := ExtractJSON(reply)
	if payload == "" {
		return nil, &MalformedReplyError{RequestID: requestID, Raw: reply, Err: fmt.Errorf("no JSON object in reply")}
	}

	var verdicts map[string]string
	if err := json.Unmarshal([]byte(payload), &verdicts); err != nil {
		return nil, &MalformedReplyError{RequestID: requestID, Raw: reply, Err: err}
	}
	return verdicts, nil
}
