package grounding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ontoplan/ontoplan/pkg/ontology"
)

// DefaultBatchSize bounds how many candidate relations go into a single
// oracle call, respecting the oracle's context limits.
const DefaultBatchSize = 4

// RelevanceOracle is the external classifier boundary: given the query, its
// intent, and a batch of candidate relations, it labels each relation
// "yes" or "no". Keys of the returned mapping use the wire form
// "{from}.{name}->{to}". The verdict strings are passed through untouched;
// only the consuming expansion stage compares them (lower-cased) to "yes".
type RelevanceOracle interface {
	Classify(ctx context.Context, query, intent string, batch []Candidate) (map[string]string, error)
}

// RelevanceMap holds merged verdicts keyed by relation, preserving the
// order keys were first written. Iteration order is what makes the active
// relation list deterministic.
type RelevanceMap struct {
	order    []ontology.RelationKey
	verdicts map[ontology.RelationKey]string
}

func NewRelevanceMap() *RelevanceMap {
	return &RelevanceMap{verdicts: make(map[ontology.RelationKey]string)}
}

// Set records a verdict. Repeated writes overwrite the verdict but keep the
// key's original position (last write wins on value).
func (m *RelevanceMap) Set(key ontology.RelationKey, verdict string) {
	if _, exists := m.verdicts[key]; !exists {
		m.order = append(m.order, key)
	}
	m.verdicts[key] = verdict
}

// Verdict returns the recorded verdict for a key.
func (m *RelevanceMap) Verdict(key ontology.RelationKey) (string, bool) {
	v, ok := m.verdicts[key]
	return v, ok
}

// Keys returns relation keys in first-written order.
func (m *RelevanceMap) Keys() []ontology.RelationKey {
	keys := make([]ontology.RelationKey, len(m.order))
	copy(keys, m.order)
	return keys
}

func (m *RelevanceMap) Len() int {
	return len(m.order)
}

// Classifier drives the relevance oracle over a candidate list in
// fixed-size batches. Batches are independent and stateless, so they are
// dispatched concurrently up to the configured limit; results are collected
// per batch and merged afterwards in batch order, keeping the final map
// deterministic.
type Classifier struct {
	oracle      RelevanceOracle
	batchSize   int
	concurrency int
	logger      *slog.Logger
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithBatchSize overrides the per-call batch size.
func WithBatchSize(n int) ClassifierOption {
	return func(c *Classifier) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithConcurrency bounds how many batches are in flight at once.
func WithConcurrency(n int) ClassifierOption {
	return func(c *Classifier) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithLogger sets the classifier's logger.
func WithLogger(l *slog.Logger) ClassifierOption {
	return func(c *Classifier) {
		c.logger = l
	}
}

func NewClassifier(oracle RelevanceOracle, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		oracle:      oracle,
		batchSize:   DefaultBatchSize,
		concurrency: 1,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify labels every candidate relation. An oracle failure or a reply
// key that does not parse as a relation key fails the whole call; nothing
// is silently dropped or repaired.
func (c *Classifier) Classify(ctx context.Context, query, intent string, candidates []Candidate) (*RelevanceMap, error) {
	merged := NewRelevanceMap()
	if len(candidates) == 0 {
		return merged, nil
	}

	var batches [][]Candidate
	for start := 0; start < len(candidates); start += c.batchSize {
		end := min(start+c.batchSize, len(candidates))
		batches = append(batches, candidates[start:end])
	}

	results := make([]map[string]string, len(batches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, batch := range batches {
		g.Go(func() error {
			c.logger.Debug("classifying relation batch",
				"batch", i, "size", len(batch))
			verdicts, err := c.oracle.Classify(gctx, query, intent, batch)
			if err != nil {
				return fmt.Errorf("relevance batch %d: %w", i, err)
			}
			results[i] = verdicts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge after the join barrier, in batch order.
	for i, verdicts := range results {
		for raw, verdict := range orderedVerdicts(batches[i], verdicts) {
			key, err := ontology.ParseRelationKey(raw)
			if err != nil {
				return nil, fmt.Errorf("relevance batch %d returned malformed key: %w", i, err)
			}
			merged.Set(key, verdict)
		}
	}
	return merged, nil
}

// orderedVerdicts re-keys a batch reply so that verdicts are merged in the
// candidate order of the batch rather than Go map order. Reply keys that do
// not correspond to a batch candidate are appended afterwards, sorted out by
// the caller's parse step.
func orderedVerdicts(batch []Candidate, verdicts map[string]string) func(func(string, string) bool) {
	return func(yield func(string, string) bool) {
		emitted := make(map[string]bool, len(verdicts))
		for _, cand := range batch {
			wire := cand.Key.String()
			if verdict, ok := verdicts[wire]; ok {
				emitted[wire] = true
				if !yield(wire, verdict) {
					return
				}
			}
		}
		for raw, verdict := range verdicts {
			if emitted[raw] {
				continue
			}
			if !yield(raw, verdict) {
				return
			}
		}
	}
}

// IsRelevant is the single place the verdict string is interpreted:
// lower-cased equality with "yes".
func IsRelevant(verdict string) bool {
	return strings.ToLower(verdict) == "yes"
}
