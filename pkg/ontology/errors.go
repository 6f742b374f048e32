package ontology

import "fmt"

// LoadError reports a fatal problem with the ontology source: unparsable
// YAML, a relationship pointing at an unknown entity, or the same entity
// defined by more than one fragment. Load errors are startup failures; there
// is no recovery path.
type LoadError struct {
	Source string // file or directory the problem was found in
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("ontology load failed (%s): %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("ontology load failed: %s", e.Reason)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func loadErrorf(source string, format string, args ...any) *LoadError {
	return &LoadError{Source: source, Reason: fmt.Sprintf(format, args...)}
}
