package oracle

import (
	"sort"

	"github.com/ontoplan/ontoplan/pkg/semantic"
)

// sortedToolNames returns map keys in a stable order so prompts are
// reproducible across runs.
func sortedToolNames(tools map[string]*semantic.ToolInfo) []string {
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
