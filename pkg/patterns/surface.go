package patterns

import (
	"github.com/matzehuels/datasprout/pkg/kg"
	"github.com/matzehuels/datasprout/pkg/setup"
)

// surfaceForms maps "<class>.label-properties" to every ordering of every
// combination of at least two partial-label properties of the class.
func (g *Generator) surfaceForms(schema *kg.Schema, classes []*setup.ClassConfig) map[string][]any {
	partial := make(map[kg.Term]bool)
	for _, p := range g.Formats.PartialLabelProperties {
		partial[p] = true
	}

	out := make(map[string][]any)
	for _, cc := range classes {
		var props []kg.Term
		for _, p := range schema.Properties(cc.SingleClass()) {
			if partial[p] {
				props = append(props, p)
			}
		}
		if len(props) <= 1 {
			continue
		}
		var forms []any
		for _, subset := range setup.Subsets(props) {
			if len(subset) <= 1 {
				continue
			}
			for _, perm := range setup.Permutations(subset) {
				forms = append(forms, perm)
			}
		}
		out[setup.Key(cc.SingleClass().Value, setup.KeyLabelProperties)] = forms
	}
	return out
}
