package patterns

import (
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/matzehuels/datasprout/pkg/kg"
)

// labelFor joins the rdfs:label (or local name) of each resource with
// delimiter.
func labelFor(g *kg.Graph, resources []kg.Term, delimiter string) string {
	parts := make([]string, len(resources))
	for i, r := range resources {
		if l, ok := g.Label(r); ok {
			parts[i] = l
			continue
		}
		parts[i] = kg.LocalName(r.Value)
	}
	return strings.Join(parts, delimiter)
}

// randomDelimiter picks one of the merge delimiters.
func (g *Generator) randomDelimiter(rng *rand.Rand) string {
	ds := g.Formats.MergeCellDelimiters
	return ds[rng.IntN(len(ds))]
}

// randomlyRemove removes and returns a random element. The list must not
// be empty.
func randomlyRemove[T any](l *[]T, rng *rand.Rand) T {
	i := rng.IntN(len(*l))
	v := (*l)[i]
	*l = slices.Delete(*l, i, i+1)
	return v
}

func randomlySelect[T any](l []T, rng *rand.Rand) T {
	return l[rng.IntN(len(l))]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func without(ts []kg.Term, drop map[kg.Term]bool) []kg.Term {
	var out []kg.Term
	for _, t := range ts {
		if !drop[t] {
			out = append(out, t)
		}
	}
	return out
}
