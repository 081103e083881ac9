package patterns

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/datasprout/pkg/kg"
	"github.com/matzehuels/datasprout/pkg/setup"
)

// classPair is two classes whose property sets overlap.
type classPair struct {
	a, b    *setup.ClassConfig
	overlap float64
}

func (p classPair) name() string {
	return p.a.SingleClass().Value + " " + p.b.SingleClass().Value
}

// classOverlaps returns the class pairs whose Jaccard property overlap
// exceeds OverlapThreshold, highest overlap first.
func (g *Generator) classOverlaps(schema *kg.Schema, classes []*setup.ClassConfig) []classPair {
	var out []classPair
	for i, a := range classes {
		for _, b := range classes[i+1:] {
			left := schema.Properties(a.SingleClass())
			right := schema.Properties(b.SingleClass())
			if o := overlap(left, right); o > g.OverlapThreshold {
				out = append(out, classPair{a: a, b: b, overlap: o})
			}
		}
	}
	slices.SortStableFunc(out, func(x, y classPair) int {
		if c := cmp.Compare(y.overlap, x.overlap); c != 0 {
			return c
		}
		return cmp.Compare(x.name(), y.name())
	})
	return out
}

// overlap is |a ∩ b| / |a ∪ b|.
func overlap(a, b []kg.Term) float64 {
	inA := make(map[kg.Term]bool, len(a))
	union := make(map[kg.Term]bool, len(a)+len(b))
	for _, t := range a {
		inA[t], union[t] = true, true
	}
	shared := 0
	for _, t := range b {
		if inA[t] {
			shared++
		}
		union[t] = true
	}
	if len(union) == 0 {
		return 0
	}
	return float64(shared) / float64(len(union))
}

// mergeClasses draws up to MultiTypeCount random pairs of unused classes
// and replaces each pair by one two-class config.
func (g *Generator) mergeClasses(schema *kg.Schema, classes []*setup.ClassConfig, pairs []classPair, rng *rand.Rand) []*setup.ClassConfig {
	tables := slices.Clone(classes)
	cands := slices.Clone(pairs)
	used := make(map[*setup.ClassConfig]bool)

	for merged := 0; merged < min(len(cands), g.MultiTypeCount); {
		pair := randomlyRemove(&cands, rng)
		if used[pair.a] || used[pair.b] {
			continue
		}
		used[pair.a], used[pair.b] = true, true
		tables = slices.DeleteFunc(tables, func(c *setup.ClassConfig) bool {
			return c == pair.a || c == pair.b
		})
		members := []kg.Term{pair.a.SingleClass(), pair.b.SingleClass()}
		label := labelFor(schema.Graph(), members, " + ")
		tables = append(tables, setup.NewClassConfig(label, members...))
		merged++
	}
	return tables
}
