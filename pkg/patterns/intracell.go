package patterns

import (
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/kg"
	"github.com/matzehuels/datasprout/pkg/setup"
)

// rngReader feeds uuid generation from the run's RNG so ids repeat with
// the seed.
type rngReader struct{ rng *rand.Rand }

func (r rngReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Uint32())
	}
	return len(p), nil
}

func newURI(rng *rand.Rand) (string, error) {
	id, err := uuid.NewRandomFromReader(rngReader{rng})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "generate column uri")
	}
	return "uuid:" + id.String(), nil
}

// intraCell groups properties that share a range into merged columns of
// two or three properties that need partial formatting. One more column
// pairs a string property with a property of another range. Every other
// property keeps its own column.
func (g *Generator) intraCell(schema *kg.Schema, cc *setup.ClassConfig, rng *rand.Rand) ([]*setup.PropertyConfig, error) {
	graph := schema.Graph()
	props := properties(schema, cc)

	byRange := make(map[kg.Term][]kg.Term)
	var ranges []kg.Term
	for _, p := range props {
		for _, r := range schema.Ranges(p) {
			if _, ok := byRange[r]; !ok {
				ranges = append(ranges, r)
			}
			byRange[r] = append(byRange[r], p)
		}
	}
	kg.SortTerms(ranges)

	used := make(map[kg.Term]bool)
	var configs []*setup.PropertyConfig
	merge := func(picked []kg.Term) (*setup.PropertyConfig, error) {
		uri, err := newURI(rng)
		if err != nil {
			return nil, err
		}
		for _, p := range picked {
			used[p] = true
		}
		pc := setup.NewPropertyConfig(picked...).
			WithURI(uri).
			WithLabel(labelFor(graph, picked, g.randomDelimiter(rng)))
		configs = append(configs, pc)
		return pc, nil
	}

	for _, r := range ranges {
		l := without(byRange[r], used)
		byRange[r] = l
		if len(l) <= 1 {
			continue
		}
		rng.Shuffle(len(l), func(i, j int) { l[i], l[j] = l[j], l[i] })
		n := min(len(l), 2+rng.IntN(2))
		pc, err := merge(slices.Clone(l[:n]))
		if err != nil {
			return nil, err
		}
		pc.PartialFormattingNeeded = true
	}

	str := kg.IRI(kg.XSDString)
	if strs := without(byRange[str], used); len(strs) > 1 {
		selected := randomlySelect(strs, rng)
		for _, r := range ranges {
			if r == str {
				continue
			}
			l := without(byRange[r], map[kg.Term]bool{selected: true})
			l = without(l, used)
			if len(l) == 0 {
				continue
			}
			if _, err := merge([]kg.Term{selected, randomlySelect(l, rng)}); err != nil {
				return nil, err
			}
			break
		}
	}

	for _, p := range props {
		if !used[p] {
			configs = append(configs, setup.NewPropertyConfig(p))
		}
	}
	return configs, nil
}
