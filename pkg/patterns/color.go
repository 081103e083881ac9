package patterns

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/datasprout/pkg/kg"
	"github.com/matzehuels/datasprout/pkg/setup"
)

// colorCandidate is a property whose objects split a class's instances
// into a few disjoint groups.
type colorCandidate struct {
	prop    kg.Term
	objects []kg.Term
}

// colorCandidates finds, per class, the resource-valued properties whose
// objects partition the instances into 2..MaxColorSplit groups.
func (g *Generator) colorCandidates(schema *kg.Schema, classes []*setup.ClassConfig) map[kg.Term][]colorCandidate {
	graph := schema.Graph()
	out := make(map[kg.Term][]colorCandidate)
	for _, cc := range classes {
		class := cc.SingleClass()
		for _, p := range schema.Properties(class) {
			if p == kg.RDFType {
				continue
			}
			if objects, ok := g.partition(graph, schema.Instances(class), p); ok {
				out[class] = append(out[class], colorCandidate{prop: p, objects: objects})
			}
		}
	}
	return out
}

// partition groups instances by their p objects in first-appearance order.
// It fails on literal objects, on an instance in two groups and on more
// than MaxColorSplit groups.
func (g *Generator) partition(graph *kg.Graph, instances []kg.Term, p kg.Term) ([]kg.Term, bool) {
	var objects []kg.Term
	group := make(map[kg.Term]kg.Term)
	for _, inst := range instances {
		for _, o := range graph.Objects(inst, p) {
			if o.IsLiteral() {
				return nil, false
			}
			if prev, ok := group[inst]; ok && prev != o {
				return nil, false
			}
			group[inst] = o
			if !slices.Contains(objects, o) {
				objects = append(objects, o)
			}
			if len(objects) > g.MaxColorSplit {
				return nil, false
			}
		}
	}
	return objects, len(objects) > 1
}

// palette returns ten hues at saturation s and brightness v plus white
// (s <= 0.5) or black, shuffled.
func palette(s, v float64, rng *rand.Rand) []string {
	var out []string
	for i := 1; i <= 10; i++ {
		h := float64(i) / 10
		out = append(out, colorful.Hsv(math.Mod(h*360, 360), s, v).Hex())
	}
	if s <= 0.5 {
		out = append(out, "#ffffff")
	} else {
		out = append(out, "#000000")
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// assignColors colors the rows of up to two candidate properties per class
// of cc, one as background and one as foreground, and drops those
// properties from the columns.
func (g *Generator) assignColors(
	schema *kg.Schema,
	s *setup.Setup,
	cc *setup.ClassConfig,
	configs []*setup.PropertyConfig,
	colors map[kg.Term][]colorCandidate,
	rng *rand.Rand,
) []*setup.PropertyConfig {
	palettes := map[string][]string{
		setup.PatternBackgroundColor: palette(0.3, 0.93, rng),
		setup.PatternForegroundColor: palette(0.9, 0.5, rng),
	}
	for _, class := range cc.Classes() {
		cands := colors[class]
		if len(cands) == 0 {
			continue
		}
		entries := slices.Clone(cands)
		rng.Shuffle(len(entries), func(i, j int) { entries[i], entries[j] = entries[j], entries[i] })
		grounds := []string{setup.PatternBackgroundColor, setup.PatternForegroundColor}
		rng.Shuffle(len(grounds), func(i, j int) { grounds[i], grounds[j] = grounds[j], grounds[i] })

		for j := 0; j < min(len(grounds), len(entries)); j++ {
			e, ground := entries[j], grounds[j]
			for _, o := range e.objects {
				key := setup.Key(e.prop.Value, o.String(), ground)
				pal := palettes[ground]
				color := randomlyRemove(&pal, rng)
				palettes[ground] = pal
				s.Set(key, color)
				fmt.Fprintf(&g.colorCodes, "%s | %s => %s\n", class, key, color)
			}
			configs = g.dropProperty(schema.Graph(), configs, e.prop, rng)
		}
	}
	return configs
}

// dropProperty removes prop from every column. Emptied columns disappear,
// the others are relabelled.
func (g *Generator) dropProperty(graph *kg.Graph, configs []*setup.PropertyConfig, prop kg.Term, rng *rand.Rand) []*setup.PropertyConfig {
	var out []*setup.PropertyConfig
	for _, pc := range configs {
		if !slices.Contains(pc.Properties(), prop) {
			out = append(out, pc)
			continue
		}
		rest := pc.Without(prop)
		if len(rest.Properties()) == 0 {
			continue
		}
		out = append(out, rest.WithLabel(labelFor(graph, rest.Properties(), g.randomDelimiter(rng))))
	}
	return out
}
