package table

import (
	"github.com/matzehuels/datasprout/pkg/kg"
)

// Provenance is what a cell was derived from: the statements it shows and
// the pattern values chosen while rendering it.
type Provenance struct {
	statements []kg.Triple
	seen       map[kg.Triple]bool
	names      []string
	patterns   map[string]any
}

func newProvenance() *Provenance {
	return &Provenance{seen: make(map[kg.Triple]bool), patterns: make(map[string]any)}
}

// AddStatement records a statement once.
func (p *Provenance) AddStatement(t kg.Triple) {
	if p.seen[t] {
		return
	}
	p.seen[t] = true
	p.statements = append(p.statements, t)
}

// PutPattern records the value chosen for a pattern. A later value for the
// same name replaces the earlier one. Terms are stored by their string
// form.
func (p *Provenance) PutPattern(name string, v any) {
	if _, ok := p.patterns[name]; !ok {
		p.names = append(p.names, name)
	}
	p.patterns[name] = normalize(v)
}

// Statements returns the statements in the order they were recorded.
func (p *Provenance) Statements() []kg.Triple { return p.statements }

// PatternNames returns the recorded pattern names in first-use order.
func (p *Provenance) PatternNames() []string { return p.names }

// Pattern returns the value recorded for name.
func (p *Provenance) Pattern(name string) (any, bool) {
	v, ok := p.patterns[name]
	return v, ok
}

// Graph returns the statements as a graph.
func (p *Provenance) Graph() *kg.Graph {
	g := kg.NewGraph()
	g.AddAll(p.statements...)
	return g
}

func normalize(v any) any {
	switch v := v.(type) {
	case kg.Term:
		return v.String()
	case []kg.Term:
		out := make([]string, len(v))
		for i, t := range v {
			out[i] = t.String()
		}
		return out
	}
	return v
}
