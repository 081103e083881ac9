package kg

// Graph is an in-memory set of triples with subject and predicate-object
// indexes. Iteration order always follows insertion order, so everything
// derived from a graph is reproducible.
//
// The zero value is not usable - use [NewGraph]. Graph is not safe for
// concurrent writes.
type Graph struct {
	triples  []Triple
	seen     map[Triple]struct{}
	subjects map[Term][]int          // subject -> triple indexes
	objects  map[Term]map[Term][]int // predicate -> object -> triple indexes
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		seen:     make(map[Triple]struct{}),
		subjects: make(map[Term][]int),
		objects:  make(map[Term]map[Term][]int),
	}
}

// Add inserts a triple. It reports whether the triple was new.
func (g *Graph) Add(t Triple) bool {
	if _, ok := g.seen[t]; ok {
		return false
	}
	g.seen[t] = struct{}{}
	i := len(g.triples)
	g.triples = append(g.triples, t)
	g.subjects[t.S] = append(g.subjects[t.S], i)
	po := g.objects[t.P]
	if po == nil {
		po = make(map[Term][]int)
		g.objects[t.P] = po
	}
	po[t.O] = append(po[t.O], i)
	return true
}

// AddAll inserts every triple of ts.
func (g *Graph) AddAll(ts ...Triple) {
	for _, t := range ts {
		g.Add(t)
	}
}

// Merge adds all triples of other to g.
func (g *Graph) Merge(other *Graph) {
	if other == nil {
		return
	}
	g.AddAll(other.triples...)
}

// Len returns the number of triples.
func (g *Graph) Len() int { return len(g.triples) }

// Triples returns all triples in insertion order. The slice must not be modified.
func (g *Graph) Triples() []Triple { return g.triples }

// Has reports whether the triple is in the graph.
func (g *Graph) Has(t Triple) bool {
	_, ok := g.seen[t]
	return ok
}

// Statements returns all triples with subject s.
func (g *Graph) Statements(s Term) []Triple {
	idx := g.subjects[s]
	out := make([]Triple, len(idx))
	for i, j := range idx {
		out[i] = g.triples[j]
	}
	return out
}

// Objects returns the objects of (s, p, ?).
func (g *Graph) Objects(s, p Term) []Term {
	var out []Term
	for _, j := range g.subjects[s] {
		if t := g.triples[j]; t.P == p {
			out = append(out, t.O)
		}
	}
	return out
}

// Object returns the first object of (s, p, ?).
func (g *Graph) Object(s, p Term) (Term, bool) {
	for _, j := range g.subjects[s] {
		if t := g.triples[j]; t.P == p {
			return t.O, true
		}
	}
	return Term{}, false
}

// Subjects returns the subjects of (?, p, o).
func (g *Graph) Subjects(p, o Term) []Term {
	idx := g.objects[p][o]
	out := make([]Term, len(idx))
	for i, j := range idx {
		out[i] = g.triples[j].S
	}
	return out
}

// Types returns the rdf:type objects of s.
func (g *Graph) Types(s Term) []Term { return g.Objects(s, RDFType) }

// Label returns the first rdfs:label literal of s.
func (g *Graph) Label(s Term) (string, bool) {
	for _, o := range g.Objects(s, RDFSLabel) {
		if o.IsLiteral() {
			return o.Value, true
		}
	}
	return "", false
}
