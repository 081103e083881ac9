package kg

import (
	"slices"
	"strings"
)

// Schema holds the facts about a graph that pattern generation and
// rendering need: which classes have instances, which properties the
// instances of each class use, and which ranges each property has.
//
// A Schema is computed once per graph with [Analyze] and is read-only
// afterwards.
type Schema struct {
	graph      *Graph
	classes    []Term
	instances  map[Term][]Term
	properties map[Term][]Term
	ranges     map[Term][]Term
}

// Analyze computes the schema of g. Literal ranges are datatype IRIs,
// resource ranges are the object's types, or rdfs:Resource when the
// object is untyped.
func Analyze(g *Graph) *Schema {
	s := &Schema{
		graph:      g,
		instances:  make(map[Term][]Term),
		properties: make(map[Term][]Term),
		ranges:     make(map[Term][]Term),
	}

	seenInst := make(map[[2]Term]bool)
	for _, t := range g.Triples() {
		if t.P != RDFType || !t.O.IsResource() {
			continue
		}
		key := [2]Term{t.O, t.S}
		if seenInst[key] {
			continue
		}
		seenInst[key] = true
		s.instances[t.O] = append(s.instances[t.O], t.S)
	}

	for class, insts := range s.instances {
		s.classes = append(s.classes, class)
		seen := make(map[Term]bool)
		for _, inst := range insts {
			for _, st := range g.Statements(inst) {
				if !seen[st.P] {
					seen[st.P] = true
					s.properties[class] = append(s.properties[class], st.P)
				}
			}
		}
		slices.SortFunc(s.properties[class], compareTerms)
	}
	slices.SortFunc(s.classes, compareTerms)

	seenRange := make(map[[2]Term]bool)
	addRange := func(p, r Term) {
		key := [2]Term{p, r}
		if !seenRange[key] {
			seenRange[key] = true
			s.ranges[p] = append(s.ranges[p], r)
		}
	}
	for _, t := range g.Triples() {
		if t.O.IsLiteral() {
			dt := t.O.Datatype
			if dt == "" {
				dt = XSDString
			}
			addRange(t.P, IRI(dt))
			continue
		}
		types := g.Types(t.O)
		if len(types) == 0 {
			addRange(t.P, RDFSResource)
		}
		for _, typ := range types {
			addRange(t.P, typ)
		}
	}
	for p := range s.ranges {
		slices.SortFunc(s.ranges[p], compareTerms)
	}
	return s
}

// Graph returns the analyzed graph.
func (s *Schema) Graph() *Graph { return s.graph }

// Classes returns every class with at least one instance, sorted by IRI.
func (s *Schema) Classes() []Term { return s.classes }

// Instances returns the instances of class in graph order.
func (s *Schema) Instances(class Term) []Term { return s.instances[class] }

// Properties returns the properties used by instances of class, sorted
// by IRI. rdf:type is included.
func (s *Schema) Properties(class Term) []Term { return s.properties[class] }

// Ranges returns the ranges of property p, sorted by IRI.
func (s *Schema) Ranges(p Term) []Term { return s.ranges[p] }

// IsInstanceOf reports whether inst has type class.
func (s *Schema) IsInstanceOf(inst, class Term) bool {
	return s.graph.Has(T(inst, RDFType, class))
}

// DisplayName returns the rdfs:label of t, else its local name, else
// the full IRI.
func (s *Schema) DisplayName(t Term) string {
	if l, ok := s.graph.Label(t); ok {
		return l
	}
	if ln := LocalName(t.Value); ln != "" {
		return ln
	}
	return t.Value
}

func compareTerms(a, b Term) int {
	if a.Kind != b.Kind {
		return int(a.Kind) - int(b.Kind)
	}
	if c := strings.Compare(a.Value, b.Value); c != 0 {
		return c
	}
	if c := strings.Compare(a.Datatype, b.Datatype); c != 0 {
		return c
	}
	return strings.Compare(a.Lang, b.Lang)
}

// SortTerms sorts ts in place by kind, then value.
func SortTerms(ts []Term) { slices.SortFunc(ts, compareTerms) }
