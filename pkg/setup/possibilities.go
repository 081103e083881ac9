package setup

import (
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/datasprout/pkg/errors"
)

// Generator produces the option subsets of a dependent key from a partially
// built Setup.
type Generator func(partial *Setup) [][]any

// Possibilities is a declarative space of setups: each key has a flat option
// list and a subset-size bound, and dependent keys derive their subsets from
// the keys they depend on.
//
// The zero value is not usable - use [NewPossibilities].
type Possibilities struct {
	keys       []string
	options    map[string][]any
	generators map[string]Generator
	parent     map[string]string
	bounds     map[string][2]int
}

// NewPossibilities creates an empty possibility space.
func NewPossibilities() *Possibilities {
	return &Possibilities{
		options:    make(map[string][]any),
		generators: make(map[string]Generator),
		parent:     make(map[string]string),
		bounds:     make(map[string][2]int),
	}
}

func (p *Possibilities) addKey(key string) {
	if _, ok := p.options[key]; !ok {
		if _, ok := p.generators[key]; !ok {
			p.keys = append(p.keys, key)
		}
	}
}

// Put registers a flat option list. Subsets between min and max elements
// become candidate values.
func (p *Possibilities) Put(key string, min, max int, values []any) {
	p.addKey(key)
	p.options[key] = values
	p.bounds[key] = [2]int{min, max}
}

// PutDependent registers a key whose subsets are computed by fn from the
// Setup built so far. The key is expanded after parent.
func (p *Possibilities) PutDependent(key, parent string, min, max int, fn Generator) {
	p.addKey(key)
	p.generators[key] = fn
	p.bounds[key] = [2]int{min, max}
	p.parent[key] = parent
}

// DependsOn declares that child is expanded after parent.
func (p *Possibilities) DependsOn(child, parent string) {
	p.parent[child] = parent
}

// Keys returns the keys in insertion order.
func (p *Possibilities) Keys() []string { return append([]string(nil), p.keys...) }

// Options returns the flat option list of key.
func (p *Possibilities) Options(key string) []any { return p.options[key] }

// TopologicalSortedKeys returns independent keys in lexicographic order,
// each followed depth-first by the keys depending on it. Children of one
// parent are visited in lexicographic order.
func (p *Possibilities) TopologicalSortedKeys() []string {
	var roots []string
	for _, k := range p.keys {
		if _, ok := p.parent[k]; !ok {
			roots = append(roots, k)
		}
	}
	slices.Sort(roots)

	children := make(map[string][]string)
	for child, parent := range p.parent {
		children[parent] = append(children[parent], child)
	}
	for _, c := range children {
		slices.Sort(c)
	}

	result := make([]string, 0, len(p.keys))
	stack := make([]string, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		result = append(result, node)

		c := children[node]
		for i := len(c) - 1; i >= 0; i-- {
			stack = append(stack, c[i])
		}
	}
	return result
}

// SubsetsOf returns the subsets of values allowed for key, in bitmask
// counting order. The empty subset and sizes outside the key's bounds are
// removed. Keys without bounds default to exactly one element.
func (p *Possibilities) SubsetsOf(key string, values []any) [][]any {
	b, ok := p.bounds[key]
	if !ok {
		b = [2]int{1, 1}
	}
	var out [][]any
	for _, ss := range Subsets(values) {
		if len(ss) == 0 || len(ss) < b[0] || len(ss) > b[1] {
			continue
		}
		out = append(out, ss)
	}
	return out
}

// Setups expands the full space. The first key creates one Setup per
// subset. Every later key assigns its first subset in place and clones
// the Setup for each further subset.
func (p *Possibilities) Setups() []*Setup {
	var result []*Setup
	for _, key := range p.TopologicalSortedKeys() {
		if len(result) == 0 {
			for _, option := range p.subsetsFor(key, nil) {
				s := New()
				s.PutList(key, option)
				result = append(result, s)
			}
			continue
		}

		var fresh []*Setup
		for _, s := range result {
			for i, option := range p.subsetsFor(key, s) {
				if i == 0 {
					s.PutList(key, option)
					continue
				}
				c := s.Clone()
				c.PutList(key, option)
				fresh = append(fresh, c)
			}
		}
		result = append(result, fresh...)
	}
	return result
}

func (p *Possibilities) subsetsFor(key string, partial *Setup) [][]any {
	if fn, ok := p.generators[key]; ok {
		if partial == nil {
			partial = New()
		}
		return fn(partial)
	}
	return p.SubsetsOf(key, p.options[key])
}

// SetupsPerClass builds n replicas of one Setup per option of the classes
// key. Every other key, in sorted order, gets one uniformly drawn option.
func (p *Possibilities) SetupsPerClass(n int, rng *rand.Rand) ([]*Setup, error) {
	classes, ok := p.options[KeyClasses]
	if !ok {
		return nil, errors.New(errors.ErrCodeMissingKey, "%s not found", KeyClasses)
	}

	var keys []string
	for _, k := range p.keys {
		if k != KeyClasses {
			if _, dep := p.generators[k]; !dep {
				keys = append(keys, k)
			}
		}
	}
	slices.Sort(keys)

	var result []*Setup
	for range n {
		for _, cls := range classes {
			s := New()
			s.Set(KeyClasses, cls)
			for _, k := range keys {
				values := p.options[k]
				switch {
				case len(values) > 1:
					s.PutList(k, []any{values[rng.IntN(len(values))]})
				case len(values) == 1:
					s.PutList(k, []any{values[0]})
				}
			}
			result = append(result, s)
		}
	}
	return result, nil
}
