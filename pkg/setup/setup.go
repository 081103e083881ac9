package setup

import (
	"math/rand/v2"

	"github.com/matzehuels/datasprout/pkg/errors"
)

// Reserved keys.
const (
	KeyClasses         = "classes"
	KeyProperties      = "properties"
	KeyLabelProperties = "label-properties"
	KeyRandom          = "random"
	KeyInstanceFilter  = "instance-filter"
	KeySchemaAnalysis  = "schema-analysis"
)

// entry is one value of a Setup: a scalar, or a list with an optional
// weight per element.
type entry struct {
	scalar  any
	list    []any
	isList  bool
	weights []float64
}

// Setup is an ordered key to option map that describes how to render one
// table. Each key holds either a scalar or a list of candidate values with a
// weight distribution; [Setup.ByDistribution] samples from it with the
// RNG stored under [KeyRandom].
//
// The zero value is not usable - use [New].
type Setup struct {
	keys    []string
	entries map[string]*entry
}

// New creates an empty Setup.
func New() *Setup {
	return &Setup{entries: make(map[string]*entry)}
}

// List converts typed values into the []any form stored by a Setup.
func List[T any](vs ...T) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

func (s *Setup) store(key string, e *entry) {
	if _, ok := s.entries[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.entries[key] = e
}

// Set stores a scalar value.
func (s *Setup) Set(key string, v any) {
	s.store(key, &entry{scalar: v})
}

// Put stores v, normalizing []any values to lists with a uniform
// distribution and everything else to a scalar.
func (s *Setup) Put(key string, v any) {
	if l, ok := v.([]any); ok {
		s.PutList(key, l)
		return
	}
	s.Set(key, v)
}

// PutList stores a list. A non-empty list gets a uniform distribution.
func (s *Setup) PutList(key string, values []any) {
	e := &entry{list: values, isList: true}
	if n := len(values); n > 0 {
		e.weights = make([]float64, n)
		for i := range e.weights {
			e.weights[i] = 1.0 / float64(n)
		}
	}
	s.store(key, e)
}

// PutWeighted stores a list with an explicit distribution.
func (s *Setup) PutWeighted(key string, values []any, weights ...float64) error {
	s.store(key, &entry{list: values, isList: true})
	return s.PutDistribution(key, weights...)
}

// PutDistribution installs a distribution over the list stored under key.
// It fails when the number of weights differs from the number of values.
func (s *Setup) PutDistribution(key string, weights ...float64) error {
	e, ok := s.entries[key]
	if !ok {
		return errors.New(errors.ErrCodeMissingKey, "%s not found", key)
	}
	n := 1
	if e.isList {
		n = len(e.list)
	}
	if n != len(weights) {
		return errors.New(errors.ErrCodeDistribution,
			"there are %d values but %d distribution values", n, len(weights))
	}
	if !e.isList {
		e.list, e.isList = []any{e.scalar}, true
	}
	e.weights = append([]float64(nil), weights...)
	return nil
}

// Has reports whether key is present.
func (s *Setup) Has(key string) bool {
	_, ok := s.entries[key]
	return ok
}

// Delete removes key.
func (s *Setup) Delete(key string) {
	if _, ok := s.entries[key]; !ok {
		return
	}
	delete(s.entries, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (s *Setup) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Len returns the number of keys.
func (s *Setup) Len() int { return len(s.keys) }

// Value returns the raw value under key: the scalar, or the []any list.
func (s *Setup) Value(key string) (any, error) {
	e, ok := s.entries[key]
	if !ok {
		return nil, errors.New(errors.ErrCodeMissingKey, "%s not found", key)
	}
	if e.isList {
		return e.list, nil
	}
	return e.scalar, nil
}

// Values returns the candidates under key. A scalar is a one-element list.
func (s *Setup) Values(key string) ([]any, error) {
	e, ok := s.entries[key]
	if !ok {
		return nil, errors.New(errors.ErrCodeMissingKey, "%s not found", key)
	}
	if e.isList {
		return e.list, nil
	}
	return []any{e.scalar}, nil
}

// Weights returns the distribution installed for key, or nil.
func (s *Setup) Weights(key string) []float64 {
	if e, ok := s.entries[key]; ok {
		return e.weights
	}
	return nil
}

// Single returns the only value under key. A list must have exactly one
// element.
func (s *Setup) Single(key string) (any, error) {
	e, ok := s.entries[key]
	if !ok {
		return nil, errors.New(errors.ErrCodeMissingKey, "%s not found", key)
	}
	if !e.isList {
		return e.scalar, nil
	}
	if len(e.list) != 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration,
			"getSingle(%s) but list has size %d", key, len(e.list))
	}
	return e.list[0], nil
}

// ByDistribution returns the value under key. Scalars and singleton lists
// are returned without sampling; longer lists are sampled with their
// distribution using the Setup's RNG.
func (s *Setup) ByDistribution(key string) (any, error) {
	e, ok := s.entries[key]
	if !ok {
		return nil, errors.New(errors.ErrCodeMissingKey, "%s not found", key)
	}
	if !e.isList {
		return e.scalar, nil
	}
	if len(e.list) == 1 {
		return e.list[0], nil
	}
	if len(e.weights) == 0 || len(e.weights) != len(e.list) {
		return nil, errors.New(errors.ErrCodeDistribution,
			"for %s is no distribution defined, use PutDistribution", key)
	}
	rng, err := s.Rand()
	if err != nil {
		return nil, err
	}
	return e.list[sample(rng, e.weights)], nil
}

// Rand returns the RNG stored under [KeyRandom].
func (s *Setup) Rand() (*rand.Rand, error) {
	return ValueAs[*rand.Rand](s, KeyRandom)
}

// Flag returns the boolean under key. A missing key is false.
func (s *Setup) Flag(key string) (bool, error) {
	if !s.Has(key) {
		return false, nil
	}
	return SingleAs[bool](s, key)
}

// Clone returns a copy of s. Lists and weights are copied; the values
// themselves are shared.
func (s *Setup) Clone() *Setup {
	c := &Setup{
		keys:    append([]string(nil), s.keys...),
		entries: make(map[string]*entry, len(s.entries)),
	}
	for k, e := range s.entries {
		ce := *e
		if e.isList {
			ce.list = append([]any(nil), e.list...)
		}
		ce.weights = append([]float64(nil), e.weights...)
		c.entries[k] = &ce
	}
	return c
}

// Merge copies every entry of other into s, overwriting existing keys.
func (s *Setup) Merge(other *Setup) {
	for _, k := range other.keys {
		e := *other.entries[k]
		s.store(k, &e)
	}
}

func sample(rng *rand.Rand, weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	r := rng.Float64() * total
	for i, w := range weights {
		if r < w {
			return i
		}
		r -= w
	}
	return len(weights) - 1
}

// =============================================================================
// Typed accessors
// =============================================================================

func as[T any](key string, v any) (T, error) {
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, errors.New(errors.ErrCodeTypeMismatch, "%s: expected %T but got %T", key, zero, v)
	}
	return t, nil
}

// ValueAs returns the raw value under key as T.
func ValueAs[T any](s *Setup, key string) (T, error) {
	v, err := s.Value(key)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](key, v)
}

// SingleAs returns the single value under key as T.
func SingleAs[T any](s *Setup, key string) (T, error) {
	v, err := s.Single(key)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](key, v)
}

// SampleAs samples the value under key and returns it as T.
func SampleAs[T any](s *Setup, key string) (T, error) {
	v, err := s.ByDistribution(key)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](key, v)
}

// ValuesAs returns every candidate under key as T.
func ValuesAs[T any](s *Setup, key string) ([]T, error) {
	vs, err := s.Values(key)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(vs))
	for i, v := range vs {
		if out[i], err = as[T](key, v); err != nil {
			return nil, err
		}
	}
	return out, nil
}
