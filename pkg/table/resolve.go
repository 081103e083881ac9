package table

import (
	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/setup"
)

// patternKey returns the most specific key configured for name: the
// single property's key, then the column uri's key, then name itself.
func patternKey(s *setup.Setup, pc *setup.PropertyConfig, name string) string {
	key := name
	if pc == nil {
		return key
	}
	if !pc.IsMulti() {
		if k := setup.Key(pc.Property().Value, name); s.Has(k) {
			key = k
		}
	}
	if pc.HasURI() {
		if uri, err := pc.URI(); err == nil {
			if k := setup.Key(uri, name); s.Has(k) {
				key = k
			}
		}
	}
	return key
}

// selectPattern resolves pattern name for cell c and records the chosen
// value under the bare name.
func selectPattern[T any](t *Table, pc *setup.PropertyConfig, c *Cell, name string) (T, error) {
	var zero T
	key := patternKey(t.Setup, pc, name)
	if vs, err := t.Setup.Values(key); err != nil || len(vs) == 0 {
		return zero, errors.New(errors.ErrCodeNoPattern, "no configuration for pattern key %s", key)
	}
	v, err := setup.SampleAs[T](t.Setup, key)
	if err != nil {
		return zero, err
	}
	t.putPattern(c, name, v)
	return v, nil
}
