// Package setup provides the configuration model that drives table
// rendering.
//
// # Setup
//
// A [Setup] is an ordered key to option map. Values are scalars or lists of
// candidates with a weight distribution:
//
//	s := setup.New()
//	s.Set(setup.KeyRandom, rng)
//	s.PutList("BooleanRendering", setup.List(setup.BooleanNative, setup.BooleanSymbol))
//	r, err := setup.SampleAs[setup.BooleanRendering](s, "BooleanRendering")
//
// Accessors never coerce silently: [Setup.Single] fails on lists with more
// than one element, [Setup.ByDistribution] fails when a multi-element list
// has no distribution, and the typed accessors ([SingleAs], [SampleAs],
// [ValueAs]) fail with TYPE_MISMATCH on the wrong dynamic type.
//
// # Keys
//
// Pattern keys may be scoped to a property or a column uri by prefixing
// them, e.g. "http://xmlns.com/foaf/0.1/age.NumericRendering". Use [Key] to
// build them.
//
// # Possibilities
//
// [Possibilities] describes a whole space of setups. [Possibilities.Setups]
// expands the cross product of all allowed option subsets and
// [Possibilities.SetupsPerClass] draws one option per key for every class.
package setup
