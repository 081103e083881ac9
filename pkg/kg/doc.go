// Package kg provides the knowledge-graph model DataSprout renders from.
//
// # Core Types
//
//   - [Term]: IRI, blank node or literal; comparable, usable as a map key
//   - [Triple]: one statement
//   - [Graph]: insertion-ordered triple set with subject and predicate-object indexes
//   - [Schema]: classes, instances, properties and ranges of a graph
//   - [Value]: closed set of typed literal values ([Str], [Num], [Bool], [Date], [DateTime])
//
// # Literal Values
//
// [ValueOf] converts a literal into a [Value]. XSD strings, numbers,
// booleans, dates and date-times are built in; any other datatype must be
// registered in a [Converters] table:
//
//	conv := kg.DefaultConverters()
//	v, err := kg.ValueOf(lit, conv)
//	switch v := v.(type) {
//	case kg.Str:
//	case kg.Num:
//	...
//	}
//
// # Determinism
//
// All accessors return results in graph insertion order or sorted by IRI,
// never in map order. Two analyses of the same input produce identical
// schemas.
package kg
