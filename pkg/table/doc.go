// Package table renders one Setup into a grid of spreadsheet cells.
//
// A [Generator] turns each instance of the Setup's classes into a row and
// each property config into a column. Every cell value is resolved through
// the Setup's patterns: how booleans, numbers, dates, missing values and
// references to other resources are written. The chosen pattern values are
// recorded per cell together with the statements the cell was derived
// from, so that every output cell can be traced back to the graph.
//
// # Pattern Resolution
//
// A pattern name such as "BooleanRendering" is resolved per cell. A
// per-property key "<property>.BooleanRendering" is preferred, then a key
// on the column's explicit uri, then the bare name. The winning key is
// sampled with its distribution:
//
//	gen := table.NewGenerator(schema, kg.DefaultConverters())
//	defer gen.Close()
//	tbl, err := gen.Generate(s, table.NewIDCounter())
//
// # Cell Ids
//
// Cell ids come from an [IDCounter] that is shared by every table of one
// run, so ids are unique within a generated corpus.
package table
