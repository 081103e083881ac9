// Package schema renders the class structure of a knowledge graph as a
// node-link diagram.
//
// Classes appear as boxes; an object property whose range is another class
// becomes an arrow labelled with the property's local name. It is the
// picture behind the CLI's schema command and helps decide which patterns
// a graph can exercise at all (colors need object properties, multiple
// types need overlapping classes).
//
// # Usage
//
//	s := kg.Analyze(g)
//	dot := schema.ToDOT(s, schema.Options{Detailed: true})
//	svg, err := schema.RenderSVG(dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package schema
