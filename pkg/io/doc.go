// Package io reads and writes knowledge graphs.
//
// # Formats
//
// Turtle (.ttl) and N-Triples (.nt) are supported through
// github.com/knakk/rdf. A trailing ".gz" on a path selects transparent gzip
// compression:
//
//	g, err := io.ImportGraph("gl.ttl.gz")
//	err = io.ExportGraph(g, "expected.ttl.gz", io.WithPrefixes())
//
// # Remote Graphs
//
// [Fetch] downloads a graph over HTTP(S). Transient failures are retried
// with backoff, and the raw bytes are kept in a [cache.Cache] so repeated
// runs against the same URL work offline.
//
// # Statement Snippets
//
// [FormatStatements] renders a handful of triples as prefix-free Turtle.
// It is used for cell comments and the provenance CSV.
package io
