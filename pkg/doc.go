// Package pkg provides the core libraries of DataSprout.
//
// # Overview
//
// DataSprout renders RDF knowledge graphs into spreadsheets that look like
// they were made by hand: merged columns, acronyms, colors that carry
// meaning, values hidden in formatting. Every generated workbook comes with
// the graph it expresses and the provenance of each cell, so the output can
// serve as ground truth for spreadsheet-to-graph extraction.
//
// # Architecture
//
// The typical data flow:
//
//	Turtle / N-Triples file or URL
//	         ↓
//	    [io] package (import, fetch with cache)
//	         ↓
//	    [kg] package (graph model + schema analysis)
//	         ↓
//	    [patterns] package (random table setups per pattern)
//	         ↓
//	    [table] package (cells, rich text, provenance)
//	         ↓
//	    [workbook] package (xlsx + expected graph + provenance)
//
// # Quick Start
//
//	g, _ := io.ImportGraph("gl.ttl")
//	schema := kg.Analyze(g)
//
//	formats, _ := patterns.NewFormats("en")
//	formats.AddDefaultProperties()
//	gen := patterns.New(patterns.AllToggles(), formats)
//	setups, _ := gen.Generate(schema, 1, rand.New(rand.NewPCG(7, 7^0xdeadbeef)))
//
//	tables, _ := table.NewGenerator(schema, kg.DefaultConverters()).GenerateAll(setups, table.NewIDCounter())
//	_, _ = workbook.NewCreator().Create(ctx, "gen/gl/All", tables, workbook.Options{})
//
// Most callers use [pipeline] instead, which runs these steps with caching
// and bookkeeping.
//
// # Main Packages
//
// ## Domain
//
// [kg] - Terms, triples, the indexed graph and schema analysis.
//
// [setup] - Ordered key/option maps with weighted sampling that describe one
// table.
//
// [patterns] - The messiness patterns and the generator that turns a schema
// into setups.
//
// [richtext] - The inline markup used for partially formatted cells.
//
// [table] - Table generation: cells, styles, comments and provenance.
//
// [workbook] - Workbook clustering, drawing and artifact files.
//
// ## Infrastructure
//
// [pipeline] - Import → generate → workbook orchestration used by CLI, batch
// runner and server.
//
// [cache] - File, Redis and null caches with a shared key derivation.
//
// [store] - File and MongoDB stores of run summaries.
//
// [server] - The HTTP server.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [errors] - Coded errors and input validation.
//
// ## Visualization
//
// [render/schema] - Class diagrams of a graph schema via Graphviz.
//
// # Testing
//
//	go test ./pkg/...                         # All tests
//	DATASPROUT_TEST_MONGO_URI=mongodb://localhost:27017 go test ./pkg/store/
//
// [io]: https://pkg.go.dev/github.com/matzehuels/datasprout/pkg/io
// [kg]: https://pkg.go.dev/github.com/matzehuels/datasprout/pkg/kg
// [setup]: https://pkg.go.dev/github.com/matzehuels/datasprout/pkg/setup
// [patterns]: https://pkg.go.dev/github.com/matzehuels/datasprout/pkg/patterns
// [richtext]: https://pkg.go.dev/github.com/matzehuels/datasprout/pkg/richtext
// [table]: https://pkg.go.dev/github.com/matzehuels/datasprout/pkg/table
// [workbook]: https://pkg.go.dev/github.com/matzehuels/datasprout/pkg/workbook
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/datasprout/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/datasprout/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/datasprout/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/datasprout/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/datasprout/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/datasprout/pkg/errors
// [render/schema]: https://pkg.go.dev/github.com/matzehuels/datasprout/pkg/render/schema
package pkg
