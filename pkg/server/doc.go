// Package server exposes dataset generation over HTTP.
//
// The server serves one generation endpoint:
//
//	GET /sprawl?kg=GL&mode=excel&randomSeed=7&numberOfWorkbooks=2&patterns={...}
//
// It answers with a zip archive of the generated workbook folders. The
// knowledge graph is named by kg and must be registered in [Server.Graphs].
// Patterns are given as a JSON object keyed by the pattern display names
// (see [patterns.DisplayName]); every pattern must be present.
//
// Archives are produced by [pipeline.Runner.Archive], so a Redis-backed
// runner cache lets several server instances share results and a store
// records every generated run.
//
// Besides /sprawl the server lists the registered graphs under /graphs, the
// recorded runs under /runs, the build under /version and answers health checks under /healthz.
package server
