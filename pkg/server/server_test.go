package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/datasprout/pkg/cache"
	"github.com/matzehuels/datasprout/pkg/patterns"
	"github.com/matzehuels/datasprout/pkg/pipeline"
	"github.com/matzehuels/datasprout/pkg/store"
	"github.com/matzehuels/datasprout/pkg/workbook"
)

const staffTurtle = `@prefix x: <http://x/> .
@prefix foaf: <http://xmlns.com/foaf/0.1/> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .

x:dfki a x:Org ; rdfs:label "DFKI" .
x:p0 a x:Person ; foaf:firstName "Ada" ; x:age "36"^^xsd:integer ; x:worksAt x:dfki .
x:p1 a x:Person ; foaf:firstName "Alan" ; x:age "41"^^xsd:integer ; x:worksAt x:dfki .
x:p2 a x:Person ; foaf:firstName "Grace" ; x:age "52"^^xsd:integer ; x:worksAt x:dfki .
`

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "staff.ttl")
	require.NoError(t, os.WriteFile(path, []byte(staffTurtle), 0o644))

	c, err := cache.NewFileCache(filepath.Join(dir, "cache"))
	require.NoError(t, err)
	st, err := store.NewFileStore(filepath.Join(dir, "runs"))
	require.NoError(t, err)

	runner := pipeline.NewRunner(c, nil, nil)
	runner.Store = st
	s := New(runner, map[string]string{"staff": path}, nil)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 14, 5, 9, 0, time.UTC) }

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func patternsJSON(t *testing.T, on ...string) string {
	t.Helper()
	m := map[string]bool{}
	for _, n := range patterns.Names {
		m[patterns.DisplayName(n)] = false
	}
	for _, n := range on {
		m[patterns.DisplayName(n)] = true
	}
	b, err := json.Marshal(m)
	require.NoError(t, err)
	return string(b)
}

func sprawlURL(base string, params map[string]string) string {
	v := url.Values{}
	for k, p := range params {
		v.Set(k, p)
	}
	return base + "/sprawl?" + v.Encode()
}

func TestSprawl(t *testing.T) {
	_, ts := newTestServer(t)
	u := sprawlURL(ts.URL, map[string]string{
		"kg":                         "staff",
		"mode":                       ModeExcel,
		"randomSeed":                 "7",
		"numberOfWorkbooks":          "2",
		"writeExpectedModel":         "true",
		"writeGenerationSummaryJson": "TRUE",
		"patterns":                   patternsJSON(t, patterns.AcronymsOrSymbols),
	})

	resp, err := http.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))
	assert.Equal(t, "attachment;filename=datasprout-sprawl-staff-excel-2024-03-01-14-05-09.zip",
		resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	var workbooks, summaries, provenance int
	for _, f := range zr.File {
		switch {
		case strings.HasSuffix(f.Name, workbook.WorkbookFile):
			workbooks++
		case strings.HasSuffix(f.Name, workbook.SummaryFile):
			summaries++
		case strings.HasSuffix(f.Name, workbook.ProvenanceFile):
			provenance++
		}
	}
	assert.GreaterOrEqual(t, workbooks, 2)
	assert.Equal(t, workbooks, summaries)
	assert.Zero(t, provenance)

	again, err := http.Get(u)
	require.NoError(t, err)
	again.Body.Close()
	assert.Equal(t, "HIT", again.Header.Get("X-Cache"))
}

func TestSprawlErrors(t *testing.T) {
	_, ts := newTestServer(t)
	valid := map[string]string{
		"kg":                "staff",
		"mode":              ModeExcel,
		"randomSeed":        "1",
		"numberOfWorkbooks": "1",
		"patterns":          patternsJSON(t),
	}
	with := func(k, v string) map[string]string {
		m := map[string]string{}
		for key, val := range valid {
			m[key] = val
		}
		if v == "" {
			delete(m, k)
		} else {
			m[k] = v
		}
		return m
	}

	tests := []struct {
		name   string
		params map[string]string
		status int
		body   string
	}{
		{"missing kg", with("kg", ""), http.StatusBadRequest, "kg parameter is not set"},
		{"missing mode", with("mode", ""), http.StatusBadRequest, "mode parameter is not set"},
		{"unknown kg", with("kg", "bsbm"), http.StatusBadRequest, "not registered"},
		{"unsupported mode", with("mode", "csv"), http.StatusBadRequest, "not supported"},
		{"bad seed", with("randomSeed", "x"), http.StatusBadRequest, "randomSeed"},
		{"bad count", with("numberOfWorkbooks", ""), http.StatusBadRequest, "numberOfWorkbooks"},
		{"bad patterns", with("patterns", "[1]"), http.StatusBadRequest, "patterns"},
		{"incomplete patterns", with("patterns", `{"Acronyms or Symbols": true}`), http.StatusBadRequest, "not set"},
		{"unknown locale", with("lang", "xx"), http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(sprawlURL(ts.URL, tt.params))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
			var buf bytes.Buffer
			_, _ = buf.ReadFrom(resp.Body)
			assert.Contains(t, buf.String(), tt.body)
		})
	}
}

func TestSprawlMissingGraphFile(t *testing.T) {
	s, ts := newTestServer(t)
	s.Graphs["gone"] = filepath.Join(t.TempDir(), "gone.ttl")

	resp, err := http.Get(sprawlURL(ts.URL, map[string]string{
		"kg": "gone", "mode": ModeExcel, "randomSeed": "1", "numberOfWorkbooks": "1",
		"patterns": patternsJSON(t),
	}))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestGraphsAndRuns(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/graphs")
	require.NoError(t, err)
	var graphs []GraphInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&graphs))
	resp.Body.Close()
	require.Len(t, graphs, 1)
	assert.Equal(t, "staff", graphs[0].Name)

	resp, err = http.Get(ts.URL + "/runs")
	require.NoError(t, err)
	var runs []store.Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&runs))
	resp.Body.Close()
	assert.Empty(t, runs)

	resp, err = http.Get(sprawlURL(ts.URL, map[string]string{
		"kg": "staff", "mode": ModeExcel, "randomSeed": "3", "numberOfWorkbooks": "1",
		"patterns": patternsJSON(t),
	}))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/runs?kg=staff")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&runs))
	resp.Body.Close()
	require.Len(t, runs, 1)
	assert.Equal(t, "staff", runs[0].Summary.Dataset)
	assert.NotEmpty(t, runs[0].ArchiveKey)

	resp, err = http.Get(ts.URL + "/runs?limit=-1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
