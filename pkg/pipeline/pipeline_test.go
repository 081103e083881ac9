package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/matzehuels/datasprout/pkg/cache"
	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/observability"
	"github.com/matzehuels/datasprout/pkg/patterns"
	"github.com/matzehuels/datasprout/pkg/store"
	"github.com/matzehuels/datasprout/pkg/workbook"
)

// staffTurtle has six people working at one of two organisations.
func staffTurtle() string {
	var b strings.Builder
	b.WriteString(`@prefix x: <http://x/> .
@prefix foaf: <http://xmlns.com/foaf/0.1/> .
@prefix gl: <http://www.dfki.uni-kl.de/~mschroeder/ld/gl#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .

x:dfki a x:Org ; rdfs:label "DFKI" .
x:uni a x:Org ; rdfs:label "RPTU" .
`)
	for i := range 6 {
		employer := "dfki"
		if i%2 == 1 {
			employer = "uni"
		}
		fmt.Fprintf(&b, `x:p%d a x:Person ;
    foaf:firstName "First%d" ;
    foaf:lastName "Last%d" ;
    x:age "%d"^^xsd:integer ;
    gl:worksAt x:%s .
`, i, i, i, 30+i, employer)
	}
	return b.String()
}

func writeGraph(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "staff.ttl")
	if err := os.WriteFile(path, []byte(staffTurtle()), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestModes(t *testing.T) {
	names := ModeNames()
	if len(names) != 11 {
		t.Fatalf("got %d modes, want 11: %v", len(names), names)
	}
	if names[0] != ModeClean || names[len(names)-1] != ModeAllProvenanceAsCellComment {
		t.Errorf("unexpected mode order: %v", names)
	}

	tests := []struct {
		name    string
		enabled []string
		noisy   bool
		comment bool
	}{
		{ModeClean, nil, false, false},
		{"SinglePattern_AcronymsOrSymbols", []string{patterns.AcronymsOrSymbols}, true, false},
		{"SinglePattern_IntraCellAdditionalInformation_PartialFormattingIndicatesRelations",
			[]string{patterns.PartialFormattingIndicatesRelations, patterns.IntraCellAdditionalInformation}, true, false},
		{ModeAll, patterns.Names, true, false},
		{ModeAllProvenanceAsCellComment, patterns.Names, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := LookupMode(tt.name)
			if err != nil {
				t.Fatalf("LookupMode: %v", err)
			}
			got := m.Toggles.Enabled()
			if fmt.Sprint(got) != fmt.Sprint(tt.enabled) {
				t.Errorf("enabled = %v, want %v", got, tt.enabled)
			}
			if m.Noisy != tt.noisy || m.ProvenanceAsCellComment != tt.comment {
				t.Errorf("noisy=%v comment=%v", m.Noisy, m.ProvenanceAsCellComment)
			}
		})
	}

	if _, err := LookupMode("Messy"); !errors.Is(err, errors.ErrCodeInvalidMode) {
		t.Errorf("LookupMode(Messy) err = %v, want INVALID_MODE", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Dataset: "staff", Input: "staff.ttl"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}
	if opts.Mode != DefaultMode {
		t.Errorf("Mode should be %s, got %s", DefaultMode, opts.Mode)
	}
	if opts.NumberOfWorkbooks != DefaultNumberOfWorkbooks {
		t.Errorf("NumberOfWorkbooks should be %d, got %d", DefaultNumberOfWorkbooks, opts.NumberOfWorkbooks)
	}
	if opts.Locale != DefaultLocale {
		t.Errorf("Locale should be %s, got %s", DefaultLocale, opts.Locale)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discarding logger")
	}
	if got := len(opts.Artifacts()); got != 4 {
		t.Errorf("all four artifacts should be on by default, got %d", got)
	}

	custom := Options{Dataset: "staff", Input: "staff.ttl", Patterns: &patterns.Toggles{OutdatedIsFormatted: true}}
	if err := custom.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if custom.Mode != ModeCustom || !custom.ResolvedMode().Noisy {
		t.Errorf("custom mode = %+v", custom.ResolvedMode())
	}

	comment := Options{Dataset: "staff", Input: "staff.ttl", Mode: ModeAllProvenanceAsCellComment}
	if err := comment.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if !comment.ProvenanceAsCellComment {
		t.Error("All_ProvenanceAsCellComment should enable cell comments")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing dataset", Options{Input: "a.ttl"}, errors.ErrCodeInvalidInput},
		{"bad dataset", Options{Dataset: "../x", Input: "a.ttl"}, errors.ErrCodeInvalidInput},
		{"no source", Options{Dataset: "a"}, errors.ErrCodeInvalidInput},
		{"two sources", Options{Dataset: "a", Input: "a.ttl", URL: "https://x/a.ttl"}, errors.ErrCodeInvalidInput},
		{"unknown mode", Options{Dataset: "a", Input: "a.ttl", Mode: "Messy"}, errors.ErrCodeInvalidMode},
		{"locale", Options{Dataset: "a", Input: "a.ttl", Locale: "fr"}, errors.ErrCodeUnsupportedLocale},
		{"workbooks", Options{Dataset: "a", Input: "a.ttl", NumberOfWorkbooks: -1}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestArchiveKeyOpts(t *testing.T) {
	keyer := cache.NewDefaultKeyer()
	key := func(o Options) string {
		if err := o.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
		return keyer.ArchiveKey("hash", o.ArchiveKeyOpts())
	}
	base := Options{Dataset: "a", Input: "a.ttl"}
	same := Options{Dataset: "a", Input: "a.ttl", Mode: ModeAll}
	if key(base) != key(same) {
		t.Error("default mode should key like All")
	}
	for name, o := range map[string]Options{
		"mode":      {Dataset: "a", Input: "a.ttl", Mode: ModeClean},
		"seed":      {Dataset: "a", Input: "a.ttl", Seed: 7},
		"locale":    {Dataset: "a", Input: "a.ttl", Locale: "de"},
		"artifacts": {Dataset: "a", Input: "a.ttl", SkipProvenanceCSV: true},
	} {
		if key(o) == key(base) {
			t.Errorf("%s should change the archive key", name)
		}
	}
}

func TestExecute(t *testing.T) {
	dir := t.TempDir()
	input := writeGraph(t, dir)
	st, err := store.NewFileStore(filepath.Join(dir, "runs"))
	if err != nil {
		t.Fatal(err)
	}

	r := NewRunner(nil, nil, nil)
	r.Store = st
	out := filepath.Join(dir, "out")
	res, err := r.Execute(context.Background(), Options{Dataset: "staff", Input: input, Seed: 3}, out)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Summary.Dataset != "staff" || res.Summary.Mode != ModeAll || res.Summary.Locale != "en" {
		t.Errorf("summary = %+v", res.Summary)
	}
	if res.Summary.Statements != res.Stats.Statements || res.Stats.Statements == 0 {
		t.Errorf("statements = %d", res.Summary.Statements)
	}
	if res.Stats.Tables == 0 || res.Stats.Cells == 0 || res.GraphHash == "" {
		t.Errorf("stats = %+v hash=%q", res.Stats, res.GraphHash)
	}
	if len(res.Workbooks) == 0 {
		t.Fatal("no workbooks written")
	}
	for _, name := range []string{workbook.WorkbookFile, workbook.ExpectedFile, workbook.ProvenanceFile,
		workbook.ProvenanceCSV, workbook.SummaryFile} {
		if _, err := os.Stat(filepath.Join(res.Workbooks[0].Folder, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}

	recs, err := st.List(context.Background(), store.Query{Dataset: "staff"})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].ID != res.RecordID {
		t.Errorf("stored records = %v, want one with id %s", recs, res.RecordID)
	}
}

func TestExecuteSkipsArtifacts(t *testing.T) {
	dir := t.TempDir()
	input := writeGraph(t, dir)
	out := filepath.Join(dir, "out")
	opts := Options{
		Dataset:             "staff",
		Input:               input,
		Mode:                ModeClean,
		SkipExpectedModel:   true,
		SkipProvenanceModel: true,
		SkipProvenanceCSV:   true,
		SkipSummary:         true,
	}
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts, out)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	entries, err := os.ReadDir(res.Workbooks[0].Folder)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != workbook.WorkbookFile {
		t.Errorf("folder holds %v, want only the workbook", entries)
	}
}

func TestExecuteDeterministic(t *testing.T) {
	dir := t.TempDir()
	input := writeGraph(t, dir)
	run := func() []string {
		res, err := NewRunner(nil, nil, nil).Execute(context.Background(),
			Options{Dataset: "staff", Input: input, Seed: 11, SkipSummary: true}, t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		var out []string
		for _, tbl := range res.Tables {
			out = append(out, tbl.String())
		}
		return out
	}
	if a, b := run(), run(); fmt.Sprint(a) != fmt.Sprint(b) {
		t.Error("same seed should render the same tables")
	}
}

func TestArchive(t *testing.T) {
	dir := t.TempDir()
	input := writeGraph(t, dir)
	c, err := cache.NewFileCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	opts := Options{Dataset: "staff", Input: input, NumberOfWorkbooks: 2}

	data, hit, err := r.Archive(context.Background(), opts)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if hit {
		t.Error("first archive should miss the cache")
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip: %v", err)
	}
	var workbooks int
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, workbook.WorkbookFile) {
			workbooks++
		}
		if strings.Contains(f.Name, `\`) || filepath.IsAbs(f.Name) {
			t.Errorf("bad entry name %q", f.Name)
		}
	}
	if workbooks == 0 {
		t.Error("archive holds no workbook")
	}

	again, hit, err := r.Archive(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !hit || !bytes.Equal(again, data) {
		t.Error("second archive should come from the cache")
	}

	opts.Refresh = true
	if _, hit, err := r.Archive(context.Background(), opts); err != nil || hit {
		t.Errorf("refresh should bypass the cache: hit=%v err=%v", hit, err)
	}
}

func TestImportMissingFile(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(),
		Options{Dataset: "staff", Input: filepath.Join(t.TempDir(), "missing.ttl")}, t.TempDir())
	if err == nil {
		t.Fatal("missing input should fail")
	}
}

func TestLoadBatch(t *testing.T) {
	dir := t.TempDir()
	writeGraph(t, dir)
	path := filepath.Join(dir, "batch.toml")
	content := `output = "` + filepath.ToSlash(filepath.Join(dir, "gen")) + `"
seed = 5
modes = ["Clean", "All"]
concurrency = 2

[artifacts]
provenance_csv = false

[[dataset]]
name = "staff"
path = "staff.ttl"

[[dataset]]
name = "staff2"
path = "staff.ttl"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := LoadBatch(path)
	if err != nil {
		t.Fatalf("LoadBatch: %v", err)
	}
	if got := b.Datasets[0].Path; got != filepath.Join(dir, "staff.ttl") {
		t.Errorf("relative path resolved to %s", got)
	}
	opts := b.Options(b.Datasets[0], ModeAll)
	if !opts.SkipProvenanceCSV || opts.SkipSummary || opts.Seed != 5 {
		t.Errorf("options = %+v", opts)
	}

	results, err := NewRunner(nil, nil, nil).RunBatch(context.Background(), b)
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	for _, ds := range []string{"staff", "staff2"} {
		for _, mode := range []string{"Clean", "All"} {
			if _, err := os.Stat(filepath.Join(dir, "gen", ds, mode, workbook.WorkbookFile)); err != nil {
				t.Errorf("%s/%s: %v", ds, mode, err)
			}
		}
	}
	if results[0].Summary.Mode != ModeClean || results[1].Summary.Mode != ModeAll {
		t.Error("results should be ordered by dataset, then mode")
	}
}

func TestLoadBatchErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"unknown key", "colour = 1\n[[dataset]]\nname = \"a\"\npath = \"a.ttl\"\n", errors.ErrCodeInvalidInput},
		{"no datasets", "seed = 1\n", errors.ErrCodeInvalidInput},
		{"both sources", "[[dataset]]\nname = \"a\"\npath = \"a.ttl\"\nurl = \"https://x/a.ttl\"\n", errors.ErrCodeInvalidInput},
		{"unknown mode", "modes = [\"Messy\"]\n[[dataset]]\nname = \"a\"\npath = \"a.ttl\"\n", errors.ErrCodeInvalidMode},
		{"syntax", "seed = \n", errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "batch.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadBatch(path); !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}

	if _, err := LoadBatch(filepath.Join(t.TempDir(), "none.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnImportComplete(context.Context, string, int, time.Duration, error) {
	h.add("import")
}

func (h *recordingHooks) OnGenerateComplete(_ context.Context, _, mode string, _ int, _ time.Duration, _ error) {
	h.add("generate:" + mode)
}

func (h *recordingHooks) OnWorkbookComplete(context.Context, string, int, time.Duration, error) {
	h.add("workbook")
}

func TestPipelineHooks(t *testing.T) {
	defer observability.Reset()
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)

	dir := t.TempDir()
	input := writeGraph(t, dir)
	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(),
		Options{Dataset: "staff", Input: input, Mode: ModeClean}, filepath.Join(dir, "out")); err != nil {
		t.Fatal(err)
	}
	want := []string{"import", "generate:Clean", "workbook"}
	if fmt.Sprint(h.events) != fmt.Sprint(want) {
		t.Errorf("events = %v, want %v", h.events, want)
	}
}
