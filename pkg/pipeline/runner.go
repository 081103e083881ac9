package pipeline

import (
	"bytes"
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/datasprout/pkg/cache"
	"github.com/matzehuels/datasprout/pkg/errors"
	pkgio "github.com/matzehuels/datasprout/pkg/io"
	"github.com/matzehuels/datasprout/pkg/kg"
	"github.com/matzehuels/datasprout/pkg/observability"
	"github.com/matzehuels/datasprout/pkg/patterns"
	"github.com/matzehuels/datasprout/pkg/store"
	"github.com/matzehuels/datasprout/pkg/table"
	"github.com/matzehuels/datasprout/pkg/workbook"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the batch runner and the server use it to avoid duplicating
// caching and bookkeeping logic.
//
// The Runner is stateless except for its backends - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Fetcher *pkgio.Fetcher
	Logger  *log.Logger

	// Store receives a summary record per run. Optional.
	Store store.Store
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	fetcher := pkgio.NewFetcher(c)
	fetcher.Keyer = keyer
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Fetcher: fetcher,
		Logger:  logger,
	}
}

// Execute runs the complete import → generate → workbook pipeline and
// writes the workbooks below dst.
func (r *Runner) Execute(ctx context.Context, opts Options, dst string) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	g, err := r.Import(ctx, opts)
	if err != nil {
		return nil, err
	}
	res, err := r.Generate(ctx, g, opts, table.NewIDCounter())
	if err != nil {
		return nil, err
	}
	res.GraphHash = graphHash(g)
	if err := r.Write(ctx, res, opts, dst); err != nil {
		return nil, err
	}
	return res, nil
}

// Import reads the graph named by opts.Input or downloads opts.URL.
func (r *Runner) Import(ctx context.Context, opts Options) (*kg.Graph, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForImport(); err != nil {
		return nil, err
	}

	source := opts.Source()
	observability.Pipeline().OnImportStart(ctx, source)
	start := time.Now()

	var g *kg.Graph
	var err error
	if opts.Input != "" {
		g, err = pkgio.ImportGraph(opts.Input)
	} else {
		if opts.Refresh {
			_ = r.Cache.Delete(ctx, r.Keyer.HTTPKey("graph", opts.URL))
		}
		g, err = r.Fetcher.Fetch(ctx, opts.URL)
	}

	statements := 0
	if g != nil {
		statements = g.Len()
	}
	observability.Pipeline().OnImportComplete(ctx, source, statements, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("loaded graph",
		"dataset", opts.Dataset,
		"statements", statements,
		"duration", time.Since(start))
	return g, nil
}

// Generate derives setups for g and renders them into tables. ids is
// shared by every run over the same dataset so cell ids stay unique.
func (r *Runner) Generate(ctx context.Context, g *kg.Graph, opts Options, ids *table.IDCounter) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	observability.Pipeline().OnGenerateStart(ctx, opts.Dataset, opts.Mode)
	start := time.Now()
	res, err := r.generate(g, opts, ids)
	tables := 0
	if res != nil {
		tables = len(res.Tables)
	}
	observability.Pipeline().OnGenerateComplete(ctx, opts.Dataset, opts.Mode, tables, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	res.Stats.GenerateTime = time.Since(start)
	r.Logger.Info("generated tables",
		"mode", opts.Mode,
		"setups", res.Stats.Setups,
		"tables", res.Stats.Tables,
		"duration", res.Stats.GenerateTime)
	if res.ColorCodes != "" {
		r.Logger.Debug("property value colors", "codes", res.ColorCodes)
	}
	return res, nil
}

func (r *Runner) generate(g *kg.Graph, opts Options, ids *table.IDCounter) (*Result, error) {
	formats, err := opts.Formats()
	if err != nil {
		return nil, err
	}
	schema := kg.Analyze(g)

	gen := patterns.New(opts.mode.Toggles, formats)
	gen.Logger = opts.Logger
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef))
	setups, err := gen.Generate(schema, opts.NumberOfWorkbooks, rng)
	if err != nil {
		return nil, err
	}

	tg := table.NewGenerator(schema, kg.DefaultConverters())
	defer tg.Close()
	tg.Logger = opts.Logger
	first := ids.Peek()
	tables, err := tg.GenerateAll(setups, ids)
	if err != nil {
		return nil, err
	}

	return &Result{
		Summary: workbook.Summary{
			Dataset:           opts.Dataset,
			Statements:        g.Len(),
			Mode:              opts.Mode,
			Date:              time.Now().Format(time.DateOnly),
			NumberOfWorkbooks: opts.NumberOfWorkbooks,
			RandomSeed:        opts.Seed,
			Locale:            formats.Locale.String(),
			Tables:            len(tables),
		},
		Tables:     tables,
		ColorCodes: gen.ColorCodes(),
		Stats: Stats{
			Statements: g.Len(),
			Setups:     len(setups),
			Tables:     len(tables),
			Cells:      ids.Peek() - first,
		},
	}, nil
}

// Write clusters res.Tables into workbooks below dst. A configured store
// receives the summary afterwards; a failing store is logged, not fatal.
func (r *Runner) Write(ctx context.Context, res *Result, opts Options, dst string) error {
	r.applyLogger(&opts)
	if err := opts.ValidateForGenerate(); err != nil {
		return err
	}
	if err := r.writeWorkbooks(ctx, res, opts, dst); err != nil {
		return err
	}
	r.record(ctx, res, "", "")
	return nil
}

func (r *Runner) writeWorkbooks(ctx context.Context, res *Result, opts Options, dst string) error {
	observability.Pipeline().OnWorkbookStart(ctx, opts.Dataset, len(res.Tables))
	start := time.Now()

	creator := workbook.NewCreator()
	creator.Logger = opts.Logger
	results, err := creator.Create(ctx, dst, res.Tables, opts.WorkbookOptions(res.Summary))
	observability.Pipeline().OnWorkbookComplete(ctx, opts.Dataset, len(results), time.Since(start), err)
	if err != nil {
		return err
	}

	res.Workbooks = results
	res.Stats.WorkbookTime = time.Since(start)
	r.Logger.Info("wrote workbooks",
		"folder", dst,
		"workbooks", len(results),
		"duration", res.Stats.WorkbookTime)
	return nil
}

// Archive runs the pipeline into a temporary folder and returns it as a
// zip archive. Archives are cached by graph hash and options; the bool
// reports a cache hit.
func (r *Runner) Archive(ctx context.Context, opts Options) ([]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	g, err := r.Import(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	hash := graphHash(g)
	key := r.Keyer.ArchiveKey(hash, opts.ArchiveKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "archive")
			r.Logger.Debug("archive cache hit", "dataset", opts.Dataset, "mode", opts.Mode)
			return data, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "archive")

	dir, err := os.MkdirTemp("", "datasprout-*")
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "create temp dir")
	}
	defer os.RemoveAll(dir)

	res, err := r.Generate(ctx, g, opts, table.NewIDCounter())
	if err != nil {
		return nil, false, err
	}
	res.GraphHash = hash
	if err := r.writeWorkbooks(ctx, res, opts, dir); err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := ZipDir(&buf, dir); err != nil {
		return nil, false, err
	}
	data := buf.Bytes()

	if err := r.Cache.Set(ctx, key, data, cache.TTLArchive); err == nil {
		observability.Cache().OnCacheSet(ctx, "archive", len(data))
	} else {
		r.Logger.Warn("caching archive failed", "err", err)
	}
	r.record(ctx, res, key, dir)
	return data, false, nil
}

// record saves the run summary in the store, if any. Folders below base
// are stored relative to it.
func (r *Runner) record(ctx context.Context, res *Result, archiveKey, base string) {
	if r.Store == nil {
		return
	}
	rec := store.NewRecord(res.Summary)
	rec.ArchiveKey = archiveKey
	for _, w := range res.Workbooks {
		folder := w.Folder
		if base != "" {
			if rel, err := filepath.Rel(base, folder); err == nil {
				folder = filepath.ToSlash(rel)
			}
		}
		rec.Folders = append(rec.Folders, folder)
	}
	if err := r.Store.Save(ctx, rec); err != nil {
		r.Logger.Warn("saving run summary failed", "err", err)
		return
	}
	res.RecordID = rec.ID
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var err error
	if r.Store != nil {
		err = r.Store.Close()
	}
	if r.Cache != nil {
		if cerr := r.Cache.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// graphHash hashes the N-Triples serialization of g.
func graphHash(g *kg.Graph) string {
	var buf bytes.Buffer
	if err := pkgio.WriteGraph(&buf, g, pkgio.FormatNTriples); err != nil {
		return ""
	}
	return cache.Hash(buf.Bytes())
}
