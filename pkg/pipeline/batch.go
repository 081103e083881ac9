package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/table"
)

// DefaultBatchOutput is the folder batch results are written to.
const DefaultBatchOutput = "gen"

// Batch describes a multi-dataset, multi-mode generation run, read from
// TOML:
//
//	output = "gen"
//	seed = 0
//	modes = ["Clean", "All"]
//
//	[artifacts]
//	provenance_csv = false
//
//	[[dataset]]
//	name = "BSBM"
//	path = "dataset/BSBM.ttl"
type Batch struct {
	Output            string    `toml:"output"`
	Seed              uint64    `toml:"seed"`
	NumberOfWorkbooks int       `toml:"number_of_workbooks"`
	Locale            string    `toml:"locale"`
	Modes             []string  `toml:"modes"`
	Concurrency       int       `toml:"concurrency"`
	Artifacts         Artifacts `toml:"artifacts"`
	Datasets          []Dataset `toml:"dataset"`
}

// Artifacts toggles the optional files. Unset toggles are on.
type Artifacts struct {
	ExpectedModel   *bool `toml:"expected_model"`
	ProvenanceModel *bool `toml:"provenance_model"`
	ProvenanceCSV   *bool `toml:"provenance_csv"`
	Summary         *bool `toml:"summary"`
}

// Dataset is one knowledge graph of a batch. Exactly one of Path and URL
// is set; a relative path is resolved against the batch file.
type Dataset struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
	URL  string `toml:"url"`
}

// LoadBatch reads and validates a batch file. Unknown keys are rejected.
func LoadBatch(path string) (*Batch, error) {
	var b Batch
	md, err := toml.DecodeFile(path, &b)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "batch file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse batch file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	base := filepath.Dir(path)
	for i := range b.Datasets {
		if p := b.Datasets[i].Path; p != "" && !filepath.IsAbs(p) {
			b.Datasets[i].Path = filepath.Join(base, p)
		}
	}
	if err := b.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &b, nil
}

// ValidateAndSetDefaults checks the datasets and modes and fills in the
// output folder, the modes and the concurrency.
func (b *Batch) ValidateAndSetDefaults() error {
	if len(b.Datasets) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "batch has no datasets")
	}
	seen := make(map[string]bool, len(b.Datasets))
	for _, ds := range b.Datasets {
		if err := errors.ValidateDatasetName(ds.Name); err != nil {
			return err
		}
		if seen[ds.Name] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate dataset %q", ds.Name)
		}
		seen[ds.Name] = true
		if (ds.Path == "") == (ds.URL == "") {
			return errors.New(errors.ErrCodeInvalidInput, "dataset %q needs exactly one of path and url", ds.Name)
		}
	}

	if b.Output == "" {
		b.Output = DefaultBatchOutput
	}
	if len(b.Modes) == 0 {
		b.Modes = ModeNames()
	}
	for _, m := range b.Modes {
		if _, err := LookupMode(m); err != nil {
			return err
		}
	}
	if b.Concurrency <= 0 {
		b.Concurrency = runtime.GOMAXPROCS(0)
	}
	return nil
}

// Options returns the options for one dataset and mode.
func (b *Batch) Options(ds Dataset, mode string) Options {
	return Options{
		Dataset:             ds.Name,
		Input:               ds.Path,
		URL:                 ds.URL,
		Mode:                mode,
		Seed:                b.Seed,
		NumberOfWorkbooks:   b.NumberOfWorkbooks,
		Locale:              b.Locale,
		SkipExpectedModel:   off(b.Artifacts.ExpectedModel),
		SkipProvenanceModel: off(b.Artifacts.ProvenanceModel),
		SkipProvenanceCSV:   off(b.Artifacts.ProvenanceCSV),
		SkipSummary:         off(b.Artifacts.Summary),
	}
}

func off(b *bool) bool { return b != nil && !*b }

// RunBatch generates every mode of every dataset into
// <output>/<dataset>/<mode>. Datasets run concurrently; the modes of one
// dataset run in order and share its cell ids. Results are ordered by
// dataset, then mode.
func (r *Runner) RunBatch(ctx context.Context, b *Batch) ([]*Result, error) {
	if err := b.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	results := make([]*Result, len(b.Datasets)*len(b.Modes))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.Concurrency)

	for i, ds := range b.Datasets {
		g.Go(func() error {
			logger := r.Logger.With("dataset", ds.Name)

			importOpts := b.Options(ds, b.Modes[0])
			importOpts.Logger = logger
			graph, err := r.Import(ctx, importOpts)
			if err != nil {
				return inContext(err, "dataset %s", ds.Name)
			}

			ids := table.NewIDCounter()
			for j, mode := range b.Modes {
				opts := b.Options(ds, mode)
				opts.Logger = logger
				res, err := r.Generate(ctx, graph, opts, ids)
				if err != nil {
					return inContext(err, "dataset %s mode %s", ds.Name, mode)
				}

				dst := filepath.Join(b.Output, ds.Name, mode)
				if err := os.RemoveAll(dst); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidPath, err, "clear %s", dst)
				}
				if err := r.Write(ctx, res, opts, dst); err != nil {
					return inContext(err, "dataset %s mode %s", ds.Name, mode)
				}
				results[i*len(b.Modes)+j] = res
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// inContext prefixes err with the dataset and mode, keeping its code.
func inContext(err error, format string, args ...any) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errors.Wrap(code, err, format, args...)
}
