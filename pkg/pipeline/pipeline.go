// Package pipeline provides the generation pipeline for DataSprout.
//
// This package implements the complete import → generate → workbook pipeline
// shared by the CLI, the batch runner and the HTTP server, so every entry
// point derives setups, tables and artifacts the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Import: Read a knowledge graph from a file or download it
//  2. Generate: Derive pattern setups and render them into tables
//  3. Workbook: Cluster the tables and write workbooks and artifacts
//
// A [Mode] selects which patterns are active. The stock modes are Clean,
// one SinglePattern_ mode per pattern, All and All_ProvenanceAsCellComment.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Dataset: "bsbm",
//	    Input:   "dataset/BSBM.ttl",
//	    Mode:    pipeline.ModeAll,
//	}
//	result, err := runner.Execute(ctx, opts, "gen/bsbm/All")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Produce a zip archive instead of a folder (cached by graph hash and
// options):
//
//	data, hit, err := runner.Archive(ctx, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/datasprout/pkg/cache"
	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/patterns"
	"github.com/matzehuels/datasprout/pkg/table"
	"github.com/matzehuels/datasprout/pkg/workbook"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Batch, and Server
// =============================================================================

const (
	// DefaultNumberOfWorkbooks is how many replicas of every table are
	// generated.
	DefaultNumberOfWorkbooks = 1

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(0)

	// DefaultLocale is the locale of number, date and boolean renderings.
	DefaultLocale = "en"

	// DefaultMode enables every pattern.
	DefaultMode = ModeAll

	// MaxNumberOfWorkbooks bounds a single run.
	MaxNumberOfWorkbooks = 1000
)

// Artifact names used in cache keys and CLI flags.
const (
	ArtifactExpected         = "expected"
	ArtifactProvenance       = "provenance"
	ArtifactProvenanceCSV    = "provenance-csv"
	ArtifactSummary          = "summary"
	ArtifactProvenanceInCell = "provenance-comment"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one generation run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Import options
	Dataset string `json:"dataset"`
	Input   string `json:"input,omitempty"` // local Turtle or N-Triples file, optionally gzipped
	URL     string `json:"url,omitempty"`   // remote graph
	Refresh bool   `json:"refresh,omitempty"`

	// Generate options
	Mode              string            `json:"mode,omitempty"`
	Patterns          *patterns.Toggles `json:"patterns,omitempty"` // explicit toggles instead of the mode's
	Seed              uint64            `json:"seed"`
	NumberOfWorkbooks int               `json:"number_of_workbooks,omitempty"`
	Locale            string            `json:"locale,omitempty"`

	// Workbook options (default: every artifact is written)
	SkipExpectedModel       bool `json:"skip_expected_model,omitempty"`
	SkipProvenanceModel     bool `json:"skip_provenance_model,omitempty"`
	SkipProvenanceCSV       bool `json:"skip_provenance_csv,omitempty"`
	SkipSummary             bool `json:"skip_summary,omitempty"`
	ProvenanceAsCellComment bool `json:"provenance_as_cell_comment,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	mode Mode

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Summary holds the run fields written to summary.json.
	Summary workbook.Summary

	// GraphHash is the content hash of the imported graph.
	GraphHash string

	// Tables are the rendered tables of every replica.
	Tables []*table.Table

	// Workbooks describes the written folders.
	Workbooks []workbook.Result

	// ColorCodes reports the property-value colors that were chosen.
	ColorCodes string

	// RecordID is the id of the stored summary, if a store is configured.
	RecordID string

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Statements   int
	Setups       int
	Tables       int
	Cells        int
	ImportTime   time.Duration
	GenerateTime time.Duration
	WorkbookTime time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForImport(); err != nil {
		return err
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForImport checks the dataset name and graph source.
func (o *Options) ValidateForImport() error {
	if err := errors.ValidateDatasetName(o.Dataset); err != nil {
		return err
	}
	if o.Input == "" && o.URL == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input or url is required")
	}
	if o.Input != "" && o.URL != "" {
		return errors.New(errors.ErrCodeInvalidInput, "input and url are mutually exclusive")
	}
	if o.URL != "" {
		if err := errors.ValidateURL(o.URL); err != nil {
			return err
		}
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForGenerate resolves the mode and applies generation defaults.
func (o *Options) ValidateForGenerate() error {
	if o.NumberOfWorkbooks == 0 {
		o.NumberOfWorkbooks = DefaultNumberOfWorkbooks
	}
	if o.NumberOfWorkbooks < 0 || o.NumberOfWorkbooks > MaxNumberOfWorkbooks {
		return errors.New(errors.ErrCodeInvalidInput,
			"number of workbooks must be between 1 and %d, got %d", MaxNumberOfWorkbooks, o.NumberOfWorkbooks)
	}
	if o.Locale == "" {
		o.Locale = DefaultLocale
	}
	if _, err := patterns.ParseLocale(o.Locale); err != nil {
		return err
	}

	if o.Patterns != nil {
		if o.Mode == "" {
			o.Mode = ModeCustom
		}
		o.mode = CustomMode(o.Mode, *o.Patterns)
	} else {
		if o.Mode == "" {
			o.Mode = DefaultMode
		}
		m, err := LookupMode(o.Mode)
		if err != nil {
			return err
		}
		o.mode = m
	}
	if o.mode.ProvenanceAsCellComment {
		o.ProvenanceAsCellComment = true
	}
	o.setLoggerDefault()
	return nil
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ResolvedMode returns the mode selected by ValidateForGenerate.
func (o *Options) ResolvedMode() Mode { return o.mode }

// Source returns the graph location, the input path or the URL.
func (o *Options) Source() string {
	if o.Input != "" {
		return o.Input
	}
	return o.URL
}

// Formats returns the option pools for the run: the locale defaults, the
// common label properties, and the noisy symbols unless the mode is clean.
func (o *Options) Formats() (*patterns.Formats, error) {
	f, err := patterns.NewFormats(o.Locale)
	if err != nil {
		return nil, err
	}
	f.AddDefaultProperties()
	if o.mode.Noisy {
		f.AddNoisySymbols()
	}
	return f, nil
}

// WorkbookOptions returns the artifact toggles for the workbook stage.
func (o *Options) WorkbookOptions(summary workbook.Summary) workbook.Options {
	return workbook.Options{
		WriteExpectedModel:      !o.SkipExpectedModel,
		WriteProvenanceModel:    !o.SkipProvenanceModel,
		WriteProvenanceCSV:      !o.SkipProvenanceCSV,
		WriteSummary:            !o.SkipSummary,
		ProvenanceAsCellComment: o.ProvenanceAsCellComment,
		Seed:                    o.Seed,
		Summary:                 summary,
	}
}

// Artifacts returns the names of the enabled artifacts in a fixed order.
func (o *Options) Artifacts() []string {
	var out []string
	if !o.SkipExpectedModel {
		out = append(out, ArtifactExpected)
	}
	if !o.SkipProvenanceModel {
		out = append(out, ArtifactProvenance)
	}
	if !o.SkipProvenanceCSV {
		out = append(out, ArtifactProvenanceCSV)
	}
	if !o.SkipSummary {
		out = append(out, ArtifactSummary)
	}
	if o.ProvenanceAsCellComment {
		out = append(out, ArtifactProvenanceInCell)
	}
	return out
}

// ArchiveKeyOpts returns cache key options for archive generation.
func (o *Options) ArchiveKeyOpts() cache.ArchiveKeyOpts {
	toggles := make(map[string]bool, len(patterns.Names))
	for _, n := range patterns.Names {
		toggles[n] = o.mode.Toggles.Get(n)
	}
	return cache.ArchiveKeyOpts{
		Mode:              o.Mode,
		Seed:              int64(o.Seed),
		NumberOfWorkbooks: o.NumberOfWorkbooks,
		Locale:            o.Locale,
		Patterns:          toggles,
		Artifacts:         o.Artifacts(),
	}
}
