package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/patterns"
	"github.com/matzehuels/datasprout/pkg/pipeline"
)

// generateFlags holds flags for the generate command.
type generateFlags struct {
	dataset   string
	url       string
	mode      string
	patterns  []string
	pick      bool
	seed      uint64
	workbooks int
	locale    string
	output    string
	zip       string
	refresh   bool
	noCache   bool

	noExpected      bool
	noProvenance    bool
	noProvenanceCSV bool
	noSummary       bool
	cellComments    bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	flags := generateFlags{
		seed:      pipeline.DefaultSeed,
		workbooks: pipeline.DefaultNumberOfWorkbooks,
		locale:    pipeline.DefaultLocale,
		output:    pipeline.DefaultBatchOutput,
	}

	cmd := &cobra.Command{
		Use:   "generate [graph-file]",
		Short: "Render a knowledge graph into messy workbooks",
		Long: `Render a knowledge graph into messy spreadsheet workbooks.

The graph is read from a Turtle or N-Triples file (optionally gzipped) or
downloaded with --url. Workbooks are written to <output>/<dataset>/<mode>/.

Modes:
  ` + strings.Join(pipeline.ModeNames(), "\n  "),
		Example: `  # Every pattern, three replicas
  datasprout generate gl.ttl -n 3

  # Only acronyms, fixed seed
  datasprout generate gl.ttl --patterns AcronymsOrSymbols --seed 7

  # Pick patterns interactively and write a zip archive
  datasprout generate gl.ttl --pick --zip gl.zip`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return c.runGenerate(cmd.Context(), args[0], flags)
			}
			return c.runGenerate(cmd.Context(), "", flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.dataset, "dataset", "", "dataset name (default: graph file name)")
	f.StringVar(&flags.url, "url", "", "download the graph from a URL")
	f.StringVarP(&flags.mode, "mode", "m", "", "generation mode (default: "+pipeline.DefaultMode+")")
	f.StringSliceVarP(&flags.patterns, "patterns", "p", nil, "enable only these patterns: "+strings.Join(patterns.Names, ","))
	f.BoolVar(&flags.pick, "pick", false, "choose patterns interactively")
	f.Uint64Var(&flags.seed, "seed", flags.seed, "random seed")
	f.IntVarP(&flags.workbooks, "workbooks", "n", flags.workbooks, "number of workbook replicas")
	f.StringVar(&flags.locale, "locale", flags.locale, "locale of numbers, dates and booleans")
	f.StringVarP(&flags.output, "output", "o", flags.output, "output folder")
	f.StringVar(&flags.zip, "zip", "", "write a zip archive to this path instead of folders")
	f.BoolVar(&flags.refresh, "refresh", false, "bypass cached downloads and archives")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&flags.noExpected, "no-expected", false, "skip the expected graph")
	f.BoolVar(&flags.noProvenance, "no-provenance", false, "skip the provenance graph")
	f.BoolVar(&flags.noProvenanceCSV, "no-provenance-csv", false, "skip the provenance table")
	f.BoolVar(&flags.noSummary, "no-summary", false, "skip summary.json")
	f.BoolVar(&flags.cellComments, "provenance-comments", false, "attach provenance to cells as comments")

	_ = cmd.RegisterFlagCompletionFunc("mode", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return pipeline.ModeNames(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("patterns", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return patterns.Names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// options turns the flags into pipeline options.
func (f generateFlags) options(input string) (pipeline.Options, error) {
	opts := pipeline.Options{
		Dataset:                 f.dataset,
		Input:                   input,
		URL:                     f.url,
		Refresh:                 f.refresh,
		Mode:                    f.mode,
		Seed:                    f.seed,
		NumberOfWorkbooks:       f.workbooks,
		Locale:                  f.locale,
		SkipExpectedModel:       f.noExpected,
		SkipProvenanceModel:     f.noProvenance,
		SkipProvenanceCSV:       f.noProvenanceCSV,
		SkipSummary:             f.noSummary,
		ProvenanceAsCellComment: f.cellComments,
	}
	if opts.Dataset == "" {
		opts.Dataset = datasetName(input, f.url)
	}

	if len(f.patterns) > 0 || f.pick {
		var t patterns.Toggles
		for _, n := range f.patterns {
			if err := t.Set(strings.TrimSpace(n), true); err != nil {
				return opts, err
			}
		}
		if f.pick {
			if len(f.patterns) == 0 {
				t = patterns.AllToggles()
			}
			picked, err := pickPatterns(t)
			if err != nil {
				return opts, err
			}
			t = picked
		}
		opts.Patterns = &t
	}
	return opts, nil
}

func (c *CLI) runGenerate(ctx context.Context, input string, flags generateFlags) error {
	opts, err := flags.options(input)
	if err != nil {
		return err
	}
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if flags.zip != "" {
		return c.runGenerateZip(ctx, runner, opts, flags.zip)
	}

	dst := filepath.Join(flags.output, opts.Dataset, opts.ResolvedMode().Name)
	if err := os.RemoveAll(dst); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "clear %s", dst)
	}

	spinner := newSpinner(ctx, "Generating "+opts.Dataset+" ("+opts.ResolvedMode().Name+")...")
	spinner.Start()
	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, opts, dst)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()
	prog.done("generation finished", "graph", res.GraphHash)

	if res.Stats.Tables == 0 {
		printWarning("No tables generated, the graph has no typed instances")
		return nil
	}
	printSuccess("Generated %s", StyleHighlight.Render(opts.Dataset))
	printStats(res.Stats.Tables, res.Stats.Cells, false)
	for _, w := range res.Workbooks {
		printFile(w.Folder)
	}
	if res.ColorCodes != "" {
		printDetail("Colors: %s", res.ColorCodes)
	}
	if res.RecordID != "" {
		printNextStep("Inspect the run", "datasprout runs show "+res.RecordID)
	}
	return nil
}

func (c *CLI) runGenerateZip(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, path string) error {
	spinner := newSpinner(ctx, "Building archive for "+opts.Dataset+"...")
	spinner.Start()
	data, hit, err := runner.Archive(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}

	printSuccess("Wrote archive")
	printStats(0, 0, hit)
	printFile(path)
	return nil
}

// datasetName derives a dataset name from the graph location: the file
// name without extensions.
func datasetName(input, url string) string {
	src := input
	if src == "" {
		src = url
		if i := strings.IndexAny(src, "?#"); i >= 0 {
			src = src[:i]
		}
	}
	base := filepath.Base(strings.TrimRight(src, "/"))
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}
