package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/datasprout/pkg/pipeline"
)

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		output      string
		concurrency int
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "batch <batch.toml>",
		Short: "Generate several datasets and modes from a batch file",
		Long: `Generate several datasets in several modes as described by a TOML batch file.

Each dataset is imported once and rendered in every listed mode. Results are
written to <output>/<dataset>/<mode>/.`,
		Example: `  datasprout batch datasets.toml
  datasprout batch datasets.toml --output /tmp/gen --concurrency 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := pipeline.LoadBatch(args[0])
			if err != nil {
				return err
			}
			if output != "" {
				b.Output = output
			}
			if concurrency > 0 {
				b.Concurrency = concurrency
			}
			if err := b.ValidateAndSetDefaults(); err != nil {
				return err
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			runs := len(b.Datasets) * len(b.Modes)
			spinner := newSpinner(cmd.Context(), fmt.Sprintf("Generating %d runs...", runs))
			spinner.Start()
			prog := newProgress(c.Logger)
			results, err := runner.RunBatch(cmd.Context(), b)
			if err != nil {
				spinner.StopWithError("Batch failed")
				return err
			}
			spinner.Stop()
			prog.done("batch finished", "runs", runs)

			printSuccess("Generated %s runs into %s", StyleNumber.Render(strconv.Itoa(runs)), StyleHighlight.Render(b.Output))
			fmt.Println(renderTable([]string{"Dataset", "Mode", "Tables", "Cells", "Workbooks"}, batchRows(results)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output folder (overrides the batch file)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "datasets generated in parallel (overrides the batch file)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func batchRows(results []*pipeline.Result) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Summary.Dataset,
			r.Summary.Mode,
			strconv.Itoa(r.Stats.Tables),
			strconv.Itoa(r.Stats.Cells),
			strconv.Itoa(len(r.Workbooks)),
		})
	}
	return rows
}
