package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/store"
)

// runsCommand creates the runs command.
func (c *CLI) runsCommand() *cobra.Command {
	var (
		q        store.Query
		mongoURI string
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded generation runs",
		Example: `  datasprout runs --dataset GL --limit 5
  datasprout runs --mongo-uri mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd, mongoURI)
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No runs recorded")
				return nil
			}
			fmt.Println(renderTable([]string{"ID", "Dataset", "Mode", "Date", "Seed", "Workbooks", "Tables"}, runRows(recs)))
			return nil
		},
	}

	cmd.AddCommand(c.runsShowCommand())
	cmd.Flags().StringVar(&q.Dataset, "dataset", "", "only runs of this dataset")
	cmd.Flags().StringVar(&q.Mode, "mode", "", "only runs in this mode")
	cmd.Flags().IntVar(&q.Limit, "limit", store.DefaultListLimit, "maximum number of runs")
	cmd.PersistentFlags().StringVar(&mongoURI, "mongo-uri", "", "read runs from MongoDB instead of the local store")
	return cmd
}

// runsShowCommand creates the "runs show" subcommand.
func (c *CLI) runsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uri, _ := cmd.Flags().GetString("mongo-uri")
			st, err := openStore(cmd, uri)
			if err != nil {
				return err
			}
			defer st.Close()
			return showRun(cmd, st, args[0])
		},
	}
}

// openStore opens the MongoDB store at uri, or the local store when uri is
// empty.
func openStore(cmd *cobra.Command, uri string) (store.Store, error) {
	if uri != "" {
		return store.NewMongoStore(cmd.Context(), uri)
	}
	return store.NewFileStore("")
}

func showRun(cmd *cobra.Command, st store.Store, id string) error {
	rec, err := st.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.New(errors.ErrCodeNotFound, "run %s not found", id)
	}

	s := rec.Summary
	printKeyValue("ID", rec.ID)
	printKeyValue("Dataset", s.Dataset)
	printKeyValue("Mode", s.Mode)
	printKeyValue("Date", s.Date)
	printKeyValue("Seed", strconv.FormatUint(s.RandomSeed, 10))
	printKeyValue("Locale", s.Locale)
	printKeyValue("Statements", strconv.Itoa(s.Statements))
	printKeyValue("Tables", strconv.Itoa(s.Tables))
	printKeyValue("Workbooks", strconv.Itoa(s.NumberOfWorkbooks))
	if rec.ArchiveKey != "" {
		printKeyValue("Archive", rec.ArchiveKey)
	}
	for _, f := range rec.Folders {
		printFile(f)
	}
	return nil
}

func runRows(recs []*store.Record) [][]string {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = []string{
			r.ID,
			r.Summary.Dataset,
			r.Summary.Mode,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			strconv.FormatUint(r.Summary.RandomSeed, 10),
			strconv.Itoa(r.Summary.NumberOfWorkbooks),
			strconv.Itoa(r.Summary.Tables),
		}
	}
	return rows
}
