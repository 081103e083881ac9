package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/kg"
	"github.com/matzehuels/datasprout/pkg/pipeline"
	"github.com/matzehuels/datasprout/pkg/render/schema"
)

// schemaCommand creates the schema command.
func (c *CLI) schemaCommand() *cobra.Command {
	var (
		url      string
		dot      string
		svg      string
		detailed bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "schema [graph-file]",
		Short: "Show the classes and properties of a knowledge graph",
		Long: `Analyze a knowledge graph and list its classes with their instances and
properties, and every property with its ranges. With --dot or --svg the class diagram is written as Graphviz DOT or
rendered SVG.`,
		Example: `  datasprout schema gl.ttl
  datasprout schema gl.ttl --svg gl.svg --detailed`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			opts := pipeline.Options{Dataset: datasetName(input, url), Input: input, URL: url}
			opts.Logger = c.Logger
			if err := opts.ValidateForImport(); err != nil {
				return err
			}
			s, err := c.analyze(cmd.Context(), opts, noCache)
			if err != nil {
				return err
			}

			fmt.Println(renderTable([]string{"Class", "Instances", "Properties"}, schemaRows(s)))
			fmt.Println(renderTable([]string{"Property", "Ranges"}, rangeRows(s)))

			if dot == "" && svg == "" {
				return nil
			}
			src := schema.ToDOT(s, schema.Options{Detailed: detailed})
			if dot != "" {
				if err := os.WriteFile(dot, []byte(src), 0o644); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", dot)
				}
				printFile(dot)
			}
			if svg != "" {
				data, err := schema.RenderSVG(src)
				if err != nil {
					return err
				}
				if err := os.WriteFile(svg, data, 0o644); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", svg)
				}
				printFile(svg)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "download the graph from a URL")
	cmd.Flags().StringVar(&dot, "dot", "", "write the class diagram as DOT")
	cmd.Flags().StringVar(&svg, "svg", "", "write the class diagram as SVG")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "list literal properties in the diagram")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) analyze(ctx context.Context, opts pipeline.Options, noCache bool) (*kg.Schema, error) {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	g, err := runner.Import(ctx, opts)
	if err != nil {
		return nil, err
	}
	return kg.Analyze(g), nil
}

func schemaRows(s *kg.Schema) [][]string {
	classes := s.Classes()
	rows := make([][]string, 0, len(classes))
	for _, cl := range classes {
		name := kg.LocalName(cl.Value)
		if name == "" {
			name = cl.Value
		}
		var props []string
		for _, p := range s.Properties(cl) {
			if p == kg.RDFType {
				continue
			}
			props = append(props, kg.LocalName(p.Value))
		}
		rows = append(rows, []string{
			name,
			strconv.Itoa(len(s.Instances(cl))),
			strings.Join(props, ", "),
		})
	}
	return rows
}

func rangeRows(s *kg.Schema) [][]string {
	seen := make(map[kg.Term]bool)
	var props []kg.Term
	for _, cl := range s.Classes() {
		for _, p := range s.Properties(cl) {
			if p != kg.RDFType && !seen[p] {
				seen[p] = true
				props = append(props, p)
			}
		}
	}
	kg.SortTerms(props)

	rows := make([][]string, len(props))
	for i, p := range props {
		var ranges []string
		for _, r := range s.Ranges(p) {
			ranges = append(ranges, kg.LocalName(r.Value))
		}
		rows[i] = []string{kg.LocalName(p.Value), strings.Join(ranges, ", ")}
	}
	return rows
}
