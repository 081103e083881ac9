package workbook

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/table"
)

// =============================================================================
// Options
// =============================================================================

// Options selects the artifacts written next to each workbook.
type Options struct {
	WriteExpectedModel      bool `json:"write_expected_model,omitempty"`
	WriteProvenanceModel    bool `json:"write_provenance_model,omitempty"`
	WriteProvenanceCSV      bool `json:"write_provenance_csv,omitempty"`
	WriteSummary            bool `json:"write_summary,omitempty"`
	ProvenanceAsCellComment bool `json:"provenance_as_cell_comment,omitempty"`

	// Seed drives the clustering.
	Seed uint64 `json:"seed"`

	// Summary holds the run fields of summary.json.
	Summary Summary `json:"-"`
}

// Result describes one written workbook.
type Result struct {
	Folder string
	Sheets []string
	Cells  int
}

// =============================================================================
// Creator
// =============================================================================

// Creator writes clustered tables as workbooks.
type Creator struct {
	Logger *log.Logger
}

// NewCreator returns a Creator with a discarding logger.
func NewCreator() *Creator {
	return &Creator{Logger: log.NewWithOptions(io.Discard, log.Options{})}
}

// Create clusters tables and writes one folder per cluster under dst.
func (c *Creator) Create(ctx context.Context, dst string, tables []*table.Table, opts Options) ([]Result, error) {
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef))
	clusters := Cluster(tables, rng)
	digits := len(strconv.Itoa(len(clusters) - 1))

	results := make([]Result, 0, len(clusters))
	for i, cluster := range clusters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		folder := dst
		if len(clusters) > 1 {
			folder = filepath.Join(dst, fmt.Sprintf("%0*d", digits, i))
		}
		res, err := c.createOne(folder, cluster, opts)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (c *Creator) createOne(folder string, cluster []*table.Table, opts Options) (Result, error) {
	start := time.Now()
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", folder)
	}

	sheets, err := sheetNames(cluster)
	if err != nil {
		return Result{}, err
	}

	f := excelize.NewFile()
	defer f.Close()
	d := newDrawer(f, opts.ProvenanceAsCellComment)
	res := Result{Folder: folder}
	for i, st := range sheets {
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), st.sheet)
		} else {
			_, err = f.NewSheet(st.sheet)
		}
		if err != nil {
			return Result{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "sheet %q", st.sheet)
		}
		if err := d.drawTable(st.sheet, st.table); err != nil {
			return Result{}, err
		}
		res.Sheets = append(res.Sheets, st.sheet)
		res.Cells += countCells(st.table)
	}
	if err := f.SaveAs(filepath.Join(folder, WorkbookFile)); err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "save %s", WorkbookFile)
	}

	if opts.WriteExpectedModel {
		if err := writeGraph(filepath.Join(folder, ExpectedFile), expectedGraph(sheets)); err != nil {
			return Result{}, err
		}
	}
	if opts.WriteProvenanceModel {
		if err := writeGraph(filepath.Join(folder, ProvenanceFile), provenanceGraph(sheets)); err != nil {
			return Result{}, err
		}
	}
	if opts.WriteProvenanceCSV {
		err := writeGzip(filepath.Join(folder, ProvenanceCSV), func(w io.Writer) error {
			return writeProvenanceCSV(w, sheets)
		})
		if err != nil {
			return Result{}, err
		}
	}
	if opts.WriteSummary {
		s := opts.Summary
		s.PatternUsagePerSheet = patternUsage(sheets)
		if err := writeSummary(filepath.Join(folder, SummaryFile), s); err != nil {
			return Result{}, err
		}
	}

	c.Logger.Info("wrote workbook", "folder", folder, "sheets", len(res.Sheets), "cells", res.Cells, "duration", time.Since(start))
	return res, nil
}

// sheetNames names each table's sheet after its class-config label.
// Characters excel rejects become "_", names are cut to 31 characters and
// repeated names get a " (n)" suffix.
func sheetNames(tables []*table.Table) ([]sheetTable, error) {
	used := make(map[string]bool)
	out := make([]sheetTable, 0, len(tables))
	for _, t := range tables {
		if !t.Class.HasLabel() {
			return nil, errors.New(errors.ErrCodeMissingLabel, "ClassConfig should give a label to name the sheet: %s", t.Class)
		}
		base := sanitizeSheetName(t.Class.Label())
		name := base
		for n := 2; used[strings.ToLower(name)]; n++ {
			suffix := fmt.Sprintf(" (%d)", n)
			name = truncate(base, excelize.MaxSheetNameLength-len(suffix)) + suffix
		}
		used[strings.ToLower(name)] = true
		out = append(out, sheetTable{sheet: name, table: t})
	}
	return out, nil
}

var sheetNameReplacer = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_", "\n", " ",
)

func sanitizeSheetName(s string) string {
	s = strings.Trim(sheetNameReplacer.Replace(s), "'")
	if s == "" {
		s = "Sheet"
	}
	return truncate(s, excelize.MaxSheetNameLength)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func countCells(t *table.Table) int {
	n := 0
	for _, row := range t.Grid {
		for _, c := range row {
			if c != nil {
				n++
			}
		}
	}
	return n
}
