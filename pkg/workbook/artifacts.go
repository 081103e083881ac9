package workbook

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/klauspost/compress/gzip"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/kg"
	pkgio "github.com/matzehuels/datasprout/pkg/io"
	"github.com/matzehuels/datasprout/pkg/table"
)

// Artifact file names.
const (
	WorkbookFile   = "workbook.xlsx"
	ExpectedFile   = "expected.ttl.gz"
	ProvenanceFile = "provenance.ttl.gz"
	ProvenanceCSV  = "provenance.csv.gz"
	SummaryFile    = "summary.json"
)

// Summary describes one run. The pattern usage is filled per workbook.
type Summary struct {
	Dataset              string                  `json:"dataset"`
	Statements           int                     `json:"statements"`
	Mode                 string                  `json:"mode"`
	Date                 string                  `json:"date"`
	NumberOfWorkbooks    int                     `json:"numberOfWorkbooks"`
	RandomSeed           uint64                  `json:"randomSeed"`
	Locale               string                  `json:"locale"`
	Tables               int                     `json:"tables"`
	PatternUsagePerSheet map[string]PatternUsage `json:"patternUsagePerSheet,omitempty"`
}

// PatternUsage maps a pattern name to how often each value was chosen.
type PatternUsage map[string][]ValueCount

// ValueCount is one chosen pattern value and its number of cells.
type ValueCount struct {
	Value any `json:"value"`
	Count int `json:"count"`
}

// sheetTable is a table with the name of the sheet it was drawn on.
type sheetTable struct {
	sheet string
	table *table.Table
}

// provenanceCells calls fn for every cell that has an address and at
// least one statement.
func provenanceCells(sheets []sheetTable, fn func(sheet string, c *table.Cell, p *table.Provenance) error) error {
	for _, st := range sheets {
		var err error
		st.table.Provenances(func(c *table.Cell, p *table.Provenance) {
			if err != nil || c.Address == "" || len(p.Statements()) == 0 {
				return
			}
			err = fn(st.sheet, c, p)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// expectedGraph collects the statements shown in the sheets.
func expectedGraph(sheets []sheetTable) *kg.Graph {
	g := kg.NewGraph()
	_ = provenanceCells(sheets, func(_ string, _ *table.Cell, p *table.Provenance) error {
		g.AddAll(p.Statements()...)
		return nil
	})
	return g
}

// provenanceGraph reifies every shown statement once and links it to the
// cells it was derived from.
func provenanceGraph(sheets []sheetTable) *kg.Graph {
	g := kg.NewGraph()
	reified := make(map[kg.Triple]kg.Term)
	_ = provenanceCells(sheets, func(sheet string, c *table.Cell, p *table.Provenance) error {
		cell := kg.IRI("cell:" + strconv.Itoa(c.ID))
		g.AddAll(
			kg.T(cell, kg.RDFType, kg.CSVWCell),
			kg.T(cell, kg.RDFType, kg.PROVEntity),
			kg.T(cell, kg.SSSheetName, kg.PlainLiteral(sheet)),
			kg.T(cell, kg.SSAddress, kg.PlainLiteral(c.Address)),
		)
		for _, st := range p.Statements() {
			node, ok := reified[st]
			if !ok {
				node = kg.Blank(fmt.Sprintf("s%d", len(reified)))
				reified[st] = node
				g.AddAll(
					kg.T(node, kg.RDFType, kg.RDFStatement),
					kg.T(node, kg.RDFType, kg.PROVEntity),
					kg.T(node, kg.RDFSubject, st.S),
					kg.T(node, kg.RDFPredicate, st.P),
					kg.T(node, kg.RDFObject, st.O),
				)
			}
			g.Add(kg.T(node, kg.PROVWasDerivedFrom, cell))
		}
		return nil
	})
	return g
}

// writeProvenanceCSV writes id,sheet,address,type,value,statements rows.
func writeProvenanceCSV(w io.Writer, sheets []sheetTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "sheet", "address", "type", "value", "statements"}); err != nil {
		return err
	}
	err := provenanceCells(sheets, func(sheet string, c *table.Cell, p *table.Provenance) error {
		ttl, err := pkgio.FormatStatements(p.Statements())
		if err != nil {
			return err
		}
		return cw.Write([]string{strconv.Itoa(c.ID), sheet, c.Address, string(c.Type), c.Value(), ttl})
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// patternUsage counts, per sheet, the values chosen for every pattern.
// Values keep the order of their first use.
func patternUsage(sheets []sheetTable) map[string]PatternUsage {
	type counter struct {
		order  []any
		counts map[any]int
	}
	out := make(map[string]PatternUsage)
	for _, st := range sheets {
		byPattern := make(map[string]*counter)
		_ = provenanceCells([]sheetTable{st}, func(_ string, _ *table.Cell, p *table.Provenance) error {
			for _, name := range p.PatternNames() {
				v, _ := p.Pattern(name)
				v = usageValue(v)
				c, ok := byPattern[name]
				if !ok {
					c = &counter{counts: make(map[any]int)}
					byPattern[name] = c
				}
				if _, seen := c.counts[v]; !seen {
					c.order = append(c.order, v)
				}
				c.counts[v]++
			}
			return nil
		})
		usage := make(PatternUsage, len(byPattern))
		for name, c := range byPattern {
			vcs := make([]ValueCount, len(c.order))
			for i, v := range c.order {
				vcs[i] = ValueCount{Value: v, Count: c.counts[v]}
			}
			usage[name] = vcs
		}
		out[st.sheet] = usage
	}
	return out
}

// usageValue makes v usable as a map key. Lists are counted by their JSON
// text.
func usageValue(v any) any {
	switch v.(type) {
	case []string, []any, map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
	return v
}

// writeGzip creates path and writes fn's output through gzip.
func writeGzip(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	zw := gzip.NewWriter(f)
	if err := fn(zw); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return f.Close()
}

func writeGraph(path string, g *kg.Graph) error {
	return writeGzip(path, func(w io.Writer) error {
		return pkgio.WriteGraph(w, g, pkgio.FormatTurtle, pkgio.WithPrefixes())
	})
}

func writeSummary(path string, s Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode summary")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", filepath.Base(path))
	}
	return nil
}
