package table

import (
	"github.com/matzehuels/datasprout/pkg/kg"
	"github.com/matzehuels/datasprout/pkg/setup"
)

// Offset is the top-left position of a table in its sheet.
type Offset struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InstanceFilter keeps an instance as a row when it returns true.
type InstanceFilter func(instance kg.Term, g *kg.Graph) bool

// Table is one rendered table: a row-major grid where nil means no cell,
// the Setup it was rendered from, and the provenance of every cell.
type Table struct {
	Grid   [][]*Cell
	Setup  *setup.Setup
	Class  *setup.ClassConfig
	Offset Offset

	schema *kg.Schema
	prov   map[*Cell]*Provenance
	order  []*Cell
	ids    *IDCounter
}

func newTable(s *setup.Setup, class *setup.ClassConfig, ids *IDCounter) *Table {
	return &Table{Setup: s, Class: class, prov: make(map[*Cell]*Provenance), ids: ids}
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return len(t.Grid) }

// Cols returns the number of columns.
func (t *Table) Cols() int {
	if len(t.Grid) == 0 {
		return 0
	}
	return len(t.Grid[0])
}

// Cell returns the cell at row, col or nil.
func (t *Table) Cell(row, col int) *Cell { return t.Grid[row][col] }

// Provenance returns the provenance of c, or nil when nothing was recorded.
func (t *Table) Provenance(c *Cell) *Provenance { return t.prov[c] }

// Provenances calls fn for every cell with recorded provenance, in the
// order provenance was first recorded. This includes the temporary cells
// of merged values, which have no address.
func (t *Table) Provenances(fn func(*Cell, *Provenance)) {
	for _, c := range t.order {
		fn(c, t.prov[c])
	}
}

func (t *Table) provenance(c *Cell) *Provenance {
	p, ok := t.prov[c]
	if !ok {
		p = newProvenance()
		t.prov[c] = p
		t.order = append(t.order, c)
	}
	return p
}

func (t *Table) addStatement(c *Cell, s, p, o kg.Term) {
	t.provenance(c).AddStatement(kg.T(s, p, o))
}

func (t *Table) addStatements(c *Cell, s, p kg.Term, os []kg.Term) {
	for _, o := range os {
		t.addStatement(c, s, p, o)
	}
}

func (t *Table) putPattern(c *Cell, name string, v any) {
	t.provenance(c).PutPattern(name, v)
}

func (t *Table) String() string {
	label := ""
	if t.Class != nil {
		label = t.Class.Label()
	}
	return "Table{" + label + "}"
}
