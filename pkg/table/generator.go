package table

import (
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/kg"
	"github.com/matzehuels/datasprout/pkg/setup"
)

// Generator renders Setups into tables. A Setup carrying a schema under
// setup.KeySchemaAnalysis is rendered against that schema instead of
// Schema.
type Generator struct {
	Schema     *kg.Schema
	Converters kg.Converters
	Formatter  Formatter
	Logger     *log.Logger
}

// NewGenerator creates a generator for the analyzed graph. conv converts
// literals of datatypes that are not built in.
func NewGenerator(schema *kg.Schema, conv kg.Converters) *Generator {
	return &Generator{
		Schema:     schema,
		Converters: conv,
		Formatter:  NewExcelFormatter(),
		Logger:     log.NewWithOptions(io.Discard, log.Options{}),
	}
}

// Close releases the formatter.
func (g *Generator) Close() error {
	if g.Formatter == nil {
		return nil
	}
	return g.Formatter.Close()
}

// GenerateAll renders every Setup with a shared id counter.
func (g *Generator) GenerateAll(setups []*setup.Setup, ids *IDCounter) ([]*Table, error) {
	start := time.Now()
	tables := make([]*Table, 0, len(setups))
	for _, s := range setups {
		t, err := g.Generate(s, ids)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	g.Logger.Debug("generated tables", "tables", len(tables), "cells", ids.Peek(), "duration", time.Since(start))
	return tables, nil
}

// column pairs a property with the objects an instance has for it.
type column struct {
	prop    kg.Term
	objects []kg.Term
}

// Generate renders one Setup.
func (g *Generator) Generate(s *setup.Setup, ids *IDCounter) (*Table, error) {
	class, err := setup.ValueAs[*setup.ClassConfig](s, setup.KeyClasses)
	if err != nil {
		return nil, err
	}
	rng, err := s.Rand()
	if err != nil {
		return nil, err
	}
	schema := g.Schema
	if s.Has(setup.KeySchemaAnalysis) {
		if schema, err = setup.ValueAs[*kg.Schema](s, setup.KeySchemaAnalysis); err != nil {
			return nil, err
		}
	}
	if schema == nil {
		return nil, errors.New(errors.ErrCodeMissingKey, "%s not found", setup.KeySchemaAnalysis)
	}
	graph := schema.Graph()
	t := newTable(s, class, ids)
	t.schema = schema

	if s.Has(setup.KeyOffset) {
		if t.Offset, err = setup.ValueAs[Offset](s, setup.KeyOffset); err != nil {
			return nil, err
		}
	}

	instances, defaults := rowsAndColumns(schema, class)

	randomOrder, err := s.Flag(setup.KeyInstanceRandomOrder)
	if err != nil {
		return nil, err
	}
	if randomOrder {
		shuffle(rng, instances)
	}

	configs := defaults
	if s.Has(setup.KeyProperties) {
		if configs, err = setup.ValueAs[[]*setup.PropertyConfig](s, setup.KeyProperties); err != nil {
			return nil, err
		}
	}

	if s.Has(setup.KeyInstanceFilter) {
		keep, err := setup.SingleAs[InstanceFilter](s, setup.KeyInstanceFilter)
		if err != nil {
			return nil, err
		}
		kept := instances[:0]
		for _, inst := range instances {
			if keep(inst, graph) {
				kept = append(kept, inst)
			}
		}
		instances = kept
	}

	header, err := setup.SingleAs[bool](s, setup.KeyHeader)
	if err != nil {
		return nil, err
	}

	if s.Has(setup.KeyChildProperty) {
		child, err := setup.ValueAs[kg.Term](s, setup.KeyChildProperty)
		if err != nil {
			return nil, err
		}
		instances = withChildren(graph, instances, child)
	}

	top := 0
	if header {
		top = 1
	}
	h, w := top+len(instances), len(configs)
	t.Grid = make([][]*Cell, h)
	for i := range t.Grid {
		t.Grid[i] = make([]*Cell, w)
	}

	if header {
		if err := g.header(t, configs); err != nil {
			return nil, err
		}
	}

	for j, inst := range instances {
		row := j + top
		for col, pc := range configs {
			var cols []column
			var objects []kg.Term
			for _, p := range pc.Properties() {
				os := graph.Objects(inst, p)
				if len(os) > 0 {
					cols = append(cols, column{prop: p, objects: os})
				}
				objects = append(objects, os...)
			}

			c := &Cell{ID: ids.Next(), Row: row, Col: col}
			if c.Address, err = t.address(row, col); err != nil {
				return nil, err
			}

			var add bool
			switch {
			case len(objects) == 0:
				add, err = g.putNoObject(t, pc, c)
			case len(objects) == 1 || pc.HasObject():
				if add, err = g.putObject(t, inst, pc, cols, c); err == nil && add {
					err = g.partialFormatting(t, pc, cols, c)
				}
			default:
				add, err = g.putMultipleObjects(t, inst, pc, cols, c)
			}
			if err != nil {
				return nil, err
			}
			if add {
				t.Grid[row][col] = c
			}
		}
	}

	if err := g.colorRows(t, instances, top); err != nil {
		return nil, err
	}

	g.Logger.Debug("table", "class", class.Label(), "rows", h, "cols", w)
	return t, nil
}

func (t *Table) address(row, col int) (string, error) {
	a, err := excelize.CoordinatesToCellName(t.Offset.Col+col+1, t.Offset.Row+row+1)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "cell address (%d,%d)", row, col)
	}
	return a, nil
}

// rowsAndColumns collects the instances of every class of the config and
// one default column per non-type property. Instances and properties
// shared by several classes appear once.
func rowsAndColumns(schema *kg.Schema, class *setup.ClassConfig) ([]kg.Term, []*setup.PropertyConfig) {
	var instances []kg.Term
	var configs []*setup.PropertyConfig
	seenInst := make(map[kg.Term]bool)
	seenProp := make(map[kg.Term]bool)
	for _, cls := range class.Classes() {
		for _, inst := range schema.Instances(cls) {
			if !seenInst[inst] {
				seenInst[inst] = true
				instances = append(instances, inst)
			}
		}
		for _, p := range schema.Properties(cls) {
			if p == kg.RDFType || seenProp[p] {
				continue
			}
			seenProp[p] = true
			configs = append(configs, setup.NewPropertyConfig(p))
		}
	}
	return instances, configs
}

// withChildren inserts the children of every instance right after it.
// Only one level is added; children are ordered by identifier.
func withChildren(g *kg.Graph, instances []kg.Term, child kg.Term) []kg.Term {
	out := make([]kg.Term, 0, len(instances))
	for _, inst := range instances {
		out = append(out, inst)
		children := append([]kg.Term(nil), g.Objects(inst, child)...)
		kg.SortTerms(children)
		out = append(out, children...)
	}
	return out
}

func (g *Generator) header(t *Table, configs []*setup.PropertyConfig) error {
	graph := t.schema.Graph()
	for i, pc := range configs {
		name := pc.Label()
		if !pc.HasLabel() {
			var ok bool
			if name, ok = graph.Label(pc.Property()); !ok {
				name = kg.LocalName(pc.Property().Value)
			}
		}
		if name == "" {
			return errors.New(errors.ErrCodeMissingLabel, "no header label for %s", pc)
		}

		c := &Cell{ID: t.ids.Next(), Row: 0, Col: i}
		c.setString(name)
		var err error
		if c.Address, err = t.address(0, i); err != nil {
			return err
		}

		if t.Setup.Has(setup.KeyHeaderBackgroundColor) {
			bg, err := setup.SingleAs[string](t.Setup, setup.KeyHeaderBackgroundColor)
			if err != nil {
				return err
			}
			c.BackgroundColor = bg
			t.putPattern(c, setup.KeyHeaderBackgroundColor, bg)
		}
		t.Grid[0][i] = c

		for _, p := range pc.Properties() {
			t.addStatement(c, p, kg.RDFType, kg.RDFProperty)
		}
		if !pc.IsMulti() {
			t.addStatement(c, pc.Property(), kg.RDFSLabel, kg.PlainLiteral(name))
		}
		if pc.HasObject() && pc.Object().IsResource() {
			t.addStatement(c, pc.Object(), kg.RDFType, kg.RDFSResource)
		}
		if pc.IsMulti() {
			t.putPattern(c, setup.PatternIntraCell, iris(pc.Properties()))
		}
		if i == 0 && t.Class.IsMulti() {
			t.putPattern(c, setup.PatternMultipleTypesInATable, iris(t.Class.Classes()))
		}
	}
	return nil
}

func iris(ts []kg.Term) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Value
	}
	return out
}

// colorRows applies configured property-value colors. For every instance
// the last statement with a configured color wins; every cell of a colored
// row is materialized so the color shows.
func (g *Generator) colorRows(t *Table, instances []kg.Term, top int) error {
	for j, inst := range instances {
		var fg, bg, fgKey, bgKey string
		for _, st := range t.schema.Graph().Statements(inst) {
			k := setup.Key(st.P.Value, st.O.String(), setup.PatternForegroundColor)
			if t.Setup.Has(k) {
				c, err := setup.ValueAs[string](t.Setup, k)
				if err != nil {
					return err
				}
				fg, fgKey = c, k
			}
			k = setup.Key(st.P.Value, st.O.String(), setup.PatternBackgroundColor)
			if t.Setup.Has(k) {
				c, err := setup.ValueAs[string](t.Setup, k)
				if err != nil {
					return err
				}
				bg, bgKey = c, k
			}
		}
		if fg == "" && bg == "" {
			continue
		}

		row := j + top
		for col := range t.Grid[row] {
			c := t.Grid[row][col]
			if c == nil {
				c = &Cell{Row: row, Col: col}
				c.setString("")
				var err error
				if c.Address, err = t.address(row, col); err != nil {
					return err
				}
				t.Grid[row][col] = c
			}
			if fg != "" {
				c.FontColor = fg
				t.putPattern(c, fgKey, fg)
			}
			if bg != "" {
				c.BackgroundColor = bg
				t.putPattern(c, bgKey, bg)
			}
		}
	}
	return nil
}

func shuffle[T any](rng *rand.Rand, xs []T) {
	rng.Shuffle(len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })
}
