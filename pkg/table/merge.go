package table

import (
	"strings"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/kg"
	"github.com/matzehuels/datasprout/pkg/richtext"
	"github.com/matzehuels/datasprout/pkg/setup"
)

// part is one (property, object) value of a merged cell.
type part struct {
	cell   *Cell
	object kg.Term
	open   string
	close  string
	tagged bool
}

// putMultipleObjects renders every (property, object) pair of the cell
// into a temporary cell and joins them with a delimiter into c.
func (g *Generator) putMultipleObjects(t *Table, s kg.Term, pc *setup.PropertyConfig, cols []column, c *Cell) (bool, error) {
	rng, err := t.Setup.Rand()
	if err != nil {
		return false, err
	}

	var parts []*part
	relations := make(map[kg.Term][]kg.Term)
	for _, col := range cols {
		single := setup.NewPropertyConfig(col.prop)
		for _, o := range col.objects {
			tmp := &Cell{ID: t.ids.Next()}
			if _, err := g.putObject(t, s, single, []column{{prop: col.prop, objects: []kg.Term{o}}}, tmp); err != nil {
				return false, err
			}
			parts = append(parts, &part{cell: tmp, object: o})
			relations[o] = append(relations[o], col.prop)
		}
	}

	kept := parts
	if pc.DistinctObjects {
		kept = nil
		shown := make(map[kg.Term]bool)
		for _, pt := range parts {
			if !shown[pt.object] {
				kept = append(kept, pt)
			}
			shown[pt.object] = true
		}
	}
	shuffle(rng, kept)

	strategy, err := selectPattern[setup.MergeCellStrategy](t, pc, c, setup.PatternMergeCellStrategy)
	if err != nil {
		return false, err
	}
	if strategy != setup.MergeDelimiter {
		return false, errors.New(errors.ErrCodeInvalidConfiguration, "unknown merge strategy %q", strategy)
	}
	delimiter, err := selectPattern[string](t, pc, c, setup.PatternMergeCellDelimiters)
	if err != nil {
		return false, err
	}

	rich := false
	for _, pt := range kept {
		for _, p := range relations[pt.object] {
			open, close, ok, err := formattingTags(t, p)
			if err != nil {
				return false, err
			}
			if ok {
				t.putPattern(c, setup.Key(p.Value, setup.PatternPartialFormatting), open+"|"+close)
				pt.open, pt.close, pt.tagged = open, close, true
				break
			}
		}
		rich = rich || pt.tagged || pt.cell.IsRichText()
	}

	var sb strings.Builder
	for i, pt := range kept {
		str, err := g.display(t, pc, pt.cell)
		if err != nil {
			return false, err
		}
		if rich && !pt.cell.IsRichText() {
			str = richtext.Escape(str)
		}
		sb.WriteString(pt.open)
		sb.WriteString(str)
		sb.WriteString(pt.close)
		if i < len(kept)-1 {
			sb.WriteString(delimiter)
		}
	}
	if rich {
		c.setRichText(sb.String())
	} else {
		c.setString(sb.String())
	}

	for _, col := range cols {
		t.addStatements(c, s, col.prop, col.objects)
	}
	for _, pt := range parts {
		prov := t.Provenance(pt.cell)
		if prov == nil {
			continue
		}
		for _, st := range prov.Statements() {
			t.addStatement(c, st.S, st.P, st.O)
		}
		for _, name := range prov.PatternNames() {
			v, _ := prov.Pattern(name)
			t.putPattern(c, name, v)
		}
	}
	return true, nil
}
