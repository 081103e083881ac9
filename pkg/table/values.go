package table

import (
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/kg"
	"github.com/matzehuels/datasprout/pkg/richtext"
	"github.com/matzehuels/datasprout/pkg/setup"
)

// putObject renders the single object of a cell. A column with a fixed
// comparison object renders whether the instance has that object.
func (g *Generator) putObject(t *Table, s kg.Term, pc *setup.PropertyConfig, cols []column, c *Cell) (bool, error) {
	var p, object kg.Term
	if pc.HasObject() {
		p = pc.Property()
		exists := false
		for _, col := range cols {
			if col.prop == p && slices.Contains(col.objects, pc.Object()) {
				exists = true
			}
		}
		object = kg.BoolLiteral(exists)
	} else {
		p, object = cols[0].prop, cols[0].objects[0]
	}

	if object.IsResource() {
		return true, g.putResource(t, s, p, object, pc, c)
	}

	value, err := kg.ValueOf(object, g.Converters)
	if err != nil {
		return false, err
	}

	switch v := value.(type) {
	case kg.Str:
		c.setString(string(v))
		t.addStatement(c, s, p, object)
		if t.Setup.Has(setup.KeyLabelProperties) {
			labels, _ := t.Setup.Values(setup.KeyLabelProperties)
			if slices.Contains(labels, any(p)) {
				for _, typ := range t.schema.Graph().Types(s) {
					t.addStatement(c, s, kg.RDFType, typ)
				}
			}
		}
		return true, nil

	case kg.Num:
		rend, err := selectPattern[setup.NumericRendering](t, pc, c, setup.PatternNumericRendering)
		if err != nil {
			return false, err
		}
		switch rend {
		case setup.NumericNative:
			c.setNumeric(v.Float)
			f, err := selectPattern[string](t, pc, c, setup.PatternNumericNativeDataFormats)
			if err != nil {
				return false, err
			}
			c.setDataFormat(f)
		case setup.NumericString:
			str, err := g.numberToString(t, pc, c, v.Float, v.Integer || v.Float == math.Trunc(v.Float))
			if err != nil {
				return false, err
			}
			c.setString(str)
		}
		t.addStatement(c, s, p, object)
		return true, nil

	case kg.Bool:
		if err := g.putBoolean(t, pc, c, bool(v)); err != nil {
			return false, err
		}
		if pc.HasObject() {
			t.addStatement(c, s, p, pc.Object())
			t.putPattern(c, setup.Key(p.Value, setup.PatternAcronymsOrSymbols), pc.Object().String())
		} else {
			t.addStatement(c, s, p, object)
		}
		return true, nil

	case kg.Date:
		rend, err := selectPattern[setup.DateRendering](t, pc, c, setup.PatternDateRendering)
		if err != nil {
			return false, err
		}
		if err := g.putTime(t, pc, c, time.Time(v), rend == setup.DateNumeric,
			setup.PatternDateDataFormats, setup.PatternDateStringFormats, ExcelDate); err != nil {
			return false, err
		}
		t.addStatement(c, s, p, object)
		return true, nil

	case kg.DateTime:
		rend, err := selectPattern[setup.DateTimeRendering](t, pc, c, setup.PatternDateTimeRendering)
		if err != nil {
			return false, err
		}
		if err := g.putTime(t, pc, c, time.Time(v), rend == setup.DateTimeNumeric,
			setup.PatternDateTimeDataFormats, setup.PatternDateTimeStringFormats, ExcelDateTime); err != nil {
			return false, err
		}
		t.addStatement(c, s, p, object)
		return true, nil
	}
	return false, errors.New(errors.ErrCodeUnknownDatatype, "no rendering for %s (%T)", object, value)
}

func (g *Generator) putBoolean(t *Table, pc *setup.PropertyConfig, c *Cell, b bool) error {
	rend, err := selectPattern[setup.BooleanRendering](t, pc, c, setup.PatternBooleanRendering)
	if err != nil {
		return err
	}
	switch rend {
	case setup.BooleanNative:
		c.setBoolean(b)
		f, err := selectPattern[string](t, pc, c, setup.PatternBooleanNativeDataFormats)
		if err != nil {
			return err
		}
		c.setDataFormat(f)
	case setup.BooleanSymbol:
		sym, err := g.booleanToString(t, pc, c, b)
		if err != nil {
			return err
		}
		c.setString(sym)
	case setup.BooleanNumeric:
		name := setup.PatternBooleanFalseNumbers
		if b {
			name = setup.PatternBooleanTrueNumbers
		}
		n, err := selectPattern[float64](t, pc, c, name)
		if err != nil {
			return err
		}
		c.setNumeric(n)
	default:
		return errors.New(errors.ErrCodeInvalidConfiguration, "unknown boolean rendering %q", rend)
	}
	return nil
}

// putTime writes a date or date-time either as a spreadsheet serial with a
// data format or as text with a time layout.
func (g *Generator) putTime(t *Table, pc *setup.PropertyConfig, c *Cell, v time.Time, numeric bool,
	dataFormats, stringFormats string, serial func(time.Time) float64) error {
	if numeric {
		c.setNumeric(serial(v))
		f, err := selectPattern[string](t, pc, c, dataFormats)
		if err != nil {
			return err
		}
		c.setDataFormat(f)
		return nil
	}
	layout, err := selectPattern[string](t, pc, c, stringFormats)
	if err != nil {
		return err
	}
	c.setString(v.Format(layout))
	return nil
}

// putResource writes a reference to another resource as its label.
func (g *Generator) putResource(t *Table, s, p, res kg.Term, pc *setup.PropertyConfig, c *Cell) error {
	graph := t.schema.Graph()
	types := graph.Types(res)
	for _, typ := range types {
		t.addStatement(c, res, kg.RDFType, typ)
	}

	for _, typ := range types {
		key := setup.Key(typ.Value, setup.KeyLabelProperties)
		if !t.Setup.Has(key) {
			continue
		}
		props, err := setup.SampleAs[[]kg.Term](t.Setup, key)
		if err != nil {
			return err
		}
		var parts []string
		for _, lp := range props {
			if label, ok := graph.Object(res, lp); ok {
				parts = append(parts, label.Value)
				t.addStatement(c, res, lp, label)
			}
		}
		c.setString(strings.Join(parts, " "))
		t.putPattern(c, key, iris(props))
		t.addStatement(c, s, p, res)
		return nil
	}

	iterMax := setup.DefaultLabelPropertyIterMax
	if t.Setup.Has(setup.KeyLabelPropertyIterMax) {
		n, err := setup.SingleAs[int](t.Setup, setup.KeyLabelPropertyIterMax)
		if err != nil {
			return err
		}
		iterMax = n
	}

	var labelProp kg.Term
	var labels []string
	for i := 0; i < iterMax && len(labels) == 0; i++ {
		lp, err := selectPattern[kg.Term](t, pc, c, setup.KeyLabelProperties)
		if err != nil {
			return err
		}
		for _, o := range graph.Objects(res, lp) {
			if o.IsLiteral() {
				labels = append(labels, o.Value)
			}
		}
		labelProp = lp
	}

	if len(labels) == 0 {
		name := kg.LocalName(res.Value)
		if name == "" {
			name = res.Value
		}
		c.setString(name)
		t.addStatement(c, s, p, res)
		return nil
	}

	label := labels[0]
	if len(labels) > 1 {
		strategy, err := selectPattern[setup.LabelPickStrategy](t, pc, c, setup.PatternLabelPickStrategy)
		if err != nil {
			return err
		}
		label = pickLabel(labels, strategy)
	}
	c.setString(label)
	t.addStatement(c, s, p, res)
	t.addStatement(c, res, labelProp, kg.PlainLiteral(label))
	return nil
}

// pickLabel returns the first label after a stable sort by strategy.
func pickLabel(labels []string, strategy setup.LabelPickStrategy) string {
	sorted := slices.Clone(labels)
	switch strategy {
	case setup.LabelAlphabetical:
		slices.SortStableFunc(sorted, strings.Compare)
	case setup.LabelShortest:
		slices.SortStableFunc(sorted, func(a, b string) int {
			return utf8.RuneCountInString(a) - utf8.RuneCountInString(b)
		})
	case setup.LabelLongest:
		slices.SortStableFunc(sorted, func(a, b string) int {
			return utf8.RuneCountInString(b) - utf8.RuneCountInString(a)
		})
	}
	return sorted[0]
}

// formattingTags returns the open and close tag configured for p.
func formattingTags(t *Table, p kg.Term) (open, close string, ok bool, err error) {
	key := setup.Key(p.Value, setup.PatternPartialFormatting)
	if !t.Setup.Has(key) {
		return "", "", false, nil
	}
	f, err := setup.ValueAs[string](t.Setup, key)
	if err != nil {
		return "", "", false, err
	}
	open, close, found := strings.Cut(f, "|")
	if !found {
		return "", "", false, errors.New(errors.ErrCodeInvalidFormatting, "put a '|' in the formatting of %s", key)
	}
	return open, close, true, nil
}

// partialFormatting wraps a single value in the formatting tags of the
// first property of the cell that has tags configured.
func (g *Generator) partialFormatting(t *Table, pc *setup.PropertyConfig, cols []column, c *Cell) error {
	for _, col := range cols {
		open, close, ok, err := formattingTags(t, col.prop)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		t.putPattern(c, setup.Key(col.prop.Value, setup.PatternPartialFormatting), open+"|"+close)
		text, err := g.display(t, pc, c)
		if err != nil {
			return err
		}
		c.setRichText(open + richtext.Escape(text) + close)
		return nil
	}
	return nil
}
