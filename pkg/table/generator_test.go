package table

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/kg"
	"github.com/matzehuels/datasprout/pkg/richtext"
	"github.com/matzehuels/datasprout/pkg/setup"
)

var (
	person  = kg.IRI("http://x/Person")
	org     = kg.IRI("http://x/Org")
	doc     = kg.IRI("http://x/Doc")
	knows   = kg.IRI("http://x/knows")
	worksAt = kg.IRI("http://x/worksAt")
	status  = kg.IRI("http://x/status")
	nick    = kg.IRI("http://x/nick")
	creator = kg.IRI("http://x/creator")
	contrib = kg.IRI("http://x/contributor")
	abbr    = kg.IRI("http://x/abbr")
)

func newSetup(class *setup.ClassConfig, seed uint64) *setup.Setup {
	s := setup.New()
	s.Set(setup.KeyClasses, class)
	s.Set(setup.KeyRandom, rand.New(rand.NewPCG(seed, seed^0xdeadbeef)))
	s.Set(setup.KeyHeader, true)
	s.PutList(setup.KeyLabelProperties, setup.List(kg.RDFSLabel))
	s.PutList(setup.PatternBooleanRendering, setup.List(setup.BooleanSymbol))
	s.PutList(setup.PatternBooleanTrueSymbols, setup.List("✓"))
	s.PutList(setup.PatternBooleanFalseSymbols, setup.List(""))
	s.PutList(setup.PatternNumericRendering, setup.List(setup.NumericNative))
	s.PutList(setup.PatternNumericNativeDataFormats, setup.List(""))
	s.PutList(setup.PatternNumberStringFormats, setup.List(setup.StringValueOf))
	s.PutList(setup.PatternDateRendering, setup.List(setup.DateString))
	s.PutList(setup.PatternDateStringFormats, setup.List("01/02/2006"))
	s.PutList(setup.PatternEmptyCellRendering, setup.List(setup.EmptyNative))
	s.PutList(setup.PatternLabelPickStrategy, setup.List(setup.LabelAlphabetical))
	s.PutList(setup.PatternMergeCellStrategy, setup.List(setup.MergeDelimiter))
	s.PutList(setup.PatternMergeCellDelimiters, setup.List(", "))
	return s
}

func generate(t *testing.T, g *kg.Graph, s *setup.Setup) *Table {
	t.Helper()
	gen := NewGenerator(kg.Analyze(g), kg.DefaultConverters())
	t.Cleanup(func() { _ = gen.Close() })
	tbl, err := gen.Generate(s, NewIDCounter())
	require.NoError(t, err)
	return tbl
}

func peopleGraph(n int) *kg.Graph {
	g := kg.NewGraph()
	for i := range n {
		p := kg.IRI(fmt.Sprintf("http://x/p%d", i))
		g.AddAll(
			kg.T(p, kg.RDFType, person),
			kg.T(p, kg.FOAFFirstName, kg.PlainLiteral(fmt.Sprintf("First%d", i))),
			kg.T(p, kg.FOAFLastName, kg.PlainLiteral(fmt.Sprintf("Last%d", i))),
		)
	}
	return g
}

func TestGenerateCleanTable(t *testing.T) {
	g := peopleGraph(10)
	tbl := generate(t, g, newSetup(setup.NewClassConfig("Person", person), 1))

	require.Equal(t, 11, tbl.Rows())
	require.Equal(t, 2, tbl.Cols())
	assert.Equal(t, "firstName", tbl.Cell(0, 0).Str)
	assert.Equal(t, "lastName", tbl.Cell(0, 1).Str)
	assert.Equal(t, "A1", tbl.Cell(0, 0).Address)

	for row := 1; row < tbl.Rows(); row++ {
		for col := range 2 {
			c := tbl.Cell(row, col)
			require.NotNil(t, c)
			assert.Equal(t, CellString, c.Type)
			assert.False(t, c.IsRichText())

			prov := tbl.Provenance(c)
			require.NotNil(t, prov)
			require.Len(t, prov.Statements(), 1)
			st := prov.Statements()[0]
			assert.True(t, g.Has(st))
			assert.Equal(t, c.Str, st.O.Value)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := peopleGraph(8)
	render := func() string {
		s := newSetup(setup.NewClassConfig("Person", person), 42)
		s.Set(setup.KeyInstanceRandomOrder, true)
		tbl := generate(t, g, s)
		var sb strings.Builder
		for _, row := range tbl.Grid {
			for _, c := range row {
				sb.WriteString(c.String())
			}
		}
		return sb.String()
	}
	assert.Equal(t, render(), render())
}

func TestIDsAreSharedAcrossTables(t *testing.T) {
	g := peopleGraph(2)
	gen := NewGenerator(kg.Analyze(g), kg.DefaultConverters())
	defer gen.Close()

	ids := NewIDCounter()
	tables, err := gen.GenerateAll([]*setup.Setup{
		newSetup(setup.NewClassConfig("A", person), 1),
		newSetup(setup.NewClassConfig("B", person), 2),
	}, ids)
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, tbl := range tables {
		for _, row := range tbl.Grid {
			for _, c := range row {
				assert.False(t, seen[c.ID], "id %d reused", c.ID)
				seen[c.ID] = true
			}
		}
	}
	assert.Equal(t, 12, ids.Peek())
}

func TestMergeDistinctObjects(t *testing.T) {
	d := kg.IRI("http://x/doc1")
	g := kg.NewGraph()
	g.AddAll(
		kg.T(d, kg.RDFType, doc),
		kg.T(d, creator, kg.PlainLiteral("Ann")),
		kg.T(d, creator, kg.PlainLiteral("Bob")),
		kg.T(d, contrib, kg.PlainLiteral("Ann")),
		kg.T(d, contrib, kg.PlainLiteral("Cid")),
	)
	s := newSetup(setup.NewClassConfig("Doc", doc), 3)
	s.Set(setup.KeyHeader, false)
	s.Set(setup.KeyProperties, []*setup.PropertyConfig{
		setup.NewPropertyConfig(creator, contrib).WithURI("uuid:people").WithLabel("people"),
	})

	tbl := generate(t, g, s)
	c := tbl.Cell(0, 0)
	require.NotNil(t, c)
	assert.ElementsMatch(t, []string{"Ann", "Bob", "Cid"}, strings.Split(c.Str, ", "))

	prov := tbl.Provenance(c)
	assert.Contains(t, prov.Statements(), kg.T(d, contrib, kg.PlainLiteral("Ann")))
	assert.Contains(t, prov.Statements(), kg.T(d, creator, kg.PlainLiteral("Bob")))
}

func TestMergePartialFormatting(t *testing.T) {
	d := kg.IRI("http://x/doc1")
	g := kg.NewGraph()
	g.AddAll(
		kg.T(d, kg.RDFType, doc),
		kg.T(d, creator, kg.PlainLiteral("A<B")),
		kg.T(d, contrib, kg.PlainLiteral("Cid")),
	)
	s := newSetup(setup.NewClassConfig("Doc", doc), 3)
	s.Set(setup.KeyHeader, false)
	s.Set(setup.KeyProperties, []*setup.PropertyConfig{
		setup.NewPropertyConfig(creator, contrib).WithURI("uuid:people"),
	})
	s.Set(setup.Key(creator.Value, setup.PatternPartialFormatting), "<b>|</b>")

	tbl := generate(t, g, s)
	c := tbl.Cell(0, 0)
	require.True(t, c.IsRichText())

	res, err := richtext.Parse(c.RichText)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A<B", "Cid"}, strings.Split(res.Text, ", "))
	require.Len(t, res.Spans, 1)
	assert.True(t, res.Spans[0].Bold)
	assert.Equal(t, "A<B", string([]rune(res.Text)[res.Spans[0].Start:res.Spans[0].End]))
}

func TestSinglePartialFormatting(t *testing.T) {
	g := peopleGraph(1)
	s := newSetup(setup.NewClassConfig("Person", person), 1)
	s.Set(setup.Key(kg.FOAFFirstName.Value, setup.PatternPartialFormatting), "<i>|</i>")

	tbl := generate(t, g, s)
	c := tbl.Cell(1, 0)
	assert.Equal(t, "<i>First0</i>", c.RichText)
	assert.Empty(t, c.Str)

	s = newSetup(setup.NewClassConfig("Person", person), 1)
	s.Set(setup.Key(kg.FOAFFirstName.Value, setup.PatternPartialFormatting), "<i>")
	gen := NewGenerator(kg.Analyze(g), kg.DefaultConverters())
	defer gen.Close()
	_, err := gen.Generate(s, NewIDCounter())
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormatting))
}

func TestComparisonColumn(t *testing.T) {
	alice, bob, carol, dave := kg.IRI("http://x/alice"), kg.IRI("http://x/bob"), kg.IRI("http://x/carol"), kg.IRI("http://x/dave")
	g := kg.NewGraph()
	g.AddAll(
		kg.T(alice, kg.RDFType, person),
		kg.T(carol, kg.RDFType, person),
		kg.T(dave, kg.RDFType, person),
		kg.T(alice, knows, bob),
		kg.T(dave, knows, carol),
	)
	s := newSetup(setup.NewClassConfig("Person", person), 1)
	s.Set(setup.KeyHeader, false)
	s.Set(setup.KeyProperties, []*setup.PropertyConfig{
		setup.NewComparisonConfig(knows, bob).WithLabel("knows Bob"),
	})

	tbl := generate(t, g, s)
	require.Equal(t, 3, tbl.Rows())

	yes := tbl.Cell(0, 0)
	assert.Equal(t, "✓", yes.Str)
	prov := tbl.Provenance(yes)
	assert.Equal(t, []kg.Triple{kg.T(alice, knows, bob)}, prov.Statements())
	v, ok := prov.Pattern(setup.Key(knows.Value, setup.PatternAcronymsOrSymbols))
	require.True(t, ok)
	assert.Equal(t, bob.String(), v)

	assert.Nil(t, tbl.Cell(1, 0), "carol has no knows statement")

	no := tbl.Cell(2, 0)
	require.NotNil(t, no)
	assert.Equal(t, "", no.Str)
	assert.Equal(t, []kg.Triple{kg.T(dave, knows, bob)}, tbl.Provenance(no).Statements())
}

func TestPatternResolution(t *testing.T) {
	alice := kg.IRI("http://x/alice")
	age := kg.IRI("http://x/age")
	g := kg.NewGraph()
	g.AddAll(
		kg.T(alice, kg.RDFType, person),
		kg.T(alice, age, kg.Literal("42", kg.XSDInteger)),
	)

	s := newSetup(setup.NewClassConfig("Person", person), 1)
	s.Set(setup.KeyHeader, false)
	s.PutList(setup.Key(age.Value, setup.PatternNumericRendering), setup.List(setup.NumericString))
	s.PutList(setup.Key(age.Value, setup.PatternNumberStringFormats), setup.List(setup.RomanNumeral))

	tbl := generate(t, g, s)
	c := tbl.Cell(0, 0)
	assert.Equal(t, "XLII", c.Str)
	v, _ := tbl.Provenance(c).Pattern(setup.PatternNumericRendering)
	assert.Equal(t, setup.NumericString, v)

	s = newSetup(setup.NewClassConfig("Person", person), 1)
	s.Delete(setup.PatternNumericRendering)
	gen := NewGenerator(kg.Analyze(g), kg.DefaultConverters())
	defer gen.Close()
	_, err := gen.Generate(s, NewIDCounter())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNoPattern))
	assert.Contains(t, err.Error(), "no configuration for pattern key NumericRendering")
}

func TestNativeValues(t *testing.T) {
	alice := kg.IRI("http://x/alice")
	born := kg.IRI("http://x/born")
	active := kg.IRI("http://x/active")
	g := kg.NewGraph()
	g.AddAll(
		kg.T(alice, kg.RDFType, person),
		kg.T(alice, born, kg.Literal("2020-01-01", kg.XSDDate)),
		kg.T(alice, active, kg.Literal("true", kg.XSDBoolean)),
	)
	s := newSetup(setup.NewClassConfig("Person", person), 1)
	s.Set(setup.KeyHeader, false)
	s.PutList(setup.PatternDateRendering, setup.List(setup.DateNumeric))
	s.PutList(setup.PatternDateDataFormats, setup.List("MM/DD/YYYY"))
	s.PutList(setup.PatternBooleanRendering, setup.List(setup.BooleanNumeric))
	s.PutList(setup.PatternBooleanTrueNumbers, setup.List(1.0))

	tbl := generate(t, g, s)
	a, b := tbl.Cell(0, 0), tbl.Cell(0, 1)
	assert.Equal(t, CellNumeric, a.Type)
	assert.Equal(t, 1.0, a.Num)
	assert.Equal(t, CellNumeric, b.Type)
	assert.Equal(t, 43831.0, b.Num)
	assert.Equal(t, "MM/DD/YYYY", b.DataFormat)
	assert.True(t, b.HasDataFormat)
}

func TestEmptyCells(t *testing.T) {
	g := peopleGraph(1)
	g.Add(kg.T(kg.IRI("http://x/p1"), kg.RDFType, person))

	s := newSetup(setup.NewClassConfig("Person", person), 1)
	s.PutList(setup.PatternEmptyCellRendering, setup.List(setup.EmptyBlankString))
	s.PutList(setup.PatternBlankStringWhitespaces, setup.List([]string{" ", "\t"}))
	s.PutList(setup.PatternBlankStringLengths, setup.List(3))

	tbl := generate(t, g, s)
	c := tbl.Cell(2, 0)
	require.NotNil(t, c)
	assert.Len(t, c.Str, 3)
	assert.Empty(t, strings.TrimSpace(c.Str))
	assert.Empty(t, tbl.Provenance(c).Statements())

	s = newSetup(setup.NewClassConfig("Person", person), 1)
	s.PutList(setup.PatternEmptyCellRendering, setup.List(setup.EmptyBooleanFalse))
	tbl = generate(t, g, s)
	assert.Equal(t, CellBoolean, tbl.Cell(2, 1).Type)
	assert.False(t, tbl.Cell(2, 1).Bool)
}

func TestResourceLabels(t *testing.T) {
	alice, bob := kg.IRI("http://x/alice"), kg.IRI("http://x/bob")
	dfki, acme := kg.IRI("http://x/dfki"), kg.IRI("http://x/acme")
	g := kg.NewGraph()
	g.AddAll(
		kg.T(alice, kg.RDFType, person),
		kg.T(bob, kg.RDFType, person),
		kg.T(alice, worksAt, dfki),
		kg.T(bob, worksAt, acme),
		kg.T(dfki, kg.RDFSLabel, kg.PlainLiteral("Deutsches Forschungszentrum")),
		kg.T(dfki, kg.RDFSLabel, kg.PlainLiteral("DFKI")),
	)
	s := newSetup(setup.NewClassConfig("Person", person), 1)
	s.Set(setup.KeyHeader, false)
	s.Set(setup.KeyLabelPropertyIterMax, 5)

	tbl := generate(t, g, s)
	assert.Equal(t, "DFKI", tbl.Cell(0, 0).Str)
	assert.Contains(t, tbl.Provenance(tbl.Cell(0, 0)).Statements(), kg.T(dfki, kg.RDFSLabel, kg.PlainLiteral("DFKI")))
	assert.Equal(t, "acme", tbl.Cell(1, 0).Str)
}

func TestTypeLabelProperties(t *testing.T) {
	alice, dfki := kg.IRI("http://x/alice"), kg.IRI("http://x/dfki")
	g := kg.NewGraph()
	g.AddAll(
		kg.T(alice, kg.RDFType, person),
		kg.T(dfki, kg.RDFType, org),
		kg.T(alice, worksAt, dfki),
		kg.T(dfki, abbr, kg.PlainLiteral("DFKI")),
		kg.T(dfki, kg.RDFSLabel, kg.PlainLiteral("Research Center")),
	)
	s := newSetup(setup.NewClassConfig("Person", person), 1)
	s.Set(setup.KeyHeader, false)
	s.PutList(setup.Key(org.Value, setup.KeyLabelProperties), setup.List([]kg.Term{abbr, kg.RDFSLabel}))

	tbl := generate(t, g, s)
	c := tbl.Cell(0, 0)
	assert.Equal(t, "DFKI Research Center", c.Str)
	v, ok := tbl.Provenance(c).Pattern(setup.Key(org.Value, setup.KeyLabelProperties))
	require.True(t, ok)
	assert.Equal(t, []string{abbr.Value, kg.RDFSLabel.Value}, v)
}

func TestColorRows(t *testing.T) {
	alice, bob := kg.IRI("http://x/alice"), kg.IRI("http://x/bob")
	g := kg.NewGraph()
	g.AddAll(
		kg.T(alice, kg.RDFType, person),
		kg.T(bob, kg.RDFType, person),
		kg.T(alice, status, kg.PlainLiteral("active")),
		kg.T(bob, status, kg.PlainLiteral("retired")),
		kg.T(bob, nick, kg.PlainLiteral("B")),
	)
	s := newSetup(setup.NewClassConfig("Person", person), 1)
	s.Set(setup.KeyHeader, false)
	s.Set(setup.KeyProperties, []*setup.PropertyConfig{setup.NewPropertyConfig(nick)})
	key := setup.Key(status.Value, "active", setup.PatternBackgroundColor)
	s.Set(key, "#ff0000")

	tbl := generate(t, g, s)
	c := tbl.Cell(0, 0)
	require.NotNil(t, c, "colored rows are materialized")
	assert.Equal(t, "", c.Str)
	assert.Equal(t, "#ff0000", c.BackgroundColor)
	v, _ := tbl.Provenance(c).Pattern(key)
	assert.Equal(t, "#ff0000", v)

	assert.Empty(t, tbl.Cell(1, 0).BackgroundColor)
}

func TestHeader(t *testing.T) {
	g := peopleGraph(1)
	g.Add(kg.T(kg.FOAFLastName, kg.RDFSLabel, kg.PlainLiteral("Surname")))
	s := newSetup(setup.NewClassConfig("Person", person), 1)
	s.Set(setup.KeyHeaderBackgroundColor, "#d3d3d3")
	s.Set(setup.KeyOffset, Offset{Row: 2, Col: 1})

	tbl := generate(t, g, s)
	h := tbl.Cell(0, 1)
	assert.Equal(t, "Surname", h.Str)
	assert.Equal(t, "C3", h.Address)
	assert.Equal(t, "#d3d3d3", h.BackgroundColor)
	assert.Contains(t, tbl.Provenance(h).Statements(), kg.T(kg.FOAFLastName, kg.RDFType, kg.RDFProperty))

	s = newSetup(setup.NewClassConfig("Person", person), 1)
	s.Set(setup.KeyProperties, []*setup.PropertyConfig{setup.NewPropertyConfig(kg.IRI("urn:nolocal"))})
	gen := NewGenerator(kg.Analyze(g), kg.DefaultConverters())
	defer gen.Close()
	_, err := gen.Generate(s, NewIDCounter())
	assert.True(t, errors.Is(err, errors.ErrCodeMissingLabel))
}

func TestHierarchyChildren(t *testing.T) {
	parent := kg.IRI("http://x/p")
	childProp := kg.IRI("http://x/hasPart")
	g := kg.NewGraph()
	g.AddAll(
		kg.T(parent, kg.RDFType, doc),
		kg.T(parent, childProp, kg.IRI("http://x/c2")),
		kg.T(parent, childProp, kg.IRI("http://x/c1")),
		kg.T(parent, nick, kg.PlainLiteral("P")),
	)
	s := newSetup(setup.NewClassConfig("Doc", doc), 1)
	s.Set(setup.KeyHeader, false)
	s.Set(setup.KeyProperties, []*setup.PropertyConfig{setup.NewPropertyConfig(nick)})
	s.Set(setup.KeyChildProperty, childProp)

	tbl := generate(t, g, s)
	assert.Equal(t, 3, tbl.Rows())
	assert.Equal(t, "P", tbl.Cell(0, 0).Str)
}

func TestInstanceFilter(t *testing.T) {
	g := peopleGraph(4)
	s := newSetup(setup.NewClassConfig("Person", person), 1)
	s.Set(setup.KeyInstanceFilter, InstanceFilter(func(inst kg.Term, _ *kg.Graph) bool {
		return inst.Value != "http://x/p0"
	}))
	tbl := generate(t, g, s)
	assert.Equal(t, 4, tbl.Rows())
	assert.Equal(t, "First1", tbl.Cell(1, 0).Str)
}

func TestExcelDate(t *testing.T) {
	tests := []struct {
		date time.Time
		want float64
	}{
		{time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(1900, 2, 28, 0, 0, 0, 0, time.UTC), 59},
		{time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC), 61},
		{time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 43831},
		{time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC), -1},
	}
	for _, tt := range tests {
		t.Run(tt.date.Format(time.DateOnly), func(t *testing.T) {
			assert.Equal(t, tt.want, ExcelDate(tt.date))
		})
	}
	assert.InDelta(t, 43831.5, ExcelDateTime(time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)), 1e-9)
}

func TestRoman(t *testing.T) {
	for n, want := range map[int]string{1: "I", 4: "IV", 9: "IX", 14: "XIV", 1994: "MCMXCIV", 0: "0"} {
		assert.Equal(t, want, Roman(n))
	}
}

func TestPickLabel(t *testing.T) {
	labels := []string{"bb", "a", "ccc", "dd"}
	assert.Equal(t, "a", pickLabel(labels, setup.LabelAlphabetical))
	assert.Equal(t, "a", pickLabel(labels, setup.LabelShortest))
	assert.Equal(t, "ccc", pickLabel(labels, setup.LabelLongest))
	assert.Equal(t, "bb", pickLabel([]string{"bb", "dd"}, setup.LabelLongest))
}

func TestExcelFormatter(t *testing.T) {
	f := NewExcelFormatter()
	defer f.Close()

	out, err := f.Format(0.5, "0.00")
	require.NoError(t, err)
	assert.Equal(t, "0.50", out)

	out, err = f.Format(12, "")
	require.NoError(t, err)
	assert.Equal(t, "12", out)
}

func TestSchemaFromSetup(t *testing.T) {
	g := peopleGraph(3)
	gen := NewGenerator(nil, kg.DefaultConverters())
	t.Cleanup(func() { _ = gen.Close() })

	s := newSetup(setup.NewClassConfig("Person", person), 1)
	_, err := gen.Generate(s, NewIDCounter())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeMissingKey))

	s.Set(setup.KeySchemaAnalysis, kg.Analyze(g))
	tbl, err := gen.Generate(s, NewIDCounter())
	require.NoError(t, err)
	assert.Equal(t, 4, tbl.Rows())
}
