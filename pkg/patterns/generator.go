package patterns

import (
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/kg"
	"github.com/matzehuels/datasprout/pkg/setup"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultOverlapThreshold is the property overlap two classes need to
	// share a table.
	DefaultOverlapThreshold = 0.4

	// DefaultMultiTypeCount bounds the merged tables per replica.
	DefaultMultiTypeCount = 3

	// DefaultMaxColorSplit bounds the distinct objects of a color property.
	DefaultMaxColorSplit = 3

	// DefaultHeaderBackgroundColor is light gray.
	DefaultHeaderBackgroundColor = "#c0c0c0"
)

// =============================================================================
// Generator
// =============================================================================

// Generator creates Setups for a knowledge graph.
type Generator struct {
	Toggles Toggles
	Formats *Formats
	Logger  *log.Logger

	OverlapThreshold float64
	MultiTypeCount   int
	MaxColorSplit    int

	colorCodes strings.Builder
}

// New creates a Generator with default thresholds and a discarding logger.
func New(toggles Toggles, formats *Formats) *Generator {
	return &Generator{
		Toggles:          toggles,
		Formats:          formats,
		Logger:           log.NewWithOptions(io.Discard, log.Options{}),
		OverlapThreshold: DefaultOverlapThreshold,
		MultiTypeCount:   DefaultMultiTypeCount,
		MaxColorSplit:    DefaultMaxColorSplit,
	}
}

// ColorCodes returns the color assignments made so far, one
// "class | key => color" line each and a blank line after every replica.
func (g *Generator) ColorCodes() string { return g.colorCodes.String() }

// pools are the option lists shared by every Setup of one run.
type pools struct {
	booleanRendering  []any
	numericRendering  []any
	numberFormats     []any
	dateTimeRendering []any
	dateRendering     []any
	emptyRendering    []any
	labelStrategy     []any
	mergeStrategy     []any
	labelProperties   []any
}

func (g *Generator) pools() pools {
	p := pools{
		booleanRendering:  setup.List(setup.BooleanNative),
		numericRendering:  setup.List(setup.NumericNative),
		numberFormats:     []any{},
		dateTimeRendering: setup.List(setup.DateTimeNumeric),
		dateRendering:     setup.List(setup.DateNumeric),
		emptyRendering:    setup.List(setup.EmptyNative),
		labelStrategy:     setup.List(setup.LabelLongest),
		mergeStrategy:     setup.List(setup.MergeDelimiter),
		labelProperties:   setup.List(g.Formats.LabelProperties...),
	}
	if g.Toggles.NumericInformationAsText {
		p.booleanRendering = append(p.booleanRendering, setup.BooleanSymbol)
		p.numericRendering = append(p.numericRendering, setup.NumericString)
		p.numberFormats = append(p.numberFormats, setup.StringValueOf)
		p.dateRendering = append(p.dateRendering, setup.DateString)
		p.dateTimeRendering = append(p.dateTimeRendering, setup.DateTimeString)
	}
	if g.Toggles.AcronymsOrSymbols {
		p.labelStrategy = append(p.labelStrategy, setup.LabelShortest)
		p.labelProperties = append(p.labelProperties, setup.List(g.Formats.AcronymProperties...)...)
	}
	return p
}

// Generate creates n replicas of one Setup per table. Without the
// MultipleTypesInATable pattern there is one table per class with
// instances.
func (g *Generator) Generate(schema *kg.Schema, n int, rng *rand.Rand) ([]*setup.Setup, error) {
	if g.Formats == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "no formats configured")
	}
	if schema == nil {
		return nil, errors.New(errors.ErrCodeMissingKey, "%s not found", setup.KeySchemaAnalysis)
	}
	if n < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "number of workbooks must not be negative, got %d", n)
	}
	start := time.Now()

	p := g.pools()
	classConfigs := g.classConfigs(schema)

	var surfaceForms map[string][]any
	if g.Toggles.MultipleSurfaceForms {
		surfaceForms = g.surfaceForms(schema, classConfigs)
	}
	var colors map[kg.Term][]colorCandidate
	if g.Toggles.PropertyValueAsColor {
		colors = g.colorCandidates(schema, classConfigs)
	}
	var overlaps []classPair
	if g.Toggles.MultipleTypesInATable {
		overlaps = g.classOverlaps(schema, classConfigs)
	}

	var setups []*setup.Setup
	for range n {
		tables := classConfigs
		if g.Toggles.MultipleTypesInATable {
			tables = g.mergeClasses(schema, classConfigs, overlaps, rng)
		}
		for _, cc := range tables {
			s, err := g.assemble(schema, cc, p, surfaceForms, colors, rng)
			if err != nil {
				return nil, err
			}
			setups = append(setups, s)
		}
		g.colorCodes.WriteString("\n")
	}

	g.Logger.Debug("generated setups",
		"classes", len(classConfigs),
		"setups", len(setups),
		"patterns", strings.Join(g.Toggles.Enabled(), ","),
		"duration", time.Since(start))
	return setups, nil
}

// classConfigs returns one config per class with instances, labelled with
// the class's local name.
func (g *Generator) classConfigs(schema *kg.Schema) []*setup.ClassConfig {
	var out []*setup.ClassConfig
	for _, class := range schema.Classes() {
		if len(schema.Instances(class)) == 0 {
			continue
		}
		out = append(out, setup.NewClassConfig(kg.LocalName(class.Value), class))
	}
	return out
}

// properties returns the sorted union of the config's class properties
// without rdf:type.
func properties(schema *kg.Schema, cc *setup.ClassConfig) []kg.Term {
	seen := make(map[kg.Term]bool)
	var out []kg.Term
	for _, class := range cc.Classes() {
		for _, p := range schema.Properties(class) {
			if p == kg.RDFType || seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	kg.SortTerms(out)
	return out
}

func (g *Generator) assemble(
	schema *kg.Schema,
	cc *setup.ClassConfig,
	p pools,
	surfaceForms map[string][]any,
	colors map[kg.Term][]colorCandidate,
	rng *rand.Rand,
) (*setup.Setup, error) {
	f := g.Formats
	s := setup.New()
	s.Set(setup.KeyClasses, cc)
	s.Set(setup.KeyRandom, rng)
	s.Set(setup.KeyHeader, true)
	s.Set(setup.KeyHeaderBackgroundColor, DefaultHeaderBackgroundColor)
	s.Set(setup.KeyLocale, f.Locale)
	s.Set(setup.KeySchemaAnalysis, schema)
	if cc.IsMulti() {
		s.Set(setup.KeyInstanceRandomOrder, true)
	}

	s.PutList(setup.PatternBooleanRendering, p.booleanRendering)
	s.PutList(setup.PatternBooleanNativeDataFormats, setup.List(f.BooleanNativeDataFormats...))
	s.PutList(setup.PatternBooleanTrueSymbols, setup.List(f.BooleanTrueSymbols...))
	s.PutList(setup.PatternBooleanFalseSymbols, setup.List(f.BooleanFalseSymbols...))
	s.PutList(setup.PatternNumericRendering, p.numericRendering)
	s.PutList(setup.PatternNumericNativeDataFormats, setup.List(f.NumericNativeDataFormats...))
	s.PutList(setup.PatternNumberStringFormats, p.numberFormats)
	s.PutList(setup.PatternDateTimeRendering, p.dateTimeRendering)
	s.PutList(setup.PatternDateTimeDataFormats, setup.List(f.DateTimeDataFormats...))
	s.PutList(setup.PatternDateTimeStringFormats, setup.List(f.DateTimeStringFormats...))
	s.PutList(setup.PatternDateRendering, p.dateRendering)
	s.PutList(setup.PatternDateDataFormats, setup.List(f.DateDataFormats...))
	s.PutList(setup.PatternDateStringFormats, setup.List(f.DateStringFormats...))
	s.PutList(setup.PatternEmptyCellRendering, p.emptyRendering)
	s.PutList(setup.PatternMergeCellStrategy, p.mergeStrategy)
	s.PutList(setup.KeyLabelProperties, p.labelProperties)
	s.PutList(setup.PatternLabelPickStrategy, p.labelStrategy)
	s.PutList(setup.PatternMergeCellDelimiters, setup.List(f.MergeCellDelimiters...))

	var configs []*setup.PropertyConfig
	for _, prop := range properties(schema, cc) {
		configs = append(configs, setup.NewPropertyConfig(prop))
	}

	for _, key := range sortedKeys(surfaceForms) {
		s.PutList(key, surfaceForms[key])
	}

	if g.Toggles.IntraCellAdditionalInformation {
		var err error
		if configs, err = g.intraCell(schema, cc, rng); err != nil {
			return nil, err
		}
	}

	if g.Toggles.PartialFormattingIndicatesRelations {
		for _, pc := range configs {
			if !pc.PartialFormattingNeeded {
				continue
			}
			tags := append([]string(nil), PartialFormattingTags...)
			props := pc.Properties()
			for i := 0; i < len(props)-1; i++ {
				s.Set(setup.Key(props[i].Value, setup.PatternPartialFormatting), randomlyRemove(&tags, rng))
			}
		}
	}

	if g.Toggles.OutdatedIsFormatted {
		for _, prop := range f.OutdatedProperties {
			s.Set(setup.Key(prop.Value, setup.PatternPartialFormatting), OutdatedTag)
		}
	}

	if g.Toggles.PropertyValueAsColor {
		configs = g.assignColors(schema, s, cc, configs, colors, rng)
	}

	s.Set(setup.KeyProperties, configs)
	return s, nil
}

// PartialFormattingTags are the "open|close" pairs that tell the
// properties of a merged column apart.
var PartialFormattingTags = []string{
	"<b>|</b>",
	"<i>|</i>",
	"<u>|</u>",
	"<font color='#ff0000'>|</font>",
	"<font color='#008000'>|</font>",
	"<font color='#0000ff'>|</font>",
}

// OutdatedTag strikes through outdated values.
const OutdatedTag = "<strike>|</strike>"
