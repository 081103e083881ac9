package setup

import "strings"

// BooleanRendering is how a boolean value is shown.
type BooleanRendering string

const (
	// BooleanNative writes a spreadsheet boolean with a BooleanNativeDataFormats format.
	BooleanNative BooleanRendering = "Native"
	// BooleanSymbol writes one of BooleanTrueSymbols / BooleanFalseSymbols.
	BooleanSymbol BooleanRendering = "Symbol"
	// BooleanNumeric writes one of BooleanTrueNumbers / BooleanFalseNumbers.
	BooleanNumeric BooleanRendering = "Numeric"
)

// NumericRendering is how a number is shown.
type NumericRendering string

const (
	NumericNative NumericRendering = "Native"
	NumericString NumericRendering = "String"
)

// NumberStringFormat is how a number rendered as text is spelled.
type NumberStringFormat string

const (
	// StringValueOf prints integers plainly and other numbers with the
	// locale's decimal separator.
	StringValueOf NumberStringFormat = "StringValueOf"
	// RomanNumeral prints the integer part as a Roman numeral.
	RomanNumeral NumberStringFormat = "RomanNumeral"
)

// DateTimeRendering is how an xsd:dateTime is shown.
type DateTimeRendering string

const (
	DateTimeNumeric DateTimeRendering = "Numeric"
	DateTimeString  DateTimeRendering = "String"
)

// DateRendering is how an xsd:date is shown.
type DateRendering string

const (
	DateNumeric DateRendering = "Numeric"
	DateString  DateRendering = "String"
)

// EmptyCellRendering is how a missing value is shown.
type EmptyCellRendering string

const (
	// EmptyNative leaves the cell out entirely.
	EmptyNative       EmptyCellRendering = "Native"
	EmptyString       EmptyCellRendering = "EmptyString"
	EmptyBlankString  EmptyCellRendering = "BlankString"
	EmptySymbol       EmptyCellRendering = "Symbol"
	EmptyNumeric      EmptyCellRendering = "Numeric"
	EmptyBooleanTrue  EmptyCellRendering = "BooleanTrue"
	EmptyBooleanFalse EmptyCellRendering = "BooleanFalse"
)

// LabelPickStrategy picks one of several labels of a resource.
type LabelPickStrategy string

const (
	LabelLongest      LabelPickStrategy = "Longest"
	LabelShortest     LabelPickStrategy = "Shortest"
	LabelAlphabetical LabelPickStrategy = "Alphabetical"
)

// MergeCellStrategy is how several values share one cell.
type MergeCellStrategy string

const (
	// MergeDelimiter joins values with one of MergeCellDelimiters.
	MergeDelimiter MergeCellStrategy = "Delimiter"
)

// Pattern keys read by the table renderer.
const (
	PatternBooleanRendering         = "BooleanRendering"
	PatternBooleanNativeDataFormats = "BooleanNativeDataFormats"
	PatternBooleanTrueSymbols       = "BooleanTrueSymbols"
	PatternBooleanFalseSymbols      = "BooleanFalseSymbols"
	PatternBooleanTrueNumbers       = "BooleanTrueNumbers"
	PatternBooleanFalseNumbers      = "BooleanFalseNumbers"
	PatternNumericRendering         = "NumericRendering"
	PatternNumericNativeDataFormats = "NumericNativeDataFormats"
	PatternNumberStringFormats      = "NumberStringFormats"
	PatternDateTimeRendering        = "DateTimeRendering"
	PatternDateTimeDataFormats      = "DateTimeDataFormats"
	PatternDateTimeStringFormats    = "DateTimeStringFormats"
	PatternDateRendering            = "DateRendering"
	PatternDateDataFormats          = "DateDataFormats"
	PatternDateStringFormats        = "DateStringFormats"
	PatternEmptyCellRendering       = "EmptyCellRendering"
	PatternBlankStringWhitespaces   = "BlankStringWhitespaces"
	PatternBlankStringLengths       = "BlankStringLengths"
	PatternEmptyCellSymbols         = "EmptyCellSymbols"
	PatternEmptyCellNumbers         = "EmptyCellNumbers"
	PatternLabelPickStrategy        = "LabelPickStrategy"
	PatternMergeCellStrategy        = "MergeCellStrategy"
	PatternMergeCellDelimiters      = "MergeCellDelimiters"
)

// Pattern names recorded in provenance and used as key suffixes.
const (
	PatternPartialFormatting     = "PartialFormattingIndicatesRelations"
	PatternAcronymsOrSymbols     = "AcronymsOrSymbols"
	PatternForegroundColor       = "ForegroundColor"
	PatternBackgroundColor       = "BackgroundColor"
	PatternIntraCell             = "intra-CellAdditionalInformation"
	PatternMultipleTypesInATable = "MultipleTypesInATable"
)

// Table-level keys.
const (
	KeyHeader                = "header"
	KeyHeaderBackgroundColor = "headerBackgroundColor"
	KeyInstanceRandomOrder   = "instanceRandomOrder"
	KeyLocale                = "locale"
	KeyOffset                = "offset"
	KeyLabelPropertyIterMax  = "LabelPropertyIterMax"
	KeyChildProperty         = "MultipleTypesInATable.ChildProperty"
)

// DefaultLabelPropertyIterMax bounds label-property sampling per resource.
const DefaultLabelPropertyIterMax = 100

// Key joins key parts with ".", e.g. Key(prop, "BooleanRendering").
func Key(parts ...string) string { return strings.Join(parts, ".") }
