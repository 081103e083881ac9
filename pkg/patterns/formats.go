package patterns

import (
	"golang.org/x/text/language"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/kg"
)

// Formats are the locale-dependent option pools and the property lists
// that drive label patterns.
type Formats struct {
	Locale language.Tag

	BooleanNativeDataFormats []string
	BooleanTrueSymbols       []string
	BooleanFalseSymbols      []string
	NumericNativeDataFormats []string
	DateTimeDataFormats      []string
	DateTimeStringFormats    []string // time layouts
	DateDataFormats          []string
	DateStringFormats        []string // time layouts
	MergeCellDelimiters      []string

	LabelProperties        []kg.Term
	AcronymProperties      []kg.Term
	PartialLabelProperties []kg.Term
	OutdatedProperties     []kg.Term
}

// ParseLocale accepts English and German locale names such as "en",
// "en-US" or "de".
func ParseLocale(s string) (language.Tag, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, errors.Wrap(errors.ErrCodeUnsupportedLocale, err, "%s locale not supported", s)
	}
	base, _ := tag.Base()
	switch base.String() {
	case "en":
		return language.English, nil
	case "de":
		return language.German, nil
	}
	return language.Und, errors.New(errors.ErrCodeUnsupportedLocale, "%s locale not supported", s)
}

// NewFormats returns the default pools for locale.
func NewFormats(locale string) (*Formats, error) {
	tag, err := ParseLocale(locale)
	if err != nil {
		return nil, err
	}
	f := &Formats{
		Locale:                   tag,
		NumericNativeDataFormats: []string{""},
		MergeCellDelimiters:      []string{"\n"},
		LabelProperties:          []kg.Term{kg.RDFSLabel},
		BooleanTrueSymbols:       []string{"✓"},
		BooleanFalseSymbols:      []string{""},
	}
	switch tag {
	case language.English:
		f.BooleanNativeDataFormats = []string{`"Yes";;"No";`}
		f.DateTimeDataFormats = []string{"MM/DD/YYYY HH:mm"}
		f.DateTimeStringFormats = []string{"01/02/2006 15:04:05", "2006-01-02 15:04:05", "15:04:05 2006-01-02", "20060102-150405"}
		f.DateDataFormats = []string{"MM/DD/YYYY"}
		f.DateStringFormats = []string{"01/02/2006", "2006-01-02", "20060102"}
	case language.German:
		f.BooleanNativeDataFormats = []string{`"Ja";;"Nein";`}
		f.DateTimeDataFormats = []string{"DD.MM.YYYY HH:mm"}
		f.DateTimeStringFormats = []string{"02.01.2006 15:04:05", "2006-01-02 15:04:05", "15:04:05 2006-01-02", "20060102-150405"}
		f.DateDataFormats = []string{"DD.MM.YYYY"}
		f.DateStringFormats = []string{"02.01.2006", "2006-01-02", "20060102"}
	}
	return f, nil
}

// AddNoisySymbols widens the merge delimiters and boolean symbols. Every
// mode except the clean one uses them.
func (f *Formats) AddNoisySymbols() {
	f.MergeCellDelimiters = append(f.MergeCellDelimiters, ", ", " ", " + ", " & ")
	switch f.Locale {
	case language.English:
		f.BooleanTrueSymbols = append(f.BooleanTrueSymbols, "OK", "true", "yes", "x")
		f.BooleanFalseSymbols = append(f.BooleanFalseSymbols, "-", "false", "no", "not")
	case language.German:
		f.BooleanTrueSymbols = append(f.BooleanTrueSymbols, "OK", "wahr", "ja", "x")
		f.BooleanFalseSymbols = append(f.BooleanFalseSymbols, "-", "falsch", "nein", "nicht")
	}
}

// AddDefaultProperties registers the label, acronym, partial-label and
// outdated properties of the common vocabularies.
func (f *Formats) AddDefaultProperties() {
	f.LabelProperties = append(f.LabelProperties,
		kg.FOAFName, kg.DCTermsTitle, kg.GLHasID, kg.DC11Title, kg.ExampleName, kg.BenchBooktitle)
	f.AcronymProperties = append(f.AcronymProperties,
		kg.FOAFFirstName, kg.FOAFLastName, kg.GLHasAbbreviation)
	f.PartialLabelProperties = append(f.PartialLabelProperties,
		kg.FOAFFirstName, kg.FOAFLastName, kg.GLWorksAt, kg.FOAFHomepage, kg.DCTermsIssued,
		kg.ExampleEmailAddress, kg.ExampleName, kg.BenchBooktitle)
	f.OutdatedProperties = append(f.OutdatedProperties, kg.GLWasFormerEditor)
}
