package kg

import (
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/datasprout/pkg/errors"
)

// Value is the typed value of a literal. It is a closed set of variants:
// [Str], [Num], [Bool], [Date] and [DateTime]. Renderers switch over it
// exhaustively.
type Value interface {
	isValue()
}

// Str is a string value.
type Str string

// Num is a numeric value. Integer is set when the literal's datatype
// is one of the XSD integer types.
type Num struct {
	Float   float64
	Integer bool
}

// Bool is a boolean value.
type Bool bool

// Date is an xsd:date value at midnight UTC.
type Date time.Time

// DateTime is an xsd:dateTime value.
type DateTime time.Time

func (Str) isValue()      {}
func (Num) isValue()      {}
func (Bool) isValue()     {}
func (Date) isValue()     {}
func (DateTime) isValue() {}

// Converter turns the lexical form of a literal with an unrecognised
// datatype into a value.
type Converter func(lexical string) (Value, error)

// Converters maps datatype IRIs to conversion functions. It is built once
// per pipeline run and handed to the renderer.
type Converters map[string]Converter

// DefaultConverters returns the conversion table used by the pipeline.
func DefaultConverters() Converters {
	return Converters{
		BSBMUSD: func(lex string) (Value, error) {
			f, err := strconv.ParseFloat(strings.TrimSpace(lex), 64)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse USD value %q", lex)
			}
			return Num{Float: f}, nil
		},
	}
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02Z07:00",
}

// ValueOf returns the typed value of a literal term. XSD strings,
// numbers, booleans, dates and date-times are built in. Every other
// datatype is looked up in conv, and fails with UNKNOWN_DATATYPE when
// absent.
func ValueOf(t Term, conv Converters) (Value, error) {
	if !t.IsLiteral() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s is not a literal", t)
	}
	lex := t.Value
	switch t.Datatype {
	case XSDString, RDFLangString, "":
		return Str(lex), nil
	case XSDInteger, XSDInt, XSDLong, XSDShort, XSDByte, XSDNonNegInt, XSDPositiveInt:
		i, err := strconv.ParseInt(strings.TrimSpace(lex), 10, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", t)
		}
		return Num{Float: float64(i), Integer: true}, nil
	case XSDDecimal, XSDDouble, XSDFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(lex), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", t)
		}
		return Num{Float: f}, nil
	case XSDBoolean:
		switch strings.TrimSpace(lex) {
		case "true", "1":
			return Bool(true), nil
		case "false", "0":
			return Bool(false), nil
		}
		return nil, errors.New(errors.ErrCodeInvalidFormat, "parse %s: not a boolean", t)
	case XSDDate:
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, lex); err == nil {
				return Date(time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)), nil
			}
		}
		return nil, errors.New(errors.ErrCodeInvalidFormat, "parse %s: not a date", t)
	case XSDDateTime:
		for _, layout := range dateTimeLayouts {
			if d, err := time.Parse(layout, lex); err == nil {
				return DateTime(d), nil
			}
		}
		return nil, errors.New(errors.ErrCodeInvalidFormat, "parse %s: not a dateTime", t)
	}
	if fn, ok := conv[t.Datatype]; ok {
		return fn(lex)
	}
	return nil, errors.New(errors.ErrCodeUnknownDatatype, "%s no conversion function found", t.Datatype)
}
