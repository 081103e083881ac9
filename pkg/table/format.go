package table

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/setup"
)

// Formatter renders a number the way a spreadsheet shows it under a
// number format.
type Formatter interface {
	Format(v float64, numFmt string) (string, error)
	Close() error
}

const scratchSheet = "Sheet1"

// ExcelFormatter formats numbers by writing them into a scratch workbook
// and reading back the displayed value.
type ExcelFormatter struct {
	mu     sync.Mutex
	file   *excelize.File
	styles map[string]int
}

// NewExcelFormatter creates a formatter backed by an in-memory workbook.
func NewExcelFormatter() *ExcelFormatter {
	return &ExcelFormatter{file: excelize.NewFile(), styles: make(map[string]int)}
}

// Format returns v as displayed with numFmt. The empty format is the
// General format.
func (f *ExcelFormatter) Format(v float64, numFmt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.file.SetCellValue(scratchSheet, "A1", v); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "scratch value")
	}
	style := 0
	if numFmt != "" {
		id, ok := f.styles[numFmt]
		if !ok {
			nf := numFmt
			var err error
			id, err = f.file.NewStyle(&excelize.Style{CustomNumFmt: &nf})
			if err != nil {
				return "", errors.Wrap(errors.ErrCodeInvalidFormatting, err, "number format %q", numFmt)
			}
			f.styles[numFmt] = id
		}
		style = id
	}
	if err := f.file.SetCellStyle(scratchSheet, "A1", "A1", style); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "scratch style")
	}
	out, err := f.file.GetCellValue(scratchSheet, "A1")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormatting, err, "format %v with %q", v, numFmt)
	}
	return out, nil
}

// Close releases the scratch workbook.
func (f *ExcelFormatter) Close() error { return f.file.Close() }

// =============================================================================
// Display conversion
// =============================================================================

// display returns the text form of a rendered cell, used when cells are
// merged or wrapped in formatting tags.
func (g *Generator) display(t *Table, pc *setup.PropertyConfig, c *Cell) (string, error) {
	switch c.Type {
	case CellString:
		if c.RichText != "" {
			return c.RichText, nil
		}
		return c.Str, nil
	case CellNumeric:
		return g.numberToString(t, pc, c, c.Num, c.Num == float64(int64(c.Num)))
	case CellBoolean:
		return g.booleanToString(t, pc, c, c.Bool)
	}
	return "", errors.New(errors.ErrCodeUnknownCellType, "no toString implemented for %q", c.Type)
}

func (g *Generator) numberToString(t *Table, pc *setup.PropertyConfig, c *Cell, v float64, integer bool) (string, error) {
	if c.HasDataFormat {
		return g.Formatter.Format(v, c.DataFormat)
	}
	nf, err := selectPattern[setup.NumberStringFormat](t, pc, c, setup.PatternNumberStringFormats)
	if err != nil {
		return "", err
	}
	switch nf {
	case setup.RomanNumeral:
		return Roman(int(v)), nil
	case setup.StringValueOf:
		if integer {
			return strconv.FormatInt(int64(v), 10), nil
		}
		return formatDecimal(locale(t.Setup), v), nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfiguration, "unknown number string format %q", nf)
}

func (g *Generator) booleanToString(t *Table, pc *setup.PropertyConfig, c *Cell, b bool) (string, error) {
	if c.HasDataFormat {
		v := 0.0
		if b {
			v = 1
		}
		return g.Formatter.Format(v, c.DataFormat)
	}
	name := setup.PatternBooleanFalseSymbols
	if b {
		name = setup.PatternBooleanTrueSymbols
	}
	return selectPattern[string](t, pc, c, name)
}

func locale(s *setup.Setup) language.Tag {
	if s.Has(setup.KeyLocale) {
		if tag, err := setup.ValueAs[language.Tag](s, setup.KeyLocale); err == nil {
			return tag
		}
	}
	return language.English
}

func formatDecimal(tag language.Tag, v float64) string {
	p := message.NewPrinter(tag)
	return p.Sprint(number.Decimal(v, number.NoSeparator(), number.MaxFractionDigits(15)))
}

var romans = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// Roman returns n as a Roman numeral. Numbers below 1 have no Roman form
// and are printed in decimal.
func Roman(n int) string {
	if n < 1 {
		return strconv.Itoa(n)
	}
	var sb strings.Builder
	for _, r := range romans {
		for n >= r.value {
			sb.WriteString(r.symbol)
			n -= r.value
		}
	}
	return sb.String()
}

// ExcelDate returns the serial number of a date in the 1900 date system.
// Like the spreadsheet, it counts the nonexistent 1900-02-29, so serials
// from 1900-03-01 on are one higher than the day count. Dates before 1900
// return -1.
func ExcelDate(t time.Time) float64 {
	if t.Year() < 1900 {
		return -1
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	epoch := time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	serial := float64(day.Sub(epoch) / (24 * time.Hour))
	if serial >= 60 {
		serial++
	}
	return serial
}

// ExcelDateTime returns ExcelDate plus the time of day as a fraction.
func ExcelDateTime(t time.Time) float64 {
	d := ExcelDate(t)
	if d < 0 {
		return d
	}
	secs := t.Hour()*3600 + t.Minute()*60 + t.Second()
	return d + float64(secs)/86400
}
