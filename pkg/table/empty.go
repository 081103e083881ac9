package table

import (
	"strings"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/setup"
)

// putNoObject renders a missing value. It returns false when the cell is
// to be left out.
func (g *Generator) putNoObject(t *Table, pc *setup.PropertyConfig, c *Cell) (bool, error) {
	rend, err := selectPattern[setup.EmptyCellRendering](t, pc, c, setup.PatternEmptyCellRendering)
	if err != nil {
		return false, err
	}

	switch rend {
	case setup.EmptyNative:
		return false, nil

	case setup.EmptyString:
		c.setString("")

	case setup.EmptyBlankString:
		whitespaces, err := selectPattern[[]string](t, pc, c, setup.PatternBlankStringWhitespaces)
		if err != nil {
			return false, err
		}
		n, err := selectPattern[int](t, pc, c, setup.PatternBlankStringLengths)
		if err != nil {
			return false, err
		}
		rng, err := t.Setup.Rand()
		if err != nil {
			return false, err
		}
		var sb strings.Builder
		if len(whitespaces) > 0 {
			for range n {
				sb.WriteString(whitespaces[rng.IntN(len(whitespaces))])
			}
		}
		if sb.Len() == 0 {
			return false, errors.New(errors.ErrCodeInvalidConfiguration, "should be blank but was empty")
		}
		c.setString(sb.String())

	case setup.EmptySymbol:
		sym, err := selectPattern[string](t, pc, c, setup.PatternEmptyCellSymbols)
		if err != nil {
			return false, err
		}
		c.setString(sym)

	case setup.EmptyNumeric:
		n, err := selectPattern[float64](t, pc, c, setup.PatternEmptyCellNumbers)
		if err != nil {
			return false, err
		}
		c.setNumeric(n)

	case setup.EmptyBooleanTrue, setup.EmptyBooleanFalse:
		c.setBoolean(rend == setup.EmptyBooleanTrue)

	default:
		return false, errors.New(errors.ErrCodeInvalidConfiguration, "unknown empty cell rendering %q", rend)
	}
	return true, nil
}
