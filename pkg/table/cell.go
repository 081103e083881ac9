package table

import (
	"fmt"
	"sync/atomic"
)

// CellType is the spreadsheet type of a cell value.
type CellType string

const (
	CellString  CellType = "string"
	CellNumeric CellType = "numeric"
	CellBoolean CellType = "boolean"
)

// Cell is one rendered spreadsheet cell. Row and Col are grid positions;
// Address is the sheet address including the table offset, and is empty
// for the temporary cells built while merging.
type Cell struct {
	ID      int
	Row     int
	Col     int
	Address string

	Type     CellType
	Str      string
	RichText string // tagged text, see package richtext
	Num      float64
	Bool     bool

	// DataFormat is the spreadsheet number format. HasDataFormat
	// distinguishes the empty format from no format.
	DataFormat    string
	HasDataFormat bool

	FontColor       string // "#rrggbb"
	BackgroundColor string // "#rrggbb"
	Rotation        int    // text rotation in degrees
}

func (c *Cell) setString(s string) {
	c.Type, c.Str = CellString, s
}

func (c *Cell) setRichText(s string) {
	c.Type, c.RichText, c.Str = CellString, s, ""
	c.Num, c.Bool = 0, false
	c.DataFormat, c.HasDataFormat = "", false
}

func (c *Cell) setNumeric(f float64) {
	c.Type, c.Num = CellNumeric, f
}

func (c *Cell) setBoolean(b bool) {
	c.Type, c.Bool = CellBoolean, b
}

func (c *Cell) setDataFormat(f string) {
	c.DataFormat, c.HasDataFormat = f, true
}

// IsRichText reports whether the cell holds tagged text.
func (c *Cell) IsRichText() bool {
	return c.Type == CellString && c.RichText != ""
}

// Value returns the cell value as shown in the CSV dump: the string, the
// number or the boolean.
func (c *Cell) Value() string {
	switch c.Type {
	case CellNumeric:
		return fmt.Sprint(c.Num)
	case CellBoolean:
		return fmt.Sprint(c.Bool)
	}
	if c.RichText != "" {
		return c.RichText
	}
	return c.Str
}

func (c *Cell) String() string {
	return fmt.Sprintf("Cell{id=%d %s %s=%q}", c.ID, c.Address, c.Type, c.Value())
}

// IDCounter hands out cell ids. Ids start at 1; 0 marks cells that were
// added after rendering and carry no statements.
type IDCounter struct {
	last atomic.Int64
}

// NewIDCounter returns a counter starting at 1.
func NewIDCounter() *IDCounter { return &IDCounter{} }

// Next returns the next id.
func (c *IDCounter) Next() int { return int(c.last.Add(1)) }

// Peek returns the last id handed out.
func (c *IDCounter) Peek() int { return int(c.last.Load()) }
