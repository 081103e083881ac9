package workbook

import (
	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/datasprout/pkg/errors"
	pkgio "github.com/matzehuels/datasprout/pkg/io"
	"github.com/matzehuels/datasprout/pkg/richtext"
	"github.com/matzehuels/datasprout/pkg/table"
)

// ProvenanceAuthor is the author of provenance cell comments.
const ProvenanceAuthor = "Provenance"

// styleKey identifies a cell style; cells with equal keys share a style.
type styleKey struct {
	fontColor  string
	background string
	numFmt     string
	hasNumFmt  bool
	rotation   int
}

// drawer writes tables into the sheets of one excelize file.
type drawer struct {
	file     *excelize.File
	styles   map[styleKey]int
	comments bool
}

func newDrawer(f *excelize.File, comments bool) *drawer {
	return &drawer{file: f, styles: make(map[styleKey]int), comments: comments}
}

// drawTable writes every cell of t to sheet at the table offset.
func (d *drawer) drawTable(sheet string, t *table.Table) error {
	for row := range t.Grid {
		for col, c := range t.Grid[row] {
			if c == nil {
				continue
			}
			if err := d.drawCell(sheet, t, c, row, col); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *drawer) drawCell(sheet string, t *table.Table, c *table.Cell, row, col int) error {
	axis := c.Address
	if axis == "" {
		var err error
		if axis, err = excelize.CoordinatesToCellName(col+1+t.Offset.Col, row+1+t.Offset.Row); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "cell %d,%d", row, col)
		}
	}

	var err error
	switch c.Type {
	case table.CellString:
		if c.IsRichText() {
			var res richtext.Result
			if res, err = richtext.Parse(c.RichText); err != nil {
				return err
			}
			err = d.file.SetCellRichText(sheet, axis, res.Runs())
		} else {
			err = d.file.SetCellStr(sheet, axis, c.Str)
		}
	case table.CellNumeric:
		err = d.file.SetCellFloat(sheet, axis, c.Num, -1, 64)
	case table.CellBoolean:
		err = d.file.SetCellBool(sheet, axis, c.Bool)
	default:
		return errors.New(errors.ErrCodeUnknownCellType, "%s not implemented yet", c.Type)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s!%s", sheet, axis)
	}

	if id, ok, err := d.style(c); err != nil {
		return err
	} else if ok {
		if err := d.file.SetCellStyle(sheet, axis, axis, id); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "style %s!%s", sheet, axis)
		}
	}

	if d.comments {
		return d.comment(sheet, axis, t.Provenance(c))
	}
	return nil
}

// style returns the cached style for c. Cells without format, colors or
// rotation keep the default style.
func (d *drawer) style(c *table.Cell) (int, bool, error) {
	key := styleKey{
		fontColor:  c.FontColor,
		background: c.BackgroundColor,
		hasNumFmt:  c.HasDataFormat && c.DataFormat != "",
		rotation:   c.Rotation,
	}
	if key.hasNumFmt {
		key.numFmt = c.DataFormat
	}
	if key.fontColor == "" && key.background == "" && !key.hasNumFmt && key.rotation == 0 {
		return 0, false, nil
	}
	if id, ok := d.styles[key]; ok {
		return id, true, nil
	}

	st := &excelize.Style{}
	if key.hasNumFmt {
		numFmt := key.numFmt
		st.CustomNumFmt = &numFmt
	}
	if key.fontColor != "" {
		st.Font = &excelize.Font{
			Family: richtext.DefaultFontFamily,
			Size:   richtext.DefaultFontSize,
			Color:  key.fontColor,
		}
	}
	if key.background != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{key.background}}
	}
	if key.rotation != 0 {
		st.Alignment = &excelize.Alignment{TextRotation: key.rotation}
	}
	id, err := d.file.NewStyle(st)
	if err != nil {
		return 0, false, errors.Wrap(errors.ErrCodeInvalidFormatting, err, "cell style")
	}
	d.styles[key] = id
	return id, true, nil
}

// comment attaches the cell's statements as prefix-free Turtle.
func (d *drawer) comment(sheet, axis string, prov *table.Provenance) error {
	if prov == nil || len(prov.Statements()) == 0 {
		return nil
	}
	ttl, err := pkgio.FormatStatements(prov.Statements())
	if err != nil {
		return err
	}
	err = d.file.AddComment(sheet, excelize.Comment{
		Cell:   axis,
		Author: ProvenanceAuthor,
		Text:   ttl,
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "comment %s!%s", sheet, axis)
	}
	return nil
}
