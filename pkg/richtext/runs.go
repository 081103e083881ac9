package richtext

import (
	"github.com/xuri/excelize/v2"
)

// Default font of generated cells.
const (
	DefaultFontFamily = "Liberation Sans"
	DefaultFontSize   = 10
)

// Font returns the excelize font for the style.
func (s Style) Font() *excelize.Font {
	f := &excelize.Font{
		Bold:   s.Bold,
		Italic: s.Italic,
		Strike: s.Strike,
		Family: DefaultFontFamily,
		Size:   DefaultFontSize,
	}
	if s.Underline {
		f.Underline = "single"
	}
	if s.Color != "" {
		f.Color = s.Color
	}
	return f
}

// Runs splits the text at every span boundary and returns one excelize run
// per segment. Overlapping spans combine: flags are OR-ed and the color of
// the span opened last wins. Unstyled segments use the default font.
func (r Result) Runs() []excelize.RichTextRun {
	text := []rune(r.Text)
	if len(text) == 0 {
		return nil
	}

	cuts := make([]bool, len(text)+1)
	cuts[0], cuts[len(text)] = true, true
	for _, sp := range r.Spans {
		if sp.Start <= len(text) {
			cuts[sp.Start] = true
		}
		if sp.End <= len(text) {
			cuts[sp.End] = true
		}
	}

	var runs []excelize.RichTextRun
	start := 0
	for i := 1; i <= len(text); i++ {
		if !cuts[i] {
			continue
		}
		var st Style
		for _, sp := range r.Spans {
			if sp.Start <= start && i <= sp.End && sp.Start < sp.End {
				st.Bold = st.Bold || sp.Bold
				st.Italic = st.Italic || sp.Italic
				st.Underline = st.Underline || sp.Underline
				st.Strike = st.Strike || sp.Strike
				if sp.Color != "" {
					st.Color = sp.Color
				}
			}
		}
		runs = append(runs, excelize.RichTextRun{Text: string(text[start:i]), Font: st.Font()})
		start = i
	}
	return runs
}
