// Package richtext parses the small tag language used for partially
// formatted cells.
//
// The vocabulary is b, i, u, strike and font color='#rrggbb'. Outside of
// tags, &lt; and &gt; decode to < and >:
//
//	res, err := richtext.Parse("<b>ab<font color='#ff0000'>cd</font></b>")
//	// res.Text  == "abcd"
//	// res.Spans == [{0 4 bold} {2 4 color #ff0000}]
//
// Offsets count runes, not bytes.
package richtext

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/matzehuels/datasprout/pkg/errors"
)

// Style is the formatting of one span.
type Style struct {
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Color     string // "#rrggbb", or "" for the default color
}

// Span is a styled rune range [Start, End) of the parsed text.
type Span struct {
	Start, End int
	Style
}

// Result is the plain text and its styled spans.
type Result struct {
	Text  string
	Spans []Span
}

type state int

const (
	outside state = iota
	inTag
)

// Parse converts tagged text into plain text and spans. Spans covering the
// same range are merged: flags are OR-ed and the last color wins. Spans
// appear in the order their tags were opened.
//
// A closing tag without a matching opening tag, a tag that is never
// closed, or an unterminated '<' fails with UNBALANCED_TAG.
func Parse(s string) (Result, error) {
	var (
		out     []rune
		st      = outside
		tagName strings.Builder
		spans   []*Span
		open    = make(map[string][]*Span)
	)

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case st == outside && c == '<':
			st = inTag
			tagName.Reset()

		case st == inTag && c == '>':
			st = outside
			raw := tagName.String()
			if strings.HasPrefix(raw, "/") {
				name := tagNameOf(raw[1:])
				stack := open[name]
				if len(stack) == 0 {
					return Result{}, errors.New(errors.ErrCodeUnbalancedTag,
						"closing tag </%s> has no opening tag in %q", name, s)
				}
				stack[len(stack)-1].End = len(out)
				open[name] = stack[:len(stack)-1]
				continue
			}

			sp := &Span{Start: len(out), End: -1}
			name := tagNameOf(raw)
			switch name {
			case "b":
				sp.Bold = true
			case "i":
				sp.Italic = true
			case "u":
				sp.Underline = true
			case "strike":
				sp.Strike = true
			case "font":
				color, err := fontColor(raw)
				if err != nil {
					return Result{}, err
				}
				sp.Color = color
			}
			open[name] = append(open[name], sp)
			spans = append(spans, sp)

		case st == inTag:
			tagName.WriteRune(c)

		default:
			if i+4 <= len(runes) {
				switch string(runes[i : i+4]) {
				case "&lt;":
					c, i = '<', i+3
				case "&gt;":
					c, i = '>', i+3
				}
			}
			out = append(out, c)
		}
	}

	if st == inTag {
		return Result{}, errors.New(errors.ErrCodeUnbalancedTag, "unterminated tag in %q", s)
	}
	for _, sp := range spans {
		if sp.Start > sp.End {
			return Result{}, errors.New(errors.ErrCodeUnbalancedTag,
				"span [%d,%d) index wrong for rich text: %q", sp.Start, sp.End, s)
		}
	}

	return Result{Text: string(out), Spans: merge(spans)}, nil
}

func tagNameOf(raw string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(raw), " ")
	return strings.ToLower(name)
}

// fontColor reads the color attribute of a font tag body such as
// `font color='#ff0000'`.
func fontColor(raw string) (string, error) {
	z := html.NewTokenizer(strings.NewReader("<" + raw + ">"))
	if tt := z.Next(); tt != html.StartTagToken && tt != html.SelfClosingTagToken {
		return "", errors.New(errors.ErrCodeInvalidFormatting, "malformed font tag <%s>", raw)
	}
	for {
		key, val, more := z.TagAttr()
		if string(key) == "color" {
			return normalizeColor(string(val))
		}
		if !more {
			return "", nil
		}
	}
}

func normalizeColor(v string) (string, error) {
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(v), "#"), "0x")
	if len(hex) != 6 {
		return "", errors.New(errors.ErrCodeInvalidFormatting, "invalid color %q", v)
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormatting, err, "invalid color %q", v)
	}
	return "#" + strings.ToLower(hex), nil
}

func merge(spans []*Span) []Span {
	type loc struct{ start, end int }
	index := make(map[loc]int)
	var out []Span
	for _, sp := range spans {
		k := loc{sp.Start, sp.End}
		i, ok := index[k]
		if !ok {
			index[k] = len(out)
			out = append(out, *sp)
			continue
		}
		m := &out[i]
		m.Bold = m.Bold || sp.Bold
		m.Italic = m.Italic || sp.Italic
		m.Underline = m.Underline || sp.Underline
		m.Strike = m.Strike || sp.Strike
		if sp.Color != "" {
			m.Color = sp.Color
		}
	}
	return out
}

// Escape replaces < and > so that s can be embedded in tagged text.
func Escape(s string) string {
	return strings.NewReplacer("<", "&lt;", ">", "&gt;").Replace(s)
}
