package schema

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/kg"
)

// Options configures schema diagram rendering.
type Options struct {
	// Detailed lists the literal-valued properties with their ranges in
	// each class box. When false, only the class name and instance count
	// are shown.
	Detailed bool
}

// Edge is an object property linking two classes.
type Edge struct {
	From, To kg.Term
	Property kg.Term
}

// Edges returns the class-to-class links of s in class, property and
// range order. rdf:type is skipped.
func Edges(s *kg.Schema) []Edge {
	var out []Edge
	for _, c := range s.Classes() {
		for _, p := range s.Properties(c) {
			if p == kg.RDFType {
				continue
			}
			for _, r := range s.Ranges(p) {
				if len(s.Instances(r)) > 0 {
					out = append(out, Edge{From: c, To: r, Property: p})
				}
			}
		}
	}
	return out
}

// ToDOT converts an analyzed graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(s *kg.Schema, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("\n")

	for _, c := range s.Classes() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", c.Value, fmtLabel(s, c, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, e := range Edges(s) {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From.Value, e.To.Value, name(e.Property))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(s *kg.Schema, c kg.Term, detailed bool) string {
	head := fmt.Sprintf("%s (%d)", name(c), len(s.Instances(c)))
	if !detailed {
		return head
	}

	var parts []string
	for _, p := range s.Properties(c) {
		if p == kg.RDFType {
			continue
		}
		var ranges []string
		for _, r := range s.Ranges(p) {
			if len(s.Instances(r)) == 0 {
				ranges = append(ranges, name(r))
			}
		}
		if len(ranges) > 0 {
			parts = append(parts, name(p)+": "+strings.Join(ranges, " | "))
		}
	}
	if len(parts) == 0 {
		return head
	}
	return head + "\n" + strings.Join(parts, "\n")
}

// name is the local name of an IRI, or the full IRI when it has none.
func name(t kg.Term) string {
	if n := kg.LocalName(t.Value); n != "" {
		return n
	}
	return t.Value
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg tag with one whose size
// matches the view box, so the diagram scales in a browser.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
