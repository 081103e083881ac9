package schema

import (
	"strings"
	"testing"

	"github.com/matzehuels/datasprout/pkg/kg"
)

var (
	person  = kg.IRI("http://x/Person")
	org     = kg.IRI("http://x/Org")
	alice   = kg.IRI("http://x/alice")
	dfki    = kg.IRI("http://x/dfki")
	worksAt = kg.IRI("http://x/worksAt")
)

func testSchema() *kg.Schema {
	g := kg.NewGraph()
	g.AddAll(
		kg.T(alice, kg.RDFType, person),
		kg.T(alice, kg.FOAFFirstName, kg.PlainLiteral("Alice")),
		kg.T(alice, worksAt, dfki),
		kg.T(dfki, kg.RDFType, org),
		kg.T(dfki, kg.RDFSLabel, kg.PlainLiteral("DFKI")),
	)
	return kg.Analyze(g)
}

func TestEdges(t *testing.T) {
	edges := Edges(testSchema())
	if len(edges) != 1 {
		t.Fatalf("Edges() = %v, want one", edges)
	}
	if e := edges[0]; e.From != person || e.To != org || e.Property != worksAt {
		t.Errorf("Edges()[0] = %+v", e)
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(testSchema(), Options{})

	for _, want := range []string{
		"digraph G",
		`"http://x/Person" [label="Person (1)"]`,
		`"http://x/Org" [label="Org (1)"]`,
		`"http://x/Person" -> "http://x/Org" [label="worksAt"]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "firstName") {
		t.Error("ToDOT() basic output should not list literal properties")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(testSchema(), Options{Detailed: true})

	if !strings.Contains(dot, `firstName: string`) {
		t.Errorf("ToDOT() detailed output missing property range\n%s", dot)
	}
	if strings.Contains(dot, "worksAt: ") {
		t.Error("object properties belong on edges, not in the label")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.00 50.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without view box should be unchanged")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(testSchema(), Options{Detailed: true}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") || !strings.Contains(string(svg), "Person") {
		t.Error("RenderSVG() output is not an svg of the schema")
	}
}
