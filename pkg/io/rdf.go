package io

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/knakk/rdf"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/kg"
)

// Format is an RDF serialization.
type Format string

// Supported formats.
const (
	FormatTurtle   Format = "turtle"
	FormatNTriples Format = "ntriples"
)

// FormatFromPath picks the format from a file name, ignoring a ".gz"
// suffix. Unknown extensions default to Turtle.
func FormatFromPath(path string) Format {
	p := strings.TrimSuffix(strings.ToLower(path), ".gz")
	if strings.HasSuffix(p, ".nt") {
		return FormatNTriples
	}
	return FormatTurtle
}

func (f Format) rdf() rdf.Format {
	if f == FormatNTriples {
		return rdf.NTriples
	}
	return rdf.Turtle
}

// ReadGraph decodes all triples from r. ReadGraph does not close r.
func ReadGraph(r io.Reader, f Format) (*kg.Graph, error) {
	dec := rdf.NewTripleDecoder(r, f.rdf())
	g := kg.NewGraph()
	for {
		tr, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", f)
		}
		g.Add(kg.T(fromRDF(tr.Subj), fromRDF(tr.Pred), fromRDF(tr.Obj)))
	}
	return g, nil
}

// ImportGraph reads the graph file at path, decompressing ".gz" files.
func ImportGraph(path string) (*kg.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "gunzip %s", path)
		}
		defer zr.Close()
		r = zr
	}
	return ReadGraph(r, FormatFromPath(path))
}

// WriteOption configures [WriteGraph].
type WriteOption func(*writeConfig)

type writeConfig struct {
	prefixes map[string]string
}

// WithPrefixes abbreviates IRIs with the prefixes in [kg.Prefixes].
// It only affects Turtle output.
func WithPrefixes() WriteOption {
	return func(c *writeConfig) { c.prefixes = kg.Prefixes }
}

// WriteGraph encodes every triple of g to w in graph order.
func WriteGraph(w io.Writer, g *kg.Graph, f Format, opts ...WriteOption) error {
	return writeTriples(w, g.Triples(), f, opts...)
}

func writeTriples(w io.Writer, ts []kg.Triple, f Format, opts ...WriteOption) error {
	var cfg writeConfig
	for _, o := range opts {
		o(&cfg)
	}

	enc := rdf.NewTripleEncoder(w, f.rdf())
	if f == FormatTurtle && cfg.prefixes != nil {
		enc.Namespaces = make(map[string]string, len(cfg.prefixes))
		for prefix, ns := range cfg.prefixes {
			enc.Namespaces[ns] = prefix
		}
	}
	for _, t := range ts {
		tr, err := toRDF(t)
		if err != nil {
			return err
		}
		if err := enc.Encode(tr); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	}
	return enc.Close()
}

// ExportGraph writes g to path, choosing format and compression from the
// file name.
func ExportGraph(g *kg.Graph, path string, opts ...WriteOption) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if !strings.HasSuffix(strings.ToLower(path), ".gz") {
		return WriteGraph(f, g, FormatFromPath(path), opts...)
	}
	zw := gzip.NewWriter(f)
	if err := WriteGraph(zw, g, FormatFromPath(path), opts...); err != nil {
		return err
	}
	return zw.Close()
}

// FormatStatements renders ts as prefix-free Turtle.
func FormatStatements(ts []kg.Triple) (string, error) {
	var buf bytes.Buffer
	if err := writeTriples(&buf, ts, FormatTurtle); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func fromRDF(t rdf.Term) kg.Term {
	switch t.Type() {
	case rdf.TermIRI:
		return kg.IRI(t.String())
	case rdf.TermBlank:
		return kg.Blank(t.String())
	}
	lit, ok := t.(rdf.Literal)
	if !ok {
		return kg.PlainLiteral(t.String())
	}
	if lang := lit.Lang(); lang != "" {
		return kg.LangLiteral(lit.String(), lang)
	}
	return kg.Literal(lit.String(), lit.DataType.String())
}

func toRDF(t kg.Triple) (rdf.Triple, error) {
	subj, err := toRDFTerm(t.S)
	if err != nil {
		return rdf.Triple{}, err
	}
	pred, err := rdf.NewIRI(t.P.Value)
	if err != nil {
		return rdf.Triple{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "predicate %s", t.P)
	}
	obj, err := toRDFTerm(t.O)
	if err != nil {
		return rdf.Triple{}, err
	}
	return rdf.Triple{Subj: subj.(rdf.Subject), Pred: pred, Obj: obj.(rdf.Object)}, nil
}

func toRDFTerm(t kg.Term) (rdf.Term, error) {
	switch t.Kind {
	case kg.KindIRI:
		iri, err := rdf.NewIRI(t.Value)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "IRI %s", t.Value)
		}
		return iri, nil
	case kg.KindBlank:
		b, err := rdf.NewBlank(t.Value)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "blank node %s", t.Value)
		}
		return b, nil
	case kg.KindLiteral:
		if t.Lang != "" {
			l, err := rdf.NewLangLiteral(t.Value, t.Lang)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "literal %s", t)
			}
			return l, nil
		}
		dt, err := rdf.NewIRI(t.Datatype)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "datatype %s", t.Datatype)
		}
		return rdf.NewTypedLiteral(t.Value, dt), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "zero term")
}
