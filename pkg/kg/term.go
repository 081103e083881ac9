package kg

import (
	"strconv"
	"strings"
)

// TermKind distinguishes IRIs, blank nodes and literals.
type TermKind uint8

const (
	// KindIRI is a named resource.
	KindIRI TermKind = iota + 1
	// KindBlank is an anonymous resource local to one graph.
	KindBlank
	// KindLiteral is a lexical value with a datatype or language tag.
	KindLiteral
)

// Term is one node of an RDF graph. Terms are comparable and are used
// directly as map keys by [Graph] and [Schema].
//
// The zero value is not a valid term.
type Term struct {
	Kind     TermKind
	Value    string // IRI, blank node label, or lexical form
	Datatype string // literal datatype IRI (rdf:langString for tagged literals)
	Lang     string // language tag, literals only
}

// IRI returns a named resource term.
func IRI(iri string) Term { return Term{Kind: KindIRI, Value: iri} }

// Blank returns a blank node term. The id is stored without the "_:" prefix.
func Blank(id string) Term {
	return Term{Kind: KindBlank, Value: strings.TrimPrefix(id, "_:")}
}

// Literal returns a typed literal. An empty datatype means xsd:string.
func Literal(lexical, datatype string) Term {
	if datatype == "" {
		datatype = XSDString
	}
	return Term{Kind: KindLiteral, Value: lexical, Datatype: datatype}
}

// PlainLiteral returns an xsd:string literal.
func PlainLiteral(lexical string) Term { return Literal(lexical, XSDString) }

// LangLiteral returns a language-tagged string literal.
func LangLiteral(lexical, lang string) Term {
	return Term{Kind: KindLiteral, Value: lexical, Datatype: RDFLangString, Lang: lang}
}

// BoolLiteral returns an xsd:boolean literal.
func BoolLiteral(b bool) Term { return Literal(strconv.FormatBool(b), XSDBoolean) }

// IsIRI reports whether t is a named resource.
func (t Term) IsIRI() bool { return t.Kind == KindIRI }

// IsBlank reports whether t is a blank node.
func (t Term) IsBlank() bool { return t.Kind == KindBlank }

// IsLiteral reports whether t is a literal.
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// IsResource reports whether t is an IRI or a blank node.
func (t Term) IsResource() bool { return t.Kind == KindIRI || t.Kind == KindBlank }

// IsZero reports whether t is the zero term.
func (t Term) IsZero() bool { return t.Kind == 0 }

// String returns the compact form used in setup keys and summaries:
// the IRI for resources, the lexical form for xsd:string literals,
// "lex@lang" for tagged literals and "lex^^datatype" otherwise.
func (t Term) String() string {
	switch t.Kind {
	case KindIRI:
		return t.Value
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		switch {
		case t.Lang != "":
			return t.Value + "@" + t.Lang
		case t.Datatype == XSDString || t.Datatype == "":
			return t.Value
		default:
			return t.Value + "^^" + t.Datatype
		}
	}
	return ""
}

// Triple is one subject-predicate-object statement.
type Triple struct {
	S, P, O Term
}

// T is shorthand for constructing a [Triple].
func T(s, p, o Term) Triple { return Triple{S: s, P: p, O: o} }
