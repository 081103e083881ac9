package setup

import (
	"strings"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/kg"
)

// ClassConfig is the set of classes rendered together in one table, with
// an optional display label. It is immutable after construction.
type ClassConfig struct {
	classes []kg.Term
	label   string
}

// NewClassConfig creates a config for the given classes.
func NewClassConfig(label string, classes ...kg.Term) *ClassConfig {
	return &ClassConfig{classes: append([]kg.Term(nil), classes...), label: label}
}

// Classes returns the classes in order.
func (c *ClassConfig) Classes() []kg.Term { return append([]kg.Term(nil), c.classes...) }

// SingleClass returns the first class.
func (c *ClassConfig) SingleClass() kg.Term { return c.classes[0] }

// Label returns the display label, or "" when unset.
func (c *ClassConfig) Label() string { return c.label }

// HasLabel reports whether a label was set.
func (c *ClassConfig) HasLabel() bool { return c.label != "" }

// IsMulti reports whether the config covers more than one class.
func (c *ClassConfig) IsMulti() bool { return len(c.classes) > 1 }

// Covers reports whether class is one of the config's classes.
func (c *ClassConfig) Covers(class kg.Term) bool {
	for _, cl := range c.classes {
		if cl == class {
			return true
		}
	}
	return false
}

func (c *ClassConfig) String() string {
	names := make([]string, len(c.classes))
	for i, cl := range c.classes {
		names[i] = cl.String()
	}
	return "ClassConfig{[" + strings.Join(names, ", ") + "], label=" + c.label + "}"
}

// PropertyConfig describes one output column: one or more properties, an
// optional fixed comparison object that turns the column into an
// existence boolean, and an optional label and uri.
type PropertyConfig struct {
	properties []kg.Term
	objects    []kg.Term
	label      string
	uri        string

	// DistinctObjects drops merged values whose objects are already shown.
	DistinctObjects bool

	// PartialFormattingNeeded marks columns whose properties share a range
	// and must be told apart by formatting.
	PartialFormattingNeeded bool
}

// NewPropertyConfig creates a column for the given properties.
func NewPropertyConfig(properties ...kg.Term) *PropertyConfig {
	return &PropertyConfig{
		properties:      append([]kg.Term(nil), properties...),
		DistinctObjects: true,
	}
}

// NewComparisonConfig creates an existence-boolean column: a cell is true
// when the instance has (property, object).
func NewComparisonConfig(property, object kg.Term) *PropertyConfig {
	pc := NewPropertyConfig(property)
	pc.objects = []kg.Term{object}
	return pc
}

// WithLabel sets the column label.
func (p *PropertyConfig) WithLabel(label string) *PropertyConfig {
	p.label = label
	return p
}

// WithURI sets the uri used in per-column pattern keys.
func (p *PropertyConfig) WithURI(uri string) *PropertyConfig {
	p.uri = uri
	return p
}

// Properties returns the properties in order.
func (p *PropertyConfig) Properties() []kg.Term { return p.properties }

// Property returns the first property.
func (p *PropertyConfig) Property() kg.Term { return p.properties[0] }

// IsMulti reports whether the column merges more than one property.
func (p *PropertyConfig) IsMulti() bool { return len(p.properties) > 1 }

// HasObject reports whether a comparison object is set.
func (p *PropertyConfig) HasObject() bool { return len(p.objects) > 0 }

// Object returns the comparison object.
func (p *PropertyConfig) Object() kg.Term { return p.objects[0] }

// Label returns the column label, or "" when unset.
func (p *PropertyConfig) Label() string { return p.label }

// HasLabel reports whether a label was set.
func (p *PropertyConfig) HasLabel() bool { return p.label != "" }

// HasURI reports whether an explicit uri was set.
func (p *PropertyConfig) HasURI() bool { return p.uri != "" }

// URI returns the explicit uri, or the property IRI for single-property
// columns. A multi-property column without uri is a configuration error.
func (p *PropertyConfig) URI() (string, error) {
	if p.uri != "" {
		return p.uri, nil
	}
	if len(p.properties) == 1 {
		return p.properties[0].Value, nil
	}
	return "", errors.New(errors.ErrCodeMissingURI, "set the uri in the PropertyConfig")
}

// Without returns a copy of p without property prop. The label and uri
// are kept.
func (p *PropertyConfig) Without(prop kg.Term) *PropertyConfig {
	c := *p
	c.properties = nil
	for _, q := range p.properties {
		if q != prop {
			c.properties = append(c.properties, q)
		}
	}
	return &c
}

func (p *PropertyConfig) String() string {
	names := make([]string, len(p.properties))
	for i, pr := range p.properties {
		names[i] = pr.String()
	}
	return "PropertyConfig{[" + strings.Join(names, ", ") + "], label=" + p.label + "}"
}
