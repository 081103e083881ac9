package patterns

import (
	"github.com/matzehuels/datasprout/pkg/errors"
)

// Pattern toggle names.
const (
	NumericInformationAsText            = "NumericInformationAsText"
	AcronymsOrSymbols                   = "AcronymsOrSymbols"
	MultipleSurfaceForms                = "MultipleSurfaceForms"
	PropertyValueAsColor                = "PropertyValueAsColor"
	PartialFormattingIndicatesRelations = "PartialFormattingIndicatesRelations"
	OutdatedIsFormatted                 = "OutdatedIsFormatted"
	IntraCellAdditionalInformation      = "IntraCellAdditionalInformation"
	MultipleTypesInATable               = "MultipleTypesInATable"
)

// Names lists the toggles in display order.
var Names = []string{
	NumericInformationAsText,
	AcronymsOrSymbols,
	MultipleSurfaceForms,
	PropertyValueAsColor,
	PartialFormattingIndicatesRelations,
	OutdatedIsFormatted,
	IntraCellAdditionalInformation,
	MultipleTypesInATable,
}

// displayNames are the human-readable pattern names used by the web form.
var displayNames = map[string]string{
	NumericInformationAsText:            "Numeric Information as Text",
	AcronymsOrSymbols:                   "Acronyms or Symbols",
	MultipleSurfaceForms:                "Multiple Surface Forms",
	PropertyValueAsColor:                "Property Value as Color",
	PartialFormattingIndicatesRelations: "Partial Formatting Indicates Relations",
	OutdatedIsFormatted:                 "Outdated is Formatted",
	IntraCellAdditionalInformation:      "Intra-Cell Additional Information",
	MultipleTypesInATable:               "Multiple Types in a Table",
}

// DisplayName returns the human-readable name of a pattern, or name
// itself when unknown.
func DisplayName(name string) string {
	if d, ok := displayNames[name]; ok {
		return d
	}
	return name
}

// TogglesFromDisplay reads toggles keyed by display name. Every pattern
// must be present.
func TogglesFromDisplay(m map[string]bool) (Toggles, error) {
	var t Toggles
	for _, n := range Names {
		on, ok := m[displayNames[n]]
		if !ok {
			return Toggles{}, errors.New(errors.ErrCodeInvalidInput, "pattern %q not set", displayNames[n])
		}
		_ = t.Set(n, on)
	}
	return t, nil
}

// Toggles enables patterns.
type Toggles struct {
	NumericInformationAsText            bool `json:"NumericInformationAsText" toml:"numeric_information_as_text"`
	AcronymsOrSymbols                   bool `json:"AcronymsOrSymbols" toml:"acronyms_or_symbols"`
	MultipleSurfaceForms                bool `json:"MultipleSurfaceForms" toml:"multiple_surface_forms"`
	PropertyValueAsColor                bool `json:"PropertyValueAsColor" toml:"property_value_as_color"`
	PartialFormattingIndicatesRelations bool `json:"PartialFormattingIndicatesRelations" toml:"partial_formatting_indicates_relations"`
	OutdatedIsFormatted                 bool `json:"OutdatedIsFormatted" toml:"outdated_is_formatted"`
	IntraCellAdditionalInformation      bool `json:"IntraCellAdditionalInformation" toml:"intra_cell_additional_information"`
	MultipleTypesInATable               bool `json:"MultipleTypesInATable" toml:"multiple_types_in_a_table"`
}

// AllToggles enables every pattern.
func AllToggles() Toggles {
	var t Toggles
	for _, n := range Names {
		_ = t.Set(n, true)
	}
	return t
}

func (t *Toggles) field(name string) (*bool, error) {
	switch name {
	case NumericInformationAsText:
		return &t.NumericInformationAsText, nil
	case AcronymsOrSymbols:
		return &t.AcronymsOrSymbols, nil
	case MultipleSurfaceForms:
		return &t.MultipleSurfaceForms, nil
	case PropertyValueAsColor:
		return &t.PropertyValueAsColor, nil
	case PartialFormattingIndicatesRelations:
		return &t.PartialFormattingIndicatesRelations, nil
	case OutdatedIsFormatted:
		return &t.OutdatedIsFormatted, nil
	case IntraCellAdditionalInformation:
		return &t.IntraCellAdditionalInformation, nil
	case MultipleTypesInATable:
		return &t.MultipleTypesInATable, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown pattern %q", name)
}

// Set enables or disables the named pattern.
func (t *Toggles) Set(name string, on bool) error {
	f, err := t.field(name)
	if err != nil {
		return err
	}
	*f = on
	return nil
}

// Get reports whether the named pattern is enabled.
func (t Toggles) Get(name string) bool {
	f, err := t.field(name)
	return err == nil && *f
}

// Enabled returns the names of the enabled patterns.
func (t Toggles) Enabled() []string {
	var out []string
	for _, n := range Names {
		if t.Get(n) {
			out = append(out, n)
		}
	}
	return out
}

// Any reports whether at least one pattern is enabled.
func (t Toggles) Any() bool { return len(t.Enabled()) > 0 }
