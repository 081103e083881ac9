package pipeline

import (
	"strings"

	"github.com/matzehuels/datasprout/pkg/errors"
	"github.com/matzehuels/datasprout/pkg/patterns"
)

// Mode names.
const (
	ModeClean                      = "Clean"
	ModeAll                        = "All"
	ModeAllProvenanceAsCellComment = "All_ProvenanceAsCellComment"
	ModeCustom                     = "Custom"

	// SinglePatternPrefix prefixes the modes that enable one pattern.
	SinglePatternPrefix = "SinglePattern_"
)

// Mode is a named pattern selection.
type Mode struct {
	Name    string
	Toggles patterns.Toggles

	// Noisy adds the extra merge delimiters and boolean symbols.
	Noisy bool

	ProvenanceAsCellComment bool
}

// Modes returns the stock modes: Clean, one single-pattern mode per
// pattern plus the intra-cell mode with partial formatting, All and
// All_ProvenanceAsCellComment.
func Modes() []Mode {
	modes := []Mode{{Name: ModeClean}}
	for _, n := range patterns.Names {
		if n == patterns.PartialFormattingIndicatesRelations {
			continue
		}
		var t patterns.Toggles
		_ = t.Set(n, true)
		modes = append(modes, Mode{Name: SinglePatternPrefix + n, Toggles: t, Noisy: true})

		if n == patterns.IntraCellAdditionalInformation {
			t.PartialFormattingIndicatesRelations = true
			modes = append(modes, Mode{
				Name:    SinglePatternPrefix + n + "_" + patterns.PartialFormattingIndicatesRelations,
				Toggles: t,
				Noisy:   true,
			})
		}
	}
	modes = append(modes,
		Mode{Name: ModeAll, Toggles: patterns.AllToggles(), Noisy: true},
		Mode{Name: ModeAllProvenanceAsCellComment, Toggles: patterns.AllToggles(), Noisy: true, ProvenanceAsCellComment: true},
	)
	return modes
}

// ModeNames returns the names of the stock modes.
func ModeNames() []string {
	modes := Modes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.Name
	}
	return names
}

// LookupMode returns the stock mode called name.
func LookupMode(name string) (Mode, error) {
	for _, m := range Modes() {
		if m.Name == name {
			return m, nil
		}
	}
	return Mode{}, errors.New(errors.ErrCodeInvalidMode,
		"unknown mode %q (must be one of: %s)", name, strings.Join(ModeNames(), ", "))
}

// CustomMode wraps explicit toggles. Every custom mode except one named
// Clean uses the noisy symbols.
func CustomMode(name string, t patterns.Toggles) Mode {
	return Mode{Name: name, Toggles: t, Noisy: name != ModeClean}
}
