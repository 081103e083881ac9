package kg

import (
	"strings"
	"unicode"
)

// LocalName returns the part of an IRI after the last '/' or '#'.
// It returns "" when the IRI has neither separator or ends with one.
func LocalName(iri string) string {
	i := strings.LastIndexAny(iri, "/#")
	if i < 0 || i == len(iri)-1 {
		return ""
	}
	return iri[i+1:]
}

// Acronym keeps the first letter of every word and upper-cases it.
// Non-letters are dropped, so "Deutsches Forschungszentrum für KI" becomes "DFFK".
func Acronym(s string) string {
	var b strings.Builder
	wordStart := true
	for _, r := range s {
		isWord := unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
		if isWord && wordStart && unicode.IsLetter(r) {
			b.WriteString(strings.ToUpper(string(r)))
		}
		wordStart = !isWord
	}
	return b.String()
}
