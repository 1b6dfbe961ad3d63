// src/security/validation/sanitizers.go
package validation

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictHTMLPolicy *bluemonday.Policy

	// Left over after entities are decoded; never part of a municipality name or UF.
	angleBrackets = strings.NewReplacer("<", "", ">", "")
)

func init() {
	strictHTMLPolicy = bluemonday.StrictPolicy() // Removes all HTML tags
}

// SanitizeText removes all HTML tags and attributes from an input string.
// Entities escaped by the policy are decoded back so names like "Santa Bárbara d'Oeste" survive.
func SanitizeText(s string) string {
	return angleBrackets.Replace(html.UnescapeString(strictHTMLPolicy.Sanitize(s)))
}

// StripUnprintable removes non-printable characters, allowing common whitespace
// like space, tab, newline, and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}

// SanitizeLabel cleans a free-text field (municipality name, UF) before it is echoed in a report.
// Only markup and unprintables go; case and spacing are kept as sent.
func SanitizeLabel(s string) string {
	return StripUnprintable(SanitizeText(s))
}
