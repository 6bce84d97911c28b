// Package textmatch provides the pure text primitives used by alias
// resolution: label normalization and fuzzy similarity scoring.
package textmatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MinKeyLength is the minimum normalized key length that carries signal.
// Shorter keys match too broadly to be useful as alias keys.
const MinKeyLength = 3

var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes free text into an alias key: lowercase, diacritics
// stripped, every character outside [a-z0-9] dropped. Deterministic and pure.
func Normalize(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))

	folded, _, err := transform.String(stripDiacritics, lowered)
	if err != nil {
		// Transform only fails on malformed input; fall back to the raw text
		// and let the character filter below do its job.
		folded = lowered
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HasSignal reports whether a normalized key is usable for alias lookup.
func HasSignal(key string) bool {
	return len(key) >= MinKeyLength
}
