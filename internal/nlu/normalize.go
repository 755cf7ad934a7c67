package nlu

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds an utterance into the form every matcher in this package
// operates on: lower case, diacritics stripped (å/ä/ö fold toward a/o, which
// is intentional for fuzzy matching), whitespace collapsed and trimmed.
// Total and idempotent.
func Normalize(text string) string {
	lower := strings.ToLower(text)
	// The transform chain buffers internally, so build a fresh one per call
	// to keep Normalize safe for concurrent use.
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		lower,
	)
	if err != nil {
		folded = lower
	}
	return strings.Join(strings.Fields(folded), " ")
}
