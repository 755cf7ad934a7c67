// Package privacy masks personal data in text bound for speech output.
// Tool results and fallback-interpreter replies can echo things the
// assistant should not read aloud verbatim.
package privacy

import "regexp"

var maskPatterns = []struct {
	re   *regexp.Regexp
	repl string
}{
	// Swedish personnummer, with or without century digits.
	{regexp.MustCompile(`\b(?:19|20)?\d{6}[-+]\d{4}\b`), "[personnummer]"},
	{regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`), "[e-postadress]"},
	// Mobile numbers, domestic (07x) or +46 form.
	{regexp.MustCompile(`(?:\+46|0)7\d[-\s]?\d{3}[-\s]?\d{2}[-\s]?\d{2}\b`), "[telefonnummer]"},
}

// Clean replaces personal data with spoken placeholders. Total, never fails;
// text without sensitive content passes through unchanged.
func Clean(text string) string {
	out := text
	for _, p := range maskPatterns {
		out = p.re.ReplaceAllString(out, p.repl)
	}
	return out
}
