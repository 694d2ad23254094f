package analyzer

import (
	"strings"
	"unicode"
)

// Normalize prepares text for fuzzy comparison: letters and digits are
// lower-cased, every other rune becomes a space, and the result is
// trimmed. Inner runs of spaces are kept so positions stay comparable.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteByte(' ')
		}
	}

	return strings.TrimSpace(b.String())
}
