package gamma

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const nbsp = '\u00a0'

// Normalize folds non-breaking spaces into ordinary spaces and collapses
// every run of whitespace, newlines included, into a single space.
// Leading and trailing runs collapse too; nothing is trimmed. Bytes that
// are not valid UTF-8 pass through as they are.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == nbsp || unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
		} else {
			inSpace = false
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}
