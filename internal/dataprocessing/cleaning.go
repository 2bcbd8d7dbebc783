package dataprocessing

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// unwantedChars are removed from every cell
var unwantedChars = map[rune]bool{
	'"':  true,
	'\'': true,
	'*':  true,
	'`':  true,
	';':  true,
	'\\': true,
}

// CleanValue NFC-normalizes s, turns any Unicode space into a plain space,
// drops zero-width and control runes plus the unwanted characters, collapses
// runs of spaces and trims the result.
func CleanValue(s string) string {
	if s == "" {
		return s
	}

	s = norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false

	for _, r := range s {
		switch {
		case r == '\u200b' || r == '\u200c' || r == '\u200d' || r == '\u2060' || r == '\ufeff':
			continue
		case unicode.IsSpace(r):
			pendingSpace = true
			continue
		case unicode.IsControl(r) || unwantedChars[r]:
			continue
		}

		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(r)
	}

	return b.String()
}
