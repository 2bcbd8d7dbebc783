package dataprocessing

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DeriveNickname picks the short name used to greet an attendee: the
// explicit nickname when given, else the first token of the email local
// part when it has at least two letters, else the transliterated first
// name. The result is lower case.
func DeriveNickname(source, email, firstName string) string {
	lower := cases.Lower(language.Und)

	if v := strings.TrimSpace(source); v != "" {
		return lower.String(Transliterate(v))
	}

	if token := emailToken(email); token != "" {
		return lower.String(token)
	}

	first := strings.Fields(firstName)
	if len(first) == 0 {
		return ""
	}
	return lower.String(Transliterate(first[0]))
}

// emailToken returns the first letters-only token of the email local part
func emailToken(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	if local == "" {
		return ""
	}

	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return ""
	}

	token := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, parts[0])

	letters := 0
	for _, r := range token {
		if !unicode.IsLetter(r) {
			return ""
		}
		letters++
	}
	if letters < 2 {
		return ""
	}
	return token
}
