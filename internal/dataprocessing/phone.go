package dataprocessing

import (
	"regexp"
	"strings"
)

var phoneNoise = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "", "/", "")

// NormalizePhone strips formatting from a phone number and checks it
// against pattern. A valid number is rewritten with the international
// prefix; an invalid one is returned cleaned. Empty input is neither valid
// nor flagged by callers.
func NormalizePhone(raw string, pattern *regexp.Regexp, prefix string) (string, bool) {
	cleaned := phoneNoise.Replace(strings.TrimSpace(raw))
	if cleaned == "" || !pattern.MatchString(cleaned) {
		return cleaned, false
	}

	digits := strings.TrimPrefix(prefix, "+")
	switch {
	case strings.HasPrefix(cleaned, prefix):
		return cleaned, true
	case digits != "" && strings.HasPrefix(cleaned, "00"+digits):
		return prefix + cleaned[2+len(digits):], true
	case strings.HasPrefix(cleaned, "0"):
		return prefix + cleaned[1:], true
	}
	return cleaned, true
}
