package dataprocessing

import (
	"regexp"
)

// trainerPatterns are tried in order against the uncleaned calendar field
var trainerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)trainer\s*:\s*([^,|()]+)`),
	regexp.MustCompile(`(?i)^\s*([^,|()]+?)(?:['’]s|['’])?\s+calendar\b`),
	regexp.MustCompile(`(?i)(?:^|\s)with\s+([^,|()]+)`),
}

// ExtractTrainer returns the transliterated trainer name found in a free
// text calendar field, or "" when no pattern matches
func ExtractTrainer(calendar string) string {
	for _, re := range trainerPatterns {
		m := re.FindStringSubmatch(calendar)
		if m == nil {
			continue
		}
		if name := CleanValue(m[1]); name != "" {
			return Transliterate(name)
		}
	}
	return ""
}
