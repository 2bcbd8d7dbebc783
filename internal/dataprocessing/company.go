package dataprocessing

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"trainingreports/pkg/contracts/domain"
)

// modeKeywords maps delivery-mode keywords to their mode. Longer phrases
// come first so "in person" wins over a bare match inside it.
var modeKeywords = []struct {
	keyword string
	mode    domain.DeliveryMode
}{
	{"in person", domain.DeliveryModeInPerson},
	{"in-person", domain.DeliveryModeInPerson},
	{"on site", domain.DeliveryModeInPerson},
	{"on-site", domain.DeliveryModeInPerson},
	{"onsite", domain.DeliveryModeInPerson},
	{"на живо", domain.DeliveryModeInPerson},
	{"присъствено", domain.DeliveryModeInPerson},
	{"live", domain.DeliveryModeInPerson},
	{"online", domain.DeliveryModeOnline},
	{"on-line", domain.DeliveryModeOnline},
	{"virtual", domain.DeliveryModeOnline},
	{"zoom", domain.DeliveryModeOnline},
	{"teams", domain.DeliveryModeOnline},
	{"онлайн", domain.DeliveryModeOnline},
}

var (
	modePattern         = buildModePattern(`($|[^\p{L}\p{N}])`)
	trailingModePattern = buildModePattern(`(\s*)$`)
	companySeparator    = regexp.MustCompile(`[()\[\]{}/|,:–—-]+`)
	// segmentSeparator splits the source into parts; a hyphen only separates
	// when spaced, so "on-site" and "Coca-Cola" stay whole
	segmentSeparator = regexp.MustCompile(`\s+[-–—]\s+|[()\[\]{}/|,:–—]`)
)

func buildModePattern(tail string) *regexp.Regexp {
	alts := make([]string, len(modeKeywords))
	for i, k := range modeKeywords {
		alts[i] = regexp.QuoteMeta(k.keyword)
	}
	return regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}])(` + strings.Join(alts, "|") + `)` + tail)
}

// ExtractCompany splits a combined "company + delivery mode" field. The
// source is cut into segments at brackets and separators, and the last
// segment holding a mode keyword decides the mode. In the leading segment
// only a trailing keyword counts, so "Live Nation (online)" is ONLINE for
// LIVE NATION. Keywords are removed from the deciding segment only and the
// remainder is normalized with CompanyKey. An unknown mode is returned as
// domain.DeliveryModeUnknown.
func ExtractCompany(source string) (string, domain.DeliveryMode) {
	segments := segmentSeparator.Split(source, -1)

	for i := len(segments) - 1; i >= 0; i-- {
		if strings.TrimSpace(segments[i]) == "" {
			continue
		}
		re := modePattern
		if i == 0 {
			re = trailingModePattern
		}
		matches := re.FindAllStringSubmatch(segments[i], -1)
		if matches == nil {
			continue
		}

		mode := modeOf(matches[len(matches)-1][2])
		segments[i] = stripKeywords(segments[i], re)
		return CompanyKey(strings.Join(segments, " ")), mode
	}

	return CompanyKey(source), domain.DeliveryModeUnknown
}

func modeOf(keyword string) domain.DeliveryMode {
	found := strings.ToLower(keyword)
	for _, k := range modeKeywords {
		if k.keyword == found {
			return k.mode
		}
	}
	return domain.DeliveryModeUnknown
}

// stripKeywords removes every keyword re matches, including neighbours that
// share a boundary character
func stripKeywords(segment string, re *regexp.Regexp) string {
	for {
		next := re.ReplaceAllString(segment, "${1} ${3}")
		if next == segment {
			return segment
		}
		segment = next
	}
}

// CompanyKey normalizes a company name to the join key: separators and
// brackets become spaces, spaces are collapsed and the result is upper case
func CompanyKey(name string) string {
	name = companySeparator.ReplaceAllString(name, " ")
	return cases.Upper(language.Und).String(strings.Join(strings.Fields(name), " "))
}
