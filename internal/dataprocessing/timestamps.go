package dataprocessing

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are tried in order; inputs are upper-cased first so the
// 12-hour layouts accept both "pm" and "PM"
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 3:04:05 PM",
	"2006-01-02 3:04 PM",
	"2006-01-02 3:04PM",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"2.1.2006 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"1/2/06 15:04",
	"01/02/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"Monday, January 2, 2006 3:04 PM",
}

// dateLayouts are the date-only forms accepted for timestamps and contract dates
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"2.1.2006",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"1/2/06",
}

// ParseTimestamp parses a report timestamp in any supported layout
func ParseTimestamp(s string) (time.Time, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ParseDate parses a contract date; a full timestamp is truncated to its day
func ParseDate(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}

	t, err := ParseTimestamp(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// parseOptionalTimestamp returns nil for an empty value
func parseOptionalTimestamp(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseOptionalDate returns nil for an empty value
func parseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
