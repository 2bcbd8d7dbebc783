package domain

import (
	"fmt"
	"time"
)

// Period is a calendar year-month bucket used to cut the monthly reports
type Period struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// PeriodOf returns the period a timestamp falls into
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Contains reports whether the timestamp falls inside the period
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

// Start returns the first instant of the period
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// String renders the period as YYYY-MM
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// IsZero reports whether the period is unset
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}
