package domain

import "time"

// CompanyLimitation holds the contract window and per-employee cap of one
// company. Company is the normalized join key.
type CompanyLimitation struct {
	Company        string     `json:"company" validate:"required"`
	CompanyDisplay string     `json:"company_display"`
	ContractStart  *time.Time `json:"contract_start,omitempty"`
	ContractEnd    *time.Time `json:"contract_end,omitempty"`
	TrainingsLimit int        `json:"trainings_limit" validate:"gte=0"`
	Notes          string     `json:"notes,omitempty"`
}

// Covers reports whether the given day falls inside the contract window.
// A missing bound is treated as open.
func (l *CompanyLimitation) Covers(day time.Time) bool {
	if l == nil {
		return false
	}
	d := truncateDay(day)
	if l.ContractStart != nil && d.Before(truncateDay(*l.ContractStart)) {
		return false
	}
	if l.ContractEnd != nil && d.After(truncateDay(*l.ContractEnd)) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Column names of the limitations table
const (
	ColCompanyDisplay = "company_display"
	ColNotes          = "notes"
)

// LimitationColumns is the column order of the limitations output table
var LimitationColumns = []string{
	ColCompany,
	ColCompanyDisplay,
	ColContractStart,
	ColContractEnd,
	ColTrainingsLimit,
	ColNotes,
}
