package domain

import (
	"time"
)

// ReportKey identifies one table in the output set
type ReportKey string

const (
	ReportTotalTrainings   ReportKey = "total_trainings"
	ReportTrainers         ReportKey = "report_trainers"
	ReportNewMonthlyData   ReportKey = "new_monthly_data"
	ReportNewFullData      ReportKey = "new_full_data"
	ReportLimitations      ReportKey = "limitations"
	ReportFlagsData        ReportKey = "flags_data"
	ReportFullRawReport    ReportKey = "full_raw_report"
	ReportMonthlyRawReport ReportKey = "monthly_raw_report"
)

// ReportKeys lists the eight output tables in their canonical order
var ReportKeys = []ReportKey{
	ReportTotalTrainings,
	ReportTrainers,
	ReportNewMonthlyData,
	ReportNewFullData,
	ReportLimitations,
	ReportFlagsData,
	ReportFullRawReport,
	ReportMonthlyRawReport,
}

// Table names carried by each output table for downstream export
const (
	TableNameRawFull        = "raw_full"
	TableNameRawMonthly     = "raw_mont"
	TableNameNewFull        = "new_full"
	TableNameNewMonthly     = "new_mont"
	TableNameTotalTrainings = "total_trainings"
	TableNameTrainers       = "report_trainers"
	TableNameLimitations    = "limitations"
	TableNameFlags          = "flags"
)

// ReportFormat defines an export format for the report set
type ReportFormat string

const (
	ReportFormatCSV      ReportFormat = "csv"
	ReportFormatExcel    ReportFormat = "xlsx"
	ReportFormatPostgres ReportFormat = "postgres"
)

// ReportSet is the complete output of one pipeline run
type ReportSet struct {
	RunID       string               `json:"run_id"`
	Period      Period               `json:"period"`
	GeneratedAt time.Time            `json:"generated_at"`
	Tables      map[ReportKey]*Table `json:"tables"`
}

// NewReportSet creates an empty report set for the given run and period
func NewReportSet(runID string, period Period) *ReportSet {
	return &ReportSet{
		RunID:       runID,
		Period:      period,
		GeneratedAt: time.Now().UTC(),
		Tables:      make(map[ReportKey]*Table, len(ReportKeys)),
	}
}

// Get returns the table stored under key
func (s *ReportSet) Get(key ReportKey) (*Table, bool) {
	t, ok := s.Tables[key]
	return t, ok
}

// Ordered returns the tables in canonical key order, skipping absent keys
func (s *ReportSet) Ordered() []*Table {
	tables := make([]*Table, 0, len(s.Tables))
	for _, key := range ReportKeys {
		if t, ok := s.Tables[key]; ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// Complete reports whether all eight tables are present
func (s *ReportSet) Complete() bool {
	for _, key := range ReportKeys {
		if _, ok := s.Tables[key]; !ok {
			return false
		}
	}
	return true
}
