package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

// ReportHeader is the header row of the sample attendance export
var ReportHeader = []string{
	"Invitee First Name",
	"Invitee Last Name",
	"Invitee Email",
	"Event Type Name",
	"Start Date & Time",
	"End Date & Time",
	"Scheduled At",
	"Assigned To",
	"Text Reminder Number",
}

// ReportRows is a small attendance export covering every flag code.
// March 2023 holds rows 1, 3, 4 and 5.
var ReportRows = [][]string{
	{"Иван", "Петров", "ivan.petrov@acme.bg", "ACME Ltd - Online", "2023-03-06 10:00", "2023-03-06 11:00", "2023-02-20 09:15", "Trainer: Мария Иванова", "0888 123 456"},
	{"Ivan", "Petrov", "ivan.petrov@acme.bg", "ACME Ltd - Online", "2023-01-10 10:00", "2023-01-10 11:00", "2023-01-02 08:00", "Maria Ivanova's calendar", "+359888123456"},
	{"Georgi", "Dimitrov", "g.dimitrov@beta.com", "Beta Corp (In person)", "2023-03-15 14:00", "2023-03-15 15:30", "", "with Petar Stoyanov", "12345"},
	{"Elena", "Koleva", "elena.koleva@", "Gamma AD / Zoom", "2023-03-20 09:00", "", "", "", ""},
	{"Ivan", "Petrov", "ivan.petrov@acme.bg", "ACME Ltd - Online", "2023-03-27 10:00", "2023-03-27 11:00", "", "Trainer: Maria Ivanova", "0888123456"},
	{"Stefan", "Nikolov", "s.nikolov@beta.com", "Beta Corp", "2023-06-01 09:00", "2023-06-01 10:00", "", "Trainer: Petar Stoyanov", "0878 111 222"},
}

// LimitationsHeader is the header row of the sample limitations table
var LimitationsHeader = []string{"Company", "Contract Start", "Contract End", "Trainings Limit", "Notes"}

// LimitationsRows holds one duplicate company and one row without a company
var LimitationsRows = [][]string{
	{"ACME Ltd", "2023-01-01", "2023-12-31", "2", ""},
	{"Beta Corp", "2023-01-01", "2023-05-31", "0", "pilot"},
	{"acme ltd", "2022-01-01", "", "5", "duplicate"},
	{"", "", "", "", ""},
}

// WriteCSV writes header and rows to dir/name and returns the path
func WriteCSV(t *testing.T, dir, name string, header []string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		t.Fatalf("write fixture header: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write fixture rows: %v", err)
	}
	return path
}

// WriteReportCSV writes the sample attendance export to dir/training_report.csv
func WriteReportCSV(t *testing.T, dir string) string {
	t.Helper()
	return WriteCSV(t, dir, "training_report.csv", ReportHeader, ReportRows)
}

// WriteLimitationsCSV writes the sample limitations table to dir/company_limitations.csv
func WriteLimitationsCSV(t *testing.T, dir string) string {
	t.Helper()
	return WriteCSV(t, dir, "company_limitations.csv", LimitationsHeader, LimitationsRows)
}
