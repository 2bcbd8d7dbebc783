package exporter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"trainingreports/internal/config"
	"trainingreports/pkg/contracts/domain"
)

var tableNames = map[domain.ReportKey]string{
	domain.ReportTotalTrainings:   domain.TableNameTotalTrainings,
	domain.ReportTrainers:         domain.TableNameTrainers,
	domain.ReportNewMonthlyData:   domain.TableNameNewMonthly,
	domain.ReportNewFullData:      domain.TableNameNewFull,
	domain.ReportLimitations:      domain.TableNameLimitations,
	domain.ReportFlagsData:        domain.TableNameFlags,
	domain.ReportFullRawReport:    domain.TableNameRawFull,
	domain.ReportMonthlyRawReport: domain.TableNameRawMonthly,
}

// sampleSet builds a complete report set with two rows per table
func sampleSet(t *testing.T) *domain.ReportSet {
	t.Helper()
	set := domain.NewReportSet("run-1", domain.Period{Year: 2023, Month: 3})
	for _, key := range domain.ReportKeys {
		tbl := domain.NewTable(tableNames[key], []string{"company", "trainer's name", "count"})
		require.NoError(t, tbl.Append([]string{"Acme, Ltd", "Jane \"JD\" Doe", "1"}))
		require.NoError(t, tbl.Append([]string{"Żółw Sp.", "", "2"}))
		set.Tables[key] = tbl
	}
	return set
}

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	return config.NewPaths(t.TempDir(), "input", "reports", "logs")
}
