package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingreports/internal/config"
	apperrors "trainingreports/internal/errors"
	"trainingreports/internal/shared/testutil"
	"trainingreports/pkg/contracts/domain"
)

// fixtureRecords runs every transform over the sample inputs
func fixtureRecords(t *testing.T) ([]*domain.TrainingRecord, []domain.CompanyLimitation) {
	t.Helper()

	ctx := context.Background()
	dir := t.TempDir()
	c := config.DefaultCollection()

	raw, err := ReadTable(ctx, testutil.WriteReportCSV(t, dir), "")
	require.NoError(t, err)
	table, err := RenameColumns(raw, ReportHeaderAliases, ReportRequiredColumns)
	require.NoError(t, err)
	records, err := BuildRecords(table)
	require.NoError(t, err)

	limRaw, err := ReadTable(ctx, testutil.WriteLimitationsCSV(t, dir), "")
	require.NoError(t, err)
	lims, err := PrepareLimitations(ctx, limRaw, nil)
	require.NoError(t, err)

	Normalize(records)
	JoinLimitations(records, lims)
	CountPerEmployee(records)
	ValidateFields(records, c)
	CheckActiveContracts(records)
	CalendarFields(records, c)

	return records, lims
}

func TestTransforms_Fixture(t *testing.T) {
	records, _ := fixtureRecords(t)
	require.Len(t, records, len(testutil.ReportRows), "no record is dropped")

	first := records[0]
	assert.Equal(t, 1, first.Row)
	assert.Equal(t, "|Иван|Петров|", first.EmpNamesInput)
	assert.Equal(t, "Ivan", first.FirstName)
	assert.Equal(t, "Petrov", first.LastName)
	assert.Equal(t, "ivan", first.Nickname)
	assert.Equal(t, "ACME LTD", first.Company)
	assert.Equal(t, domain.DeliveryModeOnline, first.DeliveryMode)
	assert.Equal(t, "Maria Ivanova", first.Trainer)
	assert.Equal(t, "+359888123456", first.Phone)
	assert.True(t, first.PhoneValid)
	assert.Equal(t, "Ivan Petrov|ACME LTD", first.EmpCompany)
	assert.Equal(t, 3, first.EmpTrainings)
	assert.Equal(t, 2, first.TrainingNo)
	assert.True(t, first.ActiveContract)
	assert.Equal(t, "March", first.Month)
	assert.Equal(t, 2023, first.Year)
	assert.Equal(t, "Monday", first.DayName)
	assert.Equal(t, "2023-03-06 10:00:00", first.TrainingDatetime)
	assert.Equal(t, "2023-02-20", first.ScheduledDate)
	assert.Equal(t, "2023-03-06", first.TrainingEnd)

	wantFlags := []string{
		"",
		"",
		"INVALID_PHONE",
		"INVALID_EMAIL;NO_TRAINER;NO_CONTRACT",
		"OVER_LIMIT",
		"UNKNOWN_MODE;INACTIVE_CONTRACT",
	}
	for i, r := range records {
		assert.Equal(t, wantFlags[i], domain.JoinFlags(r.Flags), "row %d", r.Row)
	}

	wantTrainingNo := []int{2, 1, 1, 1, 3, 1}
	for i, r := range records {
		assert.Equal(t, wantTrainingNo[i], r.TrainingNo, "row %d", r.Row)
	}

	assert.False(t, records[5].ActiveContract, "june training is outside the beta contract")
	assert.Nil(t, records[3].Limitation)
	assert.Empty(t, records[3].TrainingEnd)
}

func TestJoinLimitations(t *testing.T) {
	lims := []domain.CompanyLimitation{
		{Company: "ACME LTD", TrainingsLimit: 2},
		{Company: "BETA CORP"},
	}
	records := []*domain.TrainingRecord{
		{Company: "ACME LTD"},
		{Company: "GAMMA AD"},
		{Company: "ACME LTD"},
		{Company: ""},
	}

	matched := JoinLimitations(records, lims)

	assert.Equal(t, 2, matched)
	assert.Len(t, records, 4)
	assert.Same(t, &lims[0], records[0].Limitation)
	assert.Nil(t, records[1].Limitation)
	assert.Same(t, records[0].Limitation, records[2].Limitation)
	assert.Nil(t, records[3].Limitation)
}

func TestCountPerEmployee(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2023, time.March, d, 9, 0, 0, 0, time.UTC) }
	limit := &domain.CompanyLimitation{Company: "ACME", TrainingsLimit: 1}

	records := []*domain.TrainingRecord{
		{FirstName: "Ivan", LastName: "Petrov", Company: "ACME", StartTime: day(10), Limitation: limit},
		{FirstName: "Ivan", LastName: "Petrov", Company: "ACME", StartTime: day(3), Limitation: limit},
		{FirstName: "Ivan", LastName: "Petrov", Company: "BETA", StartTime: day(5)},
		{FirstName: "Ivan", LastName: "Petrov", Company: "ACME", StartTime: day(10), Limitation: limit},
	}

	CountPerEmployee(records)

	assert.Equal(t, []int{2, 1, 1, 3}, []int{records[0].TrainingNo, records[1].TrainingNo, records[2].TrainingNo, records[3].TrainingNo})
	assert.Equal(t, 3, records[0].EmpTrainings)
	assert.Equal(t, 1, records[2].EmpTrainings)
	assert.Equal(t, "Ivan Petrov|BETA", records[2].EmpCompany)
	assert.True(t, records[0].HasFlag(domain.FlagOverLimit))
	assert.False(t, records[1].HasFlag(domain.FlagOverLimit))
	assert.True(t, records[3].HasFlag(domain.FlagOverLimit))
	assert.False(t, records[2].HasFlag(domain.FlagOverLimit), "no limitation means no limit")
}

func TestCheckActiveContracts(t *testing.T) {
	date := func(m time.Month, d int) *time.Time {
		v := time.Date(2023, m, d, 0, 0, 0, 0, time.UTC)
		return &v
	}
	window := &domain.CompanyLimitation{Company: "ACME", ContractStart: date(1, 1), ContractEnd: date(5, 31)}
	openEnd := &domain.CompanyLimitation{Company: "BETA", ContractStart: date(3, 1)}

	tests := []struct {
		name   string
		start  time.Time
		lim    *domain.CompanyLimitation
		active bool
		flag   domain.FlagCode
	}{
		{"inside", time.Date(2023, 3, 15, 10, 0, 0, 0, time.UTC), window, true, ""},
		{"last day inclusive", time.Date(2023, 5, 31, 23, 0, 0, 0, time.UTC), window, true, ""},
		{"after end", time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC), window, false, domain.FlagInactiveContract},
		{"open end", time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC), openEnd, true, ""},
		{"before start", time.Date(2023, 2, 28, 9, 0, 0, 0, time.UTC), openEnd, false, domain.FlagInactiveContract},
		{"no contract", time.Date(2023, 3, 15, 9, 0, 0, 0, time.UTC), nil, false, domain.FlagNoContract},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &domain.TrainingRecord{StartTime: tt.start, Limitation: tt.lim}
			CheckActiveContracts([]*domain.TrainingRecord{r})

			assert.Equal(t, tt.active, r.ActiveContract)
			if tt.flag == "" {
				assert.Empty(t, r.Flags)
			} else {
				assert.Equal(t, []domain.FlagCode{tt.flag}, r.Flags)
			}
		})
	}
}

func TestBuildRecords_Errors(t *testing.T) {
	columns := []string{domain.ColFirstNameSource, domain.ColLastNameSource, domain.ColCompanySource, domain.ColStartTime, domain.ColEndTime}

	tests := []struct {
		name   string
		row    []string
		column string
	}{
		{"empty start", []string{"Ivan", "Petrov", "ACME", "", ""}, domain.ColStartTime},
		{"bad start", []string{"Ivan", "Petrov", "ACME", "tomorrow", ""}, domain.ColStartTime},
		{"bad end", []string{"Ivan", "Petrov", "ACME", "2023-03-06 10:00", "later"}, domain.ColEndTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := domain.NewTable("report", columns)
			table.Rows = [][]string{{"Ivan", "Petrov", "ACME", "2023-03-01 10:00", ""}, tt.row}

			_, err := BuildRecords(table)
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.True(t, apperrors.As(err, &appErr))
			assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
			assert.Equal(t, 2, appErr.Context["row"])
			assert.Equal(t, tt.column, appErr.Context["column"])
		})
	}
}

func TestRecordsTable(t *testing.T) {
	records, _ := fixtureRecords(t)
	c := config.DefaultCollection()

	table := RecordsTable(domain.TableNameRawFull, records, c)

	assert.Equal(t, domain.TableNameRawFull, table.Name)
	assert.Equal(t, domain.TrainingColumns, table.Columns)
	require.Equal(t, len(records), table.Len())

	value := func(row int, col string) string {
		v, ok := table.Value(row, col)
		require.True(t, ok, col)
		return v
	}

	assert.Equal(t, "2023-03-06 10:00:00", value(0, domain.ColStartTime))
	assert.Equal(t, "2023-02-20 09:15:00", value(0, domain.ColScheduledOn))
	assert.Equal(t, "2023-01-01", value(0, domain.ColContractStart))
	assert.Equal(t, "2023-12-31", value(0, domain.ColContractEnd))
	assert.Equal(t, "2", value(0, domain.ColTrainingsLimit))
	assert.Equal(t, "true", value(0, domain.ColHasLimitation))
	assert.Equal(t, "true", value(0, domain.ColPhoneValid))
	assert.Equal(t, "2023", value(0, domain.ColYear))
	assert.Equal(t, "ONLINE", value(0, domain.ColDeliveryMode))

	assert.Equal(t, "", value(3, domain.ColTrainingsLimit))
	assert.Equal(t, "false", value(3, domain.ColHasLimitation))
	assert.Equal(t, "", value(3, domain.ColEndTime))
	assert.Equal(t, "INVALID_EMAIL;NO_TRAINER;NO_CONTRACT", value(3, domain.ColFlags))

	again := RecordsTable(domain.TableNameRawFull, records, c)
	assert.Equal(t, table, again, "rendering is deterministic")
}
