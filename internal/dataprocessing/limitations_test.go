package dataprocessing

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingreports/internal/config"
	apperrors "trainingreports/internal/errors"
	"trainingreports/internal/shared/testutil"
	"trainingreports/pkg/contracts/domain"
)

func TestPrepareLimitations(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)

	raw := domain.NewTable("limitations.csv", testutil.LimitationsHeader)
	raw.Rows = testutil.LimitationsRows

	lims, err := PrepareLimitations(context.Background(), raw, logger)
	require.NoError(t, err)
	require.Len(t, lims, 2)

	acme := lims[0]
	assert.Equal(t, "ACME LTD", acme.Company)
	assert.Equal(t, "ACME Ltd", acme.CompanyDisplay)
	require.NotNil(t, acme.ContractStart)
	require.NotNil(t, acme.ContractEnd)
	assert.True(t, acme.ContractStart.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, acme.ContractEnd.Equal(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, acme.TrainingsLimit)

	beta := lims[1]
	assert.Equal(t, "BETA CORP", beta.Company)
	assert.Equal(t, 0, beta.TrainingsLimit)
	assert.Equal(t, "pilot", beta.Notes)

	testutil.AssertLogContains(t, handler, slog.LevelWarn, "dropping duplicate limitation")
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "dropping limitation without company")
	assert.True(t, handler.ContainsAttr("kept_row", int64(1)))
}

func TestPrepareLimitations_Values(t *testing.T) {
	tests := []struct {
		name    string
		row     []string
		limit   int
		noStart bool
		noEnd   bool
		wantErr string
	}{
		{name: "open window", row: []string{"Omega", "", "", "", ""}, noStart: true, noEnd: true},
		{name: "spreadsheet float limit", row: []string{"Omega", "01.02.2023", "", "3.0", ""}, limit: 3, noEnd: true},
		{name: "fractional limit", row: []string{"Omega", "", "", "2.5", ""}, wantErr: domain.ColTrainingsLimit},
		{name: "negative limit", row: []string{"Omega", "", "", "-1", ""}, wantErr: domain.ColTrainingsLimit},
		{name: "text limit", row: []string{"Omega", "", "", "many", ""}, wantErr: domain.ColTrainingsLimit},
		{name: "bad start", row: []string{"Omega", "someday", "", "", ""}, wantErr: domain.ColContractStart},
		{name: "bad end", row: []string{"Omega", "", "2023-02-30", "", ""}, wantErr: domain.ColContractEnd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := domain.NewTable("limits", testutil.LimitationsHeader)
			raw.Rows = [][]string{tt.row}

			lims, err := PrepareLimitations(context.Background(), raw, nil)
			if tt.wantErr != "" {
				require.Error(t, err)
				var appErr *apperrors.AppError
				require.True(t, apperrors.As(err, &appErr))
				assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
				assert.Equal(t, tt.wantErr, appErr.Context["column"])
				assert.Equal(t, 1, appErr.Context["row"])
				return
			}

			require.NoError(t, err)
			require.Len(t, lims, 1)
			assert.Equal(t, tt.limit, lims[0].TrainingsLimit)
			assert.Equal(t, tt.noStart, lims[0].ContractStart == nil)
			assert.Equal(t, tt.noEnd, lims[0].ContractEnd == nil)
		})
	}
}

func TestPrepareLimitations_MissingCompanyColumn(t *testing.T) {
	raw := domain.NewTable("limits", []string{"Contract Start", "Trainings Limit"})

	_, err := PrepareLimitations(context.Background(), raw, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

func TestLimitationsTable(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	lims := []domain.CompanyLimitation{
		{Company: "ACME LTD", CompanyDisplay: "ACME Ltd", ContractStart: &start, TrainingsLimit: 2},
	}

	table := LimitationsTable(lims, config.DefaultCollection())

	assert.Equal(t, domain.TableNameLimitations, table.Name)
	assert.Equal(t, domain.LimitationColumns, table.Columns)
	assert.Equal(t, [][]string{{"ACME LTD", "ACME Ltd", "2023-01-01", "", "2", ""}}, table.Rows)
}
