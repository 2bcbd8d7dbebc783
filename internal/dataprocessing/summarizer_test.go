package dataprocessing

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingreports/pkg/contracts/domain"
)

func inMarch(records []*domain.TrainingRecord) []*domain.TrainingRecord {
	var out []*domain.TrainingRecord
	for _, r := range records {
		if r.StartTime.Year() == 2023 && r.StartTime.Month() == time.March {
			out = append(out, r)
		}
	}
	return out
}

// columnSum adds up an integer column
func columnSum(t *testing.T, table *domain.Table, column string) int {
	t.Helper()
	idx := table.ColumnIndex(column)
	require.GreaterOrEqual(t, idx, 0, column)
	sum := 0
	for _, row := range table.Rows {
		n, err := strconv.Atoi(row[idx])
		require.NoError(t, err)
		sum += n
	}
	return sum
}

func TestSummarizer_TotalTrainings(t *testing.T) {
	full, _ := fixtureRecords(t)
	monthly := inMarch(full)
	s := NewSummarizer(nil)

	table := s.TotalTrainings(context.Background(), monthly, full)

	assert.Equal(t, domain.TableNameTotalTrainings, table.Name)
	assert.Equal(t, TotalTrainingsColumns, table.Columns)
	assert.Equal(t, [][]string{
		{"Ivan Petrov", "ivan.petrov@acme.bg", "ACME LTD", "2", "3"},
		{"Georgi Dimitrov", "g.dimitrov@beta.com", "BETA CORP", "1", "1"},
		{"Elena Koleva", "elena.koleva@", "GAMMA AD", "1", "1"},
		{"Stefan Nikolov", "s.nikolov@beta.com", "BETA CORP", "0", "1"},
	}, table.Rows)

	assert.Equal(t, len(monthly), columnSum(t, table, ColMonthlyTrainings))
	assert.Equal(t, len(full), columnSum(t, table, ColAnnualTrainings))
}

func TestSummarizer_TrainerSummary(t *testing.T) {
	full, _ := fixtureRecords(t)
	monthly := inMarch(full)
	s := NewSummarizer(nil)

	table := s.TrainerSummary(context.Background(), monthly, full)

	assert.Equal(t, domain.TableNameTrainers, table.Name)
	assert.Equal(t, TrainerColumns, table.Columns)
	assert.Equal(t, [][]string{
		{"Maria Ivanova", "2", "3"},
		{"Petar Stoyanov", "1", "2"},
		{"", "1", "1"},
	}, table.Rows)

	assert.Equal(t, len(monthly), columnSum(t, table, ColMonthlyTrainings))
	assert.Equal(t, len(full), columnSum(t, table, ColAnnualTrainings))
}

func TestSummarizer_Ordering(t *testing.T) {
	rec := func(trainer string, month time.Month) *domain.TrainingRecord {
		return &domain.TrainingRecord{Trainer: trainer, StartTime: time.Date(2023, month, 1, 9, 0, 0, 0, time.UTC)}
	}
	full := []*domain.TrainingRecord{
		rec("a", time.January),
		rec("b", time.March),
		rec("c", time.March),
		rec("c", time.January),
		rec("d", time.March),
	}

	table := NewSummarizer(nil).TrainerSummary(context.Background(), inMarch(full), full)

	// c leads on the annual count; b and d tie and keep first appearance
	assert.Equal(t, [][]string{
		{"c", "1", "2"},
		{"b", "1", "1"},
		{"d", "1", "1"},
		{"a", "0", "1"},
	}, table.Rows)
}

func TestSummarizer_Empty(t *testing.T) {
	table := NewSummarizer(nil).TotalTrainings(context.Background(), nil, nil)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, TotalTrainingsColumns, table.Columns)
}

func TestGroupID(t *testing.T) {
	assert.NotEqual(t, groupID([]string{"a|b", "c"}), groupID([]string{"a", "b|c"}))
	assert.Equal(t, groupID([]string{"x", "y"}), groupID([]string{"x", "y"}))
}
