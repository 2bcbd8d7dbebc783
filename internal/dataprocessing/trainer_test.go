package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingreports/internal/config"
	"trainingreports/pkg/contracts/domain"
)

func TestExtractTrainer(t *testing.T) {
	tests := []struct {
		calendar string
		want     string
	}{
		{"Trainer: Мария Иванова", "Maria Ivanova"},
		{"trainer:Petar Stoyanov, room 2", "Petar Stoyanov"},
		{"Maria Ivanova's calendar", "Maria Ivanova"},
		{"Maria Ivanova’s calendar", "Maria Ivanova"},
		{"Doris' calendar", "Doris"},
		{"Nikolas' calendar", "Nikolas"},
		{"Boris calendar", "Boris"},
		{"Nikolas's calendar", "Nikolas"},
		{"Session with Petar Stoyanov", "Petar Stoyanov"},
		{"with Георги Георгиев (backup)", "Georgi Georgiev"},
		{"Team meeting", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.calendar, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTrainer(tt.calendar))
		})
	}
}

func TestValidateFields_TrainerFromUncleanedCalendar(t *testing.T) {
	table := domain.NewTable("report", []string{domain.ColStartTime, domain.ColCalendar})
	require.NoError(t, table.Append([]string{"2023-03-06 10:00", "Doris' calendar"}))
	require.NoError(t, table.Append([]string{"2023-03-06 11:00", "Nikolas' calendar"}))

	records, err := BuildRecords(table)
	require.NoError(t, err)
	assert.Equal(t, "Doris calendar", records[0].Calendar, "exported calendar stays cleaned")

	ValidateFields(records, config.DefaultCollection())
	assert.Equal(t, "Doris", records[0].Trainer)
	assert.Equal(t, "Nikolas", records[1].Trainer)
	assert.NotContains(t, records[0].Flags, domain.FlagNoTrainer)
}
