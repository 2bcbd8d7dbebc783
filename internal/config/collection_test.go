package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingreports/pkg/contracts/domain"
)

func TestDefaultCollection(t *testing.T) {
	c := DefaultCollection()

	assert.Equal(t, DefaultDatetimeFormat, c.DatetimeFormat())
	assert.Equal(t, DefaultDateFormat, c.DateFormat())
	assert.Equal(t, DefaultCuratedColumns, c.CuratedColumns())
	assert.Len(t, c.Flags(), 7)
	assert.Equal(t, "+359", c.PhonePrefix())

	for _, col := range c.CuratedColumns() {
		assert.True(t, domain.IsTrainingColumn(col), col)
	}
}

func TestCollection_PeriodPattern(t *testing.T) {
	re := DefaultCollection().PeriodPattern()

	tests := []struct {
		input string
		want  bool
	}{
		{"2023-03", true},
		{"2023-13", true},
		{"2023-3", false},
		{"23-03", false},
		{"2023-03-01", false},
		{"x2023-03", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, re.MatchString(tt.input))
		})
	}
}

func TestCollection_PhonePattern(t *testing.T) {
	re := DefaultCollection().PhonePattern()

	assert.True(t, re.MatchString("0888123456"))
	assert.True(t, re.MatchString("+359878123456"))
	assert.True(t, re.MatchString("00359898123456"))
	assert.False(t, re.MatchString("0288123456"))
	assert.False(t, re.MatchString("088812345"))
}

func TestCollection_AccessorsReturnCopies(t *testing.T) {
	c := DefaultCollection()

	cols := c.CuratedColumns()
	cols[0] = "mutated"
	assert.Equal(t, domain.ColFirstName, c.CuratedColumns()[0])

	flags := c.Flags()
	flags[0].Code = "MUTATED"
	assert.Equal(t, domain.FlagInvalidPhone, c.Flags()[0].Code)
}

func TestCollection_FlagsTable(t *testing.T) {
	table := DefaultCollection().FlagsTable()

	assert.Equal(t, domain.TableNameFlags, table.Name)
	assert.Equal(t, []string{"code", "description"}, table.Columns)
	require.Equal(t, 7, table.Len())
	assert.Equal(t, "INVALID_PHONE", table.Rows[0][0])
}

func TestCollectionConfig_Build(t *testing.T) {
	tests := []struct {
		name    string
		cfg     CollectionConfig
		wantErr string
		check   func(*testing.T, *Collection)
	}{
		{
			name: "curated override",
			cfg:  CollectionConfig{CuratedColumns: []string{"email", " first_name "}},
			check: func(t *testing.T, c *Collection) {
				assert.Equal(t, []string{"email", "first_name"}, c.CuratedColumns())
			},
		},
		{
			name: "flags override",
			cfg: CollectionConfig{Flags: []domain.Flag{
				{Code: domain.FlagNoTrainer, Description: "no trainer"},
			}},
			check: func(t *testing.T, c *Collection) {
				assert.Len(t, c.Flags(), 1)
			},
		},
		{
			name: "custom phone pattern",
			cfg:  CollectionConfig{PhonePattern: `^\d{10}$`, PhonePrefix: "+1"},
			check: func(t *testing.T, c *Collection) {
				assert.True(t, c.PhonePattern().MatchString("5551234567"))
				assert.Equal(t, "+1", c.PhonePrefix())
			},
		},
		{
			name: "alternative datetime format",
			cfg:  CollectionConfig{DatetimeFormat: "02.01.2006 15:04"},
			check: func(t *testing.T, c *Collection) {
				assert.Equal(t, "02.01.2006 15:04", c.DatetimeFormat())
			},
		},
		{
			name:    "duplicate column",
			cfg:     CollectionConfig{CuratedColumns: []string{"email", "email"}},
			wantErr: "duplicate curated column",
		},
		{
			name:    "duplicate flag",
			cfg:     CollectionConfig{Flags: []domain.Flag{{Code: "A", Description: "a"}, {Code: "A", Description: "b"}}},
			wantErr: "duplicate flag code",
		},
		{
			name:    "flag without description",
			cfg:     CollectionConfig{Flags: []domain.Flag{{Code: "A"}}},
			wantErr: "invalid collection",
		},
		{
			name:    "bad phone regex",
			cfg:     CollectionConfig{PhonePattern: "(["},
			wantErr: "phone pattern",
		},
		{
			name:    "lossy datetime format",
			cfg:     CollectionConfig{DatetimeFormat: "2006"},
			wantErr: "does not round-trip",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.cfg.Build()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}
