package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"trainingreports/pkg/contracts/domain"
)

// CollectionConfig holds the optional overrides of the reference data.
// Empty fields fall back to the built-in defaults.
type CollectionConfig struct {
	Flags          []domain.Flag `yaml:"flags" ignored:"true" validate:"omitempty,dive"`
	CuratedColumns []string      `yaml:"curated_columns" envconfig:"CURATED_COLUMNS"`
	DatetimeFormat string        `yaml:"datetime_format" envconfig:"DATETIME_FORMAT"`
	PhonePattern   string        `yaml:"phone_pattern" envconfig:"PHONE_PATTERN"`
	PhonePrefix    string        `yaml:"phone_prefix" envconfig:"PHONE_PREFIX"`
}

// Collection is the read-only reference data a pipeline run is parameterized
// with. It is built once and shared; accessors return copies.
type Collection struct {
	flags          []domain.Flag
	curatedColumns []string
	datetimeFormat string
	dateFormat     string
	periodPattern  *regexp.Regexp
	phonePattern   *regexp.Regexp
	phonePrefix    string
}

// DefaultFlags is the built-in flags table
var DefaultFlags = []domain.Flag{
	{Code: domain.FlagInvalidPhone, Description: "Phone number does not match the expected mobile format"},
	{Code: domain.FlagInvalidEmail, Description: "Email address is malformed"},
	{Code: domain.FlagNoTrainer, Description: "No trainer could be extracted from the calendar field"},
	{Code: domain.FlagUnknownMode, Description: "Delivery mode is neither in person nor online"},
	{Code: domain.FlagNoContract, Description: "Company has no entry in the limitations table"},
	{Code: domain.FlagInactiveContract, Description: "Training date is outside the company contract window"},
	{Code: domain.FlagOverLimit, Description: "Employee exceeded the company training limit"},
}

// DefaultCuratedColumns is the built-in column list of the curated reports
var DefaultCuratedColumns = []string{
	domain.ColFirstName,
	domain.ColLastName,
	domain.ColNickname,
	domain.ColEmail,
	domain.ColCompany,
	domain.ColDeliveryMode,
	domain.ColTrainer,
	domain.ColPhone,
	domain.ColTrainingDatetime,
	domain.ColMonth,
	domain.ColYear,
	domain.ColDayName,
	domain.ColTrainingNo,
	domain.ColTrainingsLimit,
	domain.ColActiveContract,
	domain.ColFlags,
}

// DefaultCollection returns the built-in collection
func DefaultCollection() *Collection {
	c, err := CollectionConfig{}.Build()
	if err != nil {
		// defaults are compile-time constants
		panic(err)
	}
	return c
}

// Build validates the overrides and returns the resulting collection
func (cc CollectionConfig) Build() (*Collection, error) {
	validate := validator.New()
	if err := validate.Struct(cc); err != nil {
		return nil, fmt.Errorf("invalid collection: %w", err)
	}

	c := &Collection{
		flags:          DefaultFlags,
		curatedColumns: DefaultCuratedColumns,
		datetimeFormat: DefaultDatetimeFormat,
		dateFormat:     DefaultDateFormat,
		periodPattern:  regexp.MustCompile(DefaultPeriodPattern),
		phonePrefix:    DefaultPhonePrefix,
	}

	if len(cc.Flags) > 0 {
		seen := make(map[domain.FlagCode]bool, len(cc.Flags))
		for _, f := range cc.Flags {
			if seen[f.Code] {
				return nil, fmt.Errorf("invalid collection: duplicate flag code %s", f.Code)
			}
			seen[f.Code] = true
		}
		c.flags = cc.Flags
	}

	if len(cc.CuratedColumns) > 0 {
		seen := make(map[string]bool, len(cc.CuratedColumns))
		cols := make([]string, 0, len(cc.CuratedColumns))
		for _, col := range cc.CuratedColumns {
			col = strings.TrimSpace(col)
			if !domain.IsTrainingColumn(col) {
				return nil, fmt.Errorf("invalid collection: unknown curated column %q", col)
			}
			if seen[col] {
				return nil, fmt.Errorf("invalid collection: duplicate curated column %q", col)
			}
			seen[col] = true
			cols = append(cols, col)
		}
		c.curatedColumns = cols
	}

	if cc.DatetimeFormat != "" {
		sample := time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)
		parsed, err := time.Parse(cc.DatetimeFormat, sample.Format(cc.DatetimeFormat))
		if err != nil || !parsed.Equal(sample) {
			return nil, fmt.Errorf("invalid collection: datetime format %q does not round-trip", cc.DatetimeFormat)
		}
		c.datetimeFormat = cc.DatetimeFormat
	}

	pattern := DefaultPhonePattern
	if cc.PhonePattern != "" {
		pattern = cc.PhonePattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid collection: phone pattern: %w", err)
	}
	c.phonePattern = re

	if cc.PhonePrefix != "" {
		c.phonePrefix = cc.PhonePrefix
	}

	c.flags = append([]domain.Flag(nil), c.flags...)
	c.curatedColumns = append([]string(nil), c.curatedColumns...)
	return c, nil
}

// Flags returns the flags table entries
func (c *Collection) Flags() []domain.Flag {
	return append([]domain.Flag(nil), c.flags...)
}

// FlagsTable returns the flags table as an output table
func (c *Collection) FlagsTable() *domain.Table {
	t := domain.NewTable(domain.TableNameFlags, []string{"code", "description"})
	for _, f := range c.flags {
		t.Rows = append(t.Rows, []string{string(f.Code), f.Description})
	}
	return t
}

// CuratedColumns returns the column list of the curated reports
func (c *Collection) CuratedColumns() []string {
	return append([]string(nil), c.curatedColumns...)
}

// DatetimeFormat is the canonical layout for timestamps in the reports
func (c *Collection) DatetimeFormat() string {
	return c.datetimeFormat
}

// DateFormat is the layout for date-only fields
func (c *Collection) DateFormat() string {
	return c.dateFormat
}

// PeriodPattern matches a well-formed YYYY-MM period
func (c *Collection) PeriodPattern() *regexp.Regexp {
	return c.periodPattern
}

// PhonePattern matches a cleaned, valid phone number
func (c *Collection) PhonePattern() *regexp.Regexp {
	return c.phonePattern
}

// PhonePrefix is the international prefix valid numbers are normalized to
func (c *Collection) PhonePrefix() string {
	return c.phonePrefix
}
