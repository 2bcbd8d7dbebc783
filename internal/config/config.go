package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"trainingreports/pkg/contracts/domain"
)

var schemaPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config represents the complete application configuration
type Config struct {
	BaseDir    string           `yaml:"base_dir" envconfig:"BASE_DIR"`
	Pipeline   PipelineConfig   `yaml:"pipeline" envconfig:"PIPELINE"`
	Input      InputConfig      `yaml:"input" envconfig:"INPUT"`
	Output     OutputConfig     `yaml:"output" envconfig:"OUTPUT"`
	Postgres   PostgresConfig   `yaml:"postgres" envconfig:"POSTGRES"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
	Collection CollectionConfig `yaml:"collection" envconfig:"COLLECTION"`
}

// PipelineConfig controls period selection and step deadlines
type PipelineConfig struct {
	// Period bypasses the interactive prompt when set (YYYY-MM)
	Period string `yaml:"period" envconfig:"PERIOD" validate:"omitempty,len=7"`
	// Interactive allows prompting on stdin when no period is given
	Interactive bool `yaml:"interactive" envconfig:"INTERACTIVE"`
	// StepTimeouts overrides the deadline of single steps by step id;
	// zero disables the deadline
	StepTimeouts map[string]time.Duration `yaml:"step_timeouts" envconfig:"STEP_TIMEOUTS" validate:"dive,gte=0"`
}

// InputConfig locates the two input tables
type InputConfig struct {
	Dir                string `yaml:"dir" envconfig:"DIR" validate:"required"`
	ReportFile         string `yaml:"report_file" envconfig:"REPORT_FILE"`
	LimitationsFile    string `yaml:"limitations_file" envconfig:"LIMITATIONS_FILE"`
	ReportPattern      string `yaml:"report_pattern" envconfig:"REPORT_PATTERN" validate:"required"`
	LimitationsPattern string `yaml:"limitations_pattern" envconfig:"LIMITATIONS_PATTERN" validate:"required"`
	// Sheet selects the worksheet of XLSX inputs; empty means the first sheet
	Sheet string `yaml:"sheet" envconfig:"SHEET"`
}

// OutputConfig controls where and how the report set is exported
type OutputConfig struct {
	Dir            string   `yaml:"dir" envconfig:"DIR" validate:"required"`
	Formats        []string `yaml:"formats" envconfig:"FORMATS" validate:"required,min=1,dive,oneof=csv xlsx postgres"`
	Concurrency    int      `yaml:"concurrency" envconfig:"CONCURRENCY" validate:"gte=1,lte=16"`
	WorkbookPrefix string   `yaml:"workbook_prefix" envconfig:"WORKBOOK_PREFIX" validate:"required"`
}

// PostgresConfig configures the optional PostgreSQL sink
type PostgresConfig struct {
	DSN     string        `yaml:"dsn" envconfig:"DSN"`
	Schema  string        `yaml:"schema" envconfig:"SCHEMA" validate:"required"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig controls OpenTelemetry traces and the metrics textfile
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled" envconfig:"ENABLED"`
	TraceStdout bool   `yaml:"trace_stdout" envconfig:"TRACE_STDOUT"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load builds the configuration from defaults, the YAML file and the
// environment, in that order. An empty configFile triggers the lookup
// described in the package documentation.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configFile, err)
		}
	}

	// Environment overrides; fields without a variable keep their value
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// resolvePaths anchors every relative path at the base directory
func (c *Config) resolvePaths() error {
	if c.BaseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		c.BaseDir = wd
	}

	base, err := filepath.Abs(c.BaseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base dir: %w", err)
	}
	c.BaseDir = base

	c.Input.Dir = c.resolve(c.Input.Dir)
	c.Output.Dir = c.resolve(c.Output.Dir)
	if c.Input.ReportFile != "" {
		c.Input.ReportFile = c.resolve(c.Input.ReportFile)
	}
	if c.Input.LimitationsFile != "" {
		c.Input.LimitationsFile = c.resolve(c.Input.LimitationsFile)
	}
	if c.Logging.FilePath != "" {
		c.Logging.FilePath = c.resolve(c.Logging.FilePath)
	}
	if c.Telemetry.MetricsFile != "" {
		c.Telemetry.MetricsFile = c.resolve(c.Telemetry.MetricsFile)
	}
	return nil
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

// Validate checks struct tags and the cross-field rules
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.HasFormat(domain.ReportFormatPostgres) && c.Postgres.DSN == "" {
		return fmt.Errorf("postgres output requires postgres.dsn")
	}

	if !schemaPattern.MatchString(c.Postgres.Schema) {
		return fmt.Errorf("invalid postgres schema name %q", c.Postgres.Schema)
	}

	if (c.Logging.Output == "file" || c.Logging.Output == "both") && c.Logging.FilePath == "" {
		return fmt.Errorf("logging output %q requires logging.file_path", c.Logging.Output)
	}

	if _, err := c.Collection.Build(); err != nil {
		return err
	}

	return nil
}

// HasFormat reports whether the given export format is enabled
func (c *Config) HasFormat(format domain.ReportFormat) bool {
	for _, f := range c.Output.Formats {
		if strings.EqualFold(strings.TrimSpace(f), string(format)) {
			return true
		}
	}
	return false
}

// ReportFormats returns the enabled export formats
func (c *Config) ReportFormats() []domain.ReportFormat {
	formats := make([]domain.ReportFormat, 0, len(c.Output.Formats))
	for _, f := range c.Output.Formats {
		formats = append(formats, domain.ReportFormat(strings.ToLower(strings.TrimSpace(f))))
	}
	return formats
}

// Paths returns the resolved directory layout
func (c *Config) Paths() *Paths {
	return NewPaths(c.BaseDir, c.Input.Dir, c.Output.Dir, filepath.Dir(c.Logging.FilePath))
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvConfigFile); path != "" {
		return path
	}

	locations := []string{
		"training.yaml",
		"configs/training.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Interactive: true,
		},
		Input: InputConfig{
			Dir:                DefaultInputDir,
			ReportPattern:      DefaultReportPattern,
			LimitationsPattern: DefaultLimitationsPattern,
		},
		Output: OutputConfig{
			Dir:            DefaultReportsDir,
			Formats:        []string{string(domain.ReportFormatCSV), string(domain.ReportFormatExcel)},
			Concurrency:    DefaultExportConcurrency,
			WorkbookPrefix: DefaultWorkbookPrefix,
		},
		Postgres: PostgresConfig{
			Schema:  DefaultPostgresSchema,
			Timeout: DefaultPostgresTimeout,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			Enabled:     true,
			MetricsFile: DefaultMetricsFile,
		},
	}
}
