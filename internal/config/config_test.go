package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingreports/pkg/contracts/domain"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "training.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults without file or env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Pipeline.Interactive)
				assert.Empty(t, cfg.Pipeline.Period)
				assert.Equal(t, []string{"csv", "xlsx"}, cfg.Output.Formats)
				assert.Equal(t, DefaultExportConcurrency, cfg.Output.Concurrency)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.True(t, filepath.IsAbs(cfg.Input.Dir))
				assert.True(t, filepath.IsAbs(cfg.Output.Dir))
			},
		},
		{
			name: "file values are applied",
			file: `
pipeline:
  period: "2023-03"
  interactive: false
output:
  formats: [csv]
  concurrency: 2
postgres:
  timeout: 30s
logging:
  level: debug
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "2023-03", cfg.Pipeline.Period)
				assert.False(t, cfg.Pipeline.Interactive)
				assert.Equal(t, []string{"csv"}, cfg.Output.Formats)
				assert.Equal(t, 2, cfg.Output.Concurrency)
				assert.Equal(t, 30*time.Second, cfg.Postgres.Timeout)
				assert.Equal(t, "debug", cfg.Logging.Level)
				// untouched sections keep their defaults
				assert.Equal(t, DefaultPostgresSchema, cfg.Postgres.Schema)
			},
		},
		{
			name: "environment overrides file",
			file: `
pipeline:
  period: "2023-03"
logging:
  level: debug
`,
			env: map[string]string{
				"TRAINING_PIPELINE_PERIOD": "2024-01",
				"TRAINING_OUTPUT_FORMATS":  "csv,xlsx,postgres",
				"TRAINING_POSTGRES_DSN":    "postgres://localhost/hr",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "2024-01", cfg.Pipeline.Period)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.True(t, cfg.HasFormat(domain.ReportFormatPostgres))
				assert.Equal(t, "postgres://localhost/hr", cfg.Postgres.DSN)
			},
		},
		{
			name: "step timeouts from file and env",
			file: "pipeline:\n  step_timeouts:\n    normalize: 30s\n",
			env:  map[string]string{"TRAINING_PIPELINE_STEP_TIMEOUTS": "export:2m,read_inputs:10s"},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, map[string]time.Duration{
					"export":      2 * time.Minute,
					"read_inputs": 10 * time.Second,
				}, cfg.Pipeline.StepTimeouts, "env replaces the whole map")
			},
		},
		{
			name:    "negative step timeout",
			file:    "pipeline:\n  step_timeouts:\n    normalize: -1s\n",
			wantErr: "config validation failed",
		},
		{
			name:    "postgres format without dsn",
			env:     map[string]string{"TRAINING_OUTPUT_FORMATS": "postgres"},
			wantErr: "postgres output requires postgres.dsn",
		},
		{
			name:    "unknown output format",
			env:     map[string]string{"TRAINING_OUTPUT_FORMATS": "pdf"},
			wantErr: "config validation failed",
		},
		{
			name:    "invalid log level",
			file:    "logging:\n  level: verbose\n",
			wantErr: "config validation failed",
		},
		{
			name:    "invalid curated column",
			file:    "collection:\n  curated_columns: [first_name, salary]\n",
			wantErr: "unknown curated column",
		},
		{
			name:    "malformed yaml",
			file:    "pipeline: [",
			wantErr: "failed to load config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigFile, "")
			t.Setenv("TRAINING_BASE_DIR", t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_ConfigFileFromEnv(t *testing.T) {
	path := writeConfigFile(t, "output:\n  workbook_prefix: hr_trainings\n")
	t.Setenv(EnvConfigFile, path)
	t.Setenv("TRAINING_BASE_DIR", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "hr_trainings", cfg.Output.WorkbookPrefix)
}

func TestConfig_ResolvePaths(t *testing.T) {
	base := t.TempDir()
	abs := filepath.Join(t.TempDir(), "limits.csv")

	cfg := Default()
	cfg.BaseDir = base
	cfg.Input.ReportFile = "in/report.csv"
	cfg.Input.LimitationsFile = abs
	require.NoError(t, cfg.resolvePaths())

	assert.Equal(t, filepath.Join(base, DefaultInputDir), cfg.Input.Dir)
	assert.Equal(t, filepath.Join(base, DefaultReportsDir), cfg.Output.Dir)
	assert.Equal(t, filepath.Join(base, "in/report.csv"), cfg.Input.ReportFile)
	assert.Equal(t, abs, cfg.Input.LimitationsFile)
}

func TestConfig_ReportFormats(t *testing.T) {
	cfg := Default()
	cfg.Output.Formats = []string{" CSV", "xlsx"}

	assert.Equal(t, []domain.ReportFormat{domain.ReportFormatCSV, domain.ReportFormatExcel}, cfg.ReportFormats())
	assert.True(t, cfg.HasFormat(domain.ReportFormatCSV))
	assert.False(t, cfg.HasFormat(domain.ReportFormatPostgres))
}

func TestConfig_ValidateSchema(t *testing.T) {
	cfg := Default()
	cfg.Postgres.Schema = "hr-reports"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid postgres schema name")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultWorkbookPrefix, cfg.Output.WorkbookPrefix)
	assert.Equal(t, DefaultPostgresTimeout, cfg.Postgres.Timeout)
}
