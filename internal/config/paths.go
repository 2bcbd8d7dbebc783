package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"trainingreports/pkg/contracts/domain"
)

// Paths contains all the application paths
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	BaseDir    string
	InputDir   string
	ReportsDir string
	LogsDir    string
}

// NewPaths builds the layout; relative directories are anchored at baseDir
func NewPaths(baseDir, inputDir, reportsDir, logsDir string) *Paths {
	anchor := func(p, fallback string) string {
		if p == "" {
			p = fallback
		}
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	return &Paths{
		BaseDir:    baseDir,
		InputDir:   anchor(inputDir, DefaultInputDir),
		ReportsDir: anchor(reportsDir, DefaultReportsDir),
		LogsDir:    anchor(logsDir, DefaultLogsDir),
	}
}

// EnsurePeriodDirectory creates the output directory of period and
// returns it
func (p *Paths) EnsurePeriodDirectory(period domain.Period) (string, error) {
	dir := p.PeriodReportsDir(period)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return dir, nil
}

// PeriodReportsDir returns the output directory of one period
func (p *Paths) PeriodReportsDir(period domain.Period) string {
	return filepath.Join(p.ReportsDir, period.String())
}

// GetReportPath returns the CSV path of one output table
func (p *Paths) GetReportPath(period domain.Period, table string) string {
	return filepath.Join(p.PeriodReportsDir(period), table+".csv")
}

// GetWorkbookPath returns the XLSX workbook path of one period
func (p *Paths) GetWorkbookPath(period domain.Period, prefix string) string {
	if prefix == "" {
		prefix = DefaultWorkbookPrefix
	}
	return filepath.Join(p.PeriodReportsDir(period), fmt.Sprintf("%s_%s.xlsx", prefix, period.String()))
}

// LogPathResolution logs the resolved layout
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		return
	}

	logger.Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("input", p.InputDir),
			slog.String("reports", p.ReportsDir),
			slog.String("logs", p.LogsDir),
		))
}
