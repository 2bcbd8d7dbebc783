package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"trainingreports/internal/config"
	apperrors "trainingreports/internal/errors"
	"trainingreports/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes one CSV file per output table under the period directory
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{paths: paths, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// Format implements TableWriter
func (w *CSVWriter) Format() domain.ReportFormat {
	return domain.ReportFormatCSV
}

// Prepare creates the period directory
func (w *CSVWriter) Prepare(ctx context.Context, set *domain.ReportSet) error {
	if _, err := w.paths.EnsurePeriodDirectory(set.Period); err != nil {
		return apperrors.NewStorageError("failed to create report directory", err).
			WithContext("directory", w.paths.PeriodReportsDir(set.Period))
	}
	return nil
}

// WriteTable writes t to <reports>/<period>/<table>.csv
func (w *CSVWriter) WriteTable(ctx context.Context, set *domain.ReportSet, t *domain.Table) (string, error) {
	path := w.paths.GetReportPath(set.Period, t.Name)
	err := w.WriteCSV(path, WriteOptions{
		Headers:   t.Columns,
		Records:   t.Rows,
		BOMPrefix: true,
	})
	if err != nil {
		return "", apperrors.NewStorageError("failed to write CSV report", err).
			WithContext("table", t.Name).
			WithContext("file", path)
	}
	return path, nil
}

// Close implements TableWriter
func (w *CSVWriter) Close(ctx context.Context) error {
	return nil
}

// WriteCSV writes data to a CSV file with the given options. The file is
// written next to its final path and renamed into place.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Debug("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*")
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	tmp := file.Name()
	defer os.Remove(tmp)

	if err := file.Chmod(0644); err != nil {
		file.Close()
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := writeRecords(file, options); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp, filePath); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}

func writeRecords(file *os.File, options WriteOptions) error {
	// BOM helps Excel recognize UTF-8
	if options.BOMPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
