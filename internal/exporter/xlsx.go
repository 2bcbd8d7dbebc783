package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/xuri/excelize/v2"

	"trainingreports/internal/config"
	apperrors "trainingreports/internal/errors"
	"trainingreports/pkg/contracts/domain"
)

// maxSheetName is the longest worksheet name Excel accepts
const maxSheetName = 31

// XLSXWriter writes every output table as one sheet of a single workbook.
// Sheets are created in canonical table order; the workbook is saved on
// Close and dropped on Discard.
type XLSXWriter struct {
	paths  *config.Paths
	prefix string
	logger *slog.Logger

	mu     sync.Mutex
	file   *excelize.File
	path   string
	period domain.Period
}

// NewXLSXWriter creates a workbook writer
func NewXLSXWriter(paths *config.Paths, prefix string, logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{paths: paths, prefix: prefix, logger: logger}
}

// Format implements TableWriter
func (w *XLSXWriter) Format() domain.ReportFormat {
	return domain.ReportFormatExcel
}

// Prepare creates the workbook with one empty sheet per table
func (w *XLSXWriter) Prepare(ctx context.Context, set *domain.ReportSet) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)

	for i, t := range set.Ordered() {
		name := sheetName(t.Name)
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return apperrors.NewStorageError("failed to create worksheet", err).WithContext("sheet", name)
		}
		if i == 0 {
			idx, _ := f.GetSheetIndex(name)
			f.SetActiveSheet(idx)
		}
	}
	if defaultSheet != "" && !hasSheet(set, defaultSheet) {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			f.Close()
			return apperrors.NewStorageError("failed to remove default worksheet", err)
		}
	}

	w.file = f
	w.period = set.Period
	w.path = w.paths.GetWorkbookPath(set.Period, w.prefix)
	return nil
}

// WriteTable streams t into its sheet
func (w *XLSXWriter) WriteTable(ctx context.Context, set *domain.ReportSet, t *domain.Table) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return "", apperrors.NewStorageError("workbook not prepared", nil)
	}

	name := sheetName(t.Name)
	if err := writeSheet(ctx, w.file, name, t); err != nil {
		return "", apperrors.NewStorageError("failed to write worksheet", err).
			WithContext("sheet", name).
			WithContext("file", w.path)
	}
	return w.path, nil
}

// Close saves the workbook
func (w *XLSXWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	defer func() {
		w.file.Close()
		w.file = nil
	}()

	if _, err := w.paths.EnsurePeriodDirectory(w.period); err != nil {
		return apperrors.NewStorageError("failed to create report directory", err)
	}
	if err := w.file.SaveAs(w.path); err != nil {
		return apperrors.NewStorageError("failed to save workbook", err).WithContext("file", w.path)
	}
	w.logger.DebugContext(ctx, "workbook saved", slog.String("file", w.path))
	return nil
}

// Discard drops the workbook without saving it
func (w *XLSXWriter) Discard(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	w.logger.WarnContext(ctx, "workbook discarded", slog.String("file", w.path))
	return err
}

func writeSheet(ctx context.Context, f *excelize.File, sheet string, t *domain.Table) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	if err := sw.SetRow("A1", toCells(t.Columns)); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, toCells(row)); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return sw.Flush()
}

// toCells keeps every value a string so Excel does not reinterpret it
func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func sheetName(table string) string {
	if len(table) > maxSheetName {
		return table[:maxSheetName]
	}
	return table
}

func hasSheet(set *domain.ReportSet, name string) bool {
	for _, t := range set.Ordered() {
		if sheetName(t.Name) == name {
			return true
		}
	}
	return false
}
