package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "trainingreports/internal/errors"
	"trainingreports/pkg/contracts/domain"
)

// ReadTable reads a CSV or XLSX input into a table whose columns are the
// header row as found in the file. Empty rows are skipped; short rows are
// padded and long rows truncated to the header width. sheet selects the
// worksheet of an XLSX file; empty means the first sheet holding data.
func ReadTable(ctx context.Context, path, sheet string) (*domain.Table, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(ctx, path)
	case ".xlsx":
		rows, err = readXLSX(ctx, path, sheet)
	default:
		return nil, apperrors.NewInputError("unsupported input file type", nil).
			WithContext("file", path)
	}
	if err != nil {
		return nil, err
	}

	header := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, apperrors.NewParsingError("input has no header row", nil).
			WithContext("file", path)
	}

	columns := make([]string, len(rows[header]))
	for i, h := range rows[header] {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	for len(columns) > 0 && columns[len(columns)-1] == "" {
		columns = columns[:len(columns)-1]
	}

	table := domain.NewTable(filepath.Base(path), columns)
	for _, row := range rows[header+1:] {
		if isBlankRow(row) {
			continue
		}
		cells := make([]string, len(columns))
		copy(cells, row)
		table.Rows = append(table.Rows, cells)
	}

	slog.DebugContext(ctx, "input table read",
		slog.String("file", path),
		slog.Int("columns", len(columns)),
		slog.Int("rows", table.Len()))

	return table, nil
}

func readCSV(ctx context.Context, path string) ([][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewInputError("failed to read input file", err).
			WithContext("file", path)
	}

	data, enc, err := DecodeBytes(raw)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to decode input file", err).
			WithContext("file", path)
	}
	slog.DebugContext(ctx, "detected input encoding",
		slog.String("file", path),
		slog.String("encoding", enc))

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line, _ := r.FieldPos(0)
			return nil, apperrors.NewParsingError("malformed CSV", err).
				WithContext("file", path).
				WithContext("line", line)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// sniffDelimiter picks ',' ';' or tab by counting them on the first line
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}

	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func readXLSX(ctx context.Context, path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewInputError("failed to open workbook", err).
			WithContext("file", path)
	}
	defer f.Close()

	if sheet != "" {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read worksheet", err).
				WithContext("file", path).
				WithContext("sheet", sheet)
		}
		return rows, nil
	}

	// First sheet holding at least one non-empty row
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		for _, row := range rows {
			if !isBlankRow(row) {
				slog.DebugContext(ctx, "using worksheet",
					slog.String("file", path),
					slog.String("sheet", name))
				return rows, nil
			}
		}
	}

	return nil, apperrors.NewParsingError(fmt.Sprintf("no worksheet with data in %s", filepath.Base(path)), nil).
		WithContext("file", path)
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
