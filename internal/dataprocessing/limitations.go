package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"trainingreports/internal/config"
	apperrors "trainingreports/internal/errors"
	"trainingreports/internal/validation"
	"trainingreports/pkg/contracts/domain"
)

// PrepareLimitations shapes the limitations input into one entry per
// company key, in input order. Rows without a company are dropped; for a
// duplicated key the first row wins. Both cases are logged. Unparsable
// dates or limits abort with a PARSING error.
func PrepareLimitations(ctx context.Context, t *domain.Table, logger *slog.Logger) ([]domain.CompanyLimitation, error) {
	if logger == nil {
		logger = slog.Default()
	}

	renamed, err := RenameColumns(t, LimitationHeaderAliases, LimitationRequiredColumns)
	if err != nil {
		return nil, err
	}

	cell := func(row []string, col string) string {
		if idx := renamed.ColumnIndex(col); idx >= 0 {
			return CleanValue(row[idx])
		}
		return ""
	}

	seen := make(map[string]int)
	out := make([]domain.CompanyLimitation, 0, renamed.Len())

	for i, row := range renamed.Rows {
		rowNo := i + 1
		display := cell(row, domain.ColCompany)
		key := CompanyKey(display)
		if key == "" {
			logger.WarnContext(ctx, "dropping limitation without company",
				slog.String("table", t.Name),
				slog.Int("row", rowNo))
			continue
		}
		if first, dup := seen[key]; dup {
			logger.WarnContext(ctx, "dropping duplicate limitation",
				slog.String("company", key),
				slog.Int("row", rowNo),
				slog.Int("kept_row", first))
			continue
		}

		lim := domain.CompanyLimitation{
			Company:        key,
			CompanyDisplay: display,
			Notes:          cell(row, domain.ColNotes),
		}

		if lim.ContractStart, err = parseOptionalDate(cell(row, domain.ColContractStart)); err != nil {
			return nil, rowError("invalid contract_start", err, t.Name, rowNo, domain.ColContractStart)
		}
		if lim.ContractEnd, err = parseOptionalDate(cell(row, domain.ColContractEnd)); err != nil {
			return nil, rowError("invalid contract_end", err, t.Name, rowNo, domain.ColContractEnd)
		}
		if lim.TrainingsLimit, err = parseLimit(cell(row, domain.ColTrainingsLimit)); err != nil {
			return nil, rowError("invalid trainings_limit", err, t.Name, rowNo, domain.ColTrainingsLimit)
		}

		if err := validation.ValidateStruct(lim); err != nil {
			return nil, rowError("invalid limitation", err, t.Name, rowNo, domain.ColCompany)
		}

		seen[key] = rowNo
		out = append(out, lim)
	}

	logger.DebugContext(ctx, "limitations prepared",
		slog.Int("input_rows", renamed.Len()),
		slog.Int("companies", len(out)))

	return out, nil
}

// parseLimit accepts integers and integral spreadsheet floats ("2.0"); empty is 0
func parseLimit(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f < 0 {
		return 0, apperrors.NewAppValidationError("trainings limit must be a non-negative whole number")
	}
	return int(f), nil
}

// LimitationsTable renders the prepared limitations as an output table
func LimitationsTable(lims []domain.CompanyLimitation, c *config.Collection) *domain.Table {
	t := domain.NewTable(domain.TableNameLimitations, domain.LimitationColumns)
	for _, l := range lims {
		var start, end string
		if l.ContractStart != nil {
			start = l.ContractStart.Format(c.DateFormat())
		}
		if l.ContractEnd != nil {
			end = l.ContractEnd.Format(c.DateFormat())
		}
		t.Rows = append(t.Rows, []string{
			l.Company,
			l.CompanyDisplay,
			start,
			end,
			strconv.Itoa(l.TrainingsLimit),
			l.Notes,
		})
	}
	return t
}
