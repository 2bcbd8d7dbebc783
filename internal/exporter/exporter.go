package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"trainingreports/internal/config"
	apperrors "trainingreports/internal/errors"
	"trainingreports/internal/infrastructure"
	"trainingreports/pkg/contracts/domain"
)

// DefaultConcurrency bounds the number of tables written at once
const DefaultConcurrency = 4

// TableWriter persists the tables of a report set in one format.
// Prepare runs once before any WriteTable; Close runs once after all of them,
// also on writers whose Prepare was never reached. WriteTable may be called
// concurrently.
type TableWriter interface {
	Format() domain.ReportFormat
	Prepare(ctx context.Context, set *domain.ReportSet) error
	WriteTable(ctx context.Context, set *domain.ReportSet, t *domain.Table) (string, error)
	Close(ctx context.Context) error
}

// Discarder is implemented by writers that hold their output until Close.
// After a failed export Discard replaces Close.
type Discarder interface {
	Discard(ctx context.Context) error
}

// Output describes one table written by one writer
type Output struct {
	Format   domain.ReportFormat
	Table    string
	Location string
	Rows     int
	Duration time.Duration
}

// Result lists everything an export produced, sorted by format then table order
type Result struct {
	Outputs []Output
}

// Exporter fans the tables of a report set out to its writers
type Exporter struct {
	writers     []TableWriter
	concurrency int
	metrics     *infrastructure.RunMetrics
	logger      *slog.Logger
}

// NewExporter creates an exporter over writers
func NewExporter(writers []TableWriter, concurrency int, metrics *infrastructure.RunMetrics, logger *slog.Logger) *Exporter {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		writers:     writers,
		concurrency: concurrency,
		metrics:     metrics,
		logger:      logger.With(slog.String("component", "exporter")),
	}
}

// NewFromConfig builds one writer per configured output format
func NewFromConfig(ctx context.Context, cfg *config.Config, metrics *infrastructure.RunMetrics, logger *slog.Logger) (*Exporter, error) {
	paths := cfg.Paths()

	var writers []TableWriter
	for _, format := range cfg.ReportFormats() {
		switch format {
		case domain.ReportFormatCSV:
			writers = append(writers, NewCSVWriter(paths, logger))
		case domain.ReportFormatExcel:
			writers = append(writers, NewXLSXWriter(paths, cfg.Output.WorkbookPrefix, logger))
		case domain.ReportFormatPostgres:
			pw, err := NewPostgresWriter(ctx, cfg.Postgres, logger)
			if err != nil {
				closeWriters(ctx, writers)
				return nil, err
			}
			writers = append(writers, pw)
		default:
			closeWriters(ctx, writers)
			return nil, apperrors.NewConfigError(fmt.Sprintf("unsupported output format %q", format), nil)
		}
	}

	return NewExporter(writers, cfg.Output.Concurrency, metrics, logger), nil
}

// Formats returns the formats this exporter writes
func (e *Exporter) Formats() []domain.ReportFormat {
	formats := make([]domain.ReportFormat, len(e.writers))
	for i, w := range e.writers {
		formats[i] = w.Format()
	}
	return formats
}

// Export writes every table of set with every writer. The first failure
// cancels the remaining writes. Writers are always closed, or discarded
// when the export failed.
func (e *Exporter) Export(ctx context.Context, set *domain.ReportSet) (*Result, error) {
	if set == nil || !set.Complete() {
		return nil, apperrors.NewAppValidationError("report set is incomplete")
	}

	logger := e.logger.With(
		slog.String("run_id", set.RunID),
		slog.String("period", set.Period.String()))

	start := time.Now()
	tables := set.Ordered()

	for _, w := range e.writers {
		if err := w.Prepare(ctx, set); err != nil {
			closeErr := finishWriters(ctx, e.writers, true)
			return nil, errors.Join(err, closeErr)
		}
	}

	var (
		mu      sync.Mutex
		outputs []Output
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for _, w := range e.writers {
		for _, t := range tables {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				began := time.Now()
				location, err := w.WriteTable(gctx, set, t)
				elapsed := time.Since(began)
				e.metrics.RecordExport(gctx, string(w.Format()), t.Name, t.Len(), elapsed, err)
				if err != nil {
					return err
				}

				logger.DebugContext(gctx, "table exported",
					slog.String("format", string(w.Format())),
					slog.String("table", t.Name),
					slog.Int("rows", t.Len()),
					slog.Duration("duration", elapsed))

				mu.Lock()
				outputs = append(outputs, Output{
					Format:   w.Format(),
					Table:    t.Name,
					Location: location,
					Rows:     t.Len(),
					Duration: elapsed,
				})
				mu.Unlock()
				return nil
			})
		}
	}

	writeErr := g.Wait()
	closeErr := finishWriters(ctx, e.writers, writeErr != nil)
	if err := errors.Join(writeErr, closeErr); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "export failed", apperrors.LogAttrs(err)...)
		return nil, err
	}

	sortOutputs(outputs, e.Formats(), tables)

	logger.InfoContext(ctx, "report set exported",
		slog.Int("tables", len(tables)),
		slog.Int("outputs", len(outputs)),
		slog.Duration("duration", time.Since(start)))

	return &Result{Outputs: outputs}, nil
}

// finishWriters closes every writer. After a failure, writers that buffer
// their output are discarded instead so nothing partial is left behind.
func finishWriters(ctx context.Context, writers []TableWriter, failed bool) error {
	var errs []error
	for _, w := range writers {
		var err error
		if d, ok := w.(Discarder); ok && failed {
			err = d.Discard(ctx)
		} else {
			err = w.Close(ctx)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func closeWriters(ctx context.Context, writers []TableWriter) error {
	var errs []error
	for _, w := range writers {
		if err := w.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func sortOutputs(outputs []Output, formats []domain.ReportFormat, tables []*domain.Table) {
	formatRank := make(map[domain.ReportFormat]int, len(formats))
	for i, f := range formats {
		formatRank[f] = i
	}
	tableRank := make(map[string]int, len(tables))
	for i, t := range tables {
		tableRank[t.Name] = i
	}

	sort.SliceStable(outputs, func(i, j int) bool {
		a, b := outputs[i], outputs[j]
		if formatRank[a.Format] != formatRank[b.Format] {
			return formatRank[a.Format] < formatRank[b.Format]
		}
		return tableRank[a.Table] < tableRank[b.Table]
	})
}
