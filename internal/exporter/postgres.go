package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"trainingreports/internal/config"
	apperrors "trainingreports/internal/errors"
	"trainingreports/pkg/contracts/domain"
)

// Tx is the part of pgx.Tx the PostgreSQL sink needs
type Tx interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxBeginner opens transactions. Satisfied by the pool adapter and by fakes.
type TxBeginner interface {
	Begin(ctx context.Context) (Tx, error)
}

type poolBeginner struct {
	pool *pgxpool.Pool
}

func (p poolBeginner) Begin(ctx context.Context) (Tx, error) {
	return p.pool.Begin(ctx)
}

// PostgresWriter replaces one table per report in the configured schema.
// Every column is stored as text.
type PostgresWriter struct {
	db      TxBeginner
	pool    *pgxpool.Pool
	schema  string
	timeout time.Duration
	logger  *slog.Logger
}

// NewPostgresWriter connects to cfg.DSN and verifies the connection
func NewPostgresWriter(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) (*PostgresWriter, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid postgres dsn", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to create postgres pool", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, apperrors.NewStorageError("failed to reach postgres", err).
			WithContext("host", poolConfig.ConnConfig.Host)
	}

	w := NewPostgresWriterWithDB(poolBeginner{pool: pool}, cfg.Schema, cfg.Timeout, logger)
	w.pool = pool
	return w, nil
}

// NewPostgresWriterWithDB builds a writer over an existing connection source
func NewPostgresWriterWithDB(db TxBeginner, schema string, timeout time.Duration, logger *slog.Logger) *PostgresWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if schema == "" {
		schema = config.DefaultPostgresSchema
	}
	return &PostgresWriter{db: db, schema: schema, timeout: timeout, logger: logger}
}

// Format implements TableWriter
func (w *PostgresWriter) Format() domain.ReportFormat {
	return domain.ReportFormatPostgres
}

// Prepare creates the target schema
func (w *PostgresWriter) Prepare(ctx context.Context, set *domain.ReportSet) error {
	return w.inTx(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := tx.Exec(ctx, createSchemaSQL(w.schema)); err != nil {
			return apperrors.NewStorageError("failed to create schema", err).WithContext("schema", w.schema)
		}
		return nil
	})
}

// WriteTable drops, recreates and bulk-loads t in a single transaction
func (w *PostgresWriter) WriteTable(ctx context.Context, set *domain.ReportSet, t *domain.Table) (string, error) {
	target := w.schema + "." + t.Name

	err := w.inTx(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := tx.Exec(ctx, dropTableSQL(w.schema, t.Name)); err != nil {
			return apperrors.NewStorageError("failed to drop table", err).WithContext("table", target)
		}
		if _, err := tx.Exec(ctx, createTableSQL(w.schema, t.Name, t.Columns)); err != nil {
			return apperrors.NewStorageError("failed to create table", err).WithContext("table", target)
		}
		if t.Len() == 0 {
			return nil
		}

		n, err := tx.CopyFrom(ctx, pgx.Identifier{w.schema, t.Name}, t.Columns, pgx.CopyFromRows(copyRows(t)))
		if err != nil {
			return apperrors.NewStorageError("failed to copy rows", err).WithContext("table", target)
		}
		if int(n) != t.Len() {
			return apperrors.NewStorageError(fmt.Sprintf("copied %d of %d rows", n, t.Len()), nil).
				WithContext("table", target)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	w.logger.DebugContext(ctx, "table loaded",
		slog.String("table", target),
		slog.Int("rows", t.Len()))
	return target, nil
}

// Close releases the pool
func (w *PostgresWriter) Close(ctx context.Context) error {
	if w.pool != nil {
		w.pool.Close()
	}
	return nil
}

func (w *PostgresWriter) inTx(ctx context.Context, fn func(context.Context, Tx) error) (err error) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	tx, err := w.db.Begin(ctx)
	if err != nil {
		return apperrors.NewStorageError("failed to begin transaction", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				w.logger.WarnContext(ctx, "rollback failed", slog.String("error", rbErr.Error()))
			}
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return apperrors.NewStorageError("failed to commit transaction", err)
	}
	return nil
}

func createSchemaSQL(schema string) string {
	return "CREATE SCHEMA IF NOT EXISTS " + pgx.Identifier{schema}.Sanitize()
}

func dropTableSQL(schema, table string) string {
	return "DROP TABLE IF EXISTS " + pgx.Identifier{schema, table}.Sanitize()
}

func createTableSQL(schema, table string, columns []string) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = pgx.Identifier{c}.Sanitize() + " text"
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", pgx.Identifier{schema, table}.Sanitize(), strings.Join(defs, ", "))
}

func copyRows(t *domain.Table) [][]interface{} {
	rows := make([][]interface{}, len(t.Rows))
	for i, row := range t.Rows {
		values := make([]interface{}, len(t.Columns))
		for j := range t.Columns {
			if j < len(row) {
				values[j] = row[j]
			}
		}
		rows[i] = values
	}
	return rows
}
