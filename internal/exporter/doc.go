// Package exporter persists a completed report set.
//
// Each output format is a TableWriter:
//
// CSVWriter: one UTF-8 CSV file per table under <reports>/<YYYY-MM>/, with a
// BOM so spreadsheet tools detect the encoding.
//
// XLSXWriter: a single workbook with one sheet per table, in canonical table
// order, saved as <prefix>_<YYYY-MM>.xlsx in the same directory.
//
// PostgresWriter: one text-typed table per report in the configured schema,
// replaced and bulk-loaded with COPY inside a transaction.
//
// The Exporter prepares every writer, writes all (writer, table) pairs with
// bounded concurrency, records export metrics and closes the writers.
//
// Example usage:
//
//	exp, err := exporter.NewFromConfig(ctx, cfg, tracer.Metrics(), logger)
//	if err != nil {
//		return err
//	}
//	result, err := exp.Export(ctx, state.Data.Reports)
package exporter
