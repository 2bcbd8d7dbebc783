// Package dataprocessing turns the raw attendance report and the company
// limitations table into enriched training records and summary tables.
//
// # Reading
//
// ReadTable loads a CSV (UTF-8, UTF-8 with BOM, UTF-16 or Windows-1251) or
// an XLSX worksheet into a domain.Table. RenameColumns then maps the
// headers found in the file to canonical column names:
//
//	raw, err := dataprocessing.ReadTable(ctx, "data/input/report.csv", "")
//	table, err := dataprocessing.RenameColumns(raw, dataprocessing.ReportHeaderAliases, dataprocessing.ReportRequiredColumns)
//	records, err := dataprocessing.BuildRecords(table)
//
// # Transforms
//
// The transforms run in this order and never drop a record; field-level
// problems become flags on the record:
//
//	Normalize            names, nickname, company, delivery mode
//	JoinLimitations      left join on the company key
//	CountPerEmployee     emp_trainings, training_no, OVER_LIMIT
//	ValidateFields       phone, email, trainer
//	CheckActiveContracts contract window
//	CalendarFields       month, year, weekday, formatted dates
//
// Structural problems (missing required columns, unparsable timestamps)
// are returned as PARSING errors and stop the run.
//
// # Summaries
//
// Summarizer builds the total-trainings and trainer tables. Both are sorted
// by monthly count, then annual count, descending; ties keep the order in
// which the group first appeared.
package dataprocessing
