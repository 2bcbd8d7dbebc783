// Package shared provides common test helpers used across the training
// report packages.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//	- A buffered slog handler for asserting on structured logs
//	- Input fixtures: a small attendance report and limitations table
//	  that exercise every flag the pipeline can raise
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    report := testutil.WriteReportCSV(t, t.TempDir())
//	    ...
//	    testutil.AssertNoErrors(t, logs)
//	}
package shared
