// Package period selects the calendar month the monthly reports are cut
// for. The month is either supplied up front (flag, config, environment)
// or read from an interactive prompt that repeats until a well-formed
// YYYY-MM value is entered.
package period
