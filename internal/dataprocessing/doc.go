// Package dataprocessing parses NSE security-wise archive files into the
// engine's typed series.
//
// Two inputs are supported: the security-wise bhavcopy with deliverable
// quantities (CSV or Excel), and an optional index series CSV carrying the
// Nifty levels plus VIX and advance-decline breadth when the columns are
// present. Parsers are tolerant of the archive's formatting quirks:
// comma-grouped integers, "-" placeholders, and several date layouts.
// Malformed rows are skipped with a warning rather than failing the load;
// a file that yields no usable rows is an error.
package dataprocessing
