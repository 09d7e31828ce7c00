// Package exporter writes prediction reports as CSV files, with UTF-8 BOM
// support so the output opens cleanly in Excel.
package exporter
