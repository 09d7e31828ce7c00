package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"nsepulse/internal/breakout"
)

// Date layouts seen across NSE archive exports.
var dateLayouts = []string{
	"02-Jan-2006",
	"2006-01-02",
	"02-01-2006",
	"2 Jan 2006",
}

// Column headers of the security-wise bhavcopy.
const (
	colDate        = "Date"
	colOpen        = "Open Price"
	colHigh        = "High Price"
	colLow         = "Low Price"
	colClose       = "Close Price"
	colVolume      = "Total Traded Quantity"
	colDeliveryQty = "Deliverable Qty"
)

// Column headers of the index series file.
const (
	colIndexOpen      = "Nifty Open"
	colIndexHigh      = "Nifty High"
	colIndexLow       = "Nifty Low"
	colIndexClose     = "Nifty Close"
	colIndexVolume    = "Volume"
	colVIX            = "VIX"
	colAdvanceDecline = "Advance Decline"
)

// ParseBhavcopyCSV reads a security-wise bhavcopy CSV and returns the
// trading days sorted ascending by date. Rows that fail to parse are skipped
// with a warning; a file with no usable rows is an error.
func ParseBhavcopyCSV(r io.Reader, logger *slog.Logger) ([]breakout.TradingDay, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rows, header, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	required := []string{colDate, colOpen, colHigh, colLow, colClose, colVolume, colDeliveryQty}
	idx, err := columnIndex(header, required)
	if err != nil {
		return nil, err
	}

	days := make([]breakout.TradingDay, 0, len(rows))
	for i, row := range rows {
		day, err := parseTradingRow(row, idx)
		if err != nil {
			logger.Warn("skipping malformed bhavcopy row",
				"row", i+2, // 1-based, after the header
				"error", err,
			)
			continue
		}
		days = append(days, day)
	}

	if len(days) == 0 {
		return nil, fmt.Errorf("no usable trading rows in file")
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	logger.Info("parsed bhavcopy", "rows", len(rows), "days", len(days))
	return days, nil
}

// ParseIndexCSV reads a market index series CSV. The VIX and Advance Decline
// columns are optional; blank cells in them yield absent values, not zeros.
func ParseIndexCSV(r io.Reader, logger *slog.Logger) ([]breakout.MarketIndexDay, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rows, header, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	required := []string{colDate, colIndexOpen, colIndexHigh, colIndexLow, colIndexClose, colIndexVolume}
	idx, err := columnIndex(header, required)
	if err != nil {
		return nil, err
	}
	vixIdx := findColumn(header, colVIX)
	adIdx := findColumn(header, colAdvanceDecline)

	days := make([]breakout.MarketIndexDay, 0, len(rows))
	for i, row := range rows {
		day, err := parseIndexRow(row, idx, vixIdx, adIdx)
		if err != nil {
			logger.Warn("skipping malformed index row",
				"row", i+2,
				"error", err,
			)
			continue
		}
		days = append(days, day)
	}

	if len(days) == 0 {
		return nil, fmt.Errorf("no usable index rows in file")
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	logger.Info("parsed index series", "rows", len(rows), "days", len(days))
	return days, nil
}

// readCSV reads all records, returning the header row separately.
func readCSV(r io.Reader) ([][]string, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("file has no data rows")
	}
	return records[1:], records[0], nil
}

// columnIndex maps the required column names onto their positions.
func columnIndex(header []string, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(required))
	for _, name := range required {
		pos := findColumn(header, name)
		if pos < 0 {
			return nil, fmt.Errorf("missing required column %q", name)
		}
		idx[name] = pos
	}
	return idx, nil
}

// findColumn locates a header by case-insensitive name, -1 if absent.
func findColumn(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func parseTradingRow(row []string, idx map[string]int) (breakout.TradingDay, error) {
	var day breakout.TradingDay
	var err error

	if day.Date, err = parseDate(cell(row, idx[colDate])); err != nil {
		return day, err
	}
	if day.Open, err = parsePrice(cell(row, idx[colOpen])); err != nil {
		return day, fmt.Errorf("open: %w", err)
	}
	if day.High, err = parsePrice(cell(row, idx[colHigh])); err != nil {
		return day, fmt.Errorf("high: %w", err)
	}
	if day.Low, err = parsePrice(cell(row, idx[colLow])); err != nil {
		return day, fmt.Errorf("low: %w", err)
	}
	if day.Close, err = parsePrice(cell(row, idx[colClose])); err != nil {
		return day, fmt.Errorf("close: %w", err)
	}
	if day.Volume, err = parseQuantity(cell(row, idx[colVolume])); err != nil {
		return day, fmt.Errorf("volume: %w", err)
	}
	if day.DeliveryQty, err = parseQuantity(cell(row, idx[colDeliveryQty])); err != nil {
		return day, fmt.Errorf("deliverable qty: %w", err)
	}
	return day, nil
}

func parseIndexRow(row []string, idx map[string]int, vixIdx, adIdx int) (breakout.MarketIndexDay, error) {
	var day breakout.MarketIndexDay
	var err error

	if day.Date, err = parseDate(cell(row, idx[colDate])); err != nil {
		return day, err
	}
	if day.Open, err = parsePrice(cell(row, idx[colIndexOpen])); err != nil {
		return day, fmt.Errorf("open: %w", err)
	}
	if day.High, err = parsePrice(cell(row, idx[colIndexHigh])); err != nil {
		return day, fmt.Errorf("high: %w", err)
	}
	if day.Low, err = parsePrice(cell(row, idx[colIndexLow])); err != nil {
		return day, fmt.Errorf("low: %w", err)
	}
	if day.Close, err = parsePrice(cell(row, idx[colIndexClose])); err != nil {
		return day, fmt.Errorf("close: %w", err)
	}
	if day.Volume, err = parsePrice(cell(row, idx[colIndexVolume])); err != nil {
		return day, fmt.Errorf("volume: %w", err)
	}

	// Optional breadth columns: blank means absent, never zero.
	if vixIdx >= 0 {
		if v := cell(row, vixIdx); v != "" && v != "-" {
			vix, err := parsePrice(v)
			if err != nil {
				return day, fmt.Errorf("vix: %w", err)
			}
			day.VIX = &vix
		}
	}
	if adIdx >= 0 {
		if v := cell(row, adIdx); v != "" && v != "-" {
			ad, err := parsePrice(v)
			if err != nil {
				return day, fmt.Errorf("advance decline: %w", err)
			}
			day.AdvanceDecline = &ad
		}
	}
	return day, nil
}

// cell safely extracts and trims a field from a possibly short row.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseDate tries the known archive date layouts.
func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parsePrice parses a decimal that may carry comma grouping.
func parsePrice(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "-" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	return v, nil
}

// parseQuantity parses a comma-grouped integer quantity.
func parseQuantity(s string) (int64, error) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "-" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative quantity %d", v)
	}
	return v, nil
}
