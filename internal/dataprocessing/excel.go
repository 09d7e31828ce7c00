package dataprocessing

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"nsepulse/internal/breakout"
)

// ParseBhavcopyXLSX reads a security-wise bhavcopy from an Excel workbook.
// The data sheet is located by probing for the expected header row, since
// archive exports are inconsistent about sheet naming.
func ParseBhavcopyXLSX(path string, logger *slog.Logger) ([]breakout.TradingDay, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	rows, sheetName, err := findDataSheet(f)
	if err != nil {
		return nil, err
	}
	logger.Info("found trading data sheet", "sheet_name", sheetName, "total_rows", len(rows))

	header := rows[0]
	required := []string{colDate, colOpen, colHigh, colLow, colClose, colVolume, colDeliveryQty}
	idx, err := columnIndex(header, required)
	if err != nil {
		return nil, err
	}

	days := make([]breakout.TradingDay, 0, len(rows)-1)
	for i, row := range rows[1:] {
		day, err := parseTradingRow(row, idx)
		if err != nil {
			logger.Warn("skipping malformed bhavcopy row",
				"sheet", sheetName,
				"row", i+2,
				"error", err,
			)
			continue
		}
		days = append(days, day)
	}

	if len(days) == 0 {
		return nil, fmt.Errorf("no usable trading rows in sheet %q", sheetName)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days, nil
}

// findDataSheet returns the rows of the first sheet whose header row carries
// the bhavcopy columns.
func findDataSheet(f *excelize.File) ([][]string, string, error) {
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 2 {
			continue
		}
		headerText := strings.ToLower(strings.Join(rows[0], " "))
		if strings.Contains(headerText, strings.ToLower(colClose)) &&
			strings.Contains(headerText, strings.ToLower(colDeliveryQty)) {
			return rows, name, nil
		}
	}
	return nil, "", fmt.Errorf("could not find trading data sheet in workbook")
}
