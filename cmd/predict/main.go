// Command predict runs the breakout engine against local series files and
// prints results as JSON, without standing up the web server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"nsepulse/internal/app"
	"nsepulse/internal/breakout"
	"nsepulse/internal/exporter"
	"nsepulse/internal/services"
)

func main() {
	dataPath := flag.String("data", "data/bhavcopy.csv", "stock series file (csv or xlsx)")
	indexPath := flag.String("index", "", "market index series csv (optional)")
	date := flag.String("date", "", "target date YYYY-MM-DD for a single prediction")
	all := flag.Bool("all", false, "predict every eligible date")
	snapshot := flag.Bool("snapshot", false, "print the technical snapshot instead of a prediction (requires -date)")
	breakouts := flag.Bool("breakouts", false, "list historical breakout dates")
	csvOut := flag.String("csv", "", "with -all, also write the predictions to this CSV file")
	workers := flag.Int("workers", 4, "concurrency for -all")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	stock, err := app.LoadStockSeries(*dataPath, logger)
	if err != nil {
		fail("load stock series: %v", err)
	}

	var market []breakout.MarketIndexDay
	if *indexPath != "" {
		if market, err = app.LoadIndexSeries(*indexPath, logger); err != nil {
			fail("load index series: %v", err)
		}
	}

	svc := services.NewAnalysisService(stock, market, breakout.DefaultFactorWeights(), *workers, logger, nil)
	ctx := context.Background()

	switch {
	case *breakouts:
		dates := svc.Breakouts(ctx)
		formatted := make([]string, 0, len(dates))
		for _, d := range dates {
			formatted = append(formatted, d.Format("2006-01-02"))
		}
		printJSON(formatted)

	case *all:
		predictions, err := svc.PredictAll(ctx)
		if err != nil {
			fail("batch prediction: %v", err)
		}
		if *csvOut != "" {
			if err := exporter.ExportPredictions(*csvOut, predictions); err != nil {
				fail("write csv report: %v", err)
			}
		}
		printJSON(predictions)

	case *date != "":
		target, err := time.Parse("2006-01-02", *date)
		if err != nil {
			fail("invalid -date %q, want YYYY-MM-DD", *date)
		}
		if *snapshot {
			snap, err := svc.Snapshot(ctx, target)
			if err != nil {
				fail("snapshot: %v", err)
			}
			printJSON(snap)
			return
		}
		prediction, err := svc.Predict(ctx, target)
		if err != nil {
			fail("prediction: %v", err)
		}
		printJSON(prediction)

	default:
		flag.Usage()
		os.Exit(2)
	}
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fail("encode output: %v", err)
	}
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
