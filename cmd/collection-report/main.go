package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"arcli/internal/config"
	"arcli/internal/exporter"
	"arcli/internal/forecast"
	"arcli/internal/infrastructure"
	"arcli/internal/report"
	"arcli/internal/timeseries"
)

func main() {
	configFile := flag.String("config", "", "path to application config file (optional)")
	calendarFile := flag.String("calendar", "", "path to school calendar YAML (defaults to config value)")
	observationsFile := flag.String("obs", "", "path to observations CSV")
	outputDir := flag.String("out", "", "output directory for reports (defaults to config value)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)

	if *calendarFile == "" {
		*calendarFile = cfg.Paths.CalendarFile
	}
	if *outputDir == "" {
		*outputDir = cfg.Paths.ReportsDir
	}
	if *observationsFile == "" {
		logger.Error("Observations CSV is required", "flag", "-obs")
		os.Exit(1)
	}

	ctx := infrastructure.ContextWithTraceID(context.Background())

	logger.InfoContext(ctx, "Loading school calendar", "path", *calendarFile)
	model, registry, err := config.LoadCalendar(*calendarFile)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load calendar", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Loading observations", "path", *observationsFile)
	observations, err := loadObservations(*observationsFile)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load observations", "error", err)
		os.Exit(1)
	}
	logger.InfoContext(ctx, "Loaded observations", "records", len(observations))

	tracer, err := report.NewTracer()
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create report tracer", "error", err)
		os.Exit(1)
	}

	engine := forecast.NewEngine(forecast.Config{
		MaxAROrder:             cfg.Analysis.MaxAROrder,
		MinPrimaryObservations: cfg.Analysis.MinPrimaryObservations,
		MovingAverageCap:       cfg.Analysis.MovingAverageCap,
	}, infrastructure.WithComponent(logger, "forecast"))
	svc := report.NewService(engine, tracer, infrastructure.WithComponent(logger, "report"))

	logger.InfoContext(ctx, "Generating report bundle...")
	bundle, err := svc.Generate(ctx, model, registry, observations)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to generate report", "error", err)
		os.Exit(1)
	}

	series := exporter.NewSeriesExporter(*outputDir)
	if err := series.ExportBundle(bundle); err != nil {
		logger.ErrorContext(ctx, "Failed to export CSV reports", "error", err)
		os.Exit(1)
	}

	excel := exporter.NewExcelExporter(*outputDir)
	workbook := fmt.Sprintf("collection_analysis_%s.xlsx", time.Now().Format("20060102"))
	if err := excel.ExportBundle(bundle, workbook); err != nil {
		logger.ErrorContext(ctx, "Failed to export workbook", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Report generated successfully",
		"run_id", bundle.RunID,
		"output_dir", *outputDir,
		"workbook", workbook,
		"excluded_files", bundle.Exclusions.Files)

	printSummaryStats(bundle)
}

// loadObservations reads a (date, count) CSV. The column order is taken from
// the header; unparseable rows are skipped rather than failing the run.
func loadObservations(csvPath string) ([]timeseries.Observation, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	dateIdx := -1
	countIdx := -1
	for i, col := range header {
		switch col {
		case "Date", "date":
			dateIdx = i
		case "Count", "count", "Files", "files":
			countIdx = i
		}
	}
	if dateIdx == -1 || countIdx == -1 {
		return nil, fmt.Errorf("CSV header missing date or count column: %v", header)
	}

	var observations []timeseries.Observation
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		date, err := time.Parse("2006-01-02", record[dateIdx])
		if err != nil {
			continue // Skip invalid dates
		}
		count, err := strconv.Atoi(record[countIdx])
		if err != nil || count < 0 {
			continue
		}

		observations = append(observations, timeseries.Observation{
			Date:  date,
			Count: count,
		})
	}

	return observations, nil
}

func printSummaryStats(bundle *report.Bundle) {
	fmt.Println("\n=== COLLECTION DAYS BY PERIOD ===")
	fmt.Println("School Year | Period          | Days")
	fmt.Println("------------|-----------------|-----")
	for _, pc := range bundle.PeriodCounts {
		fmt.Printf("%-11s | %-15s | %4d\n", pc.SchoolYear, pc.Period, pc.Days)
	}

	fmt.Println("\n=== FORECASTS ===")
	fmt.Println("Granularity | Method         | Model        | Next")
	fmt.Println("------------|----------------|--------------|-----")
	for _, rep := range bundle.Reports {
		next := 0.0
		if len(rep.Forecast.Points) > 0 {
			next = rep.Forecast.Points[0]
		}
		fmt.Printf("%-11s | %-14s | %-12s | %.1f\n",
			rep.Granularity, rep.Forecast.MethodUsed, rep.Forecast.ModelOrder, next)
	}

	if bundle.Exclusions.Observations > 0 {
		fmt.Printf("\nExcluded %d files across %d non-collection dates; see exclusions.csv\n",
			bundle.Exclusions.Files, bundle.Exclusions.Observations)
	}
}
