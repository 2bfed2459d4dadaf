// Package exporter writes report bundles to disk.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// SeriesExporter: Writes per-granularity series, forecasts, and
// collection-day counts as CSV files.
//
// ExcelExporter: Builds a single workbook with one sheet per granularity plus
// a collection-day summary sheet.
//
// Example usage:
//
//	series := exporter.NewSeriesExporter("reports")
//	err := series.ExportBundle(bundle)
//
//	excel := exporter.NewExcelExporter("reports")
//	err = excel.ExportBundle(bundle, "analysis.xlsx")
package exporter
