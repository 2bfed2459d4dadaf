package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"arcli/internal/report"
)

// ExcelExporter builds a single workbook per report run: one sheet per
// granularity with the series, diagnostics, and forecast, plus a summary
// sheet with collection-day counts and the exclusion audit.
type ExcelExporter struct {
	reportsDir string
}

// NewExcelExporter creates an Excel exporter rooted at the reports directory.
func NewExcelExporter(reportsDir string) *ExcelExporter {
	return &ExcelExporter{reportsDir: reportsDir}
}

// ExportBundle writes the workbook to filename inside the reports directory.
func (e *ExcelExporter) ExportBundle(bundle *report.Bundle, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeSummarySheet(f, bundle); err != nil {
		return fmt.Errorf("failed to write summary sheet: %w", err)
	}

	for _, rep := range bundle.Reports {
		if err := e.writeGranularitySheet(f, rep); err != nil {
			return fmt.Errorf("failed to write %s sheet: %w", rep.Granularity, err)
		}
	}

	fullPath := filepath.Join(e.reportsDir, filename)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}
	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeSummarySheet renames the default sheet to Summary and fills the run
// header, collection-day counts, and exclusion audit.
func (e *ExcelExporter) writeSummarySheet(f *excelize.File, bundle *report.Bundle) error {
	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Run ID", bundle.RunID},
		{"Generated", bundle.Generated.Format("2006-01-02 15:04:05")},
		{"Excluded dates", bundle.Exclusions.Observations},
		{"Excluded files", bundle.Exclusions.Files},
		{},
		{"School Year", "Period", "Collection Days"},
	}
	for _, pc := range bundle.PeriodCounts {
		rows = append(rows, []interface{}{pc.SchoolYear, pc.Period, pc.Days})
	}
	if len(bundle.Exclusions.Dates) > 0 {
		rows = append(rows, []interface{}{}, []interface{}{"Excluded Dates"})
		for _, d := range bundle.Exclusions.Dates {
			rows = append(rows, []interface{}{d.Format("2006-01-02")})
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// writeGranularitySheet lays out one granularity: the completed series on the
// left, lag diagnostics in the middle, the forecast on the right.
func (e *ExcelExporter) writeGranularitySheet(f *excelize.File, rep report.GranularityReport) error {
	sheet := seriesSheetName(rep.Granularity)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	seriesRows := [][]interface{}{
		{"Date", "Label", "Count", "Partial", "School Year", "Period"},
	}
	total := 0
	for _, p := range rep.Series.Points {
		seriesRows = append(seriesRows, []interface{}{
			p.Date.Format("2006-01-02"), p.Label, p.Count, p.Partial, p.SchoolYear, p.Period,
		})
		total += p.Count
	}
	seriesRows = append(seriesRows, []interface{}{"Total", "", total})
	if err := writeRows(f, sheet, 1, 1, seriesRows); err != nil {
		return err
	}

	lagRows := [][]interface{}{
		{"Lag", "ACF", "PACF", "Confidence", "ACF Significant", "PACF Significant"},
	}
	for _, lr := range rep.Analysis.Lags {
		if lr.Unavailable || rep.Analysis.InsufficientData {
			lagRows = append(lagRows, []interface{}{lr.Lag, "N/A", "N/A", "N/A", "N/A", "N/A"})
			continue
		}
		lagRows = append(lagRows, []interface{}{
			lr.Lag, lr.ACF, lr.PACF, lr.Confidence, lr.ACFSignificant, lr.PACFSignificant,
		})
	}
	lagRows = append(lagRows, []interface{}{"Strength", string(rep.Analysis.Strength)})
	if err := writeRows(f, sheet, 8, 1, lagRows); err != nil {
		return err
	}

	fcRows := [][]interface{}{
		{"Step", "Forecast", "Lower 95", "Upper 95", "Method", "Model"},
	}
	for i := range rep.Forecast.Points {
		fcRows = append(fcRows, []interface{}{
			i + 1,
			rep.Forecast.Points[i],
			rep.Forecast.Lower95[i],
			rep.Forecast.Upper95[i],
			rep.Forecast.MethodUsed.String(),
			rep.Forecast.ModelOrder,
		})
	}
	return writeRows(f, sheet, 15, 1, fcRows)
}

// writeRows writes a block of rows starting at the given 1-based column/row.
func writeRows(f *excelize.File, sheet string, col, row int, rows [][]interface{}) error {
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(col, row+i)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return err
		}
	}
	return nil
}
