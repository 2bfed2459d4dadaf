package exporter

import (
	"fmt"

	"arcli/internal/report"
	"arcli/internal/timeseries"
)

// SeriesExporter writes report bundles as CSV files, one series file and one
// forecast file per granularity plus a collection-day summary.
type SeriesExporter struct {
	csvWriter *CSVWriter
}

// NewSeriesExporter creates a series exporter rooted at the reports directory.
func NewSeriesExporter(reportsDir string) *SeriesExporter {
	return &SeriesExporter{csvWriter: NewCSVWriter(reportsDir)}
}

// ExportBundle writes every CSV artifact of a report run.
func (e *SeriesExporter) ExportBundle(bundle *report.Bundle) error {
	for _, rep := range bundle.Reports {
		if err := e.exportSeries(rep); err != nil {
			return fmt.Errorf("failed to export %s series: %w", rep.Granularity, err)
		}
		if err := e.exportForecast(rep); err != nil {
			return fmt.Errorf("failed to export %s forecast: %w", rep.Granularity, err)
		}
	}
	if err := e.exportPeriodCounts(bundle); err != nil {
		return fmt.Errorf("failed to export period counts: %w", err)
	}
	return nil
}

// exportSeries writes the completed series with its per-lag diagnostics file.
// Series files are streamed row by row; the daily series spans every calendar
// day of every school year, so the rows are never materialized as a slice.
func (e *SeriesExporter) exportSeries(rep report.GranularityReport) error {
	filename := fmt.Sprintf("series_%s.csv", rep.Granularity)
	headers := []string{"date", "label", "count", "partial", "school_year", "period"}
	stream, err := e.csvWriter.CreateStreamWriter(filename, headers)
	if err != nil {
		return err
	}
	for _, p := range rep.Series.Points {
		record := []string{
			p.Date.Format("2006-01-02"),
			p.Label,
			formatInt(p.Count),
			formatBool(p.Partial),
			p.SchoolYear,
			p.Period,
		}
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return err
		}
	}
	if err := stream.Close(); err != nil {
		return err
	}

	lagHeaders := []string{"lag", "acf", "pacf", "confidence", "acf_significant", "pacf_significant"}
	lagRecords := make([][]string, 0, len(rep.Analysis.Lags))
	for _, lr := range rep.Analysis.Lags {
		if lr.Unavailable || rep.Analysis.InsufficientData {
			lagRecords = append(lagRecords, []string{formatInt(lr.Lag), "N/A", "N/A", "N/A", "N/A", "N/A"})
			continue
		}
		lagRecords = append(lagRecords, []string{
			formatInt(lr.Lag),
			formatFloat(lr.ACF),
			formatFloat(lr.PACF),
			formatFloat(lr.Confidence),
			formatBool(lr.ACFSignificant),
			formatBool(lr.PACFSignificant),
		})
	}
	lagFilename := fmt.Sprintf("correlation_%s.csv", rep.Granularity)
	return e.csvWriter.WriteSimpleCSV(lagFilename, lagHeaders, lagRecords)
}

// exportForecast writes one row per forecast step with its 95% band.
func (e *SeriesExporter) exportForecast(rep report.GranularityReport) error {
	headers := []string{"step", "forecast", "lower_95", "upper_95", "method", "model"}
	records := make([][]string, 0, len(rep.Forecast.Points))
	for i := range rep.Forecast.Points {
		records = append(records, []string{
			formatInt(i + 1),
			formatFloat(rep.Forecast.Points[i]),
			formatFloat(rep.Forecast.Lower95[i]),
			formatFloat(rep.Forecast.Upper95[i]),
			rep.Forecast.MethodUsed.String(),
			rep.Forecast.ModelOrder,
		})
	}
	filename := fmt.Sprintf("forecast_%s.csv", rep.Granularity)
	return e.csvWriter.WriteSimpleCSV(filename, headers, records)
}

// exportPeriodCounts writes the collection-day denominators and the exclusion
// audit trail.
func (e *SeriesExporter) exportPeriodCounts(bundle *report.Bundle) error {
	headers := []string{"school_year", "period", "collection_days"}
	records := make([][]string, 0, len(bundle.PeriodCounts))
	for _, pc := range bundle.PeriodCounts {
		records = append(records, []string{pc.SchoolYear, pc.Period, formatInt(pc.Days)})
	}
	if err := e.csvWriter.WriteSimpleCSV("collection_days.csv", headers, records); err != nil {
		return err
	}

	exclHeaders := []string{"date", "reason"}
	exclRecords := make([][]string, 0, len(bundle.Exclusions.Dates))
	for _, d := range bundle.Exclusions.Dates {
		exclRecords = append(exclRecords, []string{d.Format("2006-01-02"), "not a collection day"})
	}
	return e.csvWriter.WriteSimpleCSV("exclusions.csv", exclHeaders, exclRecords)
}

// seriesSheetName is shared with the Excel exporter so both artifacts use the
// same naming for a granularity.
func seriesSheetName(g timeseries.Granularity) string {
	switch g {
	case timeseries.Daily:
		return "Daily"
	case timeseries.Weekly:
		return "Weekly"
	case timeseries.Biweekly:
		return "Biweekly"
	case timeseries.Monthly:
		return "Monthly"
	case timeseries.Period:
		return "Period"
	default:
		return string(g)
	}
}
