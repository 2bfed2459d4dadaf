// Package report orchestrates a full analysis run: classify the calendar,
// complete the daily series, roll it up to every granularity, and attach
// autocorrelation diagnostics and a forecast to each. Granularities are
// independent and run concurrently; the daily completion runs once and feeds
// them all, so every roll-up shares the same calendar filtering and totals.
package report
