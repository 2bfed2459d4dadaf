// Package timeseries converts sparse daily observations into dense, gap-free
// chronological series anchored to the collection calendar.
//
// The Completer merges observations with the shared classifier map: duplicate
// dates are summed, every collection day gets exactly one row (zero-filled
// when unobserved), and observations on non-collection dates are excluded but
// counted for data-quality auditing. Zero-fill changes the shape of a series,
// never its total.
//
// Aggregate rolls a daily completed series up to weekly, biweekly, monthly,
// or period granularity.
package timeseries
