// Package analytics computes autocorrelation (ACF), partial autocorrelation
// (PACF), and stationarity diagnostics over completed series.
//
// PACF values come from the Durbin-Levinson recursion on the sample
// autocorrelations (the Yule-Walker family). Confidence bounds use the
// standard large-sample approximation 1.96/sqrt(n). When the series is too
// short or degenerate the analyzer returns a result flagged InsufficientData
// with placeholder values, so report rendering can show "N/A" instead of
// failing; a numerical failure at a single lag degrades that lag only.
package analytics
