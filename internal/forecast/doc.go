// Package forecast produces short-horizon forecasts with 95% confidence
// bands over completed series.
//
// Methods are attempted in a fixed order and the first success wins: an
// autoregressive model with differencing (the ARIMA family), then a
// trailing-window moving average, then the series mean with a wide band.
// The chosen method is always recorded in the result so the report layer can
// disclose forecast provenance; a silently downgraded method is a defect.
// File counts cannot be negative, so all point estimates and band edges are
// clipped at zero.
package forecast
