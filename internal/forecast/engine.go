package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"arcli/internal/analytics"
	"arcli/internal/timeseries"
)

// Method identifies which forecasting strategy produced a result.
type Method string

const (
	// MethodARIMA is the primary autoregressive model with differencing.
	MethodARIMA Method = "arima"
	// MethodMovingAverage is the trailing-window fallback.
	MethodMovingAverage Method = "moving-average"
	// MethodMean is the last-resort historical mean forecast.
	MethodMean Method = "mean-based"
)

// String returns the string representation of the method.
func (m Method) String() string {
	return string(m)
}

// Result is a forecast with symmetric 95% confidence bands. MethodUsed is
// always populated.
type Result struct {
	Points     []float64 `json:"points"`
	Lower95    []float64 `json:"lower_95"`
	Upper95    []float64 `json:"upper_95"`
	MethodUsed Method    `json:"method_used"`
	ModelOrder string    `json:"model_order"`
}

// Config bounds the primary model search.
type Config struct {
	// MaxAROrder is the largest AR order tried in the grid search.
	MaxAROrder int
	// MinPrimaryObservations is the smallest series the primary model will fit.
	MinPrimaryObservations int
	// MovingAverageCap limits the trailing window of the first fallback.
	MovingAverageCap int
}

// DefaultConfig mirrors the bounds the production reports have always used.
func DefaultConfig() Config {
	return Config{
		MaxAROrder:             3,
		MinPrimaryObservations: 10,
		MovingAverageCap:       7,
	}
}

// Engine runs the forecast method state machine.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

// NewEngine creates an engine. Zero config fields take their defaults and a
// nil logger falls back to the default.
func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	def := DefaultConfig()
	if cfg.MaxAROrder <= 0 {
		cfg.MaxAROrder = def.MaxAROrder
	}
	if cfg.MinPrimaryObservations <= 0 {
		cfg.MinPrimaryObservations = def.MinPrimaryObservations
	}
	if cfg.MovingAverageCap <= 0 {
		cfg.MovingAverageCap = def.MovingAverageCap
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Forecast produces horizon steps of point estimates and 95% bands.
// A non-positive horizon takes the granularity default. The methods are
// tried in order; the first one whose preconditions hold wins and is
// recorded in MethodUsed. Forecast never fails: the mean-based method
// accepts any input including the empty series.
func (e *Engine) Forecast(ctx context.Context, series timeseries.CompletedSeries, horizon int) Result {
	if horizon <= 0 {
		horizon = series.Granularity.DefaultHorizon()
	}
	values := series.Counts()

	if err := ctx.Err(); err != nil {
		e.logger.Warn("forecast context already cancelled, returning mean-based result", "error", err)
		return e.meanBased(values, horizon)
	}

	if res, ok := e.fitAR(values, horizon); ok {
		e.logger.Info("forecast generated",
			slog.String("granularity", series.Granularity.String()),
			slog.String("method", res.MethodUsed.String()),
			slog.String("model", res.ModelOrder))
		return res
	}
	if res, ok := e.movingAverage(values, horizon); ok {
		e.logger.Info("forecast degraded to moving average",
			slog.String("granularity", series.Granularity.String()),
			slog.Int("observations", len(values)))
		return res
	}
	res := e.meanBased(values, horizon)
	e.logger.Info("forecast degraded to historical mean",
		slog.String("granularity", series.Granularity.String()),
		slog.Int("observations", len(values)))
	return res
}

// fitAR fits the primary model: difference once when the stationarity test
// cannot reject a unit root, then grid-search AR(p) for p = 1..MaxAROrder by
// Yule-Walker, selecting on AIC. The fit is rejected when the recursion
// degenerates, the coefficients are non-stationary, or the series is too
// short or constant.
func (e *Engine) fitAR(values []float64, horizon int) (Result, bool) {
	n := len(values)
	if n < e.cfg.MinPrimaryObservations || isConstant(values) {
		return Result{}, false
	}

	d := 0
	st := analytics.DickeyFuller(values)
	if st.Unavailable || !st.Stationary {
		d = 1
	}
	work := values
	if d == 1 {
		work = difference(values)
		if len(work) <= e.cfg.MaxAROrder+1 || isConstant(work) {
			return Result{}, false
		}
	}

	mean := meanOf(work)
	bestAIC := math.Inf(1)
	var bestPhi []float64
	bestVar := 0.0
	bestOrder := 0

	for p := 1; p <= e.cfg.MaxAROrder; p++ {
		phi, noiseVar, _, ok := analytics.YuleWalkerAR(work, p)
		if !ok {
			continue
		}
		aic := float64(len(work))*math.Log(noiseVar) + 2*float64(p)
		if aic < bestAIC {
			bestAIC = aic
			bestPhi = phi
			bestVar = noiseVar
			bestOrder = p
		}
	}
	if bestPhi == nil {
		return Result{}, false
	}

	// Recursive point forecasts on the (demeaned) working series.
	history := make([]float64, len(work))
	for i, v := range work {
		history[i] = v - mean
	}
	forecasts := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		f := 0.0
		for j, coeff := range bestPhi {
			idx := len(history) - 1 - j
			if idx < 0 {
				break
			}
			f += coeff * history[idx]
		}
		forecasts[h] = f
		history = append(history, f)
	}

	// Psi weights of the AR model give the forecast error variance; when the
	// series was differenced the weights accumulate through integration.
	psi := psiWeights(bestPhi, horizon)
	if d == 1 {
		integrated := make([]float64, horizon)
		running := 0.0
		for i, w := range psi {
			running += w
			integrated[i] = running
		}
		psi = integrated
	}

	points := make([]float64, horizon)
	lower := make([]float64, horizon)
	upper := make([]float64, horizon)
	last := values[n-1]
	cumulative := last
	varAccum := 0.0
	for h := 0; h < horizon; h++ {
		var point float64
		if d == 1 {
			cumulative += forecasts[h] + mean
			point = cumulative
		} else {
			point = forecasts[h] + mean
		}
		varAccum += psi[h] * psi[h]
		se := math.Sqrt(bestVar * varAccum)
		if math.IsNaN(point) || math.IsInf(point, 0) || math.IsNaN(se) {
			return Result{}, false
		}
		points[h] = clipNonNegative(point)
		lower[h] = clipNonNegative(point - 1.96*se)
		upper[h] = clipNonNegative(point + 1.96*se)
	}

	return Result{
		Points:     points,
		Lower95:    lower,
		Upper95:    upper,
		MethodUsed: MethodARIMA,
		ModelOrder: fmt.Sprintf("ARIMA(%d,%d,0)", bestOrder, d),
	}, true
}

// movingAverage forecasts every step as the trailing-window average, with a
// band from the window's sample standard deviation. Needs at least 3 points.
func (e *Engine) movingAverage(values []float64, horizon int) (Result, bool) {
	n := len(values)
	if n < 3 {
		return Result{}, false
	}
	window := n / 3
	if window > e.cfg.MovingAverageCap {
		window = e.cfg.MovingAverageCap
	}
	if window < 1 {
		window = 1
	}
	tail := values[n-window:]
	avg := meanOf(tail)
	std := sampleStdDev(tail)
	if std == 0 {
		std = sampleStdDev(values)
	}

	points := make([]float64, horizon)
	lower := make([]float64, horizon)
	upper := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		points[h] = clipNonNegative(avg)
		lower[h] = clipNonNegative(avg - 1.96*std)
		upper[h] = clipNonNegative(avg + 1.96*std)
	}
	return Result{
		Points:     points,
		Lower95:    lower,
		Upper95:    upper,
		MethodUsed: MethodMovingAverage,
		ModelOrder: fmt.Sprintf("MA(%d)", window),
	}, true
}

// meanBased is the last resort: the historical mean with a deliberately wide
// band. It accepts any input, including the empty series.
func (e *Engine) meanBased(values []float64, horizon int) Result {
	var base, std float64
	switch len(values) {
	case 0:
		base, std = 0, 1
	case 1:
		base = values[0]
		std = math.Max(math.Abs(base)*0.1, 0.1)
	default:
		base = meanOf(values)
		std = math.Max(sampleStdDev(values), math.Max(math.Abs(base)*0.1, 0.1))
	}

	points := make([]float64, horizon)
	lower := make([]float64, horizon)
	upper := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		points[h] = clipNonNegative(base)
		lower[h] = clipNonNegative(base - 1.96*std)
		upper[h] = clipNonNegative(base + 1.96*std)
	}
	return Result{
		Points:     points,
		Lower95:    lower,
		Upper95:    upper,
		MethodUsed: MethodMean,
		ModelOrder: "Mean",
	}
}

// psiWeights expands an AR(p) model into its first h MA weights,
// psi_1..psi_h, via the standard recursion with psi_0 = 1.
func psiWeights(phi []float64, h int) []float64 {
	psi := make([]float64, h+1)
	psi[0] = 1
	for j := 1; j <= h; j++ {
		sum := 0.0
		for i := 1; i <= len(phi) && i <= j; i++ {
			sum += phi[i-1] * psi[j-i]
		}
		psi[j] = sum
	}
	// Forecast step h uses psi_0..psi_{h-1}.
	return psi[:h]
}

func difference(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = values[i] - values[i-1]
	}
	return out
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := meanOf(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func isConstant(values []float64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] != values[0] {
			return false
		}
	}
	return true
}

func clipNonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
