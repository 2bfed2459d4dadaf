package analytics

import (
	"log/slog"
	"math"

	"arcli/internal/timeseries"
)

const (
	// minObservations is the floor below which no estimate is attempted,
	// regardless of the requested lag count.
	minObservations = 4

	// criticalValue95 is the two-sided 95% normal quantile used for the
	// large-sample significance bound.
	criticalValue95 = 1.96
)

// Analyzer computes ACF/PACF diagnostics over completed series.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer. A nil logger falls back to the default.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// Analyze computes ACF and PACF coefficients with 95% confidence bounds for
// lags 1..maxLag, a stationarity test, and the dependency-strength label.
//
// The series must exceed maxLag by at least one point and contain at least
// minObservations non-constant values; otherwise the result is flagged
// InsufficientData and carries placeholder lags. A numerical failure in the
// PACF recursion degrades the affected lags to Unavailable without
// discarding the rest of the analysis.
func (a *Analyzer) Analyze(series timeseries.CompletedSeries, maxLag int) Result {
	values := series.Counts()
	n := len(values)

	result := Result{
		N:        n,
		MaxLag:   maxLag,
		Strength: StrengthUnknown,
	}

	if maxLag < 1 || n <= maxLag || n < minObservations || isConstant(values) {
		result.InsufficientData = true
		result.Stationarity = StationarityTest{Unavailable: true}
		for lag := 1; lag <= maxLag; lag++ {
			result.Lags = append(result.Lags, LagResult{Lag: lag, Unavailable: true})
		}
		a.logger.Warn("insufficient data for autocorrelation analysis",
			slog.String("granularity", series.Granularity.String()),
			slog.Int("observations", n),
			slog.Int("max_lag", maxLag))
		return result
	}

	acfVals := sampleACF(values, maxLag)
	pacfVals, pacfOK := durbinLevinsonPACF(acfVals)
	confidence := criticalValue95 / math.Sqrt(float64(n))

	for lag := 1; lag <= maxLag; lag++ {
		lr := LagResult{Lag: lag, Confidence: confidence}
		lr.ACF = acfVals[lag]
		if pacfOK[lag] {
			lr.PACF = pacfVals[lag]
		} else {
			lr.Unavailable = true
		}
		lr.ACFSignificant = math.Abs(lr.ACF) > confidence
		lr.PACFSignificant = pacfOK[lag] && math.Abs(lr.PACF) > confidence
		result.Lags = append(result.Lags, lr)
	}

	result.Stationarity = DickeyFuller(values)
	result.Strength = classifyStrength(result.Lags[0])
	return result
}

// classifyStrength maps lag-1 magnitudes to a label. Boundary values fall
// into the weaker bucket: the comparisons are strict.
func classifyStrength(lag1 LagResult) Strength {
	acfMag := math.Abs(lag1.ACF)
	switch {
	case acfMag > 0.7:
		return StrengthStrong
	case acfMag > 0.3:
		return StrengthModerate
	case !lag1.Unavailable && math.Abs(lag1.PACF) > 0.3:
		return StrengthDirect
	default:
		return StrengthWeak
	}
}

// sampleACF returns sample autocorrelations r[0..maxLag] with r[0] = 1.
func sampleACF(values []float64, maxLag int) []float64 {
	n := len(values)
	mean := meanOf(values)

	c0 := 0.0
	for _, v := range values {
		d := v - mean
		c0 += d * d
	}

	r := make([]float64, maxLag+1)
	r[0] = 1
	if c0 == 0 {
		return r
	}
	for lag := 1; lag <= maxLag; lag++ {
		ck := 0.0
		for t := 0; t+lag < n; t++ {
			ck += (values[t] - mean) * (values[t+lag] - mean)
		}
		r[lag] = ck / c0
	}
	return r
}

// durbinLevinsonPACF runs the Durbin-Levinson recursion over sample
// autocorrelations and returns the partial autocorrelations pacf[1..maxLag].
// ok[lag] is false from the first order where the recursion degenerates
// (prediction variance collapses), leaving earlier lags intact.
func durbinLevinsonPACF(r []float64) (pacf []float64, ok []bool) {
	maxLag := len(r) - 1
	pacf = make([]float64, maxLag+1)
	ok = make([]bool, maxLag+1)
	if maxLag < 1 {
		return pacf, ok
	}

	phi := make([]float64, maxLag+1)
	prev := make([]float64, maxLag+1)
	v := 1.0

	phi[1] = r[1]
	pacf[1] = r[1]
	ok[1] = true
	v *= 1 - r[1]*r[1]

	for m := 2; m <= maxLag; m++ {
		if v < 1e-12 || math.IsNaN(v) {
			return pacf, ok
		}
		num := r[m]
		for j := 1; j < m; j++ {
			num -= phi[j] * r[m-j]
		}
		k := num / v
		if math.IsNaN(k) || math.IsInf(k, 0) {
			return pacf, ok
		}
		copy(prev, phi)
		phi[m] = k
		for j := 1; j < m; j++ {
			phi[j] = prev[j] - k*prev[m-j]
		}
		v *= 1 - k*k
		pacf[m] = k
		ok[m] = true
	}
	return pacf, ok
}

// YuleWalkerAR fits a zero-mean AR(order) model to the demeaned series via
// the Durbin-Levinson recursion. It returns the AR coefficients, the
// innovation variance, and the reflection coefficients of every order up to
// the requested one. ok is false when the fit degenerates.
//
// The reflection coefficients double as a stationarity certificate: the
// fitted model is stationary iff every |k| < 1.
func YuleWalkerAR(values []float64, order int) (phi []float64, noiseVar float64, reflections []float64, ok bool) {
	n := len(values)
	if order < 1 || n <= order+1 {
		return nil, 0, nil, false
	}
	mean := meanOf(values)
	c0 := 0.0
	for _, v := range values {
		d := v - mean
		c0 += d * d
	}
	c0 /= float64(n)
	if c0 <= 0 {
		return nil, 0, nil, false
	}

	r := sampleACF(values, order)
	coeffs := make([]float64, order+1)
	prev := make([]float64, order+1)
	v := 1.0
	reflections = make([]float64, 0, order)

	for m := 1; m <= order; m++ {
		if v < 1e-12 || math.IsNaN(v) {
			return nil, 0, nil, false
		}
		num := r[m]
		for j := 1; j < m; j++ {
			num -= coeffs[j] * r[m-j]
		}
		k := num / v
		if math.IsNaN(k) || math.IsInf(k, 0) || math.Abs(k) >= 1 {
			return nil, 0, nil, false
		}
		copy(prev, coeffs)
		coeffs[m] = k
		for j := 1; j < m; j++ {
			coeffs[j] = prev[j] - k*prev[m-j]
		}
		v *= 1 - k*k
		reflections = append(reflections, k)
	}

	phi = make([]float64, order)
	copy(phi, coeffs[1:order+1])
	noiseVar = c0 * v
	if noiseVar <= 0 || math.IsNaN(noiseVar) {
		return nil, 0, nil, false
	}
	return phi, noiseVar, reflections, true
}

// dfPValueTable interpolates the p-value of the Dickey-Fuller tau statistic
// (regression with constant) from tabulated critical values.
var dfPValueTable = []struct {
	stat float64
	p    float64
}{
	{-4.00, 0.005},
	{-3.43, 0.01},
	{-3.12, 0.025},
	{-2.86, 0.05},
	{-2.57, 0.10},
	{-1.60, 0.50},
	{-0.44, 0.90},
	{0.60, 0.99},
}

// DickeyFuller runs a Dickey-Fuller unit-root regression (first difference
// on lagged level, with constant) and reports the tau statistic with an
// interpolated p-value. A small p-value rejects the unit root, i.e. the
// series is treated as stationary.
func DickeyFuller(values []float64) StationarityTest {
	n := len(values)
	if n < 6 {
		return StationarityTest{Unavailable: true}
	}

	// Regressors: x = y[t-1], response: dy = y[t] - y[t-1].
	m := n - 1
	var sumX, sumY, sumXX, sumXY float64
	for t := 1; t < n; t++ {
		x := values[t-1]
		y := values[t] - values[t-1]
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}
	denom := float64(m)*sumXX - sumX*sumX
	if denom == 0 {
		return StationarityTest{Unavailable: true}
	}
	beta := (float64(m)*sumXY - sumX*sumY) / denom
	alpha := (sumY - beta*sumX) / float64(m)

	rss := 0.0
	for t := 1; t < n; t++ {
		x := values[t-1]
		resid := (values[t] - values[t-1]) - alpha - beta*x
		rss += resid * resid
	}
	if m <= 2 {
		return StationarityTest{Unavailable: true}
	}
	sigma2 := rss / float64(m-2)
	if sigma2 == 0 {
		// Zero residual variance means the lagged level explains the changes
		// exactly. A negative coefficient is then the strongest possible
		// reversion evidence, not a missing result; report it at the most
		// extreme tabled value. A non-negative coefficient (e.g. a pure
		// deterministic trend) still has no usable statistic.
		if beta < 0 {
			return StationarityTest{
				Statistic:  dfPValueTable[0].stat,
				PValue:     dfPValueTable[0].p,
				Stationary: true,
			}
		}
		return StationarityTest{Unavailable: true}
	}
	seBeta := math.Sqrt(sigma2 * float64(m) / denom)
	if seBeta == 0 || math.IsNaN(seBeta) {
		return StationarityTest{Unavailable: true}
	}
	tau := beta / seBeta
	p := interpolateDFPValue(tau)
	return StationarityTest{
		Statistic:  tau,
		PValue:     p,
		Stationary: p <= 0.05,
	}
}

func interpolateDFPValue(stat float64) float64 {
	table := dfPValueTable
	if stat <= table[0].stat {
		return table[0].p
	}
	if stat >= table[len(table)-1].stat {
		return table[len(table)-1].p
	}
	for i := 1; i < len(table); i++ {
		if stat <= table[i].stat {
			lo, hi := table[i-1], table[i]
			frac := (stat - lo.stat) / (hi.stat - lo.stat)
			return lo.p + frac*(hi.p-lo.p)
		}
	}
	return table[len(table)-1].p
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

func isConstant(values []float64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] != values[0] {
			return false
		}
	}
	return true
}
