package analytics

// Strength is the human-readable label for lag-1 dependency strength.
type Strength string

const (
	StrengthStrong   Strength = "Strong"
	StrengthModerate Strength = "Moderate"
	StrengthDirect   Strength = "Direct correlation"
	StrengthWeak     Strength = "Weak/Random"
	StrengthUnknown  Strength = "N/A"
)

// LagResult holds the ACF and PACF estimates at one lag. Unavailable marks a
// lag whose estimate failed numerically; the rest of the analysis stands.
type LagResult struct {
	Lag             int     `json:"lag"`
	ACF             float64 `json:"acf"`
	PACF            float64 `json:"pacf"`
	Confidence      float64 `json:"confidence"`
	ACFSignificant  bool    `json:"acf_significant"`
	PACFSignificant bool    `json:"pacf_significant"`
	Unavailable     bool    `json:"unavailable"`
}

// StationarityTest is an augmented Dickey-Fuller style unit-root check.
type StationarityTest struct {
	Statistic   float64 `json:"statistic"`
	PValue      float64 `json:"p_value"`
	Stationary  bool    `json:"stationary"`
	Unavailable bool    `json:"unavailable"`
}

// Result is the full ACF/PACF analysis over a completed series. When
// InsufficientData is set the lag values are placeholders and must be
// rendered as "N/A", never as estimates.
type Result struct {
	N                int              `json:"n"`
	MaxLag           int              `json:"max_lag"`
	Lags             []LagResult      `json:"lags"`
	Stationarity     StationarityTest `json:"stationarity"`
	Strength         Strength         `json:"strength"`
	InsufficientData bool             `json:"insufficient_data"`
}

// LagByNumber returns the result for a specific lag.
func (r Result) LagByNumber(lag int) (LagResult, bool) {
	for _, lr := range r.Lags {
		if lr.Lag == lag {
			return lr, true
		}
	}
	return LagResult{}, false
}
