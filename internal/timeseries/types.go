package timeseries

import (
	"time"
)

// Granularity selects the bucket size of a completed series.
type Granularity string

const (
	Daily    Granularity = "daily"
	Weekly   Granularity = "weekly"
	Biweekly Granularity = "biweekly"
	Monthly  Granularity = "monthly"
	Period   Granularity = "period"
)

// String returns the string representation of the granularity.
func (g Granularity) String() string {
	return string(g)
}

// IsValid checks if the granularity is one of the known bucket sizes.
func (g Granularity) IsValid() bool {
	switch g {
	case Daily, Weekly, Biweekly, Monthly, Period:
		return true
	default:
		return false
	}
}

// DefaultLags returns the autocorrelation lags analyzed at this granularity.
func (g Granularity) DefaultLags() []int {
	switch g {
	case Weekly:
		return []int{1, 4, 8}
	case Biweekly:
		return []int{1, 2, 4}
	case Monthly:
		return []int{1, 3, 6}
	case Period:
		return []int{1, 2, 3}
	default:
		return []int{1, 7, 14}
	}
}

// DefaultHorizon returns the forecast horizon used at this granularity.
func (g Granularity) DefaultHorizon() int {
	switch g {
	case Weekly:
		return 6
	case Biweekly:
		return 4
	case Monthly:
		return 3
	case Period:
		return 2
	default:
		return 14
	}
}

// AllGranularities lists every supported granularity, daily first.
func AllGranularities() []Granularity {
	return []Granularity{Daily, Weekly, Biweekly, Monthly, Period}
}

// Observation is one raw (date, count) aggregate from the external
// observation source. Multiple observations may exist for the same date and
// must be summed, never overwritten.
type Observation struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// IsValid checks if the observation carries a real date and a non-negative count.
func (o Observation) IsValid() bool {
	return !o.Date.IsZero() && o.Count >= 0
}

// Point is one row of a completed series.
type Point struct {
	Date       time.Time `json:"date"`
	Label      string    `json:"label"`
	Count      int       `json:"count"`
	Partial    bool      `json:"partial"`
	SchoolYear string    `json:"school_year"`
	Period     string    `json:"period"`
}

// CompletedSeries is a dense, strictly increasing sequence with one point per
// collection day (or per bucket after aggregation), no gaps, no duplicates.
// It is the only structure that may feed the analyzer and forecaster.
type CompletedSeries struct {
	Granularity Granularity `json:"granularity"`
	Points      []Point     `json:"points"`
}

// Len returns the number of points in the series.
func (s CompletedSeries) Len() int {
	return len(s.Points)
}

// Total sums all counts in the series.
func (s CompletedSeries) Total() int {
	total := 0
	for _, p := range s.Points {
		total += p.Count
	}
	return total
}

// Counts extracts the counts as floats for statistical analysis.
func (s CompletedSeries) Counts() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = float64(p.Count)
	}
	return out
}

// Exclusions is the audit record of observations dropped by the completer
// because their dates are not collection days. Exclusions are counted, never
// silent: historically, silent drops caused unexplained total mismatches.
type Exclusions struct {
	Observations int         `json:"observations"`
	Files        int         `json:"files"`
	Dates        []time.Time `json:"dates"`
}
