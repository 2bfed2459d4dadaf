package timeseries

import (
	"log/slog"
	"sort"
	"time"

	"arcli/internal/calendar"
)

// Completer builds dense daily series from sparse observations using the
// shared classifier map as the single source of collection-day truth.
type Completer struct {
	byDate map[time.Time]calendar.CollectionDayRecord
	logger *slog.Logger
}

// NewCompleter creates a completer over a classifier map. A nil logger falls
// back to the default.
func NewCompleter(byDate map[time.Time]calendar.CollectionDayRecord, logger *slog.Logger) *Completer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Completer{byDate: byDate, logger: logger}
}

// Complete merges observations with the classifier map into a daily series
// with exactly one row per collection day, in strictly increasing date order.
//
// Duplicate-date observations are summed before use. Collection days with no
// observation get a zero row. Observations on dates that are not collection
// days (weekend or holiday data from an upstream error) are excluded from
// the series and counted in the returned Exclusions.
//
// Postcondition: the series total equals the observation total restricted to
// collection days. Zero-fill adds rows, it never changes the total.
func (c *Completer) Complete(observations []Observation) (CompletedSeries, Exclusions) {
	summed := make(map[time.Time]int)
	for _, obs := range observations {
		summed[calendar.DayKey(obs.Date)] += obs.Count
	}

	var excl Exclusions
	includedTotal := 0
	for d, count := range summed {
		if _, ok := c.byDate[d]; !ok {
			excl.Observations++
			excl.Files += count
			excl.Dates = append(excl.Dates, d)
			continue
		}
		includedTotal += count
	}
	sort.Slice(excl.Dates, func(i, j int) bool { return excl.Dates[i].Before(excl.Dates[j]) })
	if excl.Observations > 0 {
		c.logger.Warn("excluded observations on non-collection dates",
			slog.Int("dates", excl.Observations),
			slog.Int("files", excl.Files))
	}

	dates := make([]time.Time, 0, len(c.byDate))
	for d := range c.byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	points := make([]Point, 0, len(dates))
	for _, d := range dates {
		rec := c.byDate[d]
		points = append(points, Point{
			Date:       d,
			Label:      d.Format("2006-01-02"),
			Count:      summed[d],
			Partial:    rec.Partial,
			SchoolYear: rec.SchoolYear,
			Period:     rec.Period,
		})
	}

	series := CompletedSeries{Granularity: Daily, Points: points}
	// Conservation is a programming invariant, not a runtime condition: a
	// mismatch here means the zero-fill range and the inclusion filter have
	// diverged. Tests fail loudly on it; production logs and continues.
	if series.Total() != includedTotal {
		c.logger.Error("completed series total diverged from classified observation total",
			slog.Int("series_total", series.Total()),
			slog.Int("observation_total", includedTotal))
	}
	return series, excl
}
