package calendar

import (
	"log/slog"
	"sort"
	"time"
)

// Classifier derives the per-date collection-day map from a calendar model
// and a non-collection day registry.
type Classifier struct {
	logger *slog.Logger
}

// NewClassifier creates a classifier. A nil logger falls back to the default.
func NewClassifier(logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{logger: logger}
}

// Classify walks every date of every period and applies the three-part
// collection-day rule: inside a period's inclusive range, a weekday, and not
// registered as Holiday or Break. Partial days are included and flagged.
//
// The returned map covers exactly the valid collection days; dates outside
// all periods are absent. An empty calendar yields an empty map. When a date
// falls inside two periods the later-declared period wins and the overwrite
// is logged, never silently ignored.
func (c *Classifier) Classify(model Model, registry Registry) map[time.Time]CollectionDayRecord {
	byDate := make(map[time.Time]CollectionDayRecord)

	for _, sy := range model.Years {
		for _, period := range sy.Periods {
			if !period.IsValid() {
				c.logger.Warn("skipping invalid collection period",
					slog.String("school_year", sy.Name),
					slog.String("period", period.Name))
				continue
			}
			for d := DayKey(period.Start); !d.After(DayKey(period.End)); d = d.AddDate(0, 0, 1) {
				if !IsWeekday(d) {
					continue
				}
				partial := false
				if ncd, ok := registry[d]; ok {
					if ncd.Type.ExcludesCollection() {
						continue
					}
					partial = ncd.Type == DayPartial
				}
				if prev, ok := byDate[d]; ok && prev.Period != period.Name {
					c.logger.Warn("date claimed by overlapping periods, later declaration wins",
						slog.String("date", d.Format("2006-01-02")),
						slog.String("previous_period", prev.Period),
						slog.String("winning_period", period.Name))
				}
				byDate[d] = CollectionDayRecord{
					SchoolYear: sy.Name,
					Period:     period.Name,
					Partial:    partial,
				}
			}
		}
	}

	numberDays(byDate)
	return byDate
}

// numberDays assigns chronological day numbers within each period and school
// year. Counters restart per period and per year respectively.
func numberDays(byDate map[time.Time]CollectionDayRecord) {
	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	periodCounters := make(map[string]int)
	yearCounters := make(map[string]int)
	for _, d := range dates {
		rec := byDate[d]
		periodCounters[rec.Period]++
		yearCounters[rec.SchoolYear]++
		rec.DayInPeriod = periodCounters[rec.Period]
		rec.DayInYear = yearCounters[rec.SchoolYear]
		byDate[d] = rec
	}
}
