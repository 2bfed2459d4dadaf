package calendar

import (
	"time"
)

// Days counts valid collection days per period. Counts always come from the
// shared classifier map so they can never diverge from the classification
// rule; this calculator is the authoritative denominator for every metric
// that needs "collection days for period X".
type Days struct {
	model  Model
	byDate map[time.Time]CollectionDayRecord
}

// NewDays wraps a calendar model and its classifier map.
func NewDays(model Model, byDate map[time.Time]CollectionDayRecord) *Days {
	return &Days{model: model, byDate: byDate}
}

// CountForPeriod returns the number of valid collection days in the named
// period. The second return is false when the period does not exist in the
// calendar, so callers can tell "unknown period" apart from "known period
// with zero collection days".
func (d *Days) CountForPeriod(name string) (int, bool) {
	if _, _, ok := d.model.PeriodByName(name); !ok {
		return 0, false
	}
	count := 0
	for _, rec := range d.byDate {
		if rec.Period == name {
			count++
		}
	}
	return count, true
}

// CountForSchoolYear returns the number of valid collection days across all
// periods of the named school year.
func (d *Days) CountForSchoolYear(name string) int {
	count := 0
	for _, rec := range d.byDate {
		if rec.SchoolYear == name {
			count++
		}
	}
	return count
}

// PeriodCount pairs a period with its collection-day count for reporting.
type PeriodCount struct {
	SchoolYear string `json:"school_year"`
	Period     string `json:"period"`
	Days       int    `json:"days"`
}

// AllPeriodCounts returns counts for every period in declaration order.
func (d *Days) AllPeriodCounts() []PeriodCount {
	var counts []PeriodCount
	for _, sy := range d.model.Years {
		for _, p := range sy.Periods {
			n, _ := d.CountForPeriod(p.Name)
			counts = append(counts, PeriodCount{
				SchoolYear: sy.Name,
				Period:     p.Name,
				Days:       n,
			})
		}
	}
	return counts
}
