package timeseries

import (
	"fmt"
	"sort"
	"time"
)

// Aggregate rolls a daily completed series up to the requested granularity.
// Buckets are formed over the daily series only, so every bucket inherits the
// calendar filtering already applied by the completer; totals are preserved
// exactly. Aggregating to Daily returns the input unchanged.
func Aggregate(daily CompletedSeries, g Granularity) CompletedSeries {
	if g == Daily || daily.Len() == 0 {
		out := daily
		out.Granularity = g
		return out
	}

	type bucket struct {
		first   time.Time
		label   string
		count   int
		partial bool
		year    string
		period  string
	}
	buckets := make(map[string]*bucket)

	for _, p := range daily.Points {
		label := bucketLabel(p, g)
		b, ok := buckets[label]
		if !ok {
			b = &bucket{first: p.Date, label: label, year: p.SchoolYear, period: p.Period}
			buckets[label] = b
		}
		if p.Date.Before(b.first) {
			b.first = p.Date
			b.year = p.SchoolYear
			b.period = p.Period
		}
		b.count += p.Count
		b.partial = b.partial || p.Partial
	}

	points := make([]Point, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, Point{
			Date:       b.first,
			Label:      b.label,
			Count:      b.count,
			Partial:    b.partial,
			SchoolYear: b.year,
			Period:     b.period,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	return CompletedSeries{Granularity: g, Points: points}
}

// bucketLabel derives the stable bucket key for a daily point. Weekly buckets
// follow ISO weeks; biweekly buckets pair consecutive ISO weeks.
func bucketLabel(p Point, g Granularity) string {
	switch g {
	case Weekly:
		year, week := p.Date.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case Biweekly:
		year, week := p.Date.ISOWeek()
		return fmt.Sprintf("%d-B%02d", year, (week+1)/2)
	case Monthly:
		return p.Date.Format("2006-01")
	case Period:
		return p.Period
	default:
		return p.Label
	}
}
