package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arcli/internal/calendar"
)

// classifiedWeek builds the classifier map for Sep 1-10 2021 with Labor Day
// (Sep 6) as a holiday: collection days Sep 1, 2, 3, 7, 8, 9, 10.
func classifiedWeek(t *testing.T) map[time.Time]calendar.CollectionDayRecord {
	t.Helper()
	model := calendar.Model{
		Years: []calendar.SchoolYear{
			{
				Name: "2021-2022",
				Periods: []calendar.CollectionPeriod{
					{
						Name:  "Fall 2021",
						Start: calendar.Date(2021, time.September, 1),
						End:   calendar.Date(2021, time.September, 10),
					},
				},
			},
		},
	}
	registry := calendar.Registry{
		calendar.Date(2021, time.September, 6): {
			Date:  calendar.Date(2021, time.September, 6),
			Type:  calendar.DayHoliday,
			Event: "Labor Day",
		},
	}
	return calendar.NewClassifier(nil).Classify(model, registry)
}

func TestComplete_ZeroFillsGaps(t *testing.T) {
	c := NewCompleter(classifiedWeek(t), nil)

	series, excl := c.Complete([]Observation{
		{Date: calendar.Date(2021, time.September, 1), Count: 12},
		{Date: calendar.Date(2021, time.September, 8), Count: 5},
	})

	require.Equal(t, 7, series.Len(), "one row per collection day")
	assert.Zero(t, excl.Observations)

	// Shape changes, total does not.
	assert.Equal(t, 17, series.Total())

	byLabel := make(map[string]Point)
	for _, p := range series.Points {
		byLabel[p.Label] = p
	}
	assert.Equal(t, 12, byLabel["2021-09-01"].Count)
	assert.Equal(t, 0, byLabel["2021-09-02"].Count)
	assert.Equal(t, 0, byLabel["2021-09-07"].Count)
	assert.Equal(t, 5, byLabel["2021-09-08"].Count)
}

func TestComplete_SumsDuplicateDates(t *testing.T) {
	c := NewCompleter(classifiedWeek(t), nil)

	series, _ := c.Complete([]Observation{
		{Date: calendar.Date(2021, time.September, 2), Count: 4},
		{Date: calendar.Date(2021, time.September, 2), Count: 6},
	})

	assert.Equal(t, 10, series.Total(), "duplicate dates sum, never overwrite")
}

func TestComplete_ExcludesNonCollectionDates(t *testing.T) {
	c := NewCompleter(classifiedWeek(t), nil)

	series, excl := c.Complete([]Observation{
		{Date: calendar.Date(2021, time.September, 1), Count: 12},
		{Date: calendar.Date(2021, time.September, 4), Count: 3}, // Saturday
		{Date: calendar.Date(2021, time.September, 6), Count: 7}, // Labor Day
		{Date: calendar.Date(2021, time.October, 1), Count: 2},   // outside the period
	})

	assert.Equal(t, 12, series.Total(), "excluded counts never leak into the series")
	assert.Equal(t, 3, excl.Observations)
	assert.Equal(t, 12, excl.Files)
	require.Len(t, excl.Dates, 3)
	assert.Equal(t, calendar.Date(2021, time.September, 4), excl.Dates[0])
	assert.Equal(t, calendar.Date(2021, time.October, 1), excl.Dates[2])
}

func TestComplete_StrictlyIncreasingDates(t *testing.T) {
	c := NewCompleter(classifiedWeek(t), nil)

	series, _ := c.Complete([]Observation{
		{Date: calendar.Date(2021, time.September, 10), Count: 1},
		{Date: calendar.Date(2021, time.September, 1), Count: 1},
	})

	for i := 1; i < series.Len(); i++ {
		assert.True(t, series.Points[i-1].Date.Before(series.Points[i].Date),
			"points must be strictly increasing at index %d", i)
	}
}

func TestComplete_EmptyObservations(t *testing.T) {
	c := NewCompleter(classifiedWeek(t), nil)

	series, excl := c.Complete(nil)

	assert.Equal(t, 7, series.Len(), "all-zero series still covers every collection day")
	assert.Zero(t, series.Total())
	assert.Zero(t, excl.Observations)
}

func TestComplete_CarriesCalendarContext(t *testing.T) {
	byDate := classifiedWeek(t)
	// Flag one day partial to check it survives completion.
	d := calendar.Date(2021, time.September, 8)
	rec := byDate[d]
	rec.Partial = true
	byDate[d] = rec

	c := NewCompleter(byDate, nil)
	series, _ := c.Complete(nil)

	for _, p := range series.Points {
		assert.Equal(t, "Fall 2021", p.Period)
		assert.Equal(t, "2021-2022", p.SchoolYear)
		if p.Date.Equal(d) {
			assert.True(t, p.Partial)
		}
	}
}

func TestComplete_Idempotent(t *testing.T) {
	c := NewCompleter(classifiedWeek(t), nil)
	observations := []Observation{
		{Date: calendar.Date(2021, time.September, 2), Count: 5},
		{Date: calendar.Date(2021, time.September, 2), Count: 3},
		{Date: calendar.Date(2021, time.September, 4), Count: 1},
	}

	first, firstExcl := c.Complete(observations)
	second, secondExcl := c.Complete(observations)

	assert.Equal(t, first, second, "completion must have no hidden mutable state")
	assert.Equal(t, firstExcl, secondExcl)
}

func TestComplete_NormalizesTimestampedDates(t *testing.T) {
	c := NewCompleter(classifiedWeek(t), nil)

	// Observation carrying a time-of-day still lands on its calendar date.
	series, excl := c.Complete([]Observation{
		{Date: time.Date(2021, 9, 1, 14, 30, 0, 0, time.UTC), Count: 9},
	})

	assert.Zero(t, excl.Observations)
	assert.Equal(t, 9, series.Points[0].Count)
}
