package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dailyFixture spans two ISO weeks and two months: Sep 29 - Oct 6 2021
// weekdays (Wed, Thu, Fri, Mon, Tue, Wed).
func dailyFixture() CompletedSeries {
	mk := func(y int, m time.Month, d, count int, period string) Point {
		date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return Point{
			Date:       date,
			Label:      date.Format("2006-01-02"),
			Count:      count,
			SchoolYear: "2021-2022",
			Period:     period,
		}
	}
	return CompletedSeries{
		Granularity: Daily,
		Points: []Point{
			mk(2021, time.September, 29, 3, "Fall A"),
			mk(2021, time.September, 30, 5, "Fall A"),
			mk(2021, time.October, 1, 2, "Fall A"),
			mk(2021, time.October, 4, 7, "Fall B"),
			mk(2021, time.October, 5, 0, "Fall B"),
			mk(2021, time.October, 6, 4, "Fall B"),
		},
	}
}

func TestAggregate_DailyPassthrough(t *testing.T) {
	daily := dailyFixture()

	out := Aggregate(daily, Daily)

	assert.Equal(t, daily.Points, out.Points)
	assert.Equal(t, Daily, out.Granularity)
}

func TestAggregate_WeeklyBuckets(t *testing.T) {
	out := Aggregate(dailyFixture(), Weekly)

	// Sep 29 - Oct 1 is ISO week 39; Oct 4-6 is week 40.
	require.Equal(t, 2, out.Len())
	assert.Equal(t, "2021-W39", out.Points[0].Label)
	assert.Equal(t, 10, out.Points[0].Count)
	assert.Equal(t, "2021-W40", out.Points[1].Label)
	assert.Equal(t, 11, out.Points[1].Count)

	// Bucket date is the first daily date it contains.
	assert.Equal(t, time.Date(2021, 9, 29, 0, 0, 0, 0, time.UTC), out.Points[0].Date)
}

func TestAggregate_MonthlyBuckets(t *testing.T) {
	out := Aggregate(dailyFixture(), Monthly)

	require.Equal(t, 2, out.Len())
	assert.Equal(t, "2021-09", out.Points[0].Label)
	assert.Equal(t, 8, out.Points[0].Count)
	assert.Equal(t, "2021-10", out.Points[1].Label)
	assert.Equal(t, 13, out.Points[1].Count)
}

func TestAggregate_PeriodBuckets(t *testing.T) {
	out := Aggregate(dailyFixture(), Period)

	require.Equal(t, 2, out.Len())
	assert.Equal(t, "Fall A", out.Points[0].Label)
	assert.Equal(t, 10, out.Points[0].Count)
	assert.Equal(t, "Fall B", out.Points[1].Label)
	assert.Equal(t, 11, out.Points[1].Count)
}

func TestAggregate_PreservesTotals(t *testing.T) {
	daily := dailyFixture()

	for _, g := range AllGranularities() {
		out := Aggregate(daily, g)
		assert.Equal(t, daily.Total(), out.Total(), "total changed at %s", g)
	}
}

func TestAggregate_PartialPropagates(t *testing.T) {
	daily := dailyFixture()
	daily.Points[1].Partial = true

	out := Aggregate(daily, Weekly)

	require.Equal(t, 2, out.Len())
	assert.True(t, out.Points[0].Partial, "a bucket containing any partial day is partial")
	assert.False(t, out.Points[1].Partial)
}

func TestAggregate_EmptySeries(t *testing.T) {
	out := Aggregate(CompletedSeries{Granularity: Daily}, Weekly)

	assert.Zero(t, out.Len())
	assert.Equal(t, Weekly, out.Granularity)
}

func TestGranularityDefaults(t *testing.T) {
	tests := []struct {
		g       Granularity
		lags    []int
		horizon int
	}{
		{Daily, []int{1, 7, 14}, 14},
		{Weekly, []int{1, 4, 8}, 6},
		{Biweekly, []int{1, 2, 4}, 4},
		{Monthly, []int{1, 3, 6}, 3},
		{Period, []int{1, 2, 3}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.g.String(), func(t *testing.T) {
			assert.Equal(t, tt.lags, tt.g.DefaultLags())
			assert.Equal(t, tt.horizon, tt.g.DefaultHorizon())
		})
	}
}
