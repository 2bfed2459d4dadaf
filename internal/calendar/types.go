package calendar

import (
	"time"
)

// DayType classifies a registered non-collection day exception.
type DayType string

const (
	// DayHoliday marks a single-day holiday with no collection.
	DayHoliday DayType = "Holiday"
	// DayBreak marks a day inside a multi-day break with no collection.
	DayBreak DayType = "Break"
	// DayPartial marks a reduced-capacity collection day (e.g. early dismissal).
	DayPartial DayType = "Partial"
)

// String returns the string representation of the day type.
func (t DayType) String() string {
	return string(t)
}

// IsValid checks if the day type is one of the known classifications.
func (t DayType) IsValid() bool {
	switch t {
	case DayHoliday, DayBreak, DayPartial:
		return true
	default:
		return false
	}
}

// ExcludesCollection reports whether a date tagged with this type is removed
// from collection entirely. Partial days stay in collection.
func (t DayType) ExcludesCollection() bool {
	return t == DayHoliday || t == DayBreak
}

// CollectionPeriod is a named, inclusive date range within a school year.
type CollectionPeriod struct {
	Name  string    `yaml:"name" json:"name"`
	Start time.Time `yaml:"start" json:"start"`
	End   time.Time `yaml:"end" json:"end"`
}

// IsValid checks if the period has a name and a non-inverted date range.
func (p CollectionPeriod) IsValid() bool {
	return p.Name != "" && !p.Start.IsZero() && !p.End.IsZero() && !p.Start.After(p.End)
}

// Contains reports whether the date falls within the period's inclusive range.
func (p CollectionPeriod) Contains(d time.Time) bool {
	d = DayKey(d)
	return !d.Before(DayKey(p.Start)) && !d.After(DayKey(p.End))
}

// SchoolYear owns an ordered set of collection periods. Period order is
// declaration order, which decides precedence when ranges overlap.
type SchoolYear struct {
	Name    string             `yaml:"school_year" json:"school_year"`
	Periods []CollectionPeriod `yaml:"periods" json:"periods"`
}

// Model is the full multi-year school calendar, immutable once loaded.
type Model struct {
	Years []SchoolYear `json:"years"`
}

// PeriodByName looks up a period across all school years. The second return
// distinguishes an unknown period from a known-but-empty one.
func (m Model) PeriodByName(name string) (CollectionPeriod, string, bool) {
	for _, sy := range m.Years {
		for _, p := range sy.Periods {
			if p.Name == name {
				return p, sy.Name, true
			}
		}
	}
	return CollectionPeriod{}, "", false
}

// PeriodNames returns all period names in declaration order.
func (m Model) PeriodNames() []string {
	var names []string
	for _, sy := range m.Years {
		for _, p := range sy.Periods {
			names = append(names, p.Name)
		}
	}
	return names
}

// NonCollectionDay is a registered calendar exception.
type NonCollectionDay struct {
	Date  time.Time `json:"date"`
	Type  DayType   `json:"type"`
	Event string    `json:"event"`
}

// Registry maps dates to their registered exception. At most one entry per
// date; the config loader rejects duplicates before a Registry exists.
type Registry map[time.Time]NonCollectionDay

// CollectionDayRecord describes one valid collection day. Presence of a date
// in the classifier map is the definition of "collection day"; absence means
// not a collection day, which callers must not conflate with "Holiday".
type CollectionDayRecord struct {
	SchoolYear  string `json:"school_year"`
	Period      string `json:"period"`
	Partial     bool   `json:"partial"`
	DayInPeriod int    `json:"day_in_period"`
	DayInYear   int    `json:"day_in_year"`
}

// DayKey normalizes a time to UTC midnight so it can be used as a map key.
func DayKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a normalized calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// IsWeekday reports whether the date is Monday through Friday. Saturdays and
// Sundays are never collection days regardless of period membership.
func IsWeekday(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
