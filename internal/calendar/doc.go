// Package calendar implements the school collection calendar: school years,
// collection periods, the non-collection day registry, and the derived
// per-date classification that every downstream consumer shares.
//
// The package is the single authority on the collection-day rule. A date is a
// collection day iff it falls inside a period's inclusive range, is a weekday,
// and is not registered as a Holiday or Break. Partial days remain collection
// days and are flagged as such.
//
// # Core Components
//
//   - types.go: Model, SchoolYear, CollectionPeriod, NonCollectionDay, DayType
//   - classifier.go: Classifier, building the date -> CollectionDayRecord map
//   - days.go: Days, the per-period collection-day counter
//
// The classifier map is built once per report run and passed by reference to
// every consumer. Downstream code must treat map membership as the definition
// of "collection day" and must not re-derive it.
package calendar
