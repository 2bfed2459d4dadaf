package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"arcli/internal/calendar"
)

// calendarFile mirrors the YAML layout of a calendar file. Dates are ISO
// strings in the file and converted after structural validation.
type calendarFile struct {
	SchoolYears       []schoolYearEntry       `yaml:"school_years" validate:"required,min=1,dive"`
	NonCollectionDays []nonCollectionDayEntry `yaml:"non_collection_days" validate:"dive"`
}

type schoolYearEntry struct {
	Name    string        `yaml:"school_year" validate:"required"`
	Periods []periodEntry `yaml:"periods" validate:"required,min=1,dive"`
}

type periodEntry struct {
	Name  string `yaml:"name" validate:"required"`
	Start string `yaml:"start" validate:"required,datetime=2006-01-02"`
	End   string `yaml:"end" validate:"required,datetime=2006-01-02"`
}

type nonCollectionDayEntry struct {
	Date  string `yaml:"date" validate:"required,datetime=2006-01-02"`
	Type  string `yaml:"type" validate:"required,oneof=Holiday Break Partial"`
	Event string `yaml:"event"`
}

// LoadCalendar reads and validates a calendar file, returning the immutable
// calendar model and the non-collection day registry.
//
// Beyond structural validation, two semantic rules apply: a period's end date
// must not precede its start date, and a non-collection date may be registered
// at most once. Overlapping periods are NOT rejected here; the classifier
// resolves them by declaration order and logs the overlap.
func LoadCalendar(path string) (calendar.Model, calendar.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return calendar.Model{}, nil, fmt.Errorf("failed to read calendar file: %w", err)
	}

	var file calendarFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return calendar.Model{}, nil, fmt.Errorf("failed to parse calendar file: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(file); err != nil {
		return calendar.Model{}, nil, fmt.Errorf("calendar file validation failed: %w", err)
	}

	var model calendar.Model
	for _, sy := range file.SchoolYears {
		year := calendar.SchoolYear{Name: sy.Name}
		for _, pe := range sy.Periods {
			start, err := parseDate(pe.Start)
			if err != nil {
				return calendar.Model{}, nil, fmt.Errorf("period %q: %w", pe.Name, err)
			}
			end, err := parseDate(pe.End)
			if err != nil {
				return calendar.Model{}, nil, fmt.Errorf("period %q: %w", pe.Name, err)
			}
			if end.Before(start) {
				return calendar.Model{}, nil,
					fmt.Errorf("period %q in %q ends %s before it starts %s",
						pe.Name, sy.Name, pe.End, pe.Start)
			}
			year.Periods = append(year.Periods, calendar.CollectionPeriod{
				Name:  pe.Name,
				Start: start,
				End:   end,
			})
		}
		model.Years = append(model.Years, year)
	}

	registry := make(calendar.Registry, len(file.NonCollectionDays))
	for _, ncd := range file.NonCollectionDays {
		date, err := parseDate(ncd.Date)
		if err != nil {
			return calendar.Model{}, nil, fmt.Errorf("non-collection day %q: %w", ncd.Event, err)
		}
		if existing, ok := registry[date]; ok {
			return calendar.Model{}, nil,
				fmt.Errorf("duplicate non-collection date %s: %q conflicts with %q",
					ncd.Date, ncd.Event, existing.Event)
		}
		registry[date] = calendar.NonCollectionDay{
			Date:  date,
			Type:  calendar.DayType(ncd.Type),
			Event: ncd.Event,
		}
	}

	return model, registry, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return calendar.DayKey(t), nil
}
