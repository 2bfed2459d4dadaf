package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arcli/internal/calendar"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "calendar.yaml", cfg.Paths.CalendarFile)
	assert.Equal(t, 3, cfg.Analysis.MaxAROrder)
	assert.Equal(t, 10, cfg.Analysis.MinPrimaryObservations)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeTempFile(t, "config.yaml", `
logging:
  level: debug
  output: both
paths:
  reports_dir: out
analysis:
  max_ar_order: 2
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "out", cfg.Paths.ReportsDir)
	assert.Equal(t, 2, cfg.Analysis.MaxAROrder)
	// Untouched fields keep their defaults.
	assert.Equal(t, "calendar.yaml", cfg.Paths.CalendarFile)
}

func TestLoad_FileValueSurvivesDefaults(t *testing.T) {
	// A file value for a field that also has a built-in default must not be
	// replaced by that default when no env var is set.
	path := writeTempFile(t, "config.yaml", `
logging:
  output: both
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "info", cfg.Logging.Level, "untouched fields keep defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeTempFile(t, "config.yaml", `
logging:
  level: debug
`)
	t.Setenv("AR_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad logging output", content: "logging:\n  output: syslog\n"},
		{name: "zero ar order", content: "analysis:\n  max_ar_order: -1\n"},
		{name: "primary threshold below minimum", content: "analysis:\n  min_primary_observations: 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "config.yaml", tt.content)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

const validCalendar = `
school_years:
  - school_year: "2021-2022"
    periods:
      - name: "Fall 2021"
        start: "2021-08-30"
        end: "2021-12-17"
      - name: "Spring 2022"
        start: "2022-01-03"
        end: "2022-05-27"
non_collection_days:
  - date: "2021-09-06"
    type: Holiday
    event: "Labor Day"
  - date: "2021-11-24"
    type: Break
    event: "Thanksgiving Break"
  - date: "2021-10-15"
    type: Partial
    event: "Early Dismissal"
`

func TestLoadCalendar_Valid(t *testing.T) {
	path := writeTempFile(t, "calendar.yaml", validCalendar)

	model, registry, err := LoadCalendar(path)

	require.NoError(t, err)
	require.Len(t, model.Years, 1)
	require.Len(t, model.Years[0].Periods, 2)
	assert.Equal(t, "2021-2022", model.Years[0].Name)
	assert.Equal(t, calendar.Date(2021, time.August, 30), model.Years[0].Periods[0].Start)

	require.Len(t, registry, 3)
	labor := registry[calendar.Date(2021, time.September, 6)]
	assert.Equal(t, calendar.DayHoliday, labor.Type)
	assert.Equal(t, "Labor Day", labor.Event)
	assert.Equal(t, calendar.DayPartial, registry[calendar.Date(2021, time.October, 15)].Type)
}

func TestLoadCalendar_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{
			name:    "missing file",
			content: "",
			errPart: "",
		},
		{
			name: "unknown day type",
			content: `
school_years:
  - school_year: "2021-2022"
    periods:
      - name: "Fall"
        start: "2021-08-30"
        end: "2021-12-17"
non_collection_days:
  - date: "2021-09-06"
    type: Vacation
    event: "Labor Day"
`,
			errPart: "validation failed",
		},
		{
			name: "inverted period range",
			content: `
school_years:
  - school_year: "2021-2022"
    periods:
      - name: "Fall"
        start: "2021-12-17"
        end: "2021-08-30"
`,
			errPart: "before it starts",
		},
		{
			name: "duplicate non-collection date",
			content: `
school_years:
  - school_year: "2021-2022"
    periods:
      - name: "Fall"
        start: "2021-08-30"
        end: "2021-12-17"
non_collection_days:
  - date: "2021-09-06"
    type: Holiday
    event: "Labor Day"
  - date: "2021-09-06"
    type: Break
    event: "Conflicting Entry"
`,
			errPart: "duplicate non-collection date",
		},
		{
			name: "no school years",
			content: `
school_years: []
`,
			errPart: "validation failed",
		},
		{
			name: "malformed date",
			content: `
school_years:
  - school_year: "2021-2022"
    periods:
      - name: "Fall"
        start: "08/30/2021"
        end: "2021-12-17"
`,
			errPart: "validation failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing.yaml")
			if tt.content != "" {
				path = writeTempFile(t, "calendar.yaml", tt.content)
			}
			_, _, err := LoadCalendar(path)
			require.Error(t, err)
			if tt.errPart != "" {
				assert.Contains(t, err.Error(), tt.errPart)
			}
		})
	}
}
