package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	CalendarFile    string `yaml:"calendar_file" envconfig:"CALENDAR_FILE"`
	ObservationsDir string `yaml:"observations_dir" envconfig:"OBSERVATIONS_DIR"`
	ReportsDir      string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	LogsDir         string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// AnalysisConfig bounds the statistical pipeline
type AnalysisConfig struct {
	MaxAROrder             int `yaml:"max_ar_order" envconfig:"MAX_AR_ORDER"`
	MinPrimaryObservations int `yaml:"min_primary_observations" envconfig:"MIN_PRIMARY_OBSERVATIONS"`
	MovingAverageCap       int `yaml:"moving_average_cap" envconfig:"MOVING_AVERAGE_CAP"`
}

// Default returns the built-in configuration values.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			CalendarFile:    "calendar.yaml",
			ObservationsDir: "data",
			ReportsDir:      "reports",
			LogsDir:         "logs",
		},
		Analysis: AnalysisConfig{
			MaxAROrder:             3,
			MinPrimaryObservations: 10,
			MovingAverageCap:       7,
		},
	}
}

// Load loads configuration in three layers: built-in defaults, then the
// optional YAML file, then AR_* environment variables. Later layers win.
// The struct tags deliberately carry no envconfig defaults: a default tag is
// applied on every Process call whenever the env var is absent, which would
// clobber whatever the file set.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			data, err := os.ReadFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Without default tags, Process only touches fields whose env vars are
	// actually set, so file values survive.
	if err := envconfig.Process("AR", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output %q: must be console, file, or both", c.Logging.Output)
	}
	if c.Analysis.MaxAROrder < 1 {
		return fmt.Errorf("analysis max_ar_order must be at least 1, got %d", c.Analysis.MaxAROrder)
	}
	if c.Analysis.MinPrimaryObservations < 4 {
		return fmt.Errorf("analysis min_primary_observations must be at least 4, got %d", c.Analysis.MinPrimaryObservations)
	}
	if c.Analysis.MovingAverageCap < 1 {
		return fmt.Errorf("analysis moving_average_cap must be at least 1, got %d", c.Analysis.MovingAverageCap)
	}
	return nil
}
