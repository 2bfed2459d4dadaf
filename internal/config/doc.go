// Package config loads application settings and the school calendar file.
//
// # Configuration Sources
//
// Application settings are loaded from the following sources in order of
// precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// All environment variables follow the pattern AR_* for namespacing:
//
//	AR_LOGGING_LEVEL=debug
//	AR_PATHS_CALENDAR_FILE=calendar.yaml
//	AR_ANALYSIS_MAX_AR_ORDER=3
//
// # Calendar File
//
// The calendar file is YAML only and is validated strictly at load time:
// invalid day types, inverted period ranges, and duplicate non-collection
// dates are configuration errors, not runtime conditions, so loading fails
// rather than letting a malformed calendar silently distort day
// classification.
package config
