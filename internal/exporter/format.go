package exporter

import (
	"fmt"
)

// formatFloat formats a float64 value for CSV output with exactly 4 decimal
// places, so correlation coefficients keep their precision and values like
// 13.4 appear consistently as 13.4000.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.4f", f)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
