package timeutil

import (
	"fmt"
	"strings"
	"time"
)

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// NormalizeClock expands clock fragments like "9", "9:5" or "09:30" to a
// canonical "HH:MM:SS" string. Empty input stays empty.
func NormalizeClock(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return "", fmt.Errorf("invalid clock value %q", value)
	}

	normalized := make([]string, 3)
	for i := 0; i < 3; i++ {
		part := "0"
		if i < len(parts) {
			part = strings.TrimSpace(parts[i])
		}
		if part == "" || len(part) > 2 || !isDigits(part) {
			return "", fmt.Errorf("invalid clock value %q", value)
		}
		if len(part) == 1 {
			part = "0" + part
		}
		normalized[i] = part
	}

	return strings.Join(normalized, ":"), nil
}

// CombineDateClock places a "HH:MM:SS" clock on the given date in the given
// location. The clock must already be normalized.
func CombineDateClock(date time.Time, clock string, location *time.Location) (time.Time, error) {
	parsed, err := time.Parse("15:04:05", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock %q: %w", clock, err)
	}

	return time.Date(
		date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0,
		location,
	), nil
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
