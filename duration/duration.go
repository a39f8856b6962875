package duration

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Mode selects the input grammar for Parse.
type Mode string

const (
	// ModeDecimal reads the value as decimal hours ("1.5", "1,5", "-2").
	ModeDecimal Mode = "decimal"
	// ModeColon reads "H:MM" or "H:MM:SS"; minutes and seconds above 59
	// overflow into the next unit.
	ModeColon Mode = "colon"
	// ModeNatural reads "<N>h<N>m<N>s" tokens in any subset, e.g. "2h38m17s".
	ModeNatural Mode = "natural"
)

var (
	ErrInvalidFormat = errors.New("invalid duration format")
	ErrInvalidMode   = errors.New("invalid duration mode")
)

var (
	decimalPattern = regexp.MustCompile(`^-?\d+([.,]\d+)?$`)
	colonPattern   = regexp.MustCompile(`^(-)?(\d+):(\d+)(?::(\d+))?$`)
	naturalToken   = regexp.MustCompile(`^(\d+)([hms])`)
)

// Parse converts a duration string to a signed count of seconds according to
// the given mode. It fails with ErrInvalidFormat when the input does not
// match the mode's grammar and with ErrInvalidMode for unknown modes.
func Parse(value string, mode Mode) (int, error) {
	value = strings.TrimSpace(value)

	switch mode {
	case ModeDecimal:
		return parseDecimal(value)
	case ModeColon:
		return parseColon(value)
	case ModeNatural:
		return parseNatural(value)
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, string(mode))
	}
}

// Detect guesses the grammar of a free-form duration string. Colon separators
// win over everything, h/m/s tokens select natural, and anything else is
// treated as decimal hours (Parse then rejects garbage).
func Detect(value string) Mode {
	value = strings.TrimSpace(value)
	if strings.Contains(value, ":") {
		return ModeColon
	}
	if naturalToken.MatchString(value) {
		return ModeNatural
	}
	return ModeDecimal
}

func parseDecimal(value string) (int, error) {
	if !decimalPattern.MatchString(value) {
		return 0, fmt.Errorf("%w: %q is not a decimal hour value", ErrInvalidFormat, value)
	}

	hours, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidFormat, value, err)
	}

	return int(math.Round(hours * 3600)), nil
}

func parseColon(value string) (int, error) {
	match := colonPattern.FindStringSubmatch(value)
	if match == nil {
		return 0, fmt.Errorf("%w: %q is not a H:MM or H:MM:SS value", ErrInvalidFormat, value)
	}

	hours, _ := strconv.Atoi(match[2])
	minutes, _ := strconv.Atoi(match[3])
	seconds := 0
	if match[4] != "" {
		seconds, _ = strconv.Atoi(match[4])
	}

	total := hours*3600 + minutes*60 + seconds
	if match[1] == "-" {
		total = -total
	}
	return total, nil
}

// parseNatural consumes "<N>h", "<N>m" and "<N>s" tokens in any order until
// the input is exhausted. Anything the token grammar cannot consume fails.
func parseNatural(value string) (int, error) {
	if value == "" || value == "0" {
		return 0, nil
	}

	total := 0
	rest := value
	for rest != "" {
		match := naturalToken.FindStringSubmatch(rest)
		if match == nil {
			return 0, fmt.Errorf("%w: %q is not a h/m/s duration", ErrInvalidFormat, value)
		}

		amount, _ := strconv.Atoi(match[1])
		switch match[2] {
		case "h":
			total += amount * 3600
		case "m":
			total += amount * 60
		case "s":
			total += amount
		}
		rest = rest[len(match[0]):]
	}
	return total, nil
}
