package importer

import (
	"fmt"
	"time"

	"stempel/internal/timeutil"
)

var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

func parseDate(value string, location *time.Location) (time.Time, error) {
	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, value, location); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format: %q", value)
}

// resolveTimeWindow turns a date, optional from/to clocks and a duration into
// a concrete begin/end pair in the given location.
//
// Branches, in priority order:
//  1. neither clock set: begin = date@defaultBegin, end = begin + duration
//  2. only to set: end = date@to, begin = end - duration
//  3. only from set: begin = date@from, end = begin + duration
//  4. both set: begin = date@from, end = date@to; an end before begin means
//     the span crosses midnight — recompute from the duration when one is
//     given, otherwise push end one calendar day forward.
func resolveTimeWindow(date time.Time, from, to string, durationSeconds int, defaultBegin string, location *time.Location) (time.Time, time.Time, error) {
	fromClock, err := timeutil.NormalizeClock(from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("from time: %w", err)
	}
	toClock, err := timeutil.NormalizeClock(to)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("to time: %w", err)
	}

	span := time.Duration(durationSeconds) * time.Second

	switch {
	case fromClock == "" && toClock == "":
		beginClock, err := timeutil.NormalizeClock(defaultBegin)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("default begin time: %w", err)
		}
		begin, err := timeutil.CombineDateClock(date, beginClock, location)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return begin, begin.Add(span), nil

	case fromClock == "":
		end, err := timeutil.CombineDateClock(date, toClock, location)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return end.Add(-span), end, nil

	case toClock == "":
		begin, err := timeutil.CombineDateClock(date, fromClock, location)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return begin, begin.Add(span), nil

	default:
		begin, err := timeutil.CombineDateClock(date, fromClock, location)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end, err := timeutil.CombineDateClock(date, toClock, location)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if end.Before(begin) {
			if durationSeconds > 0 {
				end = begin.Add(span)
			} else {
				end = end.AddDate(0, 0, 1)
			}
		}
		return begin, end, nil
	}
}
