package importer

import (
	"testing"
	"time"
)

var testDate = time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)

func TestResolveTimeWindow_DefaultBegin(t *testing.T) {
	t.Parallel()

	begin, end, err := resolveTimeWindow(testDate, "", "", 3600, "09:00", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantBegin := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	if !begin.Equal(wantBegin) {
		t.Fatalf("begin = %v, want %v", begin, wantBegin)
	}
	if got := end.Sub(begin); got != time.Hour {
		t.Fatalf("end - begin = %v, want 1h", got)
	}
}

func TestResolveTimeWindow_OnlyTo(t *testing.T) {
	t.Parallel()

	begin, end, err := resolveTimeWindow(testDate, "", "17:00", 1800, "09:00", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantEnd := time.Date(2026, time.March, 3, 17, 0, 0, 0, time.UTC)
	if !end.Equal(wantEnd) {
		t.Fatalf("end = %v, want %v", end, wantEnd)
	}
	if !begin.Equal(wantEnd.Add(-30 * time.Minute)) {
		t.Fatalf("begin = %v, want end - 30m", begin)
	}
}

func TestResolveTimeWindow_OnlyFrom(t *testing.T) {
	t.Parallel()

	begin, end, err := resolveTimeWindow(testDate, "8:15", "", 900, "09:00", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantBegin := time.Date(2026, time.March, 3, 8, 15, 0, 0, time.UTC)
	if !begin.Equal(wantBegin) {
		t.Fatalf("begin = %v, want %v (short clock normalized)", begin, wantBegin)
	}
	if !end.Equal(wantBegin.Add(15 * time.Minute)) {
		t.Fatalf("end = %v, want begin + 15m", end)
	}
}

func TestResolveTimeWindow_BothClocks(t *testing.T) {
	t.Parallel()

	begin, end, err := resolveTimeWindow(testDate, "09:00", "12:30", 0, "09:00", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := end.Sub(begin); got != 3*time.Hour+30*time.Minute {
		t.Fatalf("span = %v, want 3h30m", got)
	}
}

func TestResolveTimeWindow_MidnightRollOverWithoutDuration(t *testing.T) {
	t.Parallel()

	begin, end, err := resolveTimeWindow(testDate, "09:00", "08:00", 0, "09:00", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	naiveEnd := time.Date(2026, time.March, 3, 8, 0, 0, 0, time.UTC)
	if !end.Equal(naiveEnd.AddDate(0, 0, 1)) {
		t.Fatalf("end = %v, want exactly one day after %v", end, naiveEnd)
	}
	if end.Before(begin) {
		t.Fatalf("end %v is still before begin %v", end, begin)
	}
}

func TestResolveTimeWindow_MidnightRollOverWithDuration(t *testing.T) {
	t.Parallel()

	begin, end, err := resolveTimeWindow(testDate, "22:00", "02:00", 4*3600, "09:00", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := end.Sub(begin); got != 4*time.Hour {
		t.Fatalf("span = %v, want 4h (duration wins over roll-over)", got)
	}
}

func TestResolveTimeWindow_UsesLocation(t *testing.T) {
	t.Parallel()

	location, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	begin, _, err := resolveTimeWindow(testDate, "09:00", "", 3600, "09:00", location)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if begin.Location() != location {
		t.Fatalf("begin location = %v, want %v", begin.Location(), location)
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"2026-03-03", "03.03.2026"} {
		parsed, err := parseDate(input, time.UTC)
		if err != nil {
			t.Errorf("parseDate(%q): unexpected error: %v", input, err)
			continue
		}
		if parsed.Year() != 2026 || parsed.Month() != time.March || parsed.Day() != 3 {
			t.Errorf("parseDate(%q) = %v", input, parsed)
		}
	}

	if _, err := parseDate("yesterday", time.UTC); err == nil {
		t.Errorf("parseDate(\"yesterday\"): expected error, got nil")
	}
}
