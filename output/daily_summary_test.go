package output

import (
	"testing"
	"time"

	"stempel/timesheet"
)

func entry(t *testing.T, begin, end string, projectID int64) timesheet.Entry {
	t.Helper()
	b := mustParse(t, begin)
	e := mustParse(t, end)
	return timesheet.Entry{
		Begin:     b,
		End:       e,
		Duration:  int(e.Sub(b).Seconds()),
		ProjectID: projectID,
	}
}

func TestBuildDailySummaries_CalculatesWorkedAndBreakHours(t *testing.T) {
	entries := []timesheet.Entry{
		entry(t, "2026-01-05T08:00:00+01:00", "2026-01-05T09:00:00+01:00", 1),
		entry(t, "2026-01-05T09:30:00+01:00", "2026-01-05T10:30:00+01:00", 1),
		entry(t, "2026-01-05T11:00:00+01:00", "2026-01-05T12:00:00+01:00", 2),
	}

	summaries := BuildDailySummaries(entries)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}

	summary := summaries[0]
	assertTimeEqual(t, mustParse(t, "2026-01-05T08:00:00+01:00"), summary.Begin, "begin")
	assertTimeEqual(t, mustParse(t, "2026-01-05T12:00:00+01:00"), summary.End, "end")
	assertFloatEqual(t, 3.00, summary.WorkedHours, "worked hours")
	assertFloatEqual(t, 1.00, summary.BreakHours, "break hours")
	if summary.EntryCount != 3 {
		t.Fatalf("expected 3 entries, got %d", summary.EntryCount)
	}
	if summary.ProjectCount != 2 {
		t.Fatalf("expected 2 projects, got %d", summary.ProjectCount)
	}
}

func TestBuildDailySummaries_UsesFirstAndLastEntryOfDay(t *testing.T) {
	entries := []timesheet.Entry{
		entry(t, "2026-01-06T08:00:00+01:00", "2026-01-06T17:00:00+01:00", 1),
		entry(t, "2026-01-06T09:00:00+01:00", "2026-01-06T10:00:00+01:00", 1),
		entry(t, "2026-01-06T10:00:00+01:00", "2026-01-06T11:00:00+01:00", 1),
	}

	summaries := BuildDailySummaries(entries)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}

	summary := summaries[0]
	assertTimeEqual(t, mustParse(t, "2026-01-06T08:00:00+01:00"), summary.Begin, "begin")
	assertTimeEqual(t, mustParse(t, "2026-01-06T17:00:00+01:00"), summary.End, "end")
	assertFloatEqual(t, 11.00, summary.WorkedHours, "worked hours")
	assertFloatEqual(t, 0.00, summary.BreakHours, "break hours")
}

func TestBuildDailySummaries_GroupsByDay(t *testing.T) {
	entries := []timesheet.Entry{
		entry(t, "2026-01-08T10:00:00+01:00", "2026-01-08T12:00:00+01:00", 1),
		entry(t, "2026-01-07T08:00:00+01:00", "2026-01-07T09:00:00+01:00", 1),
	}

	summaries := BuildDailySummaries(entries)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}

	if summaries[0].Date != "2026-01-07" {
		t.Fatalf("expected first summary date 2026-01-07, got %s", summaries[0].Date)
	}
	if summaries[1].Date != "2026-01-08" {
		t.Fatalf("expected second summary date 2026-01-08, got %s", summaries[1].Date)
	}
}

func TestBuildDailySummaries_UsesCoverageUnionForBreaks(t *testing.T) {
	entries := []timesheet.Entry{
		entry(t, "2026-03-04T08:00:00+01:00", "2026-03-04T12:00:00+01:00", 1),
		entry(t, "2026-03-04T10:00:00+01:00", "2026-03-04T11:00:00+01:00", 2),
		entry(t, "2026-03-04T13:00:00+01:00", "2026-03-04T14:00:00+01:00", 2),
	}

	summaries := BuildDailySummaries(entries)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}

	summary := summaries[0]
	assertTimeEqual(t, mustParse(t, "2026-03-04T08:00:00+01:00"), summary.Begin, "begin")
	assertTimeEqual(t, mustParse(t, "2026-03-04T14:00:00+01:00"), summary.End, "end")
	assertFloatEqual(t, 6.00, summary.WorkedHours, "worked hours")
	assertFloatEqual(t, 1.00, summary.BreakHours, "break hours")
	if summary.EntryCount != 3 {
		t.Fatalf("expected 3 entries, got %d", summary.EntryCount)
	}
}

func TestBuildDailySummaries_EmptyInput(t *testing.T) {
	summaries := BuildDailySummaries(nil)
	if len(summaries) != 0 {
		t.Fatalf("expected no summaries, got %d", len(summaries))
	}
}

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return parsed
}

func assertFloatEqual(t *testing.T, expected, actual float64, field string) {
	t.Helper()
	if expected != actual {
		t.Fatalf("unexpected %s: expected %.2f, got %.2f", field, expected, actual)
	}
}

func assertTimeEqual(t *testing.T, expected, actual time.Time, field string) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Fatalf("unexpected %s: expected %s, got %s", field, expected.Format(time.RFC3339), actual.Format(time.RFC3339))
	}
}
