package output

import (
	"fmt"
	"sort"
	"time"

	"stempel/internal/timeutil"
	"stempel/timesheet"
)

// DailySummary aggregates all entries of one calendar day (in local time).
// BreakHours is the part of the first-begin/last-end window not covered by
// any entry, with overlaps merged.
type DailySummary struct {
	Date         string
	Begin        time.Time
	End          time.Time
	WorkedHours  float64
	BreakHours   float64
	EntryCount   int
	ProjectCount int
}

type interval struct {
	start time.Time
	end   time.Time
}

func BuildDailySummaries(entries []timesheet.Entry) []DailySummary {
	if len(entries) == 0 {
		return []DailySummary{}
	}

	byDay := make(map[string][]timesheet.Entry)
	for _, entry := range entries {
		day := timeutil.StartOfDay(entry.Begin.In(time.Local)).Format("2006-01-02")
		byDay[day] = append(byDay[day], entry)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	summaries := make([]DailySummary, 0, len(days))
	for _, day := range days {
		summaries = append(summaries, summarizeDay(day, byDay[day]))
	}

	return summaries
}

func summarizeDay(day string, entries []timesheet.Entry) DailySummary {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Begin.Equal(entries[j].Begin) {
			return entries[i].End.Before(entries[j].End)
		}
		return entries[i].Begin.Before(entries[j].Begin)
	})

	begin := entries[0].Begin
	end := entries[len(entries)-1].End
	if end.Before(begin) {
		end = begin
	}

	workedSeconds := 0
	projects := make(map[int64]struct{}, 2)
	intervals := make([]interval, 0, len(entries))

	for _, entry := range entries {
		workedSeconds += entry.Duration
		projects[entry.ProjectID] = struct{}{}
		intervals = append(intervals, interval{start: entry.Begin, end: entry.End})
	}

	span := end.Sub(begin)
	covered := mergedCoverageWithinWindow(intervals, begin, end)
	breakDuration := span - covered
	if breakDuration < 0 {
		breakDuration = 0
	}

	return DailySummary{
		Date:         day,
		Begin:        begin,
		End:          end,
		WorkedHours:  roundHours(float64(workedSeconds) / 3600.0),
		BreakHours:   roundHours(breakDuration.Hours()),
		EntryCount:   len(entries),
		ProjectCount: len(projects),
	}
}

func mergedCoverageWithinWindow(intervals []interval, windowStart, windowEnd time.Time) time.Duration {
	if len(intervals) == 0 {
		return 0
	}
	if !windowEnd.After(windowStart) {
		return 0
	}

	clipped := make([]interval, 0, len(intervals))
	for _, candidate := range intervals {
		start := maxTime(candidate.start, windowStart)
		end := minTime(candidate.end, windowEnd)
		if end.After(start) {
			clipped = append(clipped, interval{start: start, end: end})
		}
	}
	if len(clipped) == 0 {
		return 0
	}

	sort.Slice(clipped, func(i, j int) bool {
		return clipped[i].start.Before(clipped[j].start)
	})

	currentStart := clipped[0].start
	currentEnd := clipped[0].end
	covered := time.Duration(0)

	for _, candidate := range clipped[1:] {
		if candidate.start.After(currentEnd) {
			covered += currentEnd.Sub(currentStart)
			currentStart = candidate.start
			currentEnd = candidate.end
			continue
		}

		if candidate.end.After(currentEnd) {
			currentEnd = candidate.end
		}
	}

	covered += currentEnd.Sub(currentStart)
	return covered
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func roundHours(value float64) float64 {
	return float64(int(value*100+0.5)) / 100
}

func WriteDailySummaries(path, format string, summaries []DailySummary) error {
	switch normalizeFormat(format) {
	case "csv":
		return writeDailySummariesCSV(path, summaries)
	case "excel", "xlsx":
		return writeDailySummariesExcel(path, summaries)
	default:
		return fmt.Errorf("unsupported output format for daily summaries: %s", format)
	}
}
