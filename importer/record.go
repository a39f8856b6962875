package importer

import (
	"strings"
)

type Record struct {
	RowNumber int
	Values    map[string]string
}

func (r Record) Get(keys ...string) string {
	for _, key := range keys {
		normalized := normalizeHeader(key)
		if value, ok := r.Values[normalized]; ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func normalizeHeader(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	trimmed = strings.ReplaceAll(trimmed, "_", "")
	trimmed = strings.ReplaceAll(trimmed, "-", "")
	trimmed = strings.ReplaceAll(trimmed, " ", "")
	return trimmed
}

// ImportRecord is one input row with every supported column pulled into a
// named field. All values are trimmed strings; absent columns are empty.
type ImportRecord struct {
	RowNumber   int
	Date        string
	From        string
	To          string
	Duration    string
	Rate        string
	User        string
	Customer    string
	Project     string
	Activity    string
	Description string
	Exported    string
	Tags        string
	HourlyRate  string
	FixedRate   string
}

// NewImportRecord adapts a raw row map into a typed record. A leading "-" on
// the duration is stripped so negative durations from some exports do not
// produce negative spans.
func NewImportRecord(record Record) ImportRecord {
	return ImportRecord{
		RowNumber:   record.RowNumber,
		Date:        record.Get("date"),
		From:        record.Get("from"),
		To:          record.Get("to"),
		Duration:    strings.TrimPrefix(record.Get("duration"), "-"),
		Rate:        record.Get("rate"),
		User:        record.Get("user", "username"),
		Customer:    record.Get("customer"),
		Project:     record.Get("project"),
		Activity:    record.Get("activity"),
		Description: record.Get("description"),
		Exported:    record.Get("exported"),
		Tags:        record.Get("tags"),
		HourlyRate:  record.Get("hourly rate", "hourlyrate"),
		FixedRate:   record.Get("fixed rate", "fixedrate"),
	}
}
