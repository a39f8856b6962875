package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"stempel/storage"
	"stempel/timesheet"
)

type CSVWriter struct{}

var rawHeaders = []string{
	"Date", "From", "To", "Duration", "Rate", "User", "Customer",
	"Project", "Activity", "Description", "Exported", "Tags",
	"Hourly rate", "Fixed rate",
}

func (w *CSVWriter) Write(path string, entries []timesheet.Entry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(rawHeaders); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, entry := range entries {
		if err := writer.Write(rawRow(entry)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}

// rawRow renders an entry in the same column set the importer reads, so an
// export can be re-imported as-is.
func rawRow(entry timesheet.Entry) []string {
	exported := "0"
	if entry.Exported {
		exported = "1"
	}
	return []string{
		entry.Begin.Format("2006-01-02"),
		entry.Begin.Format("15:04:05"),
		entry.End.Format("15:04:05"),
		formatDuration(entry.Duration),
		formatRate(entry.Rate),
		entry.Username,
		entry.CustomerName,
		entry.ProjectName,
		entry.ActivityName,
		entry.Description,
		exported,
		storage.TagNames(entry.Tags),
		formatRate(entry.HourlyRate),
		formatRate(entry.FixedRate),
	}
}

func formatDuration(seconds int) string {
	span := time.Duration(seconds) * time.Second
	return fmt.Sprintf("%d:%02d:%02d", int(span.Hours()), int(span.Minutes())%60, seconds%60)
}

func formatRate(rate *float64) string {
	if rate == nil {
		return ""
	}
	return strconv.FormatFloat(*rate, 'f', -1, 64)
}
