package importer

import (
	"fmt"
	"strings"
)

// supportedColumns is the full header set an input file must carry. The
// comparison is done on normalized header names.
var supportedColumns = []string{
	"Date", "From", "To", "Duration", "Rate", "User", "Customer",
	"Project", "Activity", "Description", "Exported", "Tags",
	"Hourly rate", "Fixed rate",
}

// ValidateHeader checks that the input columns are a superset of the
// supported column set. Any missing column fails the whole import before a
// single row is processed.
func ValidateHeader(headers []string) error {
	present := make(map[string]struct{}, len(headers))
	for _, header := range headers {
		present[normalizeHeader(header)] = struct{}{}
	}

	missing := make([]string, 0)
	for _, column := range supportedColumns {
		if _, ok := present[normalizeHeader(column)]; !ok {
			missing = append(missing, column)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing columns: %s", ErrHeaderMismatch, strings.Join(missing, ", "))
	}
	return nil
}

// requiredFieldErrors returns the names of required fields missing from the
// record. Project, Activity and Date must be set; the time span needs either
// both From and To or a Duration.
func requiredFieldErrors(record ImportRecord) []string {
	missing := make([]string, 0, 4)
	if record.Project == "" {
		missing = append(missing, "Project")
	}
	if record.Activity == "" {
		missing = append(missing, "Activity")
	}
	if record.Date == "" {
		missing = append(missing, "Date")
	}
	if record.Duration == "" && (record.From == "" || record.To == "") {
		missing = append(missing, "Duration")
	}
	return missing
}
