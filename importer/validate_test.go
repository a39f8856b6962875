package importer

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateHeader_FullSetPasses(t *testing.T) {
	t.Parallel()

	headers := []string{
		"Date", "From", "To", "Duration", "Rate", "User", "Customer",
		"Project", "Activity", "Description", "Exported", "Tags",
		"Hourly rate", "Fixed rate",
	}
	if err := ValidateHeader(headers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateHeader_MissingColumnFails(t *testing.T) {
	t.Parallel()

	headers := []string{
		"Date", "From", "To", "Duration", "Rate", "User", "Customer",
		"Project", "Activity", "Description", "Exported",
		"Hourly rate", "Fixed rate",
	}
	err := ValidateHeader(headers)
	if !errors.Is(err, ErrHeaderMismatch) {
		t.Fatalf("expected ErrHeaderMismatch, got %v", err)
	}
	if !strings.Contains(err.Error(), "Tags") {
		t.Fatalf("expected missing column named in error, got %q", err.Error())
	}
}

func TestValidateHeader_NormalizesNames(t *testing.T) {
	t.Parallel()

	headers := []string{
		"date", "FROM", "to", "duration", "rate", "user", "customer",
		"project", "activity", "description", "exported", "tags",
		"hourly_rate", "fixed-rate",
	}
	if err := ValidateHeader(headers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequiredFieldErrors(t *testing.T) {
	t.Parallel()

	complete := ImportRecord{Date: "2026-03-03", Project: "Website", Activity: "Dev", Duration: "1:00"}
	if missing := requiredFieldErrors(complete); len(missing) != 0 {
		t.Fatalf("expected no missing fields, got %v", missing)
	}

	fromTo := ImportRecord{Date: "2026-03-03", Project: "Website", Activity: "Dev", From: "09:00", To: "10:00"}
	if missing := requiredFieldErrors(fromTo); len(missing) != 0 {
		t.Fatalf("expected From/To to satisfy the span rule, got %v", missing)
	}
}

func TestRequiredFieldErrors_MissingDurationAndClock(t *testing.T) {
	t.Parallel()

	record := ImportRecord{Date: "2026-03-03", Project: "Website", Activity: "Dev", From: "09:00"}
	missing := requiredFieldErrors(record)
	if len(missing) != 1 || missing[0] != "Duration" {
		t.Fatalf("expected [Duration], got %v", missing)
	}
}

func TestRequiredFieldErrors_AllMissing(t *testing.T) {
	t.Parallel()

	missing := requiredFieldErrors(ImportRecord{})
	want := map[string]bool{"Project": true, "Activity": true, "Date": true, "Duration": true}
	if len(missing) != len(want) {
		t.Fatalf("expected %d missing fields, got %v", len(want), missing)
	}
	for _, field := range missing {
		if !want[field] {
			t.Fatalf("unexpected field %q in %v", field, missing)
		}
	}
}
