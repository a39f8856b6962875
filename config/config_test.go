package config

import (
	"strings"
	"testing"
)

func TestValidateYAMLContent_RejectsUnsupportedActivityScope(t *testing.T) {
	t.Parallel()

	content := []byte(`import:
  activity: "customer"
`)

	_, err := ValidateYAMLContent(content)
	if err == nil {
		t.Fatalf("expected validation error for unsupported activity scope")
	}
	if !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateYAMLContent_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(""))
	if err != nil {
		t.Fatalf("expected empty config to validate: %v", err)
	}

	if cfg.Import.Timezone != "server" {
		t.Errorf("import.timezone = %q, want %q", cfg.Import.Timezone, "server")
	}
	if cfg.Import.Activity != "project" {
		t.Errorf("import.activity = %q, want %q", cfg.Import.Activity, "project")
	}
	if cfg.Import.Begin != "09:00" {
		t.Errorf("import.begin = %q, want %q", cfg.Import.Begin, "09:00")
	}
	if cfg.Import.Comment != "Imported at %s" {
		t.Errorf("import.comment = %q", cfg.Import.Comment)
	}
	if cfg.Import.Domain != "example.com" {
		t.Errorf("import.domain = %q", cfg.Import.Domain)
	}
	if cfg.Import.Delimiter != "," {
		t.Errorf("import.delimiter = %q", cfg.Import.Delimiter)
	}
	if cfg.Defaults.Timezone != "UTC" {
		t.Errorf("defaults.timezone = %q", cfg.Defaults.Timezone)
	}
	if cfg.Defaults.Country != "DE" {
		t.Errorf("defaults.country = %q", cfg.Defaults.Country)
	}
}

func TestValidateYAMLContent_OverridesDefaults(t *testing.T) {
	t.Parallel()

	content := []byte(`import:
  timezone: "Europe/Berlin"
  customer: "Imported %s"
  create_users: true
  delimiter: ";"
defaults:
  country: "AT"
`)

	cfg, err := ValidateYAMLContent(content)
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}
	if cfg.Import.Timezone != "Europe/Berlin" {
		t.Errorf("import.timezone = %q", cfg.Import.Timezone)
	}
	if cfg.Import.Customer != "Imported %s" {
		t.Errorf("import.customer = %q", cfg.Import.Customer)
	}
	if !cfg.Import.CreateUsers {
		t.Errorf("expected create_users true")
	}
	if cfg.Import.Delimiter != ";" {
		t.Errorf("import.delimiter = %q", cfg.Import.Delimiter)
	}
	if cfg.Defaults.Country != "AT" {
		t.Errorf("defaults.country = %q", cfg.Defaults.Country)
	}
}

func TestValidateYAMLContent_RejectsMultiCharDelimiter(t *testing.T) {
	t.Parallel()

	content := []byte(`import:
  delimiter: ",,"
`)

	if _, err := ValidateYAMLContent(content); err == nil {
		t.Fatalf("expected validation error for multi-character delimiter")
	}
}

func TestExampleYAMLValidates(t *testing.T) {
	t.Parallel()

	if _, err := ValidateYAMLContent([]byte(ExampleYAML())); err != nil {
		t.Fatalf("example config must validate: %v", err)
	}
}
