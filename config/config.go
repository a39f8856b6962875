package config

import (
	"bytes"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyImportTimezone     = "import.timezone"
	KeyImportCustomer     = "import.customer"
	KeyImportActivity     = "import.activity"
	KeyImportBegin        = "import.begin"
	KeyImportComment      = "import.comment"
	KeyImportCreateUsers  = "import.create_users"
	KeyImportIgnoreErrors = "import.ignore_errors"
	KeyImportBatch        = "import.batch"
	KeyImportDomain       = "import.domain"
	KeyImportPassword     = "import.password"
	KeyImportDelimiter    = "import.delimiter"
	KeyDefaultsTimezone   = "defaults.timezone"
	KeyDefaultsCountry    = "defaults.country"
)

type Config struct {
	Import   ImportConfig   `mapstructure:"import"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

type ImportConfig struct {
	// Timezone selects which zone row clocks are interpreted in:
	// "server", "user", or an IANA zone name.
	Timezone     string `mapstructure:"timezone" validate:"required"`
	Customer     string `mapstructure:"customer"`
	Activity     string `mapstructure:"activity" validate:"oneof=project global"`
	Begin        string `mapstructure:"begin" validate:"required"`
	Comment      string `mapstructure:"comment"`
	CreateUsers  bool   `mapstructure:"create_users"`
	IgnoreErrors bool   `mapstructure:"ignore_errors"`
	Batch        bool   `mapstructure:"batch"`
	Domain       string `mapstructure:"domain" validate:"required"`
	Password     string `mapstructure:"password" validate:"required"`
	Delimiter    string `mapstructure:"delimiter" validate:"required,len=1"`
}

type DefaultsConfig struct {
	Timezone string `mapstructure:"timezone" validate:"required"`
	Country  string `mapstructure:"country" validate:"required,len=2"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# stempel configuration
import:
  # server | user | IANA zone name (e.g. Europe/Berlin)
  timezone: "server"
  # fallback customer for rows without one: an id, a name, or a template
  # where %s is replaced with the import datetime
  customer: ""
  # project | global: where created activities are attached
  activity: "project"
  begin: "09:00"
  comment: "Imported at %s"
  create_users: false
  ignore_errors: false
  batch: false
  domain: "example.com"
  password: "password"
  delimiter: ","

defaults:
  timezone: "UTC"
  country: "DE"
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyImportTimezone, "server")
	v.SetDefault(KeyImportCustomer, "")
	v.SetDefault(KeyImportActivity, "project")
	v.SetDefault(KeyImportBegin, "09:00")
	v.SetDefault(KeyImportComment, "Imported at %s")
	v.SetDefault(KeyImportCreateUsers, false)
	v.SetDefault(KeyImportIgnoreErrors, false)
	v.SetDefault(KeyImportBatch, false)
	v.SetDefault(KeyImportDomain, "example.com")
	v.SetDefault(KeyImportPassword, "password")
	v.SetDefault(KeyImportDelimiter, ",")
	v.SetDefault(KeyDefaultsTimezone, "UTC")
	v.SetDefault(KeyDefaultsCountry, "DE")
}
