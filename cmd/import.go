package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"stempel/config"
	"stempel/importer"
	"stempel/storage"
)

var (
	importInput        string
	importFormat       string
	importDBPath       string
	importTimezone     string
	importCustomer     string
	importActivity     string
	importBegin        string
	importComment      string
	importCreateUsers  bool
	importIgnoreErrors bool
	importBatch        bool
	importDomain       string
	importPassword     string
	importDelimiter    string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a CSV/Excel timesheet into a local SQLite database",
	Long: `Read a timesheet file, resolve every row against the local database, and persist the results.

The run happens in two passes. First every row is validated (required columns,
known users unless --create-users is set); if any row fails and --ignore-errors
is not set, nothing is written. Then each surviving row is resolved: customers,
projects, activities, tags and (optionally) users that do not exist yet are
created on the fly, and one timesheet entry is stored per row.

Rows without a customer fall back to the customer configured via
import.customer / --customer; when that is empty or a %s template, a fallback
customer is created at most once per run.

When --format is omitted, format is inferred from the input file extension.`,
	Example: `
  # Import a CSV timesheet
  stempel import -i timesheets.csv --db ./stempel.db

  # Import an Excel timesheet
  stempel import -i timesheets.xlsx

  # Create unknown users and skip broken rows
  stempel import -i timesheets.csv --create-users --ignore-errors

  # Interpret clocks in each user's timezone and batch inserts
  stempel import -i timesheets.csv --timezone user --batch

  # Import a semicolon-separated file with a custom config file
  stempel --configFile ./custom-stempel.yaml import -i ./export.csv --delimiter ";"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		opts, delimiter, err := buildImportOptions(cmd, cfg)
		if err != nil {
			return err
		}

		format, err := importer.InferFormat(importInput, importFormat)
		if err != nil {
			return err
		}
		reader, err := importer.ReaderForFormat(format, delimiter)
		if err != nil {
			return err
		}

		source, err := reader.Read(importInput)
		if err != nil {
			return err
		}
		if err := importer.ValidateHeader(source.Headers); err != nil {
			return err
		}

		store, err := storage.OpenSQLite(importDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		result, err := importer.NewPipeline(store, opts).Run(source.Records)
		if err != nil {
			printRowErrors(result)
			if errors.Is(err, importer.ErrValidationFailed) {
				return fmt.Errorf("%w (use --ignore-errors to skip broken rows)", err)
			}
			return err
		}

		printRowErrors(result)
		fmt.Printf("Import completed. Rows: %d, Imported: %d, Skipped: %d\n",
			len(source.Records), result.Imported, result.SkippedRows)
		fmt.Printf("Created: %d users, %d customers, %d projects, %d activities\n",
			result.CreatedUsers, result.CreatedCustomers, result.CreatedProjects, result.CreatedActivities)
		return nil
	},
}

// buildImportOptions merges config values with explicitly set flags; a set
// flag always wins over the config file.
func buildImportOptions(cmd *cobra.Command, cfg *config.Config) (importer.Options, rune, error) {
	opts := importer.Options{
		Timezone:         cfg.Import.Timezone,
		FallbackCustomer: cfg.Import.Customer,
		ActivityScope:    cfg.Import.Activity,
		DefaultBegin:     cfg.Import.Begin,
		CommentTemplate:  cfg.Import.Comment,
		CreateUsers:      cfg.Import.CreateUsers,
		IgnoreErrors:     cfg.Import.IgnoreErrors,
		Batch:            cfg.Import.Batch,
		Domain:           cfg.Import.Domain,
		Password:         cfg.Import.Password,
		DefaultTimezone:  cfg.Defaults.Timezone,
		DefaultCountry:   cfg.Defaults.Country,
	}
	delimiterValue := cfg.Import.Delimiter

	flags := cmd.Flags()
	if flags.Changed("timezone") {
		opts.Timezone = importTimezone
	}
	if flags.Changed("customer") {
		opts.FallbackCustomer = importCustomer
	}
	if flags.Changed("activity") {
		opts.ActivityScope = importActivity
	}
	if flags.Changed("begin") {
		opts.DefaultBegin = importBegin
	}
	if flags.Changed("comment") {
		opts.CommentTemplate = importComment
	}
	if flags.Changed("create-users") {
		opts.CreateUsers = importCreateUsers
	}
	if flags.Changed("ignore-errors") {
		opts.IgnoreErrors = importIgnoreErrors
	}
	if flags.Changed("batch") {
		opts.Batch = importBatch
	}
	if flags.Changed("domain") {
		opts.Domain = importDomain
	}
	if flags.Changed("password") {
		opts.Password = importPassword
	}
	if flags.Changed("delimiter") {
		delimiterValue = importDelimiter
	}

	runes := []rune(delimiterValue)
	if len(runes) != 1 {
		return importer.Options{}, 0, fmt.Errorf("delimiter must be a single character, got %q", delimiterValue)
	}

	return opts, runes[0], nil
}

func printRowErrors(result *importer.Result) {
	if result == nil {
		return
	}
	for _, rowErr := range result.RowErrors {
		fmt.Printf("  %v\n", rowErr)
	}
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importInput, "input", "i", "", "Input file path")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|excel (optional, inferred from extension when omitted)")
	importCmd.Flags().StringVar(&importDBPath, "db", "./stempel.db", "Path to local SQLite database")
	importCmd.Flags().StringVar(&importTimezone, "timezone", "", "Timezone for row clocks: server|user|IANA name")
	importCmd.Flags().StringVar(&importCustomer, "customer", "", "Fallback customer for rows without one: id, name or %s template")
	importCmd.Flags().StringVar(&importActivity, "activity", "", "Scope for created activities: project|global")
	importCmd.Flags().StringVar(&importBegin, "begin", "", "Default begin clock (HH:MM) for rows without From/To")
	importCmd.Flags().StringVar(&importComment, "comment", "", "Comment template for created records (%s receives the import datetime)")
	importCmd.Flags().BoolVar(&importCreateUsers, "create-users", false, "Create unknown users instead of failing validation")
	importCmd.Flags().BoolVar(&importIgnoreErrors, "ignore-errors", false, "Skip rows that fail validation instead of aborting")
	importCmd.Flags().BoolVar(&importBatch, "batch", false, "Insert entries in batches of 100")
	importCmd.Flags().StringVar(&importDomain, "domain", "", "Email domain for created users")
	importCmd.Flags().StringVar(&importPassword, "password", "", "Default password for created users")
	importCmd.Flags().StringVar(&importDelimiter, "delimiter", "", "CSV field delimiter (single character)")

	_ = importCmd.MarkFlagRequired("input")
}
