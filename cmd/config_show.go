package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"stempel/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  stempel config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
			fmt.Println("Configuration:")
			fmt.Printf("import.timezone: %s\n", cfg.Import.Timezone)
			fmt.Printf("import.customer: %s\n", cfg.Import.Customer)
			fmt.Printf("import.activity: %s\n", cfg.Import.Activity)
			fmt.Printf("import.begin: %s\n", cfg.Import.Begin)
			fmt.Printf("import.comment: %s\n", cfg.Import.Comment)
			fmt.Printf("import.create_users: %t\n", cfg.Import.CreateUsers)
			fmt.Printf("import.ignore_errors: %t\n", cfg.Import.IgnoreErrors)
			fmt.Printf("import.batch: %t\n", cfg.Import.Batch)
			fmt.Printf("import.domain: %s\n", cfg.Import.Domain)
			fmt.Printf("import.delimiter: %s\n", cfg.Import.Delimiter)
			fmt.Printf("defaults.timezone: %s\n", cfg.Defaults.Timezone)
			fmt.Printf("defaults.country: %s\n", cfg.Defaults.Country)
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
