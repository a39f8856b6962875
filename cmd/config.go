package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage stempel configuration file values.",
	Long: `Create, edit and display the stempel configuration file.

The configuration stores import behavior and defaults for created records:
- import.timezone / customer / activity / begin / comment
- import.create_users / ignore_errors / batch
- import.domain / password / delimiter
- defaults.timezone / defaults.country`,
	Example: `
  # Create default config in $HOME/.stempel.yaml
  stempel config create

  # Show active config and source file
  stempel config show

  # Open active config in editor (creates example if missing)
  stempel config edit
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
