package cmd

import (
	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a Pokemon",
	Long: `Delete a Pokemon from the CSV file.

Example:
  pokecsv delete pikachu`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, _, err := openCatalog(cmd)
		if err != nil {
			return err
		}

		outcome, err := catalog.Delete(args[0])
		if err != nil {
			return err
		}
		return reportOutcome(cmd.OutOrStdout(), args[0], outcome)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
