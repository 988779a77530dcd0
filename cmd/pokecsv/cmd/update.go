package cmd

import (
	"github.com/spf13/cobra"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update <name> <csv-record>",
	Short: "Replace a Pokemon",
	Long: `Replace the Pokemon called <name> with the given CSV record. The record
may rename it as long as the new name is free.

Example:
  pokecsv update pikachu "25,Pikachu,Electric,,330,40,55,40,50,50,90,1,False"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parseRecord(args[1])
		if err != nil {
			return err
		}

		catalog, _, err := openCatalog(cmd)
		if err != nil {
			return err
		}

		outcome, err := catalog.Modify(args[0], p)
		if err != nil {
			return err
		}
		return reportOutcome(cmd.OutOrStdout(), args[0], outcome)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
