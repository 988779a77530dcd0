package cmd

import (
	"github.com/spf13/cobra"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <csv-record>",
	Short: "Add a Pokemon",
	Long: `Append a Pokemon given as one CSV record. The name must not be taken.

Example:
  pokecsv add "25,Pikachu,Electric,,320,35,55,40,50,50,90,1,False"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parseRecord(args[0])
		if err != nil {
			return err
		}

		catalog, _, err := openCatalog(cmd)
		if err != nil {
			return err
		}

		outcome, err := catalog.Add(p)
		if err != nil {
			return err
		}
		return reportOutcome(cmd.OutOrStdout(), p.Name, outcome)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
