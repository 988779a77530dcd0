package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/pokecsv/pkg/store"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Get a Pokemon by name",
	Long: `Get a Pokemon from the CSV file. Names match ignoring case.

Example:
  pokecsv get pikachu`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, _, err := openCatalog(cmd)
		if err != nil {
			return err
		}

		p, err := catalog.Get(args[0])
		if errors.Is(err, store.ErrRecordNotFound) {
			return fmt.Errorf("pokemon %s was not found", args[0])
		}
		if err != nil {
			return err
		}

		return printJSON(cmd.OutOrStdout(), p)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
