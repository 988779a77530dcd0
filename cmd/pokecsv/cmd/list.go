package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of Pokemon",
	Long: `List one page of Pokemon from the CSV file.

Example:
  pokecsv list --page 2 --size 20`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pageNumber, _ := cmd.Flags().GetInt("page")
		pageSize, _ := cmd.Flags().GetInt("size")

		catalog, _, err := openCatalog(cmd)
		if err != nil {
			return err
		}

		page, err := catalog.ListPaginated(pageNumber, pageSize)
		if err != nil {
			return err
		}
		if page == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "The page asked is greater than the total number of pages")
			return nil
		}

		return printJSON(cmd.OutOrStdout(), page)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Int("page", 1, "1-based page number")
	listCmd.Flags().Int("size", 10, "Number of rows per page")
}
