package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssargent/pokecsv/pkg/auth"
)

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the secure routes",
	Long: `Issue a bearer token signed with the configured JWT secret.

Example:
  pokecsv token --subject ash`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := runtimeFrom(cmd)
		if err != nil {
			return err
		}
		subject, _ := cmd.Flags().GetString("subject")

		security := rt.cfg.Security
		if security.JWTSecret == "" {
			return errors.New("no jwt_secret configured (run 'pokecsv init' first)")
		}

		issuer, err := auth.NewTokenIssuer(auth.TokenConfig{
			Secret:   security.JWTSecret,
			Issuer:   security.Issuer,
			Audience: security.Audience,
			TTL:      time.Duration(security.TokenTTLMinutes) * time.Minute,
		})
		if err != nil {
			return err
		}

		token, err := issuer.Issue(subject)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), token)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().String("subject", "pokecsv-client", "Token subject")
}
