/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/pokecsv/pkg/api"
	"github.com/ssargent/pokecsv/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the pokecsv REST API server over the configured CSV file.

Secure routes accept the configured API key or a bearer token from
/api/v1/configuration/token. The server stops cleanly on SIGINT or SIGTERM.

Examples:
  pokecsv serve
  pokecsv serve --csv-path ./pokemon.csv --port 9000 --api-key mysecretkey`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := runtimeFrom(cmd)
		if err != nil {
			return err
		}
		cfg := rt.cfg

		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			cfg.Bind, _ = cmd.Flags().GetString("bind")
		}
		if cmd.Flags().Changed("api-key") {
			cfg.Security.APIKey, _ = cmd.Flags().GetString("api-key")
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		catalog, _, err := openCatalog(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		starter := container.GetServerFactory().CreateServerStarter()
		return starter.StartServer(ctx, catalog, serverConfig(cfg), rt.logger)
	},
}

// serverConfig maps the file configuration onto the API server settings
func serverConfig(cfg *config.Config) api.ServerConfig {
	return api.ServerConfig{
		Bind:            cfg.Bind,
		Port:            cfg.Port,
		APIKey:          cfg.Security.APIKey,
		JWTSecret:       cfg.Security.JWTSecret,
		Issuer:          cfg.Security.Issuer,
		Audience:        cfg.Security.Audience,
		TokenTTLMinutes: cfg.Security.TokenTTLMinutes,
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind server to")
	serveCmd.Flags().String("api-key", "", "API key for the secure and configuration routes")
}
