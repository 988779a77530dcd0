/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssargent/pokecsv/pkg/api"
	"github.com/ssargent/pokecsv/pkg/config"
	"github.com/ssargent/pokecsv/pkg/di"
	"github.com/ssargent/pokecsv/pkg/logging"
)

var container *di.Container

// SetContainer injects the dependency container used by every command
func SetContainer(c *di.Container) {
	container = c
}

type runtimeKey struct{}

// runtime is what PersistentPreRunE resolves for the subcommands
type runtime struct {
	cfg        *config.Config
	configPath string
	logger     *zap.Logger
}

func runtimeFrom(cmd *cobra.Command) (*runtime, error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtime)
	if !ok {
		return nil, errors.New("configuration not loaded")
	}
	return rt, nil
}

// openCatalog creates the catalog over the configured CSV path
func openCatalog(cmd *cobra.Command) (api.PokemonCatalog, *runtime, error) {
	rt, err := runtimeFrom(cmd)
	if err != nil {
		return nil, nil, err
	}
	if container == nil {
		return nil, nil, errors.New("dependency container not initialized")
	}
	catalog, err := container.GetCatalogFactory().CreateCatalog(rt.cfg.CSVPath, rt.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return catalog, rt, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pokecsv",
	Short: "pokecsv - Pokemon records in a CSV file",
	Long: `pokecsv keeps Pokemon records in a single CSV file and serves them
over a REST API or straight from the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		cfg := config.DefaultConfig()
		if config.ConfigExists(configPath) {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded
		}

		if cmd.Flags().Changed("csv-path") {
			cfg.CSVPath, _ = cmd.Flags().GetString("csv-path")
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
		}
		if cmd.Flags().Changed("log-format") {
			cfg.Logging.Format, _ = cmd.Flags().GetString("log-format")
		}

		logger, err := logging.New(cfg.Logging)
		if err != nil {
			return err
		}

		rt := &runtime{cfg: cfg, configPath: configPath, logger: logger}
		cmd.SetContext(context.WithValue(cmd.Context(), runtimeKey{}, rt))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if rt, err := runtimeFrom(cmd); err == nil {
			_ = rt.logger.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: OS-specific location)")
	rootCmd.PersistentFlags().String("csv-path", "", "CSV file holding the Pokemon records")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "Log format (json or console)")
}
