/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ssargent/pokecsv/pkg/codec"
	"github.com/ssargent/pokecsv/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the pokecsv configuration",
	Long: `Create a configuration file with a generated API key and token secret.

With --create-store an empty CSV file holding only the header is created at
the configured path when no file exists there yet.

Examples:
  pokecsv init
  pokecsv init --csv-path ./data/pokemon.csv --create-store --print-keys`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := runtimeFrom(cmd)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		createStore, _ := cmd.Flags().GetBool("create-store")
		printKeys, _ := cmd.Flags().GetBool("print-keys")

		cfg := rt.cfg
		if config.ConfigExists(rt.configPath) && !force {
			cmd.Printf("Configuration already exists at %s. Use --force to regenerate it.\n", rt.configPath)
		} else {
			cfg, err = config.BootstrapConfig(rt.configPath, rt.cfg.CSVPath)
			if err != nil {
				return fmt.Errorf("error bootstrapping config: %w", err)
			}
			cmd.Printf("✅ Configuration created at %s\n", rt.configPath)

			if printKeys {
				cmd.Printf("\n🔑 Generated Keys:\n")
				cmd.Printf("API Key: %s\n", cfg.Security.APIKey)
				cmd.Printf("JWT Secret: %s\n", cfg.Security.JWTSecret)
				cmd.Printf("\n⚠️  Store these keys securely! They are also saved in %s\n", rt.configPath)
			}
		}

		if createStore {
			created, err := createEmptyStore(cfg.CSVPath)
			if err != nil {
				return err
			}
			if created {
				cmd.Printf("📁 Created empty CSV file at %s\n", cfg.CSVPath)
			} else {
				cmd.Printf("CSV file already exists at %s\n", cfg.CSVPath)
			}
		}

		return nil
	},
}

// createEmptyStore writes a header-only CSV file unless one already exists
func createEmptyStore(path string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return false, fmt.Errorf("failed to create data directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create CSV file: %w", err)
	}

	if _, err := f.WriteString(codec.Header + codec.LineTerminator); err != nil {
		f.Close()
		return false, fmt.Errorf("failed to write CSV header: %w", err)
	}
	return true, f.Close()
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Regenerate the configuration even if it exists")
	initCmd.Flags().Bool("create-store", false, "Create a header-only CSV file at the configured path")
	initCmd.Flags().Bool("print-keys", false, "Print generated keys to console")
}
