/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ssargent/pokecsv/pkg/config"
)

const (
	serviceName  = "pokecsv.service"
	unitFilePath = "/etc/systemd/system/" + serviceName
)

// serviceCmd represents the service command
var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage pokecsv as a systemd service",
	Long: `Manage pokecsv as a systemd service. This command provides
native integration with systemd for production deployments.

The service will be installed with proper security settings and
automatic restart on failure.`,
}

// installServiceCmd represents the service install command
var installServiceCmd = &cobra.Command{
	Use:   "install",
	Short: "Install pokecsv as a systemd service",
	Long: `Install pokecsv as a systemd service with proper configuration.

This will:
- Create or use existing configuration
- Generate systemd unit file
- Enable and optionally start the service

Examples:
  sudo pokecsv service install
  sudo pokecsv service install --csv-path /var/lib/pokecsv/pokemon.csv --user pokecsv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := runtimeFrom(cmd)
		if err != nil {
			return err
		}
		user, _ := cmd.Flags().GetString("user")
		startNow, _ := cmd.Flags().GetBool("start")

		if os.Geteuid() != 0 {
			return fmt.Errorf("service install requires root privileges (run with: sudo pokecsv service install)")
		}

		cmd.Printf("🔧 Installing pokecsv systemd service...\n")

		cfg := rt.cfg
		if !config.ConfigExists(rt.configPath) {
			cfg, err = config.BootstrapConfig(rt.configPath, rt.cfg.CSVPath)
			if err != nil {
				return fmt.Errorf("error bootstrapping config: %w", err)
			}
			cmd.Printf("✅ Created new configuration at %s\n", rt.configPath)
		} else if cmd.Flags().Changed("csv-path") {
			if err := config.SaveConfig(cfg, rt.configPath); err != nil {
				return fmt.Errorf("error saving config: %w", err)
			}
		}

		unit := renderSystemdUnit(cfg, rt.configPath, user)
		if err := os.WriteFile(unitFilePath, []byte(unit), 0600); err != nil {
			return fmt.Errorf("error creating systemd unit: %w", err)
		}

		if err := runSystemctlCommand("daemon-reload"); err != nil {
			return fmt.Errorf("error reloading systemd: %w", err)
		}
		if err := runSystemctlCommand("enable", serviceName); err != nil {
			return fmt.Errorf("error enabling service: %w", err)
		}
		cmd.Printf("✅ Service enabled successfully\n")

		if startNow {
			if err := runSystemctlCommand("start", serviceName); err != nil {
				return fmt.Errorf("error starting service: %w", err)
			}
			cmd.Printf("✅ Service started successfully\n")
		}

		cmd.Printf("\n🎉 pokecsv service installed!\n")
		cmd.Printf("Service: %s\n", serviceName)
		cmd.Printf("Config: %s\n", rt.configPath)
		cmd.Printf("CSV file: %s\n", cfg.CSVPath)
		cmd.Printf("Listening: %s\n", cfg.Addr())
		if !startNow {
			cmd.Printf("\nTo start the service: sudo systemctl start %s\n", serviceName)
		}
		cmd.Printf("To view logs: sudo journalctl -u %s -f\n", serviceName)
		return nil
	},
}

// systemctlCmd builds a subcommand that forwards to systemctl
func systemctlCmd(use, short, action, done string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runSystemctlCommand(action, serviceName); err != nil {
				return fmt.Errorf("systemctl %s: %w", action, err)
			}
			if done != "" {
				cmd.Printf("✅ %s\n", done)
			}
			return nil
		},
	}
}

// logsCmd represents the service logs command
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show pokecsv service logs",
	Long: `Show pokecsv service logs using journalctl.

Examples:
  pokecsv service logs
  pokecsv service logs -f  # Follow logs`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		follow, _ := cmd.Flags().GetBool("follow")
		lines, _ := cmd.Flags().GetInt("lines")
		return runCommand("journalctl", journalArgs(follow, lines)...)
	},
}

// uninstallCmd represents the service uninstall command
var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall the pokecsv service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Geteuid() != 0 {
			return fmt.Errorf("service uninstall requires root privileges (run with: sudo pokecsv service uninstall)")
		}

		cmd.Printf("🗑️  Uninstalling pokecsv service...\n")

		_ = runSystemctlCommand("stop", serviceName) // Ignore errors if already stopped

		if err := runSystemctlCommand("disable", serviceName); err != nil {
			cmd.Printf("Warning: could not disable service: %v\n", err)
		}

		if err := os.Remove(unitFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("error removing unit file: %w", err)
		}

		if err := runSystemctlCommand("daemon-reload"); err != nil {
			return fmt.Errorf("error reloading systemd: %w", err)
		}

		cmd.Printf("✅ pokecsv service uninstalled\n")
		cmd.Printf("Note: Configuration and CSV files were not removed\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serviceCmd)

	serviceCmd.AddCommand(installServiceCmd)
	serviceCmd.AddCommand(systemctlCmd("start", "Start the pokecsv service", "start", "pokecsv service started"))
	serviceCmd.AddCommand(systemctlCmd("stop", "Stop the pokecsv service", "stop", "pokecsv service stopped"))
	serviceCmd.AddCommand(systemctlCmd("restart", "Restart the pokecsv service", "restart", "pokecsv service restarted"))
	serviceCmd.AddCommand(systemctlCmd("status", "Show pokecsv service status", "status", ""))
	serviceCmd.AddCommand(logsCmd)
	serviceCmd.AddCommand(uninstallCmd)

	installServiceCmd.Flags().String("user", "pokecsv", "User to run the service as")
	installServiceCmd.Flags().Bool("start", true, "Start the service after installation")

	logsCmd.Flags().BoolP("follow", "f", false, "Follow log output")
	logsCmd.Flags().IntP("lines", "n", 0, "Number of lines to show")
}

// renderSystemdUnit returns the unit file content for cfg
func renderSystemdUnit(cfg *config.Config, configPath, user string) string {
	csvPath, err := filepath.Abs(cfg.CSVPath)
	if err != nil {
		csvPath = cfg.CSVPath
	}

	return fmt.Sprintf(`[Unit]
Description=pokecsv Server
After=network-online.target
Wants=network-online.target

[Service]
User=%s
Group=%s
ExecStart=/usr/local/bin/pokecsv serve --config %s
Restart=on-failure
NoNewPrivileges=true
UMask=0077
ReadWritePaths=%s
ReadWritePaths=%s

[Install]
WantedBy=multi-user.target
`, user, user, configPath, filepath.Dir(csvPath), filepath.Dir(configPath))
}

func journalArgs(follow bool, lines int) []string {
	args := []string{"-u", serviceName}
	if follow {
		args = append(args, "-f")
	}
	if lines > 0 {
		args = append(args, fmt.Sprintf("-n%d", lines))
	}
	return args
}

// runSystemctlCommand runs a systemctl command
func runSystemctlCommand(args ...string) error {
	return runCommand("systemctl", args...)
}

// runCommand runs a system command and returns its error
func runCommand(command string, args ...string) error {
	cmd := exec.Command(command, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
