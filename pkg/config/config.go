/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the pokecsv configuration
type Config struct {
	CSVPath  string   `yaml:"csv_path"`
	Port     int      `yaml:"port"`
	Bind     string   `yaml:"bind"`
	Security Security `yaml:"security"`
	Logging  Logging  `yaml:"logging"`
}

// Security contains security-related configuration
type Security struct {
	APIKey          string `yaml:"api_key"`
	JWTSecret       string `yaml:"jwt_secret"`
	Issuer          string `yaml:"issuer"`
	Audience        string `yaml:"audience"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		CSVPath: "./data/pokemon.csv",
		Port:    8080,
		Bind:    "127.0.0.1",
		Security: Security{
			Issuer:          "pokecsv",
			Audience:        "pokecsv",
			TokenTTLMinutes: 60,
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks that the configuration can be served
func (c *Config) Validate() error {
	if c.CSVPath == "" {
		return fmt.Errorf("csv_path is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.Security.TokenTTLMinutes < 0 {
		return fmt.Errorf("token_ttl_minutes can't be negative")
	}
	if c.Security.JWTSecret != "" && len(c.Security.JWTSecret) < 12 {
		return fmt.Errorf("jwt_secret must be at least 12 characters")
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("unknown logging format %q", c.Logging.Format)
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}

// LoadConfig loads configuration from the specified path. Missing fields keep
// their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Keys live in this file
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig creates a new configuration with generated keys and saves it
func BootstrapConfig(configPath string, csvPath string) (*Config, error) {
	config := DefaultConfig()
	if csvPath != "" {
		config.CSVPath = csvPath
	}

	apiKey, err := GenerateSecureKey(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate api key: %w", err)
	}
	config.Security.APIKey = apiKey

	jwtSecret, err := GenerateSecureKey(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate jwt secret: %w", err)
	}
	config.Security.JWTSecret = jwtSecret

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./pokecsv.yaml"
	}

	// For Linux/macOS, use ~/.config/pokecsv/config.yaml
	configDir := filepath.Join(homeDir, ".config", "pokecsv")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
