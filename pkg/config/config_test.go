package config

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "./data/pokemon.csv", config.CSVPath)
	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, "127.0.0.1", config.Bind)
	assert.Empty(t, config.Security.APIKey)
	assert.Empty(t, config.Security.JWTSecret)
	assert.Equal(t, "pokecsv", config.Security.Issuer)
	assert.Equal(t, 60, config.Security.TokenTTLMinutes)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "json", config.Logging.Format)
	assert.NoError(t, config.Validate())
	assert.Equal(t, "127.0.0.1:8080", config.Addr())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "missing csv path", mutate: func(c *Config) { c.CSVPath = "" }, wantErr: "csv_path is required"},
		{name: "port zero", mutate: func(c *Config) { c.Port = 0 }, wantErr: "port must be between"},
		{name: "port too large", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "port must be between"},
		{name: "negative ttl", mutate: func(c *Config) { c.Security.TokenTTLMinutes = -1 }, wantErr: "token_ttl_minutes"},
		{name: "short jwt secret", mutate: func(c *Config) { c.Security.JWTSecret = "short" }, wantErr: "jwt_secret"},
		{name: "unknown log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "unknown logging format"},
		{name: "console format", mutate: func(c *Config) { c.Logging.Format = "console" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerateSecureKey(t *testing.T) {
	t.Run("generate 32 byte key", func(t *testing.T) {
		key, err := GenerateSecureKey(32)
		require.NoError(t, err)
		assert.Len(t, key, 64) // 32 bytes = 64 hex characters

		_, err = hex.DecodeString(key)
		assert.NoError(t, err)
	})

	t.Run("generate different keys", func(t *testing.T) {
		key1, err := GenerateSecureKey(16)
		require.NoError(t, err)
		key2, err := GenerateSecureKey(16)
		require.NoError(t, err)

		assert.NotEqual(t, key1, key2)
	})

	t.Run("zero length", func(t *testing.T) {
		key, err := GenerateSecureKey(0)
		require.NoError(t, err)
		assert.Empty(t, key)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		expectedConfig := &Config{
			CSVPath: "/custom/pokemon.csv",
			Port:    9000,
			Bind:    "0.0.0.0",
			Security: Security{
				APIKey:          "test-api-key",
				JWTSecret:       "test-jwt-secret-value",
				Issuer:          "test-issuer",
				Audience:        "test-audience",
				TokenTTLMinutes: 15,
			},
			Logging: Logging{
				Level:  "debug",
				Format: "console",
			},
		}

		err := SaveConfig(expectedConfig, configPath)
		require.NoError(t, err)

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, expectedConfig, loadedConfig)
	})

	t.Run("missing fields keep defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "partial.yaml")
		err := os.WriteFile(configPath, []byte("csv_path: /srv/pokemon.csv\nport: 9090\n"), 0644)
		require.NoError(t, err)

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, "/srv/pokemon.csv", loadedConfig.CSVPath)
		assert.Equal(t, 9090, loadedConfig.Port)
		assert.Equal(t, "127.0.0.1", loadedConfig.Bind)
		assert.Equal(t, 60, loadedConfig.Security.TokenTTLMinutes)
		assert.Equal(t, "info", loadedConfig.Logging.Level)
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := LoadConfig("/non/existent/config.yaml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "config file does not exist")
	})

	t.Run("load invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "invalid.yaml")
		err := os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0644)
		require.NoError(t, err)

		_, err = LoadConfig(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestSaveConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")
	config := DefaultConfig()

	err := SaveConfig(config, configPath)
	require.NoError(t, err)

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loadedConfig, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loadedConfig)
}

func TestBootstrapConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	csvPath := "/custom/data/pokemon.csv"

	config, err := BootstrapConfig(configPath, csvPath)
	require.NoError(t, err)

	assert.Equal(t, csvPath, config.CSVPath)
	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, "127.0.0.1", config.Bind)
	assert.Equal(t, "info", config.Logging.Level)

	assert.Len(t, config.Security.APIKey, 64)
	assert.Len(t, config.Security.JWTSecret, 64)
	assert.NotEqual(t, config.Security.APIKey, config.Security.JWTSecret)

	_, err = hex.DecodeString(config.Security.APIKey)
	assert.NoError(t, err)
	_, err = hex.DecodeString(config.Security.JWTSecret)
	assert.NoError(t, err)

	assert.True(t, ConfigExists(configPath))
	assert.NoError(t, config.Validate())

	loadedConfig, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loadedConfig)
}

func TestBootstrapConfigKeepsDefaultCSVPath(t *testing.T) {
	config, err := BootstrapConfig(filepath.Join(t.TempDir(), "config.yaml"), "")
	require.NoError(t, err)
	assert.Equal(t, "./data/pokemon.csv", config.CSVPath)
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, "pokecsv")
	assert.Contains(t, path, ".yaml")
}

func TestConfigExists(t *testing.T) {
	tmpDir := t.TempDir()

	existingPath := filepath.Join(tmpDir, "exists.yaml")
	nonExistentPath := filepath.Join(tmpDir, "does-not-exist.yaml")

	err := os.WriteFile(existingPath, []byte("test"), 0644)
	require.NoError(t, err)

	assert.True(t, ConfigExists(existingPath))
	assert.False(t, ConfigExists(nonExistentPath))
}

func TestConfigYAMLMarshalling(t *testing.T) {
	config := &Config{
		CSVPath: "/test/pokemon.csv",
		Port:    9999,
		Bind:    "localhost",
		Security: Security{
			APIKey:          "api-key-456",
			JWTSecret:       "jwt-secret-789",
			TokenTTLMinutes: 5,
		},
		Logging: Logging{
			Level: "warn",
		},
	}

	data, err := yaml.Marshal(config)
	require.NoError(t, err)
	assert.Contains(t, string(data), "csv_path: /test/pokemon.csv")
	assert.Contains(t, string(data), "token_ttl_minutes: 5")

	var unmarshalled Config
	err = yaml.Unmarshal(data, &unmarshalled)
	require.NoError(t, err)

	assert.Equal(t, config, &unmarshalled)
}

func TestSaveConfigErrorHandling(t *testing.T) {
	config := DefaultConfig()

	// A regular file where the directory should be
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := SaveConfig(config, filepath.Join(blocker, "config.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create config directory")
}
