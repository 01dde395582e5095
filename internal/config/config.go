package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"metricseed/internal/common"
	"metricseed/internal/security"
	"metricseed/pkg/models"
)

// GetConfigPath returns the configuration directory
func GetConfigPath() string {
	if configPath := os.Getenv("METRICSEED_CONFIG"); configPath != "" {
		return filepath.Dir(configPath)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".metricseed")
}

// GetConfigFile returns the configuration file path
func GetConfigFile() string {
	if configFile := os.Getenv("METRICSEED_CONFIG"); configFile != "" {
		cleaned, err := common.CleanPath(configFile)
		if err != nil {
			return filepath.Join(GetConfigPath(), "config.yaml")
		}
		return cleaned
	}
	return filepath.Join(GetConfigPath(), "config.yaml")
}

// Load reads the configuration file. A missing file yields an empty
// config rather than an error so setup can run first.
func Load() (*models.Config, error) {
	configFile := GetConfigFile()

	cleanedPath, err := common.CleanPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("invalid config file path: %w", err)
	}

	if _, err := os.Stat(cleanedPath); os.IsNotExist(err) {
		return &models.Config{}, nil
	}

	data, err := os.ReadFile(cleanedPath) // #nosec G304 - path is validated
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config models.Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}

// Save writes the configuration file with restrictive permissions.
func Save(config *models.Config) error {
	configPath := GetConfigPath()
	if err := os.MkdirAll(configPath, common.DirPermissionNormal); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(GetConfigFile(), data, common.FilePermissionSecure); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Exists reports whether a configuration file is present.
func Exists() bool {
	_, err := os.Stat(GetConfigFile())
	return err == nil
}

// ResolvePassword returns the Snowflake password, pulling it from the
// credential store when the config says it lives there.
func ResolvePassword(cfg *models.Config) (string, error) {
	if !cfg.Snowflake.UseKeyring {
		return cfg.Snowflake.Password, nil
	}

	cm, err := security.NewCredentialManager()
	if err != nil {
		return "", fmt.Errorf("failed to open credential store: %w", err)
	}

	cred, err := cm.GetCredential(security.SnowflakePasswordKey)
	if err != nil {
		return "", fmt.Errorf("failed to read stored password: %w", err)
	}
	return cred.Value, nil
}
