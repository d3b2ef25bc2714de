// Package cli provides configuration and output helpers for the focusflow CLI.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is used when no flag, environment variable, or config file
// names a server.
const DefaultBaseURL = "http://localhost:5000"

// Config represents the CLI configuration stored at ~/.focusflow/config.yaml.
// The session token is written by `focusflow login` and `focusflow register`.
type Config struct {
	BaseURL string `yaml:"base_url"`
	Email   string `yaml:"email,omitempty"`
	Token   string `yaml:"token,omitempty"`
}

// GetConfigPath returns the path to the configuration file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".focusflow", "config.yaml"), nil
}

// LoadConfig loads configuration from ~/.focusflow/config.yaml.
// Returns a default config if the file doesn't exist.
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return default config if file doesn't exist
			return &Config{BaseURL: DefaultBaseURL}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	return &cfg, nil
}

// SaveConfig saves configuration to ~/.focusflow/config.yaml
func SaveConfig(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetSession resolves the effective server address and session token.
// Priority: command-line flags > environment variables > config file
func GetSession(baseURLFlag, tokenFlag string) (*Config, error) {
	// Start with config file values
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	// Environment variables override the file
	if v := os.Getenv("FOCUSFLOW_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("FOCUSFLOW_TOKEN"); v != "" {
		cfg.Token = v
	}

	// Command-line flags have the highest priority
	if baseURLFlag != "" {
		cfg.BaseURL = baseURLFlag
	}
	if tokenFlag != "" {
		cfg.Token = tokenFlag
	}

	return cfg, nil
}

// RequireToken returns an error when no session token is configured.
// Commands that hit authenticated endpoints call this before the request
// so the user gets a hint instead of a bare 401.
func RequireToken(cfg *Config) error {
	if cfg.Token == "" {
		return fmt.Errorf("not logged in, run 'focusflow login <email>' first")
	}
	return nil
}

// InitConfig creates a default configuration file if it doesn't exist
func InitConfig() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	return SaveConfig(&Config{BaseURL: DefaultBaseURL})
}
