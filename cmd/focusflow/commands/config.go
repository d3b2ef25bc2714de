package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/focusflow/focusflow/internal/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Manage the focusflow CLI configuration file.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long: `Create a default configuration file at ~/.focusflow/config.yaml

Example:
  focusflow config init`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.InitConfig(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		configPath, _ := cli.GetConfigPath()
		fmt.Printf("Configuration file created at: %s\n", configPath)

		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long: `Display the current configuration.

Example:
  focusflow config list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		fmt.Printf("base_url: %s\n", cfg.BaseURL)
		fmt.Printf("email: %s\n", cfg.Email)
		// Mask token for security
		maskedToken := ""
		if len(cfg.Token) > 8 {
			maskedToken = cfg.Token[:8] + "***"
		} else if cfg.Token != "" {
			maskedToken = "***"
		}
		fmt.Printf("token: %s\n", maskedToken)

		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a specific configuration value.

Examples:
  focusflow config get base_url
  focusflow config get email`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		switch args[0] {
		case "base_url":
			fmt.Println(cfg.BaseURL)
		case "email":
			fmt.Println(cfg.Email)
		case "token":
			fmt.Println(cfg.Token)
		default:
			return fmt.Errorf("unknown key '%s', valid keys: base_url, email, token", args[0])
		}

		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a specific configuration value.

Examples:
  focusflow config set base_url http://localhost:5000`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		key := args[0]
		value := args[1]

		switch key {
		case "base_url":
			cfg.BaseURL = value
		case "email":
			cfg.Email = value
		case "token":
			cfg.Token = value
		default:
			return fmt.Errorf("unknown key '%s', valid keys: base_url, email, token", key)
		}

		if err := cli.SaveConfig(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("Successfully set %s\n", key)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
