package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/focusflow/focusflow/internal/cli"
	"github.com/focusflow/focusflow/internal/client"
	"github.com/focusflow/focusflow/internal/tui"
)

var chestCmd = &cobra.Command{
	Use:   "chest",
	Short: "Open loot chests",
	Long: `Open the interactive loot chest view. Each spin costs one chest credit;
credits are earned with productive time.

Examples:
  focusflow chest
  focusflow chest status`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Resolve session configuration
		cfg, err := cli.GetSession(serverURL, token)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		if err := cli.RequireToken(cfg); err != nil {
			return err
		}

		// Create API client
		c := client.NewClient(cfg.BaseURL, cfg.Token)

		return tui.RunChest(c)
	},
}

var chestStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show chest credits and today's unlock progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Resolve session configuration
		cfg, err := cli.GetSession(serverURL, token)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		if err := cli.RequireToken(cfg); err != nil {
			return err
		}

		// Create API client
		c := client.NewClient(cfg.BaseURL, cfg.Token)

		ctx := context.Background()
		user, err := c.Me(ctx)
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		status, err := c.ChestStatus(ctx)
		if err != nil {
			return fmt.Errorf("failed to load chest status: %w", err)
		}

		if !quiet {
			return cli.PrintChestStatus(status, user.ChestCredits, cli.OutputFormat(format))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(chestCmd)
	chestCmd.AddCommand(chestStatusCmd)
}
