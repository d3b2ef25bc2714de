package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/focusflow/focusflow/internal/cli"
	"github.com/focusflow/focusflow/internal/client"
)

var recapCmd = &cobra.Command{
	Use:   "recap",
	Short: "Show the weekly recap",
	Long: `Show the recap for the current week: totals, trend against the previous
week, the best day, and any badges earned.

Examples:
  focusflow recap
  focusflow recap --format yaml`,
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
		recap, err := c.GetWeeklyRecap(ctx)
		if err != nil {
			return fmt.Errorf("failed to load weekly recap: %w", err)
		}

		if !quiet {
			return cli.PrintRecap(recap, cli.OutputFormat(format))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(recapCmd)
}
