package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/focusflow/focusflow/internal/cli"
	"github.com/focusflow/focusflow/internal/client"
	"github.com/focusflow/focusflow/internal/tui"
)

var (
	dashboardDate  string
	dashboardPlain bool
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the daily dashboard",
	Long: `Show the daily dashboard: level, XP progress, daily score, streak, and
the per-category breakdown.

By default this opens an interactive view for today. Use --plain (implied
by --date) for script-friendly output honoring --format.

Examples:
  focusflow dashboard
  focusflow dashboard --plain --format json
  focusflow dashboard --date 2026-08-20`,
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

		plain := dashboardPlain || dashboardDate != ""
		if !plain {
			return tui.RunDashboard(c)
		}

		// tz_offset uses the JS getTimezoneOffset convention: minutes west of UTC
		_, offsetSeconds := time.Now().Zone()

		ctx := context.Background()
		dashboard, err := c.GetDashboard(ctx, dashboardDate, -offsetSeconds/60)
		if err != nil {
			return fmt.Errorf("failed to load dashboard: %w", err)
		}

		if !quiet {
			return cli.PrintDashboard(dashboard, cli.OutputFormat(format))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)

	dashboardCmd.Flags().StringVar(&dashboardDate, "date", "", "Day to show (YYYY-MM-DD, default today)")
	dashboardCmd.Flags().BoolVar(&dashboardPlain, "plain", false, "Print instead of opening the interactive view")
}
