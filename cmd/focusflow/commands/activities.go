package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/focusflow/focusflow/internal/cli"
	"github.com/focusflow/focusflow/internal/client"
)

var (
	activitiesDate  string
	activitiesLimit int
)

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "List logged activities",
	Long: `List activities for a day, newest first.

Examples:
  focusflow activities
  focusflow activities --date 2026-08-20
  focusflow activities --limit 5 --format json`,
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
		page, err := c.Activities(ctx, activitiesDate, activitiesLimit)
		if err != nil {
			return fmt.Errorf("failed to list activities: %w", err)
		}

		if !quiet {
			return cli.PrintActivities(page.Activities, cli.OutputFormat(format))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(activitiesCmd)

	activitiesCmd.Flags().StringVar(&activitiesDate, "date", "", "Day to list (YYYY-MM-DD, default today)")
	activitiesCmd.Flags().IntVar(&activitiesLimit, "limit", 0, "Maximum number of activities (0 for all)")
}
