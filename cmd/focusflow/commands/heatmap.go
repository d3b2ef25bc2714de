package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/focusflow/focusflow/internal/cli"
	"github.com/focusflow/focusflow/internal/client"
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Show the last year of activity",
	Long: `Show a day-by-day activity heatmap for the last 365 days. The table
form lists only days with activity; json and yaml include every day.

Examples:
  focusflow heatmap
  focusflow heatmap --format json`,
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

		_, offsetSeconds := time.Now().Zone()

		ctx := context.Background()
		heatmap, err := c.GetHeatmap(ctx, -offsetSeconds/60)
		if err != nil {
			return fmt.Errorf("failed to load heatmap: %w", err)
		}

		if !quiet {
			return cli.PrintHeatmap(heatmap, cli.OutputFormat(format))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(heatmapCmd)
}
