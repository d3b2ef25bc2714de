package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/focusflow/focusflow/internal/cli"
	"github.com/focusflow/focusflow/internal/client"
)

var (
	updateName     string
	updateMinutes  int
	updateCategory string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an activity",
	Long: `Update an existing activity. Only the given flags change; duration and
category edits rescore the activity.

Examples:
  focusflow update 42 --minutes 90
  focusflow update 42 --name "Deep work session" --category Career`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid activity id: %s", args[0])
		}

		// Resolve session configuration
		cfg, err := cli.GetSession(serverURL, token)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		if err := cli.RequireToken(cfg); err != nil {
			return err
		}

		// Only send fields whose flags were set
		var params client.UpdateParams
		if cmd.Flags().Changed("name") {
			params.ActivityName = &updateName
		}
		if cmd.Flags().Changed("minutes") {
			params.DurationMinutes = &updateMinutes
		}
		if cmd.Flags().Changed("category") {
			params.Category = &updateCategory
		}
		if params.ActivityName == nil && params.DurationMinutes == nil && params.Category == nil {
			return fmt.Errorf("nothing to update, pass --name, --minutes, or --category")
		}

		// Create API client
		c := client.NewClient(cfg.BaseURL, cfg.Token)

		ctx := context.Background()
		activity, err := c.UpdateActivity(ctx, id, params)
		if err != nil {
			return fmt.Errorf("failed to update activity: %w", err)
		}

		if !quiet {
			fmt.Printf("Updated: %s (%s, %d min, score %.1f)\n",
				activity.Name, activity.Category, activity.DurationMinutes, activity.ProductivityScore)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().StringVar(&updateName, "name", "", "New activity name")
	updateCmd.Flags().IntVar(&updateMinutes, "minutes", 0, "New duration in minutes")
	updateCmd.Flags().StringVar(&updateCategory, "category", "", "New category (Career, Health, Social, Chores, Leisure)")
}
