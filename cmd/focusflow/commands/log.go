package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/focusflow/focusflow/internal/cli"
	"github.com/focusflow/focusflow/internal/client"
)

var (
	logHour   int
	logSource string
)

var logCmd = &cobra.Command{
	Use:   "log <text>",
	Short: "Log an activity in plain language",
	Long: `Log an activity described in plain language. The server parses the text
into a named, categorized activity with a duration and productivity score,
then awards XP, streaks, and chest credits.

Examples:
  focusflow log "Worked on the quarterly report for 2 hours"
  focusflow log "30 min run in the park"
  focusflow log "Read a book before bed" --hour 21`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := args[0]

		// Resolve session configuration
		cfg, err := cli.GetSession(serverURL, token)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		if err := cli.RequireToken(cfg); err != nil {
			return err
		}

		hour := logHour
		if hour < 0 {
			hour = time.Now().Hour()
		}

		// Create API client
		c := client.NewClient(cfg.BaseURL, cfg.Token)

		ctx := context.Background()
		result, err := c.LogActivity(ctx, client.LogParams{
			Text:      text,
			LocalHour: hour,
			Source:    logSource,
		})
		if err != nil {
			return fmt.Errorf("failed to log activity: %w", err)
		}

		if quiet {
			return nil
		}

		activity := result.Activity
		fmt.Printf("Logged: %s (%s, %d min, score %.1f)\n",
			activity.Name, activity.Category, activity.DurationMinutes, activity.ProductivityScore)

		fmt.Printf("+%d XP", result.Gamification.XPAwarded)
		if result.CreditsEarned > 0 {
			fmt.Printf(", +%d chest credit(s)", result.CreditsEarned)
		}
		fmt.Println()

		if result.Gamification.LeveledUp {
			fmt.Printf("Level up! You reached level %d\n", result.Gamification.NewLevel)
		}
		for _, badge := range result.Gamification.NewBadges {
			fmt.Printf("Badge earned: %s %s\n", badge.Name, badge.Description)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().IntVar(&logHour, "hour", -1, "Local hour of day 0-23 (default: current hour)")
	logCmd.Flags().StringVar(&logSource, "source", "", "Activity source (manual, google_calendar, apple_health, api)")
}
