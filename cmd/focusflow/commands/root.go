package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	serverURL string
	token     string
	format    string
	quiet     bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "focusflow",
	Short: "Gamified productivity tracking from the terminal",
	Long: `FocusFlow is a productivity tracker that turns focused work into a game.

Describe what you did in plain language and the server parses it into a
categorized, scored activity. Productive time earns XP, levels, streaks,
and chest credits you can spend on loot chest spins.

Examples:
  focusflow register alice@example.com --name Alice
  focusflow log "Worked on the quarterly report for 2 hours"
  focusflow dashboard
  focusflow chest
  focusflow collection --format json

Session state lives in ~/.focusflow/config.yaml and is written by
'focusflow login'. The FOCUSFLOW_BASE_URL and FOCUSFLOW_TOKEN environment
variables override the file, and flags override both.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Base URL of the FocusFlow API")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Session token (overrides stored login)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "table", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress output")
}
