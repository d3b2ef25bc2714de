package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/focusflow/focusflow/internal/cli"
	"github.com/focusflow/focusflow/internal/client"
)

var repairCmd = &cobra.Command{
	Use:   "repair <owned-item-id>",
	Short: "Repair a broken item",
	Long: `Repair a broken collection item by spending 5 chest credits. The id is
the owned-item id shown by 'focusflow collection' next to broken items.

Examples:
  focusflow repair 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid item id: %s", args[0])
		}

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
		result, err := c.RepairItem(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to repair item: %w", err)
		}

		if !quiet {
			fmt.Println(result.Message)
			fmt.Printf("Spent %d credits, %d remaining\n", result.CreditsSpent, result.RemainingCredits)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(repairCmd)
}
