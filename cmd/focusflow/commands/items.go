package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/focusflow/focusflow/internal/cli"
	"github.com/focusflow/focusflow/internal/client"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List the loot item catalog",
	Long: `List every item that can drop from a chest, with its rarity.

Examples:
  focusflow items
  focusflow items --format yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Resolve session configuration
		cfg, err := cli.GetSession(serverURL, token)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		// Create API client
		c := client.NewClient(cfg.BaseURL, cfg.Token)

		ctx := context.Background()
		items, err := c.Catalog(ctx)
		if err != nil {
			return fmt.Errorf("failed to load item catalog: %w", err)
		}

		if !quiet {
			return cli.PrintItems(items, cli.OutputFormat(format))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(itemsCmd)
}
