package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/focusflow/focusflow/internal/cli"
	"github.com/focusflow/focusflow/internal/client"
)

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Show your item collection",
	Long: `Show every catalog item with what you own, including duplicates and
broken items.

Examples:
  focusflow collection
  focusflow collection --format json`,
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
		collection, err := c.GetCollection(ctx)
		if err != nil {
			return fmt.Errorf("failed to load collection: %w", err)
		}

		if !quiet {
			return cli.PrintCollection(collection, cli.OutputFormat(format))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(collectionCmd)
}
