package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/focusflow/focusflow/internal/cli"
	"github.com/focusflow/focusflow/internal/client"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an activity",
	Long: `Delete a logged activity by id.

Examples:
  focusflow delete 42
  focusflow delete 42 --force`,
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

		// Confirm deletion unless --force
		if !deleteForce && !quiet {
			fmt.Printf("Delete activity %d? (y/N): ", id)
			reader := bufio.NewReader(os.Stdin)
			response, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read confirmation: %w", err)
			}
			response = strings.ToLower(strings.TrimSpace(response))
			if response != "y" && response != "yes" {
				fmt.Println("Deletion cancelled")
				return nil
			}
		}

		// Create API client
		c := client.NewClient(cfg.BaseURL, cfg.Token)

		ctx := context.Background()
		if err := c.DeleteActivity(ctx, id); err != nil {
			return fmt.Errorf("failed to delete activity: %w", err)
		}

		if !quiet {
			fmt.Printf("Deleted activity %d\n", id)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "Skip confirmation prompt")
}
