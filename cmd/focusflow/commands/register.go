package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/focusflow/focusflow/internal/cli"
	"github.com/focusflow/focusflow/internal/client"
)

var (
	registerName     string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register <email>",
	Short: "Create an account",
	Long: `Create a FocusFlow account and store the session token in
~/.focusflow/config.yaml.

The password is prompted for when --password is not given.

Examples:
  focusflow register alice@example.com --name Alice
  focusflow register alice@example.com --name Alice --password hunter22`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := args[0]

		// Resolve session configuration
		cfg, err := cli.GetSession(serverURL, token)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		password := registerPassword
		if password == "" {
			password, err = promptPassword("Password: ")
			if err != nil {
				return err
			}
		}

		// Create API client
		c := client.NewClient(cfg.BaseURL, "")

		ctx := context.Background()
		session, err := c.Register(ctx, email, registerName, password)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		cfg.Email = session.User.Email
		cfg.Token = session.Token
		if err := cli.SaveConfig(cfg); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}

		if !quiet {
			fmt.Printf("Welcome, %s! You are logged in as %s\n", session.User.Name, session.User.Email)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().StringVar(&registerName, "name", "", "Display name")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Password (prompted when omitted)")
	_ = registerCmd.MarkFlagRequired("name")
}
