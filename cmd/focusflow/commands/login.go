package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/focusflow/focusflow/internal/cli"
	"github.com/focusflow/focusflow/internal/client"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in and store the session token",
	Long: `Authenticate against the FocusFlow server and store the session token
in ~/.focusflow/config.yaml for subsequent commands.

The password is prompted for when --password is not given.

Examples:
  focusflow login alice@example.com
  focusflow login demo@focusflow.app --server http://localhost:5000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := args[0]

		// Resolve session configuration
		cfg, err := cli.GetSession(serverURL, token)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		password := loginPassword
		if password == "" {
			password, err = promptPassword("Password: ")
			if err != nil {
				return err
			}
		}

		// Create API client
		c := client.NewClient(cfg.BaseURL, "")

		ctx := context.Background()
		session, err := c.Login(ctx, email, password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		cfg.Email = session.User.Email
		cfg.Token = session.Token
		if err := cli.SaveConfig(cfg); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}

		if !quiet {
			fmt.Printf("Logged in as %s (level %d, %d XP)\n",
				session.User.Email, session.User.Level, session.User.XP)
		}

		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig()
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		cfg.Token = ""
		if err := cli.SaveConfig(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		if !quiet {
			fmt.Println("Logged out")
		}

		return nil
	},
}

// promptPassword reads a password from the terminal without echoing it.
// Falls back to the flag-only path when stdin is not a terminal.
func promptPassword(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("stdin is not a terminal, pass --password instead")
	}

	fmt.Fprint(os.Stderr, label)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(raw), nil
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)

	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password (prompted when omitted)")
}
