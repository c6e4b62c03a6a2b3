package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/recallhq/recall-cli/credentials"
)

// Auth command flags.
var (
	authToken          string
	authUserID         string
	authServer         string
	authNonInteractive bool
)

// AuthCmd represents the auth command group.
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long: `Manage authentication credentials for the recording service.

Credentials are stored in ~/.recall/credentials.yaml with the token
encrypted at rest. The encryption key lives in the system keyring.

Environment variables take precedence over stored credentials:
  RECALL_TOKEN    API bearer token
  RECALL_USER_ID  User identifier used as the sync key`,
}

// loginCmd handles authentication login.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the recording service",
	Long: `Store credentials for the recording service.

Examples:
  # Interactive login (prompts for token and user ID)
  recall auth login

  # Login with flags
  recall auth login --token eyJhbGciOiJIUzI1NiIs... --user user-42

Notes:
  - The token is stored encrypted at rest
  - Use --non-interactive in scripts to fail instead of prompting`,
	RunE: runLogin,
}

// logoutCmd handles authentication logout.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout and clear stored credentials",
	Long: `Remove stored credentials from the local credential store.

Environment variables (RECALL_TOKEN, RECALL_USER_ID) are not affected.

Examples:
  recall auth logout`,
	RunE: runLogout,
}

// statusCmd shows authentication status.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current authentication status",
	Long: `Display the current authentication status.

Shows the credential source (stored or environment), the masked token,
the user identity, and the token expiry.

Examples:
  recall auth status`,
	RunE: runStatus,
}

func init() {
	loginCmd.Flags().StringVar(&authToken, "token", "", "API bearer token")
	loginCmd.Flags().StringVar(&authUserID, "user", "", "User identifier used as the sync key")
	loginCmd.Flags().StringVar(&authServer, "server", "", "Server address to associate with credentials")
	loginCmd.Flags().BoolVar(&authNonInteractive, "non-interactive", false, "Fail instead of prompting for input")

	AuthCmd.AddCommand(loginCmd)
	AuthCmd.AddCommand(logoutCmd)
	AuthCmd.AddCommand(statusCmd)
}

// runLogin handles the login command.
func runLogin(cmd *cobra.Command, args []string) error {
	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("initializing credential store: %w", err)
	}

	token := authToken
	userID := authUserID

	if token == "" || userID == "" {
		if authNonInteractive {
			return fmt.Errorf("--token and --user are required in non-interactive mode")
		}
		token, userID, err = promptForCredentials(token, userID)
		if err != nil {
			return err
		}
	}

	if token == "" {
		return fmt.Errorf("no token provided")
	}
	if userID == "" {
		return fmt.Errorf("no user identifier provided")
	}

	creds := &credentials.Credentials{
		Token:         token,
		UserID:        userID,
		ServerAddress: authServer,
	}
	if err := store.Save(creds); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}

	fmt.Println("Logged in successfully.")
	fmt.Printf("User: %s\n", userID)
	fmt.Printf("Token: %s\n", credentials.MaskToken(token))
	return nil
}

// promptForCredentials interactively prompts for any missing credential.
func promptForCredentials(token, userID string) (string, string, error) {
	reader := bufio.NewReader(os.Stdin)

	if token == "" {
		fmt.Print("API Token: ")
		tokenBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			// Terminal not available, fall back to regular input
			line, readErr := reader.ReadString('\n')
			if readErr != nil {
				return "", "", fmt.Errorf("reading token: %w", readErr)
			}
			token = strings.TrimSpace(line)
		} else {
			token = strings.TrimSpace(string(tokenBytes))
		}
	}

	if userID == "" {
		fmt.Print("User ID: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("reading user ID: %w", err)
		}
		userID = strings.TrimSpace(line)
	}

	return token, userID, nil
}

// runLogout handles the logout command.
func runLogout(cmd *cobra.Command, args []string) error {
	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("initializing credential store: %w", err)
	}

	if !store.Exists() {
		fmt.Println("No stored credentials found.")
		return nil
	}

	if err := store.Delete(); err != nil {
		return fmt.Errorf("removing credentials: %w", err)
	}

	fmt.Println("Logged out successfully.")

	if os.Getenv("RECALL_TOKEN") != "" {
		fmt.Println("\nNote: RECALL_TOKEN environment variable is still set.")
		fmt.Println("Unset it with: unset RECALL_TOKEN")
	}

	return nil
}

// runStatus handles the status command.
func runStatus(cmd *cobra.Command, args []string) error {
	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("initializing credential store: %w", err)
	}

	fmt.Println("Authentication Status")
	fmt.Println("=====================")

	if os.Getenv("RECALL_TOKEN") != "" {
		fmt.Println("Source: environment (RECALL_TOKEN)")
		fmt.Printf("Token:  %s\n", credentials.MaskToken(os.Getenv("RECALL_TOKEN")))
		if userID := os.Getenv("RECALL_USER_ID"); userID != "" {
			fmt.Printf("User:   %s\n", userID)
		}
		return nil
	}

	creds, err := store.Load()
	if err != nil {
		if err == credentials.ErrNoCredentials {
			fmt.Println("Source: none")
			fmt.Println("\nNot logged in. Run 'recall auth login' to authenticate.")
			return nil
		}
		return fmt.Errorf("loading credentials: %w", err)
	}

	fmt.Println("Source: stored credentials")
	fmt.Printf("Token:  %s\n", credentials.MaskToken(creds.Token))
	fmt.Printf("User:   %s\n", creds.UserID)
	if creds.ServerAddress != "" {
		fmt.Printf("Server: %s\n", creds.ServerAddress)
	}
	fmt.Printf("Expiry: %s\n", credentials.FormatExpiry(creds.ExpiresAt))

	return nil
}
