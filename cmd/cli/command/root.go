package command

// root.go defines the root command of the shohorbari CLI and the helpers
// shared by the subcommands.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"shohorbari/cmd/cli/authentication"
	"shohorbari/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var apiURL string // Global flag for API server URL

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shohorbari",
	Short: "shohorbari - rental marketplace command line interface",
	Long: `shohorbari talks to the rental marketplace API. Use it to:
- sign in and out, tokens are kept in the OS keychain
- review and approve pending advertisements (admins)
- follow rent requests on your advertisements
- watch notifications live

Use "shohorbari command --help" to see all available commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err) // Print error to standard error
		os.Exit(1)
	}
}

func init() {
	defaultURL := os.Getenv("SHOHORBARI_API")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "API server URL")

	rootCmd.AddCommand(authCmd, adsCmd, requestsCmd, statsCmd, notificationsCmd)
}

// GetAuthenticatedClient returns a client carrying the stored access token,
// refreshing the pair first when the access token has expired
func GetAuthenticatedClient(ctx context.Context) (*client.HTTPClient, *authentication.StoredCredentials, error) {
	creds, err := authentication.GetTokens()
	if err != nil {
		return nil, nil, err
	}

	httpClient := client.NewHTTPClient(apiURL)
	if creds.Expired(time.Now()) {
		if creds.RefreshToken == "" {
			return nil, nil, authentication.ErrNotLoggedIn
		}
		pair, err := httpClient.RefreshToken(ctx, creds.RefreshToken)
		if err != nil {
			var apiErr *client.APIError
			if errors.As(err, &apiErr) {
				// the refresh token was used, revoked or is too old
				authentication.DeleteTokens()
				return nil, nil, fmt.Errorf("session expired: %w", authentication.ErrNotLoggedIn)
			}
			return nil, nil, err
		}
		creds = credentialsFrom(pair, creds.Email)
		if err := authentication.StoreTokens(creds); err != nil {
			return nil, nil, fmt.Errorf("store refreshed tokens: %w", err)
		}
	}

	httpClient.SetToken(creds.AccessToken)
	return httpClient, creds, nil
}

func credentialsFrom(pair *client.AuthResponse, email string) *authentication.StoredCredentials {
	return &authentication.StoredCredentials{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Email:        email,
		ExpiresAt:    time.Now().Add(time.Duration(pair.ExpiresIn) * time.Second).Unix(),
	}
}
