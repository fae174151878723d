package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/larshagen/calchat/internal/config"
	"github.com/larshagen/calchat/internal/google"
)

func newAuthCmd() *cobra.Command {
	var authCode string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate a Google account",
		Long: `Authenticate a Google account for calendar access.

Run without arguments to print the authorization URL. Open it in a browser,
approve access, then run again with --code to store the token:

  calchat auth
  calchat auth --code <authorization-code>

The account name is taken from CALCHAT_ACCOUNT (default: 'default').`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			applyGoogleConfig(cfg)

			if authCode == "" {
				fmt.Println("Open the following URL in your browser and approve access:")
				fmt.Println()
				fmt.Println(google.GetAuthURLForAccount(cfg.Account))
				fmt.Println()
				fmt.Println("Then run: calchat auth --code <authorization-code>")
				return nil
			}

			if err := google.SaveTokenForAccount(context.Background(), cfg.Account, authCode); err != nil {
				return fmt.Errorf("failed to save token for account %s: %w", cfg.Account, err)
			}
			fmt.Printf("Token stored for account %q.\n", cfg.Account)
			return nil
		},
	}

	cmd.Flags().StringVar(&authCode, "code", "", "Authorization code from the Google consent page")
	return cmd
}
