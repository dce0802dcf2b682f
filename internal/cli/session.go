package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	jerrors "github.com/tessro/jukebar/internal/errors"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the server session",
	Long:  `Commands for keeping the server login session alive.`,
}

var sessionExtendCmd = &cobra.Command{
	Use:   "extend",
	Short: "Keep the session signed in",
	Long: `Refresh the server session's activity timer, as the "keep me
signed in" button does. An expired session is dropped.`,
	Args: cobra.NoArgs,
	RunE: runSessionExtend,
}

func init() {
	sessionCmd.AddCommand(sessionExtendCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionExtend(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	if !client.IsAuthenticated() {
		return jerrors.ErrUnauthorized
	}

	if err := client.ExtendSession(cmd.Context()); err != nil {
		if errors.Is(err, jerrors.ErrUnauthorized) {
			if lerr := client.Logout(); lerr != nil {
				logger.Warn().Err(lerr).Msg("failed to drop expired session")
			}
			return jerrors.WithSuggestion(fmt.Errorf("session expired: %w", err), "Run 'jukebar auth login' to sign in again")
		}
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]any{"status": "extended", "timeout_minutes": cfg.Session.Timeout})
	}
	fmt.Printf("✓ Session extended for %d minutes\n", cfg.Session.Timeout)
	return nil
}
