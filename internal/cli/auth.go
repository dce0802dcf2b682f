package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	jerrors "github.com/tessro/jukebar/internal/errors"
	"github.com/tessro/jukebar/internal/wizard"
)

var authEmail string

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage server login",
	Long:  `Commands for signing in to the music server.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the server",
	Long: `Sign in with your email and password. The session cookie is stored
locally (owner-only permissions) and replayed on later runs.

The password is read from JUKEBAR_PASSWORD when set, otherwise prompted for.`,
	Args: cobra.NoArgs,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session",
	Long:  `Removes the stored session cookie from the local machine.`,
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show login status",
	Long:  `Shows whether a session is stored and who it belongs to.`,
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

func init() {
	authLoginCmd.Flags().StringVarP(&authEmail, "email", "e", "", "account email")
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	creds := wizard.Credentials{Email: authEmail, Password: os.Getenv("JUKEBAR_PASSWORD")}
	if creds.Email == "" || creds.Password == "" {
		if !isInteractive() {
			return jerrors.WithSuggestion(jerrors.Validation("email and password are required"),
				"Pass --email and set JUKEBAR_PASSWORD, or run in a terminal")
		}
		if creds, err = wizard.Login(creds.Email); err != nil {
			return err
		}
	}

	if err := client.Login(cmd.Context(), creds.Email, creds.Password); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "authenticated", "email": creds.Email})
	}
	fmt.Printf("Signed in as %s\n", creds.Email)
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	client, sessions, err := newClient()
	if err != nil {
		return err
	}

	if !sessions.Exists() {
		return report("not_authenticated", "Not signed in.")
	}
	if err := client.Logout(); err != nil {
		return err
	}
	return report("logged_out", "Signed out.")
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	_, sessions, err := newClient()
	if err != nil {
		return err
	}

	sess, err := sessions.Load()
	if err != nil {
		return err
	}

	if sess == nil {
		if JSONOutput() {
			return printJSON(map[string]any{"authenticated": false})
		}
		fmt.Println("Not signed in.")
		fmt.Println("Run 'jukebar auth login' to sign in.")
		return nil
	}

	if JSONOutput() {
		return printJSON(map[string]any{
			"authenticated": true,
			"email":         sess.Email,
			"signed_in_at":  sess.CreatedAt,
			"session_file":  sessions.Path(),
		})
	}

	who := sess.Email
	if who == "" {
		who = "unknown account"
	}
	fmt.Printf("Signed in as: %s\n", who)
	if !sess.CreatedAt.IsZero() {
		fmt.Printf("Session saved: %s\n", humanize.RelTime(sess.CreatedAt, time.Now(), "ago", "from now"))
	}
	if Verbose() {
		fmt.Printf("Session file: %s\n", sessions.Path())
	}
	return nil
}
