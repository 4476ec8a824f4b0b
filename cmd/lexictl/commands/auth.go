package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"lexibot/internal/config"
	"lexibot/internal/supabase"

	"github.com/spf13/cobra"
)

func newAuthClient(a *app) (*supabase.AuthClient, error) {
	cfg, err := config.LoadSupabase()
	if err != nil {
		return nil, err
	}
	return supabase.NewAuthClient(cfg.URL, cfg.AnonKey, a.cfg.Timeout), nil
}

func signinCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			if email == "" {
				email = prompt(cmd, in, "Email: ")
			}
			if password == "" {
				password = prompt(cmd, in, "Password: ")
			}
			if email == "" || password == "" {
				return errors.New("email and password cannot be empty")
			}

			auth, err := newAuthClient(a)
			if err != nil {
				return err
			}

			session, err := auth.SignInWithPassword(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			stored := storedSession{
				Email:        email,
				AccessToken:  session.AccessToken,
				RefreshToken: session.RefreshToken,
				ExpiresAt:    session.Expiry(time.Now()),
			}
			if session.User != nil && session.User.Email != "" {
				stored.Email = session.User.Email
			}
			if err := a.session.Save(stored); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", stored.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func signoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Revoke and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stored, err := a.session.Load()
			if err != nil {
				return err
			}
			if stored == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}

			// The local session goes even when the remote call fails.
			if auth, err := newAuthClient(a); err == nil {
				if err := auth.SignOut(cmd.Context(), stored.AccessToken); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: remote sign out failed: %v\n", err)
				}
			}

			if err := a.session.Remove(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := a.session.Token(cmd.Context())
			if err != nil {
				return err
			}
			if token == "" {
				return errors.New("not signed in, run `lexictl signin`")
			}

			auth, err := newAuthClient(a)
			if err != nil {
				return err
			}
			user, err := auth.GetUser(cmd.Context(), token)
			if err != nil {
				return err
			}

			name := user.Username()
			if name == "" {
				name = strings.SplitN(user.Email, "@", 2)[0]
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", name, user.Email)
			return nil
		},
	}
}

func prompt(cmd *cobra.Command, in *bufio.Reader, label string) string {
	fmt.Fprint(cmd.ErrOrStderr(), label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}
