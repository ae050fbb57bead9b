package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wedding-rsvp/internal/api"
	"wedding-rsvp/internal/notify"
	"wedding-rsvp/internal/session"
)

func newLoginCmd(a *app) *cobra.Command {
	var user, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store admin credentials after checking them against the backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrompter(os.Stdin, os.Stdout)
			if user == "" {
				user, _ = p.ask("Username: ")
			}
			if password == "" {
				password, _ = p.ask("Password: ")
			}
			if user == "" || password == "" {
				a.center.Error("Enter a username and password")
				return errors.New("missing credentials")
			}

			// the candidate header is probed before anything is stored
			if err := a.client.Health(cmd.Context(), session.BasicHeader(user, password)); err != nil {
				if errors.Is(err, api.ErrUnauthorized) {
					a.center.Error("Invalid credentials")
				} else {
					a.center.Error("Login failed: " + api.Message(err))
				}
				return fmt.Errorf("login failed: %w", err)
			}
			if err := a.session.SetAuth(user, password); err != nil {
				return err
			}
			a.center.Success("Login successful - welcome!")
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "admin username")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored admin credentials",
		RunE: func(*cobra.Command, []string) error {
			if err := a.session.ClearAuth(); err != nil {
				return err
			}
			a.center.Show(notify.KindInfo, "Logged out successfully", notify.DefaultTTL)
			return nil
		},
	}
}
