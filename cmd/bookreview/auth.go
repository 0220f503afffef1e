package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SuwethaV/bookreview/internal/client/state"
)

type credentials struct {
	name     string
	email    string
	password string
}

func newLoginCmd(a *app) *cobra.Command {
	var c credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.login(cmd.Context(), c)
		},
	}
	cmd.Flags().StringVar(&c.email, "email", "", "account email")
	return cmd
}

func newSignupCmd(a *app) *cobra.Command {
	var c credentials
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.signup(cmd.Context(), c)
		},
	}
	cmd.Flags().StringVar(&c.name, "name", "", "display name")
	cmd.Flags().StringVar(&c.email, "email", "", "account email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and revoke the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.logout(cmd.Context())
		},
	}
}

func (a *app) login(ctx context.Context, c credentials) error {
	a.store.SetCurrentPage(state.PageLogin)
	if err := a.promptIfEmpty(&c.email, "Email: "); err != nil {
		return err
	}
	password, err := a.readPassword("Password: ")
	if err != nil {
		return err
	}
	if c.email == "" || password == "" {
		return errors.New("email and password are required")
	}

	sess, err := a.client.Login(ctx, c.email, password)
	if err != nil {
		return err
	}
	a.store.Login(*sess)
	fmt.Fprintf(a.out, "Welcome back, %s!\n", sess.User.Name)
	return nil
}

func (a *app) signup(ctx context.Context, c credentials) error {
	a.store.SetCurrentPage(state.PageSignup)
	if err := a.promptIfEmpty(&c.name, "Name: "); err != nil {
		return err
	}
	if err := a.promptIfEmpty(&c.email, "Email: "); err != nil {
		return err
	}
	password, err := a.readPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := a.readPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if c.name == "" || c.email == "" || password == "" {
		return errors.New("name, email and password are required")
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	sess, err := a.client.Register(ctx, c.name, c.email, password)
	if err != nil {
		return err
	}
	a.store.Signup(*sess)
	fmt.Fprintf(a.out, "Welcome, %s! Your account is ready.\n", sess.User.Name)
	return nil
}

// logout always clears the local session, even when the server call fails.
func (a *app) logout(ctx context.Context) error {
	if a.store.User() == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	if err := a.client.Logout(ctx); err != nil {
		logrus.WithError(err).Warn("server logout failed, clearing local session anyway")
	}
	a.client.SetToken("")
	a.store.Logout()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}
