// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/taibuivan/dvfmap/internal/client/session"
)

func newLoginCommand(env *environment) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := env.app.Session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", displayName(state))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newRegisterCommand(env *environment) *cobra.Command {
	var registration session.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := env.app.Session.Register(cmd.Context(), registration)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account created, signed in as %s\n", displayName(state))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&registration.Email, "email", "", "account email")
	flags.StringVar(&registration.Password, "password", "", "password")
	flags.StringVar(&registration.ConfirmPassword, "confirm", "", "password again")
	flags.StringVar(&registration.FirstName, "first-name", "", "first name (optional)")
	flags.StringVar(&registration.LastName, "last-name", "", "last name (optional)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("confirm")

	return cmd
}

func newLogoutCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the token and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := env.app.Session.Revoke(cmd.Context()); err != nil {
				// Local credentials are gone either way.
				env.logger.Warn("remote_logout_failed", slog.Any("error", err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func newProfileCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env.restore(cmd.Context())
			if !env.app.Session.IsAuthenticated() {
				return fmt.Errorf("not signed in")
			}

			user, err := env.app.Session.Profile(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:         %s\n", user.ID)
			fmt.Fprintf(out, "email:      %s\n", user.Email)
			if user.FirstName != "" || user.LastName != "" {
				fmt.Fprintf(out, "name:       %s %s\n", user.FirstName, user.LastName)
			}
			if user.CreatedAt != nil {
				fmt.Fprintf(out, "created at: %s\n", user.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func displayName(state *session.State) string {
	if state == nil || state.User == nil {
		return "unknown user"
	}
	if state.User.FirstName != "" {
		return fmt.Sprintf("%s %s <%s>", state.User.FirstName, state.User.LastName, state.User.Email)
	}
	return state.User.Email
}
