package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jlwilt7/lockedin-music/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthSignUp creates a new account and persists the resulting session.
func (r *Runner) AuthSignUp(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")
	name := cmd.String("name")

	r.logger.Info("creating account", "email", email)

	session, err := r.auth.SignUp(ctx, email, password, name)
	if err != nil {
		return fmt.Errorf("sign up failed: %w", err)
	}

	r.writePlain("✓ Account created\n")
	r.writePlain("Signed in as %s (%s)\n", session.DisplayName, session.Email)
	return nil
}

// AuthLogin signs in with the password grant and persists the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	r.logger.Info("signing in", "email", email)

	session, err := r.auth.SignIn(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	r.writePlain("✓ Signed in as %s\n", session.Email)
	return nil
}

// AuthLogout revokes the session and removes the saved session file.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.auth.LoadSession(); err != nil {
		if errors.Is(err, shared.ErrNoSession) {
			r.writePlain("Not signed in\n")
			return nil
		}
		return err
	}

	if err := r.auth.SignOut(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	r.writePlain("✓ Signed out\n")
	return nil
}

// AuthStatus reports the saved session state, refreshing an expired token.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	session, err := r.auth.LoadSession()
	if err != nil {
		if errors.Is(err, shared.ErrNoSession) {
			r.writePlain("Not signed in\n")
			return nil
		}
		return err
	}

	if r.auth.OwnerID() == "" {
		r.logger.Debug("saved token expired, attempting refresh")
		if session, err = r.auth.Refresh(ctx); err != nil {
			r.writePlain("Session expired; run 'lockedin auth login'\n")
			return nil
		}
	}

	r.writePlain("Signed in as: %s\n", session.Email)
	if session.DisplayName != "" {
		r.writePlain("Display name: %s\n", session.DisplayName)
	}
	r.writePlain("User ID: %s\n", session.UserID)
	r.writePlain("Token expires: %s\n", session.Token.Expiry.Format("2006-01-02 15:04:05"))
	return nil
}
