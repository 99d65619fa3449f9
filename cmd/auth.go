package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuskit/campusctl/internal/session"
	"github.com/campuskit/campusctl/internal/shared"
	"github.com/urfave/cli/v3"
)

// restoreSession replays persisted state into the controller and reports
// the resulting phase. Running a CLI command counts as completed onboarding.
func (r *Runner) restoreSession() session.Phase {
	phase := r.session.Bootstrap()
	if phase == session.Onboarding {
		phase = r.session.CompleteOnboarding()
	}
	return phase
}

// AuthLogin authenticates against the backend and persists the session token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")
	remember := cmd.Bool("remember")

	r.restoreSession()
	r.logger.Info("authenticating", "email", email)

	sess, err := r.session.Login(ctx, email, password, remember)
	if err != nil {
		var authErr *session.AuthError
		if errors.As(err, &authErr) {
			return fmt.Errorf("%w: %s", shared.ErrAuthFailed, authErr.Reason)
		}
		return err
	}

	r.writePlain("✓ Signed in as %s <%s>\n", sess.User.Name, sess.User.Email)
	if remember {
		r.writePlain("Email remembered for next login\n")
	}
	return nil
}

// AuthLogout clears the persisted token and the client's credentials.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.restoreSession()
	r.session.Logout()
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus reports the phase restored from persisted state.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	phase := r.restoreSession()

	r.writePlain("Phase: %s\n", phase)

	if user := r.session.User(); user != nil {
		r.writePlain("Account: %s <%s>\n", user.Name, user.Email)
	}

	if phase == session.Home {
		r.writePlain("Authentication: ✓ Authenticated\n")
	} else {
		r.writePlain("Authentication: ✗ Not authenticated\n")
	}
	return nil
}

// requireAuth restores the session and fails unless a token was recovered.
func (r *Runner) requireAuth() error {
	if r.restoreSession() != session.Home {
		return fmt.Errorf("%w: run 'campusctl auth login' first", shared.ErrNotAuthenticated)
	}
	return nil
}
