package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/campushire/internal/client/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// report prints the user-facing message for err and returns err.
func (a *App) report(err error) error {
	fmt.Fprintln(a.out, services.AuthMessage(err))
	return err
}

// Register prompts for an email and a confirmed password and creates the
// account. The new user is signed in on success.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	confirm, err := getPassword(a.out, "Confirm password")
	if err != nil {
		return err
	}

	if err := a.authService.SignUp(ctx, email, password, confirm); err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.out, "Account created, signed in as %s\n", a.currentEmail())
	return nil
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}

	if err := a.authService.SignIn(ctx, email, password); err != nil {
		a.logger.Debug(ctx, "login unsuccessful", "error", err)
		return a.report(err)
	}

	a.setMode(ModeOnline)
	fmt.Fprintf(a.out, "Signed in as %s\n", a.currentEmail())
	return nil
}

// Logout signs out. The local session is gone even when the server could not
// be told.
func (a *App) Logout(ctx context.Context) error {
	err := a.authService.SignOut(ctx)
	if err != nil {
		a.logger.Warn(ctx, "sign out", "error", err)
	}
	fmt.Fprintln(a.out, "Signed out")
	return err
}

// Reset sends a password reset code and, when the user has one at hand,
// sets a new password with it.
func (a *App) Reset(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if err := a.authService.SendPasswordReset(ctx, email); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Password reset email sent. Check your inbox.")

	code, err := getSimpleText(a.reader, "Enter reset code (empty to finish later)", a.out)
	if err != nil || code == "" {
		return err
	}
	password, err := getPassword(a.out, "Enter new password")
	if err != nil {
		return err
	}
	confirm, err := getPassword(a.out, "Confirm new password")
	if err != nil {
		return err
	}

	if err := a.authService.ResetPassword(ctx, code, password, confirm); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Password updated, you can login now")
	return nil
}
