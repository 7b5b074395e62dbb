package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/dmitrijs2005/useradmin/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errEmptyCredentials = errors.New("email and password are required")

// Login prompts for credentials and authenticates through the AuthService.
// On success the users view is mounted and its first page loaded; on
// failure the error has already been reported as a notification and the
// login view stays.
//
// The password bytes are wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if email == "" || len(password) == 0 {
		fmt.Fprintln(a.out, "Email and password are required")
		return errEmptyCredentials
	}

	creds := models.Credentials{Email: email, Password: string(password)}
	if err := a.authService.Login(ctx, creds); err != nil {
		return err
	}

	a.route(ctx)
	return nil
}

// Logout drops the session and routes back to the login view.
func (a *App) Logout(ctx context.Context) error {
	err := a.authService.Logout(ctx)
	a.route(ctx)
	return err
}
