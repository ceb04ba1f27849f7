package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/penguintracker/internal/client/models"
	"github.com/dmitrijs2005/penguintracker/internal/common"
)

// Register asks for name, email and password (twice), checks the form and
// creates the account. A successful registration also logs in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	in := models.RegisterInput{Name: name, Email: email, Password: string(password), Confirm: string(confirm)}
	if err := in.Validate(); err != nil {
		return err
	}

	s, err := a.session.Register(ctx, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", s.User.DisplayName())
	return nil
}

// Login prompts for credentials and authenticates. On success the
// credentials are remembered for the next start.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.session.Login(ctx, models.Credentials{Email: email, Password: string(password)})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", s.User.DisplayName())
	return nil
}

// Logout forgets the session and the stored credentials, and drops cached
// pages so the next user starts clean.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.queries.InvalidateAll()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// WhoAmI prints the profile of the logged in user.
func (a *App) WhoAmI(ctx context.Context) error {
	s := a.session.Session()
	if s == nil {
		return common.ErrNotAuthenticated
	}
	fmt.Fprintf(a.out, "Name:  %s\nEmail: %s\nID:    %d\n", formatName(s.User.Name), s.User.Email, s.User.ID)
	return nil
}
