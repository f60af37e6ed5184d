package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/driftdesk/driftdesk-cli/internal/client/api"
	"github.com/driftdesk/driftdesk-cli/internal/client/forms"
	"github.com/driftdesk/driftdesk-cli/internal/client/render"
	"github.com/driftdesk/driftdesk-cli/internal/client/routes"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

// askDefault shows current in brackets and keeps it on empty input.
func (a *App) askDefault(prompt, current string) (string, error) {
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, current)
	}
	v, err := a.ask(prompt)
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}

// invalid prints the field errors of a rejected form.
func (a *App) invalid(errs forms.FieldErrors) error {
	for _, field := range errs.Fields() {
		a.say("  %s", render.Danger.Render(errs.Get(field)))
	}
	if msg := errs.Submit(); msg != "" {
		a.say("  %s", render.Danger.Render(msg))
	}
	return ErrInvalidInput
}

// requireLogin shows the sign-in screen when nobody is signed in.
func (a *App) requireLogin(ctx context.Context) bool {
	if a.isLoggedIn() {
		return true
	}
	_ = a.open(ctx, routes.Login)
	return false
}

// Login prompts for credentials and signs in. On success the notification
// poller starts and the drift list is shown. A rejected form is reported
// per field and never reaches the server.
func (a *App) Login(ctx context.Context) error {
	if u := a.session.User(); u != nil {
		a.say("Already signed in as %s. Use 'logout' first.", u.DisplayName())
		return nil
	}

	username, err := a.ask("Username")
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	form := forms.LoginForm{Username: username, Password: password}
	if errs := form.Validate(); !errs.Empty() {
		return a.invalid(errs)
	}

	a.say("Signing in...")
	if err := a.session.Login(ctx, form.Request()); err != nil {
		a.say("%s", render.Danger.Render(a.session.LastError()))
		return err
	}
	return a.signedIn(ctx)
}

// Bootstrap creates the first administrator of a fresh installation and
// signs in with the same credentials.
func (a *App) Bootstrap(ctx context.Context) error {
	if u := a.session.User(); u != nil {
		a.say("Already signed in as %s. Use 'logout' first.", u.DisplayName())
		return nil
	}

	var form forms.BootstrapForm
	var err error
	if form.Username, err = a.ask("Admin username"); err != nil {
		return err
	}
	if form.Email, err = a.ask("Email"); err != nil {
		return err
	}
	if form.FullName, err = a.ask("Full name"); err != nil {
		return err
	}
	if form.Password, err = getPassword(a.reader, a.out); err != nil {
		return err
	}

	if errs := form.Validate(); !errs.Empty() {
		return a.invalid(errs)
	}

	a.say("Creating administrator...")
	if err := a.session.Bootstrap(ctx, form.Request()); err != nil {
		a.say("%s", render.Danger.Render(a.session.LastError()))
		return err
	}
	return a.signedIn(ctx)
}

func (a *App) signedIn(ctx context.Context) error {
	u := a.session.User()
	if u == nil {
		return nil
	}
	a.say("%s", render.Success.Render("Signed in as "+u.DisplayName()))
	a.notes.Start(ctx)
	return a.open(ctx, routes.Drifts)
}

// Logout forgets the stored session and returns to the sign-in screen.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.say("Not signed in.")
		return nil
	}
	err := a.session.Logout(ctx)
	a.say("Signed out.")
	return err
}

// WhoAmI refreshes the signed-in user from the server and shows it with
// the token expiry. A failed refresh falls back to the cached user.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.requireLogin(ctx) {
		return nil
	}

	if err := a.session.Refresh(ctx); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return a.fail(err)
		}
		a.log.Warn(ctx, "refresh user", "err", err)
	}

	u := a.session.User()
	if u == nil {
		return nil
	}
	a.say("%s %s", render.Title.Render(render.Clean(u.DisplayName())), render.RoleBadge(u.Role))
	a.say("Username: %s", render.Clean(u.Username))
	a.say("Email:    %s", render.Clean(u.Email))

	exp, err := a.session.ExpiresAt()
	if err != nil {
		a.log.Debug(ctx, "token expiry", "err", err)
		a.say("Session expiry unknown")
		return nil
	}
	a.say("Session expires %s (%s)", render.Age(exp, a.now()), exp.Local().Format(time.DateTime))
	return nil
}
