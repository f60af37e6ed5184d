package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/driftdesk/driftdesk-cli/internal/client/forms"
	"github.com/driftdesk/driftdesk-cli/internal/client/models"
	"github.com/driftdesk/driftdesk-cli/internal/client/render"
	"github.com/driftdesk/driftdesk-cli/internal/client/routes"
)

// ListUsers opens the admin user screen. Non-admins land on the drift list.
func (a *App) ListUsers(ctx context.Context) error {
	return a.open(ctx, routes.AdminUsers)
}

func (a *App) userList(ctx context.Context) error {
	list, err := a.users.List(ctx)
	if err != nil {
		return a.fail(err)
	}

	a.say("%s", render.Title.Render(fmt.Sprintf("Users (%d)", list.Total)))
	if len(list.Users) == 0 {
		a.say("No users")
		return nil
	}
	a.say("%s", render.UserTable(list.Users))
	return nil
}

// AddUser prompts for a new account and refreshes the user list.
func (a *App) AddUser(ctx context.Context) error {
	if !a.isAdmin() {
		return a.open(ctx, routes.AdminUsers)
	}

	form := forms.NewUserForm()
	var err error
	if form.Username, err = a.ask("Username"); err != nil {
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
	role, err := a.askDefault("Role (user, admin)", string(form.Role))
	if err != nil {
		return err
	}
	form.Role = models.Role(strings.ToLower(role))

	if errs := form.Validate(); !errs.Empty() {
		return a.invalid(errs)
	}

	created, err := a.users.Create(ctx, form.Request())
	if err != nil {
		return a.fail(err)
	}
	a.say("%s", render.Success.Render(fmt.Sprintf("User %s created", created.User.Username)))
	return a.open(ctx, routes.AdminUsers)
}
