package cli

import (
	"context"
	"fmt"

	"github.com/driftdesk/driftdesk-cli/internal/client/routes"
)

// open navigates to path and renders whatever the guards let through.
func (a *App) open(ctx context.Context, path string) error {
	return a.render(ctx, a.nav.Navigate(path))
}

func (a *App) render(ctx context.Context, r routes.Route) error {
	a.log.Debug(ctx, "screen", "path", r.Path, "screen", r.Screen.String())

	switch r.Screen {
	case routes.ScreenLogin:
		a.say("Sign in with 'login', or 'bootstrap' to create the first administrator.")
		return nil
	case routes.ScreenDriftList:
		return a.driftList(ctx)
	case routes.ScreenDriftNew:
		return a.driftNew(ctx)
	case routes.ScreenDriftDetail:
		return a.driftDetail(ctx, r.DriftID)
	case routes.ScreenDriftEdit:
		return a.driftEdit(ctx, r.DriftID)
	case routes.ScreenAdminUsers:
		return a.userList(ctx)
	}

	a.say("404 Page not found: %s", r.Path)
	a.say("Go back to the drift list with 'drifts'.")
	return fmt.Errorf("%w: %s", ErrPageNotFound, r.Path)
}

// Goto opens a screen by its path, e.g. "/drifts/3/edit".
func (a *App) Goto(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.say("Usage: goto <path>")
		return ErrInvalidInput
	}
	return a.open(ctx, args[0])
}
