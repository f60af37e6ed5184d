package cli

import (
	"context"
	"errors"

	"github.com/driftdesk/driftdesk-cli/internal/client/api"
	"github.com/driftdesk/driftdesk-cli/internal/client/render"
)

// Health reports the API and database status. It works signed out.
func (a *App) Health(ctx context.Context) error {
	h, err := a.health.Check(ctx)
	if err != nil {
		if errors.Is(err, api.ErrNetwork) {
			a.setMode(ctx, ModeOffline)
		}
		return a.fail(err)
	}
	a.setMode(ctx, ModeOnline)
	a.say("%s: %s (database: %s)", render.Title.Render("API"), render.Clean(h.Status), render.Clean(h.Database))
	return nil
}
