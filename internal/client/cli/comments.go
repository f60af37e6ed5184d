package cli

import (
	"context"
	"fmt"

	"github.com/driftdesk/driftdesk-cli/internal/client/forms"
	"github.com/driftdesk/driftdesk-cli/internal/client/render"
	"github.com/driftdesk/driftdesk-cli/internal/client/routes"
)

// AddComment prompts for a comment on a drift and shows the drift again.
func (a *App) AddComment(ctx context.Context, args []string) error {
	driftID, err := parseID(args, "comment <driftId>")
	if err != nil {
		a.say("%s", err)
		return err
	}
	if !a.requireLogin(ctx) {
		return nil
	}

	content, err := getMultiline(a.reader, "Comment", a.out)
	if err != nil {
		return err
	}
	form := forms.CommentForm{Content: content}
	if errs := form.Validate(); !errs.Empty() {
		return a.invalid(errs)
	}

	c, err := a.comments.Add(ctx, driftID, form.Content)
	if err != nil {
		return a.fail(err)
	}
	a.say("%s", render.Success.Render(fmt.Sprintf("Comment #%d added", c.ID)))
	return a.open(ctx, routes.DriftDetail(driftID))
}

// DeleteComment removes a comment by id.
func (a *App) DeleteComment(ctx context.Context, args []string) error {
	id, err := parseID(args, "uncomment <id>")
	if err != nil {
		a.say("%s", err)
		return err
	}
	if !a.requireLogin(ctx) {
		return nil
	}

	if err := a.comments.Delete(ctx, id); err != nil {
		return a.fail(err)
	}
	a.say("Comment #%d deleted", id)
	return nil
}
