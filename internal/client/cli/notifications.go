package cli

import (
	"context"
	"fmt"

	"github.com/driftdesk/driftdesk-cli/internal/client/models"
	"github.com/driftdesk/driftdesk-cli/internal/client/render"
)

// ListNotifications refetches and prints the notification list. With the
// "unread" argument only unread items are fetched.
func (a *App) ListNotifications(ctx context.Context, args []string) error {
	if !a.requireLogin(ctx) {
		return nil
	}

	var filter models.NotificationFilter
	for _, arg := range args {
		if arg != "unread" {
			a.say("Usage: notifications [unread]")
			return ErrInvalidInput
		}
		filter.UnreadOnly = true
	}

	if err := a.notes.Refetch(ctx, filter); err != nil {
		return a.failNotes(err)
	}

	st := a.notes.Snapshot()
	a.say("%s", render.Title.Render(fmt.Sprintf("Notifications (%d unread)", st.UnreadCount)))
	if len(st.Notifications) == 0 {
		a.say("No notifications")
		return nil
	}
	a.say("%s", render.NotificationTable(st.Notifications, a.now()))
	return nil
}

// MarkRead marks one notification as read.
func (a *App) MarkRead(ctx context.Context, args []string) error {
	id, err := parseID(args, "read <id>")
	if err != nil {
		a.say("%s", err)
		return err
	}
	if !a.requireLogin(ctx) {
		return nil
	}

	if err := a.notes.MarkAsRead(ctx, id); err != nil {
		return a.failNotes(err)
	}
	a.say("Notification #%d marked as read (%d unread)", id, a.notes.UnreadCount())
	return nil
}

func (a *App) MarkAllRead(ctx context.Context) error {
	if !a.requireLogin(ctx) {
		return nil
	}
	if err := a.notes.MarkAllAsRead(ctx); err != nil {
		return a.failNotes(err)
	}
	a.say("All notifications marked as read")
	return nil
}

// failNotes reports the error kept by the notification center.
func (a *App) failNotes(err error) error {
	if msg := a.notes.Error(); msg != "" && a.isLoggedIn() {
		a.say("%s", render.Danger.Render(msg))
		return err
	}
	return a.fail(err)
}
