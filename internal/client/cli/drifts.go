package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/driftdesk/driftdesk-cli/internal/client/api"
	"github.com/driftdesk/driftdesk-cli/internal/client/export"
	"github.com/driftdesk/driftdesk-cli/internal/client/forms"
	"github.com/driftdesk/driftdesk-cli/internal/client/models"
	"github.com/driftdesk/driftdesk-cli/internal/client/render"
	"github.com/driftdesk/driftdesk-cli/internal/client/routes"
)

const commentPageSize = 50

// parseDriftFilter reads "key=value" arguments. Words without "=" that
// follow search= extend the search text.
func parseDriftFilter(args []string) (models.DriftFilter, error) {
	var f models.DriftFilter
	lastKey := ""

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			if lastKey == "search" {
				f.Search += " " + arg
				continue
			}
			return f, fmt.Errorf("%w: expected key=value, got %q", ErrInvalidInput, arg)
		}
		key = strings.ToLower(key)
		lastKey = key

		switch key {
		case "status":
			f.Status = models.Status(value)
			if !f.Status.Valid() {
				return f, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, value)
			}
		case "priority":
			f.Priority = models.Priority(value)
			if !f.Priority.Valid() {
				return f, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, value)
			}
		case "assigned_to", "created_by":
			id, err := strconv.ParseInt(value, 10, 64)
			if err != nil || id <= 0 {
				return f, fmt.Errorf("%w: %s must be a user id", ErrInvalidInput, key)
			}
			if key == "assigned_to" {
				f.AssignedTo = id
			} else {
				f.CreatedBy = id
			}
		case "search":
			f.Search = value
		case "sort", "sort_by":
			f.SortBy = value
		case "order", "sort_order":
			if value != "asc" && value != "desc" {
				return f, fmt.Errorf("%w: order must be asc or desc", ErrInvalidInput)
			}
			f.SortOrder = value
		case "limit", "offset":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return f, fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidInput, key)
			}
			if key == "limit" {
				f.Limit = n
			} else {
				f.Offset = n
			}
		default:
			return f, fmt.Errorf("%w: unknown filter %q", ErrInvalidInput, key)
		}
	}
	return f, nil
}

// ListDrifts replaces the list filter with args and shows the list.
func (a *App) ListDrifts(ctx context.Context, args []string) error {
	f, err := parseDriftFilter(args)
	if err != nil {
		a.say("%s", err)
		return err
	}

	a.mu.Lock()
	a.filter = f
	a.mu.Unlock()

	return a.open(ctx, routes.Drifts)
}

func (a *App) currentFilter() models.DriftFilter {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.filter
}

func (a *App) driftList(ctx context.Context) error {
	f := a.currentFilter()
	list, err := a.drifts.List(ctx, f)
	if err != nil {
		return a.fail(err)
	}

	a.mu.Lock()
	a.listed = list.Drifts
	a.mu.Unlock()

	a.say("%s", render.Title.Render("Drifts"))
	if len(list.Drifts) == 0 {
		a.say("No drifts found. Create one with 'new'.")
		return nil
	}
	a.say("%s", render.DriftTable(list.Drifts, a.now()))

	shown := list.Offset + len(list.Drifts)
	a.say("Showing %d-%d of %d", list.Offset+1, shown, list.Total)
	if shown < list.Total {
		a.say("%s", render.Muted.Render(fmt.Sprintf("More: drifts offset=%d", shown)))
	}
	return nil
}

// ShowDrift opens the detail screen of a drift.
func (a *App) ShowDrift(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.say("Usage: show <id>")
		return ErrInvalidInput
	}
	return a.open(ctx, routes.Drifts+"/"+args[0])
}

// driftDetail shows a drift with its comments. A failed comment fetch is
// logged and the drift is still shown.
func (a *App) driftDetail(ctx context.Context, id int64) error {
	d, err := a.drifts.Get(ctx, id)
	if err != nil {
		return a.fail(err)
	}

	now := a.now()
	a.say("%s %s %s", render.Title.Render(fmt.Sprintf("#%d %s", d.ID, render.Clean(d.Title))),
		render.StatusBadge(d.Status), render.PriorityBadge(d.Priority))
	a.say("Created by %s, %s", render.Clean(d.CreatedBy.DisplayName()), render.Age(d.CreatedAt.Time, now))
	a.say("Assigned to %s", render.Clean(d.Assignee()))
	a.say("Updated %s", render.Age(d.UpdatedAt.Time, now))
	if d.ResolvedAt != nil {
		a.say("Resolved %s", render.Stamp(d.ResolvedAt))
	}
	if d.ClosedAt != nil {
		a.say("Closed %s", render.Stamp(d.ClosedAt))
	}
	if desc := render.Clean(d.Description); desc != "" {
		a.say("")
		a.say("%s", desc)
	}

	list, err := a.comments.List(ctx, id, models.Page{Limit: commentPageSize})
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return a.fail(err)
		}
		a.log.Warn(ctx, "fetch comments", "drift", id, "err", err)
		return nil
	}

	a.say("")
	a.say("%s", render.Title.Render(fmt.Sprintf("Comments (%d)", list.Total)))
	if len(list.Comments) == 0 {
		a.say("No comments yet. Add one with 'comment %d'.", id)
		return nil
	}
	for _, c := range list.Comments {
		a.say("[%d] %s, %s", c.ID, render.Clean(c.AuthorName()), render.Relative(c.CreatedAt.Time, now))
		a.say("    %s", strings.ReplaceAll(render.Clean(c.Content), "\n", "\n    "))
	}
	if len(list.Comments) < list.Total {
		a.say("%s", render.Muted.Render(fmt.Sprintf("%d older comments not shown", list.Total-len(list.Comments))))
	}
	return nil
}

// NewDrift opens the create screen.
func (a *App) NewDrift(ctx context.Context) error {
	return a.open(ctx, routes.NewDrift)
}

func (a *App) driftNew(ctx context.Context) error {
	form := forms.NewDriftForm()
	if err := a.fillDrift(&form, false); err != nil {
		return err
	}
	if errs := form.Validate(); !errs.Empty() {
		return a.invalid(errs)
	}

	d, err := a.drifts.Create(ctx, form.CreateRequest())
	if err != nil {
		return a.fail(err)
	}
	a.say("%s", render.Success.Render(fmt.Sprintf("Drift #%d created", d.ID)))
	return a.open(ctx, routes.DriftDetail(d.ID))
}

// EditDrift opens the edit screen of a drift.
func (a *App) EditDrift(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.say("Usage: edit <id>")
		return ErrInvalidInput
	}
	return a.open(ctx, routes.Drifts+"/"+args[0]+"/edit")
}

// driftEdit pre-fills the form from the server and sends only the fields
// that changed.
func (a *App) driftEdit(ctx context.Context, id int64) error {
	orig, err := a.drifts.Get(ctx, id)
	if err != nil {
		return a.fail(err)
	}

	form := forms.DriftFormFrom(*orig)
	if err := a.fillDrift(&form, true); err != nil {
		return err
	}
	if errs := form.Validate(); !errs.Empty() {
		return a.invalid(errs)
	}

	req := form.UpdateRequest(*orig)
	if req.Empty() {
		a.say("Nothing changed.")
		return a.open(ctx, routes.DriftDetail(id))
	}
	if _, err := a.drifts.Update(ctx, id, req); err != nil {
		return a.fail(err)
	}
	a.say("%s", render.Success.Render(fmt.Sprintf("Drift #%d updated", id)))
	return a.open(ctx, routes.DriftDetail(id))
}

// fillDrift prompts for every field of form. Empty answers keep the
// current value; a single "-" clears the description or the assignee.
func (a *App) fillDrift(form *forms.DriftForm, editing bool) error {
	var err error
	if form.Title, err = a.askDefault("Title", form.Title); err != nil {
		return err
	}

	prompt := "Description"
	if editing {
		prompt += " (empty keeps the current text, '-' clears it)"
	}
	desc, err := getMultiline(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	switch {
	case desc == "-":
		form.Description = ""
	case desc != "":
		form.Description = desc
	}

	priority, err := a.askDefault("Priority (low, medium, high, critical)", string(form.Priority))
	if err != nil {
		return err
	}
	form.Priority = models.Priority(strings.ToLower(priority))

	if editing {
		status, err := a.askDefault("Status (open, in_progress, resolved, closed)", string(form.Status))
		if err != nil {
			return err
		}
		form.Status = models.Status(strings.ToLower(status))
	}

	current := ""
	if form.AssignedToID != nil {
		current = strconv.FormatInt(*form.AssignedToID, 10)
	}
	prompt = "Assignee user id (optional)"
	if current != "" {
		prompt = "Assignee user id ('-' unassigns)"
	}
	assignee, err := a.askDefault(prompt, current)
	if err != nil {
		return err
	}
	switch {
	case assignee == "-":
		form.AssignedToID = nil
	case assignee != current:
		id, err := strconv.ParseInt(assignee, 10, 64)
		if err != nil || id <= 0 {
			a.say("  %s", render.Danger.Render("Assignee must be a user id"))
			return ErrInvalidInput
		}
		form.AssignedToID = &id
	}
	return nil
}

// Export writes the current drift listing to an .xlsx file. Without a
// prior listing the drifts matching the current filter are fetched.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.say("Usage: export <file.xlsx>")
		return ErrInvalidInput
	}
	if !a.requireLogin(ctx) {
		return nil
	}

	a.mu.Lock()
	drifts := a.listed
	a.mu.Unlock()

	if drifts == nil {
		list, err := a.drifts.List(ctx, a.currentFilter())
		if err != nil {
			return a.fail(err)
		}
		drifts = list.Drifts
	}

	if err := export.Save(args[0], drifts); err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			a.say("Export file must end in .xlsx")
			return err
		}
		a.log.Error(ctx, "export drifts", "path", args[0], "err", err)
		a.say("%s", render.Danger.Render("Export failed: "+err.Error()))
		return err
	}
	a.say("Exported %d drifts to %s", len(drifts), args[0])
	return nil
}
