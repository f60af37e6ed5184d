// Package render turns client models into terminal text: tables, badges,
// relative times and sanitized server strings.
package render

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/driftdesk/driftdesk-cli/internal/client/models"
)

const titleWidth = 48

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		Headers(headers...)
}

func DriftTable(drifts []models.Drift, now time.Time) string {
	t := newTable("ID", "TITLE", "STATUS", "PRIORITY", "ASSIGNEE", "CREATED")
	for _, d := range drifts {
		t.Row(
			strconv.FormatInt(d.ID, 10),
			Truncate(OneLine(Clean(d.Title)), titleWidth),
			StatusBadge(d.Status),
			PriorityBadge(d.Priority),
			Clean(d.Assignee()),
			Age(d.CreatedAt.Time, now),
		)
	}
	return t.String()
}

func UserTable(users []models.User) string {
	t := newTable("ID", "USERNAME", "NAME", "EMAIL", "ROLE", "ACTIVE")
	for _, u := range users {
		active := "yes"
		if !u.IsActive {
			active = "no"
		}
		t.Row(
			strconv.FormatInt(u.ID, 10),
			Clean(u.Username),
			Clean(u.FullName),
			Clean(u.Email),
			RoleBadge(u.Role),
			active,
		)
	}
	return t.String()
}

func NotificationTable(items []models.Notification, now time.Time) string {
	t := newTable("", "ID", "TITLE", "MESSAGE", "DRIFT", "WHEN")
	for _, n := range items {
		marker := "*"
		if n.IsRead {
			marker = " "
		}
		drift := "-"
		if n.Drift != nil {
			drift = "#" + strconv.FormatInt(n.Drift.ID, 10)
		} else if n.DriftID != nil {
			drift = "#" + strconv.FormatInt(*n.DriftID, 10)
		}
		t.Row(
			marker,
			strconv.FormatInt(n.ID, 10),
			Clean(n.Title),
			Truncate(OneLine(Clean(n.Message)), titleWidth),
			drift,
			Relative(n.CreatedAt.Time, now),
		)
	}
	return t.String()
}
