package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/driftdesk/driftdesk-cli/internal/client/models"
)

var (
	badge = lipgloss.NewStyle().Padding(0, 1).Bold(true)

	statusColors = map[models.Status]lipgloss.Color{
		models.StatusOpen:       lipgloss.Color("33"),
		models.StatusInProgress: lipgloss.Color("214"),
		models.StatusResolved:   lipgloss.Color("42"),
		models.StatusClosed:     lipgloss.Color("245"),
	}

	priorityColors = map[models.Priority]lipgloss.Color{
		models.PriorityLow:      lipgloss.Color("245"),
		models.PriorityMedium:   lipgloss.Color("33"),
		models.PriorityHigh:     lipgloss.Color("214"),
		models.PriorityCritical: lipgloss.Color("196"),
	}

	Title   = lipgloss.NewStyle().Bold(true)
	Muted   = lipgloss.NewStyle().Faint(true)
	Danger  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func StatusBadge(s models.Status) string {
	return badge.Foreground(statusColors[s]).Render(s.Label())
}

func PriorityBadge(p models.Priority) string {
	return badge.Foreground(priorityColors[p]).Render(string(p))
}

// RoleBadge highlights administrators.
func RoleBadge(r models.Role) string {
	if r == models.RoleAdmin {
		return badge.Foreground(lipgloss.Color("205")).Render(string(r))
	}
	return badge.Render(string(r))
}
