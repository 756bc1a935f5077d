package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Vonnie2507/probuild-command/board"
	"github.com/Vonnie2507/probuild-command/db"
	"github.com/Vonnie2507/probuild-command/models"
)

func (m Model) renderBoardView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("PROBUILD COMMAND CENTER"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	jobs, err := db.FindJobs(m.db, m.staffFilter, m.searchQuery, 500)
	if err != nil {
		return s.String() + fmt.Sprintf("Error: %v", err)
	}

	columns := board.Columns(jobs)

	colWidth := 24
	if m.width/len(models.PipelineColumns) < colWidth {
		colWidth = m.width/len(models.PipelineColumns) - 1
		if colWidth < 14 {
			colWidth = 14
		}
	}

	var rendered []string
	for _, col := range columns {
		if len(col.Jobs) == 0 && col.Status != models.StatusNewLead {
			continue
		}
		rendered = append(rendered, m.renderColumn(col, colWidth))
	}

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	s.WriteString("\n\n")

	s.WriteString(m.renderBoardHelp())

	return s.String()
}

func (m Model) renderColumn(col board.Column, width int) string {
	var s strings.Builder

	header := fmt.Sprintf("%s (%d)", strings.ReplaceAll(col.Status, "_", " "), len(col.Jobs))
	s.WriteString(columnTitleStyle.Render(header))
	s.WriteString("\n")
	if col.Value > 0 {
		s.WriteString(mutedStyle.Render(fmt.Sprintf("$%.0fK", float64(col.Value)/100000.0)))
		s.WriteString("\n")
	}
	s.WriteString("\n")

	for _, job := range col.Jobs {
		name := job.CustomerName
		if len(name) > width-6 {
			name = name[:width-6]
		}
		line := fmt.Sprintf("#%s %s", job.JobNumber, name)
		switch job.Urgency {
		case models.UrgencyCritical:
			line = urgencyCriticalStyle.Render(line)
		case models.UrgencyHigh:
			line = urgencyHighStyle.Render(line)
		}
		s.WriteString(line)
		s.WriteString("\n")
	}

	return lipgloss.NewStyle().Width(width).MarginRight(1).Render(s.String())
}

func (m Model) renderTabs() string {
	tabs := []string{"Board", "Jobs", "Staff"}
	var rendered []string

	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderBoardHelp() string {
	help := []string{
		"Tab: Switch tabs",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.viewMode = ViewJobs
		m.selectedRow = 0
	}
	return m, nil
}
