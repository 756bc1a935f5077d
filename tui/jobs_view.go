package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Vonnie2507/probuild-command/db"
)

func (m Model) renderJobsView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("PROBUILD COMMAND CENTER"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	s.WriteString(m.renderJobsTable())
	s.WriteString("\n\n")

	s.WriteString(m.renderJobsHelp())

	return s.String()
}

func (m Model) renderJobsTable() string {
	jobs, err := db.FindJobs(m.db, m.staffFilter, m.searchQuery, 100)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	columns := []table.Column{
		{Title: "Job #", Width: 8},
		{Title: "Customer", Width: 25},
		{Title: "Status", Width: 12},
		{Title: "Urgency", Width: 10},
		{Title: "Quote", Width: 10},
	}

	var rows []table.Row
	for _, job := range jobs {
		quote := ""
		if job.QuoteValue > 0 {
			quote = fmt.Sprintf("$%.0f", float64(job.QuoteValue)/100.0)
		}

		rows = append(rows, table.Row{
			job.JobNumber,
			job.CustomerName,
			job.Status,
			job.Urgency,
			quote,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(m.height-10),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderJobsHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Switch tabs",
		"Enter: View details",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleJobsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		m.selectedRow++
	case "tab":
		m.viewMode = ViewStaff
		m.selectedRow = 0
	case "enter":
		id := m.getSelectedJobID()
		if id != "" {
			return m.openDetail(id)
		}
	}

	return m, nil
}

func (m Model) getSelectedJobID() string {
	jobs, _ := db.FindJobs(m.db, m.staffFilter, m.searchQuery, 100)
	if m.selectedRow < len(jobs) {
		return jobs[m.selectedRow].ID.String()
	}
	return ""
}
