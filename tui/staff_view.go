package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Vonnie2507/probuild-command/db"
)

func (m Model) renderStaffView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("PROBUILD COMMAND CENTER"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	s.WriteString(m.renderStaffTable())
	s.WriteString("\n\n")

	s.WriteString(m.renderStaffHelp())

	return s.String()
}

func (m Model) renderStaffTable() string {
	staff, err := db.ListStaff(m.db, true)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	columns := []table.Column{
		{Title: "Name", Width: 25},
		{Title: "Role", Width: 12},
		{Title: "Capacity", Width: 10},
		{Title: "Skills", Width: 25},
		{Title: "Active", Width: 6},
	}

	var rows []table.Row
	for _, member := range staff {
		active := "yes"
		if !member.Active {
			active = "no"
		}

		rows = append(rows, table.Row{
			member.Name,
			member.Role,
			fmt.Sprintf("%.0fh/day", member.DailyCapacityHours),
			strings.Join(member.Skills, ", "),
			active,
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

func (m Model) renderStaffHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Switch tabs",
		"f: Filter board by selected",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleStaffKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		m.selectedRow++
	case "tab":
		m.viewMode = ViewBoard
		m.selectedRow = 0
	case "f":
		staff, _ := db.ListStaff(m.db, true)
		if m.selectedRow < len(staff) {
			m.staffFilter = staff[m.selectedRow].ID
			m.viewMode = ViewBoard
		}
	}

	return m, nil
}
