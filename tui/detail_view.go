// ABOUTME: TUI detail view for a single job with live ServiceM8 notes
// ABOUTME: Notes load asynchronously; stale responses are dropped by generation
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/Vonnie2507/probuild-command/db"
	"github.com/Vonnie2507/probuild-command/models"
	"github.com/Vonnie2507/probuild-command/servicem8"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(16)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	noteErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

// openDetail switches to the detail view for the given job and kicks off the
// notes fetch. The previous notes are cleared immediately so the view never
// shows another job's history while loading.
func (m Model) openDetail(id string) (tea.Model, tea.Cmd) {
	m.viewMode = ViewDetail
	m.selectedID = id
	m.notes = nil
	m.notesErr = ""
	m.notesReq++
	m.notesLoading = m.fetcher != nil

	if m.fetcher == nil {
		m.notesErr = "ServiceM8 not connected. Run 'probuild sync init' to connect."
		return m, nil
	}

	return m, m.fetchNotes(m.notesReq, id)
}

// fetchNotes loads the job's communication history from ServiceM8. The
// generation counter travels with the message so handleNotesLoaded can tell
// a current response from a stale one.
func (m Model) fetchNotes(req int, id string) tea.Cmd {
	database := m.db
	fetcher := m.fetcher
	return func() tea.Msg {
		jobID, err := uuid.Parse(id)
		if err != nil {
			return notesLoadedMsg{req: req, err: err}
		}

		job, err := db.GetJob(database, jobID)
		if err != nil {
			return notesLoadedMsg{req: req, err: err}
		}
		if job == nil {
			return notesLoadedMsg{req: req, err: fmt.Errorf("job not found")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		notes, err := fetcher.GetJobNotes(ctx, job.ServiceM8UUID)
		return notesLoadedMsg{req: req, notes: notes, err: err}
	}
}

func (m Model) handleNotesLoaded(msg notesLoadedMsg) Model {
	if msg.req != m.notesReq {
		// Response for a job the user has already navigated away from.
		return m
	}

	m.notesLoading = false
	if msg.err != nil {
		m.notesErr = msg.err.Error()
		if apiErr, ok := msg.err.(*servicem8.APIError); ok && apiErr.NeedsReconnect() {
			m.notesErr += " — run 'probuild sync init' to reconnect"
		}
		return m
	}

	m.notes = msg.notes
	m.notesErr = ""
	return m
}

func (m Model) renderDetailView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("JOB DETAIL"))
	s.WriteString("\n\n")

	id, err := uuid.Parse(m.selectedID)
	if err != nil {
		return s.String() + fmt.Sprintf("Error: invalid ID: %v", err)
	}

	job, err := db.GetJob(m.db, id)
	if err != nil {
		return s.String() + fmt.Sprintf("Error: %v", err)
	}
	if job == nil {
		return s.String() + "Job not found"
	}

	s.WriteString(m.renderField("Job #", job.JobNumber))
	s.WriteString(m.renderField("Customer", job.CustomerName))
	s.WriteString(m.renderField("Address", job.Address))
	s.WriteString(m.renderField("Status", job.Status))
	s.WriteString(m.renderField("Urgency", job.Urgency))
	if job.QuoteValue > 0 {
		s.WriteString(m.renderField("Quote", fmt.Sprintf("$%.2f", float64(job.QuoteValue)/100.0)))
	}
	s.WriteString(m.renderField("Install stage", job.InstallStage))
	s.WriteString(m.renderField("Posts", formatInstallDate(job.PostsDate, job.PostsTentative)))
	s.WriteString(m.renderField("Panels", formatInstallDate(job.PanelsDate, job.PanelsTentative)))

	// Production tasks
	tasks, _ := db.GetProductionTasks(m.db, job.ID)
	if len(tasks) > 0 {
		s.WriteString("\n")
		s.WriteString(lipgloss.NewStyle().Bold(true).Render("PRODUCTION TASKS"))
		s.WriteString("\n")
		for _, task := range tasks {
			mark := "☐"
			if task.Completed {
				mark = "☑"
			}
			s.WriteString(fmt.Sprintf("  %s %s\n", mark, task.Name))
		}
	}

	// Communication history
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Bold(true).Render("COMMUNICATION HISTORY"))
	s.WriteString("\n")

	switch {
	case m.notesLoading:
		s.WriteString(mutedStyle.Render("  Loading notes..."))
		s.WriteString("\n")
	case m.notesErr != "":
		s.WriteString(noteErrStyle.Render("  ⚠ " + m.notesErr))
		s.WriteString("\n")
	case len(m.notes) == 0:
		s.WriteString(mutedStyle.Render("  No notes found for this job."))
		s.WriteString("\n")
	default:
		for _, note := range m.notes {
			s.WriteString(fmt.Sprintf("  %s [%s] %s\n",
				noteGlyph(note.Kind()),
				note.Timestamp.Format("2006-01-02 15:04"),
				note.Note))
		}
	}

	s.WriteString("\n")
	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func formatInstallDate(date *time.Time, tentative bool) string {
	if date == nil {
		return "not scheduled"
	}
	s := date.Format("Mon 2 Jan 2006")
	if tentative {
		s += " (tentative)"
	}
	return s
}

func noteGlyph(kind string) string {
	switch kind {
	case models.NoteKindEmail:
		return "✉"
	case models.NoteKindSMS:
		return "💬"
	case models.NoteKindCall:
		return "📞"
	default:
		return "📝"
	}
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		value = "-"
	}
	return fmt.Sprintf("%s %s\n",
		fieldLabelStyle.Render(label+":"),
		fieldValueStyle.Render(value))
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"Esc: Back",
		"r: Reload notes",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewJobs
	case "r":
		return m.openDetail(m.selectedID)
	}

	return m, nil
}
