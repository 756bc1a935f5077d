// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Provides interactive full-screen interface for the pipeline board
package tui

import (
	"context"
	"database/sql"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Vonnie2507/probuild-command/models"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewBoard ViewMode = iota
	ViewJobs
	ViewStaff
	ViewDetail
)

// NotesFetcher is the slice of the ServiceM8 client the detail view needs.
// A nil fetcher means ServiceM8 is not connected.
type NotesFetcher interface {
	GetJobNotes(ctx context.Context, jobUUID string) ([]models.JobNote, error)
}

// Model is the main bubbletea model
type Model struct {
	db       *sql.DB
	fetcher  NotesFetcher
	viewMode ViewMode

	// List view state
	selectedRow int
	searchQuery string
	staffFilter string

	// Detail view state
	selectedID string

	// Notes state. notesReq is a request generation counter: each time the
	// detail view opens a new job it increments, and responses carrying an
	// older generation are discarded so a slow fetch for a previous job can
	// never overwrite the current one.
	notesReq     int
	notes        []models.JobNote
	notesErr     string
	notesLoading bool

	// UI state
	width  int
	height int
}

// notesLoadedMsg carries the result of an async notes fetch.
type notesLoadedMsg struct {
	req   int
	notes []models.JobNote
	err   error
}

// NewModel creates a new TUI model
func NewModel(db *sql.DB, fetcher NotesFetcher) Model {
	return Model{
		db:          db,
		fetcher:     fetcher,
		viewMode:    ViewBoard,
		staffFilter: models.StaffAll,
		width:       80,
		height:      24,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case notesLoadedMsg:
		return m.handleNotesLoaded(msg), nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewBoard:
		return m.renderBoardView()
	case ViewJobs:
		return m.renderJobsView()
	case ViewStaff:
		return m.renderStaffView()
	case ViewDetail:
		return m.renderDetailView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	// Delegate to view-specific handlers
	switch m.viewMode {
	case ViewBoard:
		return m.handleBoardKeys(msg)
	case ViewJobs:
		return m.handleJobsKeys(msg)
	case ViewStaff:
		return m.handleStaffKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	}

	return m, nil
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	columnTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Underline(true)

	urgencyCriticalStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("9")).
				Bold(true)

	urgencyHighStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("208"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)
