// ABOUTME: Web UI server with embedded templates
// ABOUTME: Serves the pipeline board, staff management, and ServiceM8 webhook
package web

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Vonnie2507/probuild-command/board"
	"github.com/Vonnie2507/probuild-command/db"
	"github.com/Vonnie2507/probuild-command/models"
	"github.com/Vonnie2507/probuild-command/servicem8"
	syncer "github.com/Vonnie2507/probuild-command/sync"
	"github.com/Vonnie2507/probuild-command/viz"
)

//go:embed templates/*
var templatesFS embed.FS

// NotesFetcher is the slice of the ServiceM8 client the job detail needs.
type NotesFetcher interface {
	GetJobNotes(ctx context.Context, jobUUID string) ([]models.JobNote, error)
}

type Server struct {
	db        *sql.DB
	templates *template.Template
	generator *viz.GraphGenerator

	// notes and source are nil when ServiceM8 is not connected; the UI
	// degrades to local data with a connect hint.
	notes  NotesFetcher
	source syncer.JobSource
}

func NewServer(database *sql.DB, notes NotesFetcher, source syncer.JobSource) (*Server, error) {
	funcMap := template.FuncMap{
		"money": func(cents int64) string {
			return fmt.Sprintf("$%.2f", float64(cents)/100.0)
		},
		"cardClass": models.CardClass,
		"ring":      models.UrgencyRing,
		"noteIcon": func(note models.JobNote) string {
			switch note.Kind() {
			case models.NoteKindEmail:
				return "✉"
			case models.NoteKindSMS:
				return "💬"
			case models.NoteKindCall:
				return "📞"
			default:
				return "📝"
			}
		},
		"jobURL": servicem8.JobPageURL,
		"shortDate": func(ts *time.Time) string {
			if ts == nil {
				return "—"
			}
			return ts.Format("Mon 2 Jan")
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		db:        database,
		templates: tmpl,
		generator: viz.NewGraphGenerator(database),
		notes:     notes,
		source:    source,
	}, nil
}

func (s *Server) Start(port int) error {
	mux := s.routes()

	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting command center at http://localhost%s", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleBoard)
	mux.HandleFunc("/jobs", s.handleJobs)
	mux.HandleFunc("/jobs/move", s.handleMove)
	mux.HandleFunc("/jobs/schedule", s.handleSchedule)
	mux.HandleFunc("/staff", s.handleStaff)
	mux.HandleFunc("/staff/add", s.handleStaffAdd)
	mux.HandleFunc("/staff/update", s.handleStaffUpdate)
	mux.HandleFunc("/staff/delete", s.handleStaffDelete)
	mux.HandleFunc("/sync/runs", s.handleSyncRuns)
	mux.HandleFunc("/graphs", s.handleGraphs)

	// Partials for HTMX
	mux.HandleFunc("/partials/job-detail", s.handleJobDetail)

	// ServiceM8 webhook
	mux.HandleFunc("/webhooks/servicem8", s.handleWebhook)

	return mux
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	err := s.templates.ExecuteTemplate(w, name, data)
	if err != nil {
		log.Printf("Template error rendering %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// handleBoard renders the pipeline board with the staff and search filters
// applied. Filtering is recomputed on every request from the query params.
func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	query := r.URL.Query().Get("q")
	staffFilter := r.URL.Query().Get("staff")
	if staffFilter == "" {
		staffFilter = models.StaffAll
	}

	jobs, err := db.FindJobs(s.db, staffFilter, query, 1000)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	staff, err := db.ListStaff(s.db, false)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"Columns":         board.Columns(jobs),
		"Staff":           staff,
		"StaffFilter":     staffFilter,
		"Query":           query,
		"Title":           "Board",
		"ContentTemplate": "board-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	staffFilter := r.URL.Query().Get("staff")
	if staffFilter == "" {
		staffFilter = models.StaffAll
	}

	jobs, err := db.FindJobs(s.db, staffFilter, query, 500)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	staff, err := db.ListStaff(s.db, false)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"Jobs":            jobs,
		"Staff":           staff,
		"StaffFilter":     staffFilter,
		"Query":           query,
		"Title":           "Jobs",
		"ContentTemplate": "jobs-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := uuid.Parse(r.FormValue("id"))
	if err != nil {
		http.Error(w, "Invalid job ID", http.StatusBadRequest)
		return
	}

	if err := db.MoveJob(s.db, id, r.FormValue("status")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := uuid.Parse(r.FormValue("id"))
	if err != nil {
		http.Error(w, "Invalid job ID", http.StatusBadRequest)
		return
	}

	date, err := time.Parse("2006-01-02", r.FormValue("date"))
	if err != nil {
		http.Error(w, "Invalid date", http.StatusBadRequest)
		return
	}

	tentative := r.FormValue("tentative") == "on" || r.FormValue("tentative") == "true"

	if err := db.ScheduleJob(s.db, id, r.FormValue("work_type"), date, tentative); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := db.ListStaff(s.db, true)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"Staff":           staff,
		"Roles":           []string{models.RoleSales, models.RoleProduction, models.RoleInstall},
		"Skills":          []string{models.SkillPosts, models.SkillPanels, models.SkillProduction},
		"Title":           "Staff",
		"ContentTemplate": "staff-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleStaffAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	_ = r.ParseForm()
	staff := &models.Staff{
		Name:   r.FormValue("name"),
		Role:   r.FormValue("role"),
		Color:  r.FormValue("color"),
		Skills: r.Form["skills"],
	}

	if err := db.CreateStaff(s.db, staff); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	http.Redirect(w, r, "/staff", http.StatusSeeOther)
}

func (s *Server) handleStaffUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	_ = r.ParseForm()
	staff, err := db.GetStaff(s.db, r.FormValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if staff == nil {
		http.Error(w, "Staff not found", http.StatusNotFound)
		return
	}

	// Commit the staged edit only on explicit save
	staff.Name = r.FormValue("name")
	staff.Role = r.FormValue("role")
	staff.Color = r.FormValue("color")
	staff.Skills = r.Form["skills"]
	staff.Active = r.FormValue("active") != "false"

	if err := db.UpdateStaff(s.db, staff); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	http.Redirect(w, r, "/staff", http.StatusSeeOther)
}

func (s *Server) handleStaffDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := db.DeleteStaff(s.db, r.FormValue("id")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/staff", http.StatusSeeOther)
}

// handleJobDetail renders a job's detail partial, fetching the communication
// history live from ServiceM8. Fetch errors render inline and never affect
// the rest of the board.
func (s *Server) handleJobDetail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, "Invalid job ID", http.StatusBadRequest)
		return
	}

	job, err := db.GetJob(s.db, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if job == nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	tasks, err := db.GetProductionTasks(s.db, job.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"Job":   job,
		"Tasks": tasks,
	}

	if s.notes == nil {
		data["NotesError"] = "ServiceM8 not connected. Run 'probuild sync init' to connect."
	} else {
		notes, err := s.notes.GetJobNotes(r.Context(), job.ServiceM8UUID)
		if err != nil {
			msg := err.Error()
			if apiErr, ok := err.(*servicem8.APIError); ok && apiErr.NeedsReconnect() {
				msg += " — run 'probuild sync init' to reconnect"
			}
			data["NotesError"] = msg
		} else {
			data["Notes"] = notes
		}
	}

	s.renderTemplate(w, "job-detail.html", data)
}

func (s *Server) handleSyncRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := db.ListSyncRuns(s.db, 50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"Runs":            runs,
		"Title":           "Sync History",
		"ContentTemplate": "syncruns-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleGraphs(w http.ResponseWriter, r *http.Request) {
	dot, err := s.generator.GeneratePipelineGraph()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"DOT":             dot,
		"Title":           "Pipeline Graph",
		"ContentTemplate": "graphs-content",
	}

	s.renderTemplate(w, "layout.html", data)
}

// handleWebhook accepts ServiceM8 object notifications and refreshes the
// named job. Unknown payloads are acknowledged and dropped so ServiceM8
// does not retry forever.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload struct {
		ObjectUUID string `json:"object_uuid"`
		Object     string `json:"object"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.ObjectUUID == "" {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if s.source == nil {
		http.Error(w, "ServiceM8 not connected", http.StatusServiceUnavailable)
		return
	}

	if _, err := syncer.RefreshJob(s.db, s.source, payload.ObjectUUID); err != nil {
		log.Printf("Webhook refresh failed for %s: %v", payload.ObjectUUID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
