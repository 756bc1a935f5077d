// ABOUTME: Job MCP tool handlers
// ABOUTME: Implements query_jobs, move_job, schedule_job, and get_job_notes tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Vonnie2507/probuild-command/db"
	"github.com/Vonnie2507/probuild-command/models"
)

// NotesFetcher is the slice of the ServiceM8 client the notes tool needs.
type NotesFetcher interface {
	GetJobNotes(ctx context.Context, jobUUID string) ([]models.JobNote, error)
}

type JobHandlers struct {
	db    *sql.DB
	notes NotesFetcher
}

func NewJobHandlers(database *sql.DB, notes NotesFetcher) *JobHandlers {
	return &JobHandlers{db: database, notes: notes}
}

type QueryJobsInput struct {
	Query   string `json:"query,omitempty" jsonschema:"Search query matched against customer name, job number, and address"`
	StaffID string `json:"staff_id,omitempty" jsonschema:"Filter to jobs assigned to this staff member ('all' or empty for no filter)"`
	Status  string `json:"status,omitempty" jsonschema:"Filter to a single pipeline status"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Maximum results to return (default 25)"`
}

type JobOutput struct {
	ID              string `json:"id"`
	JobNumber       string `json:"job_number"`
	CustomerName    string `json:"customer_name"`
	Address         string `json:"address,omitempty"`
	Status          string `json:"status"`
	Urgency         string `json:"urgency"`
	QuoteValue      int64  `json:"quote_value,omitempty"`
	AssignedStaffID string `json:"assigned_staff_id,omitempty"`
	InstallStage    string `json:"install_stage"`
	PostsDate       string `json:"posts_date,omitempty"`
	PostsTentative  bool   `json:"posts_tentative,omitempty"`
	PanelsDate      string `json:"panels_date,omitempty"`
	PanelsTentative bool   `json:"panels_tentative,omitempty"`
	ServiceM8URL    string `json:"servicem8_url,omitempty"`
}

type QueryJobsOutput struct {
	Jobs  []JobOutput `json:"jobs"`
	Count int         `json:"count"`
}

func (h *JobHandlers) QueryJobs(_ context.Context, request *mcp.CallToolRequest, input QueryJobsInput) (*mcp.CallToolResult, QueryJobsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 25
	}

	jobs, err := db.FindJobs(h.db, input.StaffID, input.Query, limit)
	if err != nil {
		return nil, QueryJobsOutput{}, fmt.Errorf("failed to find jobs: %w", err)
	}

	var out []JobOutput
	for i := range jobs {
		if input.Status != "" && jobs[i].Status != input.Status {
			continue
		}
		out = append(out, jobToOutput(&jobs[i]))
	}

	return &mcp.CallToolResult{}, QueryJobsOutput{Jobs: out, Count: len(out)}, nil
}

type MoveJobInput struct {
	JobID  string `json:"job_id" jsonschema:"Job ID (required)"`
	Status string `json:"status" jsonschema:"Target pipeline status: new_lead, quote_sent, follow_up, won, production, scheduling, completed"`
}

func (h *JobHandlers) MoveJob(_ context.Context, request *mcp.CallToolRequest, input MoveJobInput) (*mcp.CallToolResult, JobOutput, error) {
	if input.Status == "" {
		return nil, JobOutput{}, fmt.Errorf("status is required")
	}

	id, err := uuid.Parse(input.JobID)
	if err != nil {
		return nil, JobOutput{}, fmt.Errorf("invalid job_id: %w", err)
	}

	if err := db.MoveJob(h.db, id, input.Status); err != nil {
		return nil, JobOutput{}, fmt.Errorf("failed to move job: %w", err)
	}

	job, err := db.GetJob(h.db, id)
	if err != nil {
		return nil, JobOutput{}, fmt.Errorf("failed to load job: %w", err)
	}
	if job == nil {
		return nil, JobOutput{}, fmt.Errorf("job not found: %s", input.JobID)
	}

	return &mcp.CallToolResult{}, jobToOutput(job), nil
}

type ScheduleJobInput struct {
	JobID     string `json:"job_id" jsonschema:"Job ID (required)"`
	WorkType  string `json:"work_type" jsonschema:"Install phase to schedule: posts or panels"`
	Date      string `json:"date" jsonschema:"Install date in YYYY-MM-DD format"`
	Tentative bool   `json:"tentative,omitempty" jsonschema:"Mark the date as tentative"`
}

func (h *JobHandlers) ScheduleJob(_ context.Context, request *mcp.CallToolRequest, input ScheduleJobInput) (*mcp.CallToolResult, JobOutput, error) {
	id, err := uuid.Parse(input.JobID)
	if err != nil {
		return nil, JobOutput{}, fmt.Errorf("invalid job_id: %w", err)
	}

	if !models.ValidWorkType(input.WorkType) {
		return nil, JobOutput{}, fmt.Errorf("invalid work_type: %s (valid: posts, panels)", input.WorkType)
	}

	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return nil, JobOutput{}, fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
	}

	if err := db.ScheduleJob(h.db, id, input.WorkType, date, input.Tentative); err != nil {
		return nil, JobOutput{}, fmt.Errorf("failed to schedule job: %w", err)
	}

	job, err := db.GetJob(h.db, id)
	if err != nil {
		return nil, JobOutput{}, fmt.Errorf("failed to load job: %w", err)
	}
	if job == nil {
		return nil, JobOutput{}, fmt.Errorf("job not found: %s", input.JobID)
	}

	return &mcp.CallToolResult{}, jobToOutput(job), nil
}

type GetJobNotesInput struct {
	JobNumber string `json:"job_number" jsonschema:"Job number as shown on the board (required)"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum notes to return (default 20)"`
}

type JobNoteOutput struct {
	Kind      string `json:"kind"`
	Timestamp string `json:"timestamp"`
	Author    string `json:"author,omitempty"`
	Note      string `json:"note"`
}

type GetJobNotesOutput struct {
	JobNumber string          `json:"job_number"`
	Notes     []JobNoteOutput `json:"notes"`
	Count     int             `json:"count"`
}

func (h *JobHandlers) GetJobNotes(ctx context.Context, request *mcp.CallToolRequest, input GetJobNotesInput) (*mcp.CallToolResult, GetJobNotesOutput, error) {
	if input.JobNumber == "" {
		return nil, GetJobNotesOutput{}, fmt.Errorf("job_number is required")
	}
	if h.notes == nil {
		return nil, GetJobNotesOutput{}, fmt.Errorf("ServiceM8 not connected, run 'probuild sync init' first")
	}

	limit := input.Limit
	if limit == 0 {
		limit = 20
	}

	job, err := db.GetJobByNumber(h.db, input.JobNumber)
	if err != nil {
		return nil, GetJobNotesOutput{}, fmt.Errorf("failed to look up job: %w", err)
	}
	if job == nil {
		return nil, GetJobNotesOutput{}, fmt.Errorf("no job found with number %s", input.JobNumber)
	}

	notes, err := h.notes.GetJobNotes(ctx, job.ServiceM8UUID)
	if err != nil {
		return nil, GetJobNotesOutput{}, fmt.Errorf("failed to fetch notes: %w", err)
	}

	if len(notes) > limit {
		notes = notes[:limit]
	}

	out := GetJobNotesOutput{JobNumber: job.JobNumber}
	for i := range notes {
		out.Notes = append(out.Notes, JobNoteOutput{
			Kind:      notes[i].Kind(),
			Timestamp: notes[i].Timestamp.Format(time.RFC3339),
			Author:    notes[i].Author,
			Note:      notes[i].Note,
		})
	}
	out.Count = len(out.Notes)

	return &mcp.CallToolResult{}, out, nil
}

func jobToOutput(job *models.Job) JobOutput {
	out := JobOutput{
		ID:              job.ID.String(),
		JobNumber:       job.JobNumber,
		CustomerName:    job.CustomerName,
		Address:         job.Address,
		Status:          job.Status,
		Urgency:         job.Urgency,
		QuoteValue:      job.QuoteValue,
		AssignedStaffID: job.AssignedStaffID,
		InstallStage:    job.InstallStage,
		PostsTentative:  job.PostsTentative,
		PanelsTentative: job.PanelsTentative,
	}
	if job.PostsDate != nil {
		out.PostsDate = job.PostsDate.Format("2006-01-02")
	}
	if job.PanelsDate != nil {
		out.PanelsDate = job.PanelsDate.Format("2006-01-02")
	}
	if job.ServiceM8UUID != "" {
		out.ServiceM8URL = fmt.Sprintf("https://go.servicem8.com/job/%s", job.ServiceM8UUID)
	}
	return out
}
