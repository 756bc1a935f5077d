// ABOUTME: Tests for job MCP tool handlers
// ABOUTME: Validates tool input/output and error handling
package handlers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Vonnie2507/probuild-command/db"
	"github.com/Vonnie2507/probuild-command/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	database, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test db: %v", err)
	}
	if err := db.InitSchema(database); err != nil {
		t.Fatalf("Failed to init schema: %v", err)
	}
	return database
}

func createTestJob(t *testing.T, database *sql.DB, jobNumber, customer, staffID string) *models.Job {
	job := &models.Job{
		ServiceM8UUID:   "sm8-" + jobNumber,
		JobNumber:       jobNumber,
		CustomerName:    customer,
		Status:          models.StatusQuoteSent,
		AssignedStaffID: staffID,
	}
	if err := db.CreateJob(database, job); err != nil {
		t.Fatalf("Failed to create job: %v", err)
	}
	return job
}

type fakeNotes struct {
	notes []models.JobNote
	err   error
}

func (f *fakeNotes) GetJobNotes(ctx context.Context, jobUUID string) ([]models.JobNote, error) {
	return f.notes, f.err
}

func TestQueryJobs(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	createTestJob(t, database, "1042", "Sarah Mitchell", "")
	createTestJob(t, database, "1043", "Tom Baxter", "")

	handler := NewJobHandlers(database, nil)

	_, output, err := handler.QueryJobs(context.Background(), nil, QueryJobsInput{Query: "mitchell"})
	if err != nil {
		t.Fatalf("QueryJobs failed: %v", err)
	}

	if output.Count != 1 {
		t.Fatalf("Expected 1 job, got %d", output.Count)
	}
	if output.Jobs[0].JobNumber != "1042" {
		t.Errorf("Expected job 1042, got %s", output.Jobs[0].JobNumber)
	}
}

func TestQueryJobsStatusFilter(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	job := createTestJob(t, database, "1042", "Sarah Mitchell", "")
	createTestJob(t, database, "1043", "Tom Baxter", "")

	if err := db.MoveJob(database, job.ID, models.StatusWon); err != nil {
		t.Fatalf("MoveJob failed: %v", err)
	}

	handler := NewJobHandlers(database, nil)

	_, output, err := handler.QueryJobs(context.Background(), nil, QueryJobsInput{Status: models.StatusWon})
	if err != nil {
		t.Fatalf("QueryJobs failed: %v", err)
	}

	if output.Count != 1 || output.Jobs[0].Status != models.StatusWon {
		t.Errorf("Expected only the won job, got %+v", output.Jobs)
	}
}

func TestMoveJobTool(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	job := createTestJob(t, database, "1042", "Sarah Mitchell", "")

	handler := NewJobHandlers(database, nil)

	_, output, err := handler.MoveJob(context.Background(), nil, MoveJobInput{
		JobID:  job.ID.String(),
		Status: models.StatusFollowUp,
	})
	if err != nil {
		t.Fatalf("MoveJob failed: %v", err)
	}

	if output.Status != models.StatusFollowUp {
		t.Errorf("Expected status follow_up, got %s", output.Status)
	}

	// Invalid ID
	if _, _, err := handler.MoveJob(context.Background(), nil, MoveJobInput{JobID: "nope", Status: "won"}); err == nil {
		t.Error("Expected error for invalid job ID")
	}

	// Missing status
	if _, _, err := handler.MoveJob(context.Background(), nil, MoveJobInput{JobID: job.ID.String()}); err == nil {
		t.Error("Expected error for missing status")
	}
}

func TestScheduleJobTool(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	job := createTestJob(t, database, "1042", "Sarah Mitchell", "")

	handler := NewJobHandlers(database, nil)

	_, output, err := handler.ScheduleJob(context.Background(), nil, ScheduleJobInput{
		JobID:     job.ID.String(),
		WorkType:  models.WorkTypePosts,
		Date:      "2026-09-01",
		Tentative: true,
	})
	if err != nil {
		t.Fatalf("ScheduleJob failed: %v", err)
	}

	if output.PostsDate != "2026-09-01" || !output.PostsTentative {
		t.Errorf("Expected tentative posts date, got %+v", output)
	}
	if output.PanelsDate != "" {
		t.Error("Panels date should be untouched")
	}

	// Invalid work type
	_, _, err = handler.ScheduleJob(context.Background(), nil, ScheduleJobInput{
		JobID:    job.ID.String(),
		WorkType: "roofing",
		Date:     "2026-09-01",
	})
	if err == nil {
		t.Error("Expected error for invalid work type")
	}
}

func TestGetJobNotesTool(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	createTestJob(t, database, "1042", "Sarah Mitchell", "")

	notes := &fakeNotes{
		notes: []models.JobNote{
			{Note: "Emailed revised quote", Timestamp: time.Now(), EntryMethod: "Email"},
			{Note: "Called about colour choice", Timestamp: time.Now().Add(-time.Hour), NoteType: "Phone Call"},
		},
	}
	handler := NewJobHandlers(database, notes)

	_, output, err := handler.GetJobNotes(context.Background(), nil, GetJobNotesInput{JobNumber: "1042"})
	if err != nil {
		t.Fatalf("GetJobNotes failed: %v", err)
	}

	if output.Count != 2 {
		t.Fatalf("Expected 2 notes, got %d", output.Count)
	}
	if output.Notes[0].Kind != models.NoteKindEmail {
		t.Errorf("Expected email kind, got %s", output.Notes[0].Kind)
	}
	if output.Notes[1].Kind != models.NoteKindCall {
		t.Errorf("Expected call kind, got %s", output.Notes[1].Kind)
	}
}

func TestGetJobNotesNotConnected(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	createTestJob(t, database, "1042", "Sarah Mitchell", "")

	handler := NewJobHandlers(database, nil)

	_, _, err := handler.GetJobNotes(context.Background(), nil, GetJobNotesInput{JobNumber: "1042"})
	if err == nil {
		t.Fatal("Expected error when ServiceM8 is not connected")
	}
}

func TestGetJobNotesUnknownJob(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	handler := NewJobHandlers(database, &fakeNotes{})

	_, _, err := handler.GetJobNotes(context.Background(), nil, GetJobNotesInput{JobNumber: "9999"})
	if err == nil {
		t.Fatal("Expected error for unknown job number")
	}
}
