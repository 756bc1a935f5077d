// ABOUTME: Tests for the web board handlers
// ABOUTME: Exercises routes against an in-memory database with a fake notes source
package web

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vonnie2507/probuild-command/db"
	"github.com/Vonnie2507/probuild-command/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	database, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.InitSchema(database))
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func createTestJob(t *testing.T, database *sql.DB, jobNumber, customer string) *models.Job {
	job := &models.Job{
		ServiceM8UUID: "sm8-" + jobNumber,
		JobNumber:     jobNumber,
		CustomerName:  customer,
		Status:        models.StatusQuoteSent,
	}
	require.NoError(t, db.CreateJob(database, job))
	return job
}

type fakeNotes struct {
	notes []models.JobNote
	err   error
}

func (f *fakeNotes) GetJobNotes(ctx context.Context, jobUUID string) ([]models.JobNote, error) {
	return f.notes, f.err
}

func TestBoardRendersColumns(t *testing.T) {
	database := setupTestDB(t)
	createTestJob(t, database, "1042", "Sarah Mitchell")

	server, err := NewServer(database, nil, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	server.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Sarah Mitchell")
	assert.Contains(t, body, "quote_sent")
}

func TestBoardSearchFilter(t *testing.T) {
	database := setupTestDB(t)
	createTestJob(t, database, "1042", "Sarah Mitchell")
	createTestJob(t, database, "1043", "Tom Baxter")

	server, err := NewServer(database, nil, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	server.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?q=baxter", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Tom Baxter")
	assert.NotContains(t, body, "Sarah Mitchell")
}

func TestMoveJobForm(t *testing.T) {
	database := setupTestDB(t)
	job := createTestJob(t, database, "1042", "Sarah Mitchell")

	server, err := NewServer(database, nil, nil)
	require.NoError(t, err)

	form := url.Values{"id": {job.ID.String()}, "status": {models.StatusWon}}
	req := httptest.NewRequest(http.MethodPost, "/jobs/move", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	server.routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	moved, err := db.GetJob(database, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWon, moved.Status)
}

func TestScheduleJobForm(t *testing.T) {
	database := setupTestDB(t)
	job := createTestJob(t, database, "1042", "Sarah Mitchell")

	server, err := NewServer(database, nil, nil)
	require.NoError(t, err)

	form := url.Values{
		"id":        {job.ID.String()},
		"work_type": {models.WorkTypePanels},
		"date":      {"2026-09-14"},
		"tentative": {"on"},
	}
	req := httptest.NewRequest(http.MethodPost, "/jobs/schedule", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	server.routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	scheduled, err := db.GetJob(database, job.ID)
	require.NoError(t, err)
	require.NotNil(t, scheduled.PanelsDate)
	assert.True(t, scheduled.PanelsTentative)
	assert.Nil(t, scheduled.PostsDate)
}

func TestJobDetailRendersNotes(t *testing.T) {
	database := setupTestDB(t)
	job := createTestJob(t, database, "1042", "Sarah Mitchell")

	notes := &fakeNotes{notes: []models.JobNote{
		{Note: "Emailed revised quote", Timestamp: time.Now(), EntryMethod: "Email"},
	}}
	server, err := NewServer(database, notes, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	server.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/partials/job-detail?id="+job.ID.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Emailed revised quote")
	assert.Contains(t, body, "Sarah Mitchell")
}

func TestJobDetailNotConnected(t *testing.T) {
	database := setupTestDB(t)
	job := createTestJob(t, database, "1042", "Sarah Mitchell")

	server, err := NewServer(database, nil, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	server.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/partials/job-detail?id="+job.ID.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "ServiceM8 not connected")
	// The rest of the detail still renders around the inline error
	assert.Contains(t, body, "Sarah Mitchell")
}

func TestStaffAddForm(t *testing.T) {
	database := setupTestDB(t)

	server, err := NewServer(database, nil, nil)
	require.NoError(t, err)

	form := url.Values{
		"name":   {"Mick Torrens"},
		"role":   {models.RoleInstall},
		"skills": {models.SkillPosts, models.SkillPanels},
	}
	req := httptest.NewRequest(http.MethodPost, "/staff/add", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	server.routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	staff, err := db.ListStaff(database, false)
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, "Mick Torrens", staff[0].Name)
	assert.Equal(t, []string{models.SkillPosts, models.SkillPanels}, staff[0].Skills)
}

func TestWebhookRefreshesJob(t *testing.T) {
	database := setupTestDB(t)

	server, err := NewServer(database, nil, nil)
	require.NoError(t, err)

	// Without a connected source the webhook reports unavailable
	req := httptest.NewRequest(http.MethodPost, "/webhooks/servicem8",
		strings.NewReader(`{"object":"job","object_uuid":"sm8-1042"}`))
	rec := httptest.NewRecorder()
	server.routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// Unparseable payloads are acknowledged so ServiceM8 stops retrying
	req = httptest.NewRequest(http.MethodPost, "/webhooks/servicem8", strings.NewReader("not json"))
	rec = httptest.NewRecorder()
	server.routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
