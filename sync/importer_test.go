// ABOUTME: Tests for the ServiceM8 job importer
// ABOUTME: Covers full/incremental/webhook runs and failure accounting
package sync

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vonnie2507/probuild-command/db"
	"github.com/Vonnie2507/probuild-command/models"
	"github.com/Vonnie2507/probuild-command/servicem8"
)

type fakeSource struct {
	jobs     []servicem8.JobRecord
	listErr  error
	getErr   error
	gotSince *time.Time
	sinceSet bool
}

func (f *fakeSource) ListJobs(_ context.Context, since *time.Time) ([]servicem8.JobRecord, error) {
	f.gotSince = since
	f.sinceSet = true
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.jobs, nil
}

func (f *fakeSource) GetJob(_ context.Context, jobUUID string) (*servicem8.JobRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for i := range f.jobs {
		if f.jobs[i].UUID == jobUUID {
			return &f.jobs[i], nil
		}
	}
	return nil, fmt.Errorf("job not found: %s", jobUUID)
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestImportJobsFull(t *testing.T) {
	database := setupTestDB(t)

	source := &fakeSource{jobs: []servicem8.JobRecord{
		{UUID: "sm8-1", GeneratedJobID: "1042", CompanyName: "Harper Lane", Status: "Quote", TotalAmount: "4500.00"},
		{UUID: "sm8-2", GeneratedJobID: "1043", CompanyName: "Riverside Cafe", Status: "Work Order"},
	}}

	run, err := ImportJobs(database, source, true)
	require.NoError(t, err)

	assert.Nil(t, source.gotSince, "full sync must not pass a since filter")
	assert.Equal(t, models.SyncTypeFull, run.SyncType)
	assert.Equal(t, models.SyncRunSuccess, run.Status)
	assert.Equal(t, 2, run.JobsProcessed)
	require.NotNil(t, run.CompletedAt)

	// Jobs landed with mapped statuses and parsed amounts
	job, err := db.GetJobByServiceM8UUID(database, "sm8-1")
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, models.StatusQuoteSent, job.Status)
	assert.Equal(t, int64(450000), job.QuoteValue)

	won, err := db.GetJobByServiceM8UUID(database, "sm8-2")
	require.NoError(t, err)
	assert.Equal(t, models.StatusWon, won.Status)

	// Sync log and state updated
	exists, err := db.CheckSyncLogExists(database, "servicem8", "sm8-1")
	require.NoError(t, err)
	assert.True(t, exists)

	state, err := db.GetSyncState(database, "servicem8")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "idle", state.Status)
	require.NotNil(t, state.LastSyncToken)
}

func TestImportJobsIncrementalUsesWatermark(t *testing.T) {
	database := setupTestDB(t)

	// Seed a watermark
	require.NoError(t, db.UpdateSyncToken(database, "servicem8", "2026-08-20 08:00:00"))

	source := &fakeSource{}
	run, err := ImportJobs(database, source, false)
	require.NoError(t, err)

	require.NotNil(t, source.gotSince)
	assert.Equal(t, 2026, source.gotSince.Year())
	assert.Equal(t, models.SyncTypeIncremental, run.SyncType)
	assert.Equal(t, models.SyncRunSuccess, run.Status)
	assert.Equal(t, 0, run.JobsProcessed)
}

func TestImportJobsIncrementalWithoutWatermarkFallsBack(t *testing.T) {
	database := setupTestDB(t)

	source := &fakeSource{}
	run, err := ImportJobs(database, source, false)
	require.NoError(t, err)

	assert.Nil(t, source.gotSince)
	assert.Equal(t, models.SyncTypeFull, run.SyncType, "missing watermark falls back to full")
}

func TestImportJobsListFailure(t *testing.T) {
	database := setupTestDB(t)

	source := &fakeSource{listErr: fmt.Errorf("boom")}
	_, err := ImportJobs(database, source, true)
	require.Error(t, err)

	// State flipped to error
	state, stateErr := db.GetSyncState(database, "servicem8")
	require.NoError(t, stateErr)
	require.NotNil(t, state)
	assert.Equal(t, "error", state.Status)

	// Run recorded with error status
	runs, runsErr := db.ListSyncRuns(database, 5)
	require.NoError(t, runsErr)
	require.Len(t, runs, 1)
	assert.Equal(t, models.SyncRunError, runs[0].Status)
	assert.Contains(t, runs[0].ErrorMessage, "boom")
}

func TestImportJobsPartial(t *testing.T) {
	database := setupTestDB(t)

	source := &fakeSource{jobs: []servicem8.JobRecord{
		{UUID: "sm8-good", GeneratedJobID: "1050", CompanyName: "Good Job", Status: "Quote"},
		{UUID: "", GeneratedJobID: "1051", CompanyName: "Broken Record"},
	}}

	run, err := ImportJobs(database, source, true)
	require.NoError(t, err)

	assert.Equal(t, models.SyncRunPartial, run.Status)
	assert.Equal(t, 1, run.JobsProcessed)
	assert.Contains(t, run.ErrorMessage, "1 job(s) failed")
}

func TestImportJobsUpsertIdempotent(t *testing.T) {
	database := setupTestDB(t)

	source := &fakeSource{jobs: []servicem8.JobRecord{
		{UUID: "sm8-1", GeneratedJobID: "1042", CompanyName: "Harper Lane", Status: "Quote"},
	}}

	_, err := ImportJobs(database, source, true)
	require.NoError(t, err)

	source.jobs[0].Status = "Work Order"
	run, err := ImportJobs(database, source, true)
	require.NoError(t, err)
	assert.Equal(t, 1, run.JobsProcessed)

	jobs, err := db.FindJobs(database, models.StaffAll, "", 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1, "re-import must not duplicate jobs")
	assert.Equal(t, models.StatusWon, jobs[0].Status)
}

func TestRefreshJobWebhook(t *testing.T) {
	database := setupTestDB(t)

	source := &fakeSource{jobs: []servicem8.JobRecord{
		{UUID: "sm8-hook", GeneratedJobID: "1077", CompanyName: "Hooked", Status: "Quote"},
	}}

	run, err := RefreshJob(database, source, "sm8-hook")
	require.NoError(t, err)
	assert.Equal(t, models.SyncTypeWebhook, run.SyncType)
	assert.Equal(t, models.SyncRunSuccess, run.Status)
	assert.Equal(t, 1, run.JobsProcessed)

	job, err := db.GetJobByServiceM8UUID(database, "sm8-hook")
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, "1077", job.JobNumber)
}

func TestRefreshJobFailure(t *testing.T) {
	database := setupTestDB(t)

	source := &fakeSource{getErr: fmt.Errorf("not there")}
	_, err := RefreshJob(database, source, "sm8-missing")
	require.Error(t, err)

	runs, runsErr := db.ListSyncRuns(database, 5)
	require.NoError(t, runsErr)
	require.Len(t, runs, 1)
	assert.Equal(t, models.SyncRunError, runs[0].Status)
}

func TestMapStatus(t *testing.T) {
	assert.Equal(t, models.StatusQuoteSent, mapStatus("Quote"))
	assert.Equal(t, models.StatusWon, mapStatus("Work Order"))
	assert.Equal(t, models.StatusCompleted, mapStatus("Completed"))
	assert.Equal(t, models.StatusNewLead, mapStatus(""))
	assert.Equal(t, "unsuccessful", mapStatus("Unsuccessful"))
}
