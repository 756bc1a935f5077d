// ABOUTME: ServiceM8 job importer for full, incremental, and webhook syncs
// ABOUTME: Upserts jobs by ServiceM8 UUID and records sync run audit entries
package sync

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Vonnie2507/probuild-command/db"
	"github.com/Vonnie2507/probuild-command/models"
	"github.com/Vonnie2507/probuild-command/servicem8"
)

const serviceM8Service = "servicem8"

// tokenLayout is the edit_date watermark stored as the sync token.
const tokenLayout = "2006-01-02 15:04:05"

// JobSource is the slice of the ServiceM8 client the importer needs.
type JobSource interface {
	ListJobs(ctx context.Context, since *time.Time) ([]servicem8.JobRecord, error)
	GetJob(ctx context.Context, jobUUID string) (*servicem8.JobRecord, error)
}

// ImportJobs fetches jobs from ServiceM8 and upserts them into the local
// database. A full sync fetches everything; an incremental sync fetches jobs
// edited since the stored watermark. Every attempt leaves a sync run record.
func ImportJobs(database *sql.DB, source JobSource, full bool) (*models.SyncRun, error) {
	run := &models.SyncRun{
		SyncType:  models.SyncTypeIncremental,
		StartedAt: time.Now(),
	}
	if full {
		run.SyncType = models.SyncTypeFull
	}

	fmt.Println("Syncing ServiceM8 jobs...")
	if err := db.UpdateSyncStatus(database, serviceM8Service, "syncing", nil); err != nil {
		return nil, fmt.Errorf("failed to update sync status: %w", err)
	}

	var since *time.Time
	if !full {
		state, err := db.GetSyncState(database, serviceM8Service)
		if err != nil {
			return nil, failRun(database, run, fmt.Errorf("failed to get sync state: %w", err))
		}
		if state != nil && state.LastSyncToken != nil && *state.LastSyncToken != "" {
			if watermark, err := time.Parse(tokenLayout, *state.LastSyncToken); err == nil {
				since = &watermark
				fmt.Printf("  → Incremental sync since %s...\n", *state.LastSyncToken)
			}
		}
		if since == nil {
			fmt.Println("  → No watermark found, falling back to full sync...")
			run.SyncType = models.SyncTypeFull
		}
	}

	records, err := source.ListJobs(context.Background(), since)
	if err != nil {
		return nil, failRun(database, run, fmt.Errorf("failed to list jobs: %w", err))
	}

	created, updated, failed := 0, 0, 0
	for i := range records {
		wasCreated, err := importRecord(database, &records[i])
		if err != nil {
			fmt.Printf("  ✗ Failed to import job %s: %v\n", records[i].UUID, err)
			failed++
			continue
		}
		if wasCreated {
			created++
		} else {
			updated++
		}
	}
	run.JobsProcessed = created + updated

	// Advance the watermark even on partial runs so retries stay incremental
	if err := db.UpdateSyncToken(database, serviceM8Service, run.StartedAt.Format(tokenLayout)); err != nil {
		return nil, failRun(database, run, fmt.Errorf("failed to update sync token: %w", err))
	}

	run.Status = models.SyncRunSuccess
	if failed > 0 {
		run.Status = models.SyncRunPartial
		run.ErrorMessage = fmt.Sprintf("%d job(s) failed to import", failed)
	}
	metadata, _ := json.Marshal(map[string]int{"created": created, "updated": updated, "failed": failed})
	run.Metadata = string(metadata)
	completed := time.Now()
	run.CompletedAt = &completed

	if err := db.RecordSyncRun(database, run); err != nil {
		return nil, err
	}

	if run.JobsProcessed == 0 && failed == 0 {
		fmt.Println("  ✓ No job changes to import (all up to date)")
	} else {
		fmt.Printf("  ✓ Imported %d job(s): %d new, %d updated", run.JobsProcessed, created, updated)
		if failed > 0 {
			fmt.Printf(", %d failed", failed)
		}
		fmt.Println()
	}

	return run, nil
}

// RefreshJob re-imports a single job, used by the ServiceM8 webhook.
func RefreshJob(database *sql.DB, source JobSource, jobUUID string) (*models.SyncRun, error) {
	run := &models.SyncRun{
		SyncType:  models.SyncTypeWebhook,
		StartedAt: time.Now(),
		Metadata:  fmt.Sprintf(`{"job_uuid":%q}`, jobUUID),
	}

	record, err := source.GetJob(context.Background(), jobUUID)
	if err != nil {
		return nil, failRun(database, run, fmt.Errorf("failed to fetch job %s: %w", jobUUID, err))
	}

	if _, err := importRecord(database, record); err != nil {
		return nil, failRun(database, run, fmt.Errorf("failed to import job %s: %w", jobUUID, err))
	}

	run.JobsProcessed = 1
	run.Status = models.SyncRunSuccess
	completed := time.Now()
	run.CompletedAt = &completed

	if err := db.RecordSyncRun(database, run); err != nil {
		return nil, err
	}

	return run, nil
}

func importRecord(database *sql.DB, record *servicem8.JobRecord) (bool, error) {
	if record.UUID == "" {
		return false, fmt.Errorf("job record has no uuid")
	}

	job := jobFromRecord(record)
	created, err := db.UpsertJobByServiceM8UUID(database, job)
	if err != nil {
		return false, err
	}

	if err := db.CreateSyncLog(database, newSyncLogID(), serviceM8Service, record.UUID, "job", job.ID.String(), ""); err != nil {
		return false, err
	}

	return created, nil
}

// jobFromRecord converts a ServiceM8 wire record into a local job. Staleness
// counters are derived here so urgency is fresh after every sync.
func jobFromRecord(record *servicem8.JobRecord) *models.Job {
	job := &models.Job{
		ServiceM8UUID: record.UUID,
		JobNumber:     record.GeneratedJobID,
		CustomerName:  record.CompanyName,
		Address:       record.JobAddress,
		Description:   record.JobDescription,
		Status:        mapStatus(record.Status),
		QuoteValue:    parseCents(record.TotalAmount),
	}

	if lastContact := servicem8.ParseDate(record.LastContact); !lastContact.IsZero() {
		job.DaysSinceContact = daysSince(lastContact)
	}
	if quoteDate := servicem8.ParseDate(record.QuoteDate); !quoteDate.IsZero() {
		job.DaysSinceQuote = daysSince(quoteDate)
	}

	job.Urgency = job.DeriveUrgency()
	return job
}

// mapStatus translates ServiceM8's coarse job status into a board column.
// Unknown statuses pass through lowercased so nothing silently disappears.
func mapStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "quote":
		return models.StatusQuoteSent
	case "work order":
		return models.StatusWon
	case "completed":
		return models.StatusCompleted
	case "":
		return models.StatusNewLead
	default:
		return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(status)), " ", "_")
	}
}

func parseCents(amount string) int64 {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0
	}
	value, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return 0
	}
	return int64(value * 100)
}

func daysSince(ts time.Time) int {
	days := int(time.Since(ts).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func newSyncLogID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

func failRun(database *sql.DB, run *models.SyncRun, err error) error {
	errMsg := err.Error()
	_ = db.UpdateSyncStatus(database, serviceM8Service, "error", &errMsg)

	run.Status = models.SyncRunError
	run.ErrorMessage = errMsg
	completed := time.Now()
	run.CompletedAt = &completed
	_ = db.RecordSyncRun(database, run)

	return err
}
