// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides ASCII dashboard for the job pipeline overview
package viz

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Vonnie2507/probuild-command/db"
	"github.com/Vonnie2507/probuild-command/models"
)

type DashboardStats struct {
	// Pipeline overview
	PipelineByStatus map[string]PipelineColumnStats

	// Overall stats
	TotalJobs  int
	TotalStaff int

	// Needs attention
	StaleJobs    []StaleJob
	AwaitingPO   int
	Unscheduled  int // won/production jobs with no install date at all
	LastSyncNote string
}

type PipelineColumnStats struct {
	Status string
	Count  int
	Value  int64 // in cents
}

type StaleJob struct {
	JobNumber    string
	CustomerName string
	DaysSince    int
}

func GenerateDashboardStats(database *sql.DB) (*DashboardStats, error) {
	stats := &DashboardStats{
		PipelineByStatus: make(map[string]PipelineColumnStats),
	}

	jobs, err := db.FindJobs(database, models.StaffAll, "", 10000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jobs: %w", err)
	}

	for _, job := range jobs {
		status := job.Status
		if status == "" {
			status = "unknown"
		}

		cstats := stats.PipelineByStatus[status]
		cstats.Status = status
		cstats.Count++
		cstats.Value += job.QuoteValue
		stats.PipelineByStatus[status] = cstats

		if job.DaysSinceContact > 7 && job.Status != models.StatusCompleted {
			stats.StaleJobs = append(stats.StaleJobs, StaleJob{
				JobNumber:    job.JobNumber,
				CustomerName: job.CustomerName,
				DaysSince:    job.DaysSinceContact,
			})
		}

		if job.PurchaseOrderStatus != "" && job.PurchaseOrderStatus != "received" {
			stats.AwaitingPO++
		}

		phase := models.PhaseForStatus(job.Status)
		if phase == models.PhaseWorkOrder && job.Status != models.StatusCompleted &&
			job.PostsDate == nil && job.PanelsDate == nil {
			stats.Unscheduled++
		}
	}
	stats.TotalJobs = len(jobs)

	staff, err := db.ListStaff(database, false)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch staff: %w", err)
	}
	stats.TotalStaff = len(staff)

	if state, err := db.GetSyncState(database, "servicem8"); err == nil && state != nil && state.LastSyncTime != nil {
		stats.LastSyncNote = state.LastSyncTime.Format("2006-01-02 15:04")
	}

	return stats, nil
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	// Header
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  PROBUILD COMMAND CENTER\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	// Pipeline overview
	out.WriteString("PIPELINE OVERVIEW\n")
	renderPipeline(&out, stats.PipelineByStatus)
	out.WriteString("\n")

	// Stats
	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  🗂  %d jobs  👷 %d staff\n", stats.TotalJobs, stats.TotalStaff))
	if stats.LastSyncNote != "" {
		out.WriteString(fmt.Sprintf("  🔄 last ServiceM8 sync %s\n", stats.LastSyncNote))
	}
	out.WriteString("\n")

	// Needs attention
	if len(stats.StaleJobs) > 0 || stats.AwaitingPO > 0 || stats.Unscheduled > 0 {
		out.WriteString("NEEDS ATTENTION\n")

		if len(stats.StaleJobs) > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d jobs - no contact in 7+ days\n", len(stats.StaleJobs)))
		}
		if stats.AwaitingPO > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d jobs - purchase order outstanding\n", stats.AwaitingPO))
		}
		if stats.Unscheduled > 0 {
			out.WriteString(fmt.Sprintf("  ⚠️  %d won jobs - no install date\n", stats.Unscheduled))
		}
	}

	return out.String()
}

func renderPipeline(out *strings.Builder, pipeline map[string]PipelineColumnStats) {
	// Find max count for scaling
	maxCount := 0
	for _, cstats := range pipeline {
		if cstats.Count > maxCount {
			maxCount = cstats.Count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	// Render each column in board order
	for _, status := range models.PipelineColumns {
		cstats, exists := pipeline[status]
		if !exists {
			continue
		}

		// Calculate bar length (0-10 blocks)
		barLength := (cstats.Count * 10) / maxCount

		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)

		// Format value in K
		valueK := cstats.Value / 100000

		out.WriteString(fmt.Sprintf("  %-12s %s  %2d ($%dK)\n",
			status, bar, cstats.Count, valueK))
	}
}
