// ABOUTME: Pure in-memory board operations for the command center
// ABOUTME: Filtering, moves, scheduling, and column grouping over job slices
package board

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Vonnie2507/probuild-command/models"
)

// FilterJobs returns the jobs passing both the staff filter and the search
// text. The "all" sentinel (or empty string) disables the staff filter. The
// search text matches customer name, job number, or address as a
// case-insensitive substring.
func FilterJobs(jobs []models.Job, staffID, query string) []models.Job {
	query = strings.ToLower(strings.TrimSpace(query))

	filtered := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if staffID != "" && staffID != models.StaffAll && job.AssignedStaffID != staffID {
			continue
		}
		if query != "" && !matchesQuery(&job, query) {
			continue
		}
		filtered = append(filtered, job)
	}
	return filtered
}

func matchesQuery(job *models.Job, query string) bool {
	return strings.Contains(strings.ToLower(job.CustomerName), query) ||
		strings.Contains(strings.ToLower(job.JobNumber), query) ||
		strings.Contains(strings.ToLower(job.Address), query)
}

// MoveJob returns a new slice with the matched job's status replaced. Every
// other field and every other job is untouched; an unknown id returns an
// equal copy of the input. No validation that status is a known column.
func MoveJob(jobs []models.Job, id uuid.UUID, status string) []models.Job {
	moved := make([]models.Job, len(jobs))
	copy(moved, jobs)

	for i := range moved {
		if moved[i].ID == id {
			moved[i].Status = status
			moved[i].UpdatedAt = time.Now()
			break
		}
	}
	return moved
}

// ScheduleJob returns a new slice with one work type's install date set and
// the install stage advanced to match. Posts and panels are independent
// slices of the same job.
func ScheduleJob(jobs []models.Job, id uuid.UUID, workType string, date time.Time, tentative bool) []models.Job {
	scheduled := make([]models.Job, len(jobs))
	copy(scheduled, jobs)

	for i := range scheduled {
		if scheduled[i].ID != id {
			continue
		}
		switch workType {
		case models.WorkTypePosts:
			scheduled[i].PostsDate = &date
			scheduled[i].PostsTentative = tentative
			scheduled[i].InstallStage = models.InstallPostsScheduled
		case models.WorkTypePanels:
			scheduled[i].PanelsDate = &date
			scheduled[i].PanelsTentative = tentative
			scheduled[i].InstallStage = models.InstallPanelsScheduled
		}
		scheduled[i].UpdatedAt = time.Now()
		break
	}
	return scheduled
}

// Column is one rendered pipeline column.
type Column struct {
	Status string
	Jobs   []models.Job
	Value  int64 // summed quote value in cents
}

// Columns groups jobs into the pipeline column order. Jobs with a status
// outside the known columns are collected into a trailing "other" column so
// free-text statuses from older syncs stay visible.
func Columns(jobs []models.Job) []Column {
	byStatus := make(map[string][]models.Job)
	for _, job := range jobs {
		byStatus[job.Status] = append(byStatus[job.Status], job)
	}

	known := make(map[string]bool)
	columns := make([]Column, 0, len(models.PipelineColumns)+1)
	for _, status := range models.PipelineColumns {
		known[status] = true
		columns = append(columns, newColumn(status, byStatus[status]))
	}

	var other []models.Job
	for _, job := range jobs {
		if !known[job.Status] {
			other = append(other, job)
		}
	}
	if len(other) > 0 {
		columns = append(columns, newColumn("other", other))
	}

	return columns
}

func newColumn(status string, jobs []models.Job) Column {
	column := Column{Status: status, Jobs: jobs}
	for _, job := range jobs {
		column.Value += job.QuoteValue
	}
	return column
}
