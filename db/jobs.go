// ABOUTME: Job database operations
// ABOUTME: Handles job CRUD, board filtering, moves, scheduling, and sync upserts
package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Vonnie2507/probuild-command/models"
)

const jobColumns = `id, service_m8_uuid, job_number, customer_name, address, description,
	quote_value, status, urgency, days_since_contact, days_since_quote,
	assigned_staff_id, last_note, purchase_order_status, install_stage,
	posts_date, posts_tentative, panels_date, panels_tentative,
	duration_days, crew_size, created_at, updated_at, last_synced_at`

func CreateJob(db *sql.DB, job *models.Job) error {
	job.ID = uuid.New()
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now

	if job.Status == "" {
		job.Status = models.StatusNewLead
	}
	if job.InstallStage == "" {
		job.InstallStage = models.InstallPending
	}
	if job.Urgency == "" {
		job.Urgency = job.DeriveUrgency()
	}

	_, err := db.Exec(`
		INSERT INTO jobs (`+jobColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, job.ID.String(), job.ServiceM8UUID, job.JobNumber, job.CustomerName, job.Address, job.Description,
		job.QuoteValue, job.Status, job.Urgency, job.DaysSinceContact, job.DaysSinceQuote,
		nullIfEmpty(job.AssignedStaffID), job.LastNote, job.PurchaseOrderStatus, job.InstallStage,
		job.PostsDate, job.PostsTentative, job.PanelsDate, job.PanelsTentative,
		job.DurationDays, job.CrewSize, job.CreatedAt, job.UpdatedAt, job.LastSyncedAt)

	return err
}

func GetJob(db *sql.DB, id uuid.UUID) (*models.Job, error) {
	row := db.QueryRow(`SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id.String())
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return job, err
}

func GetJobByServiceM8UUID(db *sql.DB, serviceM8UUID string) (*models.Job, error) {
	row := db.QueryRow(`SELECT `+jobColumns+` FROM jobs WHERE service_m8_uuid = ?`, serviceM8UUID)
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return job, err
}

func GetJobByNumber(db *sql.DB, jobNumber string) (*models.Job, error) {
	row := db.QueryRow(`SELECT `+jobColumns+` FROM jobs WHERE job_number = ?`, jobNumber)
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return job, err
}

// FindJobs returns jobs matching the staff filter and search text. A staff
// filter of "" or the "all" sentinel matches everything. The search text
// matches customer name, job number, or address case-insensitively.
func FindJobs(db *sql.DB, staffID, query string, limit int) ([]models.Job, error) {
	if limit <= 0 {
		limit = 100
	}

	where := []string{}
	args := []interface{}{}

	if staffID != "" && staffID != models.StaffAll {
		where = append(where, "assigned_staff_id = ?")
		args = append(args, staffID)
	}

	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		where = append(where, "(LOWER(customer_name) LIKE ? OR LOWER(job_number) LIKE ? OR LOWER(address) LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	sqlQuery := `SELECT ` + jobColumns + ` FROM jobs`
	if len(where) > 0 {
		sqlQuery += " WHERE " + strings.Join(where, " AND ")
	}
	sqlQuery += " ORDER BY updated_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.Query(sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}

	return jobs, rows.Err()
}

func UpdateJob(db *sql.DB, job *models.Job) error {
	job.UpdatedAt = time.Now()
	if job.Urgency == "" {
		job.Urgency = models.UrgencyLow
	}

	_, err := db.Exec(`
		UPDATE jobs
		SET job_number = ?, customer_name = ?, address = ?, description = ?,
			quote_value = ?, status = ?, urgency = ?, days_since_contact = ?, days_since_quote = ?,
			assigned_staff_id = ?, last_note = ?, purchase_order_status = ?, install_stage = ?,
			posts_date = ?, posts_tentative = ?, panels_date = ?, panels_tentative = ?,
			duration_days = ?, crew_size = ?, updated_at = ?, last_synced_at = ?
		WHERE id = ?
	`, job.JobNumber, job.CustomerName, job.Address, job.Description,
		job.QuoteValue, job.Status, job.Urgency, job.DaysSinceContact, job.DaysSinceQuote,
		nullIfEmpty(job.AssignedStaffID), job.LastNote, job.PurchaseOrderStatus, job.InstallStage,
		job.PostsDate, job.PostsTentative, job.PanelsDate, job.PanelsTentative,
		job.DurationDays, job.CrewSize, job.UpdatedAt, job.LastSyncedAt, job.ID.String())

	return err
}

// MoveJob sets only the job's status. An unknown id is a silent no-op so the
// board can fire moves without checking existence first.
func MoveJob(db *sql.DB, id uuid.UUID, status string) error {
	_, err := db.Exec(`
		UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?
	`, status, time.Now(), id.String())
	return err
}

// ScheduleJob sets the install date for one work type and advances the
// install stage to match. Posts and panels are independent slices of the
// same job: scheduling one never touches the other's fields.
func ScheduleJob(db *sql.DB, id uuid.UUID, workType string, date time.Time, tentative bool) error {
	if !models.ValidWorkType(workType) {
		return fmt.Errorf("invalid work type: %s (valid: posts, panels)", workType)
	}

	now := time.Now()
	if workType == models.WorkTypePosts {
		_, err := db.Exec(`
			UPDATE jobs SET posts_date = ?, posts_tentative = ?, install_stage = ?, updated_at = ?
			WHERE id = ?
		`, date, tentative, models.InstallPostsScheduled, now, id.String())
		return err
	}

	_, err := db.Exec(`
		UPDATE jobs SET panels_date = ?, panels_tentative = ?, install_stage = ?, updated_at = ?
		WHERE id = ?
	`, date, tentative, models.InstallPanelsScheduled, now, id.String())
	return err
}

// UpsertJobByServiceM8UUID inserts or refreshes a job keyed by its ServiceM8
// UUID. Returns true when a new row was created. Board-local fields
// (assigned staff, install dates, stage, last note, PO status, duration,
// crew size) survive refreshes.
func UpsertJobByServiceM8UUID(db *sql.DB, job *models.Job) (bool, error) {
	existing, err := GetJobByServiceM8UUID(db, job.ServiceM8UUID)
	if err != nil {
		return false, err
	}

	now := time.Now()
	job.LastSyncedAt = &now

	if existing == nil {
		if err := CreateJob(db, job); err != nil {
			return false, err
		}
		return true, nil
	}

	// Carry board-local state across the refresh
	job.ID = existing.ID
	job.CreatedAt = existing.CreatedAt
	if job.AssignedStaffID == "" {
		job.AssignedStaffID = existing.AssignedStaffID
	}
	if job.InstallStage == "" || job.InstallStage == models.InstallPending {
		job.InstallStage = existing.InstallStage
	}
	if job.PostsDate == nil {
		job.PostsDate = existing.PostsDate
		job.PostsTentative = existing.PostsTentative
	}
	if job.PanelsDate == nil {
		job.PanelsDate = existing.PanelsDate
		job.PanelsTentative = existing.PanelsTentative
	}
	if job.LastNote == "" {
		job.LastNote = existing.LastNote
	}
	if job.PurchaseOrderStatus == "" {
		job.PurchaseOrderStatus = existing.PurchaseOrderStatus
	}
	if job.DurationDays == 0 {
		job.DurationDays = existing.DurationDays
	}
	if job.CrewSize == 0 {
		job.CrewSize = existing.CrewSize
	}

	return false, UpdateJob(db, job)
}

func DeleteJob(db *sql.DB, id uuid.UUID) error {
	_, err := db.Exec(`DELETE FROM jobs WHERE id = ?`, id.String())
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	job := &models.Job{}
	var assignedStaff sql.NullString
	var address, description, lastNote, poStatus sql.NullString
	var quoteValue, durationDays, crewSize sql.NullInt64
	var postsDate, panelsDate, lastSyncedAt sql.NullTime

	err := row.Scan(
		&job.ID,
		&job.ServiceM8UUID,
		&job.JobNumber,
		&job.CustomerName,
		&address,
		&description,
		&quoteValue,
		&job.Status,
		&job.Urgency,
		&job.DaysSinceContact,
		&job.DaysSinceQuote,
		&assignedStaff,
		&lastNote,
		&poStatus,
		&job.InstallStage,
		&postsDate,
		&job.PostsTentative,
		&panelsDate,
		&job.PanelsTentative,
		&durationDays,
		&crewSize,
		&job.CreatedAt,
		&job.UpdatedAt,
		&lastSyncedAt,
	)
	if err != nil {
		return nil, err
	}

	job.Address = address.String
	job.Description = description.String
	job.LastNote = lastNote.String
	job.PurchaseOrderStatus = poStatus.String
	job.AssignedStaffID = assignedStaff.String
	job.QuoteValue = quoteValue.Int64
	job.DurationDays = int(durationDays.Int64)
	job.CrewSize = int(crewSize.Int64)
	if postsDate.Valid {
		job.PostsDate = &postsDate.Time
	}
	if panelsDate.Valid {
		job.PanelsDate = &panelsDate.Time
	}
	if lastSyncedAt.Valid {
		job.LastSyncedAt = &lastSyncedAt.Time
	}

	return job, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
