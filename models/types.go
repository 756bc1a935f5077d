// ABOUTME: Data models for command center entities
// ABOUTME: Defines Job, ProductionTask, Staff, JobNote, and SyncRun structs
package models

import (
	"time"

	"github.com/google/uuid"
)

type Job struct {
	ID                  uuid.UUID  `json:"id"`
	ServiceM8UUID       string     `json:"service_m8_uuid"`
	JobNumber           string     `json:"job_number"`
	CustomerName        string     `json:"customer_name"`
	Address             string     `json:"address,omitempty"`
	Description         string     `json:"description,omitempty"`
	QuoteValue          int64      `json:"quote_value,omitempty"` // in cents
	Status              string     `json:"status"`
	Urgency             string     `json:"urgency"`
	DaysSinceContact    int        `json:"days_since_contact"`
	DaysSinceQuote      int        `json:"days_since_quote"`
	AssignedStaffID     string     `json:"assigned_staff_id,omitempty"`
	LastNote            string     `json:"last_note,omitempty"`
	PurchaseOrderStatus string     `json:"purchase_order_status,omitempty"`
	InstallStage        string     `json:"install_stage"`
	PostsDate           *time.Time `json:"posts_date,omitempty"`
	PostsTentative      bool       `json:"posts_tentative,omitempty"`
	PanelsDate          *time.Time `json:"panels_date,omitempty"`
	PanelsTentative     bool       `json:"panels_tentative,omitempty"`
	DurationDays        int        `json:"duration_days,omitempty"`
	CrewSize            int        `json:"crew_size,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	LastSyncedAt        *time.Time `json:"last_synced_at,omitempty"`
}

type ProductionTask struct {
	ID        uuid.UUID `json:"id"`
	JobID     uuid.UUID `json:"job_id"`
	Name      string    `json:"name"`
	Completed bool      `json:"completed"`
	Assignee  string    `json:"assignee,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Staff struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Role               string    `json:"role"`
	DailyCapacityHours float64   `json:"daily_capacity_hours"`
	Skills             []string  `json:"skills,omitempty"`
	Color              string    `json:"color,omitempty"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// JobNote is one communication history entry fetched from ServiceM8.
type JobNote struct {
	UUID        string    `json:"uuid"`
	Note        string    `json:"note"`
	Timestamp   time.Time `json:"timestamp"`
	EntryMethod string    `json:"entry_method,omitempty"`
	NoteType    string    `json:"note_type,omitempty"`
	Author      string    `json:"author,omitempty"`
}

// SyncRun is the audit record for one synchronization attempt.
type SyncRun struct {
	ID            uuid.UUID  `json:"id"`
	SyncType      string     `json:"sync_type"`
	Status        string     `json:"status"`
	JobsProcessed int        `json:"jobs_processed"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	Metadata      string     `json:"metadata,omitempty"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// Pipeline status constants. Status is free text in the schema; these are
// the columns the board renders.
const (
	StatusNewLead    = "new_lead"
	StatusQuoteSent  = "quote_sent"
	StatusFollowUp   = "follow_up"
	StatusWon        = "won"
	StatusProduction = "production"
	StatusScheduling = "scheduling"
	StatusCompleted  = "completed"
)

// PipelineColumns is the board column order.
var PipelineColumns = []string{
	StatusNewLead,
	StatusQuoteSent,
	StatusFollowUp,
	StatusWon,
	StatusProduction,
	StatusScheduling,
	StatusCompleted,
}

// Urgency constants. Display priority only, never workflow gating.
const (
	UrgencyCritical = "critical"
	UrgencyHigh     = "high"
	UrgencyMedium   = "medium"
	UrgencyLow      = "low"
)

// Install stage constants.
const (
	InstallPending         = "pending"
	InstallPostsScheduled  = "posts_scheduled"
	InstallPanelsScheduled = "panels_scheduled"
)

// Work type constants for scheduling.
const (
	WorkTypePosts  = "posts"
	WorkTypePanels = "panels"
)

// Staff role constants.
const (
	RoleSales      = "sales"
	RoleProduction = "production"
	RoleInstall    = "install"
)

// Staff skill constants.
const (
	SkillPosts      = "posts"
	SkillPanels     = "panels"
	SkillProduction = "production"
)

// StaffAll is the reserved staff filter sentinel meaning "no filter".
// It must never appear as a persisted staff ID.
const StaffAll = "all"

// Sync run type constants.
const (
	SyncTypeFull        = "full"
	SyncTypeIncremental = "incremental"
	SyncTypeWebhook     = "webhook"
)

// Sync run status constants.
const (
	SyncRunSuccess = "success"
	SyncRunError   = "error"
	SyncRunPartial = "partial"
)

// Lifecycle phase constants. Coarse category independent of fine-grained status.
const (
	PhaseQuote     = "quote"
	PhaseWorkOrder = "work_order"
)

// PhaseForStatus maps a pipeline status to its lifecycle phase.
// Anything past follow_up is committed work.
func PhaseForStatus(status string) string {
	switch status {
	case StatusNewLead, StatusQuoteSent, StatusFollowUp:
		return PhaseQuote
	default:
		return PhaseWorkOrder
	}
}

// ValidRole reports whether role is one of the closed role enumeration.
func ValidRole(role string) bool {
	switch role {
	case RoleSales, RoleProduction, RoleInstall:
		return true
	}
	return false
}

// ValidWorkType reports whether workType is posts or panels.
func ValidWorkType(workType string) bool {
	return workType == WorkTypePosts || workType == WorkTypePanels
}
