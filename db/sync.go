// ABOUTME: Database operations for sync_state, sync_runs, and sync_log tables
// ABOUTME: Manages sync status, tokens, run audit records, and import tracking
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Vonnie2507/probuild-command/models"
)

// SyncState represents the sync state for a service.
type SyncState struct {
	Service       string
	LastSyncTime  *time.Time
	LastSyncToken *string
	Status        string
	ErrorMessage  *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// GetSyncState retrieves the sync state for a service.
func GetSyncState(db *sql.DB, service string) (*SyncState, error) {
	var state SyncState
	var lastSyncTime sql.NullTime
	var lastSyncToken sql.NullString
	var errorMessage sql.NullString

	err := db.QueryRow(`
		SELECT service, last_sync_time, last_sync_token, status, error_message, created_at, updated_at
		FROM sync_state
		WHERE service = ?
	`, service).Scan(
		&state.Service,
		&lastSyncTime,
		&lastSyncToken,
		&state.Status,
		&errorMessage,
		&state.CreatedAt,
		&state.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync state: %w", err)
	}

	if lastSyncTime.Valid {
		state.LastSyncTime = &lastSyncTime.Time
	}
	if lastSyncToken.Valid {
		state.LastSyncToken = &lastSyncToken.String
	}
	if errorMessage.Valid {
		state.ErrorMessage = &errorMessage.String
	}

	return &state, nil
}

// UpdateSyncStatus updates the sync status for a service.
func UpdateSyncStatus(db *sql.DB, service, status string, errorMsg *string) error {
	var errorMsgVal sql.NullString
	if errorMsg != nil {
		errorMsgVal = sql.NullString{String: *errorMsg, Valid: true}
	}

	_, err := db.Exec(`
		INSERT INTO sync_state (service, status, error_message, created_at, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(service) DO UPDATE SET
			status = excluded.status,
			error_message = excluded.error_message,
			updated_at = CURRENT_TIMESTAMP
	`, service, status, errorMsgVal)

	if err != nil {
		return fmt.Errorf("failed to update sync status: %w", err)
	}

	return nil
}

// UpdateSyncToken updates the sync token and last sync time for a service.
func UpdateSyncToken(db *sql.DB, service, token string) error {
	_, err := db.Exec(`
		INSERT INTO sync_state (service, last_sync_time, last_sync_token, status, created_at, updated_at)
		VALUES (?, CURRENT_TIMESTAMP, ?, 'idle', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(service) DO UPDATE SET
			last_sync_time = CURRENT_TIMESTAMP,
			last_sync_token = excluded.last_sync_token,
			status = 'idle',
			error_message = NULL,
			updated_at = CURRENT_TIMESTAMP
	`, service, token)

	if err != nil {
		return fmt.Errorf("failed to update sync token: %w", err)
	}

	return nil
}

// CheckSyncLogExists checks if an entity has already been imported.
func CheckSyncLogExists(db *sql.DB, sourceService, sourceID string) (bool, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM sync_log
		WHERE source_service = ? AND source_id = ?
	`, sourceService, sourceID).Scan(&count)

	if err != nil {
		return false, fmt.Errorf("failed to check sync log: %w", err)
	}

	return count > 0, nil
}

// CreateSyncLog creates a sync log entry for an imported entity.
func CreateSyncLog(db *sql.DB, id, sourceService, sourceID, entityType, entityID, metadata string) error {
	_, err := db.Exec(`
		INSERT INTO sync_log (id, source_service, source_id, entity_type, entity_id, imported_at, metadata)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, ?)
		ON CONFLICT(source_service, source_id) DO UPDATE SET
			imported_at = CURRENT_TIMESTAMP,
			metadata = excluded.metadata
	`, id, sourceService, sourceID, entityType, entityID, metadata)

	if err != nil {
		return fmt.Errorf("failed to create sync log: %w", err)
	}

	return nil
}

// RecordSyncRun writes the audit record for one synchronization attempt.
func RecordSyncRun(db *sql.DB, run *models.SyncRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	_, err := db.Exec(`
		INSERT INTO sync_runs (id, sync_type, status, jobs_processed, error_message, metadata, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID.String(), run.SyncType, run.Status, run.JobsProcessed,
		nullIfEmpty(run.ErrorMessage), nullIfEmpty(run.Metadata), run.StartedAt, run.CompletedAt)

	if err != nil {
		return fmt.Errorf("failed to record sync run: %w", err)
	}

	return nil
}

// ListSyncRuns returns the most recent sync runs, newest first.
func ListSyncRuns(db *sql.DB, limit int) ([]models.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT id, sync_type, status, jobs_processed, error_message, metadata, started_at, completed_at
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []models.SyncRun
	for rows.Next() {
		var run models.SyncRun
		var errorMessage, metadata sql.NullString
		var completedAt sql.NullTime

		if err := rows.Scan(&run.ID, &run.SyncType, &run.Status, &run.JobsProcessed,
			&errorMessage, &metadata, &run.StartedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sync run: %w", err)
		}

		run.ErrorMessage = errorMessage.String
		run.Metadata = metadata.String
		if completedAt.Valid {
			run.CompletedAt = &completedAt.Time
		}

		runs = append(runs, run)
	}

	return runs, rows.Err()
}
