// ABOUTME: Database schema definitions and migrations
// ABOUTME: Handles SQLite table creation and initialization
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	service_m8_uuid TEXT NOT NULL UNIQUE,
	job_number TEXT NOT NULL,
	customer_name TEXT NOT NULL,
	address TEXT,
	description TEXT,
	quote_value INTEGER,
	status TEXT NOT NULL,
	urgency TEXT NOT NULL DEFAULT 'low' CHECK(urgency IN ('critical', 'high', 'medium', 'low')),
	days_since_contact INTEGER NOT NULL DEFAULT 0,
	days_since_quote INTEGER NOT NULL DEFAULT 0,
	assigned_staff_id TEXT,
	last_note TEXT,
	purchase_order_status TEXT,
	install_stage TEXT NOT NULL DEFAULT 'pending' CHECK(install_stage IN ('pending', 'posts_scheduled', 'panels_scheduled')),
	posts_date DATETIME,
	posts_tentative INTEGER NOT NULL DEFAULT 0,
	panels_date DATETIME,
	panels_tentative INTEGER NOT NULL DEFAULT 0,
	duration_days INTEGER,
	crew_size INTEGER,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	last_synced_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
CREATE INDEX IF NOT EXISTS idx_jobs_assigned_staff ON jobs(assigned_staff_id);
CREATE INDEX IF NOT EXISTS idx_jobs_job_number ON jobs(job_number);

CREATE TABLE IF NOT EXISTS production_tasks (
	id TEXT PRIMARY KEY,
	job_id TEXT NOT NULL,
	name TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	assignee TEXT,
	created_at DATETIME NOT NULL,
	FOREIGN KEY (job_id) REFERENCES jobs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_production_tasks_job_id ON production_tasks(job_id);

CREATE TABLE IF NOT EXISTS staff (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	role TEXT NOT NULL CHECK(role IN ('sales', 'production', 'install')),
	daily_capacity_hours REAL NOT NULL DEFAULT 8,
	skills TEXT,
	color TEXT,
	active INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_staff_role ON staff(role);

CREATE TABLE IF NOT EXISTS sync_state (
	service TEXT PRIMARY KEY,
	last_sync_time DATETIME,
	last_sync_token TEXT,
	status TEXT CHECK(status IN ('idle', 'syncing', 'error')),
	error_message TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sync_runs (
	id TEXT PRIMARY KEY,
	sync_type TEXT NOT NULL CHECK(sync_type IN ('full', 'incremental', 'webhook')),
	status TEXT NOT NULL CHECK(status IN ('success', 'error', 'partial')),
	jobs_processed INTEGER NOT NULL DEFAULT 0,
	error_message TEXT,
	metadata TEXT,
	started_at DATETIME NOT NULL,
	completed_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_sync_runs_started ON sync_runs(started_at DESC);

CREATE TABLE IF NOT EXISTS sync_log (
	id TEXT PRIMARY KEY,
	source_service TEXT NOT NULL,
	source_id TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	imported_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	metadata TEXT,
	UNIQUE(source_service, source_id)
);

CREATE INDEX IF NOT EXISTS idx_sync_log_source ON sync_log(source_service, source_id);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
