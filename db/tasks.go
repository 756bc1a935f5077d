// ABOUTME: Production task database operations
// ABOUTME: Handles per-job production checklist items
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/Vonnie2507/probuild-command/models"
)

func AddProductionTask(db *sql.DB, task *models.ProductionTask) error {
	task.ID = uuid.New()
	task.CreatedAt = time.Now()

	_, err := db.Exec(`
		INSERT INTO production_tasks (id, job_id, name, completed, assignee, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, task.ID.String(), task.JobID.String(), task.Name, task.Completed, task.Assignee, task.CreatedAt)

	return err
}

func GetProductionTasks(db *sql.DB, jobID uuid.UUID) ([]models.ProductionTask, error) {
	rows, err := db.Query(`
		SELECT id, job_id, name, completed, assignee, created_at
		FROM production_tasks
		WHERE job_id = ?
		ORDER BY created_at
	`, jobID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.ProductionTask
	for rows.Next() {
		var task models.ProductionTask
		var assignee sql.NullString

		if err := rows.Scan(&task.ID, &task.JobID, &task.Name, &task.Completed, &assignee, &task.CreatedAt); err != nil {
			return nil, err
		}
		task.Assignee = assignee.String
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

func SetTaskCompleted(db *sql.DB, id uuid.UUID, completed bool) error {
	_, err := db.Exec(`
		UPDATE production_tasks SET completed = ? WHERE id = ?
	`, completed, id.String())
	return err
}
