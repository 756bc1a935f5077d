// ABOUTME: Staff database operations
// ABOUTME: Handles staff CRUD with generated string IDs and skill sets
package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Vonnie2507/probuild-command/models"
)

// CreateStaff inserts a new staff member. IDs are generated, never derived
// from the name: two people named "Sam" must not collide. The "all" filter
// sentinel is refused outright.
func CreateStaff(db *sql.DB, staff *models.Staff) error {
	if strings.TrimSpace(staff.Name) == "" {
		return fmt.Errorf("staff name is required")
	}
	if staff.ID == models.StaffAll {
		return fmt.Errorf("%q is a reserved staff id", models.StaffAll)
	}
	if staff.Role != "" && !models.ValidRole(staff.Role) {
		return fmt.Errorf("invalid role: %s (valid: sales, production, install)", staff.Role)
	}

	if staff.ID == "" {
		staff.ID = uuid.New().String()
	}
	if staff.Role == "" {
		staff.Role = models.RoleProduction
	}
	if staff.DailyCapacityHours == 0 {
		staff.DailyCapacityHours = 8
	}

	now := time.Now()
	staff.CreatedAt = now
	staff.UpdatedAt = now
	staff.Active = true

	_, err := db.Exec(`
		INSERT INTO staff (id, name, role, daily_capacity_hours, skills, color, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, staff.ID, staff.Name, staff.Role, staff.DailyCapacityHours, joinSkills(staff.Skills),
		staff.Color, staff.Active, staff.CreatedAt, staff.UpdatedAt)

	return err
}

func GetStaff(db *sql.DB, id string) (*models.Staff, error) {
	staff := &models.Staff{}
	var skills, color sql.NullString

	err := db.QueryRow(`
		SELECT id, name, role, daily_capacity_hours, skills, color, active, created_at, updated_at
		FROM staff WHERE id = ?
	`, id).Scan(
		&staff.ID,
		&staff.Name,
		&staff.Role,
		&staff.DailyCapacityHours,
		&skills,
		&color,
		&staff.Active,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	staff.Skills = splitSkills(skills.String)
	staff.Color = color.String

	return staff, nil
}

// ListStaff returns staff members ordered by name. The "all" sentinel is a
// filter value, not a row, so it can never appear here.
func ListStaff(db *sql.DB, includeInactive bool) ([]models.Staff, error) {
	query := `
		SELECT id, name, role, daily_capacity_hours, skills, color, active, created_at, updated_at
		FROM staff
	`
	if !includeInactive {
		query += " WHERE active = 1"
	}
	query += " ORDER BY name"

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.Staff
	for rows.Next() {
		var staff models.Staff
		var skills, color sql.NullString

		if err := rows.Scan(&staff.ID, &staff.Name, &staff.Role, &staff.DailyCapacityHours,
			&skills, &color, &staff.Active, &staff.CreatedAt, &staff.UpdatedAt); err != nil {
			return nil, err
		}

		staff.Skills = splitSkills(skills.String)
		staff.Color = color.String
		members = append(members, staff)
	}

	return members, rows.Err()
}

func UpdateStaff(db *sql.DB, staff *models.Staff) error {
	if strings.TrimSpace(staff.Name) == "" {
		return fmt.Errorf("staff name is required")
	}
	if !models.ValidRole(staff.Role) {
		return fmt.Errorf("invalid role: %s (valid: sales, production, install)", staff.Role)
	}

	staff.UpdatedAt = time.Now()

	_, err := db.Exec(`
		UPDATE staff
		SET name = ?, role = ?, daily_capacity_hours = ?, skills = ?, color = ?, active = ?, updated_at = ?
		WHERE id = ?
	`, staff.Name, staff.Role, staff.DailyCapacityHours, joinSkills(staff.Skills),
		staff.Color, staff.Active, staff.UpdatedAt, staff.ID)

	return err
}

func DeleteStaff(db *sql.DB, id string) error {
	_, err := db.Exec(`DELETE FROM staff WHERE id = ?`, id)
	return err
}

func joinSkills(skills []string) string {
	return strings.Join(skills, ",")
}

func splitSkills(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
