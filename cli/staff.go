// ABOUTME: Staff CLI commands
// ABOUTME: Manages the crew roster used for board filtering and scheduling
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/Vonnie2507/probuild-command/db"
	"github.com/Vonnie2507/probuild-command/models"
)

// AddStaffCommand adds a staff member.
func AddStaffCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "Staff name (required)")
	role := fs.String("role", models.RoleProduction, "Role: sales, production, or install")
	capacity := fs.Float64("capacity", 8, "Daily capacity in hours")
	skills := fs.String("skills", "", "Comma-separated skills (posts, panels, production)")
	color := fs.String("color", "", "Display color as a hex string")
	_ = fs.Parse(args)

	staff := &models.Staff{
		Name:               *name,
		Role:               *role,
		DailyCapacityHours: *capacity,
		Color:              *color,
	}
	if *skills != "" {
		for _, skill := range strings.Split(*skills, ",") {
			staff.Skills = append(staff.Skills, strings.TrimSpace(skill))
		}
	}

	if err := db.CreateStaff(database, staff); err != nil {
		return fmt.Errorf("failed to create staff: %w", err)
	}

	fmt.Printf("✓ Staff created: %s (ID: %s)\n", staff.Name, staff.ID)
	fmt.Printf("  Role: %s, capacity %.1fh/day\n", staff.Role, staff.DailyCapacityHours)
	return nil
}

// ListStaffCommand lists the roster.
func ListStaffCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	all := fs.Bool("all", false, "Include deactivated staff")
	_ = fs.Parse(args)

	staff, err := db.ListStaff(database, *all)
	if err != nil {
		return fmt.Errorf("failed to list staff: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tROLE\tCAPACITY\tSKILLS\tACTIVE")
	for i := range staff {
		active := "yes"
		if !staff[i].Active {
			active = "no"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%.1fh\t%s\t%s\n",
			staff[i].ID,
			staff[i].Name,
			staff[i].Role,
			staff[i].DailyCapacityHours,
			strings.Join(staff[i].Skills, ","),
			active)
	}
	_ = w.Flush()

	fmt.Printf("\n%d staff member(s)\n", len(staff))
	return nil
}

// UpdateStaffCommand updates roster fields on an existing staff member.
func UpdateStaffCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	name := fs.String("name", "", "New name")
	role := fs.String("role", "", "New role")
	capacity := fs.Float64("capacity", -1, "New daily capacity in hours")
	skills := fs.String("skills", "", "Replacement comma-separated skills")
	color := fs.String("color", "", "New display color")
	deactivate := fs.Bool("deactivate", false, "Mark the staff member inactive")
	activate := fs.Bool("activate", false, "Mark the staff member active")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("staff ID is required")
	}

	staff, err := db.GetStaff(database, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to look up staff: %w", err)
	}
	if staff == nil {
		return fmt.Errorf("no staff found with ID %s", fs.Arg(0))
	}

	if *name != "" {
		staff.Name = *name
	}
	if *role != "" {
		if !models.ValidRole(*role) {
			return fmt.Errorf("invalid role: %s (valid: sales, production, install)", *role)
		}
		staff.Role = *role
	}
	if *capacity >= 0 {
		staff.DailyCapacityHours = *capacity
	}
	if *skills != "" {
		staff.Skills = nil
		for _, skill := range strings.Split(*skills, ",") {
			staff.Skills = append(staff.Skills, strings.TrimSpace(skill))
		}
	}
	if *color != "" {
		staff.Color = *color
	}
	if *deactivate {
		staff.Active = false
	}
	if *activate {
		staff.Active = true
	}

	if err := db.UpdateStaff(database, staff); err != nil {
		return fmt.Errorf("failed to update staff: %w", err)
	}

	fmt.Printf("✓ Staff updated: %s\n", staff.Name)
	return nil
}

// DeleteStaffCommand removes a staff member from the roster.
func DeleteStaffCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("staff ID is required")
	}

	staff, err := db.GetStaff(database, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to look up staff: %w", err)
	}
	if staff == nil {
		return fmt.Errorf("no staff found with ID %s", fs.Arg(0))
	}

	if err := db.DeleteStaff(database, staff.ID); err != nil {
		return fmt.Errorf("failed to delete staff: %w", err)
	}

	fmt.Printf("✓ Staff deleted: %s\n", staff.Name)
	return nil
}
