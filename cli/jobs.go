// ABOUTME: Job CLI commands
// ABOUTME: Human-friendly commands for listing, moving, and scheduling jobs
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/Vonnie2507/probuild-command/db"
	"github.com/Vonnie2507/probuild-command/models"
	"github.com/Vonnie2507/probuild-command/servicem8"
)

// ListJobsCommand lists jobs with the board filters.
func ListJobsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	query := fs.String("query", "", "Search by customer, job number, or address")
	staff := fs.String("staff", models.StaffAll, "Filter by assigned staff ID")
	status := fs.String("status", "", "Filter by pipeline status")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	jobs, err := db.FindJobs(database, *staff, *query, *limit)
	if err != nil {
		return fmt.Errorf("failed to find jobs: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "JOB #\tCUSTOMER\tSTATUS\tURGENCY\tQUOTE\tPOSTS\tPANELS")

	shown := 0
	for i := range jobs {
		if *status != "" && jobs[i].Status != *status {
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			jobs[i].JobNumber,
			jobs[i].CustomerName,
			jobs[i].Status,
			jobs[i].Urgency,
			formatMoney(jobs[i].QuoteValue),
			formatDate(jobs[i].PostsDate, jobs[i].PostsTentative),
			formatDate(jobs[i].PanelsDate, jobs[i].PanelsTentative))
		shown++
	}
	_ = w.Flush()

	fmt.Printf("\n%d job(s)\n", shown)
	return nil
}

// ShowJobCommand prints one job in full, looked up by job number.
func ShowJobCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("job number is required")
	}

	job, err := db.GetJobByNumber(database, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to look up job: %w", err)
	}
	if job == nil {
		return fmt.Errorf("no job found with number %s", fs.Arg(0))
	}

	fmt.Printf("Job #%s — %s\n", job.JobNumber, job.CustomerName)
	if job.Address != "" {
		fmt.Printf("  Address:       %s\n", job.Address)
	}
	if job.Description != "" {
		fmt.Printf("  Description:   %s\n", job.Description)
	}
	fmt.Printf("  Status:        %s (%s)\n", job.Status, models.PhaseForStatus(job.Status))
	fmt.Printf("  Urgency:       %s\n", job.Urgency)
	if job.QuoteValue > 0 {
		fmt.Printf("  Quote:         %s\n", formatMoney(job.QuoteValue))
	}
	if job.AssignedStaffID != "" {
		if staff, _ := db.GetStaff(database, job.AssignedStaffID); staff != nil {
			fmt.Printf("  Assigned:      %s\n", staff.Name)
		}
	}
	fmt.Printf("  Install stage: %s\n", job.InstallStage)
	fmt.Printf("  Posts:         %s\n", formatDate(job.PostsDate, job.PostsTentative))
	fmt.Printf("  Panels:        %s\n", formatDate(job.PanelsDate, job.PanelsTentative))
	if job.ServiceM8UUID != "" {
		fmt.Printf("  ServiceM8:     %s\n", servicem8.JobPageURL(job.ServiceM8UUID))
	}

	tasks, err := db.GetProductionTasks(database, job.ID)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	if len(tasks) > 0 {
		fmt.Println("\n  Production tasks:")
		for _, task := range tasks {
			mark := "✗"
			if task.Completed {
				mark = "✓"
			}
			fmt.Printf("    %s %s\n", mark, task.Name)
		}
	}

	return nil
}

// MoveJobCommand moves a job to another pipeline column.
func MoveJobCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("move", flag.ExitOnError)
	status := fs.String("status", "", "Target status (required)")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("job number is required")
	}
	if *status == "" {
		return fmt.Errorf("--status is required")
	}

	job, err := db.GetJobByNumber(database, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to look up job: %w", err)
	}
	if job == nil {
		return fmt.Errorf("no job found with number %s", fs.Arg(0))
	}

	if err := db.MoveJob(database, job.ID, *status); err != nil {
		return fmt.Errorf("failed to move job: %w", err)
	}

	fmt.Printf("✓ Job #%s moved: %s → %s\n", job.JobNumber, job.Status, *status)
	return nil
}

// ScheduleJobCommand sets a posts or panels install date.
func ScheduleJobCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	workType := fs.String("type", "", "Install phase: posts or panels (required)")
	date := fs.String("date", "", "Install date YYYY-MM-DD (required)")
	tentative := fs.Bool("tentative", false, "Mark the date as tentative")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("job number is required")
	}
	if !models.ValidWorkType(*workType) {
		return fmt.Errorf("--type must be posts or panels")
	}

	parsed, err := time.Parse("2006-01-02", *date)
	if err != nil {
		return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
	}

	job, err := db.GetJobByNumber(database, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to look up job: %w", err)
	}
	if job == nil {
		return fmt.Errorf("no job found with number %s", fs.Arg(0))
	}

	if err := db.ScheduleJob(database, job.ID, *workType, parsed, *tentative); err != nil {
		return fmt.Errorf("failed to schedule job: %w", err)
	}

	suffix := ""
	if *tentative {
		suffix = " (tentative)"
	}
	fmt.Printf("✓ Job #%s %s scheduled for %s%s\n", job.JobNumber, *workType, parsed.Format("Mon 2 Jan 2006"), suffix)
	return nil
}

// AddTaskCommand adds a production checklist item to a job.
func AddTaskCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-task", flag.ExitOnError)
	name := fs.String("name", "", "Task name (required)")
	assignee := fs.String("assignee", "", "Staff member responsible")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("job number is required")
	}
	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	job, err := db.GetJobByNumber(database, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to look up job: %w", err)
	}
	if job == nil {
		return fmt.Errorf("no job found with number %s", fs.Arg(0))
	}

	task := &models.ProductionTask{
		JobID:    job.ID,
		Name:     *name,
		Assignee: *assignee,
	}
	if err := db.AddProductionTask(database, task); err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}

	fmt.Printf("✓ Task added to job #%s: %s\n", job.JobNumber, task.Name)
	return nil
}

func formatMoney(cents int64) string {
	if cents == 0 {
		return "-"
	}
	return fmt.Sprintf("$%.2f", float64(cents)/100.0)
}

func formatDate(ts *time.Time, tentative bool) string {
	if ts == nil {
		return "-"
	}
	s := ts.Format("2006-01-02")
	if tentative {
		s += "?"
	}
	return s
}
