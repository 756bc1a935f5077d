// ABOUTME: Notes CLI command
// ABOUTME: Prints a job's ServiceM8 communication history, newest first
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"

	"github.com/Vonnie2507/probuild-command/db"
	"github.com/Vonnie2507/probuild-command/models"
)

// NotesCommand fetches and prints the communication history for a job.
func NotesCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("notes", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Maximum notes to show")
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

	client, err := connectedClient()
	if err != nil {
		return err
	}

	notes, err := client.GetJobNotes(context.Background(), job.ServiceM8UUID)
	if err != nil {
		return wrapAPIError("failed to fetch notes", err)
	}

	if len(notes) == 0 {
		fmt.Printf("No notes found for job #%s.\n", job.JobNumber)
		return nil
	}

	if len(notes) > *limit {
		notes = notes[:*limit]
	}

	fmt.Printf("Job #%s — %s\n\n", job.JobNumber, job.CustomerName)
	for i := range notes {
		prefix := "📝"
		switch notes[i].Kind() {
		case models.NoteKindEmail:
			prefix = "✉"
		case models.NoteKindSMS:
			prefix = "💬"
		case models.NoteKindCall:
			prefix = "📞"
		}

		fmt.Printf("%s  %s", prefix, notes[i].Timestamp.Format("2006-01-02 15:04"))
		if notes[i].Author != "" {
			fmt.Printf("  %s", notes[i].Author)
		}
		fmt.Printf("\n   %s\n\n", notes[i].Note)
	}

	return nil
}
