// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for Claude Desktop integration
package cli

import (
	"context"
	"database/sql"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Vonnie2507/probuild-command/handlers"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(db *sql.DB) error {
	log.Println("Starting Probuild MCP Server...")

	// Notes tool degrades to an error when ServiceM8 is not connected
	var notes handlers.NotesFetcher
	if client, err := connectedClient(); err == nil {
		notes = client
	}

	jobHandlers := handlers.NewJobHandlers(db, notes)
	staffHandlers := handlers.NewStaffHandlers(db)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "probuild",
		Version: "0.1.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_jobs",
		Description: "Search jobs by customer, job number, or address with staff and status filters",
	}, jobHandlers.QueryJobs)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "move_job",
		Description: "Move a job to another pipeline column",
	}, jobHandlers.MoveJob)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "schedule_job",
		Description: "Set a posts or panels install date for a job, optionally tentative",
	}, jobHandlers.ScheduleJob)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_job_notes",
		Description: "Fetch a job's ServiceM8 communication history, newest first",
	}, jobHandlers.GetJobNotes)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_staff",
		Description: "Add a staff member to the roster",
	}, staffHandlers.AddStaff)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_staff",
		Description: "Update a staff member's name, role, capacity, skills, or active flag",
	}, staffHandlers.UpdateStaff)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_staff",
		Description: "Remove a staff member from the roster",
	}, staffHandlers.RemoveStaff)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_staff",
		Description: "List the staff roster, optionally including deactivated members",
	}, staffHandlers.ListStaff)

	// Run server on stdio transport
	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
