// ABOUTME: Entry point for the Probuild command center
// ABOUTME: Routes to the web board, TUI, MCP server, or CLI commands
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/Vonnie2507/probuild-command/cli"
	"github.com/Vonnie2507/probuild-command/db"
)

const version = "0.1.0"

func main() {
	// ServiceM8 app credentials can live in a local .env
	_ = godotenv.Load()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/probuild-command/command.db)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("probuild version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	finalDBPath := getDatabasePath(*dbPath)
	database, err := db.OpenDatabase(finalDBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if *initOnly {
		log.Printf("Database initialized at %s", finalDBPath)
		os.Exit(0)
	}

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "mcp":
		if err := cli.MCPCommand(database); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "serve":
		if err := cli.ServeCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "tui":
		if err := cli.TUICommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "jobs":
		if len(commandArgs) == 0 {
			fmt.Println("Error: jobs requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		jobsCommand := commandArgs[0]
		jobsArgs := commandArgs[1:]

		switch jobsCommand {
		case "list":
			if err := cli.ListJobsCommand(database, jobsArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "show":
			if err := cli.ShowJobCommand(database, jobsArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "move":
			if err := cli.MoveJobCommand(database, jobsArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "schedule":
			if err := cli.ScheduleJobCommand(database, jobsArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "add-task":
			if err := cli.AddTaskCommand(database, jobsArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		default:
			fmt.Printf("Unknown jobs command: %s\n\n", jobsCommand)
			printUsage()
			os.Exit(1)
		}

	case "staff":
		if len(commandArgs) == 0 {
			fmt.Println("Error: staff requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		staffCommand := commandArgs[0]
		staffArgs := commandArgs[1:]

		switch staffCommand {
		case "add":
			if err := cli.AddStaffCommand(database, staffArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "list":
			if err := cli.ListStaffCommand(database, staffArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "update":
			if err := cli.UpdateStaffCommand(database, staffArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "delete":
			if err := cli.DeleteStaffCommand(database, staffArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		default:
			fmt.Printf("Unknown staff command: %s\n\n", staffCommand)
			printUsage()
			os.Exit(1)
		}

	case "sync":
		if len(commandArgs) == 0 {
			fmt.Println("Error: sync requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		syncCommand := commandArgs[0]
		syncArgs := commandArgs[1:]

		switch syncCommand {
		case "init":
			if err := cli.SyncInitCommand(database, syncArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "jobs":
			if err := cli.SyncJobsCommand(database, syncArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "status":
			if err := cli.SyncStatusCommand(database, syncArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		default:
			fmt.Printf("Unknown sync command: %s\n\n", syncCommand)
			printUsage()
			os.Exit(1)
		}

	case "notes":
		if err := cli.NotesCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "viz":
		if len(commandArgs) == 0 {
			fmt.Println("Error: viz requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		vizCommand := commandArgs[0]
		vizArgs := commandArgs[1:]

		switch vizCommand {
		case "dashboard":
			if err := cli.DashboardCommand(database, vizArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "graph":
			if err := cli.VizGraphPipelineCommand(database, vizArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		default:
			fmt.Printf("Unknown viz command: %s\n\n", vizCommand)
			printUsage()
			os.Exit(1)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func getDatabasePath(dbPath string) string {
	if dbPath != "" {
		return dbPath
	}
	return filepath.Join(xdg.DataHome, "probuild-command", "command.db")
}

func printUsage() {
	fmt.Printf(`probuild v%s - Fencing & decking job command center

USAGE:
  probuild [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/probuild-command/command.db)
  --init                 Initialize database and exit

COMMANDS:
  serve                  Start the web board (default port 8420)
    --port <n>              HTTP port

  tui                    Start the interactive terminal board

  mcp                    Start MCP server for Claude Desktop

  jobs list              List jobs
    --query <text>          Search customer, job number, or address
    --staff <id>            Filter by assigned staff ('all' for everyone)
    --status <status>       Filter by pipeline status
    --limit <n>             Max results (default: 50)

  jobs show <job#>       Show one job in full
  jobs move <job#>       Move a job to another column
    --status <status>       Target status (required)

  jobs schedule <job#>   Set an install date
    --type <posts|panels>   Install phase (required)
    --date <YYYY-MM-DD>     Install date (required)
    --tentative             Mark the date tentative

  jobs add-task <job#>   Add a production checklist item
    --name <name>           Task name (required)
    --assignee <staff>      Staff member responsible

  staff add              Add a staff member
    --name <name>           Name (required)
    --role <role>           sales, production, or install
    --capacity <hours>      Daily capacity (default: 8)
    --skills <list>         Comma-separated skills

  staff list             List the roster (--all includes inactive)
  staff update <id>      Update a staff member
  staff delete <id>      Remove a staff member

  sync init              Connect to ServiceM8 (OAuth)
  sync jobs              Import jobs (--full for a complete import)
  sync status            Show sync state and recent runs

  notes <job#>           Print a job's communication history

  viz dashboard          Terminal pipeline dashboard
  viz graph              Pipeline graph (--output writes to a file)
`, version)
}
