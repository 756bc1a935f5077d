// ABOUTME: Web server and TUI subcommands
// ABOUTME: Starts the board UI with ServiceM8 connected when a token exists
package cli

import (
	"database/sql"
	"flag"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Vonnie2507/probuild-command/tui"
	"github.com/Vonnie2507/probuild-command/web"
)

// ServeCommand starts the web command center.
func ServeCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", 8420, "HTTP port")
	_ = fs.Parse(args)

	var server *web.Server
	var err error

	client, clientErr := connectedClient()
	if clientErr != nil {
		fmt.Printf("⚠ ServiceM8 not connected, notes and webhooks disabled: %v\n", clientErr)
		server, err = web.NewServer(database, nil, nil)
	} else {
		server, err = web.NewServer(database, client, client)
	}
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return server.Start(*port)
}

// TUICommand starts the interactive terminal board.
func TUICommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("tui", flag.ExitOnError)
	_ = fs.Parse(args)

	var model tui.Model
	client, clientErr := connectedClient()
	if clientErr != nil {
		model = tui.NewModel(database, nil)
	} else {
		model = tui.NewModel(database, client)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI failed: %w", err)
	}

	return nil
}
