// ABOUTME: Visualization CLI commands
// ABOUTME: Renders the dashboard summary and pipeline graph
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/Vonnie2507/probuild-command/viz"
)

// DashboardCommand prints the terminal dashboard.
func DashboardCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	_ = fs.Parse(args)

	stats, err := viz.GenerateDashboardStats(database)
	if err != nil {
		return fmt.Errorf("failed to generate dashboard: %w", err)
	}

	fmt.Print(viz.RenderDashboard(stats))
	return nil
}

// VizGraphPipelineCommand generates the pipeline graph.
func VizGraphPipelineCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("pipeline", flag.ExitOnError)
	output := fs.String("output", "", "Write graph to file instead of stdout")
	_ = fs.Parse(args)

	generator := viz.NewGraphGenerator(database)
	dot, err := generator.GeneratePipelineGraph()
	if err != nil {
		return fmt.Errorf("failed to generate graph: %w", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(dot), 0644); err != nil {
			return fmt.Errorf("failed to write graph: %w", err)
		}
		fmt.Printf("✓ Graph written to %s\n", *output)
		return nil
	}

	fmt.Println(dot)
	return nil
}
