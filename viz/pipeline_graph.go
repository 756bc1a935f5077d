// ABOUTME: Pipeline graph generation with graphviz
// ABOUTME: Renders board columns and their jobs as a left-to-right flow
package viz

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/Vonnie2507/probuild-command/board"
	"github.com/Vonnie2507/probuild-command/db"
	"github.com/Vonnie2507/probuild-command/models"
)

type GraphGenerator struct {
	db *sql.DB
}

func NewGraphGenerator(database *sql.DB) *GraphGenerator {
	return &GraphGenerator{db: database}
}

// GeneratePipelineGraph renders the board as a DOT graph: one node per
// column chained in pipeline order, with job nodes hanging off their column.
func (g *GraphGenerator) GeneratePipelineGraph() (string, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer func() {
		if err := gv.Close(); err != nil {
			fmt.Printf("Error closing graphviz: %v\n", err)
		}
	}()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() {
		if err := graph.Close(); err != nil {
			fmt.Printf("Error closing graph: %v\n", err)
		}
	}()

	graph.SetLabel("Job Pipeline")
	graph.SetRankDir(cgraph.LRRank)

	jobs, err := db.FindJobs(g.db, models.StaffAll, "", 10000)
	if err != nil {
		return "", fmt.Errorf("failed to fetch jobs: %w", err)
	}

	columns := board.Columns(jobs)

	var prev *cgraph.Node
	for _, column := range columns {
		label := fmt.Sprintf("%s\n%d jobs / $%dK", column.Status, len(column.Jobs), column.Value/100000)
		node, err := graph.CreateNodeByName("col_" + column.Status)
		if err != nil {
			return "", fmt.Errorf("failed to create column node: %w", err)
		}
		node.SetLabel(label)
		node.SetShape(cgraph.BoxShape)

		if prev != nil {
			if _, err := graph.CreateEdgeByName("", prev, node); err != nil {
				return "", fmt.Errorf("failed to create column edge: %w", err)
			}
		}
		prev = node

		for _, job := range column.Jobs {
			jobNode, err := graph.CreateNodeByName("job_" + job.ID.String()[:8])
			if err != nil {
				return "", fmt.Errorf("failed to create job node: %w", err)
			}
			jobNode.SetLabel(fmt.Sprintf("#%s\n%s", job.JobNumber, job.CustomerName))

			edge, err := graph.CreateEdgeByName("", node, jobNode)
			if err != nil {
				return "", fmt.Errorf("failed to create job edge: %w", err)
			}
			edge.SetStyle(cgraph.DottedEdgeStyle)
		}
	}

	// Generate DOT source
	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}
