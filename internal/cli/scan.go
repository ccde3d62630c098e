package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/screenflow/pkg/diagram"
	"github.com/matzehuels/screenflow/pkg/flow"
	"github.com/matzehuels/screenflow/pkg/graph"
	"github.com/matzehuels/screenflow/pkg/pipeline"
	"github.com/matzehuels/screenflow/pkg/scene"
)

// scanCommand creates the scan command for extracting the flow graph of a page.
func (c *CLI) scanCommand() *cobra.Command {
	var (
		flags requestFlags
		page  string
		quiet bool
	)

	cmd := &cobra.Command{
		Use:   "scan [document]",
		Short: "Extract the screen flow of a document page",
		Long: `Extract the screen flow of a document page.

The scan command walks the prototype interactions of a page and writes the
resulting flow graph (screens, transitions and starting points) as JSON.
The graph can be laid out with 'layout' or inspected with 'inspect'.

Supported documents: .yaml, .yml, .json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScan(cmd.Context(), args[0], page, &flags, quiet)
		},
	}

	cmd.Flags().StringVarP(&page, "page", "p", "", "page id or name (default: first page)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the screen table")
	flags.bindTier(cmd)
	flags.bindOutput(cmd, "<document>.graph.json")

	return cmd
}

func (c *CLI) runScan(ctx context.Context, input, page string, flags *requestFlags, quiet bool) error {
	src, err := c.openSource(input, page)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	g, err := runner.Scan(ctx, src, c.requestOptions(flags))
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Scanned %d screens", len(g.Nodes)))

	outputPath := flags.output
	if outputPath == "" {
		outputPath = basePath(input, ".yaml", ".yml", ".json") + ".graph.json"
	}
	if err := graph.WriteGraphFile(g, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	if !quiet {
		fmt.Println(renderFlowTable(g))
	}
	printSuccess("Scan complete")
	printFile(outputPath)
	printStats(len(g.Nodes), len(g.Edges), false)
	printNewline()
	printNextStep("Layout", appName+" layout "+outputPath)
	return nil
}

// openSource loads a document and selects a page. Host notifications go to
// the CLI logger.
func (c *CLI) openSource(path, page string) (pipeline.Source, error) {
	host, err := scene.Open(path, scene.WithLogger(c.Logger))
	if err != nil {
		return pipeline.Source{}, fmt.Errorf("load document %s: %w", path, err)
	}
	return pipeline.DocumentSource(host, page)
}

// renderFlowTable lists every screen with its outgoing transitions.
func renderFlowTable(g flow.Graph) string {
	starts := make(map[string]bool, len(g.StartingPointIDs))
	for _, id := range g.StartingPointIDs {
		starts[id] = true
	}

	rows := make([][]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		var targets []string
		for _, e := range g.Edges {
			if e.SourceID != n.ID {
				continue
			}
			target := e.TargetID
			if t, ok := g.Node(e.TargetID); ok {
				target = t.Name
			}
			targets = append(targets, fmt.Sprintf("%s %s %s", diagram.TriggerLabel(e.Trigger), iconArrow, target))
		}
		start := ""
		if starts[n.ID] {
			start = iconSuccess
		}
		rows = append(rows, []string{
			n.Name,
			fmt.Sprintf("%dx%d", n.Width, n.Height),
			start,
			strings.Join(targets, "\n"),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Screen", "Size", "Start", "Transitions").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if col == 2 {
				return cellStyle.Foreground(colorGreen)
			}
			if col == 1 {
				return cellStyle.Foreground(colorDim)
			}
			return cellStyle
		}).
		Render()
}
